// Package connector implements the clients that talk to the remote VIP
// authorities (the RCON console and the CRCON HTTP admin API) and the Discord
// moderation webhook.
package connector

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/frontline-pass/frontline/internal/util"
)

const (
	defaultHTTPTimeout = 20 * time.Second
	sessionCookieName  = "sessionid"
	maxSearchPerPage   = 100
	maxErrorBodyLen    = 512
)

// tokenKeys are the fields a login response may carry its token in.
var tokenKeys = []string{"token", "jwt", "access_token", "accessToken"}

// HTTPCredentials configures the HTTP admin API integration.
type HTTPCredentials struct {
	BaseURL     string
	BearerToken string
	Username    string
	Password    string
	Verify      bool
	Timeout     time.Duration
}

// HasLogin reports whether username and password are both set.
func (c HTTPCredentials) HasLogin() bool {
	return c.Username != "" && c.Password != ""
}

// AddVipRequest is the JSON body of POST {root}/add_vip.
type AddVipRequest struct {
	PlayerID    string `json:"player_id"`
	Description string `json:"description"`
	Expiration  string `json:"expiration,omitempty"`
	PlayerName  string `json:"player_name,omitempty"`
}

// PlayerMatch is one (player id, display name) search hit.
type PlayerMatch struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

// VipHTTPClient is the HTTP gateway to the remote admin API. It authenticates
// with a static bearer token or an interactive login, and re-authenticates
// once when a call comes back 401. One instance may be shared between grants.
type VipHTTPClient struct {
	mu sync.Mutex

	creds  HTTPCredentials
	client *http.Client
	logger zerolog.Logger

	// Auth state
	token         string
	authenticated bool
	bearerFailed  bool
}

// NewVipHTTPClient creates a gateway. A nil httpClient builds one with a
// cookie jar, the configured timeout and TLS verification setting.
func NewVipHTTPClient(creds HTTPCredentials, httpClient *http.Client) *VipHTTPClient {
	if creds.Timeout <= 0 {
		creds.Timeout = defaultHTTPTimeout
	}
	creds.BaseURL = strings.TrimRight(strings.TrimSpace(creds.BaseURL), "/")

	if httpClient == nil {
		jar, _ := cookiejar.New(nil)
		httpClient = &http.Client{
			Timeout:   creds.Timeout,
			Jar:       jar,
			Transport: newTransport(creds.Verify),
		}
	}
	if httpClient.Jar == nil {
		jar, _ := cookiejar.New(nil)
		httpClient.Jar = jar
	}

	return &VipHTTPClient{
		creds:  creds,
		client: httpClient,
		logger: util.ComponentLogger("vip_http"),
	}
}

func newTransport(verify bool) http.RoundTripper {
	if verify {
		return http.DefaultTransport
	}
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return http.DefaultTransport
	}
	t := base.Clone()
	t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via CRCON_HTTP_VERIFY=false
	return t
}

// Endpoint returns the absolute URL of an API operation. The API root is the
// base URL with a single /api suffix.
func (c *VipHTTPClient) Endpoint(name string) string {
	base := c.creds.BaseURL
	if !strings.HasSuffix(strings.ToLower(base), "/api") {
		base += "/api"
	}
	return base + "/" + strings.TrimLeft(name, "/")
}

// authorizationToken returns the token to send, if any. Caller holds mu.
func (c *VipHTTPClient) authorizationToken() string {
	if c.creds.BearerToken != "" && !c.bearerFailed {
		return c.creds.BearerToken
	}
	return c.token
}

func (c *VipHTTPClient) headers(req *http.Request, includeAuth bool) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if !includeAuth {
		return
	}

	c.mu.Lock()
	token := c.authorizationToken()
	c.mu.Unlock()

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else {
		req.Header.Set("Referer", c.creds.BaseURL)
	}
}

// ensureAuthenticated logs in before the first call when neither a bearer
// token nor a cached session is available.
func (c *VipHTTPClient) ensureAuthenticated(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.authorizationToken() != "" || c.authenticated || !c.creds.HasLogin() {
		return nil
	}
	return c.loginLocked(ctx)
}

// loginLocked performs the interactive login. Caller holds mu.
func (c *VipHTTPClient) loginLocked(ctx context.Context) error {
	if !c.creds.HasLogin() {
		return &VipHTTPError{Msg: "CRCON HTTP username/password are not configured."}
	}

	body, err := json.Marshal(map[string]string{
		"username": c.creds.Username,
		"password": c.creds.Password,
	})
	if err != nil {
		return &VipHTTPError{Msg: "failed to encode login request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint("login"), bytes.NewReader(body))
	if err != nil {
		return &VipHTTPError{Msg: fmt.Sprintf("failed to create login request: %v", err), Err: err}
	}
	c.headers(req, false)

	c.logger.Debug().Str("url", req.URL.String()).Msg("logging in to http api")

	resp, err := c.client.Do(req)
	if err != nil {
		return &VipHTTPError{Msg: fmt.Sprintf("HTTP API login request failed: %v", err), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &VipHTTPError{Msg: fmt.Sprintf("failed to read login response: %v", err), StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return &VipHTTPError{
			Msg:        fmt.Sprintf("Login failed with status %d: %s", resp.StatusCode, truncate(raw)),
			StatusCode: resp.StatusCode,
		}
	}

	data, err := parseObject(raw, resp.StatusCode)
	if err != nil {
		return err
	}
	if failed(data) {
		return &VipHTTPError{
			Msg:        fmt.Sprintf("Login failed: %s", errorDetail(data, raw)),
			StatusCode: resp.StatusCode,
		}
	}

	if token := extractToken(data, 0); token != "" {
		c.token = token
		c.authenticated = true
		c.logger.Info().Msg("http api login succeeded (token)")
		return nil
	}

	if !c.hasSessionCookie() {
		return &VipHTTPError{
			Msg:        "Login succeeded but no token or session cookie was provided.",
			StatusCode: resp.StatusCode,
		}
	}

	c.authenticated = true
	c.logger.Info().Msg("http api login succeeded (session cookie)")
	return nil
}

func (c *VipHTTPClient) hasSessionCookie() bool {
	if c.client.Jar == nil {
		return false
	}
	u, err := url.Parse(c.Endpoint(""))
	if err != nil {
		return false
	}
	for _, cookie := range c.client.Jar.Cookies(u) {
		if cookie.Name == sessionCookieName && cookie.Value != "" {
			return true
		}
	}
	return false
}

// refreshLocked drops cached credentials and logs in again. It reports
// whether a fresh login succeeded. Caller holds mu.
func (c *VipHTTPClient) refreshLocked(ctx context.Context) bool {
	if !c.creds.HasLogin() {
		return false
	}
	c.token = ""
	c.authenticated = false
	if err := c.loginLocked(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("http api re-login failed")
		return false
	}
	return true
}

// do sends one authenticated request. On a 401 the static bearer is retired,
// a single re-login is attempted and, if it works, the request is replayed
// exactly once. The returned body has been fully read.
func (c *VipHTTPClient) do(ctx context.Context, method, endpoint string, query url.Values, payload any) (int, []byte, error) {
	target := c.Endpoint(endpoint)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body []byte
	if payload != nil {
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return 0, nil, &VipHTTPError{Msg: fmt.Sprintf("failed to encode %s request", endpoint), Err: err}
		}
	}

	if err := c.ensureAuthenticated(ctx); err != nil {
		return 0, nil, err
	}

	status, raw, err := c.send(ctx, method, target, body)
	if err != nil {
		return 0, nil, err
	}
	if status != http.StatusUnauthorized {
		return status, raw, nil
	}

	c.logger.Warn().
		Str("method", method).
		Str("endpoint", endpoint).
		Str("body", string(truncate(raw))).
		Msg("http api returned 401")

	c.mu.Lock()
	if c.creds.BearerToken != "" {
		c.bearerFailed = true
	}
	refreshed := c.refreshLocked(ctx)
	c.mu.Unlock()

	if !refreshed {
		return status, raw, nil
	}
	return c.send(ctx, method, target, body)
}

func (c *VipHTTPClient) send(ctx context.Context, method, target string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, &VipHTTPError{Msg: fmt.Sprintf("failed to create request: %v", err), Err: err}
	}
	c.headers(req, true)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, &VipHTTPError{Msg: fmt.Sprintf("HTTP API request failed: %v", err), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &VipHTTPError{
			Msg:        fmt.Sprintf("failed to read HTTP API response: %v", err),
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}
	return resp.StatusCode, raw, nil
}

// AddVip grants VIP to playerID through POST {root}/add_vip and returns the
// decoded response object.
func (c *VipHTTPClient) AddVip(ctx context.Context, playerID, description, expiration, playerName string) (map[string]any, error) {
	payload := AddVipRequest{
		PlayerID:    playerID,
		Description: description,
		Expiration:  expiration,
		PlayerName:  playerName,
	}

	status, raw, err := c.do(ctx, http.MethodPost, "add_vip", nil, payload)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return nil, &VipHTTPError{
			Msg:        fmt.Sprintf("add_vip failed with status %d: %s", status, truncate(raw)),
			StatusCode: status,
		}
	}

	data, err := parseObject(raw, status)
	if err != nil {
		return nil, err
	}
	if failed(data) {
		return nil, &VipHTTPError{
			Msg:        fmt.Sprintf("add_vip reported failure: %s", errorDetail(data, raw)),
			StatusCode: status,
		}
	}

	c.logger.Info().Str("player_id", playerID).Msg("vip granted via http api")
	return data, nil
}

// SearchPlayers looks up players whose name starts with prefix through
// GET {root}/get_players. Entries without an id or a name are skipped.
func (c *VipHTTPClient) SearchPlayers(ctx context.Context, prefix string, limit int) ([]PlayerMatch, error) {
	if limit < 1 {
		limit = 1
	}
	query := url.Values{}
	query.Set("search", prefix)
	query.Set("page", "1")
	query.Set("per_page", strconv.Itoa(min(limit, maxSearchPerPage)))

	status, raw, err := c.do(ctx, http.MethodGet, "get_players", query, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &VipHTTPError{
			Msg:        fmt.Sprintf("get_players failed with status %d: %s", status, truncate(raw)),
			StatusCode: status,
		}
	}

	data, err := parseObject(raw, status)
	if err != nil {
		return nil, err
	}
	if failed(data) {
		return nil, &VipHTTPError{
			Msg:        fmt.Sprintf("get_players reported failure: %s", errorDetail(data, raw)),
			StatusCode: status,
		}
	}

	var matches []PlayerMatch
	for _, entry := range playerEntries(data["result"]) {
		id := firstString(entry, "player_id", "steam_id_64", "id")
		name := firstString(entry, "name", "player_name")
		if name == "" {
			name = firstName(entry["names"])
		}
		if id == "" || name == "" {
			continue
		}
		matches = append(matches, PlayerMatch{PlayerID: id, Name: name})
		if len(matches) >= limit {
			break
		}
	}
	return matches, nil
}

// playerEntries accepts a list of players, or an object wrapping one under
// players or items.
func playerEntries(result any) []map[string]any {
	var list []any
	switch v := result.(type) {
	case []any:
		list = v
	case map[string]any:
		for _, key := range []string{"players", "items"} {
			if l, ok := v[key].([]any); ok {
				list = l
				break
			}
		}
	}

	entries := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			entries = append(entries, m)
		}
	}
	return entries
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func firstName(names any) string {
	list, ok := names.([]any)
	if !ok || len(list) == 0 {
		return ""
	}
	switch v := list[0].(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		return firstString(v, "name")
	}
	return ""
}

// extractToken looks for a token under the known aliases, descending into
// result and data.
func extractToken(payload any, depth int) string {
	if depth > 4 {
		return ""
	}
	v, ok := payload.(map[string]any)
	if !ok {
		return ""
	}
	for _, key := range tokenKeys {
		if s, ok := v[key].(string); ok && s != "" {
			return s
		}
	}
	for _, key := range []string{"result", "data"} {
		if token := extractToken(v[key], depth+1); token != "" {
			return token
		}
	}
	return ""
}

func parseObject(raw []byte, status int) (map[string]any, error) {
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &VipHTTPError{
			Msg:        fmt.Sprintf("Failed to parse JSON response: %s", truncate(raw)),
			StatusCode: status,
			Err:        err,
		}
	}
	obj, ok := data.(map[string]any)
	if !ok {
		return nil, &VipHTTPError{Msg: "Unexpected response format; expected JSON object.", StatusCode: status}
	}
	return obj, nil
}

func failed(data map[string]any) bool {
	switch v := data["failed"].(type) {
	case bool:
		return v
	case nil:
		return false
	case string:
		return v != ""
	case float64:
		return v != 0
	default:
		return true
	}
}

func errorDetail(data map[string]any, raw []byte) string {
	if s, ok := data["error"].(string); ok && s != "" {
		return s
	}
	return string(truncate(raw))
}

func truncate(raw []byte) []byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) > maxErrorBodyLen {
		return append(raw[:maxErrorBodyLen:maxErrorBodyLen], "..."...)
	}
	return raw
}
