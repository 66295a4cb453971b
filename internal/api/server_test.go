package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/frontline-pass/frontline/internal/config"
	"github.com/frontline-pass/frontline/internal/connector"
	"github.com/frontline-pass/frontline/internal/db"
	"github.com/frontline-pass/frontline/internal/directory"
	"github.com/frontline-pass/frontline/internal/health"
	"github.com/frontline-pass/frontline/internal/vip"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	server  *Server
	vip     *MockVipService
	players *MockPlayerSearcher
	health  *MockHealthReporter
}

func newFixture(t *testing.T, cfg config.APIConfig) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		vip:     NewMockVipService(ctrl),
		players: NewMockPlayerSearcher(ctrl),
		health:  NewMockHealthReporter(ctrl),
	}
	f.server = NewServer(cfg, Dependencies{
		Vip:     f.vip,
		Players: f.players,
		Health:  f.health,
		Version: "1.2.3",
	})
	return f
}

func (f *fixture) do(t *testing.T, method, target string, body any, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func TestPing(t *testing.T) {
	f := newFixture(t, config.APIConfig{AdminToken: "secret"})

	rec, body := f.do(t, http.MethodGet, "/api/public/ping", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestUnknownEndpoint(t *testing.T) {
	f := newFixture(t, config.APIConfig{})

	rec, body := f.do(t, http.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "endpoint not found", body["error"])
}

func TestTokenAuth(t *testing.T) {
	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic secret", http.StatusUnauthorized},
		{"wrong token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer secret", http.StatusOK},
		{"case insensitive scheme", "bearer secret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, config.APIConfig{AdminToken: "secret"})
			if tt.status == http.StatusOK {
				f.vip.EXPECT().Duration(gomock.Any()).Return(2.0)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/vip/duration", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			f.server.Handler().ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestAuthDisabledWithoutToken(t *testing.T) {
	f := newFixture(t, config.APIConfig{})
	f.vip.EXPECT().Duration(gomock.Any()).Return(1.5)

	rec, body := f.do(t, http.MethodGet, "/api/vip/duration", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.5, body["hours"])
	assert.Equal(t, "1.5", body["formatted"])
}

func TestGrant(t *testing.T) {
	f := newFixture(t, config.APIConfig{AdminToken: "secret"})

	exp := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	f.vip.EXPECT().
		Grant(gomock.Any(), vip.GrantRequest{
			PlayerID:   "76561198000000001",
			Comment:    "event winner",
			PlayerName: "Able",
		}).
		Return(&vip.GrantOutcome{
			RequestID:  "req-1",
			PlayerID:   "76561198000000001",
			PlayerName: "Able",
			Hours:      24,
			Expiration: exp,
			Result: &vip.VipGrantResult{
				Backend:     "RCON",
				Detail:      "VIP added successfully.",
				StatusLines: []string{"RCON AddVip succeeded: ok"},
			},
		}, nil)

	rec, body := f.do(t, http.MethodPost, "/api/vip/grant", map[string]any{
		"player_id":   "76561198000000001",
		"comment":     "event winner",
		"player_name": "Able",
	}, "secret")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "req-1", body["request_id"])
	assert.Equal(t, "2026-10-18T12:00:00Z", body["expiration"])
	assert.NotNil(t, body["result"])
}

func TestGrantRequiresPlayerID(t *testing.T) {
	f := newFixture(t, config.APIConfig{})

	rec, body := f.do(t, http.MethodPost, "/api/vip/grant", map[string]any{"comment": "x"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "player_id is required", body["error"])
}

func TestGrantErrorStatus(t *testing.T) {
	backendErr := &connector.RconError{
		Msg: "HTTP API add_vip failed: boom; Unable to connect to RCON server 10.0.0.1:7779.",
		Err: errors.Join(&connector.VipHTTPError{Msg: "boom"}, errors.New("dial")),
	}

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"backends failed", backendErr, http.StatusBadGateway},
		{"bad expiration", vip.ErrInvalidExpiration, http.StatusBadRequest},
		{"empty id", db.ErrEmptyID, http.StatusBadRequest},
		{"timeout", fmt.Errorf("grant: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, config.APIConfig{})
			f.vip.EXPECT().Grant(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			rec, body := f.do(t, http.MethodPost, "/api/vip/grant", map[string]any{"player_id": "1"}, "")
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.err.Error(), body["error"])
		})
	}
}

func TestRequestVip(t *testing.T) {
	f := newFixture(t, config.APIConfig{})
	f.vip.EXPECT().
		RequestVip(gomock.Any(), "u1", "Able").
		Return(&vip.GrantOutcome{RequestID: "req-2", PlayerID: "p1", Hours: 2}, nil)

	rec, body := f.do(t, http.MethodPost, "/api/vip/request", map[string]any{
		"user_id":      "u1",
		"display_name": "Able",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p1", body["player_id"])
	assert.Equal(t, 2.0, body["hours"])
}

func TestRequestVipNotRegistered(t *testing.T) {
	f := newFixture(t, config.APIConfig{})
	f.vip.EXPECT().RequestVip(gomock.Any(), "u1", "").Return(nil, vip.ErrNotRegistered)

	rec, body := f.do(t, http.MethodPost, "/api/vip/request", map[string]any{"user_id": "u1"}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, vip.ErrNotRegistered.Error(), body["error"])
}

func TestRequestVipMissingUser(t *testing.T) {
	f := newFixture(t, config.APIConfig{})

	rec, _ := f.do(t, http.MethodPost, "/api/vip/request", map[string]any{}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetDuration(t *testing.T) {
	f := newFixture(t, config.APIConfig{})
	f.vip.EXPECT().SetDuration(gomock.Any(), 6.0).Return(nil)

	rec, body := f.do(t, http.MethodPut, "/api/vip/duration", map[string]any{"hours": 6}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 6.0, body["hours"])
	assert.Equal(t, "6", body["formatted"])
}

func TestSetDurationRejected(t *testing.T) {
	f := newFixture(t, config.APIConfig{})
	f.vip.EXPECT().SetDuration(gomock.Any(), 0.0).Return(vip.ErrInvalidDuration)

	rec, _ := f.do(t, http.MethodPut, "/api/vip/duration", map[string]any{"hours": 0}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body := f.do(t, http.MethodPut, "/api/vip/duration", map[string]any{}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "hours is required", body["error"])
}

func TestSearchPlayers(t *testing.T) {
	f := newFixture(t, config.APIConfig{})
	f.players.EXPECT().
		SearchPlayers(gomock.Any(), "Ab", 25).
		Return([]directory.Player{{ID: "1", Name: "Able"}, {ID: "2", Name: "Abbot"}})

	rec, body := f.do(t, http.MethodGet, "/api/players/search?prefix=Ab", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2.0, body["count"])
	players := body["players"].([]any)
	assert.Equal(t, "Able", players[0].(map[string]any)["name"])
}

func TestSearchPlayersLimit(t *testing.T) {
	f := newFixture(t, config.APIConfig{})
	f.players.EXPECT().SearchPlayers(gomock.Any(), "x", 100).Return(nil)

	rec, body := f.do(t, http.MethodGet, "/api/players/search?prefix=x&limit=500", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, body["players"])

	for _, q := range []string{"?prefix=x&limit=0", "?prefix=x&limit=abc", "?prefix=%20", ""} {
		rec, _ := f.do(t, http.MethodGet, "/api/players/search"+q, nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestRegister(t *testing.T) {
	f := newFixture(t, config.APIConfig{})
	f.vip.EXPECT().
		Register(gomock.Any(), "u1", "p1", "Able").
		Return(&vip.RegisterOutcome{PlayerID: "p1", PlayerName: "Able", PreviousPlayerID: "p0"}, nil)

	rec, body := f.do(t, http.MethodPost, "/api/players", map[string]any{
		"user_id":     "u1",
		"player_id":   "p1",
		"player_name": "Able",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "p0", body["previous_player_id"])
}

func TestRegisterDuplicate(t *testing.T) {
	f := newFixture(t, config.APIConfig{})
	f.vip.EXPECT().
		Register(gomock.Any(), "u2", "p1", "").
		Return(nil, &db.DuplicatePlayerIDError{PlayerID: "p1", ExistingUserID: "u1"})

	rec, body := f.do(t, http.MethodPost, "/api/players", map[string]any{
		"user_id":   "u2",
		"player_id": "p1",
	}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "u1", body["existing_user_id"])
	assert.Equal(t, "Player-ID p1 already registered.", body["error"])
}

func TestGetPlayer(t *testing.T) {
	f := newFixture(t, config.APIConfig{})
	f.vip.EXPECT().Player(gomock.Any(), "u1").Return(&vip.PlayerLink{UserID: "u1", PlayerID: "p1"}, nil)
	f.vip.EXPECT().Player(gomock.Any(), "u9").Return(nil, vip.ErrNotRegistered)

	rec, body := f.do(t, http.MethodGet, "/api/players/u1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p1", body["player_id"])

	rec, _ = f.do(t, http.MethodGet, "/api/players/u9", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlayerOwner(t *testing.T) {
	f := newFixture(t, config.APIConfig{})
	f.vip.EXPECT().PlayerOwner(gomock.Any(), "7656").
		Return(&vip.PlayerLink{UserID: "u1", PlayerID: "7656", PlayerName: "Able"}, nil)
	f.vip.EXPECT().PlayerOwner(gomock.Any(), "9999").
		Return(nil, fmt.Errorf("player 9999: %w", db.ErrNotFound))

	rec, body := f.do(t, http.MethodGet, "/api/owners/7656", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", body["user_id"])
	assert.Equal(t, "Able", body["player_name"])

	rec, _ = f.do(t, http.MethodGet, "/api/owners/9999", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResetDuration(t *testing.T) {
	f := newFixture(t, config.APIConfig{})
	f.vip.EXPECT().ResetDuration(gomock.Any()).Return(24.0, nil)
	f.vip.EXPECT().ResetDuration(gomock.Any()).Return(0.0, errors.New("disk full"))

	rec, body := f.do(t, http.MethodDelete, "/api/vip/duration", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 24.0, body["hours"])

	rec, _ = f.do(t, http.MethodDelete, "/api/vip/duration", nil, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealth(t *testing.T) {
	f := newFixture(t, config.APIConfig{})
	f.health.EXPECT().Report(gomock.Any()).Return(&health.Report{
		Status:            health.StatusDegraded,
		RegisteredPlayers: 3,
		Backends:          []string{"HTTP API", "RCON"},
	}, nil)

	rec, body := f.do(t, http.MethodGet, "/api/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, 3.0, body["registered_players"])
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1)
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("a"))

	now = now.Add(bucketIdle + sweepEvery)
	rl.Allow("c")
	assert.NotContains(t, rl.clients, "a")

	assert.True(t, NewRateLimiter(0).Allow("x"))
}

func TestRateLimitMiddleware(t *testing.T) {
	f := newFixture(t, config.APIConfig{RateLimitRPS: 1})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec, _ := f.do(t, http.MethodGet, "/api/public/ping", nil, "")
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestStartServesSelfSignedTLS(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, config.APIConfig{
		Addr:          "127.0.0.1:0",
		TLSCertFile:   filepath.Join(dir, "cert.pem"),
		TLSKeyFile:    filepath.Join(dir, "key.pem"),
		TLSSelfSigned: true,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.server.Start(ctx) }()

	require.Eventually(t, func() bool { return f.server.Addr() != nil }, 5*time.Second, 10*time.Millisecond)

	client := &http.Client{Transport: &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}}
	resp, err := client.Get("https://" + f.server.Addr().String() + "/api/public/ping")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestStopBeforeStart(t *testing.T) {
	f := newFixture(t, config.APIConfig{})
	assert.NoError(t, f.server.Stop())
}
