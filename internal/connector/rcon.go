package connector

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/frontline-pass/frontline/internal/protocol"
	"github.com/frontline-pass/frontline/internal/util"
)

const (
	defaultRconTimeout = 10 * time.Second
	defaultVipMessage  = "VIP added successfully."
)

// SessionState is the position of an RconClient in its connection lifecycle.
type SessionState int

const (
	StateDisconnected SessionState = iota
	StateConnected
	StateKeyEstablished
	StateAuthenticated
)

var sessionStateStrings = map[SessionState]string{
	StateDisconnected:   "disconnected",
	StateConnected:      "connected",
	StateKeyEstablished: "key_established",
	StateAuthenticated:  "authenticated",
}

// String returns the string representation of SessionState.
func (s SessionState) String() string {
	if str, ok := sessionStateStrings[s]; ok {
		return str
	}
	return "unknown"
}

// RconConfig holds the connection settings for an RCON server.
type RconConfig struct {
	Host     string
	Port     int
	Password string
	Version  int
	Timeout  time.Duration
}

// Addr returns host:port.
func (c RconConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// RconClient owns one TCP connection to the game server console. It walks
// the ServerConnect -> Login -> command lifecycle; a fresh XOR key and auth
// token are negotiated on every Connect and never carried across
// connections. An RconClient is not meant to be shared between grants.
type RconClient struct {
	mu sync.Mutex

	cfg    RconConfig
	logger zerolog.Logger

	conn  net.Conn
	key   []byte
	token string
	seq   uint32
	state SessionState
}

// NewRconClient creates a disconnected client.
func NewRconClient(cfg RconConfig) *RconClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRconTimeout
	}
	if cfg.Version == 0 {
		cfg.Version = protocol.DefaultVersion
	}
	return &RconClient{
		cfg:    cfg,
		logger: util.ComponentLogger("rcon"),
	}
}

// WithRconSession connects and logs in, runs fn, and closes the connection on
// every exit path, including a handshake that failed half way.
func WithRconSession(ctx context.Context, cfg RconConfig, fn func(*RconClient) error) error {
	client := NewRconClient(cfg)
	defer client.Close()

	if err := client.Connect(ctx); err != nil {
		return err
	}
	if err := client.Login(ctx, cfg.Password); err != nil {
		return err
	}
	return fn(client)
}

// State returns the current lifecycle state.
func (c *RconClient) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect dials the server and performs the unmasked ServerConnect handshake
// that yields the session XOR key.
func (c *RconClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeLocked()

	addr := c.cfg.Addr()
	c.logger.Debug().Str("addr", addr).Msg("connecting to rcon server")

	dialer := net.Dialer{Timeout: c.cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return rconErr(fmt.Sprintf("Unable to connect to RCON server %s:%d.", c.cfg.Host, c.cfg.Port),
			&protocol.TransportError{Op: "dial", Err: err})
	}

	c.conn = conn
	c.seq = 0
	c.key = nil
	c.token = ""
	c.state = StateConnected

	resp, err := c.exchangeLocked(ctx, protocol.CmdServerConnect, "", "", false)
	if err != nil {
		return err
	}

	encoded, ok := resp.ContentString()
	if !ok {
		return rconErr("Invalid XOR key returned from server.", &protocol.ProtocolError{Msg: "ServerConnect body is not a string"})
	}

	key, err := decodeKey(strings.TrimSpace(encoded))
	if err != nil {
		return rconErr("Failed to decode XOR key from ServerConnect response.", &protocol.ProtocolError{Msg: "invalid base64 key", Err: err})
	}
	if len(key) == 0 {
		return rconErr("Empty XOR key received from ServerConnect response.", &protocol.ProtocolError{Msg: "empty key"})
	}

	c.key = key
	c.state = StateKeyEstablished
	c.logger.Debug().Str("addr", addr).Int("key_len", len(key)).Msg("rcon key established")
	return nil
}

// Login exchanges the password for the session auth token.
func (c *RconClient) Login(ctx context.Context, password string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state < StateKeyEstablished {
		return rconErr("Not connected to the RCON server.", nil)
	}

	resp, err := c.exchangeLocked(ctx, protocol.CmdLogin, "", password, true)
	if err != nil {
		return err
	}

	token, ok := resp.ContentString()
	if !ok || token == "" {
		return rconErr("Login response did not include an authentication token.", &protocol.ProtocolError{Msg: "missing auth token"})
	}

	c.token = token
	c.state = StateAuthenticated
	c.logger.Debug().Msg("rcon login succeeded")
	return nil
}

// Execute sends a masked command with the session token and returns the
// response after checking that its status is 200.
func (c *RconClient) Execute(ctx context.Context, name string, body any) (*protocol.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateAuthenticated {
		return nil, rconErr("Not authenticated with the RCON server.", nil)
	}

	return c.exchangeLocked(ctx, name, c.token, body, true)
}

// AddVip grants VIP to playerID and returns the server's status message.
func (c *RconClient) AddVip(ctx context.Context, playerID, comment string) (string, error) {
	resp, err := c.Execute(ctx, protocol.CmdAddVip, protocol.AddVipBody{
		PlayerID:    playerID,
		Description: comment,
	})
	if err != nil {
		return "", err
	}
	if resp.StatusMessage != "" {
		return resp.StatusMessage, nil
	}
	return defaultVipMessage, nil
}

// Close tears the connection down. It is safe to call more than once.
func (c *RconClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *RconClient) closeLocked() error {
	var err error
	if c.conn != nil {
		err = c.conn.Close()
		c.conn = nil
	}
	c.key = nil
	c.token = ""
	c.state = StateDisconnected
	return err
}

// exchangeLocked writes one request and reads its response. Both directions
// are bounded by the client timeout (or the context deadline, if sooner).
func (c *RconClient) exchangeLocked(ctx context.Context, name, token string, body any, masked bool) (*protocol.Response, error) {
	if c.conn == nil {
		return nil, rconErr("Not connected to the RCON server.", nil)
	}

	var key []byte
	if masked {
		key = c.key
	}

	deadline := time.Now().Add(c.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, rconErr("Connection to the RCON server was interrupted.", &protocol.TransportError{Op: "set deadline", Err: err})
	}

	req := protocol.BuildRequest(name, token, c.cfg.Version, body)
	seq := c.seq
	c.seq++

	if err := protocol.WritePacket(c.conn, seq, req, key); err != nil {
		var pe *protocol.ProtocolError
		if errors.As(err, &pe) {
			return nil, rconErr(fmt.Sprintf("Failed to encode %s request.", name), err)
		}
		return nil, rconErr("Failed to send data to the RCON server.", err)
	}

	respSeq, resp, err := protocol.DecodeResponse(c.conn, key)
	if err != nil {
		return nil, readErr(err)
	}
	if respSeq != seq {
		c.logger.Debug().Uint32("sent", seq).Uint32("received", respSeq).Str("command", name).
			Msg("rcon response sequence mismatch")
	}

	if !resp.Success() {
		return nil, rconErr(statusMessage(resp, name), nil)
	}
	return resp, nil
}

func readErr(err error) *RconError {
	var pe *protocol.ProtocolError
	if errors.As(err, &pe) {
		return rconErr("Failed to decode response from the RCON server.", err)
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return rconErr("RCON server closed the connection unexpectedly.", err)
	}
	return rconErr("Connection to the RCON server was interrupted.", err)
}

func statusMessage(resp *protocol.Response, command string) string {
	if resp.StatusMessage != "" {
		return resp.StatusMessage
	}
	code := "none"
	if resp.StatusCode != nil {
		code = strconv.Itoa(*resp.StatusCode)
	}
	return fmt.Sprintf("%s failed with status %s.", command, code)
}

// decodeKey accepts padded or unpadded standard base64.
func decodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return key, nil
	}
	if raw, rawErr := base64.RawStdEncoding.DecodeString(s); rawErr == nil {
		return raw, nil
	}
	return nil, err
}
