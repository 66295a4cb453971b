// Package vip grants temporary VIP status through an ordered list of
// backends (the HTTP admin API first, the RCON console as fallback) and
// hosts the request/registration service used by the bot, CLI and API.
package vip

//go:generate go tool mockgen -source=backend.go -destination=mock_backend.go -package=vip

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/frontline-pass/frontline/internal/connector"
)

const (
	httpBackendName = "HTTP API"
	rconBackendName = "RCON"

	defaultHTTPMessage = "HTTP API add_vip succeeded."
)

// GrantRequest is one VIP grant for one player.
type GrantRequest struct {
	PlayerID   string
	Comment    string
	Expiration string // RFC 3339, may be empty
	PlayerName string // may be empty
}

// Outcome is the result of a single backend attempt. Line is the status line
// recorded for it; Detail is the user-facing message on success.
type Outcome struct {
	Line   string
	Detail string
	Err    error
}

// Backend is one way of granting VIP.
type Backend interface {
	Name() string
	Attempt(ctx context.Context, req GrantRequest) Outcome
}

// HTTPGateway is the part of the HTTP admin API client the grant path uses.
type HTTPGateway interface {
	AddVip(ctx context.Context, playerID, description, expiration, playerName string) (map[string]any, error)
	SearchPlayers(ctx context.Context, prefix string, limit int) ([]connector.PlayerMatch, error)
}

// HTTPBackend grants VIP through the HTTP admin API.
type HTTPBackend struct {
	gateway HTTPGateway
}

func NewHTTPBackend(gateway HTTPGateway) *HTTPBackend {
	return &HTTPBackend{gateway: gateway}
}

func (b *HTTPBackend) Name() string { return httpBackendName }

func (b *HTTPBackend) Attempt(ctx context.Context, req GrantRequest) Outcome {
	resp, err := b.gateway.AddVip(ctx, req.PlayerID, req.Comment, req.Expiration, req.PlayerName)
	if err != nil {
		return Outcome{Line: fmt.Sprintf("HTTP API add_vip failed: %v", err), Err: err}
	}

	msg := resultMessage(resp)
	return Outcome{Line: "HTTP API: " + msg, Detail: msg}
}

// resultMessage pulls the human-readable message out of an add_vip response:
// result, or result.result when result is an object.
func resultMessage(resp map[string]any) string {
	msg := resp["result"]
	if obj, ok := msg.(map[string]any); ok {
		if inner, ok := obj["result"]; ok && truthy(inner) {
			msg = inner
		}
	}

	switch v := msg.(type) {
	case nil:
		return defaultHTTPMessage
	case string:
		return v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}

// RconAdder is an authenticated RCON session.
type RconAdder interface {
	AddVip(ctx context.Context, playerID, comment string) (string, error)
}

// RconSessionFunc opens an authenticated session, runs fn and closes it.
type RconSessionFunc func(ctx context.Context, cfg connector.RconConfig, fn func(RconAdder) error) error

// DialRcon opens a fresh RCON connection for every call.
func DialRcon(ctx context.Context, cfg connector.RconConfig, fn func(RconAdder) error) error {
	return connector.WithRconSession(ctx, cfg, func(c *connector.RconClient) error {
		return fn(c)
	})
}

// RconBackend grants VIP over a fresh RCON connection per attempt.
type RconBackend struct {
	cfg     connector.RconConfig
	session RconSessionFunc
}

// NewRconBackend creates an RCON backend. A nil session uses DialRcon.
func NewRconBackend(cfg connector.RconConfig, session RconSessionFunc) *RconBackend {
	if session == nil {
		session = DialRcon
	}
	return &RconBackend{cfg: cfg, session: session}
}

func (b *RconBackend) Name() string { return rconBackendName }

func (b *RconBackend) Attempt(ctx context.Context, req GrantRequest) Outcome {
	var msg string
	err := b.session(ctx, b.cfg, func(c RconAdder) error {
		var err error
		msg, err = c.AddVip(ctx, req.PlayerID, req.Comment)
		return err
	})
	if err != nil {
		return Outcome{Line: fmt.Sprintf("RCON AddVip failed: %v", err), Err: err}
	}
	return Outcome{Line: "RCON AddVip succeeded: " + msg, Detail: msg}
}
