package vip

//go:generate go tool mockgen -source=coordinator.go -destination=mock_coordinator.go -package=vip

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/frontline-pass/frontline/internal/connector"
	"github.com/frontline-pass/frontline/internal/directory"
	"github.com/frontline-pass/frontline/internal/util"
)

const defaultDetail = "VIP added successfully."

// PlayerDirectory resolves and searches player names.
type PlayerDirectory interface {
	LookupPlayerName(ctx context.Context, playerID string) string
	SearchPlayers(ctx context.Context, prefix string, limit int) ([]directory.Player, error)
}

// PlayerSearcher is a secondary player search (the HTTP admin API).
type PlayerSearcher interface {
	SearchPlayers(ctx context.Context, prefix string, limit int) ([]connector.PlayerMatch, error)
}

// VipGrantResult lists one status line per backend considered, in order, and
// the detail message of the backend that succeeded.
type VipGrantResult struct {
	StatusLines []string `json:"status_lines"`
	Detail      string   `json:"detail"`
	Backend     string   `json:"backend"`
}

// Coordinator tries each backend in order until one succeeds.
type Coordinator struct {
	backends  []Backend
	directory PlayerDirectory
	searcher  PlayerSearcher
	logger    zerolog.Logger
}

// NewCoordinator creates a coordinator. directory and searcher are optional.
func NewCoordinator(backends []Backend, dir PlayerDirectory, searcher PlayerSearcher) *Coordinator {
	return &Coordinator{
		backends:  backends,
		directory: dir,
		searcher:  searcher,
		logger:    util.ComponentLogger("vip"),
	}
}

// DefaultBackends returns the HTTP backend (when gateway is non-nil)
// followed by the RCON backend.
func DefaultBackends(gateway HTTPGateway, rcon connector.RconConfig, session RconSessionFunc) []Backend {
	var backends []Backend
	if gateway != nil {
		backends = append(backends, NewHTTPBackend(gateway))
	}
	return append(backends, NewRconBackend(rcon, session))
}

// Backends returns the backend names in priority order.
func (c *Coordinator) Backends() []string {
	names := make([]string, len(c.backends))
	for i, b := range c.backends {
		names[i] = b.Name()
	}
	return names
}

// GrantVip grants VIP to req.PlayerID. Backends are tried strictly one after
// another; once one succeeds the rest are skipped and noted as not required.
// When every backend fails the returned *connector.RconError carries all
// status lines joined with "; ".
func (c *Coordinator) GrantVip(ctx context.Context, req GrantRequest) (*VipGrantResult, error) {
	if req.PlayerName == "" && c.directory != nil {
		req.PlayerName = c.directory.LookupPlayerName(ctx, req.PlayerID)
	}

	result := &VipGrantResult{}
	var errs []error

	for i, backend := range c.backends {
		outcome := backend.Attempt(ctx, req)
		result.StatusLines = append(result.StatusLines, outcome.Line)

		if outcome.Err != nil {
			c.logger.Warn().
				Err(outcome.Err).
				Str("backend", backend.Name()).
				Str("player_id", req.PlayerID).
				Msg("vip backend failed")
			errs = append(errs, outcome.Err)
			continue
		}

		for _, skipped := range c.backends[i+1:] {
			result.StatusLines = append(result.StatusLines, fmt.Sprintf("%s fallback not required.", skipped.Name()))
		}
		result.Backend = backend.Name()
		result.Detail = outcome.Detail
		if result.Detail == "" {
			result.Detail = defaultDetail
		}
		return result, nil
	}

	if len(result.StatusLines) == 0 {
		return nil, &connector.RconError{Msg: "No VIP backend is configured."}
	}
	return nil, &connector.RconError{
		Msg: strings.Join(result.StatusLines, "; "),
		Err: errors.Join(errs...),
	}
}

// SearchPlayers queries the directory and the HTTP API concurrently and
// merges the hits, directory first, dropping repeated (id, name) pairs. A
// failing source contributes nothing.
func (c *Coordinator) SearchPlayers(ctx context.Context, prefix string, limit int) []directory.Player {
	if limit <= 0 {
		return nil
	}

	var fromDirectory, fromHTTP []directory.Player
	g, gctx := errgroup.WithContext(ctx)

	if c.directory != nil {
		g.Go(func() error {
			players, err := c.directory.SearchPlayers(gctx, prefix, limit)
			if err != nil {
				c.logger.Warn().Err(err).Str("prefix", prefix).Msg("directory search failed")
				return nil
			}
			fromDirectory = players
			return nil
		})
	}

	if c.searcher != nil {
		g.Go(func() error {
			matches, err := c.searcher.SearchPlayers(gctx, prefix, limit)
			if err != nil {
				c.logger.Warn().Err(err).Str("prefix", prefix).Msg("http api search failed")
				return nil
			}
			for _, m := range matches {
				fromHTTP = append(fromHTTP, directory.Player{ID: m.PlayerID, Name: m.Name})
			}
			return nil
		})
	}

	_ = g.Wait()

	seen := make(map[directory.Player]struct{})
	merged := make([]directory.Player, 0, limit)
	for _, p := range append(fromDirectory, fromHTTP...) {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		merged = append(merged, p)
		if len(merged) == limit {
			break
		}
	}
	return merged
}
