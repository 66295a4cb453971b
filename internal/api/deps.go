package api

//go:generate go tool mockgen -source=deps.go -destination=mock_deps.go -package=api

import (
	"context"

	"github.com/frontline-pass/frontline/internal/directory"
	"github.com/frontline-pass/frontline/internal/health"
	"github.com/frontline-pass/frontline/internal/vip"
)

// VipService is the grant and registration surface the handlers call.
type VipService interface {
	RequestVip(ctx context.Context, userID, displayName string) (*vip.GrantOutcome, error)
	Grant(ctx context.Context, req vip.GrantRequest) (*vip.GrantOutcome, error)
	Register(ctx context.Context, userID, playerID, name string) (*vip.RegisterOutcome, error)
	Player(ctx context.Context, userID string) (*vip.PlayerLink, error)
	PlayerOwner(ctx context.Context, playerID string) (*vip.PlayerLink, error)
	Duration(ctx context.Context) float64
	SetDuration(ctx context.Context, hours float64) error
	ResetDuration(ctx context.Context) (float64, error)
}

// PlayerSearcher answers player name prefix searches.
type PlayerSearcher interface {
	SearchPlayers(ctx context.Context, prefix string, limit int) []directory.Player
}

// HealthReporter builds the health report.
type HealthReporter interface {
	Report(ctx context.Context) (*health.Report, error)
}

// Dependencies are the services the API exposes.
type Dependencies struct {
	Vip     VipService
	Players PlayerSearcher
	Health  HealthReporter
	Version string
}
