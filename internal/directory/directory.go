// Package directory resolves player ids to display names using the game
// server's own database, with a TTL cache in front of it.
package directory

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/frontline-pass/frontline/internal/util"
)

const (
	DefaultCacheTTL = 300 * time.Second
	MaxSearchLimit  = 100
)

// Player is one (player id, name) pair.
type Player struct {
	ID   string `json:"player_id"`
	Name string `json:"name"`
}

// Source is the backing name database.
type Source interface {
	LatestName(ctx context.Context, playerID string) (string, error)
	Search(ctx context.Context, prefix string, limit int) ([]Player, error)
}

// Directory answers name lookups and prefix searches.
type Directory struct {
	source Source
	cache  Cache
	ttl    time.Duration
	logger zerolog.Logger
}

// New creates a Directory. A nil cache gets a MemoryCache; ttl <= 0 uses
// DefaultCacheTTL.
func New(source Source, cache Cache, ttl time.Duration) *Directory {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Directory{
		source: source,
		cache:  cache,
		ttl:    ttl,
		logger: util.ComponentLogger("directory"),
	}
}

// LookupPlayerName returns the latest known name for playerID, or "" when it
// is unknown or the lookup failed. Both outcomes are cached for the TTL.
func (d *Directory) LookupPlayerName(ctx context.Context, playerID string) string {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return ""
	}

	if entry, ok, err := d.cache.Get(ctx, playerID); err != nil {
		d.logger.Warn().Err(err).Str("player_id", playerID).Msg("name cache read failed")
	} else if ok {
		return entry.Name
	}

	name, err := d.source.LatestName(ctx, playerID)
	if err != nil {
		d.logger.Error().Err(err).Str("player_id", playerID).Msg("failed to look up player name")
		name = ""
	}

	entry := Entry{Name: name, Found: name != ""}
	if err := d.cache.Set(ctx, playerID, entry, d.ttl); err != nil {
		d.logger.Warn().Err(err).Str("player_id", playerID).Msg("name cache write failed")
	}
	return name
}

// SearchPlayers returns up to limit players whose name starts with prefix.
// limit is clamped to 1..100.
func (d *Directory) SearchPlayers(ctx context.Context, prefix string, limit int) ([]Player, error) {
	limit = min(max(limit, 1), MaxSearchLimit)
	return d.source.Search(ctx, strings.TrimSpace(prefix), limit)
}
