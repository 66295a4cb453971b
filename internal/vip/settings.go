package vip

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/frontline-pass/frontline/internal/db"
)

const (
	DurationMetadataKey  = "vip_duration_hours"
	LastGrantMetadataKey = "last_vip_grant"

	// MaxDurationHours is ten years. Anything past roughly 2.5e6 hours no
	// longer fits a time.Duration.
	MaxDurationHours = 10 * 365 * 24
)

// ErrInvalidDuration is returned for a duration outside (0, MaxDurationHours].
var ErrInvalidDuration = fmt.Errorf("VIP duration must be greater than zero and at most %d hours", MaxDurationHours)

// Settings holds the runtime-adjustable VIP duration. The stored value
// overrides the configured default.
type Settings struct {
	store    db.PlayerLinkStore
	fallback float64
}

func NewSettings(store db.PlayerLinkStore, defaultHours float64) *Settings {
	return &Settings{store: store, fallback: defaultHours}
}

// DurationHours returns the stored duration, or the default when nothing
// valid is stored.
func (s *Settings) DurationHours(ctx context.Context) float64 {
	raw, err := s.store.GetMetadata(ctx, DurationMetadataKey)
	if err != nil {
		return s.fallback
	}
	hours, err := strconv.ParseFloat(raw, 64)
	if err != nil || !validHours(hours) {
		return s.fallback
	}
	return hours
}

// SetDurationHours stores a new duration.
func (s *Settings) SetDurationHours(ctx context.Context, hours float64) error {
	if !validHours(hours) {
		return ErrInvalidDuration
	}
	if err := s.store.SetMetadata(ctx, DurationMetadataKey, FormatHours(hours)); err != nil {
		return fmt.Errorf("failed to store VIP duration: %w", err)
	}
	return nil
}

// ResetDuration drops the stored duration so the configured default applies
// again, and returns that default.
func (s *Settings) ResetDuration(ctx context.Context) (float64, error) {
	if err := s.store.DeleteMetadata(ctx, DurationMetadataKey); err != nil {
		return 0, fmt.Errorf("failed to reset VIP duration: %w", err)
	}
	return s.fallback, nil
}

func validHours(h float64) bool {
	return h > 0 && h <= MaxDurationHours && !math.IsNaN(h)
}

// FormatHours renders hours without trailing zeros (24, 1.5).
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'g', -1, 64)
}
