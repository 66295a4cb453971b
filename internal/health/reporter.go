// Package health assembles the health report exposed by the API and CLI and
// runs the heartbeat loop that publishes it on the event bus.
package health

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/frontline-pass/frontline/internal/db"
	"github.com/frontline-pass/frontline/internal/events"
	"github.com/frontline-pass/frontline/internal/util"
	"github.com/frontline-pass/frontline/internal/vip"
)

const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

// Options describes which integrations are wired.
type Options struct {
	Backends            []string
	HTTPConfigured      bool
	RconConfigured      bool
	DirectoryConfigured bool
	// DataPath selects the volume sampled for disk usage.
	DataPath string
	// Location renders the last grant for operators. Nil means UTC.
	Location *time.Location
}

// Report is a point-in-time health snapshot.
type Report struct {
	Status              string              `json:"status"`
	VipDurationHours    float64             `json:"vip_duration_hours"`
	RegisteredPlayers   int                 `json:"registered_players"`
	LastGrant           string              `json:"last_vip_grant,omitempty"`
	LastGrantLocal      string              `json:"last_vip_grant_local,omitempty"`
	Timezone            string              `json:"timezone"`
	Store               db.StoreInfo        `json:"store"`
	Backends            []string            `json:"backends"`
	HTTPConfigured      bool                `json:"http_configured"`
	RconConfigured      bool                `json:"rcon_configured"`
	DirectoryConfigured bool                `json:"directory_configured"`
	Uptime              string              `json:"uptime"`
	System              util.SystemInfo     `json:"system"`
	Usage               *util.ResourceUsage `json:"usage,omitempty"`
	Problems            []string            `json:"problems,omitempty"`
	Timestamp           time.Time           `json:"timestamp"`
}

// Reporter builds health reports.
type Reporter struct {
	store    db.PlayerLinkStore
	settings *vip.Settings
	opts     Options
	bus      *events.EventBus
	started  time.Time
	logger   zerolog.Logger

	sysOnce sync.Once
	sysInfo util.SystemInfo

	systemInfo func() util.SystemInfo
	sample     func(path string) (util.ResourceUsage, error)
	now        func() time.Time
}

// NewReporter creates a reporter. bus may be nil when no heartbeat is run.
func NewReporter(store db.PlayerLinkStore, settings *vip.Settings, opts Options, bus *events.EventBus) *Reporter {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Reporter{
		store:      store,
		settings:   settings,
		opts:       opts,
		bus:        bus,
		started:    time.Now(),
		logger:     util.ComponentLogger("health"),
		systemInfo: util.GetSystemInfo,
		sample:     util.SampleUsage,
		now:        time.Now,
	}
}

// Report gathers the current snapshot. Store failures mark the report
// degraded rather than failing it; only a cancelled ctx returns an error.
func (r *Reporter) Report(ctx context.Context) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep := &Report{
		Status:              StatusOK,
		VipDurationHours:    r.settings.DurationHours(ctx),
		Store:               r.store.Info(),
		Backends:            r.opts.Backends,
		HTTPConfigured:      r.opts.HTTPConfigured,
		RconConfigured:      r.opts.RconConfigured,
		DirectoryConfigured: r.opts.DirectoryConfigured,
		Timezone:            r.opts.Location.String(),
		Uptime:              r.now().Sub(r.started).Truncate(time.Second).String(),
		System:              r.system(),
		Timestamp:           r.now().UTC(),
	}

	count, err := r.store.CountPlayers(ctx)
	if err != nil {
		rep.Status = StatusDegraded
		rep.Problems = append(rep.Problems, fmt.Sprintf("player store: %v", err))
	}
	rep.RegisteredPlayers = count

	last, err := r.store.GetMetadata(ctx, vip.LastGrantMetadataKey)
	switch {
	case err == nil:
		rep.LastGrant = last
		if t, perr := time.Parse(time.RFC3339, last); perr == nil {
			rep.LastGrantLocal = vip.LocalTime(t, r.opts.Location)
		} else {
			rep.LastGrantLocal = "Unknown"
		}
	case !errors.Is(err, db.ErrNotFound):
		rep.Problems = append(rep.Problems, fmt.Sprintf("metadata: %v", err))
	}

	if usage, err := r.sample(r.opts.DataPath); err == nil {
		rep.Usage = &usage
	} else {
		r.logger.Debug().Err(err).Msg("resource sampling failed")
	}

	return rep, ctx.Err()
}

func (r *Reporter) system() util.SystemInfo {
	r.sysOnce.Do(func() {
		r.sysInfo = r.systemInfo()
	})
	return r.sysInfo
}

// Run emits a heartbeat every interval until ctx is cancelled. The first
// heartbeat is sent immediately. Ticks with no heartbeat subscriber are
// skipped without sampling the host.
func (r *Reporter) Run(ctx context.Context, interval time.Duration) {
	if r.bus == nil || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.logger.Info().Dur("interval", interval).Msg("heartbeat started")
	r.heartbeat(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("heartbeat stopped")
			return
		case <-ticker.C:
			r.heartbeat(ctx)
		}
	}
}

func (r *Reporter) heartbeat(ctx context.Context) {
	if r.bus.HandlerCount(events.EventHeartbeat) == 0 {
		return
	}

	rep, err := r.Report(ctx)
	if err != nil {
		return
	}

	payload := events.HeartbeatPayload{
		Status:    rep.Status,
		Uptime:    rep.Uptime,
		Players:   rep.RegisteredPlayers,
		Timestamp: rep.Timestamp,
	}
	if rep.Usage != nil {
		payload.CPUUsage = rep.Usage.CPUPercent
		payload.MemUsage = rep.Usage.MemPercent
	}

	r.bus.Emit(ctx, events.Event{
		Type:    events.EventHeartbeat,
		Source:  "health",
		Payload: payload,
	})
}
