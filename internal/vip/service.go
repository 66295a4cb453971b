package vip

//go:generate go tool mockgen -source=service.go -destination=mock_service.go -package=vip

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/frontline-pass/frontline/internal/db"
	"github.com/frontline-pass/frontline/internal/events"
	"github.com/frontline-pass/frontline/internal/util"
)

const maxConcurrentGrants = 4

var (
	// ErrNotRegistered is returned when a user has no linked player id.
	ErrNotRegistered = errors.New("You are not linked to a T17 account. Please register first.")

	ErrInvalidExpiration = errors.New("expiration must be an RFC 3339 timestamp")
)

// Granter runs a grant through the backends.
type Granter interface {
	GrantVip(ctx context.Context, req GrantRequest) (*VipGrantResult, error)
}

// NameLookup resolves a player id to a display name.
type NameLookup interface {
	LookupPlayerName(ctx context.Context, playerID string) string
}

// GrantOutcome is what a user-initiated grant reports back.
type GrantOutcome struct {
	RequestID       string          `json:"request_id"`
	PlayerID        string          `json:"player_id"`
	PlayerName      string          `json:"player_name,omitempty"`
	Hours           float64         `json:"hours,omitempty"`
	Expiration      time.Time       `json:"expiration"`
	LocalExpiration string          `json:"local_expiration"`
	Result          *VipGrantResult `json:"result"`
}

// PlayerLink is a stored user to player association.
type PlayerLink struct {
	UserID     string `json:"user_id"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name,omitempty"`
}

// RegisterOutcome reports a successful link.
type RegisterOutcome struct {
	PlayerID         string `json:"player_id"`
	PlayerName       string `json:"player_name,omitempty"`
	PreviousPlayerID string `json:"previous_player_id,omitempty"`
}

// Service is the entry point for user-facing VIP operations.
type Service struct {
	granter  Granter
	store    db.PlayerLinkStore
	settings *Settings
	names    NameLookup
	bus      *events.EventBus
	workers  *semaphore.Weighted
	loc      *time.Location
	now      func() time.Time
	logger   zerolog.Logger
}

// NewService wires the service. names and bus may be nil.
func NewService(granter Granter, store db.PlayerLinkStore, settings *Settings, names NameLookup, bus *events.EventBus) *Service {
	return &Service{
		granter:  granter,
		store:    store,
		settings: settings,
		names:    names,
		bus:      bus,
		workers:  semaphore.NewWeighted(maxConcurrentGrants),
		loc:      time.UTC,
		now:      time.Now,
		logger:   util.ComponentLogger("vip_service"),
	}
}

// SetLocation sets the timezone used for user-facing expiration times.
func (s *Service) SetLocation(loc *time.Location) {
	if loc != nil {
		s.loc = loc
	}
}

// LocalTime renders t in loc the way users see expirations.
func LocalTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02 15:04:05 MST")
}

// Comment builds the description recorded with a grant.
func Comment(displayName string, expiration time.Time) string {
	return fmt.Sprintf("Discord VIP for %s until %s UTC", displayName, expiration.UTC().Format(time.DateTime))
}

// RequestVip grants VIP to the player linked to userID for the configured
// duration. The grant runs on a worker goroutine; the caller waits for it
// but may stop waiting when ctx ends, while the grant itself finishes.
func (s *Service) RequestVip(ctx context.Context, userID, displayName string) (*GrantOutcome, error) {
	link, err := s.Player(ctx, userID)
	if err != nil {
		return nil, err
	}

	if displayName == "" {
		displayName = userID
	}
	hours := s.settings.DurationHours(ctx)
	expiration := s.now().UTC().Add(hoursToDuration(hours))

	outcome := &GrantOutcome{
		PlayerID:        link.PlayerID,
		PlayerName:      link.PlayerName,
		Hours:           hours,
		Expiration:      expiration,
		LocalExpiration: LocalTime(expiration, s.loc),
	}
	req := GrantRequest{
		PlayerID:   link.PlayerID,
		Comment:    Comment(displayName, expiration),
		Expiration: expiration.Format(time.RFC3339),
		PlayerName: link.PlayerName,
	}

	if err := s.execute(ctx, userID, req, outcome); err != nil {
		return nil, err
	}
	return outcome, nil
}

// Grant runs an administrative grant for an explicit player id, bypassing
// the link store. A missing expiration defaults to now plus the configured
// duration; a missing comment is derived from the player name or id.
func (s *Service) Grant(ctx context.Context, req GrantRequest) (*GrantOutcome, error) {
	if strings.TrimSpace(req.PlayerID) == "" {
		return nil, db.ErrEmptyID
	}
	req.PlayerID = strings.TrimSpace(req.PlayerID)

	outcome := &GrantOutcome{PlayerID: req.PlayerID, PlayerName: req.PlayerName}
	if req.Expiration == "" {
		outcome.Hours = s.settings.DurationHours(ctx)
		outcome.Expiration = s.now().UTC().Add(hoursToDuration(outcome.Hours))
		req.Expiration = outcome.Expiration.Format(time.RFC3339)
	} else {
		exp, err := time.Parse(time.RFC3339, req.Expiration)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidExpiration, req.Expiration)
		}
		outcome.Expiration = exp.UTC()
	}
	outcome.LocalExpiration = LocalTime(outcome.Expiration, s.loc)

	if req.Comment == "" {
		label := req.PlayerName
		if label == "" {
			label = req.PlayerID
		}
		req.Comment = Comment(label, outcome.Expiration)
	}

	if err := s.execute(ctx, "", req, outcome); err != nil {
		return nil, err
	}
	return outcome, nil
}

// execute runs req through the granter on a worker goroutine and waits for
// it. The worker records the grant time and emits the granted or failed
// event itself, so the outcome is reported even when the caller stops
// waiting; the caller then only sees ctx.Err().
func (s *Service) execute(ctx context.Context, userID string, req GrantRequest, outcome *GrantOutcome) error {
	outcome.RequestID = uuid.NewString()
	payload := events.VipGrantPayload{
		RequestID:  outcome.RequestID,
		UserID:     userID,
		PlayerID:   req.PlayerID,
		PlayerName: req.PlayerName,
		Expiration: req.Expiration,
	}

	requested := payload
	requested.At = s.now()
	s.emit(ctx, events.EventVipRequested, requested)

	if err := s.workers.Acquire(ctx, 1); err != nil {
		return err
	}

	reply := make(chan grantReply, 1)
	go func() {
		defer s.workers.Release(1)
		// Once sent, a grant is not abandoned with the caller.
		wctx := context.WithoutCancel(ctx)
		result, err := s.granter.GrantVip(wctx, req)
		s.settle(wctx, payload, result, err)
		reply <- grantReply{result: result, err: err}
	}()

	select {
	case r := <-reply:
		if r.err != nil {
			return r.err
		}
		outcome.Result = r.result
		return nil
	case <-ctx.Done():
		s.logger.Warn().
			Str("request_id", outcome.RequestID).
			Str("player_id", req.PlayerID).
			Msg("caller stopped waiting for vip grant")
		return ctx.Err()
	}
}

type grantReply struct {
	result *VipGrantResult
	err    error
}

// settle records the real outcome of a grant.
func (s *Service) settle(ctx context.Context, payload events.VipGrantPayload, result *VipGrantResult, err error) {
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("request_id", payload.RequestID).
			Str("player_id", payload.PlayerID).
			Msg("vip grant failed")

		payload.Error = err.Error()
		payload.At = s.now()
		s.emit(ctx, events.EventVipGrantFailed, payload)
		return
	}

	if err := s.store.SetMetadata(ctx, LastGrantMetadataKey, s.now().UTC().Format(time.RFC3339)); err != nil {
		s.logger.Warn().Err(err).Msg("failed to record last grant time")
	}

	s.logger.Info().
		Str("request_id", payload.RequestID).
		Str("player_id", payload.PlayerID).
		Str("backend", result.Backend).
		Str("expires", payload.Expiration).
		Msg("vip granted")

	payload.Channel = channelFor(result.Backend)
	payload.Detail = result.Detail
	payload.StatusLines = result.StatusLines
	payload.At = s.now()
	s.emit(ctx, events.EventVipGranted, payload)
}

// Register links userID to playerID. When name is empty it is resolved
// through the directory. A player id owned by another user yields
// *db.DuplicatePlayerIDError and a moderator notification.
func (s *Service) Register(ctx context.Context, userID, playerID, name string) (*RegisterOutcome, error) {
	previous, err := s.store.FetchPlayer(ctx, userID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to fetch linked player: %w", err)
	}

	if name == "" && s.names != nil {
		name = s.names.LookupPlayerName(ctx, playerID)
	}

	err = s.store.UpsertPlayer(ctx, userID, playerID, name)
	var dup *db.DuplicatePlayerIDError
	if errors.As(err, &dup) {
		s.logger.Warn().
			Str("user_id", userID).
			Str("player_id", dup.PlayerID).
			Str("owner", dup.ExistingUserID).
			Msg("duplicate player id registration attempt")
		s.emit(ctx, events.EventDuplicatePlayerID, events.DuplicatePlayerPayload{
			UserID:        userID,
			PlayerID:      dup.PlayerID,
			ExistingOwner: dup.ExistingUserID,
			PlayerName:    name,
		})
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	linked, err := s.store.FetchPlayer(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read back linked player: %w", err)
	}

	out := &RegisterOutcome{PlayerID: linked, PlayerName: name}
	if previous != "" && previous != linked {
		out.PreviousPlayerID = previous
	}

	s.emit(ctx, events.EventPlayerRegistered, events.PlayerRegisteredPayload{
		UserID:     userID,
		PlayerID:   linked,
		PlayerName: name,
	})
	return out, nil
}

// Player returns the link stored for userID, or ErrNotRegistered.
func (s *Service) Player(ctx context.Context, userID string) (*PlayerLink, error) {
	playerID, err := s.store.FetchPlayer(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrNotRegistered
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch linked player: %w", err)
	}

	link := &PlayerLink{UserID: strings.TrimSpace(userID), PlayerID: playerID}
	name, err := s.store.FetchPlayerName(ctx, userID)
	switch {
	case err == nil:
		link.PlayerName = name
	case !errors.Is(err, db.ErrNotFound):
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to read stored player name")
	}
	return link, nil
}

// PlayerOwner returns the link that owns playerID. Unknown ids yield
// db.ErrNotFound.
func (s *Service) PlayerOwner(ctx context.Context, playerID string) (*PlayerLink, error) {
	if strings.TrimSpace(playerID) == "" {
		return nil, db.ErrEmptyID
	}
	owner, err := s.store.FetchUserIDForPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("player %s: %w", strings.TrimSpace(playerID), err)
	}
	return s.Player(ctx, owner)
}

// Duration returns the VIP duration in hours currently in effect.
func (s *Service) Duration(ctx context.Context) float64 {
	return s.settings.DurationHours(ctx)
}

// SetDuration changes the VIP duration for future grants.
func (s *Service) SetDuration(ctx context.Context, hours float64) error {
	if err := s.settings.SetDurationHours(ctx, hours); err != nil {
		return err
	}
	s.logger.Info().Str("hours", FormatHours(hours)).Msg("vip duration changed")
	s.emit(ctx, events.EventConfigChanged, events.ConfigChangedPayload{
		Section: "vip",
		Key:     DurationMetadataKey,
		Value:   hours,
	})
	s.emit(ctx, events.EventNotifyModerators, events.NotifyModeratorsPayload{
		Title:   "VIP duration updated",
		Message: fmt.Sprintf("VIP duration updated to %s hours.", FormatHours(hours)),
		Level:   "info",
	})
	return nil
}

// ResetDuration restores the configured default duration and returns it.
func (s *Service) ResetDuration(ctx context.Context) (float64, error) {
	hours, err := s.settings.ResetDuration(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Str("hours", FormatHours(hours)).Msg("vip duration reset to default")
	s.emit(ctx, events.EventConfigChanged, events.ConfigChangedPayload{
		Section: "vip",
		Key:     DurationMetadataKey,
		Value:   hours,
	})
	return hours, nil
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

func (s *Service) emit(ctx context.Context, t events.EventType, payload interface{}) {
	if s.bus == nil {
		return
	}
	s.bus.Emit(ctx, events.Event{Type: t, Source: "vip", Payload: payload})
}

func channelFor(backend string) events.GrantChannel {
	switch backend {
	case httpBackendName:
		return events.ChannelHTTP
	case rconBackendName:
		return events.ChannelRcon
	}
	return events.ChannelNone
}
