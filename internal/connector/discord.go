package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/frontline-pass/frontline/internal/events"
	"github.com/frontline-pass/frontline/internal/util"
)

const webhookTimeout = 10 * time.Second

// ModerationNotifier posts moderator alerts to a Discord webhook. It listens
// for duplicate player-id attempts and generic moderator notifications.
type ModerationNotifier struct {
	webhookURL string
	roleID     string
	client     *http.Client
	logger     zerolog.Logger
}

type webhookEmbed struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description"`
	Color       int    `json:"color"`
	Timestamp   string `json:"timestamp"`
}

type webhookMessage struct {
	Content         string          `json:"content,omitempty"`
	Embeds          []webhookEmbed  `json:"embeds,omitempty"`
	AllowedMentions allowedMentions `json:"allowed_mentions"`
}

type allowedMentions struct {
	Parse []string `json:"parse"`
	Roles []string `json:"roles,omitempty"`
	Users []string `json:"users,omitempty"`
}

// NewModerationNotifier creates a notifier and subscribes it to the bus. A
// nil client gets a default one with a 10 second timeout.
func NewModerationNotifier(webhookURL, moderatorRoleID string, eventBus *events.EventBus, client *http.Client) *ModerationNotifier {
	if client == nil {
		client = &http.Client{Timeout: webhookTimeout}
	}
	n := &ModerationNotifier{
		webhookURL: webhookURL,
		roleID:     moderatorRoleID,
		client:     client,
		logger:     util.ComponentLogger("moderation"),
	}

	if eventBus != nil {
		eventBus.Subscribe(events.EventDuplicatePlayerID, "moderation.duplicate", n.onDuplicate)
		eventBus.Subscribe(events.EventNotifyModerators, "moderation.notify", n.onNotify)
	}
	return n
}

// Enabled reports whether a webhook URL is configured.
func (n *ModerationNotifier) Enabled() bool {
	return n.webhookURL != ""
}

// DuplicateMessage renders the moderator alert for a duplicate player-id
// attempt. The role mention is prefixed when roleID is set.
func DuplicateMessage(p events.DuplicatePlayerPayload, roleID string) string {
	msg := fmt.Sprintf("Duplicate Player-ID attempt detected. Player-ID `%s` is already associated with <@%s>. Attempted by <@%s>.",
		p.PlayerID, p.ExistingOwner, p.UserID)
	if roleID != "" {
		msg = fmt.Sprintf("<@&%s> %s", roleID, msg)
	}
	return msg
}

// ReportDuplicate posts a duplicate player-id alert.
func (n *ModerationNotifier) ReportDuplicate(ctx context.Context, p events.DuplicatePlayerPayload) error {
	mentions := allowedMentions{Parse: []string{}, Users: []string{p.ExistingOwner, p.UserID}}
	if n.roleID != "" {
		mentions.Roles = []string{n.roleID}
	}
	return n.post(ctx, webhookMessage{
		Content:         DuplicateMessage(p, n.roleID),
		AllowedMentions: mentions,
	})
}

// Notify posts a titled embed. Level selects the colour: error, warning or info.
func (n *ModerationNotifier) Notify(ctx context.Context, title, message, level string) error {
	var color int
	switch level {
	case "error":
		color = 0xFF0000
	case "warning":
		color = 0xFFAA00
	default:
		color = 0x00FF00
	}

	return n.post(ctx, webhookMessage{
		Embeds: []webhookEmbed{{
			Title:       title,
			Description: message,
			Color:       color,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		}},
		AllowedMentions: allowedMentions{Parse: []string{}},
	})
}

func (n *ModerationNotifier) post(ctx context.Context, msg webhookMessage) error {
	if !n.Enabled() {
		n.logger.Warn().Msg("no moderation webhook configured; dropping notification")
		return nil
	}

	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(body))
	}

	n.logger.Debug().Msg("moderation webhook notification sent")
	return nil
}

func (n *ModerationNotifier) onDuplicate(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.DuplicatePlayerPayload)
	if !ok {
		return nil
	}
	return n.ReportDuplicate(ctx, payload)
}

func (n *ModerationNotifier) onNotify(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.NotifyModeratorsPayload)
	if !ok {
		return nil
	}
	return n.Notify(ctx, payload.Title, payload.Message, payload.Level)
}
