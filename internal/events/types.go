// Package events defines event types and payloads for the Frontline event system.
package events

import "time"

// EventType represents the type of event emitted through the EventBus.
type EventType string

const (
	// VIP grant lifecycle
	EventVipRequested   EventType = "vip_requested"
	EventVipGranted     EventType = "vip_granted"
	EventVipGrantFailed EventType = "vip_grant_failed"

	// Player link events
	EventPlayerRegistered  EventType = "player_registered"
	EventDuplicatePlayerID EventType = "duplicate_player_id"

	// Notification events
	EventNotifyModerators EventType = "notify_moderators"

	// System events
	EventHeartbeat     EventType = "heartbeat"
	EventConfigChanged EventType = "config_changed"
	EventShutdown      EventType = "shutdown"
)

// GrantChannel names the path that delivered a VIP grant.
type GrantChannel int

const (
	ChannelNone GrantChannel = iota
	ChannelHTTP
	ChannelRcon
)

var grantChannelStrings = map[GrantChannel]string{
	ChannelNone: "none",
	ChannelHTTP: "http",
	ChannelRcon: "rcon",
}

// String returns the string representation of GrantChannel.
func (c GrantChannel) String() string {
	if str, ok := grantChannelStrings[c]; ok {
		return str
	}
	return "none"
}

// MarshalJSON serializes GrantChannel as a JSON string (e.g. "http").
func (c GrantChannel) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// Event represents a single event in the system.
type Event struct {
	Type    EventType
	Source  string
	Payload interface{}
}

// VipGrantPayload describes one grant attempt. RequestID ties the requested
// event to its granted or failed outcome.
type VipGrantPayload struct {
	RequestID   string       `json:"request_id"`
	UserID      string       `json:"user_id,omitempty"`
	PlayerID    string       `json:"player_id"`
	PlayerName  string       `json:"player_name,omitempty"`
	Expiration  string       `json:"expiration,omitempty"`
	Channel     GrantChannel `json:"channel"`
	Detail      string       `json:"detail,omitempty"`
	StatusLines []string     `json:"status_lines,omitempty"`
	Error       string       `json:"error,omitempty"`
	At          time.Time    `json:"at"`
}

// PlayerRegisteredPayload is emitted after a user links a player id.
type PlayerRegisteredPayload struct {
	UserID     string `json:"user_id"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name,omitempty"`
}

// DuplicatePlayerPayload is emitted when a user tries to link a player id
// that already belongs to someone else.
type DuplicatePlayerPayload struct {
	UserID        string `json:"user_id"`
	PlayerID      string `json:"player_id"`
	ExistingOwner string `json:"existing_owner"`
	PlayerName    string `json:"player_name,omitempty"`
}

// NotifyModeratorsPayload is used for sending moderator notifications.
type NotifyModeratorsPayload struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Level   string `json:"level"` // "info", "warning", "error"
}

// HeartbeatPayload carries a periodic health snapshot.
type HeartbeatPayload struct {
	Status    string    `json:"status"`
	Uptime    string    `json:"uptime"`
	Players   int       `json:"players"`
	CPUUsage  float64   `json:"cpu_usage"`
	MemUsage  float64   `json:"mem_usage"`
	Timestamp time.Time `json:"timestamp"`
}

// ConfigChangedPayload is emitted when runtime settings change.
type ConfigChangedPayload struct {
	Section string      `json:"section"`
	Key     string      `json:"key"`
	Value   interface{} `json:"value"`
}
