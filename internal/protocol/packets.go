// Package protocol implements the RCON wire format used to talk to the game
// server console: an 8-byte little-endian header (sequence id, payload length)
// followed by a compact UTF-8 JSON payload that is XOR-masked with the
// per-connection session key once the handshake has completed.
package protocol

import (
	"encoding/json"
	"strings"
)

// Command names understood by the RCON server.
const (
	CmdServerConnect = "ServerConnect" // Unmasked handshake, returns the base64 XOR key
	CmdLogin         = "Login"         // Exchanges the password for an auth token
	CmdAddVip        = "AddVip"        // Grants VIP to a player id
)

// HeaderSize is the size of the packet header in bytes.
const HeaderSize = 8

// MaxPayloadSize bounds a single payload so a corrupt header cannot make us
// allocate gigabytes.
const MaxPayloadSize = 16 << 20

// StatusOK is the application status code for a successful command.
const StatusOK = 200

// DefaultVersion is the protocol version sent with every request.
const DefaultVersion = 2

// Request is the logical payload of a client->server packet.
type Request struct {
	AuthToken   string `json:"AuthToken"`
	Version     int    `json:"Version"`
	Name        string `json:"Name"`
	ContentBody any    `json:"ContentBody"`
}

// AddVipBody is the ContentBody of an AddVip request.
type AddVipBody struct {
	PlayerID    string `json:"PlayerId"`
	Description string `json:"Description"`
}

// Response is the logical payload of a server->client packet. The server is
// inconsistent about field casing, so both PascalCase and camelCase keys are
// accepted.
type Response struct {
	StatusCode    *int
	StatusMessage string
	ContentBody   json.RawMessage
}

// UnmarshalJSON decodes a response object, preferring PascalCase keys.
func (r *Response) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := pick(raw, "StatusCode", "statusCode"); ok {
		var f float64
		if err := json.Unmarshal(v, &f); err == nil && f == float64(int(f)) {
			code := int(f)
			r.StatusCode = &code
		}
	}
	if v, ok := pick(raw, "StatusMessage", "statusMessage"); ok {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			r.StatusMessage = s
		}
	}
	if v, ok := pick(raw, "ContentBody", "contentBody"); ok {
		r.ContentBody = v
	}
	return nil
}

// Success reports whether the response carries status 200.
func (r *Response) Success() bool {
	return r.StatusCode != nil && *r.StatusCode == StatusOK
}

// ContentString returns the ContentBody as a string. ok is false when the
// body is missing, null, or not a JSON string.
func (r *Response) ContentString() (string, bool) {
	if len(r.ContentBody) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(r.ContentBody, &s); err != nil {
		return "", false
	}
	return s, true
}

// pick returns the first non-null value among keys.
func pick(raw map[string]json.RawMessage, keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || strings.TrimSpace(string(v)) == "null" {
			continue
		}
		return v, true
	}
	return nil, false
}
