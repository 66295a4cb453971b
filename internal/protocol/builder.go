package protocol

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
)

// PacketBuilder constructs RCON frames.
type PacketBuilder struct {
	buf bytes.Buffer
}

// NewPacketBuilder creates a new PacketBuilder.
func NewPacketBuilder() *PacketBuilder {
	return &PacketBuilder{}
}

// WriteUint32 writes a uint32 in little-endian order.
func (b *PacketBuilder) WriteUint32(v uint32) *PacketBuilder {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.buf.Write(tmp[:])
	return b
}

// WriteBytes writes raw bytes.
func (b *PacketBuilder) WriteBytes(data []byte) *PacketBuilder {
	b.buf.Write(data)
	return b
}

// Build returns the constructed packet bytes.
func (b *PacketBuilder) Build() []byte {
	return b.buf.Bytes()
}

// MarshalPayload serializes v as compact UTF-8 JSON without HTML escaping.
func MarshalPayload(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Encode builds a complete frame: header (sequence id, payload length) followed
// by the JSON payload, masked with key when key is non-empty.
func Encode(sequenceID uint32, payload any, key []byte) ([]byte, error) {
	data, err := MarshalPayload(payload)
	if err != nil {
		return nil, &ProtocolError{Msg: "failed to encode payload", Err: err}
	}
	if len(key) > 0 {
		data = XOR(data, key)
	}

	b := NewPacketBuilder()
	b.WriteUint32(sequenceID)
	b.WriteUint32(uint32(len(data)))
	b.WriteBytes(data)
	return b.Build(), nil
}

// BuildRequest assembles a Request for the given command.
func BuildRequest(name, authToken string, version int, body any) Request {
	return Request{
		AuthToken:   authToken,
		Version:     version,
		Name:        name,
		ContentBody: body,
	}
}
