package protocol

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// ReadPacket reads one frame from r and returns its sequence id and the raw
// (still masked) payload. It blocks until the declared length has arrived or
// the reader fails.
// Packet format: [seq:4 LE][length:4 LE][payload bytes...]
func ReadPacket(r io.Reader) (uint32, []byte, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, nil, &TransportError{Op: "read header", Err: err}
	}

	seq := binary.LittleEndian.Uint32(header[0:4])
	length := binary.LittleEndian.Uint32(header[4:8])

	if length > MaxPayloadSize {
		return seq, nil, &ProtocolError{Msg: fmt.Sprintf("payload too large: %d bytes (max %d)", length, MaxPayloadSize)}
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return seq, nil, &TransportError{Op: fmt.Sprintf("read payload (%d bytes)", length), Err: err}
	}

	return seq, payload, nil
}

// WritePacket writes a complete frame to w.
func WritePacket(w io.Writer, sequenceID uint32, payload any, key []byte) error {
	frame, err := Encode(sequenceID, payload, key)
	if err != nil {
		return err
	}
	if _, err := w.Write(frame); err != nil {
		return &TransportError{Op: "write packet", Err: err}
	}
	return nil
}

// Decode reads one frame from r, unmasks it with key when key is non-empty and
// unmarshals the JSON payload into v.
func Decode(r io.Reader, key []byte, v any) (uint32, error) {
	seq, payload, err := ReadPacket(r)
	if err != nil {
		return seq, err
	}
	if len(key) > 0 {
		payload = XOR(payload, key)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return seq, &ProtocolError{Msg: "malformed JSON payload", Err: err}
	}
	return seq, nil
}

// DecodeResponse reads one server response frame.
func DecodeResponse(r io.Reader, key []byte) (uint32, *Response, error) {
	var resp Response
	seq, err := Decode(r, key, &resp)
	if err != nil {
		return seq, nil, err
	}
	return seq, &resp, nil
}
