package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXORIsInvolutive(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		key  []byte
	}{
		{"single byte key", []byte(`{"Name":"Login"}`), []byte{0x6b}},
		{"key longer than data", []byte("ab"), []byte("0123456789")},
		{"multi byte key", bytes.Repeat([]byte{0x00, 0xff, 0x10}, 50), []byte{1, 2, 3, 4, 5}},
		{"empty data", []byte{}, []byte("k")},
		{"binary", []byte{0, 1, 2, 3, 254, 255}, []byte{0xff}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			masked := XOR(tt.data, tt.key)
			assert.Equal(t, tt.data, XOR(masked, tt.key))
		})
	}
}

func TestXORMasksEveryByte(t *testing.T) {
	assert.Equal(t, []byte{'a' ^ 'k', 'b' ^ 'k'}, XOR([]byte("ab"), []byte("k")))
	assert.Equal(t, []byte{1 ^ 1, 2 ^ 2, 3 ^ 1}, XOR([]byte{1, 2, 3}, []byte{1, 2}))
}

func TestXOREmptyKeyCopies(t *testing.T) {
	in := []byte("plain")
	out := XOR(in, nil)
	assert.Equal(t, in, out)
	out[0] = 'X'
	assert.Equal(t, byte('p'), in[0])
}

func TestEncodeHeaderLayout(t *testing.T) {
	frame, err := Encode(7, BuildRequest(CmdServerConnect, "", 2, ""), nil)
	require.NoError(t, err)

	payload := `{"AuthToken":"","Version":2,"Name":"ServerConnect","ContentBody":""}`
	require.Len(t, frame, HeaderSize+len(payload))
	assert.Equal(t, uint32(7), binary.LittleEndian.Uint32(frame[0:4]))
	assert.Equal(t, uint32(len(payload)), binary.LittleEndian.Uint32(frame[4:8]))
	assert.Equal(t, payload, string(frame[HeaderSize:]))
}

func TestEncodeDoesNotEscapeHTML(t *testing.T) {
	frame, err := Encode(0, BuildRequest(CmdAddVip, "tok", 2, AddVipBody{PlayerID: "76561198", Description: "<vip> & co"}), nil)
	require.NoError(t, err)
	assert.Contains(t, string(frame[HeaderSize:]), `"Description":"<vip> & co"`)
	assert.Contains(t, string(frame[HeaderSize:]), `"ContentBody":{"PlayerId":"76561198"`)
}

func TestFramingRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		seq     uint32
		payload map[string]any
		key     []byte
	}{
		{"unmasked", 0, map[string]any{"Name": "ServerConnect", "ContentBody": ""}, nil},
		{"masked", 1, map[string]any{"Name": "Login", "ContentBody": "secret"}, []byte("k")},
		{"nested", 4294967295, map[string]any{"ContentBody": map[string]any{"PlayerId": "1", "n": 2.5}}, []byte{9, 8, 7}},
		{"unicode", 42, map[string]any{"StatusMessage": "ok ✓ ünïcode"}, []byte("key")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := Encode(tt.seq, tt.payload, tt.key)
			require.NoError(t, err)

			var got map[string]any
			seq, err := Decode(bytes.NewReader(frame), tt.key, &got)
			require.NoError(t, err)
			assert.Equal(t, tt.seq, seq)
			assert.Equal(t, tt.payload, got)
		})
	}
}

func TestMaskedPayloadDiffersFromPlain(t *testing.T) {
	plain, err := Encode(3, map[string]string{"a": "b"}, nil)
	require.NoError(t, err)
	masked, err := Encode(3, map[string]string{"a": "b"}, []byte("k"))
	require.NoError(t, err)

	assert.Equal(t, plain[:HeaderSize], masked[:HeaderSize])
	assert.Equal(t, XOR(plain[HeaderSize:], []byte("k")), masked[HeaderSize:])
}

func TestDecodeShortReadIsTransportError(t *testing.T) {
	frame, err := Encode(1, map[string]string{"a": "b"}, nil)
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"partial header", frame[:5]},
		{"partial payload", frame[:len(frame)-2]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v map[string]any
			_, err := Decode(bytes.NewReader(tt.data), nil, &v)
			var te *TransportError
			require.ErrorAs(t, err, &te)
			assert.True(t, errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF))
		})
	}
}

func TestDecodeMalformedJSONIsProtocolError(t *testing.T) {
	b := NewPacketBuilder()
	b.WriteUint32(0).WriteUint32(3).WriteBytes([]byte("{no"))

	var v map[string]any
	_, err := Decode(bytes.NewReader(b.Build()), nil, &v)
	var pe *ProtocolError
	require.ErrorAs(t, err, &pe)
}

func TestDecodeWrongKeyIsProtocolError(t *testing.T) {
	frame, err := Encode(0, map[string]string{"a": "b"}, []byte("k"))
	require.NoError(t, err)

	var v map[string]any
	_, err = Decode(bytes.NewReader(frame), []byte("z"), &v)
	var pe *ProtocolError
	assert.ErrorAs(t, err, &pe)
}

func TestReadPacketRejectsOversizedPayload(t *testing.T) {
	b := NewPacketBuilder()
	b.WriteUint32(0).WriteUint32(MaxPayloadSize + 1)

	_, _, err := ReadPacket(bytes.NewReader(b.Build()))
	var pe *ProtocolError
	assert.ErrorAs(t, err, &pe)
}

func TestResponseFieldAliases(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		code    *int
		message string
		content string
		hasBody bool
	}{
		{
			name:    "pascal case",
			payload: []byte(`{"StatusCode":200,"StatusMessage":"ok","ContentBody":"tok"}`),
			code:    intPtr(200), message: "ok", content: "tok", hasBody: true,
		},
		{
			name:    "camel case",
			payload: []byte(`{"statusCode":401,"statusMessage":"denied","contentBody":"x"}`),
			code:    intPtr(401), message: "denied", content: "x", hasBody: true,
		},
		{
			name:    "null pascal falls back to camel",
			payload: []byte(`{"StatusCode":null,"statusCode":200,"ContentBody":null,"contentBody":"y"}`),
			code:    intPtr(200), content: "y", hasBody: true,
		},
		{
			name:    "non string body",
			payload: []byte(`{"StatusCode":200,"ContentBody":{"a":1}}`),
			code:    intPtr(200),
		},
		{
			name:    "missing everything",
			payload: []byte(`{}`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := Encode(5, jsonRaw(tt.payload), nil)
			require.NoError(t, err)

			seq, resp, err := DecodeResponse(bytes.NewReader(frame), nil)
			require.NoError(t, err)
			assert.Equal(t, uint32(5), seq)
			assert.Equal(t, tt.code, resp.StatusCode)
			assert.Equal(t, tt.message, resp.StatusMessage)

			content, ok := resp.ContentString()
			assert.Equal(t, tt.hasBody, ok)
			assert.Equal(t, tt.content, content)
		})
	}
}

func TestResponseSuccess(t *testing.T) {
	assert.True(t, (&Response{StatusCode: intPtr(200)}).Success())
	assert.False(t, (&Response{StatusCode: intPtr(500)}).Success())
	assert.False(t, (&Response{}).Success())
}

type jsonRaw []byte

func (j jsonRaw) MarshalJSON() ([]byte, error) { return j, nil }

func intPtr(v int) *int { return &v }
