package protocol

// XOR masks data with key cycled by position and returns a new slice.
// The operation is its own inverse. An empty key returns an unmodified copy.
func XOR(data, key []byte) []byte {
	out := make([]byte, len(data))
	if len(key) == 0 {
		copy(out, data)
		return out
	}
	for i, b := range data {
		out[i] = b ^ key[i%len(key)]
	}
	return out
}
