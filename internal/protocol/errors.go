package protocol

import "fmt"

// TransportError reports a socket-level failure: short read, reset, timeout.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("rcon transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError reports a payload the peer should never have sent, such as
// malformed JSON after unmasking.
type ProtocolError struct {
	Msg string
	Err error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rcon protocol: %s: %v", e.Msg, e.Err)
	}
	return "rcon protocol: " + e.Msg
}

func (e *ProtocolError) Unwrap() error { return e.Err }
