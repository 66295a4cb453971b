package connector

// RconError is returned for any failure on the RCON path. Msg is suitable
// for showing to the user; Err keeps the transport or protocol cause.
type RconError struct {
	Msg string
	Err error
}

func (e *RconError) Error() string { return e.Msg }

func (e *RconError) Unwrap() error { return e.Err }

func rconErr(msg string, cause error) *RconError {
	return &RconError{Msg: msg, Err: cause}
}

// VipHTTPError is returned for any failure on the HTTP admin API path.
// StatusCode is zero when no response was received.
type VipHTTPError struct {
	Msg        string
	StatusCode int
	Err        error
}

func (e *VipHTTPError) Error() string { return e.Msg }

func (e *VipHTTPError) Unwrap() error { return e.Err }
