package errcode

// Code is a stable, diagnostics-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable). These name the failure taxonomy of
// the retention core; collaborators report them on their diagnostic
// surfaces but never paint them on the panel.
const (
	OK Code = "ok"

	// Retention core
	UninitializedAccess Code = "uninitialized_access"
	LockUnavailable     Code = "lock_unavailable"
	RetentionCorruption Code = "retention_corruption"
	CapacityOverflow    Code = "capacity_overflow"
	RegistryFull        Code = "registry_full"

	// Collaborators
	SensorTimeout  Code = "sensor_timeout"
	SensorProtocol Code = "sensor_protocol"
	InvalidParams  Code = "invalid_params"
	InvalidPayload Code = "invalid_payload"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}

func (e *E) Unwrap() error { return e.Err }

func (e *E) Code() Code { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
