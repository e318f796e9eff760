package apperr

// Code classifies an error so callers can branch on error kind without
// inspecting message text. HTTP and event layers map codes to wire
// representations; the core never does.
type Code string

const (
	CodeUnknown           Code = "UNKNOWN"
	CodeInvalidArgument   Code = "INVALID_ARGUMENT"
	CodeNotFound          Code = "NOT_FOUND"
	CodeAlreadyExists     Code = "ALREADY_EXISTS"
	CodeNotAParticipant   Code = "NOT_A_PARTICIPANT"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodeNoActiveMatch     Code = "NO_ACTIVE_MATCH"
	CodeUnavailable       Code = "UNAVAILABLE"
	CodeInternal          Code = "INTERNAL"
)
