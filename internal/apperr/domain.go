package apperr

// Domain errors shared across services.
var (
	ErrSelfReference    = InvalidArg("the two users must be distinct")
	ErrNotAParticipant  = NotAParticipant("user is not a party to this entity")
	ErrMatchNotFound    = NotFound("match not found")
	ErrConvoNotFound    = NotFound("conversation not found")
	ErrNoActiveMatch    = NoActiveMatch("no match between these users permits messaging")
	ErrEmptyMessage     = InvalidArg("message cannot be empty")
	ErrMessageTooLong   = InvalidArg("message too long")
	ErrInvalidDirection = InvalidArg("direction must be LIKE or PASS")
)
