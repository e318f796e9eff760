package events

import (
	"time"

	"github.com/google/uuid"
)

// Type enumerates the events pushed to a user's live stream.
type Type string

const (
	TypeMatchCreated Type = "match_created"
	TypeMatchEnded   Type = "match_ended"
	TypeMessageSent  Type = "message_sent"
)

// Event is the envelope published to a user's channel. Payload carries
// the entity the event is about (the match or the message) serialized as
// the API would return it, so clients handle both paths uniformly.
type Event struct {
	Type       Type      `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

// ChannelFor is the per-user Redis pub/sub channel name.
func ChannelFor(userID uuid.UUID) string {
	return "events:" + userID.String()
}
