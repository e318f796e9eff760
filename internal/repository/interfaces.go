package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tessera-app/tessera/internal/models"
)

// Every method takes context.Context first: all of these do I/O, and the
// caller's deadline/cancellation must reach the database.

// PendingLiker is a user who sent a LIKE the recipient has not responded
// to yet, with the time of the like (for newest-first ordering).
type PendingLiker struct {
	UserID  uuid.UUID `json:"user_id"`
	LikedAt time.Time `json:"liked_at"`
}

// LikeRepository is the ledger of directional like/pass events.
type LikeRepository interface {
	// Exists checks whether a like/pass was already recorded for the
	// exact directed (from, to) pair, regardless of direction.
	Exists(ctx context.Context, from, to uuid.UUID) (bool, error)

	// Save persists a like. The ledger enforces uniqueness on the
	// directed pair; Save on a duplicate returns an ALREADY_EXISTS error
	// rather than silently overwriting (first decision wins).
	Save(ctx context.Context, like *models.Like) error

	// ReverseLikeExists checks whether `to` already sent a LIKE
	// (not a PASS) back at `from` — the reciprocity test.
	ReverseLikeExists(ctx context.Context, from, to uuid.UUID) (bool, error)

	// PendingLikers returns users who liked `user` and have not been
	// liked or passed back, newest like first.
	PendingLikers(ctx context.Context, user uuid.UUID) ([]PendingLiker, error)
}

// MatchRepository persists Match entities.
type MatchRepository interface {
	// InsertIfAbsent inserts the match unless one already exists for its
	// pair ID. Returns (stored match, true) when this call created the
	// row, or (existing match, false) when another writer got there
	// first. A uniqueness conflict is a distinguishable outcome here,
	// never a generic error — that is the idempotence boundary for the
	// "both sides like at once" race.
	InsertIfAbsent(ctx context.Context, match *models.Match) (*models.Match, bool, error)

	// GetByID returns the match for a pair ID. Returns nil, nil if not found.
	GetByID(ctx context.Context, id string) (*models.Match, error)

	// Update persists a state transition (state + end stamps). The write
	// is guarded on `from`, the state the transition was computed
	// against: false means another writer moved the row first and
	// nothing was written, so the caller must re-fetch and re-apply.
	// Without the guard a stale snapshot could overwrite a committed
	// terminal state (an unmatch reverting a block).
	Update(ctx context.Context, match *models.Match, from models.MatchState) (bool, error)

	// ListForUser returns every match involving the user, newest first,
	// ended ones included.
	ListForUser(ctx context.Context, user uuid.UUID) ([]models.Match, error)
}

// ConversationRepository persists Conversation entities. Creation happens
// inside MessageRepository.SendInMatch (lazily, transactionally); this
// interface covers reads and the cursor/archival updates.
type ConversationRepository interface {
	// GetByID returns the conversation for a pair ID. Returns nil, nil if
	// not found.
	GetByID(ctx context.Context, id string) (*models.Conversation, error)

	// ListForUser returns the user's visible conversations, most recent
	// activity first.
	ListForUser(ctx context.Context, user uuid.UUID) ([]models.Conversation, error)

	// MarkRead advances the user's read cursor. NOT_FOUND when the
	// conversation does not exist yet, NOT_A_PARTICIPANT when it does
	// but the user is not a party — the two are distinct answers.
	MarkRead(ctx context.Context, id string, user uuid.UUID, at time.Time) error

	// Archive soft-marks the conversation when the backing match ends.
	// No-op if already archived (first reason wins).
	Archive(ctx context.Context, id string, reason models.EndReason, at time.Time) error

	// Hide removes the conversation from one party's inbox. Same
	// NOT_FOUND / NOT_A_PARTICIPANT distinction as MarkRead.
	Hide(ctx context.Context, id string, user uuid.UUID) error
}

// MessageRepository persists messages and owns the one compound write in
// the system: the gated send.
type MessageRepository interface {
	// SendInMatch appends a message for the pair, atomically with the
	// match-state check: inside a single transaction it locks the match
	// row, verifies the state permits messaging, creates the conversation
	// if absent, inserts the message and bumps last_message_at. The match
	// cannot become non-messageable between the check and the append.
	// Returns a NO_ACTIVE_MATCH error when the match is absent or closed.
	// Content must already be validated.
	SendInMatch(ctx context.Context, pairID string, sender uuid.UUID, content string) (*models.Message, error)

	// List returns messages in a conversation, oldest first, with
	// limit/offset pagination.
	List(ctx context.Context, conversationID string, limit, offset int) ([]models.Message, error)

	// Latest returns the most recent message, nil, nil if none.
	Latest(ctx context.Context, conversationID string) (*models.Message, error)

	// CountUnread counts messages not sent by `user` and created strictly
	// after the user's read cursor (all of them when the cursor is nil).
	CountUnread(ctx context.Context, conversationID string, user uuid.UUID) (int, error)
}
