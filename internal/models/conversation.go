package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tessera-app/tessera/internal/apperr"
)

// Conversation is the private message thread for a user pair. It shares
// the deterministic pair ID with the pair's Match but is a distinct
// entity: the thread keeps existing (for history) after the match ends,
// while new messages are gated by the match state.
//
// Created lazily — the first successful send materializes it.
type Conversation struct {
	ID            string     `json:"id"`
	UserLow       uuid.UUID  `json:"user_low"`
	UserHigh      uuid.UUID  `json:"user_high"`
	CreatedAt     time.Time  `json:"created_at"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`

	// Per-party read cursors. Nil means the party has never read the
	// thread.
	LowLastReadAt  *time.Time `json:"low_last_read_at,omitempty"`
	HighLastReadAt *time.Time `json:"high_last_read_at,omitempty"`

	// Archival is a soft mark, set when the backing match ends.
	ArchivedAt    *time.Time `json:"archived_at,omitempty"`
	ArchiveReason *EndReason `json:"archive_reason,omitempty"`

	// Per-party inbox visibility: either side can hide the thread from
	// their own list without destroying the other side's history.
	VisibleToLow  bool `json:"visible_to_low"`
	VisibleToHigh bool `json:"visible_to_high"`
}

// NewConversation creates a conversation for the pair, visible to both,
// with no messages and no reads.
func NewConversation(a, b uuid.UUID) (*Conversation, error) {
	id, err := PairID(a, b)
	if err != nil {
		return nil, err
	}
	low, high, err := SortPair(a, b)
	if err != nil {
		return nil, err
	}
	return &Conversation{
		ID:            id,
		UserLow:       low,
		UserHigh:      high,
		CreatedAt:     time.Now().UTC(),
		VisibleToLow:  true,
		VisibleToHigh: true,
	}, nil
}

// Involves reports whether the user is one of the two parties.
func (c *Conversation) Involves(userID uuid.UUID) bool {
	return c.UserLow == userID || c.UserHigh == userID
}

// OtherUser returns the counterpart of the given participant.
func (c *Conversation) OtherUser(userID uuid.UUID) (uuid.UUID, error) {
	switch userID {
	case c.UserLow:
		return c.UserHigh, nil
	case c.UserHigh:
		return c.UserLow, nil
	default:
		return uuid.Nil, apperr.ErrNotAParticipant
	}
}

// MarkRead advances the party's read cursor.
func (c *Conversation) MarkRead(userID uuid.UUID, at time.Time) error {
	switch userID {
	case c.UserLow:
		c.LowLastReadAt = &at
	case c.UserHigh:
		c.HighLastReadAt = &at
	default:
		return apperr.ErrNotAParticipant
	}
	return nil
}

// LastReadAt returns the party's read cursor, nil if never read.
func (c *Conversation) LastReadAt(userID uuid.UUID) (*time.Time, error) {
	switch userID {
	case c.UserLow:
		return c.LowLastReadAt, nil
	case c.UserHigh:
		return c.HighLastReadAt, nil
	default:
		return nil, apperr.ErrNotAParticipant
	}
}

// UnreadCount counts messages from the other party created strictly
// after the user's read cursor.
//
// Strictly after: a message stamped exactly at the cursor counts as
// already read. Under coarse clock resolution a send and a mark-read can
// share a timestamp, and counting that message as unread would make a
// just-read thread show unread forever.
func (c *Conversation) UnreadCount(userID uuid.UUID, msgs []Message) (int, error) {
	lastRead, err := c.LastReadAt(userID)
	if err != nil {
		return 0, err
	}
	n := 0
	for i := range msgs {
		if msgs[i].SenderID == userID {
			continue
		}
		if lastRead == nil || msgs[i].CreatedAt.After(*lastRead) {
			n++
		}
	}
	return n, nil
}

// TouchLastMessage records activity on the thread.
func (c *Conversation) TouchLastMessage(at time.Time) {
	c.LastMessageAt = &at
}

// Archive soft-marks the thread when the backing match ends. Idempotent:
// the first reason wins.
func (c *Conversation) Archive(reason EndReason, at time.Time) {
	if c.ArchivedAt != nil {
		return
	}
	c.ArchivedAt = &at
	c.ArchiveReason = &reason
}

// Hide removes the thread from one party's inbox without touching the
// other party's view or the message history.
func (c *Conversation) Hide(userID uuid.UUID) error {
	switch userID {
	case c.UserLow:
		c.VisibleToLow = false
	case c.UserHigh:
		c.VisibleToHigh = false
	default:
		return apperr.ErrNotAParticipant
	}
	return nil
}

// VisibleTo reports whether the thread appears in the party's inbox.
func (c *Conversation) VisibleTo(userID uuid.UUID) bool {
	switch userID {
	case c.UserLow:
		return c.VisibleToLow
	case c.UserHigh:
		return c.VisibleToHigh
	default:
		return false
	}
}
