package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tessera-app/tessera/internal/apperr"
	"github.com/tessera-app/tessera/internal/events"
	"github.com/tessera-app/tessera/internal/models"
	"github.com/tessera-app/tessera/internal/repository"
)

// SendStatus is the outcome kind of a send attempt.
type SendStatus string

const (
	StatusSent SendStatus = "SENT"
	// StatusRejected: there is no match between the pair that permits
	// messaging (absent, unmatched, exited or blocked). Not a failure —
	// an expected outcome the caller shows to the user.
	StatusRejected SendStatus = "REJECTED"
)

// RejectReason qualifies a REJECTED outcome.
type RejectReason string

const ReasonNoActiveMatch RejectReason = "NO_ACTIVE_MATCH"

// SendOutcome is what a send attempt produced. Message is set only for
// StatusSent, Reason only for StatusRejected.
type SendOutcome struct {
	Status  SendStatus      `json:"status"`
	Message *models.Message `json:"message,omitempty"`
	Reason  RejectReason    `json:"reason,omitempty"`
}

// ConversationPreview is one inbox row: the thread, who it is with, the
// latest message and how many are unread.
type ConversationPreview struct {
	Conversation models.Conversation `json:"conversation"`
	OtherUser    uuid.UUID           `json:"other_user"`
	LastMessage  *models.Message     `json:"last_message,omitempty"`
	UnreadCount  int                 `json:"unread_count"`
}

// Messaging gates message creation on match state and tracks per-party
// reads. Conversations come into existence on first send, never before.
type Messaging struct {
	convos   repository.ConversationRepository
	messages repository.MessageRepository
	events   Notifier
	logger   *zap.Logger
}

func NewMessaging(
	convos repository.ConversationRepository,
	messages repository.MessageRepository,
	events Notifier,
	logger *zap.Logger,
) *Messaging {
	return &Messaging{convos: convos, messages: messages, events: events, logger: logger}
}

// Send delivers a message from one user to another. The match-state
// check and the append are one atomic operation inside the message
// store; this layer validates the content and maps the store's typed
// errors onto outcomes.
func (s *Messaging) Send(ctx context.Context, from, to uuid.UUID, content string) (*SendOutcome, error) {
	id, err := models.PairID(from, to)
	if err != nil {
		return nil, err
	}
	content, err = models.ValidateContent(content)
	if err != nil {
		return nil, err
	}

	msg, err := s.messages.SendInMatch(ctx, id, from, content)
	if err != nil {
		if apperr.Is(err, apperr.CodeNoActiveMatch) {
			return &SendOutcome{Status: StatusRejected, Reason: ReasonNoActiveMatch}, nil
		}
		if apperr.Is(err, apperr.CodeNotAParticipant) {
			return nil, err
		}
		return nil, apperr.Unavailable("message send failed", err)
	}

	s.events.Notify(ctx, events.TypeMessageSent, msg, to)
	return &SendOutcome{Status: StatusSent, Message: msg}, nil
}

// MarkRead advances the user's read cursor on their conversation with
// `other` to now. A no-op when no conversation exists yet — reading an
// empty thread is not an error, there is just nothing to mark.
func (s *Messaging) MarkRead(ctx context.Context, user, other uuid.UUID) error {
	id, err := models.PairID(user, other)
	if err != nil {
		return err
	}
	if err := s.convos.MarkRead(ctx, id, user, time.Now().UTC()); err != nil {
		switch {
		case apperr.Is(err, apperr.CodeNotFound):
			return nil
		case apperr.Is(err, apperr.CodeNotAParticipant):
			return err
		default:
			return apperr.Unavailable("mark read failed", err)
		}
	}
	return nil
}

// UnreadCount returns how many messages from `other` the user has not
// read yet. Zero when no conversation exists.
func (s *Messaging) UnreadCount(ctx context.Context, user, other uuid.UUID) (int, error) {
	id, err := models.PairID(user, other)
	if err != nil {
		return 0, err
	}
	convo, err := s.convos.GetByID(ctx, id)
	if err != nil {
		return 0, apperr.Unavailable("conversation lookup failed", err)
	}
	if convo == nil {
		return 0, nil
	}
	n, err := s.messages.CountUnread(ctx, id, user)
	if err != nil {
		return 0, apperr.Unavailable("unread count failed", err)
	}
	return n, nil
}

// ListMessages returns a page of the thread between user and other,
// oldest first. Empty when no conversation exists or the user is not a
// party to it.
func (s *Messaging) ListMessages(ctx context.Context, user, other uuid.UUID, limit, offset int) ([]models.Message, error) {
	id, err := models.PairID(user, other)
	if err != nil {
		return nil, err
	}
	convo, err := s.convos.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Unavailable("conversation lookup failed", err)
	}
	if convo == nil || !convo.Involves(user) {
		return []models.Message{}, nil
	}
	msgs, err := s.messages.List(ctx, id, limit, offset)
	if err != nil {
		return nil, apperr.Unavailable("message list failed", err)
	}
	return msgs, nil
}

// ListConversations returns the user's inbox: visible threads, most
// recent activity first, each with the latest message and unread count.
func (s *Messaging) ListConversations(ctx context.Context, user uuid.UUID) ([]ConversationPreview, error) {
	if user == uuid.Nil {
		return nil, apperr.InvalidArg("user id cannot be nil")
	}
	convos, err := s.convos.ListForUser(ctx, user)
	if err != nil {
		return nil, apperr.Unavailable("conversation list failed", err)
	}

	previews := make([]ConversationPreview, 0, len(convos))
	for i := range convos {
		convo := convos[i]
		other, err := convo.OtherUser(user)
		if err != nil {
			return nil, err
		}
		last, err := s.messages.Latest(ctx, convo.ID)
		if err != nil {
			return nil, apperr.Unavailable("latest message lookup failed", err)
		}
		unread, err := s.messages.CountUnread(ctx, convo.ID, user)
		if err != nil {
			return nil, apperr.Unavailable("unread count failed", err)
		}
		previews = append(previews, ConversationPreview{
			Conversation: convo,
			OtherUser:    other,
			LastMessage:  last,
			UnreadCount:  unread,
		})
	}
	return previews, nil
}

// TotalUnread sums unread counts across the user's visible
// conversations.
func (s *Messaging) TotalUnread(ctx context.Context, user uuid.UUID) (int, error) {
	convos, err := s.convos.ListForUser(ctx, user)
	if err != nil {
		return 0, apperr.Unavailable("conversation list failed", err)
	}
	total := 0
	for i := range convos {
		n, err := s.messages.CountUnread(ctx, convos[i].ID, user)
		if err != nil {
			return 0, apperr.Unavailable("unread count failed", err)
		}
		total += n
	}
	return total, nil
}

// HideConversation removes the thread from the user's inbox. The other
// party's view and the history are untouched.
func (s *Messaging) HideConversation(ctx context.Context, user, other uuid.UUID) error {
	id, err := models.PairID(user, other)
	if err != nil {
		return err
	}
	if err := s.convos.Hide(ctx, id, user); err != nil {
		if apperr.Is(err, apperr.CodeNotFound) || apperr.Is(err, apperr.CodeNotAParticipant) {
			return err
		}
		return apperr.Unavailable("hide conversation failed", err)
	}
	return nil
}
