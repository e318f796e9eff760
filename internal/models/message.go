package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tessera-app/tessera/internal/apperr"
)

// MaxMessageLength caps message content after trimming.
const MaxMessageLength = 1000

// Message is a single entry in a conversation. Append-only, immutable
// after creation.
type Message struct {
	ID             uuid.UUID `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ValidateContent trims the content and enforces the 1..1000 char rule.
// Returns the trimmed content.
func ValidateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", apperr.ErrEmptyMessage
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return "", apperr.ErrMessageTooLong
	}
	return content, nil
}

// NewMessage creates a validated message with a fresh ID and the current
// time.
func NewMessage(conversationID string, senderID uuid.UUID, content string) (*Message, error) {
	content, err := ValidateContent(content)
	if err != nil {
		return nil, err
	}
	return &Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}, nil
}
