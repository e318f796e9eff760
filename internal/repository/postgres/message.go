package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tessera-app/tessera/internal/apperr"
	"github.com/tessera-app/tessera/internal/models"
)

type MessageStore struct {
	pool *pgxpool.Pool
}

func NewMessageStore(pool *pgxpool.Pool) *MessageStore {
	return &MessageStore{pool: pool}
}

// SendInMatch is the gated append. The match-state check and the message
// insert are one transaction:
//
//  1. Lock the match row with SELECT ... FOR SHARE. A state transition
//     (unmatch, block) is an UPDATE on that row and needs the exclusive
//     lock, so it cannot slip in between our check and our insert.
//     FOR SHARE (not FOR UPDATE) so concurrent sends on a hot pair don't
//     serialize against each other — they only serialize against
//     transitions.
//  2. Verify the state still permits messaging.
//  3. Create the conversation if absent. ON CONFLICT DO NOTHING makes
//     the creation race first-writer-wins; the loser just proceeds.
//  4. Insert the message and bump last_message_at.
func (s *MessageStore) SendInMatch(ctx context.Context, pairID string, sender uuid.UUID, content string) (*models.Message, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin send: %w", err)
	}
	// Rollback after a successful commit is a no-op.
	defer tx.Rollback(ctx)

	var state string
	var userLow, userHigh uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT state, user_low, user_high
		FROM matches
		WHERE id = $1
		FOR SHARE`, pairID).Scan(&state, &userLow, &userHigh)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNoActiveMatch
		}
		return nil, fmt.Errorf("lock match for send: %w", err)
	}
	if st := models.MatchState(state); st != models.MatchActive && st != models.MatchFriends {
		return nil, apperr.ErrNoActiveMatch
	}
	if sender != userLow && sender != userHigh {
		return nil, apperr.ErrNotAParticipant
	}

	now := time.Now().UTC()
	_, err = tx.Exec(ctx, `
		INSERT INTO conversations (id, user_low, user_high, created_at, visible_to_low, visible_to_high)
		VALUES ($1, $2, $3, $4, true, true)
		ON CONFLICT (id) DO NOTHING`, pairID, userLow, userHigh, now)
	if err != nil {
		return nil, fmt.Errorf("ensure conversation: %w", err)
	}

	msg := models.Message{
		ID:             uuid.New(),
		ConversationID: pairID,
		SenderID:       sender,
		Content:        content,
		CreatedAt:      now,
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO messages (id, conversation_id, sender_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		msg.ID, msg.ConversationID, msg.SenderID, msg.Content, msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE conversations SET last_message_at = $2 WHERE id = $1`,
		pairID, msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("touch conversation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit send: %w", err)
	}
	return &msg, nil
}

func (s *MessageStore) List(ctx context.Context, conversationID string, limit, offset int) ([]models.Message, error) {
	// Oldest first — a chat renders top-down. Offset pagination matches
	// how clients page a finite two-party thread.
	query := `
		SELECT id, conversation_id, sender_id, content, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3`

	rows, err := s.pool.Query(ctx, query, conversationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

func (s *MessageStore) Latest(ctx context.Context, conversationID string) (*models.Message, error) {
	query := `
		SELECT id, conversation_id, sender_id, content, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	var m models.Message
	err := s.pool.QueryRow(ctx, query, conversationID).Scan(
		&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest message: %w", err)
	}
	return &m, nil
}

func (s *MessageStore) CountUnread(ctx context.Context, conversationID string, user uuid.UUID) (int, error) {
	// Strictly greater than the read cursor: a message stamped exactly
	// at the cursor is already read. A NULL cursor means never read, so
	// every message from the other party counts.
	query := `
		SELECT count(*)
		FROM messages m
		JOIN conversations c ON c.id = m.conversation_id
		WHERE m.conversation_id = $1
		  AND m.sender_id <> $2
		  AND (
			(c.user_low  = $2 AND (c.low_last_read_at  IS NULL OR m.created_at > c.low_last_read_at))
			OR
			(c.user_high = $2 AND (c.high_last_read_at IS NULL OR m.created_at > c.high_last_read_at))
		  )`

	var n int
	err := s.pool.QueryRow(ctx, query, conversationID, user).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}
