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

type ConversationStore struct {
	pool *pgxpool.Pool
}

func NewConversationStore(pool *pgxpool.Pool) *ConversationStore {
	return &ConversationStore{pool: pool}
}

const convoColumns = `id, user_low, user_high, created_at, last_message_at,
	low_last_read_at, high_last_read_at, archived_at, archive_reason,
	visible_to_low, visible_to_high`

func scanConversation(row pgx.Row) (*models.Conversation, error) {
	var c models.Conversation
	var reason *string
	err := row.Scan(
		&c.ID,
		&c.UserLow,
		&c.UserHigh,
		&c.CreatedAt,
		&c.LastMessageAt,
		&c.LowLastReadAt,
		&c.HighLastReadAt,
		&c.ArchivedAt,
		&reason,
		&c.VisibleToLow,
		&c.VisibleToHigh,
	)
	if err != nil {
		return nil, err
	}
	if reason != nil {
		r := models.EndReason(*reason)
		c.ArchiveReason = &r
	}
	return &c, nil
}

func (s *ConversationStore) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	query := `SELECT ` + convoColumns + ` FROM conversations WHERE id = $1`

	c, err := scanConversation(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return c, nil
}

func (s *ConversationStore) ListForUser(ctx context.Context, user uuid.UUID) ([]models.Conversation, error) {
	// Visibility is per party: a thread the user hid stays in the table
	// (the other party still sees it) but drops out of this list.
	// NULLS LAST keeps just-created, never-messaged threads at the bottom.
	query := `
		SELECT ` + convoColumns + `
		FROM conversations
		WHERE (user_low = $1 AND visible_to_low)
		   OR (user_high = $1 AND visible_to_high)
		ORDER BY last_message_at DESC NULLS LAST, created_at DESC`

	rows, err := s.pool.Query(ctx, query, user)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	convos := make([]models.Conversation, 0)
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		convos = append(convos, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}

	return convos, nil
}

func (s *ConversationStore) MarkRead(ctx context.Context, id string, user uuid.UUID, at time.Time) error {
	// One UPDATE for either party; the CASEs pick the right cursor
	// column. Zero rows means the conversation is missing or the user is
	// not a party to it.
	query := `
		UPDATE conversations
		SET low_last_read_at  = CASE WHEN user_low  = $2 THEN $3 ELSE low_last_read_at  END,
		    high_last_read_at = CASE WHEN user_high = $2 THEN $3 ELSE high_last_read_at END
		WHERE id = $1 AND (user_low = $2 OR user_high = $2)`

	tag, err := s.pool.Exec(ctx, query, id, user, at)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.missingOrStranger(ctx, id)
	}
	return nil
}

// missingOrStranger resolves a zero-row guarded UPDATE into the two
// answers it conflates: the conversation does not exist yet (nothing
// has been sent for the pair), or it exists and the user is not a
// party to it.
func (s *ConversationStore) missingOrStranger(ctx context.Context, id string) error {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM conversations WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("conversation exists check: %w", err)
	}
	if !exists {
		return apperr.ErrConvoNotFound
	}
	return apperr.ErrNotAParticipant
}

func (s *ConversationStore) Archive(ctx context.Context, id string, reason models.EndReason, at time.Time) error {
	// First reason wins: archiving an already-archived thread is a no-op.
	query := `
		UPDATE conversations
		SET archived_at = $2, archive_reason = $3
		WHERE id = $1 AND archived_at IS NULL`

	_, err := s.pool.Exec(ctx, query, id, at, string(reason))
	if err != nil {
		return fmt.Errorf("archive conversation: %w", err)
	}
	return nil
}

func (s *ConversationStore) Hide(ctx context.Context, id string, user uuid.UUID) error {
	query := `
		UPDATE conversations
		SET visible_to_low  = visible_to_low  AND user_low  <> $2,
		    visible_to_high = visible_to_high AND user_high <> $2
		WHERE id = $1 AND (user_low = $2 OR user_high = $2)`

	tag, err := s.pool.Exec(ctx, query, id, user)
	if err != nil {
		return fmt.Errorf("hide conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.missingOrStranger(ctx, id)
	}
	return nil
}
