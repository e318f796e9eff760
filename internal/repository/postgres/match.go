package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tessera-app/tessera/internal/apperr"
	"github.com/tessera-app/tessera/internal/models"
)

type MatchStore struct {
	pool *pgxpool.Pool
}

func NewMatchStore(pool *pgxpool.Pool) *MatchStore {
	return &MatchStore{pool: pool}
}

const matchColumns = `id, user_low, user_high, created_at, state, ended_at, ended_by, end_reason`

func scanMatch(row pgx.Row) (*models.Match, error) {
	var m models.Match
	var state string
	var reason *string
	err := row.Scan(
		&m.ID,
		&m.UserLow,
		&m.UserHigh,
		&m.CreatedAt,
		&state,
		&m.EndedAt,
		&m.EndedBy,
		&reason,
	)
	if err != nil {
		return nil, err
	}
	m.State = models.MatchState(state)
	if reason != nil {
		r := models.EndReason(*reason)
		m.EndReason = &r
	}
	return &m, nil
}

// InsertIfAbsent creates the match unless its pair ID is already taken.
//
// ON CONFLICT DO NOTHING + RETURNING: when the insert wins, RETURNING
// yields the row and inserted=true. When another writer won the race, no
// row comes back (pgx.ErrNoRows) and we re-fetch the existing match —
// first-writer-wins without ever holding a lock across the whole
// recordLike operation.
func (s *MatchStore) InsertIfAbsent(ctx context.Context, match *models.Match) (*models.Match, bool, error) {
	query := `
		INSERT INTO matches (id, user_low, user_high, created_at, state)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
		RETURNING ` + matchColumns

	stored, err := scanMatch(s.pool.QueryRow(ctx, query,
		match.ID, match.UserLow, match.UserHigh, match.CreatedAt, string(match.State)))
	if err == nil {
		return stored, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("insert match: %w", err)
	}

	existing, err := s.GetByID(ctx, match.ID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		// Conflicting row vanished between insert and re-fetch. Matches
		// are never deleted, so this is a broken invariant, not a
		// transient fault.
		return nil, false, apperr.Internal(
			fmt.Sprintf("match %s conflicted on insert but is absent on re-fetch", match.ID))
	}
	return existing, false, nil
}

func (s *MatchStore) GetByID(ctx context.Context, id string) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	m, err := scanMatch(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get match: %w", err)
	}
	return m, nil
}

// Update persists a transition, guarded on the state it was computed
// from. Only the mutable fields are written; identity and canonical
// order are fixed at creation and never touched again.
//
// The state guard in the WHERE clause is what makes concurrent
// transitions safe: the legality check ran against a snapshot, and if
// another writer committed first the snapshot is stale — zero rows,
// false, and the caller re-fetches and re-applies. Same
// retry-on-conflict style as InsertIfAbsent, no lock held across the
// read-apply-write.
func (s *MatchStore) Update(ctx context.Context, match *models.Match, from models.MatchState) (bool, error) {
	query := `
		UPDATE matches
		SET state = $2, ended_at = $3, ended_by = $4, end_reason = $5
		WHERE id = $1 AND state = $6`

	var reason *string
	if match.EndReason != nil {
		r := string(*match.EndReason)
		reason = &r
	}
	tag, err := s.pool.Exec(ctx, query,
		match.ID, string(match.State), match.EndedAt, match.EndedBy, reason, string(from))
	if err != nil {
		return false, fmt.Errorf("update match: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *MatchStore) ListForUser(ctx context.Context, user uuid.UUID) ([]models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE user_low = $1 OR user_high = $1
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, user)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}

	return matches, nil
}
