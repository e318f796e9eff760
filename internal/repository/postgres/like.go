package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tessera-app/tessera/internal/apperr"
	"github.com/tessera-app/tessera/internal/models"
	"github.com/tessera-app/tessera/internal/repository"
)

type LikeStore struct {
	pool *pgxpool.Pool
}

func NewLikeStore(pool *pgxpool.Pool) *LikeStore {
	return &LikeStore{pool: pool}
}

func (s *LikeStore) Exists(ctx context.Context, from, to uuid.UUID) (bool, error) {
	// SELECT EXISTS stops at the first matching row — this runs on every
	// swipe, so it has to be cheap.
	query := `
		SELECT EXISTS (
			SELECT 1 FROM likes
			WHERE from_user = $1 AND to_user = $2
		)`

	var exists bool
	err := s.pool.QueryRow(ctx, query, from, to).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check like exists: %w", err)
	}
	return exists, nil
}

func (s *LikeStore) Save(ctx context.Context, like *models.Like) error {
	// The unique index on (from_user, to_user) is the cross-process
	// idempotence guarantee: the first decision on a profile wins, a
	// concurrent duplicate surfaces as ALREADY_EXISTS instead of a
	// second row.
	query := `
		INSERT INTO likes (id, from_user, to_user, direction, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := s.pool.Exec(ctx, query,
		like.ID, like.FromUser, like.ToUser, string(like.Direction), like.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.AlreadyExists("like already recorded for this pair")
		}
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

func (s *LikeStore) ReverseLikeExists(ctx context.Context, from, to uuid.UUID) (bool, error) {
	// Reciprocity test: did `to` already LIKE `from`? A PASS doesn't
	// count.
	query := `
		SELECT EXISTS (
			SELECT 1 FROM likes
			WHERE from_user = $1 AND to_user = $2 AND direction = 'LIKE'
		)`

	var exists bool
	err := s.pool.QueryRow(ctx, query, to, from).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check reverse like: %w", err)
	}
	return exists, nil
}

func (s *LikeStore) PendingLikers(ctx context.Context, user uuid.UUID) ([]repository.PendingLiker, error) {
	// Users who liked `user` and got no like/pass back yet. The NOT
	// EXISTS keeps this one round trip instead of loading both like sets
	// and diffing in Go.
	query := `
		SELECT l.from_user, l.created_at
		FROM likes l
		WHERE l.to_user = $1
		  AND l.direction = 'LIKE'
		  AND NOT EXISTS (
			SELECT 1 FROM likes r
			WHERE r.from_user = $1 AND r.to_user = l.from_user
		  )
		ORDER BY l.created_at DESC`

	rows, err := s.pool.Query(ctx, query, user)
	if err != nil {
		return nil, fmt.Errorf("list pending likers: %w", err)
	}
	defer rows.Close()

	likers := make([]repository.PendingLiker, 0)
	for rows.Next() {
		var pl repository.PendingLiker
		if err := rows.Scan(&pl.UserID, &pl.LikedAt); err != nil {
			return nil, fmt.Errorf("scan pending liker: %w", err)
		}
		likers = append(likers, pl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending likers: %w", err)
	}

	return likers, nil
}
