package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tessera-app/tessera/internal/apperr"
	"github.com/tessera-app/tessera/internal/events"
	"github.com/tessera-app/tessera/internal/models"
	"github.com/tessera-app/tessera/internal/repository"
)

// Notifier is the slice of the event publisher the services need.
// Defined here so service tests can fake it without Redis.
type Notifier interface {
	Notify(ctx context.Context, typ events.Type, payload any, users ...uuid.UUID)
}

// LikeStatus is the outcome kind of recording a like.
type LikeStatus string

const (
	// StatusAlreadyRecorded: this exact directed like/pass was recorded
	// before; nothing changed. An idempotent no-op, not a failure.
	StatusAlreadyRecorded LikeStatus = "ALREADY_RECORDED"
	// StatusPassed: the pass was recorded; no match is possible from it.
	StatusPassed LikeStatus = "PASSED"
	// StatusLiked: the like was recorded; the other side has not
	// reciprocated (yet).
	StatusLiked LikeStatus = "LIKED"
	// StatusMatched: mutual interest — the like completed a pair.
	// Outcome.Match carries the (new or already-existing) match.
	StatusMatched LikeStatus = "MATCHED"
)

// LikeOutcome is what recording a like produced. Callers branch on
// Status; Match is set only for StatusMatched.
type LikeOutcome struct {
	Status LikeStatus    `json:"status"`
	Match  *models.Match `json:"match,omitempty"`
}

// Matching turns directional likes into matches. All the branching for
// reciprocity, idempotence and the concurrent-mutual-like race lives
// here.
type Matching struct {
	likes   repository.LikeRepository
	matches repository.MatchRepository
	events  Notifier
	logger  *zap.Logger
}

func NewMatching(
	likes repository.LikeRepository,
	matches repository.MatchRepository,
	events Notifier,
	logger *zap.Logger,
) *Matching {
	return &Matching{likes: likes, matches: matches, events: events, logger: logger}
}

// RecordLike records a directional like/pass and detects mutual
// interest.
//
// Idempotence has two layers:
//   - the same directed like twice → ALREADY_RECORDED, ledger unchanged;
//   - both sides completing the mutual pair concurrently → exactly one
//     match row (pair-id uniqueness), both callers observe MATCHED with
//     the same match. The losing inserter re-fetches instead of failing —
//     retry-on-conflict, no lock held across the operation.
func (s *Matching) RecordLike(ctx context.Context, from, to uuid.UUID, direction models.Direction) (*LikeOutcome, error) {
	like, err := models.NewLike(from, to, direction)
	if err != nil {
		// Self-like and friends fail fast, before the ledger is touched.
		return nil, err
	}

	exists, err := s.likes.Exists(ctx, from, to)
	if err != nil {
		return nil, apperr.Unavailable("like lookup failed", err)
	}
	if exists {
		return &LikeOutcome{Status: StatusAlreadyRecorded}, nil
	}

	if err := s.likes.Save(ctx, like); err != nil {
		if apperr.Is(err, apperr.CodeAlreadyExists) {
			// Lost a race with an identical directed like. Same outcome
			// as the exists-check path.
			return &LikeOutcome{Status: StatusAlreadyRecorded}, nil
		}
		return nil, apperr.Unavailable("like save failed", err)
	}

	if direction == models.DirectionPass {
		return &LikeOutcome{Status: StatusPassed}, nil
	}

	reciprocal, err := s.likes.ReverseLikeExists(ctx, from, to)
	if err != nil {
		return nil, apperr.Unavailable("reciprocity lookup failed", err)
	}
	if !reciprocal {
		return &LikeOutcome{Status: StatusLiked}, nil
	}

	match, err := models.NewMatch(from, to)
	if err != nil {
		return nil, err
	}
	stored, created, err := s.matches.InsertIfAbsent(ctx, match)
	if err != nil {
		return nil, apperr.Unavailable("match insert failed", err)
	}
	if created {
		s.logger.Info("match created",
			zap.String("match_id", stored.ID),
		)
		s.events.Notify(ctx, events.TypeMatchCreated, stored, stored.UserLow, stored.UserHigh)
	} else {
		s.logger.Debug("match already existed", zap.String("match_id", stored.ID))
	}

	return &LikeOutcome{Status: StatusMatched, Match: stored}, nil
}

// PendingLikers returns users who liked `user` and have not been
// responded to, newest first.
func (s *Matching) PendingLikers(ctx context.Context, user uuid.UUID) ([]repository.PendingLiker, error) {
	if user == uuid.Nil {
		return nil, apperr.InvalidArg("user id cannot be nil")
	}
	likers, err := s.likes.PendingLikers(ctx, user)
	if err != nil {
		return nil, apperr.Unavailable("pending likers lookup failed", err)
	}
	return likers, nil
}

// ListMatches returns every match involving the user, ended ones
// included.
func (s *Matching) ListMatches(ctx context.Context, user uuid.UUID) ([]models.Match, error) {
	if user == uuid.Nil {
		return nil, apperr.InvalidArg("user id cannot be nil")
	}
	matches, err := s.matches.ListForUser(ctx, user)
	if err != nil {
		return nil, apperr.Unavailable("match list failed", err)
	}
	return matches, nil
}
