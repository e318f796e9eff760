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

// Relationship owns the match lifecycle transitions. Every mutation goes
// through a named operation on the Match model — the legality table
// lives there; this service adds resolution, persistence, conversation
// archival and event fan-out.
type Relationship struct {
	matches repository.MatchRepository
	convos  repository.ConversationRepository
	events  Notifier
	logger  *zap.Logger
}

func NewRelationship(
	matches repository.MatchRepository,
	convos repository.ConversationRepository,
	events Notifier,
	logger *zap.Logger,
) *Relationship {
	return &Relationship{matches: matches, convos: convos, events: events, logger: logger}
}

// Unmatch ends the match between actor and other. Legal from ACTIVE or
// FRIENDS.
func (s *Relationship) Unmatch(ctx context.Context, actor, other uuid.UUID) (*models.Match, error) {
	return s.transition(ctx, actor, other, (*models.Match).Unmatch)
}

// Block ends the match defensively — succeeds from any state, terminal
// included.
func (s *Relationship) Block(ctx context.Context, actor, other uuid.UUID) (*models.Match, error) {
	return s.transition(ctx, actor, other, (*models.Match).Block)
}

// TransitionToFriends moves an ACTIVE match to FRIENDS. The relationship
// continues: no conversation archival, no end stamps.
func (s *Relationship) TransitionToFriends(ctx context.Context, actor, other uuid.UUID) (*models.Match, error) {
	return s.transition(ctx, actor, other, (*models.Match).TransitionToFriends)
}

// GracefulExit ends the match kindly. Legal from ACTIVE or FRIENDS.
func (s *Relationship) GracefulExit(ctx context.Context, actor, other uuid.UUID) (*models.Match, error) {
	return s.transition(ctx, actor, other, (*models.Match).GracefulExit)
}

// transitionRetries bounds the re-fetch loop when concurrent
// transitions contend on the same match. Two writers is the realistic
// worst case (there are only two parties), so this never trips in
// practice.
const transitionRetries = 3

func (s *Relationship) transition(
	ctx context.Context,
	actor, other uuid.UUID,
	apply func(*models.Match, uuid.UUID) error,
) (*models.Match, error) {
	id, err := models.PairID(actor, other)
	if err != nil {
		return nil, err
	}

	// The persist is guarded on the state the transition was computed
	// from, so a stale snapshot can never overwrite a concurrent
	// transition (a committed block stays blocked). On a lost race,
	// re-fetch and re-apply: the legality check then runs against the
	// winner's state and decides the outcome.
	for attempt := 0; attempt < transitionRetries; attempt++ {
		match, err := s.matches.GetByID(ctx, id)
		if err != nil {
			return nil, apperr.Unavailable("match lookup failed", err)
		}
		if match == nil {
			return nil, apperr.ErrMatchNotFound
		}

		from := match.State
		if err := apply(match, actor); err != nil {
			return nil, err
		}
		applied, err := s.matches.Update(ctx, match, from)
		if err != nil {
			return nil, apperr.Unavailable("match update failed", err)
		}
		if !applied {
			continue
		}

		// A terminal transition archives the conversation with the same
		// reason. The thread stays readable; only new messages stop.
		if match.IsTerminal() && match.EndReason != nil {
			if err := s.convos.Archive(ctx, match.ID, *match.EndReason, time.Now().UTC()); err != nil {
				// Archival is presentation state. The match transition
				// already committed, so log and move on rather than
				// unwinding it.
				s.logger.Warn("conversation archive failed",
					zap.String("match_id", match.ID),
					zap.Error(err),
				)
			}
			s.events.Notify(ctx, events.TypeMatchEnded, match, match.UserLow, match.UserHigh)
		}

		s.logger.Info("match transition",
			zap.String("match_id", match.ID),
			zap.String("state", string(match.State)),
		)
		return match, nil
	}
	return nil, apperr.Unavailable("match transition contended", nil)
}
