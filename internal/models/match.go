package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tessera-app/tessera/internal/apperr"
)

// MatchState is the single source of truth for whether a pair may message.
type MatchState string

const (
	MatchActive       MatchState = "ACTIVE"
	MatchFriends      MatchState = "FRIENDS"
	MatchUnmatched    MatchState = "UNMATCHED"
	MatchGracefulExit MatchState = "GRACEFUL_EXIT"
	MatchBlocked      MatchState = "BLOCKED"
)

// EndReason records why a match (or its conversation) was ended/archived.
type EndReason string

const (
	ReasonUnmatch      EndReason = "UNMATCH"
	ReasonGracefulExit EndReason = "GRACEFUL_EXIT"
	ReasonBlock        EndReason = "BLOCK"
	ReasonFriendZone   EndReason = "FRIEND_ZONE"
)

// legalTransitions is the full (from -> to) lattice. UNMATCHED,
// GRACEFUL_EXIT and BLOCKED are terminal: no outgoing edges. Block is the
// one deliberate exception, handled in Block() below — as a safety action
// it must succeed from any state, terminal included.
var legalTransitions = map[MatchState]map[MatchState]bool{
	MatchActive: {
		MatchFriends:      true,
		MatchUnmatched:    true,
		MatchGracefulExit: true,
		MatchBlocked:      true,
	},
	MatchFriends: {
		MatchUnmatched:    true,
		MatchGracefulExit: true,
		MatchBlocked:      true,
	},
	MatchUnmatched:    {},
	MatchGracefulExit: {},
	MatchBlocked:      {},
}

// CanTransition reports whether the state machine permits from -> to.
func CanTransition(from, to MatchState) bool {
	return legalTransitions[from][to]
}

// Match is the stateful relationship entity unlocked by a mutual like.
// Keyed by the deterministic pair ID; UserLow < UserHigh is enforced at
// construction and never re-checked on mutation. Matches are never
// deleted, only moved into terminal states.
type Match struct {
	ID        string     `json:"id"`
	UserLow   uuid.UUID  `json:"user_low"`
	UserHigh  uuid.UUID  `json:"user_high"`
	CreatedAt time.Time  `json:"created_at"`
	State     MatchState `json:"state"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	EndedBy   *uuid.UUID `json:"ended_by,omitempty"`
	EndReason *EndReason `json:"end_reason,omitempty"`
}

// NewMatch creates an ACTIVE match between two users, in canonical order,
// with the deterministic pair ID.
func NewMatch(a, b uuid.UUID) (*Match, error) {
	id, err := PairID(a, b)
	if err != nil {
		return nil, err
	}
	low, high, err := SortPair(a, b)
	if err != nil {
		return nil, err
	}
	return &Match{
		ID:        id,
		UserLow:   low,
		UserHigh:  high,
		CreatedAt: time.Now().UTC(),
		State:     MatchActive,
	}, nil
}

// Involves reports whether the user is one of the match's two parties.
func (m *Match) Involves(userID uuid.UUID) bool {
	return m.UserLow == userID || m.UserHigh == userID
}

// OtherUser returns the counterpart of the given participant.
func (m *Match) OtherUser(userID uuid.UUID) (uuid.UUID, error) {
	switch userID {
	case m.UserLow:
		return m.UserHigh, nil
	case m.UserHigh:
		return m.UserLow, nil
	default:
		return uuid.Nil, apperr.ErrNotAParticipant
	}
}

// CanMessage reports whether the match state permits new messages.
func (m *Match) CanMessage() bool {
	return m.State == MatchActive || m.State == MatchFriends
}

// IsActive reports whether the match is in its initial ACTIVE state.
func (m *Match) IsActive() bool {
	return m.State == MatchActive
}

// IsTerminal reports whether the match has reached a state with no
// outgoing transitions.
func (m *Match) IsTerminal() bool {
	return len(legalTransitions[m.State]) == 0
}

// Unmatch ends the match. Legal from ACTIVE or FRIENDS.
func (m *Match) Unmatch(actor uuid.UUID) error {
	if !m.Involves(actor) {
		return apperr.ErrNotAParticipant
	}
	if !CanTransition(m.State, MatchUnmatched) {
		return apperr.InvalidTransition("cannot unmatch from " + string(m.State))
	}
	m.end(MatchUnmatched, actor, ReasonUnmatch)
	return nil
}

// Block ends the match due to blocking. Legal from any state, terminal
// ones included: blocking is a safety action, not a relationship action,
// and must never be refused because of lifecycle stage.
func (m *Match) Block(actor uuid.UUID) error {
	if !m.Involves(actor) {
		return apperr.ErrNotAParticipant
	}
	m.end(MatchBlocked, actor, ReasonBlock)
	return nil
}

// TransitionToFriends moves an ACTIVE match to FRIENDS. No end stamps:
// the relationship continues, just in a different mode.
func (m *Match) TransitionToFriends(actor uuid.UUID) error {
	if !m.Involves(actor) {
		return apperr.ErrNotAParticipant
	}
	if !CanTransition(m.State, MatchFriends) {
		return apperr.InvalidTransition("cannot transition to FRIENDS from " + string(m.State))
	}
	m.State = MatchFriends
	return nil
}

// GracefulExit ends the match kindly. Legal from ACTIVE or FRIENDS.
func (m *Match) GracefulExit(actor uuid.UUID) error {
	if !m.Involves(actor) {
		return apperr.ErrNotAParticipant
	}
	if !CanTransition(m.State, MatchGracefulExit) {
		return apperr.InvalidTransition("cannot transition to GRACEFUL_EXIT from " + string(m.State))
	}
	m.end(MatchGracefulExit, actor, ReasonGracefulExit)
	return nil
}

func (m *Match) end(state MatchState, actor uuid.UUID, reason EndReason) {
	now := time.Now().UTC()
	m.State = state
	m.EndedAt = &now
	m.EndedBy = &actor
	m.EndReason = &reason
}
