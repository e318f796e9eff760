package models_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessera-app/tessera/internal/apperr"
	"github.com/tessera-app/tessera/internal/models"
)

func newTestMatch(t *testing.T) *models.Match {
	t.Helper()
	m, err := models.NewMatch(uuid.New(), uuid.New())
	require.NoError(t, err)
	return m
}

func TestNewMatchCanonicalOrder(t *testing.T) {
	a := uuid.MustParse("99999999-0000-0000-0000-000000000000")
	b := uuid.MustParse("11111111-0000-0000-0000-000000000000")

	m, err := models.NewMatch(a, b)
	require.NoError(t, err)

	assert.Equal(t, b, m.UserLow)
	assert.Equal(t, a, m.UserHigh)
	assert.Equal(t, models.MatchActive, m.State)
	assert.True(t, m.IsActive())
	assert.True(t, m.CanMessage())
	assert.Nil(t, m.EndedAt)
	assert.Nil(t, m.EndedBy)
	assert.Nil(t, m.EndReason)

	id, err := models.PairID(a, b)
	require.NoError(t, err)
	assert.Equal(t, id, m.ID)
}

func TestNewMatchRejectsSelf(t *testing.T) {
	a := uuid.New()
	_, err := models.NewMatch(a, a)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}

// TestTransitionMatrix pins the entire lattice in one table. Terminal
// states have no outgoing edges at all.
func TestTransitionMatrix(t *testing.T) {
	all := []models.MatchState{
		models.MatchActive, models.MatchFriends, models.MatchUnmatched,
		models.MatchGracefulExit, models.MatchBlocked,
	}
	legal := map[models.MatchState][]models.MatchState{
		models.MatchActive: {
			models.MatchFriends, models.MatchUnmatched,
			models.MatchGracefulExit, models.MatchBlocked,
		},
		models.MatchFriends: {
			models.MatchUnmatched, models.MatchGracefulExit, models.MatchBlocked,
		},
		models.MatchUnmatched:    {},
		models.MatchGracefulExit: {},
		models.MatchBlocked:      {},
	}

	for _, from := range all {
		allowed := map[models.MatchState]bool{}
		for _, to := range legal[from] {
			allowed[to] = true
		}
		for _, to := range all {
			got := models.CanTransition(from, to)
			assert.Equal(t, allowed[to], got, "transition %s -> %s", from, to)
		}
	}
}

func TestUnmatch(t *testing.T) {
	m := newTestMatch(t)

	err := m.Unmatch(m.UserLow)
	require.NoError(t, err)

	assert.Equal(t, models.MatchUnmatched, m.State)
	assert.False(t, m.CanMessage())
	assert.True(t, m.IsTerminal())
	require.NotNil(t, m.EndedAt)
	require.NotNil(t, m.EndedBy)
	assert.Equal(t, m.UserLow, *m.EndedBy)
	require.NotNil(t, m.EndReason)
	assert.Equal(t, models.ReasonUnmatch, *m.EndReason)
}

func TestUnmatchTwiceIsInvalid(t *testing.T) {
	m := newTestMatch(t)
	require.NoError(t, m.Unmatch(m.UserLow))

	err := m.Unmatch(m.UserHigh)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidTransition, apperr.CodeOf(err))
}

func TestUnmatchFromFriends(t *testing.T) {
	m := newTestMatch(t)
	require.NoError(t, m.TransitionToFriends(m.UserLow))

	require.NoError(t, m.Unmatch(m.UserHigh))
	assert.Equal(t, models.MatchUnmatched, m.State)
}

func TestUnmatchByStranger(t *testing.T) {
	m := newTestMatch(t)

	err := m.Unmatch(uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotAParticipant, apperr.CodeOf(err))
	assert.Equal(t, models.MatchActive, m.State, "failed transition must not mutate")
}

// TestBlockFromTerminalState: blocking is a safety action and must
// succeed regardless of lifecycle stage, terminal states included.
func TestBlockFromTerminalState(t *testing.T) {
	m := newTestMatch(t)
	require.NoError(t, m.Unmatch(m.UserLow))
	assert.True(t, m.IsTerminal())

	err := m.Block(m.UserHigh)
	require.NoError(t, err)

	assert.Equal(t, models.MatchBlocked, m.State)
	require.NotNil(t, m.EndReason)
	assert.Equal(t, models.ReasonBlock, *m.EndReason)
	require.NotNil(t, m.EndedBy)
	assert.Equal(t, m.UserHigh, *m.EndedBy)
}

func TestBlockByStranger(t *testing.T) {
	m := newTestMatch(t)

	err := m.Block(uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotAParticipant, apperr.CodeOf(err))
}

func TestTransitionToFriends(t *testing.T) {
	m := newTestMatch(t)

	require.NoError(t, m.TransitionToFriends(m.UserHigh))

	assert.Equal(t, models.MatchFriends, m.State)
	assert.True(t, m.CanMessage(), "FRIENDS still permits messaging")
	assert.False(t, m.IsActive())
	// The relationship continues: no end stamps.
	assert.Nil(t, m.EndedAt)
	assert.Nil(t, m.EndedBy)
	assert.Nil(t, m.EndReason)
}

func TestFriendsFromFriendsIsInvalid(t *testing.T) {
	m := newTestMatch(t)
	require.NoError(t, m.TransitionToFriends(m.UserLow))

	err := m.TransitionToFriends(m.UserHigh)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidTransition, apperr.CodeOf(err))
}

func TestGracefulExit(t *testing.T) {
	m := newTestMatch(t)

	require.NoError(t, m.GracefulExit(m.UserHigh))

	assert.Equal(t, models.MatchGracefulExit, m.State)
	assert.False(t, m.CanMessage())
	assert.True(t, m.IsTerminal())
	require.NotNil(t, m.EndReason)
	assert.Equal(t, models.ReasonGracefulExit, *m.EndReason)
}

func TestGracefulExitFromFriends(t *testing.T) {
	m := newTestMatch(t)
	require.NoError(t, m.TransitionToFriends(m.UserLow))

	require.NoError(t, m.GracefulExit(m.UserLow))
	assert.Equal(t, models.MatchGracefulExit, m.State)
}

func TestOtherUser(t *testing.T) {
	m := newTestMatch(t)

	other, err := m.OtherUser(m.UserLow)
	require.NoError(t, err)
	assert.Equal(t, m.UserHigh, other)

	other, err = m.OtherUser(m.UserHigh)
	require.NoError(t, err)
	assert.Equal(t, m.UserLow, other)

	_, err = m.OtherUser(uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotAParticipant, apperr.CodeOf(err))
}
