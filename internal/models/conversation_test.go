package models_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessera-app/tessera/internal/apperr"
	"github.com/tessera-app/tessera/internal/models"
)

func newTestConversation(t *testing.T) *models.Conversation {
	t.Helper()
	c, err := models.NewConversation(uuid.New(), uuid.New())
	require.NoError(t, err)
	return c
}

func TestNewConversation(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	c, err := models.NewConversation(a, b)
	require.NoError(t, err)

	matchID, err := models.PairID(a, b)
	require.NoError(t, err)
	assert.Equal(t, matchID, c.ID, "conversation and match derive the same pair id")

	assert.True(t, c.VisibleToLow)
	assert.True(t, c.VisibleToHigh)
	assert.Nil(t, c.LastMessageAt)
	assert.Nil(t, c.LowLastReadAt)
	assert.Nil(t, c.HighLastReadAt)
	assert.Nil(t, c.ArchivedAt)
}

func TestNewConversationRejectsSelf(t *testing.T) {
	a := uuid.New()
	_, err := models.NewConversation(a, a)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}

func TestMarkRead(t *testing.T) {
	c := newTestConversation(t)
	at := time.Now().UTC()

	require.NoError(t, c.MarkRead(c.UserLow, at))

	got, err := c.LastReadAt(c.UserLow)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Equal(at))

	// The other party's cursor is untouched.
	other, err := c.LastReadAt(c.UserHigh)
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestMarkReadByStranger(t *testing.T) {
	c := newTestConversation(t)

	err := c.MarkRead(uuid.New(), time.Now())
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotAParticipant, apperr.CodeOf(err))
}

// TestUnreadBoundary pins the strictly-greater-than rule: a message
// stamped exactly at the read cursor is read; one nanosecond later it
// is unread.
func TestUnreadBoundary(t *testing.T) {
	c := newTestConversation(t)
	cursor := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	require.NoError(t, c.MarkRead(c.UserLow, cursor))

	atCursor := models.Message{
		ID: uuid.New(), ConversationID: c.ID,
		SenderID: c.UserHigh, Content: "hey", CreatedAt: cursor,
	}
	justAfter := atCursor
	justAfter.ID = uuid.New()
	justAfter.CreatedAt = cursor.Add(time.Nanosecond)

	n, err := c.UnreadCount(c.UserLow, []models.Message{atCursor})
	require.NoError(t, err)
	assert.Equal(t, 0, n, "message at the cursor is already read")

	n, err = c.UnreadCount(c.UserLow, []models.Message{atCursor, justAfter})
	require.NoError(t, err)
	assert.Equal(t, 1, n, "message after the cursor is unread")
}

func TestUnreadCountSkipsOwnMessages(t *testing.T) {
	c := newTestConversation(t)
	now := time.Now().UTC()

	msgs := []models.Message{
		{ID: uuid.New(), ConversationID: c.ID, SenderID: c.UserLow, Content: "mine", CreatedAt: now},
		{ID: uuid.New(), ConversationID: c.ID, SenderID: c.UserHigh, Content: "theirs", CreatedAt: now},
	}

	// Never read: everything from the other party counts, own messages
	// never do.
	n, err := c.UnreadCount(c.UserLow, msgs)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUnreadCountForStranger(t *testing.T) {
	c := newTestConversation(t)

	_, err := c.UnreadCount(uuid.New(), nil)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotAParticipant, apperr.CodeOf(err))
}

func TestArchiveFirstReasonWins(t *testing.T) {
	c := newTestConversation(t)
	now := time.Now().UTC()

	c.Archive(models.ReasonGracefulExit, now)
	c.Archive(models.ReasonBlock, now.Add(time.Hour))

	require.NotNil(t, c.ArchivedAt)
	assert.True(t, c.ArchivedAt.Equal(now))
	require.NotNil(t, c.ArchiveReason)
	assert.Equal(t, models.ReasonGracefulExit, *c.ArchiveReason)
}

func TestHide(t *testing.T) {
	c := newTestConversation(t)

	require.NoError(t, c.Hide(c.UserLow))

	assert.False(t, c.VisibleTo(c.UserLow))
	assert.True(t, c.VisibleTo(c.UserHigh), "hiding is one-sided")

	err := c.Hide(uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotAParticipant, apperr.CodeOf(err))
}
