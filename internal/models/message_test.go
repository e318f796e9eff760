package models_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessera-app/tessera/internal/apperr"
	"github.com/tessera-app/tessera/internal/models"
)

func TestNewMessageTrimsContent(t *testing.T) {
	msg, err := models.NewMessage("a_b", uuid.New(), "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Content)
	assert.NotEqual(t, uuid.Nil, msg.ID)
	assert.False(t, msg.CreatedAt.IsZero())
}

func TestNewMessageRejectsEmpty(t *testing.T) {
	cases := []string{"", "   ", "\n\t "}
	for _, content := range cases {
		_, err := models.NewMessage("a_b", uuid.New(), content)
		require.Error(t, err, "content %q", content)
		assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
	}
}

func TestNewMessageLengthBoundary(t *testing.T) {
	atLimit := strings.Repeat("x", models.MaxMessageLength)
	_, err := models.NewMessage("a_b", uuid.New(), atLimit)
	assert.NoError(t, err, "exactly max length is fine")

	_, err = models.NewMessage("a_b", uuid.New(), atLimit+"x")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}

// Length is counted in runes, not bytes — a multi-byte message at the
// character limit is valid.
func TestNewMessageCountsRunes(t *testing.T) {
	content := strings.Repeat("ü", models.MaxMessageLength)
	_, err := models.NewMessage("a_b", uuid.New(), content)
	assert.NoError(t, err)
}
