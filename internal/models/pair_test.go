package models_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessera-app/tessera/internal/apperr"
	"github.com/tessera-app/tessera/internal/models"
)

// TestPairIDOrderIndependent verifies the core identity property:
// both orderings of a pair derive the same ID.
func TestPairIDOrderIndependent(t *testing.T) {
	for i := 0; i < 50; i++ {
		a := uuid.New()
		b := uuid.New()

		ab, err := models.PairID(a, b)
		require.NoError(t, err)
		ba, err := models.PairID(b, a)
		require.NoError(t, err)

		assert.Equal(t, ab, ba, "PairID must be order-independent")
	}
}

func TestPairIDDeterministic(t *testing.T) {
	a := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	b := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	id, err := models.PairID(b, a)
	require.NoError(t, err)

	// Smaller UUID string first, underscore separator.
	assert.Equal(t,
		"11111111-1111-1111-1111-111111111111_22222222-2222-2222-2222-222222222222",
		id)
}

func TestPairIDRejectsSelf(t *testing.T) {
	a := uuid.New()

	_, err := models.PairID(a, a)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}

func TestPairIDRejectsNil(t *testing.T) {
	_, err := models.PairID(uuid.Nil, uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))

	_, err = models.PairID(uuid.New(), uuid.Nil)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}

func TestSortPair(t *testing.T) {
	a := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000000")
	b := uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000000")

	low, high, err := models.SortPair(b, a)
	require.NoError(t, err)
	assert.Equal(t, a, low)
	assert.Equal(t, b, high)

	low, high, err = models.SortPair(a, b)
	require.NoError(t, err)
	assert.Equal(t, a, low)
	assert.Equal(t, b, high)
}
