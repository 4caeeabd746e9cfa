package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelationAffinity(t *testing.T) {
	t.Run("AffineCopies", func(t *testing.T) {
		affinity, err := correlationAffinity([][]float64{
			{1, 2, 3, 4},
			{5, 7, 9, 11},
		})
		require.NoError(t, err)

		assert.Equal(t, 1.0, affinity.At(0, 0))
		assert.Equal(t, 1.0, affinity.At(1, 1))
		assert.InDelta(t, 1.0, affinity.At(0, 1), 1e-12)
	})

	t.Run("ConstantVector", func(t *testing.T) {
		affinity, err := correlationAffinity([][]float64{
			{1, 2, 3, 4},
			{2, 2, 2, 2},
		})
		require.NoError(t, err)

		assert.Zero(t, affinity.At(0, 1))
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		_, err := correlationAffinity([][]float64{
			{1, 2, 3, 4},
			{1, 2, 3},
		})
		require.Error(t, err)
	})
}

func TestBisect(t *testing.T) {
	// Two affine families: members correlate perfectly within a family and
	// weakly (about 0.40) across, so the Fiedler vector separates them.
	affinity, err := correlationAffinity([][]float64{
		{1, 2, 3, 4},
		{2, 4, 6, 8},
		{2, 1, 1, 3},
		{4, 2, 2, 6},
	})
	require.NoError(t, err)

	labels, err := bisect(affinity)
	require.NoError(t, err)
	require.Len(t, labels, 4)

	// Which side gets which boolean depends on the eigenvector's sign, so
	// only the grouping is checked.
	assert.Equal(t, labels[0], labels[1])
	assert.Equal(t, labels[2], labels[3])
	assert.NotEqual(t, labels[0], labels[2])
}

func TestAssociationScore(t *testing.T) {
	t.Run("TooFewVectors", func(t *testing.T) {
		_, err := associationScore([][]float64{{1, 2, 3}})
		require.Error(t, err)
	})

	t.Run("SplitGroup", func(t *testing.T) {
		// The last vector joins the three-member family, leaving two of
		// the four earlier members on its side.
		score, err := associationScore([][]float64{
			{1, 2, 3, 4},
			{2, 4, 6, 8},
			{2, 1, 1, 3},
			{4, 2, 2, 6},
			{3, 6, 9, 12},
		})
		require.NoError(t, err)

		assert.InDelta(t, 0.5, score, 1e-12)
	})

	t.Run("TwoVectorsSplit", func(t *testing.T) {
		score, err := associationScore([][]float64{
			{1, 2, 3, 4},
			{1, 2, 3, 4},
		})
		require.NoError(t, err)

		assert.Zero(t, score)
	})
}
