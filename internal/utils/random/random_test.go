package random

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	for i := 0; i < 200; i++ {
		n, err := Index(5)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 0)
		require.Less(t, n, 5)
	}

	_, err := Index(0)
	require.ErrorIs(t, err, ErrEmpty)
}

func TestPick(t *testing.T) {
	items := []string{"a", "b", "c"}
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		v, err := Pick(items)
		require.NoError(t, err)
		require.Contains(t, items, v)
		seen[v] = true
	}
	// 200 draws over 3 items should hit each one.
	require.Len(t, seen, 3)

	_, err := Pick([]string{})
	require.ErrorIs(t, err, ErrEmpty)
}

func TestShuffleIsPermutation(t *testing.T) {
	original := []int{1, 2, 3, 4, 5, 6, 7, 8}
	shuffled := make([]int, len(original))
	copy(shuffled, original)

	require.NoError(t, Shuffle(shuffled))

	sorted := make([]int, len(shuffled))
	copy(sorted, shuffled)
	sort.Ints(sorted)
	require.Equal(t, original, sorted)
}
