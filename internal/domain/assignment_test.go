package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewAssignment(t *testing.T) {
	t.Run("rejects fewer than 2 ids", func(t *testing.T) {
		_, err := NewAssignment(nil)
		require.ErrorIs(t, err, ErrTooFewParticipants)

		_, err = NewAssignment([]int{1})
		require.ErrorIs(t, err, ErrTooFewParticipants)
	})

	t.Run("two participants always swap", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			assignment, err := NewAssignment([]int{1, 2})
			require.NoError(t, err)
			require.Equal(t, map[int]int{1: 2, 2: 1}, assignment)
		}
	})

	t.Run("is a bijection with no fixed points", func(t *testing.T) {
		for n := 2; n <= 40; n++ {
			ids := make([]int, n)
			for i := range ids {
				ids[i] = i + 1
			}

			assignment, err := NewAssignment(ids)
			require.NoError(t, err)
			require.Len(t, assignment, n)

			seen := make(map[int]bool, n)
			for giver, assignee := range assignment {
				require.NotEqual(t, giver, assignee, "participant %d assigned to themselves (n=%d)", giver, n)
				require.False(t, seen[assignee], "participant %d assigned twice (n=%d)", assignee, n)
				seen[assignee] = true
				require.Contains(t, ids, assignee)
			}
		}
	})

	t.Run("handles non-contiguous ids", func(t *testing.T) {
		ids := []int{3, 7, 12, 40}

		assignment, err := NewAssignment(ids)
		require.NoError(t, err)
		require.Len(t, assignment, len(ids))

		for _, id := range ids {
			require.Contains(t, assignment, id)
			require.NotEqual(t, id, assignment[id])
		}
	})

	t.Run("produces varied assignments", func(t *testing.T) {
		ids := []int{1, 2, 3, 4, 5, 6}

		first, err := NewAssignment(ids)
		require.NoError(t, err)

		// (n-1)! = 120 cycles; 50 draws all identical is practically impossible
		for i := 0; i < 50; i++ {
			next, err := NewAssignment(ids)
			require.NoError(t, err)

			if !mapsEqual(first, next) {
				return
			}
		}

		t.Fatal("every shuffle produced the same assignment")
	})
}

func mapsEqual(a, b map[int]int) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
