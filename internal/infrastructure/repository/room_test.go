package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hilthontt/secretsanta/internal/domain"
	"github.com/stretchr/testify/require"
)

func newTestRoom(t *testing.T, names ...string) *domain.Room {
	t.Helper()

	room, err := domain.NewRoom(names)
	require.NoError(t, err)

	return room
}

func TestRoomStoreCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and returns the room", func(t *testing.T) {
		store := NewRoomStore(10)
		room := newTestRoom(t, "Alice", "Bob")

		require.NoError(t, store.Create(ctx, room))

		got, err := store.GetByID(ctx, room.ID)
		require.NoError(t, err)
		require.Equal(t, room.ID, got.ID)
		require.Equal(t, room.Participants, got.Participants)
		require.Equal(t, room.Assignment, got.Assignment)
	})

	t.Run("rejects duplicate id", func(t *testing.T) {
		store := NewRoomStore(10)
		room := newTestRoom(t, "Alice", "Bob")

		require.NoError(t, store.Create(ctx, room))
		require.ErrorIs(t, store.Create(ctx, room), domain.ErrRoomAlreadyExists)
	})

	t.Run("rejects room without a valid assignment", func(t *testing.T) {
		store := NewRoomStore(10)
		room := newTestRoom(t, "Alice", "Bob")
		room.Assignment = map[int]int{1: 1, 2: 2} // fixed points

		require.ErrorIs(t, store.Create(ctx, room), domain.ErrInvalidInput)
	})

	t.Run("enforces capacity", func(t *testing.T) {
		store := NewRoomStore(2)

		require.NoError(t, store.Create(ctx, newTestRoom(t, "A", "B")))
		require.NoError(t, store.Create(ctx, newTestRoom(t, "C", "D")))
		require.ErrorIs(t, store.Create(ctx, newTestRoom(t, "E", "F")), domain.ErrStoreFull)
	})

	t.Run("stores a copy", func(t *testing.T) {
		store := NewRoomStore(10)
		room := newTestRoom(t, "Alice", "Bob")

		require.NoError(t, store.Create(ctx, room))

		// Mutating the caller's room must not affect the stored one
		room.Participants[0].Name = "Mallory"

		got, err := store.GetByID(ctx, room.ID)
		require.NoError(t, err)
		require.Equal(t, "Alice", got.Participants[0].Name)
	})
}

func TestRoomStoreGetByID(t *testing.T) {
	ctx := context.Background()
	store := NewRoomStore(10)

	t.Run("unknown id", func(t *testing.T) {
		_, err := store.GetByID(ctx, "nope")
		require.ErrorIs(t, err, domain.ErrRoomNotFound)
	})

	t.Run("empty id", func(t *testing.T) {
		_, err := store.GetByID(ctx, "")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestRoomStoreList(t *testing.T) {
	ctx := context.Background()
	store := NewRoomStore(10)

	first := newTestRoom(t, "Alice", "Bob")
	first.CreatedAt = time.Now().Add(-time.Hour)
	second := newTestRoom(t, "Charlie", "Dana", "Eve")

	require.NoError(t, store.Create(ctx, second))
	require.NoError(t, store.Create(ctx, first))

	summaries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Ordered by creation time, oldest first
	require.Equal(t, first.ID, summaries[0].ID)
	require.Equal(t, 2, summaries[0].ParticipantCount)
	require.Equal(t, second.ID, summaries[1].ID)
	require.Equal(t, 3, summaries[1].ParticipantCount)
}

func TestRoomStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewRoomStore(10)
	room := newTestRoom(t, "Alice", "Bob")

	require.NoError(t, store.Create(ctx, room))

	deleted, err := store.Delete(ctx, room.ID)
	require.NoError(t, err)
	require.Equal(t, room.ID, deleted.ID)

	_, err = store.GetByID(ctx, room.ID)
	require.ErrorIs(t, err, domain.ErrRoomNotFound)

	_, err = store.Delete(ctx, room.ID)
	require.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestRoomStoreReplaceAssignment(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces wholesale", func(t *testing.T) {
		store := NewRoomStore(10)
		room := newTestRoom(t, "Alice", "Bob", "Charlie")
		require.NoError(t, store.Create(ctx, room))

		next := map[int]int{1: 3, 3: 2, 2: 1}
		require.NoError(t, store.ReplaceAssignment(ctx, room.ID, next))

		got, err := store.GetByID(ctx, room.ID)
		require.NoError(t, err)
		require.Equal(t, next, got.Assignment)
	})

	t.Run("rejects invalid assignment and keeps the old one", func(t *testing.T) {
		store := NewRoomStore(10)
		room := newTestRoom(t, "Alice", "Bob")
		require.NoError(t, store.Create(ctx, room))

		err := store.ReplaceAssignment(ctx, room.ID, map[int]int{1: 1, 2: 2})
		require.ErrorIs(t, err, domain.ErrInvalidInput)

		got, err := store.GetByID(ctx, room.ID)
		require.NoError(t, err)
		require.Equal(t, room.Assignment, got.Assignment)
	})

	t.Run("unknown room", func(t *testing.T) {
		store := NewRoomStore(10)
		err := store.ReplaceAssignment(ctx, "nope", map[int]int{1: 2, 2: 1})
		require.ErrorIs(t, err, domain.ErrRoomNotFound)
	})
}

// Concurrent reveals against concurrent shuffles must always observe a
// complete fixed-point-free bijection, never a half-replaced mapping.
func TestRoomStoreConcurrentShuffleAndRead(t *testing.T) {
	ctx := context.Background()
	store := NewRoomStore(10)
	room := newTestRoom(t, "Alice", "Bob", "Charlie", "Dana", "Eve")
	require.NoError(t, store.Create(ctx, room))

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}

			assignment, err := domain.NewAssignment(room.ParticipantIDs())
			if err != nil {
				t.Error(err)
				return
			}
			if err := store.ReplaceAssignment(ctx, room.ID, assignment); err != nil {
				t.Error(err)
				return
			}
		}
	}()

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				got, err := store.GetByID(ctx, room.ID)
				if err != nil {
					t.Error(err)
					return
				}

				seen := make(map[int]bool, len(got.Assignment))
				for giver, assignee := range got.Assignment {
					if giver == assignee || seen[assignee] {
						t.Errorf("observed inconsistent assignment: %v", got.Assignment)
						return
					}
					seen[assignee] = true
				}
				if len(got.Assignment) != len(room.Participants) {
					t.Errorf("observed partial assignment: %v", got.Assignment)
					return
				}
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(stop)
	wg.Wait()
}
