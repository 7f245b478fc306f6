package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/hilthontt/secretsanta/internal/domain"
)

// roomStore keeps rooms in memory. The table mutex only guards the map
// itself (insert, delete, lookup); each room carries its own RW lock so
// traffic on one room never serializes behind another. Reads hand out deep
// clones, which means a reveal always observes one consistent assignment
// even while a shuffle is replacing it.
type roomStore struct {
	rooms    map[string]*roomEntry
	capacity uint
	mu       sync.RWMutex
}

type roomEntry struct {
	room *domain.Room
	mu   sync.RWMutex
}

func NewRoomStore(capacity uint) domain.RoomStore {
	if capacity == 0 {
		capacity = 1000
	}

	return &roomStore{
		rooms:    make(map[string]*roomEntry),
		capacity: capacity,
	}
}

// Create adds a room if its ID is unique and capacity allows.
func (s *roomStore) Create(ctx context.Context, room *domain.Room) error {
	if room == nil || room.ID == "" {
		return domain.ErrInvalidInput
	}
	if len(room.Participants) < 2 {
		return domain.ErrTooFewParticipants
	}
	if err := validateAssignment(room); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rooms[room.ID]; exists {
		return domain.ErrRoomAlreadyExists
	}

	if uint(len(s.rooms)) >= s.capacity {
		return domain.ErrStoreFull
	}

	s.rooms[room.ID] = &roomEntry{room: room.Clone()}

	return nil
}

// GetByID returns a snapshot of the room.
func (s *roomStore) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	entry.mu.RLock()
	defer entry.mu.RUnlock()

	return entry.room.Clone(), nil
}

// List returns summaries ordered by creation time. Names and assignments
// stay private to the room endpoints.
func (s *roomStore) List(ctx context.Context) ([]domain.RoomSummary, error) {
	s.mu.RLock()
	entries := make([]*roomEntry, 0, len(s.rooms))
	for _, entry := range s.rooms {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	type listed struct {
		summary domain.RoomSummary
		created int64
	}

	items := make([]listed, 0, len(entries))
	for _, entry := range entries {
		entry.mu.RLock()
		items = append(items, listed{
			summary: domain.RoomSummary{
				ID:               entry.room.ID,
				ParticipantCount: len(entry.room.Participants),
			},
			created: entry.room.CreatedAt.UnixNano(),
		})
		entry.mu.RUnlock()
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].created < items[j].created
	})

	summaries := make([]domain.RoomSummary, len(items))
	for i, item := range items {
		summaries[i] = item.summary
	}

	return summaries, nil
}

// Delete removes a room and all its data.
func (s *roomStore) Delete(ctx context.Context, id string) (*domain.Room, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}

	s.mu.Lock()
	entry, exists := s.rooms[id]
	if !exists {
		s.mu.Unlock()
		return nil, domain.ErrRoomNotFound
	}
	delete(s.rooms, id)
	s.mu.Unlock()

	entry.mu.RLock()
	defer entry.mu.RUnlock()

	return entry.room.Clone(), nil
}

// ReplaceAssignment swaps the room's assignment wholesale under the room's
// write lock. Concurrent readers see either the old map or the new one in
// full; a rejected replacement leaves the prior assignment untouched.
func (s *roomStore) ReplaceAssignment(ctx context.Context, id string, assignment map[int]int) error {
	entry, err := s.entry(id)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	next := entry.room.Clone()
	next.Assignment = make(map[int]int, len(assignment))
	for giver, assignee := range assignment {
		next.Assignment[giver] = assignee
	}

	if err := validateAssignment(next); err != nil {
		return err
	}

	entry.room = next

	return nil
}

func (s *roomStore) entry(id string) (*roomEntry, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}

	s.mu.RLock()
	entry, exists := s.rooms[id]
	s.mu.RUnlock()
	if !exists {
		return nil, domain.ErrRoomNotFound
	}

	return entry, nil
}

// validateAssignment checks that the room's assignment is a total,
// fixed-point-free bijection over its participant ids. The store refuses to
// hold a room that violates this, so a bad shuffle can never corrupt state.
func validateAssignment(room *domain.Room) error {
	if room.Assignment == nil || len(room.Assignment) != len(room.Participants) {
		return domain.ErrInvalidInput
	}

	seen := make(map[int]bool, len(room.Assignment))
	for _, p := range room.Participants {
		assignee, ok := room.Assignment[p.ID]
		if !ok || assignee == p.ID {
			return domain.ErrInvalidInput
		}
		if room.FindParticipantByID(assignee) == nil {
			return domain.ErrInvalidInput
		}
		if seen[assignee] {
			return domain.ErrInvalidInput
		}
		seen[assignee] = true
	}

	return nil
}
