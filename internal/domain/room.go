package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hilthontt/secretsanta/internal/infrastructure/validate"
)

const maxNameLength = 64

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomAlreadyExists   = errors.New("room already exists")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrTooFewParticipants  = errors.New("at least 2 participants are required")
	ErrInvalidInput        = errors.New("invalid input")
	ErrStoreFull           = errors.New("room store is at capacity")
)

// Participant is a named member of a room. Participants are created once at
// room creation and never renamed; ids start at 1 in list order.
type Participant struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Room groups participants around one gift-exchange assignment. The
// assignment maps each participant id to the id of the participant they give
// to. It is a fixed-point-free bijection over the room's participant ids and
// is only ever replaced wholesale, never mutated entry by entry. It is
// deliberately excluded from JSON so no response can leak the full mapping.
type Room struct {
	ID           string        `json:"id"`
	Participants []Participant `json:"participants"`
	Assignment   map[int]int   `json:"-"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// RoomSummary is the listing view. It never carries names or assignments.
type RoomSummary struct {
	ID               string `json:"id"`
	ParticipantCount int    `json:"participantCount"`
}

type RoomStore interface {
	Create(ctx context.Context, room *Room) error
	GetByID(ctx context.Context, id string) (*Room, error)
	List(ctx context.Context) ([]RoomSummary, error)
	Delete(ctx context.Context, id string) (*Room, error)
	ReplaceAssignment(ctx context.Context, id string, assignment map[int]int) error
}

// NewRoom builds a room from raw participant names: names are trimmed, blank
// entries dropped, and the initial assignment is computed eagerly so a room
// never exists without one. Duplicate names are allowed (they get distinct
// ids). Fails with ErrTooFewParticipants when fewer than 2 usable names
// remain.
func NewRoom(rawNames []string) (*Room, error) {
	validateName := validate.Compose(
		validate.Required(),
		validate.MaxLength(maxNameLength),
	)

	participants := make([]Participant, 0, len(rawNames))
	for _, raw := range rawNames {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if err := validateName(name); err != nil {
			return nil, err
		}
		participants = append(participants, Participant{
			ID:   len(participants) + 1,
			Name: name,
		})
	}

	if len(participants) < 2 {
		return nil, ErrTooFewParticipants
	}

	room := &Room{
		ID:           uuid.NewString(),
		Participants: participants,
		CreatedAt:    time.Now(),
	}

	assignment, err := NewAssignment(room.ParticipantIDs())
	if err != nil {
		return nil, err
	}
	room.Assignment = assignment

	return room, nil
}

// ParticipantIDs returns the ids in insertion order.
func (r *Room) ParticipantIDs() []int {
	ids := make([]int, len(r.Participants))
	for i, p := range r.Participants {
		ids[i] = p.ID
	}
	return ids
}

func (r *Room) FindParticipantByID(id int) *Participant {
	for i := range r.Participants {
		if r.Participants[i].ID == id {
			return &r.Participants[i]
		}
	}
	return nil
}

// AssigneeOf resolves the participant that the given participant gives to.
// This is the only path through which assignment data leaves the domain.
func (r *Room) AssigneeOf(participantID int) (*Participant, error) {
	if r.FindParticipantByID(participantID) == nil {
		return nil, ErrParticipantNotFound
	}

	assigneeID, ok := r.Assignment[participantID]
	if !ok {
		return nil, ErrParticipantNotFound
	}

	assignee := r.FindParticipantByID(assigneeID)
	if assignee == nil {
		return nil, ErrParticipantNotFound
	}

	return assignee, nil
}

// Clone returns a deep copy so callers can hand rooms across goroutines
// without sharing the assignment map or participant slice.
func (r *Room) Clone() *Room {
	participants := make([]Participant, len(r.Participants))
	copy(participants, r.Participants)

	assignment := make(map[int]int, len(r.Assignment))
	for giver, assignee := range r.Assignment {
		assignment[giver] = assignee
	}

	return &Room{
		ID:           r.ID,
		Participants: participants,
		Assignment:   assignment,
		CreatedAt:    r.CreatedAt,
	}
}
