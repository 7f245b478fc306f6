package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type RoomEventType string

const (
	EventRoomCreated        RoomEventType = "room_created"
	EventRoomDeleted        RoomEventType = "room_deleted"
	EventAssignmentShuffled RoomEventType = "assignment_shuffled"
)

type RoomAuditLog struct {
	ID        string         `bson:"_id" json:"id"`
	RoomID    string         `bson:"room_id" json:"roomId"`
	EventType RoomEventType  `bson:"event_type" json:"eventType"`
	Timestamp time.Time      `bson:"timestamp" json:"timestamp"`
	Metadata  map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

type RoomAuditRepository interface {
	Log(ctx context.Context, log *RoomAuditLog) error
	GetByRoomID(ctx context.Context, roomID string, limit int) ([]RoomAuditLog, error)
	GetByEventType(ctx context.Context, eventType RoomEventType, from, to time.Time) ([]RoomAuditLog, error)
	DeleteOlderThan(ctx context.Context, before time.Time) error
	EnsureIndexes(ctx context.Context) error
}

func NewRoomCreatedLog(roomID string, participantCount int) *RoomAuditLog {
	return &RoomAuditLog{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		EventType: EventRoomCreated,
		Timestamp: time.Now(),
		Metadata: map[string]any{
			"participant_count": participantCount,
		},
	}
}

func NewRoomDeletedLog(roomID string, participantCount int) *RoomAuditLog {
	return &RoomAuditLog{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		EventType: EventRoomDeleted,
		Timestamp: time.Now(),
		Metadata: map[string]any{
			"participant_count": participantCount,
		},
	}
}

func NewAssignmentShuffledLog(roomID string) *RoomAuditLog {
	return &RoomAuditLog{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		EventType: EventAssignmentShuffled,
		Timestamp: time.Now(),
		Metadata:  map[string]any{},
	}
}
