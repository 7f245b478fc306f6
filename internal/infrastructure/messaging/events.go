package messaging

import "github.com/hilthontt/secretsanta/internal/domain"

const (
	RoomsQueue      = "rooms"
	DeadLetterQueue = "dead_letter_queue"
)

// RoomEventData carries the room snapshot for audit consumers. The room's
// assignment map is excluded from JSON, so events never leak pairings.
type RoomEventData struct {
	EventType domain.RoomEventType `json:"eventType"`
	Room      domain.Room          `json:"room"`
}
