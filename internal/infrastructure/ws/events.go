package ws

const (
	AssignmentShuffled = "assignment.shuffled"
	RoomDeleted        = "room.deleted"
)

type Event struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
	Data   any    `json:"data,omitempty"`
}

type ShuffledPayload struct {
	ShuffledAt string `json:"shuffledAt"`
}

func NewAssignmentShuffled(roomID, shuffledAt string) *Event {
	return &Event{
		Type:   AssignmentShuffled,
		RoomID: roomID,
		Data: ShuffledPayload{
			ShuffledAt: shuffledAt,
		},
	}
}

func NewRoomDeleted(roomID string) *Event {
	return &Event{
		Type:   RoomDeleted,
		RoomID: roomID,
	}
}
