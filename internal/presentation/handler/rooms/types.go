package rooms

// createRoomRequest represents the request to create a new secret santa room
type createRoomRequest struct {
	Participants []string `json:"participants" example:"Alice,Bob,Carol" minItems:"2"` // Participant names, at least 2 non-blank
}

// participantResponse represents one selectable participant
type participantResponse struct {
	ID   int    `json:"id" example:"1"`       // Participant id, unique within the room
	Name string `json:"name" example:"Alice"` // Display name
}

// roomResponse represents a room without its assignment
type roomResponse struct {
	ID           string                `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"` // Unique room identifier
	Participants []participantResponse `json:"participants"`                                      // Participants in insertion order
}
