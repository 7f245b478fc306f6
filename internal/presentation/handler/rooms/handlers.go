package rooms

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hilthontt/secretsanta/internal/domain"
	"github.com/hilthontt/secretsanta/internal/infrastructure/events"
	"github.com/hilthontt/secretsanta/internal/infrastructure/json"
	"github.com/hilthontt/secretsanta/internal/infrastructure/metrics"
	"github.com/hilthontt/secretsanta/internal/infrastructure/ws"
)

type Handler struct {
	roomStore     domain.RoomStore
	hub           *ws.Hub
	roomPublisher events.Publisher
}

func NewHandler(roomStore domain.RoomStore, hub *ws.Hub, roomPublisher events.Publisher) *Handler {
	return &Handler{
		roomStore:     roomStore,
		hub:           hub,
		roomPublisher: roomPublisher,
	}
}

// CreateRoomHandler godoc
// @Summary      Create a new secret santa room
// @Description  Creates a room from participant names, computes the initial assignment, and returns the room URL as plain text
// @Tags         rooms
// @Accept       json
// @Produce      plain
// @Param        request body createRoomRequest true "Participant names"
// @Success      201 {string} string "Room URL"
// @Failure      400 {object} json.ErrorResponse "Fewer than 2 usable names"
// @Failure      503 {object} json.ErrorResponse "Room store at capacity"
// @Router       /room [post]
func (h *Handler) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	newRoom, err := domain.NewRoom(req.Participants)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTooFewParticipants):
			json.WriteBadRequestError(w, "At least 2 participants are required")
		default:
			json.WriteValidationError(w, err)
		}
		return
	}

	ctx := r.Context()
	if err := h.roomStore.Create(ctx, newRoom); err != nil {
		switch {
		case errors.Is(err, domain.ErrStoreFull):
			json.WriteError(w, http.StatusServiceUnavailable, "Room capacity reached. Please try again later.")
		default:
			log.Printf("Store error creating room %s: %v", newRoom.ID, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	metrics.RoomsCreated.Inc()

	if err := h.roomPublisher.PublishRoomCreated(ctx, *newRoom); err != nil {
		log.Printf("Error publishing room created: %v", err)
	}

	json.WriteText(w, http.StatusCreated, fmt.Sprintf("/api/secret-santa/room/%s", newRoom.ID))
}

// ListRoomsHandler godoc
// @Summary      List rooms
// @Description  Returns room summaries (id and participant count only)
// @Tags         rooms
// @Produce      json
// @Success      200 {array} domain.RoomSummary "Room summaries"
// @Router       /rooms [get]
// @Router       /room [get]
func (h *Handler) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.roomStore.List(r.Context())
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, summaries)
}

// GetRoomHandler godoc
// @Summary      Get room details
// @Description  Returns the room's participants. The assignment map is never included.
// @Tags         rooms
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      200 {object} roomResponse "Room details"
// @Failure      404 {object} json.ErrorResponse "Room not found"
// @Router       /room/{roomId} [get]
func (h *Handler) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	room, ok := h.findRoom(w, r)
	if !ok {
		return
	}

	participants := make([]participantResponse, len(room.Participants))
	for i, p := range room.Participants {
		participants[i] = participantResponse{
			ID:   p.ID,
			Name: p.Name,
		}
	}

	json.Write(w, http.StatusOK, roomResponse{
		ID:           room.ID,
		Participants: participants,
	})
}

// RevealAssigneeHandler godoc
// @Summary      Reveal one participant's assignee
// @Description  Returns the assigned participant's name as plain text. One participant per request; no response ever contains the whole mapping.
// @Tags         rooms
// @Produce      plain
// @Param        roomId path string true "Room ID"
// @Param        participantId path int true "Participant ID"
// @Success      200 {string} string "Assignee name"
// @Failure      404 {object} json.ErrorResponse "Room or participant not found"
// @Router       /room/{roomId}/participant/{participantId} [get]
func (h *Handler) RevealAssigneeHandler(w http.ResponseWriter, r *http.Request) {
	room, ok := h.findRoom(w, r)
	if !ok {
		return
	}

	participantID, err := strconv.Atoi(chi.URLParam(r, "participantId"))
	if err != nil {
		// A non-numeric id cannot name any participant
		json.WriteNotFoundError(w, "Participant not found")
		return
	}

	assignee, err := room.AssigneeOf(participantID)
	if err != nil {
		json.WriteNotFoundError(w, "Participant not found")
		return
	}

	metrics.RevealsServed.Inc()

	json.WriteText(w, http.StatusOK, assignee.Name)
}

// ShuffleHandler godoc
// @Summary      Re-shuffle a room's assignment
// @Description  Generates a fresh derangement over the room's participants and atomically replaces the stored assignment
// @Tags         rooms
// @Param        roomId path string true "Room ID"
// @Success      204 "Assignment replaced"
// @Failure      404 {object} json.ErrorResponse "Room not found"
// @Router       /room/{roomId}/shuffle [post]
func (h *Handler) ShuffleHandler(w http.ResponseWriter, r *http.Request) {
	room, ok := h.findRoom(w, r)
	if !ok {
		return
	}

	assignment, err := domain.NewAssignment(room.ParticipantIDs())
	if err != nil {
		log.Printf("Failed to compute assignment for room %s: %v", room.ID, err)
		json.WriteInternalError(w, err)
		return
	}

	ctx := r.Context()
	if err := h.roomStore.ReplaceAssignment(ctx, room.ID, assignment); err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomNotFound):
			// Deleted between the read and the replace
			json.WriteNotFoundError(w, "Room not found")
		default:
			log.Printf("Failed to replace assignment for room %s: %v", room.ID, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	metrics.AssignmentsShuffled.Inc()

	if err := h.roomPublisher.PublishAssignmentShuffled(ctx, *room); err != nil {
		log.Printf("Error publishing assignment shuffled: %v", err)
	}

	w.WriteHeader(http.StatusNoContent)

	h.hub.Broadcast() <- ws.NewAssignmentShuffled(room.ID, time.Now().UTC().Format(time.RFC3339))
}

// DeleteRoomHandler godoc
// @Summary      Delete a room
// @Description  Permanently removes the room, its participants, and its assignment
// @Tags         rooms
// @Param        roomId path string true "Room ID"
// @Success      204 "Room deleted"
// @Failure      404 {object} json.ErrorResponse "Room not found"
// @Router       /room/{roomId} [delete]
func (h *Handler) DeleteRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteNotFoundError(w, "Room not found")
		return
	}

	deletedRoom, err := h.roomStore.Delete(r.Context(), roomID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomNotFound):
			json.WriteNotFoundError(w, "Room not found")
		default:
			log.Printf("Failed to delete room %s: %v", roomID, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	metrics.RoomsDeleted.Inc()

	if err := h.roomPublisher.PublishRoomDeleted(r.Context(), *deletedRoom); err != nil {
		log.Printf("Error publishing room deleted: %v", err)
	}

	w.WriteHeader(http.StatusNoContent)

	h.hub.Broadcast() <- ws.NewRoomDeleted(deletedRoom.ID)
}

// WatchRoomHandler godoc
// @Summary      Watch a room via WebSocket
// @Description  Streams shuffle and delete events for the room so open reveal pages can refresh
// @Tags         rooms
// @Param        roomId path string true "Room ID"
// @Success      101 "Switching Protocols"
// @Failure      404 {object} json.ErrorResponse "Room not found"
// @Router       /room/{roomId}/watch [get]
func (h *Handler) WatchRoomHandler(w http.ResponseWriter, r *http.Request) {
	room, ok := h.findRoom(w, r)
	if !ok {
		return
	}

	conn, err := h.hub.Upgrade(w, r)
	if err != nil {
		log.Printf("WebSocket upgrade failed for room %s: %v", room.ID, err)
		return
	}

	client := ws.NewClient(conn, uuid.NewString(), room.ID)
	h.hub.Register() <- client

	go client.WritePump()
	go client.ReadPump(h.hub)
}

// findRoom resolves the roomId path parameter, writing the NotFound response
// itself when the lookup fails.
func (h *Handler) findRoom(w http.ResponseWriter, r *http.Request) (*domain.Room, bool) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteNotFoundError(w, "Room not found")
		return nil, false
	}

	room, err := h.roomStore.GetByID(r.Context(), roomID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomNotFound):
			json.WriteNotFoundError(w, "Room not found")
		default:
			log.Printf("Failed to load room %s: %v", roomID, err)
			json.WriteInternalError(w, err)
		}
		return nil, false
	}

	return room, true
}
