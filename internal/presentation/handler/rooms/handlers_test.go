package rooms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/hilthontt/secretsanta/internal/domain"
	"github.com/hilthontt/secretsanta/internal/infrastructure/events"
	"github.com/hilthontt/secretsanta/internal/infrastructure/repository"
	"github.com/hilthontt/secretsanta/internal/infrastructure/ws"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store := repository.NewRoomStore(100)
	hub := ws.NewHub()
	go hub.Run()

	handler := NewHandler(store, hub, events.NewNopPublisher())

	r := chi.NewRouter()
	r.Route("/api/secret-santa", func(r chi.Router) {
		r.Post("/room", handler.CreateRoomHandler)
		r.Get("/rooms", handler.ListRoomsHandler)
		r.Get("/room", handler.ListRoomsHandler)

		r.Route("/room/{roomId}", func(r chi.Router) {
			r.Get("/", handler.GetRoomHandler)
			r.Delete("/", handler.DeleteRoomHandler)
			r.Post("/shuffle", handler.ShuffleHandler)
			r.Get("/participant/{participantId}", handler.RevealAssigneeHandler)
			r.Get("/watch", handler.WatchRoomHandler)
		})
	})

	return r
}

func createRoom(t *testing.T, router http.Handler, names ...string) string {
	t.Helper()

	body, err := json.Marshal(map[string]any{"participants": names})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/secret-santa/room", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	roomURL := rec.Body.String()
	require.True(t, strings.HasPrefix(roomURL, "/api/secret-santa/room/"))

	return strings.TrimPrefix(roomURL, "/api/secret-santa/room/")
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Detail)

	return body.Detail
}

func TestCreateRoomHandler(t *testing.T) {
	t.Run("returns the room URL as plain text", func(t *testing.T) {
		router := newTestRouter(t)

		body := []byte(`{"participants": ["Alice", "Bob", "Charlie"]}`)
		req := httptest.NewRequest(http.MethodPost, "/api/secret-santa/room", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
		require.True(t, strings.HasPrefix(rec.Body.String(), "/api/secret-santa/room/"))
	})

	t.Run("rejects fewer than 2 usable names", func(t *testing.T) {
		router := newTestRouter(t)

		for _, body := range []string{
			`{"participants": ["OnlyOne"]}`,
			`{"participants": []}`,
			`{"participants": ["Alice", "  ", ""]}`,
		} {
			req := httptest.NewRequest(http.MethodPost, "/api/secret-santa/room", strings.NewReader(body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
			decodeDetail(t, rec)
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		router := newTestRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/api/secret-santa/room", strings.NewReader(`{"participants":`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		decodeDetail(t, rec)
	})
}

func TestListRoomsHandler(t *testing.T) {
	router := newTestRouter(t)

	t.Run("empty store lists no rooms", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/secret-santa/rooms", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, "[]", rec.Body.String())
	})

	roomID := createRoom(t, router, "Alice", "Bob", "Charlie")

	for _, path := range []string{"/api/secret-santa/rooms", "/api/secret-santa/room"} {
		t.Run("lists summaries via "+path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)

			var summaries []domain.RoomSummary
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
			require.Len(t, summaries, 1)
			require.Equal(t, roomID, summaries[0].ID)
			require.Equal(t, 3, summaries[0].ParticipantCount)
		})
	}
}

func TestGetRoomHandler(t *testing.T) {
	router := newTestRouter(t)
	roomID := createRoom(t, router, "Alice", "Bob")

	t.Run("returns participants without the assignment", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/secret-santa/room/"+roomID, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, roomID, body["id"])
		require.NotContains(t, body, "assignment")

		participants, ok := body["participants"].([]any)
		require.True(t, ok)
		require.Len(t, participants, 2)

		first, ok := participants[0].(map[string]any)
		require.True(t, ok)
		require.Equal(t, float64(1), first["id"])
		require.Equal(t, "Alice", first["name"])
	})

	t.Run("unknown room", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/secret-santa/room/nope", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "Room not found", decodeDetail(t, rec))
	})
}

func TestRevealAssigneeHandler(t *testing.T) {
	router := newTestRouter(t)
	roomID := createRoom(t, router, "Alice", "Bob")

	reveal := func(participant string) *httptest.ResponseRecorder {
		path := fmt.Sprintf("/api/secret-santa/room/%s/participant/%s", roomID, participant)
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("returns the assignee name as plain text", func(t *testing.T) {
		// With 2 participants the assignment is always the mutual swap
		rec := reveal("1")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
		require.Equal(t, "Bob", rec.Body.String())

		rec = reveal("2")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "Alice", rec.Body.String())
	})

	t.Run("unknown participant", func(t *testing.T) {
		rec := reveal("99")
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "Participant not found", decodeDetail(t, rec))
	})

	t.Run("non-numeric participant id", func(t *testing.T) {
		rec := reveal("abc")
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "Participant not found", decodeDetail(t, rec))
	})

	t.Run("unknown room", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/secret-santa/room/nope/participant/1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "Room not found", decodeDetail(t, rec))
	})
}

func TestShuffleHandler(t *testing.T) {
	router := newTestRouter(t)
	roomID := createRoom(t, router, "Alice", "Bob", "Charlie")

	t.Run("returns 204 and keeps reveals consistent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/secret-santa/room/"+roomID+"/shuffle", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Empty(t, rec.Body.String())

		// Reveals still resolve after the shuffle
		revealReq := httptest.NewRequest(http.MethodGet, "/api/secret-santa/room/"+roomID+"/participant/1", nil)
		revealRec := httptest.NewRecorder()
		router.ServeHTTP(revealRec, revealReq)

		require.Equal(t, http.StatusOK, revealRec.Code)
		require.Contains(t, []string{"Bob", "Charlie"}, revealRec.Body.String())
	})

	t.Run("unknown room", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/secret-santa/room/nope/shuffle", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "Room not found", decodeDetail(t, rec))
	})
}

func TestDeleteRoomHandler(t *testing.T) {
	router := newTestRouter(t)
	roomID := createRoom(t, router, "Alice", "Bob")

	t.Run("returns 204 and the room is gone", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/secret-santa/room/"+roomID, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)

		getReq := httptest.NewRequest(http.MethodGet, "/api/secret-santa/room/"+roomID, nil)
		getRec := httptest.NewRecorder()
		router.ServeHTTP(getRec, getReq)

		require.Equal(t, http.StatusNotFound, getRec.Code)
	})

	t.Run("deleting twice", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/secret-santa/room/"+roomID, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "Room not found", decodeDetail(t, rec))
	})
}

func TestWatchRoomHandler(t *testing.T) {
	router := newTestRouter(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	roomID := createRoom(t, router, "Alice", "Bob", "Charlie")

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/secret-santa/room/" + roomID + "/watch"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	// Give the hub a moment to register the watcher
	time.Sleep(20 * time.Millisecond)

	shuffleReq, err := http.NewRequest(http.MethodPost, srv.URL+"/api/secret-santa/room/"+roomID+"/shuffle", nil)
	require.NoError(t, err)

	shuffleResp, err := srv.Client().Do(shuffleReq)
	require.NoError(t, err)
	defer shuffleResp.Body.Close()
	require.Equal(t, http.StatusNoContent, shuffleResp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var event ws.Event
	require.NoError(t, conn.ReadJSON(&event))
	require.Equal(t, ws.AssignmentShuffled, event.Type)
	require.Equal(t, roomID, event.RoomID)
}
