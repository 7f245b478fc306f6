package ws

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub fans room events out to watchers. A watcher is any open reveal page
// that wants to know when the room it shows is re-shuffled or deleted.
type Hub struct {
	rooms      map[string]map[*Client]struct{} // roomID -> watchers
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Event
	upgrader   websocket.Upgrader
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Event, 256),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *Hub) Run() {
	for {
		select {
		case cl := <-h.register:
			h.add(cl)

		case cl := <-h.unregister:
			h.remove(cl)

		case event := <-h.broadcast:
			h.send(event)
		}
	}
}

func (h *Hub) Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return h.upgrader.Upgrade(w, r, nil)
}

func (h *Hub) Register() chan<- *Client {
	return h.register
}

func (h *Hub) Unregister() chan<- *Client {
	return h.unregister
}

func (h *Hub) Broadcast() chan<- *Event {
	return h.broadcast
}

func (h *Hub) add(cl *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	watchers, ok := h.rooms[cl.RoomID]
	if !ok {
		watchers = make(map[*Client]struct{})
		h.rooms[cl.RoomID] = watchers
	}
	watchers[cl] = struct{}{}
}

func (h *Hub) remove(cl *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if watchers, ok := h.rooms[cl.RoomID]; ok {
		if _, exists := watchers[cl]; exists {
			delete(watchers, cl)
			close(cl.Events)

			if len(watchers) == 0 {
				delete(h.rooms, cl.RoomID)
			}
		}
	}
}

func (h *Hub) send(event *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for cl := range h.rooms[event.RoomID] {
		select {
		case cl.Events <- event:
		default:
			// Watcher is too slow - drop the event
			log.Printf("watcher %s buffer full, dropping event", cl.ID)
		}
	}
}
