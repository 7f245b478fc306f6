package ws

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type Client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	Events  chan *Event
	ID      string
	RoomID  string
}

func NewClient(conn *websocket.Conn, id, roomID string) *Client {
	return &Client{
		conn:   conn,
		Events: make(chan *Event, 16), // buffered to avoid dead-locks on slow watchers
		ID:     id,
		RoomID: roomID,
	}
}

// ReadPump discards incoming frames; watchers are receive-only. Its job is to
// notice the connection closing and deregister the client.
func (c *Client) ReadPump(hub *Hub) {
	defer func() {
		hub.Unregister() <- c
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws read error (watcher %s): %v", c.ID, err)
			}
			return
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for event := range c.Events {
		if err := c.writeJSON(event); err != nil {
			log.Printf("ws write error (watcher %s): %v", c.ID, err)
			return
		}
	}
}

func (c *Client) writeJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}
