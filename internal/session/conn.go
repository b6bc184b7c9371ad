package session

import (
	"sync"

	"github.com/gorilla/websocket"
)

// conn is one participant's live transport session. It satisfies
// room.Member, so the registry can deliver to it without knowing about
// websockets.
type conn struct {
	id string
	ws *websocket.Conn
	// mu serializes writes: the reader goroutine and fan-outs from other
	// connections' handlers all write to the same socket.
	mu sync.Mutex
}

func (c *conn) ID() string { return c.id }

func (c *conn) Send(event string, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(outFrame{Event: event, Data: payload})
}
