package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/namnv2496/go-code-room/internal/gateway"
	"github.com/namnv2496/go-code-room/internal/room"
)

// Coordinator is the per-connection protocol handler. It reads events off a
// connection one at a time, mutates room membership through the registry,
// and fans edits and execution results out to room members.
type Coordinator struct {
	registry *room.Registry
	engine   gateway.Engine
	upgrader websocket.Upgrader
}

func NewCoordinator(registry *room.Registry, engine gateway.Engine) *Coordinator {
	return &Coordinator{
		registry: registry,
		engine:   engine,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleConnection upgrades the request and runs the connection's event loop
// until the transport closes. Each connection gets its own loop, so one
// connection awaiting an execution never stalls the others.
func (co *Coordinator) HandleConnection(w http.ResponseWriter, r *http.Request) {
	ws, err := co.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &conn{id: uuid.NewString(), ws: ws}
	slog.Info("client connected", "conn", c.id, "remoteAddr", ws.RemoteAddr())

	defer func() {
		co.registry.RemoveConnection(c.id)
		ws.Close()
		slog.Info("client disconnected", "conn", c.id)
	}()

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			return
		}

		var f frame
		if err := json.Unmarshal(raw, &f); err != nil {
			slog.Warn("dropping malformed frame", "conn", c.id, "error", err)
			continue
		}
		co.dispatch(c, f)
	}
}

// dispatch handles one event to completion. Malformed payloads and unknown
// events are dropped with a log entry, never an error back to the client.
func (co *Coordinator) dispatch(c *conn, f frame) {
	switch f.Event {
	case evJoinRoom:
		var roomID string
		if err := json.Unmarshal(f.Data, &roomID); err != nil || roomID == "" {
			slog.Warn("dropping joinRoom with bad room id", "conn", c.id, "error", err)
			return
		}
		co.registry.Join(roomID, c)
		slog.Info("client joined room", "conn", c.id, "room", roomID)
		if err := c.Send(evJoinedRoom, roomID); err != nil {
			slog.Warn("failed to ack join", "conn", c.id, "error", err)
		}

	case evCodeChange:
		var p codeChangePayload
		if err := json.Unmarshal(f.Data, &p); err != nil || p.RoomID == "" {
			slog.Warn("dropping malformed codeChange", "conn", c.id, "error", err)
			return
		}
		co.registry.Broadcast(p.RoomID, c.id, evCodeUpdate, p.Code)

	case evLanguageChange:
		var p languageChangePayload
		if err := json.Unmarshal(f.Data, &p); err != nil || p.RoomID == "" {
			slog.Warn("dropping malformed languageChange", "conn", c.id, "error", err)
			return
		}
		co.registry.Broadcast(p.RoomID, c.id, evLanguageUpdate, p.Language)

	case evExecuteCode:
		var p executeCodePayload
		if err := json.Unmarshal(f.Data, &p); err != nil || p.RoomID == "" {
			slog.Warn("dropping malformed executeCode", "conn", c.id, "error", err)
			return
		}
		// Awaited here: the sender's loop blocks until the result is in,
		// which keeps this sender's events ordered. Joining is not required
		// to execute; membership only gates who receives the fan-out.
		res := co.engine.Execute(context.Background(), p.Language, p.Code)
		if !res.OK() {
			slog.Warn("execution failed", "conn", c.id, "room", p.RoomID, "reason", res.Reason())
		}
		output := res.Legacy()
		// Everyone else via the room, the sender directly by identity, so
		// the sender sees its result exactly once, member or not.
		co.registry.Broadcast(p.RoomID, c.id, evExecutionResult, output)
		if err := c.Send(evExecutionResult, output); err != nil {
			slog.Warn("failed to send execution result", "conn", c.id, "error", err)
		}

	default:
		slog.Debug("ignoring unknown event", "conn", c.id, "event", f.Event)
	}
}
