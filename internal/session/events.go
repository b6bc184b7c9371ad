package session

import "encoding/json"

// Client→server event names.
const (
	evJoinRoom       = "joinRoom"
	evCodeChange     = "codeChange"
	evLanguageChange = "languageChange"
	evExecuteCode    = "executeCode"
)

// Server→client event names.
const (
	evJoinedRoom      = "joinedRoom"
	evCodeUpdate      = "codeUpdate"
	evLanguageUpdate  = "languageChange"
	evExecutionResult = "executionResult"
)

// frame is the envelope for every inbound WebSocket message. Data stays raw
// until the event name tells us which payload shape to expect.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// outFrame is the outbound counterpart with an already-typed payload.
type outFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type codeChangePayload struct {
	RoomID string `json:"roomId"`
	Code   string `json:"code"`
}

type languageChangePayload struct {
	RoomID   string `json:"roomId"`
	Language string `json:"language"`
}

type executeCodePayload struct {
	RoomID   string `json:"roomId"`
	Language string `json:"language"`
	Code     string `json:"code"`
}
