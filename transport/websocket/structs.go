package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/usecase"
)

const (
	actionConnect  = "connect"
	actionNewGame  = "game:new"
	actionTurn     = "game:turn"
	actionState    = "game:state"
	actionComputer = "game:computer"
	actionError    = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	Mode string `json:"mode,omitempty"`
	Row  *int   `json:"row,omitempty"`
	Col  *int   `json:"col,omitempty"`
}

type ResponsePayload struct {
	Game    *usecase.Snapshot `json:"game,omitempty"`
	Message string            `json:"message,omitempty"`
	Error   string            `json:"error,omitempty"`
}
