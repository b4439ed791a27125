package entity

import "time"

// OutcomeEvent describes a finished game.
type OutcomeEvent struct {
	SessionID string     `json:"session_id"`
	Outcome   Outcome    `json:"outcome"`
	Message   string     `json:"message"`
	Mode      Mode       `json:"mode"`
	Board     Board      `json:"board"`
	Scores    ScoreBoard `json:"scores"`
	At        time.Time  `json:"at"`
}
