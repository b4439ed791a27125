package pkg

import "github.com/google/uuid"

// GenerateNewSessionID returns a random id for a player session.
func GenerateNewSessionID() string {
	return uuid.NewString()
}

// GenerateTerminalSessionID returns the id used by the local terminal session.
func GenerateTerminalSessionID() string {
	return "terminal-" + uuid.NewString()[:8]
}
