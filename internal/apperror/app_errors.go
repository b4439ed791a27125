package apperror

import "errors"

var (
	ErrInvalidMove      = errors.New("invalid move")
	ErrOutOfBounds      = errors.New("cell is out of the board")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrComputerThinking = errors.New("computer is making its move")
	ErrNoPendingReply   = errors.New("no computer move is pending")
	ErrUnknownMode      = errors.New("unknown game mode")
)
