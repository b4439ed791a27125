package entity

import (
	"fmt"
	"strings"
)

// Cell is the content of one board position.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

const BoardSize = 3

// Board is a 3x3 grid addressed as Board[row][col].
type Board [BoardSize][BoardSize]Cell

// Position addresses a single cell on the board.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Lines lists every winning line in evaluation order: rows, columns, main diagonal, anti-diagonal.
var Lines = [8][3]Position{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

func (that Cell) String() string {
	switch that {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return "-"
	}
}

func (that Cell) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Cell) UnmarshalText(text []byte) error {
	switch string(text) {
	case "X", "x":
		*that = X
	case "O", "o":
		*that = O
	case "-", "":
		*that = Empty
	default:
		return fmt.Errorf("unknown cell %q", text)
	}

	return nil
}

// Opponent returns the other mark. Empty has no opponent.
func (that Cell) Opponent() Cell {
	switch that {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

// InBounds reports whether row and col address a cell of the board.
func InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

func (that Board) At(pos Position) Cell {
	return that[pos.Row][pos.Col]
}

// FreeCount returns the number of empty cells.
func (that Board) FreeCount() int {
	free := 0
	for _, row := range that {
		for _, cell := range row {
			if cell == Empty {
				free++
			}
		}
	}

	return free
}

// EmptyCells lists the empty positions in row-major order.
func (that Board) EmptyCells() []Position {
	cells := make([]Position, 0, BoardSize*BoardSize)
	for i, row := range that {
		for j, cell := range row {
			if cell == Empty {
				cells = append(cells, Position{Row: i, Col: j})
			}
		}
	}

	return cells
}

// String renders one bracketed row per line, e.g. "[X, -, O]".
func (that Board) String() string {
	var sb strings.Builder
	for _, row := range that {
		sb.WriteString("[")
		for j, cell := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(cell.String())
		}
		sb.WriteString("]\n")
	}

	return sb.String()
}
