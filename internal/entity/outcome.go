package entity

import "fmt"

// Outcome classifies a board: still running, won by one side, or tied.
type Outcome uint8

const (
	None Outcome = iota
	XWins
	OWins
	Tie
)

func (that Outcome) String() string {
	switch that {
	case XWins:
		return "x_wins"
	case OWins:
		return "o_wins"
	case Tie:
		return "tie"
	default:
		return "none"
	}
}

// Message is the text shown to players when a game ends.
func (that Outcome) Message() string {
	switch that {
	case XWins:
		return "X wins"
	case OWins:
		return "O wins"
	case Tie:
		return "Tie"
	default:
		return "None"
	}
}

func (that Outcome) IsTerminal() bool {
	return that != None
}

func (that Outcome) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none":
		*that = None
	case "x_wins":
		*that = XWins
	case "o_wins":
		*that = OWins
	case "tie":
		*that = Tie
	default:
		return fmt.Errorf("unknown outcome %q", text)
	}

	return nil
}

func winnerOutcome(mark Cell) Outcome {
	if mark == X {
		return XWins
	}
	return OWins
}

// DetermineOutcome evaluates the board. The first complete line in Lines order decides the winner;
// a full board without a line is a tie.
func DetermineOutcome(board Board) Outcome {
	for _, line := range Lines {
		a, b, c := board.At(line[0]), board.At(line[1]), board.At(line[2])
		if a != Empty && a == b && b == c {
			return winnerOutcome(a)
		}
	}

	// the game will continue until all the squares are full
	if board.FreeCount() > 0 {
		return None
	}

	return Tie
}
