package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/apperror"
)

// Mode selects who plays O.
type Mode uint8

const (
	SinglePlayer Mode = iota
	TwoPlayer
)

const (
	singleModeName = "single"
	twoModeName    = "two"
)

// Modes lists every supported mode.
var Modes = []Mode{SinglePlayer, TwoPlayer}

func ParseMode(name string) (Mode, error) {
	switch name {
	case singleModeName:
		return SinglePlayer, nil
	case twoModeName:
		return TwoPlayer, nil
	default:
		return SinglePlayer, fmt.Errorf("%w: %q", apperror.ErrUnknownMode, name)
	}
}

func (that Mode) String() string {
	if that == TwoPlayer {
		return twoModeName
	}
	return singleModeName
}

func (that Mode) Title() string {
	if that == TwoPlayer {
		return "Two players"
	}
	return "Single player"
}

func (that Mode) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Mode) UnmarshalText(text []byte) error {
	mode, err := ParseMode(string(text))
	if err != nil {
		return err
	}

	*that = mode

	return nil
}
