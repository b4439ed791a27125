package tictactoe

import (
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
)

// Picker chooses an index in [0, n). *rand.Rand satisfies it.
type Picker interface {
	Intn(n int) int
}

type globalRand struct{}

func (globalRand) Intn(n int) int {
	return rand.Intn(n) //nolint: gosec // the computer opponent is meant to be random, not secure
}

// Result is the outcome of CheckOutcome, the board it was read from and the scores after it was recorded.
type Result struct {
	Outcome entity.Outcome    `json:"outcome"`
	Board   entity.Board      `json:"board"`
	Scores  entity.ScoreBoard `json:"scores"`
}

// Engine owns the board, the turn, the mode and the session scores.
// It does no I/O and is not safe for concurrent use; callers serialize access.
type Engine struct {
	board     entity.Board
	turn      entity.Cell
	mode      entity.Mode
	freeSpots int
	scores    entity.ScoreBoard
	picker    Picker
}

type Option func(*Engine)

// WithRand sets the random source used by the computer opponent.
func WithRand(picker Picker) Option {
	return func(that *Engine) {
		that.picker = picker
	}
}

// NewEngine returns an engine with a fresh single-player game.
func NewEngine(opts ...Option) *Engine {
	engine := &Engine{picker: globalRand{}}
	for _, opt := range opts {
		opt(engine)
	}

	engine.StartGame(entity.SinglePlayer)

	return engine
}

// StartGame clears the board, gives the first move to X and stores the mode. Scores are kept.
func (that *Engine) StartGame(mode entity.Mode) {
	that.board = entity.Board{}
	that.freeSpots = entity.BoardSize * entity.BoardSize
	that.turn = entity.X
	that.mode = mode
}

// Validate reports why a move at row, col would be rejected, or nil if it would be accepted.
func (that *Engine) Validate(row, col int) error {
	if !entity.InBounds(row, col) {
		return fmt.Errorf("%w: row %d col %d", apperror.ErrOutOfBounds, row, col)
	}

	if that.board[row][col] != entity.Empty {
		return fmt.Errorf("%w: row %d col %d", apperror.ErrCellOccupied, row, col)
	}

	return nil
}

// PlayAt places the current player's mark. It neither advances the turn nor checks the outcome.
func (that *Engine) PlayAt(row, col int) bool {
	if that.Validate(row, col) != nil {
		return false
	}

	that.board[row][col] = that.turn
	that.freeSpots--

	return true
}

// CellAt panics if row or col is outside the board, like an index expression.
func (that *Engine) CellAt(row, col int) entity.Cell {
	return that.board[row][col]
}

// AdvanceTurn hands the move over. In two-player mode the turn flips; in single-player mode
// the computer places an O and X stays the player to move.
func (that *Engine) AdvanceTurn() {
	if that.freeSpots == 0 {
		return
	}

	switch that.mode {
	case entity.TwoPlayer:
		that.turn = that.turn.Opponent()
	case entity.SinglePlayer:
		that.computerMove()
	}
}

// computerMove marks a uniformly random empty cell with O.
func (that *Engine) computerMove() {
	available := that.board.EmptyCells()
	if len(available) == 0 {
		return
	}

	move := available[that.picker.Intn(len(available))]
	that.board[move.Row][move.Col] = entity.O
	that.freeSpots--
}

// CheckOutcome evaluates the board. A finished game is scored and restarted in the same mode
// before CheckOutcome returns, so the returned Result is the only record of the finished game.
func (that *Engine) CheckOutcome() Result {
	board := that.board
	outcome := entity.DetermineOutcome(board)
	if outcome.IsTerminal() {
		that.scores.RecordOutcome(outcome)
		that.StartGame(that.mode)
	}

	return Result{
		Outcome: outcome,
		Board:   board,
		Scores:  that.scores,
	}
}

func (that *Engine) CurrentPlayer() entity.Cell {
	return that.turn
}

func (that *Engine) CurrentMode() entity.Mode {
	return that.mode
}

// Board returns a copy of the board.
func (that *Engine) Board() entity.Board {
	return that.board
}

func (that *Engine) FreeCount() int {
	return that.freeSpots
}

func (that *Engine) Scores() entity.ScoreBoard {
	return that.scores
}
