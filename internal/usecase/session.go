package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/tictactoe"
)

// OutcomePublisher announces finished games to interested listeners.
type OutcomePublisher interface {
	PublishOutcome(ctx context.Context, event *entity.OutcomeEvent) error
}

// Snapshot is what a front-end renders after each step.
// When Outcome is terminal, FinalBoard holds the finished game and Board is already the next one.
type Snapshot struct {
	SessionID        string            `json:"session_id"`
	Board            entity.Board      `json:"board"`
	FinalBoard       *entity.Board     `json:"final_board,omitempty"`
	CurrentPlayer    entity.Cell       `json:"current_player"`
	Mode             entity.Mode       `json:"mode"`
	FreeCount        int               `json:"free_count"`
	Scores           entity.ScoreBoard `json:"scores"`
	Outcome          entity.Outcome    `json:"outcome"`
	AwaitingComputer bool              `json:"awaiting_computer"`
}

// Session runs the move loop shared by every front-end: play, check, then hand the turn over.
// All engine calls are serialized; in single-player mode the player's input is refused
// while the computer reply is pending.
type Session struct {
	logger    *slog.Logger
	id        string
	engine    *tictactoe.Engine
	publisher OutcomePublisher
	delay     time.Duration

	mu         sync.Mutex
	pending    bool
	generation int
}

// NewSession wraps engine. publisher may be nil.
func NewSession(logger *slog.Logger, id string, engine *tictactoe.Engine, publisher OutcomePublisher, delay time.Duration) *Session {
	return &Session{
		logger:    logger.With("component", "session", "session", id),
		id:        id,
		engine:    engine,
		publisher: publisher,
		delay:     delay,
	}
}

func (that *Session) ID() string {
	return that.id
}

// NewGame abandons the current game and starts a fresh one in mode. Scores are kept.
func (that *Session) NewGame(mode entity.Mode) Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.engine.StartGame(mode)
	that.pending = false
	that.generation++

	that.logger.Info("new game", "mode", mode)

	return that.snapshot(entity.None, nil)
}

// State returns the current snapshot without changing anything.
func (that *Session) State() Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshot(entity.None, nil)
}

// Move plays the current player's mark at row, col and checks the result.
// In two-player mode the turn is handed over immediately; in single-player mode the returned
// snapshot has AwaitingComputer set and the caller must follow up with ComputerReply.
func (that *Session) Move(ctx context.Context, row, col int) (Snapshot, error) {
	log := that.logger.With("method", "Move")

	that.mu.Lock()

	if that.pending {
		snapshot := that.snapshot(entity.None, nil)
		that.mu.Unlock()

		return snapshot, apperror.ErrComputerThinking
	}

	if err := that.engine.Validate(row, col); err != nil {
		snapshot := that.snapshot(entity.None, nil)
		that.mu.Unlock()

		log.Debug("move rejected", "row", row, "col", col, "error", err)

		return snapshot, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, err)
	}

	mark := that.engine.CurrentPlayer()
	that.engine.PlayAt(row, col)
	log.Debug("move accepted", "mark", mark, "row", row, "col", col)

	result := that.engine.CheckOutcome()
	if result.Outcome.IsTerminal() {
		snapshot, event := that.finish(result)
		that.mu.Unlock()

		that.publish(ctx, event)

		return snapshot, nil
	}

	if that.engine.CurrentMode() == entity.TwoPlayer {
		that.engine.AdvanceTurn()
	} else {
		that.pending = true
	}

	snapshot := that.snapshot(entity.None, nil)
	that.mu.Unlock()

	return snapshot, nil
}

// ComputerReply waits for the configured delay, lets the computer move and checks the result.
// If ctx is done before the delay ends, no move is made and the reply stays pending.
func (that *Session) ComputerReply(ctx context.Context) (Snapshot, error) {
	that.mu.Lock()
	if !that.pending {
		snapshot := that.snapshot(entity.None, nil)
		that.mu.Unlock()

		return snapshot, apperror.ErrNoPendingReply
	}
	generation := that.generation
	that.mu.Unlock()

	if err := that.wait(ctx); err != nil {
		return that.State(), fmt.Errorf("computer reply interrupted: %w", err)
	}

	that.mu.Lock()

	// a new game was started while we were waiting
	if !that.pending || generation != that.generation {
		snapshot := that.snapshot(entity.None, nil)
		that.mu.Unlock()

		return snapshot, apperror.ErrNoPendingReply
	}

	that.engine.AdvanceTurn()
	that.pending = false

	result := that.engine.CheckOutcome()
	if result.Outcome.IsTerminal() {
		snapshot, event := that.finish(result)
		that.mu.Unlock()

		that.publish(ctx, event)

		return snapshot, nil
	}

	snapshot := that.snapshot(entity.None, nil)
	that.mu.Unlock()

	return snapshot, nil
}

func (that *Session) wait(ctx context.Context) error {
	if that.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(that.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// finish must be called with the lock held, right after the engine restarted the game.
func (that *Session) finish(result tictactoe.Result) (Snapshot, *entity.OutcomeEvent) {
	that.pending = false
	that.generation++

	that.logger.Info("game finished",
		"outcome", result.Outcome.Message(),
		"x_wins", result.Scores.XWins,
		"o_wins", result.Scores.OWins,
		"ties", result.Scores.Ties,
	)

	event := &entity.OutcomeEvent{
		SessionID: that.id,
		Outcome:   result.Outcome,
		Message:   result.Outcome.Message(),
		Mode:      that.engine.CurrentMode(),
		Board:     result.Board,
		Scores:    result.Scores,
		At:        time.Now().UTC(),
	}

	return that.snapshot(result.Outcome, &result.Board), event
}

func (that *Session) publish(ctx context.Context, event *entity.OutcomeEvent) {
	if that.publisher == nil {
		return
	}

	if err := that.publisher.PublishOutcome(ctx, event); err != nil {
		that.logger.Error("failed to publish outcome", "outcome", event.Outcome, "error", err)
	}
}

func (that *Session) snapshot(outcome entity.Outcome, finalBoard *entity.Board) Snapshot {
	return Snapshot{
		SessionID:        that.id,
		Board:            that.engine.Board(),
		FinalBoard:       finalBoard,
		CurrentPlayer:    that.engine.CurrentPlayer(),
		Mode:             that.engine.CurrentMode(),
		FreeCount:        that.engine.FreeCount(),
		Scores:           that.engine.Scores(),
		Outcome:          outcome,
		AwaitingComputer: that.pending,
	}
}
