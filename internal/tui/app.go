package tui

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/usecase"
)

// computerEvent carries the computer's move back into the event loop.
type computerEvent struct {
	tcell.EventTime
	snapshot usecase.Snapshot
	game     int
}

type quitEvent struct {
	tcell.EventTime
}

type timedEvent interface {
	tcell.Event
	SetEventNow()
}

// App is the terminal front-end: one screen, one session.
type App struct {
	logger  *slog.Logger
	screen  tcell.Screen
	session *usecase.Session

	snapshot  usecase.Snapshot
	cursor    entity.Position
	status    string
	mouseDown bool
	game      int

	replies sync.WaitGroup
}

// New expects an initialized screen. The caller owns it and calls Fini.
func New(logger *slog.Logger, screen tcell.Screen, session *usecase.Session) *App {
	return &App{
		logger:  logger.With("component", "tui"),
		screen:  screen,
		session: session,
		cursor:  entity.Position{Row: 1, Col: 1},
	}
}

// Run - draws the board and handles input until the player quits or ctx is done.
func (that *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		that.replies.Wait()
	}()

	stop := context.AfterFunc(ctx, func() {
		that.post(&quitEvent{})
	})
	defer stop()

	that.screen.EnableMouse()
	that.screen.HideCursor()

	that.snapshot = that.session.State()
	that.draw()

	for {
		switch ev := that.screen.PollEvent().(type) {
		case nil:
			return nil
		case *quitEvent:
			return nil
		case *tcell.EventResize:
			that.screen.Sync()
		case *tcell.EventKey:
			if that.handleKey(ctx, ev) {
				that.logger.Info("player quit")
				return nil
			}
		case *tcell.EventMouse:
			that.handleMouse(ctx, ev)
		case *computerEvent:
			that.applyComputer(ev)
		}

		that.draw()
	}
}

// handleKey reports whether the player asked to quit.
func (that *App) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		that.moveCursor(-1, 0)
	case tcell.KeyDown:
		that.moveCursor(1, 0)
	case tcell.KeyLeft:
		that.moveCursor(0, -1)
	case tcell.KeyRight:
		that.moveCursor(0, 1)
	case tcell.KeyEnter:
		that.play(ctx, that.cursor)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return true
		case '1':
			that.newGame(entity.SinglePlayer)
		case '2':
			that.newGame(entity.TwoPlayer)
		case ' ':
			that.play(ctx, that.cursor)
		}
	}

	return false
}

func (that *App) handleMouse(ctx context.Context, ev *tcell.EventMouse) {
	pressed := ev.Buttons()&tcell.Button1 != 0
	wasDown := that.mouseDown
	that.mouseDown = pressed

	if !pressed || wasDown {
		return
	}

	pos, ok := cellAt(ev.Position())
	if !ok {
		return
	}

	that.cursor = pos
	that.play(ctx, pos)
}

func (that *App) moveCursor(dRow, dCol int) {
	that.cursor.Row = (that.cursor.Row + dRow + entity.BoardSize) % entity.BoardSize
	that.cursor.Col = (that.cursor.Col + dCol + entity.BoardSize) % entity.BoardSize
}

func (that *App) newGame(mode entity.Mode) {
	that.snapshot = that.session.NewGame(mode)
	that.game++
	that.status = "New game: " + mode.Title()
}

func (that *App) play(ctx context.Context, pos entity.Position) {
	snapshot, err := that.session.Move(ctx, pos.Row, pos.Col)
	switch {
	case errors.Is(err, apperror.ErrComputerThinking):
		that.beep()
		return
	case errors.Is(err, apperror.ErrCellOccupied):
		that.status = "That cell is taken"
		that.beep()
		return
	case err != nil:
		that.logger.Debug("move rejected", "error", err)
		that.beep()
		return
	}

	that.apply(snapshot)

	if snapshot.AwaitingComputer {
		that.replies.Add(1)
		go that.computerReply(ctx, that.game)
	}
}

func (that *App) computerReply(ctx context.Context, game int) {
	defer that.replies.Done()

	snapshot, err := that.session.ComputerReply(ctx)
	if err != nil {
		if !errors.Is(err, apperror.ErrNoPendingReply) {
			that.logger.Debug("computer reply dropped", "error", err)
		}
		return
	}

	that.post(&computerEvent{snapshot: snapshot, game: game})
}

// applyComputer drops a reply that was overtaken by a new game.
func (that *App) applyComputer(ev *computerEvent) {
	if ev.game != that.game {
		that.snapshot = that.session.State()
		return
	}

	that.apply(ev.snapshot)
}

func (that *App) apply(snapshot usecase.Snapshot) {
	that.snapshot = snapshot
	that.status = ""

	if snapshot.Outcome.IsTerminal() {
		that.status = snapshot.Outcome.Message() + "! Next game started."
	}
}

func (that *App) post(ev timedEvent) {
	ev.SetEventNow()

	if err := that.screen.PostEvent(ev); err != nil {
		that.logger.Error("failed to post event", "error", err)
	}
}

func (that *App) beep() {
	if err := that.screen.Beep(); err != nil {
		that.logger.Debug("beep failed", "error", err)
	}
}
