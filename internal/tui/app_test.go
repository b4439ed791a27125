package tui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/usecase"
)

const (
	waitFor = 2 * time.Second
	tick    = 10 * time.Millisecond
)

type firstFree struct{}

func (firstFree) Intn(int) int { return 0 }

type harness struct {
	screen  tcell.SimulationScreen
	session *usecase.Session
	done    chan error
}

func startApp(t *testing.T) *harness {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)

	engine := tictactoe.NewEngine(tictactoe.WithRand(firstFree{}))
	session := usecase.NewSession(logger, "terminal-test", engine, nil, 0)

	ctx, cancel := context.WithCancel(context.Background())

	h := &harness{screen: screen, session: session, done: make(chan error, 1)}
	go func() {
		h.done <- New(logger, screen, session).Run(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		select {
		case <-h.done:
		case <-time.After(waitFor):
			t.Error("app did not stop")
		}
		screen.Fini()
	})

	// wait for the first frame
	require.Eventually(t, func() bool {
		return strings.Contains(h.text(), "Tic-Tac-Toe")
	}, waitFor, tick)

	return h
}

func (that *harness) text() string {
	cells, width, _ := that.screen.GetContents()

	var sb strings.Builder
	for i, cell := range cells {
		if len(cell.Runes) > 0 {
			sb.WriteRune(cell.Runes[0])
		} else {
			sb.WriteRune(' ')
		}

		if (i+1)%width == 0 {
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

func (that *harness) key(key tcell.Key) {
	that.screen.InjectKey(key, 0, tcell.ModNone)
}

func (that *harness) typeRune(r rune) {
	that.screen.InjectKey(tcell.KeyRune, r, tcell.ModNone)
}

func (that *harness) click(t *testing.T, row, col int) {
	t.Helper()

	x, y := cellOrigin(entity.Position{Row: row, Col: col})
	that.screen.InjectMouse(x+1, y+1, tcell.Button1, tcell.ModNone)
	that.screen.InjectMouse(x+1, y+1, tcell.ButtonNone, tcell.ModNone)
}

func (that *harness) waitBoard(t *testing.T, check func(usecase.Snapshot) bool) {
	t.Helper()

	require.Eventually(t, func() bool {
		return check(that.session.State())
	}, waitFor, tick)
}

func TestCellAt(t *testing.T) {
	t.Run("Every cell maps back to itself", func(t *testing.T) {
		for row := 0; row < entity.BoardSize; row++ {
			for col := 0; col < entity.BoardSize; col++ {
				want := entity.Position{Row: row, Col: col}
				x, y := cellOrigin(want)

				for dy := 0; dy < cellHeight; dy++ {
					for dx := 0; dx < cellWidth; dx++ {
						got, ok := cellAt(x+dx, y+dy)
						require.True(t, ok)
						assert.Equal(t, want, got)
					}
				}
			}
		}
	})

	t.Run("Grid lines and outside points hit nothing", func(t *testing.T) {
		x, y := cellOrigin(entity.Position{Row: 0, Col: 0})

		for _, point := range [][2]int{
			{x + cellWidth, y},
			{x, y + cellHeight},
			{originX - 1, originY},
			{originX, originY - 1},
			{originX + entity.BoardSize*(cellWidth+1), originY},
			{originX, originY + entity.BoardSize*(cellHeight+1)},
		} {
			_, ok := cellAt(point[0], point[1])
			assert.False(t, ok, "point %v", point)
		}
	})
}

func TestApp_FirstFrame(t *testing.T) {
	h := startApp(t)

	text := h.text()
	assert.Contains(t, text, "Single player")
	assert.Contains(t, text, "X: 0  O: 0  Ties: 0")
	assert.Contains(t, text, "X to move")
	assert.Contains(t, text, helpLine)
}

func TestApp_TwoPlayerMouseGame(t *testing.T) {
	// Given: a two-player game
	h := startApp(t)
	h.typeRune('2')
	h.waitBoard(t, func(s usecase.Snapshot) bool { return s.Mode == entity.TwoPlayer })

	// When: X takes the top row by clicking while O answers in the middle row
	for _, move := range []entity.Position{{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 1}} {
		h.click(t, move.Row, move.Col)
		h.waitBoard(t, func(s usecase.Snapshot) bool { return s.Board.At(move) != entity.Empty })
	}
	h.click(t, 0, 2)

	// Then: X's win is counted and a fresh board is shown
	h.waitBoard(t, func(s usecase.Snapshot) bool { return s.Scores.XWins == 1 })
	assert.Equal(t, entity.Board{}, h.session.State().Board)

	require.Eventually(t, func() bool {
		text := h.text()
		return strings.Contains(text, "X wins! Next game started.") && strings.Contains(text, "X: 1  O: 0  Ties: 0")
	}, waitFor, tick)
}

func TestApp_SinglePlayerKeyboard(t *testing.T) {
	// Given: the default single-player game with the cursor in the center
	h := startApp(t)

	// When: the player moves right and confirms
	h.key(tcell.KeyRight)
	h.key(tcell.KeyEnter)

	// Then: X lands right of center and the computer answers in the first free cell
	h.waitBoard(t, func(s usecase.Snapshot) bool {
		return s.Board[1][2] == entity.X && s.Board[0][0] == entity.O && !s.AwaitingComputer
	})
	assert.Equal(t, 7, h.session.State().FreeCount)

	require.Eventually(t, func() bool {
		return strings.Contains(h.text(), "X to move")
	}, waitFor, tick)
}

func TestApp_OccupiedCell(t *testing.T) {
	h := startApp(t)
	h.typeRune('2')
	h.waitBoard(t, func(s usecase.Snapshot) bool { return s.Mode == entity.TwoPlayer })

	// When: both players pick the center
	h.typeRune(' ')
	h.waitBoard(t, func(s usecase.Snapshot) bool { return s.Board[1][1] == entity.X })
	h.typeRune(' ')

	// Then: only X's mark is on the board and O is still to move
	require.Eventually(t, func() bool {
		return strings.Contains(h.text(), "That cell is taken")
	}, waitFor, tick)

	state := h.session.State()
	assert.Equal(t, 8, state.FreeCount)
	assert.Equal(t, entity.O, state.CurrentPlayer)
}

func TestApp_Quit(t *testing.T) {
	for _, tc := range []struct {
		name  string
		press func(h *harness)
	}{
		{name: "q", press: func(h *harness) { h.typeRune('q') }},
		{name: "Escape", press: func(h *harness) { h.key(tcell.KeyEscape) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := startApp(t)

			tc.press(h)

			select {
			case err := <-h.done:
				require.NoError(t, err)
				h.done <- err
			case <-time.After(waitFor):
				t.Fatal("app did not quit")
			}
		})
	}
}
