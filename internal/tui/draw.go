package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
)

// Board geometry in screen cells.
const (
	originX    = 2
	originY    = 3
	cellWidth  = 5
	cellHeight = 3

	statusY = originY + entity.BoardSize*(cellHeight+1)
	helpY   = statusY + 1
)

const helpLine = "1 single  2 two players  arrows/enter or mouse to play  q quit"

var (
	styleDefault = tcell.StyleDefault
	styleTitle   = tcell.StyleDefault.Bold(true)
	styleGrid    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleCursor  = tcell.StyleDefault.Background(tcell.ColorDarkSlateGray)
	styleHelp    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleX       = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleO       = tcell.StyleDefault.Foreground(tcell.ColorDodgerBlue).Bold(true)
)

// cellOrigin returns the top-left screen position of a board cell.
func cellOrigin(pos entity.Position) (int, int) {
	return originX + pos.Col*(cellWidth+1), originY + pos.Row*(cellHeight+1)
}

// cellAt maps a screen position to the board cell under it. Grid lines belong to no cell.
func cellAt(x, y int) (entity.Position, bool) {
	dx, dy := x-originX, y-originY
	if dx < 0 || dy < 0 {
		return entity.Position{}, false
	}

	if dx%(cellWidth+1) == cellWidth || dy%(cellHeight+1) == cellHeight {
		return entity.Position{}, false
	}

	pos := entity.Position{Row: dy / (cellHeight + 1), Col: dx / (cellWidth + 1)}
	if !entity.InBounds(pos.Row, pos.Col) {
		return entity.Position{}, false
	}

	return pos, true
}

func (that *App) draw() {
	that.screen.Clear()

	snapshot := that.snapshot

	that.drawText(originX, 0, styleTitle, "Tic-Tac-Toe  "+snapshot.Mode.Title())
	that.drawText(originX, 1, styleDefault, fmt.Sprintf("X: %d  O: %d  Ties: %d",
		snapshot.Scores.XWins, snapshot.Scores.OWins, snapshot.Scores.Ties))

	that.drawGrid()

	for row := 0; row < entity.BoardSize; row++ {
		for col := 0; col < entity.BoardSize; col++ {
			that.drawCell(entity.Position{Row: row, Col: col}, snapshot.Board[row][col])
		}
	}

	that.drawText(originX, statusY, styleDefault, that.statusLine())
	that.drawText(originX, helpY, styleHelp, helpLine)

	that.screen.Show()
}

func (that *App) drawGrid() {
	width := entity.BoardSize*(cellWidth+1) - 1
	height := entity.BoardSize*(cellHeight+1) - 1

	for i := 1; i < entity.BoardSize; i++ {
		lineX := originX + i*(cellWidth+1) - 1
		lineY := originY + i*(cellHeight+1) - 1

		for y := originY; y < originY+height; y++ {
			that.screen.SetContent(lineX, y, tcell.RuneVLine, nil, styleGrid)
		}

		for x := originX; x < originX+width; x++ {
			that.screen.SetContent(x, lineY, tcell.RuneHLine, nil, styleGrid)
		}
	}

	for i := 1; i < entity.BoardSize; i++ {
		for j := 1; j < entity.BoardSize; j++ {
			that.screen.SetContent(originX+i*(cellWidth+1)-1, originY+j*(cellHeight+1)-1, tcell.RunePlus, nil, styleGrid)
		}
	}
}

func (that *App) drawCell(pos entity.Position, mark entity.Cell) {
	x0, y0 := cellOrigin(pos)

	background := styleDefault
	if pos == that.cursor {
		background = styleCursor
	}

	for y := y0; y < y0+cellHeight; y++ {
		for x := x0; x < x0+cellWidth; x++ {
			that.screen.SetContent(x, y, ' ', nil, background)
		}
	}

	if mark == entity.Empty {
		return
	}

	style := styleX
	if mark == entity.O {
		style = styleO
	}

	if pos == that.cursor {
		style = style.Background(tcell.ColorDarkSlateGray)
	}

	that.screen.SetContent(x0+cellWidth/2, y0+cellHeight/2, []rune(mark.String())[0], nil, style)
}

func (that *App) drawText(x, y int, style tcell.Style, text string) {
	for _, r := range text {
		that.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (that *App) statusLine() string {
	if that.status != "" {
		return that.status
	}

	if that.snapshot.AwaitingComputer {
		return "Computer is thinking..."
	}

	return fmt.Sprintf("%s to move", that.snapshot.CurrentPlayer)
}
