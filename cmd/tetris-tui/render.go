package main

import (
	"fmt"
	"image/color"

	"github.com/deitrix/neon-tetris/arcade"
	"github.com/deitrix/neon-tetris/board"
	"github.com/deitrix/neon-tetris/cell"
	"github.com/deitrix/neon-tetris/game"
	"github.com/deitrix/neon-tetris/piece"
	"github.com/gdamore/tcell/v2"
)

const (
	// boardLeft and boardTop locate the board's top-left cell; each cell is two columns wide
	boardLeft = 2
	boardTop  = 1
	sidebarX  = boardLeft + board.Width*2 + 4
)

var (
	styleBase   = tcell.StyleDefault.Background(rgb(cell.Background)).Foreground(rgb(cell.Text))
	styleBorder = styleBase.Foreground(rgb(cell.Glow))
	styleDim    = styleBase.Foreground(tcell.ColorGray)
	styleAccent = styleBase.Foreground(rgb(cell.Accent)).Bold(true)
	styleAlert  = styleBase.Foreground(rgb(cell.Alert)).Bold(true)
	styleCyan   = styleBase.Foreground(rgb(cell.Cyan.Base)).Bold(true)
)

func rgb(c color.NRGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func blockStyle(k piece.Kind) tcell.Style {
	t := cell.Of(k)
	return styleBase.Foreground(rgb(t.Light)).Background(rgb(t.Base))
}

func ghostStyle(k piece.Kind) tcell.Style {
	return styleBase.Foreground(rgb(cell.Of(k).Dark))
}

func puts(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func putsCentered(s tcell.Screen, cx, y int, style tcell.Style, text string) {
	puts(s, cx-len([]rune(text))/2, y, style, text)
}

// block draws one board cell at board coordinates.
func block(s tcell.Screen, col, row int, style tcell.Style, glyph string) {
	puts(s, boardLeft+col*2, boardTop+row, style, glyph)
}

func draw(s tcell.Screen, a *arcade.Arcade) {
	s.SetStyle(styleBase)
	s.Clear()
	snap := a.Snapshot()
	drawBoard(s, a.Screen(), snap)
	drawSidebar(s, a, snap)

	cx := boardLeft + board.Width
	cy := boardTop + board.Height/2
	switch a.Screen() {
	case arcade.Login:
		drawBox(s, cx, cy, []line{
			{"WELCOME PLAYER", styleCyan},
			{"", styleBase},
			{"[ " + a.Input() + "_ ]", styleBase.Reverse(true)},
			{"", styleBase},
			{"PRESS ENTER", styleDim},
			{"DEL forget pilot", styleDim},
			{a.Status(), styleAccent},
		})
	case arcade.Controls:
		drawBox(s, cx, cy, []line{
			{"HOW TO PLAY", styleCyan},
			{a.Status(), styleAccent},
			{"UP     rotate", styleBase},
			{"< >    move", styleBase},
			{"DOWN   soft drop", styleBase},
			{"SPACE  drop", styleBase},
			{"P      pause", styleBase},
			{"", styleBase},
			{"PRESS ENTER TO START", styleDim},
		})
	case arcade.Paused:
		drawBox(s, cx, cy, []line{
			{"PAUSED", styleAlert},
			{fmt.Sprintf("SCORE: %d", snap.Score), styleBase},
			{"P resume  R restart", styleDim},
			{"Q quit", styleDim},
		})
	case arcade.GameOver:
		drawBox(s, cx, cy, []line{
			{"GAME OVER", styleAlert},
			{fmt.Sprintf("SCORE: %d", snap.Score), styleBase},
			{"R restart  Q quit", styleDim},
		})
	}
	s.Show()
}

func drawBoard(s tcell.Screen, screen arcade.Screen, snap game.Snapshot) {
	right := boardLeft + board.Width*2
	bottom := boardTop + board.Height
	for y := boardTop; y < bottom; y++ {
		s.SetContent(boardLeft-1, y, '│', nil, styleBorder)
		s.SetContent(right, y, '│', nil, styleBorder)
	}
	for x := boardLeft; x < right; x++ {
		s.SetContent(x, boardTop-1, '─', nil, styleBorder)
		s.SetContent(x, bottom, '─', nil, styleBorder)
	}
	s.SetContent(boardLeft-1, boardTop-1, '┌', nil, styleBorder)
	s.SetContent(right, boardTop-1, '┐', nil, styleBorder)
	s.SetContent(boardLeft-1, bottom, '└', nil, styleBorder)
	s.SetContent(right, bottom, '┘', nil, styleBorder)

	for row, cells := range snap.Board {
		for col, c := range cells {
			if k, ok := c.Kind(); ok {
				block(s, col, row, blockStyle(k), "[]")
			} else {
				block(s, col, row, styleDim, " .")
			}
		}
	}

	if (screen != arcade.Playing && screen != arcade.Paused) || snap.Over {
		return
	}
	ghost := snap.Piece
	ghost.Row = snap.GhostRow
	ghost.Each(func(col, row int) {
		block(s, col, row, ghostStyle(ghost.Kind), "::")
	})
	snap.Piece.Each(func(col, row int) {
		if row >= 0 {
			block(s, col, row, blockStyle(snap.Piece.Kind), "[]")
		}
	})
}

func drawSidebar(s tcell.Screen, a *arcade.Arcade, snap game.Snapshot) {
	x, y := sidebarX, boardTop
	name := a.Player()
	if name == "" {
		name = "GUEST"
	}
	puts(s, x, y, styleDim, "PILOT")
	puts(s, x, y+1, styleCyan, name)

	puts(s, x, y+3, styleDim, "SCORE")
	puts(s, x, y+4, styleAccent, fmt.Sprint(snap.Score))
	puts(s, x+12, y+3, styleDim, "LINES")
	puts(s, x+12, y+4, styleBase, fmt.Sprint(snap.Lines))

	puts(s, x, y+6, styleDim, "NEXT")
	snap.Next.Shape().Each(func(row, col int) {
		puts(s, x+col*2, y+7+row, blockStyle(snap.Next), "[]")
	})

	puts(s, x, y+10, styleDim, "TOP PILOTS")
	for i, e := range a.Leaderboard() {
		if i >= 10 {
			break
		}
		style := styleBase
		if i == 0 {
			style = styleAccent
		}
		puts(s, x, y+11+i, style, fmt.Sprintf("%2d. %-12s %6d", i+1, e.Name, e.Score))
	}
}

type line struct {
	text  string
	style tcell.Style
}

// drawBox draws lines centred on (cx, cy) inside a bordered panel.
func drawBox(s tcell.Screen, cx, cy int, lines []line) {
	w := 0
	for _, l := range lines {
		w = max(w, len([]rune(l.text)))
	}
	w += 4
	h := len(lines) + 2
	left, top := cx-w/2, cy-h/2
	for y := top; y < top+h; y++ {
		for x := left; x < left+w; x++ {
			r := ' '
			switch {
			case y == top || y == top+h-1:
				r = '─'
			case x == left || x == left+w-1:
				r = '│'
			}
			s.SetContent(x, y, r, nil, styleBorder)
		}
	}
	for i, l := range lines {
		putsCentered(s, cx, top+1+i, l.style, l.text)
	}
}
