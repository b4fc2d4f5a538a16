// Package cell maps piece identities to the neon palette. The engine never looks at colour; only
// renderers do.
package cell

import (
	"image/color"

	"github.com/deitrix/neon-tetris/board"
	"github.com/deitrix/neon-tetris/piece"
)

// Tint is the colour scheme of one block: a base colour plus a highlight and a shadow for the
// bevel.
type Tint struct {
	Base, Light, Dark color.NRGBA
}

func rgb(r, g, b uint8) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

var (
	Cyan   = Tint{rgb(0, 255, 255), rgb(150, 255, 255), rgb(0, 150, 150)}
	Yellow = Tint{rgb(255, 220, 0), rgb(255, 255, 150), rgb(180, 150, 0)}
	Purple = Tint{rgb(180, 0, 255), rgb(220, 150, 255), rgb(100, 0, 150)}
	Green  = Tint{rgb(0, 255, 0), rgb(150, 255, 150), rgb(0, 150, 0)}
	Red    = Tint{rgb(255, 0, 60), rgb(255, 150, 150), rgb(150, 0, 0)}
	Blue   = Tint{rgb(0, 80, 255), rgb(100, 150, 255), rgb(0, 0, 150)}
	Orange = Tint{rgb(255, 120, 0), rgb(255, 180, 100), rgb(180, 80, 0)}
)

// Theme colours shared by the frontends.
var (
	Background = rgb(10, 10, 25)
	GridLine   = rgb(30, 30, 50)
	Panel      = rgb(20, 20, 35)
	Glow       = rgb(0, 200, 255)
	Text       = rgb(255, 255, 255)
	Accent     = rgb(255, 215, 0)
	Alert      = rgb(255, 50, 50)
)

var byKind = [piece.Count]Tint{
	piece.I: Cyan,
	piece.O: Yellow,
	piece.T: Purple,
	piece.S: Green,
	piece.Z: Red,
	piece.J: Blue,
	piece.L: Orange,
}

// Of returns the tint for a piece kind. Unknown kinds wrap around the palette.
func Of(k piece.Kind) Tint {
	i := int(k) % piece.Count
	if i < 0 {
		i += piece.Count
	}
	return byKind[i]
}

// ForCell returns the tint of a locked board cell. ok is false for empty cells.
func ForCell(c board.Cell) (Tint, bool) {
	k, ok := c.Kind()
	if !ok {
		return Tint{}, false
	}
	return Of(k), true
}
