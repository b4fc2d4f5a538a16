// Package board holds the grid of locked cells. Pieces only reach it through Set, and rows only
// leave it through Compact.
package board

import (
	"github.com/deitrix/neon-tetris/piece"
)

const (
	// Width is the default number of columns
	Width = 10
	// Height is the default number of rows
	Height = 20
)

// Cell is the content of one grid square: Empty, or the identity of the piece that locked there
// plus one.
type Cell uint8

// Empty marks an unoccupied cell.
const Empty Cell = 0

// CellOf returns the cell value stored for a locked piece of kind k.
func CellOf(k piece.Kind) Cell {
	return Cell(k) + 1
}

// Kind returns the piece identity of a filled cell. ok is false for Empty and for values no
// piece can leave behind.
func (c Cell) Kind() (k piece.Kind, ok bool) {
	if c == Empty {
		return 0, false
	}
	k = piece.Kind(c - 1)
	return k, k.Valid()
}

type Board struct {
	width, height int
	// cells is row-major, width*height long
	cells []Cell
}

// New returns an empty board. Non-positive dimensions fall back to the defaults.
func New(width, height int) *Board {
	if width <= 0 {
		width = Width
	}
	if height <= 0 {
		height = Height
	}
	return &Board{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

// InBounds reports whether (col, row) lies on the grid.
func (b *Board) InBounds(col, row int) bool {
	return col >= 0 && col < b.width && row >= 0 && row < b.height
}

// Get returns the cell at (col, row), or Empty if it is off the grid.
func (b *Board) Get(col, row int) Cell {
	if !b.InBounds(col, row) {
		return Empty
	}
	return b.cells[row*b.width+col]
}

// Set writes c at (col, row). Writes off the grid, or of values outside Empty..CellOf(L), are
// dropped and reported as false.
func (b *Board) Set(col, row int, c Cell) bool {
	if !b.InBounds(col, row) || c > CellOf(piece.Count-1) {
		return false
	}
	b.cells[row*b.width+col] = c
	return true
}

// RowFull reports whether every cell in row is occupied.
func (b *Board) RowFull(row int) bool {
	if row < 0 || row >= b.height {
		return false
	}
	for _, c := range b.cells[row*b.width : (row+1)*b.width] {
		if c == Empty {
			return false
		}
	}
	return true
}

// Collides reports whether shape placed with its top-left corner at (col, row) leaves the grid
// through a wall or the floor, or overlaps a locked cell. Cells above row 0 are only checked
// against the walls.
func (b *Board) Collides(s piece.Shape, col, row int) bool {
	for i, filled := range s.Mask {
		if !filled {
			continue
		}
		x := col + i%s.Width
		y := row + i/s.Width
		if x < 0 || x >= b.width || y >= b.height {
			return true
		}
		if y >= 0 && b.cells[y*b.width+x] != Empty {
			return true
		}
	}
	return false
}

// Place writes every filled cell of s, positioned at (col, row), as c. Cells off the grid are
// skipped.
func (b *Board) Place(s piece.Shape, col, row int, c Cell) {
	s.Each(func(r, cc int) {
		b.Set(col+cc, row+r, c)
	})
}

// Compact removes every full row, keeps the order of the remaining rows, and refills the top with
// empty rows. It returns the number of rows removed.
func (b *Board) Compact() int {
	kept := make([]Cell, 0, len(b.cells))
	for y := 0; y < b.height; y++ {
		if b.RowFull(y) {
			continue
		}
		kept = append(kept, b.cells[y*b.width:(y+1)*b.width]...)
	}
	removed := b.height - len(kept)/b.width
	if removed == 0 {
		return 0
	}
	next := make([]Cell, removed*b.width, len(b.cells))
	b.cells = append(next, kept...)
	return removed
}

// Clear empties every cell.
func (b *Board) Clear() {
	clear(b.cells)
}

// Rows returns a copy of the grid as [row][col].
func (b *Board) Rows() [][]Cell {
	out := make([][]Cell, b.height)
	for y := range out {
		out[y] = make([]Cell, b.width)
		copy(out[y], b.cells[y*b.width:(y+1)*b.width])
	}
	return out
}
