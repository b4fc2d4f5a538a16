package piece

import "slices"

// Kind identifies one of the seven tetrominoes. The zero value is I.
type Kind int

const (
	I Kind = iota
	O
	T
	S
	Z
	J
	L
)

// Count is the number of shapes in the catalog.
const Count = 7

var names = [Count]string{"I", "O", "T", "S", "Z", "J", "L"}

func (k Kind) String() string {
	if !k.Valid() {
		return "?"
	}
	return names[k]
}

// Valid reports whether k indexes the catalog.
func (k Kind) Valid() bool {
	return k >= 0 && k < Count
}

// Shape returns a copy of the canonical shape for k, so callers can never mutate the catalog.
// An invalid kind has the empty shape.
func (k Kind) Shape() Shape {
	if !k.Valid() {
		return Shape{}
	}
	return catalog[k].Clone()
}

var catalog = [Count]Shape{
	I: {
		Mask: []bool{
			true, true, true, true,
		},
		Width:  4,
		Height: 1,
	},
	O: {
		Mask: []bool{
			true, true,
			true, true,
		},
		Width:  2,
		Height: 2,
	},
	T: {
		Mask: []bool{
			false, true, false,
			true, true, true,
		},
		Width:  3,
		Height: 2,
	},
	S: {
		Mask: []bool{
			false, true, true,
			true, true, false,
		},
		Width:  3,
		Height: 2,
	},
	Z: {
		Mask: []bool{
			true, true, false,
			false, true, true,
		},
		Width:  3,
		Height: 2,
	},
	J: {
		Mask: []bool{
			true, false, false,
			true, true, true,
		},
		Width:  3,
		Height: 2,
	},
	L: {
		Mask: []bool{
			false, false, true,
			true, true, true,
		},
		Width:  3,
		Height: 2,
	},
}

// Shape is a rectangular, row-major boolean matrix. Mask always has Width*Height entries.
type Shape struct {
	Mask          []bool
	Width, Height int
}

// At reports whether the cell at (row, col) is filled. Out of range cells are empty.
func (s Shape) At(row, col int) bool {
	if row < 0 || row >= s.Height || col < 0 || col >= s.Width {
		return false
	}
	return s.Mask[row*s.Width+col]
}

// Each calls fn for every filled cell, in row-major order.
func (s Shape) Each(fn func(row, col int)) {
	for i, filled := range s.Mask {
		if !filled {
			continue
		}
		fn(i/s.Width, i%s.Width)
	}
}

func (s Shape) Clone() Shape {
	s.Mask = slices.Clone(s.Mask)
	return s
}

func (s Shape) Equal(o Shape) bool {
	return s.Width == o.Width && s.Height == o.Height && slices.Equal(s.Mask, o.Mask)
}

// Rotate returns the shape turned 90 degrees clockwise. An R x C shape becomes C x R, with
// out[c][R-1-r] = in[r][c]. The receiver is left untouched.
func (s Shape) Rotate() Shape {
	out := Shape{
		Mask:   make([]bool, len(s.Mask)),
		Width:  s.Height,
		Height: s.Width,
	}
	for i, filled := range s.Mask {
		r, c := i/s.Width, i%s.Width
		out.Mask[c*out.Width+(s.Height-1-r)] = filled
	}
	return out
}

// String renders the shape as rows of '#' and '.', handy in test failures.
func (s Shape) String() string {
	b := make([]byte, 0, (s.Width+1)*s.Height)
	for r := 0; r < s.Height; r++ {
		if r > 0 {
			b = append(b, '\n')
		}
		for c := 0; c < s.Width; c++ {
			if s.At(r, c) {
				b = append(b, '#')
			} else {
				b = append(b, '.')
			}
		}
	}
	return string(b)
}

// Rand is the source used to draw pieces. *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Random draws a kind uniformly. There is no bag; repeats are possible.
func Random(r Rand) Kind {
	return Kind(r.IntN(Count))
}

