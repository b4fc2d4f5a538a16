// Package game is the falling-block engine: one Session owns the board, the live piece, the
// queued next piece and the score. It is synchronous and does no I/O; callers must not use a
// Session from more than one goroutine at a time.
package game

import (
	"github.com/deitrix/neon-tetris/board"
	"github.com/deitrix/neon-tetris/piece"
)

// LineScore is awarded per cleared row. There are no combo or drop bonuses.
const LineScore = 100

// State is the engine's own two-state machine.
type State int

const (
	// Active means a live, non-colliding piece is in play.
	Active State = iota
	// Over is terminal until Reset.
	Over
)

func (s State) String() string {
	if s == Over {
		return "over"
	}
	return "active"
}

// Piece is the live piece: its shape in the current rotation, its identity and the board
// position of the shape's top-left corner.
type Piece struct {
	Kind  piece.Kind
	Shape piece.Shape
	Col   int
	Row   int
}

// Each calls fn with the board coordinates of every filled cell of p.
func (p Piece) Each(fn func(col, row int)) {
	p.Shape.Each(func(r, c int) {
		fn(p.Col+c, p.Row+r)
	})
}

// LockResult reports what a Lock did.
type LockResult struct {
	// Cleared is the number of rows removed by the lock
	Cleared int
	// Over is true if the following spawn ended the game
	Over bool
}

type Session struct {
	// board holds every locked cell, not including the falling piece
	board *board.Board
	// rand draws the next piece
	rand piece.Rand
	// current is the piece being controlled by the player
	current Piece
	// next is the identity that the following spawn will promote to current
	next piece.Kind
	// score only ever grows, by LineScore per cleared row
	score int
	// lines is the number of rows cleared since the last Reset
	lines int
	// over is set by a spawn that collides, and cleared only by Reset
	over bool
}

// Option configures a Session at construction.
type Option func(*options)

type options struct {
	width, height int
}

// WithSize overrides the default board.Width x board.Height grid.
func WithSize(width, height int) Option {
	return func(o *options) {
		o.width, o.height = width, height
	}
}

// New returns a session that has already been Reset, so a piece is live. r must not be nil.
func New(r piece.Rand, opts ...Option) *Session {
	o := options{width: board.Width, height: board.Height}
	for _, opt := range opts {
		opt(&o)
	}
	s := &Session{
		board: board.New(o.width, o.height),
		rand:  r,
	}
	s.Reset()
	return s
}

// Reset empties the board, zeroes the score, draws an initial next piece and spawns from it.
func (s *Session) Reset() {
	s.board.Clear()
	s.score = 0
	s.lines = 0
	s.over = false
	s.next = piece.Random(s.rand)
	s.Spawn()
}

// Spawn promotes the queued piece to current, queues a new random one and places the current
// piece centred on row 0. If that placement collides the session is over, and the colliding
// piece is left in place.
func (s *Session) Spawn() {
	kind := s.next
	s.next = piece.Random(s.rand)
	shape := kind.Shape()
	s.current = Piece{
		Kind:  kind,
		Shape: shape,
		Col:   s.board.Width()/2 - shape.Width/2,
		Row:   0,
	}
	if s.board.Collides(s.current.Shape, s.current.Col, s.current.Row) {
		s.over = true
	}
}

// Move shifts the live piece by (dCol, dRow) if the destination is clear. It reports whether the
// piece moved; a terminal session never moves.
func (s *Session) Move(dCol, dRow int) bool {
	if s.over {
		return false
	}
	col, row := s.current.Col+dCol, s.current.Row+dRow
	if s.board.Collides(s.current.Shape, col, row) {
		return false
	}
	s.current.Col, s.current.Row = col, row
	return true
}

// Rotate turns the live piece clockwise in place. There are no wall kicks: a rotation that would
// collide is dropped and Rotate returns false.
func (s *Session) Rotate() bool {
	if s.over {
		return false
	}
	rotated := s.current.Shape.Rotate()
	if s.board.Collides(rotated, s.current.Col, s.current.Row) {
		return false
	}
	s.current.Shape = rotated
	return true
}

// Lock writes the live piece into the board, clears full rows and spawns the next piece. It is a
// no-op on a terminal session.
func (s *Session) Lock() LockResult {
	if s.over {
		return LockResult{Over: true}
	}
	s.board.Place(s.current.Shape, s.current.Col, s.current.Row, board.CellOf(s.current.Kind))
	cleared := s.ClearLines()
	s.Spawn()
	return LockResult{Cleared: cleared, Over: s.over}
}

// ClearLines removes full rows and adds LineScore per row. It returns the number removed.
func (s *Session) ClearLines() int {
	n := s.board.Compact()
	s.score += n * LineScore
	s.lines += n
	return n
}

// HardDrop moves the live piece down until it is blocked, then locks it. It returns how many
// rows the piece fell.
func (s *Session) HardDrop() (rows int, res LockResult) {
	if s.over {
		return 0, LockResult{Over: true}
	}
	for s.Move(0, 1) {
		rows++
	}
	return rows, s.Lock()
}

// GhostRow returns the row the live piece would lock at if hard dropped.
func (s *Session) GhostRow() int {
	row := s.current.Row
	for !s.board.Collides(s.current.Shape, s.current.Col, row+1) {
		row++
	}
	return row
}

// Current returns a copy of the live piece. After game over it is the spawn that collided.
func (s *Session) Current() Piece {
	p := s.current
	p.Shape = p.Shape.Clone()
	return p
}

func (s *Session) Next() piece.Kind { return s.next }
func (s *Session) Score() int       { return s.score }
func (s *Session) Lines() int       { return s.lines }
func (s *Session) Width() int       { return s.board.Width() }
func (s *Session) Height() int      { return s.board.Height() }

// State reports Over once a spawn has collided, until the next Reset.
func (s *Session) State() State {
	if s.over {
		return Over
	}
	return Active
}

// Snapshot is a read-only copy of everything a renderer or network collaborator needs.
type Snapshot struct {
	Board    [][]board.Cell
	Piece    Piece
	GhostRow int
	Next     piece.Kind
	Score    int
	Lines    int
	Over     bool
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Board:    s.board.Rows(),
		Piece:    s.Current(),
		GhostRow: s.GhostRow(),
		Next:     s.next,
		Score:    s.score,
		Lines:    s.lines,
		Over:     s.over,
	}
}
