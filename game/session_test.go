package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deitrix/neon-tetris/board"
	"github.com/deitrix/neon-tetris/piece"
)

// seqRand hands out kinds in a fixed cycle.
type seqRand struct {
	kinds []piece.Kind
	i     int
}

func (r *seqRand) IntN(n int) int {
	k := r.kinds[r.i%len(r.kinds)]
	r.i++
	return int(k) % n
}

func seq(kinds ...piece.Kind) *seqRand {
	return &seqRand{kinds: kinds}
}

func fillRow(s *Session, row int) {
	for x := 0; x < s.Width(); x++ {
		s.board.Set(x, row, board.CellOf(piece.I))
	}
}

func occupied(b *board.Board) int {
	n := 0
	for _, row := range b.Rows() {
		for _, c := range row {
			if c != board.Empty {
				n++
			}
		}
	}
	return n
}

func TestSpawn_Centered(t *testing.T) {
	tests := []struct {
		kind piece.Kind
		col  int
	}{
		{piece.I, 3},
		{piece.O, 4},
		{piece.T, 4},
		{piece.L, 4},
	}
	for _, test := range tests {
		t.Run(test.kind.String(), func(t *testing.T) {
			s := New(seq(test.kind))
			cur := s.Current()
			assert.Equal(t, test.kind, cur.Kind)
			assert.Equal(t, test.col, cur.Col)
			assert.Equal(t, 0, cur.Row)
			assert.Equal(t, Active, s.State())
		})
	}
}

func TestSpawn_PromotesNext(t *testing.T) {
	s := New(seq(piece.T, piece.S, piece.Z))
	assert.Equal(t, piece.T, s.Current().Kind)
	assert.Equal(t, piece.S, s.Next())

	s.Spawn()
	assert.Equal(t, piece.S, s.Current().Kind)
	assert.Equal(t, piece.Z, s.Next())
}

func TestMove(t *testing.T) {
	s := New(seq(piece.O))

	for s.Move(-1, 0) {
	}
	assert.Equal(t, 0, s.Current().Col)
	assert.False(t, s.Move(-1, 0))

	for s.Move(1, 0) {
	}
	assert.Equal(t, board.Width-2, s.Current().Col)

	assert.True(t, s.Move(0, 1))
	assert.Equal(t, 1, s.Current().Row)
}

func TestMove_BlockedLeavesState(t *testing.T) {
	s := New(seq(piece.I))
	s.board.Set(2, 0, board.CellOf(piece.Z))

	before := s.Current()
	assert.False(t, s.Move(-1, 0))
	assert.Equal(t, before, s.Current())
}

func TestRotate(t *testing.T) {
	s := New(seq(piece.I))

	require.True(t, s.Rotate())
	cur := s.Current()
	assert.Equal(t, 1, cur.Shape.Width)
	assert.Equal(t, 4, cur.Shape.Height)

	for s.Move(1, 0) {
	}
	require.Equal(t, board.Width-1, s.Current().Col)

	// horizontal would poke through the right wall; no kick is attempted
	assert.False(t, s.Rotate())
	assert.Equal(t, 1, s.Current().Shape.Width)
}

func TestRotate_BlockedByStack(t *testing.T) {
	s := New(seq(piece.T))
	// T spawns at col 4 as .#. / ###; its clockwise turn needs (4,2)
	s.board.Set(4, 2, board.CellOf(piece.O))
	assert.False(t, s.Rotate())
	assert.True(t, s.Current().Shape.Equal(piece.T.Shape()))
}

func TestClearLines_SingleRow(t *testing.T) {
	s := New(seq(piece.O))
	fillRow(s, board.Height-1)

	assert.Equal(t, 1, s.ClearLines())
	assert.Equal(t, 100, s.Score())
	assert.Equal(t, 1, s.Lines())
	for _, row := range s.Snapshot().Board {
		for _, c := range row {
			assert.Equal(t, board.Empty, c)
		}
	}
}

func TestClearLines_Double(t *testing.T) {
	s := New(seq(piece.O))
	s.board.Set(7, board.Height-3, board.CellOf(piece.J))
	fillRow(s, board.Height-2)
	fillRow(s, board.Height-1)
	s.board.Set(2, board.Height-4, board.CellOf(piece.S))

	assert.Equal(t, 2, s.ClearLines())
	assert.Equal(t, 200, s.Score())

	rows := s.Snapshot().Board
	assert.Equal(t, board.CellOf(piece.J), rows[board.Height-1][7])
	assert.Equal(t, board.CellOf(piece.S), rows[board.Height-2][2])
	assert.Equal(t, make([]board.Cell, board.Width), rows[0])
	assert.Equal(t, make([]board.Cell, board.Width), rows[1])
}

func TestClearLines_NoneIsNoop(t *testing.T) {
	s := New(seq(piece.O))
	s.board.Set(0, board.Height-1, board.CellOf(piece.L))
	before := s.Snapshot().Board

	assert.Equal(t, 0, s.ClearLines())
	assert.Equal(t, 0, s.Score())
	assert.Equal(t, before, s.Snapshot().Board)
}

func TestLock_ClearsAndSpawns(t *testing.T) {
	s := New(seq(piece.I, piece.O))
	// leave exactly the four columns the I covers open in the bottom row
	for x := 0; x < board.Width; x++ {
		if x < 3 || x > 6 {
			s.board.Set(x, board.Height-1, board.CellOf(piece.Z))
		}
	}

	rows, res := s.HardDrop()
	assert.Equal(t, board.Height-1, rows)
	assert.Equal(t, LockResult{Cleared: 1}, res)
	assert.Equal(t, 100, s.Score())
	assert.Equal(t, 0, occupied(s.board))
	assert.Equal(t, piece.O, s.Current().Kind)
}

func TestGameOver(t *testing.T) {
	s := New(seq(piece.I, piece.O, piece.T, piece.S, piece.Z, piece.J, piece.L))
	// rows 0 and 1 are packed except the outer columns, so they never clear
	for _, row := range []int{0, 1} {
		for x := 1; x < board.Width-1; x++ {
			s.board.Set(x, row, board.CellOf(piece.I))
		}
	}

	for range piece.Count {
		s.Spawn()
		if s.State() == Over {
			break
		}
	}
	require.Equal(t, Over, s.State())

	snap := s.Snapshot()
	assert.False(t, s.Move(0, 1))
	assert.False(t, s.Move(-1, 0))
	assert.False(t, s.Rotate())
	assert.Equal(t, LockResult{Over: true}, s.Lock())
	rows, res := s.HardDrop()
	assert.Zero(t, rows)
	assert.True(t, res.Over)
	assert.Equal(t, snap, s.Snapshot())
}

func TestGameOver_FromLock(t *testing.T) {
	s := New(seq(piece.O))
	// a column of cells under the spawn point with a gap so no row clears
	for y := 2; y < board.Height; y++ {
		s.board.Set(4, y, board.CellOf(piece.I))
	}
	_, res := s.HardDrop()
	assert.True(t, res.Over)
	assert.Equal(t, Over, s.State())
}

func TestReset(t *testing.T) {
	s := New(seq(piece.O, piece.L))
	fillRow(s, 0)
	fillRow(s, 1)
	s.Spawn()
	s.ClearLines()
	require.Equal(t, 200, s.Score())
	fillRow(s, 0)
	s.Spawn()
	require.Equal(t, Over, s.State())

	s.Reset()
	assert.Equal(t, Active, s.State())
	assert.Zero(t, s.Score())
	assert.Zero(t, s.Lines())
	assert.Zero(t, occupied(s.board))
	assert.Equal(t, 0, s.Current().Row)
}

func TestEndToEnd_FourDrops(t *testing.T) {
	s := New(seq(piece.I, piece.O, piece.T, piece.L, piece.Z))

	want := make(map[[2]int]board.Cell)
	for range 4 {
		for s.Move(0, 1) {
		}
		cur := s.Current()
		cur.Each(func(col, row int) {
			want[[2]int{col, row}] = board.CellOf(cur.Kind)
		})
		res := s.Lock()
		require.Equal(t, LockResult{}, res)
	}

	assert.Zero(t, s.Score())
	assert.Len(t, want, 16)
	got := make(map[[2]int]board.Cell)
	for y, row := range s.Snapshot().Board {
		for x, c := range row {
			if c != board.Empty {
				got[[2]int{x, y}] = c
			}
		}
	}
	assert.Equal(t, want, got)

	// the I went first and lies flat on the floor
	for x := 3; x <= 6; x++ {
		assert.Equal(t, board.CellOf(piece.I), s.board.Get(x, board.Height-1))
	}
}

func TestGhostRow(t *testing.T) {
	s := New(seq(piece.O))
	assert.Equal(t, board.Height-2, s.GhostRow())
	s.board.Set(4, 10, board.CellOf(piece.T))
	assert.Equal(t, 8, s.GhostRow())
	assert.Equal(t, 0, s.Current().Row)
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := New(seq(piece.J))
	snap := s.Snapshot()
	snap.Board[5][5] = 4
	snap.Piece.Shape.Mask[0] = false

	assert.Equal(t, board.Empty, s.board.Get(5, 5))
	assert.True(t, s.Current().Shape.Mask[0])
}

func TestWithSize(t *testing.T) {
	s := New(seq(piece.I), WithSize(6, 8))
	assert.Equal(t, 6, s.Width())
	assert.Equal(t, 8, s.Height())
	assert.Equal(t, 1, s.Current().Col)
}

// TestRandomPlay drives the engine with a seeded source and checks the board and piece
// invariants after every operation.
func TestRandomPlay(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	s := New(r)

	check := func(op string) {
		t.Helper()
		snap := s.Snapshot()
		for y, row := range snap.Board {
			for x, c := range row {
				require.LessOrEqual(t, c, board.CellOf(piece.L), "%s: cell (%d,%d)", op, x, y)
			}
		}
		if snap.Over {
			return
		}
		snap.Piece.Each(func(col, row int) {
			require.True(t, col >= 0 && col < s.Width() && row < s.Height(), "%s: piece off grid at (%d,%d)", op, col, row)
			require.Equal(t, board.Empty, s.board.Get(col, row), "%s: piece overlaps stack at (%d,%d)", op, col, row)
		})
	}

	prev := 0
	for i := 0; i < 5000; i++ {
		if s.State() == Over {
			s.Reset()
			prev = 0
		}
		switch r.IntN(6) {
		case 0:
			s.Move(-1, 0)
			check("left")
		case 1:
			s.Move(1, 0)
			check("right")
		case 2:
			s.Rotate()
			check("rotate")
		case 3:
			if !s.Move(0, 1) {
				s.Lock()
			}
			check("gravity")
		default:
			s.HardDrop()
			check("hard drop")
		}
		require.GreaterOrEqual(t, s.Score(), prev)
		require.Zero(t, s.Score()%LineScore)
		prev = s.Score()
	}
}
