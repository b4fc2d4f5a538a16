package piece

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape_Rotate(t *testing.T) {
	tests := []struct {
		kind   Kind
		expect Shape
	}{
		{
			kind: I,
			expect: Shape{
				Mask: []bool{
					true,
					true,
					true,
					true,
				},
				Width:  1,
				Height: 4,
			},
		},
		{
			kind: T,
			expect: Shape{
				Mask: []bool{
					true, false,
					true, true,
					true, false,
				},
				Width:  2,
				Height: 3,
			},
		},
		{
			kind: J,
			expect: Shape{
				Mask: []bool{
					true, true,
					true, false,
					true, false,
				},
				Width:  2,
				Height: 3,
			},
		},
		{
			kind: S,
			expect: Shape{
				Mask: []bool{
					true, false,
					true, true,
					false, true,
				},
				Width:  2,
				Height: 3,
			},
		},
	}
	for _, test := range tests {
		t.Run(test.kind.String(), func(t *testing.T) {
			got := test.kind.Shape().Rotate()
			assert.True(t, got.Equal(test.expect), "Rotate(%s):\n%s\nwant:\n%s", test.kind, got, test.expect)
		})
	}
}

var kinds = []Kind{I, O, T, S, Z, J, L}

func TestShape_RotateFourTimesIsIdentity(t *testing.T) {
	for _, k := range kinds {
		s := k.Shape()
		got := s.Rotate().Rotate().Rotate().Rotate()
		assert.True(t, got.Equal(s), "%s after four turns:\n%s", k, got)
	}
}

func TestShape_RotateLeavesReceiver(t *testing.T) {
	s := L.Shape()
	before := s.Clone()
	_ = s.Rotate()
	assert.True(t, s.Equal(before))
}

func TestKind_ShapeIsACopy(t *testing.T) {
	s := O.Shape()
	s.Mask[0] = false
	assert.True(t, O.Shape().Mask[0], "catalog mutated through a returned shape")
}

func TestCatalog(t *testing.T) {
	require.Len(t, kinds, Count)
	for _, k := range kinds {
		s := k.Shape()
		assert.Len(t, s.Mask, s.Width*s.Height, k.String())
		n := 0
		s.Each(func(int, int) { n++ })
		assert.Equal(t, 4, n, k.String())
	}
	assert.Equal(t, 4, I.Shape().Width)
	assert.Equal(t, 1, I.Shape().Height)
}

func TestShape_Each(t *testing.T) {
	var cells [][2]int
	T.Shape().Each(func(row, col int) {
		cells = append(cells, [2]int{row, col})
	})
	assert.Equal(t, [][2]int{{0, 1}, {1, 0}, {1, 1}, {1, 2}}, cells)
}

type fixedRand []int

func (f *fixedRand) IntN(n int) int {
	v := (*f)[0] % n
	*f = (*f)[1:]
	return v
}

func TestRandom(t *testing.T) {
	r := fixedRand{6, 0, 3, 3}
	assert.Equal(t, L, Random(&r))
	assert.Equal(t, I, Random(&r))
	assert.Equal(t, S, Random(&r))
	assert.Equal(t, S, Random(&r))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "Z", Z.String())
	assert.Equal(t, "?", Kind(9).String())
	assert.False(t, Kind(-1).Valid())
}

func TestKind_ShapeOutOfRange(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.Equal(t, Shape{}, Kind(-1).Shape())
		assert.Equal(t, Shape{}, Kind(Count).Shape())
	})
}
