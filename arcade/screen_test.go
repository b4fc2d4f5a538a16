package arcade

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	tests := []struct {
		from Screen
		act  Action
		to   Screen
		ok   bool
	}{
		{Login, Confirm, Controls, true},
		{Controls, Confirm, Playing, true},
		{Playing, Pause, Paused, true},
		{Paused, Pause, Playing, true},
		{Paused, Restart, Playing, true},
		{Paused, Quit, Login, true},
		{GameOver, Restart, Playing, true},
		{GameOver, Quit, Login, true},

		{Login, Restart, 0, false},
		{Controls, Pause, 0, false},
		{Playing, Quit, 0, false},
		{Playing, Restart, 0, false},
		{Playing, Left, 0, false},
		{GameOver, Pause, 0, false},
		{Login, Forget, 0, false},
	}
	for _, test := range tests {
		t.Run(test.from.String()+"/"+test.act.String(), func(t *testing.T) {
			to, ok := Next(test.from, test.act)
			assert.Equal(t, test.ok, ok)
			if ok {
				assert.Equal(t, test.to, to)
			}
		})
	}
}

func TestScreenString(t *testing.T) {
	assert.Equal(t, "GAMEOVER", GameOver.String())
	assert.Equal(t, "UNKNOWN", Screen(99).String())
	assert.Equal(t, "hard-drop", HardDrop.String())
	assert.Equal(t, "forget", Forget.String())
	assert.Equal(t, "unknown", Action(-1).String())
	assert.Equal(t, "unknown", Action(99).String())
}

func TestGravity(t *testing.T) {
	g := Gravity{Normal: 500 * time.Millisecond, Fast: 50 * time.Millisecond}
	t0 := time.Unix(0, 0)

	assert.False(t, g.Due(t0, false), "first call arms the clock")
	assert.False(t, g.Due(t0.Add(499*time.Millisecond), false))
	assert.True(t, g.Due(t0.Add(500*time.Millisecond), false))
	assert.False(t, g.Due(t0.Add(520*time.Millisecond), true))
	assert.True(t, g.Due(t0.Add(550*time.Millisecond), true))

	g.Reset()
	assert.False(t, g.Due(t0.Add(time.Hour), true))
	assert.True(t, g.Due(t0.Add(time.Hour+50*time.Millisecond), true))
}
