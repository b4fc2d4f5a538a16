package presence

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSetter struct {
	got    []Activity
	err    error
	closed bool
}

func (r *recordingSetter) SetActivity(a Activity) error {
	if r.err != nil {
		return r.err
	}
	r.got = append(r.got, a)
	return nil
}

func (r *recordingSetter) Close() error {
	r.closed = true
	return nil
}

func newTestBroadcaster(s Setter) (*Broadcaster, *time.Time) {
	clock := time.Unix(1700000000, 0)
	b := NewBroadcaster(s, "https://example.com/releases")
	b.now = func() time.Time { return clock }
	return b, &clock
}

func TestBroadcaster_RateLimit(t *testing.T) {
	rec := &recordingSetter{}
	b, clock := newTestBroadcaster(rec)

	assert.True(t, b.Update("In Menu", "Waiting to start..."))
	assert.False(t, b.Update("Score: 0", "Pilot: NEO"))

	*clock = clock.Add(RateLimit - time.Millisecond)
	assert.False(t, b.Update("Score: 100", "Pilot: NEO"))

	*clock = clock.Add(time.Millisecond)
	assert.True(t, b.Update("Score: 200", "Pilot: NEO"))

	require.Len(t, rec.got, 2)
	a := rec.got[1]
	assert.Equal(t, "Score: 200", a.State)
	assert.Equal(t, "Pilot: NEO", a.Details)
	assert.Equal(t, "logo", a.LargeImage)
	assert.Equal(t, "Tetris Neon Arcade", a.LargeText)
	assert.Equal(t, "idle", a.SmallImage)
	assert.Equal(t, *clock, a.Start)
	assert.Equal(t, []Button{{Label: "Download Game", URL: "https://example.com/releases"}}, a.Buttons)
}

func TestBroadcaster_DisablesOnError(t *testing.T) {
	rec := &recordingSetter{err: errors.New("broken pipe")}
	b, clock := newTestBroadcaster(rec)

	assert.True(t, b.Enabled())
	assert.False(t, b.Update("GAME OVER", "Final Score: 300"))
	assert.False(t, b.Enabled())

	rec.err = nil
	*clock = clock.Add(time.Hour)
	assert.False(t, b.Update("Score: 0", "Pilot: NEO"))
	assert.Empty(t, rec.got)
}

func TestBroadcaster_NilSetter(t *testing.T) {
	b := NewBroadcaster(nil, "")
	assert.False(t, b.Enabled())
	assert.False(t, b.Update("Paused", "Taking a break"))
	assert.NoError(t, b.Close())
}

func TestBroadcaster_NoButtonWithoutURL(t *testing.T) {
	rec := &recordingSetter{}
	b := NewBroadcaster(rec, "")
	require.True(t, b.Update("Paused", "Taking a break"))
	assert.Nil(t, rec.got[0].Buttons)
}

func TestBroadcaster_Close(t *testing.T) {
	rec := &recordingSetter{}
	b, _ := newTestBroadcaster(rec)
	require.NoError(t, b.Close())
	assert.True(t, rec.closed)
	assert.False(t, b.Update("x", "y"))
}

func TestConnect_WithoutAppID(t *testing.T) {
	b := Connect("", "https://example.com")
	assert.False(t, b.Enabled())
}
