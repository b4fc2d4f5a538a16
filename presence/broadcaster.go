package presence

import (
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// RateLimit is the minimum spacing Discord tolerates between activity updates.
const RateLimit = 15 * time.Second

// Setter is anything that can publish an Activity. *Client is the real one.
type Setter interface {
	SetActivity(Activity) error
}

// Broadcaster rate-limits activity updates and gives up after the first failure.
// A Broadcaster with a nil Setter accepts and drops every update.
type Broadcaster struct {
	mu          sync.Mutex
	setter      Setter
	downloadURL string
	now         func() time.Time

	last     time.Time
	sent     bool
	disabled bool
}

// NewBroadcaster wraps s. downloadURL backs the "Download Game" button and may be empty.
func NewBroadcaster(s Setter, downloadURL string) *Broadcaster {
	return &Broadcaster{
		setter:      s,
		downloadURL: downloadURL,
		now:         time.Now,
		disabled:    s == nil,
	}
}

// Connect dials Discord. When that fails the returned Broadcaster is disabled, never nil.
func Connect(appID, downloadURL string) *Broadcaster {
	if appID == "" {
		return NewBroadcaster(nil, downloadURL)
	}
	c, err := Dial(appID)
	if err != nil {
		log.Info().Err(err).Msg("discord presence unavailable")
		return NewBroadcaster(nil, downloadURL)
	}
	log.Info().Msg("connected to discord rich presence")
	return NewBroadcaster(c, downloadURL)
}

// Update publishes state and details unless the last successful update was under RateLimit ago.
// It reports whether the update was sent.
func (b *Broadcaster) Update(state, details string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.disabled {
		return false
	}
	now := b.now()
	if b.sent && now.Sub(b.last) < RateLimit {
		return false
	}

	a := Activity{
		State:      state,
		Details:    details,
		Start:      now,
		LargeImage: "logo",
		LargeText:  "Tetris Neon Arcade",
		SmallImage: "idle",
	}
	if b.downloadURL != "" {
		a.Buttons = []Button{{Label: "Download Game", URL: b.downloadURL}}
	}
	if err := b.setter.SetActivity(a); err != nil {
		log.Warn().Err(err).Msg("discord presence update failed, disabling")
		b.disabled = true
		return false
	}
	b.last = now
	b.sent = true
	log.Debug().Str("state", state).Str("details", details).Msg("presence updated")
	return true
}

// Enabled reports whether updates can still reach Discord.
func (b *Broadcaster) Enabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.disabled
}

// Close disables the broadcaster and closes the underlying connection if it has one.
func (b *Broadcaster) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disabled = true
	if c, ok := b.setter.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
