package arcade

import "time"

const (
	DefaultGravity = 500 * time.Millisecond
	DefaultFast    = 50 * time.Millisecond
)

// Gravity decides from wall-clock time when the live piece falls a row, so fall speed does not
// depend on frame rate.
type Gravity struct {
	Normal time.Duration
	Fast   time.Duration

	last  time.Time
	armed bool
}

// Reset makes the next Due call start a fresh interval.
func (g *Gravity) Reset() {
	g.armed = false
}

// Due reports whether an interval has elapsed since the last fall. fast selects the soft-drop
// interval. The first call after Reset only starts the clock.
func (g *Gravity) Due(now time.Time, fast bool) bool {
	if !g.armed {
		g.last, g.armed = now, true
		return false
	}
	interval := g.Normal
	if fast {
		interval = g.Fast
	}
	if now.Sub(g.last) < interval {
		return false
	}
	g.last = now
	return true
}
