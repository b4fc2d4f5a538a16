// Package sound plays the arcade's short synthesized effects.
package sound

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog/log"
)

const sampleRate = beep.SampleRate(44100)

// Effect names a sound cue.
type Effect string

const (
	Move     Effect = "move"
	Rotate   Effect = "rotate"
	Drop     Effect = "drop"
	GameOver Effect = "gameover"
	Level    Effect = "level"
)

// Player plays effects without blocking.
type Player interface {
	Play(Effect)
}

// Nop is a Player that does nothing.
type Nop struct{}

func (Nop) Play(Effect) {}

type note struct {
	freq float64
	dur  time.Duration
}

var tones = map[Effect][]note{
	Move:   {{440, 25 * time.Millisecond}},
	Rotate: {{660, 30 * time.Millisecond}},
	Drop:   {{220, 40 * time.Millisecond}, {165, 50 * time.Millisecond}},
	GameOver: {
		{392, 150 * time.Millisecond},
		{330, 150 * time.Millisecond},
		{262, 150 * time.Millisecond},
		{196, 300 * time.Millisecond},
	},
	Level: {{523, 60 * time.Millisecond}, {659, 60 * time.Millisecond}, {784, 90 * time.Millisecond}},
}

// stream renders e as a finite sequence of sine notes.
func stream(e Effect) (beep.Streamer, error) {
	notes, ok := tones[e]
	if !ok {
		return nil, fmt.Errorf("sound: unknown effect %q", e)
	}
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		sine, err := generators.SineTone(sampleRate, n.freq)
		if err != nil {
			return nil, err
		}
		parts = append(parts, beep.Take(sampleRate.N(n.dur), sine))
	}
	return &effects.Volume{Streamer: beep.Seq(parts...), Base: 2, Volume: -2}, nil
}

// Beep plays effects through the system speaker.
type Beep struct {
	mu    sync.Mutex
	mixer *beep.Mixer
}

// Open initialises the speaker and starts an idle mixer on it.
func Open() (*Beep, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("sound: init speaker: %w", err)
	}
	b := &Beep{mixer: &beep.Mixer{}}
	speaker.Play(b.mixer)
	return b, nil
}

func (b *Beep) Play(e Effect) {
	s, err := stream(e)
	if err != nil {
		log.Debug().Err(err).Msg("sound")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	speaker.Lock()
	b.mixer.Add(s)
	speaker.Unlock()
}

// Close silences anything still playing.
func (b *Beep) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	speaker.Clear()
}

// New returns a speaker-backed Player, or Nop when disabled or when no audio device is available.
func New(enabled bool) Player {
	if !enabled {
		return Nop{}
	}
	b, err := Open()
	if err != nil {
		log.Warn().Err(err).Msg("audio unavailable, continuing without sound")
		return Nop{}
	}
	return b
}
