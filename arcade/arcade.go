// Package arcade drives a game.Session for an interactive frontend: the login, controls, pause and
// game-over screens, gravity, and the leaderboard, presence, sound and credential collaborators.
//
// All methods except the collaborator callbacks must be called from one goroutine (the frontend's
// frame loop). Network work runs elsewhere and only touches the mutex-guarded fields.
package arcade

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/deitrix/neon-tetris/game"
	"github.com/deitrix/neon-tetris/leaderboard"
	"github.com/deitrix/neon-tetris/piece"
	"github.com/deitrix/neon-tetris/sound"
	"github.com/rs/zerolog/log"
)

const (
	// MaxNameInput is how many runes the login prompt accepts.
	MaxNameInput = 12
	DefaultName  = "PLAYER 1"
)

// Leaderboard is the online high-score service. *leaderboard.Client implements it.
type Leaderboard interface {
	Register(ctx context.Context, name string) (leaderboard.Registration, error)
	Submit(ctx context.Context, name string, score int) error
	Top(ctx context.Context) ([]leaderboard.Entry, error)
}

// Presence publishes a status line pair. *presence.Broadcaster implements it.
type Presence interface {
	Update(state, details string) bool
}

// Credentials remembers the player between runs. *credential.Store implements it.
type Credentials interface {
	Username() (string, error)
	SaveUsername(name string) error
	Forget() error
}

// Config wires an Arcade. Every collaborator is optional.
type Config struct {
	// Rand draws pieces. Defaults to a time-seeded PCG.
	Rand        piece.Rand
	Leaderboard Leaderboard
	Presence    Presence
	Sound       sound.Player
	Credentials Credentials
	Gravity     time.Duration
	FastGravity time.Duration

	// Go runs background work. Defaults to starting a goroutine.
	Go func(func())
}

// Arcade is the frontend-independent game driver.
type Arcade struct {
	session *game.Session
	screen  Screen
	input   string
	fast    bool
	gravity Gravity

	lb       Leaderboard
	presence Presence
	sound    sound.Player
	creds    Credentials
	spawn    func(func())
	ctx      context.Context
	cancel   context.CancelFunc

	mu     sync.Mutex
	player string
	status string
	top    []leaderboard.Entry

	// outbox holds presence updates for the single sender started by announce
	outbox   []activity
	draining bool
}

type activity struct {
	state, details string
}

// New builds an Arcade. A remembered username skips the login screen.
func New(cfg Config) *Arcade {
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	ctx, cancel := context.WithCancel(context.Background())
	a := &Arcade{
		session:  game.New(cfg.Rand),
		screen:   Login,
		input:    DefaultName,
		gravity:  Gravity{Normal: cfg.Gravity, Fast: cfg.FastGravity},
		lb:       cfg.Leaderboard,
		presence: cfg.Presence,
		sound:    cfg.Sound,
		creds:    cfg.Credentials,
		spawn:    cfg.Go,
		ctx:      ctx,
		cancel:   cancel,
		top:      leaderboard.Placeholder(),
	}
	if a.gravity.Normal <= 0 {
		a.gravity.Normal = DefaultGravity
	}
	if a.gravity.Fast <= 0 {
		a.gravity.Fast = DefaultFast
	}
	if a.sound == nil {
		a.sound = sound.Nop{}
	}
	if a.spawn == nil {
		a.spawn = func(f func()) { go f() }
	}

	if a.creds != nil {
		name, err := a.creds.Username()
		if err == nil && name != "" {
			log.Info().Str("user", name).Msg("auto-login")
			a.player = name
			a.input = name
			a.screen = Controls
		}
	}

	a.announce("In Menu", "Waiting to start...")
	a.refreshTop()
	return a
}

// Close cancels outstanding network calls.
func (a *Arcade) Close() {
	a.cancel()
}

// Type appends a rune to the login prompt. It is ignored on other screens.
func (a *Arcade) Type(r rune) {
	if a.screen != Login || !unicode.IsPrint(r) || utf8.RuneCountInString(a.input) >= MaxNameInput {
		return
	}
	a.input += string(unicode.ToUpper(r))
}

// SetSoftDrop records whether the soft-drop key is held, which selects the fast gravity.
func (a *Arcade) SetSoftDrop(held bool) {
	a.fast = held
}

// Handle applies one player action.
func (a *Arcade) Handle(act Action) {
	if a.screen == Playing && a.session.State() == game.Over {
		a.gameOver()
		return
	}
	if to, ok := Next(a.screen, act); ok {
		a.transition(act, to)
		return
	}
	switch a.screen {
	case Login:
		switch {
		case act == Backspace && a.input != "":
			_, n := utf8.DecodeLastRuneInString(a.input)
			a.input = a.input[:len(a.input)-n]
		case act == Forget:
			a.forget()
		}
	case Playing:
		a.play(act)
	}
}

func (a *Arcade) transition(act Action, to Screen) {
	from := a.screen
	switch {
	case from == Login:
		name := strings.TrimSpace(a.input)
		if name == "" {
			return
		}
		a.register(name)
		a.sound.Play(sound.Level)
	case from == Controls:
		a.session.Reset()
		a.gravity.Reset()
		a.sound.Play(sound.Level)
	case from == Playing && to == Paused:
		a.announce("Paused", "Taking a break")
	case act == Pause:
		a.gravity.Reset()
	case act == Restart:
		a.session.Reset()
		a.gravity.Reset()
		a.sound.Play(sound.Level)
		a.announce("Score: 0", "Pilot: "+a.pilot())
	}
	log.Debug().Stringer("from", from).Stringer("to", to).Stringer("action", act).Msg("screen")
	a.screen = to
}

func (a *Arcade) play(act Action) {
	s := a.session
	switch act {
	case Left:
		if s.Move(-1, 0) {
			a.sound.Play(sound.Move)
		}
	case Right:
		if s.Move(1, 0) {
			a.sound.Play(sound.Move)
		}
	case Rotate:
		if s.Rotate() {
			a.sound.Play(sound.Rotate)
		}
	case SoftDrop:
		if s.Move(0, 1) {
			a.sound.Play(sound.Move)
		}
	case HardDrop:
		s.HardDrop()
		a.landed()
	}
}

// landed runs after the live piece locks. A lock whose spawn collides ends the game at once.
func (a *Arcade) landed() {
	a.sound.Play(sound.Drop)
	if a.session.State() == game.Over {
		a.gameOver()
		return
	}
	a.announce(fmt.Sprintf("Score: %d", a.session.Score()), "Pilot: "+a.pilot())
}

// Update advances gravity and notices game over. Call it once per frame.
func (a *Arcade) Update(now time.Time) {
	if a.screen != Playing {
		return
	}
	if a.session.State() == game.Over {
		a.gameOver()
		return
	}
	if !a.gravity.Due(now, a.fast) {
		return
	}
	if !a.session.Move(0, 1) {
		a.session.Lock()
		a.landed()
	}
}

func (a *Arcade) gameOver() {
	score := a.session.Score()
	log.Info().Int("score", score).Int("lines", a.session.Lines()).Msg("game over")
	a.screen = GameOver
	a.sound.Play(sound.GameOver)
	a.announce("GAME OVER", fmt.Sprintf("Final Score: %d", score))

	name := a.Player()
	if a.lb == nil {
		return
	}
	a.spawn(func() {
		if name != "" {
			if err := a.lb.Submit(a.ctx, name, score); err != nil {
				log.Warn().Err(err).Str("user", name).Msg("submit score")
			}
		}
		a.fetchTop()
	})
}

func (a *Arcade) register(name string) {
	a.setStatus("CONNECTING...")
	a.spawn(func() {
		ok, status := a.registerNow(name)
		a.setStatus(status)
		if !ok {
			log.Warn().Str("user", name).Str("status", status).Msg("register")
			return
		}
		if a.creds != nil {
			if err := a.creds.SaveUsername(name); err != nil {
				log.Warn().Err(err).Msg("save username")
			}
		}
		a.mu.Lock()
		a.player = name
		a.mu.Unlock()
		log.Info().Str("user", name).Str("status", status).Msg("register")
	})
}

// registerNow asks the service about name. An unreachable service still accepts the name for
// offline play.
func (a *Arcade) registerNow(name string) (ok bool, status string) {
	if a.lb == nil {
		return true, "OFFLINE MODE"
	}
	reg, err := a.lb.Register(a.ctx, name)
	var se *leaderboard.StatusError
	switch {
	case err == nil:
		return true, reg.String()
	case errors.Is(err, leaderboard.ErrEmptyName):
		return false, "EMPTY NAME"
	case errors.Is(err, leaderboard.ErrInvalidName):
		return false, "INVALID NAME"
	case errors.Is(err, leaderboard.ErrUnreachable):
		return true, "OFFLINE MODE"
	case errors.As(err, &se):
		return false, fmt.Sprintf("ERROR %d", se.StatusCode)
	default:
		return false, "CONNECTION ERROR"
	}
}

// forget signs the pilot out and drops the saved name.
func (a *Arcade) forget() {
	if a.creds != nil {
		if err := a.creds.Forget(); err != nil {
			log.Warn().Err(err).Msg("forget username")
		}
	}
	a.mu.Lock()
	a.player = ""
	a.status = ""
	a.mu.Unlock()
	a.input = DefaultName
	log.Info().Msg("pilot forgotten")
}

func (a *Arcade) refreshTop() {
	if a.lb == nil {
		return
	}
	a.spawn(a.fetchTop)
}

func (a *Arcade) fetchTop() {
	top, err := a.lb.Top(a.ctx)
	if err != nil || len(top) == 0 {
		if err != nil {
			log.Warn().Err(err).Msg("fetch leaderboard")
		}
		top = leaderboard.Placeholder()
	}
	a.mu.Lock()
	a.top = top
	a.mu.Unlock()
}

// announce queues a presence update. Updates reach the presence collaborator one at a time, in
// the order they were announced.
func (a *Arcade) announce(state, details string) {
	if a.presence == nil {
		return
	}
	a.mu.Lock()
	a.outbox = append(a.outbox, activity{state, details})
	if a.draining {
		a.mu.Unlock()
		return
	}
	a.draining = true
	a.mu.Unlock()
	a.spawn(a.drainPresence)
}

func (a *Arcade) drainPresence() {
	for {
		a.mu.Lock()
		if len(a.outbox) == 0 {
			a.draining = false
			a.mu.Unlock()
			return
		}
		next := a.outbox[0]
		a.outbox = a.outbox[1:]
		a.mu.Unlock()
		a.presence.Update(next.state, next.details)
	}
}

func (a *Arcade) setStatus(s string) {
	a.mu.Lock()
	a.status = s
	a.mu.Unlock()
}

func (a *Arcade) pilot() string {
	if name := a.Player(); name != "" {
		return name
	}
	return "Guest"
}

// Screen is the current UI state.
func (a *Arcade) Screen() Screen { return a.screen }

// Input is the login prompt's current text.
func (a *Arcade) Input() string { return a.input }

// Snapshot is the session state for rendering.
func (a *Arcade) Snapshot() game.Snapshot { return a.session.Snapshot() }

// Player is the registered name, or empty for a guest.
func (a *Arcade) Player() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.player
}

// Status is the outcome of the last registration attempt, e.g. "WELCOME BACK" or "OFFLINE MODE".
func (a *Arcade) Status() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// Leaderboard returns the last fetched top scores, or a placeholder row.
func (a *Arcade) Leaderboard() []leaderboard.Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]leaderboard.Entry(nil), a.top...)
}
