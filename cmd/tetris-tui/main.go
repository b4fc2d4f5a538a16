// Command tetris-tui plays the arcade in a terminal.
//
// Terminals report key presses but not releases, so holding DOWN repeats single-row soft drops
// instead of switching to the fast gravity.
package main

import (
	"io"
	"os"
	"time"

	"github.com/deitrix/neon-tetris/arcade"
	"github.com/deitrix/neon-tetris/config"
	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// input is one decoded key event.
type input struct {
	action arcade.Action
	r      rune
	typed  bool
	quit   bool
}

// translate decodes a key for the given screen. ok is false for keys with no meaning there.
func translate(screen arcade.Screen, ev *tcell.EventKey) (in input, ok bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return input{quit: true}, true
	case tcell.KeyEnter:
		return input{action: arcade.Confirm}, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return input{action: arcade.Backspace}, true
	case tcell.KeyDelete:
		return input{action: arcade.Forget}, true
	case tcell.KeyLeft:
		return input{action: arcade.Left}, true
	case tcell.KeyRight:
		return input{action: arcade.Right}, true
	case tcell.KeyUp:
		return input{action: arcade.Rotate}, true
	case tcell.KeyDown:
		return input{action: arcade.SoftDrop}, true
	case tcell.KeyRune:
	default:
		return input{}, false
	}

	r := ev.Rune()
	if screen == arcade.Login {
		return input{r: r, typed: true}, true
	}
	switch r {
	case ' ':
		return input{action: arcade.HardDrop}, true
	case 'p', 'P':
		return input{action: arcade.Pause}, true
	case 'r', 'R':
		return input{action: arcade.Restart}, true
	case 'q', 'Q':
		return input{action: arcade.Quit}, true
	}
	return input{}, false
}

// apply feeds a decoded key to the arcade and reports whether the program should keep running.
func apply(a *arcade.Arcade, in input) bool {
	switch {
	case in.quit:
		return false
	case in.typed:
		a.Type(in.r)
	default:
		a.Handle(in.action)
	}
	return true
}

func run(s tcell.Screen, a *arcade.Arcade) {
	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := s.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if in, ok := translate(a.Screen(), ev); ok && !apply(a, in) {
					return
				}
			case *tcell.EventResize:
				s.Sync()
			}
		case now := <-ticker.C:
			a.Update(now)
			draw(s, a)
		}
	}
}

// setupLogging points the global logger at LOG_FILE, or discards logs when none is set. The
// returned func closes the file.
func setupLogging(cfg config.Game) (func(), error) {
	zerolog.SetGlobalLevel(cfg.LogLevel)
	if cfg.LogFile == "" {
		log.Logger = zerolog.New(io.Discard)
		return func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return func() { _ = f.Close() }, nil
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.LoadGame()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	closeLog, err := setupLogging(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.LogFile).Msg("failed to open log file")
	}
	defer closeLog()

	s, err := tcell.NewScreen()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create screen")
	}
	if err := s.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to init screen")
	}
	defer s.Fini()

	a, release := arcade.FromConfig(cfg)
	defer release()

	log.Info().Msg("terminal session started")
	run(s, a)
}
