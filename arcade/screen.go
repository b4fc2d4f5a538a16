package arcade

// Screen is the driver's UI state. The engine's own Active/Over state lives in game.Session.
type Screen int

const (
	Login Screen = iota
	Controls
	Playing
	Paused
	GameOver
)

func (s Screen) String() string {
	switch s {
	case Login:
		return "LOGIN"
	case Controls:
		return "CONTROLS"
	case Playing:
		return "PLAYING"
	case Paused:
		return "PAUSED"
	case GameOver:
		return "GAMEOVER"
	}
	return "UNKNOWN"
}

// Action is a player intent, already decoded from whatever keys the frontend uses.
type Action int

const (
	Left Action = iota
	Right
	Rotate
	SoftDrop
	HardDrop
	Pause
	Restart
	Quit
	Confirm
	Backspace
	// Forget drops the remembered pilot on the login screen.
	Forget
)

var actionNames = [...]string{
	"left", "right", "rotate", "soft-drop", "hard-drop",
	"pause", "restart", "quit", "confirm", "backspace", "forget",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// transitions lists every screen change an Action can cause. Playing -> GameOver is absent
// because it is driven by the session, not by input.
var transitions = map[Screen]map[Action]Screen{
	Login:    {Confirm: Controls},
	Controls: {Confirm: Playing},
	Playing:  {Pause: Paused},
	Paused:   {Pause: Playing, Restart: Playing, Quit: Login},
	GameOver: {Restart: Playing, Quit: Login},
}

// Next returns the screen a applies to from s, and false if a does not change screens there.
func Next(s Screen, a Action) (Screen, bool) {
	to, ok := transitions[s][a]
	return to, ok
}
