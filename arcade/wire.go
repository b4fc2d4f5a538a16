package arcade

import (
	"math/rand/v2"

	"github.com/deitrix/neon-tetris/config"
	"github.com/deitrix/neon-tetris/credential"
	"github.com/deitrix/neon-tetris/leaderboard"
	"github.com/deitrix/neon-tetris/presence"
	"github.com/deitrix/neon-tetris/sound"
	"github.com/rs/zerolog/log"
)

// FromConfig wires an Arcade to the real collaborators. The returned func releases them.
func FromConfig(cfg config.Game) (*Arcade, func()) {
	broadcaster := presence.Connect(cfg.DiscordAppID, cfg.DownloadURL)
	player := sound.New(cfg.Sound)

	c := Config{
		Leaderboard: leaderboard.NewClient(leaderboard.Config{BaseURL: cfg.APIURL}),
		Presence:    broadcaster,
		Sound:       player,
		Credentials: credential.NewStore(cfg.KeyringService, cfg.CredentialFile),
		Gravity:     cfg.GravityNormal,
		FastGravity: cfg.GravityFast,
	}
	if cfg.HasSeed {
		c.Rand = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	}
	a := New(c)
	_, beep := player.(*sound.Beep)
	log.Info().
		Bool("presence", broadcaster.Enabled()).
		Bool("sound", beep).
		Str("api", cfg.APIURL).
		Msg("arcade ready")

	return a, func() {
		a.Close()
		_ = broadcaster.Close()
		if b, ok := player.(*sound.Beep); ok {
			b.Close()
		}
	}
}
