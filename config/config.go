// Package config reads settings for the game and the leaderboard server from the environment.
// A .env file in the working directory is loaded first if present; real environment variables
// win over it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const (
	DefaultAPIURL        = "https://tetris-py-api-5unr.vercel.app"
	DefaultDownloadURL   = "https://github.com/deitrix/neon-tetris/releases"
	DefaultDiscordAppID  = "1456684566101102592"
	DefaultKeyringName   = "neon-tetris"
	DefaultGravityNormal = 500 * time.Millisecond
	DefaultGravityFast   = 50 * time.Millisecond
	credentialFileName   = "user_credential.json"
)

// Game configures the desktop and terminal frontends.
type Game struct {
	// APIURL is the leaderboard base URL, without a trailing slash
	APIURL string
	// DiscordAppID enables presence; empty disables it
	DiscordAppID string
	// DownloadURL is linked from the presence button
	DownloadURL string
	// CredentialFile is the fallback username file used when no keyring is available
	CredentialFile string
	// KeyringService names the keyring entry
	KeyringService string
	LogLevel       zerolog.Level
	// LogFile receives logs when set; the terminal frontend discards them otherwise
	LogFile string
	// GravityNormal and GravityFast are the fall intervals without and with soft drop held
	GravityNormal time.Duration
	GravityFast   time.Duration
	Sound         bool
	// Seed makes piece order reproducible when HasSeed is true
	Seed    uint64
	HasSeed bool
}

// Server configures cmd/leaderboardd.
type Server struct {
	Addr     string
	DBPath   string
	LogLevel zerolog.Level
	// Limit is the number of rows served by GET /leaderboard
	Limit int
}

// LoadGame reads the game configuration.
func LoadGame() (Game, error) {
	_ = godotenv.Load()

	cfg := Game{
		APIURL:         strings.TrimRight(getEnv("API_URL", DefaultAPIURL), "/"),
		DiscordAppID:   getEnv("DISCORD_APP_ID", DefaultDiscordAppID),
		DownloadURL:    getEnv("DOWNLOAD_URL", DefaultDownloadURL),
		CredentialFile: getEnv("CREDENTIAL_FILE", defaultCredentialFile()),
		KeyringService: getEnv("KEYRING_SERVICE", DefaultKeyringName),
		LogFile:        os.Getenv("LOG_FILE"),
	}
	if os.Getenv("DISCORD_APP_ID") == "-" {
		cfg.DiscordAppID = ""
	}

	var err error
	if cfg.LogLevel, err = logLevel(); err != nil {
		return Game{}, err
	}
	if cfg.GravityNormal, err = getDuration("GRAVITY_NORMAL", DefaultGravityNormal); err != nil {
		return Game{}, err
	}
	if cfg.GravityFast, err = getDuration("GRAVITY_FAST", DefaultGravityFast); err != nil {
		return Game{}, err
	}
	if cfg.Sound, err = getBool("SOUND", true); err != nil {
		return Game{}, err
	}
	if v := os.Getenv("SEED"); v != "" {
		if cfg.Seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			return Game{}, fmt.Errorf("config: SEED: %w", err)
		}
		cfg.HasSeed = true
	}
	return cfg, nil
}

// LoadServer reads the leaderboard server configuration.
func LoadServer() (Server, error) {
	_ = godotenv.Load()

	cfg := Server{
		Addr:   getEnv("LEADERBOARD_ADDR", ":8080"),
		DBPath: getEnv("LEADERBOARD_DB", "./data/leaderboard.db"),
	}
	var err error
	if cfg.LogLevel, err = logLevel(); err != nil {
		return Server{}, err
	}
	if cfg.Limit, err = getInt("LEADERBOARD_LIMIT", 10); err != nil {
		return Server{}, err
	}
	if cfg.Limit <= 0 {
		return Server{}, fmt.Errorf("config: LEADERBOARD_LIMIT must be positive, got %d", cfg.Limit)
	}
	return cfg, nil
}

// defaultCredentialFile sits next to the executable, so a packaged build keeps its login
// wherever it is launched from.
func defaultCredentialFile() string {
	exe, err := os.Executable()
	if err != nil {
		return credentialFileName
	}
	return filepath.Join(filepath.Dir(exe), credentialFileName)
}

func logLevel() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("config: LOG_LEVEL: %w", err)
	}
	return lvl, nil
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", k, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: %s must be positive, got %s", k, d)
	}
	return d, nil
}

func getBool(k string, def bool) (bool, error) {
	switch strings.ToLower(os.Getenv(k)) {
	case "":
		return def, nil
	case "1", "true", "on", "yes":
		return true, nil
	case "0", "false", "off", "no":
		return false, nil
	default:
		return false, fmt.Errorf("config: %s: unrecognised value %q", k, os.Getenv(k))
	}
}

func getInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", k, err)
	}
	return n, nil
}
