// Package leaderboard talks to the online high-score service and, in server.go and store.go,
// implements that service.
//
// The wire contract is three JSON endpoints:
//
//	POST /register    {"username": "..."}              200 new, 409 known, 400 invalid
//	POST /submit      {"username": "...", "score": n}
//	GET  /leaderboard [{"username": "...", "high_score": n}, ...]
package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Entry is one leaderboard row.
type Entry struct {
	Name  string `json:"username"`
	Score int    `json:"high_score"`
}

// Registration describes a successful register call.
type Registration int

const (
	// Registered means the name was new.
	Registered Registration = iota
	// Returning means the name already existed; the player is welcomed back.
	Returning
)

func (r Registration) String() string {
	if r == Returning {
		return "WELCOME BACK"
	}
	return "SUCCESS"
}

// Config holds client settings. Zero durations take the defaults.
type Config struct {
	// BaseURL is the service root, e.g. https://example.com
	BaseURL string
	// HTTPClient allows injecting a custom client (useful for testing)
	HTTPClient *http.Client

	RegisterTimeout time.Duration
	SubmitTimeout   time.Duration
	FetchTimeout    time.Duration
}

// Client is a leaderboard API client. It is safe for concurrent use.
type Client struct {
	config Config
	http   *http.Client
}

// NewClient creates a client with the given configuration.
func NewClient(cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.RegisterTimeout == 0 {
		cfg.RegisterTimeout = 5 * time.Second
	}
	if cfg.SubmitTimeout == 0 {
		cfg.SubmitTimeout = 2 * time.Second
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = 3 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{config: cfg, http: httpClient}
}

type registerReq struct {
	Username string `json:"username"`
}

type submitReq struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// Register creates the player or recognises an existing one. A transport failure is reported as
// ErrUnreachable so callers can fall back to offline play.
func (c *Client) Register(ctx context.Context, username string) (Registration, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, ErrEmptyName
	}
	ctx, cancel := context.WithTimeout(ctx, c.config.RegisterTimeout)
	defer cancel()

	resp, err := c.post(ctx, "/register", registerReq{Username: username})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return Registered, nil
	case http.StatusConflict:
		return Returning, nil
	case http.StatusBadRequest:
		return 0, ErrInvalidName
	default:
		return 0, newStatusError(resp)
	}
}

// Submit reports a final score.
func (c *Client) Submit(ctx context.Context, username string, score int) error {
	if strings.TrimSpace(username) == "" {
		return ErrEmptyName
	}
	ctx, cancel := context.WithTimeout(ctx, c.config.SubmitTimeout)
	defer cancel()

	resp, err := c.post(ctx, "/submit", submitReq{Username: username, Score: score})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return newStatusError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Top fetches the leaderboard in the server's order.
func (c *Client) Top(ctx context.Context) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/leaderboard", nil)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newStatusError(resp)
	}
	var out []Entry
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("leaderboard: decode: %w", err)
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, body any) (*http.Response, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("leaderboard: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	return resp, nil
}

var (
	// ErrEmptyName is returned before any request for a blank username.
	ErrEmptyName = errors.New("leaderboard: empty name")
	// ErrInvalidName is the server rejecting a username.
	ErrInvalidName = errors.New("leaderboard: invalid name")
	// ErrUnreachable wraps transport failures: refused connections, DNS errors, timeouts.
	ErrUnreachable = errors.New("leaderboard: server unreachable")
)

// StatusError is an unexpected HTTP status from the service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("leaderboard: HTTP %d: %s", e.StatusCode, e.Body)
}

func newStatusError(resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}

// Placeholder is shown while the leaderboard cannot be fetched.
func Placeholder() []Entry {
	return []Entry{{Name: "Loading...", Score: 0}}
}
