package leaderboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrUnknownPlayer is returned when a score arrives for a name that never registered.
var ErrUnknownPlayer = errors.New("leaderboard: unknown player")

// Store persists players and their best scores.
type Store interface {
	// CreatePlayer adds name. created is false if the name already existed (case-insensitive).
	CreatePlayer(ctx context.Context, name string) (created bool, err error)
	// RecordScore keeps the higher of score and the player's current best.
	RecordScore(ctx context.Context, name string, score int) error
	// Top returns up to limit players ordered by best score, earliest achiever first on ties.
	Top(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}

// SQLiteStore implements Store on SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path and migrates it.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer keeps SQLite from returning SQLITE_BUSY under concurrent submits
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the schema. It is idempotent.
func (s *SQLiteStore) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS players (
			username TEXT PRIMARY KEY COLLATE NOCASE,
			high_score INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_players_score ON players(high_score DESC, updated_at ASC)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreatePlayer(ctx context.Context, name string) (bool, error) {
	now := s.now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO players (username, high_score, created_at, updated_at) VALUES (?, 0, ?, ?)`,
		name, now, now,
	)
	if err != nil {
		return false, fmt.Errorf("insert player: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *SQLiteStore) RecordScore(ctx context.Context, name string, score int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var best int
	err = tx.QueryRowContext(ctx, `SELECT high_score FROM players WHERE username = ?`, name).Scan(&best)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUnknownPlayer
	}
	if err != nil {
		return fmt.Errorf("query player: %w", err)
	}
	if score > best {
		if _, err := tx.ExecContext(ctx,
			`UPDATE players SET high_score = ?, updated_at = ? WHERE username = ?`,
			score, s.now().UTC(), name,
		); err != nil {
			return fmt.Errorf("update score: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, high_score
		FROM players
		ORDER BY high_score DESC, updated_at ASC
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Score); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
