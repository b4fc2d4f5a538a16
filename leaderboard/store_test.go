package leaderboard

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "leaderboard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func TestSQLiteStore_CreatePlayer(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	created, err := s.CreatePlayer(ctx, "NEON")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.CreatePlayer(ctx, "neon")
	require.NoError(t, err)
	assert.False(t, created, "names are case-insensitive")
}

func TestSQLiteStore_RecordScoreKeepsBest(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.CreatePlayer(ctx, "ACE")
	require.NoError(t, err)
	require.NoError(t, s.RecordScore(ctx, "ACE", 500))
	require.NoError(t, s.RecordScore(ctx, "ace", 300))

	top, err := s.Top(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Name: "ACE", Score: 500}}, top)

	assert.ErrorIs(t, s.RecordScore(ctx, "GHOST", 100), ErrUnknownPlayer)
}

func TestSQLiteStore_TopOrder(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C", "D"} {
		_, err := s.CreatePlayer(ctx, name)
		require.NoError(t, err)
	}
	require.NoError(t, s.RecordScore(ctx, "B", 200))
	require.NoError(t, s.RecordScore(ctx, "C", 400))
	require.NoError(t, s.RecordScore(ctx, "A", 200))

	top, err := s.Top(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Name: "C", Score: 400},
		{Name: "B", Score: 200},
		{Name: "A", Score: 200},
	}, top)
}

func TestSQLiteStore_MigrateTwice(t *testing.T) {
	s := testStore(t)
	assert.NoError(t, s.Migrate())
}
