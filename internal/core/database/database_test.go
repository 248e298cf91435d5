package database

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPingReturnsDatabaseTime(t *testing.T) {
	db, err := NewGorm(Opts{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "ping.db"), LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	got, err := Ping(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, got.Location())
	assert.WithinDuration(t, time.Now(), got, time.Minute)
}

func TestParseDBTime(t *testing.T) {
	want := time.Date(2026, 1, 17, 14, 0, 0, 500_000_000, time.UTC)
	for _, raw := range []string{
		"2026-01-17T14:00:00.500Z",
		"2026-01-17T16:00:00.5+02:00",
		"2026-01-17 14:00:00.500000",
	} {
		got, err := parseDBTime(raw)
		require.NoError(t, err, raw)
		assert.True(t, want.Equal(got), raw)
	}
	_, err := parseDBTime("yesterday")
	assert.Error(t, err)
}

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, IsDuplicateKey(nil))
	assert.True(t, IsDuplicateKey(fmt.Errorf("create user: %w", gorm.ErrDuplicatedKey)))
}
