package retention

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAged(t *testing.T, dir, name string, age time.Duration, now time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	stamp := now.Add(-age)
	require.NoError(t, os.Chtimes(path, stamp, stamp))
	return path
}

func TestSweepRemovesExpiredEntries(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	old := writeAged(t, dir, "final_video_aaa.mp4", 48*time.Hour, now)
	fresh := writeAged(t, dir, "final_video_bbb.mp4", time.Hour, now)
	other := writeAged(t, dir, "unrelated.mp4", 48*time.Hour, now)

	removed, err := Sweep(dir, "final_video_", 24*time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, statErr := os.Stat(old)
	assert.True(t, os.IsNotExist(statErr), "expired file should be removed")
	_, statErr = os.Stat(fresh)
	assert.NoError(t, statErr, "fresh file should survive")
	_, statErr = os.Stat(other)
	assert.NoError(t, statErr, "non-matching prefix should survive")
}

func TestSweepRemovesExpiredDirectories(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	stale := filepath.Join(dir, "concreate-run1")
	require.NoError(t, os.MkdirAll(filepath.Join(stale, "segment_000"), 0o755))
	stamp := now.Add(-12 * time.Hour)
	require.NoError(t, os.Chtimes(stale, stamp, stamp))

	removed, err := Sweep(dir, "concreate-", 6*time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, statErr := os.Stat(stale)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSweepMissingDir(t *testing.T) {
	removed, err := Sweep(filepath.Join(t.TempDir(), "does-not-exist"), "final_video_", time.Hour, time.Now())
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestSweepNothingExpired(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeAged(t, dir, "final_video_aaa.mp4", time.Minute, now)

	removed, err := Sweep(dir, "final_video_", 24*time.Hour, now)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
