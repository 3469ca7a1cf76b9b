package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backups(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "flurx.log.") {
			names = append(names, e.Name())
		}
	}
	return names
}

func TestLogRotator_AppendsAndRotates(t *testing.T) {
	dir := t.TempDir()
	r, err := NewLogRotator(RotatorConfig{Dir: dir, MaxSizeMB: 1, MaxBackups: 5})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	assert.Equal(t, filepath.Join(dir, "flurx.log"), r.Path())

	chunk := []byte(strings.Repeat("x", 600*1024))
	_, err = r.Write(chunk)
	require.NoError(t, err)
	assert.Empty(t, backups(t, dir))

	_, err = r.Write(chunk)
	require.NoError(t, err)
	assert.Len(t, backups(t, dir), 1)

	info, err := os.Stat(r.Path())
	require.NoError(t, err)
	assert.Equal(t, int64(len(chunk)), info.Size())
}

func TestLogRotator_KeepsMaxBackups(t *testing.T) {
	dir := t.TempDir()
	r, err := NewLogRotator(RotatorConfig{Dir: dir, MaxSizeMB: 1, MaxBackups: 2})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	chunk := []byte(strings.Repeat("y", 1024*1024))
	for range 5 {
		_, err := r.Write(chunk)
		require.NoError(t, err)
	}

	assert.Len(t, backups(t, dir), 2)
}

func TestLogRotator_ReopensExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "flurx.log"), []byte("old\n"), 0o600))

	r, err := NewLogRotator(RotatorConfig{Dir: dir, MaxSizeMB: 1})
	require.NoError(t, err)
	_, err = r.Write([]byte("new\n"))
	require.NoError(t, err)
	require.NoError(t, r.Close())

	data, err := os.ReadFile(filepath.Join(dir, "flurx.log"))
	require.NoError(t, err)
	assert.Equal(t, "old\nnew\n", string(data))
}

func TestLogRotator_RequiresDir(t *testing.T) {
	_, err := NewLogRotator(RotatorConfig{})
	assert.Error(t, err)
}
