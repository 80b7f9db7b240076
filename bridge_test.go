package op2util

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logicossoftware/go-op2util/gamemap"
)

func TestCreateThenReleaseMap(t *testing.T) {
	b := New()
	h := b.NewMap()
	require.NotEqual(t, Null, h)
	assert.Equal(t, 1, b.OpenHandles())
	require.NoError(t, b.ReleaseMap(h))
	assert.Equal(t, 0, b.OpenHandles())
}

func TestDoubleReleaseIsRejected(t *testing.T) {
	b := New()
	h := b.NewMap()
	require.NoError(t, b.ReleaseMap(h))
	err := b.ReleaseMap(h)
	require.ErrorIs(t, err, ErrInvalidHandle)

	_, err = b.TileCount(h)
	require.ErrorIs(t, err, ErrInvalidHandle)

	// A new map may reuse the slot but not the stale handle.
	h2 := b.NewMap()
	assert.NotEqual(t, h, h2)
	_, err = b.TileCount(h)
	require.ErrorIs(t, err, ErrInvalidHandle)
	_, err = b.TileCount(h2)
	require.NoError(t, err)
}

func TestHandleKindsAreNotInterchangeable(t *testing.T) {
	b := New()
	h := b.NewMap()
	_, err := b.ArchiveCount(h)
	require.ErrorIs(t, err, ErrInvalidHandle)
	_, err = b.ImageCount(h)
	require.ErrorIs(t, err, ErrInvalidHandle)
	require.ErrorIs(t, b.ReleaseResources(h), ErrInvalidHandle)
	_, err = b.TileCount(Null)
	require.ErrorIs(t, err, ErrInvalidHandle)

	// The map survives the failed calls.
	_, err = b.TileCount(h)
	require.NoError(t, err)
}

func TestPanicIsRecovered(t *testing.T) {
	b := New()
	h := b.NewMap()
	err := b.UpdateClipRect(h, func(*gamemap.Rect) { panic("boom") })
	require.ErrorIs(t, err, ErrInternal)
	assert.Contains(t, err.Error(), "boom")
}

func TestFailuresAreLoggedAtDebug(t *testing.T) {
	var buf bytes.Buffer
	b := New(WithLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	_, err := b.TileCount(Null)
	require.Error(t, err)
	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "op=TileCount")

	buf.Reset()
	b.SetLogger(nil)
	_, err = b.TileCount(Null)
	require.Error(t, err)
	assert.Empty(t, buf.String())
}

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	b := New(WithLogger(ConsoleLogger(&buf, slog.LevelDebug)))
	_, err := b.ReadMapFile(filepath.Join(t.TempDir(), "missing.map"))
	require.Error(t, err)
	out := buf.String()
	assert.Contains(t, out, "op2util")
	assert.Contains(t, out, "ReadMapFile")

	buf.Reset()
	b.SetLogger(ConsoleLogger(&buf, slog.LevelError))
	_, err = b.ReadMapFile(filepath.Join(t.TempDir(), "missing.map"))
	require.Error(t, err)
	assert.Empty(t, buf.String())
}

func TestLimitsDefaults(t *testing.T) {
	l := Limits{}.withDefaults()
	assert.Equal(t, DefaultLimits().MaxTransferSize, l.MaxTransferSize)
	l = Limits{MaxTransferSize: 7}.withDefaults()
	assert.EqualValues(t, 7, l.MaxTransferSize)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestTransferLimit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "big.txt", strings.Repeat("x", 100))
	b := New(WithLimits(Limits{MaxTransferSize: 10}))
	h, err := b.OpenResources(dir)
	require.NoError(t, err)
	defer b.ReleaseResources(h)
	_, err = b.ResourceSize(h, "big.txt", false)
	require.True(t, errors.Is(err, ErrLimitExceeded), "got %v", err)
}
