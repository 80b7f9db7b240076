package op2util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logicossoftware/go-op2util/resource"
)

// resourceDir holds a loose file and one archive that shadows nothing.
func resourceDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	staging := t.TempDir()
	writeFile(t, dir, "loose.txt", "loose")
	inner := writeFile(t, staging, "inner.map", "packed map bytes")
	dup := writeFile(t, staging, "loose.txt", "shadowed")
	require.NoError(t, New().WriteVol(filepath.Join(dir, "maps.vol"), []string{inner, dup}))
	return dir
}

func TestResourcesThroughBridge(t *testing.T) {
	dir := resourceDir(t)
	b := New()
	h, err := b.OpenResources(dir)
	require.NoError(t, err)
	defer b.ReleaseResources(h)

	archives, err := b.ArchiveFilenames(h)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "maps.vol")}, archives)

	path, err := b.FindContainingArchivePath(h, "INNER.MAP")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "maps.vol"), path)
	path, err = b.FindContainingArchivePath(h, "nothing.map")
	require.NoError(t, err)
	assert.Empty(t, path)

	names, err := b.Filenames(h, `\.txt$`, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"loose.txt"}, names)
	names, err = b.FilenamesOfType(h, "map", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"inner.map"}, names)
	names, err = b.FilenamesOfType(h, ".map", false)
	require.NoError(t, err)
	assert.Empty(t, names)
	_, err = b.Filenames(h, "(", false)
	require.ErrorIs(t, err, resource.ErrPattern)
}

func TestResourceTwoCallRead(t *testing.T) {
	dir := resourceDir(t)
	b := New()
	h, err := b.OpenResources(dir)
	require.NoError(t, err)
	defer b.ReleaseResources(h)

	read := func(name string, accessArchives bool) string {
		t.Helper()
		n, err := b.ResourceSize(h, name, accessArchives)
		require.NoError(t, err)
		buf := make([]byte, n)
		require.NoError(t, b.ReadResource(h, name, accessArchives, buf))
		return string(buf)
	}
	assert.Equal(t, "loose", read("loose.txt", true))
	assert.Equal(t, "packed map bytes", read("inner.map", true))

	_, err = b.ResourceSize(h, "inner.map", false)
	require.ErrorIs(t, err, resource.ErrNotFound)
	_, err = b.ResourceSize(h, "missing", true)
	require.ErrorIs(t, err, resource.ErrNotFound)
	require.ErrorIs(t, b.ReadResource(h, "loose.txt", false, make([]byte, 3)), ErrBufferSize)
	_, err = b.ResourceSize(h, "../loose.txt", false)
	require.ErrorIs(t, err, resource.ErrRootedPath)
}

func TestOpenResourcesRequiresDirectory(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "plain", "x")
	b := New()
	h, err := b.OpenResources(file)
	require.ErrorIs(t, err, resource.ErrNotDirectory)
	assert.Equal(t, Null, h)
	_, err = b.OpenResources(filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
