package resource

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logicossoftware/go-op2util/archive"
)

// fixture lays out:
//
//	loose.txt, shared.map (loose copy), Directory.vol/ (a directory)
//	b.vol: shared.map, only_b.map, readme.txt
//	a.VOL: only_a.map, SHARED.MAP
func fixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	src := t.TempDir()
	write := func(base, name, content string) string {
		p := filepath.Join(base, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}
	write(dir, "loose.txt", "loose")
	write(dir, "shared.map", "loose shared")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Directory.vol"), 0o755))

	bSrc := t.TempDir()
	require.NoError(t, archive.WriteVol(filepath.Join(dir, "b.vol"), []string{
		write(bSrc, "shared.map", "b shared"),
		write(bSrc, "only_b.map", "only in b"),
		write(bSrc, "readme.txt", "b readme"),
	}))
	require.NoError(t, archive.WriteVol(filepath.Join(dir, "a.VOL"), []string{
		write(src, "only_a.map", "only in a"),
		write(src, "SHARED.MAP", "a shared"),
	}))
	return dir
}

func TestNewRequiresDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "Empty.txt")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := New(file)
	require.ErrorIs(t, err, ErrNotDirectory)

	_, err = New(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestNewFailsOnCorruptArchive(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.vol"), []byte("junk junk junk"), 0o644))
	_, err := New(dir)
	require.ErrorIs(t, err, archive.ErrInvalidArchive)
}

func TestArchiveRegistrationOrder(t *testing.T) {
	dir := fixture(t)
	m, err := New(dir)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, []string{filepath.Join(dir, "a.VOL"), filepath.Join(dir, "b.vol")}, m.ArchiveFilenames())
	assert.Equal(t, filepath.Join(dir, "a.VOL"), m.FindContainingArchivePath("shared.map"))
	assert.Equal(t, filepath.Join(dir, "b.vol"), m.FindContainingArchivePath("ONLY_B.MAP"))
	assert.Equal(t, "", m.FindContainingArchivePath("loose.txt"))
}

func TestResolution(t *testing.T) {
	m, err := New(fixture(t))
	require.NoError(t, err)
	defer m.Close()

	b, err := m.ReadFile("shared.map", true)
	require.NoError(t, err)
	assert.Equal(t, "loose shared", string(b), "loose file wins over archives")

	b, err = m.ReadFile("only_b.map", true)
	require.NoError(t, err)
	assert.Equal(t, "only in b", string(b))

	b, err = m.ReadFile("Shared.Map", true)
	require.NoError(t, err)
	assert.Equal(t, "a shared", string(b), "first registered archive wins")

	_, err = m.ReadFile("only_b.map", false)
	require.ErrorIs(t, err, ErrNotFound)

	size, err := m.Size("only_a.map", true)
	require.NoError(t, err)
	assert.EqualValues(t, len("only in a"), size)

	_, err = m.Size("missing.map", true)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOpenRejectsNonLocalNames(t *testing.T) {
	m, err := New(fixture(t))
	require.NoError(t, err)
	defer m.Close()

	for _, name := range []string{"/etc/passwd", "../loose.txt", ""} {
		_, err := m.Open(name, true)
		require.ErrorIs(t, err, ErrRootedPath, name)
	}
}

func TestOpenStream(t *testing.T) {
	m, err := New(fixture(t))
	require.NoError(t, err)
	defer m.Close()

	r, err := m.Open("readme.txt", true)
	require.NoError(t, err)
	defer r.Close()
	_, err = r.Seek(2, io.SeekStart)
	require.NoError(t, err)
	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "readme", string(rest))

	_, err = m.Open("Directory.vol", true)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFilenames(t *testing.T) {
	m, err := New(fixture(t))
	require.NoError(t, err)
	defer m.Close()

	got, err := m.Filenames(`\.map$`, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"shared.map", "only_a.map", "only_b.map"}, got)

	got, err = m.Filenames(`\.MAP$`, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"shared.map"}, got)

	got, err = m.Filenames("Directory.vol", true)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = m.Filenames("(", true)
	require.ErrorIs(t, err, ErrPattern)
}

func TestFilenamesOfType(t *testing.T) {
	m, err := New(fixture(t))
	require.NoError(t, err)
	defer m.Close()

	withDot, err := m.FilenamesOfType(".txt", true)
	require.NoError(t, err)
	noDot, err := m.FilenamesOfType("TXT", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"loose.txt", "readme.txt"}, withDot)
	assert.Equal(t, withDot, noDot)

	vols, err := m.FilenamesOfType("vol", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.VOL", "b.vol"}, vols)
}

func TestCloseReleasesArchives(t *testing.T) {
	m, err := New(fixture(t))
	require.NoError(t, err)
	require.NoError(t, m.Close())
	assert.Empty(t, m.ArchiveFilenames())
	assert.Equal(t, "", m.FindContainingArchivePath("only_a.map"))
}
