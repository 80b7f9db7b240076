package op2util

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logicossoftware/go-op2util/archive"
)

func TestArchiveScenario(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "alpha")
	bPath := writeFile(t, dir, "b.txt", "bravo!")
	vol := filepath.Join(dir, "out.vol")

	br := New()
	require.NoError(t, br.WriteVol(vol, []string{a, bPath}))

	h, err := br.OpenVol(vol)
	require.NoError(t, err)
	defer br.ReleaseArchive(h)

	n, err := br.ArchiveCount(h)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	name, err := br.ArchiveName(h, 0)
	require.NoError(t, err)
	assert.Equal(t, "a.txt", name)
	name, err = br.ArchiveName(h, 1)
	require.NoError(t, err)
	assert.Equal(t, "b.txt", name)

	ok, err := br.ArchiveContains(h, "a.txt")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = br.ArchiveContains(h, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	i, err := br.ArchiveIndex(h, "B.TXT")
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	_, err = br.ArchiveIndex(h, "missing")
	require.ErrorIs(t, err, archive.ErrNotFound)

	fn, err := br.ArchiveFilename(h)
	require.NoError(t, err)
	assert.Equal(t, vol, fn)
	st, err := os.Stat(vol)
	require.NoError(t, err)
	size, err := br.ArchiveSize(h)
	require.NoError(t, err)
	assert.Equal(t, st.Size(), size)

	code, err := br.CompressionCode(h, 0)
	require.NoError(t, err)
	assert.Equal(t, archive.CompressionNone, code)
}

func TestArchiveTwoCallRead(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "b.txt", "bravo!")
	vol := filepath.Join(dir, "out.vol")
	br := New()
	require.NoError(t, br.WriteVol(vol, []string{src}))
	h, err := br.OpenVol(vol)
	require.NoError(t, err)
	defer br.ReleaseArchive(h)

	n, err := br.ArchiveEntrySize(h, 0)
	require.NoError(t, err)
	require.EqualValues(t, 6, n)

	buf := make([]byte, n)
	require.NoError(t, br.ReadArchiveEntry(h, 0, buf))
	assert.Equal(t, "bravo!", string(buf))

	short := bytes.Repeat([]byte{0xEE}, int(n-1))
	require.ErrorIs(t, br.ReadArchiveEntry(h, 0, short), ErrBufferSize)
	assert.Equal(t, bytes.Repeat([]byte{0xEE}, int(n-1)), short, "buffer must be untouched")
	require.ErrorIs(t, br.ReadArchiveEntry(h, 0, make([]byte, n+1)), ErrBufferSize)

	_, err = br.ArchiveEntrySize(h, 1)
	require.ErrorIs(t, err, archive.ErrIndexOutOfRange)
	require.ErrorIs(t, br.ReadArchiveEntry(h, 1, buf), archive.ErrIndexOutOfRange)
}

func TestArchiveExtraction(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "alpha")
	b := writeFile(t, dir, "b.txt", "bravo")
	vol := filepath.Join(dir, "out.vol")
	br := New()
	require.NoError(t, br.WriteVol(vol, []string{a, b}))
	h, err := br.OpenVol(vol)
	require.NoError(t, err)
	defer br.ReleaseArchive(h)

	out := t.TempDir()
	require.NoError(t, br.ExtractArchiveEntry(h, 1, filepath.Join(out, "one")))
	require.NoError(t, br.ExtractArchiveEntryByName(h, "A.txt", filepath.Join(out, "two")))
	all := filepath.Join(out, "all")
	require.NoError(t, os.Mkdir(all, 0o755))
	require.NoError(t, br.ExtractArchive(h, all))

	for path, want := range map[string]string{
		"one":       "bravo",
		"two":       "alpha",
		"all/a.txt": "alpha",
		"all/b.txt": "bravo",
	} {
		got, err := os.ReadFile(filepath.Join(out, path))
		require.NoError(t, err)
		assert.Equal(t, want, string(got), path)
	}
	require.ErrorIs(t, br.ExtractArchiveEntryByName(h, "nope", filepath.Join(out, "x")), archive.ErrNotFound)
}

func TestWriteVolRejectsDuplicates(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "1")
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	a2 := writeFile(t, sub, "A.TXT", "2")
	vol := filepath.Join(dir, "dup.vol")

	br := New()
	require.ErrorIs(t, br.WriteVol(vol, []string{a, a2}), archive.ErrDuplicateName)
	_, err := os.Stat(vol)
	assert.True(t, os.IsNotExist(err))
}

// waveFile returns a minimal 16-bit mono PCM wave file.
func waveFile(pcm []byte) []byte {
	var b bytes.Buffer
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(4+8+16+8+len(pcm)))
	b.WriteString("WAVEfmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, []uint16{1, 1})
	binary.Write(&b, binary.LittleEndian, []uint32{22050, 44100})
	binary.Write(&b, binary.LittleEndian, []uint16{2, 16})
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(len(pcm)))
	b.Write(pcm)
	return b.Bytes()
}

func TestClmThroughBridge(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "zap.wav")
	require.NoError(t, os.WriteFile(src, waveFile([]byte{1, 2, 3, 4}), 0o644))
	clm := filepath.Join(dir, "sound.clm")

	br := New()
	require.NoError(t, br.WriteClm(clm, []string{src}))
	h, err := br.OpenClm(clm)
	require.NoError(t, err)
	defer br.ReleaseArchive(h)

	name, err := br.ArchiveName(h, 0)
	require.NoError(t, err)
	assert.Equal(t, "zap", name)

	n, err := br.ArchiveEntrySize(h, 0)
	require.NoError(t, err)
	buf := make([]byte, n)
	require.NoError(t, br.ReadArchiveEntry(h, 0, buf))
	assert.Equal(t, []byte{1, 2, 3, 4}, buf)

	_, err = br.CompressionCode(h, 0)
	require.ErrorIs(t, err, ErrNotVolume)

	_, err = br.OpenVol(clm)
	require.ErrorIs(t, err, archive.ErrInvalidArchive)
}

func TestReleaseArchiveTwice(t *testing.T) {
	dir := t.TempDir()
	vol := filepath.Join(dir, "empty.vol")
	br := New()
	require.NoError(t, br.WriteVol(vol, nil))
	h, err := br.OpenVol(vol)
	require.NoError(t, err)
	require.NoError(t, br.ReleaseArchive(h))
	require.ErrorIs(t, br.ReleaseArchive(h), ErrInvalidHandle)
	assert.Equal(t, 0, br.OpenHandles())
}
