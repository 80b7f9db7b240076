package archive

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/logicossoftware/go-op2util/internal/binio"
)

var (
	clmVersion = [32]byte{'O', 'P', '2', ' ', 'C', 'l', 'u', 'm', 'p', ' ', 'F', 'i', 'l', 'e', ' ',
		'V', 'e', 'r', 's', 'i', 'o', 'n', ' ', '1', '.', '0', 0x1A}
	clmUnknown = [6]byte{0, 0, 0, 0, 1, 0}
)

const (
	clmHeaderSize     = len(clmVersion) + waveFormatSize + len(clmUnknown) + 4
	clmIndexEntrySize = 16
	clmMaxName        = 8
)

type clmEntry struct {
	offset uint32
	length int32
}

// ClmFile is an open CLM audio archive. Entry names carry no extension.
// It is not safe for concurrent use.
type ClmFile struct {
	*base
	format  WaveFormat
	entries []clmEntry
}

// OpenClm opens and indexes the CLM archive at path.
func OpenClm(path string, opts ...Option) (*ClmFile, error) {
	b, err := openBase(path, opts)
	if err != nil {
		return nil, err
	}
	c := &ClmFile{base: b}
	if err := c.readHeader(); err != nil {
		b.f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (c *ClmFile) readHeader() error {
	r := binio.NewReader(bufio.NewReader(io.NewSectionReader(c.f, 0, c.size)))
	var version [len(clmVersion)]byte
	var unknown [len(clmUnknown)]byte
	r.Full(version[:])
	c.format.decode(r)
	r.Full(unknown[:])
	count := r.U32()
	if err := r.Err(); err != nil {
		return fmt.Errorf("%w: header: %w", ErrInvalidArchive, err)
	}
	if version != clmVersion {
		return fmt.Errorf("%w: unrecognized clump file version", ErrInvalidArchive)
	}
	if unknown != clmUnknown {
		return fmt.Errorf("%w: unexpected header bytes % X", ErrInvalidArchive, unknown)
	}
	if count > c.limits.MaxEntries {
		return fmt.Errorf("%w: %d entries", ErrLimitExceeded, count)
	}
	if int64(count)*clmIndexEntrySize > c.size-int64(clmHeaderSize) {
		return fmt.Errorf("%w: index of %d entries exceeds file", ErrInvalidArchive, count)
	}

	c.entries = make([]clmEntry, count)
	c.names = make([]string, count)
	var name [clmMaxName]byte
	for i := range c.entries {
		r.Full(name[:])
		c.names[i] = string(bytes.TrimRight(name[:], "\x00"))
		c.entries[i] = clmEntry{offset: r.U32(), length: r.I32()}
	}
	if err := r.Err(); err != nil {
		return fmt.Errorf("%w: index: %w", ErrInvalidArchive, err)
	}
	return nil
}

// Format returns the wave format shared by all entries.
func (c *ClmFile) Format() WaveFormat { return c.format }

// EntrySize is the length of the entry's raw PCM data.
func (c *ClmFile) EntrySize(index int) (int64, error) {
	if err := c.checkIndex(index); err != nil {
		return 0, err
	}
	return int64(c.entries[index].length), nil
}

// OpenStream returns the entry's raw PCM data.
func (c *ClmFile) OpenStream(index int) (*io.SectionReader, error) {
	if err := c.checkIndex(index); err != nil {
		return nil, err
	}
	e := c.entries[index]
	return c.section(int64(e.offset), int64(e.length))
}

func (c *ClmFile) ReadFile(index int) ([]byte, error) {
	sr, err := c.OpenStream(index)
	if err != nil {
		return nil, err
	}
	b := make([]byte, sr.Size())
	if _, err := io.ReadFull(sr, b); err != nil {
		return nil, fmt.Errorf("%w: entry %d: %w", ErrInvalidArchive, index, err)
	}
	return b, nil
}

// ExtractFile writes the entry at index to path as a wave file.
func (c *ClmFile) ExtractFile(index int, path string) error {
	sr, err := c.OpenStream(index)
	if err != nil {
		return err
	}
	return writeFile(path, func(out io.Writer) error {
		bw := bufio.NewWriter(out)
		w := binio.NewWriter(bw)
		writeWaveHeader(w, c.format, uint32(sr.Size()))
		if err := w.Err(); err != nil {
			return err
		}
		if _, err := io.Copy(bw, sr); err != nil {
			return err
		}
		return bw.Flush()
	})
}

func (c *ClmFile) ExtractFileByName(name, path string) error {
	return extractByName(c, name, path)
}

// ExtractAll writes every entry into dir as <name>.wav.
func (c *ClmFile) ExtractAll(dir string) error {
	return extractAll(c, dir, ".wav")
}
