package archive

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/logicossoftware/go-op2util/internal/binio"
)

// WriteClm creates a CLM archive at path from the wave files in paths, in
// the given order. Every input must share one wave format. Entry names are
// the base names without extension, at most 8 ASCII characters, unique
// ignoring case. An empty list produces an archive with 22.05 kHz 16-bit
// mono as its format.
func WriteClm(path string, paths []string) error {
	names, err := entryNames(path, paths, func(p string) string {
		base := filepath.Base(p)
		return strings.TrimSuffix(base, filepath.Ext(base))
	})
	if err != nil {
		return err
	}
	for i, n := range names {
		if len(n) > clmMaxName || !isASCII(n) {
			return fmt.Errorf("%w: %q from %s must be at most %d ASCII characters", ErrInvalidName, n, paths[i], clmMaxName)
		}
	}

	inputs := make([]*os.File, 0, len(paths))
	defer func() {
		for _, f := range inputs {
			f.Close()
		}
	}()
	waves := make([]waveInfo, len(paths))
	for i, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		inputs = append(inputs, f)
		st, err := f.Stat()
		if err != nil {
			return err
		}
		if waves[i], err = readWaveInfo(f, st.Size()); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		if waves[i].format != waves[0].format {
			return fmt.Errorf("%w: %s and %s", ErrWaveFormatMismatch, paths[0], p)
		}
	}

	format := defaultWaveFormat
	if len(waves) > 0 {
		format = waves[0].format
	}
	offset := uint64(clmHeaderSize) + uint64(len(paths))*clmIndexEntrySize
	entries := make([]clmEntry, len(paths))
	for i, wi := range waves {
		if offset+uint64(wi.dataLen) > math.MaxUint32 || wi.dataLen > math.MaxInt32 {
			return fmt.Errorf("%w: clump data exceeds 4 GiB", ErrLimitExceeded)
		}
		entries[i] = clmEntry{offset: uint32(offset), length: int32(wi.dataLen)}
		offset += uint64(wi.dataLen)
	}

	return writeFile(path, func(out io.Writer) error {
		bw := bufio.NewWriter(out)
		w := binio.NewWriter(bw)
		w.Write(clmVersion[:])
		format.encode(w)
		w.Write(clmUnknown[:])
		w.U32(uint32(len(entries)))
		for i, e := range entries {
			var name [clmMaxName]byte
			copy(name[:], names[i])
			w.Write(name[:])
			w.U32(e.offset)
			w.I32(e.length)
		}
		if err := w.Err(); err != nil {
			return err
		}
		for i, wi := range waves {
			sr := io.NewSectionReader(inputs[i], wi.dataOffset, int64(wi.dataLen))
			if _, err := io.Copy(bw, sr); err != nil {
				return fmt.Errorf("packing %s: %w", paths[i], err)
			}
		}
		return bw.Flush()
	})
}
