package archive

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/logicossoftware/go-op2util/internal/binio"
)

// WriteVol creates a VOL archive at path holding the files in paths, stored
// uncompressed, in the given order. Entry names are the base names of the
// paths and must be unique ignoring case.
func WriteVol(path string, paths []string) error {
	names, err := entryNames(path, paths, filepath.Base)
	if err != nil {
		return err
	}
	for _, n := range names {
		if !isASCII(n) {
			return fmt.Errorf("%w: %q is not ASCII", ErrInvalidName, n)
		}
	}

	inputs := make([]*os.File, 0, len(paths))
	defer func() {
		for _, f := range inputs {
			f.Close()
		}
	}()
	entries := make([]volEntry, len(paths))
	var strLen uint64
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
		if st.Size() > math.MaxInt32 {
			return fmt.Errorf("%w: %s is too large for a volume", ErrLimitExceeded, p)
		}
		entries[i] = volEntry{
			nameOffset:  uint32(strLen),
			size:        int32(st.Size()),
			compression: CompressionNone,
		}
		strLen += uint64(len(names[i])) + 1
	}
	idxLen := uint64(len(paths)) * volIndexEntrySize
	paddedStr := (strLen + 7) &^ 3
	paddedIdx := (idxLen + 3) &^ 3
	if paddedStr+paddedIdx+24 >= sectionPadded {
		return fmt.Errorf("%w: volume header too large", ErrLimitExceeded)
	}

	next := paddedStr + paddedIdx + 32
	for i := range entries {
		if next > math.MaxUint32 {
			return fmt.Errorf("%w: volume data exceeds 4 GiB", ErrLimitExceeded)
		}
		entries[i].dataOffset = uint32(next)
		next = (next + uint64(entries[i].size) + 11) &^ 3
	}

	return writeFile(path, func(out io.Writer) error {
		bw := bufio.NewWriter(out)
		w := binio.NewWriter(bw)

		writeSection(w, tagVOL, uint32(paddedStr+paddedIdx+24))
		writeSection(w, tagVOLH, 0)
		writeSection(w, tagVOLS, uint32(paddedStr))
		w.U32(uint32(strLen))
		for _, n := range names {
			w.Write([]byte(n))
			w.Zeros(1)
		}
		w.Zeros(int(paddedStr - strLen - 4))

		writeSection(w, tagVOLI, uint32(idxLen))
		for _, e := range entries {
			w.U32(e.nameOffset)
			w.U32(e.dataOffset)
			w.I32(e.size)
			w.U16(uint16(e.compression))
		}
		w.Zeros(int(paddedIdx - idxLen))

		for i, e := range entries {
			writeSection(w, tagVBLK, uint32(e.size))
			if err := w.Err(); err != nil {
				return err
			}
			if _, err := io.CopyN(bw, inputs[i], int64(e.size)); err != nil {
				return fmt.Errorf("packing %s: %w", paths[i], err)
			}
			w.Zeros(int(-e.size & 3))
		}
		if err := w.Err(); err != nil {
			return err
		}
		return bw.Flush()
	})
}

func writeSection(w *binio.Writer, tag [4]byte, length uint32) {
	w.Tag(tag)
	w.U32(length | sectionPadded)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F || s[i] == 0 {
			return false
		}
	}
	return true
}
