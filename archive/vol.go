package archive

import (
	"fmt"
	"io"
	"strings"

	"github.com/logicossoftware/go-op2util/internal/binio"
)

// CompressionCode identifies how a VOL entry is stored.
type CompressionCode uint16

const (
	CompressionNone CompressionCode = 0x100
	CompressionRLE  CompressionCode = 0x101
	CompressionLZ   CompressionCode = 0x102
	CompressionLZH  CompressionCode = 0x103
)

func (c CompressionCode) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionRLE:
		return "RLE"
	case CompressionLZ:
		return "LZ"
	case CompressionLZH:
		return "LZH"
	}
	return fmt.Sprintf("CompressionCode(0x%X)", uint16(c))
}

var (
	tagVOL  = [4]byte{'V', 'O', 'L', ' '}
	tagVOLH = [4]byte{'v', 'o', 'l', 'h'}
	tagVOLS = [4]byte{'v', 'o', 'l', 's'}
	tagVOLI = [4]byte{'v', 'o', 'l', 'i'}
	tagVBLK = [4]byte{'V', 'B', 'L', 'K'}
)

const (
	sectionHeaderSize = 8
	volIndexEntrySize = 14
	sectionPadded     = 1 << 31
	noEntry           = 0xFFFFFFFF
)

type volEntry struct {
	nameOffset  uint32
	dataOffset  uint32
	size        int32
	compression CompressionCode
}

// VolFile is an open VOL archive. It is not safe for concurrent use.
type VolFile struct {
	*base
	entries []volEntry
}

// OpenVol opens and indexes the VOL archive at path.
func OpenVol(path string, opts ...Option) (*VolFile, error) {
	b, err := openBase(path, opts)
	if err != nil {
		return nil, err
	}
	v := &VolFile{base: b}
	if err := v.readHeader(); err != nil {
		b.f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func readSection(r *binio.Reader, want [4]byte) (uint32, error) {
	tag := r.Tag()
	raw := r.U32()
	if err := r.Err(); err != nil {
		return 0, fmt.Errorf("%w: %q section: %w", ErrInvalidArchive, want, err)
	}
	if tag != want {
		return 0, fmt.Errorf("%w: expected %q section, found %q", ErrInvalidArchive, want, tag)
	}
	if raw&sectionPadded == 0 {
		return 0, fmt.Errorf("%w: %q section uses 2 byte padding", ErrInvalidArchive, want)
	}
	return raw &^ sectionPadded, nil
}

func (v *VolFile) readHeader() error {
	if v.size < sectionHeaderSize {
		return fmt.Errorf("%w: too short for a 'VOL ' section", ErrInvalidArchive)
	}
	r := binio.NewReader(io.NewSectionReader(v.f, 0, v.size))

	headerLen, err := readSection(r, tagVOL)
	if err != nil {
		return err
	}
	if v.size < int64(headerLen)+sectionHeaderSize {
		return fmt.Errorf("%w: header of %d bytes exceeds file", ErrInvalidArchive, headerLen)
	}
	volhLen, err := readSection(r, tagVOLH)
	if err != nil {
		return err
	}
	if volhLen != 0 {
		return fmt.Errorf("%w: volh length %d, want 0", ErrInvalidArchive, volhLen)
	}

	strTblLen, err := readSection(r, tagVOLS)
	if err != nil {
		return err
	}
	if uint64(headerLen) < uint64(strTblLen)+sectionHeaderSize*2+4 {
		return fmt.Errorf("%w: string table does not fit in header", ErrInvalidArchive)
	}
	actual := r.U32()
	if err := r.Err(); err != nil {
		return fmt.Errorf("%w: string table: %w", ErrInvalidArchive, err)
	}
	if uint64(actual)+4 > uint64(strTblLen) {
		return fmt.Errorf("%w: string table length %d exceeds section %d", ErrInvalidArchive, actual, strTblLen)
	}
	table := r.Bytes(int(actual))
	r.Skip(int64(strTblLen) - int64(actual) - 4)
	if err := r.Err(); err != nil {
		return fmt.Errorf("%w: string table: %w", ErrInvalidArchive, err)
	}
	// Names are NUL terminated; an unterminated tail is not a name.
	names := strings.Split(string(table), "\x00")
	names = names[:len(names)-1]

	idxLen, err := readSection(r, tagVOLI)
	if err != nil {
		return err
	}
	if uint64(headerLen) < uint64(strTblLen)+uint64(idxLen)+24 {
		return fmt.Errorf("%w: index table does not fit in header", ErrInvalidArchive)
	}
	n := idxLen / volIndexEntrySize
	if n > v.limits.MaxEntries {
		return fmt.Errorf("%w: %d index entries", ErrLimitExceeded, n)
	}
	entries := make([]volEntry, 0, n)
	for range n {
		e := volEntry{
			nameOffset:  r.U32(),
			dataOffset:  r.U32(),
			size:        r.I32(),
			compression: CompressionCode(r.U16()),
		}
		if e.nameOffset == noEntry {
			break
		}
		entries = append(entries, e)
	}
	if err := r.Err(); err != nil {
		return fmt.Errorf("%w: index table: %w", ErrInvalidArchive, err)
	}
	if len(names) < len(entries) {
		return fmt.Errorf("%w: %d entries but %d names", ErrInvalidArchive, len(entries), len(names))
	}
	v.entries = entries
	v.names = names[:len(entries)]
	return nil
}

// EntrySize is the entry's size as recorded in the index. For compressed
// entries this is the compressed size.
func (v *VolFile) EntrySize(index int) (int64, error) {
	if err := v.checkIndex(index); err != nil {
		return 0, err
	}
	return int64(v.entries[index].size), nil
}

func (v *VolFile) CompressionCode(index int) (CompressionCode, error) {
	if err := v.checkIndex(index); err != nil {
		return 0, err
	}
	return v.entries[index].compression, nil
}

// OpenStream returns the entry's VBLK payload as stored, without decoding.
func (v *VolFile) OpenStream(index int) (*io.SectionReader, error) {
	if err := v.checkIndex(index); err != nil {
		return nil, err
	}
	off := int64(v.entries[index].dataOffset)
	hdr, err := v.section(off, sectionHeaderSize)
	if err != nil {
		return nil, err
	}
	n, err := readSection(binio.NewReader(hdr), tagVBLK)
	if err != nil {
		return nil, fmt.Errorf("entry %d of %s: %w", index, v.filename, err)
	}
	return v.section(off+sectionHeaderSize, int64(n))
}

// ReadFile returns the stored bytes of an entry.
func (v *VolFile) ReadFile(index int) ([]byte, error) {
	sr, err := v.OpenStream(index)
	if err != nil {
		return nil, err
	}
	b := make([]byte, sr.Size())
	if _, err := io.ReadFull(sr, b); err != nil {
		return nil, fmt.Errorf("%w: entry %d: %w", ErrInvalidArchive, index, err)
	}
	return b, nil
}

// ExtractFile decodes the entry at index and writes it to path. Only
// uncompressed and LZH entries can be extracted.
func (v *VolFile) ExtractFile(index int, path string) error {
	if err := v.checkIndex(index); err != nil {
		return err
	}
	comp := v.entries[index].compression
	if comp != CompressionNone && comp != CompressionLZH {
		return fmt.Errorf("%w: %v in entry %d", ErrUnsupportedCompression, comp, index)
	}
	data, err := v.ReadFile(index)
	if err != nil {
		return err
	}
	if comp == CompressionLZH {
		if data, err = decodeLZH(data, v.limits.MaxExtractSize); err != nil {
			return fmt.Errorf("entry %d of %s: %w", index, v.filename, err)
		}
	}
	return writeFile(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

func (v *VolFile) ExtractFileByName(name, path string) error {
	return extractByName(v, name, path)
}

// ExtractAll writes every entry into dir under its stored name.
func (v *VolFile) ExtractAll(dir string) error {
	return extractAll(v, dir, "")
}
