package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Archive is the read side shared by VOL and CLM files.
type Archive interface {
	Filename() string
	// Size is the archive file's length in bytes.
	Size() int64
	Count() int
	Contains(name string) bool
	Index(name string) (int, error)
	Name(index int) (string, error)
	// EntrySize is the stored length of an entry as recorded in the index.
	EntrySize(index int) (int64, error)
	OpenStream(index int) (*io.SectionReader, error)
	ReadFile(index int) ([]byte, error)
	ExtractFile(index int, path string) error
	ExtractFileByName(name, path string) error
	ExtractAll(dir string) error
	Close() error
}

var (
	_ Archive = (*VolFile)(nil)
	_ Archive = (*ClmFile)(nil)
)

// Open opens path as a VOL or CLM archive based on its extension.
func Open(path string, opts ...Option) (Archive, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".vol":
		return OpenVol(path, opts...)
	case ".clm":
		return OpenClm(path, opts...)
	default:
		return nil, fmt.Errorf("%w: unknown archive extension %q", ErrInvalidArchive, ext)
	}
}

// base holds the state common to both formats.
type base struct {
	f        *os.File
	filename string
	size     int64
	names    []string
	limits   Limits
}

func openBase(path string, opts []Option) (*base, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &base{
		f:        f,
		filename: path,
		size:     st.Size(),
		limits:   newOpenConfig(opts).limits,
	}, nil
}

func (b *base) Filename() string { return b.filename }
func (b *base) Size() int64      { return b.size }
func (b *base) Count() int       { return len(b.names) }

func (b *base) Contains(name string) bool {
	_, err := b.Index(name)
	return err == nil
}

// Index returns the first entry whose name matches case-insensitively.
func (b *base) Index(name string) (int, error) {
	for i, n := range b.names {
		if strings.EqualFold(n, name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s in %s", ErrNotFound, name, b.filename)
}

func (b *base) Name(index int) (string, error) {
	if err := b.checkIndex(index); err != nil {
		return "", err
	}
	return b.names[index], nil
}

func (b *base) checkIndex(i int) error {
	if i < 0 || i >= len(b.names) {
		return fmt.Errorf("%w: %d not in [0,%d) in %s", ErrIndexOutOfRange, i, len(b.names), b.filename)
	}
	return nil
}

// section returns a reader over [off, off+n) after checking it lies inside
// the archive file.
func (b *base) section(off, n int64) (*io.SectionReader, error) {
	if off < 0 || n < 0 || off > b.size || n > b.size-off {
		return nil, fmt.Errorf("%w: entry data [%d,+%d) outside %d byte file", ErrInvalidArchive, off, n, b.size)
	}
	return io.NewSectionReader(b.f, off, n), nil
}

func (b *base) Close() error { return b.f.Close() }

// extractor is the per-format part of ExtractFileByName and ExtractAll.
type extractor interface {
	Index(name string) (int, error)
	Name(index int) (string, error)
	Count() int
	ExtractFile(index int, path string) error
}

func extractByName(a extractor, name, path string) error {
	i, err := a.Index(name)
	if err != nil {
		return err
	}
	return a.ExtractFile(i, path)
}

// extractAll writes every entry into dir under its stored name, with
// extension appended when the format stores bare names.
func extractAll(a extractor, dir, extension string) error {
	for i := range a.Count() {
		name, err := a.Name(i)
		if err != nil {
			return err
		}
		if !filepath.IsLocal(name) || strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
		if err := a.ExtractFile(i, filepath.Join(dir, name+extension)); err != nil {
			return err
		}
	}
	return nil
}

// writeFile creates path and fills it with fn, removing the file again if fn
// or the close fails.
func writeFile(path string, fn func(w io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()
	return fn(f)
}

// entryNames returns the base names of paths, rejecting case-insensitive
// duplicates and any path equal to out.
func entryNames(out string, paths []string, name func(string) string) ([]string, error) {
	names := make([]string, len(paths))
	seen := make(map[string]string, len(paths))
	absOut, _ := filepath.Abs(out)
	for i, p := range paths {
		if abs, _ := filepath.Abs(p); strings.EqualFold(abs, absOut) {
			return nil, fmt.Errorf("%w: %s cannot be packed into itself", ErrInvalidName, p)
		}
		n := name(p)
		if n == "" {
			return nil, fmt.Errorf("%w: empty name from %q", ErrInvalidName, p)
		}
		key := strings.ToLower(n)
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: %s and %s", ErrDuplicateName, prev, p)
		}
		seen[key] = p
		names[i] = n
	}
	return names, nil
}
