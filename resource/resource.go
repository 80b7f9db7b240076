// Package resource locates game files by name across a directory and the
// VOL and CLM archives found in it.
//
// A name resolves to the loose file in the directory when one exists.
// Otherwise, when archive access is requested, the first registered archive
// holding the name wins. Archives are registered when the Manager is created:
// *.vol files in name order, then *.clm files in name order.
package resource

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/logicossoftware/go-op2util/archive"
)

var (
	ErrNotDirectory = errors.New("resource: not a directory")
	ErrRootedPath   = errors.New("resource: name must be relative to the resource directory")
	ErrNotFound     = errors.New("resource: not found")
	ErrPattern      = errors.New("resource: invalid filename pattern")
)

type config struct {
	archiveOpts []archive.Option
}

type Option func(*config)

// WithArchiveLimits sets the limits used when opening registered archives.
func WithArchiveLimits(l archive.Limits) Option {
	return func(c *config) { c.archiveOpts = append(c.archiveOpts, archive.WithLimits(l)) }
}

// Manager indexes a resource directory. It is not safe for concurrent use.
type Manager struct {
	dir      string
	archives []archive.Archive
}

// New opens every archive in dir. It fails if dir is not a directory or an
// archive cannot be read.
func New(dir string, opts ...Option) (*Manager, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	st, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	m := &Manager{dir: dir}
	for _, ext := range []string{".vol", ".clm"} {
		names, err := m.listFiles(func(name string) bool {
			return strings.EqualFold(filepath.Ext(name), ext)
		})
		if err != nil {
			m.Close()
			return nil, err
		}
		for _, name := range names {
			a, err := archive.Open(filepath.Join(dir, name), cfg.archiveOpts...)
			if err != nil {
				m.Close()
				return nil, err
			}
			m.archives = append(m.archives, a)
		}
	}
	return m, nil
}

// Close closes every registered archive.
func (m *Manager) Close() error {
	var errs []error
	for _, a := range m.archives {
		errs = append(errs, a.Close())
	}
	m.archives = nil
	return errors.Join(errs...)
}

// listFiles returns the names of regular files directly in the directory
// that satisfy keep, sorted by name.
func (m *Manager) listFiles(keep func(string) bool) ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !keep(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// appendUnique adds name unless list already holds it, ignoring case.
func appendUnique(list []string, name string) []string {
	if slices.ContainsFunc(list, func(s string) bool { return strings.EqualFold(s, name) }) {
		return list
	}
	return append(list, name)
}

// Filenames returns the loose files whose names match the case-insensitive
// regular expression pattern, followed by matching archive entries when
// accessArchives is set. Names already listed are skipped, ignoring case.
func (m *Manager) Filenames(pattern string, accessArchives bool) ([]string, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPattern, err)
	}
	return m.collect(re.MatchString, accessArchives)
}

// FilenamesOfType returns the files with the given extension, which may be
// given with or without its leading dot.
func (m *Manager) FilenamesOfType(ext string, accessArchives bool) ([]string, error) {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return m.collect(func(name string) bool {
		return strings.EqualFold(filepath.Ext(name), ext)
	}, accessArchives)
}

func (m *Manager) collect(keep func(string) bool, accessArchives bool) ([]string, error) {
	loose, err := m.listFiles(keep)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(loose))
	for _, name := range loose {
		out = appendUnique(out, name)
	}
	if !accessArchives {
		return out, nil
	}
	for _, a := range m.archives {
		for i := range a.Count() {
			name, err := a.Name(i)
			if err != nil {
				return nil, err
			}
			if keep(name) {
				out = appendUnique(out, name)
			}
		}
	}
	return out, nil
}

// FindContainingArchivePath returns the path of the first archive holding
// name, or "" when none does.
func (m *Manager) FindContainingArchivePath(name string) string {
	for _, a := range m.archives {
		if a.Contains(name) {
			return a.Filename()
		}
	}
	return ""
}

// ArchiveFilenames returns the paths of the registered archives in
// registration order.
func (m *Manager) ArchiveFilenames() []string {
	out := make([]string, len(m.archives))
	for i, a := range m.archives {
		out[i] = a.Filename()
	}
	return out
}

// Resource is an open resource. Close releases the loose file behind it, if
// any; archive-backed resources share the archive's file.
type Resource struct {
	*io.SectionReader
	closer io.Closer
}

func (r *Resource) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// Open resolves name and returns its contents as stored. Archive entries are
// not decompressed.
func (m *Manager) Open(name string, accessArchives bool) (*Resource, error) {
	if !filepath.IsLocal(name) {
		return nil, fmt.Errorf("%w: %q", ErrRootedPath, name)
	}
	f, err := os.Open(filepath.Join(m.dir, name))
	switch {
	case err == nil:
		st, err := f.Stat()
		if err == nil && st.Mode().IsRegular() {
			return &Resource{SectionReader: io.NewSectionReader(f, 0, st.Size()), closer: f}, nil
		}
		f.Close()
		if err != nil {
			return nil, err
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}

	if accessArchives {
		for _, a := range m.archives {
			i, err := a.Index(name)
			if err != nil {
				continue
			}
			sr, err := a.OpenStream(i)
			if err != nil {
				return nil, err
			}
			return &Resource{SectionReader: sr}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Size returns the byte length Open would yield for name.
func (m *Manager) Size(name string, accessArchives bool) (int64, error) {
	r, err := m.Open(name, accessArchives)
	if err != nil {
		return 0, err
	}
	defer r.Close()
	return r.Size(), nil
}

// ReadFile returns the full contents of name.
func (m *Manager) ReadFile(name string, accessArchives bool) ([]byte, error) {
	r, err := m.Open(name, accessArchives)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	b := make([]byte, r.Size())
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}
