package op2util

import (
	"github.com/logicossoftware/go-op2util/resource"
)

// OpenResources creates a resource manager over dir and every archive in it.
func (b *Bridge) OpenResources(dir string) (h Handle, err error) {
	defer b.done("OpenResources", &err)
	m, err := resource.New(dir, resource.WithArchiveLimits(b.limits.Archive))
	if err != nil {
		return Null, err
	}
	return b.resources.Insert(m), nil
}

func (b *Bridge) ReleaseResources(h Handle) (err error) {
	defer b.done("ReleaseResources", &err)
	return releaseCloser(b.resources, h)
}

func (b *Bridge) withResources(op string, h Handle, fn func(*resource.Manager) error) (err error) {
	defer b.done(op, &err)
	m, err := lookup(b.resources, h)
	if err != nil {
		return err
	}
	return fn(m)
}

// Filenames lists resources whose names match the regular expression
// pattern, case-insensitively.
func (b *Bridge) Filenames(h Handle, pattern string, accessArchives bool) (names []string, err error) {
	err = b.withResources("Filenames", h, func(m *resource.Manager) error {
		names, err = m.Filenames(pattern, accessArchives)
		return err
	})
	return names, err
}

func (b *Bridge) FilenamesOfType(h Handle, ext string, accessArchives bool) (names []string, err error) {
	err = b.withResources("FilenamesOfType", h, func(m *resource.Manager) error {
		names, err = m.FilenamesOfType(ext, accessArchives)
		return err
	})
	return names, err
}

// FindContainingArchivePath returns the path of the first archive holding
// name, or "" if none does.
func (b *Bridge) FindContainingArchivePath(h Handle, name string) (path string, err error) {
	err = b.withResources("FindContainingArchivePath", h, func(m *resource.Manager) error {
		path = m.FindContainingArchivePath(name)
		return nil
	})
	return path, err
}

func (b *Bridge) ArchiveFilenames(h Handle) (names []string, err error) {
	err = b.withResources("ArchiveFilenames", h, func(m *resource.Manager) error {
		names = m.ArchiveFilenames()
		return nil
	})
	return names, err
}

// ResourceSize returns the number of bytes ReadResource needs for name.
func (b *Bridge) ResourceSize(h Handle, name string, accessArchives bool) (n int64, err error) {
	err = b.withResources("ResourceSize", h, func(m *resource.Manager) error {
		size, err := m.Size(name, accessArchives)
		if err != nil {
			return err
		}
		n, err = b.transferSize(size)
		return err
	})
	return n, err
}

// ReadResource fills dst with the contents of name. dst must be exactly
// ResourceSize bytes long; otherwise nothing is written.
func (b *Bridge) ReadResource(h Handle, name string, accessArchives bool, dst []byte) error {
	return b.withResources("ReadResource", h, func(m *resource.Manager) error {
		r, err := m.Open(name, accessArchives)
		if err != nil {
			return err
		}
		defer r.Close()
		return b.fill(dst, r.SectionReader)
	})
}
