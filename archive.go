package op2util

import (
	"fmt"

	"github.com/logicossoftware/go-op2util/archive"
)

// OpenVol opens a VOL archive.
func (b *Bridge) OpenVol(path string) (h Handle, err error) {
	defer b.done("OpenVol", &err)
	v, err := archive.OpenVol(path, archive.WithLimits(b.limits.Archive))
	if err != nil {
		return Null, err
	}
	return b.archives.Insert(v), nil
}

// OpenClm opens a CLM audio archive.
func (b *Bridge) OpenClm(path string) (h Handle, err error) {
	defer b.done("OpenClm", &err)
	c, err := archive.OpenClm(path, archive.WithLimits(b.limits.Archive))
	if err != nil {
		return Null, err
	}
	return b.archives.Insert(c), nil
}

// ReleaseArchive closes the archive behind h.
func (b *Bridge) ReleaseArchive(h Handle) (err error) {
	defer b.done("ReleaseArchive", &err)
	return releaseCloser(b.archives, h)
}

func (b *Bridge) withArchive(op string, h Handle, fn func(archive.Archive) error) (err error) {
	defer b.done(op, &err)
	a, err := lookup(b.archives, h)
	if err != nil {
		return err
	}
	return fn(a)
}

func (b *Bridge) ArchiveFilename(h Handle) (name string, err error) {
	err = b.withArchive("ArchiveFilename", h, func(a archive.Archive) error {
		name = a.Filename()
		return nil
	})
	return name, err
}

// ArchiveSize is the size of the archive file itself.
func (b *Bridge) ArchiveSize(h Handle) (n int64, err error) {
	err = b.withArchive("ArchiveSize", h, func(a archive.Archive) error {
		n = a.Size()
		return nil
	})
	return n, err
}

func (b *Bridge) ArchiveCount(h Handle) (n int, err error) {
	err = b.withArchive("ArchiveCount", h, func(a archive.Archive) error {
		n = a.Count()
		return nil
	})
	return n, err
}

func (b *Bridge) ArchiveContains(h Handle, name string) (ok bool, err error) {
	err = b.withArchive("ArchiveContains", h, func(a archive.Archive) error {
		ok = a.Contains(name)
		return nil
	})
	return ok, err
}

func (b *Bridge) ArchiveIndex(h Handle, name string) (i int, err error) {
	err = b.withArchive("ArchiveIndex", h, func(a archive.Archive) error {
		i, err = a.Index(name)
		return err
	})
	return i, err
}

func (b *Bridge) ArchiveName(h Handle, i int) (name string, err error) {
	err = b.withArchive("ArchiveName", h, func(a archive.Archive) error {
		name, err = a.Name(i)
		return err
	})
	return name, err
}

// ArchiveEntrySize returns the number of bytes ReadArchiveEntry needs for
// entry i.
func (b *Bridge) ArchiveEntrySize(h Handle, i int) (n int64, err error) {
	err = b.withArchive("ArchiveEntrySize", h, func(a archive.Archive) error {
		sr, err := a.OpenStream(i)
		if err != nil {
			return err
		}
		n, err = b.transferSize(sr.Size())
		return err
	})
	return n, err
}

// ReadArchiveEntry fills dst with the stored bytes of entry i. dst must be
// exactly ArchiveEntrySize bytes long; otherwise nothing is written.
func (b *Bridge) ReadArchiveEntry(h Handle, i int, dst []byte) error {
	return b.withArchive("ReadArchiveEntry", h, func(a archive.Archive) error {
		sr, err := a.OpenStream(i)
		if err != nil {
			return err
		}
		return b.fill(dst, sr)
	})
}

func (b *Bridge) ExtractArchiveEntry(h Handle, i int, path string) error {
	return b.withArchive("ExtractArchiveEntry", h, func(a archive.Archive) error {
		return a.ExtractFile(i, path)
	})
}

func (b *Bridge) ExtractArchiveEntryByName(h Handle, name, path string) error {
	return b.withArchive("ExtractArchiveEntryByName", h, func(a archive.Archive) error {
		return a.ExtractFileByName(name, path)
	})
}

func (b *Bridge) ExtractArchive(h Handle, dir string) error {
	return b.withArchive("ExtractArchive", h, func(a archive.Archive) error {
		return a.ExtractAll(dir)
	})
}

// CompressionCode reports how entry i of a VOL archive is stored.
func (b *Bridge) CompressionCode(h Handle, i int) (code archive.CompressionCode, err error) {
	err = b.withArchive("CompressionCode", h, func(a archive.Archive) error {
		v, ok := a.(*archive.VolFile)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotVolume, a.Filename())
		}
		code, err = v.CompressionCode(i)
		return err
	})
	return code, err
}

// WriteVol creates a VOL archive at path. Entries keep the order of sources.
func (b *Bridge) WriteVol(path string, sources []string) (err error) {
	defer b.done("WriteVol", &err)
	return archive.WriteVol(path, sources)
}

// WriteClm creates a CLM archive at path from wave files sharing one format.
func (b *Bridge) WriteClm(path string, sources []string) (err error) {
	defer b.done("WriteClm", &err)
	return archive.WriteClm(path, sources)
}
