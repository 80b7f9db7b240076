package op2util

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/logicossoftware/go-op2util/archive"
	"github.com/logicossoftware/go-op2util/gamemap"
	"github.com/logicossoftware/go-op2util/internal/handle"
	"github.com/logicossoftware/go-op2util/resource"
	"github.com/logicossoftware/go-op2util/sprite"
)

// Handle is an opaque reference to an object owned by a Bridge.
type Handle = handle.Handle

// Null is the handle value that never refers to an object.
const Null = handle.Null

const (
	kindMap handle.Kind = iota + 1
	kindArchive
	kindResource
	kindImage
)

// Bridge owns the objects handed out to foreign callers and exposes every
// boundary operation as a typed method. Handle tables are safe for
// concurrent use; the objects behind a handle are not.
type Bridge struct {
	limits Limits
	logger atomic.Pointer[slog.Logger]

	maps      *handle.Arena[*gamemap.Map]
	archives  *handle.Arena[archive.Archive]
	resources *handle.Arena[*resource.Manager]
	images    *handle.Arena[*sprite.Loader]
}

func New(opts ...Option) *Bridge {
	cfg := config{}
	for _, o := range opts {
		o(&cfg)
	}
	b := &Bridge{
		limits:    cfg.limits.withDefaults(),
		maps:      handle.NewArena[*gamemap.Map](kindMap),
		archives:  handle.NewArena[archive.Archive](kindArchive),
		resources: handle.NewArena[*resource.Manager](kindResource),
		images:    handle.NewArena[*sprite.Loader](kindImage),
	}
	b.SetLogger(cfg.logger)
	return b
}

// OpenHandles reports the number of live handles across all tables.
func (b *Bridge) OpenHandles() int {
	return b.maps.Len() + b.archives.Len() + b.resources.Len() + b.images.Len()
}

func lookup[T any](a *handle.Arena[T], h Handle) (T, error) {
	v, err := a.Get(h)
	if err != nil {
		return v, fmt.Errorf("%w: %w", ErrInvalidHandle, err)
	}
	return v, nil
}

func remove[T any](a *handle.Arena[T], h Handle) (T, error) {
	v, err := a.Remove(h)
	if err != nil {
		return v, fmt.Errorf("%w: %w", ErrInvalidHandle, err)
	}
	return v, nil
}

// releaseCloser removes h and closes the object it referenced. The handle is
// invalid afterwards even if Close fails.
func releaseCloser[T io.Closer](a *handle.Arena[T], h Handle) error {
	v, err := remove(a, h)
	if err != nil {
		return err
	}
	return v.Close()
}

// fill copies the stream r into dst, which must be exactly r's size.
func (b *Bridge) fill(dst []byte, r *io.SectionReader) error {
	if int64(len(dst)) != r.Size() {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrBufferSize, len(dst), r.Size())
	}
	if _, err := io.ReadFull(r, dst); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}

// transferSize checks n against MaxTransferSize.
func (b *Bridge) transferSize(n int64) (int64, error) {
	if n > b.limits.MaxTransferSize {
		return 0, fmt.Errorf("%w: %d bytes exceeds transfer limit %d", ErrLimitExceeded, n, b.limits.MaxTransferSize)
	}
	return n, nil
}
