// Package handle issues opaque, generation-tagged references to Go objects
// that are held by foreign callers.
//
// A Handle packs three fields into 64 bits:
//
//	bits 63-56  kind (never zero)
//	bits 55-32  generation (24 bits, never zero)
//	bits 31-0   slot
//
// Zero is the null handle. A slot's generation is bumped when its object is
// removed, so stale and double-released handles are detected rather than
// resolving to whatever object reuses the slot. A slot whose generation is
// exhausted is retired instead of wrapping, so no handle ever resolves
// twice.
package handle

import (
	"errors"
	"fmt"
	"sync"
)

// Handle is an opaque reference returned across the foreign boundary.
type Handle uint64

// Null is never issued by an Arena.
const Null Handle = 0

// Kind distinguishes handle tables so a handle of one type is rejected by
// another table.
type Kind uint8

const generationMask = 1<<24 - 1

var ErrInvalid = errors.New("handle: invalid handle")

func makeHandle(kind Kind, gen, slot uint32) Handle {
	return Handle(uint64(kind)<<56 | uint64(gen&generationMask)<<32 | uint64(slot))
}

// Kind reports the table kind encoded in h.
func (h Handle) Kind() Kind { return Kind(h >> 56) }

func (h Handle) generation() uint32 { return uint32(h>>32) & generationMask }

func (h Handle) slot() uint32 { return uint32(h) }

type entry[T any] struct {
	gen  uint32
	live bool
	val  T
}

// Arena owns objects of one type on behalf of foreign callers. The table is
// locked; the objects it holds are not.
type Arena[T any] struct {
	mu      sync.Mutex
	kind    Kind
	entries []entry[T]
	free    []uint32
	live    int
}

// NewArena returns an empty table for kind. kind must be non-zero.
func NewArena[T any](kind Kind) *Arena[T] {
	if kind == 0 {
		panic("handle: zero kind")
	}
	return &Arena[T]{kind: kind}
}

// Insert stores v and returns a fresh handle for it.
func (a *Arena[T]) Insert(v T) Handle {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.live++
	if n := len(a.free); n > 0 {
		slot := a.free[n-1]
		a.free = a.free[:n-1]
		e := &a.entries[slot]
		e.live = true
		e.val = v
		return makeHandle(a.kind, e.gen, slot)
	}
	slot := uint32(len(a.entries))
	a.entries = append(a.entries, entry[T]{gen: 1, live: true, val: v})
	return makeHandle(a.kind, 1, slot)
}

func (a *Arena[T]) lookup(h Handle) (*entry[T], error) {
	if h == Null {
		return nil, fmt.Errorf("%w: null", ErrInvalid)
	}
	if h.Kind() != a.kind {
		return nil, fmt.Errorf("%w: kind %d, want %d", ErrInvalid, h.Kind(), a.kind)
	}
	slot := h.slot()
	if uint64(slot) >= uint64(len(a.entries)) {
		return nil, fmt.Errorf("%w: slot %d", ErrInvalid, slot)
	}
	e := &a.entries[slot]
	if !e.live || e.gen != h.generation() {
		return nil, fmt.Errorf("%w: stale generation", ErrInvalid)
	}
	return e, nil
}

// Get resolves h without affecting ownership.
func (a *Arena[T]) Get(h Handle) (T, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	e, err := a.lookup(h)
	if err != nil {
		var zero T
		return zero, err
	}
	return e.val, nil
}

// Remove ends h's lifetime and returns the object it referenced. Any later
// use of h, including a second Remove, fails with ErrInvalid.
func (a *Arena[T]) Remove(h Handle) (T, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var zero T
	e, err := a.lookup(h)
	if err != nil {
		return zero, err
	}
	v := e.val
	e.val = zero
	e.live = false
	a.live--
	if e.gen == generationMask {
		return v, nil
	}
	e.gen++
	a.free = append(a.free, h.slot())
	return v, nil
}

// Len reports the number of live handles.
func (a *Arena[T]) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}
