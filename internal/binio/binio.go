// Package binio reads and writes the little-endian primitives used by the
// Outpost 2 file formats. Reader and Writer record the first error and turn
// every later call into a no-op, so a fixed record can be decoded field by
// field with a single error check at the end.
package binio

import (
	"encoding/binary"
	"errors"
	"io"
)

type Reader struct {
	r   io.Reader
	buf [8]byte
	n   int64
	err error
}

func NewReader(r io.Reader) *Reader { return &Reader{r: r} }

// Err returns the first error encountered. A short read is reported as
// io.ErrUnexpectedEOF.
func (r *Reader) Err() error { return r.err }

// Offset is the number of bytes consumed so far.
func (r *Reader) Offset() int64 { return r.n }

func (r *Reader) fill(b []byte) bool {
	if r.err != nil {
		return false
	}
	n, err := io.ReadFull(r.r, b)
	r.n += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		r.err = err
		return false
	}
	return true
}

func (r *Reader) U16() uint16 {
	if !r.fill(r.buf[:2]) {
		return 0
	}
	return binary.LittleEndian.Uint16(r.buf[:2])
}

func (r *Reader) U32() uint32 {
	if !r.fill(r.buf[:4]) {
		return 0
	}
	return binary.LittleEndian.Uint32(r.buf[:4])
}

func (r *Reader) I32() int32 { return int32(r.U32()) }

// Tag reads a four-character section tag.
func (r *Reader) Tag() [4]byte {
	var t [4]byte
	r.fill(t[:])
	return t
}

// Bytes reads exactly n bytes. Callers bound n before calling.
func (r *Reader) Bytes(n int) []byte {
	if r.err != nil || n < 0 {
		return nil
	}
	b := make([]byte, n)
	if !r.fill(b) {
		return nil
	}
	return b
}

// Full reads len(b) bytes into b.
func (r *Reader) Full(b []byte) { r.fill(b) }

// Skip discards n bytes.
func (r *Reader) Skip(n int64) {
	if r.err != nil || n <= 0 {
		return
	}
	copied, err := io.CopyN(io.Discard, r.r, n)
	r.n += copied
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		r.err = err
	}
}

type Writer struct {
	w   io.Writer
	buf [8]byte
	err error
}

func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

func (w *Writer) Err() error { return w.err }

func (w *Writer) Write(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}

func (w *Writer) U16(v uint16) {
	binary.LittleEndian.PutUint16(w.buf[:2], v)
	w.Write(w.buf[:2])
}

func (w *Writer) U32(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[:4], v)
	w.Write(w.buf[:4])
}

func (w *Writer) I32(v int32) { w.U32(uint32(v)) }

func (w *Writer) Tag(t [4]byte) { w.Write(t[:]) }

// Zeros writes n zero bytes of padding.
func (w *Writer) Zeros(n int) {
	if n <= 0 {
		return
	}
	var pad [8]byte
	for n > 0 {
		k := min(n, len(pad))
		w.Write(pad[:k])
		n -= k
	}
}
