package binio

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{ after int }

func (f *failingWriter) Write(p []byte) (int, error) {
	if f.after <= 0 {
		return 0, errors.New("write failed")
	}
	f.after--
	return len(p), nil
}

func TestReaderWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Tag([4]byte{'V', 'O', 'L', ' '})
	w.U16(0x0103)
	w.U32(0xDEADBEEF)
	w.I32(-1)
	w.Zeros(11)
	w.Write([]byte("tail"))
	require.NoError(t, w.Err())
	assert.Equal(t, 4+2+4+4+11+4, buf.Len())

	r := NewReader(&buf)
	assert.Equal(t, [4]byte{'V', 'O', 'L', ' '}, r.Tag())
	assert.Equal(t, uint16(0x0103), r.U16())
	assert.Equal(t, uint32(0xDEADBEEF), r.U32())
	assert.Equal(t, int32(-1), r.I32())
	r.Skip(11)
	assert.Equal(t, []byte("tail"), r.Bytes(4))
	require.NoError(t, r.Err())
	assert.Equal(t, int64(29), r.Offset())
}

func TestReaderShortReadIsSticky(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{1, 2}))
	assert.Equal(t, uint32(0), r.U32())
	require.ErrorIs(t, r.Err(), io.ErrUnexpectedEOF)
	assert.Equal(t, uint16(0), r.U16())
	assert.Nil(t, r.Bytes(1))
}

func TestReaderSkipPastEnd(t *testing.T) {
	r := NewReader(bytes.NewReader(make([]byte, 4)))
	r.Skip(10)
	require.ErrorIs(t, r.Err(), io.ErrUnexpectedEOF)
}

func TestWriterErrorIsSticky(t *testing.T) {
	w := NewWriter(&failingWriter{after: 1})
	w.U32(1)
	require.NoError(t, w.Err())
	w.U32(2)
	require.Error(t, w.Err())
	w.U16(3)
	require.EqualError(t, w.Err(), "write failed")
}
