package gamemap

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the codec of a packed map envelope.
type Compression uint16

const (
	CompNone Compression = 0x0
	CompZIP  Compression = 0x1
	CompZSTD Compression = 0x2
	CompLZ4  Compression = 0x3
	CompBR   Compression = 0x4
)

func (c Compression) String() string {
	switch c {
	case CompNone:
		return "none"
	case CompZIP:
		return "zip"
	case CompZSTD:
		return "zstd"
	case CompLZ4:
		return "lz4"
	case CompBR:
		return "brotli"
	}
	return fmt.Sprintf("Compression(%d)", uint16(c))
}

// Packed envelope layout, little endian:
//
//	[8]byte magic "OP2PACK\x1a"
//	uint16  compression
//	uint16  reserved, 0
//	uint64  uncompressed length
//	...     compressed map bytes
var packedMagic = [8]byte{'O', 'P', '2', 'P', 'A', 'C', 'K', 0x1A}

const (
	packedHeaderSize = 20
	zipEntryName     = "map.dat"
)

// Function variables for testing injection.
var (
	newZstdWriter = func(w io.Writer) (*zstd.Encoder, error) { return zstd.NewWriter(w) }
	newZstdReader = func(r io.Reader) (*zstd.Decoder, error) { return zstd.NewReader(r) }
	zipCreate     = func(zw *zip.Writer, name string) (io.Writer, error) { return zw.Create(name) }
	zipClose      = func(zw *zip.Writer) error { return zw.Close() }
	zipOpen       = func(zf *zip.File) (io.ReadCloser, error) { return zf.Open() }
	readAll       = io.ReadAll
)

func isPacked(b []byte) bool {
	return len(b) >= len(packedMagic) && bytes.Equal(b[:len(packedMagic)], packedMagic[:])
}

// zipEntryWriter writes the single map.dat entry; Close finishes the archive.
type zipEntryWriter struct {
	io.Writer
	zw *zip.Writer
}

func (w *zipEntryWriter) Close() error { return zipClose(w.zw) }

type countingWriter struct {
	w io.Writer
	n uint64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += uint64(n)
	return n, err
}

// compressor returns a stream that compresses into dst. Close flushes
// whatever the codec still buffers.
func compressor(comp Compression, dst io.Writer) (io.WriteCloser, error) {
	switch comp {
	case CompZIP:
		zw := zip.NewWriter(dst)
		entry, err := zipCreate(zw, zipEntryName)
		if err != nil {
			_ = zipClose(zw)
			return nil, err
		}
		return &zipEntryWriter{Writer: entry, zw: zw}, nil
	case CompZSTD:
		enc, err := newZstdWriter(dst)
		if err != nil {
			return nil, err
		}
		return enc, nil
	case CompLZ4:
		return lz4.NewWriter(dst), nil
	case CompBR:
		return brotli.NewWriter(dst), nil
	}
	return nil, fmt.Errorf("%w: cannot pack with %v", ErrInvalidPayload, comp)
}

// pack builds an envelope around the size map bytes that fill writes. The
// map is encoded straight into the codec; fill must produce exactly size
// bytes, since the length is recorded before the payload.
func pack(comp Compression, size uint64, fill func(io.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	var hdr [packedHeaderSize]byte
	copy(hdr[:], packedMagic[:])
	binary.LittleEndian.PutUint16(hdr[8:10], uint16(comp))
	binary.LittleEndian.PutUint64(hdr[12:20], size)
	buf.Write(hdr[:])

	zw, err := compressor(comp, &buf)
	if err != nil {
		return nil, err
	}
	cw := &countingWriter{w: zw}
	if err := fill(cw); err != nil {
		_ = zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	if cw.n != size {
		return nil, fmt.Errorf("%w: packed %d map bytes, header declares %d", ErrInvalidPayload, cw.n, size)
	}
	return buf.Bytes(), nil
}

// decompressor returns a stream inflating payload with comp.
func decompressor(comp Compression, payload []byte, expected uint64) (io.ReadCloser, error) {
	switch comp {
	case CompZIP:
		return openZipEntry(payload, expected)
	case CompZSTD:
		dec, err := newZstdReader(bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case CompLZ4:
		return io.NopCloser(lz4.NewReader(bytes.NewReader(payload))), nil
	case CompBR:
		return io.NopCloser(brotli.NewReader(bytes.NewReader(payload))), nil
	}
	return nil, fmt.Errorf("%w: unknown compression %d", ErrInvalidPayload, uint16(comp))
}

// openZipEntry requires a single entry named map.dat whose declared size
// matches the envelope.
func openZipEntry(payload []byte, expected uint64) (io.ReadCloser, error) {
	zr, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if len(zr.File) != 1 || zr.File[0].Name != zipEntryName {
		return nil, fmt.Errorf("%w: zip must hold exactly %s", ErrInvalidPayload, zipEntryName)
	}
	zf := zr.File[0]
	if zf.UncompressedSize64 != expected {
		return nil, fmt.Errorf("%w: zip entry size %d != %d", ErrInvalidPayload, zf.UncompressedSize64, expected)
	}
	return zipOpen(zf)
}

// unpack reverses pack, refusing to expand beyond the declared length or
// beyond l.MaxUncompressed.
func unpack(b []byte, l Limits) ([]byte, error) {
	if !isPacked(b) || len(b) < packedHeaderSize {
		return nil, fmt.Errorf("%w: missing envelope header", ErrInvalidPayload)
	}
	if uint64(len(b)) > l.MaxPackedSize {
		return nil, fmt.Errorf("%w: packed size %d", ErrLimitExceeded, len(b))
	}
	comp := Compression(binary.LittleEndian.Uint16(b[8:10]))
	if reserved := binary.LittleEndian.Uint16(b[10:12]); reserved != 0 {
		return nil, fmt.Errorf("%w: reserved must be 0", ErrInvalidPayload)
	}
	expected := binary.LittleEndian.Uint64(b[12:20])
	if expected > l.MaxUncompressed {
		return nil, fmt.Errorf("%w: uncompressed length %d exceeds limit", ErrLimitExceeded, expected)
	}

	rc, err := decompressor(comp, b[packedHeaderSize:], expected)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return readExactly(rc, comp, expected)
}

// readExactly reads the unpacked map, which must be exactly expected bytes
// long. At most one byte past expected is inflated before giving up.
func readExactly(r io.Reader, comp Compression, expected uint64) ([]byte, error) {
	out, err := readAll(io.LimitReader(r, int64(expected)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v stream: %w", ErrInvalidPayload, comp, err)
	}
	if uint64(len(out)) != expected {
		return nil, fmt.Errorf("%w: %v unpacked %d bytes, header declares %d", ErrInvalidPayload, comp, len(out), expected)
	}
	return out, nil
}
