package sprite

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// Offset of the pixel rows of the master bitmap relative to the offsets in
// the image table: the bitmap file and image headers plus a 256-color
// palette.
const masterPixelBase = bmpFileHeaderSize + bmpImageHeaderSize + paletteSize

// Loader extracts images from an open master bitmap.
type Loader struct {
	bmp  *os.File
	size int64
	art  *Art
}

// New opens the master bitmap at bmpPath and reads the art file at artPath.
func New(bmpPath, artPath string) (*Loader, error) {
	art, err := ReadArtFile(artPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(bmpPath)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Loader{bmp: f, size: fi.Size(), art: art}, nil
}

// Art returns the decoded art tables.
func (l *Loader) Art() *Art { return l.art }

func (l *Loader) ImageCount() int { return len(l.art.Images) }

// ExtractImage writes image index as an indexed BMP file at outPath.
func (l *Loader) ExtractImage(index int, outPath string) (err error) {
	if err := l.checkIndex(index); err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(outPath)
		}
	}()
	bw := bufio.NewWriter(f)
	if err := l.WriteImage(bw, index); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteImage writes image index as an indexed BMP to w.
func (l *Loader) WriteImage(w io.Writer, index int) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}
	m := l.art.Images[index]
	pal := l.art.Palettes[m.PaletteIndex][:]
	bitCount := uint16(8)
	if m.Shadow() {
		pal = pal[:2]
		bitCount = 1
	}
	width, height := int(m.Width), int(m.Height)
	n := int64(pitch(bitCount, width)) * int64(height)
	off := int64(m.PixelDataOffset) + masterPixelBase
	if off+n > l.size {
		return fmt.Errorf("sprite: image %d pixels at offset %d: %w", index, off, io.ErrUnexpectedEOF)
	}
	pixels := make([]byte, n)
	if _, err := l.bmp.ReadAt(pixels, off); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return fmt.Errorf("sprite: image %d pixels at offset %d: %w", index, off, err)
	}
	return writeIndexedBMP(w, bitCount, width, -height, pal, pixels)
}

func (l *Loader) checkIndex(index int) error {
	if index < 0 || index >= len(l.art.Images) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(l.art.Images))
	}
	return nil
}

func (l *Loader) Close() error { return l.bmp.Close() }
