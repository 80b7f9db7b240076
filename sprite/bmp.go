package sprite

import (
	"fmt"
	"image/color"
	"io"

	"github.com/logicossoftware/go-op2util/internal/binio"
)

const (
	bmpFileHeaderSize  = 14
	bmpImageHeaderSize = 40
)

// pitch is the byte width of one pixel row padded to 4 bytes.
func pitch(bitCount uint16, width int) int {
	return ((width*int(bitCount)+7)/8 + 3) &^ 3
}

// writeIndexedBMP writes an uncompressed indexed bitmap. A negative height
// stores the rows top-down. pixels holds |height| rows of pitch bytes each;
// the palette is padded with zero entries to 1<<bitCount colors.
func writeIndexedBMP(w io.Writer, bitCount uint16, width, height int, palette []color.RGBA, pixels []byte) error {
	switch bitCount {
	case 1, 2, 4, 8:
	default:
		return fmt.Errorf("sprite: unsupported indexed bit count %d", bitCount)
	}
	colors := 1 << bitCount
	if len(palette) > colors {
		return fmt.Errorf("sprite: %d palette entries exceed %d bit color depth", len(palette), bitCount)
	}
	rows := height
	if rows < 0 {
		rows = -rows
	}
	p := pitch(bitCount, width)
	if len(pixels) != p*rows {
		return fmt.Errorf("sprite: %d pixel bytes for %dx%d image with pitch %d", len(pixels), width, rows, p)
	}

	pixelOffset := bmpFileHeaderSize + bmpImageHeaderSize + colors*4
	bw := binio.NewWriter(w)
	bw.Write([]byte("BM"))
	bw.U32(uint32(pixelOffset + len(pixels)))
	bw.U16(0)
	bw.U16(0)
	bw.U32(uint32(pixelOffset))

	bw.U32(bmpImageHeaderSize)
	bw.I32(int32(width))
	bw.I32(int32(height))
	bw.U16(1) // planes
	bw.U16(bitCount)
	bw.Zeros(24) // compression, image size, resolution, color counts

	for i := range colors {
		var c color.RGBA
		if i < len(palette) {
			c = palette[i]
		}
		bw.Write([]byte{c.B, c.G, c.R, c.A})
	}
	bw.Write(pixels)
	return bw.Err()
}
