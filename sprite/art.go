package sprite

import (
	"bytes"
	"fmt"
	"image/color"
	"os"

	"github.com/logicossoftware/go-op2util/internal/binio"
)

var (
	tagPalette        = [4]byte{'C', 'P', 'A', 'L'}
	tagPaletteSection = [4]byte{'P', 'P', 'A', 'L'}
	tagPaletteHeader  = [4]byte{'h', 'e', 'a', 'd'}
	tagPaletteData    = [4]byte{'d', 'a', 't', 'a'}
)

const (
	sectionHeaderSize = 8
	paletteHeaderSize = 4 + 3*sectionHeaderSize
	paletteColors     = 256
	paletteSize       = paletteColors * 4
	imageMetaSize     = 20

	shadowBit = 1 << 2
)

// Palette is one 256-color art palette.
type Palette [paletteColors]color.RGBA

// ImageMeta locates one image inside the master bitmap.
type ImageMeta struct {
	ScanLineByteWidth uint32
	PixelDataOffset   uint32
	Height            uint32
	Width             uint32
	Type              uint16
	PaletteIndex      uint16
}

// Shadow reports whether the image is a 1 bit per pixel shadow mask.
func (m ImageMeta) Shadow() bool { return m.Type&shadowBit != 0 }

// Art is the decoded palette and image tables of an art file. Animation
// records that follow the image table are not decoded.
type Art struct {
	Palettes []Palette
	Images   []ImageMeta
}

// ReadArtFile reads and validates the art file at path.
func ReadArtFile(path string) (*Art, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseArt(data)
}

// ParseArt decodes the palettes and image metadata of an art file.
func ParseArt(data []byte) (*Art, error) {
	r := binio.NewReader(bytes.NewReader(data))
	remaining := func() int64 { return int64(len(data)) - r.Offset() }

	if tag := r.Tag(); r.Err() == nil && tag != tagPalette {
		return nil, fmt.Errorf("%w: palette tag %q", ErrInvalidArt, tag[:])
	}
	paletteCount := r.U32()
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArt, err)
	}
	if int64(paletteCount) > remaining()/(paletteHeaderSize+paletteSize) {
		return nil, fmt.Errorf("%w: palette count %d exceeds file size", ErrInvalidArt, paletteCount)
	}

	art := &Art{Palettes: make([]Palette, paletteCount)}
	for i := range art.Palettes {
		if err := readPaletteHeader(r); err != nil {
			return nil, fmt.Errorf("%w: palette %d: %w", ErrInvalidArt, i, err)
		}
		raw := r.Bytes(paletteSize)
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("%w: palette %d: %w", ErrInvalidArt, i, err)
		}
		// Colors are stored red first; BMP palettes store blue first.
		p := &art.Palettes[i]
		for c := range p {
			b := raw[c*4:]
			p[c] = color.RGBA{R: b[0], G: b[1], B: b[2], A: b[3]}
		}
	}

	imageCount := r.U32()
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("%w: image count: %w", ErrInvalidArt, err)
	}
	if int64(imageCount) > remaining()/imageMetaSize {
		return nil, fmt.Errorf("%w: image count %d exceeds file size", ErrInvalidArt, imageCount)
	}
	art.Images = make([]ImageMeta, imageCount)
	for i := range art.Images {
		m := &art.Images[i]
		m.ScanLineByteWidth = r.U32()
		m.PixelDataOffset = r.U32()
		m.Height = r.U32()
		m.Width = r.U32()
		m.Type = r.U16()
		m.PaletteIndex = r.U16()
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("%w: image table: %w", ErrInvalidArt, err)
	}
	if err := art.validate(); err != nil {
		return nil, err
	}
	return art, nil
}

func readPaletteHeader(r *binio.Reader) error {
	overallTag, overallLen := r.Tag(), r.U32()
	headTag, headLen := r.Tag(), r.U32()
	_ = r.U32() // remaining tag count
	dataTag, dataLen := r.Tag(), r.U32()
	if err := r.Err(); err != nil {
		return err
	}
	switch {
	case overallTag != tagPaletteSection:
		return fmt.Errorf("section tag %q", overallTag[:])
	case headTag != tagPaletteHeader:
		return fmt.Errorf("header tag %q", headTag[:])
	case dataTag != tagPaletteData:
		return fmt.Errorf("data tag %q", dataTag[:])
	}
	want := uint64(sectionHeaderSize) + uint64(headLen) + sectionHeaderSize + 4 + uint64(dataLen) + sectionHeaderSize
	if uint64(overallLen) != want {
		return fmt.Errorf("section length %d does not match its parts (%d)", overallLen, want)
	}
	if dataLen != paletteSize {
		return fmt.Errorf("palette data length %d", dataLen)
	}
	return nil
}

func (a *Art) validate() error {
	for i, m := range a.Images {
		if m.ScanLineByteWidth != (m.Width+3)&^3 {
			return fmt.Errorf("%w: image %d: scan line width %d for width %d", ErrInvalidArt, i, m.ScanLineByteWidth, m.Width)
		}
		if int(m.PaletteIndex) >= len(a.Palettes) {
			return fmt.Errorf("%w: image %d: palette index %d of %d", ErrInvalidArt, i, m.PaletteIndex, len(a.Palettes))
		}
	}
	return nil
}
