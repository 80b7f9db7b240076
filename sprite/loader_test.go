package sprite

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"
)

type testImage struct {
	ScanLine, Offset, Height, Width uint32
	Type, Palette                   uint16
}

func paletteHeader(dataLen uint32) []byte {
	var b bytes.Buffer
	b.WriteString("PPAL")
	binary.Write(&b, binary.LittleEndian, uint32(8+12+4+8+dataLen))
	b.WriteString("head")
	binary.Write(&b, binary.LittleEndian, uint32(4))
	binary.Write(&b, binary.LittleEndian, uint32(1))
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, dataLen)
	return b.Bytes()
}

// artBytes builds an art file with the given palettes; palette p stores
// color i as the bytes (i, 255-i, p, 0x80).
func artBytes(palettes int, images []testImage) []byte {
	var b bytes.Buffer
	b.WriteString("CPAL")
	binary.Write(&b, binary.LittleEndian, uint32(palettes))
	for p := 0; p < palettes; p++ {
		b.Write(paletteHeader(paletteSize))
		for i := 0; i < paletteColors; i++ {
			b.Write([]byte{byte(i), byte(255 - i), byte(p), 0x80})
		}
	}
	binary.Write(&b, binary.LittleEndian, uint32(len(images)))
	for _, im := range images {
		binary.Write(&b, binary.LittleEndian, im)
	}
	// Animation counts, which are not decoded.
	b.Write(make([]byte, 16))
	return b.Bytes()
}

var sampleImages = []testImage{
	{ScanLine: 4, Offset: 0, Height: 2, Width: 3, Type: 0, Palette: 1},
	{ScanLine: 12, Offset: 8, Height: 2, Width: 10, Type: shadowBit, Palette: 0},
}

var samplePixels = []byte{
	1, 2, 3, 0,
	4, 5, 6, 0,
	0xAA, 0x80, 0, 0,
	0x55, 0x40, 0, 0,
}

func writeFixture(t *testing.T, art []byte) (bmpPath, artPath string) {
	t.Helper()
	dir := t.TempDir()
	bmpPath = filepath.Join(dir, "op2_art.bmp")
	artPath = filepath.Join(dir, "op2_art.prt")
	master := append(make([]byte, masterPixelBase), samplePixels...)
	if err := os.WriteFile(bmpPath, master, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(artPath, art, 0o644); err != nil {
		t.Fatal(err)
	}
	return bmpPath, artPath
}

func openSample(t *testing.T) *Loader {
	t.Helper()
	bmpPath, artPath := writeFixture(t, artBytes(2, sampleImages))
	l, err := New(bmpPath, artPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

type bmpHeader struct {
	Magic       [2]byte
	FileSize    uint32
	Reserved    uint32
	PixelOffset uint32
	HeaderSize  uint32
	Width       int32
	Height      int32
	Planes      uint16
	BitCount    uint16
	Rest        [24]byte
}

func parseBMP(t *testing.T, data []byte) bmpHeader {
	t.Helper()
	var h bmpHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &h); err != nil {
		t.Fatal(err)
	}
	if string(h.Magic[:]) != "BM" || h.HeaderSize != 40 || h.Planes != 1 || h.Rest != [24]byte{} {
		t.Fatalf("bad header %+v", h)
	}
	if int(h.FileSize) != len(data) {
		t.Fatalf("file size field %d, actual %d", h.FileSize, len(data))
	}
	return h
}

func TestParseArt(t *testing.T) {
	art, err := ParseArt(artBytes(2, sampleImages))
	if err != nil {
		t.Fatal(err)
	}
	if len(art.Palettes) != 2 || len(art.Images) != 2 {
		t.Fatalf("palettes=%d images=%d", len(art.Palettes), len(art.Images))
	}
	if c := art.Palettes[1][3]; c.R != 3 || c.G != 252 || c.B != 1 || c.A != 0x80 {
		t.Fatalf("color %+v", c)
	}
	if art.Images[0].Shadow() || !art.Images[1].Shadow() {
		t.Fatal("shadow flags")
	}
	if got := art.Images[1]; got.Width != 10 || got.PixelDataOffset != 8 {
		t.Fatalf("meta %+v", got)
	}
}

func TestExtractIndexedImage(t *testing.T) {
	l := openSample(t)
	if l.ImageCount() != 2 {
		t.Fatalf("ImageCount=%d", l.ImageCount())
	}
	out := filepath.Join(t.TempDir(), "img0.bmp")
	if err := l.ExtractImage(0, out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	h := parseBMP(t, data)
	if h.PixelOffset != 14+40+1024 || h.Width != 3 || h.Height != -2 || h.BitCount != 8 {
		t.Fatalf("header %+v", h)
	}
	// Palette 1, color 1 stored as (1, 254, 1, 0x80) is written blue first.
	entry := data[54+4 : 54+8]
	if !bytes.Equal(entry, []byte{1, 254, 1, 0x80}) {
		t.Fatalf("palette entry % x", entry)
	}
	entry = data[54+4*7 : 54+4*8]
	if !bytes.Equal(entry, []byte{1, 248, 7, 0x80}) {
		t.Fatalf("palette entry 7 % x", entry)
	}
	if !bytes.Equal(data[h.PixelOffset:], samplePixels[:8]) {
		t.Fatalf("pixels % x", data[h.PixelOffset:])
	}
}

func TestExtractShadowImage(t *testing.T) {
	l := openSample(t)
	var buf bytes.Buffer
	if err := l.WriteImage(&buf, 1); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	h := parseBMP(t, data)
	if h.PixelOffset != 14+40+8 || h.Width != 10 || h.Height != -2 || h.BitCount != 1 {
		t.Fatalf("header %+v", h)
	}
	if !bytes.Equal(data[54:62], []byte{0, 255, 0, 0x80, 0, 254, 1, 0x80}) {
		t.Fatalf("palette % x", data[54:62])
	}
	if !bytes.Equal(data[h.PixelOffset:], samplePixels[8:]) {
		t.Fatalf("pixels % x", data[h.PixelOffset:])
	}
}

func TestExtractImageOutOfRange(t *testing.T) {
	l := openSample(t)
	out := filepath.Join(t.TempDir(), "none.bmp")
	for _, i := range []int{-1, 2} {
		if err := l.ExtractImage(i, out); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("index %d: expected ErrIndexOutOfRange, got %v", i, err)
		}
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("output created: %v", err)
	}
}

func TestExtractImagePastBitmapEnd(t *testing.T) {
	images := []testImage{{ScanLine: 4, Offset: 12, Height: 2, Width: 4}}
	bmpPath, artPath := writeFixture(t, artBytes(1, images))
	l, err := New(bmpPath, artPath)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	out := filepath.Join(t.TempDir(), "short.bmp")
	if err := l.ExtractImage(0, out); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("partial output left behind: %v", err)
	}
}

func TestParseArtRejects(t *testing.T) {
	valid := artBytes(1, sampleImages[1:])
	badTag := bytes.Clone(valid)
	copy(badTag, "XPAL")
	badSection := bytes.Clone(valid)
	copy(badSection[8:], "QPAL")
	badLength := bytes.Clone(valid)
	binary.LittleEndian.PutUint32(badLength[12:], 1)
	hugeCount := bytes.Clone(valid)
	binary.LittleEndian.PutUint32(hugeCount[4:], 1000)

	cases := map[string][]byte{
		"empty":          nil,
		"palette tag":    badTag,
		"section tag":    badSection,
		"section length": badLength,
		"palette count":  hugeCount,
		"truncated":      valid[:100],
		"scan line":      artBytes(1, []testImage{{ScanLine: 3, Height: 1, Width: 3}}),
		"palette index":  artBytes(1, []testImage{{ScanLine: 4, Height: 1, Width: 4, Palette: 1}}),
		"image count":    artBytes(1, nil)[:8+paletteHeaderSize+paletteSize+2],
	}
	for name, data := range cases {
		if _, err := ParseArt(data); !errors.Is(err, ErrInvalidArt) {
			t.Fatalf("%s: expected ErrInvalidArt, got %v", name, err)
		}
	}
}

func TestNewErrors(t *testing.T) {
	bmpPath, artPath := writeFixture(t, artBytes(1, nil))
	if _, err := New(bmpPath, filepath.Join(t.TempDir(), "missing.prt")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing art: %v", err)
	}
	if _, err := New(filepath.Join(t.TempDir(), "missing.bmp"), artPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing bmp: %v", err)
	}
}

func TestWriteIndexedBMPRejects(t *testing.T) {
	if err := writeIndexedBMP(io.Discard, 24, 1, 1, nil, make([]byte, 4)); err == nil {
		t.Fatal("expected bit count error")
	}
	if err := writeIndexedBMP(io.Discard, 1, 1, 1, make([]color.RGBA, 3), make([]byte, 4)); err == nil {
		t.Fatal("expected palette size error")
	}
	if err := writeIndexedBMP(io.Discard, 8, 5, -2, nil, make([]byte, 8)); err == nil {
		t.Fatal("expected pixel size error")
	}
}
