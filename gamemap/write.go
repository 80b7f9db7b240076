package gamemap

import (
	"bufio"
	"io"
	"math/bits"
	"os"

	"github.com/logicossoftware/go-op2util/internal/binio"
)

// Write validates m and writes it in .map format. With WithCompression the
// output is a packed envelope that Read and ReadSavedGame accept but the
// game itself does not.
func (m *Map) Write(w io.Writer, opts ...WriteOption) error {
	var cfg writeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := m.Validate(); err != nil {
		return err
	}
	if cfg.compression == CompNone {
		bw := bufio.NewWriter(w)
		if err := m.encode(bw); err != nil {
			return err
		}
		return bw.Flush()
	}

	packed, err := pack(cfg.compression, m.encodedSize(), m.encode)
	if err != nil {
		return err
	}
	_, err = w.Write(packed)
	return err
}

// WriteFile writes m to path, replacing any existing file.
func (m *Map) WriteFile(path string, opts ...WriteOption) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return m.Write(f, opts...)
}

// encodedSize is the number of bytes encode writes for m.
func (m *Map) encodedSize() uint64 {
	n := uint64(5*4 + 4*4 + len(tilesetTag) + 4 + 4 + 2*4 + 2*4)
	n += 4 * uint64(len(m.Tiles))
	for _, s := range m.TilesetSources {
		n += 4 + uint64(len(s.Filename))
		if s.Filename != "" {
			n += 4
		}
	}
	n += tileMappingSize * uint64(len(m.TileMappings))
	n += TerrainTypeSize * uint64(len(m.TerrainTypes))
	for _, g := range m.TileGroups {
		n += 2*4 + 4*uint64(len(g.MappingIndices)) + 4 + uint64(len(g.Name))
	}
	return n
}

func (m *Map) encode(out io.Writer) error {
	var lgWidth uint32
	if width := m.WidthInTiles(); width > 0 {
		lgWidth = uint32(bits.TrailingZeros32(width))
	}
	var saved int32
	if m.savedGame {
		saved = 1
	}

	w := binio.NewWriter(out)
	w.U32(m.versionTag)
	w.I32(saved)
	w.U32(lgWidth)
	w.U32(m.heightInTiles)
	w.U32(uint32(len(m.TilesetSources)))
	for _, t := range m.Tiles {
		w.U32(uint32(t))
	}
	w.I32(m.ClipRect.X1)
	w.I32(m.ClipRect.Y1)
	w.I32(m.ClipRect.X2)
	w.I32(m.ClipRect.Y2)

	for _, s := range m.TilesetSources {
		w.U32(uint32(len(s.Filename)))
		w.Write([]byte(s.Filename))
		if s.Filename != "" {
			w.U32(s.NumTiles)
		}
	}
	w.Write(tilesetTag[:])

	w.U32(uint32(len(m.TileMappings)))
	for _, tm := range m.TileMappings {
		w.U16(tm.TilesetIndex)
		w.U16(tm.TileGraphicIndex)
		w.U16(tm.AnimationCount)
		w.U16(tm.AnimationDelay)
	}
	w.U32(uint32(len(m.TerrainTypes)))
	for i := range m.TerrainTypes {
		m.TerrainTypes[i].encode(w)
	}
	w.U32(m.versionTag)
	w.U32(m.versionTag)

	w.U32(uint32(len(m.TileGroups)))
	var unknown uint32
	if n := len(m.TileGroups); n > 0 {
		unknown = uint32(n - 1)
	}
	w.U32(unknown)
	for _, g := range m.TileGroups {
		w.U32(g.TileWidth)
		w.U32(g.TileHeight)
		for _, idx := range g.MappingIndices {
			w.U32(idx)
		}
		w.U32(uint32(len(g.Name)))
		w.Write([]byte(g.Name))
	}
	return w.Err()
}
