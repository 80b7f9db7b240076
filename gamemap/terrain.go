package gamemap

import (
	"bytes"
	"fmt"

	"github.com/logicossoftware/go-op2util/internal/binio"
)

// TerrainTypeSize is the fixed encoded size of a TerrainType.
const TerrainTypeSize = 264

// Range16 is an inclusive range of tile mapping indices.
type Range16 struct {
	Start, End uint16
}

// TerrainType groups the tile mappings that make up one terrain, such as the
// wall, tube and lava variants drawn over it. Every field is a tile mapping
// index.
type TerrainType struct {
	TileMappingRange Range16
	Bulldozed        uint16
	Rubble           uint16
	TubeTiles        [6]uint16
	Walls            [5][16]uint16
	Lava             uint16
	Flat1            uint16
	Flat2            uint16
	Flat3            uint16
	Tubes            [16]uint16
	Scorched         uint16
	ScorchedRange    [3]Range16
	Unknown          [15]int16
}

func (t *TerrainType) encode(w *binio.Writer) {
	w.U16(t.TileMappingRange.Start)
	w.U16(t.TileMappingRange.End)
	w.U16(t.Bulldozed)
	w.U16(t.Rubble)
	for _, v := range t.TubeTiles {
		w.U16(v)
	}
	for i := range t.Walls {
		for _, v := range t.Walls[i] {
			w.U16(v)
		}
	}
	w.U16(t.Lava)
	w.U16(t.Flat1)
	w.U16(t.Flat2)
	w.U16(t.Flat3)
	for _, v := range t.Tubes {
		w.U16(v)
	}
	w.U16(t.Scorched)
	for _, r := range t.ScorchedRange {
		w.U16(r.Start)
		w.U16(r.End)
	}
	for _, v := range t.Unknown {
		w.U16(uint16(v))
	}
}

func (t *TerrainType) decode(r *binio.Reader) {
	t.TileMappingRange = Range16{r.U16(), r.U16()}
	t.Bulldozed = r.U16()
	t.Rubble = r.U16()
	for i := range t.TubeTiles {
		t.TubeTiles[i] = r.U16()
	}
	for i := range t.Walls {
		for j := range t.Walls[i] {
			t.Walls[i][j] = r.U16()
		}
	}
	t.Lava = r.U16()
	t.Flat1 = r.U16()
	t.Flat2 = r.U16()
	t.Flat3 = r.U16()
	for i := range t.Tubes {
		t.Tubes[i] = r.U16()
	}
	t.Scorched = r.U16()
	for i := range t.ScorchedRange {
		t.ScorchedRange[i] = Range16{r.U16(), r.U16()}
	}
	for i := range t.Unknown {
		t.Unknown[i] = int16(r.U16())
	}
}

// MarshalBinary returns the 264-byte little-endian record.
func (t TerrainType) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(TerrainTypeSize)
	w := binio.NewWriter(&buf)
	t.encode(w)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a record produced by MarshalBinary.
func (t *TerrainType) UnmarshalBinary(b []byte) error {
	if len(b) != TerrainTypeSize {
		return fmt.Errorf("%w: terrain type is %d bytes, want %d", ErrInvalidMap, len(b), TerrainTypeSize)
	}
	r := binio.NewReader(bytes.NewReader(b))
	t.decode(r)
	return r.Err()
}
