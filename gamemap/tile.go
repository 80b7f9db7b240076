package gamemap

import "fmt"

// Tile is the per-cell record stored in a map, laid out least significant
// bit first:
//
//	bits  0-4   cell type
//	bits  5-15  tile mapping index
//	bits 16-26  unit index
//	bit  27     lava
//	bit  28     lava possible
//	bit  29     expansion
//	bit  30     microbe
//	bit  31     wall or building
//
// The uint32 value is also the on-disk and boundary representation.
type Tile uint32

type tileField struct {
	name  string
	shift uint
	width uint
}

var (
	fieldCellType       = tileField{"cell type", 0, 5}
	fieldMappingIndex   = tileField{"tile mapping index", 5, 11}
	fieldUnitIndex      = tileField{"unit index", 16, 11}
	fieldLava           = tileField{"lava", 27, 1}
	fieldLavaPossible   = tileField{"lava possible", 28, 1}
	fieldExpansion      = tileField{"expansion", 29, 1}
	fieldMicrobe        = tileField{"microbe", 30, 1}
	fieldWallOrBuilding = tileField{"wall or building", 31, 1}
)

func (f tileField) mask() uint32 { return (1<<f.width - 1) << f.shift }

func (f tileField) get(t Tile) uint32 {
	return (uint32(t) & f.mask()) >> f.shift
}

func (f tileField) set(t Tile, v uint32) (Tile, error) {
	if v > 1<<f.width-1 {
		return t, fmt.Errorf("%w: %s %d exceeds %d bits", ErrFieldOverflow, f.name, v, f.width)
	}
	return Tile(uint32(t)&^f.mask() | v<<f.shift), nil
}

func (f tileField) setBool(t Tile, b bool) Tile {
	var v uint32
	if b {
		v = 1
	}
	out, _ := f.set(t, v)
	return out
}

func (t Tile) CellType() CellType   { return CellType(fieldCellType.get(t)) }
func (t Tile) MappingIndex() uint32 { return fieldMappingIndex.get(t) }
func (t Tile) UnitIndex() uint32    { return fieldUnitIndex.get(t) }
func (t Tile) Lava() bool           { return fieldLava.get(t) != 0 }
func (t Tile) LavaPossible() bool   { return fieldLavaPossible.get(t) != 0 }
func (t Tile) Expansion() bool      { return fieldExpansion.get(t) != 0 }
func (t Tile) Microbe() bool        { return fieldMicrobe.get(t) != 0 }
func (t Tile) WallOrBuilding() bool { return fieldWallOrBuilding.get(t) != 0 }

// WithCellType returns t with its cell type replaced. Values above
// MaxCellType are rejected.
func (t Tile) WithCellType(c CellType) (Tile, error) {
	return fieldCellType.set(t, uint32(c))
}

// WithMappingIndex returns t with its tile mapping index replaced. The field
// holds 11 bits.
func (t Tile) WithMappingIndex(i uint32) (Tile, error) {
	return fieldMappingIndex.set(t, i)
}

func (t Tile) WithUnitIndex(i uint32) (Tile, error) {
	return fieldUnitIndex.set(t, i)
}

func (t Tile) WithLava(b bool) Tile           { return fieldLava.setBool(t, b) }
func (t Tile) WithLavaPossible(b bool) Tile   { return fieldLavaPossible.setBool(t, b) }
func (t Tile) WithExpansion(b bool) Tile      { return fieldExpansion.setBool(t, b) }
func (t Tile) WithMicrobe(b bool) Tile        { return fieldMicrobe.setBool(t, b) }
func (t Tile) WithWallOrBuilding(b bool) Tile { return fieldWallOrBuilding.setBool(t, b) }

// TileIndex returns the storage index of tile (x, y) in a map that is height
// tiles tall. Tiles are stored in strips 32 columns wide: every row of one
// strip precedes the next strip.
func TileIndex(x, y int, height uint32) int {
	lowerX := x & 0x1F
	upperX := x >> 5
	return (upperX*int(height)+y)*32 + lowerX
}
