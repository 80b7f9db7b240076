package gamemap

const (
	// MinVersionTag is the oldest version tag accepted in .map and .op2 files.
	MinVersionTag     uint32 = 0x1010
	// CurrentVersionTag is the tag written by the current game release.
	CurrentVersionTag uint32 = 0x1011

	savedGameSkip   = 0x1E025
	maxTilesetName  = 8
	savedUnitSize   = 120
	savedUnitCount  = 2047
	savedFreeCount  = 2048
	savedObjectSize = 512
)

var tilesetTag = [10]byte{'T', 'I', 'L', 'E', ' ', 'S', 'E', 'T', 0x1A, 0}

// CellType determines movement speed and passability of a tile.
type CellType uint8

const (
	FastPassible1 CellType = iota // Rock vegetation
	Impassible2                   // Meteor craters, cracks, crevasses
	SlowPassible1                 // Lava rock (dark)
	SlowPassible2                 // Rippled dirt, lava rock bumps
	MediumPassible1               // Dirt
	MediumPassible2               // Lava rock
	Impassible1                   // Dirt/rock/lava rock mounds, ice cap plateaus
	FastPassible2                 // Rock
	NorthCliffs
	CliffsHighSide
	CliffsLowSide
	VentsAndFumaroles
	zPad12
	zPad13
	zPad14
	zPad15
	zPad16
	zPad17
	zPad18
	zPad19
	zPad20
	DozedArea
	Rubble
	NormalWall
	MicrobeWall
	LavaWall
	Tube0
	Tube1
	Tube2
	Tube3
	Tube4
	Tube5
)

// MaxCellType is the largest valid cell type.
const MaxCellType = Tube5

// Rect is the visible area of a map. Maps that wrap around the world use
// X1 = -1 and X2 = math.MaxInt32.
type Rect struct {
	X1, Y1, X2, Y2 int32
}

// TilesetSource names a tileset art file and how many tiles it contributes.
type TilesetSource struct {
	Filename string
	NumTiles uint32
}

// IsEmpty reports whether the source contributes no tiles.
func (s TilesetSource) IsEmpty() bool {
	return s.NumTiles == 0 || s.Filename == ""
}

// TileGroup is a named rectangle of tile mapping indices, such as a
// multi-tile building footprint. MappingIndices has TileWidth*TileHeight
// entries when the group is well formed.
type TileGroup struct {
	Name           string
	TileWidth      uint32
	TileHeight     uint32
	MappingIndices []uint32
}

func (g *TileGroup) MappingIndexCount() int { return len(g.MappingIndices) }

func (g *TileGroup) MappingIndex(i int) (uint32, error) {
	if err := checkIndex(i, len(g.MappingIndices)); err != nil {
		return 0, err
	}
	return g.MappingIndices[i], nil
}

func (g *TileGroup) SetMappingIndex(i int, v uint32) error {
	if err := checkIndex(i, len(g.MappingIndices)); err != nil {
		return err
	}
	g.MappingIndices[i] = v
	return nil
}

func (g *TileGroup) AddMappingIndex(v uint32) {
	g.MappingIndices = append(g.MappingIndices, v)
}

func (g *TileGroup) RemoveMappingIndex(i int) error {
	var err error
	g.MappingIndices, err = removeAt(g.MappingIndices, i)
	return err
}
