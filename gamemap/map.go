package gamemap

import (
	"fmt"
	"slices"
)

// Map is an Outpost 2 map or the map portion of a saved game.
//
// Tiles holds WidthInTiles*HeightInTiles entries in strip order; use the
// coordinate accessors rather than indexing it row-major.
type Map struct {
	Tiles          []Tile
	ClipRect       Rect
	TilesetSources []TilesetSource
	TileMappings   []TileMapping
	TerrainTypes   []TerrainType
	TileGroups     []TileGroup

	versionTag    uint32
	savedGame     bool
	heightInTiles uint32
}

// New returns an empty map tagged with MinVersionTag.
func New() *Map {
	return &Map{versionTag: MinVersionTag}
}

func (m *Map) VersionTag() uint32     { return m.versionTag }
func (m *Map) SetVersionTag(v uint32) { m.versionTag = v }
func (m *Map) IsSavedGame() bool      { return m.savedGame }
func (m *Map) HeightInTiles() uint32  { return m.heightInTiles }

// SetHeightInTiles declares the map height. Width is derived from it and the
// tile count.
func (m *Map) SetHeightInTiles(h uint32) { m.heightInTiles = h }

// WidthInTiles is the tile count divided by the height, or 0 for a map with
// no declared height.
func (m *Map) WidthInTiles() uint32 {
	if m.heightInTiles == 0 {
		return 0
	}
	return uint32(len(m.Tiles)) / m.heightInTiles
}

// CheckMinVersionTag fails if the map's version tag is below required or below
// MinVersionTag.
func (m *Map) CheckMinVersionTag(required uint32) error {
	if err := CheckVersionTag(m.versionTag); err != nil {
		return err
	}
	if m.versionTag < required {
		return fmt.Errorf("%w: tag 0x%X below required 0x%X", ErrVersionTag, m.versionTag, required)
	}
	return nil
}

// CheckVersionTag fails for tags older than MinVersionTag.
func CheckVersionTag(tag uint32) error {
	if tag < MinVersionTag {
		return fmt.Errorf("%w: tag 0x%X below minimum 0x%X", ErrVersionTag, tag, MinVersionTag)
	}
	return nil
}

// TrimTilesetSources drops sources that contribute no tiles.
func (m *Map) TrimTilesetSources() {
	m.TilesetSources = slices.DeleteFunc(m.TilesetSources, TilesetSource.IsEmpty)
}

func checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, i, n)
	}
	return nil
}

func removeAt[T any](s []T, i int) ([]T, error) {
	if err := checkIndex(i, len(s)); err != nil {
		return s, err
	}
	return slices.Delete(s, i, i+1), nil
}

func (m *Map) TileCount() int { return len(m.Tiles) }

func (m *Map) Tile(i int) (Tile, error) {
	if err := checkIndex(i, len(m.Tiles)); err != nil {
		return 0, err
	}
	return m.Tiles[i], nil
}

func (m *Map) SetTile(i int, t Tile) error {
	if err := checkIndex(i, len(m.Tiles)); err != nil {
		return err
	}
	m.Tiles[i] = t
	return nil
}

func (m *Map) AddTile(t Tile) { m.Tiles = append(m.Tiles, t) }

func (m *Map) RemoveTile(i int) (err error) {
	m.Tiles, err = removeAt(m.Tiles, i)
	return err
}

func (m *Map) TilesetSource(i int) (TilesetSource, error) {
	if err := checkIndex(i, len(m.TilesetSources)); err != nil {
		return TilesetSource{}, err
	}
	return m.TilesetSources[i], nil
}

func (m *Map) SetTilesetSource(i int, s TilesetSource) error {
	if err := checkIndex(i, len(m.TilesetSources)); err != nil {
		return err
	}
	m.TilesetSources[i] = s
	return nil
}

func (m *Map) AddTilesetSource(s TilesetSource) {
	m.TilesetSources = append(m.TilesetSources, s)
}

func (m *Map) RemoveTilesetSource(i int) (err error) {
	m.TilesetSources, err = removeAt(m.TilesetSources, i)
	return err
}

func (m *Map) TileMapping(i int) (TileMapping, error) {
	if err := checkIndex(i, len(m.TileMappings)); err != nil {
		return TileMapping{}, err
	}
	return m.TileMappings[i], nil
}

func (m *Map) SetTileMapping(i int, tm TileMapping) error {
	if err := checkIndex(i, len(m.TileMappings)); err != nil {
		return err
	}
	m.TileMappings[i] = tm
	return nil
}

func (m *Map) AddTileMapping(tm TileMapping) {
	m.TileMappings = append(m.TileMappings, tm)
}

func (m *Map) RemoveTileMapping(i int) (err error) {
	m.TileMappings, err = removeAt(m.TileMappings, i)
	return err
}

func (m *Map) TerrainType(i int) (TerrainType, error) {
	if err := checkIndex(i, len(m.TerrainTypes)); err != nil {
		return TerrainType{}, err
	}
	return m.TerrainTypes[i], nil
}

func (m *Map) SetTerrainType(i int, t TerrainType) error {
	if err := checkIndex(i, len(m.TerrainTypes)); err != nil {
		return err
	}
	m.TerrainTypes[i] = t
	return nil
}

func (m *Map) AddTerrainType(t TerrainType) {
	m.TerrainTypes = append(m.TerrainTypes, t)
}

func (m *Map) RemoveTerrainType(i int) (err error) {
	m.TerrainTypes, err = removeAt(m.TerrainTypes, i)
	return err
}

// TileGroup returns the group at i for in-place editing. The pointer is
// invalidated by AddTileGroup and RemoveTileGroup.
func (m *Map) TileGroup(i int) (*TileGroup, error) {
	if err := checkIndex(i, len(m.TileGroups)); err != nil {
		return nil, err
	}
	return &m.TileGroups[i], nil
}

// AddTileGroup appends g and returns its index.
func (m *Map) AddTileGroup(g TileGroup) int {
	m.TileGroups = append(m.TileGroups, g)
	return len(m.TileGroups) - 1
}

func (m *Map) RemoveTileGroup(i int) (err error) {
	m.TileGroups, err = removeAt(m.TileGroups, i)
	return err
}

// tileIndexAt validates (x, y) and resolves it to a storage index. A map
// with no declared height is addressed as a single row.
func (m *Map) tileIndexAt(x, y int) (int, error) {
	if x < 0 || y < 0 {
		return 0, fmt.Errorf("%w: tile (%d, %d)", ErrIndexOutOfRange, x, y)
	}
	h := max(m.heightInTiles, 1)
	if uint64(y) >= uint64(h) {
		return 0, fmt.Errorf("%w: y %d, height %d", ErrIndexOutOfRange, y, m.heightInTiles)
	}
	if w := m.WidthInTiles(); w > 0 && uint64(x) >= uint64(w) {
		return 0, fmt.Errorf("%w: x %d, width %d", ErrIndexOutOfRange, x, w)
	}
	i := TileIndex(x, y, h)
	if err := checkIndex(i, len(m.Tiles)); err != nil {
		return 0, err
	}
	return i, nil
}

func (m *Map) TileAt(x, y int) (Tile, error) {
	i, err := m.tileIndexAt(x, y)
	if err != nil {
		return 0, err
	}
	return m.Tiles[i], nil
}

// updateAt applies fn to the tile at (x, y). The tile is left untouched if
// fn fails.
func (m *Map) updateAt(x, y int, fn func(Tile) (Tile, error)) error {
	i, err := m.tileIndexAt(x, y)
	if err != nil {
		return err
	}
	t, err := fn(m.Tiles[i])
	if err != nil {
		return err
	}
	m.Tiles[i] = t
	return nil
}

func (m *Map) MappingIndexAt(x, y int) (uint32, error) {
	t, err := m.TileAt(x, y)
	return t.MappingIndex(), err
}

func (m *Map) SetMappingIndexAt(x, y int, idx uint32) error {
	return m.updateAt(x, y, func(t Tile) (Tile, error) { return t.WithMappingIndex(idx) })
}

func (m *Map) CellTypeAt(x, y int) (CellType, error) {
	t, err := m.TileAt(x, y)
	return t.CellType(), err
}

func (m *Map) SetCellTypeAt(x, y int, c CellType) error {
	if c > MaxCellType {
		return fmt.Errorf("%w: cell type %d", ErrFieldOverflow, c)
	}
	return m.updateAt(x, y, func(t Tile) (Tile, error) { return t.WithCellType(c) })
}

func (m *Map) LavaPossibleAt(x, y int) (bool, error) {
	t, err := m.TileAt(x, y)
	return t.LavaPossible(), err
}

func (m *Map) SetLavaPossibleAt(x, y int, b bool) error {
	return m.updateAt(x, y, func(t Tile) (Tile, error) { return t.WithLavaPossible(b), nil })
}

func (m *Map) mappingAt(x, y int) (TileMapping, error) {
	idx, err := m.MappingIndexAt(x, y)
	if err != nil {
		return TileMapping{}, err
	}
	return m.TileMapping(int(idx))
}

// TilesetIndexAt resolves the tile's mapping and returns its tileset.
func (m *Map) TilesetIndexAt(x, y int) (uint16, error) {
	tm, err := m.mappingAt(x, y)
	return tm.TilesetIndex, err
}

// ImageIndexAt resolves the tile's mapping and returns its graphic index.
func (m *Map) ImageIndexAt(x, y int) (uint16, error) {
	tm, err := m.mappingAt(x, y)
	return tm.TileGraphicIndex, err
}
