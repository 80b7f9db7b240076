package op2util

import (
	"bytes"

	"github.com/logicossoftware/go-op2util/gamemap"
)

// NewMap returns a handle to an empty map.
func (b *Bridge) NewMap() Handle {
	return b.maps.Insert(gamemap.New())
}

func (b *Bridge) readOpts() []gamemap.ReadOption {
	return []gamemap.ReadOption{gamemap.WithReadLimits(b.limits.Map)}
}

// ReadMapFile parses the map, or packed map, at path.
func (b *Bridge) ReadMapFile(path string) (h Handle, err error) {
	defer b.done("ReadMapFile", &err)
	m, err := gamemap.ReadFile(path, b.readOpts()...)
	if err != nil {
		return Null, err
	}
	return b.maps.Insert(m), nil
}

// ReadMap parses a map held in memory. data is not retained.
func (b *Bridge) ReadMap(data []byte) (h Handle, err error) {
	defer b.done("ReadMap", &err)
	m, err := gamemap.Read(bytes.NewReader(data), b.readOpts()...)
	if err != nil {
		return Null, err
	}
	return b.maps.Insert(m), nil
}

func (b *Bridge) ReadSavedGameFile(path string) (h Handle, err error) {
	defer b.done("ReadSavedGameFile", &err)
	m, err := gamemap.ReadSavedGameFile(path, b.readOpts()...)
	if err != nil {
		return Null, err
	}
	return b.maps.Insert(m), nil
}

func (b *Bridge) ReadSavedGame(data []byte) (h Handle, err error) {
	defer b.done("ReadSavedGame", &err)
	m, err := gamemap.ReadSavedGame(bytes.NewReader(data), b.readOpts()...)
	if err != nil {
		return Null, err
	}
	return b.maps.Insert(m), nil
}

func (b *Bridge) ReleaseMap(h Handle) (err error) {
	defer b.done("ReleaseMap", &err)
	_, err = remove(b.maps, h)
	return err
}

// Map resolves h for direct use by Go callers.
func (b *Bridge) Map(h Handle) (*gamemap.Map, error) {
	return lookup(b.maps, h)
}

// withMap resolves h and runs fn on the map.
func (b *Bridge) withMap(op string, h Handle, fn func(*gamemap.Map) error) (err error) {
	defer b.done(op, &err)
	m, err := lookup(b.maps, h)
	if err != nil {
		return err
	}
	return fn(m)
}

func (b *Bridge) WriteMap(h Handle, path string) error {
	return b.withMap("WriteMap", h, func(m *gamemap.Map) error {
		return m.WriteFile(path)
	})
}

// WriteMapPacked writes the map wrapped in a compressed envelope.
func (b *Bridge) WriteMapPacked(h Handle, path string, comp gamemap.Compression) error {
	return b.withMap("WriteMapPacked", h, func(m *gamemap.Map) error {
		return m.WriteFile(path, gamemap.WithCompression(comp))
	})
}

// Tiles

func (b *Bridge) TileCount(h Handle) (n int, err error) {
	err = b.withMap("TileCount", h, func(m *gamemap.Map) error {
		n = m.TileCount()
		return nil
	})
	return n, err
}

func (b *Bridge) Tile(h Handle, i int) (t gamemap.Tile, err error) {
	err = b.withMap("Tile", h, func(m *gamemap.Map) error {
		t, err = m.Tile(i)
		return err
	})
	return t, err
}

func (b *Bridge) SetTile(h Handle, i int, t gamemap.Tile) error {
	return b.withMap("SetTile", h, func(m *gamemap.Map) error { return m.SetTile(i, t) })
}

func (b *Bridge) AddTile(h Handle, t gamemap.Tile) error {
	return b.withMap("AddTile", h, func(m *gamemap.Map) error {
		m.AddTile(t)
		return nil
	})
}

func (b *Bridge) RemoveTile(h Handle, i int) error {
	return b.withMap("RemoveTile", h, func(m *gamemap.Map) error { return m.RemoveTile(i) })
}

// Clip rectangle

func (b *Bridge) ClipRect(h Handle) (r gamemap.Rect, err error) {
	err = b.withMap("ClipRect", h, func(m *gamemap.Map) error {
		r = m.ClipRect
		return nil
	})
	return r, err
}

// UpdateClipRect applies fn to the map's clip rectangle.
func (b *Bridge) UpdateClipRect(h Handle, fn func(*gamemap.Rect)) error {
	return b.withMap("UpdateClipRect", h, func(m *gamemap.Map) error {
		fn(&m.ClipRect)
		return nil
	})
}

// Tileset sources

func (b *Bridge) TilesetSourceCount(h Handle) (n int, err error) {
	err = b.withMap("TilesetSourceCount", h, func(m *gamemap.Map) error {
		n = len(m.TilesetSources)
		return nil
	})
	return n, err
}

func (b *Bridge) TilesetSource(h Handle, i int) (s gamemap.TilesetSource, err error) {
	err = b.withMap("TilesetSource", h, func(m *gamemap.Map) error {
		s, err = m.TilesetSource(i)
		return err
	})
	return s, err
}

func (b *Bridge) SetTilesetSource(h Handle, i int, s gamemap.TilesetSource) error {
	return b.withMap("SetTilesetSource", h, func(m *gamemap.Map) error { return m.SetTilesetSource(i, s) })
}

// SetTilesetFilename replaces the filename of source i, keeping its tile count.
func (b *Bridge) SetTilesetFilename(h Handle, i int, name string) error {
	return b.withMap("SetTilesetFilename", h, func(m *gamemap.Map) error {
		s, err := m.TilesetSource(i)
		if err != nil {
			return err
		}
		s.Filename = name
		return m.SetTilesetSource(i, s)
	})
}

func (b *Bridge) SetTilesetNumTiles(h Handle, i int, n uint32) error {
	return b.withMap("SetTilesetNumTiles", h, func(m *gamemap.Map) error {
		s, err := m.TilesetSource(i)
		if err != nil {
			return err
		}
		s.NumTiles = n
		return m.SetTilesetSource(i, s)
	})
}

func (b *Bridge) AddTilesetSource(h Handle, s gamemap.TilesetSource) error {
	return b.withMap("AddTilesetSource", h, func(m *gamemap.Map) error {
		m.AddTilesetSource(s)
		return nil
	})
}

func (b *Bridge) RemoveTilesetSource(h Handle, i int) error {
	return b.withMap("RemoveTilesetSource", h, func(m *gamemap.Map) error { return m.RemoveTilesetSource(i) })
}

func (b *Bridge) TrimTilesetSources(h Handle) error {
	return b.withMap("TrimTilesetSources", h, func(m *gamemap.Map) error {
		m.TrimTilesetSources()
		return nil
	})
}

// Tile mappings

func (b *Bridge) TileMappingCount(h Handle) (n int, err error) {
	err = b.withMap("TileMappingCount", h, func(m *gamemap.Map) error {
		n = len(m.TileMappings)
		return nil
	})
	return n, err
}

func (b *Bridge) TileMapping(h Handle, i int) (tm gamemap.TileMapping, err error) {
	err = b.withMap("TileMapping", h, func(m *gamemap.Map) error {
		tm, err = m.TileMapping(i)
		return err
	})
	return tm, err
}

func (b *Bridge) SetTileMapping(h Handle, i int, tm gamemap.TileMapping) error {
	return b.withMap("SetTileMapping", h, func(m *gamemap.Map) error { return m.SetTileMapping(i, tm) })
}

func (b *Bridge) AddTileMapping(h Handle, tm gamemap.TileMapping) error {
	return b.withMap("AddTileMapping", h, func(m *gamemap.Map) error {
		m.AddTileMapping(tm)
		return nil
	})
}

func (b *Bridge) RemoveTileMapping(h Handle, i int) error {
	return b.withMap("RemoveTileMapping", h, func(m *gamemap.Map) error { return m.RemoveTileMapping(i) })
}

// Terrain types

func (b *Bridge) TerrainTypeCount(h Handle) (n int, err error) {
	err = b.withMap("TerrainTypeCount", h, func(m *gamemap.Map) error {
		n = len(m.TerrainTypes)
		return nil
	})
	return n, err
}

func (b *Bridge) TerrainType(h Handle, i int) (tt gamemap.TerrainType, err error) {
	err = b.withMap("TerrainType", h, func(m *gamemap.Map) error {
		tt, err = m.TerrainType(i)
		return err
	})
	return tt, err
}

func (b *Bridge) SetTerrainType(h Handle, i int, tt gamemap.TerrainType) error {
	return b.withMap("SetTerrainType", h, func(m *gamemap.Map) error { return m.SetTerrainType(i, tt) })
}

func (b *Bridge) AddTerrainType(h Handle, tt gamemap.TerrainType) error {
	return b.withMap("AddTerrainType", h, func(m *gamemap.Map) error {
		m.AddTerrainType(tt)
		return nil
	})
}

func (b *Bridge) RemoveTerrainType(h Handle, i int) error {
	return b.withMap("RemoveTerrainType", h, func(m *gamemap.Map) error { return m.RemoveTerrainType(i) })
}

// Tile groups

func (b *Bridge) TileGroupCount(h Handle) (n int, err error) {
	err = b.withMap("TileGroupCount", h, func(m *gamemap.Map) error {
		n = len(m.TileGroups)
		return nil
	})
	return n, err
}

// withGroup resolves group g of map h and runs fn on it in place.
func (b *Bridge) withGroup(op string, h Handle, g int, fn func(*gamemap.TileGroup) error) error {
	return b.withMap(op, h, func(m *gamemap.Map) error {
		tg, err := m.TileGroup(g)
		if err != nil {
			return err
		}
		return fn(tg)
	})
}

// TileGroup returns a copy of group g.
func (b *Bridge) TileGroup(h Handle, g int) (tg gamemap.TileGroup, err error) {
	err = b.withGroup("TileGroup", h, g, func(p *gamemap.TileGroup) error {
		tg = *p
		tg.MappingIndices = append([]uint32(nil), p.MappingIndices...)
		return nil
	})
	return tg, err
}

func (b *Bridge) SetTileGroupName(h Handle, g int, name string) error {
	return b.withGroup("SetTileGroupName", h, g, func(tg *gamemap.TileGroup) error {
		tg.Name = name
		return nil
	})
}

func (b *Bridge) SetTileGroupWidth(h Handle, g int, w uint32) error {
	return b.withGroup("SetTileGroupWidth", h, g, func(tg *gamemap.TileGroup) error {
		tg.TileWidth = w
		return nil
	})
}

func (b *Bridge) SetTileGroupHeight(h Handle, g int, height uint32) error {
	return b.withGroup("SetTileGroupHeight", h, g, func(tg *gamemap.TileGroup) error {
		tg.TileHeight = height
		return nil
	})
}

// AddTileGroup appends an empty group and returns its index.
func (b *Bridge) AddTileGroup(h Handle) (g int, err error) {
	err = b.withMap("AddTileGroup", h, func(m *gamemap.Map) error {
		g = m.AddTileGroup(gamemap.TileGroup{})
		return nil
	})
	return g, err
}

func (b *Bridge) RemoveTileGroup(h Handle, g int) error {
	return b.withMap("RemoveTileGroup", h, func(m *gamemap.Map) error { return m.RemoveTileGroup(g) })
}

func (b *Bridge) TileGroupMappingCount(h Handle, g int) (n int, err error) {
	err = b.withGroup("TileGroupMappingCount", h, g, func(tg *gamemap.TileGroup) error {
		n = tg.MappingIndexCount()
		return nil
	})
	return n, err
}

func (b *Bridge) TileGroupMapping(h Handle, g, i int) (v uint32, err error) {
	err = b.withGroup("TileGroupMapping", h, g, func(tg *gamemap.TileGroup) error {
		v, err = tg.MappingIndex(i)
		return err
	})
	return v, err
}

func (b *Bridge) SetTileGroupMapping(h Handle, g, i int, v uint32) error {
	return b.withGroup("SetTileGroupMapping", h, g, func(tg *gamemap.TileGroup) error {
		return tg.SetMappingIndex(i, v)
	})
}

func (b *Bridge) AddTileGroupMapping(h Handle, g int, v uint32) error {
	return b.withGroup("AddTileGroupMapping", h, g, func(tg *gamemap.TileGroup) error {
		tg.AddMappingIndex(v)
		return nil
	})
}

func (b *Bridge) RemoveTileGroupMapping(h Handle, g, i int) error {
	return b.withGroup("RemoveTileGroupMapping", h, g, func(tg *gamemap.TileGroup) error {
		return tg.RemoveMappingIndex(i)
	})
}

// Header and dimensions

func (b *Bridge) VersionTag(h Handle) (v uint32, err error) {
	err = b.withMap("VersionTag", h, func(m *gamemap.Map) error {
		v = m.VersionTag()
		return nil
	})
	return v, err
}

func (b *Bridge) SetVersionTag(h Handle, v uint32) error {
	return b.withMap("SetVersionTag", h, func(m *gamemap.Map) error {
		m.SetVersionTag(v)
		return nil
	})
}

// CheckMinVersionTag fails if the map's tag is below required or below the
// oldest supported tag.
func (b *Bridge) CheckMinVersionTag(h Handle, required uint32) error {
	return b.withMap("CheckMinVersionTag", h, func(m *gamemap.Map) error {
		return m.CheckMinVersionTag(required)
	})
}

func (b *Bridge) IsSavedGame(h Handle) (v bool, err error) {
	err = b.withMap("IsSavedGame", h, func(m *gamemap.Map) error {
		v = m.IsSavedGame()
		return nil
	})
	return v, err
}

func (b *Bridge) WidthInTiles(h Handle) (w uint32, err error) {
	err = b.withMap("WidthInTiles", h, func(m *gamemap.Map) error {
		w = m.WidthInTiles()
		return nil
	})
	return w, err
}

func (b *Bridge) HeightInTiles(h Handle) (height uint32, err error) {
	err = b.withMap("HeightInTiles", h, func(m *gamemap.Map) error {
		height = m.HeightInTiles()
		return nil
	})
	return height, err
}

func (b *Bridge) SetHeightInTiles(h Handle, height uint32) error {
	return b.withMap("SetHeightInTiles", h, func(m *gamemap.Map) error {
		m.SetHeightInTiles(height)
		return nil
	})
}

// Coordinate accessors

func (b *Bridge) MappingIndexAt(h Handle, x, y int) (v uint32, err error) {
	err = b.withMap("MappingIndexAt", h, func(m *gamemap.Map) error {
		v, err = m.MappingIndexAt(x, y)
		return err
	})
	return v, err
}

func (b *Bridge) SetMappingIndexAt(h Handle, x, y int, v uint32) error {
	return b.withMap("SetMappingIndexAt", h, func(m *gamemap.Map) error { return m.SetMappingIndexAt(x, y, v) })
}

func (b *Bridge) CellTypeAt(h Handle, x, y int) (c gamemap.CellType, err error) {
	err = b.withMap("CellTypeAt", h, func(m *gamemap.Map) error {
		c, err = m.CellTypeAt(x, y)
		return err
	})
	return c, err
}

func (b *Bridge) SetCellTypeAt(h Handle, x, y int, c gamemap.CellType) error {
	return b.withMap("SetCellTypeAt", h, func(m *gamemap.Map) error { return m.SetCellTypeAt(x, y, c) })
}

func (b *Bridge) LavaPossibleAt(h Handle, x, y int) (v bool, err error) {
	err = b.withMap("LavaPossibleAt", h, func(m *gamemap.Map) error {
		v, err = m.LavaPossibleAt(x, y)
		return err
	})
	return v, err
}

func (b *Bridge) SetLavaPossibleAt(h Handle, x, y int, v bool) error {
	return b.withMap("SetLavaPossibleAt", h, func(m *gamemap.Map) error { return m.SetLavaPossibleAt(x, y, v) })
}

func (b *Bridge) TilesetIndexAt(h Handle, x, y int) (v uint16, err error) {
	err = b.withMap("TilesetIndexAt", h, func(m *gamemap.Map) error {
		v, err = m.TilesetIndexAt(x, y)
		return err
	})
	return v, err
}

func (b *Bridge) ImageIndexAt(h Handle, x, y int) (v uint16, err error) {
	err = b.withMap("ImageIndexAt", h, func(m *gamemap.Map) error {
		v, err = m.ImageIndexAt(x, y)
		return err
	})
	return v, err
}
