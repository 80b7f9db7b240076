package gamemap

// Limits bounds the allocations a map file can request while being read.
// Zero fields take their defaults.
type Limits struct {
	MaxTiles            uint64 // width*height
	MaxTilesetSources   uint32
	MaxTileMappings     uint32
	MaxTerrainTypes     uint32
	MaxTileGroups       uint32
	MaxTileGroupTiles   uint64 // width*height of one group
	MaxNameLen          uint32
	MaxSavedGameObjects uint32
	MaxPackedSize       uint64 // packed envelope as stored
	MaxUncompressed     uint64 // map bytes after unpacking
}

func defaultLimits() Limits {
	return Limits{
		MaxTiles:            1 << 22, // 4M tiles; the largest stock map is 512x256
		MaxTilesetSources:   512,
		MaxTileMappings:     1 << 16,
		MaxTerrainTypes:     1 << 12,
		MaxTileGroups:       1 << 14,
		MaxTileGroupTiles:   1 << 16,
		MaxNameLen:          1 << 12,
		MaxSavedGameObjects: 1 << 20,
		MaxPackedSize:       256 << 20,
		MaxUncompressed:     256 << 20,
	}
}

func (l Limits) withDefaults() Limits {
	d := defaultLimits()
	if l.MaxTiles == 0 {
		l.MaxTiles = d.MaxTiles
	}
	if l.MaxTilesetSources == 0 {
		l.MaxTilesetSources = d.MaxTilesetSources
	}
	if l.MaxTileMappings == 0 {
		l.MaxTileMappings = d.MaxTileMappings
	}
	if l.MaxTerrainTypes == 0 {
		l.MaxTerrainTypes = d.MaxTerrainTypes
	}
	if l.MaxTileGroups == 0 {
		l.MaxTileGroups = d.MaxTileGroups
	}
	if l.MaxTileGroupTiles == 0 {
		l.MaxTileGroupTiles = d.MaxTileGroupTiles
	}
	if l.MaxNameLen == 0 {
		l.MaxNameLen = d.MaxNameLen
	}
	if l.MaxSavedGameObjects == 0 {
		l.MaxSavedGameObjects = d.MaxSavedGameObjects
	}
	if l.MaxPackedSize == 0 {
		l.MaxPackedSize = d.MaxPackedSize
	}
	if l.MaxUncompressed == 0 {
		l.MaxUncompressed = d.MaxUncompressed
	}
	return l
}

// DefaultLimits returns the limits used when none are supplied.
func DefaultLimits() Limits { return defaultLimits() }
