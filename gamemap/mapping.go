package gamemap

// TileMapping selects the tileset graphic drawn for a tile, and its
// animation.
type TileMapping struct {
	TilesetIndex     uint16
	TileGraphicIndex uint16
	AnimationCount   uint16
	AnimationDelay   uint16
}

const tileMappingSize = 8

// Pack encodes m as a single integer, most significant field first:
// tileset index in bits 63-48, graphic in 47-32, animation count in 31-16
// and animation delay in 15-0.
func (m TileMapping) Pack() uint64 {
	return uint64(m.TilesetIndex)<<48 |
		uint64(m.TileGraphicIndex)<<32 |
		uint64(m.AnimationCount)<<16 |
		uint64(m.AnimationDelay)
}

// UnpackTileMapping is the inverse of TileMapping.Pack.
func UnpackTileMapping(v uint64) TileMapping {
	return TileMapping{
		TilesetIndex:     uint16(v >> 48),
		TileGraphicIndex: uint16(v >> 32),
		AnimationCount:   uint16(v >> 16),
		AnimationDelay:   uint16(v),
	}
}
