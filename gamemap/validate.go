package gamemap

import "fmt"

// Validate reports whether m can be written and read back unchanged.
func (m *Map) Validate() error {
	if err := CheckVersionTag(m.versionTag); err != nil {
		return err
	}
	n := uint32(len(m.Tiles))
	if m.heightInTiles == 0 {
		if n != 0 {
			return fmt.Errorf("%w: %d tiles but no height", ErrValidation, n)
		}
	} else {
		if n == 0 || n%m.heightInTiles != 0 {
			return fmt.Errorf("%w: %d tiles do not fill height %d", ErrValidation, n, m.heightInTiles)
		}
		if w := n / m.heightInTiles; w&(w-1) != 0 {
			return fmt.Errorf("%w: %d", ErrWidthNotPowerOfTwo, w)
		}
	}
	for i, s := range m.TilesetSources {
		if len(s.Filename) > maxTilesetName {
			return fmt.Errorf("%w: tileset source %d name %q longer than %d", ErrValidation, i, s.Filename, maxTilesetName)
		}
		if !isASCII(s.Filename) {
			return fmt.Errorf("%w: tileset source %d name is not ASCII", ErrValidation, i)
		}
		if s.Filename == "" && s.NumTiles != 0 {
			return fmt.Errorf("%w: tileset source %d has %d tiles but no name", ErrValidation, i, s.NumTiles)
		}
	}
	for i, g := range m.TileGroups {
		if want := uint64(g.TileWidth) * uint64(g.TileHeight); uint64(len(g.MappingIndices)) != want {
			return fmt.Errorf("%w: tile group %d has %d mapping indices, want %d", ErrValidation, i, len(g.MappingIndices), want)
		}
		if !isASCII(g.Name) {
			return fmt.Errorf("%w: tile group %d name is not ASCII", ErrValidation, i)
		}
	}
	return nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}
	return true
}
