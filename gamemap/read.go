package gamemap

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/logicossoftware/go-op2util/internal/binio"
)

type header struct {
	versionTag   uint32
	savedGame    int32
	lgWidth      uint32
	height       uint32
	tilesetCount uint32
}

func (h header) tileCount() uint64 { return uint64(h.height) << h.lgWidth }

func newReadConfig(opts []ReadOption) readConfig {
	cfg := readConfig{limits: defaultLimits()}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()
	return cfg
}

// Read parses a .map file from r. A packed envelope is unpacked first.
//
// Read fails with ErrVersionTag if any version tag is older than
// MinVersionTag or disagrees with the header, ErrLimitExceeded if a count
// exceeds the configured Limits, and ErrInvalidMap for any other malformed
// input. No partial map is returned.
func Read(r io.Reader, opts ...ReadOption) (*Map, error) {
	cfg := newReadConfig(opts)
	src, err := openSource(r, cfg.limits)
	if err != nil {
		return nil, err
	}
	br := binio.NewReader(src)
	m, err := readBeginning(br, cfg.limits)
	if err != nil {
		return nil, err
	}
	for range 2 {
		if err := readVersionTag(br, m.versionTag); err != nil {
			return nil, err
		}
	}
	if err := readTileGroups(br, m, cfg.limits); err != nil {
		return nil, err
	}
	return m, nil
}

// ReadSavedGame parses the map portion of a saved game. Unit data is
// validated and skipped; saved games carry no tile groups.
func ReadSavedGame(r io.Reader, opts ...ReadOption) (*Map, error) {
	cfg := newReadConfig(opts)
	src, err := openSource(r, cfg.limits)
	if err != nil {
		return nil, err
	}
	br := binio.NewReader(src)
	br.Skip(savedGameSkip)
	if err := br.Err(); err != nil {
		return nil, fmt.Errorf("%w: saved game header: %w", ErrInvalidMap, err)
	}
	m, err := readBeginning(br, cfg.limits)
	if err != nil {
		return nil, err
	}
	if err := readVersionTag(br, m.versionTag); err != nil {
		return nil, err
	}
	if err := skipSavedGameUnits(br, cfg.limits); err != nil {
		return nil, err
	}
	if err := readVersionTag(br, m.versionTag); err != nil {
		return nil, err
	}
	return m, nil
}

func ReadFile(path string, opts ...ReadOption) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, opts...)
}

func ReadSavedGameFile(path string, opts ...ReadOption) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSavedGame(f, opts...)
}

// openSource returns r unchanged unless it starts with a packed envelope,
// in which case the unpacked map bytes are returned.
func openSource(r io.Reader, l Limits) (io.Reader, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(packedMagic))
	if !isPacked(head) {
		return br, nil
	}
	b, err := readAll(io.LimitReader(br, int64(l.MaxPackedSize)+1))
	if err != nil {
		return nil, err
	}
	raw, err := unpack(b, l)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(raw), nil
}

func invalid(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInvalidMap, what, err)
}

func readBeginning(r *binio.Reader, l Limits) (*Map, error) {
	h := header{
		versionTag:   r.U32(),
		savedGame:    r.I32(),
		lgWidth:      r.U32(),
		height:       r.U32(),
		tilesetCount: r.U32(),
	}
	if err := r.Err(); err != nil {
		return nil, invalid("header", err)
	}
	if err := CheckVersionTag(h.versionTag); err != nil {
		return nil, err
	}
	if h.lgWidth >= 32 {
		return nil, fmt.Errorf("%w: log2 width %d", ErrInvalidMap, h.lgWidth)
	}
	if n := h.tileCount(); n > l.MaxTiles {
		return nil, fmt.Errorf("%w: %d tiles", ErrLimitExceeded, n)
	}
	if h.tilesetCount > l.MaxTilesetSources {
		return nil, fmt.Errorf("%w: %d tileset sources", ErrLimitExceeded, h.tilesetCount)
	}

	m := &Map{
		versionTag:    h.versionTag,
		savedGame:     h.savedGame != 0,
		heightInTiles: h.height,
		Tiles:         make([]Tile, h.tileCount()),
	}
	for i := range m.Tiles {
		m.Tiles[i] = Tile(r.U32())
	}
	m.ClipRect = Rect{X1: r.I32(), Y1: r.I32(), X2: r.I32(), Y2: r.I32()}
	if err := r.Err(); err != nil {
		return nil, invalid("tiles", err)
	}

	m.TilesetSources = make([]TilesetSource, 0, h.tilesetCount)
	for range h.tilesetCount {
		n := r.U32()
		if n > maxTilesetName {
			return nil, fmt.Errorf("%w: tileset name length %d exceeds %d", ErrInvalidMap, n, maxTilesetName)
		}
		src := TilesetSource{Filename: string(r.Bytes(int(n)))}
		if n > 0 {
			src.NumTiles = r.U32()
		}
		m.TilesetSources = append(m.TilesetSources, src)
	}

	var tag [len(tilesetTag)]byte
	r.Full(tag[:])
	if err := r.Err(); err != nil {
		return nil, invalid("tileset sources", err)
	}
	if tag != tilesetTag {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMap, ErrTilesetTag)
	}

	count := r.U32()
	if count > l.MaxTileMappings {
		return nil, fmt.Errorf("%w: %d tile mappings", ErrLimitExceeded, count)
	}
	m.TileMappings = make([]TileMapping, count)
	for i := range m.TileMappings {
		m.TileMappings[i] = TileMapping{r.U16(), r.U16(), r.U16(), r.U16()}
	}

	count = r.U32()
	if count > l.MaxTerrainTypes {
		return nil, fmt.Errorf("%w: %d terrain types", ErrLimitExceeded, count)
	}
	m.TerrainTypes = make([]TerrainType, count)
	for i := range m.TerrainTypes {
		m.TerrainTypes[i].decode(r)
	}
	if err := r.Err(); err != nil {
		return nil, invalid("tile mappings", err)
	}
	return m, nil
}

func readVersionTag(r *binio.Reader, last uint32) error {
	tag := r.U32()
	if err := r.Err(); err != nil {
		return invalid("version tag", err)
	}
	if err := CheckVersionTag(tag); err != nil {
		return err
	}
	if tag != last {
		return fmt.Errorf("%w: mismatched tags 0x%X and 0x%X", ErrVersionTag, last, tag)
	}
	return nil
}

func skipSavedGameUnits(r *binio.Reader, l Limits) error {
	unitCount := r.U32()
	r.U32() // last used unit index
	nextFree := r.U32()
	firstFree := r.U32()
	sizeOfUnit := r.U32()
	objects1 := r.U32()
	objects2 := r.U32()
	if err := r.Err(); err != nil {
		return invalid("saved game units", err)
	}
	if unitCount != 0 && sizeOfUnit != savedUnitSize {
		return fmt.Errorf("%w: unit record size %d, want %d", ErrInvalidMap, sizeOfUnit, savedUnitSize)
	}
	if objects1 > l.MaxSavedGameObjects || objects2 > l.MaxSavedGameObjects {
		return fmt.Errorf("%w: saved game object counts %d, %d", ErrLimitExceeded, objects1, objects2)
	}
	r.Skip(int64(objects1) * savedObjectSize)
	r.Skip(int64(objects2) * 4)
	r.Skip(8) // next and previous unit index
	r.Skip(savedUnitCount * savedUnitSize)
	if firstFree != nextFree {
		r.Skip(savedFreeCount * 4)
	}
	if err := r.Err(); err != nil {
		return invalid("saved game units", err)
	}
	return nil
}

func readTileGroups(r *binio.Reader, m *Map, l Limits) error {
	count := r.U32()
	r.U32() // unused; written as count-1
	if err := r.Err(); err != nil {
		return invalid("tile groups", err)
	}
	if count > l.MaxTileGroups {
		return fmt.Errorf("%w: %d tile groups", ErrLimitExceeded, count)
	}
	m.TileGroups = make([]TileGroup, 0, count)
	for range count {
		g := TileGroup{TileWidth: r.U32(), TileHeight: r.U32()}
		n := uint64(g.TileWidth) * uint64(g.TileHeight)
		if n > l.MaxTileGroupTiles {
			return fmt.Errorf("%w: tile group of %d tiles", ErrLimitExceeded, n)
		}
		g.MappingIndices = make([]uint32, n)
		for i := range g.MappingIndices {
			g.MappingIndices[i] = r.U32()
		}
		nameLen := r.U32()
		if nameLen > l.MaxNameLen {
			return fmt.Errorf("%w: tile group name of %d bytes", ErrLimitExceeded, nameLen)
		}
		g.Name = string(r.Bytes(int(nameLen)))
		if err := r.Err(); err != nil {
			return invalid("tile group", err)
		}
		m.TileGroups = append(m.TileGroups, g)
	}
	return nil
}
