package main

/*
#include <stdint.h>
#include <stdbool.h>
*/
import "C"

import (
	"unsafe"

	"github.com/logicossoftware/go-op2util/gamemap"
)

//export OP2_Map_Create
func OP2_Map_Create() C.uint64_t { return C.uint64_t(bridge.NewMap()) }

//export OP2_Map_Release
func OP2_Map_Release(m C.uint64_t) C.bool { return ok(bridge.ReleaseMap(handle(m))) }

// OP2_Map_ReadMap reads a map file, plain or packed.
//
//export OP2_Map_ReadMap
func OP2_Map_ReadMap(path *C.char) C.uint64_t {
	return created(bridge.ReadMapFile(goString(path)))
}

//export OP2_Map_ReadMapStream
func OP2_Map_ReadMapStream(buf unsafe.Pointer, n C.uint64_t) C.uint64_t {
	data, valid := cBytes(buf, n)
	if !valid {
		return 0
	}
	return created(bridge.ReadMap(data))
}

//export OP2_Map_ReadSavedGame
func OP2_Map_ReadSavedGame(path *C.char) C.uint64_t {
	return created(bridge.ReadSavedGameFile(goString(path)))
}

//export OP2_Map_ReadSavedGameStream
func OP2_Map_ReadSavedGameStream(buf unsafe.Pointer, n C.uint64_t) C.uint64_t {
	data, valid := cBytes(buf, n)
	if !valid {
		return 0
	}
	return created(bridge.ReadSavedGame(data))
}

//export OP2_Map_Write
func OP2_Map_Write(m C.uint64_t, path *C.char) C.bool {
	return ok(bridge.WriteMap(handle(m), goString(path)))
}

// OP2_Map_WritePacked writes the map compressed: 1 ZIP, 2 Zstandard, 3 LZ4,
// 4 Brotli, or 0 for a plain map file.
//
//export OP2_Map_WritePacked
func OP2_Map_WritePacked(m C.uint64_t, path *C.char, compression C.uint16_t) C.bool {
	return ok(bridge.WriteMapPacked(handle(m), goString(path), gamemap.Compression(compression)))
}

// Tiles are passed in their 32-bit on-disk layout.

//export OP2_Map_GetTileCount
func OP2_Map_GetTileCount(m C.uint64_t) C.uint64_t { return count(bridge.TileCount(handle(m))) }

//export OP2_Map_GetTile
func OP2_Map_GetTile(m, i C.uint64_t, out *C.uint32_t) C.bool {
	t, err := bridge.Tile(handle(m), index(i))
	return store(out, C.uint32_t(t), err)
}

//export OP2_Map_SetTile
func OP2_Map_SetTile(m, i C.uint64_t, tile C.uint32_t) C.bool {
	return ok(bridge.SetTile(handle(m), index(i), gamemap.Tile(tile)))
}

//export OP2_Map_AddTile
func OP2_Map_AddTile(m C.uint64_t, tile C.uint32_t) C.bool {
	return ok(bridge.AddTile(handle(m), gamemap.Tile(tile)))
}

//export OP2_Map_RemoveTile
func OP2_Map_RemoveTile(m, i C.uint64_t) C.bool { return ok(bridge.RemoveTile(handle(m), index(i))) }

func clipEdge(m C.uint64_t, out *C.int32_t, edge func(gamemap.Rect) int32) C.bool {
	r, err := bridge.ClipRect(handle(m))
	return store(out, C.int32_t(edge(r)), err)
}

func setClipEdge(m C.uint64_t, set func(*gamemap.Rect)) C.bool {
	return ok(bridge.UpdateClipRect(handle(m), set))
}

//export OP2_Map_GetClipRectX1
func OP2_Map_GetClipRectX1(m C.uint64_t, out *C.int32_t) C.bool {
	return clipEdge(m, out, func(r gamemap.Rect) int32 { return r.X1 })
}

//export OP2_Map_GetClipRectY1
func OP2_Map_GetClipRectY1(m C.uint64_t, out *C.int32_t) C.bool {
	return clipEdge(m, out, func(r gamemap.Rect) int32 { return r.Y1 })
}

//export OP2_Map_GetClipRectX2
func OP2_Map_GetClipRectX2(m C.uint64_t, out *C.int32_t) C.bool {
	return clipEdge(m, out, func(r gamemap.Rect) int32 { return r.X2 })
}

//export OP2_Map_GetClipRectY2
func OP2_Map_GetClipRectY2(m C.uint64_t, out *C.int32_t) C.bool {
	return clipEdge(m, out, func(r gamemap.Rect) int32 { return r.Y2 })
}

//export OP2_Map_SetClipRectX1
func OP2_Map_SetClipRectX1(m C.uint64_t, v C.int32_t) C.bool {
	return setClipEdge(m, func(r *gamemap.Rect) { r.X1 = int32(v) })
}

//export OP2_Map_SetClipRectY1
func OP2_Map_SetClipRectY1(m C.uint64_t, v C.int32_t) C.bool {
	return setClipEdge(m, func(r *gamemap.Rect) { r.Y1 = int32(v) })
}

//export OP2_Map_SetClipRectX2
func OP2_Map_SetClipRectX2(m C.uint64_t, v C.int32_t) C.bool {
	return setClipEdge(m, func(r *gamemap.Rect) { r.X2 = int32(v) })
}

//export OP2_Map_SetClipRectY2
func OP2_Map_SetClipRectY2(m C.uint64_t, v C.int32_t) C.bool {
	return setClipEdge(m, func(r *gamemap.Rect) { r.Y2 = int32(v) })
}

//export OP2_Map_GetTilesetSourceCount
func OP2_Map_GetTilesetSourceCount(m C.uint64_t) C.uint64_t {
	return count(bridge.TilesetSourceCount(handle(m)))
}

//export OP2_Map_GetTilesetSourceFilename
func OP2_Map_GetTilesetSourceFilename(m, i C.uint64_t) *C.char {
	s, err := bridge.TilesetSource(handle(m), index(i))
	return cString(s.Filename, err)
}

//export OP2_Map_GetTilesetSourceNumTiles
func OP2_Map_GetTilesetSourceNumTiles(m, i C.uint64_t, out *C.uint32_t) C.bool {
	s, err := bridge.TilesetSource(handle(m), index(i))
	return store(out, C.uint32_t(s.NumTiles), err)
}

//export OP2_Map_SetTilesetSourceFilename
func OP2_Map_SetTilesetSourceFilename(m, i C.uint64_t, name *C.char) C.bool {
	return ok(bridge.SetTilesetFilename(handle(m), index(i), goString(name)))
}

//export OP2_Map_SetTilesetSourceNumTiles
func OP2_Map_SetTilesetSourceNumTiles(m, i C.uint64_t, n C.uint32_t) C.bool {
	return ok(bridge.SetTilesetNumTiles(handle(m), index(i), uint32(n)))
}

//export OP2_Map_AddTilesetSource
func OP2_Map_AddTilesetSource(m C.uint64_t, name *C.char, n C.uint32_t) C.bool {
	return ok(bridge.AddTilesetSource(handle(m), gamemap.TilesetSource{Filename: goString(name), NumTiles: uint32(n)}))
}

//export OP2_Map_RemoveTilesetSource
func OP2_Map_RemoveTilesetSource(m, i C.uint64_t) C.bool {
	return ok(bridge.RemoveTilesetSource(handle(m), index(i)))
}

// OP2_Map_TrimTilesetSources removes sources without a name or tiles.
//
//export OP2_Map_TrimTilesetSources
func OP2_Map_TrimTilesetSources(m C.uint64_t) C.bool { return ok(bridge.TrimTilesetSources(handle(m))) }

// Tile mappings cross as tileset<<48 | graphic<<32 | animCount<<16 | animDelay.

//export OP2_Map_GetTileMappingCount
func OP2_Map_GetTileMappingCount(m C.uint64_t) C.uint64_t {
	return count(bridge.TileMappingCount(handle(m)))
}

//export OP2_Map_GetTileMapping
func OP2_Map_GetTileMapping(m, i C.uint64_t, out *C.uint64_t) C.bool {
	tm, err := bridge.TileMapping(handle(m), index(i))
	return store(out, C.uint64_t(tm.Pack()), err)
}

//export OP2_Map_SetTileMapping
func OP2_Map_SetTileMapping(m, i, packed C.uint64_t) C.bool {
	return ok(bridge.SetTileMapping(handle(m), index(i), gamemap.UnpackTileMapping(uint64(packed))))
}

//export OP2_Map_AddTileMapping
func OP2_Map_AddTileMapping(m, packed C.uint64_t) C.bool {
	return ok(bridge.AddTileMapping(handle(m), gamemap.UnpackTileMapping(uint64(packed))))
}

//export OP2_Map_RemoveTileMapping
func OP2_Map_RemoveTileMapping(m, i C.uint64_t) C.bool {
	return ok(bridge.RemoveTileMapping(handle(m), index(i)))
}

// Terrain types cross as a pointer to a 264 byte record in file layout.

func terrainFrom(p unsafe.Pointer) (gamemap.TerrainType, bool) {
	var tt gamemap.TerrainType
	if p == nil {
		return tt, false
	}
	return tt, tt.UnmarshalBinary(C.GoBytes(p, gamemap.TerrainTypeSize)) == nil
}

//export OP2_Map_GetTerrainTypeCount
func OP2_Map_GetTerrainTypeCount(m C.uint64_t) C.uint64_t {
	return count(bridge.TerrainTypeCount(handle(m)))
}

//export OP2_Map_GetTerrainType
func OP2_Map_GetTerrainType(m, i C.uint64_t, out unsafe.Pointer) C.bool {
	tt, err := bridge.TerrainType(handle(m), index(i))
	if err != nil || out == nil {
		return false
	}
	b, err := tt.MarshalBinary()
	if err != nil {
		return false
	}
	copy(unsafe.Slice((*byte)(out), gamemap.TerrainTypeSize), b)
	return true
}

//export OP2_Map_SetTerrainType
func OP2_Map_SetTerrainType(m, i C.uint64_t, in unsafe.Pointer) C.bool {
	tt, valid := terrainFrom(in)
	if !valid {
		return false
	}
	return ok(bridge.SetTerrainType(handle(m), index(i), tt))
}

//export OP2_Map_AddTerrainType
func OP2_Map_AddTerrainType(m C.uint64_t, in unsafe.Pointer) C.bool {
	tt, valid := terrainFrom(in)
	if !valid {
		return false
	}
	return ok(bridge.AddTerrainType(handle(m), tt))
}

//export OP2_Map_RemoveTerrainType
func OP2_Map_RemoveTerrainType(m, i C.uint64_t) C.bool {
	return ok(bridge.RemoveTerrainType(handle(m), index(i)))
}

//export OP2_Map_GetTileGroupCount
func OP2_Map_GetTileGroupCount(m C.uint64_t) C.uint64_t {
	return count(bridge.TileGroupCount(handle(m)))
}

//export OP2_Map_GetTileGroupName
func OP2_Map_GetTileGroupName(m, g C.uint64_t) *C.char {
	tg, err := bridge.TileGroup(handle(m), index(g))
	return cString(tg.Name, err)
}

//export OP2_Map_GetTileGroupTileWidth
func OP2_Map_GetTileGroupTileWidth(m, g C.uint64_t, out *C.uint32_t) C.bool {
	tg, err := bridge.TileGroup(handle(m), index(g))
	return store(out, C.uint32_t(tg.TileWidth), err)
}

//export OP2_Map_GetTileGroupTileHeight
func OP2_Map_GetTileGroupTileHeight(m, g C.uint64_t, out *C.uint32_t) C.bool {
	tg, err := bridge.TileGroup(handle(m), index(g))
	return store(out, C.uint32_t(tg.TileHeight), err)
}

//export OP2_Map_SetTileGroupName
func OP2_Map_SetTileGroupName(m, g C.uint64_t, name *C.char) C.bool {
	return ok(bridge.SetTileGroupName(handle(m), index(g), goString(name)))
}

//export OP2_Map_SetTileGroupTileWidth
func OP2_Map_SetTileGroupTileWidth(m, g C.uint64_t, w C.uint32_t) C.bool {
	return ok(bridge.SetTileGroupWidth(handle(m), index(g), uint32(w)))
}

//export OP2_Map_SetTileGroupTileHeight
func OP2_Map_SetTileGroupTileHeight(m, g C.uint64_t, h C.uint32_t) C.bool {
	return ok(bridge.SetTileGroupHeight(handle(m), index(g), uint32(h)))
}

// OP2_Map_AddTileGroup appends an empty group and writes its index to out.
//
//export OP2_Map_AddTileGroup
func OP2_Map_AddTileGroup(m C.uint64_t, out *C.uint64_t) C.bool {
	g, err := bridge.AddTileGroup(handle(m))
	if err != nil {
		return false
	}
	if out != nil {
		*out = C.uint64_t(g)
	}
	return true
}

//export OP2_Map_RemoveTileGroup
func OP2_Map_RemoveTileGroup(m, g C.uint64_t) C.bool {
	return ok(bridge.RemoveTileGroup(handle(m), index(g)))
}

//export OP2_Map_GetTileGroupMappingIndexCount
func OP2_Map_GetTileGroupMappingIndexCount(m, g C.uint64_t) C.uint64_t {
	return count(bridge.TileGroupMappingCount(handle(m), index(g)))
}

//export OP2_Map_GetTileGroupMappingIndex
func OP2_Map_GetTileGroupMappingIndex(m, g, i C.uint64_t, out *C.uint32_t) C.bool {
	v, err := bridge.TileGroupMapping(handle(m), index(g), index(i))
	return store(out, C.uint32_t(v), err)
}

//export OP2_Map_SetTileGroupMappingIndex
func OP2_Map_SetTileGroupMappingIndex(m, g, i C.uint64_t, v C.uint32_t) C.bool {
	return ok(bridge.SetTileGroupMapping(handle(m), index(g), index(i), uint32(v)))
}

//export OP2_Map_AddTileGroupMappingIndex
func OP2_Map_AddTileGroupMappingIndex(m, g C.uint64_t, v C.uint32_t) C.bool {
	return ok(bridge.AddTileGroupMapping(handle(m), index(g), uint32(v)))
}

//export OP2_Map_RemoveTileGroupMappingIndex
func OP2_Map_RemoveTileGroupMappingIndex(m, g, i C.uint64_t) C.bool {
	return ok(bridge.RemoveTileGroupMapping(handle(m), index(g), index(i)))
}

//export OP2_Map_GetVersionTag
func OP2_Map_GetVersionTag(m C.uint64_t, out *C.uint32_t) C.bool {
	v, err := bridge.VersionTag(handle(m))
	return store(out, C.uint32_t(v), err)
}

//export OP2_Map_SetVersionTag
func OP2_Map_SetVersionTag(m C.uint64_t, v C.uint32_t) C.bool {
	return ok(bridge.SetVersionTag(handle(m), uint32(v)))
}

// OP2_Map_CheckMinVersionTag fails if the map's tag is below required or
// below the oldest supported tag, 0x1010.
//
//export OP2_Map_CheckMinVersionTag
func OP2_Map_CheckMinVersionTag(m C.uint64_t, required C.uint32_t) C.bool {
	return ok(bridge.CheckMinVersionTag(handle(m), uint32(required)))
}

//export OP2_Map_IsSavedGame
func OP2_Map_IsSavedGame(m C.uint64_t, out *C.bool) C.bool {
	v, err := bridge.IsSavedGame(handle(m))
	return store(out, C.bool(v), err)
}

//export OP2_Map_GetWidthInTiles
func OP2_Map_GetWidthInTiles(m C.uint64_t, out *C.uint32_t) C.bool {
	v, err := bridge.WidthInTiles(handle(m))
	return store(out, C.uint32_t(v), err)
}

//export OP2_Map_GetHeightInTiles
func OP2_Map_GetHeightInTiles(m C.uint64_t, out *C.uint32_t) C.bool {
	v, err := bridge.HeightInTiles(handle(m))
	return store(out, C.uint32_t(v), err)
}

//export OP2_Map_SetHeightInTiles
func OP2_Map_SetHeightInTiles(m C.uint64_t, h C.uint32_t) C.bool {
	return ok(bridge.SetHeightInTiles(handle(m), uint32(h)))
}

// Coordinate accessors address tiles in the map's 32 column strip layout.

//export OP2_Map_GetTileMappingIndex
func OP2_Map_GetTileMappingIndex(m, x, y C.uint64_t, out *C.uint32_t) C.bool {
	v, err := bridge.MappingIndexAt(handle(m), index(x), index(y))
	return store(out, C.uint32_t(v), err)
}

//export OP2_Map_SetTileMappingIndex
func OP2_Map_SetTileMappingIndex(m, x, y C.uint64_t, v C.uint32_t) C.bool {
	return ok(bridge.SetMappingIndexAt(handle(m), index(x), index(y), uint32(v)))
}

//export OP2_Map_GetCellType
func OP2_Map_GetCellType(m, x, y C.uint64_t, out *C.int) C.bool {
	v, err := bridge.CellTypeAt(handle(m), index(x), index(y))
	return store(out, C.int(v), err)
}

//export OP2_Map_SetCellType
func OP2_Map_SetCellType(m, x, y C.uint64_t, v C.int) C.bool {
	if v < 0 || v > C.int(gamemap.MaxCellType) {
		return false
	}
	return ok(bridge.SetCellTypeAt(handle(m), index(x), index(y), gamemap.CellType(v)))
}

//export OP2_Map_GetLavaPossible
func OP2_Map_GetLavaPossible(m, x, y C.uint64_t, out *C.bool) C.bool {
	v, err := bridge.LavaPossibleAt(handle(m), index(x), index(y))
	return store(out, C.bool(v), err)
}

//export OP2_Map_SetLavaPossible
func OP2_Map_SetLavaPossible(m, x, y C.uint64_t, v C.bool) C.bool {
	return ok(bridge.SetLavaPossibleAt(handle(m), index(x), index(y), bool(v)))
}

//export OP2_Map_GetTilesetIndex
func OP2_Map_GetTilesetIndex(m, x, y C.uint64_t, out *C.uint16_t) C.bool {
	v, err := bridge.TilesetIndexAt(handle(m), index(x), index(y))
	return store(out, C.uint16_t(v), err)
}

//export OP2_Map_GetImageIndex
func OP2_Map_GetImageIndex(m, x, y C.uint64_t, out *C.uint16_t) C.bool {
	v, err := bridge.ImageIndexAt(handle(m), index(x), index(y))
	return store(out, C.uint16_t(v), err)
}
