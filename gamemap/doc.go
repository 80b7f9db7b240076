// Package gamemap reads, edits and writes Outpost 2 map (.map) files and the
// map portion of saved games (.op2).
//
// Tiles are stored in 32-column strips rather than row-major order; see
// [TileIndex]. Each [Tile] is a 32-bit value with a fixed bit layout, and each
// [TileMapping] has a lossless 64-bit packed form used by foreign callers.
//
// Read and ReadSavedGame also accept a packed envelope produced by
// [Map.Write] with [WithCompression], so maps can be shipped compressed with
// ZIP, Zstandard, LZ4 or Brotli and still be loaded through the same calls.
package gamemap
