package gamemap

import "testing"

func TestTileMappingPack(t *testing.T) {
	tm := TileMapping{TilesetIndex: 1, TileGraphicIndex: 2, AnimationCount: 3, AnimationDelay: 4}
	if got := tm.Pack(); got != 0x0001000200030004 {
		t.Fatalf("Pack=0x%016X", got)
	}
	if got := UnpackTileMapping(0x0001000200030004); got != tm {
		t.Fatalf("Unpack=%+v", got)
	}
}

func TestTileMappingPackIsLossless(t *testing.T) {
	values := []uint16{0, 1, 0x00FF, 0x0100, 0x7FFF, 0x8000, 0xFFFE, 0xFFFF}
	for _, a := range values {
		for _, b := range values {
			tm := TileMapping{a, b, b, a}
			if got := UnpackTileMapping(tm.Pack()); got != tm {
				t.Fatalf("round trip %+v -> %+v", tm, got)
			}
		}
	}
	if got := UnpackTileMapping(^uint64(0)).Pack(); got != ^uint64(0) {
		t.Fatalf("all ones round trip 0x%X", got)
	}
}
