package archive

import "fmt"

// The LZH codec used by VOL entries combines an adaptive Huffman code over
// 314 symbols with back references into a 4 KiB window. Symbols below 256
// are literal bytes; symbol s >= 256 copies s-253 bytes from an offset that
// follows in the bit stream.
const (
	lzhTerminals = 314
	lzhNodes     = lzhTerminals*2 - 1
	lzhRoot      = lzhNodes - 1
	lzhWindow    = 4096
	lzhMinMatch  = 253
	lzhMaxCount  = 0x8000
)

// huffTree is the adaptive tree shared by the encoder and decoder. Node
// children are always stored at an even index and the index after it.
type huffTree struct {
	// link is the left child index for internal nodes, or symbol+lzhNodes
	// for leaves.
	link  [lzhNodes]uint16
	count [lzhNodes]uint16
	// parent is indexed by node, and by symbol+lzhNodes for the leaf
	// holding that symbol.
	parent [lzhNodes + lzhTerminals]uint16
}

func newHuffTree() *huffTree {
	t := &huffTree{}
	for i := range uint16(lzhTerminals) {
		t.link[i] = i + lzhNodes
		t.count[i] = 1
		t.parent[i] = i>>1 + lzhTerminals
		t.parent[i+lzhNodes] = i
	}
	left := uint16(0)
	for i := uint16(lzhTerminals); i < lzhNodes; i++ {
		t.link[i] = left
		t.count[i] = t.count[left] + t.count[left+1]
		t.parent[i] = i>>1 + lzhTerminals
		left += 2
	}
	return t
}

func (t *huffTree) isLeaf(n uint16) bool { return t.link[n] >= lzhNodes }

// update records one more occurrence of sym and restores the sibling
// ordering by count. Counts are halved once the root reaches lzhMaxCount.
func (t *huffTree) update(sym uint16) {
	if t.count[lzhRoot] == lzhMaxCount {
		t.rebuild()
	}
	cur := t.parent[sym+lzhNodes]
	t.count[cur]++
	for cur != lzhRoot {
		leader := cur
		for leader+1 < lzhRoot && t.count[cur] > t.count[leader+1] {
			leader++
		}
		t.swap(cur, leader)
		cur = t.parent[leader]
		t.count[cur]++
	}
}

// rebuild halves every leaf count, rounding up, and rebuilds the internal
// nodes so counts stay in ascending order.
func (t *huffTree) rebuild() {
	j := uint16(0)
	for i := range uint16(lzhNodes) {
		if t.isLeaf(i) {
			t.count[j] = (t.count[i] + 1) / 2
			t.link[j] = t.link[i]
			j++
		}
	}
	for i, j := uint16(0), uint16(lzhTerminals); j < lzhNodes; i, j = i+2, j+1 {
		f := t.count[i] + t.count[i+1]
		k := j
		for f < t.count[k-1] {
			k--
		}
		copy(t.count[k+1:j+1], t.count[k:j])
		copy(t.link[k+1:j+1], t.link[k:j])
		t.count[k] = f
		t.link[k] = i
	}
	for i := range uint16(lzhNodes) {
		t.reparent(t.link[i], i)
	}
}

func (t *huffTree) swap(a, b uint16) {
	t.count[a], t.count[b] = t.count[b], t.count[a]
	t.reparent(t.link[a], b)
	t.reparent(t.link[b], a)
	t.link[a], t.link[b] = t.link[b], t.link[a]
}

func (t *huffTree) reparent(link, p uint16) {
	t.parent[link] = p
	if link < lzhNodes {
		t.parent[link+1] = p
	}
}

// bitReader yields bits most significant first. Reads past the end return
// zero bits.
type bitReader struct {
	buf []byte
	pos uint64
}

func (r *bitReader) atEnd() bool { return r.pos >= uint64(len(r.buf))*8 }

func (r *bitReader) bit() uint16 {
	if r.atEnd() {
		return 0
	}
	b := r.buf[r.pos>>3] >> (7 - r.pos&7) & 1
	r.pos++
	return uint16(b)
}

func (r *bitReader) bits(n int) int {
	v := 0
	for range n {
		v = v<<1 | int(r.bit())
	}
	return v
}

// repeatOffset reads a 12-bit back reference distance. The upper six bits
// are coded by the first byte, with shorter codes for nearer offsets.
func repeatOffset(r *bitReader) int {
	o := r.bits(8)
	var extra, upper int
	switch {
	case o < 0x20:
		extra, upper = 1, 0
	case o < 0x50:
		extra, upper = 2, (o-0x20)>>4+1
	case o < 0x90:
		extra, upper = 3, (o-0x50)>>3+4
	case o < 0xC0:
		extra, upper = 4, (o-0x90)>>2+0x0C
	case o < 0xF0:
		extra, upper = 5, (o-0xC0)>>1+0x18
	default:
		extra, upper = 6, o-0xC0
	}
	o = o<<extra | r.bits(extra)
	return upper<<6 | o&0x3F
}

// decodeLZH expands src, failing once the output would exceed limit bytes.
// Decoding stops when the input is exhausted after a complete symbol.
func decodeLZH(src []byte, limit uint64) ([]byte, error) {
	var window [lzhWindow]byte
	for i := range window {
		window[i] = ' '
	}
	tree := newHuffTree()
	r := &bitReader{buf: src}
	out := make([]byte, 0, min(uint64(len(src))*2, limit))
	w := 0
	put := func(c byte) {
		window[w] = c
		w = (w + 1) & (lzhWindow - 1)
		out = append(out, c)
	}

	for !r.atEnd() {
		n := uint16(lzhRoot)
		for !tree.isLeaf(n) {
			n = tree.link[n] + r.bit()
		}
		sym := tree.link[n] - lzhNodes
		tree.update(sym)

		if sym < 256 {
			put(byte(sym))
		} else {
			start := (w - repeatOffset(r) - 1) & (lzhWindow - 1)
			for k := int(sym) - lzhMinMatch; k > 0; k-- {
				put(window[start])
				start = (start + 1) & (lzhWindow - 1)
			}
		}
		if uint64(len(out)) > limit {
			return nil, fmt.Errorf("%w: LZH entry expands beyond %d bytes", ErrLimitExceeded, limit)
		}
	}
	return out, nil
}
