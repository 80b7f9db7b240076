package archive

import (
	"bytes"
	"errors"
	"testing"
)

type bitWriter struct {
	buf []byte
	n   uint
}

func (w *bitWriter) bit(b uint16) {
	if w.n%8 == 0 {
		w.buf = append(w.buf, 0)
	}
	if b != 0 {
		w.buf[len(w.buf)-1] |= 0x80 >> (w.n % 8)
	}
	w.n++
}

func (w *bitWriter) bits(v, n int) {
	for i := n - 1; i >= 0; i-- {
		w.bit(uint16(v>>i) & 1)
	}
}

// symbol writes the current code for sym, leaf to root reversed, then
// adapts the tree the way the decoder will.
func (w *bitWriter) symbol(t *huffTree, sym uint16) {
	var path []uint16
	for cur := t.parent[sym+lzhNodes]; cur != lzhRoot; cur = t.parent[cur] {
		path = append(path, cur&1)
	}
	for i := len(path) - 1; i >= 0; i-- {
		w.bit(path[i])
	}
	t.update(sym)
}

// nearMatch writes a back reference of length n to a distance below 64,
// which uses the shortest offset code.
func (w *bitWriter) nearMatch(t *huffTree, n, dist int) {
	w.symbol(t, uint16(n+lzhMinMatch))
	w.bits(dist>>1, 8)
	w.bits(dist&1, 1)
}

func encodeLiterals(b []byte) []byte {
	t := newHuffTree()
	var w bitWriter
	for _, c := range b {
		w.symbol(t, uint16(c))
	}
	return w.buf
}

func TestHuffTreeInitialShape(t *testing.T) {
	tree := newHuffTree()
	if tree.count[lzhRoot] != lzhTerminals {
		t.Fatalf("root count %d", tree.count[lzhRoot])
	}
	for sym := uint16(0); sym < lzhTerminals; sym++ {
		leaf := tree.parent[sym+lzhNodes]
		if !tree.isLeaf(leaf) || tree.link[leaf]-lzhNodes != sym {
			t.Fatalf("symbol %d not at leaf %d", sym, leaf)
		}
	}
}

func TestHuffTreeStaysConsistent(t *testing.T) {
	tree := newHuffTree()
	for i := range 100000 {
		tree.update(uint16(i*7%lzhTerminals) % 40)
		if tree.count[lzhRoot] > lzhMaxCount {
			t.Fatalf("root count %d after %d updates", tree.count[lzhRoot], i+1)
		}
	}
	for n := uint16(0); n < lzhNodes; n++ {
		if tree.isLeaf(n) {
			continue
		}
		l := tree.link[n]
		if l%2 != 0 || tree.parent[l] != n || tree.parent[l+1] != n {
			t.Fatalf("node %d: children %d,%d have parents %d,%d", n, l, l+1, tree.parent[l], tree.parent[l+1])
		}
		if tree.count[n] != tree.count[l]+tree.count[l+1] {
			t.Fatalf("node %d count %d != %d+%d", n, tree.count[n], tree.count[l], tree.count[l+1])
		}
	}
	for n := uint16(0); n+1 < lzhNodes; n++ {
		if tree.count[n] > tree.count[n+1] {
			t.Fatalf("sibling order broken at %d", n)
		}
	}
}

func TestDecodeLZHLiterals(t *testing.T) {
	want := bytes.Repeat([]byte("Outpost 2: Divided Destiny\n"), 40)
	got, err := decodeLZH(encodeLiterals(want), 1<<20)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(got, want) {
		t.Fatalf("decoded %d bytes, prefix mismatch", len(got))
	}
}

func TestDecodeLZHLongStreams(t *testing.T) {
	varied := make([]byte, 100000)
	for i := range varied {
		varied[i] = byte(i*31 + i>>7)
	}
	for name, want := range map[string][]byte{
		"varied": varied,
		"zeros":  make([]byte, 300000),
	} {
		got, err := decodeLZH(encodeLiterals(want), 1<<20)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !bytes.HasPrefix(got, want) {
			t.Fatalf("%s: decoded %d bytes, prefix mismatch", name, len(got))
		}
	}
}

func TestDecodeLZHBackReference(t *testing.T) {
	tree := newHuffTree()
	var w bitWriter
	for _, c := range []byte("abc") {
		w.symbol(tree, uint16(c))
	}
	w.nearMatch(tree, 6, 2)
	w.symbol(tree, '!')

	got, err := decodeLZH(w.buf, 1<<10)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(got, []byte("abcabcabc!")) {
		t.Fatalf("decoded %q", got)
	}
}

func TestDecodeLZHWindowStartsAsSpaces(t *testing.T) {
	tree := newHuffTree()
	var w bitWriter
	// A reference before any output reads the initial window contents.
	w.nearMatch(tree, 4, 10)
	got, err := decodeLZH(w.buf, 1<<10)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(got, []byte("    ")) {
		t.Fatalf("decoded %q", got)
	}
}

func TestDecodeLZHEmptyAndLimit(t *testing.T) {
	got, err := decodeLZH(nil, 10)
	if err != nil || len(got) != 0 {
		t.Fatalf("empty input: %q err=%v", got, err)
	}
	if _, err := decodeLZH(encodeLiterals([]byte("0123456789abc")), 10); !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("err=%v", err)
	}
}

func TestRepeatOffsetCodes(t *testing.T) {
	cases := []struct {
		first, extra, nExtra int
		want                 int
	}{
		{0x00, 0, 1, 0},
		{0x1F, 1, 1, 0x3F},
		{0x20, 0, 2, 1<<6 | 0},
		{0x50, 0b101, 3, 4<<6 | (0x50<<3|5)&0x3F},
		{0x90, 0, 4, 0x0C<<6 | (0x90<<4)&0x3F},
		{0xC0, 0b11111, 5, 0x18<<6 | (0xC0<<5|0x1F)&0x3F},
		{0xFF, 0b111111, 6, 0x3F<<6 | 0x3F},
	}
	for _, tc := range cases {
		var w bitWriter
		w.bits(tc.first, 8)
		w.bits(tc.extra, tc.nExtra)
		if got := repeatOffset(&bitReader{buf: w.buf}); got != tc.want {
			t.Fatalf("first=0x%X extra=%b: got %d want %d", tc.first, tc.extra, got, tc.want)
		}
	}
}

func TestBitReaderPastEnd(t *testing.T) {
	r := &bitReader{buf: []byte{0xA5}}
	if got := r.bits(8); got != 0xA5 {
		t.Fatalf("got 0x%X", got)
	}
	if !r.atEnd() || r.bits(4) != 0 {
		t.Fatal("expected zero bits past the end")
	}
}
