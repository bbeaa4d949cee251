package compression

import (
	"math/rand"
	"sort"
	"testing"
)

// huffNode is a node in the reference Huffman tree this file builds to
// generate valid code-length assignments for randomized round-trip
// testing. It exists only to produce test fixtures; production
// decoding never builds a tree, it works directly from lengths.
type huffNode struct {
	weight   int
	symbol   int
	children [2]*huffNode
}

// buildHuffmanLengths runs the textbook Huffman tree construction over
// weights (merge the two lightest nodes repeatedly) and returns each
// symbol's resulting code length. The tree is full by construction, so
// the lengths it produces always satisfy the Kraft equality exactly.
func buildHuffmanLengths(weights []int) []int {
	nodes := make([]*huffNode, len(weights))
	for i, w := range weights {
		nodes[i] = &huffNode{weight: w, symbol: i}
	}
	if len(nodes) == 1 {
		return []int{1}
	}
	for len(nodes) > 1 {
		sort.Slice(nodes, func(i, j int) bool { return nodes[i].weight < nodes[j].weight })
		a, b := nodes[0], nodes[1]
		merged := &huffNode{weight: a.weight + b.weight, symbol: -1, children: [2]*huffNode{a, b}}
		nodes = append(nodes[2:], merged)
	}

	lengths := make([]int, len(weights))
	var walk func(n *huffNode, depth int)
	walk = func(n *huffNode, depth int) {
		if n.symbol >= 0 {
			lengths[n.symbol] = depth
			return
		}
		walk(n.children[0], depth+1)
		walk(n.children[1], depth+1)
	}
	walk(nodes[0], 0)
	return lengths
}

// canonicalCode is one entry of a canonical code assignment.
type canonicalCode struct {
	value  uint64
	length int
}

// canonicalCodes assigns canonical Huffman codes to symbols 0..len(lengths)-1
// from their lengths, independently of canonical.go's closed-form
// base/offset construction but in the same numbering convention:
// symbols are grouped by length from longest to shortest, then by
// ascending symbol, and numbered sequentially starting at zero; moving
// to a shorter length right-shifts the running code by the length
// decrease, rounding up. With that convention fixed, the assignment is
// unique given a set of lengths, so this must agree bit-for-bit with
// what NewCanonicalTable derives from the same lengths — this function
// is the test suite's independent oracle for that agreement, not a
// second production code path.
func canonicalCodes(lengths []int) []canonicalCode {
	type symLen struct{ symbol, length int }
	var active []symLen
	for sym, l := range lengths {
		if l > 0 {
			active = append(active, symLen{sym, l})
		}
	}
	sort.Slice(active, func(i, j int) bool {
		if active[i].length != active[j].length {
			return active[i].length > active[j].length
		}
		return active[i].symbol < active[j].symbol
	})

	codes := make([]canonicalCode, len(lengths))
	var code uint64
	prevLen := 0
	for _, e := range active {
		if prevLen > e.length {
			shift := uint(prevLen - e.length)
			code = (code + (uint64(1) << shift) - 1) >> shift
		}
		codes[e.symbol] = canonicalCode{value: code, length: e.length}
		code++
		prevLen = e.length
	}
	return codes
}

// encodeSequence writes seq's canonical codes (per codes) MSB-first and
// pads with zero bits up to the 128-bit minimum DecodeInto requires,
// stopping exactly at 128 — never padding past it — so that any
// padding added here lands inside the tolerated buffer slack rather
// than registering as trailing data.
func encodeSequence(codes []canonicalCode, seq []int) (payload []byte, numBits int) {
	w := &bitWriter{}
	for _, s := range seq {
		c := codes[s]
		w.writeBits(c.value, c.length)
	}
	for len(w.bits) < 128 {
		w.writeBits(0, 1)
	}
	return w.bytes(), len(w.bits)
}

// TestFastHufDecodeRandomizedRoundTrip is the reference-encoder round
// trip: for several random alphabets and random symbol sequences, it
// builds a valid canonical length assignment via buildHuffmanLengths,
// encodes a sequence against it with the independent canonicalCodes
// assignment above, and checks FastHufDecoder.DecodeInto recovers the
// exact sequence.
func TestFastHufDecodeRandomizedRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 20; trial++ {
		numSymbols := 2 + rng.Intn(15) // [2, 16]
		weights := make([]int, numSymbols)
		for i := range weights {
			weights[i] = 1 + rng.Intn(100)
		}
		lengths := buildHuffmanLengths(weights)
		codes := canonicalCodes(lengths)

		seqLen := 40 + rng.Intn(80)
		seq := make([]int, seqLen)
		for i := range seq {
			seq[i] = rng.Intn(numSymbols)
		}

		payload, numBits := encodeSequence(codes, seq)

		tableBytes := packLiteralLengths(lengths)
		dec, _, err := NewFastHufDecoder(tableBytes, len(tableBytes), 0, numSymbols-1, -1)
		if err != nil {
			t.Fatalf("trial %d: NewFastHufDecoder: %v", trial, err)
		}

		dst := make([]uint16, seqLen)
		if err := dec.DecodeInto(payload, numBits, dst); err != nil {
			t.Fatalf("trial %d: DecodeInto: %v", trial, err)
		}
		for i, want := range seq {
			if int(dst[i]) != want {
				t.Fatalf("trial %d: dst[%d] = %d, want %d (lengths=%v)", trial, i, dst[i], want, lengths)
			}
		}
	}
}
