package blockchain

import "testing"

func byteLeaves(in []byte) [][]byte {
	out := make([][]byte, len(in))
	for i, b := range in {
		out[i] = []byte{b}
	}
	return out
}

func TestMerkleRoot_31Leaves(t *testing.T) {
	in := []byte{
		0x14, 0x22, 0x41, 0xfb, 0xdf, 0x2a, 0x9b, 0xcf, 0x0a, 0xb2,
		0x6a, 0xdb, 0xb4, 0x39, 0x44, 0x0f, 0x22, 0x49, 0xba, 0xda,
		0x13, 0xff, 0xaf, 0x2a, 0x5f, 0x9a, 0x2a, 0xa9, 0xf5, 0x2c,
		0x33,
	}
	want := [32]byte{
		0x15, 0x6C, 0xEA, 0x94, 0xA2, 0xA2, 0x65, 0xEB,
		0xD8, 0x43, 0x9D, 0xF6, 0x25, 0x5F, 0xFF, 0xEC,
		0x8A, 0xAA, 0xED, 0x78, 0x79, 0x76, 0x61, 0x1D,
		0xB3, 0xF7, 0x74, 0x5A, 0x74, 0x76, 0xE3, 0xCC,
	}

	got := MerkleRootOverBytes(byteLeaves(in), SHA3_256)
	if got != want {
		t.Fatalf("merkle root mismatch:\n got  %x\n want %x", got, want)
	}
}

func TestMerkleRoot_40Leaves(t *testing.T) {
	in := []byte{
		0x89, 0x2b, 0x4c, 0x8b, 0xd4, 0x17, 0x42, 0x2c, 0xaf, 0x59,
		0x09, 0x7b, 0x37, 0xab, 0x8d, 0x69, 0xcd, 0xfe, 0x62, 0xe3,
		0x32, 0x81, 0xfa, 0x27, 0x13, 0x21, 0x7d, 0xfc, 0x2f, 0x06,
		0x64, 0x1d, 0x0a, 0x0f, 0x2a, 0x08, 0x24, 0x43, 0xc4, 0xde,
	}
	want := [32]byte{
		0x08, 0xAA, 0x7C, 0xD4, 0xA4, 0xA5, 0x75, 0x76,
		0x59, 0xFD, 0x21, 0x7A, 0xE2, 0x15, 0xD9, 0xFA,
		0x29, 0x72, 0x45, 0x13, 0xA5, 0xCD, 0xD1, 0xD8,
		0x44, 0xE2, 0x55, 0xD0, 0x87, 0x7E, 0x03, 0x9A,
	}

	got := MerkleRootOverBytes(byteLeaves(in), SHA3_256)
	if got != want {
		t.Fatalf("merkle root mismatch:\n got  %x\n want %x", got, want)
	}
}

func TestMerkleRoot_EmptyVectorIsDefined(t *testing.T) {
	root := MerkleRoot(nil)
	var zero [32]byte
	if root == zero {
		t.Fatalf("empty transaction vector must still produce a defined non-trivial root")
	}
}

func TestMerkleRoot_DummyHashesToZeroLeaf(t *testing.T) {
	txs := []Transaction{DummyTransaction{}}
	root := MerkleRoot(txs)
	// A Dummy transaction contributes a single all-zero leaf, so the root
	// over [Dummy] equals the root over one pre-hashed all-zero leaf.
	want := MerkleRootFromLeaves([][32]byte{{}})
	if root != want {
		t.Fatalf("merkle root over [Dummy] must equal the root over one all-zero leaf")
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 32: 32, 33: 64}
	for in, want := range cases {
		if got := nextPowerOfTwo(in); got != want {
			t.Fatalf("nextPowerOfTwo(%d) = %d, want %d", in, got, want)
		}
	}
}
