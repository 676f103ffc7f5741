package blockchain

// delimiterLeaf is the ISO/IEC 7816-4 bit-padding marker (0x80 followed by
// 31 zero bytes) appended after the transaction leaves and before padding.
// It disambiguates the empty-suffix case and, combined with power-of-two
// padding, defends against the CVE-2012-2459 duplicate-leaf second-preimage
// attack on unbalanced Merkle trees.
var delimiterLeaf = func() [32]byte {
	var l [32]byte
	l[0] = 0x80
	return l
}()

// LeafHasher computes a leaf hash from raw bytes. It exists so the Merkle
// reduction can be exercised directly over byte vectors, independent of the
// closed Transaction variant set.
type LeafHasher func([]byte) [32]byte

// MerkleRoot computes the Merkle root over an ordered transaction vector,
// per the delimiter-leaf, power-of-two-padding algorithm. An empty vector
// still yields a defined root: the delimiter leaf is always present.
func MerkleRoot(txs []Transaction) [32]byte {
	leaves := make([][32]byte, len(txs))
	for i, tx := range txs {
		leaves[i] = tx.ContentHash()
	}
	return MerkleRootFromLeaves(leaves)
}

// MerkleRootOverBytes computes the Merkle root over raw byte leaves, hashing
// each with hasher. Used by tests that reproduce literal byte-level vectors
// without constructing a Transaction for every leaf.
func MerkleRootOverBytes(leaves [][]byte, hasher LeafHasher) [32]byte {
	hashes := make([][32]byte, len(leaves))
	for i, l := range leaves {
		hashes[i] = hasher(l)
	}
	return MerkleRootFromLeaves(hashes)
}

// MerkleRootFromLeaves runs the delimiter + padding + pairwise-reduction
// algorithm over pre-hashed leaves.
func MerkleRootFromLeaves(leafHashes [][32]byte) [32]byte {
	nodes := make([][32]byte, 0, len(leafHashes)+1)
	nodes = append(nodes, leafHashes...)
	nodes = append(nodes, delimiterLeaf)

	target := nextPowerOfTwo(len(nodes))
	for len(nodes) < target {
		nodes = append(nodes, [32]byte{})
	}

	for len(nodes) > 1 {
		next := make([][32]byte, 0, len(nodes)/2)
		for i := 0; i < len(nodes); i += 2 {
			var buf [64]byte
			copy(buf[:32], nodes[i][:])
			copy(buf[32:], nodes[i+1][:])
			next = append(next, SHA3_256(buf[:]))
		}
		nodes = next
	}
	return nodes[0]
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
