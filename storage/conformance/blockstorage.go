package conformance

import (
	"stachanov.dev/ledger/blockchain"
	"testing"
)

// RunBlockStorage exercises the BlockStorage capability: round trips,
// id collision (P11), and orphan rejection.
func RunBlockStorage(t *testing.T, newStore Factory) {
	t.Run("append_and_get_roundtrip", func(t *testing.T) {
		s := newStore()
		pub, priv := keypair(t)
		chain := buildChain(t, pub, priv, []uint64{0}, 2)
		b := chain[0]
		mustAppend(t, s, b)

		got, ok := s.GetBlock(b.GetID())
		if !ok {
			t.Fatalf("expected block present after append")
		}
		if got.GetID() != b.GetID() {
			t.Fatalf("GetBlock returned wrong block")
		}

		hdr, ok := s.GetHeader(b.GetID())
		if !ok || hdr.Hash() != b.GetID() {
			t.Fatalf("GetHeader mismatch")
		}

		txID := blockchain.TxId{BlockId: b.GetID(), TxIndex: 1}
		if _, ok := s.GetTransaction(txID); !ok {
			t.Fatalf("expected transaction present at index 1")
		}
		missing := blockchain.TxId{BlockId: b.GetID(), TxIndex: 99}
		if _, ok := s.GetTransaction(missing); ok {
			t.Fatalf("expected absent for out-of-range tx index")
		}
	})

	// P11: a second append_verified_block with the same BlockId returns
	// IdCollision.
	t.Run("id_collision_rejected", func(t *testing.T) {
		s := newStore()
		pub, priv := keypair(t)
		chain := buildChain(t, pub, priv, []uint64{0}, 1)
		b := chain[0]
		mustAppend(t, s, b)

		err := s.AppendVerifiedBlock(b)
		if err == nil {
			t.Fatalf("expected IdCollision on duplicate append")
		}
		be, ok := err.(*blockchain.BlockError)
		if !ok || be.Reason != blockchain.ReasonIdCollision || be.ExistingID != b.GetID() {
			t.Fatalf("expected IdCollision(%x), got %v", b.GetID(), err)
		}
	})

	t.Run("orphaned_block_rejected", func(t *testing.T) {
		s := newStore()
		pub, priv := keypair(t)
		chain := buildChain(t, pub, priv, []uint64{0, 1}, 1)
		// Append the second block without ever appending its predecessor.
		err := s.AppendVerifiedBlock(chain[1])
		if err == nil {
			t.Fatalf("expected OrphanedBlock")
		}
		be, ok := err.(*blockchain.BlockError)
		if !ok || be.Reason != blockchain.ReasonOrphanedBlock {
			t.Fatalf("expected OrphanedBlock, got %v", err)
		}
	})

	t.Run("genesis_with_zero_prev_hash_accepted", func(t *testing.T) {
		s := newStore()
		pub, priv := keypair(t)
		chain := buildChain(t, pub, priv, []uint64{0}, 1)
		if err := s.AppendVerifiedBlock(chain[0]); err != nil {
			t.Fatalf("expected genesis block accepted, got %v", err)
		}
	})
}
