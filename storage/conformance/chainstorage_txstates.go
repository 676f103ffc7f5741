package conformance

import (
	"crypto/ed25519"
	"testing"

	"stachanov.dev/ledger/blockchain"
)

// oneToOneStateClaiming builds a TxState with a single OneToOne
// relationship already claimed by claimer.
func oneToOneStateClaiming(t *testing.T, claimer blockchain.TxId) *blockchain.TxState {
	t.Helper()
	st := blockchain.NewTxState(blockchain.TxTotalRelState{Kind: blockchain.Claimable})
	if err := st.AddOneToOneRel(blockchain.DummyRelId); err != nil {
		t.Fatalf("AddOneToOneRel: %v", err)
	}
	if err := st.ClaimRel(blockchain.DummyRelId, claimer); err != nil {
		t.Fatalf("ClaimRel: %v", err)
	}
	return st
}

func finalizedState(finalizer blockchain.TxId) *blockchain.TxState {
	return blockchain.NewTxState(blockchain.TxTotalRelState{Kind: blockchain.Finalized, FinalizedBy: finalizer})
}

// RunChainStorageTxStates exercises set_transaction_state's temporal (P9,
// I5) and referential-integrity (P10, I6) enforcement, per scenarios S5
// and S6.
func RunChainStorageTxStates(t *testing.T, newStore Factory) {
	t.Run("get_transaction_state_of_nonexistent_is_absent", func(t *testing.T) {
		s := newStore()
		ghost := blockchain.TxId{BlockId: blockchain.BlockId{0xAA}, TxIndex: 0}
		if _, ok := s.GetTransactionState(ghost); ok {
			t.Fatalf("expected absent state for unknown tx")
		}
	})

	t.Run("set_transaction_state_unknown_target", func(t *testing.T) {
		s := newStore()
		ghost := blockchain.TxId{BlockId: blockchain.BlockId{0xAA}, TxIndex: 0}
		err := s.SetTransactionState(ghost, blockchain.NewTxState(blockchain.TxTotalRelState{Kind: blockchain.Claimable}))
		tpe, ok := err.(*blockchain.TxProgError)
		if !ok || tpe.Reason != blockchain.ReasonUnknownTx {
			t.Fatalf("expected UnknownTx, got %v", err)
		}
	})

	// S5: temporal claim rejection/acceptance.
	t.Run("temporal_claim_rejection", func(t *testing.T) {
		s := newStore()
		pub, priv := keypair(t)
		chain := buildChain(t, pub, priv, []uint64{0}, 2) // B0 with two Dummies
		b0 := chain[0]
		mustAppend(t, s, b0)
		b1chain := buildChainFrom(t, b0, priv, []uint64{1}, 1) // B1 with predecessor B0, one Dummy
		b1 := b1chain[0]
		mustAppend(t, s, b1)

		b0tx0 := blockchain.TxId{BlockId: b0.GetID(), TxIndex: 0}
		b0tx1 := blockchain.TxId{BlockId: b0.GetID(), TxIndex: 1}
		b1tx0 := blockchain.TxId{BlockId: b1.GetID(), TxIndex: 0}

		// B1.tx[0] claiming something in B0 (earlier block): rejected.
		assertRefOrderError(t, s.SetTransactionState(b1tx0, oneToOneStateClaiming(t, b0tx0)), "claimer in B1 referencing B0")

		// B1.tx[0] claiming something in B1 itself (same block): rejected.
		assertRefOrderError(t, s.SetTransactionState(b1tx0, oneToOneStateClaiming(t, b1tx0)), "claimer in B1 referencing B1 itself")

		// B1.tx[0] Finalized by a tx in B0: rejected.
		assertRefOrderError(t, s.SetTransactionState(b1tx0, finalizedState(b0tx0)), "finalized-by reference into B0")

		// B0.tx[0] claiming something in B0 (same block): rejected.
		assertRefOrderError(t, s.SetTransactionState(b0tx0, oneToOneStateClaiming(t, b0tx1)), "same-block claim within B0")

		// B0.tx[0] claiming something in B1 (later block): accepted.
		if err := s.SetTransactionState(b0tx0, oneToOneStateClaiming(t, b1tx0)); err != nil {
			t.Fatalf("expected claim from earlier tx into a later block to succeed, got %v", err)
		}
	})

	// S6: unknown claimer.
	t.Run("unknown_claimer_rejected", func(t *testing.T) {
		s := newStore()
		pub, priv := keypair(t)
		chain := buildChain(t, pub, priv, []uint64{0}, 2)
		b0 := chain[0]
		mustAppend(t, s, b0)
		b1chain := buildChainFrom(t, b0, priv, []uint64{1}, 1)
		b1 := b1chain[0]
		mustAppend(t, s, b1)

		b0tx0 := blockchain.TxId{BlockId: b0.GetID(), TxIndex: 0}
		ghost := blockchain.TxId{BlockId: b1.GetID(), TxIndex: 0xDEAD}

		err := s.SetTransactionState(b0tx0, oneToOneStateClaiming(t, ghost))
		tpe, ok := err.(*blockchain.TxProgError)
		if !ok || tpe.Reason != blockchain.ReasonUnknownTx || tpe.TxId != ghost {
			t.Fatalf("expected UnknownTx(%v), got %v", ghost, err)
		}
	})
}

func assertRefOrderError(t *testing.T, err error, label string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected RefOrderError, got nil", label)
	}
	tpe, ok := err.(*blockchain.TxProgError)
	if !ok || tpe.Reason != blockchain.ReasonRefOrderError {
		t.Fatalf("%s: expected RefOrderError, got %v", label, err)
	}
}

// buildChainFrom extends an existing, already-built predecessor block with
// a new chain of blocks signed by priv.
func buildChainFrom(t *testing.T, prev *blockchain.Block, priv ed25519.PrivateKey, timestamps []uint64, numTxs int) []*blockchain.Block {
	t.Helper()
	var pubArr [32]byte
	copy(pubArr[:], priv.Public().(ed25519.PublicKey))

	blocks := make([]*blockchain.Block, len(timestamps))
	for i, ts := range timestamps {
		txs := make([]blockchain.Transaction, numTxs)
		for j := range txs {
			txs[j] = blockchain.DummyTransaction{}
		}
		b := blockchain.NewBlock(pubArr, prev, ts, txs)
		b.Sign(priv)
		blocks[i] = b
		prev = b
	}
	return blocks
}
