// Package conformance is a backend-agnostic battery of property tests any
// storage.ChainStorage implementation must satisfy. Each Run* function
// takes a factory that produces a fresh, empty backend per case — mirroring
// the reset()-before-each-case discipline described for the storage
// conformance suite.
package conformance

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"stachanov.dev/ledger/blockchain"
	"stachanov.dev/ledger/storage"
)

// Factory constructs a fresh, empty ChainStorage backend.
type Factory func() storage.ChainStorage

func keypair(t *testing.T) (pubArr [32]byte, priv ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate keypair: %v", err)
	}
	copy(pubArr[:], pub)
	return pubArr, priv
}

// buildChain builds one signed block per entry of timestamps, each with
// numTxs Dummy transactions, genesis first, linearly chained, block i
// taking timestamps[i] (callers pass strictly increasing timestamps).
func buildChain(t *testing.T, pub [32]byte, priv ed25519.PrivateKey, timestamps []uint64, numTxs int) []*blockchain.Block {
	t.Helper()
	blocks := make([]*blockchain.Block, len(timestamps))
	var prev *blockchain.Block
	for i, ts := range timestamps {
		txs := make([]blockchain.Transaction, numTxs)
		for j := range txs {
			txs[j] = blockchain.DummyTransaction{}
		}
		b := blockchain.NewBlock(pub, prev, ts, txs)
		b.Sign(priv)
		blocks[i] = b
		prev = b
	}
	return blocks
}

func mustAppend(t *testing.T, s storage.ChainStorage, b *blockchain.Block) {
	t.Helper()
	if err := s.AppendVerifiedBlock(b); err != nil {
		t.Fatalf("append_verified_block(%x): unexpected error %v", b.GetID(), err)
	}
}
