// Package storage defines the abstract block and chain storage contracts
// that concrete backends (storage/memstore, storage/boltstore) implement,
// and against which storage/conformance runs its property suite.
package storage

import "stachanov.dev/ledger/blockchain"

// BlockStorage is the minimal capability every backend implements.
type BlockStorage interface {
	// GetBlock returns the persisted block with the given id, or false if
	// no such block exists.
	GetBlock(id blockchain.BlockId) (*blockchain.Block, bool)

	// GetHeader returns the persisted header with the given id, or false.
	GetHeader(id blockchain.BlockId) (*blockchain.BlockHeader, bool)

	// AppendVerifiedBlock persists block. The caller asserts that
	// block.VerifyInternal() already passed; the backend still enforces
	// IdCollision and OrphanedBlock.
	AppendVerifiedBlock(block *blockchain.Block) error

	// GetTransaction returns the transaction at id, or false if absent.
	GetTransaction(id blockchain.TxId) (blockchain.Transaction, bool)

	// Reset wipes all persisted state.
	Reset() error
}

// ChainStorage extends BlockStorage for a single linear chain.
type ChainStorage interface {
	BlockStorage

	// GetAfter returns the unique successor of id, or false at the tail or
	// for an unknown id.
	GetAfter(id blockchain.BlockId) (*blockchain.Block, bool)

	// GetAfterTimestamp returns the block with the smallest index whose
	// timestamp is strictly greater than ts, or false if none qualifies.
	// An exact match on a block's own timestamp returns that block's
	// successor, matching get_after's "the block after" framing.
	GetAfterTimestamp(ts uint64) (*blockchain.Block, bool)

	// GetTailBlock returns the highest-index persisted block, or false if
	// the chain is empty.
	GetTailBlock() (*blockchain.Block, bool)

	// GetTransactionState returns the TxState for id, or false if absent.
	GetTransactionState(id blockchain.TxId) (*blockchain.TxState, bool)

	// SetTransactionState replaces the TxState for id, enforcing temporal
	// (I5) and referential (I6) rules over every TxId the new state
	// references.
	SetTransactionState(id blockchain.TxId, state *blockchain.TxState) error
}

// TreeStorage extends BlockStorage with branch-qualified state reads and
// writes, supporting a fuzzy tail of competing chains. It is referenced for
// completeness; the conformance suite targets ChainStorage only.
type TreeStorage interface {
	BlockStorage

	// GetTransactionStateOnBranch returns the TxState for id as observed on
	// the chain ending at tip, or false if absent on that branch.
	GetTransactionStateOnBranch(id blockchain.TxId, tip blockchain.BlockId) (*blockchain.TxState, bool)

	// SetTransactionStateOnBranch replaces the TxState for id on the
	// branch ending at tip.
	SetTransactionStateOnBranch(id blockchain.TxId, tip blockchain.BlockId, state *blockchain.TxState) error
}
