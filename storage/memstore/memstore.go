// Package memstore is an in-memory reference ChainStorage backend. It is
// the simplest possible conforming implementation and doubles as the
// baseline the storage/conformance suite is authored against.
package memstore

import (
	"sync"

	"github.com/sirupsen/logrus"

	"stachanov.dev/ledger/blockchain"
	"stachanov.dev/ledger/logging"
)

// Store is an in-memory ChainStorage. All mutating operations are guarded
// by a single mutex, matching the single-writer discipline the core asks
// backends to provide under concurrent access.
type Store struct {
	mu sync.Mutex

	log *logrus.Entry

	blocks   map[blockchain.BlockId]*blockchain.Block
	nextOf   map[blockchain.BlockId]blockchain.BlockId
	byIndex  []blockchain.BlockId // ordered by index, index i at position i
	txStates map[blockchain.TxId]*blockchain.TxState
}

// New creates an empty Store. log may be nil, in which case a discard
// logger is used.
func New(log *logrus.Logger) *Store {
	return &Store{
		log:      logging.EntryOrDiscard(log).WithField("backend", "memstore"),
		blocks:   make(map[blockchain.BlockId]*blockchain.Block),
		nextOf:   make(map[blockchain.BlockId]blockchain.BlockId),
		txStates: make(map[blockchain.TxId]*blockchain.TxState),
	}
}

func (s *Store) GetBlock(id blockchain.BlockId) (*blockchain.Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blocks[id]
	s.log.WithFields(logrus.Fields{"block_id": id, "found": ok}).Debug("get_block")
	return b, ok
}

func (s *Store) GetHeader(id blockchain.BlockId) (*blockchain.BlockHeader, bool) {
	b, ok := s.GetBlock(id)
	if !ok {
		return nil, false
	}
	return b.Header, true
}

func (s *Store) AppendVerifiedBlock(block *blockchain.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := block.GetID()
	if _, exists := s.blocks[id]; exists {
		s.log.WithField("block_id", id).Warn("append_verified_block: id collision")
		return &blockchain.BlockError{Reason: blockchain.ReasonIdCollision, ExistingID: id}
	}

	prevHash := block.Header.PrevBlockHash
	if !prevHash.IsZero() {
		if _, ok := s.blocks[prevHash]; !ok {
			s.log.WithField("block_id", id).Warn("append_verified_block: orphaned")
			return &blockchain.BlockError{Reason: blockchain.ReasonOrphanedBlock}
		}
		s.nextOf[prevHash] = id
	}

	s.blocks[id] = block
	idx := int(block.GetIndex())
	for len(s.byIndex) <= idx {
		s.byIndex = append(s.byIndex, blockchain.BlockId{})
	}
	s.byIndex[idx] = id

	for i := range block.Body.Transactions {
		txID := blockchain.TxId{BlockId: id, TxIndex: blockchain.TxIndex(i)}
		s.txStates[txID] = blockchain.NewTxState(blockchain.TxTotalRelState{Kind: blockchain.Claimable})
	}

	s.log.WithFields(logrus.Fields{"block_id": id, "index": idx}).Info("append_verified_block")
	return nil
}

func (s *Store) GetTransaction(id blockchain.TxId) (blockchain.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blocks[id.BlockId]
	if !ok {
		return nil, false
	}
	return b.GetTransaction(id.TxIndex)
}

func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks = make(map[blockchain.BlockId]*blockchain.Block)
	s.nextOf = make(map[blockchain.BlockId]blockchain.BlockId)
	s.byIndex = nil
	s.txStates = make(map[blockchain.TxId]*blockchain.TxState)
	s.log.Info("reset")
	return nil
}

func (s *Store) GetAfter(id blockchain.BlockId) (*blockchain.Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nextID, ok := s.nextOf[id]
	if !ok {
		return nil, false
	}
	b, ok := s.blocks[nextID]
	return b, ok
}

func (s *Store) GetAfterTimestamp(ts uint64) (*blockchain.Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.byIndex {
		b, ok := s.blocks[id]
		if !ok {
			continue
		}
		if b.GetTimestamp() > ts {
			return b, true
		}
	}
	return nil, false
}

func (s *Store) GetTailBlock() (*blockchain.Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.byIndex) == 0 {
		return nil, false
	}
	last := s.byIndex[len(s.byIndex)-1]
	b, ok := s.blocks[last]
	return b, ok
}

func (s *Store) GetTransactionState(id blockchain.TxId) (*blockchain.TxState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.txStates[id]
	return st, ok
}

func (s *Store) SetTransactionState(id blockchain.TxId, state *blockchain.TxState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.txStates[id]; !ok {
		return &blockchain.TxProgError{Reason: blockchain.ReasonUnknownTx, TxId: id}
	}
	targetIndex, ok := s.blockIndexLocked(id.BlockId)
	if !ok {
		return &blockchain.TxProgError{Reason: blockchain.ReasonUnknownTx, TxId: id}
	}

	for _, ref := range referencedTxIds(state) {
		if _, ok := s.txStates[ref]; !ok {
			s.log.WithFields(logrus.Fields{"tx_id": id, "ref": ref}).Warn("set_transaction_state: unknown referenced tx")
			return &blockchain.TxProgError{Reason: blockchain.ReasonUnknownTx, TxId: ref}
		}
		refIndex, _ := s.blockIndexLocked(ref.BlockId)
		if refIndex <= targetIndex {
			s.log.WithFields(logrus.Fields{"tx_id": id, "ref": ref}).Warn("set_transaction_state: ref order violation")
			return &blockchain.TxProgError{Reason: blockchain.ReasonRefOrderError}
		}
	}

	s.txStates[id] = state
	s.log.WithField("tx_id", id).Info("set_transaction_state")
	return nil
}

func (s *Store) blockIndexLocked(id blockchain.BlockId) (uint64, bool) {
	b, ok := s.blocks[id]
	if !ok {
		return 0, false
	}
	return b.GetIndex(), true
}

// referencedTxIds collects every TxId referenced by state's relationships
// or its Finalized total state, for the referential-integrity and
// temporal-ordering checks in SetTransactionState.
func referencedTxIds(state *blockchain.TxState) []blockchain.TxId {
	var out []blockchain.TxId
	if total := state.GetTotalRelState(); total.Kind == blockchain.Finalized {
		out = append(out, total.FinalizedBy)
	}
	for _, rel := range state.GetRelMap() {
		switch rel.Cardinality {
		case blockchain.OneToOne:
			if rel.One != nil {
				out = append(out, *rel.One)
			}
		case blockchain.OneToMany:
			out = append(out, rel.Many...)
		}
	}
	return out
}
