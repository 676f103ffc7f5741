// Package boltstore is a bbolt-backed ChainStorage implementation: blocks,
// headers and transaction states are persisted to a single on-disk
// database file instead of living only in process memory.
package boltstore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	"github.com/sirupsen/logrus"

	"stachanov.dev/ledger/blockchain"
	"stachanov.dev/ledger/logging"
)

var (
	bucketHeaders  = []byte("headers_by_id")
	bucketBodies   = []byte("bodies_by_id")
	bucketByIndex  = []byte("id_by_index")
	bucketNextOf   = []byte("next_id_by_id")
	bucketTxStates = []byte("tx_state_by_tx_id")
	bucketMeta     = []byte("meta")

	metaKeyTailIndex = []byte("tail_index")
)

// Options configures a Store. There is no config-file DSL: callers build
// this struct directly and pass it to Open.
type Options struct {
	// Path is the bbolt database file path. Required.
	Path string

	// FileMode is the mode used if the file does not yet exist. Defaults
	// to 0o600 if zero.
	FileMode os.FileMode

	// Logger receives structured log entries. Nil uses a discard logger.
	Logger *logrus.Logger

	// OpenTimeout bounds how long Open waits for the bbolt file lock.
	// Defaults to 1 second if zero.
	OpenTimeout time.Duration
}

// Store is a bbolt-backed ChainStorage. All mutating operations run inside
// a single bbolt write transaction, which already gives single-writer
// serialization; there is no additional in-process mutex.
type Store struct {
	db  *bolt.DB
	log *logrus.Entry
}

// Open creates or opens the database file at opts.Path and ensures its
// buckets exist.
func Open(opts Options) (*Store, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("boltstore: Path is required")
	}
	mode := opts.FileMode
	if mode == 0 {
		mode = 0o600
	}
	timeout := opts.OpenTimeout
	if timeout == 0 {
		timeout = time.Second
	}
	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("boltstore: create data dir: %w", err)
		}
	}

	db, err := bolt.Open(opts.Path, mode, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("boltstore: open: %w", err)
	}

	s := &Store{
		db:  db,
		log: logging.EntryOrDiscard(opts.Logger).WithField("backend", "boltstore"),
	}
	if err := s.ensureBuckets(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketHeaders, bucketBodies, bucketByIndex, bucketNextOf, bucketTxStates, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("boltstore: create bucket %s: %w", string(b), err)
			}
		}
		return nil
	})
}

// Close releases the underlying bbolt file handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) GetBlock(id blockchain.BlockId) (*blockchain.Block, bool) {
	var block *blockchain.Block
	_ = s.db.View(func(tx *bolt.Tx) error {
		hb := tx.Bucket(bucketHeaders).Get(id[:])
		if hb == nil {
			return nil
		}
		header, err := blockchain.HeaderFromBytes(hb)
		if err != nil {
			return nil
		}
		bodyBytes := tx.Bucket(bucketBodies).Get(id[:])
		body, err := decodeBody(bodyBytes)
		if err != nil {
			return nil
		}
		block = &blockchain.Block{Header: header, Body: body}
		return nil
	})
	s.log.WithFields(logrus.Fields{"block_id": id, "found": block != nil}).Debug("get_block")
	return block, block != nil
}

func (s *Store) GetHeader(id blockchain.BlockId) (*blockchain.BlockHeader, bool) {
	var header *blockchain.BlockHeader
	_ = s.db.View(func(tx *bolt.Tx) error {
		hb := tx.Bucket(bucketHeaders).Get(id[:])
		if hb == nil {
			return nil
		}
		h, err := blockchain.HeaderFromBytes(hb)
		if err != nil {
			return nil
		}
		header = h
		return nil
	})
	return header, header != nil
}

func (s *Store) AppendVerifiedBlock(block *blockchain.Block) error {
	id := block.GetID()
	err := s.db.Update(func(tx *bolt.Tx) error {
		headers := tx.Bucket(bucketHeaders)
		if headers.Get(id[:]) != nil {
			return &blockchain.BlockError{Reason: blockchain.ReasonIdCollision, ExistingID: id}
		}

		prevHash := block.Header.PrevBlockHash
		if !prevHash.IsZero() {
			if headers.Get(prevHash[:]) == nil {
				return &blockchain.BlockError{Reason: blockchain.ReasonOrphanedBlock}
			}
			if err := tx.Bucket(bucketNextOf).Put(prevHash[:], id[:]); err != nil {
				return fmt.Errorf("boltstore: put next_of: %w", err)
			}
		}

		if err := headers.Put(id[:], block.Header.Bytes()); err != nil {
			return fmt.Errorf("boltstore: put header: %w", err)
		}
		if err := tx.Bucket(bucketBodies).Put(id[:], encodeBody(block.Body)); err != nil {
			return fmt.Errorf("boltstore: put body: %w", err)
		}
		if err := tx.Bucket(bucketByIndex).Put(indexKey(block.GetIndex()), id[:]); err != nil {
			return fmt.Errorf("boltstore: put index entry: %w", err)
		}
		if err := tx.Bucket(bucketMeta).Put(metaKeyTailIndex, indexKey(block.GetIndex())); err != nil {
			return fmt.Errorf("boltstore: put tail index: %w", err)
		}

		states := tx.Bucket(bucketTxStates)
		for i := range block.Body.Transactions {
			txID := blockchain.TxId{BlockId: id, TxIndex: blockchain.TxIndex(i)}
			st := blockchain.NewTxState(blockchain.TxTotalRelState{Kind: blockchain.Claimable})
			if err := states.Put(txIDKey(txID), encodeTxState(st)); err != nil {
				return fmt.Errorf("boltstore: put tx_state: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{"block_id": id, "err": err}).Warn("append_verified_block: rejected")
		return err
	}
	s.log.WithFields(logrus.Fields{"block_id": id, "index": block.GetIndex()}).Info("append_verified_block")
	return nil
}

func (s *Store) GetTransaction(id blockchain.TxId) (blockchain.Transaction, bool) {
	block, ok := s.GetBlock(id.BlockId)
	if !ok {
		return nil, false
	}
	return block.GetTransaction(id.TxIndex)
}

func (s *Store) Reset() error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketHeaders, bucketBodies, bucketByIndex, bucketNextOf, bucketTxStates, bucketMeta} {
			if err := tx.DeleteBucket(b); err != nil && err != bolt.ErrBucketNotFound {
				return fmt.Errorf("boltstore: delete bucket %s: %w", string(b), err)
			}
			if _, err := tx.CreateBucket(b); err != nil {
				return fmt.Errorf("boltstore: recreate bucket %s: %w", string(b), err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("reset")
	return nil
}

func (s *Store) GetAfter(id blockchain.BlockId) (*blockchain.Block, bool) {
	var nextID blockchain.BlockId
	found := false
	_ = s.db.View(func(tx *bolt.Tx) error {
		nb := tx.Bucket(bucketNextOf).Get(id[:])
		if nb == nil {
			return nil
		}
		copy(nextID[:], nb)
		found = true
		return nil
	})
	if !found {
		return nil, false
	}
	return s.GetBlock(nextID)
}

func (s *Store) GetAfterTimestamp(ts uint64) (*blockchain.Block, bool) {
	var result *blockchain.Block
	_ = s.db.View(func(tx *bolt.Tx) error {
		idx := tx.Bucket(bucketByIndex)
		headers := tx.Bucket(bucketHeaders)
		bodies := tx.Bucket(bucketBodies)
		c := idx.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			hb := headers.Get(v)
			if hb == nil {
				continue
			}
			header, err := blockchain.HeaderFromBytes(hb)
			if err != nil {
				continue
			}
			if header.Timestamp > ts {
				body, err := decodeBody(bodies.Get(v))
				if err != nil {
					continue
				}
				result = &blockchain.Block{Header: header, Body: body}
				return nil
			}
		}
		return nil
	})
	return result, result != nil
}

func (s *Store) GetTailBlock() (*blockchain.Block, bool) {
	var tailID []byte
	_ = s.db.View(func(tx *bolt.Tx) error {
		idx := tx.Bucket(bucketByIndex)
		c := idx.Cursor()
		_, v := c.Last()
		if v != nil {
			tailID = append([]byte(nil), v...)
		}
		return nil
	})
	if tailID == nil {
		return nil, false
	}
	var id blockchain.BlockId
	copy(id[:], tailID)
	return s.GetBlock(id)
}

func (s *Store) GetTransactionState(id blockchain.TxId) (*blockchain.TxState, bool) {
	var st *blockchain.TxState
	_ = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTxStates).Get(txIDKey(id))
		if b == nil {
			return nil
		}
		decoded, err := decodeTxState(b)
		if err != nil {
			return nil
		}
		st = decoded
		return nil
	})
	return st, st != nil
}

func (s *Store) SetTransactionState(id blockchain.TxId, state *blockchain.TxState) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		states := tx.Bucket(bucketTxStates)
		headers := tx.Bucket(bucketHeaders)

		if states.Get(txIDKey(id)) == nil {
			return &blockchain.TxProgError{Reason: blockchain.ReasonUnknownTx, TxId: id}
		}
		targetHeader, err := blockchain.HeaderFromBytes(headers.Get(id.BlockId[:]))
		if err != nil {
			return &blockchain.TxProgError{Reason: blockchain.ReasonUnknownTx, TxId: id}
		}

		for _, ref := range referencedTxIds(state) {
			if states.Get(txIDKey(ref)) == nil {
				return &blockchain.TxProgError{Reason: blockchain.ReasonUnknownTx, TxId: ref}
			}
			refHeader, err := blockchain.HeaderFromBytes(headers.Get(ref.BlockId[:]))
			if err != nil || refHeader.Index <= targetHeader.Index {
				return &blockchain.TxProgError{Reason: blockchain.ReasonRefOrderError}
			}
		}

		return states.Put(txIDKey(id), encodeTxState(state))
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{"tx_id": id, "err": err}).Warn("set_transaction_state: rejected")
		return err
	}
	s.log.WithField("tx_id", id).Info("set_transaction_state")
	return nil
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
