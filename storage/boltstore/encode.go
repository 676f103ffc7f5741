package boltstore

import (
	"encoding/binary"
	"fmt"

	"stachanov.dev/ledger/blockchain"
)

// Body encoding: a block's body is currently just a count of Dummy
// transactions (the only in-scope variant), stored as a little-endian
// uint32. Domain-specific transaction payloads are an external concern
// (spec Non-goals); a richer encoding belongs to whichever consumer
// supplies real Transaction variants.
func encodeBody(body *blockchain.BlockBody) []byte {
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, uint32(len(body.Transactions)))
	return out
}

func decodeBody(b []byte) (*blockchain.BlockBody, error) {
	if len(b) != 4 {
		return nil, fmt.Errorf("boltstore: truncated body record")
	}
	n := binary.LittleEndian.Uint32(b)
	txs := make([]blockchain.Transaction, n)
	for i := range txs {
		txs[i] = blockchain.DummyTransaction{}
	}
	return &blockchain.BlockBody{Transactions: txs}, nil
}

func txIDKey(id blockchain.TxId) []byte {
	key := make([]byte, 34)
	copy(key[:32], id.BlockId[:])
	binary.LittleEndian.PutUint16(key[32:], uint16(id.TxIndex))
	return key
}

// indexKey encodes a block index big-endian so that bbolt's bytewise key
// order matches numeric index order.
func indexKey(index uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, index)
	return key
}

// TxState encoding.
//
// Layout:
//
//	total_kind u8 | total_finalized_by (32 bytes, zero if n/a)
//	rel_count u16le
//	for each relationship:
//	  rel_kind u8 (0 = Dummy)
//	  cardinality u8 (0 = OneToOne, 1 = OneToMany)
//	  if OneToOne: has_claimer u8, claimer (34 bytes if has_claimer)
//	  if OneToMany: count u16le, claimers (34 bytes each)
func encodeTxState(st *blockchain.TxState) []byte {
	out := make([]byte, 0, 64)

	total := st.GetTotalRelState()
	out = append(out, byte(total.Kind))
	out = append(out, encodeTxId(total.FinalizedBy)...)

	relMap := st.GetRelMap()
	var countBuf [2]byte
	binary.LittleEndian.PutUint16(countBuf[:], uint16(len(relMap)))
	out = append(out, countBuf[:]...)

	for relID, rel := range relMap {
		out = append(out, byte(relKindOf(relID)))
		out = append(out, byte(rel.Cardinality))
		switch rel.Cardinality {
		case blockchain.OneToOne:
			if rel.One == nil {
				out = append(out, 0)
			} else {
				out = append(out, 1)
				out = append(out, encodeTxId(*rel.One)...)
			}
		case blockchain.OneToMany:
			var n [2]byte
			binary.LittleEndian.PutUint16(n[:], uint16(len(rel.Many)))
			out = append(out, n[:]...)
			for _, c := range rel.Many {
				out = append(out, encodeTxId(c)...)
			}
		}
	}
	return out
}

func decodeTxState(b []byte) (*blockchain.TxState, error) {
	if len(b) < 1+34+2 {
		return nil, fmt.Errorf("boltstore: truncated tx_state record")
	}
	off := 0
	kind := blockchain.TotalRelKind(b[off])
	off++
	finalizedBy := decodeTxId(b[off : off+34])
	off += 34

	relCount := int(binary.LittleEndian.Uint16(b[off : off+2]))
	off += 2

	st := blockchain.NewTxState(blockchain.TxTotalRelState{Kind: kind, FinalizedBy: finalizedBy})

	for i := 0; i < relCount; i++ {
		if off+2 > len(b) {
			return nil, fmt.Errorf("boltstore: truncated relationship header")
		}
		relID := relIdFromKind(b[off])
		cardinality := blockchain.RelCardinality(b[off+1])
		off += 2

		switch cardinality {
		case blockchain.OneToOne:
			if off+1 > len(b) {
				return nil, fmt.Errorf("boltstore: truncated one-to-one flag")
			}
			has := b[off]
			off++
			if err := st.AddOneToOneRel(relID); err != nil {
				return nil, err
			}
			if has == 1 {
				if off+34 > len(b) {
					return nil, fmt.Errorf("boltstore: truncated one-to-one claimer")
				}
				claimer := decodeTxId(b[off : off+34])
				off += 34
				rel, _ := st.GetRel(relID)
				c := claimer
				rel.One = &c
			}
		case blockchain.OneToMany:
			if off+2 > len(b) {
				return nil, fmt.Errorf("boltstore: truncated one-to-many count")
			}
			n := int(binary.LittleEndian.Uint16(b[off : off+2]))
			off += 2
			if err := st.AddOneToManyRel(relID); err != nil {
				return nil, err
			}
			rel, _ := st.GetRel(relID)
			for j := 0; j < n; j++ {
				if off+34 > len(b) {
					return nil, fmt.Errorf("boltstore: truncated one-to-many claimer")
				}
				rel.Many = append(rel.Many, decodeTxId(b[off:off+34]))
				off += 34
			}
		default:
			return nil, fmt.Errorf("boltstore: unknown relationship cardinality %d", cardinality)
		}
	}

	return st, nil
}

func encodeTxId(id blockchain.TxId) []byte {
	return txIDKey(id)
}

func decodeTxId(b []byte) blockchain.TxId {
	var blockID blockchain.BlockId
	copy(blockID[:], b[:32])
	idx := binary.LittleEndian.Uint16(b[32:34])
	return blockchain.TxId{BlockId: blockID, TxIndex: blockchain.TxIndex(idx)}
}

// relKindOf/relIdFromKind round-trip TxRelId through a single byte. Dummy
// is the only variant in scope; a domain-specific relationship set would
// extend this table.
func relKindOf(id blockchain.TxRelId) byte {
	_ = id
	return 0
}

func relIdFromKind(b byte) blockchain.TxRelId {
	_ = b
	return blockchain.DummyRelId
}
