package blockchain

import "crypto/ed25519"

// BlockBody is an ordered sequence of transactions, indexable by TxIndex.
type BlockBody struct {
	Transactions []Transaction
}

func (b *BlockBody) Get(idx TxIndex) (Transaction, bool) {
	if int(idx) >= len(b.Transactions) {
		return nil, false
	}
	return b.Transactions[idx], true
}

// Block is a header plus an ordered transaction vector. Identity is the
// BlockId: the hash of the header's message segment.
type Block struct {
	Header *BlockHeader
	Body   *BlockBody
}

// NewBlock builds a block from an issuer public key, an optional
// predecessor block (borrowed, read-only), a timestamp, and a transaction
// vector. The Merkle root over txs becomes the header's content hash; the
// header is constructed at version 0 with a zero signature.
func NewBlock(issuerPubkey [32]byte, prev *Block, timestamp uint64, txs []Transaction) *Block {
	body := &BlockBody{Transactions: txs}
	contentHash := MerkleRoot(txs)

	var prevHeader *BlockHeader
	if prev != nil {
		prevHeader = prev.Header
	}
	header := NewHeader(issuerPubkey, prevHeader, timestamp, SupportedHeaderVersion, contentHash)

	return &Block{Header: header, Body: body}
}

// GetID returns the block's identity, the header hash.
func (b *Block) GetID() BlockId {
	return b.Header.Hash()
}

func (b *Block) GetIndex() uint64 {
	return b.Header.Index
}

func (b *Block) GetTimestamp() uint64 {
	return b.Header.Timestamp
}

// GetTransaction returns the transaction at idx, or false if out of range.
func (b *Block) GetTransaction(idx TxIndex) (Transaction, bool) {
	return b.Body.Get(idx)
}

// Sign delegates to the header.
func (b *Block) Sign(secretKey ed25519.PrivateKey) {
	b.Header.Sign(secretKey)
}

// VerifyInternal checks the header invariants, then recomputes the Merkle
// root from the body and compares it against the header's content hash.
func (b *Block) VerifyInternal() error {
	if err := b.Header.VerifyInternal(); err != nil {
		return err
	}
	root := MerkleRoot(b.Body.Transactions)
	if root != b.Header.ContentHash {
		return verrf(ReasonInvalidContentHash)
	}
	return nil
}

// VerifyChainLink delegates to the header.
func (b *Block) VerifyChainLink(prev *Block) error {
	return b.Header.VerifyChainLink(prev.Header)
}
