package blockchain

import "crypto/ed25519"

const (
	headerVersionSize      = 8
	headerPubkeySize       = 32
	headerPrevHashSize     = 32
	headerIndexSize        = 8
	headerTimestampSize    = 8
	headerContentHashSize  = 32
	headerSignatureSize    = 64
	messageSegmentSize     = headerVersionSize + headerPubkeySize + headerPrevHashSize + headerIndexSize + headerTimestampSize + headerContentHashSize
	HeaderSize             = messageSegmentSize + headerSignatureSize
	SupportedHeaderVersion = 0
)

// BlockHeader is the 184-byte canonical header: the message segment (first
// six fields) plus a trailing Ed25519 signature over that segment.
type BlockHeader struct {
	Version       uint64
	IssuerPubkey  [32]byte
	PrevBlockHash BlockId
	Index         uint64
	Timestamp     uint64
	ContentHash   [32]byte
	Signature     [64]byte
}

// NewHeader builds a header from an issuer public key, an optional
// predecessor header (borrowed, read-only), a timestamp, a rule-set
// version, and a content hash. The signature is left all-zero; callers
// must call Sign before the header is valid.
func NewHeader(issuerPubkey [32]byte, prev *BlockHeader, timestamp uint64, version uint64, contentHash [32]byte) *BlockHeader {
	h := &BlockHeader{
		Version:      version,
		IssuerPubkey: issuerPubkey,
		Timestamp:    timestamp,
		ContentHash:  contentHash,
	}
	if prev == nil {
		h.Index = 0
		h.PrevBlockHash = BlockId{}
	} else {
		h.Index = prev.Index + 1
		h.PrevBlockHash = prev.Hash()
	}
	return h
}

// MessageSegment returns the 120-byte concatenation of the first six
// fields, in canonical order. This is both the BlockId hash preimage and
// the signed message; the signature itself is excluded.
func (h *BlockHeader) MessageSegment() []byte {
	buf := make([]byte, messageSegmentSize)
	off := 0
	versionLE := U64ToLE(h.Version)
	copy(buf[off:], versionLE[:])
	off += headerVersionSize
	copy(buf[off:], h.IssuerPubkey[:])
	off += headerPubkeySize
	copy(buf[off:], h.PrevBlockHash[:])
	off += headerPrevHashSize
	indexLE := U64ToLE(h.Index)
	copy(buf[off:], indexLE[:])
	off += headerIndexSize
	timestampLE := U64ToLE(h.Timestamp)
	copy(buf[off:], timestampLE[:])
	off += headerTimestampSize
	copy(buf[off:], h.ContentHash[:])
	off += headerContentHashSize
	return buf
}

// Bytes serializes the full 184-byte header, message segment followed by
// signature.
func (h *BlockHeader) Bytes() []byte {
	buf := make([]byte, HeaderSize)
	copy(buf, h.MessageSegment())
	copy(buf[messageSegmentSize:], h.Signature[:])
	return buf
}

// HeaderFromBytes parses a 184-byte wire/disk representation. Round-trip
// law: HeaderFromBytes(h.Bytes()) == h for every well-formed header.
func HeaderFromBytes(b []byte) (*BlockHeader, error) {
	if len(b) != HeaderSize {
		return nil, binErr(ReasonInvalidDataSize)
	}
	h := &BlockHeader{}
	off := 0
	var versionLE [8]byte
	copy(versionLE[:], b[off:off+headerVersionSize])
	h.Version = LEToU64(versionLE)
	off += headerVersionSize
	if h.Version != SupportedHeaderVersion {
		return nil, binErr(ReasonUnsupportedVersion)
	}
	copy(h.IssuerPubkey[:], b[off:off+headerPubkeySize])
	off += headerPubkeySize
	if h.IssuerPubkey == ([32]byte{}) {
		return nil, binFieldErr("issuer_pubkey")
	}
	copy(h.PrevBlockHash[:], b[off:off+headerPrevHashSize])
	off += headerPrevHashSize
	var indexLE [8]byte
	copy(indexLE[:], b[off:off+headerIndexSize])
	h.Index = LEToU64(indexLE)
	off += headerIndexSize
	var timestampLE [8]byte
	copy(timestampLE[:], b[off:off+headerTimestampSize])
	h.Timestamp = LEToU64(timestampLE)
	off += headerTimestampSize
	copy(h.ContentHash[:], b[off:off+headerContentHashSize])
	off += headerContentHashSize
	copy(h.Signature[:], b[off:off+headerSignatureSize])
	return h, nil
}

// Hash returns the BlockId: SHA3-256 of the message segment, excluding the
// signature.
func (h *BlockHeader) Hash() BlockId {
	return BlockId(SHA3_256(h.MessageSegment()))
}

// Sign computes an Ed25519 signature over the message segment and stores
// it. Resigning with a different key replaces the signature; signing is
// idempotent with respect to message content.
func (h *BlockHeader) Sign(secretKey ed25519.PrivateKey) {
	sig := ed25519.Sign(secretKey, h.MessageSegment())
	copy(h.Signature[:], sig)
}

// VerifySignature checks the stored signature against IssuerPubkey over the
// message segment.
func (h *BlockHeader) VerifySignature() error {
	if !ed25519.Verify(h.IssuerPubkey[:], h.MessageSegment(), h.Signature[:]) {
		return verrf(ReasonInvalidIssuerSignature)
	}
	return nil
}

// VerifyInternal checks everything about a header that can be checked
// without reference to a predecessor. Proof-of-work is not an internal
// header invariant in this revision (Q-P1): VerifyInternal is exactly
// VerifySignature.
func (h *BlockHeader) VerifyInternal() error {
	return h.VerifySignature()
}

// VerifyChainLink checks that h correctly follows prev: the previous-hash
// field matches, the index increments by exactly one, and the timestamp
// strictly increases.
func (h *BlockHeader) VerifyChainLink(prev *BlockHeader) error {
	if h.PrevBlockHash != prev.Hash() {
		return verrf(ReasonInvalidChainLink)
	}
	if h.Timestamp <= prev.Timestamp {
		return verrf(ReasonInvalidChainLink)
	}
	if h.Index != prev.Index+1 {
		return verrf(ReasonInvalidChainLink)
	}
	return nil
}
