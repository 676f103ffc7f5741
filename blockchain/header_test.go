package blockchain

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
)

func mustKeypair(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate keypair: %v", err)
	}
	return pub, priv
}

// P1: header round-trip.
func TestHeaderRoundTrip(t *testing.T) {
	pub, priv := mustKeypair(t)
	var pubArr [32]byte
	copy(pubArr[:], pub)

	h := NewHeader(pubArr, nil, 42, SupportedHeaderVersion, [32]byte{1, 2, 3})
	h.Sign(priv)

	b := h.Bytes()
	if len(b) != HeaderSize {
		t.Fatalf("serialized header size = %d, want %d", len(b), HeaderSize)
	}

	got, err := HeaderFromBytes(b)
	if err != nil {
		t.Fatalf("HeaderFromBytes: %v", err)
	}
	if *got != *h {
		t.Fatalf("round trip mismatch:\n got  %+v\n want %+v", got, h)
	}
}

func TestHeaderFromBytes_InvalidSize(t *testing.T) {
	_, err := HeaderFromBytes(make([]byte, HeaderSize-1))
	if err == nil {
		t.Fatalf("expected error for truncated header")
	}
	bfe, ok := err.(*BinFormatError)
	if !ok || bfe.Reason != ReasonInvalidDataSize {
		t.Fatalf("expected InvalidDataSize, got %v", err)
	}
}

func TestHeaderFromBytes_UnsupportedVersion(t *testing.T) {
	pub, _ := mustKeypair(t)
	var pubArr [32]byte
	copy(pubArr[:], pub)
	h := NewHeader(pubArr, nil, 0, 1, [32]byte{})
	_, err := HeaderFromBytes(h.Bytes())
	bfe, ok := err.(*BinFormatError)
	if !ok || bfe.Reason != ReasonUnsupportedVersion {
		t.Fatalf("expected UnsupportedVersion, got %v", err)
	}
}

func TestHeaderFromBytes_InvalidFieldData(t *testing.T) {
	pub, priv := mustKeypair(t)
	var pubArr [32]byte
	copy(pubArr[:], pub)
	h := NewHeader(pubArr, nil, 0, SupportedHeaderVersion, [32]byte{})
	h.Sign(priv)
	b := h.Bytes()

	// Zero out the issuer_pubkey field; an all-zero key is not a well-formed
	// Ed25519 public key encoding.
	for i := headerVersionSize; i < headerVersionSize+headerPubkeySize; i++ {
		b[i] = 0
	}

	_, err := HeaderFromBytes(b)
	bfe, ok := err.(*BinFormatError)
	if !ok || bfe.Reason != ReasonInvalidFieldData || bfe.FieldName != "issuer_pubkey" {
		t.Fatalf("expected InvalidFieldData(issuer_pubkey), got %v", err)
	}
}

// P2: BlockId determinism regardless of signature.
func TestBlockIdDeterministic_IgnoresSignature(t *testing.T) {
	pub, priv := mustKeypair(t)
	var pubArr [32]byte
	copy(pubArr[:], pub)

	h1 := NewHeader(pubArr, nil, 1, SupportedHeaderVersion, [32]byte{9})
	h2 := NewHeader(pubArr, nil, 1, SupportedHeaderVersion, [32]byte{9})
	h2.Sign(priv)

	if h1.Hash() != h2.Hash() {
		t.Fatalf("BlockId must not depend on signature")
	}
}

// P3: signature verification.
func TestVerifySignature(t *testing.T) {
	pub, priv := mustKeypair(t)
	other, _ := mustKeypair(t)
	var pubArr [32]byte
	copy(pubArr[:], pub)

	h := NewHeader(pubArr, nil, 1, SupportedHeaderVersion, [32]byte{})
	h.Sign(priv)
	if err := h.VerifySignature(); err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}

	var otherArr [32]byte
	copy(otherArr[:], other)
	h.IssuerPubkey = otherArr
	if err := h.VerifySignature(); err == nil {
		t.Fatalf("expected signature mismatch against wrong key")
	}
}

// S3: chain-link timestamp scenario, also covers P4.
func TestVerifyChainLink_Timestamp(t *testing.T) {
	pub, _ := mustKeypair(t)
	var pubArr [32]byte
	copy(pubArr[:], pub)

	b0 := NewHeader(pubArr, nil, 0, SupportedHeaderVersion, [32]byte{})
	b1 := NewHeader(pubArr, b0, 0, SupportedHeaderVersion, [32]byte{})

	if err := b1.VerifyChainLink(b0); err == nil {
		t.Fatalf("expected InvalidChainLink for non-increasing timestamp")
	}

	b1ok := NewHeader(pubArr, b0, 1, SupportedHeaderVersion, [32]byte{})
	if err := b1ok.VerifyChainLink(b0); err != nil {
		t.Fatalf("expected valid chain link, got %v", err)
	}

	if err := b0.VerifyChainLink(b1ok); err == nil {
		t.Fatalf("reversed chain link check must always error")
	}
}

func TestVerifyChainLink_IndexMustIncrementByOne(t *testing.T) {
	pub, _ := mustKeypair(t)
	var pubArr [32]byte
	copy(pubArr[:], pub)

	b0 := NewHeader(pubArr, nil, 0, SupportedHeaderVersion, [32]byte{})
	b1 := NewHeader(pubArr, b0, 1, SupportedHeaderVersion, [32]byte{})
	b1.Index = 5 // tamper

	if err := b1.VerifyChainLink(b0); err == nil {
		t.Fatalf("expected InvalidChainLink for wrong index increment")
	}
}

func TestGenesisHeader(t *testing.T) {
	pub, _ := mustKeypair(t)
	var pubArr [32]byte
	copy(pubArr[:], pub)

	g := NewHeader(pubArr, nil, 0, SupportedHeaderVersion, [32]byte{})
	if g.Index != 0 {
		t.Fatalf("genesis index = %d, want 0", g.Index)
	}
	if g.PrevBlockHash != (BlockId{}) {
		t.Fatalf("genesis prev_block_hash must be all-zero")
	}
}
