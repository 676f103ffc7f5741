// Command stachanov-fixtures writes fixtures for the ledger core's header
// round-trip (spec S1), chain-link (S3) and temporal-claim (S5) scenarios
// and its Merkle test vectors (S4) to a JSON file, for
// consumption by out-of-process conformance checks against other
// implementations of the same core.
package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"stachanov.dev/ledger/blockchain"
)

func main() {
	out := flag.String("out", "fixtures.json", "output JSON file path")
	flag.Parse()

	fixtures, err := generate()
	if err != nil {
		fatalf("generate: %v", err)
	}

	b, err := json.MarshalIndent(fixtures, "", "  ")
	if err != nil {
		fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(*out, b, 0o644); err != nil {
		fatalf("write %s: %v", *out, err)
	}
	fmt.Printf("wrote %s\n", *out)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "stachanov-fixtures: "+format+"\n", args...)
	os.Exit(1)
}

// fixtureSet is the top-level JSON document.
type fixtureSet struct {
	HeaderRoundTrip headerFixture   `json:"header_round_trip"`
	ChainLink       chainLinkFixt   `json:"chain_link"`
	MerkleVectors   []merkleVector  `json:"merkle_vectors"`
	TemporalClaim   temporalFixture `json:"temporal_claim"`
}

type headerFixture struct {
	IssuerPubkeyHex string `json:"issuer_pubkey_hex"`
	SignatureHex    string `json:"signature_hex"`
	HeaderBytesHex  string `json:"header_bytes_hex"`
	ContentHashHex  string `json:"content_hash_hex"`
	BlockIDHex      string `json:"block_id_hex"`
}

type chainLinkFixt struct {
	GenesisTimestamp uint64 `json:"genesis_timestamp"`
	ValidSuccessorTS uint64 `json:"valid_successor_timestamp"`
	InvalidSamePrevTS uint64 `json:"invalid_same_prev_timestamp"`
}

type merkleVector struct {
	LeafBytesHex string `json:"leaf_bytes_hex"`
	RootHex      string `json:"root_hex"`
}

type temporalFixture struct {
	Description string `json:"description"`
	ExpectedErr string `json:"expected_error_reason"`
}

// generate builds the header round-trip, chain-link, Merkle-vector, and
// temporal-claim scenario fixtures.
func generate() (*fixtureSet, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	var pubArr [32]byte
	copy(pubArr[:], pub)

	block := blockchain.NewBlock(pubArr, nil, 0, []blockchain.Transaction{blockchain.DummyTransaction{}})
	block.Sign(priv)

	blockID := block.GetID()
	hf := headerFixture{
		IssuerPubkeyHex: hex.EncodeToString(pubArr[:]),
		SignatureHex:    hex.EncodeToString(block.Header.Signature[:]),
		HeaderBytesHex:  hex.EncodeToString(block.Header.Bytes()),
		ContentHashHex:  hex.EncodeToString(block.Header.ContentHash[:]),
		BlockIDHex:      hex.EncodeToString(blockID[:]),
	}

	cl := chainLinkFixt{
		GenesisTimestamp:  0,
		ValidSuccessorTS:  1,
		InvalidSamePrevTS: 0,
	}

	vectors := []merkleVector{
		mustMerkleVector(s4Vector1),
		mustMerkleVector(s4Vector2),
	}

	temporal := temporalFixture{
		Description: "a block's transaction may not claim a relationship of a transaction in the same or a later block",
		ExpectedErr: blockchain.ReasonRefOrderError,
	}

	return &fixtureSet{
		HeaderRoundTrip: hf,
		ChainLink:       cl,
		MerkleVectors:   vectors,
		TemporalClaim:   temporal,
	}, nil
}

// mustMerkleVector reproduces an S4 test vector: each byte of leafBytes is
// an independent one-byte "transaction", hashed with SHA3-256 of itself.
func mustMerkleVector(leafBytes []byte) merkleVector {
	leaves := make([][]byte, len(leafBytes))
	for i, b := range leafBytes {
		leaves[i] = []byte{b}
	}
	root := blockchain.MerkleRootOverBytes(leaves, blockchain.SHA3_256)
	return merkleVector{
		LeafBytesHex: hex.EncodeToString(leafBytes),
		RootHex:      hex.EncodeToString(root[:]),
	}
}

var s4Vector1 = []byte{
	0x14, 0x22, 0x41, 0xfb, 0xdf, 0x2a, 0x9b, 0xcf, 0x0a, 0xb2, 0x6a, 0xdb,
	0xb4, 0x39, 0x44, 0x0f, 0x22, 0x49, 0xba, 0xda, 0x13, 0xff, 0xaf, 0x2a,
	0x5f, 0x9a, 0x2a, 0xa9, 0xf5, 0x2c, 0x33,
}

var s4Vector2 = []byte{
	0x89, 0x2b, 0x4c, 0x8b, 0xd4, 0x17, 0x42, 0x2c, 0xaf, 0x59, 0x09, 0x7b,
	0x37, 0xab, 0x8d, 0x69, 0xcd, 0xfe, 0x62, 0xe3, 0x32, 0x81, 0xfa, 0x27,
	0x13, 0x21, 0x7d, 0xfc, 0x2f, 0x06, 0x64, 0x1d, 0x0a, 0x0f, 0x2a, 0x08,
	0x24, 0x43, 0xc4, 0xde,
}
