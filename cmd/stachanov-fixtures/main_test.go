package main

import "testing"

// TestGenerate_MerkleVectorsReproduceKnownRoots checks the two literal
// test vectors hash to their known roots byte-for-byte.
func TestGenerate_MerkleVectorsReproduceKnownRoots(t *testing.T) {
	fixtures, err := generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(fixtures.MerkleVectors) != 2 {
		t.Fatalf("expected 2 merkle vectors, got %d", len(fixtures.MerkleVectors))
	}

	wantRoot1 := "156cea94a2a265ebd8439df6255fffec8aaaed787976611db3f7745a7476e3cc"
	if got := fixtures.MerkleVectors[0].RootHex; got != wantRoot1 {
		t.Fatalf("31-leaf vector root mismatch:\n got  %s\n want %s", got, wantRoot1)
	}

	wantRoot2 := "08aa7cd4a4a5757659fd217ae215d9fa29724513a5cdd1d844e255d0877e039a"
	if got := fixtures.MerkleVectors[1].RootHex; got != wantRoot2 {
		t.Fatalf("40-leaf vector root mismatch:\n got  %s\n want %s", got, wantRoot2)
	}
}

func TestGenerate_HeaderFixtureIsSelfConsistent(t *testing.T) {
	fixtures, err := generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(fixtures.HeaderRoundTrip.BlockIDHex) != 64 {
		t.Fatalf("expected 32-byte block id hex, got %d chars", len(fixtures.HeaderRoundTrip.BlockIDHex))
	}
	if len(fixtures.HeaderRoundTrip.HeaderBytesHex) != 184*2 {
		t.Fatalf("expected 184-byte header hex, got %d chars", len(fixtures.HeaderRoundTrip.HeaderBytesHex))
	}
}
