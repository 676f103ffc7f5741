package blockchain

import "testing"

func dummyTxId(index uint16) TxId {
	return TxId{BlockId: BlockId{byte(index)}, TxIndex: TxIndex(index)}
}

func TestTxState_ClaimTotalRelStateUnclaimable(t *testing.T) {
	s := NewTxState(TxTotalRelState{Kind: Unclaimable})
	if err := s.AddOneToOneRel(DummyRelId); err != nil {
		t.Fatalf("AddOneToOneRel: %v", err)
	}

	err := s.ClaimRel(DummyRelId, dummyTxId(1))
	bc, ok := err.(*BadClaim)
	if !ok || bc.Reason != ReasonTxUnclaimable {
		t.Fatalf("expected TxUnclaimable, got %v", err)
	}
}

func TestTxState_ClaimTotalRelStateFinalized(t *testing.T) {
	finalizer := dummyTxId(9)
	s := NewTxState(TxTotalRelState{Kind: Finalized, FinalizedBy: finalizer})
	if err := s.AddOneToOneRel(DummyRelId); err != nil {
		t.Fatalf("AddOneToOneRel: %v", err)
	}

	err := s.ClaimRel(DummyRelId, dummyTxId(1))
	bc, ok := err.(*BadClaim)
	if !ok || bc.Reason != ReasonTxFinalized || bc.FinalTx != finalizer {
		t.Fatalf("expected TxFinalized(%v), got %v", finalizer, err)
	}
}

func TestTxState_ClaimUnknownRelId(t *testing.T) {
	s := NewTxState(TxTotalRelState{Kind: Claimable})
	err := s.ClaimRel(DummyRelId, dummyTxId(1))
	bc, ok := err.(*BadClaim)
	if !ok || bc.Reason != ReasonUnknownRelId {
		t.Fatalf("expected UnknownRelId, got %v", err)
	}
}

func TestTxState_ClaimOneToOneRel(t *testing.T) {
	s := NewTxState(TxTotalRelState{Kind: Claimable})
	if err := s.AddOneToOneRel(DummyRelId); err != nil {
		t.Fatalf("AddOneToOneRel: %v", err)
	}

	claimer := dummyTxId(1)
	if err := s.ClaimRel(DummyRelId, claimer); err != nil {
		t.Fatalf("first claim should succeed, got %v", err)
	}
	rel, err := s.GetRel(DummyRelId)
	if err != nil {
		t.Fatalf("GetRel: %v", err)
	}
	if rel.One == nil || *rel.One != claimer {
		t.Fatalf("expected one-to-one claimer %v, got %+v", claimer, rel.One)
	}

	second := dummyTxId(2)
	err = s.ClaimRel(DummyRelId, second)
	bc, ok := err.(*BadClaim)
	if !ok || bc.Reason != ReasonRelClaimed || bc.ClaimedBy != claimer {
		t.Fatalf("expected RelClaimed(%v), got %v", claimer, err)
	}
}

func TestTxState_ClaimOneToManyRel(t *testing.T) {
	s := NewTxState(TxTotalRelState{Kind: Claimable})
	if err := s.AddOneToManyRel(DummyRelId); err != nil {
		t.Fatalf("AddOneToManyRel: %v", err)
	}

	c1, c2, c3 := dummyTxId(1), dummyTxId(2), dummyTxId(3)
	for _, c := range []TxId{c1, c2, c3} {
		if err := s.ClaimRel(DummyRelId, c); err != nil {
			t.Fatalf("claim %v should succeed, got %v", c, err)
		}
	}

	rel, err := s.GetRel(DummyRelId)
	if err != nil {
		t.Fatalf("GetRel: %v", err)
	}
	want := []TxId{c1, c2, c3}
	if len(rel.Many) != len(want) {
		t.Fatalf("claimer count = %d, want %d", len(rel.Many), len(want))
	}
	for i, c := range want {
		if rel.Many[i] != c {
			t.Fatalf("claimer %d = %v, want %v (insertion order must be preserved)", i, rel.Many[i], c)
		}
	}
}

func TestTxState_CreateRel(t *testing.T) {
	s := NewTxState(TxTotalRelState{Kind: Claimable})
	if err := s.AddOneToOneRel(DummyRelId); err != nil {
		t.Fatalf("AddOneToOneRel: %v", err)
	}
	if err := s.AddOneToOneRel(DummyRelId); err == nil {
		t.Fatalf("expected RelIdExists on duplicate AddOneToOneRel")
	} else if tpe, ok := err.(*TxProgError); !ok || tpe.Reason != ReasonRelIdExists {
		t.Fatalf("expected RelIdExists, got %v", err)
	}
}

func TestTxState_GetTotalRelState(t *testing.T) {
	s := NewTxState(TxTotalRelState{Kind: Claimable})
	if got := s.GetTotalRelState(); got.Kind != Claimable {
		t.Fatalf("GetTotalRelState = %+v, want Claimable", got)
	}
}
