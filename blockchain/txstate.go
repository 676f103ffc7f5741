package blockchain

// TxRel is the per-relationship state for one TxRelId within a TxState.
// Exactly one of the two cardinalities applies, selected at
// AddOneToOneRel/AddOneToManyRel time; the other field stays at its zero
// value.
type TxRel struct {
	Cardinality RelCardinality
	One         *TxId // set iff Cardinality == OneToOne and claimed
	Many        []TxId
}

type RelCardinality int

const (
	OneToOne RelCardinality = iota
	OneToMany
)

// TxTotalRelState is the top-level gate dominating all per-relationship
// checks for a transaction.
type TxTotalRelState struct {
	Kind        TotalRelKind
	FinalizedBy TxId // valid iff Kind == Finalized
}

type TotalRelKind int

const (
	Claimable TotalRelKind = iota
	Unclaimable
	Finalized
)

// TxState is the mutable projection of a transaction: a total relationship
// gate plus a map of per-relationship state. It is created when a
// transaction is persisted and mutated only through storage.
type TxState struct {
	totalRelState TxTotalRelState
	relationships map[TxRelId]*TxRel
}

// NewTxState creates a state with an empty relationship map and the given
// total state.
func NewTxState(total TxTotalRelState) *TxState {
	return &TxState{
		totalRelState: total,
		relationships: make(map[TxRelId]*TxRel),
	}
}

// AddOneToOneRel introduces a OneToOne relationship slot, initially
// unclaimed. Used at initialization/migration time, not during regular
// claim flow.
func (s *TxState) AddOneToOneRel(relId TxRelId) error {
	if _, exists := s.relationships[relId]; exists {
		return &TxProgError{Reason: ReasonRelIdExists, RelId: relId}
	}
	s.relationships[relId] = &TxRel{Cardinality: OneToOne}
	return nil
}

// AddOneToManyRel introduces a OneToMany relationship slot, initially
// empty.
func (s *TxState) AddOneToManyRel(relId TxRelId) error {
	if _, exists := s.relationships[relId]; exists {
		return &TxProgError{Reason: ReasonRelIdExists, RelId: relId}
	}
	s.relationships[relId] = &TxRel{Cardinality: OneToMany, Many: []TxId{}}
	return nil
}

// GetTotalRelState returns the transaction's total relationship gate.
func (s *TxState) GetTotalRelState() TxTotalRelState {
	return s.totalRelState
}

// SetTotalRelState directly sets the total relationship gate. This is an
// initialization/migration-path operation: it performs no temporal or
// referential checks, which remain the storage engine's responsibility
// (I5, I6) when reached through ChainStorage.SetTransactionState.
func (s *TxState) SetTotalRelState(total TxTotalRelState) {
	s.totalRelState = total
}

// GetRel returns the per-relationship state for relId, or
// TxProgError{UnknownRelId} if absent.
func (s *TxState) GetRel(relId TxRelId) (*TxRel, error) {
	rel, ok := s.relationships[relId]
	if !ok {
		return nil, &TxProgError{Reason: ReasonUnknownRelId, RelId: relId}
	}
	return rel, nil
}

// GetRelMap returns the full relationship map. Callers must not mutate
// the returned map's TxRel values directly; use ClaimRel.
func (s *TxState) GetRelMap() map[TxRelId]*TxRel {
	return s.relationships
}

// ClaimRel records that claimerTxId claims the relationship identified by
// relId. It enforces total-state dominance (I7) and one-to-one exclusivity
// (I8), but not temporal ordering (I5) or referential integrity (I6) —
// those require a global view and belong to the storage engine.
func (s *TxState) ClaimRel(relId TxRelId, claimerTxId TxId) error {
	switch s.totalRelState.Kind {
	case Unclaimable:
		return &BadClaim{Reason: ReasonTxUnclaimable}
	case Finalized:
		return &BadClaim{Reason: ReasonTxFinalized, FinalTx: s.totalRelState.FinalizedBy}
	}

	rel, ok := s.relationships[relId]
	if !ok {
		return &BadClaim{Reason: ReasonUnknownRelId, RelId: relId}
	}

	switch rel.Cardinality {
	case OneToOne:
		if rel.One != nil {
			return &BadClaim{Reason: ReasonRelClaimed, RelId: relId, ClaimedBy: *rel.One}
		}
		claimer := claimerTxId
		rel.One = &claimer
		return nil
	case OneToMany:
		rel.Many = append(rel.Many, claimerTxId)
		return nil
	default:
		return &BadClaim{Reason: ReasonUnknownRelId, RelId: relId}
	}
}
