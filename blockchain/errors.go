package blockchain

import "fmt"

// VerificationError reports a failed block or header invariant. It is never
// recovered internally; every verification method surfaces it to the caller.
type VerificationError struct {
	Reason string
}

const (
	ReasonInvalidIssuerSignature = "invalid_issuer_signature"
	ReasonInvalidContentHash     = "invalid_content_hash"
	ReasonInvalidChainLink       = "invalid_chain_link"
)

func (e *VerificationError) Error() string {
	switch e.Reason {
	case ReasonInvalidIssuerSignature:
		return "verification: issuer signature does not match header"
	case ReasonInvalidContentHash:
		return "verification: content_hash does not match merkle root of body"
	case ReasonInvalidChainLink:
		return "verification: chain link to predecessor is invalid"
	default:
		return "verification: " + e.Reason
	}
}

func verrf(reason string) error { return &VerificationError{Reason: reason} }

// BinFormatError reports a deserialization failure at a trust boundary
// (network or disk). FieldName is populated only for InvalidFieldData.
type BinFormatError struct {
	Reason    string
	FieldName string
}

const (
	ReasonInvalidDataSize    = "invalid_data_size"
	ReasonUnsupportedVersion = "unsupported_version"
	ReasonInvalidFieldData   = "invalid_field_data"
)

func (e *BinFormatError) Error() string {
	switch e.Reason {
	case ReasonInvalidDataSize:
		return "bin_format: invalid data size"
	case ReasonUnsupportedVersion:
		return "bin_format: unsupported version"
	case ReasonInvalidFieldData:
		return fmt.Sprintf("bin_format: invalid field data for %q", e.FieldName)
	default:
		return "bin_format: " + e.Reason
	}
}

func binErr(reason string) error { return &BinFormatError{Reason: reason} }

func binFieldErr(field string) error {
	return &BinFormatError{Reason: ReasonInvalidFieldData, FieldName: field}
}

// BlockError reports a storage-level rejection of an otherwise internally
// verified block.
type BlockError struct {
	Reason     string
	ExistingID BlockId
}

const (
	ReasonIdCollision   = "id_collision"
	ReasonOrphanedBlock = "orphaned_block"
)

func (e *BlockError) Error() string {
	switch e.Reason {
	case ReasonIdCollision:
		return fmt.Sprintf("block: id collision with existing block %x", e.ExistingID)
	case ReasonOrphanedBlock:
		return "block: prev_block_hash does not resolve to a persisted block"
	default:
		return "block: " + e.Reason
	}
}

// TxProgError reports a transaction-state mutation failure raised by
// TxState mutators or by ChainStorage.SetTransactionState. It typically
// indicates a programming bug or adversarial input, not a transient
// condition.
type TxProgError struct {
	Reason string
	RelId  TxRelId
	TxId   TxId
}

const (
	ReasonUnknownRelId  = "unknown_rel_id"
	ReasonRelIdExists   = "rel_id_exists"
	ReasonUnknownTx     = "unknown_tx"
	ReasonRefOrderError = "ref_order_error"
)

func (e *TxProgError) Error() string {
	switch e.Reason {
	case ReasonUnknownRelId:
		return fmt.Sprintf("tx_prog: unknown relationship id %v", e.RelId)
	case ReasonRelIdExists:
		return fmt.Sprintf("tx_prog: relationship id %v already exists", e.RelId)
	case ReasonUnknownTx:
		return fmt.Sprintf("tx_prog: unknown transaction %v", e.TxId)
	case ReasonRefOrderError:
		return "tx_prog: claimer does not come from a later block than the claimed transaction"
	default:
		return "tx_prog: " + e.Reason
	}
}

// BadClaim reports an in-memory claim rejection raised by
// TxState.ClaimRel, prior to any storage-level check.
type BadClaim struct {
	Reason    string
	RelId     TxRelId
	ClaimedBy TxId
	FinalTx   TxId
}

const (
	ReasonRelClaimed    = "rel_claimed"
	ReasonTxUnclaimable = "tx_unclaimable"
	ReasonTxFinalized   = "tx_finalized"
)

func (e *BadClaim) Error() string {
	switch e.Reason {
	case ReasonRelClaimed:
		return fmt.Sprintf("bad_claim: relationship %v was already claimed by %v", e.RelId, e.ClaimedBy)
	case ReasonTxUnclaimable:
		return "bad_claim: transaction total relationship state is unclaimable"
	case ReasonTxFinalized:
		return fmt.Sprintf("bad_claim: transaction was finalized by %v", e.FinalTx)
	case ReasonUnknownRelId:
		return fmt.Sprintf("bad_claim: unknown relationship id %v", e.RelId)
	default:
		return "bad_claim: " + e.Reason
	}
}
