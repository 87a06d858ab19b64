package ledger

import "fmt"

// DataIntegrityError reports an expense or settlement that cannot be folded
// into the ledger: it references someone who is not a group member, repeats a
// member within one expense's splits, or carries splits that do not reconcile
// to the expense total within tolerance. The offending record must be
// rejected before aggregation; the error is not recoverable locally.
type DataIntegrityError struct {
	Record string // "expense" or "settlement"
	Reason string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("%s integrity violation: %s", e.Record, e.Reason)
}

// UnbalancedLedgerWarning reports that balances did not sum to ~0 after a
// full fold, leaving residual debt the simplifier could not match. It is
// informational: the transactions computed so far remain valid and callers
// should surface the residual rather than abort.
type UnbalancedLedgerWarning struct {
	Residual float64 // unmatched amount, rounded to 2 places
}

func (e *UnbalancedLedgerWarning) Error() string {
	return fmt.Sprintf("ledger does not balance: %.2f left unmatched", e.Residual)
}
