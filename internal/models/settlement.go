package models

import "github.com/splitledger/splitledger/internal/ledger"

// Settlement represents a recorded payment between group members to clear
// debt. It cancels debt between the two parties directly, independent of
// which expenses created it.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// PayerEmail is the member who paid (debtor settling up).
	PayerEmail string

	// PayerAccountID is the payer's linked account, if any.
	PayerAccountID string

	// PayeeEmail is the member who received payment.
	PayeeEmail string

	// PayeeAccountID is the payee's linked account, if any.
	PayeeAccountID string

	// Amount is the payment amount, strictly positive.
	Amount float64

	// Currency is the ISO 4217 code the payment was made in.
	Currency string

	// Note is an optional description for the settlement.
	Note string

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64

	// CreatedBy is the user ID who recorded the settlement.
	CreatedBy string
}

// ToLedger converts the record to the ledger's settlement view.
func (s *Settlement) ToLedger() ledger.Settlement {
	return ledger.Settlement{
		Amount:   s.Amount,
		Currency: s.Currency,
		Payer:    identity(s.PayerEmail, s.PayerAccountID),
		Payee:    identity(s.PayeeEmail, s.PayeeAccountID),
	}
}

func identity(email, accountID string) ledger.MemberIdentity {
	if accountID != "" {
		return ledger.Registered(accountID, email)
	}
	return ledger.Invited(email)
}
