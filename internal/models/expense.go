package models

import "github.com/splitledger/splitledger/internal/ledger"

// ExpenseSplit is one member's share of an expense.
type ExpenseSplit struct {
	// MemberEmail identifies the member responsible for this share.
	MemberEmail string

	// MemberAccountID is the member's linked account, if any.
	MemberAccountID string

	// Share is the amount owed, strictly positive. All shares of an
	// expense sum to the expense amount within a cent.
	Share float64
}

// Expense represents a shared cost: one member fronted the full amount and
// the splits record who owes which part of it.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is a short human-readable label ("Groceries", "Rent").
	Description string

	// Amount is the full expense amount, strictly positive.
	Amount float64

	// Currency is the ISO 4217 code the expense was paid in.
	Currency string

	// PayerEmail identifies the member who paid the full amount.
	PayerEmail string

	// PayerAccountID is the payer's linked account, if any.
	PayerAccountID string

	// Splits divide the amount among the responsible members.
	Splits []ExpenseSplit

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64

	// CreatedBy is the user ID who recorded the expense.
	CreatedBy string
}

// ToLedger converts the record to the ledger's expense view.
func (e *Expense) ToLedger() ledger.Expense {
	splits := make([]ledger.Split, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = ledger.Split{
			Member: identity(s.MemberEmail, s.MemberAccountID),
			Share:  s.Share,
		}
	}
	return ledger.Expense{
		Amount:   e.Amount,
		Currency: e.Currency,
		Payer:    identity(e.PayerEmail, e.PayerAccountID),
		Splits:   splits,
	}
}
