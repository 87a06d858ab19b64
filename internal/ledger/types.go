package ledger

import "math"

// Epsilon is the tolerance below which a balance is considered settled.
// All amounts are rounded to 2 decimal places, so anything under a cent is
// floating point noise.
const Epsilon = 0.01

// Split is one member's share of an expense.
type Split struct {
	Member MemberIdentity
	Share  float64 // strictly positive
}

// Expense is the minimal view of an expense record needed for balance
// computation: who paid the full amount and how it divides among members.
type Expense struct {
	Amount   float64
	Currency string
	Payer    MemberIdentity
	Splits   []Split
}

// Settlement is a recorded payment from Payer to Payee that cancels debt
// between them directly, independent of which expenses created it.
type Settlement struct {
	Amount   float64
	Currency string
	Payer    MemberIdentity
	Payee    MemberIdentity
}

// BalanceStatus classifies a member's net position.
type BalanceStatus string

const (
	StatusOwed    BalanceStatus = "owed"    // balance > ε: others owe this member
	StatusOwes    BalanceStatus = "owes"    // balance < −ε: this member owes others
	StatusSettled BalanceStatus = "settled" // |balance| ≤ ε
)

// BalanceEntry is one member's aggregated position in a group.
type BalanceEntry struct {
	Member    MemberIdentity
	Balance   float64 // positive = owed money, negative = owes money
	TotalPaid float64 // total expense amounts this member fronted
	TotalOwed float64 // total expense shares assigned to this member
}

// Status returns the settled/owes/owed classification of the entry.
func (e *BalanceEntry) Status() BalanceStatus {
	switch {
	case e.Balance > Epsilon:
		return StatusOwed
	case e.Balance < -Epsilon:
		return StatusOwes
	default:
		return StatusSettled
	}
}

// SimplifiedTransaction is a single settle-up instruction: From pays To.
// Transactions are computed on demand and never persisted.
type SimplifiedTransaction struct {
	From     MemberIdentity
	To       MemberIdentity
	Amount   float64 // strictly positive, rounded to 2 places
	Currency string
}

// round2 rounds to 2 decimal places, half away from zero.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
