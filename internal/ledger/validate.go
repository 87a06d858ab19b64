package ledger

import "fmt"

// Rejection codes, stable identifiers for the reason class of a failed
// settlement validation. The Reason string carries the user-facing message.
const (
	RejectPayerNotMember = "payer_not_member"
	RejectPayeeNotMember = "payee_not_member"
	RejectSelfPayment    = "self_payment"
	RejectNonPositive    = "non_positive_amount"
	RejectCurrency       = "currency_not_accepted"
)

// ValidationResult is the typed outcome of a settlement validation. A
// rejection is a normal result with a user-presentable reason, never an
// error value, so callers can surface the specific message.
type ValidationResult struct {
	OK     bool
	Code   string // one of the Reject* constants, empty when OK
	Reason string // empty when OK
}

// Accepted returns a passing validation result.
func Accepted() ValidationResult {
	return ValidationResult{OK: true}
}

// Rejected returns a failing validation result with the given code and
// reason.
func Rejected(code, reason string) ValidationResult {
	return ValidationResult{Code: code, Reason: reason}
}

// ValidateSettlement gates a proposed settlement before it is accepted as a
// ledger entry. Checks run in order: payer membership, payee membership,
// distinct parties, positive amount, accepted currency.
//
// currentBalances is a snapshot keyed like Aggregate's output. It is not
// consulted yet: rejecting settlements that exceed the outstanding debt
// between the two parties is a deferred check, so overpayment is currently
// accepted.
func ValidateSettlement(s Settlement, members []MemberIdentity, currencies []string, currentBalances map[string]float64) ValidationResult {
	if !isMember(s.Payer, members) {
		return Rejected(RejectPayerNotMember,
			fmt.Sprintf("payer %q is not a member of the group", s.Payer.Email))
	}
	if !isMember(s.Payee, members) {
		return Rejected(RejectPayeeNotMember,
			fmt.Sprintf("payee %q is not a member of the group", s.Payee.Email))
	}
	if s.Payer.Same(s.Payee) {
		return Rejected(RejectSelfPayment, "payer and payee must be different members")
	}
	if s.Amount <= 0 {
		return Rejected(RejectNonPositive, "amount must be greater than zero")
	}
	if !currencyAccepted(s.Currency, currencies) {
		return Rejected(RejectCurrency,
			fmt.Sprintf("currency %q is not accepted by the group", s.Currency))
	}

	return Accepted()
}

func isMember(identity MemberIdentity, members []MemberIdentity) bool {
	for _, m := range members {
		if m.Same(identity) {
			return true
		}
	}
	return false
}

func currencyAccepted(currency string, accepted []string) bool {
	for _, c := range accepted {
		if c == currency {
			return true
		}
	}
	return false
}
