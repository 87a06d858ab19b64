package ledger

import "fmt"

// Aggregate folds a group's full expense and settlement history into a
// balance table keyed by normalized member email.
//
// Rules:
//   - Every member starts at zero.
//   - An expense credits the payer's balance and TotalPaid by the full
//     amount, and debits each split member's balance (and credits their
//     TotalOwed) by their share.
//   - A settlement credits the payer's balance and debits the payee's:
//     paying reduces what the payer net-owes, receiving reduces what the
//     payee is net-owed. Paid/owed totals track expenses only.
//
// All stored values are rounded to 2 decimal places after the full pass.
// For a closed, self-consistent record set the balances sum to ~0.
//
// Aggregate is a pure function of its inputs. It returns a
// *DataIntegrityError if any record references a non-member, repeats a
// member within one expense's splits, carries a non-positive share, or
// carries splits that do not sum to the expense amount within Epsilon.
func Aggregate(members []MemberIdentity, expenses []Expense, settlements []Settlement) (map[string]*BalanceEntry, error) {
	balances := make(map[string]*BalanceEntry, len(members))
	for _, m := range members {
		balances[m.Key()] = &BalanceEntry{Member: m}
	}

	for _, exp := range expenses {
		if err := checkExpense(exp, balances); err != nil {
			return nil, err
		}

		balances[exp.Payer.Key()].Balance += exp.Amount
		balances[exp.Payer.Key()].TotalPaid += exp.Amount

		for _, split := range exp.Splits {
			entry := balances[split.Member.Key()]
			entry.Balance -= split.Share
			entry.TotalOwed += split.Share
		}
	}

	for _, s := range settlements {
		payer, ok := balances[s.Payer.Key()]
		if !ok {
			return nil, &DataIntegrityError{
				Record: "settlement",
				Reason: fmt.Sprintf("payer %q is not a group member", s.Payer.Email),
			}
		}
		payee, ok := balances[s.Payee.Key()]
		if !ok {
			return nil, &DataIntegrityError{
				Record: "settlement",
				Reason: fmt.Sprintf("payee %q is not a group member", s.Payee.Email),
			}
		}

		payer.Balance += s.Amount
		payee.Balance -= s.Amount
	}

	for _, entry := range balances {
		entry.Balance = round2(entry.Balance)
		entry.TotalPaid = round2(entry.TotalPaid)
		entry.TotalOwed = round2(entry.TotalOwed)
	}

	return balances, nil
}

// checkExpense verifies an expense references only group members, has no
// duplicate split members, carries strictly positive shares, and that its
// splits reconcile to the total.
func checkExpense(exp Expense, balances map[string]*BalanceEntry) error {
	if _, ok := balances[exp.Payer.Key()]; !ok {
		return &DataIntegrityError{
			Record: "expense",
			Reason: fmt.Sprintf("payer %q is not a group member", exp.Payer.Email),
		}
	}

	seen := make(map[string]bool, len(exp.Splits))
	var shareSum float64
	for _, split := range exp.Splits {
		key := split.Member.Key()
		if _, ok := balances[key]; !ok {
			return &DataIntegrityError{
				Record: "expense",
				Reason: fmt.Sprintf("split member %q is not a group member", split.Member.Email),
			}
		}
		if seen[key] {
			return &DataIntegrityError{
				Record: "expense",
				Reason: fmt.Sprintf("member %q appears twice in splits", split.Member.Email),
			}
		}
		if split.Share <= 0 {
			return &DataIntegrityError{
				Record: "expense",
				Reason: fmt.Sprintf("share %.2f for member %q is not positive", split.Share, split.Member.Email),
			}
		}
		seen[key] = true
		shareSum += split.Share
	}

	if diff := round2(shareSum - exp.Amount); diff > Epsilon || diff < -Epsilon {
		return &DataIntegrityError{
			Record: "expense",
			Reason: fmt.Sprintf("splits sum to %.2f, expense total is %.2f", shareSum, exp.Amount),
		}
	}

	return nil
}
