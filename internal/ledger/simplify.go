package ledger

import (
	"math"
	"sort"
)

// party is one side of the greedy matching: a member together with the
// positive magnitude of their remaining balance.
type party struct {
	member MemberIdentity
	amount float64
}

// Simplify reduces a set of net balances to an ordered list of settle-up
// payments using greedy creditor/debtor matching: repeatedly pair the
// largest creditor with the largest debtor, settle the smaller of the two
// magnitudes, and re-sort. Entries within Epsilon of zero are ignored.
//
// The total amount transacted equals the total positive balance, and the
// transaction count never exceeds the number of non-settled members minus
// one. The greedy matching is not guaranteed globally minimal for debt
// graphs with 3+-party cycles; that is a known property of the algorithm,
// not a defect. Ordering between equally sized parties follows the input
// order and is not part of the contract.
//
// If one side runs out while the other still holds more than Epsilon, the
// input did not sum to ~0; Simplify returns the transactions computed so far
// together with an *UnbalancedLedgerWarning carrying the residual.
func Simplify(balances []BalanceEntry, currency string) ([]SimplifiedTransaction, *UnbalancedLedgerWarning) {
	var creditors, debtors []party
	for _, entry := range balances {
		switch {
		case entry.Balance > Epsilon:
			creditors = append(creditors, party{member: entry.Member, amount: entry.Balance})
		case entry.Balance < -Epsilon:
			debtors = append(debtors, party{member: entry.Member, amount: -entry.Balance})
		}
	}

	byAmountDesc := func(parties []party) func(i, j int) bool {
		return func(i, j int) bool { return parties[i].amount > parties[j].amount }
	}
	sort.SliceStable(creditors, byAmountDesc(creditors))
	sort.SliceStable(debtors, byAmountDesc(debtors))

	var transactions []SimplifiedTransaction
	for len(creditors) > 0 && len(debtors) > 0 {
		creditor := &creditors[0]
		debtor := &debtors[0]

		settle := math.Min(creditor.amount, debtor.amount)
		if settle > Epsilon {
			transactions = append(transactions, SimplifiedTransaction{
				From:     debtor.member,
				To:       creditor.member,
				Amount:   round2(settle),
				Currency: currency,
			})
		}

		creditor.amount -= settle
		debtor.amount -= settle
		if creditor.amount <= Epsilon {
			creditors = creditors[1:]
		}
		if debtor.amount <= Epsilon {
			debtors = debtors[1:]
		}

		sort.SliceStable(creditors, byAmountDesc(creditors))
		sort.SliceStable(debtors, byAmountDesc(debtors))
	}

	var residual float64
	for _, c := range creditors {
		residual += c.amount
	}
	for _, d := range debtors {
		residual += d.amount
	}
	if residual > Epsilon {
		return transactions, &UnbalancedLedgerWarning{Residual: round2(residual)}
	}

	return transactions, nil
}
