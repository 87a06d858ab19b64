package ledger

// WhatIfResult is the projected state after applying a hypothetical list of
// settlements to a balance snapshot.
type WhatIfResult struct {
	// Projected maps normalized member email to the projected balance.
	Projected map[string]float64

	// RemainingNonZero counts members whose projected balance magnitude
	// still exceeds Epsilon, for feedback such as "2 debts remain".
	RemainingNonZero int
}

// Simulate applies the proposed settlements to a copy of the current balance
// snapshot and reports the projected balances. It uses the same credit/debit
// rule as Aggregate's settlement handling and never mutates its inputs or
// touches persisted data.
func Simulate(current map[string]float64, proposed []Settlement) WhatIfResult {
	projected := make(map[string]float64, len(current))
	for key, balance := range current {
		projected[key] = balance
	}

	for _, s := range proposed {
		projected[s.Payer.Key()] += s.Amount
		projected[s.Payee.Key()] -= s.Amount
	}

	remaining := 0
	for key, balance := range projected {
		balance = round2(balance)
		projected[key] = balance
		if balance > Epsilon || balance < -Epsilon {
			remaining++
		}
	}

	return WhatIfResult{Projected: projected, RemainingNonZero: remaining}
}
