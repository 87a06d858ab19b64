package ledger

import (
	"math"
	"testing"
)

func entriesFromBalances(balances map[MemberIdentity]float64) []BalanceEntry {
	var entries []BalanceEntry
	for member, balance := range balances {
		entries = append(entries, BalanceEntry{Member: member, Balance: balance})
	}
	return entries
}

func TestSimplifyEqualSplitScenario(t *testing.T) {
	// A fronted $120 split three ways: B and C each owe A $40.
	entries := []BalanceEntry{
		{Member: alice, Balance: 80.0},
		{Member: bob, Balance: -40.0},
		{Member: charlie, Balance: -40.0},
	}

	transactions, warning := Simplify(entries, "USD")
	if warning != nil {
		t.Fatalf("unexpected warning: %v", warning)
	}
	if len(transactions) != 2 {
		t.Fatalf("got %d transactions, want 2", len(transactions))
	}

	// Order between the two equal debtors is not contractual; check content.
	paid := make(map[string]float64)
	for _, tx := range transactions {
		if !tx.To.Same(alice) {
			t.Errorf("transaction to %q, want alice", tx.To.Email)
		}
		if tx.Currency != "USD" {
			t.Errorf("currency = %q, want USD", tx.Currency)
		}
		paid[tx.From.Key()] += tx.Amount
	}
	if !floatEquals(paid[bob.Key()], 40.0) {
		t.Errorf("bob pays %v, want 40.0", paid[bob.Key()])
	}
	if !floatEquals(paid[charlie.Key()], 40.0) {
		t.Errorf("charlie pays %v, want 40.0", paid[charlie.Key()])
	}
}

func TestSimplifyProperties(t *testing.T) {
	tests := []struct {
		name     string
		balances map[MemberIdentity]float64
	}{
		{
			name: "two debtors one creditor",
			balances: map[MemberIdentity]float64{
				alice:   80.0,
				bob:     -40.0,
				charlie: -40.0,
			},
		},
		{
			name: "uneven chain",
			balances: map[MemberIdentity]float64{
				bob:     52.75,
				alice:   -27.75,
				charlie: -25.00,
			},
		},
		{
			name: "larger group",
			balances: map[MemberIdentity]float64{
				Invited("a@x.com"): 100.00,
				Invited("b@x.com"): 35.50,
				Invited("c@x.com"): -60.25,
				Invited("d@x.com"): -50.25,
				Invited("e@x.com"): -25.00,
			},
		},
		{
			name: "everyone settled",
			balances: map[MemberIdentity]float64{
				alice: 0.0,
				bob:   0.005,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := entriesFromBalances(tt.balances)
			transactions, warning := Simplify(entries, "USD")
			if warning != nil {
				t.Fatalf("unexpected warning: %v", warning)
			}

			// Transaction bound: at most one fewer than the number of
			// members with a non-settled balance.
			nonZero := 0
			var totalCredit float64
			for _, balance := range tt.balances {
				if math.Abs(balance) > Epsilon {
					nonZero++
				}
				if balance > Epsilon {
					totalCredit += balance
				}
			}
			if nonZero > 0 && len(transactions) > nonZero-1 {
				t.Errorf("got %d transactions for %d non-zero members", len(transactions), nonZero)
			}
			if nonZero == 0 && len(transactions) != 0 {
				t.Errorf("got %d transactions for a settled ledger", len(transactions))
			}

			// Total transacted equals total positive balance.
			var transacted float64
			for _, tx := range transactions {
				if tx.Amount <= 0 {
					t.Errorf("non-positive transaction amount %v", tx.Amount)
				}
				transacted += tx.Amount
			}
			if math.Abs(transacted-totalCredit) > Epsilon {
				t.Errorf("transacted %v, total credit %v", transacted, totalCredit)
			}

			// Applying every transaction back as a settlement zeroes the
			// ledger within tolerance.
			remaining := make(map[string]float64, len(tt.balances))
			for member, balance := range tt.balances {
				remaining[member.Key()] = balance
			}
			for _, tx := range transactions {
				remaining[tx.From.Key()] += tx.Amount
				remaining[tx.To.Key()] -= tx.Amount
			}
			for key, balance := range remaining {
				if math.Abs(balance) > Epsilon {
					t.Errorf("%s left with %v after applying transactions", key, balance)
				}
			}
		})
	}
}

func TestSimplifyUnbalancedLedger(t *testing.T) {
	// Only debtors: the ledger cannot net out. The simplifier must not fail,
	// it reports the residual as a warning.
	entries := []BalanceEntry{
		{Member: alice, Balance: -30.0},
		{Member: bob, Balance: -12.5},
	}

	transactions, warning := Simplify(entries, "USD")
	if len(transactions) != 0 {
		t.Errorf("got %d transactions, want 0", len(transactions))
	}
	if warning == nil {
		t.Fatal("expected an unbalanced ledger warning")
	}
	if !floatEquals(warning.Residual, 42.5) {
		t.Errorf("residual = %v, want 42.5", warning.Residual)
	}
}

func TestSimplifyMatchesLargestFirst(t *testing.T) {
	entries := []BalanceEntry{
		{Member: Invited("big@x.com"), Balance: 90.0},
		{Member: Invited("small@x.com"), Balance: 10.0},
		{Member: Invited("debtor@x.com"), Balance: -100.0},
	}

	transactions, warning := Simplify(entries, "EUR")
	if warning != nil {
		t.Fatalf("unexpected warning: %v", warning)
	}
	if len(transactions) != 2 {
		t.Fatalf("got %d transactions, want 2", len(transactions))
	}
	if transactions[0].To.Email != "big@x.com" || !floatEquals(transactions[0].Amount, 90.0) {
		t.Errorf("first match = %v to %s, want 90.0 to big@x.com",
			transactions[0].Amount, transactions[0].To.Email)
	}
	if transactions[1].To.Email != "small@x.com" || !floatEquals(transactions[1].Amount, 10.0) {
		t.Errorf("second match = %v to %s, want 10.0 to small@x.com",
			transactions[1].Amount, transactions[1].To.Email)
	}
}
