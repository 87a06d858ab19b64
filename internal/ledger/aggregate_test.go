package ledger

import (
	"errors"
	"math"
	"testing"
)

var (
	alice   = Registered("u-alice", "alice@example.com")
	bob     = Registered("u-bob", "bob@example.com")
	charlie = Invited("charlie@example.com")
)

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

func TestAggregate(t *testing.T) {
	members := []MemberIdentity{alice, bob, charlie}

	tests := []struct {
		name        string
		expenses    []Expense
		settlements []Settlement
		wantErr     bool
		validate    func(t *testing.T, balances map[string]*BalanceEntry)
	}{
		{
			name: "equal split three members",
			expenses: []Expense{
				{
					Amount: 120.0, Currency: "USD", Payer: alice,
					Splits: []Split{
						{Member: alice, Share: 40.0},
						{Member: bob, Share: 40.0},
						{Member: charlie, Share: 40.0},
					},
				},
			},
			validate: func(t *testing.T, balances map[string]*BalanceEntry) {
				if got := balances[alice.Key()].Balance; !floatEquals(got, 80.0) {
					t.Errorf("alice balance = %v, want 80.0", got)
				}
				if got := balances[bob.Key()].Balance; !floatEquals(got, -40.0) {
					t.Errorf("bob balance = %v, want -40.0", got)
				}
				if got := balances[charlie.Key()].Balance; !floatEquals(got, -40.0) {
					t.Errorf("charlie balance = %v, want -40.0", got)
				}
				if got := balances[alice.Key()].TotalPaid; !floatEquals(got, 120.0) {
					t.Errorf("alice total paid = %v, want 120.0", got)
				}
				if got := balances[bob.Key()].TotalOwed; !floatEquals(got, 40.0) {
					t.Errorf("bob total owed = %v, want 40.0", got)
				}
			},
		},
		{
			name: "unequal splits across two expenses",
			expenses: []Expense{
				{
					Amount: 150.50, Currency: "USD", Payer: bob,
					Splits: []Split{
						{Member: alice, Share: 50.25},
						{Member: bob, Share: 75.25},
						{Member: charlie, Share: 25.00},
					},
				},
				{
					Amount: 45.00, Currency: "USD", Payer: alice,
					Splits: []Split{
						{Member: alice, Share: 22.50},
						{Member: bob, Share: 22.50},
					},
				},
			},
			validate: func(t *testing.T, balances map[string]*BalanceEntry) {
				if got := balances[bob.Key()].Balance; !floatEquals(got, 52.75) {
					t.Errorf("bob balance = %v, want 52.75", got)
				}
				if got := balances[alice.Key()].Balance; !floatEquals(got, -27.75) {
					t.Errorf("alice balance = %v, want -27.75", got)
				}
				if got := balances[charlie.Key()].Balance; !floatEquals(got, -25.00) {
					t.Errorf("charlie balance = %v, want -25.00", got)
				}
			},
		},
		{
			name: "settlement shifts payer up and payee down",
			expenses: []Expense{
				{
					Amount: 120.0, Currency: "USD", Payer: alice,
					Splits: []Split{
						{Member: alice, Share: 40.0},
						{Member: bob, Share: 40.0},
						{Member: charlie, Share: 40.0},
					},
				},
			},
			settlements: []Settlement{
				{Amount: 40.0, Currency: "USD", Payer: bob, Payee: alice},
			},
			validate: func(t *testing.T, balances map[string]*BalanceEntry) {
				if got := balances[bob.Key()].Balance; !floatEquals(got, 0.0) {
					t.Errorf("bob balance = %v, want 0.0", got)
				}
				if got := balances[alice.Key()].Balance; !floatEquals(got, 40.0) {
					t.Errorf("alice balance = %v, want 40.0", got)
				}
				if got := balances[bob.Key()].Status(); got != StatusSettled {
					t.Errorf("bob status = %v, want settled", got)
				}
				if got := balances[alice.Key()].Status(); got != StatusOwed {
					t.Errorf("alice status = %v, want owed", got)
				}
				// Settlements never move the expense totals.
				if got := balances[bob.Key()].TotalPaid; !floatEquals(got, 0.0) {
					t.Errorf("bob total paid = %v, want 0.0", got)
				}
			},
		},
		{
			name: "split member outside the group",
			expenses: []Expense{
				{
					Amount: 10.0, Currency: "USD", Payer: alice,
					Splits: []Split{
						{Member: Invited("stranger@example.com"), Share: 10.0},
					},
				},
			},
			wantErr: true,
		},
		{
			name: "payer outside the group",
			expenses: []Expense{
				{
					Amount: 10.0, Currency: "USD", Payer: Invited("stranger@example.com"),
					Splits: []Split{{Member: alice, Share: 10.0}},
				},
			},
			wantErr: true,
		},
		{
			name: "duplicate member in splits",
			expenses: []Expense{
				{
					Amount: 20.0, Currency: "USD", Payer: alice,
					Splits: []Split{
						{Member: bob, Share: 10.0},
						{Member: bob, Share: 10.0},
					},
				},
			},
			wantErr: true,
		},
		{
			name: "negative share that still reconciles",
			expenses: []Expense{
				{
					Amount: 30.0, Currency: "USD", Payer: alice,
					Splits: []Split{
						{Member: bob, Share: 40.0},
						{Member: charlie, Share: -10.0},
					},
				},
			},
			wantErr: true,
		},
		{
			name: "zero share",
			expenses: []Expense{
				{
					Amount: 20.0, Currency: "USD", Payer: alice,
					Splits: []Split{
						{Member: bob, Share: 20.0},
						{Member: charlie, Share: 0.0},
					},
				},
			},
			wantErr: true,
		},
		{
			name: "splits do not reconcile to total",
			expenses: []Expense{
				{
					Amount: 100.0, Currency: "USD", Payer: alice,
					Splits: []Split{
						{Member: alice, Share: 40.0},
						{Member: bob, Share: 40.0},
					},
				},
			},
			wantErr: true,
		},
		{
			name: "settlement payee outside the group",
			settlements: []Settlement{
				{Amount: 5.0, Currency: "USD", Payer: alice, Payee: Invited("stranger@example.com")},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances, err := Aggregate(members, tt.expenses, tt.settlements)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Aggregate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var integrityErr *DataIntegrityError
				if !errors.As(err, &integrityErr) {
					t.Fatalf("error type = %T, want *DataIntegrityError", err)
				}
				return
			}
			if tt.validate != nil {
				tt.validate(t, balances)
			}

			// Zero-sum invariant: a closed record set always nets out.
			var sum float64
			for _, entry := range balances {
				sum += entry.Balance
			}
			if math.Abs(sum) > Epsilon {
				t.Errorf("balances sum to %v, want ~0", sum)
			}
		})
	}
}

func TestAggregateResolvesIdentityByEmail(t *testing.T) {
	// The same member appears registered in one record and invited (with
	// different email casing) in another; both must land on one entry.
	members := []MemberIdentity{alice, bob}
	expenses := []Expense{
		{
			Amount: 30.0, Currency: "USD", Payer: alice,
			Splits: []Split{
				{Member: Invited("Alice@Example.com"), Share: 15.0},
				{Member: bob, Share: 15.0},
			},
		},
	}

	balances, err := Aggregate(members, expenses, nil)
	if err != nil {
		t.Fatalf("Aggregate() failed: %v", err)
	}
	if len(balances) != 2 {
		t.Fatalf("got %d entries, want 2", len(balances))
	}
	if got := balances[alice.Key()].Balance; !floatEquals(got, 15.0) {
		t.Errorf("alice balance = %v, want 15.0", got)
	}
}

func TestAggregateEmptyHistory(t *testing.T) {
	balances, err := Aggregate([]MemberIdentity{alice, bob}, nil, nil)
	if err != nil {
		t.Fatalf("Aggregate() failed: %v", err)
	}
	for key, entry := range balances {
		if entry.Balance != 0 || entry.TotalPaid != 0 || entry.TotalOwed != 0 {
			t.Errorf("%s: expected zero entry, got %+v", key, entry)
		}
		if entry.Status() != StatusSettled {
			t.Errorf("%s: status = %v, want settled", key, entry.Status())
		}
	}
}
