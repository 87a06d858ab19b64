package ledger

import (
	"math"
	"testing"
)

func TestEqualSplits(t *testing.T) {
	members := []MemberIdentity{alice, bob, charlie}

	tests := []struct {
		name       string
		amount     float64
		members    []MemberIdentity
		wantShares []float64
	}{
		{
			name:       "divides evenly",
			amount:     120.0,
			members:    members,
			wantShares: []float64{40.0, 40.0, 40.0},
		},
		{
			name:       "last member absorbs the remainder",
			amount:     10.0,
			members:    members,
			wantShares: []float64{3.33, 3.33, 3.34},
		},
		{
			name:       "remainder can round down",
			amount:     100.0,
			members:    members,
			wantShares: []float64{33.33, 33.33, 33.34},
		},
		{
			name:       "single member takes everything",
			amount:     7.77,
			members:    []MemberIdentity{alice},
			wantShares: []float64{7.77},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits := EqualSplits(tt.amount, tt.members)
			if len(splits) != len(tt.wantShares) {
				t.Fatalf("got %d splits, want %d", len(splits), len(tt.wantShares))
			}

			var sum float64
			for i, split := range splits {
				if math.Abs(split.Share-tt.wantShares[i]) > 0.001 {
					t.Errorf("share[%d] = %v, want %v", i, split.Share, tt.wantShares[i])
				}
				if !split.Member.Same(tt.members[i]) {
					t.Errorf("share[%d] assigned to %q, want %q", i, split.Member.Email, tt.members[i].Email)
				}
				sum += split.Share
			}

			// Shares must reconcile exactly, not just within tolerance.
			if math.Abs(sum-tt.amount) > 0.001 {
				t.Errorf("shares sum to %v, want %v", sum, tt.amount)
			}
		})
	}
}

func TestEqualSplitsDegenerateInputs(t *testing.T) {
	if got := EqualSplits(10.0, nil); got != nil {
		t.Errorf("expected nil for empty members, got %v", got)
	}
	if got := EqualSplits(0, []MemberIdentity{alice}); got != nil {
		t.Errorf("expected nil for zero amount, got %v", got)
	}
	if got := EqualSplits(-5, []MemberIdentity{alice}); got != nil {
		t.Errorf("expected nil for negative amount, got %v", got)
	}
}
