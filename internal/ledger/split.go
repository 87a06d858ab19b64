package ledger

// EqualSplits divides amount evenly among members, rounding each share to 2
// decimal places. When the amount does not divide evenly (e.g. 10.00 among
// 3), the last member absorbs the rounding remainder so the shares always
// sum exactly to the amount: [3.33, 3.33, 3.34].
//
// Returns nil for an empty member list or a non-positive amount.
func EqualSplits(amount float64, members []MemberIdentity) []Split {
	if len(members) == 0 || amount <= 0 {
		return nil
	}

	share := round2(amount / float64(len(members)))
	splits := make([]Split, len(members))
	var assigned float64
	for i, m := range members {
		splits[i] = Split{Member: m, Share: share}
		assigned += share
	}

	// Last participant absorbs the remainder.
	splits[len(splits)-1].Share = round2(share + amount - assigned)

	return splits
}
