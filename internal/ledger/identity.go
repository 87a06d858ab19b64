// Package ledger implements the balance computation and debt-simplification
// engine: folding expense and settlement history into per-member balances,
// reducing those balances to a small set of settle-up payments, validating
// proposed settlements, and projecting hypothetical ones.
//
// All computations are pure functions over immutable snapshots. Balances are
// recomputed from the full history on every call; nothing here caches or
// persists state.
package ledger

import "strings"

// MemberIdentity identifies a group member across expense and settlement
// records. Email is the stable join key; AccountID is an optional enrichment
// set once the member has registered. Two identities refer to the same
// member iff their normalized emails match, so a member is tracked
// consistently whether or not individual records carry the account id.
type MemberIdentity struct {
	// Email is the member's email address. Never empty.
	Email string

	// AccountID is the linked user account id, or empty for a member who
	// was invited by email and has not registered yet.
	AccountID string
}

// Registered returns the identity of a member with a linked account.
func Registered(accountID, email string) MemberIdentity {
	return MemberIdentity{Email: email, AccountID: accountID}
}

// Invited returns the identity of a member known only by email.
func Invited(email string) MemberIdentity {
	return MemberIdentity{Email: email}
}

// Key returns the normalized form of the identity used for balance table
// lookups: the lower-cased, trimmed email. Records that carry the same email
// with and without an account id resolve to the same key.
func (m MemberIdentity) Key() string {
	return strings.ToLower(strings.TrimSpace(m.Email))
}

// IsRegistered reports whether the member has a linked account.
func (m MemberIdentity) IsRegistered() bool {
	return m.AccountID != ""
}

// Same reports whether two identities refer to the same member.
func (m MemberIdentity) Same(other MemberIdentity) bool {
	return m.Key() == other.Key()
}
