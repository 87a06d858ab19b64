package models

import "github.com/splitledger/splitledger/internal/ledger"

// Member is one participant of a group: an identity plus a display name.
// A member joins by email invitation; AccountID is filled in once (and if)
// they register a user account under that email.
type Member struct {
	// Email is the member's email address, the stable key for all ledger
	// records. Unique within a group.
	Email string

	// DisplayName is the name shown in balances and settle-up suggestions.
	DisplayName string

	// AccountID is the linked user account, or empty for an invited member
	// who has not registered yet.
	AccountID string
}

// Identity returns the member's ledger identity.
func (m Member) Identity() ledger.MemberIdentity {
	if m.AccountID != "" {
		return ledger.Registered(m.AccountID, m.Email)
	}
	return ledger.Invited(m.Email)
}

// Group represents a set of members who share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string

	// Currency is the group's accepted currency (ISO 4217 code). All
	// expenses and settlements in the group use this currency.
	Currency string

	// Members are the group's participants, at most one per email.
	Members []Member

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// MemberIdentities returns the ledger identities of all members.
func (g *Group) MemberIdentities() []ledger.MemberIdentity {
	identities := make([]ledger.MemberIdentity, len(g.Members))
	for i, m := range g.Members {
		identities[i] = m.Identity()
	}
	return identities
}

// FindMember returns the member with the given email, matching the way the
// ledger matches identities (case-insensitive, trimmed).
func (g *Group) FindMember(email string) (Member, bool) {
	key := ledger.Invited(email).Key()
	for _, m := range g.Members {
		if m.Identity().Key() == key {
			return m, true
		}
	}
	return Member{}, false
}
