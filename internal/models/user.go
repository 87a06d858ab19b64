package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account. Registration links the account
// to any group memberships that were previously invited under the same email.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique). It doubles as the join
	// key that ties the account to ledger records created before signup.
	Email string

	// DisplayName is the name shown to other group members.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewUser creates a user with a fresh ID and creation timestamp.
func NewUser(email, displayName, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
