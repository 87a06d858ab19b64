// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/splitledger/splitledger/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
// Implementations wrap it with record-specific context.
var ErrNotFound = errors.New("not found")

// Store defines the interface for ledger storage operations. This
// abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// The store holds the authoritative expense/settlement history; balances are
// never persisted, they are recomputed from the full history on every read.
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email (case-insensitive).
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateGroup persists a new group with its members. The group.ID and
	// group.CreatedAt fields are populated by the store if unset.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group and its members by ID.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups retrieves all groups with their members.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// UpdateGroup updates a group's name and currency.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes a group and, via cascading deletes, its members,
	// expenses, and settlements.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddGroupMembers adds members to a group, skipping emails already
	// present.
	AddGroupMembers(ctx context.Context, groupID string, members []models.Member) error

	// LinkMemberAccount fills in the account id on every group membership
	// held under the given email. Called when an invited member registers.
	LinkMemberAccount(ctx context.Context, email, accountID string) error

	// CreateExpense persists a new expense with its splits.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with its splits by ID.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByGroup retrieves all expenses of a group, newest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// DeleteExpense removes an expense and its splits.
	DeleteExpense(ctx context.Context, expenseID string) error

	// CreateSettlement persists a new settlement.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// GetSettlement retrieves a settlement by ID.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlementsByGroup retrieves all settlements of a group, newest
	// first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// DeleteSettlement removes a settlement by ID.
	DeleteSettlement(ctx context.Context, settlementID string) error

	// Close releases any resources held by the store.
	Close() error
}
