package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// CreateGroup persists a new group and its members.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, currency, created_at) VALUES (?, ?, ?, ?)",
		group.ID, group.Name, group.Currency, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for _, member := range group.Members {
		if err := insertMember(ctx, tx, group.ID, member); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGroup retrieves a group and its members by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, currency, created_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.Currency, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	members, err := s.groupMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	group.Members = members

	return group, nil
}

// ListGroups retrieves all groups with their members.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, currency, created_at FROM groups ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.Currency, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for _, group := range groups {
		members, err := s.groupMembers(ctx, group.ID)
		if err != nil {
			return nil, err
		}
		group.Members = members
	}

	return groups, nil
}

// UpdateGroup updates a group's name and currency.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE groups SET name = ?, currency = ? WHERE id = ?",
		group.Name, group.Currency, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("group %s: %w", group.ID, storage.ErrNotFound)
	}

	return nil
}

// DeleteGroup removes a group; members, expenses, and settlements cascade.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}

	return nil
}

// AddGroupMembers adds members to a group, skipping emails already present.
func (s *SQLiteStore) AddGroupMembers(ctx context.Context, groupID string, members []models.Member) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, member := range members {
		if err := insertMember(ctx, tx, groupID, member); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// LinkMemberAccount fills in the account id on every membership held under
// the given email.
func (s *SQLiteStore) LinkMemberAccount(ctx context.Context, email, accountID string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE group_members SET account_id = ? WHERE email = ?",
		accountID, normEmail(email),
	)
	if err != nil {
		return fmt.Errorf("failed to link member account: %w", err)
	}
	return nil
}

func insertMember(ctx context.Context, tx *sql.Tx, groupID string, member models.Member) error {
	var accountID interface{}
	if member.AccountID != "" {
		accountID = member.AccountID
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO group_members (group_id, email, display_name, account_id)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (group_id, email) DO NOTHING`,
		groupID, normEmail(member.Email), member.DisplayName, accountID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

func (s *SQLiteStore) groupMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT email, display_name, account_id FROM group_members WHERE group_id = ? ORDER BY email",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var member models.Member
		var accountID sql.NullString
		if err := rows.Scan(&member.Email, &member.DisplayName, &accountID); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		if accountID.Valid {
			member.AccountID = accountID.String
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}
