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

// CreateExpense persists a new expense and its splits.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, description, amount, currency, payer_email, created_at, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.Description, expense.Amount, expense.Currency,
		normEmail(expense.PayerEmail), expense.CreatedAt, expense.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for _, split := range expense.Splits {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, member_email, share) VALUES (?, ?, ?)",
			expense.ID, normEmail(split.MemberEmail), split.Share,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense with its splits by ID.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	var createdBy sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, description, amount, currency, payer_email, created_at, created_by
		 FROM expenses WHERE id = ?`,
		expenseID,
	).Scan(&expense.ID, &expense.GroupID, &expense.Description, &expense.Amount,
		&expense.Currency, &expense.PayerEmail, &expense.CreatedAt, &createdBy)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	if createdBy.Valid {
		expense.CreatedBy = createdBy.String
	}

	splits, err := s.expenseSplits(ctx, expense.ID)
	if err != nil {
		return nil, err
	}
	expense.Splits = splits

	return expense, nil
}

// ListExpensesByGroup retrieves all expenses of a group, newest first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, description, amount, currency, payer_email, created_at, created_by
		 FROM expenses WHERE group_id = ? ORDER BY created_at DESC, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var createdBy sql.NullString
		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.Description, &expense.Amount,
			&expense.Currency, &expense.PayerEmail, &expense.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if createdBy.Valid {
			expense.CreatedBy = createdBy.String
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		splits, err := s.expenseSplits(ctx, expense.ID)
		if err != nil {
			return nil, err
		}
		expense.Splits = splits
	}

	return expenses, nil
}

// DeleteExpense removes an expense; splits cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}

	return nil
}

func (s *SQLiteStore) expenseSplits(ctx context.Context, expenseID string) ([]models.ExpenseSplit, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT member_email, share FROM expense_splits WHERE expense_id = ? ORDER BY member_email",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense splits: %w", err)
	}
	defer rows.Close()

	var splits []models.ExpenseSplit
	for rows.Next() {
		var split models.ExpenseSplit
		if err := rows.Scan(&split.MemberEmail, &split.Share); err != nil {
			return nil, fmt.Errorf("failed to scan expense split: %w", err)
		}
		splits = append(splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense splits: %w", err)
	}

	return splits, nil
}
