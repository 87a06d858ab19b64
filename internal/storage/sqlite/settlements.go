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

// CreateSettlement persists a new settlement to the database.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	var note interface{}
	if settlement.Note != "" {
		note = settlement.Note
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (id, group_id, payer_email, payee_email, amount, currency, note, created_at, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.GroupID, normEmail(settlement.PayerEmail), normEmail(settlement.PayeeEmail),
		settlement.Amount, settlement.Currency, note, settlement.CreatedAt, settlement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	return nil
}

// GetSettlement retrieves a settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var note, createdBy sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, payer_email, payee_email, amount, currency, note, created_at, created_by
		 FROM settlements WHERE id = ?`,
		settlementID,
	).Scan(&settlement.ID, &settlement.GroupID, &settlement.PayerEmail, &settlement.PayeeEmail,
		&settlement.Amount, &settlement.Currency, &note, &settlement.CreatedAt, &createdBy)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	if note.Valid {
		settlement.Note = note.String
	}
	if createdBy.Valid {
		settlement.CreatedBy = createdBy.String
	}

	return settlement, nil
}

// ListSettlementsByGroup retrieves all settlements for a group, newest first.
func (s *SQLiteStore) ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, payer_email, payee_email, amount, currency, note, created_at, created_by
		 FROM settlements WHERE group_id = ? ORDER BY created_at DESC, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements by group: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement := &models.Settlement{}
		var note, createdBy sql.NullString

		if err := rows.Scan(&settlement.ID, &settlement.GroupID, &settlement.PayerEmail, &settlement.PayeeEmail,
			&settlement.Amount, &settlement.Currency, &note, &settlement.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}

		if note.Valid {
			settlement.Note = note.String
		}
		if createdBy.Valid {
			settlement.CreatedBy = createdBy.String
		}

		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}

// DeleteSettlement removes a settlement by ID.
func (s *SQLiteStore) DeleteSettlement(ctx context.Context, settlementID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM settlements WHERE id = ?", settlementID)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
	}

	return nil
}
