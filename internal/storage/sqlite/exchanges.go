package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"giftster/internal/models"
	"giftster/internal/storage"
)

// StartExchange flips the group's has_gift_exchange flag and inserts all
// assignments in one transaction. The conditional flag update is the
// single-writer gate: the first caller to flip it commits its assignments,
// any concurrent caller matches zero rows and rolls back with
// ErrExchangeStarted, so its assignments are discarded rather than appended.
func (s *SQLiteStore) StartExchange(ctx context.Context, groupID string, assignments []models.ExchangeAssignment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE groups SET has_gift_exchange = 1 WHERE id = ? AND has_gift_exchange = 0",
		groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark exchange started: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		var one int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", groupID).Scan(&one)
		if err == sql.ErrNoRows {
			return storage.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check group: %w", err)
		}
		return storage.ErrExchangeStarted
	}

	for _, a := range assignments {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO exchange_assignments (id, group_id, giver_id, receiver_id, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			a.ID, a.GroupID, a.GiverID, a.ReceiverID, a.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert assignment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetAssignment returns the assignment where giverID gives within the group.
func (s *SQLiteStore) GetAssignment(ctx context.Context, groupID, giverID string) (*models.ExchangeAssignment, error) {
	a := &models.ExchangeAssignment{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, group_id, giver_id, receiver_id, created_at
		FROM exchange_assignments
		WHERE group_id = ? AND giver_id = ?
	`, groupID, giverID).Scan(&a.ID, &a.GroupID, &a.GiverID, &a.ReceiverID, &a.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	return a, nil
}
