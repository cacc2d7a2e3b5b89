package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"giftster/internal/models"
	"giftster/internal/storage"
)

// CreateGift persists a new wish-list item.
func (s *SQLiteStore) CreateGift(ctx context.Context, gift *models.GiftItem) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO gifts (id, group_id, owner_id, name, description, link, is_claimed, claimer_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, 0, NULL, ?)`,
		gift.ID, gift.GroupID, gift.OwnerID, gift.Name, gift.Description, gift.Link, gift.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create gift: %w", err)
	}
	return nil
}

// GetGift retrieves an item by ID.
func (s *SQLiteStore) GetGift(ctx context.Context, id string) (*models.GiftItem, error) {
	gift := &models.GiftItem{}
	var claimer sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, group_id, owner_id, name, description, link, is_claimed, claimer_id, created_at
		FROM gifts
		WHERE id = ?
	`, id).Scan(
		&gift.ID,
		&gift.GroupID,
		&gift.OwnerID,
		&gift.Name,
		&gift.Description,
		&gift.Link,
		&gift.IsClaimed,
		&claimer,
		&gift.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get gift: %w", err)
	}

	gift.ClaimerID = claimer.String
	return gift, nil
}

// ListGiftsByOwner returns one member's items within a group, oldest first.
func (s *SQLiteStore) ListGiftsByOwner(ctx context.Context, groupID, ownerID string) ([]models.GiftItem, error) {
	return s.listGifts(ctx,
		"WHERE group_id = ? AND owner_id = ?",
		groupID, ownerID,
	)
}

// ListGiftsByGroup returns every item in the group, oldest first.
func (s *SQLiteStore) ListGiftsByGroup(ctx context.Context, groupID string) ([]models.GiftItem, error) {
	return s.listGifts(ctx, "WHERE group_id = ?", groupID)
}

func (s *SQLiteStore) listGifts(ctx context.Context, where string, args ...any) ([]models.GiftItem, error) {
	query := `
		SELECT id, group_id, owner_id, name, description, link, is_claimed, claimer_id, created_at
		FROM gifts
	` + where + `
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list gifts: %w", err)
	}
	defer rows.Close()

	var gifts []models.GiftItem
	for rows.Next() {
		var g models.GiftItem
		var claimer sql.NullString
		if err := rows.Scan(&g.ID, &g.GroupID, &g.OwnerID, &g.Name, &g.Description, &g.Link, &g.IsClaimed, &claimer, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan gift: %w", err)
		}
		g.ClaimerID = claimer.String
		gifts = append(gifts, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate gifts: %w", err)
	}

	return gifts, nil
}

// DeleteGift removes an item.
func (s *SQLiteStore) DeleteGift(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM gifts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete gift: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ClaimGift marks the item claimed by claimerID. The WHERE clause makes the
// update conditional on the item being unclaimed: of two concurrent claims,
// the row matches for exactly one.
func (s *SQLiteStore) ClaimGift(ctx context.Context, giftID, claimerID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE gifts SET is_claimed = 1, claimer_id = ? WHERE id = ? AND is_claimed = 0",
		claimerID, giftID,
	)
	if err != nil {
		return fmt.Errorf("failed to claim gift: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 1 {
		return nil
	}

	// No row matched: the item is either gone or already claimed.
	if _, err := s.GetGift(ctx, giftID); errors.Is(err, storage.ErrNotFound) {
		return storage.ErrNotFound
	}
	return storage.ErrAlreadyClaimed
}

// UnclaimGift clears the claim. Both claim fields reset together, conditional
// on requesterID being the current claimer.
func (s *SQLiteStore) UnclaimGift(ctx context.Context, giftID, requesterID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE gifts SET is_claimed = 0, claimer_id = NULL WHERE id = ? AND is_claimed = 1 AND claimer_id = ?",
		giftID, requesterID,
	)
	if err != nil {
		return fmt.Errorf("failed to unclaim gift: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 1 {
		return nil
	}

	if _, err := s.GetGift(ctx, giftID); errors.Is(err, storage.ErrNotFound) {
		return storage.ErrNotFound
	}
	return storage.ErrNotClaimer
}
