package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"giftster/internal/models"
	"giftster/internal/storage"
)

// CreateGroup inserts a new group and its creator's membership in one
// transaction, so a group never exists without its creator as a member.
// A join-code collision (UNIQUE on groups.join_code) rolls everything back
// and returns ErrDuplicateJoinCode for the caller to retry with a new code.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (id, name, description, join_code, created_by, created_at, has_gift_exchange)
		 VALUES (?, ?, ?, ?, ?, ?, 0)`,
		group.ID, group.Name, group.Description, group.JoinCode, group.CreatedBy, group.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "groups.join_code") {
			return storage.ErrDuplicateJoinCode
		}
		return fmt.Errorf("failed to insert group: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)",
		group.ID, group.CreatedBy, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert creator membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	return s.getGroup(ctx, "id", id)
}

// GetGroupByJoinCode retrieves a group by its exact join code.
func (s *SQLiteStore) GetGroupByJoinCode(ctx context.Context, code string) (*models.Group, error) {
	return s.getGroup(ctx, "join_code", code)
}

func (s *SQLiteStore) getGroup(ctx context.Context, column, value string) (*models.Group, error) {
	query := fmt.Sprintf(`
		SELECT id, name, description, join_code, created_by, created_at, has_gift_exchange
		FROM groups
		WHERE %s = ?
	`, column)

	group := &models.Group{}
	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&group.ID,
		&group.Name,
		&group.Description,
		&group.JoinCode,
		&group.CreatedBy,
		&group.CreatedAt,
		&group.HasGiftExchange,
	)

	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group by %s: %w", column, err)
	}

	return group, nil
}

// AddMember adds the user to the group. INSERT OR IGNORE against the
// composite primary key makes concurrent duplicate joins collapse into a
// single membership row.
func (s *SQLiteStore) AddMember(ctx context.Context, groupID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)",
		groupID, userID, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// IsMember reports whether the user belongs to the group.
func (s *SQLiteStore) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	).Scan(&one)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return true, nil
}

// ListMembers returns the group's members ordered by join time, then ID.
// The order carries no meaning, but it is stable, which keeps exchange
// assignment deterministic under a fixed random seed.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupID string) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.first_name, u.last_name, u.email, u.password_hash, u.created_at
		FROM users u
		JOIN group_members gm ON gm.user_id = u.id
		WHERE gm.group_id = ?
		ORDER BY gm.joined_at, u.id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

// ListGroupsByUser returns all groups the user belongs to, oldest join first.
func (s *SQLiteStore) ListGroupsByUser(ctx context.Context, userID string) ([]models.Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.description, g.join_code, g.created_by, g.created_at, g.has_gift_exchange
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = ?
		ORDER BY gm.joined_at, g.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.JoinCode, &g.CreatedBy, &g.CreatedAt, &g.HasGiftExchange); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return groups, nil
}
