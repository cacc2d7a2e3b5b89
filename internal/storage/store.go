// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"giftster/internal/models"
)

// Store is the full persistence contract for Giftster. The service layer is
// written against this interface so backends (SQLite, in-memory document
// store) can be swapped without touching business logic.
type Store interface {
	UserStore
	GroupStore
	GiftStore
	ExchangeStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser persists a new user. Returns ErrDuplicateEmail if another
	// account already uses the same (normalized) email address.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByEmail retrieves a user by normalized email.
	// Returns ErrNotFound if absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdatePassword replaces the stored password hash for the user.
	// Returns ErrNotFound if the user does not exist.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// GroupStore persists groups and their membership sets.
type GroupStore interface {
	// CreateGroup persists a new group and, in the same atomic unit, adds
	// the creator as the first member. Returns ErrDuplicateJoinCode if the
	// group's join code collides with an existing one; callers draw a new
	// code and retry.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID. Returns ErrNotFound if absent.
	GetGroup(ctx context.Context, id string) (*models.Group, error)

	// GetGroupByJoinCode retrieves a group by its exact join code.
	// Returns ErrNotFound if no group uses the code.
	GetGroupByJoinCode(ctx context.Context, code string) (*models.Group, error)

	// AddMember adds the user to the group. Idempotent: adding an existing
	// member leaves exactly one membership record and returns nil.
	AddMember(ctx context.Context, groupID, userID string) error

	// IsMember reports whether the user belongs to the group.
	IsMember(ctx context.Context, groupID, userID string) (bool, error)

	// ListMembers returns the group's members in a stable order
	// (join time, then ID).
	ListMembers(ctx context.Context, groupID string) ([]models.User, error)

	// ListGroupsByUser returns all groups the user belongs to.
	ListGroupsByUser(ctx context.Context, userID string) ([]models.Group, error)
}

// GiftStore persists wish-list items and their claim state.
type GiftStore interface {
	// CreateGift persists a new wish-list item.
	CreateGift(ctx context.Context, gift *models.GiftItem) error

	// GetGift retrieves an item by ID. Returns ErrNotFound if absent.
	GetGift(ctx context.Context, id string) (*models.GiftItem, error)

	// ListGiftsByOwner returns one member's items within a group.
	ListGiftsByOwner(ctx context.Context, groupID, ownerID string) ([]models.GiftItem, error)

	// ListGiftsByGroup returns every item in the group.
	ListGiftsByGroup(ctx context.Context, groupID string) ([]models.GiftItem, error)

	// DeleteGift removes an item. Returns ErrNotFound if absent.
	DeleteGift(ctx context.Context, id string) error

	// ClaimGift marks the item claimed by claimerID. The update is
	// conditional on the item being unclaimed, so of two concurrent claims
	// exactly one succeeds and the other gets ErrAlreadyClaimed.
	ClaimGift(ctx context.Context, giftID, claimerID string) error

	// UnclaimGift clears the claim, conditional on requesterID being the
	// current claimer. Returns ErrNotClaimer otherwise.
	UnclaimGift(ctx context.Context, giftID, requesterID string) error
}

// ExchangeStore persists secret gift exchange assignments.
type ExchangeStore interface {
	// StartExchange flips the group's HasGiftExchange flag and inserts all
	// assignments as one atomic unit. The flag transition is the
	// single-writer gate: if it is already set, nothing is written and
	// ErrExchangeStarted is returned.
	StartExchange(ctx context.Context, groupID string, assignments []models.ExchangeAssignment) error

	// GetAssignment returns the assignment where giverID gives within the
	// group. Returns ErrNotFound before the exchange has started.
	GetAssignment(ctx context.Context, groupID, giverID string) (*models.ExchangeAssignment, error)
}
