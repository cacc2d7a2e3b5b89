package service

import (
	"context"
	"errors"
	"fmt"

	"giftster/internal/models"
	"giftster/internal/storage"
)

// Guard centralizes the membership and ownership checks that gate every
// group-scoped operation. It is stateless: each predicate reads current
// store state and either passes or returns a distinguishable sentinel, never
// partially applying anything.
type Guard struct {
	store storage.Store
}

// NewGuard creates a Guard over the given store.
func NewGuard(store storage.Store) *Guard {
	return &Guard{store: store}
}

// RequireMember resolves the group and verifies the user belongs to it.
func (g *Guard) RequireMember(ctx context.Context, groupID, userID string) (*models.Group, error) {
	group, err := g.store.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to load group: %w", err)
	}

	ok, err := g.store.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !ok {
		return nil, ErrNotAMember
	}
	return group, nil
}

// RequireCreator verifies the user created the group.
func (g *Guard) RequireCreator(group *models.Group, userID string) error {
	if group.CreatedBy != userID {
		return ErrNotCreator
	}
	return nil
}

// RequireOwner verifies the user owns the item.
func (g *Guard) RequireOwner(item *models.GiftItem, userID string) error {
	if item.OwnerID != userID {
		return ErrNotOwner
	}
	return nil
}

// RequireNonOwner verifies the user does not own the item (claiming your own
// item is always rejected).
func (g *Guard) RequireNonOwner(item *models.GiftItem, userID string) error {
	if item.OwnerID == userID {
		return ErrSelfClaim
	}
	return nil
}

// RequireClaimer verifies the user currently holds the claim on the item.
func (g *Guard) RequireClaimer(item *models.GiftItem, userID string) error {
	if !item.IsClaimed || item.ClaimerID != userID {
		return ErrNotClaimer
	}
	return nil
}
