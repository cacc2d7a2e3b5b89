package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"giftster/internal/models"
	"giftster/internal/storage"
)

// GiftService implements wish-list management and the claim state machine.
//
// Per item the only legal transitions are:
//
//	Unclaimed -> Claimed(by X)   claim by a non-owner member, item unclaimed
//	Claimed(by X) -> Unclaimed   unclaim by X
//
// Everything else is rejected with a distinguishable error.
type GiftService struct {
	store  storage.Store
	guard  *Guard
	logger *slog.Logger
}

// NewGiftService creates a new GiftService.
func NewGiftService(store storage.Store, guard *Guard, logger *slog.Logger) *GiftService {
	return &GiftService{store: store, guard: guard, logger: logger}
}

// AddItem creates a wish-list item on the requester's own list. Membership
// in the group is required; item names need not be unique.
func (s *GiftService) AddItem(ctx context.Context, userID, groupID, name, description, link string) (*models.GiftItem, error) {
	if _, err := s.guard.RequireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	gift := &models.GiftItem{
		ID:          uuid.New().String(),
		GroupID:     groupID,
		OwnerID:     userID,
		Name:        name,
		Description: strings.TrimSpace(description),
		Link:        strings.TrimSpace(link),
		CreatedAt:   time.Now().Unix(),
	}

	if err := s.store.CreateGift(ctx, gift); err != nil {
		return nil, fmt.Errorf("failed to add gift: %w", err)
	}

	s.logger.Info("gift added", "gift_id", gift.ID, "group_id", groupID, "owner_id", userID)
	return gift, nil
}

// MyList returns the requester's own items in the group.
func (s *GiftService) MyList(ctx context.Context, userID, groupID string) ([]models.GiftItem, error) {
	if _, err := s.guard.RequireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	gifts, err := s.store.ListGiftsByOwner(ctx, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list gifts: %w", err)
	}
	return gifts, nil
}

// Delete removes an item. Only the owner may delete; the check fails closed.
func (s *GiftService) Delete(ctx context.Context, userID, itemID string) error {
	gift, err := s.getGift(ctx, itemID)
	if err != nil {
		return err
	}
	if err := s.guard.RequireOwner(gift, userID); err != nil {
		return err
	}

	if err := s.store.DeleteGift(ctx, itemID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to delete gift: %w", err)
	}

	s.logger.Info("gift deleted", "gift_id", itemID, "owner_id", userID)
	return nil
}

// Claim reserves an item for the requester. The guard checks run on a read
// snapshot; the store's conditional write is what actually decides a race,
// so two concurrent claims see exactly one success and one ErrAlreadyClaimed.
func (s *GiftService) Claim(ctx context.Context, userID, itemID string) error {
	gift, err := s.getGift(ctx, itemID)
	if err != nil {
		return err
	}

	if _, err := s.guard.RequireMember(ctx, gift.GroupID, userID); err != nil {
		return err
	}
	if err := s.guard.RequireNonOwner(gift, userID); err != nil {
		return err
	}
	if gift.IsClaimed {
		return ErrAlreadyClaimed
	}

	if err := s.store.ClaimGift(ctx, itemID, userID); err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyClaimed):
			return ErrAlreadyClaimed
		case errors.Is(err, storage.ErrNotFound):
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to claim gift: %w", err)
	}

	s.logger.Info("gift claimed", "gift_id", itemID, "claimer_id", userID)
	return nil
}

// Unclaim releases the requester's claim on an item. Only the current
// claimer may unclaim; both claim fields reset together.
func (s *GiftService) Unclaim(ctx context.Context, userID, itemID string) error {
	gift, err := s.getGift(ctx, itemID)
	if err != nil {
		return err
	}
	if err := s.guard.RequireClaimer(gift, userID); err != nil {
		return err
	}

	if err := s.store.UnclaimGift(ctx, itemID, userID); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotClaimer):
			return ErrNotClaimer
		case errors.Is(err, storage.ErrNotFound):
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to unclaim gift: %w", err)
	}

	s.logger.Info("gift unclaimed", "gift_id", itemID, "claimer_id", userID)
	return nil
}

func (s *GiftService) getGift(ctx context.Context, itemID string) (*models.GiftItem, error) {
	gift, err := s.store.GetGift(ctx, itemID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to load gift: %w", err)
	}
	return gift, nil
}
