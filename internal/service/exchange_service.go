package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"giftster/internal/exchange"
	"giftster/internal/models"
	"giftster/internal/storage"
)

// ErrInsufficientMembers is returned when starting an exchange in a group
// with fewer than two members.
var ErrInsufficientMembers = exchange.ErrInsufficientMembers

// ExchangeService starts a group's secret gift exchange and answers each
// member's "who do I give to" query.
type ExchangeService struct {
	store    storage.Store
	guard    *Guard
	assigner *exchange.Assigner
	logger   *slog.Logger
}

// NewExchangeService creates a new ExchangeService.
func NewExchangeService(store storage.Store, guard *Guard, assigner *exchange.Assigner, logger *slog.Logger) *ExchangeService {
	return &ExchangeService{store: store, guard: guard, assigner: assigner, logger: logger}
}

// Start draws a derangement of the group's current members and commits it.
// Only the creator may start, the group needs at least two members, and the
// exchange starts at most once: the store's flag flip is the single-writer
// gate, so a concurrent loser's assignments are discarded, never appended.
//
// Assignments are deliberately not returned; each member learns only their
// own receiver via Assignment.
func (s *ExchangeService) Start(ctx context.Context, userID, groupID string) error {
	group, err := s.guard.RequireMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if err := s.guard.RequireCreator(group, userID); err != nil {
		return err
	}
	if group.HasGiftExchange {
		return ErrExchangeStarted
	}

	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return fmt.Errorf("failed to list members: %w", err)
	}

	memberIDs := make([]string, len(members))
	for i, m := range members {
		memberIDs[i] = m.ID
	}

	pairs, err := s.assigner.Assign(memberIDs)
	if err != nil {
		return err
	}

	now := time.Now().Unix()
	assignments := make([]models.ExchangeAssignment, len(pairs))
	for i, p := range pairs {
		assignments[i] = models.ExchangeAssignment{
			ID:         uuid.New().String(),
			GroupID:    groupID,
			GiverID:    p.GiverID,
			ReceiverID: p.ReceiverID,
			CreatedAt:  now,
		}
	}

	if err := s.store.StartExchange(ctx, groupID, assignments); err != nil {
		switch {
		case errors.Is(err, storage.ErrExchangeStarted):
			return ErrExchangeStarted
		case errors.Is(err, storage.ErrNotFound):
			return ErrGroupNotFound
		}
		return fmt.Errorf("failed to start exchange: %w", err)
	}

	s.logger.Info("gift exchange started",
		"group_id", groupID,
		"started_by", userID,
		"member_count", len(members),
	)
	return nil
}

// Assignment returns the user the requester gives to in the group's
// exchange. Before the exchange starts there is nothing to return.
func (s *ExchangeService) Assignment(ctx context.Context, userID, groupID string) (*models.User, error) {
	if _, err := s.guard.RequireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}

	assignment, err := s.store.GetAssignment(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrExchangeNotStarted
		}
		return nil, fmt.Errorf("failed to load assignment: %w", err)
	}

	receiver, err := s.store.GetUserByID(ctx, assignment.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to load receiver: %w", err)
	}
	return receiver, nil
}
