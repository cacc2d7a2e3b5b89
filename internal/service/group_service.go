package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"giftster/internal/models"
	"giftster/internal/storage"
)

// joinCodeAlphabet is the URL-safe uppercase alphabet join codes draw from.
const joinCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// maxJoinCodeAttempts bounds retries when a freshly drawn code collides with
// an existing group. With 36^6 possible codes a collision is already rare;
// hitting the bound means something is wrong with the RNG or the table.
const maxJoinCodeAttempts = 10

// GroupSummary is one dashboard row: a group plus how much shopping the
// viewing user still has to do in it.
type GroupSummary struct {
	Group models.Group `json:"group"`

	// MemberCount is the total number of members, including the viewer.
	MemberCount int `json:"memberCount"`

	// NeedsGiftCount is the number of other members the viewer has not
	// claimed any item for yet.
	NeedsGiftCount int `json:"needsGiftCount"`
}

// MemberGifts is one member's wish list as seen by another member.
type MemberGifts struct {
	User  models.User       `json:"user"`
	Gifts []models.GiftItem `json:"gifts"`

	// ClaimedByMe is how many of this member's items the viewer claimed.
	ClaimedByMe int `json:"claimedByMe"`
}

// GroupDetail is the group page: the group and every other member's list.
type GroupDetail struct {
	Group   models.Group  `json:"group"`
	Members []MemberGifts `json:"members"`
}

// GroupService implements group creation, joining, and the member-facing
// group views.
type GroupService struct {
	store  storage.Store
	guard  *Guard
	logger *slog.Logger
}

// NewGroupService creates a new GroupService.
func NewGroupService(store storage.Store, guard *Guard, logger *slog.Logger) *GroupService {
	return &GroupService{store: store, guard: guard, logger: logger}
}

// CreateGroup creates a group with a fresh join code and the creator as its
// first member. Code uniqueness rides on the store's constraint: a collision
// draws a new code and retries, so two concurrent creations can never share
// a code.
func (s *GroupService) CreateGroup(ctx context.Context, creatorID, name, description string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	for attempt := 0; attempt < maxJoinCodeAttempts; attempt++ {
		group := &models.Group{
			ID:          uuid.New().String(),
			Name:        name,
			Description: strings.TrimSpace(description),
			JoinCode:    newJoinCode(),
			CreatedBy:   creatorID,
			CreatedAt:   time.Now().Unix(),
		}

		err := s.store.CreateGroup(ctx, group)
		if err == nil {
			s.logger.Info("group created",
				"group_id", group.ID,
				"created_by", creatorID,
				"join_code", group.JoinCode,
			)
			return group, nil
		}
		if errors.Is(err, storage.ErrDuplicateJoinCode) {
			s.logger.Warn("join code collision, retrying", "attempt", attempt+1)
			continue
		}
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return nil, fmt.Errorf("failed to create group: exhausted %d join code attempts", maxJoinCodeAttempts)
}

// JoinGroup adds the user to the group matching the join code. The code is
// normalized (trimmed, uppercased) before lookup. Joining a group you
// already belong to is reported via alreadyMember, not an error, and leaves
// exactly one membership record.
func (s *GroupService) JoinGroup(ctx context.Context, userID, joinCode string) (group *models.Group, alreadyMember bool, err error) {
	code := strings.ToUpper(strings.TrimSpace(joinCode))

	group, err = s.store.GetGroupByJoinCode(ctx, code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, false, ErrInvalidJoinCode
		}
		return nil, false, fmt.Errorf("failed to look up join code: %w", err)
	}

	alreadyMember, err = s.store.IsMember(ctx, group.ID, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check membership: %w", err)
	}
	if alreadyMember {
		return group, true, nil
	}

	if err := s.store.AddMember(ctx, group.ID, userID); err != nil {
		return nil, false, fmt.Errorf("failed to join group: %w", err)
	}

	s.logger.Info("user joined group", "group_id", group.ID, "user_id", userID)
	return group, false, nil
}

// Dashboard returns one summary row per group the user belongs to.
func (s *GroupService) Dashboard(ctx context.Context, userID string) ([]GroupSummary, error) {
	groups, err := s.store.ListGroupsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	summaries := make([]GroupSummary, 0, len(groups))
	for _, group := range groups {
		members, err := s.store.ListMembers(ctx, group.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list members: %w", err)
		}

		gifts, err := s.store.ListGiftsByGroup(ctx, group.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list gifts: %w", err)
		}

		claimedFor := make(map[string]int)
		for _, g := range gifts {
			if g.IsClaimed && g.ClaimerID == userID {
				claimedFor[g.OwnerID]++
			}
		}

		needsGift := 0
		for _, m := range members {
			if m.ID != userID && claimedFor[m.ID] == 0 {
				needsGift++
			}
		}

		summaries = append(summaries, GroupSummary{
			Group:          group,
			MemberCount:    len(members),
			NeedsGiftCount: needsGift,
		})
	}

	return summaries, nil
}

// Detail returns the group page for a member: every other member with their
// wish list and how many of their items the viewer has claimed. The viewer's
// own list is served separately so the page never shows them their items'
// claim state alongside everyone else's.
func (s *GroupService) Detail(ctx context.Context, userID, groupID string) (*GroupDetail, error) {
	group, err := s.guard.RequireMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}

	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	detail := &GroupDetail{Group: *group, Members: make([]MemberGifts, 0, len(members))}
	for _, m := range members {
		if m.ID == userID {
			continue
		}

		gifts, err := s.store.ListGiftsByOwner(ctx, groupID, m.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list gifts: %w", err)
		}

		claimedByMe := 0
		for _, g := range gifts {
			if g.IsClaimed && g.ClaimerID == userID {
				claimedByMe++
			}
		}

		detail.Members = append(detail.Members, MemberGifts{
			User:        m,
			Gifts:       gifts,
			ClaimedByMe: claimedByMe,
		})
	}

	return detail, nil
}

// newJoinCode draws a random 6-character code from the uppercase URL-safe
// alphabet using crypto/rand.
func newJoinCode() string {
	b := make([]byte, models.JoinCodeLength)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("service: reading random join code: %v", err))
	}
	for i := range b {
		b[i] = joinCodeAlphabet[int(b[i])%len(joinCodeAlphabet)]
	}
	return string(b)
}
