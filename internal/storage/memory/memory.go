// Package memory provides the document-oriented implementation of
// storage.Store. Entities live as whole records in maps guarded by a single
// mutex, which gives every conditional update (claim, exchange start,
// duplicate join) compare-and-set semantics for free.
//
// It doubles as the fast backend for tests, so it must honor exactly the
// same contract as the SQLite store; the shared storetest suite runs against
// both.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"giftster/internal/models"
	"giftster/internal/storage"
)

// Ensure MemoryStore implements storage.Store
var _ storage.Store = (*MemoryStore)(nil)

// MemoryStore implements storage.Store with in-process maps.
type MemoryStore struct {
	mu sync.RWMutex

	users        map[string]models.User // by ID
	usersByEmail map[string]string      // normalized email -> ID

	groups       map[string]models.Group // by ID
	groupsByCode map[string]string       // join code -> ID
	members      map[string]map[string]int64 // groupID -> userID -> joinedAt

	gifts map[string]models.GiftItem // by ID

	assignments map[string]map[string]models.ExchangeAssignment // groupID -> giverID -> assignment
}

// New creates an empty MemoryStore.
func New() *MemoryStore {
	return &MemoryStore{
		users:        make(map[string]models.User),
		usersByEmail: make(map[string]string),
		groups:       make(map[string]models.Group),
		groupsByCode: make(map[string]string),
		members:      make(map[string]map[string]int64),
		gifts:        make(map[string]models.GiftItem),
		assignments:  make(map[string]map[string]models.ExchangeAssignment),
	}
}

// Close is a no-op; the store holds no external resources.
func (s *MemoryStore) Close() error {
	return nil
}

// CreateUser persists a new user.
func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[user.Email]; exists {
		return storage.ErrDuplicateEmail
	}

	s.users[user.ID] = *user
	s.usersByEmail[user.Email] = user.ID
	return nil
}

// GetUserByID retrieves a user by ID.
func (s *MemoryStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

// GetUserByEmail retrieves a user by normalized email.
func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByEmail[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	u := s.users[id]
	return &u, nil
}

// UpdatePassword replaces the stored password hash for the user.
func (s *MemoryStore) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return storage.ErrNotFound
	}
	u.PasswordHash = passwordHash
	s.users[userID] = u
	return nil
}

// CreateGroup persists a new group and the creator's membership atomically
// (a single critical section here plays the role of the SQL transaction).
func (s *MemoryStore) CreateGroup(_ context.Context, group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.groupsByCode[group.JoinCode]; exists {
		return storage.ErrDuplicateJoinCode
	}

	s.groups[group.ID] = *group
	s.groupsByCode[group.JoinCode] = group.ID
	s.members[group.ID] = map[string]int64{group.CreatedBy: group.CreatedAt}
	return nil
}

// GetGroup retrieves a group by ID.
func (s *MemoryStore) GetGroup(_ context.Context, id string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &g, nil
}

// GetGroupByJoinCode retrieves a group by its exact join code.
func (s *MemoryStore) GetGroupByJoinCode(_ context.Context, code string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.groupsByCode[code]
	if !ok {
		return nil, storage.ErrNotFound
	}
	g := s.groups[id]
	return &g, nil
}

// AddMember adds the user to the group. Adding an existing member keeps the
// original join time, so the operation is idempotent.
func (s *MemoryStore) AddMember(_ context.Context, groupID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[groupID]
	if !ok {
		return storage.ErrNotFound
	}
	if _, exists := m[userID]; !exists {
		m[userID] = time.Now().Unix()
	}
	return nil
}

// IsMember reports whether the user belongs to the group.
func (s *MemoryStore) IsMember(_ context.Context, groupID, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.members[groupID][userID]
	return ok, nil
}

// ListMembers returns the group's members ordered by join time, then ID.
func (s *MemoryStore) ListMembers(_ context.Context, groupID string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.members[groupID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	type entry struct {
		id       string
		joinedAt int64
	}
	entries := make([]entry, 0, len(m))
	for id, joinedAt := range m {
		entries = append(entries, entry{id: id, joinedAt: joinedAt})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].joinedAt != entries[j].joinedAt {
			return entries[i].joinedAt < entries[j].joinedAt
		}
		return entries[i].id < entries[j].id
	})

	members := make([]models.User, 0, len(entries))
	for _, e := range entries {
		members = append(members, s.users[e.id])
	}
	return members, nil
}

// ListGroupsByUser returns all groups the user belongs to, oldest join first.
func (s *MemoryStore) ListGroupsByUser(_ context.Context, userID string) ([]models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type entry struct {
		group    models.Group
		joinedAt int64
	}
	var entries []entry
	for groupID, m := range s.members {
		if joinedAt, ok := m[userID]; ok {
			entries = append(entries, entry{group: s.groups[groupID], joinedAt: joinedAt})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].joinedAt != entries[j].joinedAt {
			return entries[i].joinedAt < entries[j].joinedAt
		}
		return entries[i].group.ID < entries[j].group.ID
	})

	var groups []models.Group
	for _, e := range entries {
		groups = append(groups, e.group)
	}
	return groups, nil
}

// CreateGift persists a new wish-list item.
func (s *MemoryStore) CreateGift(_ context.Context, gift *models.GiftItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gifts[gift.ID] = *gift
	return nil
}

// GetGift retrieves an item by ID.
func (s *MemoryStore) GetGift(_ context.Context, id string) (*models.GiftItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.gifts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &g, nil
}

// ListGiftsByOwner returns one member's items within a group, oldest first.
func (s *MemoryStore) ListGiftsByOwner(_ context.Context, groupID, ownerID string) ([]models.GiftItem, error) {
	return s.listGifts(func(g models.GiftItem) bool {
		return g.GroupID == groupID && g.OwnerID == ownerID
	}), nil
}

// ListGiftsByGroup returns every item in the group, oldest first.
func (s *MemoryStore) ListGiftsByGroup(_ context.Context, groupID string) ([]models.GiftItem, error) {
	return s.listGifts(func(g models.GiftItem) bool {
		return g.GroupID == groupID
	}), nil
}

func (s *MemoryStore) listGifts(match func(models.GiftItem) bool) []models.GiftItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var gifts []models.GiftItem
	for _, g := range s.gifts {
		if match(g) {
			gifts = append(gifts, g)
		}
	}
	sort.Slice(gifts, func(i, j int) bool {
		if gifts[i].CreatedAt != gifts[j].CreatedAt {
			return gifts[i].CreatedAt < gifts[j].CreatedAt
		}
		return gifts[i].ID < gifts[j].ID
	})
	return gifts
}

// DeleteGift removes an item.
func (s *MemoryStore) DeleteGift(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.gifts[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.gifts, id)
	return nil
}

// ClaimGift marks the item claimed by claimerID. Check and set happen under
// the write lock, so of two concurrent claims exactly one succeeds.
func (s *MemoryStore) ClaimGift(_ context.Context, giftID, claimerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.gifts[giftID]
	if !ok {
		return storage.ErrNotFound
	}
	if g.IsClaimed {
		return storage.ErrAlreadyClaimed
	}

	g.IsClaimed = true
	g.ClaimerID = claimerID
	s.gifts[giftID] = g
	return nil
}

// UnclaimGift clears the claim, conditional on requesterID being the current
// claimer. Both claim fields reset together.
func (s *MemoryStore) UnclaimGift(_ context.Context, giftID, requesterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.gifts[giftID]
	if !ok {
		return storage.ErrNotFound
	}
	if !g.IsClaimed || g.ClaimerID != requesterID {
		return storage.ErrNotClaimer
	}

	g.IsClaimed = false
	g.ClaimerID = ""
	s.gifts[giftID] = g
	return nil
}

// StartExchange flips the group's HasGiftExchange flag and stores all
// assignments in one critical section. The flag is the single-writer gate:
// a second caller finds it set and its assignments are discarded.
func (s *MemoryStore) StartExchange(_ context.Context, groupID string, assignments []models.ExchangeAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[groupID]
	if !ok {
		return storage.ErrNotFound
	}
	if g.HasGiftExchange {
		return storage.ErrExchangeStarted
	}

	g.HasGiftExchange = true
	s.groups[groupID] = g

	byGiver := make(map[string]models.ExchangeAssignment, len(assignments))
	for _, a := range assignments {
		byGiver[a.GiverID] = a
	}
	s.assignments[groupID] = byGiver
	return nil
}

// GetAssignment returns the assignment where giverID gives within the group.
func (s *MemoryStore) GetAssignment(_ context.Context, groupID, giverID string) (*models.ExchangeAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.assignments[groupID][giverID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &a, nil
}
