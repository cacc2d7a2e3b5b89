// Package storetest provides a conformance suite that every storage.Store
// implementation must pass. Backend test packages call Run with a factory
// for a fresh, empty store.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giftster/internal/models"
	"giftster/internal/storage"
)

// Factory returns a fresh, empty store. The returned store is closed by the
// suite when the subtest finishes.
type Factory func(t *testing.T) storage.Store

// Run executes the full conformance suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, store storage.Store)
	}{
		{"CreateUser", testCreateUser},
		{"DuplicateEmail", testDuplicateEmail},
		{"GetUserNotFound", testGetUserNotFound},
		{"UpdatePassword", testUpdatePassword},
		{"CreateGroupAddsCreator", testCreateGroupAddsCreator},
		{"DuplicateJoinCode", testDuplicateJoinCode},
		{"GetGroupByJoinCode", testGetGroupByJoinCode},
		{"AddMemberIdempotent", testAddMemberIdempotent},
		{"ListGroupsByUser", testListGroupsByUser},
		{"GiftLifecycle", testGiftLifecycle},
		{"ClaimUnclaim", testClaimUnclaim},
		{"ConcurrentClaims", testConcurrentClaims},
		{"StartExchange", testStartExchange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t)
			defer store.Close()
			tt.fn(t, store)
		})
	}
}

func newUser(t *testing.T, store storage.Store, email string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.NewString(),
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: "$2a$10$fakehashfakehashfakehashfakehash",
		CreatedAt:    time.Now().Unix(),
	}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func newGroup(t *testing.T, store storage.Store, creatorID, joinCode string) *models.Group {
	t.Helper()
	group := &models.Group{
		ID:        uuid.NewString(),
		Name:      "Family",
		JoinCode:  joinCode,
		CreatedBy: creatorID,
		CreatedAt: time.Now().Unix(),
	}
	require.NoError(t, store.CreateGroup(context.Background(), group))
	return group
}

func newGift(t *testing.T, store storage.Store, groupID, ownerID, name string) *models.GiftItem {
	t.Helper()
	gift := &models.GiftItem{
		ID:        uuid.NewString(),
		GroupID:   groupID,
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: time.Now().Unix(),
	}
	require.NoError(t, store.CreateGift(context.Background(), gift))
	return gift
}

func testCreateUser(t *testing.T, store storage.Store) {
	ctx := context.Background()
	user := newUser(t, store, "alice@example.com")

	byID, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)
	assert.Equal(t, user.PasswordHash, byID.PasswordHash)

	byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func testDuplicateEmail(t *testing.T, store storage.Store) {
	ctx := context.Background()
	newUser(t, store, "alice@example.com")

	dup := &models.User{
		ID:           uuid.NewString(),
		FirstName:    "Other",
		LastName:     "Alice",
		Email:        "alice@example.com",
		PasswordHash: "x",
		CreatedAt:    time.Now().Unix(),
	}
	err := store.CreateUser(ctx, dup)
	assert.ErrorIs(t, err, storage.ErrDuplicateEmail)
}

func testGetUserNotFound(t *testing.T, store storage.Store) {
	ctx := context.Background()

	_, err := store.GetUserByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testUpdatePassword(t *testing.T, store storage.Store) {
	ctx := context.Background()
	user := newUser(t, store, "alice@example.com")

	require.NoError(t, store.UpdatePassword(ctx, user.ID, "newhash"))

	got, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "newhash", got.PasswordHash)

	err = store.UpdatePassword(ctx, uuid.NewString(), "newhash")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testCreateGroupAddsCreator(t *testing.T, store storage.Store) {
	ctx := context.Background()
	alice := newUser(t, store, "alice@example.com")
	group := newGroup(t, store, alice.ID, "ABC123")

	isMember, err := store.IsMember(ctx, group.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, isMember, "creator should be a member of the new group")

	members, err := store.ListMembers(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, alice.ID, members[0].ID)
}

func testDuplicateJoinCode(t *testing.T, store storage.Store) {
	ctx := context.Background()
	alice := newUser(t, store, "alice@example.com")
	newGroup(t, store, alice.ID, "ABC123")

	dup := &models.Group{
		ID:        uuid.NewString(),
		Name:      "Office",
		JoinCode:  "ABC123",
		CreatedBy: alice.ID,
		CreatedAt: time.Now().Unix(),
	}
	err := store.CreateGroup(ctx, dup)
	assert.ErrorIs(t, err, storage.ErrDuplicateJoinCode)

	// The failed insert must not leave a membership behind.
	groups, err := store.ListGroupsByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, groups, 1)
}

func testGetGroupByJoinCode(t *testing.T, store storage.Store) {
	ctx := context.Background()
	alice := newUser(t, store, "alice@example.com")
	group := newGroup(t, store, alice.ID, "ABC123")

	got, err := store.GetGroupByJoinCode(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, group.ID, got.ID)

	_, err = store.GetGroupByJoinCode(ctx, "ZZZZZZ")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testAddMemberIdempotent(t *testing.T, store storage.Store) {
	ctx := context.Background()
	alice := newUser(t, store, "alice@example.com")
	bob := newUser(t, store, "bob@example.com")
	group := newGroup(t, store, alice.ID, "ABC123")

	require.NoError(t, store.AddMember(ctx, group.ID, bob.ID))
	require.NoError(t, store.AddMember(ctx, group.ID, bob.ID))

	members, err := store.ListMembers(ctx, group.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2, "joining twice must leave a single membership")
}

func testListGroupsByUser(t *testing.T, store storage.Store) {
	ctx := context.Background()
	alice := newUser(t, store, "alice@example.com")
	bob := newUser(t, store, "bob@example.com")
	family := newGroup(t, store, alice.ID, "ABC123")
	office := newGroup(t, store, bob.ID, "XYZ789")
	require.NoError(t, store.AddMember(ctx, office.ID, alice.ID))

	groups, err := store.ListGroupsByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	ids := []string{groups[0].ID, groups[1].ID}
	assert.Contains(t, ids, family.ID)
	assert.Contains(t, ids, office.ID)

	groups, err = store.ListGroupsByUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, groups, 1)
}

func testGiftLifecycle(t *testing.T, store storage.Store) {
	ctx := context.Background()
	alice := newUser(t, store, "alice@example.com")
	group := newGroup(t, store, alice.ID, "ABC123")

	bike := newGift(t, store, group.ID, alice.ID, "Bike")
	newGift(t, store, group.ID, alice.ID, "Book")

	got, err := store.GetGift(ctx, bike.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bike", got.Name)
	assert.False(t, got.IsClaimed)
	assert.Empty(t, got.ClaimerID)

	byOwner, err := store.ListGiftsByOwner(ctx, group.ID, alice.ID)
	require.NoError(t, err)
	assert.Len(t, byOwner, 2)

	byGroup, err := store.ListGiftsByGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Len(t, byGroup, 2)

	require.NoError(t, store.DeleteGift(ctx, bike.ID))
	_, err = store.GetGift(ctx, bike.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = store.DeleteGift(ctx, bike.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testClaimUnclaim(t *testing.T, store storage.Store) {
	ctx := context.Background()
	alice := newUser(t, store, "alice@example.com")
	bob := newUser(t, store, "bob@example.com")
	carol := newUser(t, store, "carol@example.com")
	group := newGroup(t, store, alice.ID, "ABC123")
	require.NoError(t, store.AddMember(ctx, group.ID, bob.ID))
	require.NoError(t, store.AddMember(ctx, group.ID, carol.ID))

	bike := newGift(t, store, group.ID, alice.ID, "Bike")

	require.NoError(t, store.ClaimGift(ctx, bike.ID, bob.ID))

	got, err := store.GetGift(ctx, bike.ID)
	require.NoError(t, err)
	assert.True(t, got.IsClaimed)
	assert.Equal(t, bob.ID, got.ClaimerID)

	// A second claim loses, even by the same claimer.
	err = store.ClaimGift(ctx, bike.ID, carol.ID)
	assert.ErrorIs(t, err, storage.ErrAlreadyClaimed)
	err = store.ClaimGift(ctx, bike.ID, bob.ID)
	assert.ErrorIs(t, err, storage.ErrAlreadyClaimed)

	// Only the current claimer may release.
	err = store.UnclaimGift(ctx, bike.ID, carol.ID)
	assert.ErrorIs(t, err, storage.ErrNotClaimer)

	require.NoError(t, store.UnclaimGift(ctx, bike.ID, bob.ID))
	got, err = store.GetGift(ctx, bike.ID)
	require.NoError(t, err)
	assert.False(t, got.IsClaimed)
	assert.Empty(t, got.ClaimerID)

	// Unclaiming an unclaimed item fails for everyone.
	err = store.UnclaimGift(ctx, bike.ID, bob.ID)
	assert.ErrorIs(t, err, storage.ErrNotClaimer)

	err = store.ClaimGift(ctx, uuid.NewString(), bob.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	err = store.UnclaimGift(ctx, uuid.NewString(), bob.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testConcurrentClaims(t *testing.T, store storage.Store) {
	ctx := context.Background()
	alice := newUser(t, store, "alice@example.com")
	group := newGroup(t, store, alice.ID, "ABC123")

	const claimers = 8
	members := make([]*models.User, claimers)
	for i := range members {
		members[i] = newUser(t, store, uuid.NewString()+"@example.com")
		require.NoError(t, store.AddMember(ctx, group.ID, members[i].ID))
	}

	bike := newGift(t, store, group.ID, alice.ID, "Bike")

	var wg sync.WaitGroup
	results := make([]error, claimers)
	for i := range members {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = store.ClaimGift(ctx, bike.ID, members[i].ID)
		}(i)
	}
	wg.Wait()

	var wins int
	for _, err := range results {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, storage.ErrAlreadyClaimed)
		}
	}
	assert.Equal(t, 1, wins, "exactly one concurrent claim must succeed")

	got, err := store.GetGift(ctx, bike.ID)
	require.NoError(t, err)
	assert.True(t, got.IsClaimed)
}

func testStartExchange(t *testing.T, store storage.Store) {
	ctx := context.Background()
	alice := newUser(t, store, "alice@example.com")
	bob := newUser(t, store, "bob@example.com")
	group := newGroup(t, store, alice.ID, "ABC123")
	require.NoError(t, store.AddMember(ctx, group.ID, bob.ID))

	_, err := store.GetAssignment(ctx, group.ID, alice.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	now := time.Now().Unix()
	assignments := []models.ExchangeAssignment{
		{ID: uuid.NewString(), GroupID: group.ID, GiverID: alice.ID, ReceiverID: bob.ID, CreatedAt: now},
		{ID: uuid.NewString(), GroupID: group.ID, GiverID: bob.ID, ReceiverID: alice.ID, CreatedAt: now},
	}
	require.NoError(t, store.StartExchange(ctx, group.ID, assignments))

	got, err := store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.True(t, got.HasGiftExchange)

	forAlice, err := store.GetAssignment(ctx, group.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, forAlice.ReceiverID)

	forBob, err := store.GetAssignment(ctx, group.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, forBob.ReceiverID)

	// The flag is the single-writer gate: a second start writes nothing.
	err = store.StartExchange(ctx, group.ID, assignments)
	assert.ErrorIs(t, err, storage.ErrExchangeStarted)

	err = store.StartExchange(ctx, uuid.NewString(), assignments)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
