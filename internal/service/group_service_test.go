package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giftster/internal/models"
	"giftster/internal/service"
)

func TestCreateGroup(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "Alice", "alice@example.com")

	group := e.createGroup(t, alice.ID, "Family")

	assert.Equal(t, "Family", group.Name)
	assert.Equal(t, alice.ID, group.CreatedBy)
	assert.False(t, group.HasGiftExchange)

	assert.Len(t, group.JoinCode, models.JoinCodeLength)
	for _, c := range group.JoinCode {
		isUpper := c >= 'A' && c <= 'Z'
		isDigit := c >= '0' && c <= '9'
		assert.True(t, isUpper || isDigit, "join code character %q out of alphabet", c)
	}

	// The creator is a member immediately.
	members, err := e.store.ListMembers(context.Background(), group.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, alice.ID, members[0].ID)
}

func TestCreateGroup_UniqueCodes(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "Alice", "alice@example.com")

	seen := make(map[string]bool)
	for i := 0; i < 25; i++ {
		group := e.createGroup(t, alice.ID, "Group")
		assert.False(t, seen[group.JoinCode], "join code %s issued twice", group.JoinCode)
		seen[group.JoinCode] = true
	}
}

func TestCreateGroup_NameRequired(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "Alice", "alice@example.com")

	_, err := e.groups.CreateGroup(context.Background(), alice.ID, "   ", "")
	assert.ErrorIs(t, err, service.ErrNameRequired)
}

func TestJoinGroup(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.register(t, "Alice", "alice@example.com")
	bob := e.register(t, "Bob", "bob@example.com")
	group := e.createGroup(t, alice.ID, "Family")

	// Codes are matched case-insensitively with surrounding space ignored.
	joined, already, err := e.groups.JoinGroup(ctx, bob.ID, "  "+strings.ToLower(group.JoinCode)+" ")
	require.NoError(t, err)
	assert.False(t, already)
	assert.Equal(t, group.ID, joined.ID)

	// Joining again is reported, not an error, and adds nothing.
	_, already, err = e.groups.JoinGroup(ctx, bob.ID, group.JoinCode)
	require.NoError(t, err)
	assert.True(t, already)

	members, err := e.store.ListMembers(ctx, group.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestJoinGroup_InvalidCode(t *testing.T) {
	e := newEnv(t)
	bob := e.register(t, "Bob", "bob@example.com")

	_, _, err := e.groups.JoinGroup(context.Background(), bob.ID, "NOSUCH")
	assert.ErrorIs(t, err, service.ErrInvalidJoinCode)
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.register(t, "Alice", "alice@example.com")
	bob := e.register(t, "Bob", "bob@example.com")
	carol := e.register(t, "Carol", "carol@example.com")

	family := e.createGroup(t, alice.ID, "Family")
	e.join(t, bob.ID, family.JoinCode)
	e.join(t, carol.ID, family.JoinCode)

	bike := e.addItem(t, bob.ID, family.ID, "Bike")
	e.addItem(t, carol.ID, family.ID, "Book")

	// Before claiming anything, Alice still needs gifts for Bob and Carol.
	rows, err := e.groups.Dashboard(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].MemberCount)
	assert.Equal(t, 2, rows[0].NeedsGiftCount)

	// Claiming Bob's bike covers Bob; only Carol remains.
	require.NoError(t, e.gifts.Claim(ctx, alice.ID, bike.ID))
	rows, err = e.groups.Dashboard(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, rows[0].NeedsGiftCount)

	// Bob has claimed nothing, so both others still need a gift from him.
	rows, err = e.groups.Dashboard(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].NeedsGiftCount)

	// A user with no groups gets an empty dashboard.
	dave := e.register(t, "Dave", "dave@example.com")
	rows, err = e.groups.Dashboard(ctx, dave.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDetail(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.register(t, "Alice", "alice@example.com")
	bob := e.register(t, "Bob", "bob@example.com")
	family := e.createGroup(t, alice.ID, "Family")
	e.join(t, bob.ID, family.JoinCode)

	e.addItem(t, alice.ID, family.ID, "Socks")
	bike := e.addItem(t, bob.ID, family.ID, "Bike")
	e.addItem(t, bob.ID, family.ID, "Book")
	require.NoError(t, e.gifts.Claim(ctx, alice.ID, bike.ID))

	detail, err := e.groups.Detail(ctx, alice.ID, family.ID)
	require.NoError(t, err)
	assert.Equal(t, family.ID, detail.Group.ID)

	// Alice sees only Bob, never her own list.
	require.Len(t, detail.Members, 1)
	assert.Equal(t, bob.ID, detail.Members[0].User.ID)
	assert.Len(t, detail.Members[0].Gifts, 2)
	assert.Equal(t, 1, detail.Members[0].ClaimedByMe)
}

func TestDetail_NotAMember(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "Alice", "alice@example.com")
	outsider := e.register(t, "Eve", "eve@example.com")
	family := e.createGroup(t, alice.ID, "Family")

	_, err := e.groups.Detail(context.Background(), outsider.ID, family.ID)
	assert.ErrorIs(t, err, service.ErrNotAMember)

	_, err = e.groups.Detail(context.Background(), alice.ID, "no-such-group")
	assert.ErrorIs(t, err, service.ErrGroupNotFound)
}
