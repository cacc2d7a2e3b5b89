package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giftster/internal/service"
)

func TestStartExchange(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.register(t, "Alice", "alice@example.com")
	bob := e.register(t, "Bob", "bob@example.com")
	carol := e.register(t, "Carol", "carol@example.com")
	family := e.createGroup(t, alice.ID, "Family")
	e.join(t, bob.ID, family.JoinCode)
	e.join(t, carol.ID, family.JoinCode)

	require.NoError(t, e.exchanges.Start(ctx, alice.ID, family.ID))

	group, err := e.store.GetGroup(ctx, family.ID)
	require.NoError(t, err)
	assert.True(t, group.HasGiftExchange)

	// Every member gives to somebody else, and every member receives
	// exactly once.
	receivers := make(map[string]bool)
	for _, giver := range []string{alice.ID, bob.ID, carol.ID} {
		receiver, err := e.exchanges.Assignment(ctx, giver, family.ID)
		require.NoError(t, err)
		assert.NotEqual(t, giver, receiver.ID, "member assigned to themselves")
		assert.False(t, receivers[receiver.ID], "member receives twice")
		receivers[receiver.ID] = true
	}
	assert.Len(t, receivers, 3)
}

func TestStartExchange_TwoMembers(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.register(t, "Alice", "alice@example.com")
	bob := e.register(t, "Bob", "bob@example.com")
	family := e.createGroup(t, alice.ID, "Family")
	e.join(t, bob.ID, family.JoinCode)

	require.NoError(t, e.exchanges.Start(ctx, alice.ID, family.ID))

	// With two members the only derangement is the swap.
	forAlice, err := e.exchanges.Assignment(ctx, alice.ID, family.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, forAlice.ID)

	forBob, err := e.exchanges.Assignment(ctx, bob.ID, family.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, forBob.ID)
}

func TestStartExchange_Rejections(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.register(t, "Alice", "alice@example.com")
	bob := e.register(t, "Bob", "bob@example.com")
	outsider := e.register(t, "Eve", "eve@example.com")
	family := e.createGroup(t, alice.ID, "Family")

	// Alone in the group there is nobody to give to.
	assert.ErrorIs(t, e.exchanges.Start(ctx, alice.ID, family.ID), service.ErrInsufficientMembers)

	e.join(t, bob.ID, family.JoinCode)

	// Members who are not the creator may not start it; outsiders fail the
	// membership guard before the creator check.
	assert.ErrorIs(t, e.exchanges.Start(ctx, bob.ID, family.ID), service.ErrNotCreator)
	assert.ErrorIs(t, e.exchanges.Start(ctx, outsider.ID, family.ID), service.ErrNotAMember)

	require.NoError(t, e.exchanges.Start(ctx, alice.ID, family.ID))

	// The exchange starts at most once.
	assert.ErrorIs(t, e.exchanges.Start(ctx, alice.ID, family.ID), service.ErrExchangeStarted)
}

func TestAssignment_NotStarted(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.register(t, "Alice", "alice@example.com")
	outsider := e.register(t, "Eve", "eve@example.com")
	family := e.createGroup(t, alice.ID, "Family")

	_, err := e.exchanges.Assignment(ctx, alice.ID, family.ID)
	assert.ErrorIs(t, err, service.ErrExchangeNotStarted)

	_, err = e.exchanges.Assignment(ctx, outsider.ID, family.ID)
	assert.ErrorIs(t, err, service.ErrNotAMember)
}
