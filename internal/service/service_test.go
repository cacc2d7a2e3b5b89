package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"giftster/internal/auth"
	"giftster/internal/exchange"
	"giftster/internal/models"
	"giftster/internal/service"
	"giftster/internal/storage/memory"
)

// env bundles the services over a shared in-memory store for a single test.
type env struct {
	store     *memory.MemoryStore
	auth      *auth.PasswordAuthenticator
	groups    *service.GroupService
	gifts     *service.GiftService
	exchanges *service.ExchangeService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.New()
	guard := service.NewGuard(store)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &env{
		store:     store,
		auth:      auth.NewPasswordAuthenticator(store),
		groups:    service.NewGroupService(store, guard, logger),
		gifts:     service.NewGiftService(store, guard, logger),
		exchanges: service.NewExchangeService(store, guard, exchange.NewSeeded(1, 2), logger),
	}
}

func (e *env) register(t *testing.T, firstName, email string) *models.User {
	t.Helper()
	user, err := e.auth.Register(context.Background(), firstName, "Tester", email, "password123")
	require.NoError(t, err)
	return user
}

func (e *env) createGroup(t *testing.T, creatorID, name string) *models.Group {
	t.Helper()
	group, err := e.groups.CreateGroup(context.Background(), creatorID, name, "")
	require.NoError(t, err)
	return group
}

func (e *env) join(t *testing.T, userID, code string) *models.Group {
	t.Helper()
	group, already, err := e.groups.JoinGroup(context.Background(), userID, code)
	require.NoError(t, err)
	require.False(t, already)
	return group
}

func (e *env) addItem(t *testing.T, userID, groupID, name string) *models.GiftItem {
	t.Helper()
	gift, err := e.gifts.AddItem(context.Background(), userID, groupID, name, "", "")
	require.NoError(t, err)
	return gift
}
