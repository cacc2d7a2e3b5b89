package auth_test

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giftster/internal/auth"
	"giftster/internal/models"
	"giftster/internal/storage/memory"
)

// captureMailer records sent mail instead of delivering it.
type captureMailer struct {
	to      string
	subject string
	body    string
	sends   int
}

func (m *captureMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	m.to = to
	m.subject = subject
	m.body = htmlBody
	m.sends++
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResetTokenRoundTrip(t *testing.T) {
	manager := auth.NewResetTokenManager("test-secret", time.Hour)

	token, err := manager.Generate("alice@example.com")
	require.NoError(t, err)

	email, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)
}

func TestResetTokenVerify_Invalid(t *testing.T) {
	manager := auth.NewResetTokenManager("test-secret", time.Hour)

	t.Run("garbage", func(t *testing.T) {
		_, err := manager.Verify("not-a-token")
		assert.ErrorIs(t, err, auth.ErrResetTokenInvalid)
	})

	t.Run("expired", func(t *testing.T) {
		expired := auth.NewResetTokenManager("test-secret", -time.Minute)
		token, err := expired.Generate("alice@example.com")
		require.NoError(t, err)
		_, err = manager.Verify(token)
		assert.ErrorIs(t, err, auth.ErrResetTokenInvalid)
	})

	t.Run("session token rejected", func(t *testing.T) {
		// A session JWT signed with the same secret lacks the reset
		// purpose claim and must not open the reset door.
		sessions := auth.NewJWTManager("test-secret", time.Hour)
		user := registerAlice(t)
		token, err := sessions.Generate(user)
		require.NoError(t, err)
		_, err = manager.Verify(token)
		assert.ErrorIs(t, err, auth.ErrResetTokenInvalid)
	})
}

func TestPasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	authenticator := auth.NewPasswordAuthenticator(store)
	tokens := auth.NewResetTokenManager("test-secret", time.Hour)
	mailer := &captureMailer{}
	flow := auth.NewPasswordResetFlow(store, tokens, mailer, "https://giftster.test", discardLogger())

	_, err := authenticator.Register(ctx, "Alice", "Smith", "alice@example.com", "oldpassword")
	require.NoError(t, err)

	require.NoError(t, flow.Request(ctx, "Alice@Example.com"))
	require.Equal(t, 1, mailer.sends)
	assert.Equal(t, "alice@example.com", mailer.to)
	assert.Contains(t, mailer.body, "https://giftster.test/reset-password?token=")

	token := tokenFromBody(t, mailer.body)
	require.NoError(t, flow.Confirm(ctx, token, "newpassword"))

	_, err = authenticator.Authenticate(ctx, "alice@example.com", "oldpassword")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, err = authenticator.Authenticate(ctx, "alice@example.com", "newpassword")
	assert.NoError(t, err)
}

func TestPasswordResetFlow_UnknownEmail(t *testing.T) {
	store := memory.New()
	tokens := auth.NewResetTokenManager("test-secret", time.Hour)
	mailer := &captureMailer{}
	flow := auth.NewPasswordResetFlow(store, tokens, mailer, "https://giftster.test", discardLogger())

	// Requests for unknown accounts succeed silently and send nothing.
	err := flow.Request(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Zero(t, mailer.sends)
}

func TestPasswordResetFlow_ConfirmRejects(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	authenticator := auth.NewPasswordAuthenticator(store)
	tokens := auth.NewResetTokenManager("test-secret", time.Hour)
	flow := auth.NewPasswordResetFlow(store, tokens, &captureMailer{}, "https://giftster.test", discardLogger())

	_, err := authenticator.Register(ctx, "Alice", "Smith", "alice@example.com", "oldpassword")
	require.NoError(t, err)

	t.Run("bad token", func(t *testing.T) {
		err := flow.Confirm(ctx, "not-a-token", "newpassword")
		assert.ErrorIs(t, err, auth.ErrResetTokenInvalid)
	})

	t.Run("weak password", func(t *testing.T) {
		token, err := tokens.Generate("alice@example.com")
		require.NoError(t, err)
		err = flow.Confirm(ctx, token, "short")
		assert.ErrorIs(t, err, auth.ErrWeakPassword)
	})

	t.Run("deleted account", func(t *testing.T) {
		token, err := tokens.Generate("gone@example.com")
		require.NoError(t, err)
		err = flow.Confirm(ctx, token, "newpassword")
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})
}

func registerAlice(t *testing.T) *models.User {
	t.Helper()
	user, err := auth.NewPasswordAuthenticator(memory.New()).
		Register(context.Background(), "Alice", "Smith", "alice@example.com", "password123")
	require.NoError(t, err)
	return user
}

func tokenFromBody(t *testing.T, body string) string {
	t.Helper()
	marker := "?token="
	i := strings.Index(body, marker)
	require.GreaterOrEqual(t, i, 0, "reset link missing from email body")
	raw := body[i+len(marker):]
	if j := strings.IndexAny(raw, `"'`); j >= 0 {
		raw = raw[:j]
	}
	token, err := url.QueryUnescape(raw)
	require.NoError(t, err)
	return token
}
