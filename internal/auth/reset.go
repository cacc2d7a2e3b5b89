package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"giftster/internal/mail"
	"giftster/internal/storage"
)

var (
	// ErrResetTokenInvalid covers expired, tampered, and malformed reset
	// tokens alike; callers get no finer detail.
	ErrResetTokenInvalid = errors.New("reset token is invalid or expired")

	// ErrUserNotFound is returned when confirming a reset for an account
	// that no longer exists.
	ErrUserNotFound = errors.New("user not found")
)

const resetPurpose = "password-reset"

type resetClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// ResetTokenManager issues and verifies the time-limited, tamper-evident
// tokens embedded in password reset links. The token carries only the
// account email; verifying it is the out-of-band proof that the requester
// controls the mailbox.
type ResetTokenManager struct {
	secretKey []byte
	maxAge    time.Duration
}

// NewResetTokenManager creates a manager with the given signing secret and
// token lifetime.
func NewResetTokenManager(secretKey string, maxAge time.Duration) *ResetTokenManager {
	return &ResetTokenManager{secretKey: []byte(secretKey), maxAge: maxAge}
}

// Generate signs a reset token for the given email.
func (m *ResetTokenManager) Generate(email string) (string, error) {
	claims := &resetClaims{
		Purpose: resetPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.maxAge)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign reset token: %w", err)
	}
	return token, nil
}

// Verify checks the token and returns the embedded email. The purpose claim
// keeps a session token from doubling as a reset token.
func (m *ResetTokenManager) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&resetClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
	)
	if err != nil {
		return "", ErrResetTokenInvalid
	}

	claims, ok := token.Claims.(*resetClaims)
	if !ok || !token.Valid || claims.Purpose != resetPurpose || claims.Subject == "" {
		return "", ErrResetTokenInvalid
	}
	return claims.Subject, nil
}

// PasswordResetFlow drives the forgot-password loop: request sends a signed
// reset link by email, confirm swaps in the new password hash once the
// token checks out.
type PasswordResetFlow struct {
	users   storage.UserStore
	tokens  *ResetTokenManager
	mailer  mail.Mailer
	baseURL string
	logger  *slog.Logger
}

// NewPasswordResetFlow wires the reset flow. baseURL is the public origin
// reset links point at, e.g. "https://giftster.app".
func NewPasswordResetFlow(users storage.UserStore, tokens *ResetTokenManager, mailer mail.Mailer, baseURL string, logger *slog.Logger) *PasswordResetFlow {
	return &PasswordResetFlow{
		users:   users,
		tokens:  tokens,
		mailer:  mailer,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Request sends a reset link if the email belongs to an account. It returns
// nil either way: neither the response nor its timing may reveal whether the
// account exists, and delivery failures are logged rather than surfaced.
func (f *PasswordResetFlow) Request(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	user, err := f.users.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			f.logger.Error("password reset lookup failed", "error", err)
		}
		return nil
	}

	token, err := f.tokens.Generate(user.Email)
	if err != nil {
		f.logger.Error("failed to generate reset token", "user_id", user.ID, "error", err)
		return nil
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", f.baseURL, url.QueryEscape(token))
	body := fmt.Sprintf(`<p>Click <a href="%s">here</a> to reset your password.</p>`, resetURL)

	if err := f.mailer.Send(ctx, user.Email, "Reset Your Giftster Password", body); err != nil {
		f.logger.Error("failed to send reset email", "user_id", user.ID, "error", err)
	}
	return nil
}

// Confirm verifies the token and replaces the account's password hash.
func (f *PasswordResetFlow) Confirm(ctx context.Context, token, newPassword string) error {
	email, err := f.tokens.Verify(token)
	if err != nil {
		return err
	}

	if len(newPassword) < 8 {
		return ErrWeakPassword
	}

	user, err := f.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := f.users.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update password: %w", err)
	}

	f.logger.Info("password reset completed", "user_id", user.ID)
	return nil
}
