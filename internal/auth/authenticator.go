package auth

import (
	"context"

	"giftster/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password,
// passkeys, OAuth, etc.) without changing the handler layer.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	// Returns the created user or an error if registration fails.
	Register(ctx context.Context, firstName, lastName, email, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if
	// successful. The error is the same whether the email is unknown or the
	// credential is wrong, so callers never learn whether an account exists.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's
	// requirements. For passwords: check length, complexity, etc.
	ValidateCredential(credential string) error
}
