package ports

import (
	"context"

	"github.com/tcapp/account-admin/internal/core/domain"
)

// PasswordCodec hashes and verifies credentials. Implementations are pure
// functions over their inputs and a startup-time mode flag.
type PasswordCodec interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, encoded string) bool
}

// LoginThrottle rate-limits login attempts per username.
type LoginThrottle interface {
	Allow(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// LoginResult is the successful outcome of credential validation.
type LoginResult struct {
	Account *domain.Account
	Tokens  TokenPair
}

// AuthService implements the credential lifecycle: login, token refresh and
// password rotation.
type AuthService interface {
	// Login validates credentials and issues a token pair. Unknown username,
	// inactive account and wrong password all surface as the same
	// domain.ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	// Refresh verifies a refresh token, re-resolves the account and mints a
	// new access token bound to the account's current role.
	Refresh(ctx context.Context, refreshToken string) (string, error)
	ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error
}
