package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tcapp/account-admin/internal/core/domain"
	"github.com/tcapp/account-admin/internal/core/ports"
)

// AuthService orchestrates the account store, password codec and token
// service into the login / refresh / change-password protocol.
type AuthService struct {
	repo     ports.AccountRepository
	codec    ports.PasswordCodec
	tokens   ports.TokenService
	throttle ports.LoginThrottle // optional; nil disables throttling
	logger   zerolog.Logger
}

func NewAuthService(repo ports.AccountRepository, codec ports.PasswordCodec, tokens ports.TokenService, throttle ports.LoginThrottle, logger zerolog.Logger) *AuthService {
	return &AuthService{
		repo:     repo,
		codec:    codec,
		tokens:   tokens,
		throttle: throttle,
		logger:   logger,
	}
}

// Login validates credentials and issues a token pair. Unknown username,
// inactive account and bad password all collapse into the same
// domain.ErrInvalidCredentials so responses cannot be used to enumerate
// accounts.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, username)
		if err != nil {
			// Throttle backend trouble must not lock everyone out.
			s.logger.Warn().Err(err).Msg("login throttle unavailable")
		} else if !allowed {
			s.logger.Info().Str("username", username).Msg("login throttled")
			return nil, domain.ErrTooManyAttempts
		}
	}

	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.recordFailure(ctx, username)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	if !account.IsActive {
		s.recordFailure(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}

	if !s.codec.Verify(password, account.CredentialHash) {
		s.recordFailure(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, username); err != nil {
			s.logger.Warn().Err(err).Msg("login throttle reset failed")
		}
	}

	now := time.Now().UTC()
	if err := s.repo.TouchLastLogin(ctx, account.ID, now); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}
	account.LastLoginAt = &now

	pair, err := s.tokens.Issue(account.ID, account.Username, account.Role)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	s.logger.Info().Str("account_id", account.ID).Str("username", account.Username).Msg("login succeeded")

	return &ports.LoginResult{Account: account, Tokens: *pair}, nil
}

// Refresh verifies a refresh token, re-resolves the account and mints a new
// access token bound to the account's current role. A deleted or deactivated
// account surfaces as domain.ErrInvalidToken, same as a bad token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", domain.ErrInvalidToken
	}

	account, err := s.repo.FindByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", domain.ErrInvalidToken
		}
		return "", fmt.Errorf("find account: %w", err)
	}
	if !account.IsActive {
		return "", domain.ErrInvalidToken
	}

	access, err := s.tokens.IssueAccess(account.ID, account.Username, account.Role)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}

	s.logger.Debug().Str("account_id", account.ID).Msg("access token refreshed")
	return access, nil
}

// ChangePassword rotates an account's credential. The reuse check goes
// through the codec, not string equality, so it also holds across differently
// salted hashes of the same plaintext.
func (s *AuthService) ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.ErrAccountNotFound
		}
		return fmt.Errorf("find account: %w", err)
	}

	if !s.codec.Verify(currentPassword, account.CredentialHash) {
		return domain.ErrPasswordMismatch
	}
	if s.codec.Verify(newPassword, account.CredentialHash) {
		return domain.ErrSamePassword
	}

	hash, err := s.codec.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, account.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.logger.Info().Str("account_id", account.ID).Msg("password changed")
	return nil
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, username); err != nil {
		s.logger.Warn().Err(err).Msg("login throttle record failed")
	}
}
