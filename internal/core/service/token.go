package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tcapp/account-admin/internal/core/domain"
	"github.com/tcapp/account-admin/internal/core/ports"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour

	refreshTokenUse = "refresh"
)

// tokenClaims is the wire format of both access and refresh tokens. TokenUse
// is empty on access tokens and "refresh" on refresh tokens; the two are never
// interchangeable.
type tokenClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	TokenUse string `json:"token_use,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256-signed bearer tokens.
type TokenService struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService builds a TokenService. Zero TTLs fall back to defaults; a
// refresh TTL that does not exceed the access TTL is replaced by the default,
// since the refresh token must materially outlive the access token.
func NewTokenService(secret, issuer string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= accessTTL {
		refreshTTL = defaultRefreshTTL
	}
	return &TokenService{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Issue mints an access/refresh pair for the given account identity.
func (s *TokenService) Issue(accountID, username string, role domain.Role) (*ports.TokenPair, error) {
	access, err := s.sign(accountID, username, role, "", s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(accountID, username, role, refreshTokenUse, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// IssueAccess mints a fresh access token only. Used on refresh, where the
// role comes from the account's current state rather than the old claims.
func (s *TokenService) IssueAccess(accountID, username string, role domain.Role) (string, error) {
	return s.sign(accountID, username, role, "", s.accessTTL)
}

// VerifyAccess validates an access token and returns its claims. Refresh
// tokens are rejected even when their signature and expiry are valid.
func (s *TokenService) VerifyAccess(token string) (*ports.TokenClaims, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	if claims.TokenUse != "" {
		return nil, domain.ErrInvalidToken
	}
	return toPortClaims(claims), nil
}

// VerifyRefresh validates a refresh token and returns its claims. Tokens
// without the refresh use marker are rejected regardless of validity.
func (s *TokenService) VerifyRefresh(token string) (*ports.TokenClaims, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	if claims.TokenUse != refreshTokenUse {
		return nil, domain.ErrInvalidToken
	}
	return toPortClaims(claims), nil
}

func (s *TokenService) sign(accountID, username string, role domain.Role, use string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := tokenClaims{
		Username: username,
		Role:     string(role),
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *TokenService) parse(token string) (*tokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func toPortClaims(c *tokenClaims) *ports.TokenClaims {
	return &ports.TokenClaims{
		AccountID: c.Subject,
		Username:  c.Username,
		Role:      domain.Role(c.Role),
	}
}
