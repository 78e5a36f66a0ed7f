package ports

import "github.com/tcapp/account-admin/internal/core/domain"

// TokenPair is the access/refresh pair issued at login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenClaims is the verified identity carried by a token. Claims are a
// snapshot taken at issuance; a later role change does not alter a live token.
type TokenClaims struct {
	AccountID string
	Username  string
	Role      domain.Role
}

// TokenService issues and verifies stateless bearer tokens. There is no
// revocation list: logout is a client-side discard and deactivation only takes
// effect at the next login or refresh.
type TokenService interface {
	Issue(accountID, username string, role domain.Role) (*TokenPair, error)
	// IssueAccess mints a fresh access token only, used on refresh.
	IssueAccess(accountID, username string, role domain.Role) (string, error)
	// VerifyAccess rejects refresh tokens even when otherwise valid.
	VerifyAccess(token string) (*TokenClaims, error)
	// VerifyRefresh rejects any token whose use marker is not "refresh".
	VerifyRefresh(token string) (*TokenClaims, error)
}
