package domain

import (
	"errors"
	"time"
)

var ErrAccountNotFound = errors.New("account not found")
var ErrUsernameTaken = errors.New("username already taken")
var ErrForbidden = errors.New("operation forbidden")
var ErrSelfDeletion = errors.New("cannot delete own account")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrPasswordMismatch = errors.New("current password is incorrect")
var ErrSamePassword = errors.New("new password must be different from current password")
var ErrInvalidToken = errors.New("invalid or expired token")
var ErrInvalidRole = errors.New("invalid role")
var ErrTooManyAttempts = errors.New("too many login attempts")

// Account is the identity record managed by this service. CredentialHash is
// never serialized; callers outside the core only ever see the other fields.
type Account struct {
	ID             string     `json:"id"`
	Username       string     `json:"username"`
	CredentialHash string     `json:"-"`
	Role           Role       `json:"role"`
	DisplayName    string     `json:"display_name"`
	DeptCode       string     `json:"dept_code,omitempty"`
	DeptName       string     `json:"dept_name,omitempty"`
	IsActive       bool       `json:"is_active"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
