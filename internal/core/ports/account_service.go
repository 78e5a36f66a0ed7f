package ports

import (
	"context"

	"github.com/tcapp/account-admin/internal/core/domain"
)

// CreateAccountInput is the DTO passed from the transport layer when creating
// an account. An empty Role resolves to domain.DefaultRole; a nil IsActive
// defaults to true.
type CreateAccountInput struct {
	Username    string
	Password    string
	DisplayName string
	DeptCode    string
	DeptName    string
	Role        domain.Role
	IsActive    *bool
}

// AccountPage is one page of a filtered account listing.
type AccountPage struct {
	Accounts   []*domain.Account
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// AccountService implements role-authorized CRUD over accounts. Every method
// takes the acting role explicitly; nothing is read from ambient state.
type AccountService interface {
	Create(ctx context.Context, creatorRole domain.Role, input CreateAccountInput) (*domain.Account, error)
	Get(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context, viewerRole domain.Role, filter ListAccountsFilter) (*AccountPage, error)
	Search(ctx context.Context, query string) ([]*domain.Account, error)
	Update(ctx context.Context, editorRole domain.Role, id string, patch UpdateAccountFields) (*domain.Account, error)
	UpdateProfile(ctx context.Context, accountID, displayName string) (*domain.Account, error)
	ToggleStatus(ctx context.Context, actorRole domain.Role, id string) (*domain.Account, error)
	Delete(ctx context.Context, deleterRole domain.Role, deleterID, targetID string) error
}
