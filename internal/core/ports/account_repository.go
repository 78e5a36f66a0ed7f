package ports

import (
	"context"
	"time"

	"github.com/tcapp/account-admin/internal/core/domain"
)

// ListAccountsFilter carries all query parameters for listing accounts.
type ListAccountsFilter struct {
	Search   string      // optional: partial match on username, display_name or dept_name
	Role     domain.Role // optional: filter by role
	IsActive *bool       // optional: filter by active status
	DeptCode string      // optional: filter by department code
	Page     int         // 1-based
	Limit    int         // max rows per page (capped at 100 by service)
	SortBy   string      // whitelisted field name, defaults to created_at
	SortDesc bool
}

// UpdateAccountFields is a partial update; nil pointers mean "leave as is".
type UpdateAccountFields struct {
	DisplayName *string
	DeptCode    *string
	DeptName    *string
	Role        *domain.Role
	IsActive    *bool
}

// AccountRepository defines persistence operations for accounts. The account
// store is the only shared mutable resource in the system; every method is a
// single round-trip with row-level last-write-wins semantics.
type AccountRepository interface {
	Insert(ctx context.Context, a *domain.Account) error
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, id string, fields UpdateAccountFields) error
	UpdatePassword(ctx context.Context, id, credentialHash string) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error

	// List returns a page of accounts matching filter and the total count.
	List(ctx context.Context, filter ListAccountsFilter) ([]*domain.Account, int64, error)
	Search(ctx context.Context, query string, limit int) ([]*domain.Account, error)

	Count(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
	CountDistinctDepartments(ctx context.Context) (int64, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Account, error)
}
