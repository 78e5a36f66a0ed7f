package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tcapp/account-admin/internal/core/domain"
	"github.com/tcapp/account-admin/internal/core/ports"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
	searchLimit      = 20
)

// listSortFields whitelists the sortable columns for account listings.
var listSortFields = map[string]struct{}{
	"created_at":    {},
	"updated_at":    {},
	"username":      {},
	"display_name":  {},
	"dept_name":     {},
	"last_login_at": {},
}

// AccountService implements role-authorized CRUD over accounts. Acting roles
// are always passed in explicitly; the service holds no request state.
type AccountService struct {
	repo   ports.AccountRepository
	codec  ports.PasswordCodec
	logger zerolog.Logger
}

func NewAccountService(repo ports.AccountRepository, codec ports.PasswordCodec, logger zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, codec: codec, logger: logger}
}

// Create inserts a new account after checking the creator's permission to
// assign the target role. The credential is always stored bcrypt-hashed, even
// when the legacy plaintext verification mode is active elsewhere.
func (s *AccountService) Create(ctx context.Context, creatorRole domain.Role, input ports.CreateAccountInput) (*domain.Account, error) {
	if input.Username == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	role := input.Role
	if role == "" {
		role = domain.DefaultRole
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	if !domain.CanCreateUserWithRole(creatorRole, role) {
		s.logger.Info().Str("creator_role", string(creatorRole)).Str("target_role", string(role)).Msg("account creation denied")
		return nil, domain.ErrForbidden
	}

	exists, err := s.repo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := s.codec.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:             newAccountID(),
		Username:       input.Username,
		CredentialHash: hash,
		Role:           role,
		DisplayName:    input.DisplayName,
		DeptCode:       input.DeptCode,
		DeptName:       input.DeptName,
		IsActive:       active,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, account); err != nil {
		// A concurrent insert can still win the username; the unique index
		// turns that race into the same conflict error.
		return nil, err
	}

	s.logger.Info().Str("account_id", account.ID).Str("username", account.Username).Str("role", string(role)).Msg("account created")
	return account, nil
}

func (s *AccountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns one page of accounts matching filter. Only roles allowed on
// the user-management surface may list.
func (s *AccountService) List(ctx context.Context, viewerRole domain.Role, filter ports.ListAccountsFilter) (*ports.AccountPage, error) {
	if !domain.CanAccessUserManagement(viewerRole) {
		return nil, domain.ErrForbidden
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
	if _, ok := listSortFields[filter.SortBy]; !ok {
		filter.SortBy = "created_at"
		filter.SortDesc = true
	}

	accounts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.AccountPage{
		Accounts:   accounts,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// Search finds up to 20 accounts with a partial match on username, display
// name or department name.
func (s *AccountService) Search(ctx context.Context, query string) ([]*domain.Account, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*domain.Account{}, nil
	}
	return s.repo.Search(ctx, query, searchLimit)
}

// Update applies a partial update. A role change inside the patch is
// admin-only; all other fields follow the editor's general edit permission as
// enforced at the transport layer.
func (s *AccountService) Update(ctx context.Context, editorRole domain.Role, id string, patch ports.UpdateAccountFields) (*domain.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Role != nil {
		if !patch.Role.Valid() {
			return nil, domain.ErrInvalidRole
		}
		if *patch.Role != account.Role && !domain.CanChangeRole(editorRole) {
			s.logger.Info().Str("editor_role", string(editorRole)).Str("account_id", id).Msg("role change denied")
			return nil, domain.ErrForbidden
		}
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	return s.repo.FindByID(ctx, id)
}

// UpdateProfile lets an account change its own display name.
func (s *AccountService) UpdateProfile(ctx context.Context, accountID, displayName string) (*domain.Account, error) {
	if _, err := s.repo.FindByID(ctx, accountID); err != nil {
		return nil, err
	}
	patch := ports.UpdateAccountFields{DisplayName: &displayName}
	if err := s.repo.Update(ctx, accountID, patch); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.repo.FindByID(ctx, accountID)
}

// ToggleStatus flips an account's active flag. Deactivation blocks the next
// login and refresh; tokens already issued stay valid until expiry.
func (s *AccountService) ToggleStatus(ctx context.Context, actorRole domain.Role, id string) (*domain.Account, error) {
	if !domain.PermissionsFor(actorRole).CanToggleUserStatus {
		return nil, domain.ErrForbidden
	}

	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next := !account.IsActive
	if err := s.repo.Update(ctx, id, ports.UpdateAccountFields{IsActive: &next}); err != nil {
		return nil, fmt.Errorf("toggle status: %w", err)
	}

	s.logger.Info().Str("account_id", id).Bool("is_active", next).Msg("account status toggled")
	return s.repo.FindByID(ctx, id)
}

// Delete removes an account. Self-deletion is rejected before any role check,
// so even an admin cannot delete their own account.
func (s *AccountService) Delete(ctx context.Context, deleterRole domain.Role, deleterID, targetID string) error {
	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return err
	}

	if deleterID == targetID {
		return domain.ErrSelfDeletion
	}

	if !domain.CanDeleteUserWithRole(deleterRole, target.Role) {
		s.logger.Info().Str("deleter_role", string(deleterRole)).Str("target_role", string(target.Role)).Msg("account deletion denied")
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, targetID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	s.logger.Info().Str("account_id", targetID).Str("username", target.Username).Msg("account deleted")
	return nil
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newAccountID returns an identifier in the form user_<unix-millis>_<random>.
func newAccountID() string {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("user_%d", time.Now().UnixNano())
	}
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return fmt.Sprintf("user_%d_%s", time.Now().UnixMilli(), buf)
}
