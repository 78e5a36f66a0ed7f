package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/tcapp/account-admin/internal/core/domain"
	"github.com/tcapp/account-admin/internal/core/ports"
)

// stubAccountRepo is an in-memory AccountRepository shared by the service
// tests. It clones on every boundary so tests cannot mutate stored state by
// accident.
type stubAccountRepo struct {
	accounts map[string]*domain.Account
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	if a.LastLoginAt != nil {
		at := *a.LastLoginAt
		clone.LastLoginAt = &at
	}
	return &clone
}

func (r *stubAccountRepo) Insert(_ context.Context, a *domain.Account) error {
	for _, existing := range r.accounts {
		if existing.Username == a.Username {
			return domain.ErrUsernameTaken
		}
	}
	r.accounts[a.ID] = cloneAccount(a)
	return nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.Username == username {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, a := range r.accounts {
		if a.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubAccountRepo) Update(_ context.Context, id string, fields ports.UpdateAccountFields) error {
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if fields.DisplayName != nil {
		a.DisplayName = *fields.DisplayName
	}
	if fields.DeptCode != nil {
		a.DeptCode = *fields.DeptCode
	}
	if fields.DeptName != nil {
		a.DeptName = *fields.DeptName
	}
	if fields.Role != nil {
		a.Role = *fields.Role
	}
	if fields.IsActive != nil {
		a.IsActive = *fields.IsActive
	}
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *stubAccountRepo) UpdatePassword(_ context.Context, id, credentialHash string) error {
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.CredentialHash = credentialHash
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *stubAccountRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.LastLoginAt = &at
	return nil
}

func (r *stubAccountRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.accounts, id)
	return nil
}

func (r *stubAccountRepo) List(_ context.Context, filter ports.ListAccountsFilter) ([]*domain.Account, int64, error) {
	matched := make([]*domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		if filter.Role != "" && a.Role != filter.Role {
			continue
		}
		if filter.IsActive != nil && a.IsActive != *filter.IsActive {
			continue
		}
		if filter.DeptCode != "" && a.DeptCode != filter.DeptCode {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(a.Username, filter.Search) &&
			!strings.Contains(a.DisplayName, filter.Search) &&
			!strings.Contains(a.DeptName, filter.Search) {
			continue
		}
		matched = append(matched, cloneAccount(a))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(matched) {
		return []*domain.Account{}, total, nil
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *stubAccountRepo) Search(_ context.Context, query string, limit int) ([]*domain.Account, error) {
	out := make([]*domain.Account, 0)
	for _, a := range r.accounts {
		if strings.Contains(a.Username, query) || strings.Contains(a.DisplayName, query) || strings.Contains(a.DeptName, query) {
			out = append(out, cloneAccount(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubAccountRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.accounts)), nil
}

func (r *stubAccountRepo) CountActive(_ context.Context) (int64, error) {
	var n int64
	for _, a := range r.accounts {
		if a.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *stubAccountRepo) CountDistinctDepartments(_ context.Context) (int64, error) {
	depts := make(map[string]struct{})
	for _, a := range r.accounts {
		if a.DeptName != "" {
			depts[a.DeptName] = struct{}{}
		}
	}
	return int64(len(depts)), nil
}

func (r *stubAccountRepo) CountCreatedBetween(_ context.Context, from, to time.Time) (int64, error) {
	var n int64
	for _, a := range r.accounts {
		if !a.CreatedAt.Before(from) && a.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (r *stubAccountRepo) ListRecent(_ context.Context, limit int) ([]*domain.Account, error) {
	out := make([]*domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, cloneAccount(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// stubThrottle counts failures in memory and blocks once maxFailures is hit.
type stubThrottle struct {
	failures    map[string]int
	maxFailures int
	resets      int
}

func newStubThrottle(max int) *stubThrottle {
	return &stubThrottle{failures: make(map[string]int), maxFailures: max}
}

func (t *stubThrottle) Allow(_ context.Context, username string) (bool, error) {
	return t.failures[username] < t.maxFailures, nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, username string) error {
	t.failures[username]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, username string) error {
	delete(t.failures, username)
	t.resets++
	return nil
}
