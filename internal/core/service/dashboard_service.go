package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tcapp/account-admin/internal/core/ports"
)

const recentActivityLimit = 20

// DashboardService computes aggregate counts and a recent-activity feed over
// the account store.
type DashboardService struct {
	repo ports.AccountRepository
}

func NewDashboardService(repo ports.AccountRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// Stats returns account totals plus a month-over-month growth rate comparing
// the last 30 days against the 30 days before that.
func (s *DashboardService) Stats(ctx context.Context) (*ports.DashboardStats, error) {
	now := time.Now().UTC()
	thirtyDaysAgo := now.Add(-30 * 24 * time.Hour)
	sixtyDaysAgo := now.Add(-60 * 24 * time.Hour)

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count accounts: %w", err)
	}
	active, err := s.repo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("count active accounts: %w", err)
	}
	departments, err := s.repo.CountDistinctDepartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("count departments: %w", err)
	}
	newThisMonth, err := s.repo.CountCreatedBetween(ctx, thirtyDaysAgo, now)
	if err != nil {
		return nil, fmt.Errorf("count new accounts: %w", err)
	}
	previousMonth, err := s.repo.CountCreatedBetween(ctx, sixtyDaysAgo, thirtyDaysAgo)
	if err != nil {
		return nil, fmt.Errorf("count previous month: %w", err)
	}

	var growth float64
	switch {
	case previousMonth > 0:
		growth = float64(newThisMonth-previousMonth) / float64(previousMonth) * 100
	case newThisMonth > 0:
		growth = 100
	}

	return &ports.DashboardStats{
		TotalAccounts:        total,
		ActiveAccounts:       active,
		TotalDepartments:     departments,
		NewAccountsThisMonth: newThisMonth,
		GrowthRate:           math.Round(growth*10) / 10,
	}, nil
}

// RecentActivity lists creation and update events derived from the newest
// accounts, most recent first.
func (s *DashboardService) RecentActivity(ctx context.Context) ([]ports.ActivityEntry, error) {
	accounts, err := s.repo.ListRecent(ctx, recentActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent accounts: %w", err)
	}

	entries := make([]ports.ActivityEntry, 0, len(accounts)*2)
	for _, a := range accounts {
		deptName := a.DeptName
		if deptName == "" {
			deptName = "Unknown"
		}
		entries = append(entries, ports.ActivityEntry{
			ID:          a.ID + "_created",
			Username:    a.Username,
			DisplayName: a.DisplayName,
			DeptName:    deptName,
			Action:      "created",
			Timestamp:   a.CreatedAt,
		})
		if a.UpdatedAt.After(a.CreatedAt) {
			entries = append(entries, ports.ActivityEntry{
				ID:          a.ID + "_updated",
				Username:    a.Username,
				DisplayName: a.DisplayName,
				DeptName:    deptName,
				Action:      "updated",
				Timestamp:   a.UpdatedAt,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	if len(entries) > recentActivityLimit {
		entries = entries[:recentActivityLimit]
	}
	return entries, nil
}
