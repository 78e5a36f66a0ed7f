package service

import (
	"context"
	"testing"
	"time"

	"github.com/tcapp/account-admin/internal/core/domain"
)

func seedAccountAt(t *testing.T, repo *stubAccountRepo, id, username, dept string, createdAt, updatedAt time.Time, active bool) {
	t.Helper()
	err := repo.Insert(context.Background(), &domain.Account{
		ID:          id,
		Username:    username,
		Role:        domain.RoleUser,
		DisplayName: username,
		DeptName:    dept,
		IsActive:    active,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
}

func TestDashboardService_Stats(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewDashboardService(repo)
	now := time.Now().UTC()

	// Two created this month, one the month before, one long ago and inactive.
	seedAccountAt(t, repo, "u1", "new1", "Sales", now.Add(-24*time.Hour), now.Add(-24*time.Hour), true)
	seedAccountAt(t, repo, "u2", "new2", "Sales", now.Add(-48*time.Hour), now.Add(-48*time.Hour), true)
	seedAccountAt(t, repo, "u3", "prev", "IT", now.Add(-45*24*time.Hour), now.Add(-45*24*time.Hour), true)
	seedAccountAt(t, repo, "u4", "old", "", now.Add(-90*24*time.Hour), now.Add(-90*24*time.Hour), false)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalAccounts != 4 {
		t.Fatalf("total = %d, want 4", stats.TotalAccounts)
	}
	if stats.ActiveAccounts != 3 {
		t.Fatalf("active = %d, want 3", stats.ActiveAccounts)
	}
	if stats.TotalDepartments != 2 {
		t.Fatalf("departments = %d, want 2", stats.TotalDepartments)
	}
	if stats.NewAccountsThisMonth != 2 {
		t.Fatalf("new this month = %d, want 2", stats.NewAccountsThisMonth)
	}
	// (2 - 1) / 1 * 100 = 100.0
	if stats.GrowthRate != 100.0 {
		t.Fatalf("growth = %v, want 100.0", stats.GrowthRate)
	}
}

func TestDashboardService_Stats_GrowthWithoutHistory(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewDashboardService(repo)
	now := time.Now().UTC()

	seedAccountAt(t, repo, "u1", "only", "Ops", now.Add(-time.Hour), now.Add(-time.Hour), true)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.GrowthRate != 100.0 {
		t.Fatalf("first accounts should count as 100%% growth, got %v", stats.GrowthRate)
	}

	empty := NewDashboardService(newStubAccountRepo())
	stats, err = empty.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.GrowthRate != 0 {
		t.Fatalf("empty store growth = %v, want 0", stats.GrowthRate)
	}
}

func TestDashboardService_RecentActivity(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewDashboardService(repo)
	now := time.Now().UTC()

	// u1 was updated after creation; u2 never was.
	seedAccountAt(t, repo, "u1", "edited", "HR", now.Add(-2*time.Hour), now.Add(-time.Hour), true)
	seedAccountAt(t, repo, "u2", "fresh", "", now.Add(-30*time.Minute), now.Add(-30*time.Minute), true)

	entries, err := svc.RecentActivity(context.Background())
	if err != nil {
		t.Fatalf("recent activity failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Timestamp.After(entries[i-1].Timestamp) {
			t.Fatalf("entries not sorted most recent first")
		}
	}
	if entries[0].ID != "u2_created" {
		t.Fatalf("newest entry should be u2_created, got %s", entries[0].ID)
	}
	if entries[1].ID != "u1_updated" || entries[1].Action != "updated" {
		t.Fatalf("expected u1_updated second, got %+v", entries[1])
	}
	if entries[1].DeptName != "HR" {
		t.Fatalf("dept name lost: %+v", entries[1])
	}
	if entries[0].DeptName != "Unknown" {
		t.Fatalf("empty dept must render as Unknown, got %q", entries[0].DeptName)
	}
}
