package ports

import (
	"context"
	"time"
)

// DashboardStats aggregates account counts for the admin dashboard.
type DashboardStats struct {
	TotalAccounts        int64   `json:"total_accounts"`
	ActiveAccounts       int64   `json:"active_accounts"`
	TotalDepartments     int64   `json:"total_departments"`
	NewAccountsThisMonth int64   `json:"new_accounts_this_month"`
	GrowthRate           float64 `json:"growth_rate"`
}

// ActivityEntry is one row of the recent-activity feed.
type ActivityEntry struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	DeptName    string    `json:"dept_name"`
	Action      string    `json:"action"` // "created" or "updated"
	Timestamp   time.Time `json:"timestamp"`
}

// DashboardService computes aggregate views over the account store.
type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
	RecentActivity(ctx context.Context) ([]ActivityEntry, error)
}
