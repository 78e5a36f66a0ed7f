// Package metrics defines and registers all custom Prometheus metrics for the
// account administration API. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "rejected" (bad credentials / inactive) or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRefreshTotal counts refresh-token exchanges by outcome.
// Label:
//   - result: "success" or "rejected"
var TokenRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_total",
		Help:      "Total number of refresh token exchanges, by result.",
	},
	[]string{"result"},
)

// PasswordChangesTotal counts password-change attempts by outcome.
// Label:
//   - result: "success", "mismatch" (wrong current) or "reuse" (same as current)
var PasswordChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_changes_total",
		Help:      "Total number of password change attempts, by result.",
	},
	[]string{"result"},
)

// ── Account management metrics ────────────────────────────────────────────────

// AccountsCreatedTotal counts newly created accounts.
// Label:
//   - role: the role assigned at creation ("admin", "manager", "user")
var AccountsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_created_total",
		Help:      "Total number of accounts created, by assigned role.",
	},
	[]string{"role"},
)

// AccountsDeletedTotal counts deleted accounts.
var AccountsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_deleted_total",
		Help:      "Total number of accounts deleted.",
	},
)

// AuthzDeniedTotal counts authorization rejections surfaced to clients.
// Label:
//   - operation: "create", "update", "delete", "toggle_status", "list"
var AuthzDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denied_total",
		Help:      "Total number of operations denied by role policy.",
	},
	[]string{"operation"},
)
