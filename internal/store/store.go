// Package store defines the persistence interface for the pipeline dashboard
// and its SQLite and Postgres implementations.
package store

import (
	"context"
	"time"

	"github.com/sells-group/pipeline-cli/internal/metrics"
	"github.com/sells-group/pipeline-cli/internal/model"
)

// MetricsSnapshot is a persisted point-in-time KPI summary, written by the
// scheduled snapshot job for trend history across restarts.
type MetricsSnapshot struct {
	ID      string          `json:"id"`
	TakenAt time.Time       `json:"taken_at"`
	Summary metrics.Summary `json:"summary"`
}

// Store is the repository boundary. Filtering and aggregation happen in
// memory above this interface; the store only does typed reads and writes.
type Store interface {
	// Deals
	CreateDeal(ctx context.Context, d model.Deal) error
	UpdateDeal(ctx context.Context, d model.Deal) error
	DeleteDeal(ctx context.Context, id string) error
	GetDeal(ctx context.Context, id string) (*model.Deal, error)
	ListDeals(ctx context.Context) ([]model.Deal, error)
	BulkInsertDeals(ctx context.Context, deals []model.Deal) (int, error)

	// Jobs
	CreateJob(ctx context.Context, j model.Job) error
	UpdateJob(ctx context.Context, j model.Job) error
	DeleteJob(ctx context.Context, id string) error
	GetJob(ctx context.Context, id string) (*model.Job, error)
	ListJobs(ctx context.Context) ([]model.Job, error)

	// Accounts
	CreateAccount(ctx context.Context, a model.Account) error
	UpdateAccount(ctx context.Context, a model.Account) error
	DeleteAccount(ctx context.Context, id string) error
	GetAccount(ctx context.Context, id string) (*model.Account, error)
	ListAccounts(ctx context.Context) ([]model.Account, error)

	// Client leaders. Delete cascades to the leader's deals and returns the
	// number of deals removed.
	CreateLeader(ctx context.Context, l model.ClientLeader) error
	UpdateLeader(ctx context.Context, l model.ClientLeader) error
	DeleteLeaderCascade(ctx context.Context, id string) (int, error)
	GetLeader(ctx context.Context, id string) (*model.ClientLeader, error)
	ListLeaders(ctx context.Context) ([]model.ClientLeader, error)

	// Backup restore: replaces all leader and deal state wholesale.
	ReplaceAll(ctx context.Context, leaders []model.ClientLeader, deals []model.Deal) error

	// Metrics snapshots
	SaveMetricsSnapshot(ctx context.Context, snap MetricsSnapshot) error
	ListMetricsSnapshots(ctx context.Context, limit int) ([]MetricsSnapshot, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
