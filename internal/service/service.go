// Package service orchestrates pipeline operations over the store: identity
// and timestamp stamping, probability clamping, cascade rules, dashboard
// aggregation and backup handling.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/pipeline-cli/internal/exporter"
	"github.com/sells-group/pipeline-cli/internal/filter"
	"github.com/sells-group/pipeline-cli/internal/metrics"
	"github.com/sells-group/pipeline-cli/internal/model"
	"github.com/sells-group/pipeline-cli/internal/store"
)

const dashboardCachePrefix = "dashboard:"

// Service owns business rules above the repository. All writes go through it
// so IDs, timestamps and clamping are applied in exactly one place.
type Service struct {
	store store.Store
	cache *store.Cache
	now   func() time.Time
}

func New(st store.Store, cache *store.Cache) *Service {
	return &Service{store: st, cache: cache, now: func() time.Time { return time.Now().UTC() }}
}

// Deals

func (s *Service) CreateDeal(ctx context.Context, d model.Deal) (*model.Deal, error) {
	if strings.TrimSpace(d.Name) == "" {
		return nil, eris.New("service: deal name is required")
	}
	d.ID = uuid.New().String()
	now := s.now()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.LastActivityAt = now
	if d.Stage == "" {
		d.Stage = model.StageLead
	}
	d.Probability = model.ClampProbability(d.Stage, d.Probability)

	if err := s.store.CreateDeal(ctx, d); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, dashboardCachePrefix)
	return &d, nil
}

// UpdateDeal applies the given fields on top of the stored deal. CreatedAt is
// immutable; LastActivityAt moves to now.
func (s *Service) UpdateDeal(ctx context.Context, d model.Deal) (*model.Deal, error) {
	existing, err := s.store.GetDeal(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(d.Name) == "" {
		return nil, eris.New("service: deal name is required")
	}
	d.CreatedAt = existing.CreatedAt
	d.LastActivityAt = s.now()
	d.Probability = model.ClampProbability(d.Stage, d.Probability)

	if err := s.store.UpdateDeal(ctx, d); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, dashboardCachePrefix)
	return &d, nil
}

func (s *Service) DeleteDeal(ctx context.Context, id string) error {
	if err := s.store.DeleteDeal(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, dashboardCachePrefix)
	return nil
}

func (s *Service) GetDeal(ctx context.Context, id string) (*model.Deal, error) {
	return s.store.GetDeal(ctx, id)
}

// ListDeals returns deals matching the filter. An empty filter returns all.
func (s *Service) ListDeals(ctx context.Context, f model.FilterState) ([]model.Deal, error) {
	deals, err := s.store.ListDeals(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Deals(deals, f), nil
}

// ImportDeals stamps and bulk-inserts deals produced by the import pipeline.
func (s *Service) ImportDeals(ctx context.Context, deals []model.Deal) (int, error) {
	now := s.now()
	for i := range deals {
		deals[i].ID = uuid.New().String()
		if deals[i].CreatedAt.IsZero() {
			deals[i].CreatedAt = now
		}
		deals[i].LastActivityAt = now
	}
	n, err := s.store.BulkInsertDeals(ctx, deals)
	if err != nil {
		return 0, err
	}
	s.cache.Invalidate(ctx, dashboardCachePrefix)
	zap.L().Info("deals imported", zap.Int("count", n))
	return n, nil
}

// Jobs

func (s *Service) CreateJob(ctx context.Context, j model.Job) (*model.Job, error) {
	if strings.TrimSpace(j.Name) == "" {
		return nil, eris.New("service: job name is required")
	}
	j.ID = uuid.New().String()
	now := s.now()
	if j.CreatedAt.IsZero() {
		j.CreatedAt = now
	}
	j.LastActivityAt = now
	if j.Stage == "" {
		j.Stage = model.JobStagePending
	}
	if err := s.store.CreateJob(ctx, j); err != nil {
		return nil, err
	}
	return &j, nil
}

func (s *Service) UpdateJob(ctx context.Context, j model.Job) (*model.Job, error) {
	existing, err := s.store.GetJob(ctx, j.ID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(j.Name) == "" {
		return nil, eris.New("service: job name is required")
	}
	j.CreatedAt = existing.CreatedAt
	j.LastActivityAt = s.now()
	if err := s.store.UpdateJob(ctx, j); err != nil {
		return nil, err
	}
	return &j, nil
}

func (s *Service) DeleteJob(ctx context.Context, id string) error {
	return s.store.DeleteJob(ctx, id)
}

func (s *Service) GetJob(ctx context.Context, id string) (*model.Job, error) {
	return s.store.GetJob(ctx, id)
}

func (s *Service) ListJobs(ctx context.Context, f model.FilterState) ([]model.Job, error) {
	jobs, err := s.store.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Jobs(jobs, f), nil
}

// Accounts

func (s *Service) CreateAccount(ctx context.Context, a model.Account) (*model.Account, error) {
	if strings.TrimSpace(a.Name) == "" {
		return nil, eris.New("service: account name is required")
	}
	a.ID = uuid.New().String()
	now := s.now()
	a.CreatedAt = now
	a.LastActivityAt = now
	if err := s.store.CreateAccount(ctx, a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Service) UpdateAccount(ctx context.Context, a model.Account) (*model.Account, error) {
	existing, err := s.store.GetAccount(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	a.CreatedAt = existing.CreatedAt
	a.LastActivityAt = s.now()
	if err := s.store.UpdateAccount(ctx, a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	return s.store.DeleteAccount(ctx, id)
}

func (s *Service) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	return s.store.GetAccount(ctx, id)
}

func (s *Service) ListAccounts(ctx context.Context) ([]model.Account, error) {
	return s.store.ListAccounts(ctx)
}

// Client leaders

func (s *Service) CreateLeader(ctx context.Context, l model.ClientLeader) (*model.ClientLeader, error) {
	if strings.TrimSpace(l.Name) == "" {
		return nil, eris.New("service: leader name is required")
	}
	l.ID = uuid.New().String()
	l.CreatedAt = s.now()
	if l.Role == "" {
		l.Role = model.RoleLeader
	}
	if err := s.store.CreateLeader(ctx, l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *Service) UpdateLeader(ctx context.Context, l model.ClientLeader) (*model.ClientLeader, error) {
	existing, err := s.store.GetLeader(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	l.CreatedAt = existing.CreatedAt
	if err := s.store.UpdateLeader(ctx, l); err != nil {
		return nil, err
	}
	return &l, nil
}

// DeleteLeader removes the leader and all of their deals, returning the
// number of deals removed with them.
func (s *Service) DeleteLeader(ctx context.Context, id string) (int, error) {
	removed, err := s.store.DeleteLeaderCascade(ctx, id)
	if err != nil {
		return 0, err
	}
	s.cache.Invalidate(ctx, dashboardCachePrefix)
	zap.L().Info("leader deleted", zap.String("leader_id", id), zap.Int("deals_removed", removed))
	return removed, nil
}

func (s *Service) GetLeader(ctx context.Context, id string) (*model.ClientLeader, error) {
	return s.store.GetLeader(ctx, id)
}

func (s *Service) ListLeaders(ctx context.Context) ([]model.ClientLeader, error) {
	return s.store.ListLeaders(ctx)
}

// Dashboard

// Snapshot is the full computed dashboard payload for one filter state.
type Snapshot struct {
	Summary      metrics.Summary             `json:"summary"`
	Funnel       []metrics.FunnelEntry       `json:"funnel"`
	GroupRevenue []metrics.GroupRevenueEntry `json:"group_revenue"`
	Trend        []metrics.TrendEntry        `json:"trend"`
	GeneratedAt  time.Time                   `json:"generated_at"`
}

// Dashboard computes KPIs, funnel, group revenue and the trailing trend for
// the filtered deal set. Results are served from the cache when present.
func (s *Service) Dashboard(ctx context.Context, f model.FilterState) (*Snapshot, error) {
	key := dashboardCacheKey(f)
	if data := s.cache.Get(ctx, key); data != nil {
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err == nil {
			return &snap, nil
		}
		// Corrupt entry, recompute below.
	}

	deals, err := s.ListDeals(ctx, f)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{
		Summary:      metrics.Summarize(deals),
		Funnel:       metrics.Funnel(deals),
		GroupRevenue: metrics.GroupRevenue(deals),
		Trend:        metrics.MonthlyTrend(deals, s.now()),
		GeneratedAt:  s.now(),
	}
	if data, err := json.Marshal(snap); err == nil {
		s.cache.Set(ctx, key, data)
	}
	return snap, nil
}

// JobsOverview is the jobs analogue of Dashboard, minus revenue trend.
func (s *Service) JobsOverview(ctx context.Context, f model.FilterState) (metrics.Summary, []metrics.FunnelEntry, error) {
	jobs, err := s.ListJobs(ctx, f)
	if err != nil {
		return metrics.Summary{}, nil, err
	}
	return metrics.SummarizeJobs(jobs), metrics.JobFunnel(jobs), nil
}

func dashboardCacheKey(f model.FilterState) string {
	data, _ := json.Marshal(f)
	sum := sha256.Sum256(data)
	return dashboardCachePrefix + hex.EncodeToString(sum[:8])
}

// Backup and restore

func (s *Service) Backup(ctx context.Context) (*exporter.Backup, error) {
	var b exporter.Backup

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		leaders, err := s.store.ListLeaders(ctx)
		b.ClientLeaders = leaders
		return err
	})
	g.Go(func() error {
		deals, err := s.store.ListDeals(ctx)
		b.Deals = deals
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Restore replaces all leader and deal state with the backup contents.
func (s *Service) Restore(ctx context.Context, b *exporter.Backup) error {
	if err := s.store.ReplaceAll(ctx, b.ClientLeaders, b.Deals); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, dashboardCachePrefix)
	zap.L().Info("backup restored",
		zap.Int("leaders", len(b.ClientLeaders)),
		zap.Int("deals", len(b.Deals)))
	return nil
}

// Metrics snapshots

// TakeSnapshot persists the current unfiltered KPI summary for trend history.
func (s *Service) TakeSnapshot(ctx context.Context) (*store.MetricsSnapshot, error) {
	deals, err := s.store.ListDeals(ctx)
	if err != nil {
		return nil, err
	}
	snap := store.MetricsSnapshot{
		ID:      uuid.New().String(),
		TakenAt: s.now(),
		Summary: metrics.Summarize(deals),
	}
	if err := s.store.SaveMetricsSnapshot(ctx, snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *Service) Snapshots(ctx context.Context, limit int) ([]store.MetricsSnapshot, error) {
	return s.store.ListMetricsSnapshots(ctx, limit)
}
