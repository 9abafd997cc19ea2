package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/pipeline-cli/internal/metrics"
	"github.com/sells-group/pipeline-cli/internal/model"
)

func newTestSQLite(t *testing.T) Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testDeal(name string) model.Deal {
	now := time.Now().UTC().Truncate(time.Second)
	return model.Deal{
		ID:             uuid.New().String(),
		Name:           name,
		Value:          25000,
		Stage:          model.StageProposal,
		Probability:    40,
		LeaderID:       "leader-1",
		IndustryGroup:  "Technology",
		CreatedAt:      now,
		LastActivityAt: now,
		ExpectedClose:  "2026-10-01",
		Notes:          "renewal candidate",
	}
}

func storeTestSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("CreateAndGetDeal", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		d := testDeal("Acme Corp")
		d.Custom = model.CustomFields{Priority: "high", Extra: map[string]string{"Region": "West"}}
		require.NoError(t, s.CreateDeal(ctx, d))

		got, err := s.GetDeal(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, d.Name, got.Name)
		assert.Equal(t, model.StageProposal, got.Stage)
		assert.InDelta(t, 25000, got.Value, 0.001)
		assert.Equal(t, 40, got.Probability)
		assert.Equal(t, "high", got.Custom.Priority)
		assert.Equal(t, "West", got.Custom.Extra["Region"])
		assert.True(t, got.CreatedAt.Equal(d.CreatedAt))
	})

	t.Run("GetDealNotFound", func(t *testing.T) {
		s := newStore(t)

		_, err := s.GetDeal(context.Background(), "nonexistent-id")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("UpdateDeal", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		d := testDeal("Globex")
		require.NoError(t, s.CreateDeal(ctx, d))

		d.Stage = model.StageClosedWon
		d.Probability = 100
		d.Notes = "signed"
		require.NoError(t, s.UpdateDeal(ctx, d))

		got, err := s.GetDeal(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StageClosedWon, got.Stage)
		assert.Equal(t, 100, got.Probability)
		assert.Equal(t, "signed", got.Notes)
	})

	t.Run("UpdateDealNotFound", func(t *testing.T) {
		s := newStore(t)

		err := s.UpdateDeal(context.Background(), testDeal("Ghost"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("DeleteDeal", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		d := testDeal("Initech")
		require.NoError(t, s.CreateDeal(ctx, d))
		require.NoError(t, s.DeleteDeal(ctx, d.ID))

		_, err := s.GetDeal(ctx, d.ID)
		require.Error(t, err)

		err = s.DeleteDeal(ctx, d.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("ListDealsOrdered", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		older := testDeal("Older")
		older.CreatedAt = older.CreatedAt.Add(-time.Hour)
		newer := testDeal("Newer")

		require.NoError(t, s.CreateDeal(ctx, newer))
		require.NoError(t, s.CreateDeal(ctx, older))

		deals, err := s.ListDeals(ctx)
		require.NoError(t, err)
		require.Len(t, deals, 2)
		assert.Equal(t, "Older", deals[0].Name)
		assert.Equal(t, "Newer", deals[1].Name)
	})

	t.Run("BulkInsertDeals", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		batch := []model.Deal{testDeal("A"), testDeal("B"), testDeal("C")}
		n, err := s.BulkInsertDeals(ctx, batch)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		deals, err := s.ListDeals(ctx)
		require.NoError(t, err)
		assert.Len(t, deals, 3)

		n, err = s.BulkInsertDeals(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("JobLifecycle", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		now := time.Now().UTC().Truncate(time.Second)
		j := model.Job{
			ID:             uuid.New().String(),
			Name:           "Warehouse fit-out",
			Value:          80000,
			Stage:          model.JobStageConfirmed,
			ProjectStatus:  model.ProjectOnTrack,
			LeaderID:       "leader-2",
			ProjectStart:   "2026-09-15",
			CreatedAt:      now,
			LastActivityAt: now,
		}
		require.NoError(t, s.CreateJob(ctx, j))

		j.Stage = model.JobStageLost
		j.LostReason = "budget cut"
		require.NoError(t, s.UpdateJob(ctx, j))

		got, err := s.GetJob(ctx, j.ID)
		require.NoError(t, err)
		assert.Equal(t, model.JobStageLost, got.Stage)
		assert.Equal(t, "budget cut", got.LostReason)
		assert.Equal(t, model.ProjectOnTrack, got.ProjectStatus)

		jobs, err := s.ListJobs(ctx)
		require.NoError(t, err)
		assert.Len(t, jobs, 1)

		require.NoError(t, s.DeleteJob(ctx, j.ID))
		_, err = s.GetJob(ctx, j.ID)
		require.Error(t, err)
	})

	t.Run("AccountLifecycle", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		now := time.Now().UTC().Truncate(time.Second)
		a := model.Account{
			ID:             uuid.New().String(),
			Name:           "Hooli",
			LegalName:      "Hooli Inc.",
			PaymentTerms:   "Net 30",
			IndustryGroup:  "Technology",
			CreatedAt:      now,
			LastActivityAt: now,
		}
		require.NoError(t, s.CreateAccount(ctx, a))

		a.PaymentTerms = "Net 45"
		require.NoError(t, s.UpdateAccount(ctx, a))

		got, err := s.GetAccount(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "Net 45", got.PaymentTerms)
		assert.Equal(t, "Hooli Inc.", got.LegalName)

		accounts, err := s.ListAccounts(ctx)
		require.NoError(t, err)
		assert.Len(t, accounts, 1)

		require.NoError(t, s.DeleteAccount(ctx, a.ID))
		_, err = s.GetAccount(ctx, a.ID)
		require.Error(t, err)
	})

	t.Run("LeaderLifecycle", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		l := model.ClientLeader{
			ID:             uuid.New().String(),
			Name:           "Dana Scully",
			Email:          "dana@example.com",
			IndustryGroups: []string{"Healthcare", "Government"},
			Role:           model.RoleLeader,
			CreatedAt:      time.Now().UTC().Truncate(time.Second),
		}
		require.NoError(t, s.CreateLeader(ctx, l))

		l.IndustryGroups = []string{"Healthcare"}
		l.Role = model.RoleAdmin
		require.NoError(t, s.UpdateLeader(ctx, l))

		got, err := s.GetLeader(ctx, l.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Healthcare"}, got.IndustryGroups)
		assert.Equal(t, model.RoleAdmin, got.Role)

		leaders, err := s.ListLeaders(ctx)
		require.NoError(t, err)
		assert.Len(t, leaders, 1)
	})

	t.Run("DeleteLeaderCascade", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		l := model.ClientLeader{
			ID:        uuid.New().String(),
			Name:      "Fox Mulder",
			Role:      model.RoleLeader,
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		}
		require.NoError(t, s.CreateLeader(ctx, l))

		owned := testDeal("Owned A")
		owned.LeaderID = l.ID
		owned2 := testDeal("Owned B")
		owned2.LeaderID = l.ID
		other := testDeal("Other")
		other.LeaderID = "someone-else"
		require.NoError(t, s.CreateDeal(ctx, owned))
		require.NoError(t, s.CreateDeal(ctx, owned2))
		require.NoError(t, s.CreateDeal(ctx, other))

		removed, err := s.DeleteLeaderCascade(ctx, l.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, removed)

		deals, err := s.ListDeals(ctx)
		require.NoError(t, err)
		require.Len(t, deals, 1)
		assert.Equal(t, "Other", deals[0].Name)

		_, err = s.GetLeader(ctx, l.ID)
		require.Error(t, err)
	})

	t.Run("DeleteLeaderCascadeNotFound", func(t *testing.T) {
		s := newStore(t)

		_, err := s.DeleteLeaderCascade(context.Background(), "nonexistent-id")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("ReplaceAll", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.CreateDeal(ctx, testDeal("Doomed")))
		require.NoError(t, s.CreateLeader(ctx, model.ClientLeader{
			ID: uuid.New().String(), Name: "Old Leader", Role: model.RoleLeader,
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		}))

		newLeader := model.ClientLeader{
			ID: uuid.New().String(), Name: "Restored Leader", Role: model.RoleAdmin,
			IndustryGroups: []string{"Finance"},
			CreatedAt:      time.Now().UTC().Truncate(time.Second),
		}
		newDeal := testDeal("Restored Deal")
		newDeal.LeaderID = newLeader.ID

		require.NoError(t, s.ReplaceAll(ctx, []model.ClientLeader{newLeader}, []model.Deal{newDeal}))

		deals, err := s.ListDeals(ctx)
		require.NoError(t, err)
		require.Len(t, deals, 1)
		assert.Equal(t, "Restored Deal", deals[0].Name)

		leaders, err := s.ListLeaders(ctx)
		require.NoError(t, err)
		require.Len(t, leaders, 1)
		assert.Equal(t, "Restored Leader", leaders[0].Name)
	})

	t.Run("MetricsSnapshots", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		base := time.Now().UTC().Truncate(time.Second)
		for i := 0; i < 3; i++ {
			snap := MetricsSnapshot{
				ID:      uuid.New().String(),
				TakenAt: base.Add(time.Duration(i) * time.Hour),
				Summary: metrics.Summary{TotalRevenue: float64(1000 * (i + 1)), DealCount: i + 1},
			}
			require.NoError(t, s.SaveMetricsSnapshot(ctx, snap))
		}

		snaps, err := s.ListMetricsSnapshots(ctx, 2)
		require.NoError(t, err)
		require.Len(t, snaps, 2)
		assert.InDelta(t, 3000, snaps[0].Summary.TotalRevenue, 0.001)
		assert.InDelta(t, 2000, snaps[1].Summary.TotalRevenue, 0.001)
	})
}

func TestSQLiteStore(t *testing.T) {
	storeTestSuite(t, newTestSQLite)
}
