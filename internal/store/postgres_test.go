package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/pipeline-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_GetDeal_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT .+ FROM deals WHERE id = \$1`).
		WithArgs("nonexistent-deal").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetDeal(context.Background(), "nonexistent-deal")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateDeal(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	d := testDeal("Acme Corp")
	mock.ExpectExec(`INSERT INTO deals`).
		WithArgs(d.ID, d.Name, d.Value, string(d.Stage), d.Probability, d.LeaderID, d.AccountID,
			d.IndustryGroup, d.CreatedAt, d.LastActivityAt, d.ExpectedClose, d.Notes, []byte(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.CreateDeal(context.Background(), d))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateDeal_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE deals SET`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateDeal(context.Background(), testDeal("Ghost"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListDeals(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{
		"id", "name", "value", "stage", "probability", "leader_id", "account_id",
		"industry_group", "created_at", "last_activity_at", "expected_close", "notes", "custom",
	}).
		AddRow("d1", "Acme", 1000.0, "Closed Won", 100, "l1", "", "Technology", now, now, "", "", []byte(nil)).
		AddRow("d2", "Globex", 500.0, "Lead", 10, "l2", "", "Finance", now, now, "", "", []byte(`{"priority":"high"}`))

	mock.ExpectQuery(`SELECT .+ FROM deals ORDER BY created_at, id`).WillReturnRows(rows)

	deals, err := s.ListDeals(context.Background())
	require.NoError(t, err)
	require.Len(t, deals, 2)
	assert.Equal(t, model.StageClosedWon, deals[0].Stage)
	assert.Equal(t, "high", deals[1].Custom.Priority)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_BulkInsertDeals_Copy(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectCopyFrom(pgx.Identifier{"deals"}, pgDealColNames).WillReturnResult(2)

	n, err := s.BulkInsertDeals(context.Background(), []model.Deal{testDeal("A"), testDeal("B")})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteLeaderCascade(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM deals WHERE leader_id = \$1`).
		WithArgs("l1").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec(`DELETE FROM leaders WHERE id = \$1`).
		WithArgs("l1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	removed, err := s.DeleteLeaderCascade(context.Background(), "l1")
	require.NoError(t, err)
	assert.Equal(t, 3, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteLeaderCascade_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM deals WHERE leader_id = \$1`).
		WithArgs("l404").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM leaders WHERE id = \$1`).
		WithArgs("l404").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	_, err := s.DeleteLeaderCascade(context.Background(), "l404")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ReplaceAll(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	leader := model.ClientLeader{
		ID: "l1", Name: "Restored", Role: model.RoleAdmin,
		IndustryGroups: []string{"Finance"},
		CreatedAt:      time.Now().UTC(),
	}
	deal := testDeal("Restored Deal")

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM deals`).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM leaders`).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`INSERT INTO leaders`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCopyFrom(pgx.Identifier{"deals"}, pgDealColNames).WillReturnResult(1)
	mock.ExpectCommit()

	err := s.ReplaceAll(context.Background(), []model.ClientLeader{leader}, []model.Deal{deal})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveMetricsSnapshot(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO metrics_snapshots`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	snap := MetricsSnapshot{ID: "snap-1", TakenAt: time.Now().UTC()}
	require.NoError(t, s.SaveMetricsSnapshot(context.Background(), snap))
	assert.NoError(t, mock.ExpectationsWereMet())
}
