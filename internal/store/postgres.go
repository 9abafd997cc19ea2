package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/pipeline-cli/internal/db"
	"github.com/sells-group/pipeline-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"get_deal":    `SELECT ` + pgDealCols + ` FROM deals WHERE id = $1`,
	"list_deals":  `SELECT ` + pgDealCols + ` FROM deals ORDER BY created_at, id`,
	"delete_deal": `DELETE FROM deals WHERE id = $1`,
	"get_leader":  `SELECT ` + pgLeaderCols + ` FROM leaders WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leaders (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	email           TEXT NOT NULL DEFAULT '',
	avatar          TEXT NOT NULL DEFAULT '',
	industry_groups JSONB NOT NULL DEFAULT '[]',
	role            TEXT NOT NULL DEFAULT 'leader',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS accounts (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	legal_name       TEXT NOT NULL DEFAULT '',
	billing_address  TEXT NOT NULL DEFAULT '',
	payment_terms    TEXT NOT NULL DEFAULT '',
	industry         TEXT NOT NULL DEFAULT '',
	industry_group   TEXT NOT NULL DEFAULT '',
	owner_id         TEXT NOT NULL DEFAULT '',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	last_activity_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS deals (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	value            DOUBLE PRECISION NOT NULL DEFAULT 0,
	stage            TEXT NOT NULL,
	probability      INTEGER NOT NULL DEFAULT 0,
	leader_id        TEXT NOT NULL DEFAULT '',
	account_id       TEXT NOT NULL DEFAULT '',
	industry_group   TEXT NOT NULL DEFAULT '',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	last_activity_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	expected_close   TEXT NOT NULL DEFAULT '',
	notes            TEXT NOT NULL DEFAULT '',
	custom           JSONB
);

CREATE TABLE IF NOT EXISTS jobs (
	id                    TEXT PRIMARY KEY,
	name                  TEXT NOT NULL,
	deal_id               TEXT NOT NULL DEFAULT '',
	account_id            TEXT NOT NULL DEFAULT '',
	value                 DOUBLE PRECISION NOT NULL DEFAULT 0,
	stage                 TEXT NOT NULL,
	project_status        TEXT NOT NULL DEFAULT '',
	leader_id             TEXT NOT NULL DEFAULT '',
	industry_group        TEXT NOT NULL DEFAULT '',
	expected_confirmation TEXT NOT NULL DEFAULT '',
	project_start         TEXT NOT NULL DEFAULT '',
	project_end           TEXT NOT NULL DEFAULT '',
	notes                 TEXT NOT NULL DEFAULT '',
	priority              TEXT NOT NULL DEFAULT '',
	lost_reason           TEXT NOT NULL DEFAULT '',
	created_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
	last_activity_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS metrics_snapshots (
	id       TEXT PRIMARY KEY,
	taken_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	summary  JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_deals_leader_id ON deals(leader_id);
CREATE INDEX IF NOT EXISTS idx_deals_stage ON deals(stage);
CREATE INDEX IF NOT EXISTS idx_deals_industry_group ON deals(industry_group);
CREATE INDEX IF NOT EXISTS idx_jobs_leader_id ON jobs(leader_id);
CREATE INDEX IF NOT EXISTS idx_snapshots_taken_at ON metrics_snapshots(taken_at DESC);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// Deals

const pgDealCols = `id, name, value, stage, probability, leader_id, account_id,
	industry_group, created_at, last_activity_at, expected_close, notes, custom`

var pgDealColNames = []string{
	"id", "name", "value", "stage", "probability", "leader_id", "account_id",
	"industry_group", "created_at", "last_activity_at", "expected_close", "notes", "custom",
}

func dealCopyRow(d model.Deal) ([]any, error) {
	custom, err := customJSON(d.Custom)
	if err != nil {
		return nil, err
	}
	return []any{
		d.ID, d.Name, d.Value, string(d.Stage), d.Probability, d.LeaderID, d.AccountID,
		d.IndustryGroup, d.CreatedAt, d.LastActivityAt, d.ExpectedClose, d.Notes, custom,
	}, nil
}

func (s *PostgresStore) CreateDeal(ctx context.Context, d model.Deal) error {
	custom, err := customJSON(d.Custom)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO deals (`+pgDealCols+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		d.ID, d.Name, d.Value, string(d.Stage), d.Probability, d.LeaderID, d.AccountID,
		d.IndustryGroup, d.CreatedAt, d.LastActivityAt, d.ExpectedClose, d.Notes, custom,
	)
	return eris.Wrapf(err, "postgres: insert deal %s", d.ID)
}

func (s *PostgresStore) UpdateDeal(ctx context.Context, d model.Deal) error {
	custom, err := customJSON(d.Custom)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE deals SET name = $1, value = $2, stage = $3, probability = $4, leader_id = $5,
		 account_id = $6, industry_group = $7, last_activity_at = $8, expected_close = $9,
		 notes = $10, custom = $11 WHERE id = $12`,
		d.Name, d.Value, string(d.Stage), d.Probability, d.LeaderID,
		d.AccountID, d.IndustryGroup, d.LastActivityAt, d.ExpectedClose,
		d.Notes, custom, d.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update deal %s", d.ID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("deal not found: %s", d.ID)
	}
	return nil
}

func (s *PostgresStore) DeleteDeal(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM deals WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete deal %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("deal not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) GetDeal(ctx context.Context, id string) (*model.Deal, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+pgDealCols+` FROM deals WHERE id = $1`, id)
	d, err := scanPgDeal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Errorf("deal not found: %s", id)
		}
		return nil, eris.Wrapf(err, "postgres: get deal %s", id)
	}
	return d, nil
}

func (s *PostgresStore) ListDeals(ctx context.Context) ([]model.Deal, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+pgDealCols+` FROM deals ORDER BY created_at, id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list deals")
	}
	defer rows.Close()

	var deals []model.Deal
	for rows.Next() {
		d, err := scanPgDeal(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan deal")
		}
		deals = append(deals, *d)
	}
	return deals, eris.Wrap(rows.Err(), "postgres: list deals iterate")
}

// BulkInsertDeals loads deals through the COPY protocol. Used by the CSV
// import pipeline where row counts run into the tens of thousands.
func (s *PostgresStore) BulkInsertDeals(ctx context.Context, deals []model.Deal) (int, error) {
	rows := make([][]any, 0, len(deals))
	for _, d := range deals {
		row, err := dealCopyRow(d)
		if err != nil {
			return 0, err
		}
		rows = append(rows, row)
	}
	n, err := db.CopyFrom(ctx, s.pool, "deals", pgDealColNames, rows)
	return int(n), err
}

// Jobs

const pgJobCols = `id, name, deal_id, account_id, value, stage, project_status, leader_id,
	industry_group, expected_confirmation, project_start, project_end, notes, priority,
	lost_reason, created_at, last_activity_at`

func (s *PostgresStore) CreateJob(ctx context.Context, j model.Job) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO jobs (`+pgJobCols+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		j.ID, j.Name, j.DealID, j.AccountID, j.Value, string(j.Stage), string(j.ProjectStatus),
		j.LeaderID, j.IndustryGroup, j.ExpectedConfirmation, j.ProjectStart, j.ProjectEnd,
		j.Notes, j.Priority, j.LostReason, j.CreatedAt, j.LastActivityAt,
	)
	return eris.Wrapf(err, "postgres: insert job %s", j.ID)
}

func (s *PostgresStore) UpdateJob(ctx context.Context, j model.Job) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET name = $1, deal_id = $2, account_id = $3, value = $4, stage = $5,
		 project_status = $6, leader_id = $7, industry_group = $8, expected_confirmation = $9,
		 project_start = $10, project_end = $11, notes = $12, priority = $13, lost_reason = $14,
		 last_activity_at = $15 WHERE id = $16`,
		j.Name, j.DealID, j.AccountID, j.Value, string(j.Stage),
		string(j.ProjectStatus), j.LeaderID, j.IndustryGroup, j.ExpectedConfirmation,
		j.ProjectStart, j.ProjectEnd, j.Notes, j.Priority, j.LostReason,
		j.LastActivityAt, j.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update job %s", j.ID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("job not found: %s", j.ID)
	}
	return nil
}

func (s *PostgresStore) DeleteJob(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete job %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("job not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) GetJob(ctx context.Context, id string) (*model.Job, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+pgJobCols+` FROM jobs WHERE id = $1`, id)
	j, err := scanPgJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Errorf("job not found: %s", id)
		}
		return nil, eris.Wrapf(err, "postgres: get job %s", id)
	}
	return j, nil
}

func (s *PostgresStore) ListJobs(ctx context.Context) ([]model.Job, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+pgJobCols+` FROM jobs ORDER BY created_at, id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list jobs")
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		j, err := scanPgJob(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan job")
		}
		jobs = append(jobs, *j)
	}
	return jobs, eris.Wrap(rows.Err(), "postgres: list jobs iterate")
}

// Accounts

const pgAccountCols = `id, name, legal_name, billing_address, payment_terms, industry,
	industry_group, owner_id, created_at, last_activity_at`

func (s *PostgresStore) CreateAccount(ctx context.Context, a model.Account) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO accounts (`+pgAccountCols+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.Name, a.LegalName, a.BillingAddress, a.PaymentTerms, a.Industry,
		a.IndustryGroup, a.OwnerID, a.CreatedAt, a.LastActivityAt,
	)
	return eris.Wrapf(err, "postgres: insert account %s", a.ID)
}

func (s *PostgresStore) UpdateAccount(ctx context.Context, a model.Account) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE accounts SET name = $1, legal_name = $2, billing_address = $3, payment_terms = $4,
		 industry = $5, industry_group = $6, owner_id = $7, last_activity_at = $8 WHERE id = $9`,
		a.Name, a.LegalName, a.BillingAddress, a.PaymentTerms,
		a.Industry, a.IndustryGroup, a.OwnerID, a.LastActivityAt, a.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update account %s", a.ID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("account not found: %s", a.ID)
	}
	return nil
}

func (s *PostgresStore) DeleteAccount(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete account %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("account not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	var a model.Account
	err := s.pool.QueryRow(ctx, `SELECT `+pgAccountCols+` FROM accounts WHERE id = $1`, id).
		Scan(&a.ID, &a.Name, &a.LegalName, &a.BillingAddress, &a.PaymentTerms,
			&a.Industry, &a.IndustryGroup, &a.OwnerID, &a.CreatedAt, &a.LastActivityAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Errorf("account not found: %s", id)
		}
		return nil, eris.Wrapf(err, "postgres: get account %s", id)
	}
	return &a, nil
}

func (s *PostgresStore) ListAccounts(ctx context.Context) ([]model.Account, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+pgAccountCols+` FROM accounts ORDER BY name, id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list accounts")
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.LegalName, &a.BillingAddress, &a.PaymentTerms,
			&a.Industry, &a.IndustryGroup, &a.OwnerID, &a.CreatedAt, &a.LastActivityAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan account")
		}
		accounts = append(accounts, a)
	}
	return accounts, eris.Wrap(rows.Err(), "postgres: list accounts iterate")
}

// Leaders

const pgLeaderCols = `id, name, email, avatar, industry_groups, role, created_at`

func (s *PostgresStore) CreateLeader(ctx context.Context, l model.ClientLeader) error {
	groups, err := json.Marshal(l.IndustryGroups)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal industry groups")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO leaders (`+pgLeaderCols+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		l.ID, l.Name, l.Email, l.Avatar, groups, string(l.Role), l.CreatedAt,
	)
	return eris.Wrapf(err, "postgres: insert leader %s", l.ID)
}

func (s *PostgresStore) UpdateLeader(ctx context.Context, l model.ClientLeader) error {
	groups, err := json.Marshal(l.IndustryGroups)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal industry groups")
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE leaders SET name = $1, email = $2, avatar = $3, industry_groups = $4, role = $5 WHERE id = $6`,
		l.Name, l.Email, l.Avatar, groups, string(l.Role), l.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update leader %s", l.ID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("leader not found: %s", l.ID)
	}
	return nil
}

// DeleteLeaderCascade removes the leader and every deal referencing it in one
// transaction, returning the number of deals removed.
func (s *PostgresStore) DeleteLeaderCascade(ctx context.Context, id string) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: begin cascade delete")
	}
	defer tx.Rollback(ctx)

	dealTag, err := tx.Exec(ctx, `DELETE FROM deals WHERE leader_id = $1`, id)
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: cascade delete deals for leader %s", id)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM leaders WHERE id = $1`, id)
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: delete leader %s", id)
	}
	if tag.RowsAffected() == 0 {
		return 0, eris.Errorf("leader not found: %s", id)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "postgres: commit cascade delete")
	}
	return int(dealTag.RowsAffected()), nil
}

func (s *PostgresStore) GetLeader(ctx context.Context, id string) (*model.ClientLeader, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+pgLeaderCols+` FROM leaders WHERE id = $1`, id)
	l, err := scanPgLeader(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Errorf("leader not found: %s", id)
		}
		return nil, eris.Wrapf(err, "postgres: get leader %s", id)
	}
	return l, nil
}

func (s *PostgresStore) ListLeaders(ctx context.Context) ([]model.ClientLeader, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+pgLeaderCols+` FROM leaders ORDER BY name, id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leaders")
	}
	defer rows.Close()

	var leaders []model.ClientLeader
	for rows.Next() {
		l, err := scanPgLeader(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan leader")
		}
		leaders = append(leaders, *l)
	}
	return leaders, eris.Wrap(rows.Err(), "postgres: list leaders iterate")
}

// ReplaceAll wipes and reloads leader and deal state from a backup document.
// Deals go back in through COPY inside the same transaction.
func (s *PostgresStore) ReplaceAll(ctx context.Context, leaders []model.ClientLeader, deals []model.Deal) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin restore")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM deals`); err != nil {
		return eris.Wrap(err, "postgres: clear deals")
	}
	if _, err := tx.Exec(ctx, `DELETE FROM leaders`); err != nil {
		return eris.Wrap(err, "postgres: clear leaders")
	}

	for _, l := range leaders {
		groups, err := json.Marshal(l.IndustryGroups)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal industry groups")
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO leaders (`+pgLeaderCols+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			l.ID, l.Name, l.Email, l.Avatar, groups, string(l.Role), l.CreatedAt,
		); err != nil {
			return eris.Wrapf(err, "postgres: restore leader %s", l.ID)
		}
	}

	if len(deals) > 0 {
		rows := make([][]any, 0, len(deals))
		for _, d := range deals {
			row, err := dealCopyRow(d)
			if err != nil {
				return err
			}
			rows = append(rows, row)
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"deals"}, pgDealColNames, pgx.CopyFromRows(rows)); err != nil {
			return eris.Wrap(err, "postgres: restore deals")
		}
	}
	return eris.Wrap(tx.Commit(ctx), "postgres: commit restore")
}

// Metrics snapshots

func (s *PostgresStore) SaveMetricsSnapshot(ctx context.Context, snap MetricsSnapshot) error {
	summary, err := json.Marshal(snap.Summary)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal snapshot summary")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO metrics_snapshots (id, taken_at, summary) VALUES ($1, $2, $3)`,
		snap.ID, snap.TakenAt, summary,
	)
	return eris.Wrapf(err, "postgres: insert snapshot %s", snap.ID)
}

func (s *PostgresStore) ListMetricsSnapshots(ctx context.Context, limit int) ([]MetricsSnapshot, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, taken_at, summary FROM metrics_snapshots ORDER BY taken_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list snapshots")
	}
	defer rows.Close()

	var snaps []MetricsSnapshot
	for rows.Next() {
		var snap MetricsSnapshot
		var summary []byte
		if err := rows.Scan(&snap.ID, &snap.TakenAt, &summary); err != nil {
			return nil, eris.Wrap(err, "postgres: scan snapshot")
		}
		if err := json.Unmarshal(summary, &snap.Summary); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal snapshot summary")
		}
		snaps = append(snaps, snap)
	}
	return snaps, eris.Wrap(rows.Err(), "postgres: list snapshots iterate")
}

// helpers

func customJSON(c model.CustomFields) ([]byte, error) {
	if c.Priority == "" && c.Source == "" && c.Competitor == "" && len(c.Extra) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, eris.Wrap(err, "marshal custom fields")
	}
	return data, nil
}

func scanPgDeal(row pgx.Row) (*model.Deal, error) {
	var d model.Deal
	var stage string
	var custom []byte

	err := row.Scan(&d.ID, &d.Name, &d.Value, &stage, &d.Probability, &d.LeaderID,
		&d.AccountID, &d.IndustryGroup, &d.CreatedAt, &d.LastActivityAt,
		&d.ExpectedClose, &d.Notes, &custom)
	if err != nil {
		return nil, err
	}
	d.Stage = model.DealStage(stage)
	if len(custom) > 0 {
		if err := json.Unmarshal(custom, &d.Custom); err != nil {
			return nil, eris.Wrap(err, "unmarshal custom fields")
		}
	}
	d.CreatedAt = d.CreatedAt.UTC()
	d.LastActivityAt = d.LastActivityAt.UTC()
	return &d, nil
}

func scanPgJob(row pgx.Row) (*model.Job, error) {
	var j model.Job
	var stage, status string

	err := row.Scan(&j.ID, &j.Name, &j.DealID, &j.AccountID, &j.Value, &stage, &status,
		&j.LeaderID, &j.IndustryGroup, &j.ExpectedConfirmation, &j.ProjectStart,
		&j.ProjectEnd, &j.Notes, &j.Priority, &j.LostReason, &j.CreatedAt, &j.LastActivityAt)
	if err != nil {
		return nil, err
	}
	j.Stage = model.JobStage(stage)
	j.ProjectStatus = model.ProjectStatus(status)
	j.CreatedAt = j.CreatedAt.UTC()
	j.LastActivityAt = j.LastActivityAt.UTC()
	return &j, nil
}

func scanPgLeader(row pgx.Row) (*model.ClientLeader, error) {
	var l model.ClientLeader
	var groups []byte
	var role string

	err := row.Scan(&l.ID, &l.Name, &l.Email, &l.Avatar, &groups, &role, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(groups, &l.IndustryGroups); err != nil {
		return nil, eris.Wrap(err, "unmarshal industry groups")
	}
	l.Role = model.Role(role)
	l.CreatedAt = l.CreatedAt.UTC()
	return &l, nil
}
