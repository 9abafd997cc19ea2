package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/pipeline-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leaders (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	email           TEXT NOT NULL DEFAULT '',
	avatar          TEXT NOT NULL DEFAULT '',
	industry_groups TEXT NOT NULL DEFAULT '[]',
	role            TEXT NOT NULL DEFAULT 'leader',
	created_at      DATETIME NOT NULL
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
	created_at       DATETIME NOT NULL,
	last_activity_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS deals (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	value            REAL NOT NULL DEFAULT 0,
	stage            TEXT NOT NULL,
	probability      INTEGER NOT NULL DEFAULT 0,
	leader_id        TEXT NOT NULL DEFAULT '',
	account_id       TEXT NOT NULL DEFAULT '',
	industry_group   TEXT NOT NULL DEFAULT '',
	created_at       DATETIME NOT NULL,
	last_activity_at DATETIME NOT NULL,
	expected_close   TEXT NOT NULL DEFAULT '',
	notes            TEXT NOT NULL DEFAULT '',
	custom           TEXT
);

CREATE TABLE IF NOT EXISTS jobs (
	id                    TEXT PRIMARY KEY,
	name                  TEXT NOT NULL,
	deal_id               TEXT NOT NULL DEFAULT '',
	account_id            TEXT NOT NULL DEFAULT '',
	value                 REAL NOT NULL DEFAULT 0,
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
	created_at            DATETIME NOT NULL,
	last_activity_at      DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS metrics_snapshots (
	id       TEXT PRIMARY KEY,
	taken_at DATETIME NOT NULL,
	summary  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_deals_leader_id ON deals(leader_id);
CREATE INDEX IF NOT EXISTS idx_deals_stage ON deals(stage);
CREATE INDEX IF NOT EXISTS idx_jobs_leader_id ON jobs(leader_id);
CREATE INDEX IF NOT EXISTS idx_snapshots_taken_at ON metrics_snapshots(taken_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Deals

const sqliteDealCols = `id, name, value, stage, probability, leader_id, account_id,
	industry_group, created_at, last_activity_at, expected_close, notes, custom`

func (s *SQLiteStore) CreateDeal(ctx context.Context, d model.Deal) error {
	custom, err := marshalCustom(d.Custom)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO deals (`+sqliteDealCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.Value, string(d.Stage), d.Probability, d.LeaderID, d.AccountID,
		d.IndustryGroup, d.CreatedAt, d.LastActivityAt, d.ExpectedClose, d.Notes, custom,
	)
	return eris.Wrapf(err, "sqlite: insert deal %s", d.ID)
}

func (s *SQLiteStore) UpdateDeal(ctx context.Context, d model.Deal) error {
	custom, err := marshalCustom(d.Custom)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE deals SET name = ?, value = ?, stage = ?, probability = ?, leader_id = ?,
		 account_id = ?, industry_group = ?, last_activity_at = ?, expected_close = ?,
		 notes = ?, custom = ? WHERE id = ?`,
		d.Name, d.Value, string(d.Stage), d.Probability, d.LeaderID,
		d.AccountID, d.IndustryGroup, d.LastActivityAt, d.ExpectedClose,
		d.Notes, custom, d.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update deal %s", d.ID)
	}
	return checkRowsAffected(res, "deal", d.ID)
}

func (s *SQLiteStore) DeleteDeal(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM deals WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete deal %s", id)
	}
	return checkRowsAffected(res, "deal", id)
}

func (s *SQLiteStore) GetDeal(ctx context.Context, id string) (*model.Deal, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sqliteDealCols+` FROM deals WHERE id = ?`, id)
	d, err := scanDeal(row)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("deal not found: %s", id)
	}
	return d, err
}

func (s *SQLiteStore) ListDeals(ctx context.Context) ([]model.Deal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sqliteDealCols+` FROM deals ORDER BY created_at, id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list deals")
	}
	defer rows.Close()

	var deals []model.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, *d)
	}
	return deals, eris.Wrap(rows.Err(), "sqlite: list deals iterate")
}

func (s *SQLiteStore) BulkInsertDeals(ctx context.Context, deals []model.Deal) (int, error) {
	if len(deals) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin bulk insert")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO deals (`+sqliteDealCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare bulk insert")
	}
	defer stmt.Close()

	for _, d := range deals {
		custom, err := marshalCustom(d.Custom)
		if err != nil {
			return 0, err
		}
		if _, err := stmt.ExecContext(ctx,
			d.ID, d.Name, d.Value, string(d.Stage), d.Probability, d.LeaderID, d.AccountID,
			d.IndustryGroup, d.CreatedAt, d.LastActivityAt, d.ExpectedClose, d.Notes, custom,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: bulk insert deal %s", d.ID)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit bulk insert")
	}
	return len(deals), nil
}

// Jobs

const sqliteJobCols = `id, name, deal_id, account_id, value, stage, project_status, leader_id,
	industry_group, expected_confirmation, project_start, project_end, notes, priority,
	lost_reason, created_at, last_activity_at`

func (s *SQLiteStore) CreateJob(ctx context.Context, j model.Job) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (`+sqliteJobCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.Name, j.DealID, j.AccountID, j.Value, string(j.Stage), string(j.ProjectStatus),
		j.LeaderID, j.IndustryGroup, j.ExpectedConfirmation, j.ProjectStart, j.ProjectEnd,
		j.Notes, j.Priority, j.LostReason, j.CreatedAt, j.LastActivityAt,
	)
	return eris.Wrapf(err, "sqlite: insert job %s", j.ID)
}

func (s *SQLiteStore) UpdateJob(ctx context.Context, j model.Job) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET name = ?, deal_id = ?, account_id = ?, value = ?, stage = ?,
		 project_status = ?, leader_id = ?, industry_group = ?, expected_confirmation = ?,
		 project_start = ?, project_end = ?, notes = ?, priority = ?, lost_reason = ?,
		 last_activity_at = ? WHERE id = ?`,
		j.Name, j.DealID, j.AccountID, j.Value, string(j.Stage),
		string(j.ProjectStatus), j.LeaderID, j.IndustryGroup, j.ExpectedConfirmation,
		j.ProjectStart, j.ProjectEnd, j.Notes, j.Priority, j.LostReason,
		j.LastActivityAt, j.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update job %s", j.ID)
	}
	return checkRowsAffected(res, "job", j.ID)
}

func (s *SQLiteStore) DeleteJob(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete job %s", id)
	}
	return checkRowsAffected(res, "job", id)
}

func (s *SQLiteStore) GetJob(ctx context.Context, id string) (*model.Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sqliteJobCols+` FROM jobs WHERE id = ?`, id)
	j, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("job not found: %s", id)
	}
	return j, err
}

func (s *SQLiteStore) ListJobs(ctx context.Context) ([]model.Job, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sqliteJobCols+` FROM jobs ORDER BY created_at, id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list jobs")
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, eris.Wrap(rows.Err(), "sqlite: list jobs iterate")
}

// Accounts

const sqliteAccountCols = `id, name, legal_name, billing_address, payment_terms, industry,
	industry_group, owner_id, created_at, last_activity_at`

func (s *SQLiteStore) CreateAccount(ctx context.Context, a model.Account) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (`+sqliteAccountCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.LegalName, a.BillingAddress, a.PaymentTerms, a.Industry,
		a.IndustryGroup, a.OwnerID, a.CreatedAt, a.LastActivityAt,
	)
	return eris.Wrapf(err, "sqlite: insert account %s", a.ID)
}

func (s *SQLiteStore) UpdateAccount(ctx context.Context, a model.Account) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET name = ?, legal_name = ?, billing_address = ?, payment_terms = ?,
		 industry = ?, industry_group = ?, owner_id = ?, last_activity_at = ? WHERE id = ?`,
		a.Name, a.LegalName, a.BillingAddress, a.PaymentTerms,
		a.Industry, a.IndustryGroup, a.OwnerID, a.LastActivityAt, a.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update account %s", a.ID)
	}
	return checkRowsAffected(res, "account", a.ID)
}

func (s *SQLiteStore) DeleteAccount(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete account %s", id)
	}
	return checkRowsAffected(res, "account", id)
}

func (s *SQLiteStore) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sqliteAccountCols+` FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("account not found: %s", id)
	}
	return a, err
}

func (s *SQLiteStore) ListAccounts(ctx context.Context) ([]model.Account, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sqliteAccountCols+` FROM accounts ORDER BY name, id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list accounts")
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, eris.Wrap(rows.Err(), "sqlite: list accounts iterate")
}

// Leaders

const sqliteLeaderCols = `id, name, email, avatar, industry_groups, role, created_at`

func (s *SQLiteStore) CreateLeader(ctx context.Context, l model.ClientLeader) error {
	groups, err := json.Marshal(l.IndustryGroups)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal industry groups")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO leaders (`+sqliteLeaderCols+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Name, l.Email, l.Avatar, string(groups), string(l.Role), l.CreatedAt,
	)
	return eris.Wrapf(err, "sqlite: insert leader %s", l.ID)
}

func (s *SQLiteStore) UpdateLeader(ctx context.Context, l model.ClientLeader) error {
	groups, err := json.Marshal(l.IndustryGroups)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal industry groups")
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE leaders SET name = ?, email = ?, avatar = ?, industry_groups = ?, role = ? WHERE id = ?`,
		l.Name, l.Email, l.Avatar, string(groups), string(l.Role), l.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update leader %s", l.ID)
	}
	return checkRowsAffected(res, "leader", l.ID)
}

// DeleteLeaderCascade removes the leader and every deal referencing it in one
// transaction. The cascade is deliberate: deals without an accountable leader
// do not linger with a dangling reference.
func (s *SQLiteStore) DeleteLeaderCascade(ctx context.Context, id string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin cascade delete")
	}
	defer tx.Rollback()

	dealRes, err := tx.ExecContext(ctx, `DELETE FROM deals WHERE leader_id = ?`, id)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: cascade delete deals for leader %s", id)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM leaders WHERE id = ?`, id)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: delete leader %s", id)
	}
	if err := checkRowsAffected(res, "leader", id); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit cascade delete")
	}
	n, _ := dealRes.RowsAffected()
	return int(n), nil
}

func (s *SQLiteStore) GetLeader(ctx context.Context, id string) (*model.ClientLeader, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sqliteLeaderCols+` FROM leaders WHERE id = ?`, id)
	l, err := scanLeader(row)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("leader not found: %s", id)
	}
	return l, err
}

func (s *SQLiteStore) ListLeaders(ctx context.Context) ([]model.ClientLeader, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sqliteLeaderCols+` FROM leaders ORDER BY name, id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leaders")
	}
	defer rows.Close()

	var leaders []model.ClientLeader
	for rows.Next() {
		l, err := scanLeader(rows)
		if err != nil {
			return nil, err
		}
		leaders = append(leaders, *l)
	}
	return leaders, eris.Wrap(rows.Err(), "sqlite: list leaders iterate")
}

// ReplaceAll wipes and reloads leader and deal state from a backup document.
func (s *SQLiteStore) ReplaceAll(ctx context.Context, leaders []model.ClientLeader, deals []model.Deal) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin restore")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM deals`); err != nil {
		return eris.Wrap(err, "sqlite: clear deals")
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM leaders`); err != nil {
		return eris.Wrap(err, "sqlite: clear leaders")
	}

	for _, l := range leaders {
		groups, err := json.Marshal(l.IndustryGroups)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal industry groups")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO leaders (`+sqliteLeaderCols+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			l.ID, l.Name, l.Email, l.Avatar, string(groups), string(l.Role), l.CreatedAt,
		); err != nil {
			return eris.Wrapf(err, "sqlite: restore leader %s", l.ID)
		}
	}
	for _, d := range deals {
		custom, err := marshalCustom(d.Custom)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO deals (`+sqliteDealCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			d.ID, d.Name, d.Value, string(d.Stage), d.Probability, d.LeaderID, d.AccountID,
			d.IndustryGroup, d.CreatedAt, d.LastActivityAt, d.ExpectedClose, d.Notes, custom,
		); err != nil {
			return eris.Wrapf(err, "sqlite: restore deal %s", d.ID)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit restore")
}

// Metrics snapshots

func (s *SQLiteStore) SaveMetricsSnapshot(ctx context.Context, snap MetricsSnapshot) error {
	summary, err := json.Marshal(snap.Summary)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal snapshot summary")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO metrics_snapshots (id, taken_at, summary) VALUES (?, ?, ?)`,
		snap.ID, snap.TakenAt, string(summary),
	)
	return eris.Wrapf(err, "sqlite: insert snapshot %s", snap.ID)
}

func (s *SQLiteStore) ListMetricsSnapshots(ctx context.Context, limit int) ([]MetricsSnapshot, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, taken_at, summary FROM metrics_snapshots ORDER BY taken_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list snapshots")
	}
	defer rows.Close()

	var snaps []MetricsSnapshot
	for rows.Next() {
		var snap MetricsSnapshot
		var summary string
		if err := rows.Scan(&snap.ID, &snap.TakenAt, &summary); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan snapshot")
		}
		if err := json.Unmarshal([]byte(summary), &snap.Summary); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal snapshot summary")
		}
		snaps = append(snaps, snap)
	}
	return snaps, eris.Wrap(rows.Err(), "sqlite: list snapshots iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

func marshalCustom(c model.CustomFields) (sql.NullString, error) {
	if c.Priority == "" && c.Source == "" && c.Competitor == "" && len(c.Extra) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(c)
	if err != nil {
		return sql.NullString{}, eris.Wrap(err, "marshal custom fields")
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanDeal(row scannable) (*model.Deal, error) {
	var d model.Deal
	var stage string
	var custom sql.NullString

	err := row.Scan(&d.ID, &d.Name, &d.Value, &stage, &d.Probability, &d.LeaderID,
		&d.AccountID, &d.IndustryGroup, &d.CreatedAt, &d.LastActivityAt,
		&d.ExpectedClose, &d.Notes, &custom)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, eris.Wrap(err, "sqlite: scan deal")
	}
	d.Stage = model.DealStage(stage)
	if custom.Valid {
		if err := json.Unmarshal([]byte(custom.String), &d.Custom); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal custom fields")
		}
	}
	d.CreatedAt = d.CreatedAt.UTC()
	d.LastActivityAt = d.LastActivityAt.UTC()
	return &d, nil
}

func scanJob(row scannable) (*model.Job, error) {
	var j model.Job
	var stage, status string

	err := row.Scan(&j.ID, &j.Name, &j.DealID, &j.AccountID, &j.Value, &stage, &status,
		&j.LeaderID, &j.IndustryGroup, &j.ExpectedConfirmation, &j.ProjectStart,
		&j.ProjectEnd, &j.Notes, &j.Priority, &j.LostReason, &j.CreatedAt, &j.LastActivityAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, eris.Wrap(err, "sqlite: scan job")
	}
	j.Stage = model.JobStage(stage)
	j.ProjectStatus = model.ProjectStatus(status)
	j.CreatedAt = j.CreatedAt.UTC()
	j.LastActivityAt = j.LastActivityAt.UTC()
	return &j, nil
}

func scanAccount(row scannable) (*model.Account, error) {
	var a model.Account
	err := row.Scan(&a.ID, &a.Name, &a.LegalName, &a.BillingAddress, &a.PaymentTerms,
		&a.Industry, &a.IndustryGroup, &a.OwnerID, &a.CreatedAt, &a.LastActivityAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, eris.Wrap(err, "sqlite: scan account")
	}
	a.CreatedAt = a.CreatedAt.UTC()
	a.LastActivityAt = a.LastActivityAt.UTC()
	return &a, nil
}

func scanLeader(row scannable) (*model.ClientLeader, error) {
	var l model.ClientLeader
	var groups, role string

	err := row.Scan(&l.ID, &l.Name, &l.Email, &l.Avatar, &groups, &role, &l.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, eris.Wrap(err, "sqlite: scan leader")
	}
	if err := json.Unmarshal([]byte(groups), &l.IndustryGroups); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal industry groups")
	}
	l.Role = model.Role(role)
	l.CreatedAt = l.CreatedAt.UTC()
	return &l, nil
}
