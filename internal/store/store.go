package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/brainwave-viewer/internal/sim"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id         TEXT PRIMARY KEY,
	policy_type    TEXT NOT NULL,
	max_timesteps  INTEGER NOT NULL,
	steps          INTEGER NOT NULL,
	request_json   TEXT NOT NULL,
	response_json  TEXT NOT NULL,
	counterpart_id TEXT,
	created_at     TEXT NOT NULL,
	FOREIGN KEY (counterpart_id) REFERENCES runs(run_id)
);

CREATE TABLE IF NOT EXISTS call_log (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id       TEXT,
	policy_type  TEXT NOT NULL,
	transport    TEXT NOT NULL,
	outcome      TEXT NOT NULL,
	status       INTEGER,
	duration_ms  INTEGER NOT NULL,
	error_text   TEXT,
	created_at   TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct
// Store keeps fetched runs for the lifetime of the process.
type Store struct {
	db *sqlx.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations. ":memory:" keeps
// everything in process memory.
func NewStore(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// an in-memory database exists per connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db.DB
}

// #endregion db-accessor

// #region save-run
// SaveRun stores a fetched response under a new run ID. The response is
// stored as the backend sent it.
func (s *Store) SaveRun(req sim.Request, resp *sim.Response) (Run, error) {
	if resp == nil {
		return Run{}, errors.New("save run: nil response")
	}
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return Run{}, fmt.Errorf("marshal request: %w", err)
	}
	respJSON, err := json.Marshal(resp)
	if err != nil {
		return Run{}, fmt.Errorf("marshal response: %w", err)
	}

	run := Run{
		ID:        uuid.New().String(),
		Request:   req,
		Response:  resp,
		CreatedAt: time.Now().UTC(),
	}
	_, err = s.db.Exec(
		`INSERT INTO runs (run_id, policy_type, max_timesteps, steps, request_json, response_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, string(req.PolicyType), req.Scenario.MaxTimesteps, resp.Len(),
		string(reqJSON), string(respJSON), run.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// #endregion save-run

// #region get-run
type runRow struct {
	ID            string         `db:"run_id"`
	RequestJSON   string         `db:"request_json"`
	ResponseJSON  string         `db:"response_json"`
	CounterpartID sql.NullString `db:"counterpart_id"`
	CreatedAt     string         `db:"created_at"`
}

// GetRun loads a stored run. Unknown IDs return ErrRunNotFound.
func (s *Store) GetRun(id string) (Run, error) {
	var row runRow
	err := s.db.Get(&row,
		`SELECT run_id, request_json, response_json, counterpart_id, created_at
		 FROM runs WHERE run_id = ?`, id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}

	run := Run{ID: row.ID, CounterpartID: row.CounterpartID.String}
	if err := json.Unmarshal([]byte(row.RequestJSON), &run.Request); err != nil {
		return Run{}, fmt.Errorf("unmarshal request: %w", err)
	}
	if run.Response, err = sim.DecodeResponse([]byte(row.ResponseJSON)); err != nil {
		return Run{}, err
	}
	run.CreatedAt, _ = time.Parse(time.RFC3339Nano, row.CreatedAt)
	return run, nil
}

// #endregion get-run

// #region link-counterparts
// LinkCounterparts points run a at run b as the other policy of its scenario.
// The back link from b to a is set only when b has none yet, so a baseline
// shared by several runs keeps its first partner.
func (s *Store) LinkCounterparts(a, b string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, id := range []string{a, b} {
		var n int
		if err := tx.Get(&n, `SELECT COUNT(*) FROM runs WHERE run_id = ?`, id); err != nil {
			return fmt.Errorf("link %s: %w", id, err)
		}
		if n == 0 {
			return fmt.Errorf("link %s: %w", id, ErrRunNotFound)
		}
	}

	if _, err := tx.Exec(`UPDATE runs SET counterpart_id = ? WHERE run_id = ?`, b, a); err != nil {
		return fmt.Errorf("link %s: %w", a, err)
	}
	if _, err := tx.Exec(
		`UPDATE runs SET counterpart_id = ? WHERE run_id = ? AND counterpart_id IS NULL`, a, b,
	); err != nil {
		return fmt.Errorf("link %s: %w", b, err)
	}
	return tx.Commit()
}

// #endregion link-counterparts

// #region list-runs
// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]RunSummary, error) {
	var runs []RunSummary
	err := s.db.Select(&runs,
		`SELECT run_id, policy_type, max_timesteps, steps, COALESCE(counterpart_id, '') AS counterpart_id, created_at
		 FROM runs ORDER BY rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// #endregion list-runs
