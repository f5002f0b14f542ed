package experiment

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/alineAssuncao/kaggle-regression-lab/pkg/errors"
)

// RunStore records finished runs in a SQLite database so runs can be
// compared across invocations.
type RunStore struct {
	db *sql.DB
}

const runsSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	family      TEXT NOT NULL,
	dataset     TEXT NOT NULL,
	target      TEXT NOT NULL,
	train_rows  INTEGER NOT NULL,
	test_rows   INTEGER NOT NULL,
	features    INTEGER NOT NULL,
	seed        INTEGER NOT NULL,
	mse         REAL NOT NULL,
	rmse        REAL NOT NULL,
	mae         REAL NOT NULL,
	r2          REAL NOT NULL,
	mape        REAL NOT NULL,
	train_score REAL NOT NULL,
	report_json TEXT NOT NULL,
	started_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// OpenRunStore opens (and if needed creates) the run database at path.
func OpenRunStore(path string) (*RunStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.NewDataError(path, "failed to open run store", err)
	}
	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(runsSchema); err != nil {
		db.Close()
		return nil, errors.NewDataError(path, "failed to initialize run store schema", err)
	}
	return &RunStore{db: db}, nil
}

// Save inserts a finished run.
func (s *RunStore) Save(r *Report) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "run store: marshal report")
	}
	_, err = s.db.Exec(`
		INSERT INTO runs (id, family, dataset, target, train_rows, test_rows,
			features, seed, mse, rmse, mae, r2, mape, train_score,
			report_json, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Family, r.Dataset, r.Target, r.TrainRows, r.TestRows,
		r.Features, r.Seed, r.Metrics.MSE, r.Metrics.RMSE, r.Metrics.MAE,
		r.Metrics.R2, r.Metrics.MAPE, r.TrainScore,
		string(raw), r.StartedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return errors.Wrap(err, "run store: insert")
	}
	return nil
}

// List returns up to limit runs, newest first. limit 0 returns all.
func (s *RunStore) List(limit int) ([]*Report, error) {
	query := `SELECT report_json FROM runs ORDER BY started_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "run store: query")
	}
	defer rows.Close()

	var reports []*Report
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, errors.Wrap(err, "run store: scan")
		}
		var r Report
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, errors.Wrap(err, "run store: unmarshal report")
		}
		reports = append(reports, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "run store: iterate")
	}
	return reports, nil
}

// Best returns the lowest-RMSE run for a dataset, or nil when the
// store has none.
func (s *RunStore) Best(datasetPath string) (*Report, error) {
	row := s.db.QueryRow(`
		SELECT report_json FROM runs
		WHERE dataset = ?
		ORDER BY rmse ASC LIMIT 1`, datasetPath)

	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "run store: best")
	}
	var r Report
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, errors.Wrap(err, "run store: unmarshal report")
	}
	return &r, nil
}

// Close closes the underlying database.
func (s *RunStore) Close() error {
	return s.db.Close()
}
