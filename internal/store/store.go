// Package store keeps per-subject conditioning results in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	// Pure Go SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/cwbudde/algo-motion/pipeline"
	"github.com/cwbudde/algo-motion/series"
)

// ErrNotFound is returned for an unknown run ID.
var ErrNotFound = errors.New("store: run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	started_at INTEGER NOT NULL,
	config     TEXT NOT NULL,
	subjects   INTEGER NOT NULL,
	failed     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS subjects (
	run_id       TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	seq          INTEGER NOT NULL,
	subject      TEXT NOT NULL,
	username     TEXT NOT NULL,
	file         TEXT NOT NULL,
	samples      INTEGER NOT NULL,
	fs           REAL NOT NULL,
	primary_axis TEXT NOT NULL,
	spikes       INTEGER NOT NULL,
	elapsed_us   INTEGER NOT NULL,
	error        TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);
CREATE TABLE IF NOT EXISTS axis_stats (
	run_id   TEXT NOT NULL,
	seq      INTEGER NOT NULL,
	axis     TEXT NOT NULL,
	min      REAL NOT NULL,
	max      REAL NOT NULL,
	mean     REAL NOT NULL,
	stdev    REAL NOT NULL,
	dominant REAL NOT NULL,
	PRIMARY KEY (run_id, seq, axis),
	FOREIGN KEY (run_id, seq) REFERENCES subjects(run_id, seq) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`

// Store is a handle to the results database. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Run is one stored batch.
type Run struct {
	ID       string
	Started  time.Time
	Config   pipeline.Config
	Subjects int
	Failed   int
}

// Subject is one stored per-subject result. Err is empty on success.
type Subject struct {
	Subject  string
	Username string
	File     string
	Samples  int
	FS       float64
	Primary  string
	Spikes   int
	Elapsed  time.Duration
	Err      string
	Stats    [3]series.AxisStats
	Dominant [3]float64
}

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// SaveRun stores a batch and its per-subject results under a new run ID.
func (s *Store) SaveRun(ctx context.Context, started time.Time, cfg pipeline.Config, results []pipeline.Result) (Run, error) {
	cfgText, err := yaml.Marshal(cfg)
	if err != nil {
		return Run{}, fmt.Errorf("store: encode config: %w", err)
	}

	run := Run{
		ID:       uuid.NewString(),
		Started:  started,
		Config:   cfg,
		Subjects: len(results),
	}

	for _, r := range results {
		if r.Err != nil {
			run.Failed++
		}
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (id, started_at, config, subjects, failed) VALUES (?, ?, ?, ?, ?)`,
			run.ID, started.UnixMilli(), string(cfgText), run.Subjects, run.Failed); err != nil {
			return err
		}

		for seq, r := range results {
			if err := insertSubject(ctx, tx, run.ID, seq, r); err != nil {
				return fmt.Errorf("subject %s: %w", r.Subject, err)
			}
		}

		return nil
	})
	if err != nil {
		return Run{}, fmt.Errorf("store: save run: %w", err)
	}

	return run, nil
}

func insertSubject(ctx context.Context, tx *sql.Tx, runID string, seq int, r pipeline.Result) error {
	a := r.Series

	errText := ""
	if r.Err != nil {
		errText = r.Err.Error()
	}

	primary := ""
	if r.Err == nil {
		primary = a.Primary.String()
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO subjects (run_id, seq, subject, username, file, samples, fs, primary_axis, spikes, elapsed_us, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, seq, r.Subject, a.Raw.Username, a.Raw.File, a.Len(), a.FS, primary,
		a.Signals.Count(), r.Elapsed.Microseconds(), errText); err != nil {
		return err
	}

	if r.Err != nil {
		return nil
	}

	for _, ax := range series.Axes {
		st := a.Stats[ax]
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO axis_stats (run_id, seq, axis, min, max, mean, stdev, dominant) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, seq, ax.String(), st.Min, st.Max, st.Mean, st.Stdev, a.Dominant[ax]); err != nil {
			return err
		}
	}

	return nil
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, config, subjects, failed FROM runs ORDER BY started_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run

	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}

	return runs, nil
}

// GetRun returns the run with the given ID.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, config, subjects, failed FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return run, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run     Run
		started int64
		cfgText string
	)

	if err := sc.Scan(&run.ID, &started, &cfgText, &run.Subjects, &run.Failed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}

		return Run{}, fmt.Errorf("store: scan run: %w", err)
	}

	run.Started = time.UnixMilli(started)

	cfg, err := pipeline.ParseConfig([]byte(cfgText))
	if err != nil {
		return Run{}, fmt.Errorf("store: run %s config: %w", run.ID, err)
	}

	run.Config = cfg

	return run, nil
}

// Subjects returns the per-subject results of a run in batch order.
func (s *Store) Subjects(ctx context.Context, runID string) ([]Subject, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, subject, username, file, samples, fs, primary_axis, spikes, elapsed_us, error
		 FROM subjects WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("store: subjects: %w", err)
	}
	defer rows.Close()

	var (
		out []Subject
		seq = map[int]int{}
	)

	for rows.Next() {
		var (
			sub       Subject
			n         int
			elapsedUS int64
		)

		if err := rows.Scan(&n, &sub.Subject, &sub.Username, &sub.File, &sub.Samples, &sub.FS,
			&sub.Primary, &sub.Spikes, &elapsedUS, &sub.Err); err != nil {
			return nil, fmt.Errorf("store: scan subject: %w", err)
		}

		sub.Elapsed = time.Duration(elapsedUS) * time.Microsecond
		seq[n] = len(out)
		out = append(out, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: subjects: %w", err)
	}

	if err := s.loadStats(ctx, runID, out, seq); err != nil {
		return nil, err
	}

	return out, nil
}

func (s *Store) loadStats(ctx context.Context, runID string, out []Subject, seq map[int]int) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, axis, min, max, mean, stdev, dominant FROM axis_stats WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("store: axis stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			n        int
			axisName string
			st       series.AxisStats
			dominant float64
		)

		if err := rows.Scan(&n, &axisName, &st.Min, &st.Max, &st.Mean, &st.Stdev, &dominant); err != nil {
			return fmt.Errorf("store: scan axis stats: %w", err)
		}

		ax, err := series.ParseAxis(axisName)
		if err != nil {
			return fmt.Errorf("store: axis stats: %w", err)
		}

		i, ok := seq[n]
		if !ok {
			continue
		}

		out[i].Stats[ax] = st
		out[i].Dominant[ax] = dominant
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("store: axis stats: %w", err)
	}

	return nil
}

// DeleteRun removes a run and its results.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete run: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return nil
}

// withTx runs fn in a transaction, rolling back on error or panic.
func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
