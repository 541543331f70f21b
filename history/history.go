// Package history keeps the per epoch results of training runs in a SQLite database.
package history

import "database/sql"
import "time"

import "github.com/pkg/errors"
import _ "modernc.org/sqlite"

import "github.com/neurlang/slotfiller/trainer"

const schema = `
	CREATE TABLE IF NOT EXISTS epochs(
		run_id TEXT NOT NULL,
		epoch INTEGER NOT NULL,
		ts REAL NOT NULL,
		valid_precision REAL NOT NULL,
		valid_recall REAL NOT NULL,
		valid_f1 REAL NOT NULL,
		test_precision REAL NOT NULL,
		test_recall REAL NOT NULL,
		test_f1 REAL NOT NULL,
		promoted INTEGER NOT NULL,
		best_epoch INTEGER NOT NULL,
		steps INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		loss REAL NOT NULL,
		fingerprint TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		PRIMARY KEY(run_id, epoch)
	)`

// Row is one recorded epoch
type Row struct {
	RunID string
	Epoch int
	Time  time.Time

	ValidPrecision, ValidRecall, ValidF1 float64
	TestPrecision, TestRecall, TestF1    float64

	Promoted  bool
	BestEpoch int

	Steps, Skipped int
	Loss           float64
	Fingerprint    string
	Duration       time.Duration
}

// Recorder appends epoch reports to the database. It implements trainer.Observer.
type Recorder struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path
func Open(path string) (*Recorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	// one writer, sqlite serializes anyway
	db.SetMaxOpenConns(1)
	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "create schema in %s", path)
	}
	return &Recorder{db: db, now: time.Now}, nil
}

// Close closes the database
func (r *Recorder) Close() error {
	return r.db.Close()
}

// Observe records the report
func (r *Recorder) Observe(rep trainer.EpochReport) error {
	return r.Record(rep)
}

// Record inserts one row for the report. Recording the same run and epoch twice replaces the row.
func (r *Recorder) Record(rep trainer.EpochReport) error {
	_, err := r.db.Exec(`INSERT OR REPLACE INTO epochs(run_id, epoch, ts,
		valid_precision, valid_recall, valid_f1, test_precision, test_recall, test_f1,
		promoted, best_epoch, steps, skipped, loss, fingerprint, duration_ms)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rep.RunID, rep.Epoch, float64(r.now().UnixMilli())/1000.0,
		rep.Valid.Precision, rep.Valid.Recall, rep.Valid.F1,
		rep.Test.Precision, rep.Test.Recall, rep.Test.F1,
		rep.Promoted, rep.BestEpoch, rep.Steps, rep.Skipped, rep.Loss,
		rep.Fingerprint.String(), rep.Duration.Milliseconds())
	return errors.Wrapf(err, "record run %s epoch %d", rep.RunID, rep.Epoch)
}

const columns = `run_id, epoch, ts, valid_precision, valid_recall, valid_f1,
	test_precision, test_recall, test_f1, promoted, best_epoch, steps, skipped,
	loss, fingerprint, duration_ms`

// Epochs lists the rows of run in epoch order, or of every run when run is empty
func (r *Recorder) Epochs(run string) ([]Row, error) {
	var rows *sql.Rows
	var err error
	if run == "" {
		rows, err = r.db.Query("SELECT " + columns + " FROM epochs ORDER BY ts, run_id, epoch")
	} else {
		rows, err = r.db.Query("SELECT "+columns+" FROM epochs WHERE run_id = ? ORDER BY epoch", run)
	}
	if err != nil {
		return nil, errors.Wrap(err, "query epochs")
	}
	defer rows.Close()
	return scan(rows)
}

// Best returns the last promoted epoch of run
func (r *Recorder) Best(run string) (row Row, ok bool, err error) {
	rows, err := r.db.Query("SELECT "+columns+" FROM epochs WHERE run_id = ? AND promoted ORDER BY epoch DESC LIMIT 1", run)
	if err != nil {
		return row, false, errors.Wrap(err, "query best epoch")
	}
	defer rows.Close()
	found, err := scan(rows)
	if err != nil || len(found) == 0 {
		return row, false, err
	}
	return found[0], true, nil
}

func scan(rows *sql.Rows) (out []Row, err error) {
	for rows.Next() {
		var row Row
		var ts float64
		var ms int64
		err = rows.Scan(&row.RunID, &row.Epoch, &ts,
			&row.ValidPrecision, &row.ValidRecall, &row.ValidF1,
			&row.TestPrecision, &row.TestRecall, &row.TestF1,
			&row.Promoted, &row.BestEpoch, &row.Steps, &row.Skipped,
			&row.Loss, &row.Fingerprint, &ms)
		if err != nil {
			return nil, errors.Wrap(err, "scan epoch")
		}
		row.Time = time.UnixMilli(int64(ts * 1000))
		row.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, row)
	}
	return out, errors.Wrap(rows.Err(), "read epochs")
}
