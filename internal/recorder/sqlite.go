package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists round events to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS rounds (
			round_id     TEXT PRIMARY KEY,
			started_at   INTEGER NOT NULL,
			ticker       TEXT NOT NULL,
			provider     TEXT,
			start_date   TEXT,
			start_close  TEXT,
			series_len   INTEGER,
			ended_at     INTEGER,
			end_reason   TEXT,
			final_score  INTEGER,
			predictions  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_ticker ON rounds(ticker)`,

		`CREATE TABLE IF NOT EXISTS predictions (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			round_id     TEXT NOT NULL,
			timestamp    INTEGER NOT NULL,
			from_date    TEXT,
			to_date      TEXT,
			from_close   TEXT,
			to_close     TEXT,
			guess        TEXT,
			correct      INTEGER,
			score_after  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_round ON predictions(round_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func unixOrNow(t time.Time) int64 {
	if t.IsZero() {
		return time.Now().Unix()
	}
	return t.Unix()
}

func (r *SQLiteRecorder) RecordRoundStart(evt *RoundStart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO rounds
		(round_id, started_at, ticker, provider, start_date, start_close, series_len)
		VALUES (?,?,?,?,?,?,?)`,
		evt.RoundID, unixOrNow(evt.At), evt.Ticker, evt.Provider,
		evt.StartDate, evt.StartClose, evt.SeriesLen,
	)
	return err
}

func (r *SQLiteRecorder) RecordPrediction(evt *PredictionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	correct := 0
	if evt.Correct {
		correct = 1
	}
	_, err := r.db.Exec(`INSERT INTO predictions
		(round_id, timestamp, from_date, to_date, from_close, to_close, guess, correct, score_after)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		evt.RoundID, unixOrNow(evt.At), evt.FromDate, evt.ToDate,
		evt.FromClose, evt.ToClose, evt.Guess, correct, evt.ScoreAfter,
	)
	return err
}

func (r *SQLiteRecorder) RecordRoundEnd(evt *RoundEnd) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.Exec(`UPDATE rounds
		SET ended_at = ?, end_reason = ?, final_score = ?, predictions = ?
		WHERE round_id = ?`,
		unixOrNow(evt.At), evt.Reason, evt.FinalScore, evt.Predictions, evt.RoundID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("round %s not found", evt.RoundID)
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
