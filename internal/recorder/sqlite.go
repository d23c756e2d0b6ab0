package recorder

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id        TEXT PRIMARY KEY,
			timestamp     INTEGER NOT NULL,
			seed          REAL,
			rate          REAL,
			rate_fallback INTEGER,
			candidates    INTEGER,
			holdings      INTEGER,
			skipped       INTEGER,
			delivered     INTEGER,
			auto          INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS readings (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL,
			ticker      TEXT NOT NULL,
			kind        TEXT NOT NULL,
			rsi         REAL,
			last_close  REAL,
			quantity    INTEGER,
			limit_price REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_readings_run ON readings(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_readings_ticker ON readings(ticker)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT OR REPLACE INTO runs
		(run_id, timestamp, seed, rate, rate_fallback, candidates, holdings, skipped, delivered, auto)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		rec.RunID, rec.StartedAt.Unix(), rec.Seed, rec.Rate, rec.RateFallback,
		rec.Candidates, rec.Holdings, rec.Skipped, rec.Delivered, rec.Auto,
	)
	return err
}

func (r *SQLiteRecorder) RecordReading(rec *ReadingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// SQLite has no NaN; a flat series is stored as NULL.
	var rsi sql.NullFloat64
	if !math.IsNaN(rec.RSI) {
		rsi = sql.NullFloat64{Float64: rec.RSI, Valid: true}
	}
	_, err := r.db.Exec(`INSERT INTO readings
		(run_id, ticker, kind, rsi, last_close, quantity, limit_price)
		VALUES (?,?,?,?,?,?,?)`,
		rec.RunID, rec.Ticker, rec.Kind, rsi, rec.LastClose, rec.Quantity, rec.LimitPrice,
	)
	return err
}

// CountReadings returns how many readings were stored for a run.
func (r *SQLiteRecorder) CountReadings(runID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM readings WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}
