package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/guregu/null/v6"
	_ "modernc.org/sqlite"

	"github.com/Pratik8019/quant-app/internal/model"
)

// SQLiteRecorder persists run, trade and alert history to a SQLite
// database.
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

	// WAL mode for better concurrent read performance (dashboards read
	// while the daemon writes).
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
		`CREATE TABLE IF NOT EXISTS runs (
			run_id        TEXT PRIMARY KEY,
			created_at    INTEGER NOT NULL,
			symbol_a      TEXT NOT NULL,
			symbol_b      TEXT NOT NULL,
			interval      TEXT NOT NULL,
			as_of         INTEGER,
			hedge_ratio   REAL,
			hedge_method  TEXT,
			r_squared     REAL,
			degenerate    INTEGER,
			adf_stat      REAL,
			adf_p         REAL,
			adf_lags      INTEGER,
			stationary    INTEGER,
			latest_z      REAL,
			num_trades    INTEGER,
			win_rate      REAL,
			total_return  REAL,
			warnings      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)`,

		`CREATE TABLE IF NOT EXISTS trades (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id       TEXT NOT NULL,
			entry_ts     INTEGER,
			exit_ts      INTEGER,
			direction    TEXT,
			entry_z      REAL,
			exit_z       REAL,
			entry_spread REAL,
			exit_spread  REAL,
			pnl          REAL,
			unrealized   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id)`,

		`CREATE TABLE IF NOT EXISTS alerts (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			pair      TEXT,
			zscore    REAL,
			threshold REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_ts ON alerts(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// nullable maps a null.Float to its database value.
func nullable(f null.Float) any {
	if !f.Valid {
		return nil
	}
	return f.Float64
}

func (r *SQLiteRecorder) RecordRun(b *model.AnalysisBundle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var latestZ any
	if z, ok := b.LatestZ(); ok {
		latestZ = z.Value.Float64
	}

	_, err := r.db.Exec(`INSERT INTO runs
		(run_id, created_at, symbol_a, symbol_b, interval, as_of,
		 hedge_ratio, hedge_method, r_squared, degenerate,
		 adf_stat, adf_p, adf_lags, stationary,
		 latest_z, num_trades, win_rate, total_return, warnings)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.RunID.String(), time.Now().Unix(), b.SymbolA, b.SymbolB, string(b.Interval), b.AsOf.Unix(),
		b.Hedge.Ratio, string(b.Hedge.Method), nullable(b.Hedge.RSquared), b.Hedge.ConditionFlag,
		nullable(b.ADF.Statistic), nullable(b.ADF.PValue), b.ADF.UsedLags, b.ADF.IsStationary,
		latestZ, b.Backtest.NumTrades, b.Backtest.WinRate, b.Backtest.TotalReturn,
		strings.Join(b.Warnings, "; "),
	)
	return err
}

func (r *SQLiteRecorder) RecordTrades(b *model.AnalysisBundle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range b.Backtest.Trades {
		_, err := r.db.Exec(`INSERT INTO trades
			(run_id, entry_ts, exit_ts, direction, entry_z, exit_z,
			 entry_spread, exit_spread, pnl, unrealized)
			VALUES (?,?,?,?,?,?,?,?,?,?)`,
			b.RunID.String(), t.EntryTime.Unix(), t.ExitTime.Unix(), string(t.Direction),
			t.EntryZ, t.ExitZ, t.EntrySpread, t.ExitSpread, t.PnL, t.Unrealized,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordAlert(pair string, z, threshold float64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO alerts (timestamp, pair, zscore, threshold)
		VALUES (?,?,?,?)`,
		at.Unix(), pair, z, threshold,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
