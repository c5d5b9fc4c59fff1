package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// metricColumns are the growth columns a current saved_countries table carries.
// Tables created by older deployments may lack them; see EnsureSchema.
var metricColumns = []string{"growth_gdp", "growth_population", "growth_total"}

// DB wraps the SQLite handle together with the one-time schema bootstrap state.
type DB struct {
	*sql.DB

	bootstrapOnce    sync.Once
	bootstrapErr     error
	hasMetricColumns bool
}

// Open creates the SQLite database at the given path, creating the parent
// directory if needed.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" && path != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	// SQLite allows a single writer; one pooled connection also keeps
	// in-memory databases coherent across queries.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return NewDB(db), nil
}

// NewDB wraps an existing database handle.
func NewDB(db *sql.DB) *DB {
	return &DB{DB: db}
}

// EnsureSchema creates the tables and the (user_id, country) unique index if
// absent, then probes which metric columns the saved_countries table actually
// has. It runs at most once per process; concurrent callers block until the
// single in-flight bootstrap completes and then all observe its result.
func (d *DB) EnsureSchema(ctx context.Context) error {
	d.bootstrapOnce.Do(func() {
		d.bootstrapErr = d.bootstrap(ctx)
	})
	return d.bootstrapErr
}

// HasMetricColumns reports whether saved_countries carries the growth metric
// columns. Only meaningful after EnsureSchema has succeeded.
func (d *DB) HasMetricColumns() bool {
	return d.hasMetricColumns
}

func (d *DB) bootstrap(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			roles TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS saved_countries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			country TEXT NOT NULL,
			growth_gdp REAL,
			growth_population REAL,
			growth_total REAL,
			saved_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS saved_countries_user_country_unique
			ON saved_countries (user_id, country)`,
	}

	for _, stmt := range statements {
		if _, err := d.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	// CREATE TABLE IF NOT EXISTS does not alter a pre-existing table, so a
	// database written by an older deployment may still lack the growth
	// columns. Detect that once here instead of sniffing per-query errors.
	hasMetrics, err := d.probeMetricColumns(ctx)
	if err != nil {
		return err
	}
	d.hasMetricColumns = hasMetrics

	if !hasMetrics {
		slog.Warn("saved_countries table predates growth metric columns, metrics will not be persisted")
	}

	return nil
}

func (d *DB) probeMetricColumns(ctx context.Context) (bool, error) {
	rows, err := d.QueryContext(ctx, `PRAGMA table_info(saved_countries)`)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	present := make(map[string]bool)
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, colType    string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return false, err
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return false, err
	}

	for _, col := range metricColumns {
		if !present[col] {
			return false, nil
		}
	}
	return true, nil
}
