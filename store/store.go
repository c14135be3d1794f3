// Package store owns the relational ULS database: schema and forward
// migrations, per-connection pragma tuning, the bulk inserter, the
// importer, and the read-side metadata/import-status/applied-patch
// ledger accessors.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// ErrNotInitialized reports that no database exists at the configured
// path and the caller asked not to create one. Read-only callers match
// on it with errors.Is to distinguish "never imported" from a broken
// database.
var ErrNotInitialized = errors.New("store: database not initialized")

// driverName is registered once in init with a ConnectHook so every
// pooled connection - not just the first one handed out - gets the
// current pragma set applied. Pragmas configured only on connection #0
// silently do not apply to connections the pool hands out later.
const driverName = "sqlite3_ulsdb"

var (
	pragmaMu      sync.Mutex
	activePragmas []string
)

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			pragmaMu.Lock()
			pragmas := append([]string(nil), activePragmas...)
			pragmaMu.Unlock()
			for _, p := range pragmas {
				if _, err := conn.Exec(p, nil); err != nil {
					return fmt.Errorf("store: pragma %q: %w", p, err)
				}
			}
			return nil
		},
	})
}

func setActivePragmas(pragmas []string) {
	pragmaMu.Lock()
	activePragmas = pragmas
	pragmaMu.Unlock()
}

// Store is a handle to one open ULS database.
type Store struct {
	db     *sql.DB
	cfg    Config
	logger *logrus.Logger
}

// Open connects to the database described by cfg, applying pragma tuning
// and running any pending forward migrations. Acquiring the initial
// connection is retried with bounded exponential backoff: a freshly
// checkpointing WAL writer can hold the file exclusively for a moment,
// and failing immediately on that transient lock would be needlessly
// fragile.
func Open(cfg Config, logger *logrus.Logger) (*Store, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if !cfg.CreateIfMissing {
		if _, err := os.Stat(cfg.Path); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrNotInitialized, cfg.Path)
		}
	}
	setActivePragmas(connectionPragmas(cfg))

	var db *sql.DB
	operation := func() error {
		var err error
		db, err = sql.Open(driverName, cfg.Path)
		if err != nil {
			return err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return err
		}
		return nil
	}
	b := backoff.NewExponentialBackOff()
	if cfg.ConnectionTimeout > 0 {
		b.MaxElapsedTime = cfg.ConnectionTimeout
	}
	if err := backoff.Retry(operation, b); err != nil {
		return nil, fmt.Errorf("store: open %s: %w", cfg.Path, err)
	}
	db.SetMaxOpenConns(cfg.MaxConnections)

	s := &Store{db: db, cfg: cfg, logger: logger}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return s, nil
}

// connectionPragmas builds the steady-state (non-bulk-load) pragma list
// applied to every connection.
func connectionPragmas(cfg Config) []string {
	journalMode := "DELETE"
	if cfg.EnableWAL {
		journalMode = "WAL"
	}
	foreignKeys := "OFF"
	if cfg.ForeignKeys {
		foreignKeys = "ON"
	}
	return []string{
		fmt.Sprintf("PRAGMA journal_mode=%s", journalMode),
		"PRAGMA synchronous=NORMAL",
		fmt.Sprintf("PRAGMA cache_size=%d", cfg.CacheSize),
		"PRAGMA temp_store=MEMORY",
		fmt.Sprintf("PRAGMA foreign_keys=%s", foreignKeys),
		"PRAGMA busy_timeout=5000",
	}
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying *sql.DB for packages (query) that need to
// issue their own read-side SQL beyond what store itself wraps.
func (s *Store) DB() *sql.DB { return s.db }

// SchemaVersion returns the compiled-in migration target this build
// expects the database to be at after Open.
func (s *Store) SchemaVersion() int { return schemaVersion }

// Now is overridable in tests; production code always uses time.Now.
var Now = time.Now
