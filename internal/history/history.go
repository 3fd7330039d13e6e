// Package history keeps a SQLite ledger of validation runs.
//
// Each run stores one row in runs and one row per validated file in
// run_files, verdicts included. The ledger backs the `zonegit history`
// subcommand and the report API; it is written by the runner after a run
// completes and is never consulted during validation itself, so losing it
// costs nothing but the audit trail.
package history

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNoRun is returned when a requested run id does not exist.
var ErrNoRun = errors.New("run not found")

// DB wraps the ledger's SQLite connection with thread-safe operations.
type DB struct {
	conn *sql.DB
	mu   sync.Mutex // Serializes writes; SQLite allows one writer
}

// Open opens or creates the ledger at the given path and brings its
// schema up to date.
func Open(path string) (*DB, error) {
	// WAL so a serve process can read while a hook run writes
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	conn.SetMaxOpenConns(4)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(time.Hour)

	if err := runMigrations(conn, migrationsFS); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the ledger connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Health checks ledger connectivity.
func (db *DB) Health() error {
	return db.conn.Ping()
}

func runMigrations(conn *sql.DB, migrations fs.FS) error {
	driver, err := migratesqlite.WithInstance(conn, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
