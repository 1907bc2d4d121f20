package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // register the pure-Go sqlite driver
)

// Options controls connection behavior for the SQLite file store.
type Options struct {
	BusyTimeout time.Duration
	PingTimeout time.Duration
}

// DefaultOptions returns defaults suitable for a long-running server process.
func DefaultOptions() Options {
	return Options{
		BusyTimeout: 5 * time.Second,
		PingTimeout: 5 * time.Second,
	}
}

// Connect opens the SQLite database at path, creating parent directories as
// needed, and enables WAL mode so readers do not block behind the writer.
// The returned *sql.DB should be shared and re-used by callers.
func Connect(ctx context.Context, path string, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("database path is empty")
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite permits a single writer; serialize writes through one connection.
	database.SetMaxOpenConns(1)

	pingTimeout := opts.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := database.PingContext(pingCtx); err != nil {
		database.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	busyTimeout := opts.BusyTimeout
	if busyTimeout <= 0 {
		busyTimeout = 5 * time.Second
	}
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeout.Milliseconds()),
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := database.ExecContext(ctx, pragma); err != nil {
			database.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	log.Printf("db init path=%s journal_mode=wal", path)
	return database, nil
}

// ConnectMemory opens an in-memory SQLite database, useful for tests.
func ConnectMemory(ctx context.Context) (*sql.DB, error) {
	database, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open memory database: %w", err)
	}
	database.SetMaxOpenConns(1)
	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("ping memory database: %w", err)
	}
	return database, nil
}
