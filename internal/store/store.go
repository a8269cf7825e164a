// Package store provides the shared relational on-disk file plumbing
// used by the authenticator, incrementer, and module-command backends
// (spec §6 persistent layouts). All three open the same embedded,
// pure-Go sqlite driver directly through database/sql, mirroring the
// teacher's database package idiom of "open, ping, migrate".
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/uofuseismo/umps/internal/uerrors"
)

// Open creates the parent directory of file if needed, optionally
// truncates an existing file, and opens a *sql.DB against it.
func Open(file string, deleteIfExists bool) (*sql.DB, error) {
	if file == "" {
		return nil, uerrors.New("store.Open", uerrors.InvalidArgument, "file name is empty")
	}
	if dir := filepath.Dir(file); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, uerrors.Wrap("store.Open", uerrors.IoFailure, "failed to create parent directory", err)
		}
	}
	if deleteIfExists {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			return nil, uerrors.Wrap("store.Open", uerrors.IoFailure, "failed to delete existing file", err)
		}
	}

	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, uerrors.Wrap("store.Open", uerrors.IoFailure, "failed to open store", err)
	}
	// The embedded engine serializes writes at the connection-pool level;
	// a single writer avoids "database is locked" errors under the
	// concurrent-write policy of spec §5.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, uerrors.Wrap("store.Open", uerrors.IoFailure, "failed to ping store", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, uerrors.Wrap("store.Open", uerrors.IoFailure, "failed to configure store", err)
	}

	return db, nil
}

// Exec runs a schema statement, wrapping failures with a consistent op
// name for callers' error context.
func Exec(db *sql.DB, op, stmt string) error {
	if _, err := db.Exec(stmt); err != nil {
		return uerrors.Wrap(op, uerrors.IoFailure, fmt.Sprintf("failed to execute %q", stmt), err)
	}
	return nil
}
