// Package sqlite provides an SQLite database adapter for LeapStore.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite" // pure-Go sqlite driver

	"github.com/leapstack-labs/leapstore/pkg/adapter"
	"github.com/leapstack-labs/leapstore/pkg/core"
)

// SQL is the SQLite dialect. Timestamps and dates are stored as compact text
// in TEXT columns so the driver never reinterprets them.
var SQL = &adapter.Dialect{
	Name:            "sqlite",
	TimestampFormat: "20060102150405",
	DateFormat:      "20060102",
	Types: map[core.BasicType]string{
		core.BasicString:   "text",
		core.BasicInt:      "integer",
		core.BasicInt64:    "bigint",
		core.BasicDouble:   "real",
		core.BasicDate:     "text(8)",
		core.BasicDateTime: "text(14)",
	},
	VarChar:          "text(%d)",
	AutoIncrement:    "integer PRIMARY KEY AUTOINCREMENT",
	TableExistsQuery: "SELECT name FROM sqlite_master WHERE type='table' AND name=%s",
}

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger, SQLDialect: SQL},
	}
}

// Connect opens the database file at cfg.Path, creating it when missing.
// Use ":memory:" or an empty path for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	a.Logger.Debug("opening sqlite database", slog.String("path", path))

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// A single connection keeps in-memory databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to configure sqlite: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
