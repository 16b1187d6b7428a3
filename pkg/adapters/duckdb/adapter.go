// Package duckdb provides a DuckDB database adapter for LeapStore.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapstore/pkg/adapter"
	"github.com/leapstack-labs/leapstore/pkg/core"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// SQL is the DuckDB dialect. DuckDB has no implicit auto-increment, so
// auto-increment keys fall back to a plain BIGINT key.
var SQL = &adapter.Dialect{
	Name:            "duckdb",
	TimestampFormat: "2006-01-02 15:04:05",
	DateFormat:      "2006-01-02",
	Types: map[core.BasicType]string{
		core.BasicString:   "VARCHAR",
		core.BasicInt:      "INTEGER",
		core.BasicInt64:    "BIGINT",
		core.BasicDouble:   "DOUBLE",
		core.BasicDate:     "DATE",
		core.BasicDateTime: "TIMESTAMP",
	},
	VarChar:          "VARCHAR(%d)",
	AutoIncrement:    "BIGINT PRIMARY KEY",
	TableExistsQuery: "SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = %s",
}

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new DuckDB adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger, SQLDialect: SQL},
	}
}

// Connect establishes a connection to DuckDB.
// Use ":memory:" as the path for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := parseParams(cfg.Params)
	if err != nil {
		return fmt.Errorf("invalid duckdb params: %w", err)
	}

	path := cfg.Path
	if path == ":memory:" {
		path = ""
	}

	a.Logger.Debug("connecting to duckdb", slog.String("path", cfg.Path))

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	// Session settings and extensions are per connection.
	db.SetMaxOpenConns(1)

	a.DB = db
	a.Cfg = cfg

	if err := a.applyParams(ctx, params); err != nil {
		_ = a.Close()
		a.DB = nil
		return err
	}
	return nil
}

func (a *Adapter) applyParams(ctx context.Context, params *Params) error {
	for _, ext := range params.Extensions {
		if _, err := a.Exec(ctx, "INSTALL "+ext); err != nil {
			return fmt.Errorf("failed to install extension %s: %w", ext, err)
		}
		if _, err := a.Exec(ctx, "LOAD "+ext); err != nil {
			return fmt.Errorf("failed to load extension %s: %w", ext, err)
		}
	}
	for key, value := range params.Settings {
		if _, err := a.Exec(ctx, fmt.Sprintf("SET %s = %s", key, a.Quote(value))); err != nil {
			return fmt.Errorf("failed to apply setting %s: %w", key, err)
		}
	}
	for _, secret := range params.Secrets {
		if _, err := a.Exec(ctx, buildCreateSecretSQL(secret)); err != nil {
			return fmt.Errorf("failed to create %s secret: %w", secret.Type, err)
		}
	}
	return nil
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
