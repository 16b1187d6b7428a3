// Package postgres provides a PostgreSQL database adapter for LeapStore.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver

	"github.com/leapstack-labs/leapstore/pkg/adapter"
	"github.com/leapstack-labs/leapstore/pkg/core"
)

// SQL is the PostgreSQL dialect.
var SQL = &adapter.Dialect{
	Name:            "postgres",
	TimestampFormat: "2006-01-02 15:04:05",
	DateFormat:      "2006-01-02",
	Types: map[core.BasicType]string{
		core.BasicString:   "text",
		core.BasicInt:      "integer",
		core.BasicInt64:    "bigint",
		core.BasicDouble:   "double precision",
		core.BasicDate:     "date",
		core.BasicDateTime: "timestamp without time zone",
	},
	VarChar:          "varchar(%d)",
	AutoIncrement:    "SERIAL PRIMARY KEY",
	TableExistsQuery: "SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = %s",
}

// Adapter implements the adapter.Adapter interface for PostgreSQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger, SQLDialect: SQL},
	}
}

// Connect establishes a connection to PostgreSQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := buildPostgresDSN(cfg)

	a.Logger.Debug("connecting to postgres", slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	if cfg.Schema != "" {
		if _, err := db.ExecContext(ctx, "SET search_path TO "+cfg.Schema); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to set search_path: %w", err)
		}
		// search_path is per connection.
		db.SetMaxOpenConns(1)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

func buildPostgresDSN(cfg adapter.Config) string {
	// Build key=value format: host=localhost port=5432 user=postgres ...
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := "disable"
	if cfg.Options != nil {
		if mode, ok := cfg.Options["sslmode"]; ok {
			sslmode = mode
		}
	}

	// Build DSN
	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		host, port, cfg.Database, sslmode)

	if cfg.Username != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.Username)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}

	return dsn
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
