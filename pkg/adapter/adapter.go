// Package adapter provides the storage connection contract and the shared
// database/sql implementation behind every backend.
//
// This package contains the public contract that all database adapters must implement.
// Concrete adapter implementations are in pkg/adapters/ subdirectories and
// register themselves from init().
package adapter

import (
	"context"

	"github.com/leapstack-labs/leapstore/pkg/core"
)

// Config is an alias for core.AdapterConfig.
type Config = core.AdapterConfig

// Connection is the storage session the persistence engine drives.
// Statements run inside the open transaction when there is one.
type Connection interface {
	// Begin opens a transaction. Only one may be open at a time.
	Begin(ctx context.Context) error
	// Commit commits the open transaction.
	Commit(ctx context.Context) error
	// Rollback aborts the open transaction. It is a no-op without one.
	Rollback(ctx context.Context) error
	// InTransaction reports whether a transaction is open.
	InTransaction() bool

	// Exec runs a statement that returns no rows and reports the affected row count.
	Exec(ctx context.Context, sql string) (int64, error)
	// Select runs a query and materializes every row.
	Select(ctx context.Context, sql string) (*core.ResultSet, error)

	// TableExists reports whether a table is present.
	TableExists(ctx context.Context, name string) (bool, error)
	// CreateTable creates a table with the given physical columns.
	CreateTable(ctx context.Context, name string, cols []core.ColumnInfo) error
	// AddColumns appends physical columns to an existing table.
	AddColumns(ctx context.Context, table string, cols []core.ColumnInfo) error
	// CreateIndex creates a non-unique index.
	CreateIndex(ctx context.Context, index, table string, cols []string) error

	// Quote renders a Go value as a SQL literal.
	Quote(v any) string
	// TimestampFormat is the layout used to store timestamps as text.
	TimestampFormat() string
	// DateFormat is the layout used to store dates as text.
	DateFormat() string
}

// Adapter is a Connection that can be opened from configuration.
type Adapter interface {
	Connection

	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Dialect returns the SQL flavor this adapter speaks.
	Dialect() *Dialect
}
