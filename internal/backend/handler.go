package backend

import (
	"context"

	"github.com/leapstack-labs/leapstore/pkg/core"
	"github.com/leapstack-labs/leapstore/pkg/query"
)

// HandlerVersion is the handler contract revision this backend accepts.
const HandlerVersion = 1

// Handler persists one entity type. Handlers opt into each duty by
// implementing the capability interfaces below.
type Handler interface {
	Version() int
	TypeName() string
}

// Committer writes a single entity.
type Committer interface {
	Handler
	Commit(ctx context.Context, b *Backend, e core.Entity) error
}

// Loader reads every stored entity of its type into the session book.
type Loader interface {
	Handler
	InitialLoad(ctx context.Context, b *Backend) error
}

// FullLoader reloads entities that the initial load only reads on demand.
type FullLoader interface {
	Handler
	LoadAll(ctx context.Context, b *Backend) error
}

// TableCreator creates or upgrades the handler's tables.
type TableCreator interface {
	Handler
	CreateTables(ctx context.Context, b *Backend) error
}

// QueryCompiler turns a query into a handler-specific compiled form.
type QueryCompiler interface {
	Handler
	CompileQuery(ctx context.Context, b *Backend, q *query.Query) (any, error)
}

// QueryRunner executes a compiled query, loading matches into the book.
type QueryRunner interface {
	Handler
	RunQuery(ctx context.Context, b *Backend, compiled any) error
}

// QueryFreer releases a compiled query.
type QueryFreer interface {
	Handler
	FreeQuery(ctx context.Context, b *Backend, compiled any)
}

// Writer saves every entity of its type during a full save.
type Writer interface {
	Handler
	Write(ctx context.Context, b *Backend) error
}
