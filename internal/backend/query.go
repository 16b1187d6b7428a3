package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapstore/pkg/core"
	"github.com/leapstack-labs/leapstore/pkg/query"
)

// CompiledQuery is a query prepared for one entity type.
type CompiledQuery struct {
	// SearchFor is the entity type the query targets.
	SearchFor string
	// Compiled is the handler-specific form, nil when no handler compiled it.
	Compiled any
}

// CompileQuery prepares q with the handler registered for q.SearchFor.
// Types without a QueryCompiler yield an empty compiled form.
func (b *Backend) CompileQuery(ctx context.Context, q *query.Query) (*CompiledQuery, error) {
	if q == nil {
		return nil, fmt.Errorf("%w: nil query", core.ErrConfiguration)
	}
	cq := &CompiledQuery{SearchFor: q.SearchFor}
	h, ok := find[QueryCompiler](b.registry, q.SearchFor)
	if !ok {
		b.logger.Debug("no query compiler for type", slog.String("type", q.SearchFor))
		return cq, nil
	}
	compiled, err := h.CompileQuery(ctx, b, q)
	if err != nil {
		return nil, fmt.Errorf("failed to compile query for %s: %w", q.SearchFor, err)
	}
	cq.Compiled = compiled
	return cq, nil
}

// RunQuery executes cq, loading every match into the book. The book is
// marked saved afterwards since loaded entities match storage.
func (b *Backend) RunQuery(ctx context.Context, cq *CompiledQuery) error {
	if cq == nil {
		return fmt.Errorf("%w: nil compiled query", core.ErrConfiguration)
	}
	if err := b.enter(core.SessionQuerying); err != nil {
		return err
	}
	defer b.leave()

	h, ok := find[QueryRunner](b.registry, cq.SearchFor)
	if !ok {
		return nil
	}
	if err := h.RunQuery(ctx, b, cq.Compiled); err != nil {
		return fmt.Errorf("failed to run query for %s: %w", cq.SearchFor, err)
	}
	b.markSaved()
	return nil
}

// FreeQuery releases cq.
func (b *Backend) FreeQuery(ctx context.Context, cq *CompiledQuery) {
	if cq == nil {
		return
	}
	if h, ok := find[QueryFreer](b.registry, cq.SearchFor); ok {
		h.FreeQuery(ctx, b, cq.Compiled)
	}
	cq.Compiled = nil
}
