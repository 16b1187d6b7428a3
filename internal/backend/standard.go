package backend

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/leapstore/pkg/core"
	"github.com/leapstack-labs/leapstore/pkg/query"
)

// CommitStandardItem writes e's row: a delete for destroyed entities, an
// insert for new ones, during a full save or when forced, and an update
// otherwise.
func (b *Backend) CommitStandardItem(ctx context.Context, desc *core.EntityDescriptor, e core.Entity, forceInsert bool) error {
	var op Op
	switch state := e.State(); {
	case state == core.Destroying:
		op = OpDelete
	case b.pristine || forceInsert || state == core.Infant:
		op = OpInsert
	default:
		op = OpUpdate
	}
	return b.DoOperation(ctx, op, desc.Table, desc, e)
}

// StandardHandler persists a type stored as one row per entity in one table.
// Modules embed it and override the duties that need more.
type StandardHandler struct {
	// Type is the entity type name.
	Type string
	// Descriptor maps the entity onto its table.
	Descriptor *core.EntityDescriptor
	// TableVersion is the current layout revision.
	TableVersion int
	// New returns an empty entity to load a row into.
	New func(b *Backend) core.Entity
	// Indexes are created with the table.
	Indexes []Index
	// Upgrade migrates an older table. The table is rebuilt when nil.
	Upgrade UpgradeFunc
	// AfterLoad runs for every loaded entity before it joins the book.
	AfterLoad func(ctx context.Context, b *Backend, e core.Entity, row core.Row) error
	// AfterCommit runs after the entity's row was written, inside the same transaction.
	AfterCommit func(ctx context.Context, b *Backend, e core.Entity) error
}

var (
	_ Committer     = (*StandardHandler)(nil)
	_ Loader        = (*StandardHandler)(nil)
	_ TableCreator  = (*StandardHandler)(nil)
	_ QueryCompiler = (*StandardHandler)(nil)
	_ QueryRunner   = (*StandardHandler)(nil)
	_ QueryFreer    = (*StandardHandler)(nil)
)

func (h *StandardHandler) Version() int     { return HandlerVersion }
func (h *StandardHandler) TypeName() string { return h.Type }

// Commit writes e with CommitStandardItem.
func (h *StandardHandler) Commit(ctx context.Context, b *Backend, e core.Entity) error {
	if err := b.CommitStandardItem(ctx, h.Descriptor, e, false); err != nil {
		return err
	}
	if h.AfterCommit != nil {
		return h.AfterCommit(ctx, b, e)
	}
	return nil
}

// InitialLoad reads every row of the table into the book.
func (h *StandardHandler) InitialLoad(ctx context.Context, b *Backend) error {
	rs, err := b.SelectAll(ctx, h.Descriptor.Table)
	if err != nil {
		return err
	}
	_, err = h.LoadRows(ctx, b, rs)
	return err
}

// CreateTables creates or upgrades the table.
func (h *StandardHandler) CreateTables(ctx context.Context, b *Backend) error {
	return b.EnsureTable(ctx, h.Descriptor.Table, h.TableVersion, h.Descriptor, h.Indexes, h.Upgrade)
}

// CompileQuery renders q as a SELECT statement over the table.
func (h *StandardHandler) CompileQuery(_ context.Context, b *Backend, q *query.Query) (any, error) {
	return query.CompileSQL(q, h.Descriptor.Table, b.Conn())
}

// RunQuery loads the rows selected by a compiled query.
func (h *StandardHandler) RunQuery(ctx context.Context, b *Backend, compiled any) error {
	sql, ok := compiled.(string)
	if !ok {
		return fmt.Errorf("%w: %s query compiled to %T", core.ErrConfiguration, h.Type, compiled)
	}
	rs, err := b.Select(ctx, sql)
	if err != nil {
		return err
	}
	_, err = h.LoadRows(ctx, b, rs)
	return err
}

// FreeQuery has nothing to release.
func (h *StandardHandler) FreeQuery(context.Context, *Backend, any) {}

// LoadRows loads every row of rs. Rows for entities already in the book
// refresh them in place.
func (h *StandardHandler) LoadRows(ctx context.Context, b *Backend, rs *core.ResultSet) ([]core.Entity, error) {
	if rs == nil {
		return nil, nil
	}
	out := make([]core.Entity, 0, rs.Len())
	for _, row := range rs.Rows {
		e, err := h.LoadRow(ctx, b, row)
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
	return out, nil
}

// LoadRow loads one row into a new or already loaded entity.
func (h *StandardHandler) LoadRow(ctx context.Context, b *Backend, row core.Row) (core.Entity, error) {
	var e core.Entity
	isNew := true
	if id, ok := b.LoadGUID(row, h.Descriptor.Key().Name); ok && b.book != nil {
		if found, ok := b.book.Lookup(h.Type, id); ok {
			e, isNew = found, false
		}
	}
	if e == nil {
		e = h.New(b)
	}
	if err := b.LoadObject(row, h.Descriptor, e); err != nil {
		return nil, err
	}
	if h.AfterLoad != nil {
		if err := h.AfterLoad(ctx, b, e, row); err != nil {
			return nil, fmt.Errorf("failed to finish loading %s %s: %w", h.Type, e.GUID(), err)
		}
	}
	if isNew && b.book != nil {
		b.book.Add(e)
	}
	if err := e.Transition(core.Clean); err != nil {
		return nil, err
	}
	return e, nil
}
