package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapstore/pkg/codec"
	"github.com/leapstack-labs/leapstore/pkg/core"
)

// Op is a write operation on one entity row.
type Op int

// Write operations.
const (
	OpInsert Op = iota
	OpUpdate
	OpDelete
)

func (op Op) String() string {
	switch op {
	case OpInsert:
		return "insert"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return fmt.Sprintf("op(%d)", int(op))
	}
}

// Statement builds the SQL for op on e's row in table.
// Every literal is rendered through the connection's quoting.
func (b *Backend) Statement(op Op, table string, desc *core.EntityDescriptor, e core.Entity) (string, error) {
	switch op {
	case OpInsert:
		pairs, err := b.serialize(desc, e, false)
		if err != nil {
			return "", err
		}
		cols := make([]string, len(pairs))
		vals := make([]string, len(pairs))
		for i, p := range pairs {
			cols[i] = p.Column
			vals[i] = b.conn.Quote(p.Value)
		}
		return "INSERT INTO " + table + "(" + strings.Join(cols, ",") + ") VALUES(" + strings.Join(vals, ",") + ")", nil

	case OpUpdate:
		pairs, err := b.serialize(desc, e, true)
		if err != nil {
			return "", err
		}
		where, err := b.keyClause(desc, e)
		if err != nil {
			return "", err
		}
		sets := make([]string, len(pairs))
		for i, p := range pairs {
			sets[i] = p.Column + "=" + b.conn.Quote(p.Value)
		}
		return "UPDATE " + table + " SET " + strings.Join(sets, ",") + " WHERE " + where, nil

	case OpDelete:
		where, err := b.keyClause(desc, e)
		if err != nil {
			return "", err
		}
		return "DELETE FROM " + table + " WHERE " + where, nil
	}
	return "", fmt.Errorf("%w: unknown operation %d", core.ErrConfiguration, int(op))
}

// serialize collects the physical column values of every non-auto-increment
// column. With nulls set, columns whose value is unset are included as NULL.
func (b *Backend) serialize(desc *core.EntityDescriptor, e core.Entity, nulls bool) ([]core.Pair, error) {
	var pairs []core.Pair
	for _, col := range desc.Columns {
		if col.Has(core.FlagAutoIncrement) {
			continue
		}
		c, err := b.codecs.Lookup(col.Type)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", desc.Table, err)
		}
		got, err := c.Serialize(b, col, e)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", desc.Table, err)
		}
		if nulls {
			got = fillNulls(c.Describe(col), got)
		}
		pairs = append(pairs, got...)
	}
	return pairs, nil
}

func fillNulls(infos []core.ColumnInfo, pairs []core.Pair) []core.Pair {
	if len(pairs) == len(infos) {
		return pairs
	}
	out := make([]core.Pair, 0, len(infos))
	for _, info := range infos {
		p := core.Pair{Column: info.Name}
		for _, have := range pairs {
			if have.Column == info.Name {
				p = have
				break
			}
		}
		out = append(out, p)
	}
	return out
}

// keyClause renders "<key>=<value>" for the descriptor's first column.
func (b *Backend) keyClause(desc *core.EntityDescriptor, e core.Entity) (string, error) {
	key := desc.Key()
	c, err := b.codecs.Lookup(key.Type)
	if err != nil {
		return "", fmt.Errorf("table %s: %w", desc.Table, err)
	}
	pairs, err := c.Serialize(b, key, e)
	if err != nil {
		return "", fmt.Errorf("table %s: %w", desc.Table, err)
	}
	if len(pairs) != 1 {
		return "", fmt.Errorf("%w: table %s: key %s has no single value", core.ErrConfiguration, desc.Table, key.Name)
	}
	return pairs[0].Column + "=" + b.conn.Quote(pairs[0].Value), nil
}

// DoOperation builds and runs op for e. Failures are recorded as the session error.
func (b *Backend) DoOperation(ctx context.Context, op Op, table string, desc *core.EntityDescriptor, e core.Entity) error {
	stmt, err := b.Statement(op, table, desc, e)
	if err != nil {
		b.setError(err)
		return err
	}
	if _, err := b.conn.Exec(ctx, stmt); err != nil {
		return b.storageError(op.String()+" "+table, err)
	}
	return nil
}

// IsInDB reports whether e's row exists in table.
func (b *Backend) IsInDB(ctx context.Context, table string, desc *core.EntityDescriptor, e core.Entity) (bool, error) {
	where, err := b.keyClause(desc, e)
	if err != nil {
		return false, err
	}
	rs, err := b.Select(ctx, "SELECT "+desc.Key().Name+" FROM "+table+" WHERE "+where)
	if err != nil {
		return false, err
	}
	return rs.Len() > 0, nil
}

// LoadObject reads every column of desc from row into e.
func (b *Backend) LoadObject(row core.Row, desc *core.EntityDescriptor, e core.Entity) error {
	for _, col := range desc.Columns {
		c, err := b.codecs.Lookup(col.Type)
		if err != nil {
			return fmt.Errorf("table %s: %w", desc.Table, err)
		}
		if err := c.Load(b, row, col, e); err != nil {
			return fmt.Errorf("failed to load %s.%s: %w", desc.Table, col.Name, err)
		}
	}
	return nil
}

// LoadGUID reads the GUID stored in column name.
func (b *Backend) LoadGUID(row core.Row, name string) (core.GUID, bool) {
	return codec.ReadGUID(b, row, name)
}

// SelectAll returns every row of table.
func (b *Backend) SelectAll(ctx context.Context, table string) (*core.ResultSet, error) {
	return b.Select(ctx, "SELECT * FROM "+table)
}

// Select runs a query, recording failures as the session error.
func (b *Backend) Select(ctx context.Context, sql string) (*core.ResultSet, error) {
	rs, err := b.conn.Select(ctx, sql)
	if err != nil {
		return nil, b.storageError("query", err)
	}
	return rs, nil
}

// Exec runs a statement, recording failures as the session error.
func (b *Backend) Exec(ctx context.Context, sql string) (int64, error) {
	n, err := b.conn.Exec(ctx, sql)
	if err != nil {
		return 0, b.storageError("execute statement", err)
	}
	return n, nil
}
