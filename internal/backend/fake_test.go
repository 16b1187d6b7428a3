package backend

import (
	"context"
	"errors"
	"strings"

	"github.com/leapstack-labs/leapstore/pkg/adapter"
	"github.com/leapstack-labs/leapstore/pkg/codec"
	"github.com/leapstack-labs/leapstore/pkg/core"
)

var errBoom = errors.New("boom")

// fakeConn records every call as a line of text.
type fakeConn struct {
	calls  []string
	tables map[string]bool
	rows   map[string][]core.Row
	failOn string
	inTx   bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{tables: make(map[string]bool), rows: make(map[string][]core.Row)}
}

func (c *fakeConn) fail(sql string) error {
	if c.failOn != "" && strings.Contains(sql, c.failOn) {
		return errBoom
	}
	return nil
}

func (c *fakeConn) Begin(context.Context) error {
	c.calls = append(c.calls, "BEGIN")
	if c.inTx {
		return adapter.ErrTransactionActive
	}
	c.inTx = true
	return nil
}

func (c *fakeConn) Commit(context.Context) error {
	c.calls = append(c.calls, "COMMIT")
	if !c.inTx {
		return adapter.ErrNoTransaction
	}
	c.inTx = false
	return c.fail("COMMIT")
}

func (c *fakeConn) Rollback(context.Context) error {
	c.calls = append(c.calls, "ROLLBACK")
	c.inTx = false
	return nil
}

func (c *fakeConn) InTransaction() bool { return c.inTx }

func (c *fakeConn) Exec(_ context.Context, sql string) (int64, error) {
	c.calls = append(c.calls, sql)
	if err := c.fail(sql); err != nil {
		return 0, err
	}
	return 1, nil
}

func (c *fakeConn) Select(_ context.Context, sql string) (*core.ResultSet, error) {
	c.calls = append(c.calls, sql)
	if err := c.fail(sql); err != nil {
		return nil, err
	}
	return &core.ResultSet{Rows: c.rows[sql]}, nil
}

func (c *fakeConn) TableExists(_ context.Context, name string) (bool, error) {
	c.calls = append(c.calls, "EXISTS "+name)
	return c.tables[name], nil
}

func (c *fakeConn) CreateTable(_ context.Context, name string, cols []core.ColumnInfo) error {
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.Name
	}
	sql := "CREATE " + name + "(" + strings.Join(names, ",") + ")"
	c.calls = append(c.calls, sql)
	if err := c.fail(sql); err != nil {
		return err
	}
	c.tables[name] = true
	return nil
}

func (c *fakeConn) AddColumns(_ context.Context, table string, cols []core.ColumnInfo) error {
	for _, col := range cols {
		c.calls = append(c.calls, "ADD "+table+"."+col.Name)
	}
	return nil
}

func (c *fakeConn) CreateIndex(_ context.Context, index, table string, cols []string) error {
	c.calls = append(c.calls, "INDEX "+index+" ON "+table+"("+strings.Join(cols, ",")+")")
	return nil
}

func (c *fakeConn) Quote(v any) string {
	return adapter.QuoteValue(v, codec.CompactTimestampFormat, codec.CompactDateFormat)
}

func (c *fakeConn) TimestampFormat() string { return codec.CompactTimestampFormat }
func (c *fakeConn) DateFormat() string      { return codec.CompactDateFormat }

func (c *fakeConn) reset() { c.calls = nil }

var _ adapter.Connection = (*fakeConn)(nil)

// item is a minimal persisted entity.
type item struct {
	core.Instance
	name   string
	amount core.Numeric
}

func (*item) TypeName() string { return "Item" }

func newItem(name string) *item {
	it := &item{name: name, amount: core.NewNumeric(7, 3)}
	it.SetGUID(core.NewGUID())
	return it
}

var itemDescriptor = &core.EntityDescriptor{
	TypeName: "Item",
	Table:    "items",
	Columns: []core.ColumnDescriptor{
		{Name: "guid", Type: core.TypeGUID, Flags: core.FlagPrimaryKey | core.FlagNotNull,
			Access: core.Bind((*item).GUID, (*item).SetGUID)},
		{Name: "name", Type: core.TypeString, Size: 64,
			Access: core.Bind(func(i *item) string { return i.name }, func(i *item, s string) { i.name = s })},
		{Name: "amount", Type: core.TypeNumeric,
			Access: core.Bind(func(i *item) core.Numeric { return i.amount }, func(i *item, n core.Numeric) { i.amount = n })},
	},
}

func itemHandler() *StandardHandler {
	return &StandardHandler{
		Type:         "Item",
		Descriptor:   itemDescriptor,
		TableVersion: 1,
		New:          func(*Backend) core.Entity { return &item{} },
		Indexes:      []Index{{Name: "items_name", Columns: []string{"name"}}},
	}
}

// fakeBook holds entities by type and identity.
type fakeBook struct {
	core.Instance
	readOnly bool
	dirty    bool
	entities map[string]map[core.GUID]core.Entity
	root     core.Entity
	children []core.Entity
	txs      []core.Entity
}

func newFakeBook() *fakeBook {
	b := &fakeBook{dirty: true, entities: make(map[string]map[core.GUID]core.Entity)}
	b.SetGUID(core.NewGUID())
	return b
}

func (*fakeBook) TypeName() string            { return "Book" }
func (b *fakeBook) ReadOnly() bool            { return b.readOnly }
func (b *fakeBook) SessionDirty() bool        { return b.dirty }
func (b *fakeBook) MarkSessionSaved()         { b.dirty = false }
func (b *fakeBook) MarkSessionDirty()         { b.dirty = true }
func (b *fakeBook) RootAccount() core.Entity  { return b.root }
func (b *fakeBook) TemplateRoot() core.Entity { return nil }

func (b *fakeBook) Lookup(typeName string, id core.GUID) (core.Entity, bool) {
	e, ok := b.entities[typeName][id]
	return e, ok
}

func (b *fakeBook) Add(e core.Entity) {
	m := b.entities[e.TypeName()]
	if m == nil {
		m = make(map[core.GUID]core.Entity)
		b.entities[e.TypeName()] = m
	}
	m[e.GUID()] = e
}

func (b *fakeBook) Remove(e core.Entity) {
	delete(b.entities[e.TypeName()], e.GUID())
}

func (b *fakeBook) Descendants(root core.Entity) []core.Entity {
	if root == nil || root != b.root {
		return nil
	}
	return b.children
}

func (b *fakeBook) Transactions(root core.Entity) []core.Entity {
	if root == nil || root != b.root {
		return nil
	}
	return b.txs
}

func (b *fakeBook) ScheduledTransactions() []core.Entity { return nil }
func (b *fakeBook) TransactionCount() int                { return len(b.txs) }

var _ core.Book = (*fakeBook)(nil)
