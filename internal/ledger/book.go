// Package ledger is the in-memory double-entry bookkeeping model persisted
// by the storage modules: a book of commodities, an account tree,
// transactions with their splits, prices, scheduled transactions and the
// business objects built on them.
package ledger

import (
	"slices"

	"github.com/leapstack-labs/leapstore/pkg/core"
)

// Entity type names.
const (
	TypeBook         = "Book"
	TypeCommodity    = "Commodity"
	TypeAccount      = "Account"
	TypeLot          = "Lot"
	TypeTransaction  = "Transaction"
	TypeSplit        = "Split"
	TypePrice        = "Price"
	TypeSchedXaction = "SchedXaction"
	TypeBillTerm     = "BillTerm"
	TypeInvoice      = "Invoice"
)

// Book owns every entity of one set of accounts.
type Book struct {
	core.Instance

	readOnly     bool
	sessionDirty bool

	root         *Account
	templateRoot *Account
	rootID       core.GUID
	templateID   core.GUID

	entities map[string]map[core.GUID]core.Entity
	order    map[string][]core.GUID
}

// NewBook returns an empty book holding the default currency.
func NewBook() *Book {
	b := &Book{
		entities: make(map[string]map[core.GUID]core.Entity),
		order:    make(map[string][]core.GUID),
	}
	b.SetGUID(core.NewGUID())
	b.Add(NewCurrency("USD", "US Dollar"))
	return b
}

func (*Book) TypeName() string { return TypeBook }

// ReadOnly reports whether writes are refused.
func (b *Book) ReadOnly() bool { return b.readOnly }

// SetReadOnly refuses or allows writes.
func (b *Book) SetReadOnly(ro bool) { b.readOnly = ro }

func (b *Book) SessionDirty() bool { return b.sessionDirty }
func (b *Book) MarkSessionSaved()  { b.sessionDirty = false }
func (b *Book) MarkSessionDirty()  { b.sessionDirty = true }

// Lookup finds a loaded entity by type and identity.
func (b *Book) Lookup(typeName string, id core.GUID) (core.Entity, bool) {
	e, ok := b.entities[typeName][id]
	return e, ok
}

// Add inserts e, replacing an entity of the same type and identity.
func (b *Book) Add(e core.Entity) {
	if core.IsNil(e) {
		return
	}
	t := e.TypeName()
	m := b.entities[t]
	if m == nil {
		m = make(map[core.GUID]core.Entity)
		b.entities[t] = m
	}
	if _, ok := m[e.GUID()]; !ok {
		b.order[t] = append(b.order[t], e.GUID())
	}
	m[e.GUID()] = e

	switch x := e.(type) {
	case *Account:
		x.book = b
		if x.parent == nil && b.rootID == x.GUID() && b.root == nil {
			b.root = x
		}
		if x.parent == nil && b.templateID == x.GUID() && b.templateRoot == nil {
			b.templateRoot = x
		}
	case *Transaction:
		x.book = b
	}
	b.sessionDirty = true
}

// Remove drops e from the book. A removed account leaves its parent.
func (b *Book) Remove(e core.Entity) {
	if core.IsNil(e) {
		return
	}
	t := e.TypeName()
	id := e.GUID()
	if _, ok := b.entities[t][id]; !ok {
		return
	}
	delete(b.entities[t], id)
	b.order[t] = slices.DeleteFunc(b.order[t], func(g core.GUID) bool { return g == id })

	switch x := e.(type) {
	case *Account:
		if x.parent != nil {
			x.parent.removeChild(x)
		}
		if b.root == x {
			b.root = nil
		}
		if b.templateRoot == x {
			b.templateRoot = nil
		}
	case *Split:
		if x.tx != nil {
			x.tx.removeSplit(x)
		}
	}
	b.sessionDirty = true
}

// Rekey moves e to a new identity.
func (b *Book) Rekey(e core.Entity, id core.GUID) {
	if e.GUID() == id {
		return
	}
	b.Remove(e)
	e.SetGUID(id)
	b.Add(e)
}

// all returns the entities of typeName in insertion order.
func all[E core.Entity](b *Book, typeName string) []E {
	ids := b.order[typeName]
	out := make([]E, 0, len(ids))
	for _, id := range ids {
		if e, ok := b.entities[typeName][id].(E); ok {
			out = append(out, e)
		}
	}
	return out
}

func entities[E core.Entity](list []E) []core.Entity {
	out := make([]core.Entity, len(list))
	for i, e := range list {
		out[i] = e
	}
	return out
}

// Root returns the account tree root, nil in an empty book.
func (b *Book) Root() *Account { return b.root }

// SetRoot makes a the account tree root.
func (b *Book) SetRoot(a *Account) {
	b.root = a
	b.rootID = guidOf(a)
	b.Add(a)
	b.MarkDirty()
}

// Template returns the root of the scheduled transaction template accounts.
func (b *Book) Template() *Account { return b.templateRoot }

// SetTemplate makes a the template account root.
func (b *Book) SetTemplate(a *Account) {
	b.templateRoot = a
	b.templateID = guidOf(a)
	b.Add(a)
	b.MarkDirty()
}

// RootID is the stored root account identity, known before the accounts load.
func (b *Book) RootID() core.GUID {
	if b.root != nil {
		return b.root.GUID()
	}
	return b.rootID
}

// SetRootID records the stored root account identity.
func (b *Book) SetRootID(id core.GUID) {
	b.rootID = id
	if a, ok := b.Account(id); ok {
		b.root = a
	}
}

// TemplateID is the stored template root identity.
func (b *Book) TemplateID() core.GUID {
	if b.templateRoot != nil {
		return b.templateRoot.GUID()
	}
	return b.templateID
}

// SetTemplateID records the stored template root identity.
func (b *Book) SetTemplateID(id core.GUID) {
	b.templateID = id
	if a, ok := b.Account(id); ok {
		b.templateRoot = a
	}
}

func (b *Book) RootAccount() core.Entity {
	if b.root == nil {
		return nil
	}
	return b.root
}

func (b *Book) TemplateRoot() core.Entity {
	if b.templateRoot == nil {
		return nil
	}
	return b.templateRoot
}

// Descendants lists every account below root, depth first.
func (b *Book) Descendants(root core.Entity) []core.Entity {
	a, ok := root.(*Account)
	if !ok || a == nil {
		return nil
	}
	return entities(a.Descendants())
}

// Transactions lists the transactions with a split in root's tree.
func (b *Book) Transactions(root core.Entity) []core.Entity {
	a, ok := root.(*Account)
	if !ok || a == nil {
		return nil
	}
	tree := map[*Account]bool{a: true}
	for _, d := range a.Descendants() {
		tree[d] = true
	}
	var out []core.Entity
	for _, tx := range b.AllTransactions() {
		for _, s := range tx.splits {
			if tree[s.account] {
				out = append(out, tx)
				break
			}
		}
	}
	return out
}

func (b *Book) ScheduledTransactions() []core.Entity {
	return entities(b.SchedXactions())
}

func (b *Book) TransactionCount() int { return len(b.order[TypeTransaction]) }

// Commodities returns every commodity in insertion order.
func (b *Book) Commodities() []*Commodity { return all[*Commodity](b, TypeCommodity) }

// Accounts returns every account in insertion order.
func (b *Book) Accounts() []*Account { return all[*Account](b, TypeAccount) }

// Lots returns every lot.
func (b *Book) Lots() []*Lot { return all[*Lot](b, TypeLot) }

// AllTransactions returns every transaction.
func (b *Book) AllTransactions() []*Transaction { return all[*Transaction](b, TypeTransaction) }

// Prices returns every price.
func (b *Book) Prices() []*Price { return all[*Price](b, TypePrice) }

// SchedXactions returns every scheduled transaction.
func (b *Book) SchedXactions() []*SchedXaction { return all[*SchedXaction](b, TypeSchedXaction) }

// BillTerms returns every billing term.
func (b *Book) BillTerms() []*BillTerm { return all[*BillTerm](b, TypeBillTerm) }

// Invoices returns every invoice.
func (b *Book) Invoices() []*Invoice { return all[*Invoice](b, TypeInvoice) }

// Account finds an account by identity.
func (b *Book) Account(id core.GUID) (*Account, bool) {
	a, ok := b.entities[TypeAccount][id].(*Account)
	return a, ok
}

// Transaction finds a transaction by identity.
func (b *Book) Transaction(id core.GUID) (*Transaction, bool) {
	tx, ok := b.entities[TypeTransaction][id].(*Transaction)
	return tx, ok
}

// FindCommodity finds a commodity by namespace and mnemonic.
func (b *Book) FindCommodity(namespace, mnemonic string) *Commodity {
	for _, c := range b.Commodities() {
		if c.namespace == namespace && c.mnemonic == mnemonic {
			return c
		}
	}
	return nil
}

// FindAccount finds an account by its colon-separated full name.
func (b *Book) FindAccount(fullName string) *Account {
	for _, a := range b.Accounts() {
		if a.FullName() == fullName {
			return a
		}
	}
	return nil
}

// Counts returns the number of entities per type.
func (b *Book) Counts() map[string]int {
	out := make(map[string]int, len(b.order))
	for t, ids := range b.order {
		out[t] = len(ids)
	}
	return out
}

func guidOf(e core.Entity) core.GUID {
	if core.IsNil(e) {
		return core.NilGUID
	}
	return e.GUID()
}

var _ core.Book = (*Book)(nil)
