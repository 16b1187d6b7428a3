package commands

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/leapstack-labs/leapstore/internal/cli/output"
	"github.com/leapstack-labs/leapstore/internal/ledger"
	"github.com/leapstack-labs/leapstore/internal/modules"
	"github.com/leapstack-labs/leapstore/pkg/core"
)

// descriptorFor returns the table mapping of typeName.
func descriptorFor(typeName string) (*core.EntityDescriptor, error) {
	for _, d := range modules.Descriptors() {
		if d.TypeName == typeName {
			return d, nil
		}
	}
	return nil, fmt.Errorf("unknown entity type %q", typeName)
}

// entitiesOf lists the book's entities of typeName.
func entitiesOf(book *ledger.Book, typeName string) []core.Entity {
	var out []core.Entity
	add := func(e core.Entity) { out = append(out, e) }
	switch typeName {
	case ledger.TypeCommodity:
		forEach(book.Commodities(), add)
	case ledger.TypeAccount:
		forEach(book.Accounts(), add)
	case ledger.TypeLot:
		forEach(book.Lots(), add)
	case ledger.TypeTransaction:
		forEach(book.AllTransactions(), add)
	case ledger.TypeSplit:
		for _, tx := range book.AllTransactions() {
			forEach(tx.Splits(), add)
		}
	case ledger.TypePrice:
		forEach(book.Prices(), add)
	case ledger.TypeSchedXaction:
		forEach(book.SchedXactions(), add)
	case ledger.TypeBillTerm:
		forEach(book.BillTerms(), add)
	case ledger.TypeInvoice:
		forEach(book.Invoices(), add)
	}
	return out
}

func forEach[E core.Entity](list []E, fn func(core.Entity)) {
	for _, e := range list {
		fn(e)
	}
}

// entityTable renders entities as one row each, one column per mapped column.
func entityTable(title string, desc *core.EntityDescriptor, entities []core.Entity) (*output.Table, error) {
	t := &output.Table{Title: title}
	for _, c := range desc.Columns {
		t.Columns = append(t.Columns, c.Name)
	}
	for _, e := range entities {
		row := make([]any, len(desc.Columns))
		for i, c := range desc.Columns {
			v, err := c.Get(e)
			if err != nil {
				return nil, err
			}
			row[i] = displayValue(v)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// countsTable renders the number of entities per type.
func countsTable(title string, book *ledger.Book) *output.Table {
	counts := book.Counts()
	t := &output.Table{Title: title, Columns: []string{"type", "count"}}
	for _, name := range slices.Sorted(maps.Keys(counts)) {
		t.Append(name, counts[name])
	}
	return t
}

// displayValue turns a column value into something readable in a table.
func displayValue(v any) any {
	switch x := v.(type) {
	case nil:
		return ""
	case *ledger.Account:
		if x == nil {
			return ""
		}
		if name := x.FullName(); name != "" {
			return name
		}
		return x.Name()
	case *ledger.BillTerm:
		if x == nil {
			return ""
		}
		return x.Name()
	case core.Entity:
		if core.IsNil(x) {
			return ""
		}
		if s, ok := x.(fmt.Stringer); ok {
			return s.String()
		}
		return x.GUID().String()
	case core.GUID:
		if x.IsZero() {
			return ""
		}
		return x.String()
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.UTC().Format(time.DateTime)
	case core.Date:
		if x.IsZero() {
			return ""
		}
		return x.String()
	case core.Numeric:
		return x.DecimalString()
	case fmt.Stringer:
		return x.String()
	default:
		return v
	}
}
