// Package modules maps the ledger types onto tables and registers their
// storage handlers.
package modules

import (
	"fmt"

	"github.com/leapstack-labs/leapstore/internal/backend"
	"github.com/leapstack-labs/leapstore/internal/ledger"
	"github.com/leapstack-labs/leapstore/pkg/codec"
	"github.com/leapstack-labs/leapstore/pkg/core"
)

// BusinessLoadOrder loads billing terms before the invoices that use them.
var BusinessLoadOrder = []string{ledger.TypeBillTerm, ledger.TypeInvoice}

// RegisterAll registers the reference codecs and every ledger handler.
// Each descriptor is checked against codecs first.
func RegisterAll(reg *backend.Registry, codecs *codec.Registry) error {
	for _, t := range []string{
		ledger.TypeCommodity,
		ledger.TypeAccount,
		ledger.TypeLot,
		ledger.TypeTransaction,
		ledger.TypeBillTerm,
	} {
		codecs.Register(core.RefType(t), codec.NewRefCodec(t))
	}

	for _, desc := range Descriptors() {
		if err := codecs.Validate(desc); err != nil {
			return fmt.Errorf("invalid %s mapping: %w", desc.TypeName, err)
		}
	}

	handlers := []backend.Handler{
		newBookHandler(),
		newCommodityHandler(),
		newAccountHandler(),
		newLotHandler(),
		newTransactionHandler(),
		newSplitHandler(),
		newPriceHandler(),
		newSchedXactionHandler(),
		newBillTermHandler(),
		newInvoiceHandler(),
	}
	for _, h := range handlers {
		if err := reg.Register(h); err != nil {
			return err
		}
	}
	reg.SetLoadOrder(append(reg.LoadOrder(), BusinessLoadOrder...))
	return nil
}

// Descriptors returns every table mapping.
func Descriptors() []*core.EntityDescriptor {
	return []*core.EntityDescriptor{
		bookDescriptor,
		commodityDescriptor,
		accountDescriptor,
		lotDescriptor,
		transactionDescriptor,
		splitDescriptor,
		priceDescriptor,
		schedXactionDescriptor,
		billTermDescriptor,
		invoiceDescriptor,
	}
}

// bookOf returns the session book as a ledger book.
func bookOf(b *backend.Backend) (*ledger.Book, error) {
	book, ok := b.Book().(*ledger.Book)
	if !ok {
		return nil, fmt.Errorf("%w: session book is %T, want *ledger.Book", core.ErrConfiguration, b.Book())
	}
	return book, nil
}

// keyColumn is the GUID primary key every ledger table starts with.
func keyColumn[E core.Entity]() core.ColumnDescriptor {
	return core.ColumnDescriptor{
		Name:  "guid",
		Type:  core.TypeGUID,
		Flags: core.FlagPrimaryKey | core.FlagNotNull,
		Access: core.Bind(
			func(e E) core.GUID { return e.GUID() },
			func(e E, id core.GUID) { e.SetGUID(id) },
		),
	}
}

// markClean records that e matches storage after a forced write.
func markClean(e core.Entity) {
	_ = e.Transition(core.Clean)
}
