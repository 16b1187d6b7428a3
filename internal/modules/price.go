package modules

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/leapstore/internal/backend"
	"github.com/leapstack-labs/leapstore/internal/ledger"
	"github.com/leapstack-labs/leapstore/pkg/core"
)

const pricesTable = "prices"

var priceDescriptor = &core.EntityDescriptor{
	TypeName: ledger.TypePrice,
	Table:    pricesTable,
	Columns: []core.ColumnDescriptor{
		keyColumn[*ledger.Price](),
		{Name: "commodity_guid", Type: core.RefType(ledger.TypeCommodity), Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Price).Commodity, (*ledger.Price).SetCommodity)},
		{Name: "currency_guid", Type: core.RefType(ledger.TypeCommodity), Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Price).Currency, (*ledger.Price).SetCurrency)},
		{Name: "date", Type: core.TypeTimestamp, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Price).Date, (*ledger.Price).SetDate)},
		{Name: "source", Type: core.TypeString, Size: 2048,
			Access: core.Bind((*ledger.Price).Source, (*ledger.Price).SetSource)},
		{Name: "type", Type: core.TypeString, Size: 2048,
			Access: core.Bind((*ledger.Price).PriceType, (*ledger.Price).SetPriceType)},
		{Name: "value", Type: core.TypeNumeric, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Price).Value, (*ledger.Price).SetValue)},
	},
}

// priceHandler stores the price database.
type priceHandler struct {
	*backend.StandardHandler
}

func newPriceHandler() *priceHandler {
	return &priceHandler{&backend.StandardHandler{
		Type:         ledger.TypePrice,
		Descriptor:   priceDescriptor,
		TableVersion: 2,
		New:          func(*backend.Backend) core.Entity { return &ledger.Price{} },
	}}
}

// Commit writes the price, inserting both commodities first when needed.
func (h *priceHandler) Commit(ctx context.Context, b *backend.Backend, e core.Entity) error {
	p, ok := e.(*ledger.Price)
	if !ok {
		return fmt.Errorf("%w: price handler got %T", core.ErrConfiguration, e)
	}
	if p.State() != core.Destroying {
		if err := saveCommodity(ctx, b, p.Commodity()); err != nil {
			return err
		}
		if err := saveCommodity(ctx, b, p.Currency()); err != nil {
			return err
		}
	}
	return h.StandardHandler.Commit(ctx, b, e)
}

// Write saves every price in the book.
func (h *priceHandler) Write(ctx context.Context, b *backend.Backend) error {
	book, err := bookOf(b)
	if err != nil {
		return err
	}
	for _, p := range book.Prices() {
		if err := b.SaveEntity(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
