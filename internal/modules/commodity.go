package modules

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/leapstore/internal/backend"
	"github.com/leapstack-labs/leapstore/internal/ledger"
	"github.com/leapstack-labs/leapstore/pkg/core"
)

const commoditiesTable = "commodities"

var commodityDescriptor = &core.EntityDescriptor{
	TypeName: ledger.TypeCommodity,
	Table:    commoditiesTable,
	Columns: []core.ColumnDescriptor{
		keyColumn[*ledger.Commodity](),
		{Name: "namespace", Type: core.TypeString, Size: 2048, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Commodity).Namespace, (*ledger.Commodity).SetNamespace)},
		{Name: "mnemonic", Type: core.TypeString, Size: 2048, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Commodity).Mnemonic, (*ledger.Commodity).SetMnemonic)},
		{Name: "fullname", Type: core.TypeString, Size: 2048,
			Access: core.Bind((*ledger.Commodity).FullName, (*ledger.Commodity).SetFullName)},
		{Name: "cusip", Type: core.TypeString, Size: 2048,
			Access: core.Bind((*ledger.Commodity).Cusip, (*ledger.Commodity).SetCusip)},
		{Name: "fraction", Type: core.TypeInt, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Commodity).Fraction, (*ledger.Commodity).SetFraction)},
		{Name: "quote_flag", Type: core.TypeBoolean, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Commodity).QuoteFlag, (*ledger.Commodity).SetQuoteFlag)},
		{Name: "quote_source", Type: core.TypeString, Size: 2048,
			Access: core.Bind((*ledger.Commodity).QuoteSource, (*ledger.Commodity).SetQuoteSource)},
		{Name: "quote_tz", Type: core.TypeString, Size: 2048,
			Access: core.Bind((*ledger.Commodity).QuoteTZ, (*ledger.Commodity).SetQuoteTZ)},
	},
}

// commodityHandler merges stored commodities into the ones the book
// already knows by namespace and mnemonic.
type commodityHandler struct {
	*backend.StandardHandler
}

func newCommodityHandler() *commodityHandler {
	return &commodityHandler{&backend.StandardHandler{
		Type:         ledger.TypeCommodity,
		Descriptor:   commodityDescriptor,
		TableVersion: 1,
		New:          func(*backend.Backend) core.Entity { return &ledger.Commodity{} },
	}}
}

// InitialLoad reads every commodity. A stored commodity the book already
// holds under another identity takes the stored identity; when the two
// differ the book's version is queued to be written back after the load.
func (h *commodityHandler) InitialLoad(ctx context.Context, b *backend.Backend) error {
	book, err := bookOf(b)
	if err != nil {
		return err
	}
	rs, err := b.SelectAll(ctx, commoditiesTable)
	if err != nil {
		return err
	}
	for _, row := range rs.Rows {
		stored := &ledger.Commodity{}
		if err := b.LoadObject(row, commodityDescriptor, stored); err != nil {
			return err
		}
		known := book.FindCommodity(stored.Namespace(), stored.Mnemonic())
		if known == nil || known.GUID() == stored.GUID() {
			if _, err := h.LoadRow(ctx, b, row); err != nil {
				return err
			}
			continue
		}

		book.Rekey(known, stored.GUID())
		if known.SameAs(stored) {
			markClean(known)
			continue
		}
		b.Logger().Debug("commodity differs from stored row",
			slog.String("commodity", known.String()))
		markClean(known)
		known.MarkDirty()
		b.PushPostLoad(known)
	}
	return nil
}

// saveCommodity inserts c when its row is missing.
func saveCommodity(ctx context.Context, b *backend.Backend, c *ledger.Commodity) error {
	if c == nil {
		return nil
	}
	in, err := b.IsInDB(ctx, commoditiesTable, commodityDescriptor, c)
	if err != nil || in {
		return err
	}
	if err := b.CommitStandardItem(ctx, commodityDescriptor, c, true); err != nil {
		return err
	}
	b.Settle(c)
	return nil
}
