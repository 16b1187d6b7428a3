package modules

import (
	"context"

	"github.com/leapstack-labs/leapstore/internal/backend"
	"github.com/leapstack-labs/leapstore/internal/ledger"
	"github.com/leapstack-labs/leapstore/pkg/core"
)

const lotsTable = "lots"

var lotDescriptor = &core.EntityDescriptor{
	TypeName: ledger.TypeLot,
	Table:    lotsTable,
	Columns: []core.ColumnDescriptor{
		keyColumn[*ledger.Lot](),
		{Name: "account_guid", Type: core.RefType(ledger.TypeAccount),
			Access: core.Bind((*ledger.Lot).Account, (*ledger.Lot).SetAccount)},
		{Name: "is_closed", Type: core.TypeBoolean, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Lot).IsClosed, (*ledger.Lot).SetClosed)},
	},
}

// lotHandler stores lots. Lots hang off accounts rather than the tree, so
// a full save writes them separately.
type lotHandler struct {
	*backend.StandardHandler
}

func newLotHandler() *lotHandler {
	return &lotHandler{&backend.StandardHandler{
		Type:         ledger.TypeLot,
		Descriptor:   lotDescriptor,
		TableVersion: 2,
		New:          func(*backend.Backend) core.Entity { return &ledger.Lot{} },
		Upgrade:      upgradeLots,
	}}
}

// Write saves every lot in the book.
func (h *lotHandler) Write(ctx context.Context, b *backend.Backend) error {
	book, err := bookOf(b)
	if err != nil {
		return err
	}
	for _, l := range book.Lots() {
		if err := b.SaveEntity(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

// upgradeLots adds the closed flag missing from the first layout. Existing
// rows have no value for it, so the added column allows NULL.
func upgradeLots(ctx context.Context, b *backend.Backend, from int) error {
	if from >= 2 {
		return nil
	}
	closed, _ := lotDescriptor.Column("is_closed")
	closed.Flags &^= core.FlagNotNull
	return b.AddColumns(ctx, lotsTable, []core.ColumnDescriptor{closed})
}
