package modules

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapstore/internal/backend"
	"github.com/leapstack-labs/leapstore/internal/ledger"
	"github.com/leapstack-labs/leapstore/pkg/core"
)

const (
	billTermsTable = "billterms"
	invoicesTable  = "invoices"
)

var billTermDescriptor = &core.EntityDescriptor{
	TypeName: ledger.TypeBillTerm,
	Table:    billTermsTable,
	Columns: []core.ColumnDescriptor{
		keyColumn[*ledger.BillTerm](),
		{Name: "name", Type: core.TypeString, Size: 2048, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.BillTerm).Name, (*ledger.BillTerm).SetName)},
		{Name: "description", Type: core.TypeString, Size: 2048, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.BillTerm).Description, (*ledger.BillTerm).SetDescription)},
		{Name: "refcount", Type: core.TypeInt, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.BillTerm).Refcount, (*ledger.BillTerm).SetRefcount)},
		{Name: "invisible", Type: core.TypeBoolean, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.BillTerm).Invisible, (*ledger.BillTerm).SetInvisible)},
		{Name: "parent", Type: core.TypeGUID,
			Access: core.Bind((*ledger.BillTerm).ParentID, (*ledger.BillTerm).SetParentID)},
		{Name: "type", Type: core.TypeString, Size: 2048, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.BillTerm).TermType, (*ledger.BillTerm).SetTermType)},
		{Name: "duedays", Type: core.TypeInt,
			Access: core.Bind((*ledger.BillTerm).DueDays, (*ledger.BillTerm).SetDueDays)},
		{Name: "discountdays", Type: core.TypeInt,
			Access: core.Bind((*ledger.BillTerm).DiscountDays, (*ledger.BillTerm).SetDiscountDays)},
		{Name: "discount", Type: core.TypeNumeric,
			Access: core.Bind((*ledger.BillTerm).Discount, (*ledger.BillTerm).SetDiscount)},
		{Name: "cutoff", Type: core.TypeInt,
			Access: core.Bind((*ledger.BillTerm).Cutoff, (*ledger.BillTerm).SetCutoff)},
	},
}

var invoiceDescriptor = &core.EntityDescriptor{
	TypeName: ledger.TypeInvoice,
	Table:    invoicesTable,
	Columns: []core.ColumnDescriptor{
		keyColumn[*ledger.Invoice](),
		{Name: "id", Type: core.TypeString, Size: 2048, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Invoice).ID, (*ledger.Invoice).SetID)},
		{Name: "date_opened", Type: core.TypeTimestamp,
			Access: core.Bind((*ledger.Invoice).DateOpened, (*ledger.Invoice).SetDateOpened)},
		{Name: "date_posted", Type: core.TypeTimestamp,
			Access: core.Bind((*ledger.Invoice).DatePosted, (*ledger.Invoice).SetDatePosted)},
		{Name: "notes", Type: core.TypeString, Size: 2048, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Invoice).Notes, (*ledger.Invoice).SetNotes)},
		{Name: "active", Type: core.TypeBoolean, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Invoice).Active, (*ledger.Invoice).SetActive)},
		{Name: "currency", Type: core.RefType(ledger.TypeCommodity), Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Invoice).Currency, (*ledger.Invoice).SetCurrency)},
		{Name: "owner_type", Type: core.TypeInt,
			Access: core.Bind((*ledger.Invoice).OwnerType, (*ledger.Invoice).SetOwnerType)},
		{Name: "owner_guid", Type: core.TypeGUID,
			Access: core.Bind((*ledger.Invoice).OwnerID, (*ledger.Invoice).SetOwnerID)},
		{Name: "terms", Type: core.RefType(ledger.TypeBillTerm),
			Access: core.Bind((*ledger.Invoice).Terms, (*ledger.Invoice).SetTerms)},
		{Name: "billing_id", Type: core.TypeString, Size: 2048,
			Access: core.Bind((*ledger.Invoice).BillingID, (*ledger.Invoice).SetBillingID)},
		{Name: "post_lot", Type: core.RefType(ledger.TypeLot),
			Access: core.Bind((*ledger.Invoice).PostLot, (*ledger.Invoice).SetPostLot)},
		{Name: "post_acc", Type: core.RefType(ledger.TypeAccount),
			Access: core.Bind((*ledger.Invoice).PostAccount, (*ledger.Invoice).SetPostAccount)},
		{Name: "charge_amt", Type: core.TypeNumeric,
			Access: core.Bind((*ledger.Invoice).Charge, (*ledger.Invoice).SetCharge)},
	},
}

// billTermHandler stores billing terms. Parent terms are linked after the
// whole table is read.
type billTermHandler struct {
	*backend.StandardHandler
}

func newBillTermHandler() *billTermHandler {
	return &billTermHandler{&backend.StandardHandler{
		Type:         ledger.TypeBillTerm,
		Descriptor:   billTermDescriptor,
		TableVersion: 2,
		New:          func(*backend.Backend) core.Entity { return &ledger.BillTerm{} },
	}}
}

// InitialLoad reads every term and links parents.
func (h *billTermHandler) InitialLoad(ctx context.Context, b *backend.Backend) error {
	book, err := bookOf(b)
	if err != nil {
		return err
	}
	rs, err := b.SelectAll(ctx, billTermsTable)
	if err != nil {
		return err
	}
	loaded, err := h.LoadRows(ctx, b, rs)
	if err != nil {
		return err
	}
	for _, e := range loaded {
		t := e.(*ledger.BillTerm)
		if !t.LinkParent(book) {
			b.Logger().Warn("billing term parent not found",
				slog.String("term", t.Name()),
				slog.String("parent", t.ParentID().String()))
		}
	}
	return nil
}

// Write saves every billing term in the book.
func (h *billTermHandler) Write(ctx context.Context, b *backend.Backend) error {
	book, err := bookOf(b)
	if err != nil {
		return err
	}
	for _, t := range book.BillTerms() {
		if err := b.SaveEntity(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// invoiceHandler stores invoices.
type invoiceHandler struct {
	*backend.StandardHandler
}

func newInvoiceHandler() *invoiceHandler {
	return &invoiceHandler{&backend.StandardHandler{
		Type:         ledger.TypeInvoice,
		Descriptor:   invoiceDescriptor,
		TableVersion: 3,
		New:          func(*backend.Backend) core.Entity { return &ledger.Invoice{} },
	}}
}

// Commit writes the invoice, inserting its currency first when needed.
func (h *invoiceHandler) Commit(ctx context.Context, b *backend.Backend, e core.Entity) error {
	inv, ok := e.(*ledger.Invoice)
	if !ok {
		return fmt.Errorf("%w: invoice handler got %T", core.ErrConfiguration, e)
	}
	if inv.State() != core.Destroying {
		if err := saveCommodity(ctx, b, inv.Currency()); err != nil {
			return err
		}
	}
	return h.StandardHandler.Commit(ctx, b, e)
}

// Write saves every invoice in the book.
func (h *invoiceHandler) Write(ctx context.Context, b *backend.Backend) error {
	book, err := bookOf(b)
	if err != nil {
		return err
	}
	for _, inv := range book.Invoices() {
		if err := b.SaveEntity(ctx, inv); err != nil {
			return err
		}
	}
	return nil
}
