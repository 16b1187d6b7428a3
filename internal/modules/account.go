package modules

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapstore/internal/backend"
	"github.com/leapstack-labs/leapstore/internal/ledger"
	"github.com/leapstack-labs/leapstore/pkg/core"
)

const accountsTable = "accounts"

var accountDescriptor = &core.EntityDescriptor{
	TypeName: ledger.TypeAccount,
	Table:    accountsTable,
	Columns: []core.ColumnDescriptor{
		keyColumn[*ledger.Account](),
		{Name: "name", Type: core.TypeString, Size: 2048, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Account).Name, (*ledger.Account).SetName)},
		{Name: "account_type", Type: core.TypeString, Size: 2048, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Account).AccountType, (*ledger.Account).SetAccountType)},
		{Name: "commodity_guid", Type: core.RefType(ledger.TypeCommodity),
			Access: core.Bind((*ledger.Account).Commodity, (*ledger.Account).SetCommodity)},
		{Name: "commodity_scu", Type: core.TypeInt, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Account).CommoditySCU, (*ledger.Account).SetCommoditySCU)},
		{Name: "non_std_scu", Type: core.TypeBoolean, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Account).NonStandardSCU, (*ledger.Account).SetNonStandardSCU)},
		{Name: "parent_guid", Type: core.TypeGUID,
			Access: core.Bind((*ledger.Account).ParentID, (*ledger.Account).SetParentID)},
		{Name: "code", Type: core.TypeString, Size: 2048,
			Access: core.Bind((*ledger.Account).Code, (*ledger.Account).SetCode)},
		{Name: "description", Type: core.TypeString, Size: 2048,
			Access: core.Bind((*ledger.Account).Description, (*ledger.Account).SetDescription)},
		{Name: "hidden", Type: core.TypeBoolean,
			Access: core.Bind((*ledger.Account).Hidden, (*ledger.Account).SetHidden)},
		{Name: "placeholder", Type: core.TypeBoolean,
			Access: core.Bind((*ledger.Account).Placeholder, (*ledger.Account).SetPlaceholder)},
	},
}

// accountHandler stores the account tree. Parents are linked once every
// account is loaded since a child row may precede its parent.
type accountHandler struct {
	*backend.StandardHandler
}

func newAccountHandler() *accountHandler {
	return &accountHandler{&backend.StandardHandler{
		Type:         ledger.TypeAccount,
		Descriptor:   accountDescriptor,
		TableVersion: 1,
		New:          func(*backend.Backend) core.Entity { return &ledger.Account{} },
		Indexes:      []backend.Index{{Name: "accounts_parent_guid_index", Columns: []string{"parent_guid"}}},
	}}
}

// Commit writes the account, inserting its commodity first when needed.
func (h *accountHandler) Commit(ctx context.Context, b *backend.Backend, e core.Entity) error {
	a, ok := e.(*ledger.Account)
	if !ok {
		return fmt.Errorf("%w: account handler got %T", core.ErrConfiguration, e)
	}
	if a.State() != core.Destroying {
		if err := saveCommodity(ctx, b, a.Commodity()); err != nil {
			return err
		}
	}
	return h.StandardHandler.Commit(ctx, b, e)
}

// InitialLoad reads every account, then links each to its parent.
func (h *accountHandler) InitialLoad(ctx context.Context, b *backend.Backend) error {
	rs, err := b.SelectAll(ctx, accountsTable)
	if err != nil {
		return err
	}
	loaded, err := h.LoadRows(ctx, b, rs)
	if err != nil {
		return err
	}
	linkAccounts(b, loaded)
	return nil
}

// RunQuery loads the selected accounts and links them into the tree.
func (h *accountHandler) RunQuery(ctx context.Context, b *backend.Backend, compiled any) error {
	sql, ok := compiled.(string)
	if !ok {
		return fmt.Errorf("%w: account query compiled to %T", core.ErrConfiguration, compiled)
	}
	rs, err := b.Select(ctx, sql)
	if err != nil {
		return err
	}
	loaded, err := h.LoadRows(ctx, b, rs)
	if err != nil {
		return err
	}
	linkAccounts(b, loaded)
	return nil
}

func linkAccounts(b *backend.Backend, loaded []core.Entity) {
	for _, e := range loaded {
		a := e.(*ledger.Account)
		if !a.LinkParent() {
			b.Logger().Warn("account parent not found",
				slog.String("account", a.GUID().String()),
				slog.String("parent", a.ParentID().String()))
		}
	}
	if book, err := bookOf(b); err == nil {
		book.SetRootID(book.RootID())
		book.SetTemplateID(book.TemplateID())
	}
}
