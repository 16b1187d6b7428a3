package modules

import (
	"context"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapstore/internal/backend"
	"github.com/leapstack-labs/leapstore/internal/ledger"
	"github.com/leapstack-labs/leapstore/pkg/core"
	"github.com/leapstack-labs/leapstore/pkg/query"
)

const (
	transactionsTable = "transactions"
	splitsTable       = "splits"

	// maxGUIDsPerQuery bounds the IN lists used to fetch splits.
	maxGUIDsPerQuery = 500
)

var transactionDescriptor = &core.EntityDescriptor{
	TypeName: ledger.TypeTransaction,
	Table:    transactionsTable,
	Columns: []core.ColumnDescriptor{
		keyColumn[*ledger.Transaction](),
		{Name: "currency_guid", Type: core.RefType(ledger.TypeCommodity), Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Transaction).Currency, (*ledger.Transaction).SetCurrency)},
		{Name: "num", Type: core.TypeString, Size: 2048, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Transaction).Num, (*ledger.Transaction).SetNum)},
		{Name: "post_date", Type: core.TypeTimestamp,
			Access: core.Bind((*ledger.Transaction).PostDate, (*ledger.Transaction).SetPostDate)},
		{Name: "enter_date", Type: core.TypeTimestamp,
			Access: core.Bind((*ledger.Transaction).EnterDate, (*ledger.Transaction).SetEnterDate)},
		{Name: "description", Type: core.TypeString, Size: 2048,
			Access: core.Bind((*ledger.Transaction).Description, (*ledger.Transaction).SetDescription)},
	},
}

var splitDescriptor = &core.EntityDescriptor{
	TypeName: ledger.TypeSplit,
	Table:    splitsTable,
	Columns: []core.ColumnDescriptor{
		keyColumn[*ledger.Split](),
		{Name: "tx_guid", Type: core.RefType(ledger.TypeTransaction), Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Split).Transaction, (*ledger.Split).SetTransaction)},
		{Name: "account_guid", Type: core.RefType(ledger.TypeAccount), Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Split).Account, (*ledger.Split).SetAccount)},
		{Name: "memo", Type: core.TypeString, Size: 2048, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Split).Memo, (*ledger.Split).SetMemo)},
		{Name: "action", Type: core.TypeString, Size: 2048, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Split).Action, (*ledger.Split).SetAction)},
		{Name: "reconcile_state", Type: core.TypeString, Size: 1, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Split).ReconcileState, (*ledger.Split).SetReconcileState)},
		{Name: "reconcile_date", Type: core.TypeTimestamp,
			Access: core.Bind((*ledger.Split).ReconcileDate, (*ledger.Split).SetReconcileDate)},
		{Name: "value", Type: core.TypeNumeric, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Split).Value, (*ledger.Split).SetValue)},
		{Name: "quantity", Type: core.TypeNumeric, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Split).Quantity, (*ledger.Split).SetQuantity)},
		{Name: "lot_guid", Type: core.RefType(ledger.TypeLot),
			Access: core.Bind((*ledger.Split).Lot, (*ledger.Split).SetLot)},
	},
}

// transactionHandler stores transactions together with their splits.
// Transactions are not part of the initial load; they are read by LoadAll
// or by queries.
type transactionHandler struct {
	tx     *backend.StandardHandler
	splits *backend.StandardHandler
}

var (
	_ backend.Committer     = (*transactionHandler)(nil)
	_ backend.FullLoader    = (*transactionHandler)(nil)
	_ backend.TableCreator  = (*transactionHandler)(nil)
	_ backend.QueryCompiler = (*transactionHandler)(nil)
	_ backend.QueryRunner   = (*transactionHandler)(nil)
	_ backend.QueryFreer    = (*transactionHandler)(nil)
)

func newTransactionHandler() *transactionHandler {
	return &transactionHandler{
		tx: &backend.StandardHandler{
			Type:         ledger.TypeTransaction,
			Descriptor:   transactionDescriptor,
			TableVersion: 3,
			New:          func(*backend.Backend) core.Entity { return &ledger.Transaction{} },
			Indexes:      []backend.Index{{Name: "tx_post_date_index", Columns: []string{"post_date"}}},
		},
		splits: newSplitStandard(),
	}
}

func newSplitStandard() *backend.StandardHandler {
	return &backend.StandardHandler{
		Type:         ledger.TypeSplit,
		Descriptor:   splitDescriptor,
		TableVersion: 4,
		New:          func(*backend.Backend) core.Entity { return &ledger.Split{} },
		Indexes: []backend.Index{
			{Name: "splits_tx_guid_index", Columns: []string{"tx_guid"}},
			{Name: "splits_account_guid_index", Columns: []string{"account_guid"}},
		},
	}
}

func (h *transactionHandler) Version() int     { return backend.HandlerVersion }
func (h *transactionHandler) TypeName() string { return ledger.TypeTransaction }

// CreateTables creates the transaction and split tables.
func (h *transactionHandler) CreateTables(ctx context.Context, b *backend.Backend) error {
	if err := h.tx.CreateTables(ctx, b); err != nil {
		return err
	}
	return h.splits.CreateTables(ctx, b)
}

// Commit writes the transaction row and replaces its stored splits.
func (h *transactionHandler) Commit(ctx context.Context, b *backend.Backend, e core.Entity) error {
	tx, ok := e.(*ledger.Transaction)
	if !ok {
		return fmt.Errorf("%w: transaction handler got %T", core.ErrConfiguration, e)
	}
	state := tx.State()
	destroying := state == core.Destroying
	if !destroying {
		if err := saveCommodity(ctx, b, tx.Currency()); err != nil {
			return err
		}
	}
	if err := b.CommitStandardItem(ctx, transactionDescriptor, tx, false); err != nil {
		return err
	}

	if state != core.Infant && !b.Pristine() {
		del := "DELETE FROM " + splitsTable + " WHERE tx_guid=" + b.Conn().Quote(tx.GUID().String())
		if _, err := b.Exec(ctx, del); err != nil {
			return err
		}
	}
	for _, s := range tx.Splits() {
		if destroying {
			s.Destroy()
		} else if err := b.CommitStandardItem(ctx, splitDescriptor, s, true); err != nil {
			return err
		}
		b.Settle(s)
	}
	return nil
}

// LoadAll reads every transaction and its splits.
func (h *transactionHandler) LoadAll(ctx context.Context, b *backend.Backend) error {
	rs, err := b.SelectAll(ctx, transactionsTable)
	if err != nil {
		return err
	}
	return h.load(ctx, b, rs)
}

// CompileQuery renders q over the transactions table.
func (h *transactionHandler) CompileQuery(ctx context.Context, b *backend.Backend, q *query.Query) (any, error) {
	return h.tx.CompileQuery(ctx, b, q)
}

// RunQuery loads the selected transactions and their splits.
func (h *transactionHandler) RunQuery(ctx context.Context, b *backend.Backend, compiled any) error {
	sql, ok := compiled.(string)
	if !ok {
		return fmt.Errorf("%w: transaction query compiled to %T", core.ErrConfiguration, compiled)
	}
	rs, err := b.Select(ctx, sql)
	if err != nil {
		return err
	}
	return h.load(ctx, b, rs)
}

func (h *transactionHandler) FreeQuery(context.Context, *backend.Backend, any) {}

func (h *transactionHandler) load(ctx context.Context, b *backend.Backend, rs *core.ResultSet) error {
	txs, err := h.tx.LoadRows(ctx, b, rs)
	if err != nil {
		return err
	}
	ids := make([]core.GUID, len(txs))
	for i, tx := range txs {
		ids[i] = tx.GUID()
	}
	return h.loadSplits(ctx, b, ids)
}

// loadSplits reads the splits of the given transactions in batches.
func (h *transactionHandler) loadSplits(ctx context.Context, b *backend.Backend, ids []core.GUID) error {
	for len(ids) > 0 {
		var sb strings.Builder
		sb.WriteString("SELECT * FROM " + splitsTable + " WHERE tx_guid IN (")
		n := query.AppendGUIDList(&sb, ids, maxGUIDsPerQuery, b.Conn())
		sb.WriteByte(')')
		ids = ids[n:]

		rs, err := b.Select(ctx, sb.String())
		if err != nil {
			return err
		}
		if _, err := h.splits.LoadRows(ctx, b, rs); err != nil {
			return err
		}
	}
	return nil
}

// splitHandler commits a single edited split.
type splitHandler struct {
	std *backend.StandardHandler
}

func newSplitHandler() *splitHandler {
	return &splitHandler{std: newSplitStandard()}
}

func (h *splitHandler) Version() int     { return backend.HandlerVersion }
func (h *splitHandler) TypeName() string { return ledger.TypeSplit }

// Commit writes the split row.
func (h *splitHandler) Commit(ctx context.Context, b *backend.Backend, e core.Entity) error {
	return h.std.Commit(ctx, b, e)
}
