package ledger

import (
	"fmt"
	"slices"
	"time"

	"github.com/leapstack-labs/leapstore/pkg/core"
)

// Reconcile states of a split.
const (
	NotReconciled = "n"
	Cleared       = "c"
	Reconciled    = "y"
)

// Transaction is a balanced set of splits posted on one date.
type Transaction struct {
	core.Instance

	book        *Book
	currency    *Commodity
	num         string
	postDate    time.Time
	enterDate   time.Time
	description string

	splits []*Split
}

// NewTransaction returns a transaction in currency, entered now.
func NewTransaction(currency *Commodity, posted time.Time, description string) *Transaction {
	tx := &Transaction{
		currency:    currency,
		postDate:    posted.UTC().Truncate(time.Second),
		enterDate:   time.Now().UTC().Truncate(time.Second),
		description: description,
	}
	tx.SetGUID(core.NewGUID())
	return tx
}

func (*Transaction) TypeName() string { return TypeTransaction }

func (t *Transaction) Currency() *Commodity { return t.currency }
func (t *Transaction) Num() string          { return t.num }
func (t *Transaction) PostDate() time.Time  { return t.postDate }
func (t *Transaction) EnterDate() time.Time { return t.enterDate }
func (t *Transaction) Description() string  { return t.description }
func (t *Transaction) Splits() []*Split     { return slices.Clone(t.splits) }

func (t *Transaction) SetCurrency(v *Commodity) { t.currency = v; t.MarkDirty() }
func (t *Transaction) SetNum(v string)          { t.num = v; t.MarkDirty() }
func (t *Transaction) SetPostDate(v time.Time)  { t.postDate = v; t.MarkDirty() }
func (t *Transaction) SetEnterDate(v time.Time) { t.enterDate = v; t.MarkDirty() }
func (t *Transaction) SetDescription(v string)  { t.description = v; t.MarkDirty() }

// AddSplit posts value to account. The quantity equals the value.
func (t *Transaction) AddSplit(account *Account, value core.Numeric, memo string) *Split {
	s := NewSplit(account, value, value)
	s.memo = memo
	t.AttachSplit(s)
	return s
}

// AttachSplitFor adds a split with distinct value and quantity.
func (t *Transaction) AttachSplitFor(account *Account, value, quantity core.Numeric) *Split {
	s := NewSplit(account, value, quantity)
	t.AttachSplit(s)
	return s
}

// AttachSplit adds s to t.
func (t *Transaction) AttachSplit(s *Split) {
	if s.tx == t && slices.Contains(t.splits, s) {
		return
	}
	if s.tx != nil {
		s.tx.removeSplit(s)
	}
	s.tx = t
	t.splits = append(t.splits, s)
	if t.book != nil {
		t.book.Add(s)
	}
}

func (t *Transaction) removeSplit(s *Split) {
	t.splits = slices.DeleteFunc(t.splits, func(x *Split) bool { return x == s })
}

// Imbalance is the sum of all split values. Balanced transactions sum to zero.
func (t *Transaction) Imbalance() (core.Numeric, error) {
	total := core.ZeroNumeric
	for _, s := range t.splits {
		sum, err := total.Add(s.value)
		if err != nil {
			return total, fmt.Errorf("transaction %s: %w", t.GUID(), err)
		}
		total = sum
	}
	return total, nil
}

// Validate checks that t balances.
func (t *Transaction) Validate() error {
	imb, err := t.Imbalance()
	if err != nil {
		return err
	}
	if !imb.IsZero() {
		return fmt.Errorf("transaction %s is unbalanced by %s", t.GUID(), imb.DecimalString())
	}
	return nil
}

// Split is one line of a transaction, posting an amount to an account.
type Split struct {
	core.Instance

	tx             *Transaction
	account        *Account
	memo           string
	action         string
	reconcileState string
	reconcileDate  time.Time
	value          core.Numeric
	quantity       core.Numeric
	lot            *Lot
}

// NewSplit returns an unreconciled split.
func NewSplit(account *Account, value, quantity core.Numeric) *Split {
	s := &Split{account: account, value: value, quantity: quantity, reconcileState: NotReconciled}
	s.SetGUID(core.NewGUID())
	return s
}

func (*Split) TypeName() string { return TypeSplit }

func (s *Split) Transaction() *Transaction { return s.tx }
func (s *Split) Account() *Account         { return s.account }
func (s *Split) Memo() string              { return s.memo }
func (s *Split) Action() string            { return s.action }
func (s *Split) ReconcileState() string    { return s.reconcileState }
func (s *Split) ReconcileDate() time.Time  { return s.reconcileDate }
func (s *Split) Value() core.Numeric       { return s.value }
func (s *Split) Quantity() core.Numeric    { return s.quantity }
func (s *Split) Lot() *Lot                 { return s.lot }

// SetTransaction attaches s to tx.
func (s *Split) SetTransaction(tx *Transaction) {
	if tx == nil {
		if s.tx != nil {
			s.tx.removeSplit(s)
		}
		s.tx = nil
	} else {
		tx.AttachSplit(s)
	}
	s.MarkDirty()
}

func (s *Split) SetAccount(v *Account)        { s.account = v; s.MarkDirty() }
func (s *Split) SetMemo(v string)             { s.memo = v; s.MarkDirty() }
func (s *Split) SetAction(v string)           { s.action = v; s.MarkDirty() }
func (s *Split) SetReconcileState(v string)   { s.reconcileState = v; s.MarkDirty() }
func (s *Split) SetReconcileDate(v time.Time) { s.reconcileDate = v; s.MarkDirty() }
func (s *Split) SetValue(v core.Numeric)      { s.value = v; s.MarkDirty() }
func (s *Split) SetQuantity(v core.Numeric)   { s.quantity = v; s.MarkDirty() }
func (s *Split) SetLot(v *Lot)                { s.lot = v; s.MarkDirty() }
