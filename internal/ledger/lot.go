package ledger

import "github.com/leapstack-labs/leapstore/pkg/core"

// Lot groups the splits of one acquisition within an account.
type Lot struct {
	core.Instance

	account  *Account
	isClosed bool
}

// NewLot returns an open lot in account.
func NewLot(account *Account) *Lot {
	l := &Lot{account: account}
	l.SetGUID(core.NewGUID())
	return l
}

func (*Lot) TypeName() string { return TypeLot }

func (l *Lot) Account() *Account { return l.account }
func (l *Lot) IsClosed() bool    { return l.isClosed }

func (l *Lot) SetAccount(v *Account) { l.account = v; l.MarkDirty() }
func (l *Lot) SetClosed(v bool)      { l.isClosed = v; l.MarkDirty() }
