package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapstore/pkg/core"
)

func TestNewBook_HasDefaultCurrency(t *testing.T) {
	b := NewBook()
	usd := b.FindCommodity(CurrencyNamespace, "USD")
	require.NotNil(t, usd)
	assert.True(t, usd.IsCurrency())
	assert.Equal(t, 100, usd.Fraction())
	assert.Nil(t, b.RootAccount())
	assert.Nil(t, b.TemplateRoot())
}

func TestSample(t *testing.T) {
	b := Sample(SampleOptions{Transactions: 8})

	counts := b.Counts()
	assert.Equal(t, 2, counts[TypeCommodity])
	assert.Equal(t, 1+8+1, len(b.Transactions(b.RootAccount())))
	assert.Len(t, b.Transactions(b.TemplateRoot()), 1)
	assert.Equal(t, 1+8+1+1, b.TransactionCount())
	assert.Equal(t, 3, counts[TypePrice])
	assert.Equal(t, 1, counts[TypeSchedXaction])
	assert.Equal(t, 1, counts[TypeBillTerm])
	assert.Equal(t, 1, counts[TypeInvoice])
	assert.Equal(t, 1, counts[TypeLot])

	for _, tx := range b.AllTransactions() {
		require.NoError(t, tx.Validate(), tx.Description())
	}
}

func TestDescendantsDepthFirst(t *testing.T) {
	b := Sample(SampleOptions{Transactions: 1})

	var names []string
	for _, e := range b.Descendants(b.RootAccount()) {
		names = append(names, e.(*Account).FullName())
	}
	assert.Equal(t, []string{
		"Assets", "Assets:Checking", "Assets:Brokerage", "Assets:Accounts Receivable",
		"Income", "Income:Salary",
		"Expenses", "Expenses:Groceries", "Expenses:Rent",
		"Equity", "Equity:Opening Balances",
	}, names)
}

func TestBalance(t *testing.T) {
	b := Sample(SampleOptions{Transactions: 1})
	checking := b.FindAccount("Assets:Checking")
	require.NotNil(t, checking)

	bal, err := checking.Balance()
	require.NoError(t, err)
	assert.True(t, bal.Equal(core.NewNumeric(250000-50000+320000, 100)), bal.String())
}

func TestSettersMarkDirty(t *testing.T) {
	a := NewAccount("Cash", AccountCash, nil)
	a.SetName("Wallet")
	assert.Equal(t, core.Infant, a.State())

	a.MarkClean()
	a.SetDescription("pocket money")
	assert.Equal(t, core.Dirty, a.State())
}

func TestLinkParent(t *testing.T) {
	b := NewBook()
	parent := NewAccount("Assets", AccountAsset, nil)
	child := NewAccount("Cash", AccountCash, nil)
	child.SetParentID(parent.GUID())
	b.Add(child)

	assert.False(t, child.LinkParent())
	b.Add(parent)
	assert.True(t, child.LinkParent())
	assert.Same(t, parent, child.Parent())
	assert.Equal(t, []*Account{child}, parent.Children())
}

func TestRemoveAccountDetaches(t *testing.T) {
	b := Sample(SampleOptions{Transactions: 1})
	rent := b.FindAccount("Expenses:Rent")
	require.NotNil(t, rent)
	expenses := rent.Parent()

	b.Remove(rent)
	_, ok := b.Account(rent.GUID())
	assert.False(t, ok)
	assert.NotContains(t, expenses.Children(), rent)
}

func TestRekey(t *testing.T) {
	b := NewBook()
	usd := b.FindCommodity(CurrencyNamespace, "USD")
	id := core.NewGUID()

	b.Rekey(usd, id)
	got, ok := b.Lookup(TypeCommodity, id)
	require.True(t, ok)
	assert.Same(t, usd, got)
	assert.Len(t, b.Commodities(), 1)
}

func TestRootIDBeforeAccountsLoad(t *testing.T) {
	b := NewBook()
	root := NewAccount("Root Account", AccountRoot, nil)
	b.SetRootID(root.GUID())
	assert.Nil(t, b.Root())

	b.Add(root)
	assert.Same(t, root, b.Root())
	assert.Equal(t, root.GUID(), b.RootID())
}

func TestBillTermDueDate(t *testing.T) {
	posted := core.NewDate(2024, 1, 15).Time()

	days := NewBillTerm("Net 30", 30)
	assert.Equal(t, core.NewDate(2024, 2, 14), core.DateOf(days.DueDate(posted)))

	proximo := NewBillTerm("10th next month", 10)
	proximo.SetTermType(TermProximo)
	assert.Equal(t, core.NewDate(2024, 2, 10), core.DateOf(proximo.DueDate(posted)))
}

func TestSplitMovesBetweenTransactions(t *testing.T) {
	b := NewBook()
	usd := b.FindCommodity(CurrencyNamespace, "USD")
	acct := NewAccount("Cash", AccountCash, usd)
	t1 := NewTransaction(usd, core.NewDate(2024, 1, 1).Time(), "one")
	t2 := NewTransaction(usd, core.NewDate(2024, 1, 2).Time(), "two")
	b.Add(t1)
	b.Add(t2)

	s := t1.AddSplit(acct, core.NewNumeric(100, 100), "")
	s.SetTransaction(t2)
	assert.Empty(t, t1.Splits())
	assert.Equal(t, []*Split{s}, t2.Splits())
	assert.Same(t, t2, s.Transaction())
}
