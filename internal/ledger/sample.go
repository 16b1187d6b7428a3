package ledger

import (
	"fmt"
	"time"

	"github.com/leapstack-labs/leapstore/pkg/core"
)

// SampleOptions sizes a generated book.
type SampleOptions struct {
	// Transactions is the number of expense transactions to post.
	Transactions int
	// Start is the first posting date.
	Start time.Time
}

// Sample builds a small but complete book: a currency and a stock, a
// three-level account tree, balanced transactions, prices, a scheduled
// transaction with its template, a billing term and an invoice.
func Sample(opts SampleOptions) *Book {
	if opts.Transactions <= 0 {
		opts.Transactions = 12
	}
	if opts.Start.IsZero() {
		opts.Start = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	}

	book := NewBook()
	usd := book.FindCommodity(CurrencyNamespace, "USD")
	stock := NewCommodity("NASDAQ", "ACME", "Acme Corporation", 10000)
	book.Add(stock)

	root := NewAccount("Root Account", AccountRoot, usd)
	book.SetRoot(root)

	assets := NewAccount("Assets", AccountAsset, usd)
	assets.SetPlaceholder(true)
	root.AddChild(assets)
	checking := NewAccount("Checking", AccountBank, usd)
	checking.SetCode("1010")
	assets.AddChild(checking)
	brokerage := NewAccount("Brokerage", AccountStock, stock)
	assets.AddChild(brokerage)

	income := NewAccount("Income", AccountIncome, usd)
	root.AddChild(income)
	salary := NewAccount("Salary", AccountIncome, usd)
	income.AddChild(salary)

	expenses := NewAccount("Expenses", AccountExpense, usd)
	root.AddChild(expenses)
	groceries := NewAccount("Groceries", AccountExpense, usd)
	expenses.AddChild(groceries)
	rent := NewAccount("Rent", AccountExpense, usd)
	expenses.AddChild(rent)

	equity := NewAccount("Equity", AccountEquity, usd)
	root.AddChild(equity)
	opening := NewAccount("Opening Balances", AccountEquity, usd)
	equity.AddChild(opening)

	receivable := NewAccount("Accounts Receivable", AccountAsset, usd)
	assets.AddChild(receivable)

	post := func(at time.Time, desc string, from, to *Account, cents int64) *Transaction {
		tx := NewTransaction(usd, at, desc)
		book.Add(tx)
		amount := core.NewNumeric(cents, 100)
		tx.AddSplit(to, amount, "")
		tx.AddSplit(from, amount.Neg(), "")
		return tx
	}

	post(opts.Start, "Opening balance", opening, checking, 250000)
	lot := NewLot(brokerage)
	book.Add(lot)
	buy := NewTransaction(usd, opts.Start.AddDate(0, 0, 1), "Buy ACME")
	book.Add(buy)
	share := buy.AttachSplitFor(brokerage, core.NewNumeric(50000, 100), core.NewNumeric(100000, 10000))
	share.SetLot(lot)
	buy.AddSplit(checking, core.NewNumeric(-50000, 100), "")

	for i := range opts.Transactions {
		at := opts.Start.AddDate(0, 0, 7*(i+1))
		if i%4 == 0 {
			post(at, fmt.Sprintf("Salary %d", i/4+1), salary, checking, 320000)
			continue
		}
		post(at, fmt.Sprintf("Groceries %d", i), checking, groceries, int64(4000+i*137))
	}

	for m := range 3 {
		book.Add(NewPrice(stock, usd, opts.Start.AddDate(0, m, 0), core.NewNumeric(50000+int64(m)*1250, 100), "user:price"))
	}

	template := NewAccount("Template Root", AccountRoot, nil)
	book.SetTemplate(template)
	sxAccount := NewAccount("Monthly rent", AccountBank, usd)
	template.AddChild(sxAccount)
	rentTemplate := NewTransaction(usd, opts.Start, "Rent")
	book.Add(rentTemplate)
	rentTemplate.AddSplit(sxAccount, core.NewNumeric(150000, 100), "rent")
	rentTemplate.AddSplit(sxAccount, core.NewNumeric(-150000, 100), "rent")
	sx := NewSchedXaction("Monthly rent", core.DateOf(opts.Start), sxAccount)
	sx.SetAdvanceNotify(2)
	sx.SetAutoCreate(true)
	book.Add(sx)

	net30 := NewBillTerm("Net 30", 30)
	net30.SetDescription("Due in 30 days")
	book.Add(net30)
	inv := NewInvoice("000001", usd, opts.Start)
	inv.SetTerms(net30)
	inv.SetNotes("Consulting")
	inv.SetPostAccount(receivable)
	inv.SetCharge(core.NewNumeric(125000, 100))
	book.Add(inv)

	return book
}
