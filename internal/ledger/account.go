package ledger

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/leapstore/pkg/core"
)

// Account types.
const (
	AccountRoot      = "ROOT"
	AccountBank      = "BANK"
	AccountCash      = "CASH"
	AccountAsset     = "ASSET"
	AccountLiability = "LIABILITY"
	AccountEquity    = "EQUITY"
	AccountIncome    = "INCOME"
	AccountExpense   = "EXPENSE"
	AccountPayable   = "PAYABLE"
	AccountStock     = "STOCK"
)

// AccountSeparator joins account names into full names.
const AccountSeparator = ":"

// Account is a node of the account tree.
type Account struct {
	core.Instance

	book        *Book
	name        string
	accountType string
	commodity   *Commodity
	scu         int
	nonStdSCU   bool
	parent      *Account
	parentID    core.GUID
	code        string
	description string
	hidden      bool
	placeholder bool

	children []*Account
}

// NewAccount returns a new account holding commodity.
func NewAccount(name, accountType string, commodity *Commodity) *Account {
	a := &Account{name: name, accountType: accountType, commodity: commodity}
	if commodity != nil {
		a.scu = commodity.Fraction()
	}
	a.SetGUID(core.NewGUID())
	return a
}

func (*Account) TypeName() string { return TypeAccount }

func (a *Account) Name() string          { return a.name }
func (a *Account) AccountType() string   { return a.accountType }
func (a *Account) Commodity() *Commodity { return a.commodity }
func (a *Account) CommoditySCU() int     { return a.scu }
func (a *Account) NonStandardSCU() bool  { return a.nonStdSCU }
func (a *Account) Parent() *Account      { return a.parent }
func (a *Account) Code() string          { return a.code }
func (a *Account) Description() string   { return a.description }
func (a *Account) Hidden() bool          { return a.hidden }
func (a *Account) Placeholder() bool     { return a.placeholder }
func (a *Account) Children() []*Account  { return slices.Clone(a.children) }

func (a *Account) SetName(v string)          { a.name = v; a.MarkDirty() }
func (a *Account) SetAccountType(v string)   { a.accountType = v; a.MarkDirty() }
func (a *Account) SetCommodity(v *Commodity) { a.commodity = v; a.MarkDirty() }
func (a *Account) SetCommoditySCU(v int)     { a.scu = v; a.MarkDirty() }
func (a *Account) SetNonStandardSCU(v bool)  { a.nonStdSCU = v; a.MarkDirty() }
func (a *Account) SetCode(v string)          { a.code = v; a.MarkDirty() }
func (a *Account) SetDescription(v string)   { a.description = v; a.MarkDirty() }
func (a *Account) SetHidden(v bool)          { a.hidden = v; a.MarkDirty() }
func (a *Account) SetPlaceholder(v bool)     { a.placeholder = v; a.MarkDirty() }

// ParentID is the parent's identity, or the stored one while the parent
// is not linked yet.
func (a *Account) ParentID() core.GUID {
	if a.parent != nil {
		return a.parent.GUID()
	}
	return a.parentID
}

// SetParentID records the stored parent identity for LinkParent.
func (a *Account) SetParentID(id core.GUID) { a.parentID = id }

// LinkParent attaches a to the parent recorded by SetParentID.
// It reports false when that parent is not in the book.
func (a *Account) LinkParent() bool {
	if a.parentID.IsZero() || a.book == nil {
		return true
	}
	p, ok := a.book.Account(a.parentID)
	if !ok {
		return false
	}
	if a.parent != p {
		if a.parent != nil {
			a.parent.removeChild(a)
		}
		a.parent = p
		p.children = append(p.children, a)
	}
	return true
}

// AddChild moves child under a.
func (a *Account) AddChild(child *Account) {
	if child.parent == a {
		return
	}
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = a
	child.parentID = a.GUID()
	a.children = append(a.children, child)
	child.MarkDirty()
	if a.book != nil {
		a.book.Add(child)
	}
}

func (a *Account) removeChild(child *Account) {
	a.children = slices.DeleteFunc(a.children, func(c *Account) bool { return c == child })
	child.parent = nil
}

// Descendants lists every account below a, depth first.
func (a *Account) Descendants() []*Account {
	var out []*Account
	for _, c := range a.children {
		out = append(out, c)
		out = append(out, c.Descendants()...)
	}
	return out
}

// FullName joins the names from below the root down to a.
func (a *Account) FullName() string {
	var parts []string
	for n := a; n != nil && n.parent != nil; n = n.parent {
		parts = append(parts, n.name)
	}
	slices.Reverse(parts)
	return strings.Join(parts, AccountSeparator)
}

// Balance sums the quantities of every split posted to a.
func (a *Account) Balance() (core.Numeric, error) {
	total := core.ZeroNumeric
	if a.book == nil {
		return total, nil
	}
	for _, tx := range a.book.AllTransactions() {
		for _, s := range tx.splits {
			if s.account != a {
				continue
			}
			sum, err := total.Add(s.quantity)
			if err != nil {
				return total, fmt.Errorf("balance of %s: %w", a.FullName(), err)
			}
			total = sum
		}
	}
	return total, nil
}
