package ledger

import (
	"time"

	"github.com/leapstack-labs/leapstore/pkg/core"
)

// Billing term types.
const (
	TermDays    = "GNC_TERM_TYPE_DAYS"
	TermProximo = "GNC_TERM_TYPE_PROXIMO"
)

// BillTerm describes when an invoice falls due and the early payment discount.
type BillTerm struct {
	core.Instance

	name         string
	description  string
	refcount     int
	invisible    bool
	parent       *BillTerm
	parentID     core.GUID
	termType     string
	dueDays      int
	discountDays int
	discount     core.Numeric
	cutoff       int
}

// NewBillTerm returns a term due after dueDays days.
func NewBillTerm(name string, dueDays int) *BillTerm {
	t := &BillTerm{name: name, termType: TermDays, dueDays: dueDays}
	t.SetGUID(core.NewGUID())
	return t
}

func (*BillTerm) TypeName() string { return TypeBillTerm }

func (t *BillTerm) Name() string           { return t.name }
func (t *BillTerm) Description() string    { return t.description }
func (t *BillTerm) Refcount() int          { return t.refcount }
func (t *BillTerm) Invisible() bool        { return t.invisible }
func (t *BillTerm) Parent() *BillTerm      { return t.parent }
func (t *BillTerm) TermType() string       { return t.termType }
func (t *BillTerm) DueDays() int           { return t.dueDays }
func (t *BillTerm) DiscountDays() int      { return t.discountDays }
func (t *BillTerm) Discount() core.Numeric { return t.discount }
func (t *BillTerm) Cutoff() int            { return t.cutoff }

func (t *BillTerm) SetName(v string)           { t.name = v; t.MarkDirty() }
func (t *BillTerm) SetDescription(v string)    { t.description = v; t.MarkDirty() }
func (t *BillTerm) SetRefcount(v int)          { t.refcount = v; t.MarkDirty() }
func (t *BillTerm) SetInvisible(v bool)        { t.invisible = v; t.MarkDirty() }
func (t *BillTerm) SetTermType(v string)       { t.termType = v; t.MarkDirty() }
func (t *BillTerm) SetDueDays(v int)           { t.dueDays = v; t.MarkDirty() }
func (t *BillTerm) SetDiscountDays(v int)      { t.discountDays = v; t.MarkDirty() }
func (t *BillTerm) SetDiscount(v core.Numeric) { t.discount = v; t.MarkDirty() }
func (t *BillTerm) SetCutoff(v int)            { t.cutoff = v; t.MarkDirty() }

// SetParent makes t a child copy of p.
func (t *BillTerm) SetParent(p *BillTerm) {
	t.parent = p
	t.parentID = guidOf(p)
	t.MarkDirty()
}

// ParentID is the parent's identity, or the stored one while unlinked.
func (t *BillTerm) ParentID() core.GUID {
	if t.parent != nil {
		return t.parent.GUID()
	}
	return t.parentID
}

// SetParentID records the stored parent identity for LinkParent.
func (t *BillTerm) SetParentID(id core.GUID) { t.parentID = id }

// LinkParent resolves the recorded parent in book.
func (t *BillTerm) LinkParent(book *Book) bool {
	if t.parentID.IsZero() {
		return true
	}
	e, ok := book.Lookup(TypeBillTerm, t.parentID)
	if !ok {
		return false
	}
	t.parent = e.(*BillTerm)
	return true
}

// DueDate returns when an invoice posted at posted falls due.
func (t *BillTerm) DueDate(posted time.Time) time.Time {
	if t.termType == TermProximo {
		first := time.Date(posted.Year(), posted.Month()+1, 1, 0, 0, 0, 0, posted.Location())
		return first.AddDate(0, 0, t.dueDays-1)
	}
	return posted.AddDate(0, 0, t.dueDays)
}

// Invoice bills an owner for goods or services.
type Invoice struct {
	core.Instance

	id         string
	dateOpened time.Time
	datePosted time.Time
	notes      string
	active     bool
	currency   *Commodity
	ownerType  int
	ownerID    core.GUID
	terms      *BillTerm
	billingID  string
	postLot    *Lot
	postAcc    *Account
	charge     core.Numeric
}

// NewInvoice returns an active invoice opened at opened.
func NewInvoice(id string, currency *Commodity, opened time.Time) *Invoice {
	inv := &Invoice{id: id, currency: currency, dateOpened: opened.UTC().Truncate(time.Second), active: true}
	inv.SetGUID(core.NewGUID())
	return inv
}

func (*Invoice) TypeName() string { return TypeInvoice }

func (i *Invoice) ID() string            { return i.id }
func (i *Invoice) DateOpened() time.Time { return i.dateOpened }
func (i *Invoice) DatePosted() time.Time { return i.datePosted }
func (i *Invoice) Notes() string         { return i.notes }
func (i *Invoice) Active() bool          { return i.active }
func (i *Invoice) Currency() *Commodity  { return i.currency }
func (i *Invoice) OwnerType() int        { return i.ownerType }
func (i *Invoice) OwnerID() core.GUID    { return i.ownerID }
func (i *Invoice) Terms() *BillTerm      { return i.terms }
func (i *Invoice) BillingID() string     { return i.billingID }
func (i *Invoice) PostLot() *Lot         { return i.postLot }
func (i *Invoice) PostAccount() *Account { return i.postAcc }
func (i *Invoice) Charge() core.Numeric  { return i.charge }

func (i *Invoice) SetID(v string)            { i.id = v; i.MarkDirty() }
func (i *Invoice) SetDateOpened(v time.Time) { i.dateOpened = v; i.MarkDirty() }
func (i *Invoice) SetDatePosted(v time.Time) { i.datePosted = v; i.MarkDirty() }
func (i *Invoice) SetNotes(v string)         { i.notes = v; i.MarkDirty() }
func (i *Invoice) SetActive(v bool)          { i.active = v; i.MarkDirty() }
func (i *Invoice) SetCurrency(v *Commodity)  { i.currency = v; i.MarkDirty() }
func (i *Invoice) SetOwnerType(v int)        { i.ownerType = v; i.MarkDirty() }
func (i *Invoice) SetOwnerID(v core.GUID)    { i.ownerID = v; i.MarkDirty() }
func (i *Invoice) SetTerms(v *BillTerm)      { i.terms = v; i.MarkDirty() }
func (i *Invoice) SetBillingID(v string)     { i.billingID = v; i.MarkDirty() }
func (i *Invoice) SetPostLot(v *Lot)         { i.postLot = v; i.MarkDirty() }
func (i *Invoice) SetPostAccount(v *Account) { i.postAcc = v; i.MarkDirty() }
func (i *Invoice) SetCharge(v core.Numeric)  { i.charge = v; i.MarkDirty() }

// IsPosted reports whether the invoice was posted to an account.
func (i *Invoice) IsPosted() bool { return !i.datePosted.IsZero() }
