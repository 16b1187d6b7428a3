package ledger

import "github.com/leapstack-labs/leapstore/pkg/core"

// CurrencyNamespace holds ISO 4217 currencies.
const CurrencyNamespace = "CURRENCY"

// Commodity is anything an account can hold: a currency, a stock, a fund.
type Commodity struct {
	core.Instance

	namespace   string
	mnemonic    string
	fullName    string
	cusip       string
	fraction    int
	quoteFlag   bool
	quoteSource string
	quoteTZ     string
}

// NewCommodity returns a new commodity with the given smallest fraction.
func NewCommodity(namespace, mnemonic, fullName string, fraction int) *Commodity {
	c := &Commodity{namespace: namespace, mnemonic: mnemonic, fullName: fullName, fraction: fraction}
	c.SetGUID(core.NewGUID())
	return c
}

// NewCurrency returns an ISO currency traded in hundredths.
func NewCurrency(code, name string) *Commodity {
	return NewCommodity(CurrencyNamespace, code, name, 100)
}

func (*Commodity) TypeName() string { return TypeCommodity }

func (c *Commodity) Namespace() string   { return c.namespace }
func (c *Commodity) Mnemonic() string    { return c.mnemonic }
func (c *Commodity) FullName() string    { return c.fullName }
func (c *Commodity) Cusip() string       { return c.cusip }
func (c *Commodity) Fraction() int       { return c.fraction }
func (c *Commodity) QuoteFlag() bool     { return c.quoteFlag }
func (c *Commodity) QuoteSource() string { return c.quoteSource }
func (c *Commodity) QuoteTZ() string     { return c.quoteTZ }

func (c *Commodity) SetNamespace(v string)   { c.namespace = v; c.MarkDirty() }
func (c *Commodity) SetMnemonic(v string)    { c.mnemonic = v; c.MarkDirty() }
func (c *Commodity) SetFullName(v string)    { c.fullName = v; c.MarkDirty() }
func (c *Commodity) SetCusip(v string)       { c.cusip = v; c.MarkDirty() }
func (c *Commodity) SetFraction(v int)       { c.fraction = v; c.MarkDirty() }
func (c *Commodity) SetQuoteFlag(v bool)     { c.quoteFlag = v; c.MarkDirty() }
func (c *Commodity) SetQuoteSource(v string) { c.quoteSource = v; c.MarkDirty() }
func (c *Commodity) SetQuoteTZ(v string)     { c.quoteTZ = v; c.MarkDirty() }

// IsCurrency reports whether c is an ISO currency.
func (c *Commodity) IsCurrency() bool { return c.namespace == CurrencyNamespace }

// SameAs reports whether c and o describe the same commodity identically,
// ignoring identity.
func (c *Commodity) SameAs(o *Commodity) bool {
	return c.namespace == o.namespace &&
		c.mnemonic == o.mnemonic &&
		c.fullName == o.fullName &&
		c.cusip == o.cusip &&
		c.fraction == o.fraction &&
		c.quoteFlag == o.quoteFlag &&
		c.quoteSource == o.quoteSource &&
		c.quoteTZ == o.quoteTZ
}

// String returns "namespace::mnemonic".
func (c *Commodity) String() string { return c.namespace + "::" + c.mnemonic }
