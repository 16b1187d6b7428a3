package ledger

import (
	"time"

	"github.com/leapstack-labs/leapstore/pkg/core"
)

// Price quotes one unit of a commodity in a currency at a point in time.
type Price struct {
	core.Instance

	commodity *Commodity
	currency  *Commodity
	date      time.Time
	source    string
	priceType string
	value     core.Numeric
}

// NewPrice returns a price quoted by source.
func NewPrice(commodity, currency *Commodity, at time.Time, value core.Numeric, source string) *Price {
	p := &Price{
		commodity: commodity,
		currency:  currency,
		date:      at.UTC().Truncate(time.Second),
		value:     value,
		source:    source,
		priceType: "last",
	}
	p.SetGUID(core.NewGUID())
	return p
}

func (*Price) TypeName() string { return TypePrice }

func (p *Price) Commodity() *Commodity { return p.commodity }
func (p *Price) Currency() *Commodity  { return p.currency }
func (p *Price) Date() time.Time       { return p.date }
func (p *Price) Source() string        { return p.source }
func (p *Price) PriceType() string     { return p.priceType }
func (p *Price) Value() core.Numeric   { return p.value }

func (p *Price) SetCommodity(v *Commodity) { p.commodity = v; p.MarkDirty() }
func (p *Price) SetCurrency(v *Commodity)  { p.currency = v; p.MarkDirty() }
func (p *Price) SetDate(v time.Time)       { p.date = v; p.MarkDirty() }
func (p *Price) SetSource(v string)        { p.source = v; p.MarkDirty() }
func (p *Price) SetPriceType(v string)     { p.priceType = v; p.MarkDirty() }
func (p *Price) SetValue(v core.Numeric)   { p.value = v; p.MarkDirty() }
