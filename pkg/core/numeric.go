package core

import (
	"fmt"
	"math/big"
	"strconv"
)

// Numeric is an exact rational stored as separate numerator and denominator.
// A zero Denom is treated as 1. An unset Numeric carries no value at all and
// is distinct from zero; arithmetic treats it as zero.
type Numeric struct {
	Num   int64
	Denom int64

	unset bool
}

// ZeroNumeric is 0/1.
var ZeroNumeric = Numeric{Num: 0, Denom: 1}

// UnsetNumeric returns the value of a numeric that was never stored.
func UnsetNumeric() Numeric {
	return Numeric{unset: true}
}

// IsUnset reports whether n holds no value.
func (n Numeric) IsUnset() bool {
	return n.unset
}

// NewNumeric returns num/denom.
func NewNumeric(num, denom int64) Numeric {
	return Numeric{Num: num, Denom: denom}
}

// NumericFromInt returns n/1.
func NumericFromInt(n int64) Numeric {
	return Numeric{Num: n, Denom: 1}
}

// ParseNumeric accepts "7/3", "-12" and decimal text such as "12.34".
func ParseNumeric(s string) (Numeric, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return ZeroNumeric, fmt.Errorf("invalid numeric %q", s)
	}
	return NumericFromRat(r)
}

// NumericFromRat converts r, failing when it does not fit in 64-bit parts.
func NumericFromRat(r *big.Rat) (Numeric, error) {
	if !r.Num().IsInt64() || !r.Denom().IsInt64() {
		return ZeroNumeric, fmt.Errorf("numeric %s overflows 64 bits", r.RatString())
	}
	return Numeric{Num: r.Num().Int64(), Denom: r.Denom().Int64()}, nil
}

// Denominator returns Denom, or 1 when Denom is zero.
func (n Numeric) Denominator() int64 {
	if n.Denom == 0 {
		return 1
	}
	return n.Denom
}

// Rat returns n as a big.Rat. An unset value is zero.
func (n Numeric) Rat() *big.Rat {
	if n.unset {
		return new(big.Rat)
	}
	return big.NewRat(n.Num, n.Denominator())
}

// Equal compares values, so 2/4 equals 1/2. An unset value equals only
// another unset value.
func (n Numeric) Equal(o Numeric) bool {
	if n.unset || o.unset {
		return n.unset == o.unset
	}
	return n.Rat().Cmp(o.Rat()) == 0
}

// IsZero reports whether the value is a stored zero.
func (n Numeric) IsZero() bool {
	return !n.unset && n.Num == 0
}

// Add returns n+o reduced to lowest terms.
func (n Numeric) Add(o Numeric) (Numeric, error) {
	return NumericFromRat(new(big.Rat).Add(n.Rat(), o.Rat()))
}

// Neg returns -n. Unset stays unset.
func (n Numeric) Neg() Numeric {
	return Numeric{Num: -n.Num, Denom: n.Denom, unset: n.unset}
}

// Decimal renders the value as a decimal literal with prec fractional digits.
func (n Numeric) Decimal(prec int) string {
	return n.Rat().FloatString(prec)
}

// DecimalString renders the value as a decimal literal. Denominators made of
// factors 2 and 5 render exactly; others are rounded to 12 places. An unset
// value renders as the empty string.
func (n Numeric) DecimalString() string {
	if n.unset {
		return ""
	}
	d := n.Denominator()
	if d < 0 {
		d = -d
	}
	prec := 0
	for d%10 == 0 {
		d /= 10
		prec++
	}
	for d%2 == 0 {
		d /= 2
		prec++
	}
	for d%5 == 0 {
		d /= 5
		prec++
	}
	if d != 1 {
		prec = 12
	}
	return n.Decimal(prec)
}

func (n Numeric) String() string {
	if n.unset {
		return "unset"
	}
	return strconv.FormatInt(n.Num, 10) + "/" + strconv.FormatInt(n.Denominator(), 10)
}
