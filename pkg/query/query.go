// Package query describes entity searches as predicate trees and compiles
// them to SQL.
//
// A Query is a disjunction of conjunctions: each inner slice of Terms is
// ANDed and the groups are ORed. Values are a closed set of variants.
package query

import (
	"errors"
	"fmt"
	"time"

	"github.com/leapstack-labs/leapstore/pkg/core"
)

// ErrUnknownOperator is returned when a term carries an operator with no SQL form.
var ErrUnknownOperator = errors.New("unknown comparison operator")

// Compare is a term's comparison operator.
type Compare int

// Comparison operators.
const (
	LT Compare = iota + 1
	LTE
	EQ
	GT
	GTE
	NEQ
)

// Symbol returns the SQL rendering of c.
func (c Compare) Symbol() (string, error) {
	switch c {
	case LT:
		return "<", nil
	case LTE:
		return "<=", nil
	case EQ:
		return "=", nil
	case GT:
		return ">", nil
	case GTE:
		return ">=", nil
	case NEQ:
		return "~=", nil
	}
	return "", fmt.Errorf("%w: %d", ErrUnknownOperator, int(c))
}

// ParseCompare maps an operator symbol back to a Compare. "!=" and "<>" are
// accepted as NEQ.
func ParseCompare(s string) (Compare, error) {
	switch s {
	case "<":
		return LT, nil
	case "<=":
		return LTE, nil
	case "=", "==":
		return EQ, nil
	case ">":
		return GT, nil
	case ">=":
		return GTE, nil
	case "~=", "!=", "<>":
		return NEQ, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOperator, s)
}

// Value is a term's right-hand side.
type Value interface {
	isValue()
}

// String is a text value.
type String string

// Int32 is a 32-bit integer value.
type Int32 int32

// Int64 is a 64-bit integer value.
type Int64 int64

// Double is a floating point value.
type Double float64

// Bool is a boolean value.
type Bool bool

// Date is a point in time compared against timestamp columns.
type Date time.Time

// Numeric is an exact rational value.
type Numeric core.Numeric

// GUIDMatch says how a GUID list is matched.
type GUIDMatch int

// GUID match modes.
const (
	// MatchAny matches when the column equals any listed GUID.
	MatchAny GUIDMatch = iota
	// MatchNone matches when the column equals none of them.
	MatchNone
	// MatchAll requires equality with every listed GUID; useful with one ID.
	MatchAll
)

// GUIDs is a set of identities to compare a column against.
type GUIDs struct {
	Match GUIDMatch
	IDs   []core.GUID
}

func (String) isValue()  {}
func (Int32) isValue()   {}
func (Int64) isValue()   {}
func (Double) isValue()  {}
func (Bool) isValue()    {}
func (Date) isValue()    {}
func (Numeric) isValue() {}
func (GUIDs) isValue()   {}

// Term is one predicate: Path Op Value, optionally inverted.
type Term struct {
	Path   []string
	Op     Compare
	Value  Value
	Invert bool
}

// Query searches entities of one type.
type Query struct {
	SearchFor string
	Terms     [][]Term
}

// New returns a query for entities of typeName with no terms.
func New(typeName string) *Query {
	return &Query{SearchFor: typeName}
}

// Or appends a group of terms that are ANDed together.
func (q *Query) Or(terms ...Term) *Query {
	q.Terms = append(q.Terms, terms)
	return q
}

// Where builds a term on a single column.
func Where(column string, op Compare, v Value) Term {
	return Term{Path: []string{column}, Op: op, Value: v}
}

// Not returns t inverted.
func Not(t Term) Term {
	t.Invert = !t.Invert
	return t
}
