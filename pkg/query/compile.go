package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/leapstore/pkg/core"
)

// Quoter renders Go values as SQL literals.
type Quoter interface {
	Quote(v any) string
}

// form selects how terms are spelled.
type form int

const (
	// canonical is the predicate notation: "~=" and "(!a=b)".
	canonical form = iota
	// executable is plain SQL: "<>" and "(NOT (a=b))".
	executable
)

// Compile renders q as a SELECT over table in predicate notation.
//
// With no terms the result is "SELECT * FROM table". Otherwise each group
// renders as "(t1 AND t2)" and groups are joined with " OR ". An empty
// group renders as "()". Inverted terms are prefixed with "!" and NEQ is
// spelled "~=". A nil quoter single-quotes strings without escaping.
func Compile(q *Query, table string, quoter Quoter) (string, error) {
	return compile(q, table, quoter, canonical)
}

// CompileSQL renders q like Compile but as a statement the database runs:
// NEQ is "<>", inverted terms are wrapped in NOT and an empty group matches
// every row.
func CompileSQL(q *Query, table string, quoter Quoter) (string, error) {
	return compile(q, table, quoter, executable)
}

func compile(q *Query, table string, quoter Quoter, f form) (string, error) {
	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(table)
	if q == nil || len(q.Terms) == 0 {
		return sb.String(), nil
	}

	sb.WriteString(" WHERE ")
	for i, group := range q.Terms {
		if i > 0 {
			sb.WriteString(" OR ")
		}
		sb.WriteByte('(')
		if len(group) == 0 && f == executable {
			sb.WriteString("1=1")
		}
		for j, term := range group {
			if j > 0 {
				sb.WriteString(" AND ")
			}
			if err := writeTerm(&sb, term, quoter, f); err != nil {
				return "", err
			}
		}
		sb.WriteByte(')')
	}
	return sb.String(), nil
}

func writeTerm(sb *strings.Builder, t Term, quoter Quoter, f form) error {
	path := strings.Join(t.Path, ".")
	if g, ok := t.Value.(GUIDs); ok {
		return writeGUIDTerm(sb, path, g, t.Invert, quoter, f)
	}

	op, err := t.Op.Symbol()
	if err != nil {
		return fmt.Errorf("term %s: %w", path, err)
	}
	if t.Op == NEQ && f == executable {
		op = "<>"
	}
	lit, err := literal(t.Value, quoter)
	if err != nil {
		return fmt.Errorf("term %s: %w", path, err)
	}

	sb.WriteByte('(')
	closeInvert := openInvert(sb, t.Invert, f)
	sb.WriteString(path)
	sb.WriteString(op)
	sb.WriteString(lit)
	closeInvert()
	sb.WriteByte(')')
	return nil
}

// openInvert starts a negation and returns the function that ends it.
func openInvert(sb *strings.Builder, invert bool, f form) func() {
	switch {
	case !invert:
		return func() {}
	case f == executable:
		sb.WriteString("NOT (")
		return func() { sb.WriteByte(')') }
	default:
		sb.WriteByte('!')
		return func() {}
	}
}

func writeGUIDTerm(sb *strings.Builder, path string, g GUIDs, invert bool, quoter Quoter, f form) error {
	match := g.Match
	if invert {
		switch match {
		case MatchAny:
			match = MatchNone
		case MatchNone:
			match = MatchAny
		}
	}

	sb.WriteByte('(')
	switch match {
	case MatchAny, MatchNone:
		sb.WriteString(path)
		if match == MatchNone {
			sb.WriteString(" NOT")
		}
		sb.WriteString(" IN (")
		AppendGUIDList(sb, g.IDs, 0, quoter)
		sb.WriteByte(')')
	case MatchAll:
		closeInvert := openInvert(sb, invert, f)
		for i, id := range g.IDs {
			if i > 0 {
				sb.WriteString(" AND ")
			}
			sb.WriteString(path)
			sb.WriteByte('=')
			sb.WriteString(quoteString(id.String(), quoter))
		}
		closeInvert()
	default:
		return fmt.Errorf("term %s: unknown guid match mode %d", path, int(g.Match))
	}
	sb.WriteByte(')')
	return nil
}

// AppendGUIDList writes up to limit quoted GUIDs separated by commas and
// returns how many were written. A limit of zero or less writes them all.
func AppendGUIDList(sb *strings.Builder, ids []core.GUID, limit int, quoter Quoter) int {
	n := 0
	for _, id := range ids {
		if limit > 0 && n >= limit {
			break
		}
		if n > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(quoteString(id.String(), quoter))
		n++
	}
	return n
}

func literal(v Value, quoter Quoter) (string, error) {
	switch x := v.(type) {
	case String:
		return quoteString(string(x), quoter), nil
	case Int32:
		return strconv.FormatInt(int64(x), 10), nil
	case Int64:
		return strconv.FormatInt(int64(x), 10), nil
	case Double:
		return strconv.FormatFloat(float64(x), 'g', -1, 64), nil
	case Bool:
		if x {
			return "1", nil
		}
		return "0", nil
	case Date:
		if quoter != nil {
			return quoter.Quote(time.Time(x)), nil
		}
		return "'" + time.Time(x).UTC().Format("2006-01-02 15:04:05") + "'", nil
	case Numeric:
		if core.Numeric(x).IsUnset() {
			return "NULL", nil
		}
		return core.Numeric(x).DecimalString(), nil
	case nil:
		return "NULL", nil
	}
	return "", fmt.Errorf("unsupported value %T", v)
}

func quoteString(s string, quoter Quoter) string {
	if quoter != nil {
		return quoter.Quote(s)
	}
	return "'" + s + "'"
}
