package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/leapstore/internal/backend"
	"github.com/leapstack-labs/leapstore/internal/ledger"
	"github.com/leapstack-labs/leapstore/pkg/core"
	"github.com/leapstack-labs/leapstore/pkg/query"
	"github.com/spf13/cobra"
)

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	var showSQL bool

	cmd := &cobra.Command{
		Use:   "query <type> [column op value]... [or column op value...]",
		Short: "Load the entities matching a query",
		Long: `Load the stored entities of one type that match a query and print them.

Terms are written as column, operator and value. Consecutive terms must all
match; "or" starts another group of terms. Operators are <, <=, =, >, >= and !=.
Values are read according to the column type: GUID and reference columns take
a GUID, timestamps take YYYY-MM-DD or RFC 3339 text.`,
		Example: `  # Transactions with a given description
  leapstore query Transaction description = "Buy ACME"

  # Expense and income accounts, printing the generated SQL
  leapstore query Account account_type = EXPENSE or account_type = INCOME --sql`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			desc, err := descriptorFor(args[0])
			if err != nil {
				return err
			}
			q, err := parseQuery(desc, args[1:])
			if err != nil {
				return err
			}

			book := ledger.NewBook()
			var matched []core.Entity
			err = cc.Record(core.RunKindQuery, func() (int, error) {
				b, cleanup, err := cc.OpenSession(ctx, book)
				if err != nil {
					return 0, err
				}
				defer cleanup()

				h, _ := b.Registry().Lookup(q.SearchFor)
				if _, ok := h.(backend.QueryRunner); !ok {
					return 0, fmt.Errorf("entity type %s does not support queries", q.SearchFor)
				}
				// Splits resolve their accounts and lots from the book.
				if q.SearchFor == ledger.TypeTransaction {
					if err := b.Load(ctx, book, backend.LoadInitial); err != nil {
						return 0, err
					}
				}

				cq, err := b.CompileQuery(ctx, q)
				if err != nil {
					return 0, err
				}
				defer b.FreeQuery(ctx, cq)
				if sql, ok := cq.Compiled.(string); ok && showSQL {
					cc.Renderer.Notice("%s", sql)
				}
				if err := b.RunQuery(ctx, cq); err != nil {
					return 0, err
				}
				matched = entitiesOf(book, q.SearchFor)
				return len(matched), nil
			})
			if err != nil {
				return err
			}

			t, err := entityTable(q.SearchFor, desc, matched)
			if err != nil {
				return err
			}
			return cc.Renderer.Render(t)
		},
	}

	cmd.Flags().BoolVar(&showSQL, "sql", false, "Print the generated SQL")

	return cmd
}

// parseQuery reads "column op value" triples separated into groups by "or".
func parseQuery(desc *core.EntityDescriptor, args []string) (*query.Query, error) {
	q := query.New(desc.TypeName)
	var group []query.Term
	flush := func() error {
		if len(group) == 0 {
			return fmt.Errorf("empty term group")
		}
		q.Or(group...)
		group = nil
		return nil
	}

	for i := 0; i < len(args); {
		if strings.EqualFold(args[i], "or") {
			if err := flush(); err != nil {
				return nil, err
			}
			i++
			continue
		}
		if i+3 > len(args) {
			return nil, fmt.Errorf("incomplete term %q: want column, operator and value", strings.Join(args[i:], " "))
		}
		term, err := parseTerm(desc, args[i], args[i+1], args[i+2])
		if err != nil {
			return nil, err
		}
		group = append(group, term)
		i += 3
	}
	if len(group) > 0 || len(q.Terms) > 0 {
		if err := flush(); err != nil {
			return nil, err
		}
	}
	return q, nil
}

func parseTerm(desc *core.EntityDescriptor, column, op, raw string) (query.Term, error) {
	col, ok := desc.Column(column)
	if !ok {
		return query.Term{}, fmt.Errorf("%s has no column %q", desc.TypeName, column)
	}
	cmp, err := query.ParseCompare(op)
	if err != nil {
		return query.Term{}, err
	}
	v, err := parseValue(col.Type, raw)
	if err != nil {
		return query.Term{}, fmt.Errorf("column %s: %w", column, err)
	}
	return query.Where(column, cmp, v), nil
}

// parseValue reads raw as a value of the column type t.
func parseValue(t core.ColumnType, raw string) (query.Value, error) {
	switch t {
	case core.TypeString:
		return query.String(raw), nil
	case core.TypeInt, core.TypeInt64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		return query.Int64(n), nil
	case core.TypeBoolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, err
		}
		return query.Bool(b), nil
	case core.TypeDouble:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, err
		}
		return query.Double(f), nil
	case core.TypeNumeric:
		n, err := core.ParseNumeric(raw)
		if err != nil {
			return nil, err
		}
		return query.Numeric(n), nil
	case core.TypeTimestamp, core.TypeDate:
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			return query.Date(ts), nil
		}
		ts, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q", raw)
		}
		return query.Date(ts), nil
	}
	// GUID and reference columns
	id, err := core.ParseGUID(raw)
	if err != nil {
		return nil, err
	}
	return query.GUIDs{Match: query.MatchAny, IDs: []core.GUID{id}}, nil
}
