package commands

import (
	"cmp"
	"slices"

	"github.com/leapstack-labs/leapstore/internal/backend"
	"github.com/leapstack-labs/leapstore/internal/cli/output"
	"github.com/leapstack-labs/leapstore/internal/ledger"
	"github.com/leapstack-labs/leapstore/pkg/core"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NewLoadCommand creates the load command.
func NewLoadCommand() *cobra.Command {
	var balances bool

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load the stored book and summarize it",
		Long: `Load every stored entity into a fresh book: first the fixed and
configured load order, then the transactions. Prints the number of entities
of each type and, with --balances, the balance of every account.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			book := ledger.NewBook()
			err = cc.Record(core.RunKindLoad, func() (int, error) {
				b, cleanup, err := cc.OpenSession(ctx, book)
				if err != nil {
					return 0, err
				}
				defer cleanup()

				if err := b.Load(ctx, book, backend.LoadInitial); err != nil {
					return 0, err
				}
				if err := b.Load(ctx, book, backend.LoadAll); err != nil {
					return 0, err
				}
				return objectCount(book), nil
			})
			if err != nil {
				return err
			}

			if err := cc.Renderer.Render(countsTable("Loaded", book)); err != nil {
				return err
			}
			if !balances {
				return nil
			}
			t, err := balanceTable(book)
			if err != nil {
				return err
			}
			return cc.Renderer.Render(t)
		},
	}

	cmd.Flags().BoolVar(&balances, "balances", false, "Show account balances")

	return cmd
}

func balanceTable(book *ledger.Book) (*output.Table, error) {
	accounts := book.Accounts()
	slices.SortFunc(accounts, func(a, b *ledger.Account) int {
		return cmp.Compare(a.FullName(), b.FullName())
	})

	titleCaser := cases.Title(language.English)
	t := &output.Table{Title: "Balances", Columns: []string{"account", "type", "balance"}}
	for _, a := range accounts {
		if a.FullName() == "" {
			continue
		}
		bal, err := a.Balance()
		if err != nil {
			return nil, err
		}
		t.Append(a.FullName(), titleCaser.String(a.AccountType()), bal.DecimalString())
	}
	return t, nil
}
