package commands

import (
	"time"

	"github.com/leapstack-labs/leapstore/internal/ledger"
	"github.com/leapstack-labs/leapstore/pkg/core"
	"github.com/spf13/cobra"
)

// NewSaveCommand creates the save command.
func NewSaveCommand() *cobra.Command {
	var transactions int
	var start string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a generated sample book",
		Long: `Generate a sample book and save it to the target, replacing whatever the
database held before. The book has an account tree, balanced transactions,
prices, a scheduled transaction, a billing term and an invoice.`,
		Example: `  # Save a book with 50 expense transactions
  leapstore save --transactions 50

  # Save into a PostgreSQL database
  leapstore save --target-type postgres --database books`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			opts := ledger.SampleOptions{Transactions: transactions}
			if start != "" {
				t, err := time.Parse(time.DateOnly, start)
				if err != nil {
					return err
				}
				opts.Start = t
			}
			book := ledger.Sample(opts)

			err = cc.Record(core.RunKindSave, func() (int, error) {
				b, cleanup, err := cc.OpenSession(ctx, book)
				if err != nil {
					return 0, err
				}
				defer cleanup()

				if err := b.SyncAll(ctx, book); err != nil {
					return 0, err
				}
				return objectCount(book), nil
			})
			if err != nil {
				return err
			}
			cc.Renderer.Notice("%s saved to %s", cc.Renderer.Status(true), cc.Cfg.Target)
			return cc.Renderer.Render(countsTable("Saved", book))
		},
	}

	cmd.Flags().IntVarP(&transactions, "transactions", "n", 12, "Number of expense transactions to generate")
	cmd.Flags().StringVar(&start, "start", "", "First posting date (YYYY-MM-DD)")

	return cmd
}

// objectCount sums the entities held by book.
func objectCount(book *ledger.Book) int {
	var n int
	for _, c := range book.Counts() {
		n += c
	}
	return n
}
