package commands

import (
	"github.com/leapstack-labs/leapstore/internal/ledger"
	"github.com/leapstack-labs/leapstore/pkg/core"
	"github.com/spf13/cobra"
)

// NewCreateCommand creates the create command.
func NewCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create or upgrade every ledger table",
		Long: `Create the tables of every registered entity type in the target database.
Existing tables recorded at an older version are upgraded in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			var tables int
			err = cc.Record(core.RunKindCreate, func() (int, error) {
				b, cleanup, err := cc.OpenSession(ctx, ledger.NewBook())
				if err != nil {
					return 0, err
				}
				defer cleanup()

				if err := b.Registry().CreateAllTables(ctx, b); err != nil {
					return 0, err
				}
				tables = len(b.Versions().Names())
				return tables, nil
			})
			if err != nil {
				return err
			}
			cc.Renderer.Notice("%s %d tables ready in %s", cc.Renderer.Status(true), tables, cc.Cfg.Target)
			return nil
		},
	}
}
