package commands

import (
	"github.com/leapstack-labs/leapstore/internal/cli/output"
	"github.com/leapstack-labs/leapstore/internal/ledger"
	"github.com/spf13/cobra"
)

// NewVersionsCommand creates the versions command.
func NewVersionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "Show the stored table versions",
		Long:  `List every table recorded in the target's version table with its schema version.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			b, cleanup, err := cc.OpenSession(ctx, ledger.NewBook())
			if err != nil {
				return err
			}
			defer cleanup()

			v := b.Versions()
			t := &output.Table{Title: "Versions", Columns: []string{"table", "version"}}
			for _, name := range v.Names() {
				t.Append(name, v.Get(name))
			}
			return cc.Renderer.Render(t)
		},
	}
}
