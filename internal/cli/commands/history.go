package commands

import (
	"time"

	"github.com/leapstack-labs/leapstore/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs",
		Long:  `List the recorded create, load, save and query runs, newest first.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			store, err := cc.OpenStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.ListRuns(limit)
			if err != nil {
				return err
			}

			t := &output.Table{
				Title:   "History",
				Columns: []string{"id", "kind", "target", "status", "objects", "started", "duration", "error"},
			}
			for _, r := range runs {
				var duration string
				if r.CompletedAt != nil {
					duration = r.CompletedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
				}
				t.Append(shortID(r.ID), string(r.Kind), r.Target, string(r.Status), r.Objects,
					r.StartedAt.Local().Format(time.DateTime), duration, r.Error)
			}
			return cc.Renderer.Render(t)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")

	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
