package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"sciingest/internal/app"
)

func newRunsCmd(r *runner) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent ingestion runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *app.App) error {
				runs, err := a.Service.RecentRuns(ctx, limit)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					cmd.Println("No ingestion runs recorded.")
					return nil
				}
				for _, run := range runs {
					dry := ""
					if run.DryRun {
						dry = " (dry run)"
					}
					cmd.Printf("%s  %-8s %d/%d documents, %d chunks, %d duplicates, %d dropped, %s%s\n",
						run.StartedAt.Local().Format(time.DateTime),
						run.Kind,
						run.Successful, run.Total,
						run.ChunksCreated, run.DuplicatesSkipped, run.Dropped,
						run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond),
						dry,
					)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of runs to show")
	return cmd
}
