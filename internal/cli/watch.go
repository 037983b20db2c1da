package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"sciingest/internal/app"
	"sciingest/internal/contextutil"
	"sciingest/internal/source"
)

func newWatchCmd(r *runner) *cobra.Command {
	var (
		flags    ingestFlags
		dir      string
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Ingest files as they appear in the ingest directory",
		Long: `Scans the ingest directory once, then watches it and ingests every
supported file that is created or written. Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *app.App) error {
				opts, err := flags.options(cmd.Flags(), a)
				if err != nil {
					return err
				}
				if dir == "" {
					dir = a.Config.IngestDir
				}
				logger := contextutil.LoggerFromContext(ctx)

				res, err := a.Files.IngestDir(ctx, dir, opts)
				if err != nil {
					return err
				}
				cmd.Printf("Initial scan: %d files, %d chunks created\n", res.Files, res.TotalChunksCreated)

				w := source.NewWatcher(dir, debounce)
				return w.Run(ctx, func(ctx context.Context, f source.ScannedFile) {
					res, err := a.Files.IngestFile(ctx, f, opts)
					if err != nil {
						logger.ErrorContext(ctx, "failed to ingest file", "file", f.RelPath, "error", err)
						return
					}
					cmd.Printf("%s: %d chunks created, %d duplicates skipped\n", f.RelPath, res.TotalChunksCreated, res.DuplicatesSkipped)
				})
			})
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&dir, "dir", "", "directory to watch (defaults to INGEST_DIR)")
	cmd.Flags().DurationVar(&debounce, "debounce", source.DefaultDebounce, "quiet period before a changed file is ingested")
	return cmd
}
