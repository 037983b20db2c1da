// Package cli implements the sciingest command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sciingest/internal/app"
	"sciingest/internal/config"
	"sciingest/internal/contextutil"
)

// Opener builds the app a command runs against.
type Opener func(ctx context.Context, cmd *cobra.Command) (*app.App, error)

// OpenFromEnv loads the configuration from the environment and logs to the
// command's error stream.
func OpenFromEnv(ctx context.Context, cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	return app.New(contextutil.WithLogger(ctx, logger), cfg)
}

type runner struct {
	open Opener
}

// withApp opens the app, runs fn and closes the app again.
func (r *runner) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := r.open(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

// NewRootCmd builds the command tree. A nil open selects OpenFromEnv.
func NewRootCmd(open Opener) *cobra.Command {
	if open == nil {
		open = OpenFromEnv
	}
	r := &runner{open: open}

	root := &cobra.Command{
		Use:   "sciingest",
		Short: "Ingest scientific articles and PDF text into searchable chunks",
		Long: `sciingest chunks, tags, embeds and de-duplicates scientific articles
and extracted PDF text. Configuration is read from the environment and .env.`,
		SilenceUsage: true,
	}
	root.SetOut(os.Stdout)

	root.AddCommand(
		newLoadCmd(r),
		newChunkCmd(r),
		newTagsCmd(r),
		newWatchCmd(r),
		newRunsCmd(r),
		newDupCmd(r),
	)
	return root
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
