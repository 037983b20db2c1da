package cli

import (
	"context"

	"github.com/spf13/cobra"

	"sciingest/internal/app"
	"sciingest/internal/service"
)

func newDupCmd(r *runner) *cobra.Command {
	var (
		sourceType string
		threshold  float64
	)

	cmd := &cobra.Command{
		Use:   "dup <text>",
		Short: "Check whether a text duplicates a stored chunk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *app.App) error {
				t := a.Config.DuplicateThreshold
				if cmd.Flags().Changed("threshold") {
					t = threshold
				}
				res, err := a.Service.FindDuplicate(ctx, service.DuplicateRequest{
					Text:       args[0],
					SourceType: sourceType,
					Threshold:  t,
				})
				if err != nil {
					return err
				}
				if !res.IsDuplicate {
					cmd.Printf("Not a duplicate (threshold %.2f)\n", res.Threshold)
					return nil
				}
				cmd.Printf("Duplicate of chunk %s (similarity %.4f, threshold %.2f)\n", res.Match.ChunkID, res.Similarity, res.Threshold)
				if res.Match.SourceKey != "" {
					cmd.Printf("  document: %s\n", res.Match.SourceKey)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&sourceType, "source-type", "", "only compare with chunks of this source type")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "similarity threshold (defaults to DUPLICATE_THRESHOLD)")
	return cmd
}
