package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"sciingest/internal/app"
	"sciingest/internal/service"
)

// ingestFlags mirror the query parameters of the batch endpoints.
// Flags left unset keep the configured defaults.
type ingestFlags struct {
	generateEmbeddings bool
	generateTags       bool
	maxTags            int
	chunkSize          int
	chunkOverlap       int
	dryRun             bool
	checkDuplicates    bool
	threshold          float64
}

func (f *ingestFlags) register(fs *pflag.FlagSet) {
	def := service.DefaultIngestOptions()
	fs.BoolVar(&f.generateEmbeddings, "generate-embeddings", def.GenerateEmbeddings, "embed chunks")
	fs.BoolVar(&f.generateTags, "generate-tags", def.GenerateTags, "tag chunks and assign a category")
	fs.IntVar(&f.maxTags, "max-tags", def.MaxTags, "maximum tags per chunk")
	fs.IntVar(&f.chunkSize, "chunk-size", 0, "chunk size in characters (0 keeps the profile)")
	fs.IntVar(&f.chunkOverlap, "chunk-overlap", 0, "chunk overlap in characters (0 keeps the profile)")
	fs.BoolVar(&f.dryRun, "dry-run", false, "write reports instead of storing chunks")
	fs.BoolVar(&f.checkDuplicates, "check-duplicates", def.CheckDuplicates, "skip near-duplicate chunks")
	fs.Float64Var(&f.threshold, "similarity-threshold", def.SimilarityThreshold, "duplicate similarity threshold")
}

func (f *ingestFlags) options(fs *pflag.FlagSet, a *app.App) (service.IngestOptions, error) {
	opts := a.IngestOptions()
	opts.GenerateEmbeddings = f.generateEmbeddings
	opts.GenerateTags = f.generateTags
	opts.MaxTags = f.maxTags
	opts.ChunkSize = f.chunkSize
	opts.ChunkOverlap = f.chunkOverlap
	opts.CheckDuplicates = f.checkDuplicates
	if fs.Changed("dry-run") {
		opts.DryRun = f.dryRun
	}
	if fs.Changed("similarity-threshold") {
		opts.SimilarityThreshold = f.threshold
	}
	return opts, opts.Validate()
}

func newLoadCmd(r *runner) *cobra.Command {
	var (
		flags  ingestFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "load <file|dir>",
		Short: "Ingest an article JSON file, a text file or a directory",
		Long: `Ingests a single file or every supported file of a directory.
Article JSON files hold one article or an array of articles; .txt files are
ingested as extracted PDF text and .md files as markdown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *app.App) error {
				opts, err := flags.options(cmd.Flags(), a)
				if err != nil {
					return err
				}
				return runLoad(ctx, cmd, a, args[0], opts, asJSON)
			})
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the result as JSON")
	return cmd
}

func runLoad(ctx context.Context, cmd *cobra.Command, a *app.App, path string, opts service.IngestOptions, asJSON bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if info.IsDir() {
		res, err := a.Files.IngestDir(ctx, path, opts)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd, res)
		}
		cmd.Printf("Files: %d (%d failed)\n", res.Files, len(res.FailedFiles))
		for _, f := range res.FailedFiles {
			cmd.Printf("  failed: %s\n", f)
		}
		cmd.Printf("Documents: %d successful, %d failed\n", res.Successful, res.Failed)
		cmd.Printf("Chunks created: %d, duplicates skipped: %d\n", res.TotalChunksCreated, res.DuplicatesSkipped)
		return nil
	}

	res, err := a.Files.IngestPath(ctx, path, opts)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(cmd, res)
	}
	cmd.Printf("Documents: %d successful, %d failed\n", res.Successful, res.Failed)
	for _, d := range res.Results {
		cmd.Printf("  %s: %d chunks [%s]\n", d.SourceKey, d.ChunksCreated, d.Category)
	}
	for _, f := range res.FailedDocuments {
		cmd.Printf("  failed %s: %s\n", f.Title, f.Error)
	}
	cmd.Printf("Chunks created: %d, duplicates skipped: %d\n", res.TotalChunksCreated, res.DuplicatesSkipped)
	if res.DryRun {
		cmd.Println("Dry run: nothing was stored.")
	}
	return nil
}
