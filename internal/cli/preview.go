package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sciingest/internal/app"
	"sciingest/internal/service"
	"sciingest/internal/source"
)

// fileText is one text read from a file with the source type it chunks as.
type fileText struct {
	Title      string
	Text       string
	SourceType string
}

// readFileTexts returns one entry per article of a JSON file, or a single
// entry for a text or markdown file.
func readFileTexts(path string) ([]fileText, error) {
	contents, err := source.NewLoader().LoadPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	if contents.Text != nil {
		return []fileText{{
			Title:      contents.Text.Title,
			Text:       contents.Text.Text,
			SourceType: contents.Text.SourceType,
		}}, nil
	}

	out := make([]fileText, 0, len(contents.Articles))
	for _, a := range contents.Articles {
		parts := make([]string, 0, 1+len(a.FullText.FullContent))
		if a.Abstract != "" {
			parts = append(parts, a.Abstract)
		}
		parts = append(parts, a.FullText.FullContent...)
		out = append(out, fileText{
			Title:      a.Title,
			Text:       strings.Join(parts, "\n\n"),
			SourceType: source.TypeArticle,
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("failed to load %s: %w", path, source.ErrEmptyFile)
	}
	return out, nil
}

func newChunkCmd(r *runner) *cobra.Command {
	var (
		sourceType   string
		chunkSize    int
		chunkOverlap int
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "chunk <file>",
		Short: "Preview how a file would be chunked",
		Long: `Chunks a file with the profile of its source type without storing
anything. Article JSON files are previewed one article at a time.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			texts, err := readFileTexts(args[0])
			if err != nil {
				return err
			}
			return r.withApp(cmd, func(ctx context.Context, a *app.App) error {
				results := make([]service.PreviewResult, 0, len(texts))
				for _, t := range texts {
					st := t.SourceType
					if sourceType != "" {
						st = sourceType
					}
					res, err := a.Service.Chunk(ctx, service.PreviewRequest{
						Text:         t.Text,
						SourceType:   st,
						ChunkSize:    chunkSize,
						ChunkOverlap: chunkOverlap,
					})
					if err != nil {
						return fmt.Errorf("failed to chunk %q: %w", t.Title, err)
					}
					results = append(results, res)
				}
				if asJSON {
					return printJSON(cmd, results)
				}
				for i, res := range results {
					cmd.Printf("%s (%s, %s): %d chunks\n", texts[i].Title, res.SourceType, res.Strategy, res.TotalChunks)
					for _, c := range res.Chunks {
						cmd.Printf("  [%d] %d-%d %d chars: %s\n", c.Index, c.StartPos, c.EndPos, c.CharCount, preview(c.Text, 70))
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&sourceType, "source-type", "", "chunk as this source type (article, pdf, text, markdown)")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "chunk size in characters (0 keeps the profile)")
	cmd.Flags().IntVar(&chunkOverlap, "chunk-overlap", 0, "chunk overlap in characters (0 keeps the profile)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output chunks as JSON")
	return cmd
}

func newTagsCmd(r *runner) *cobra.Command {
	var maxTags int

	cmd := &cobra.Command{
		Use:   "tags <file>",
		Short: "Show the tags and category of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			texts, err := readFileTexts(args[0])
			if err != nil {
				return err
			}
			return r.withApp(cmd, func(ctx context.Context, a *app.App) error {
				for _, t := range texts {
					res, err := a.Service.GenerateTags(ctx, service.TagRequest{Text: t.Text, MaxTags: maxTags})
					if err != nil {
						return fmt.Errorf("failed to tag %q: %w", t.Title, err)
					}
					cmd.Printf("%s\n  category: %s\n  tags: %s\n", t.Title, res.Category, strings.Join(res.Tags, ", "))
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&maxTags, "max-tags", 0, "maximum number of tags (0 keeps the default)")
	return cmd
}

func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
