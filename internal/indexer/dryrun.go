package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sciingest/internal/chunker"
	"sciingest/internal/contextutil"
)

const (
	dryRunTitleRunes  = 50
	dryRunPreviewDims = 5
	dryRunRule        = "================================================================================"
)

// DryRunWriter writes a plain text report per document instead of storing it.
type DryRunWriter struct {
	dir string
}

// NewDryRunWriter creates a writer rooted at dir. An empty dir selects "dry_run".
func NewDryRunWriter(dir string) *DryRunWriter {
	if dir == "" {
		dir = "dry_run"
	}
	return &DryRunWriter{dir: dir}
}

// Dir returns the report root.
func (w *DryRunWriter) Dir() string {
	return w.dir
}

// Write stores the report of r under <dir>/<kind>/ and returns its path.
func (w *DryRunWriter) Write(kind string, r ProcessResult, vecs [][]float32, at time.Time) (string, error) {
	dir := filepath.Join(w.dir, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create dry run directory: %w", err)
	}

	name := chunker.SourceKey(truncateRunes(r.Title, dryRunTitleRunes))
	if name == "" {
		name = r.SourceKey
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.txt", name, at.Format("20060102-150405")))

	report, err := renderDryRun(kind, r, vecs, at)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
		return "", fmt.Errorf("failed to write dry run report: %w", err)
	}
	return path, nil
}

func renderDryRun(kind string, r ProcessResult, vecs [][]float32, at time.Time) (string, error) {
	var b strings.Builder

	heading := "ARTICLE"
	if kind == KindText {
		heading = "TEXT"
	}
	b.WriteString(dryRunRule + "\n")
	fmt.Fprintf(&b, "%s DRY RUN - %s\n", heading, at.Format(time.RFC3339))
	b.WriteString(dryRunRule + "\n\n")

	fmt.Fprintf(&b, "Title: %s\n", r.Title)
	fmt.Fprintf(&b, "Source key: %s\n", r.SourceKey)
	fmt.Fprintf(&b, "Source type: %s\n", r.SourceType)
	if authors, ok := r.Metadata["authors"].([]string); ok && len(authors) > 0 {
		fmt.Fprintf(&b, "Authors: %s\n", strings.Join(authors, ", "))
	}
	if r.SourceURL != "" {
		fmt.Fprintf(&b, "URL: %s\n", r.SourceURL)
	}
	fmt.Fprintf(&b, "Tags: %s\n", strings.Join(r.Tags, ", "))
	fmt.Fprintf(&b, "Category: %s\n", r.Category)
	fmt.Fprintf(&b, "Strategy: %s\n", r.Strategy)
	fmt.Fprintf(&b, "Total: %d chars, %d words, %d chunks\n\n", r.TotalChars, r.TotalWords, len(r.Chunks))

	meta, err := json.MarshalIndent(r.Metadata, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}
	b.WriteString("METADATA\n")
	b.Write(meta)
	b.WriteString("\n\n")

	b.WriteString("CHUNKS\n")
	for i, c := range r.Chunks {
		b.WriteString(dryRunRule + "\n")
		fmt.Fprintf(&b, "Chunk %d/%d: %d chars, %d words, %d sentences\n",
			c.Index+1, c.Total, c.CharCount, c.WordCount, len(c.Sentences))
		if i < len(vecs) && vecs[i] != nil {
			n := min(dryRunPreviewDims, len(vecs[i]))
			fmt.Fprintf(&b, "Embedding: %d dimensions, first %d: %v\n", len(vecs[i]), n, vecs[i][:n])
		} else {
			b.WriteString("Embedding: none\n")
		}
		b.WriteString("\n")
		b.WriteString(c.Text)
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

func (p *Pipeline) dryRunDocument(ctx context.Context, kind string, r ProcessResult, vecs [][]float32) (DocumentResult, error) {
	path, err := p.dryRun.Write(kind, r, vecs, p.now())
	if err != nil {
		return DocumentResult{}, err
	}

	embedded := 0
	for _, v := range vecs {
		if v != nil {
			embedded++
		}
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "wrote dry run report",
		"source_key", r.SourceKey, "path", path, "chunks", len(r.Chunks))

	return DocumentResult{
		Title:          r.Title,
		SourceKey:      r.SourceKey,
		Success:        true,
		ChunksCreated:  len(r.Chunks),
		WithEmbeddings: embedded,
		ChunkIDs:       []string{},
		Tags:           r.Tags,
		Category:       r.Category,
		DryRunFile:     path,
	}, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
