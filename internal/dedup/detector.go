// Package dedup finds near-duplicate chunks by cosine similarity against a
// bounded window of the most recently stored chunks.
package dedup

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks sciingest/internal/dedup Embedder

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"sciingest/internal/contextutil"
	"sciingest/internal/similarity"
	"sciingest/internal/storage"
)

const (
	// DefaultThreshold is the cosine similarity at or above which two
	// chunks are considered duplicates.
	DefaultThreshold = 0.95
	// DefaultWindow is how many recent chunks are compared.
	DefaultWindow = 100

	previewChars = 100
)

// Embedder produces a vector for a text, or false when it cannot.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, bool)
}

// CandidateSource lists recently stored chunks, newest first.
type CandidateSource interface {
	RecentChunks(ctx context.Context, sourceType string, limit int) ([]*storage.ChunkRecord, error)
}

// Options controls one lookup.
type Options struct {
	// SourceType restricts candidates; empty compares against every type.
	SourceType string
	// Threshold is the minimum raw cosine similarity. Values above 1 never match.
	Threshold float64
}

// DefaultOptions returns DefaultThreshold across all source types.
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold}
}

// Match describes the most similar stored chunk.
type Match struct {
	ChunkID     string    `json:"chunk_id"`
	Similarity  float64   `json:"similarity"`
	TextPreview string    `json:"text_preview"`
	SourceKey   string    `json:"source_key"`
	SourceType  string    `json:"source_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// Detector compares new text against recent chunks.
type Detector struct {
	embedder Embedder
	source   CandidateSource
	window   int
	cache    *embeddingCache
}

// NewDetector creates a Detector. window <= 0 selects DefaultWindow.
func NewDetector(embedder Embedder, source CandidateSource, window int) *Detector {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Detector{
		embedder: embedder,
		source:   source,
		window:   window,
		cache:    newEmbeddingCache(defaultCacheSize),
	}
}

// FindSimilar embeds text and returns the best candidate whose similarity
// is at least opts.Threshold, or nil. A failed query embedding yields
// nil, nil: duplicate checking never blocks ingestion.
func (d *Detector) FindSimilar(ctx context.Context, text string, opts Options) (*Match, error) {
	vec, ok := d.embedder.Embed(ctx, text)
	if !ok {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "duplicate check skipped, query embedding failed")
		return nil, nil
	}
	return d.FindSimilarVector(ctx, vec, opts)
}

// FindSimilarVector is FindSimilar for an already embedded query.
func (d *Detector) FindSimilarVector(ctx context.Context, query []float32, opts Options) (*Match, error) {
	if len(query) == 0 {
		return nil, nil
	}

	candidates, err := d.source.RecentChunks(ctx, opts.SourceType, d.window)
	if err != nil {
		return nil, fmt.Errorf("failed to load duplicate candidates: %w", err)
	}

	var best *Match
	for _, c := range candidates {
		vec := d.candidateVector(ctx, c, len(query))
		if vec == nil {
			continue
		}
		score := similarity.Cosine(query, vec)
		if score < opts.Threshold {
			continue
		}
		if best == nil || score > best.Similarity {
			best = &Match{
				ChunkID:     c.ID,
				Similarity:  score,
				TextPreview: preview(c.Text),
				SourceKey:   c.SourceKey,
				SourceType:  c.SourceType,
				CreatedAt:   c.CreatedAt,
			}
		}
	}
	return best, nil
}

// CheckBatch runs FindSimilar for every text. Lookup errors are logged and
// reported as no match for that text.
func (d *Detector) CheckBatch(ctx context.Context, texts []string, opts Options) []*Match {
	logger := contextutil.LoggerFromContext(ctx)
	out := make([]*Match, len(texts))
	for i, t := range texts {
		m, err := d.FindSimilar(ctx, t, opts)
		if err != nil {
			logger.WarnContext(ctx, "duplicate check failed", "index", i, "error", err)
			continue
		}
		out[i] = m
	}
	return out
}

// candidateVector prefers the stored embedding, then the cache, and only
// then re-embeds the candidate text. Vectors of another dimension are
// never compared.
func (d *Detector) candidateVector(ctx context.Context, c *storage.ChunkRecord, dims int) []float32 {
	if len(c.Embedding) == dims {
		return c.Embedding
	}
	if v, ok := d.cache.get(c.ID); ok && len(v) == dims {
		return v
	}
	v, ok := d.embedder.Embed(ctx, c.Text)
	if !ok || len(v) != dims {
		return nil
	}
	d.cache.put(c.ID, v)
	return v
}

func preview(text string) string {
	if utf8.RuneCountInString(text) <= previewChars {
		return text
	}
	return string([]rune(text)[:previewChars]) + "..."
}
