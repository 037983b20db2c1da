// Package search answers free-text queries against the stored chunks.
package search

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks sciingest/internal/search Engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"sciingest/internal/contextutil"
	"sciingest/internal/storage"
	"sciingest/internal/vectorstore"
)

// candidateFactor widens the vector search so that reranking has room to
// reorder results.
const candidateFactor = 2

// Engine provides vector search over stored chunks.
type Engine interface {
	// Search embeds the query, searches the vector store and reranks the
	// hydrated chunks with a lexical bonus.
	Search(ctx context.Context, req Request) (Response, error)
}

// QueryEmbedder embeds a search query.
type QueryEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, bool)
}

// searchEngine implements the Engine interface.
type searchEngine struct {
	embedder    QueryEmbedder
	vectorStore vectorstore.VectorStore
	collection  string
	chunkRepo   storage.ChunkStore
	now         func() time.Time
}

// NewEngine creates a new search engine.
func NewEngine(
	embedder QueryEmbedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	chunkRepo storage.ChunkStore,
) Engine {
	return &searchEngine{
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		chunkRepo:   chunkRepo,
		now:         time.Now,
	}
}

// Validate checks a request and fills in the default limit.
func (r *Request) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return ErrEmptyQuery
	}
	if r.Limit == 0 {
		r.Limit = DefaultLimit
	}
	if r.Limit < 0 || r.Limit > MaxLimit {
		return fmt.Errorf("%w, got %d", ErrInvalidLimit, r.Limit)
	}
	if r.MinScore < 0 || r.MinScore > 1 {
		return fmt.Errorf("%w, got %g", ErrInvalidMinScore, r.MinScore)
	}
	for k := range r.Filters {
		if !slices.Contains(vectorstore.FilterKeys, k) {
			return fmt.Errorf("%w: %q", ErrInvalidFilter, k)
		}
	}
	return nil
}

// Search runs a vector search.
func (e *searchEngine) Search(ctx context.Context, req Request) (Response, error) {
	logger := contextutil.LoggerFromContext(ctx)
	start := e.now()

	if err := req.Validate(); err != nil {
		return Response{}, err
	}

	logger.InfoContext(ctx, "search started", "query", req.Query, "limit", req.Limit, "filters", req.Filters)

	queryVector, ok := e.embedder.Embed(ctx, req.Query)
	if !ok {
		return Response{}, ErrQueryEmbedding
	}

	filters := make(map[string]any, len(req.Filters))
	for k, v := range req.Filters {
		filters[k] = v
	}

	hits, err := e.vectorStore.Search(ctx, e.collection, queryVector, req.Limit*candidateFactor, filters)
	if err != nil {
		logger.ErrorContext(ctx, "failed to search vector store", "error", err)
		return Response{}, fmt.Errorf("failed to search vector store: %w", err)
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		vectorScore := float64(hit.Score)
		if vectorScore < req.MinScore {
			continue
		}

		chunk, err := e.chunkRepo.GetByID(ctx, hit.PointID)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				logger.WarnContext(ctx, "failed to fetch chunk", "chunk_id", hit.PointID, "error", err)
			} else {
				logger.DebugContext(ctx, "vector point without chunk", "chunk_id", hit.PointID)
			}
			continue
		}

		lexical := lexicalScore(req.Query, chunk.Text, chunk.Tags, chunk.Category)
		results = append(results, Result{
			ChunkID:      chunk.ID,
			Score:        vectorScore + lexical,
			VectorScore:  vectorScore,
			LexicalScore: lexical,
			Text:         chunk.Text,
			SourceKey:    chunk.SourceKey,
			SourceType:   chunk.SourceType,
			ChunkIndex:   chunk.ChunkIndex,
			TotalChunks:  chunk.TotalChunks,
			Tags:         chunk.Tags,
			Category:     chunk.Category,
			Metadata:     chunk.Metadata,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ChunkID < results[j].ChunkID
	})
	if len(results) > req.Limit {
		results = results[:req.Limit]
	}

	resp := Response{
		Query:           req.Query,
		Results:         results,
		Count:           len(results),
		ExecutionTimeMS: e.now().Sub(start).Milliseconds(),
	}

	logger.InfoContext(ctx, "search completed",
		"vector_hits", len(hits),
		"results", resp.Count,
		"execution_time_ms", resp.ExecutionTimeMS)
	return resp, nil
}
