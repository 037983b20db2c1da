package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks sciingest/internal/vectorstore VectorStore

import (
	"context"
	"fmt"
	"sort"
)

// Payload keys written with every chunk point. Only these keys are
// accepted as search filters.
const (
	MetaChunkID    = "chunk_id"
	MetaSourceKey  = "source_key"
	MetaSourceType = "source_type"
	MetaCategory   = "category"
	MetaChunkIndex = "chunk_index"
	MetaTags       = "tags"
)

// FilterKeys lists the payload keys usable in Search filters.
var FilterKeys = []string{MetaSourceType, MetaSourceKey, MetaCategory}

// Point represents a vector point with metadata.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// VectorStore defines the interface for vector storage operations.
type VectorStore interface {
	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search performs a similarity search with optional exact-match filters
	// on FilterKeys. Scores are in [0, 1], higher is more similar.
	Search(ctx context.Context, collection string, query []float32, k int, filters map[string]any) ([]SearchResult, error)

	// Delete removes points by their IDs.
	Delete(ctx context.Context, collection string, ids []string) error

	// EnsureCollection creates the collection if needed and validates its
	// vector size.
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error
}

// stringFilters validates filters and renders their values as strings,
// sorted by key so that generated queries are deterministic.
func stringFilters(filters map[string]any) ([][2]string, error) {
	if len(filters) == 0 {
		return nil, nil
	}
	out := make([][2]string, 0, len(filters))
	for k, v := range filters {
		if !isFilterKey(k) {
			return nil, fmt.Errorf("unsupported filter %q", k)
		}
		s := fmt.Sprintf("%v", v)
		if s == "" {
			continue
		}
		out = append(out, [2]string{k, s})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out, nil
}

func isFilterKey(k string) bool {
	for _, f := range FilterKeys {
		if f == k {
			return true
		}
	}
	return false
}
