package search

import "errors"

const (
	// DefaultLimit is used when a request leaves Limit at zero.
	DefaultLimit = 10
	// MaxLimit is the largest accepted Limit.
	MaxLimit = 100
)

var (
	// ErrEmptyQuery is returned for a blank query.
	ErrEmptyQuery = errors.New("query must not be empty")
	// ErrInvalidLimit is returned when Limit is negative or above MaxLimit.
	ErrInvalidLimit = errors.New("limit must be between 1 and 100")
	// ErrInvalidMinScore is returned when MinScore is outside [0, 1].
	ErrInvalidMinScore = errors.New("min_score must be between 0 and 1")
	// ErrInvalidFilter is returned for a filter key other than source_type,
	// source_key or category.
	ErrInvalidFilter = errors.New("unsupported filter")
	// ErrQueryEmbedding is returned when the query could not be embedded.
	ErrQueryEmbedding = errors.New("failed to embed query")
)

// Request represents a vector search request.
//
// swagger:model SearchRequest
type Request struct {
	// Query is the free text to search for.
	Query string `json:"query"`
	// Limit is the maximum number of results (default 10, max 100).
	Limit int `json:"limit,omitempty"`
	// MinScore drops results whose vector relevance is below it.
	MinScore float64 `json:"min_score,omitempty"`
	// Filters restrict results by source_type, source_key or category.
	Filters map[string]string `json:"filters,omitempty"`
}

// Result is one matching chunk.
type Result struct {
	ChunkID      string         `json:"chunk_id"`
	Score        float64        `json:"score"`
	VectorScore  float64        `json:"vector_score"`
	LexicalScore float64        `json:"lexical_score"`
	Text         string         `json:"text"`
	SourceKey    string         `json:"source_key"`
	SourceType   string         `json:"source_type"`
	ChunkIndex   int            `json:"chunk_index"`
	TotalChunks  int            `json:"total_chunks"`
	Tags         []string       `json:"tags"`
	Category     string         `json:"category"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// Response represents the response from a search.
//
// swagger:model SearchResponse
type Response struct {
	Query           string   `json:"query"`
	Results         []Result `json:"results"`
	Count           int      `json:"count"`
	ExecutionTimeMS int64    `json:"execution_time_ms"`
}
