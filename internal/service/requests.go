package service

import (
	"fmt"
	"strings"

	"sciingest/internal/chunker"
	"sciingest/internal/dedup"
	"sciingest/internal/storage"
	"sciingest/internal/tagging"
)

// Request parameter bounds. Values outside them are rejected, never clamped.
const (
	MinChunkSize    = 100
	MaxChunkSize    = 5000
	MaxChunkOverlap = 1500
	MinTags         = 1
	MaxTags         = 30
	MaxThreshold    = 1.01
	MaxListLimit    = 100
	DefaultLimit    = 50
)

// IngestOptions are the caller-facing options of a batch ingestion.
// Zero ChunkSize and ChunkOverlap keep the profile defaults.
type IngestOptions struct {
	GenerateEmbeddings  bool    `json:"generate_embeddings"`
	GenerateTags        bool    `json:"generate_tags"`
	MaxTags             int     `json:"max_tags"`
	ChunkSize           int     `json:"chunk_size,omitempty"`
	ChunkOverlap        int     `json:"chunk_overlap,omitempty"`
	DryRun              bool    `json:"dry_run"`
	CheckDuplicates     bool    `json:"check_duplicates"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
}

// DefaultIngestOptions embeds, tags (15 tags) and checks duplicates at 0.95.
func DefaultIngestOptions() IngestOptions {
	return IngestOptions{
		GenerateEmbeddings:  true,
		GenerateTags:        true,
		MaxTags:             tagging.DefaultOptions().MaxTags,
		CheckDuplicates:     true,
		SimilarityThreshold: dedup.DefaultThreshold,
	}
}

// Validate checks the option bounds.
func (o IngestOptions) Validate() error {
	if err := validateChunking(o.ChunkSize, o.ChunkOverlap); err != nil {
		return err
	}
	if err := validateMaxTags(o.MaxTags); err != nil {
		return err
	}
	return validateThreshold(o.SimilarityThreshold)
}

func (o IngestOptions) taggingOptions() tagging.Options {
	opts := tagging.DefaultOptions()
	if o.MaxTags != 0 {
		opts.MaxTags = o.MaxTags
	}
	return opts
}

// DuplicateRequest asks whether text duplicates a stored chunk.
type DuplicateRequest struct {
	Text       string  `json:"text"`
	SourceType string  `json:"source_type,omitempty"`
	Threshold  float64 `json:"threshold"`
}

// Validate checks the request.
func (r DuplicateRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return &ValidationError{Field: "text", Message: "cannot be empty"}
	}
	return validateThreshold(r.Threshold)
}

// DuplicateBatchRequest checks several texts at once.
type DuplicateBatchRequest struct {
	Texts      []string `json:"texts"`
	SourceType string   `json:"source_type,omitempty"`
	Threshold  float64  `json:"threshold"`
}

// Validate checks the request.
func (r DuplicateBatchRequest) Validate() error {
	if len(r.Texts) == 0 {
		return &ValidationError{Field: "texts", Message: "at least one text is required"}
	}
	for i, t := range r.Texts {
		if strings.TrimSpace(t) == "" {
			return &ValidationError{Field: fmt.Sprintf("texts[%d]", i), Message: "cannot be empty"}
		}
	}
	return validateThreshold(r.Threshold)
}

// DuplicateResult is the outcome of one duplicate check.
//
// swagger:model DuplicateResult
type DuplicateResult struct {
	IsDuplicate bool         `json:"is_duplicate"`
	Similarity  float64      `json:"similarity"`
	Threshold   float64      `json:"threshold"`
	Match       *dedup.Match `json:"match,omitempty"`
}

// ListRequest pages through chunks.
type ListRequest struct {
	Skip       int
	Limit      int
	SourceType string
}

// Validate checks paging bounds and fills in the default limit.
func (r *ListRequest) Validate() error {
	if r.Skip < 0 {
		return &ValidationError{Field: "skip", Message: "must not be negative"}
	}
	if r.Limit == 0 {
		r.Limit = DefaultLimit
	}
	if r.Limit < 1 || r.Limit > MaxListLimit {
		return &ValidationError{Field: "limit", Message: fmt.Sprintf("must be between 1 and %d", MaxListLimit)}
	}
	return nil
}

// ChunkList is one page of chunks.
type ChunkList struct {
	Chunks []*storage.ChunkRecord `json:"chunks"`
	Total  int                    `json:"total"`
	Skip   int                    `json:"skip"`
	Limit  int                    `json:"limit"`
}

// CreateChunkRequest describes a manually created chunk.
//
// swagger:model CreateChunkRequest
type CreateChunkRequest struct {
	Text              string         `json:"text"`
	Source            string         `json:"source"`
	SourceType        string         `json:"source_type,omitempty"`
	Tags              []string       `json:"tags,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`
	GenerateEmbedding bool           `json:"generate_embedding"`
	MaxTags           int            `json:"max_tags,omitempty"`
}

// Validate checks the request.
func (r CreateChunkRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return &ValidationError{Field: "text", Message: "cannot be empty"}
	}
	if strings.TrimSpace(r.Source) == "" {
		return &ValidationError{Field: "source", Message: "cannot be empty"}
	}
	return validateMaxTags(r.MaxTags)
}

func (r CreateChunkRequest) maxTags() int { return maxTagsOrDefault(r.MaxTags) }

// RegenerateRequest selects what to recompute on a chunk.
//
// swagger:model RegenerateRequest
type RegenerateRequest struct {
	Tags      bool `json:"regenerate_tags"`
	Embedding bool `json:"regenerate_embedding"`
	MaxTags   int  `json:"max_tags,omitempty"`
}

// Validate checks the request.
func (r RegenerateRequest) Validate() error {
	if !r.Tags && !r.Embedding {
		return &ValidationError{Field: "regenerate", Message: "nothing to regenerate"}
	}
	return validateMaxTags(r.MaxTags)
}

func (r RegenerateRequest) maxTags() int { return maxTagsOrDefault(r.MaxTags) }

// PreviewRequest chunks a text without storing it.
//
// swagger:model PreviewRequest
type PreviewRequest struct {
	Text         string `json:"text"`
	SourceType   string `json:"source_type,omitempty"`
	ChunkSize    int    `json:"chunk_size,omitempty"`
	ChunkOverlap int    `json:"chunk_overlap,omitempty"`
}

// Validate checks the request.
func (r PreviewRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return &ValidationError{Field: "text", Message: "cannot be empty"}
	}
	return validateChunking(r.ChunkSize, r.ChunkOverlap)
}

// PreviewResult lists the chunks a text would produce.
//
// swagger:model PreviewResult
type PreviewResult struct {
	Chunks      []chunker.Chunk `json:"chunks"`
	TotalChunks int             `json:"total_chunks"`
	Strategy    string          `json:"strategy"`
	SourceType  string          `json:"source_type"`
}

// TagRequest asks for the tags of a text.
type TagRequest struct {
	Text    string `json:"text"`
	MaxTags int    `json:"max_tags,omitempty"`
}

// Validate checks the request.
func (r TagRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return &ValidationError{Field: "text", Message: "cannot be empty"}
	}
	return validateMaxTags(r.MaxTags)
}

func (r TagRequest) maxTags() int { return maxTagsOrDefault(r.MaxTags) }

// TagResult holds generated tags and the category.
type TagResult struct {
	Tags     []string `json:"tags"`
	Category string   `json:"category"`
}

func validateChunking(size, overlap int) error {
	if size != 0 && (size < MinChunkSize || size > MaxChunkSize) {
		return &ValidationError{Field: "chunk_size", Message: fmt.Sprintf("must be between %d and %d", MinChunkSize, MaxChunkSize)}
	}
	if overlap < 0 || overlap > MaxChunkOverlap {
		return &ValidationError{Field: "chunk_overlap", Message: fmt.Sprintf("must be between 0 and %d", MaxChunkOverlap)}
	}
	if size != 0 && overlap >= size {
		return &ValidationError{Field: "chunk_overlap", Message: "must be smaller than chunk_size"}
	}
	return nil
}

// resolveChunking returns nil when neither value is set, otherwise the
// profile parameters with the given values replacing them.
func resolveChunking(profile chunker.Params, size, overlap int) (*chunker.Params, error) {
	if size == 0 && overlap == 0 {
		return nil, nil
	}
	p := profile
	if size != 0 {
		p.Size = size
	}
	if overlap != 0 {
		p.Overlap = overlap
	}
	if err := p.Validate(); err != nil {
		return nil, &ValidationError{Field: "chunk_overlap", Message: err.Error()}
	}
	return &p, nil
}

func validateMaxTags(n int) error {
	if n != 0 && (n < MinTags || n > MaxTags) {
		return &ValidationError{Field: "max_tags", Message: fmt.Sprintf("must be between %d and %d", MinTags, MaxTags)}
	}
	return nil
}

func validateThreshold(t float64) error {
	if t < 0 || t > MaxThreshold {
		return &ValidationError{Field: "similarity_threshold", Message: fmt.Sprintf("must be between 0 and %g", MaxThreshold)}
	}
	return nil
}

func maxTagsOrDefault(n int) int {
	if n == 0 {
		return tagging.DefaultOptions().MaxTags
	}
	return n
}
