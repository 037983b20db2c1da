package storage

import "time"

// Document is one ingested source (an article or a text file).
type Document struct {
	SourceKey  string // Slug derived from the title, primary key
	Title      string
	SourceType string // "article", "pdf", "text", "markdown", "manual"
	SourceURL  string
	Hash       string // SHA256 hex string of the cleaned full text
	ChunkCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ChunkRecord is a persisted chunk with its enrichment.
type ChunkRecord struct {
	ID             string // UUID (same as the vector point ID)
	SourceKey      string
	SourceType     string
	Text           string
	ChunkIndex     int
	TotalChunks    int
	CharCount      int
	WordCount      int
	SentencesCount int
	StartPos       int
	EndPos         int
	Tags           []string
	Category       string
	Metadata       map[string]any
	Embedding      []float32 // nil when no embedding was produced
	EmbeddingModel string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Enrichment holds the fields that may be regenerated on an existing chunk.
// Nil Tags and Embedding leave the stored values unchanged.
type Enrichment struct {
	Tags           []string
	Category       string
	Embedding      []float32
	EmbeddingModel string
}

// ListFilter narrows List and Count. Empty strings match everything.
type ListFilter struct {
	SourceType string
	SourceKey  string
	Offset     int
	Limit      int
}

// InsertSummary reports the outcome of InsertMany.
type InsertSummary struct {
	Inserted   int
	Dropped    int
	DroppedIDs []string
	Errors     []string
}

// CategoryCount is one row of a category distribution.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// ChunkStats summarises stored chunks.
type ChunkStats struct {
	TotalChunks  int             `json:"total_chunks"`
	Documents    int             `json:"unique_documents"`
	SourceKeys   []string        `json:"source_keys"`
	Categories   []CategoryCount `json:"categories"`
	BySourceType map[string]int  `json:"by_source_type"`
	WithEmbedded int             `json:"with_embedding"`
}

// IngestRun records one batch ingestion.
type IngestRun struct {
	ID                string
	Kind              string // "articles" or "text"
	StartedAt         time.Time
	FinishedAt        time.Time
	Total             int
	Successful        int
	Failed            int
	ChunksCreated     int
	DuplicatesSkipped int
	Dropped           int
	DryRun            bool
}
