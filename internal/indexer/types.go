package indexer

import (
	"time"

	"sciingest/internal/chunker"
	"sciingest/internal/source"
	"sciingest/internal/tagging"
)

// Run kinds recorded for each batch.
const (
	KindArticles = "articles"
	KindText     = "text"
)

// Profile selects the chunking strategy and parameters for a source type.
type Profile struct {
	Strategy string
	Params   chunker.Params
}

// Profiles maps a source type to its chunking profile.
type Profiles map[string]Profile

// DefaultProfiles returns boundary snapping at 1500/400 for articles and
// sentence accumulation at 1000/200 for everything else.
func DefaultProfiles() Profiles {
	sentence := Profile{Strategy: chunker.StrategySentence, Params: chunker.PDFParams}
	return Profiles{
		source.TypeArticle:  {Strategy: chunker.StrategyBoundary, Params: chunker.ArticleParams},
		source.TypePDF:      sentence,
		source.TypeText:     sentence,
		source.TypeMarkdown: sentence,
	}
}

// For returns the profile of sourceType, falling back to the pdf profile.
func (p Profiles) For(sourceType string) Profile {
	if prof, ok := p[sourceType]; ok {
		return prof
	}
	if prof, ok := p[source.TypePDF]; ok {
		return prof
	}
	return Profile{Strategy: chunker.StrategySentence, Params: chunker.PDFParams}
}

// Params controls how one document is processed.
type Params struct {
	// Chunking overrides the profile's size and overlap when set.
	Chunking *chunker.Params
	// GenerateTags enables document-level tags and category.
	GenerateTags bool
	Tagging      tagging.Options
}

// DefaultParams generates tags with the default tagging options.
func DefaultParams() Params {
	return Params{GenerateTags: true, Tagging: tagging.DefaultOptions()}
}

// ProcessResult is the outcome of cleaning, chunking and tagging one document.
type ProcessResult struct {
	Success    bool            `json:"success"`
	Error      string          `json:"error,omitempty"`
	Title      string          `json:"title"`
	SourceKey  string          `json:"source_key"`
	SourceType string          `json:"source_type"`
	SourceURL  string          `json:"source_url,omitempty"`
	FullText   string          `json:"full_text"`
	Chunks     []chunker.Chunk `json:"chunks"`
	Strategy   string          `json:"strategy"`
	Tags       []string        `json:"tags"`
	Category   string          `json:"category"`
	TotalChars int             `json:"total_chars"`
	TotalWords int             `json:"total_words"`
	Metadata   map[string]any  `json:"metadata"`
}

// Document is one input of a batch: either an article or a text document.
type Document struct {
	Article *source.Article
	Text    *source.TextDocument
}

// Title returns the document's title.
func (d Document) Title() string {
	switch {
	case d.Article != nil:
		return d.Article.Title
	case d.Text != nil:
		if d.Text.Title != "" {
			return d.Text.Title
		}
		return d.Text.SourceFilename
	default:
		return ""
	}
}

// ArticleDocuments wraps articles for IngestBatch.
func ArticleDocuments(articles []source.Article) []Document {
	docs := make([]Document, len(articles))
	for i := range articles {
		docs[i] = Document{Article: &articles[i]}
	}
	return docs
}

// IngestOptions controls a batch ingestion.
type IngestOptions struct {
	Params
	GenerateEmbeddings  bool
	CheckDuplicates     bool
	SimilarityThreshold float64
	DryRun              bool
	// Kind is recorded with the run; empty derives it from the first document.
	Kind string
}

// DocumentResult reports one successfully processed document.
type DocumentResult struct {
	Title             string   `json:"title"`
	SourceKey         string   `json:"source_key"`
	Success           bool     `json:"success"`
	Unchanged         bool     `json:"unchanged,omitempty"`
	ChunksCreated     int      `json:"chunks_created"`
	DuplicatesSkipped int      `json:"duplicates_skipped"`
	Dropped           int      `json:"dropped"`
	WithEmbeddings    int      `json:"chunks_with_embeddings"`
	ChunkIDs          []string `json:"chunk_ids"`
	Tags              []string `json:"tags"`
	Category          string   `json:"category"`
	DryRunFile        string   `json:"dry_run_file,omitempty"`
	Warnings          []string `json:"warnings,omitempty"`
}

// FailedDocument reports a document that could not be processed or stored.
type FailedDocument struct {
	Title string `json:"title"`
	Error string `json:"error"`
}

// BatchResult summarises IngestBatch.
//
// swagger:model IngestBatchResult
type BatchResult struct {
	Success            bool             `json:"success"`
	RunID              string           `json:"run_id,omitempty"`
	TotalDocuments     int              `json:"total_documents"`
	Successful         int              `json:"successful"`
	Failed             int              `json:"failed"`
	TotalChunksCreated int              `json:"total_chunks_created"`
	DuplicatesSkipped  int              `json:"duplicates_skipped"`
	Dropped            int              `json:"dropped"`
	DryRun             bool             `json:"dry_run"`
	Results            []DocumentResult `json:"results"`
	FailedDocuments    []FailedDocument `json:"failed_documents"`
	Duration           time.Duration    `json:"-"`
	ProcessingTimeMS   int64            `json:"processing_time_ms"`
}
