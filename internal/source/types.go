// Package source reads documents from disk: article JSON arrays, extracted
// PDF text and markdown. It also watches an ingest directory for new files.
package source

import "time"

// Source types stored with every chunk.
const (
	TypeArticle  = "article"
	TypePDF      = "pdf"
	TypeText     = "text"
	TypeMarkdown = "markdown"
)

// ArticleFullText holds the scraped body sections of an article.
type ArticleFullText struct {
	FullContent []string `json:"full_content"`
}

// ArticleOriginalData carries identifiers from the scraper.
type ArticleOriginalData struct {
	PMCID        string `json:"pmc_id,omitempty"`
	DOI          string `json:"doi,omitempty"`
	FiguresCount int    `json:"figures_count,omitempty"`
	TablesCount  int    `json:"tables_count,omitempty"`
}

// Article is one scraped scientific article.
//
// swagger:model Article
type Article struct {
	URL             string              `json:"url"`
	Title           string              `json:"title"`
	Authors         []string            `json:"authors"`
	Abstract        string              `json:"abstract"`
	FullText        ArticleFullText     `json:"full_text"`
	References      []any               `json:"references,omitempty"`
	Statistics      map[string]any      `json:"statistics,omitempty"`
	PublicationYear *int                `json:"publication_year,omitempty"`
	ScrapedAt       string              `json:"scraped_at"`
	OriginalData    ArticleOriginalData `json:"original_data"`
}

// TextDocument is text already extracted from a PDF or read from a plain
// text or markdown file.
type TextDocument struct {
	Title          string `json:"title"`
	SourceFilename string `json:"source_filename"`
	Text           string `json:"text"`
	SourceType     string `json:"source_type"`
	SourceURL      string `json:"source_url,omitempty"`
}

// FileKind classifies a file found in the ingest directory.
type FileKind string

const (
	KindArticles FileKind = "articles"
	KindText     FileKind = "text"
	KindMarkdown FileKind = "markdown"
)

// ScannedFile is a candidate file found in the ingest directory.
type ScannedFile struct {
	Kind    FileKind
	RelPath string // slash-separated, relative to the scanned root
	AbsPath string
	Size    int64
	ModTime time.Time
}

// KindForPath returns the kind for a file extension, or false when the
// file is not ingestible.
func KindForPath(path string) (FileKind, bool) {
	switch extLower(path) {
	case ".json":
		return KindArticles, true
	case ".txt":
		return KindText, true
	case ".md", ".markdown":
		return KindMarkdown, true
	default:
		return "", false
	}
}
