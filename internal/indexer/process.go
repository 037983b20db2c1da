package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"

	"sciingest/internal/chunker"
	"sciingest/internal/contextutil"
	"sciingest/internal/source"
	"sciingest/internal/tagging"
)

// ProcessArticle joins the article's title, authors, abstract and body
// sections, cleans the result and chunks it with the article profile.
// Body sections are rendered from markdown to plain text first.
func (p *Pipeline) ProcessArticle(ctx context.Context, a source.Article, params Params) ProcessResult {
	parts := make([]string, 0, 3+len(a.FullText.FullContent))
	if a.Title != "" {
		parts = append(parts, "Title: "+a.Title)
	}
	if len(a.Authors) > 0 {
		parts = append(parts, "Authors: "+strings.Join(a.Authors, ", "))
	}
	if a.Abstract != "" {
		parts = append(parts, "Abstract: "+a.Abstract)
	}
	for _, section := range a.FullText.FullContent {
		if s := p.markdown.PlainText(section); s != "" {
			parts = append(parts, s)
		}
	}

	res := ProcessResult{
		Title:      a.Title,
		SourceKey:  chunker.SourceKey(a.Title),
		SourceType: source.TypeArticle,
		SourceURL:  a.URL,
		Metadata:   articleMetadata(a),
	}
	full := chunker.CleanText(strings.Join(parts, "\n\n"))
	return p.finish(ctx, res, full, params)
}

// ProcessText cleans extracted PDF or plain text and chunks it with the
// profile of its source type.
func (p *Pipeline) ProcessText(ctx context.Context, doc source.TextDocument, params Params) ProcessResult {
	title := doc.Title
	if title == "" {
		title = doc.SourceFilename
	}
	sourceType := doc.SourceType
	if sourceType == "" {
		sourceType = source.TypePDF
	}

	res := ProcessResult{
		Title:      title,
		SourceKey:  chunker.SourceKey(title),
		SourceType: sourceType,
		SourceURL:  doc.SourceURL,
		Metadata: map[string]any{
			"title":           title,
			"source_filename": doc.SourceFilename,
			"original_chars":  utf8.RuneCountInString(doc.Text),
		},
	}
	full := chunker.CleanPDFText(doc.Text)
	return p.finish(ctx, res, full, params)
}

// Chunk splits already cleaned text with the profile of sourceType,
// optionally overriding size and overlap.
func (p *Pipeline) Chunk(sourceType string, text string, override *chunker.Params) ([]chunker.Chunk, string, error) {
	prof := p.profiles.For(sourceType)
	prm := prof.Params
	if override != nil {
		prm = *override
	}
	strategy, err := chunker.New(prof.Strategy, prm)
	if err != nil {
		return nil, "", err
	}
	chunks, err := strategy.Split(text)
	if err != nil {
		return nil, "", err
	}
	return chunks, strategy.Name(), nil
}

// Tags returns document-level tags and category for text.
func (p *Pipeline) Tags(text string, opts tagging.Options) ([]string, string) {
	tags := p.tagger.GenerateTags(text, opts)
	return tags, p.tagger.GenerateCategory(text, tags)
}

func (p *Pipeline) finish(ctx context.Context, res ProcessResult, full string, params Params) ProcessResult {
	logger := contextutil.LoggerFromContext(ctx)

	if full == "" {
		res.Error = "no text content"
		return res
	}
	if res.SourceKey == "" {
		res.SourceKey = fallbackSourceKey(full)
	}

	chunks, strategy, err := p.Chunk(res.SourceType, full, params.Chunking)
	if err != nil {
		res.Error = fmt.Sprintf("failed to chunk text: %v", err)
		return res
	}

	res.FullText = full
	res.Chunks = chunks
	res.Strategy = strategy
	res.TotalChars = utf8.RuneCountInString(full)
	res.TotalWords = len(strings.Fields(full))

	res.Tags = []string{}
	res.Category = tagging.CategoryGeneral
	if params.GenerateTags {
		res.Tags, res.Category = p.Tags(full, params.Tagging)
	}

	res.Success = true
	logger.DebugContext(ctx, "processed document",
		"source_key", res.SourceKey,
		"source_type", res.SourceType,
		"chars", res.TotalChars,
		"chunks", len(chunks),
		"strategy", strategy,
		"category", res.Category)
	return res
}

func articleMetadata(a source.Article) map[string]any {
	authors := a.Authors
	if authors == nil {
		authors = []string{}
	}
	meta := map[string]any{
		"url":              a.URL,
		"title":            a.Title,
		"authors":          authors,
		"scraped_at":       a.ScrapedAt,
		"pmc_id":           a.OriginalData.PMCID,
		"doi":              a.OriginalData.DOI,
		"references_count": len(a.References),
	}
	if a.Abstract != "" {
		meta["abstract"] = a.Abstract
	}
	if a.PublicationYear != nil {
		meta["publication_year"] = *a.PublicationYear
	}
	if len(a.Statistics) > 0 {
		meta["statistics"] = a.Statistics
	}
	return meta
}

// contentHash identifies a document's cleaned text.
func contentHash(full string) string {
	sum := sha256.Sum256([]byte(full))
	return hex.EncodeToString(sum[:])
}

// fallbackSourceKey names documents whose title has no alphanumerics.
func fallbackSourceKey(full string) string {
	return "doc-" + contentHash(full)[:12]
}
