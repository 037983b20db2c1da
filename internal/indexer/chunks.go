package indexer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"sciingest/internal/chunker"
	"sciingest/internal/contextutil"
	"sciingest/internal/storage"
	"sciingest/internal/tagging"
	"sciingest/internal/vectorstore"
)

// SourceTypeAPI is the source type of chunks created directly through the API.
const SourceTypeAPI = "api"

var (
	// ErrEmptyText is returned when a chunk has no text after cleaning.
	ErrEmptyText = errors.New("chunk text is empty")
	// ErrEmbeddingFailed is returned when a requested embedding could not be produced.
	ErrEmbeddingFailed = errors.New("failed to generate embedding")
)

// NewChunk describes a chunk created outside batch ingestion.
type NewChunk struct {
	Text       string
	Source     string // document title; also the source key seed
	SourceType string // defaults to SourceTypeAPI
	// Tags are used as given when non-nil; otherwise they are generated.
	Tags              []string
	Metadata          map[string]any
	GenerateEmbedding bool
	Tagging           tagging.Options
}

// CreateChunk stores a single chunk, creating its document row if needed.
func (p *Pipeline) CreateChunk(ctx context.Context, nc NewChunk) (*storage.ChunkRecord, error) {
	logger := contextutil.LoggerFromContext(ctx)

	text := chunker.CleanText(nc.Text)
	if text == "" {
		return nil, ErrEmptyText
	}
	sourceType := nc.SourceType
	if sourceType == "" {
		sourceType = SourceTypeAPI
	}
	sourceKey := chunker.SourceKey(nc.Source)
	if sourceKey == "" {
		sourceKey = fallbackSourceKey(text)
	}

	tags := nc.Tags
	if tags == nil {
		tags = p.tagger.GenerateTags(text, nc.Tagging)
	}
	category := p.tagger.GenerateCategory(text, tags)

	meta := nc.Metadata
	if meta == nil {
		meta = map[string]any{}
	}

	rec := &storage.ChunkRecord{
		ID:             uuid.New().String(),
		SourceKey:      sourceKey,
		SourceType:     sourceType,
		Text:           text,
		ChunkIndex:     0,
		TotalChunks:    1,
		CharCount:      utf8.RuneCountInString(text),
		WordCount:      len(strings.Fields(text)),
		SentencesCount: len(chunker.SplitSentences(text)),
		StartPos:       0,
		EndPos:         utf8.RuneCountInString(text),
		Tags:           tags,
		Category:       category,
		Metadata:       meta,
	}

	if nc.GenerateEmbedding && p.embedder != nil {
		if vec, ok := p.embedder.Embed(ctx, tagging.EnrichForEmbedding(text, tags, category)); ok {
			rec.Embedding = vec
			rec.EmbeddingModel = p.embedder.ModelName()
		} else {
			logger.WarnContext(ctx, "failed to embed chunk, storing without embedding", "source_key", sourceKey)
		}
	}

	if err := p.ensureDocument(ctx, rec, nc.Source); err != nil {
		return nil, err
	}
	if err := p.chunks.InsertOne(ctx, rec); err != nil {
		return nil, err
	}
	p.refreshChunkCount(ctx, sourceKey)
	p.upsertPoint(ctx, rec)

	logger.InfoContext(ctx, "created chunk", "chunk_id", rec.ID, "source_key", sourceKey, "embedded", rec.Embedding != nil)
	return rec, nil
}

// RegenerateOptions selects what Regenerate recomputes.
type RegenerateOptions struct {
	Tags      bool
	Embedding bool
	Tagging   tagging.Options
}

// Regenerate recomputes tags, category and embedding of a stored chunk.
// Returns storage.ErrNotFound if the chunk does not exist.
func (p *Pipeline) Regenerate(ctx context.Context, id string, opts RegenerateOptions) (*storage.ChunkRecord, error) {
	rec, err := p.chunks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	e := storage.Enrichment{Category: rec.Category}
	if opts.Tags {
		e.Tags = p.tagger.GenerateTags(rec.Text, opts.Tagging)
		e.Category = p.tagger.GenerateCategory(rec.Text, e.Tags)
		rec.Tags = e.Tags
		rec.Category = e.Category
	}
	if opts.Embedding {
		if p.embedder == nil {
			return nil, fmt.Errorf("%w: no embedding provider configured", ErrEmbeddingFailed)
		}
		vec, ok := p.embedder.Embed(ctx, tagging.EnrichForEmbedding(rec.Text, rec.Tags, rec.Category))
		if !ok {
			return nil, fmt.Errorf("%w for chunk %s", ErrEmbeddingFailed, id)
		}
		e.Embedding = vec
		e.EmbeddingModel = p.embedder.ModelName()
		rec.Embedding = vec
		rec.EmbeddingModel = e.EmbeddingModel
	}

	if err := p.chunks.UpdateEnrichment(ctx, id, e); err != nil {
		return nil, err
	}
	// tags and category live in the point payload too
	if opts.Tags || opts.Embedding {
		p.upsertPoint(ctx, rec)
	}
	return rec, nil
}

// DeleteChunk removes a chunk and its vector point.
func (p *Pipeline) DeleteChunk(ctx context.Context, id string) error {
	rec, err := p.chunks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := p.chunks.Delete(ctx, id); err != nil {
		return err
	}
	p.deletePoints(ctx, []string{id})
	p.refreshChunkCount(ctx, rec.SourceKey)
	return nil
}

// DeleteDocument removes a document, all of its chunks and their vector
// points. It returns the number of chunks deleted.
func (p *Pipeline) DeleteDocument(ctx context.Context, sourceKey string) (int, error) {
	ids, err := p.chunks.DeleteBySourceKey(ctx, sourceKey)
	if err != nil {
		return 0, err
	}
	if err := p.documents.Delete(ctx, sourceKey); err != nil {
		if !errors.Is(err, storage.ErrNotFound) || len(ids) == 0 {
			return 0, err
		}
	}
	p.deletePoints(ctx, ids)

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "deleted document", "source_key", sourceKey, "chunks", len(ids))
	return len(ids), nil
}

func (p *Pipeline) ensureDocument(ctx context.Context, rec *storage.ChunkRecord, title string) error {
	_, err := p.documents.GetByKey(ctx, rec.SourceKey)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to check document: %w", err)
	}
	if title == "" {
		title = rec.SourceKey
	}
	return p.documents.Upsert(ctx, &storage.Document{
		SourceKey:  rec.SourceKey,
		Title:      title,
		SourceType: rec.SourceType,
	})
}

func (p *Pipeline) refreshChunkCount(ctx context.Context, sourceKey string) {
	logger := contextutil.LoggerFromContext(ctx)

	doc, err := p.documents.GetByKey(ctx, sourceKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.WarnContext(ctx, "failed to load document", "source_key", sourceKey, "error", err)
		}
		return
	}
	n, err := p.chunks.Count(ctx, storage.ListFilter{SourceKey: sourceKey})
	if err != nil {
		logger.WarnContext(ctx, "failed to count chunks", "source_key", sourceKey, "error", err)
		return
	}
	doc.ChunkCount = n
	if err := p.documents.Upsert(ctx, doc); err != nil {
		logger.WarnContext(ctx, "failed to update chunk count", "source_key", sourceKey, "error", err)
	}
}

func (p *Pipeline) upsertPoint(ctx context.Context, rec *storage.ChunkRecord) {
	if p.vectors == nil || rec.Embedding == nil {
		return
	}
	if err := p.vectors.Upsert(ctx, p.collection, []vectorstore.Point{ChunkPoint(rec)}); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to upsert vector", "chunk_id", rec.ID, "error", err)
	}
}

func (p *Pipeline) deletePoints(ctx context.Context, ids []string) {
	if p.vectors == nil || len(ids) == 0 {
		return
	}
	if err := p.vectors.Delete(ctx, p.collection, ids); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to delete vectors", "count", len(ids), "error", err)
	}
}
