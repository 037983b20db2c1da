package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_ingest_service.go -package=mocks sciingest/internal/service IngestService

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sciingest/internal/chunker"
	"sciingest/internal/contextutil"
	"sciingest/internal/dedup"
	"sciingest/internal/indexer"
	"sciingest/internal/search"
	"sciingest/internal/source"
	"sciingest/internal/storage"
	"sciingest/internal/tagging"
)

// IngestService is the application API used by the HTTP handlers and the CLI.
type IngestService interface {
	// ProcessArticles chunks, tags, embeds and stores a batch of articles.
	ProcessArticles(ctx context.Context, articles []source.Article, opts IngestOptions) (indexer.BatchResult, error)
	// ProcessText does the same for extracted PDF or plain text documents.
	ProcessText(ctx context.Context, docs []source.TextDocument, opts IngestOptions) (indexer.BatchResult, error)
	// FindDuplicate reports the most similar stored chunk for one text.
	FindDuplicate(ctx context.Context, req DuplicateRequest) (DuplicateResult, error)
	// FindDuplicates runs FindDuplicate for several texts.
	FindDuplicates(ctx context.Context, req DuplicateBatchRequest) ([]DuplicateResult, error)
	// Search runs a vector search over stored chunks.
	Search(ctx context.Context, req search.Request) (search.Response, error)
	// GetChunk returns one chunk.
	GetChunk(ctx context.Context, id string) (*storage.ChunkRecord, error)
	// ListChunks pages through stored chunks.
	ListChunks(ctx context.Context, req ListRequest) (ChunkList, error)
	// CreateChunk stores a single chunk created outside batch ingestion.
	CreateChunk(ctx context.Context, req CreateChunkRequest) (*storage.ChunkRecord, error)
	// RegenerateChunk recomputes tags, category and embedding of a chunk.
	RegenerateChunk(ctx context.Context, id string, req RegenerateRequest) (*storage.ChunkRecord, error)
	// DeleteChunk removes a chunk.
	DeleteChunk(ctx context.Context, id string) error
	// DeleteDocument removes every chunk of a document and returns how many.
	DeleteDocument(ctx context.Context, sourceKey string) (int, error)
	// Stats summarises stored chunks of one source type, or all when empty.
	Stats(ctx context.Context, sourceType string) (*indexer.Stats, error)
	// Chunk previews chunking of a text without storing anything.
	Chunk(ctx context.Context, req PreviewRequest) (PreviewResult, error)
	// GenerateTags returns tags and category for a text.
	GenerateTags(ctx context.Context, req TagRequest) (TagResult, error)
	// RecentRuns lists the latest batch ingestions.
	RecentRuns(ctx context.Context, limit int) ([]storage.IngestRun, error)
}

// DuplicateChecker finds near-duplicate stored chunks.
type DuplicateChecker interface {
	FindSimilar(ctx context.Context, text string, opts dedup.Options) (*dedup.Match, error)
}

// Deps are the collaborators of the ingest service.
type Deps struct {
	Pipeline   *indexer.Pipeline
	Duplicates DuplicateChecker
	Search     search.Engine
	Chunks     storage.ChunkStore
	Runs       storage.RunStore
}

// ingestService implements IngestService.
type ingestService struct {
	pipeline   *indexer.Pipeline
	duplicates DuplicateChecker
	search     search.Engine
	chunks     storage.ChunkStore
	runs       storage.RunStore
}

// NewIngestService creates a new IngestService.
func NewIngestService(d Deps) IngestService {
	return &ingestService{
		pipeline:   d.Pipeline,
		duplicates: d.Duplicates,
		search:     d.Search,
		chunks:     d.Chunks,
		runs:       d.Runs,
	}
}

func (s *ingestService) ProcessArticles(ctx context.Context, articles []source.Article, opts IngestOptions) (indexer.BatchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if len(articles) == 0 {
		return indexer.BatchResult{}, &ValidationError{Field: "articles", Message: "at least one article is required"}
	}
	batchOpts, err := s.ingestOptions(opts, source.TypeArticle, indexer.KindArticles)
	if err != nil {
		logger.WarnContext(ctx, "invalid article ingest options", "error", err)
		return indexer.BatchResult{}, err
	}

	return s.pipeline.IngestBatch(ctx, indexer.ArticleDocuments(articles), batchOpts), nil
}

func (s *ingestService) ProcessText(ctx context.Context, docs []source.TextDocument, opts IngestOptions) (indexer.BatchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if len(docs) == 0 {
		return indexer.BatchResult{}, &ValidationError{Field: "documents", Message: "at least one document is required"}
	}
	batchOpts, err := s.ingestOptions(opts, source.TypePDF, indexer.KindText)
	if err != nil {
		logger.WarnContext(ctx, "invalid text ingest options", "error", err)
		return indexer.BatchResult{}, err
	}

	batch := make([]indexer.Document, len(docs))
	for i := range docs {
		batch[i] = indexer.Document{Text: &docs[i]}
	}
	return s.pipeline.IngestBatch(ctx, batch, batchOpts), nil
}

// ingestOptions validates opts and resolves a partial chunking override
// against the profile of sourceType.
func (s *ingestService) ingestOptions(opts IngestOptions, sourceType, kind string) (indexer.IngestOptions, error) {
	if err := opts.Validate(); err != nil {
		return indexer.IngestOptions{}, err
	}

	params := indexer.Params{
		GenerateTags: opts.GenerateTags,
		Tagging:      opts.taggingOptions(),
	}
	override, err := resolveChunking(s.pipeline.Profiles().For(sourceType).Params, opts.ChunkSize, opts.ChunkOverlap)
	if err != nil {
		return indexer.IngestOptions{}, err
	}
	params.Chunking = override

	return indexer.IngestOptions{
		Params:              params,
		GenerateEmbeddings:  opts.GenerateEmbeddings,
		CheckDuplicates:     opts.CheckDuplicates,
		SimilarityThreshold: opts.SimilarityThreshold,
		DryRun:              opts.DryRun,
		Kind:                kind,
	}, nil
}

func (s *ingestService) FindDuplicate(ctx context.Context, req DuplicateRequest) (DuplicateResult, error) {
	if err := req.Validate(); err != nil {
		return DuplicateResult{}, err
	}
	return s.findDuplicate(ctx, req.Text, req.SourceType, req.Threshold)
}

func (s *ingestService) FindDuplicates(ctx context.Context, req DuplicateBatchRequest) ([]DuplicateResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	out := make([]DuplicateResult, len(req.Texts))
	for i, text := range req.Texts {
		r, err := s.findDuplicate(ctx, text, req.SourceType, req.Threshold)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// findDuplicate embeds text the same way stored chunks were embedded, with
// its own tags and category appended, before comparing.
func (s *ingestService) findDuplicate(ctx context.Context, text, sourceType string, threshold float64) (DuplicateResult, error) {
	cleaned := chunker.CleanPDFText(text)
	if sourceType == source.TypeArticle {
		cleaned = chunker.CleanText(text)
	}
	tags, category := s.pipeline.Tags(cleaned, tagging.DefaultOptions())

	match, err := s.duplicates.FindSimilar(ctx, tagging.EnrichForEmbedding(cleaned, tags, category), dedup.Options{
		SourceType: sourceType,
		Threshold:  threshold,
	})
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "duplicate check failed", "error", err)
		return DuplicateResult{}, WrapError(err, "failed to check duplicates")
	}

	res := DuplicateResult{IsDuplicate: match != nil, Threshold: threshold, Match: match}
	if match != nil {
		res.Similarity = match.Similarity
	}
	return res, nil
}

func (s *ingestService) Search(ctx context.Context, req search.Request) (search.Response, error) {
	resp, err := s.search.Search(ctx, req)
	if err != nil {
		return search.Response{}, mapSearchError(err)
	}
	return resp, nil
}

func mapSearchError(err error) error {
	switch {
	case errors.Is(err, search.ErrEmptyQuery):
		return &ValidationError{Field: "query", Message: "cannot be empty"}
	case errors.Is(err, search.ErrInvalidLimit):
		return &ValidationError{Field: "limit", Message: "must be between 1 and 100"}
	case errors.Is(err, search.ErrInvalidMinScore):
		return &ValidationError{Field: "min_score", Message: "must be between 0 and 1"}
	case errors.Is(err, search.ErrInvalidFilter):
		return &ValidationError{Field: "filters", Message: err.Error()}
	case errors.Is(err, search.ErrQueryEmbedding):
		return fmt.Errorf("%w: %v", ErrExternalService, err)
	default:
		return WrapError(err, "failed to search")
	}
}

func (s *ingestService) GetChunk(ctx context.Context, id string) (*storage.ChunkRecord, error) {
	rec, err := s.chunks.GetByID(ctx, id)
	if err != nil {
		return nil, mapStorageError(err, "failed to get chunk")
	}
	return rec, nil
}

func (s *ingestService) ListChunks(ctx context.Context, req ListRequest) (ChunkList, error) {
	if err := req.Validate(); err != nil {
		return ChunkList{}, err
	}

	filter := storage.ListFilter{SourceType: req.SourceType, Offset: req.Skip, Limit: req.Limit}
	chunks, err := s.chunks.List(ctx, filter)
	if err != nil {
		return ChunkList{}, WrapError(err, "failed to list chunks")
	}
	total, err := s.chunks.Count(ctx, filter)
	if err != nil {
		return ChunkList{}, WrapError(err, "failed to count chunks")
	}
	if chunks == nil {
		chunks = []*storage.ChunkRecord{}
	}
	return ChunkList{Chunks: chunks, Total: total, Skip: req.Skip, Limit: req.Limit}, nil
}

func (s *ingestService) CreateChunk(ctx context.Context, req CreateChunkRequest) (*storage.ChunkRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rec, err := s.pipeline.CreateChunk(ctx, indexer.NewChunk{
		Text:              req.Text,
		Source:            req.Source,
		SourceType:        req.SourceType,
		Tags:              req.Tags,
		Metadata:          req.Metadata,
		GenerateEmbedding: req.GenerateEmbedding,
		Tagging:           tagging.Options{MaxTags: req.maxTags(), IncludeDomain: true, IncludeEntities: true},
	})
	if errors.Is(err, indexer.ErrEmptyText) {
		return nil, &ValidationError{Field: "text", Message: "cannot be empty"}
	}
	if err != nil {
		return nil, WrapError(err, "failed to create chunk")
	}
	return rec, nil
}

func (s *ingestService) RegenerateChunk(ctx context.Context, id string, req RegenerateRequest) (*storage.ChunkRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rec, err := s.pipeline.Regenerate(ctx, id, indexer.RegenerateOptions{
		Tags:      req.Tags,
		Embedding: req.Embedding,
		Tagging:   tagging.Options{MaxTags: req.maxTags(), IncludeDomain: true, IncludeEntities: true},
	})
	if errors.Is(err, indexer.ErrEmbeddingFailed) {
		return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	if err != nil {
		return nil, mapStorageError(err, "failed to regenerate chunk")
	}
	return rec, nil
}

func (s *ingestService) DeleteChunk(ctx context.Context, id string) error {
	if err := s.pipeline.DeleteChunk(ctx, id); err != nil {
		return mapStorageError(err, "failed to delete chunk")
	}
	return nil
}

func (s *ingestService) DeleteDocument(ctx context.Context, sourceKey string) (int, error) {
	if strings.TrimSpace(sourceKey) == "" {
		return 0, &ValidationError{Field: "source_key", Message: "cannot be empty"}
	}
	n, err := s.pipeline.DeleteDocument(ctx, sourceKey)
	if err != nil {
		return 0, mapStorageError(err, "failed to delete document")
	}
	return n, nil
}

func (s *ingestService) Stats(ctx context.Context, sourceType string) (*indexer.Stats, error) {
	stats, err := s.pipeline.Stats(ctx, sourceType)
	if err != nil {
		return nil, WrapError(err, "failed to compute stats")
	}
	return stats, nil
}

func (s *ingestService) Chunk(_ context.Context, req PreviewRequest) (PreviewResult, error) {
	if err := req.Validate(); err != nil {
		return PreviewResult{}, err
	}

	sourceType := req.SourceType
	if sourceType == "" {
		sourceType = source.TypePDF
	}
	text := chunker.CleanPDFText(req.Text)
	if sourceType == source.TypeArticle {
		text = chunker.CleanText(req.Text)
	}

	override, err := resolveChunking(s.pipeline.Profiles().For(sourceType).Params, req.ChunkSize, req.ChunkOverlap)
	if err != nil {
		return PreviewResult{}, err
	}
	chunks, strategy, err := s.pipeline.Chunk(sourceType, text, override)
	if err != nil {
		return PreviewResult{}, WrapError(err, "failed to chunk text")
	}
	if chunks == nil {
		chunks = []chunker.Chunk{}
	}
	return PreviewResult{Chunks: chunks, TotalChunks: len(chunks), Strategy: strategy, SourceType: sourceType}, nil
}

func (s *ingestService) GenerateTags(_ context.Context, req TagRequest) (TagResult, error) {
	if err := req.Validate(); err != nil {
		return TagResult{}, err
	}
	tags, category := s.pipeline.Tags(chunker.CleanText(req.Text), tagging.Options{
		MaxTags:         req.maxTags(),
		IncludeDomain:   true,
		IncludeEntities: true,
	})
	return TagResult{Tags: tags, Category: category}, nil
}

func (s *ingestService) RecentRuns(ctx context.Context, limit int) ([]storage.IngestRun, error) {
	if limit <= 0 {
		limit = 10
	}
	runs, err := s.runs.ListRecent(ctx, limit)
	if err != nil {
		return nil, WrapError(err, "failed to list ingest runs")
	}
	return runs, nil
}

func mapStorageError(err error, msg string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s: %w", msg, ErrNotFound)
	}
	return WrapError(err, msg)
}
