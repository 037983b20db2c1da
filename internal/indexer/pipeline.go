package indexer

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks sciingest/internal/indexer Embedder
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_duplicate_finder.go -package=mocks sciingest/internal/indexer DuplicateFinder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sciingest/internal/chunker"
	"sciingest/internal/contextutil"
	"sciingest/internal/dedup"
	"sciingest/internal/llm"
	"sciingest/internal/similarity"
	"sciingest/internal/source"
	"sciingest/internal/storage"
	"sciingest/internal/tagging"
	"sciingest/internal/vectorstore"
)

// Embedder produces chunk vectors. Failures are reported as absent
// vectors, never as errors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, bool)
	EmbedBatch(ctx context.Context, texts []string) llm.BatchResult
	ModelName() string
	Dimensions() int
}

// DuplicateFinder looks up the most similar stored chunk.
type DuplicateFinder interface {
	FindSimilar(ctx context.Context, text string, opts dedup.Options) (*dedup.Match, error)
	FindSimilarVector(ctx context.Context, query []float32, opts dedup.Options) (*dedup.Match, error)
}

// Deps are the collaborators of a Pipeline. Embedder, Duplicates, Vectors
// and Runs may be nil; the matching steps are then skipped.
type Deps struct {
	Chunks     storage.ChunkStore
	Documents  storage.DocumentStore
	Runs       storage.RunStore
	Embedder   Embedder
	Duplicates DuplicateFinder
	Vectors    vectorstore.VectorStore
	Collection string
	Profiles   Profiles
	DryRunDir  string
}

// Pipeline turns documents into stored, tagged and embedded chunks.
type Pipeline struct {
	chunks     storage.ChunkStore
	documents  storage.DocumentStore
	runs       storage.RunStore
	embedder   Embedder
	duplicates DuplicateFinder
	vectors    vectorstore.VectorStore
	collection string
	profiles   Profiles
	tagger     *tagging.Generator
	markdown   *source.MarkdownRenderer
	dryRun     *DryRunWriter
	now        func() time.Time
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(d Deps) *Pipeline {
	profiles := d.Profiles
	if profiles == nil {
		profiles = DefaultProfiles()
	}
	return &Pipeline{
		chunks:     d.Chunks,
		documents:  d.Documents,
		runs:       d.Runs,
		embedder:   d.Embedder,
		duplicates: d.Duplicates,
		vectors:    d.Vectors,
		collection: d.Collection,
		profiles:   profiles,
		tagger:     tagging.NewGenerator(),
		markdown:   source.NewMarkdownRenderer(),
		dryRun:     NewDryRunWriter(d.DryRunDir),
		now:        time.Now,
	}
}

// Profiles returns the chunking profiles in use.
func (p *Pipeline) Profiles() Profiles {
	return p.profiles
}

// IngestBatch processes every document, embeds all chunks in one batch,
// gates each chunk through the duplicate check and persists the rest.
// Per-document failures are reported in the result and never abort the
// batch.
func (p *Pipeline) IngestBatch(ctx context.Context, docs []Document, opts IngestOptions) BatchResult {
	logger := contextutil.LoggerFromContext(ctx)
	start := p.now()

	result := BatchResult{
		Success:         true,
		TotalDocuments:  len(docs),
		DryRun:          opts.DryRun,
		Results:         []DocumentResult{},
		FailedDocuments: []FailedDocument{},
	}

	logger.InfoContext(ctx, "starting batch ingestion", "documents", len(docs), "dry_run", opts.DryRun)

	processed := make([]ProcessResult, 0, len(docs))
	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			result.FailedDocuments = append(result.FailedDocuments, FailedDocument{Title: d.Title(), Error: err.Error()})
			continue
		}

		var r ProcessResult
		switch {
		case d.Article != nil:
			r = p.ProcessArticle(ctx, *d.Article, opts.Params)
		case d.Text != nil:
			r = p.ProcessText(ctx, *d.Text, opts.Params)
		default:
			r = ProcessResult{Error: "empty document"}
		}
		if !r.Success {
			logger.WarnContext(ctx, "document processing failed", "title", d.Title(), "error", r.Error)
			result.FailedDocuments = append(result.FailedDocuments, FailedDocument{Title: d.Title(), Error: r.Error})
			continue
		}
		processed = append(processed, r)
	}

	vectors := p.embedAll(ctx, processed, opts)
	kind := runKind(docs, opts.Kind)

	var accepted []pendingChunk
	for i, r := range processed {
		var (
			dr  DocumentResult
			err error
		)
		if opts.DryRun {
			dr, err = p.dryRunDocument(ctx, kind, r, vectors[i])
		} else {
			dr, err = p.storeDocument(ctx, r, vectors[i], opts, &accepted)
		}
		if err != nil {
			logger.ErrorContext(ctx, "failed to store document", "source_key", r.SourceKey, "error", err)
			result.FailedDocuments = append(result.FailedDocuments, FailedDocument{Title: r.Title, Error: err.Error()})
			continue
		}

		result.Results = append(result.Results, dr)
		result.TotalChunksCreated += dr.ChunksCreated
		result.DuplicatesSkipped += dr.DuplicatesSkipped
		result.Dropped += dr.Dropped
	}

	result.Successful = len(result.Results)
	result.Failed = len(result.FailedDocuments)
	result.Duration = p.now().Sub(start)
	result.ProcessingTimeMS = result.Duration.Milliseconds()

	p.recordRun(ctx, kind, start, &result)

	logger.InfoContext(ctx, "batch ingestion completed",
		"documents", result.TotalDocuments,
		"successful", result.Successful,
		"failed", result.Failed,
		"chunks_created", result.TotalChunksCreated,
		"duplicates_skipped", result.DuplicatesSkipped,
		"dropped", result.Dropped,
		"duration", result.Duration)
	return result
}

// embedAll embeds every chunk of every processed document in a single
// EmbedBatch call. The returned slice is indexed [document][chunk]; failed
// chunks hold nil.
func (p *Pipeline) embedAll(ctx context.Context, processed []ProcessResult, opts IngestOptions) [][][]float32 {
	out := make([][][]float32, len(processed))
	for i, r := range processed {
		out[i] = make([][]float32, len(r.Chunks))
	}
	if !opts.GenerateEmbeddings || p.embedder == nil {
		return out
	}

	var texts []string
	for _, r := range processed {
		for _, c := range r.Chunks {
			texts = append(texts, tagging.EnrichForEmbedding(c.Text, r.Tags, r.Category))
		}
	}
	if len(texts) == 0 {
		return out
	}

	batch := p.embedder.EmbedBatch(ctx, texts)
	k := 0
	for i, r := range processed {
		for j := range r.Chunks {
			if k < len(batch.Vectors) {
				out[i][j] = batch.Vectors[k]
			}
			k++
		}
	}

	if len(batch.Failed) > 0 {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "some chunks were not embedded",
			"failed", len(batch.Failed), "total", len(texts))
	}
	return out
}

// pendingChunk is a chunk accepted earlier in the same batch.
type pendingChunk struct {
	id        string
	sourceKey string
	vec       []float32
}

func (p *Pipeline) storeDocument(ctx context.Context, r ProcessResult, vecs [][]float32, opts IngestOptions, accepted *[]pendingChunk) (DocumentResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	dr := DocumentResult{
		Title:     r.Title,
		SourceKey: r.SourceKey,
		Success:   true,
		ChunkIDs:  []string{},
		Tags:      r.Tags,
		Category:  r.Category,
	}

	hash := contentHash(r.FullText)
	existing, err := p.documents.GetByKey(ctx, r.SourceKey)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return dr, fmt.Errorf("failed to check existing document: %w", err)
	}
	if existing != nil && existing.Hash == hash {
		logger.InfoContext(ctx, "skipping unchanged document", "source_key", r.SourceKey)
		dr.Unchanged = true
		return dr, nil
	}

	model := ""
	if p.embedder != nil {
		model = p.embedder.ModelName()
	}

	records := make([]*storage.ChunkRecord, 0, len(r.Chunks))
	for j, c := range r.Chunks {
		vec := vecs[j]
		if opts.CheckDuplicates {
			if m := p.findDuplicate(ctx, r, c, vec, opts.SimilarityThreshold, *accepted); m != nil {
				dr.DuplicatesSkipped++
				logger.InfoContext(ctx, "duplicate chunk skipped",
					"source_key", r.SourceKey,
					"chunk_index", c.Index,
					"similar_to", m.ChunkID,
					"similarity", m.Similarity)
				continue
			}
		}

		rec := newChunkRecord(r, c)
		if vec != nil {
			rec.Embedding = vec
			rec.EmbeddingModel = model
			*accepted = append(*accepted, pendingChunk{id: rec.ID, sourceKey: r.SourceKey, vec: vec})
		}
		records = append(records, rec)
	}

	doc := &storage.Document{
		SourceKey:  r.SourceKey,
		Title:      r.Title,
		SourceType: r.SourceType,
		SourceURL:  r.SourceURL,
	}
	if existing != nil {
		doc.Hash = existing.Hash
		doc.ChunkCount = existing.ChunkCount
	}
	// chunks reference the document row
	if err := p.documents.Upsert(ctx, doc); err != nil {
		return dr, err
	}

	summary := p.chunks.InsertMany(ctx, records)
	dr.Dropped = summary.Dropped
	for _, e := range summary.Errors {
		logger.WarnContext(ctx, "chunk dropped", "source_key", r.SourceKey, "error", e)
	}
	dropped := make(map[string]bool, len(summary.DroppedIDs))
	for _, id := range summary.DroppedIDs {
		dropped[id] = true
	}

	var points []vectorstore.Point
	for _, rec := range records {
		if dropped[rec.ID] {
			continue
		}
		dr.ChunkIDs = append(dr.ChunkIDs, rec.ID)
		if rec.Embedding != nil {
			points = append(points, ChunkPoint(rec))
		}
	}
	dr.ChunksCreated = len(dr.ChunkIDs)
	dr.WithEmbeddings = len(points)

	doc.Hash = hash
	doc.ChunkCount += dr.ChunksCreated
	if err := p.documents.Upsert(ctx, doc); err != nil {
		return dr, err
	}

	if len(points) > 0 && p.vectors != nil {
		if err := p.vectors.Upsert(ctx, p.collection, points); err != nil {
			logger.WarnContext(ctx, "failed to upsert vectors", "source_key", r.SourceKey, "error", err)
			dr.Warnings = append(dr.Warnings, fmt.Sprintf("vector upsert failed: %v", err))
		}
	}

	logger.InfoContext(ctx, "stored document",
		"source_key", r.SourceKey,
		"chunks", dr.ChunksCreated,
		"duplicates_skipped", dr.DuplicatesSkipped,
		"dropped", dr.Dropped)
	return dr, nil
}

// findDuplicate checks a chunk against chunks accepted earlier in this
// batch and then against the store. Lookup failures count as no match.
func (p *Pipeline) findDuplicate(ctx context.Context, r ProcessResult, c chunker.Chunk, vec []float32, threshold float64, accepted []pendingChunk) *dedup.Match {
	logger := contextutil.LoggerFromContext(ctx)
	opts := dedup.Options{SourceType: r.SourceType, Threshold: threshold}

	if vec != nil {
		var best *dedup.Match
		for _, a := range accepted {
			s := similarity.Cosine(vec, a.vec)
			if s >= threshold && (best == nil || s > best.Similarity) {
				best = &dedup.Match{ChunkID: a.id, Similarity: s, SourceKey: a.sourceKey, SourceType: r.SourceType}
			}
		}
		if best != nil {
			return best
		}
	}
	if p.duplicates == nil {
		return nil
	}

	var (
		m   *dedup.Match
		err error
	)
	if vec != nil {
		m, err = p.duplicates.FindSimilarVector(ctx, vec, opts)
	} else {
		m, err = p.duplicates.FindSimilar(ctx, tagging.EnrichForEmbedding(c.Text, r.Tags, r.Category), opts)
	}
	if err != nil {
		logger.WarnContext(ctx, "duplicate check failed", "source_key", r.SourceKey, "chunk_index", c.Index, "error", err)
		return nil
	}
	return m
}

func newChunkRecord(r ProcessResult, c chunker.Chunk) *storage.ChunkRecord {
	return &storage.ChunkRecord{
		ID:             uuid.New().String(),
		SourceKey:      r.SourceKey,
		SourceType:     r.SourceType,
		Text:           c.Text,
		ChunkIndex:     c.Index,
		TotalChunks:    c.Total,
		CharCount:      c.CharCount,
		WordCount:      c.WordCount,
		SentencesCount: len(c.Sentences),
		StartPos:       c.StartPos,
		EndPos:         c.EndPos,
		Tags:           r.Tags,
		Category:       r.Category,
		Metadata:       r.Metadata,
	}
}

// ChunkPoint builds the vector point stored for a chunk.
func ChunkPoint(rec *storage.ChunkRecord) vectorstore.Point {
	tags := make([]any, len(rec.Tags))
	for i, t := range rec.Tags {
		tags[i] = t
	}
	return vectorstore.Point{
		ID:  rec.ID,
		Vec: rec.Embedding,
		Meta: map[string]any{
			vectorstore.MetaChunkID:    rec.ID,
			vectorstore.MetaSourceKey:  rec.SourceKey,
			vectorstore.MetaSourceType: rec.SourceType,
			vectorstore.MetaCategory:   rec.Category,
			vectorstore.MetaChunkIndex: rec.ChunkIndex,
			vectorstore.MetaTags:       tags,
		},
	}
}

func (p *Pipeline) recordRun(ctx context.Context, kind string, start time.Time, result *BatchResult) {
	if p.runs == nil {
		return
	}
	run := &storage.IngestRun{
		Kind:              kind,
		StartedAt:         start,
		FinishedAt:        start.Add(result.Duration),
		Total:             result.TotalDocuments,
		Successful:        result.Successful,
		Failed:            result.Failed,
		ChunksCreated:     result.TotalChunksCreated,
		DuplicatesSkipped: result.DuplicatesSkipped,
		Dropped:           result.Dropped,
		DryRun:            result.DryRun,
	}
	if err := p.runs.Record(ctx, run); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to record ingest run", "error", err)
		return
	}
	result.RunID = run.ID
}

func runKind(docs []Document, kind string) string {
	if kind != "" {
		return kind
	}
	for _, d := range docs {
		if d.Article != nil {
			return KindArticles
		}
		if d.Text != nil {
			return KindText
		}
	}
	return KindArticles
}
