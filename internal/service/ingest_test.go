package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"sciingest/internal/contextutil"
	"sciingest/internal/dedup"
	"sciingest/internal/indexer"
	"sciingest/internal/llm"
	"sciingest/internal/search"
	"sciingest/internal/source"
	"sciingest/internal/storage"
	"sciingest/internal/vectorstore"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testContext() context.Context {
	return contextutil.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestService(t *testing.T) (IngestService, *storage.ChunkRepo) {
	t.Helper()

	db, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	chunks := storage.NewChunkRepo(db)
	runs := storage.NewRunRepo(db)
	embedder := llm.NewService(llm.NewHashEmbedder("test-model", 32), llm.ServiceConfig{})
	detector := dedup.NewDetector(embedder, chunks, 0)
	vectors := vectorstore.NewMemoryStore()

	pipeline := indexer.NewPipeline(indexer.Deps{
		Chunks:     chunks,
		Documents:  storage.NewDocumentRepo(db),
		Runs:       runs,
		Embedder:   embedder,
		Duplicates: detector,
		Vectors:    vectors,
		Collection: "chunks",
		DryRunDir:  t.TempDir(),
	})

	svc := NewIngestService(Deps{
		Pipeline:   pipeline,
		Duplicates: detector,
		Search:     search.NewEngine(embedder, vectors, "chunks", chunks),
		Chunks:     chunks,
		Runs:       runs,
	})
	return svc, chunks
}

func testArticles() []source.Article {
	a := source.Article{
		URL:      "https://example.org/mars",
		Title:    "Mars Habitat Study",
		Authors:  []string{"Ada Lovelace"},
		Abstract: "Astronauts lived in a Mars habitat analog for 120 days.",
	}
	a.FullText.FullContent = []string{"Radiation doses stayed low inside the habitat."}
	return []source.Article{a}
}

func TestIngestService_ProcessArticles(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := testContext()

	result, err := svc.ProcessArticles(ctx, testArticles(), DefaultIngestOptions())
	if err != nil {
		t.Fatalf("ProcessArticles() error = %v", err)
	}
	if result.Successful != 1 || result.TotalChunksCreated != 1 {
		t.Errorf("result = %+v", result)
	}

	runs, err := svc.RecentRuns(ctx, 0)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(runs) != 1 || runs[0].Kind != indexer.KindArticles {
		t.Errorf("runs = %+v", runs)
	}

	stats, err := svc.Stats(ctx, source.TypeArticle)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalChunks != 1 || len(stats.SourceKeys) != 1 || stats.SourceKeys[0] != "mars-habitat-study" {
		t.Errorf("stats = %+v", stats.ChunkStats)
	}
}

func TestIngestService_ProcessArticles_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name      string
		articles  []source.Article
		mutate    func(*IngestOptions)
		wantField string
	}{
		{name: "no articles", articles: nil, mutate: func(*IngestOptions) {}, wantField: "articles"},
		{name: "chunk size too small", articles: testArticles(), mutate: func(o *IngestOptions) { o.ChunkSize = 99 }, wantField: "chunk_size"},
		{name: "chunk size too large", articles: testArticles(), mutate: func(o *IngestOptions) { o.ChunkSize = 5001 }, wantField: "chunk_size"},
		{name: "overlap too large", articles: testArticles(), mutate: func(o *IngestOptions) { o.ChunkOverlap = 1501 }, wantField: "chunk_overlap"},
		{name: "overlap not below size", articles: testArticles(), mutate: func(o *IngestOptions) { o.ChunkSize = 200; o.ChunkOverlap = 200 }, wantField: "chunk_overlap"},
		{name: "overlap above profile size", articles: testArticles(), mutate: func(o *IngestOptions) { o.ChunkOverlap = 1500 }, wantField: "chunk_overlap"},
		{name: "max tags", articles: testArticles(), mutate: func(o *IngestOptions) { o.MaxTags = 31 }, wantField: "max_tags"},
		{name: "threshold", articles: testArticles(), mutate: func(o *IngestOptions) { o.SimilarityThreshold = 1.02 }, wantField: "similarity_threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultIngestOptions()
			tt.mutate(&opts)

			_, err := svc.ProcessArticles(testContext(), tt.articles, opts)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("ProcessArticles() error = %v, want ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestIngestService_ProcessText_ChunkOverride(t *testing.T) {
	svc, _ := newTestService(t)

	text := ""
	for i := 0; i < 30; i++ {
		text += "The lander measured seismic activity on the surface. "
	}
	opts := DefaultIngestOptions()
	opts.ChunkSize = 300
	opts.ChunkOverlap = 50
	opts.CheckDuplicates = false

	result, err := svc.ProcessText(testContext(), []source.TextDocument{{Title: "Seismic", Text: text}}, opts)
	if err != nil {
		t.Fatalf("ProcessText() error = %v", err)
	}
	if result.TotalChunksCreated < 3 {
		t.Errorf("TotalChunksCreated = %d, want several with a 300 char limit", result.TotalChunksCreated)
	}
}

func TestIngestService_FindDuplicate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := testContext()

	text := "Plants grown on the station flowered early."
	if _, err := svc.ProcessText(ctx, []source.TextDocument{{Title: "Plants", Text: text}}, DefaultIngestOptions()); err != nil {
		t.Fatalf("ProcessText() error = %v", err)
	}

	got, err := svc.FindDuplicate(ctx, DuplicateRequest{Text: text, SourceType: source.TypePDF, Threshold: 0.95})
	if err != nil {
		t.Fatalf("FindDuplicate() error = %v", err)
	}
	if !got.IsDuplicate || got.Match == nil || got.Match.SourceKey != "plants" {
		t.Errorf("FindDuplicate() = %+v, want a match on plants", got)
	}

	other, err := svc.FindDuplicate(ctx, DuplicateRequest{Text: "Completely different words about comets.", Threshold: 0.95})
	if err != nil {
		t.Fatalf("FindDuplicate() error = %v", err)
	}
	if other.IsDuplicate {
		t.Errorf("unrelated text reported as duplicate: %+v", other)
	}

	batch, err := svc.FindDuplicates(ctx, DuplicateBatchRequest{Texts: []string{text, "Comets"}, Threshold: 0.95})
	if err != nil {
		t.Fatalf("FindDuplicates() error = %v", err)
	}
	if len(batch) != 2 || !batch[0].IsDuplicate || batch[1].IsDuplicate {
		t.Errorf("FindDuplicates() = %+v", batch)
	}

	if _, err := svc.FindDuplicate(ctx, DuplicateRequest{Text: " ", Threshold: 0.9}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("FindDuplicate(blank) error = %v, want ErrInvalidInput", err)
	}
}

func TestIngestService_Search(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := testContext()

	if _, err := svc.ProcessArticles(ctx, testArticles(), DefaultIngestOptions()); err != nil {
		t.Fatalf("ProcessArticles() error = %v", err)
	}

	resp, err := svc.Search(ctx, search.Request{Query: "habitat radiation"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if resp.Count != 1 || resp.Results[0].SourceKey != "mars-habitat-study" {
		t.Errorf("Search() = %+v", resp)
	}
	if resp.Results[0].LexicalScore <= 0 {
		t.Errorf("LexicalScore = %f, want a lexical bonus", resp.Results[0].LexicalScore)
	}

	_, err = svc.Search(ctx, search.Request{Query: "x", Limit: 500})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "limit" {
		t.Errorf("Search(limit 500) error = %v, want limit ValidationError", err)
	}
}

func TestIngestService_ChunkCRUD(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := testContext()

	rec, err := svc.CreateChunk(ctx, CreateChunkRequest{
		Text:              "NASA tested a new rocket engine.",
		Source:            "Engine Test",
		GenerateEmbedding: true,
	})
	if err != nil {
		t.Fatalf("CreateChunk() error = %v", err)
	}
	if rec.SourceType != indexer.SourceTypeAPI {
		t.Errorf("SourceType = %q, want %q", rec.SourceType, indexer.SourceTypeAPI)
	}

	got, err := svc.GetChunk(ctx, rec.ID)
	if err != nil || got.Text != rec.Text {
		t.Fatalf("GetChunk() = %v, %v", got, err)
	}

	list, err := svc.ListChunks(ctx, ListRequest{})
	if err != nil {
		t.Fatalf("ListChunks() error = %v", err)
	}
	if list.Total != 1 || len(list.Chunks) != 1 || list.Limit != DefaultLimit {
		t.Errorf("ListChunks() = %+v", list)
	}

	regen, err := svc.RegenerateChunk(ctx, rec.ID, RegenerateRequest{Tags: true, MaxTags: 3})
	if err != nil {
		t.Fatalf("RegenerateChunk() error = %v", err)
	}
	if len(regen.Tags) > 3 {
		t.Errorf("Tags = %v, want at most 3", regen.Tags)
	}

	if err := svc.DeleteChunk(ctx, rec.ID); err != nil {
		t.Fatalf("DeleteChunk() error = %v", err)
	}
	if _, err := svc.GetChunk(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetChunk() after delete error = %v, want ErrNotFound", err)
	}
	if err := svc.DeleteChunk(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteChunk() twice error = %v, want ErrNotFound", err)
	}
	if _, err := svc.RegenerateChunk(ctx, rec.ID, RegenerateRequest{Tags: true}); !errors.Is(err, ErrNotFound) {
		t.Errorf("RegenerateChunk(missing) error = %v, want ErrNotFound", err)
	}
}

func TestIngestService_DeleteDocument(t *testing.T) {
	svc, chunks := newTestService(t)
	ctx := testContext()

	if _, err := svc.ProcessArticles(ctx, testArticles(), DefaultIngestOptions()); err != nil {
		t.Fatalf("ProcessArticles() error = %v", err)
	}

	n, err := svc.DeleteDocument(ctx, "mars-habitat-study")
	if err != nil {
		t.Fatalf("DeleteDocument() error = %v", err)
	}
	if n != 1 {
		t.Errorf("DeleteDocument() = %d, want 1", n)
	}
	if left, _ := chunks.Count(ctx, storage.ListFilter{}); left != 0 {
		t.Errorf("chunks left = %d, want 0", left)
	}
	if _, err := svc.DeleteDocument(ctx, "mars-habitat-study"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteDocument(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := svc.DeleteDocument(ctx, " "); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("DeleteDocument(blank) error = %v, want ErrInvalidInput", err)
	}
}

func TestIngestService_ChunkPreview(t *testing.T) {
	svc, chunks := newTestService(t)
	ctx := testContext()

	text := ""
	for i := 0; i < 20; i++ {
		text += "Saturn's rings are made of ice and rock. "
	}

	res, err := svc.Chunk(ctx, PreviewRequest{Text: text, SourceType: source.TypeArticle, ChunkSize: 200, ChunkOverlap: 40})
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if res.TotalChunks < 2 || res.TotalChunks != len(res.Chunks) {
		t.Errorf("TotalChunks = %d, len = %d", res.TotalChunks, len(res.Chunks))
	}
	if res.Strategy != "boundary" || res.SourceType != source.TypeArticle {
		t.Errorf("Strategy/SourceType = %s/%s", res.Strategy, res.SourceType)
	}

	def, err := svc.Chunk(ctx, PreviewRequest{Text: "One sentence only."})
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if def.SourceType != source.TypePDF || def.Strategy != "sentence" || def.TotalChunks != 1 {
		t.Errorf("default preview = %+v", def)
	}

	if n, _ := chunks.Count(ctx, storage.ListFilter{}); n != 0 {
		t.Errorf("preview stored %d chunks", n)
	}

	if _, err := svc.Chunk(ctx, PreviewRequest{Text: text, ChunkSize: 50}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Chunk(size 50) error = %v, want ErrInvalidInput", err)
	}
}

func TestIngestService_GenerateTags(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.GenerateTags(testContext(), TagRequest{Text: "NASA launched a rocket toward Mars and the planets beyond.", MaxTags: 5})
	if err != nil {
		t.Fatalf("GenerateTags() error = %v", err)
	}
	if len(res.Tags) == 0 || len(res.Tags) > 5 {
		t.Errorf("Tags = %v, want 1..5 tags", res.Tags)
	}
	if res.Category == "" {
		t.Error("Category should be set")
	}

	if _, err := svc.GenerateTags(testContext(), TagRequest{Text: "x", MaxTags: 0}); err != nil {
		t.Errorf("GenerateTags(default max) error = %v", err)
	}
	if _, err := svc.GenerateTags(testContext(), TagRequest{Text: "x", MaxTags: 40}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("GenerateTags(40) error = %v, want ErrInvalidInput", err)
	}
}
