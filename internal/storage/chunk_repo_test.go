package storage

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"
)

func seedDocument(t *testing.T, repo *DocumentRepo, key, sourceType string) {
	t.Helper()
	doc := &Document{SourceKey: key, Title: key, SourceType: sourceType, Hash: "hash"}
	if err := repo.Upsert(context.Background(), doc); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
}

// fixedClock returns a clock that advances one millisecond per call.
func fixedClock() func() time.Time {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var n int
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Millisecond)
	}
}

func newChunk(key, sourceType string, index int, text string) *ChunkRecord {
	return &ChunkRecord{
		SourceKey:   key,
		SourceType:  sourceType,
		Text:        text,
		ChunkIndex:  index,
		TotalChunks: 3,
		CharCount:   len(text),
		WordCount:   1,
		EndPos:      len(text),
		Tags:        []string{"mars", "nasa"},
		Category:    "nasa",
		Metadata:    map[string]any{"title": key},
	}
}

func TestNewChunkRepo(t *testing.T) {
	repo := NewChunkRepo(openTestDB(t))
	if repo == nil {
		t.Fatal("NewChunkRepo() returned nil")
	}
}

func TestChunkRepo_InsertOne(t *testing.T) {
	db := openTestDB(t)
	seedDocument(t, NewDocumentRepo(db), "mars-habitat-study", "article")
	repo := NewChunkRepo(db)

	tests := []struct {
		name    string
		chunk   *ChunkRecord
		wantErr bool
	}{
		{
			name:  "valid chunk",
			chunk: newChunk("mars-habitat-study", "article", 0, "Mars soil."),
		},
		{
			name: "with embedding",
			chunk: func() *ChunkRecord {
				c := newChunk("mars-habitat-study", "article", 1, "Habitat.")
				c.Embedding = []float32{0.5, -0.25}
				c.EmbeddingModel = "test-model"
				return c
			}(),
		},
		{
			name:    "unknown document",
			chunk:   newChunk("missing", "article", 0, "Orphan."),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.InsertOne(context.Background(), tt.chunk)

			if tt.wantErr {
				if err == nil {
					t.Errorf("InsertOne() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("InsertOne() unexpected error: %v", err)
			}
			if tt.chunk.ID == "" {
				t.Error("InsertOne() should assign an ID")
			}

			got, err := repo.GetByID(context.Background(), tt.chunk.ID)
			if err != nil {
				t.Fatalf("GetByID() error = %v", err)
			}
			if got.Text != tt.chunk.Text || got.Category != "nasa" {
				t.Errorf("GetByID() = %+v", got)
			}
			if !reflect.DeepEqual(got.Tags, []string{"mars", "nasa"}) {
				t.Errorf("GetByID() Tags = %v", got.Tags)
			}
			if !reflect.DeepEqual(got.Embedding, tt.chunk.Embedding) {
				t.Errorf("GetByID() Embedding = %v, want %v", got.Embedding, tt.chunk.Embedding)
			}
			if got.Metadata["title"] != "mars-habitat-study" {
				t.Errorf("GetByID() Metadata = %v", got.Metadata)
			}
		})
	}
}

func TestChunkRepo_GetByID_NotFound(t *testing.T) {
	repo := NewChunkRepo(openTestDB(t))

	_, err := repo.GetByID(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestChunkRepo_InsertMany(t *testing.T) {
	db := openTestDB(t)
	seedDocument(t, NewDocumentRepo(db), "doc-a", "article")
	repo := NewChunkRepo(db)

	chunks := []*ChunkRecord{
		newChunk("doc-a", "article", 0, "One."),
		newChunk("doc-a", "article", 1, "Two."),
		newChunk("doc-a", "article", 2, "Three."),
	}
	summary := repo.InsertMany(context.Background(), chunks)
	if summary.Inserted != 3 || summary.Dropped != 0 {
		t.Errorf("InsertMany() = %+v, want 3 inserted", summary)
	}

	empty := repo.InsertMany(context.Background(), nil)
	if empty.Inserted != 0 || empty.Dropped != 0 {
		t.Errorf("InsertMany(nil) = %+v", empty)
	}
}

func TestChunkRepo_InsertMany_FallsBackOneByOne(t *testing.T) {
	db := openTestDB(t)
	seedDocument(t, NewDocumentRepo(db), "doc-a", "article")
	repo := NewChunkRepo(db)

	chunks := []*ChunkRecord{
		newChunk("doc-a", "article", 0, "One."),
		newChunk("missing-doc", "article", 1, "Orphan."),
		newChunk("doc-a", "article", 2, "Three."),
	}
	summary := repo.InsertMany(context.Background(), chunks)
	if summary.Inserted != 2 || summary.Dropped != 1 {
		t.Errorf("InsertMany() = %+v, want 2 inserted, 1 dropped", summary)
	}
	if len(summary.Errors) != 1 {
		t.Errorf("InsertMany() errors = %v, want 1", summary.Errors)
	}
	if len(summary.DroppedIDs) != 1 || summary.DroppedIDs[0] != chunks[1].ID {
		t.Errorf("InsertMany() dropped IDs = %v, want [%s]", summary.DroppedIDs, chunks[1].ID)
	}

	n, err := repo.Count(context.Background(), ListFilter{})
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Count() = %d, want 2", n)
	}
}

func TestChunkRepo_ListAndCount(t *testing.T) {
	db := openTestDB(t)
	docs := NewDocumentRepo(db)
	seedDocument(t, docs, "doc-a", "article")
	seedDocument(t, docs, "doc-b", "pdf")
	repo := NewChunkRepo(db)
	repo.now = fixedClock()

	for i := 0; i < 3; i++ {
		if err := repo.InsertOne(context.Background(), newChunk("doc-a", "article", i, fmt.Sprintf("A%d.", i))); err != nil {
			t.Fatalf("InsertOne() error = %v", err)
		}
	}
	if err := repo.InsertOne(context.Background(), newChunk("doc-b", "pdf", 0, "B0.")); err != nil {
		t.Fatalf("InsertOne() error = %v", err)
	}

	tests := []struct {
		name      string
		filter    ListFilter
		wantTexts []string
		wantCount int
	}{
		{name: "all", filter: ListFilter{}, wantTexts: []string{"A0.", "A1.", "A2.", "B0."}, wantCount: 4},
		{name: "by source type", filter: ListFilter{SourceType: "pdf"}, wantTexts: []string{"B0."}, wantCount: 1},
		{name: "by source key", filter: ListFilter{SourceKey: "doc-a"}, wantTexts: []string{"A0.", "A1.", "A2."}, wantCount: 3},
		{name: "paged", filter: ListFilter{Offset: 1, Limit: 2}, wantTexts: []string{"A1.", "A2."}, wantCount: 4},
		{name: "past the end", filter: ListFilter{Offset: 10, Limit: 2}, wantTexts: []string{}, wantCount: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			texts := make([]string, len(got))
			for i, c := range got {
				texts[i] = c.Text
			}
			if !reflect.DeepEqual(texts, tt.wantTexts) {
				t.Errorf("List() = %v, want %v", texts, tt.wantTexts)
			}

			n, err := repo.Count(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("Count() error = %v", err)
			}
			if n != tt.wantCount {
				t.Errorf("Count() = %d, want %d", n, tt.wantCount)
			}
		})
	}
}

func TestChunkRepo_RecentChunks(t *testing.T) {
	db := openTestDB(t)
	docs := NewDocumentRepo(db)
	seedDocument(t, docs, "doc-a", "article")
	seedDocument(t, docs, "doc-b", "pdf")
	repo := NewChunkRepo(db)
	repo.now = fixedClock()

	for i := 0; i < 5; i++ {
		if err := repo.InsertOne(context.Background(), newChunk("doc-a", "article", i, fmt.Sprintf("A%d.", i))); err != nil {
			t.Fatalf("InsertOne() error = %v", err)
		}
	}
	if err := repo.InsertOne(context.Background(), newChunk("doc-b", "pdf", 0, "B0.")); err != nil {
		t.Fatalf("InsertOne() error = %v", err)
	}

	got, err := repo.RecentChunks(context.Background(), "article", 3)
	if err != nil {
		t.Fatalf("RecentChunks() error = %v", err)
	}
	want := []string{"A4.", "A3.", "A2."}
	if len(got) != len(want) {
		t.Fatalf("RecentChunks() returned %d chunks, want %d", len(got), len(want))
	}
	for i, c := range got {
		if c.Text != want[i] {
			t.Errorf("RecentChunks()[%d] = %q, want %q", i, c.Text, want[i])
		}
	}

	all, err := repo.RecentChunks(context.Background(), "", 100)
	if err != nil {
		t.Fatalf("RecentChunks() error = %v", err)
	}
	if len(all) != 6 || all[0].Text != "B0." {
		t.Errorf("RecentChunks(all) first = %q, len = %d", all[0].Text, len(all))
	}

	none, err := repo.RecentChunks(context.Background(), "article", 0)
	if err != nil || len(none) != 0 {
		t.Errorf("RecentChunks(limit 0) = %v, %v", none, err)
	}
}

func TestChunkRepo_UpdateEnrichment(t *testing.T) {
	db := openTestDB(t)
	seedDocument(t, NewDocumentRepo(db), "doc-a", "article")
	repo := NewChunkRepo(db)

	chunk := newChunk("doc-a", "article", 0, "Rocket launch.")
	if err := repo.InsertOne(context.Background(), chunk); err != nil {
		t.Fatalf("InsertOne() error = %v", err)
	}

	err := repo.UpdateEnrichment(context.Background(), chunk.ID, Enrichment{
		Tags:           []string{"launch", "rocket"},
		Category:       "rocket",
		Embedding:      []float32{1, 0},
		EmbeddingModel: "m2",
	})
	if err != nil {
		t.Fatalf("UpdateEnrichment() error = %v", err)
	}

	got, err := repo.GetByID(context.Background(), chunk.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Category != "rocket" || got.EmbeddingModel != "m2" {
		t.Errorf("GetByID() = %+v", got)
	}
	if !reflect.DeepEqual(got.Tags, []string{"launch", "rocket"}) {
		t.Errorf("Tags = %v", got.Tags)
	}
	if !reflect.DeepEqual(got.Embedding, []float32{1, 0}) {
		t.Errorf("Embedding = %v", got.Embedding)
	}

	// nil tags and embedding keep the stored values
	if err := repo.UpdateEnrichment(context.Background(), chunk.ID, Enrichment{Category: "mission"}); err != nil {
		t.Fatalf("UpdateEnrichment() error = %v", err)
	}
	got, _ = repo.GetByID(context.Background(), chunk.ID)
	if got.Category != "mission" || len(got.Tags) != 2 || len(got.Embedding) != 2 {
		t.Errorf("partial UpdateEnrichment() = %+v", got)
	}

	if err := repo.UpdateEnrichment(context.Background(), "nope", Enrichment{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateEnrichment() error = %v, want ErrNotFound", err)
	}
}

func TestChunkRepo_Delete(t *testing.T) {
	db := openTestDB(t)
	seedDocument(t, NewDocumentRepo(db), "doc-a", "article")
	repo := NewChunkRepo(db)

	chunk := newChunk("doc-a", "article", 0, "Text.")
	if err := repo.InsertOne(context.Background(), chunk); err != nil {
		t.Fatalf("InsertOne() error = %v", err)
	}

	if err := repo.Delete(context.Background(), chunk.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(context.Background(), chunk.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestChunkRepo_DeleteBySourceKey(t *testing.T) {
	db := openTestDB(t)
	docs := NewDocumentRepo(db)
	seedDocument(t, docs, "doc-a", "article")
	seedDocument(t, docs, "doc-b", "article")
	repo := NewChunkRepo(db)

	var wantIDs []string
	for i := 0; i < 3; i++ {
		c := newChunk("doc-a", "article", i, "A.")
		if err := repo.InsertOne(context.Background(), c); err != nil {
			t.Fatalf("InsertOne() error = %v", err)
		}
		wantIDs = append(wantIDs, c.ID)
	}
	if err := repo.InsertOne(context.Background(), newChunk("doc-b", "article", 0, "B.")); err != nil {
		t.Fatalf("InsertOne() error = %v", err)
	}

	ids, err := repo.DeleteBySourceKey(context.Background(), "doc-a")
	if err != nil {
		t.Fatalf("DeleteBySourceKey() error = %v", err)
	}
	if !reflect.DeepEqual(ids, wantIDs) {
		t.Errorf("DeleteBySourceKey() = %v, want %v", ids, wantIDs)
	}

	n, _ := repo.Count(context.Background(), ListFilter{})
	if n != 1 {
		t.Errorf("Count() after delete = %d, want 1", n)
	}

	ids, err = repo.DeleteBySourceKey(context.Background(), "doc-a")
	if err != nil {
		t.Fatalf("DeleteBySourceKey() error = %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("DeleteBySourceKey() on empty document = %v", ids)
	}
}

func TestChunkRepo_Stats(t *testing.T) {
	db := openTestDB(t)
	docs := NewDocumentRepo(db)
	seedDocument(t, docs, "doc-a", "article")
	seedDocument(t, docs, "doc-b", "article")
	seedDocument(t, docs, "doc-c", "pdf")
	repo := NewChunkRepo(db)

	insert := func(key, sourceType, category string, withEmbedding bool) {
		c := newChunk(key, sourceType, 0, "Text of some length.")
		c.Category = category
		if withEmbedding {
			c.Embedding = []float32{1}
		}
		if err := repo.InsertOne(context.Background(), c); err != nil {
			t.Fatalf("InsertOne() error = %v", err)
		}
	}
	insert("doc-a", "article", "nasa", true)
	insert("doc-a", "article", "nasa", true)
	insert("doc-b", "article", "science", false)
	insert("doc-c", "pdf", "general", true)

	stats, err := repo.Stats(context.Background(), "article")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalChunks != 3 || stats.Documents != 2 || stats.WithEmbedded != 2 {
		t.Errorf("Stats() = %+v", stats)
	}
	if !reflect.DeepEqual(stats.SourceKeys, []string{"doc-a", "doc-b"}) {
		t.Errorf("Stats() SourceKeys = %v", stats.SourceKeys)
	}
	wantCats := []CategoryCount{{Category: "nasa", Count: 2}, {Category: "science", Count: 1}}
	if !reflect.DeepEqual(stats.Categories, wantCats) {
		t.Errorf("Stats() Categories = %v, want %v", stats.Categories, wantCats)
	}

	all, err := repo.Stats(context.Background(), "")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if all.BySourceType["article"] != 3 || all.BySourceType["pdf"] != 1 {
		t.Errorf("Stats() BySourceType = %v", all.BySourceType)
	}

	counts, err := repo.CharCounts(context.Background(), "pdf")
	if err != nil {
		t.Fatalf("CharCounts() error = %v", err)
	}
	if !reflect.DeepEqual(counts, []int{len("Text of some length.")}) {
		t.Errorf("CharCounts() = %v", counts)
	}
}

func TestDocumentDelete_CascadesToChunks(t *testing.T) {
	db := openTestDB(t)
	docs := NewDocumentRepo(db)
	seedDocument(t, docs, "doc-a", "article")
	repo := NewChunkRepo(db)

	if err := repo.InsertOne(context.Background(), newChunk("doc-a", "article", 0, "A.")); err != nil {
		t.Fatalf("InsertOne() error = %v", err)
	}
	if err := docs.Delete(context.Background(), "doc-a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	n, _ := repo.Count(context.Background(), ListFilter{})
	if n != 0 {
		t.Errorf("Count() after document delete = %d, want 0", n)
	}
}
