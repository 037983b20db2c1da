package indexer

import (
	"context"
	"errors"
	"testing"

	"sciingest/internal/source"
	"sciingest/internal/storage"
	storage_mocks "sciingest/internal/storage/mocks"

	"go.uber.org/mock/gomock"
)

func TestPipeline_Stats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Test with empty database
	stats, err := env.pipeline.Stats(ctx, source.TypeArticle)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalChunks != 0 {
		t.Errorf("TotalChunks = %d, want 0", stats.TotalChunks)
	}
	if stats.ChunkTokenStats != (ChunkTokenStats{}) {
		t.Errorf("ChunkTokenStats = %+v, want zero", stats.ChunkTokenStats)
	}
	if stats.ChunkerVersion != ChunkerVersion {
		t.Errorf("ChunkerVersion = %s, want %s", stats.ChunkerVersion, ChunkerVersion)
	}
	if stats.IndexVersion == "" {
		t.Error("IndexVersion should not be empty")
	}

	docs := ArticleDocuments([]source.Article{
		testArticle("Mars Habitat Study", "Astronauts lived in the habitat for 120 days."),
		testArticle("Bone Loss In Microgravity", "Mice aboard the station lost bone mass."),
	})
	docs = append(docs, Document{Text: &source.TextDocument{Title: "Radiation", Text: "Radiation doses were measured on the Moon."}})
	if r := env.pipeline.IngestBatch(ctx, docs, fullOptions()); r.Successful != 3 {
		t.Fatalf("IngestBatch() Successful = %d, want 3", r.Successful)
	}

	stats, err = env.pipeline.Stats(ctx, source.TypeArticle)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalChunks != 2 {
		t.Errorf("TotalChunks = %d, want 2", stats.TotalChunks)
	}
	if stats.Documents != 2 {
		t.Errorf("Documents = %d, want 2", stats.Documents)
	}
	if stats.WithEmbedded != 2 {
		t.Errorf("WithEmbedded = %d, want 2", stats.WithEmbedded)
	}
	if stats.ChunkTokenStats.Min < 1 {
		t.Errorf("ChunkTokenStats.Min = %d, want >= 1", stats.ChunkTokenStats.Min)
	}
	if stats.ChunkTokenStats.P95 < stats.ChunkTokenStats.Min || stats.ChunkTokenStats.P95 > stats.ChunkTokenStats.Max {
		t.Errorf("ChunkTokenStats.P95 = %d, should be between Min=%d and Max=%d",
			stats.ChunkTokenStats.P95, stats.ChunkTokenStats.Min, stats.ChunkTokenStats.Max)
	}

	all, err := env.pipeline.Stats(ctx, "")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if all.TotalChunks != 3 || all.BySourceType[source.TypePDF] != 1 {
		t.Errorf("all stats = %+v", all.ChunkStats)
	}
}

func TestPipeline_Stats_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	chunks := storage_mocks.NewMockChunkStore(ctrl)
	chunks.EXPECT().Stats(gomock.Any(), "article").Return(nil, errors.New("disk I/O error"))

	p := NewPipeline(Deps{Chunks: chunks})
	if _, err := p.Stats(context.Background(), "article"); err == nil {
		t.Error("Stats() should return the store error")
	}
}

func TestPipeline_Stats_TokenEstimate(t *testing.T) {
	ctrl := gomock.NewController(t)
	chunks := storage_mocks.NewMockChunkStore(ctrl)
	chunks.EXPECT().Stats(gomock.Any(), "").Return(&storage.ChunkStats{TotalChunks: 3}, nil)
	chunks.EXPECT().CharCounts(gomock.Any(), "").Return([]int{2, 40, 400}, nil)

	p := NewPipeline(Deps{Chunks: chunks})
	stats, err := p.Stats(context.Background(), "")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	want := ChunkTokenStats{Min: 1, Max: 100, Mean: 37, P95: 100}
	if stats.ChunkTokenStats != want {
		t.Errorf("ChunkTokenStats = %+v, want %+v", stats.ChunkTokenStats, want)
	}
}

func TestIndexVersion(t *testing.T) {
	base := indexVersion("model-a", DefaultProfiles())

	if len(base) != 16 {
		t.Errorf("len(indexVersion) = %d, want 16", len(base))
	}
	if base != indexVersion("model-a", DefaultProfiles()) {
		t.Error("indexVersion should be stable")
	}
	if base == indexVersion("model-b", DefaultProfiles()) {
		t.Error("indexVersion should change with the embedding model")
	}

	changed := DefaultProfiles()
	prof := changed[source.TypePDF]
	prof.Params.Size = 800
	changed[source.TypePDF] = prof
	if base == indexVersion("model-a", changed) {
		t.Error("indexVersion should change with the chunking profiles")
	}
}

func TestComputeTokenStats(t *testing.T) {
	tests := []struct {
		name        string
		tokenCounts []int
		want        ChunkTokenStats
	}{
		{
			name:        "empty",
			tokenCounts: []int{},
			want:        ChunkTokenStats{},
		},
		{
			name:        "single value",
			tokenCounts: []int{10},
			want:        ChunkTokenStats{Min: 10, Max: 10, Mean: 10.0, P95: 10},
		},
		{
			name:        "multiple values",
			tokenCounts: []int{5, 10, 15, 20, 25},
			want:        ChunkTokenStats{Min: 5, Max: 25, Mean: 15.0, P95: 25},
		},
		{
			name:        "unsorted values",
			tokenCounts: []int{30, 5, 20, 10, 15},
			want:        ChunkTokenStats{Min: 5, Max: 30, Mean: 16.0, P95: 30},
		},
		{
			name:        "many values for p95",
			tokenCounts: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
			want:        ChunkTokenStats{Min: 1, Max: 20, Mean: 10.5, P95: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeTokenStats(tt.tokenCounts)
			if got != tt.want {
				t.Errorf("computeTokenStats() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		chars int
		want  int
	}{
		{0, 1},
		{1, 1},
		{6, 2},
		{10, 3}, // 2.5 rounds away from zero
		{1500, 375},
	}
	for _, tt := range tests {
		if got := estimateTokens(tt.chars); got != tt.want {
			t.Errorf("estimateTokens(%d) = %d, want %d", tt.chars, got, tt.want)
		}
	}
}
