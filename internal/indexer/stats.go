package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strings"

	"sciingest/internal/storage"
)

const (
	// ChunkerVersion is the version identifier for the chunker implementation.
	// Update this when chunking logic changes significantly.
	ChunkerVersion = "v2.0"
	// CharsPerToken is an approximation for token counting (4 chars per token).
	CharsPerToken = 4.0
)

// Stats describes what is stored for one source type.
//
// swagger:model SourceStats
type Stats struct {
	storage.ChunkStats
	// ChunkTokenStats contains statistics about token counts per chunk.
	ChunkTokenStats ChunkTokenStats `json:"chunk_token_stats"`
	// ChunkerVersion is the version of the chunker used.
	ChunkerVersion string `json:"chunker_version"`
	// IndexVersion is a hash identifying the index build (chunker + embedding model + profiles).
	IndexVersion string `json:"index_version"`
}

// ChunkTokenStats contains statistics about token counts in chunks.
type ChunkTokenStats struct {
	// Min is the minimum token count across all chunks.
	Min int `json:"min"`
	// Max is the maximum token count across all chunks.
	Max int `json:"max"`
	// Mean is the mean token count across all chunks.
	Mean float64 `json:"mean"`
	// P95 is the 95th percentile token count.
	P95 int `json:"p95"`
}

// Stats computes chunk statistics for sourceType, or for every type when empty.
func (p *Pipeline) Stats(ctx context.Context, sourceType string) (*Stats, error) {
	base, err := p.chunks.Stats(ctx, sourceType)
	if err != nil {
		return nil, fmt.Errorf("failed to get chunk stats: %w", err)
	}

	charCounts, err := p.chunks.CharCounts(ctx, sourceType)
	if err != nil {
		return nil, fmt.Errorf("failed to get char counts: %w", err)
	}

	tokenCounts := make([]int, 0, len(charCounts))
	for _, n := range charCounts {
		tokenCounts = append(tokenCounts, estimateTokens(n))
	}

	model := ""
	if p.embedder != nil {
		model = p.embedder.ModelName()
	}

	return &Stats{
		ChunkStats:      *base,
		ChunkTokenStats: computeTokenStats(tokenCounts),
		ChunkerVersion:  ChunkerVersion,
		IndexVersion:    indexVersion(model, p.profiles),
	}, nil
}

// estimateTokens approximates the token count of a chunk of chars runes.
func estimateTokens(chars int) int {
	n := int(math.Round(float64(chars) / CharsPerToken))
	if n < 1 {
		return 1
	}
	return n
}

// indexVersion hashes chunker version, embedding model and chunking profiles.
func indexVersion(model string, profiles Profiles) string {
	types := make([]string, 0, len(profiles))
	for t := range profiles {
		types = append(types, t)
	}
	sort.Strings(types)

	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s", ChunkerVersion, model)
	for _, t := range types {
		prof := profiles[t]
		fmt.Fprintf(&b, "|%s=%s:%d/%d", t, prof.Strategy, prof.Params.Size, prof.Params.Overlap)
	}
	hash := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(hash[:])[:16]
}

// computeTokenStats computes min, max, mean, and p95 from token counts.
func computeTokenStats(tokenCounts []int) ChunkTokenStats {
	if len(tokenCounts) == 0 {
		return ChunkTokenStats{}
	}

	sorted := make([]int, len(tokenCounts))
	copy(sorted, tokenCounts)
	sort.Ints(sorted)

	sum := 0
	for _, count := range tokenCounts {
		sum += count
	}
	mean := float64(sum) / float64(len(tokenCounts))

	p95Index := int(math.Ceil(float64(len(sorted)) * 0.95))
	if p95Index >= len(sorted) {
		p95Index = len(sorted) - 1
	}

	return ChunkTokenStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100,
		P95:  sorted[p95Index],
	}
}
