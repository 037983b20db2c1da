package llm

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
)

const (
	// DefaultHashModel is the model name reported by HashEmbedder.
	DefaultHashModel = "sentence-transformers/all-MiniLM-L6-v2"
	// DefaultHashDimensions matches all-MiniLM-L6-v2.
	DefaultHashDimensions = 384
)

// HashEmbedder returns deterministic pseudo-random unit vectors seeded from
// the text. Equal texts get equal vectors; different texts are nearly
// orthogonal. It needs no network and is used offline and in tests.
type HashEmbedder struct {
	model string
	dims  int
}

// NewHashEmbedder creates a HashEmbedder. Zero values select the defaults.
func NewHashEmbedder(model string, dims int) *HashEmbedder {
	if model == "" {
		model = DefaultHashModel
	}
	if dims <= 0 {
		dims = DefaultHashDimensions
	}
	return &HashEmbedder{model: model, dims: dims}
}

// ModelName returns the reported model name.
func (h *HashEmbedder) ModelName() string { return h.model }

// Dimensions returns the vector size.
func (h *HashEmbedder) Dimensions() int { return h.dims }

// EmbedTexts embeds every text. It only fails on empty input or a
// cancelled context.
func (h *HashEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("empty input array")
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = h.vector(t)
	}
	return out, nil
}

func (h *HashEmbedder) vector(text string) []float32 {
	f := fnv.New64a()
	_, _ = f.Write([]byte(text))
	seed := f.Sum64()
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	vec := make([]float64, h.dims)
	var norm float64
	for i := range vec {
		v := rng.NormFloat64()
		vec[i] = v
		norm += v * v
	}
	norm = math.Sqrt(norm)

	out := make([]float32, h.dims)
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out
}
