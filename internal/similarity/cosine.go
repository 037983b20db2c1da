// Package similarity holds the vector scoring functions. Cosine is the raw
// measure used for duplicate detection; Relevance is its [0,1] rescaling
// used only for ranked search. The two are never interchangeable.
package similarity

import (
	"math"
	"sort"
)

// unitEpsilon absorbs the rounding of the norm product for parallel vectors.
const unitEpsilon = 1e-9

// Cosine returns the cosine of the angle between a and b, in [-1, 1].
// Mismatched lengths, empty vectors and zero norms give 0. Results within
// unitEpsilon of 1 are reported as exactly 1 so a vector always matches
// itself at threshold 1.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	c := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if c > 1-unitEpsilon {
		return 1
	}
	return math.Max(-1, math.Min(1, c))
}

// Relevance maps cosine onto [0, 1] as (cos+1)/2.
func Relevance(a, b []float32) float64 {
	r := (Cosine(a, b) + 1) / 2
	return math.Max(0, math.Min(1, r))
}

// ScoreFunc scores a candidate vector against a query vector.
type ScoreFunc func(query, candidate []float32) float64

// Candidate is a vector with an identifier.
type Candidate struct {
	ID  string
	Vec []float32
}

// Scored is a ranked candidate.
type Scored struct {
	ID    string
	Score float64
}

// Rank scores every candidate, drops those below minScore and returns at
// most limit results, best first. Equal scores keep candidate order.
// limit <= 0 means no limit.
func Rank(query []float32, candidates []Candidate, limit int, minScore float64, score ScoreFunc) []Scored {
	out := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		s := score(query, c.Vec)
		if s < minScore {
			continue
		}
		out = append(out, Scored{ID: c.ID, Score: s})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
