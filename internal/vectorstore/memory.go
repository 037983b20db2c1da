package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"sciingest/internal/similarity"
)

// MemoryStore is an in-process vector store using brute-force cosine
// similarity. Contents are lost on restart.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

type memoryCollection struct {
	dimension int
	points    map[string]Point
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memoryCollection)}
}

// EnsureCollection creates the collection or validates its dimension.
func (s *MemoryStore) EnsureCollection(_ context.Context, collection string, vectorSize int) error {
	if vectorSize <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[collection]
	if !ok {
		s.collections[collection] = &memoryCollection{dimension: vectorSize, points: make(map[string]Point)}
		return nil
	}
	if c.dimension != vectorSize {
		return fmt.Errorf("collection vector size mismatch: expected %d, got %d", vectorSize, c.dimension)
	}
	return nil
}

// Upsert stores copies of the points. A collection that does not exist
// yet takes the dimension of the first point.
func (s *MemoryStore) Upsert(_ context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		c = &memoryCollection{dimension: len(points[0].Vec), points: make(map[string]Point)}
	}
	for _, p := range points {
		if p.ID == "" {
			return errors.New("point id is required")
		}
		if len(p.Vec) != c.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	for _, p := range points {
		meta := make(map[string]any, len(p.Meta))
		for k, v := range p.Meta {
			meta[k] = v
		}
		c.points[p.ID] = Point{ID: p.ID, Vec: append([]float32(nil), p.Vec...), Meta: meta}
	}
	s.collections[collection] = c
	return nil
}

// Search scores every matching point and returns the best k.
// Ties are broken by point ID.
func (s *MemoryStore) Search(_ context.Context, collection string, query []float32, k int, filters map[string]any) ([]SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}
	pairs, err := stringFilters(filters)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[collection]
	if !ok {
		return []SearchResult{}, nil
	}

	results := make([]SearchResult, 0, len(c.points))
	for _, p := range c.points {
		if !matchesFilters(p.Meta, pairs) {
			continue
		}
		results = append(results, SearchResult{
			PointID: p.ID,
			Score:   float32(similarity.Relevance(query, p.Vec)),
			Meta:    p.Meta,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].PointID < results[j].PointID
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Delete removes points by ID. Unknown IDs are ignored.
func (s *MemoryStore) Delete(_ context.Context, collection string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[collection]
	if !ok {
		return nil
	}
	for _, id := range ids {
		delete(c.points, id)
	}
	return nil
}

// CollectionExists reports whether collection has been created.
func (s *MemoryStore) CollectionExists(_ context.Context, collection string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.collections[collection]
	return ok, nil
}

// Len reports the number of points in a collection.
func (s *MemoryStore) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.collections[collection]; ok {
		return len(c.points)
	}
	return 0
}

func matchesFilters(meta map[string]any, pairs [][2]string) bool {
	for _, p := range pairs {
		v, ok := meta[p[0]]
		if !ok || fmt.Sprintf("%v", v) != p[1] {
			return false
		}
	}
	return true
}
