package dedup

import "sync"

const defaultCacheSize = 1000

// embeddingCache is a bounded chunk-ID to vector map with FIFO eviction.
type embeddingCache struct {
	mu    sync.Mutex
	size  int
	items map[string][]float32
	order []string
}

func newEmbeddingCache(size int) *embeddingCache {
	return &embeddingCache{size: size, items: make(map[string][]float32, size)}
}

func (c *embeddingCache) get(id string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[id]
	return v, ok
}

func (c *embeddingCache) put(id string, v []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; ok {
		c.items[id] = v
		return
	}
	for len(c.order) >= c.size {
		delete(c.items, c.order[0])
		c.order = c.order[1:]
	}
	c.items[id] = v
	c.order = append(c.order, id)
}

// Forget drops a cached vector, e.g. after the chunk was deleted.
func (d *Detector) Forget(id string) {
	d.cache.mu.Lock()
	defer d.cache.mu.Unlock()
	if _, ok := d.cache.items[id]; !ok {
		return
	}
	delete(d.cache.items, id)
	for i, k := range d.cache.order {
		if k == id {
			d.cache.order = append(d.cache.order[:i], d.cache.order[i+1:]...)
			break
		}
	}
}
