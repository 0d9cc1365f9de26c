package heatmap

// textureCache is a bounded fingerprint-keyed cache with explicit
// evict-oldest-by-insertion semantics.
//
// Eviction order is insertion order by design, documented here rather than
// left to map iteration artifacts: the entry that has been resident longest
// is released first regardless of how recently it was hit. The cache is
// owned by the frame thread; no locking.
type textureCache struct {
	limit    int
	entries  map[string]*Texture
	inserted []string // fingerprints in insertion order
}

func newTextureCache(limit int) *textureCache {
	if limit < 1 {
		limit = 1
	}
	return &textureCache{
		limit:   limit,
		entries: make(map[string]*Texture, limit),
	}
}

// Get returns the cached texture for a fingerprint, or nil.
func (c *textureCache) Get(fingerprint string) *Texture {
	return c.entries[fingerprint]
}

// Put inserts a texture, evicting the oldest entry when the bound is
// exceeded. The evicted raster's backing buffer is released immediately.
func (c *textureCache) Put(t *Texture) {
	if _, exists := c.entries[t.Fingerprint]; exists {
		return
	}

	for len(c.inserted) >= c.limit {
		oldest := c.inserted[0]
		c.inserted = c.inserted[1:]
		if evicted := c.entries[oldest]; evicted != nil {
			evicted.Release()
		}
		delete(c.entries, oldest)
	}

	c.entries[t.Fingerprint] = t
	c.inserted = append(c.inserted, t.Fingerprint)
}

// Len returns the number of resident textures.
func (c *textureCache) Len() int {
	return len(c.entries)
}
