package fisheye

import (
	"sync"

	"github.com/staymap/staymap-backend-go/internal/render"
)

// GeometryCache remembers the undistorted original of every path the lens
// has touched, keyed by the path's stable ID. Distortion always starts
// from the cached original, so repeated lens passes never compound, and
// restoring twice is a no-op. The cache must be invalidated whenever the
// underlying undistorted geometry changes (re-aggregation, filter change).
type GeometryCache struct {
	mu        sync.Mutex
	originals map[string]render.Path
}

// NewGeometryCache creates an empty cache
func NewGeometryCache() *GeometryCache {
	return &GeometryCache{originals: make(map[string]render.Path)}
}

// Original returns the undistorted path for id, memoizing p on first
// touch. Later calls ignore p and return the first-seen geometry.
func (c *GeometryCache) Original(p render.Path) render.Path {
	c.mu.Lock()
	defer c.mu.Unlock()

	if orig, ok := c.originals[p.ID]; ok {
		return orig.Clone()
	}

	orig := p.Clone()
	c.originals[p.ID] = orig
	return orig.Clone()
}

// Restore returns the cached original for id. ok=false means the path was
// never distorted, which callers treat as already-restored.
func (c *GeometryCache) Restore(id string) (render.Path, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	orig, ok := c.originals[id]
	if !ok {
		return render.Path{}, false
	}
	return orig.Clone(), true
}

// Invalidate drops every cached original
func (c *GeometryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.originals = make(map[string]render.Path)
}

// Len returns the number of cached originals
func (c *GeometryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.originals)
}
