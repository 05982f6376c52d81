// Package pathcache implements the Stroke Path Cache (C11): an LRU
// keyed by (stroke_id, lod) mapping to either a round outline polygon
// or a pair of italic sides. Entries are immutable once written;
// invalidation is always whole-entry.
package pathcache

import (
	"container/list"
	"sync"

	"github.com/inkcore/strokes/internal/geom"
)

// Key identifies one cached outline at a specific level of detail.
type Key struct {
	StrokeID string
	LOD      int
}

// Entry holds either a closed round polygon or two italic sides, never
// both. Vertices returned by GetVertices are derived on read, not
// stored, so the cached geometry stays the authoritative copy.
type entry struct {
	italic    bool
	polygon   []geom.Point
	leftSide  []geom.Point
	rightSide []geom.Point
}

// Cache is an LRU stroke outline cache. The zero value is not usable;
// construct with New.
type Cache struct {
	mu       sync.Mutex
	capacity int
	items    map[Key]*list.Element
	order    *list.List // front = most recently used
}

type node struct {
	key   Key
	entry entry
}

// New creates a cache with the given capacity (entry count).
func New(capacity int) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		capacity: capacity,
		items:    make(map[Key]*list.Element),
		order:    list.New(),
	}
}

// SetOutline writes a closed round polygon for the given key, evicting
// the least-recently-used entry if the cache is at capacity.
func (c *Cache) SetOutline(key Key, polygon []geom.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(key, entry{italic: false, polygon: polygon})
}

// SetItalicSides writes the two italic outline sides for the given key.
func (c *Cache) SetItalicSides(key Key, left, right []geom.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(key, entry{italic: true, leftSide: left, rightSide: right})
}

func (c *Cache) put(key Key, e entry) {
	if el, ok := c.items[key]; ok {
		el.Value.(*node).entry = e
		c.order.MoveToFront(el)
		return
	}
	el := c.order.PushFront(&node{key: key, entry: e})
	c.items[key] = el
	if c.order.Len() > c.capacity {
		c.evictOldest()
	}
}

func (c *Cache) evictOldest() {
	oldest := c.order.Back()
	if oldest == nil {
		return
	}
	c.order.Remove(oldest)
	delete(c.items, oldest.Value.(*node).key)
}

// Get returns the raw entry data for a key: polygon, left/right sides,
// whether it is italic, and whether the key was present.
func (c *Cache) Get(key Key) (polygon []geom.Point, left []geom.Point, right []geom.Point, italic bool, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, found := c.items[key]
	if !found {
		return nil, nil, nil, false, false
	}
	c.order.MoveToFront(el)
	n := el.Value.(*node)
	return n.entry.polygon, n.entry.leftSide, n.entry.rightSide, n.entry.italic, true
}

// IsItalic reports whether the cached entry for key is an italic
// two-sided outline rather than a round polygon.
func (c *Cache) IsItalic(key Key) (italic bool, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, found := c.items[key]
	if !found {
		return false, false
	}
	return el.Value.(*node).entry.italic, true
}

// GetVertices returns a flat render-ready vertex buffer: for a round
// entry, a closed midpoint-quadratic polyline reduced to its control
// points (the backend reconstructs the curve); for an italic entry, the
// two sides concatenated so the caller can build a per-segment
// triangle strip.
func (c *Cache) GetVertices(key Key) ([]geom.Point, bool) {
	polygon, left, right, italic, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	if !italic {
		return polygon, true
	}
	out := make([]geom.Point, 0, len(left)+len(right))
	out = append(out, left...)
	out = append(out, right...)
	return out, true
}

// Clear removes every entry for a given stroke across all LODs, or the
// whole cache when strokeID is empty.
func (c *Cache) Clear(strokeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if strokeID == "" {
		c.items = make(map[Key]*list.Element)
		c.order.Init()
		return
	}
	var toRemove []*list.Element
	for el := c.order.Front(); el != nil; el = el.Next() {
		if el.Value.(*node).key.StrokeID == strokeID {
			toRemove = append(toRemove, el)
		}
	}
	for _, el := range toRemove {
		c.order.Remove(el)
		delete(c.items, el.Value.(*node).key)
	}
}

// Len reports the number of entries currently cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
