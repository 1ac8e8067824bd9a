package vector

import (
	"sync"
	"sync/atomic"
)

// cacheNode is a single entry in the eviction list.
type cacheNode struct {
	text string
	vec  []float32
	next *cacheNode
}

func (n *cacheNode) reset() {
	n.text = ""
	n.vec = nil
	n.next = nil
}

// embedCache memoizes query embeddings in memory. Bounded mode (maxSize > 0)
// threads entries onto a linked list and evicts LIFO when full; unbounded
// mode (maxSize <= 0) never evicts.
type embedCache struct {
	mu       sync.RWMutex
	entries  map[string]*cacheNode
	head     *cacheNode
	maxSize  int
	size     atomic.Int64
	nodePool sync.Pool
}

func newEmbedCache(maxSize int) *embedCache {
	c := &embedCache{
		maxSize: maxSize,
		entries: make(map[string]*cacheNode),
	}
	c.nodePool = sync.Pool{
		New: func() interface{} {
			return &cacheNode{}
		},
	}
	return c
}

// get returns the cached embedding for text, if any.
func (c *embedCache) get(text string) ([]float32, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n, ok := c.entries[text]
	if !ok {
		return nil, false
	}
	return n.vec, true
}

// put records the embedding for text, evicting if the cache is full.
func (c *embedCache) put(text string, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[text]; exists {
		return
	}

	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictLIFO()
	}

	n := c.nodePool.Get().(*cacheNode)
	n.text = text
	n.vec = vec
	n.next = c.head

	c.head = n
	c.entries[text] = n
	c.size.Add(1)
}

// evictLIFO removes the most recently added entry. Caller holds the lock.
func (c *embedCache) evictLIFO() {
	if c.head == nil {
		return
	}
	evicted := c.head
	c.head = evicted.next

	delete(c.entries, evicted.text)
	c.size.Add(-1)

	evicted.reset()
	c.nodePool.Put(evicted)
}

func (c *embedCache) len() int64 {
	return c.size.Load()
}
