package tts

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds how many synthesized artifacts stay in memory.
const DefaultCacheSize = 100

// Cache is a bounded LRU over synthesis results with request coalescing:
// concurrent misses on the same key run the work once and share the result.
// Results persist only for the lifetime of the process.
type Cache struct {
	finished *lru.Cache[string, []byte]

	pmu     sync.Mutex
	pending map[string]*job
}

type job struct {
	val  []byte
	err  error
	done chan struct{}
}

// NewCache creates a cache holding at most size entries, evicting strictly
// least-recently-used.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	finished, _ := lru.New[string, []byte](size)
	return &Cache{
		finished: finished,
		pending:  make(map[string]*job),
	}
}

// Get returns the bytes for key, computing them at most once per concurrent
// wave via work. The second return reports whether the result came from the
// cache (or a coalesced in-flight computation) rather than a fresh call.
func (c *Cache) Get(key string, work func() ([]byte, error)) ([]byte, bool, error) {
	c.pmu.Lock()
	if v, ok := c.finished.Get(key); ok {
		c.pmu.Unlock()
		return v, true, nil
	}
	if pending, ok := c.pending[key]; ok {
		c.pmu.Unlock()
		<-pending.done
		return pending.val, true, pending.err
	}
	j := &job{done: make(chan struct{})}
	c.pending[key] = j
	c.pmu.Unlock()

	j.val, j.err = work()
	if j.err == nil {
		c.finished.Add(key, j.val)
	}

	c.pmu.Lock()
	close(j.done)
	delete(c.pending, key)
	c.pmu.Unlock()

	return j.val, false, j.err
}

// Len reports how many finished entries the cache currently holds.
func (c *Cache) Len() int {
	return c.finished.Len()
}
