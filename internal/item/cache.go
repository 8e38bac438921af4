package item

import "sync"

// Cache memoizes expensive per-variant data (a pw-dump snapshot, a Syncthing
// config fetch) for the duration of one navigation step. Sibling items of the
// same variant resolve their texts concurrently; the cache guarantees the
// initializer runs at most once per variant while the rest block and reuse
// the result.
type Cache struct {
	mu     sync.Mutex
	locks  map[string]*sync.Mutex
	values map[string]any
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{
		locks:  make(map[string]*sync.Mutex),
		values: make(map[string]any),
	}
}

// Get returns the cached value for variant, calling init to compute it on the
// first access. Concurrent callers for the same variant serialize on a
// per-variant lock; callers for different variants do not block each other.
// A failed init caches nothing, so a later caller retries.
func (c *Cache) Get(variant string, init func() (any, error)) (any, error) {
	lock := c.lockFor(variant)
	lock.Lock()
	defer lock.Unlock()

	c.mu.Lock()
	value, ok := c.values[variant]
	c.mu.Unlock()
	if ok {
		return value, nil
	}

	value, err := init()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.values[variant] = value
	c.mu.Unlock()
	return value, nil
}

// Clear drops every cached value. Menus call it at the start of each
// navigation step so items always observe fresh external state.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.values = make(map[string]any)
	c.mu.Unlock()
}

func (c *Cache) lockFor(variant string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[variant]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[variant] = lock
	}
	return lock
}
