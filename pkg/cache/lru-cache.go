package cache

import (
	"container/list"
	"sync"
	"time"

	"go.uber.org/zap"
)

const cleanupInterval = 3 * time.Second

// LRUCache evicts the least recently used entry when full and drops expired
// entries lazily on access and periodically in the background.
// It is safe for concurrent use.
type LRUCache struct {
	cacheData  map[string]*list.Element
	list       *list.List
	maxSize    int
	defaultTtl time.Duration
	now        func() time.Time
	mu         sync.Mutex
	stopOnce   sync.Once
	stopChan   chan struct{}
}

type lruItem struct {
	key  string
	data CacheData
}

// NewLRUCache creates a cache holding at most maxSize entries and starts its cleanup goroutine.
func NewLRUCache(maxSize int, defaultTtl time.Duration) *LRUCache {
	if maxSize <= 0 {
		maxSize = 1
	}
	cache := &LRUCache{
		cacheData:  make(map[string]*list.Element),
		list:       list.New(),
		maxSize:    maxSize,
		defaultTtl: defaultTtl,
		now:        time.Now,
		stopChan:   make(chan struct{}),
	}

	go cache.cleanupExpiredKeys()

	return cache
}

func (c *LRUCache) cleanupExpiredKeys() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := c.removeExpired(); n > 0 {
				zap.L().Debug("Cleaned up expired LRU cache entries", zap.Int("count", n))
			}
		case <-c.stopChan:
			return
		}
	}
}

func (c *LRUCache) removeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	expired := 0
	for e := c.list.Front(); e != nil; {
		next := e.Next()
		item := e.Value.(*lruItem)
		if now.After(item.data.Timeout) {
			c.list.Remove(e)
			delete(c.cacheData, item.key)
			expired++
		}
		e = next
	}
	return expired
}

// Stop is safe to call more than once.
func (c *LRUCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
}

func (c *LRUCache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.defaultTtl)
}

func (c *LRUCache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	timeout := c.now().Add(ttl)

	if element, exists := c.cacheData[key]; exists {
		item := element.Value.(*lruItem)
		item.data.Value = value
		item.data.Timeout = timeout
		c.list.MoveToBack(element)
		return
	}

	if c.list.Len() >= c.maxSize {
		if oldest := c.list.Front(); oldest != nil {
			oldestItem := oldest.Value.(*lruItem)
			c.list.Remove(oldest)
			delete(c.cacheData, oldestItem.key)
			zap.L().Debug("LRU cache evicted least recently used item", zap.String("key", oldestItem.key))
		}
	}

	element := c.list.PushBack(&lruItem{
		key:  key,
		data: CacheData{Value: value, Timeout: timeout},
	})
	c.cacheData[key] = element
}

// Get moves a live entry to the most recently used position.
func (c *LRUCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, exists := c.cacheData[key]
	if !exists {
		return nil, false
	}

	item := element.Value.(*lruItem)
	if c.now().After(item.data.Timeout) {
		c.list.Remove(element)
		delete(c.cacheData, key)
		return nil, false
	}

	c.list.MoveToBack(element)
	return item.data.Value, true
}

func (c *LRUCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, exists := c.cacheData[key]; exists {
		c.list.Remove(element)
		delete(c.cacheData, key)
	}
}

func (c *LRUCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list.Len()
}
