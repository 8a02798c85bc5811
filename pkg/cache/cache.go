// Package cache provides a small in-memory TTL cache with LRU eviction, and the Redis
// client used when short-lived state has to be shared between instances.
//
// Example usage:
//
//	c := cache.NewLRUCache(1000, 5*time.Minute)
//	defer c.Stop()
//
//	c.SetWithTTL("key", "value", time.Minute)
//	value, ok := c.Get("key")
package cache

import "time"

// Cache is the contract shared by in-memory cache implementations.
type Cache interface {
	// Get returns the value and whether a live entry exists.
	Get(key string) (any, bool)

	// Set stores the value with the default TTL.
	Set(key string, value any)

	// SetWithTTL stores the value with a custom TTL.
	SetWithTTL(key string, value any, ttl time.Duration)

	// Delete removes a key. Missing keys are ignored.
	Delete(key string)

	// Size returns the number of stored entries, expired ones included until cleanup.
	Size() int

	// Stop ends the background cleanup goroutine.
	Stop()
}

// CacheData is a stored value with its expiration time.
type CacheData struct {
	Value   any
	Timeout time.Time
}
