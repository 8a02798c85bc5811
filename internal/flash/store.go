// Package flash queues one-time messages for the next rendered page.
package flash

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/duccv/webconf-gate/pkg/cache"
)

const (
	KindError = "error"
	KindInfo  = "info"
)

type Message struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// Store keeps queued messages per flash session id.
// Pop returns the queue and clears it; an unknown id yields no messages.
type Store interface {
	Push(ctx context.Context, sid string, msg Message) error
	Pop(ctx context.Context, sid string) ([]Message, error)
}

// MemoryStore keeps messages in a process-local LRU cache.
type MemoryStore struct {
	cache cache.Cache
	ttl   time.Duration
	mu    sync.Mutex
}

func NewMemoryStore(c cache.Cache, ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: c, ttl: ttl}
}

func (s *MemoryStore) Push(_ context.Context, sid string, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var queue []Message
	if v, ok := s.cache.Get(sid); ok {
		queue = v.([]Message)
	}
	queue = append(queue, msg)
	s.cache.SetWithTTL(sid, queue, s.ttl)
	return nil
}

func (s *MemoryStore) Pop(_ context.Context, sid string) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.cache.Get(sid)
	if !ok {
		return nil, nil
	}
	s.cache.Delete(sid)
	return v.([]Message), nil
}

// RedisStore shares queued messages between instances behind a load balancer.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(sid string) string {
	return "flash:" + sid
}

func (s *RedisStore) Push(ctx context.Context, sid string, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode flash message: %w", err)
	}

	key := redisKey(sid)
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.RPush(ctx, key, data)
		p.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("push flash message: %w", err)
	}
	return nil
}

func (s *RedisStore) Pop(ctx context.Context, sid string) ([]Message, error) {
	key := redisKey(sid)

	var lrange *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		lrange = p.LRange(ctx, key, 0, -1)
		p.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pop flash messages: %w", err)
	}

	return decodeMessages(lrange.Val())
}

func decodeMessages(raw []string) ([]Message, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	msgs := make([]Message, 0, len(raw))
	for _, r := range raw {
		var m Message
		if err := json.Unmarshal([]byte(r), &m); err != nil {
			return nil, fmt.Errorf("decode flash message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}
