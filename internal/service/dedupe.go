package service

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SeenSet is a TTL-bounded set of already-delivered notification ids.
type SeenSet interface {
	// MarkSeen records the id and reports whether it was already present.
	MarkSeen(ctx context.Context, id string) (bool, error)
}

// RedisSeenSet backs the seen-set with redis SET NX + TTL so deduplication
// survives restarts and is shared across instances.
type RedisSeenSet struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSeenSet constructs the redis-backed set.
func NewRedisSeenSet(client *redis.Client, ttl time.Duration) *RedisSeenSet {
	return &RedisSeenSet{client: client, ttl: ttl}
}

func (s *RedisSeenSet) MarkSeen(ctx context.Context, id string) (bool, error) {
	stored, err := s.client.SetNX(ctx, "notify:seen:"+id, 1, s.ttl).Result()
	if err != nil {
		return false, err
	}
	return !stored, nil
}

// MemorySeenSet is an in-process fallback used when redis is not configured
// and in tests. Expired ids are swept lazily on insert.
type MemorySeenSet struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
	now  func() time.Time
}

// NewMemorySeenSet constructs the in-memory set.
func NewMemorySeenSet(ttl time.Duration) *MemorySeenSet {
	return &MemorySeenSet{
		ttl:  ttl,
		seen: make(map[string]time.Time),
		now:  time.Now,
	}
}

func (s *MemorySeenSet) MarkSeen(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for key, expiry := range s.seen {
		if now.After(expiry) {
			delete(s.seen, key)
		}
	}
	if expiry, ok := s.seen[id]; ok && now.Before(expiry) {
		return true, nil
	}
	s.seen[id] = now.Add(s.ttl)
	return false, nil
}
