package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/loslabs/launchpad-gateway/internal/cache"
)

const dedupKeyPrefix = "mint_seen:"

// Deduper decides whether an account key is being seen for the first time.
// The unseen->seen transition is one-way; implementations guarantee at most
// one true per key within their retention window.
type Deduper interface {
	FirstSeen(ctx context.Context, key string) bool
}

// RedisDeduper marks keys in redis with a TTL, so dedup survives restarts
// and is shared across replicas.
type RedisDeduper struct {
	cache *cache.Client
	ttl   time.Duration
	log   *slog.Logger
}

func NewRedisDeduper(c *cache.Client, ttl time.Duration, log *slog.Logger) *RedisDeduper {
	return &RedisDeduper{cache: c, ttl: ttl, log: log}
}

func (d *RedisDeduper) FirstSeen(ctx context.Context, key string) bool {
	claimed, err := d.cache.MarkOnce(ctx, dedupKeyPrefix+key, d.ttl)
	if err != nil {
		// At-most-once: when the mark store is unreachable, suppress rather
		// than risk a duplicate notification.
		d.log.Error("dedup mark", "key", key, "error", err)
		return false
	}
	return claimed
}

// MemoryDeduper is the in-process fallback: a capacity-bounded set with
// oldest-first eviction. Single-instance only.
type MemoryDeduper struct {
	mu       sync.Mutex
	seen     map[string]struct{}
	order    []string
	capacity int
}

func NewMemoryDeduper(capacity int) *MemoryDeduper {
	if capacity <= 0 {
		capacity = 1
	}
	return &MemoryDeduper{
		seen:     make(map[string]struct{}, capacity),
		capacity: capacity,
	}
}

func (d *MemoryDeduper) FirstSeen(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return false
	}

	if len(d.order) >= d.capacity {
		oldest := d.order[0]
		d.order = d.order[1:]
		delete(d.seen, oldest)
	}

	d.seen[key] = struct{}{}
	d.order = append(d.order, key)
	return true
}
