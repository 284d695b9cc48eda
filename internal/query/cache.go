package query

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/matheus3301/sentinel/internal/bus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Cache keys. Per-chat message lists live under Messages(chatID).
const (
	KeyCurrentUser = "currentUser"
	KeyChats       = "chats"
	KeyMessages    = "messages"
	KeyTasks       = "tasks"
	KeyOrders      = "orders"
	KeySOS         = "sos"
)

// Messages returns the cache key for one chat's messages.
func Messages(chatID string) string {
	return Key(KeyMessages, chatID)
}

// Key joins key segments with "/".
func Key(parts ...string) string {
	return strings.Join(parts, "/")
}

// volatile keys are kept in memory only.
var volatile = map[string]bool{KeyCurrentUser: true}

// Persister stores entries across restarts. *store.DB implements it.
type Persister interface {
	LoadQuery(key string) ([]byte, time.Time, bool, error)
	SaveQuery(key string, body []byte, fetchedAt time.Time) error
	DeleteQueries(prefix string) error
	ClearQueries() error
}

type entry struct {
	body      []byte
	fetchedAt time.Time
}

// Cache is a read-through cache of backend responses keyed by request
// parameters. Concurrent fetches of one key share a single request.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	gen     uint64
	group   singleflight.Group

	persist Persister
	bus     *bus.Bus
	log     *zap.Logger
}

// New creates a cache. A nil persister keeps everything in memory.
func New(p Persister, b *bus.Bus, log *zap.Logger) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		persist: p,
		bus:     b,
		log:     log,
	}
}

// Fetch returns the cached value for key, loading it on a miss.
func Fetch[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := decodeEntry[T](c, key, c.memory(key)); ok {
		return v, nil
	}
	return Refetch(ctx, c, key, load)
}

// Refetch always loads key and replaces the cached entry on success.
// Errors are never cached. Loads started before an invalidation are not
// shared with callers arriving after it.
func Refetch[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	v, err, _ := c.group.Do(fmt.Sprintf("%s@%d", key, gen), func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.store(key, v, gen)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Peek returns whatever is cached for key without loading, falling back to
// the persisted copy from an earlier run.
func Peek[T any](c *Cache, key string) (T, bool) {
	if v, ok := decodeEntry[T](c, key, c.memory(key)); ok {
		return v, true
	}
	if c.persist == nil || volatile[key] {
		var zero T
		return zero, false
	}
	body, fetchedAt, ok, err := c.persist.LoadQuery(key)
	if err != nil {
		c.log.Warn("load persisted query", zap.String("key", key), zap.Error(err))
	}
	if !ok {
		var zero T
		return zero, false
	}
	return decodeEntry[T](c, key, &entry{body: body, fetchedAt: fetchedAt})
}

// Invalidate drops prefix and every key below it, and publishes
// bus.QueryInvalidated so open screens reload.
func (c *Cache) Invalidate(prefix string) {
	c.mu.Lock()
	c.gen++
	for key := range c.entries {
		if matches(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()

	if c.persist != nil {
		if err := c.persist.DeleteQueries(prefix); err != nil {
			c.log.Warn("delete persisted queries", zap.String("prefix", prefix), zap.Error(err))
		}
	}
	c.log.Debug("query invalidated", zap.String("prefix", prefix))
	c.bus.Emit(bus.QueryInvalidated, prefix)
}

// Clear drops every entry, used on logout.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.gen++
	c.entries = make(map[string]entry)
	c.mu.Unlock()

	if c.persist != nil {
		if err := c.persist.ClearQueries(); err != nil {
			c.log.Warn("clear persisted queries", zap.Error(err))
		}
	}
}

func (c *Cache) memory(key string) *entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil
	}
	return &e
}

// store keeps v unless the cache was invalidated while it was loading.
func (c *Cache) store(key string, v any, gen uint64) {
	body, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("encode query", zap.String("key", key), zap.Error(err))
		return
	}
	now := time.Now()

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return
	}
	c.entries[key] = entry{body: body, fetchedAt: now}
	c.mu.Unlock()

	if c.persist != nil && !volatile[key] {
		if err := c.persist.SaveQuery(key, body, now); err != nil {
			c.log.Warn("persist query", zap.String("key", key), zap.Error(err))
		}
	}
}

func decodeEntry[T any](c *Cache, key string, e *entry) (T, bool) {
	var v T
	if e == nil {
		return v, false
	}
	if err := json.Unmarshal(e.body, &v); err != nil {
		c.log.Warn("decode cached query", zap.String("key", key), zap.Error(fmt.Errorf("%T: %w", v, err)))
		return v, false
	}
	return v, true
}

func matches(key, prefix string) bool {
	return key == prefix || strings.HasPrefix(key, prefix+"/")
}
