package xcache

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/puzpuzpuz/xsync"
)

type memoryEntry struct {
	data      []byte
	expiredAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiredAt.IsZero() && !now.Before(e.expiredAt)
}

type memoryCache struct {
	clock   clockwork.Clock
	entries *xsync.MapOf[string, memoryEntry]

	// incrMutex serializes Increment, the only read-modify-write operation.
	incrMutex sync.Mutex
}

// NewMemoryCache returns a process-local Cache. Expiration is evaluated lazily against clock.
func NewMemoryCache(clock clockwork.Clock) *memoryCache {
	return &memoryCache{
		clock:   clock,
		entries: xsync.NewMapOf[memoryEntry](),
	}
}

func (c *memoryCache) load(key string) (memoryEntry, bool) {
	entry, ok := c.entries.Load(key)
	if !ok {
		return memoryEntry{}, false
	}

	if entry.expired(c.clock.Now()) {
		c.entries.Delete(key)
		return memoryEntry{}, false
	}

	return entry, true
}

func (c *memoryCache) Get(ctx context.Context, key string, v any) (bool, error) {
	entry, ok := c.load(key)
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(entry.data, v); err != nil {
		return false, err
	}

	return true, nil
}

func (c *memoryCache) Put(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}

	entry := memoryEntry{data: b}
	if ttl > 0 {
		entry.expiredAt = c.clock.Now().Add(ttl)
	}

	c.entries.Store(key, entry)
	return nil
}

func (c *memoryCache) Forget(ctx context.Context, key string) error {
	c.entries.Delete(key)
	return nil
}

func (c *memoryCache) Has(ctx context.Context, key string) (bool, error) {
	_, ok := c.load(key)
	return ok, nil
}

func (c *memoryCache) Increment(ctx context.Context, key string) (int64, error) {
	c.incrMutex.Lock()
	defer c.incrMutex.Unlock()

	var value int64
	if entry, ok := c.load(key); ok {
		n, err := strconv.ParseInt(string(entry.data), 10, 64)
		if err != nil {
			return 0, err
		}
		value = n
	}

	value++
	c.entries.Store(key, memoryEntry{data: []byte(strconv.FormatInt(value, 10))})
	return value, nil
}
