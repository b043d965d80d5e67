package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/rajasatyajit/grievance-insights/internal/models"
)

const defaultMaxEntries = 256

type memoryEntry struct {
	key       string
	summary   models.DashboardSummary
	expiresAt time.Time
}

// InMemoryCache is a TTL cache bounded by entry count. When full, the least
// recently used entry is evicted.
type InMemoryCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	order      *list.List
	entries    map[string]*list.Element
	now        func() time.Time
}

// NewInMemoryCache creates an in-process cache. A ttl of zero keeps entries
// until they are evicted.
func NewInMemoryCache(ttl time.Duration, maxEntries int) *InMemoryCache {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &InMemoryCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
		now:        time.Now,
	}
}

// Get returns a copy of the cached summary
func (c *InMemoryCache) Get(ctx context.Context, key string) (*models.DashboardSummary, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	entry := el.Value.(*memoryEntry)
	if !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt) {
		c.removeElement(el)
		return nil, false, nil
	}

	c.order.MoveToFront(el)
	summary := entry.summary
	return &summary, true, nil
}

// Set stores summary under key, replacing any previous value
func (c *InMemoryCache) Set(ctx context.Context, key string, summary *models.DashboardSummary) error {
	if summary == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = c.now().Add(c.ttl)
	}

	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*memoryEntry)
		entry.summary = *summary
		entry.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return nil
	}

	el := c.order.PushFront(&memoryEntry{key: key, summary: *summary, expiresAt: expiresAt})
	c.entries[key] = el

	for c.order.Len() > c.maxEntries {
		c.removeElement(c.order.Back())
	}
	return nil
}

// Len returns the number of stored entries, expired ones included
func (c *InMemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Health always returns nil for the in-memory cache
func (c *InMemoryCache) Health(ctx context.Context) error { return nil }

func (c *InMemoryCache) Name() string { return "memory" }

func (c *InMemoryCache) removeElement(el *list.Element) {
	entry := c.order.Remove(el).(*memoryEntry)
	delete(c.entries, entry.key)
}
