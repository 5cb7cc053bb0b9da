package board

import (
	"context"
	"sync"
	"time"
)

// Compile-time interface check
var _ Client = (*Cache)(nil)

// Cache is a read-through cache over a board Client. Entries are keyed by
// board id and expire after a fixed TTL. Staleness is a performance tunable,
// not a correctness concern: an expired entry is simply refetched.
type Cache struct {
	client Client
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	items   map[string]itemsEntry
	columns map[string]columnsEntry
}

type itemsEntry struct {
	records   []RawRecord
	fetchedAt time.Time
}

type columnsEntry struct {
	columns   []ColumnMeta
	fetchedAt time.Time
}

// NewCache wraps a client with a TTL cache.
func NewCache(client Client, ttl time.Duration) *Cache {
	return &Cache{
		client:  client,
		ttl:     ttl,
		now:     time.Now,
		items:   make(map[string]itemsEntry),
		columns: make(map[string]columnsEntry),
	}
}

// FetchItems serves from cache when fresh, otherwise delegates to the
// wrapped client. Upstream failures are never cached.
func (c *Cache) FetchItems(ctx context.Context, boardID string) ([]RawRecord, error) {
	c.mu.Lock()
	if e, ok := c.items[boardID]; ok && c.now().Sub(e.fetchedAt) < c.ttl {
		c.mu.Unlock()
		return e.records, nil
	}
	c.mu.Unlock()

	records, err := c.client.FetchItems(ctx, boardID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.items[boardID] = itemsEntry{records: records, fetchedAt: c.now()}
	c.mu.Unlock()
	return records, nil
}

// FetchColumns serves from cache when fresh, otherwise delegates to the
// wrapped client.
func (c *Cache) FetchColumns(ctx context.Context, boardID string) ([]ColumnMeta, error) {
	c.mu.Lock()
	if e, ok := c.columns[boardID]; ok && c.now().Sub(e.fetchedAt) < c.ttl {
		c.mu.Unlock()
		return e.columns, nil
	}
	c.mu.Unlock()

	cols, err := c.client.FetchColumns(ctx, boardID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.columns[boardID] = columnsEntry{columns: cols, fetchedAt: c.now()}
	c.mu.Unlock()
	return cols, nil
}
