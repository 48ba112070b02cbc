package catalog

import (
	"context"
	"sync"
	"time"
)

// CacheRecord is a raw catalog response and the time it was fetched.
type CacheRecord struct {
	Data      []byte
	FetchedAt time.Time
}

// CacheStore persists catalog responses across requests. A record is always
// replaced as a whole.
type CacheStore interface {
	Get(ctx context.Context, key string) (CacheRecord, bool, error)
	Put(ctx context.Context, key string, record CacheRecord) error
}

// MemoryCache keeps records in process memory.
type MemoryCache struct {
	mu      sync.Mutex
	records map[string]CacheRecord
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{records: make(map[string]CacheRecord)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (CacheRecord, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.records[key]
	return rec, ok, nil
}

func (c *MemoryCache) Put(_ context.Context, key string, record CacheRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[key] = CacheRecord{
		Data:      append([]byte(nil), record.Data...),
		FetchedAt: record.FetchedAt,
	}
	return nil
}
