package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-process BodyCache used when Redis is not configured,
// and as the cache stand-in for tests.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

type memoryEntry struct {
	body      []byte
	expiresAt time.Time
}

func NewMemory(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

func (m *MemoryCache) Close() error {
	return nil
}

func (m *MemoryCache) Get(_ context.Context, url string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[url]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(m.entries, url)
		return nil, false
	}
	return entry.body, true
}

func (m *MemoryCache) Set(_ context.Context, url string, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[url] = memoryEntry{body: body, expiresAt: time.Now().Add(m.ttl)}
}
