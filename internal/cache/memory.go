package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const defaultMaxEntries = 1024

type memoryEntry struct {
	expiresAt time.Time
	data      []byte
}

// Memory is a bounded in-process cache. The LRU evicts at DefaultTTL;
// shorter per-entry TTLs are enforced on read.
type Memory struct {
	lru        *expirable.LRU[string, memoryEntry]
	defaultTTL time.Duration
	now        func() time.Time
}

// NewMemory creates an in-memory cache holding at most maxEntries values
func NewMemory(maxEntries int, defaultTTL time.Duration) *Memory {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	return &Memory{
		lru:        expirable.NewLRU[string, memoryEntry](maxEntries, nil, defaultTTL),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string, dst interface{}) (bool, error) {
	entry, ok := m.lru.Get(key)
	if !ok {
		return false, nil
	}
	if !m.now().Before(entry.expiresAt) {
		m.lru.Remove(key)
		return false, nil
	}
	if err := json.Unmarshal(entry.data, dst); err != nil {
		return false, fmt.Errorf("failed to decode cached value %q: %w", key, err)
	}
	return true, nil
}

func (m *Memory) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 || ttl > m.defaultTTL {
		ttl = m.defaultTTL
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for %q: %w", key, err)
	}
	m.lru.Add(key, memoryEntry{data: data, expiresAt: m.now().Add(ttl)})
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		m.lru.Remove(key)
	}
	return nil
}
