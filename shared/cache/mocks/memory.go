package mocks

import (
	"context"
	"fmt"
	"path"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"shareit/shared/cache"
)

var json = jsoniter.ConfigFastest

var _ cache.RedisCache = (*MemoryCache)(nil)

// MemoryCache keeps values in a map with the same encoding and miss semantics as the redis cache.
// Expiry is ignored.
type MemoryCache struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{values: map[string]string{}}
}

func (m *MemoryCache) Save(_ context.Context, key string, value any, _ int) error {
	encoded, err := json.MarshalToString(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = encoded

	return nil
}

func (m *MemoryCache) Get(_ context.Context, key string, value any) error {
	m.mu.Lock()
	encoded, ok := m.values[key]
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("failed to get cache value: %w", cache.Nil)
	}

	return json.UnmarshalFromString(encoded, value)
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)

	return nil
}

// Clear removes the keys matching a glob pattern such as "booking:get:*".
func (m *MemoryCache) Clear(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.values {
		if matched, _ := path.Match(pattern, key); matched {
			delete(m.values, key)
		}
	}

	return nil
}

func (m *MemoryCache) Increment(_ context.Context, key string, _ int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	if encoded, ok := m.values[key]; ok {
		if err := json.UnmarshalFromString(encoded, &count); err != nil {
			return 0, fmt.Errorf("failed to read counter: %w", err)
		}
	}

	count++
	m.values[key], _ = json.MarshalToString(count)

	return count, nil
}

// Has reports whether key holds a value.
func (m *MemoryCache) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.values[key]

	return ok
}
