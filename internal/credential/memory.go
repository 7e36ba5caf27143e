package credential

import (
	"context"
	"sync"
	"time"
)

// MemoryStore 进程内凭据存储
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	clock   func() time.Time
}

// NewMemoryStore 创建内存凭据存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		clock:   time.Now,
	}
}

// Get 读取凭据
func (m *MemoryStore) Get(ctx context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[name]
	if !ok {
		return "", ErrNotFound
	}
	if e.expired(m.clock()) {
		delete(m.entries, name)
		return "", ErrNotFound
	}
	return e.Value, nil
}

// Set 写入凭据
func (m *MemoryStore) Set(ctx context.Context, name, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := entry{Value: value}
	if ttl > 0 {
		e.ExpiresAt = m.clock().Add(ttl)
	}
	m.entries[name] = e
	return nil
}

// Remove 删除凭据
func (m *MemoryStore) Remove(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, name)
	return nil
}
