package storage

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// Memory keeps entries in process memory. Used for the memory backend and in tests.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: map[string]memoryEntry{}, now: time.Now}
}

func memoryKey(scope Scope, owner, key string) string {
	return string(scope) + "\x00" + owner + "\x00" + key
}

func (m *Memory) Get(_ context.Context, scope Scope, owner, key string) (string, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[memoryKey(scope, owner, key)]
	m.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, memoryKey(scope, owner, key))
		m.mu.Unlock()
		return "", false, nil
	}
	return entry.value, true, nil
}

func (m *Memory) Set(_ context.Context, scope Scope, owner, key, value string, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[memoryKey(scope, owner, key)] = entry
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, scope Scope, owner, key string) error {
	m.mu.Lock()
	delete(m.entries, memoryKey(scope, owner, key))
	m.mu.Unlock()
	return nil
}

// PurgeExpired drops entries whose ttl has elapsed.
func (m *Memory) PurgeExpired(_ context.Context) (int64, error) {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, entry := range m.entries {
		if !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt) {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

func (m *Memory) Close() error { return nil }
