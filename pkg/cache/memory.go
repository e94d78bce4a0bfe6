package cache

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
)

type memoryEntry struct {
	value   []byte
	expires time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

type MemoryStore struct {
	entries *xsync.Map[string, memoryEntry]
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: xsync.NewMap[string, memoryEntry](),
		now:     time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := m.entries.Load(key)
	if !ok {
		return nil, false, nil
	}
	if e.expired(m.now()) {
		m.entries.Delete(key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.entries.Store(key, e)
	return nil
}

// Purge drops expired entries and returns how many were removed.
func (m *MemoryStore) Purge() int {
	now := m.now()
	removed := 0
	m.entries.Range(func(key string, e memoryEntry) bool {
		if e.expired(now) {
			m.entries.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

func (m *MemoryStore) Len() int {
	return m.entries.Size()
}
