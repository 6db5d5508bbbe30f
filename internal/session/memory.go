package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	session Session
	expires time.Time
}

// MemoryStore keeps sessions in process memory. State is lost on restart and
// is not shared between replicas.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryEntry
	now   func() time.Time
}

// NewMemoryStore constructs an empty in-process session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryEntry),
		now:   time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.items[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	if !entry.expires.IsZero() && m.now().After(entry.expires) {
		delete(m.items, id)
		return Session{}, ErrNotFound
	}
	return entry.session, nil
}

func (m *MemoryStore) Save(_ context.Context, s Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expires time.Time
	if ttl > 0 {
		expires = m.now().Add(ttl)
	}
	m.items[s.ID] = memoryEntry{session: s, expires: expires}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}
