package session

import (
	"context"
	"sync"
	"time"
)

// entry stores a session and its absolute expiration timestamp
type entry struct {
	session   *Session
	expiresAt time.Time
}

// MemoryStore is a map-backed Store with an idle TTL per session.
// Every Save or Touch pushes the expiry forward. Expired entries are treated as
// missing and removed by PurgeExpired.
type MemoryStore struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[string]entry

	stopOnce sync.Once
	stopCh   chan struct{}
}

// now is a small indirection to allow test stubbing
var now = time.Now

// NewMemoryStore constructs a MemoryStore whose sessions live ttl after their last save
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:    ttl,
		items:  make(map[string]entry),
		stopCh: make(chan struct{}),
	}
}

// Get returns a copy of the stored session
func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.items[id]
	if !ok || m.expired(e, now()) {
		return nil, ErrNotFound
	}
	return e.session.clone(), nil
}

// Save stores a copy of s and refreshes its expiry
func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var exp time.Time
	if m.ttl > 0 {
		exp = now().Add(m.ttl)
	}
	m.items[s.ID] = entry{session: s.clone(), expiresAt: exp}
	return nil
}

// Touch pushes the expiry of a live session forward
func (m *MemoryStore) Touch(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ts := now()
	e, ok := m.items[id]
	if !ok || m.expired(e, ts) {
		return ErrNotFound
	}
	if m.ttl > 0 {
		e.expiresAt = ts.Add(m.ttl)
		m.items[id] = e
	}
	return nil
}

// Delete removes a session if present
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

// Len returns the number of live sessions
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ts := now()
	count := 0
	for _, e := range m.items {
		if !m.expired(e, ts) {
			count++
		}
	}
	return count
}

// PurgeExpired scans and removes expired sessions
func (m *MemoryStore) PurgeExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()
	ts := now()
	for id, e := range m.items {
		if m.expired(e, ts) {
			delete(m.items, id)
		}
	}
}

// StartJanitor purges expired sessions every interval until Stop is called
func (m *MemoryStore) StartJanitor(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.PurgeExpired()
			case <-m.stopCh:
				return
			}
		}
	}()
}

// Stop ends the janitor goroutine
func (m *MemoryStore) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *MemoryStore) expired(e entry, ts time.Time) bool {
	return !e.expiresAt.IsZero() && ts.After(e.expiresAt)
}

var _ Store = (*MemoryStore)(nil)
