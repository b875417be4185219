package state

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	session   *Session
	expiresAt time.Time
}

// MemoryStore keeps sessions in process. A zero ttl never expires entries.
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (m *MemoryStore) Load(_ context.Context, sessionID string) (*Session, error) {
	key, err := sessionKey(sessionID)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	return cloneSession(entry.session), nil
}

func (m *MemoryStore) Save(_ context.Context, sess *Session) error {
	if err := prepareForSave(sess); err != nil {
		return err
	}
	key, err := sessionKey(sess.SessionID)
	if err != nil {
		return err
	}

	entry := memoryEntry{session: cloneSession(sess)}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	key, err := sessionKey(sessionID)
	if err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}
