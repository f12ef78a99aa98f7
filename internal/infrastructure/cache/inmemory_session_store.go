package cache

import (
	"context"
	"sync"
	"time"

	"github.com/adisyon/backend/internal/application/chat"
)

// sessionEntry holds a stored session with its expiration
type sessionEntry struct {
	state     *chat.SessionState
	expiresAt time.Time
}

// InMemorySessionStore implements chat.SessionStore using an in-memory map.
// Suitable for single-instance deployments and testing. Expired sessions are
// dropped lazily on read and by a background cleanup goroutine.
type InMemorySessionStore struct {
	mu        sync.RWMutex
	entries   map[string]sessionEntry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemorySessionStore creates a new in-memory session store
func NewInMemorySessionStore(ttl time.Duration) *InMemorySessionStore {
	store := &InMemorySessionStore{
		entries:  make(map[string]sessionEntry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// Get returns the conversation state, or (nil, nil) when absent or expired
func (s *InMemorySessionStore) Get(ctx context.Context, conversationID string) (*chat.SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[conversationID]
	if !exists || time.Now().After(e.expiresAt) {
		return nil, nil
	}
	return e.state, nil
}

// Put stores the conversation state, refreshing the TTL
func (s *InMemorySessionStore) Put(ctx context.Context, conversationID string, state *chat.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[conversationID] = sessionEntry{
		state:     state,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

// Delete removes the conversation state
func (s *InMemorySessionStore) Delete(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, conversationID)
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemorySessionStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired sessions
func (s *InMemorySessionStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopChan:
			return
		}
	}
}

// cleanup removes all expired sessions
func (s *InMemorySessionStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}

// Ensure InMemorySessionStore implements chat.SessionStore
var _ chat.SessionStore = (*InMemorySessionStore)(nil)
