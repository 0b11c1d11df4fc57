package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryTokenStore is a process local TokenStore, used when no Redis is
// configured. Tokens do not survive a restart.
type MemoryTokenStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
	now     func() time.Time
}

type memEntry struct {
	userID  uint
	expires time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{entries: make(map[string]memEntry), now: time.Now}
}

func (s *MemoryTokenStore) Save(_ context.Context, token string, userID uint, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = memEntry{userID: userID, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryTokenStore) Lookup(_ context.Context, token string) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[token]
	if !ok {
		return 0, ErrTokenNotFound
	}
	if !s.now().Before(e.expires) {
		delete(s.entries, token)
		return 0, ErrTokenNotFound
	}
	return e.userID, nil
}

func (s *MemoryTokenStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, token)
	return nil
}
