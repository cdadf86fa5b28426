package session

import (
	"context"
	"sync"

	"github.com/opryshko/bakehouse/internal/domain/cart"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore implements Store in process memory. It backs tests and
// single-node deployments that run without Redis. Entries never expire.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]int64
	carts    map[string]cart.Cart
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]int64),
		carts:    make(map[string]cart.Cart),
	}
}

func (s *MemoryStore) SaveSession(_ context.Context, key string, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[key] = userID
	return nil
}

func (s *MemoryStore) LookupSession(_ context.Context, key string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.sessions[key]
	if !ok {
		return 0, ErrNotFound
	}
	return userID, nil
}

func (s *MemoryStore) DeleteSession(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
	delete(s.carts, key)
	return nil
}

func (s *MemoryStore) SaveCart(_ context.Context, key string, c *cart.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[key] = cart.Cart{Lines: c.Snapshot()}
	return nil
}

func (s *MemoryStore) LoadCart(_ context.Context, key string) (*cart.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.carts[key]
	if !ok {
		return nil, ErrNotFound
	}
	return &cart.Cart{Lines: stored.Snapshot()}, nil
}
