package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/bizdesk-api/internal/application/ports"
)

// sweepEvery cada cuántas escrituras se purgan las entradas vencidas.
const sweepEvery = 256

type entry struct {
	value     string
	expiresAt time.Time
}

var _ ports.IdempotencyStore = (*MemoryIdempotencyStore)(nil)

// MemoryIdempotencyStore alternativa local cuando no hay Redis (una sola instancia, tests).
type MemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]entry
	writes  int
	now     func() time.Time
}

// NewMemoryIdempotencyStore crea el store vacío.
func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{entries: make(map[string]entry), now: time.Now}
}

func (s *MemoryIdempotencyStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || !s.now().Before(e.expiresAt) {
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *MemoryIdempotencyStore) Put(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if e, ok := s.entries[key]; ok && now.Before(e.expiresAt) {
		return false, nil
	}
	s.entries[key] = entry{value: value, expiresAt: now.Add(ttl)}

	s.writes++
	if s.writes%sweepEvery == 0 {
		for k, e := range s.entries {
			if !now.Before(e.expiresAt) {
				delete(s.entries, k)
			}
		}
	}
	return true, nil
}

func (s *MemoryIdempotencyStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryIdempotencyStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
