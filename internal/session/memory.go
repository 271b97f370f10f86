package session

import (
	"context"
	"sync"
	"time"

	"github.com/Skufu/CardioRisk/internal/dataset"
)

type entry struct {
	table   *dataset.Table
	expires time.Time
}

// MemoryStore holds tables in process memory. Entries expire ttl after their
// last write; a zero ttl keeps them until deleted.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*dataset.Table, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, false, nil
	}
	if s.ttl > 0 && !s.now().Before(e.expires) {
		delete(s.entries, id)
		return nil, false, nil
	}
	return e.table, true, nil
}

func (s *MemoryStore) Put(_ context.Context, id string, table *dataset.Table) error {
	if !ValidID(id) {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep()
	s.entries[id] = entry{table: table, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Len counts live entries.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	return len(s.entries)
}

// sweep drops expired entries. Callers hold mu.
func (s *MemoryStore) sweep() {
	if s.ttl <= 0 {
		return
	}
	now := s.now()
	for id, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, id)
		}
	}
}
