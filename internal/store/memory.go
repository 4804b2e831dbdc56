package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used by handler tests and local
// development. Retrieval order is insertion order. The error fields,
// when set, force the corresponding operation to fail so callers can
// exercise their persistence-failure paths without a real backend.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record

	InsertErr error
	ListErr   error
	FindErr   error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Insert(_ context.Context, rec Record) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.InsertErr != nil {
		return uuid.Nil, s.InsertErr
	}

	rec.ID = uuid.New()
	rec.CreatedAt = time.Now().UTC()
	// Copy the payload so later caller mutations cannot reach stored state.
	rec.Payload = append([]byte(nil), rec.Payload...)
	s.records = append(s.records, rec)
	return rec.ID, nil
}

func (s *MemoryStore) ListAll(_ context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}

	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *MemoryStore) FindByName(_ context.Context, name string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FindErr != nil {
		return nil, s.FindErr
	}

	for i := range s.records {
		if s.records[i].Name == name {
			rec := s.records[i]
			return &rec, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// Len reports the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
