package logstore

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu      sync.Mutex
	records []string
}

func NewMemoryStore(records ...string) *MemoryStore {
	return &MemoryStore{records: append([]string{}, records...)}
}

func (s *MemoryStore) GetAll(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.records...), nil
}

func (s *MemoryStore) Append(ctx context.Context, record string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *MemoryStore) RemoveAt(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.records) {
		return ErrIndexOutOfRange
	}
	s.records = append(s.records[:index], s.records[index+1:]...)
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}

// Replace swaps the whole log, simulating external truncation or rewrites.
func (s *MemoryStore) Replace(records []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]string{}, records...)
}
