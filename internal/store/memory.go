package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for tests and development.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[int64]UserRecord
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[int64]UserRecord)}
}

func (s *MemoryStore) Upsert(_ context.Context, userID int64, birthData string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		rec = UserRecord{UserID: userID}
	}
	rec.BirthData = birthData
	s.records[userID] = rec
	return nil
}

func (s *MemoryStore) Get(_ context.Context, userID int64) (UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[userID]
	if !ok {
		return UserRecord{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) MarkFulfilled(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		return ErrNotFound
	}
	rec.Fulfilled = true
	s.records[userID] = rec
	return nil
}

func (s *MemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.records)), nil
}

func (s *MemoryStore) CountFulfilled(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, rec := range s.records {
		if rec.Fulfilled {
			n++
		}
	}
	return n, nil
}
