// Package persistence provides storage backends for the latest prescription per user.
package persistence

import (
	"context"
	"sync"

	"example.com/exerciserx/internal/domain"
)

// InMemoryRepository keeps records in process memory. It is meant for local development and tests.
// Records are copied on the way in and out, so callers never share state with the store.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string]domain.Record
}

// NewInMemoryRepository constructs an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{records: make(map[string]domain.Record)}
}

// Save replaces the user's record.
func (r *InMemoryRepository) Save(_ context.Context, record domain.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.UserID] = record.Clone()
	return nil
}

// Latest returns the user's record or (nil, nil).
func (r *InMemoryRepository) Latest(_ context.Context, userID string) (*domain.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[userID]
	if !ok {
		return nil, nil
	}
	clone := record.Clone()
	return &clone, nil
}
