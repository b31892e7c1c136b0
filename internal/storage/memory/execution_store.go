package memory

import (
	"context"
	"sync"

	"trading-signal-lab/internal/domain"
	"trading-signal-lab/internal/storage"
)

// ExecutionStore is an in-memory implementation of storage.ExecutionStore.
type ExecutionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ExecutionResult // keyed by signal id
}

// NewExecutionStore creates a new in-memory execution result store.
func NewExecutionStore() *ExecutionStore {
	return &ExecutionStore{data: make(map[string]*domain.ExecutionResult)}
}

// Compile-time interface check.
var _ storage.ExecutionStore = (*ExecutionStore)(nil)

// Insert adds a new result. Returns ErrDuplicateKey if the signal id
// already has one.
func (s *ExecutionStore) Insert(_ context.Context, r *domain.ExecutionResult) error {
	if r == nil || r.SignalID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.SignalID]; exists {
		return storage.ErrDuplicateKey
	}
	copy := *r
	s.data[r.SignalID] = &copy
	return nil
}

// InsertBulk adds multiple results atomically. Fails entire batch on
// any duplicate.
func (s *ExecutionStore) InsertBulk(_ context.Context, results []*domain.ExecutionResult) error {
	if len(results) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make(map[string]struct{}, len(results))
	for _, r := range results {
		if r == nil || r.SignalID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[r.SignalID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batch[r.SignalID]; exists {
			return storage.ErrDuplicateKey
		}
		batch[r.SignalID] = struct{}{}
	}

	for _, r := range results {
		copy := *r
		s.data[r.SignalID] = &copy
	}
	return nil
}

// GetBySignalID retrieves the result for a signal. Returns ErrNotFound
// if the signal was never resolved.
func (s *ExecutionStore) GetBySignalID(_ context.Context, signalID string) (*domain.ExecutionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.data[signalID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copy := *r
	return &copy, nil
}
