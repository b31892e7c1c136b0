package memory

import (
	"context"
	"sort"
	"sync"

	"trading-signal-lab/internal/domain"
	"trading-signal-lab/internal/storage"
)

// SignalStore is an in-memory implementation of storage.SignalStore.
type SignalStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Signal // keyed by signal id
}

// NewSignalStore creates a new in-memory signal store.
func NewSignalStore() *SignalStore {
	return &SignalStore{data: make(map[string]*domain.Signal)}
}

// Compile-time interface check.
var _ storage.SignalStore = (*SignalStore)(nil)

// Insert adds a new signal. Returns ErrDuplicateKey if the id exists.
func (s *SignalStore) Insert(_ context.Context, sig *domain.Signal) error {
	if sig == nil || sig.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[sig.ID]; exists {
		return storage.ErrDuplicateKey
	}
	copy := *sig
	s.data[sig.ID] = &copy
	return nil
}

// InsertBulk adds multiple signals atomically. Fails entire batch on
// any duplicate.
func (s *SignalStore) InsertBulk(_ context.Context, signals []*domain.Signal) error {
	if len(signals) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make(map[string]struct{}, len(signals))
	for _, sig := range signals {
		if sig == nil || sig.ID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[sig.ID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batch[sig.ID]; exists {
			return storage.ErrDuplicateKey
		}
		batch[sig.ID] = struct{}{}
	}

	for _, sig := range signals {
		copy := *sig
		s.data[sig.ID] = &copy
	}
	return nil
}

// GetByID retrieves a signal by its id. Returns ErrNotFound if not exists.
func (s *SignalStore) GetByID(_ context.Context, id string) (*domain.Signal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sig, ok := s.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copy := *sig
	return &copy, nil
}

// GetBySymbol retrieves all signals for a symbol, ordered by
// created_at ASC, id as tie-break.
func (s *SignalStore) GetBySymbol(_ context.Context, symbol string) ([]*domain.Signal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Signal
	for _, sig := range s.data {
		if sig.Symbol == symbol {
			copy := *sig
			out = append(out, &copy)
		}
	}
	sortByCreatedAt(out)
	return out, nil
}

// GetBySource retrieves a symbol's signals from one generation tier,
// ordered by created_at ASC.
func (s *SignalStore) GetBySource(_ context.Context, symbol string, source domain.Source) ([]*domain.Signal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Signal
	for _, sig := range s.data {
		if sig.Symbol == symbol && sig.Source == source {
			copy := *sig
			out = append(out, &copy)
		}
	}
	sortByCreatedAt(out)
	return out, nil
}

func sortByCreatedAt(signals []*domain.Signal) {
	sort.Slice(signals, func(i, j int) bool {
		if signals[i].CreatedAt != signals[j].CreatedAt {
			return signals[i].CreatedAt < signals[j].CreatedAt
		}
		return signals[i].ID < signals[j].ID
	})
}
