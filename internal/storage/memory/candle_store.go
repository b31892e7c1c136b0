package memory

import (
	"context"
	"sort"
	"sync"

	"trading-signal-lab/internal/domain"
	"trading-signal-lab/internal/storage"
)

// CandleStore is an in-memory implementation of storage.CandleStore.
type CandleStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.Candle // per symbol, kept sorted by timestamp
}

// NewCandleStore creates a new in-memory candle store.
func NewCandleStore() *CandleStore {
	return &CandleStore{data: make(map[string][]*domain.Candle)}
}

// Compile-time interface check.
var _ storage.CandleStore = (*CandleStore)(nil)

// InsertBulk adds candles for a symbol. Fails the entire batch on a
// duplicate (symbol, timestamp).
func (s *CandleStore) InsertBulk(_ context.Context, symbol string, cs []*domain.Candle) error {
	if symbol == "" {
		return storage.ErrInvalidInput
	}
	if len(cs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[int64]struct{}, len(s.data[symbol]))
	for _, c := range s.data[symbol] {
		existing[c.Timestamp] = struct{}{}
	}
	for _, c := range cs {
		if c == nil {
			return storage.ErrInvalidInput
		}
		if _, dup := existing[c.Timestamp]; dup {
			return storage.ErrDuplicateKey
		}
		existing[c.Timestamp] = struct{}{}
	}

	for _, c := range cs {
		copy := *c
		s.data[symbol] = append(s.data[symbol], &copy)
	}
	sort.Slice(s.data[symbol], func(i, j int) bool {
		return s.data[symbol][i].Timestamp < s.data[symbol][j].Timestamp
	})
	return nil
}

// GetBySymbol retrieves all candles for a symbol, ordered by timestamp ASC.
func (s *CandleStore) GetBySymbol(_ context.Context, symbol string) ([]*domain.Candle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Candle, 0, len(s.data[symbol]))
	for _, c := range s.data[symbol] {
		copy := *c
		out = append(out, &copy)
	}
	return out, nil
}

// GetByTimeRange retrieves candles within [start, end] inclusive,
// ordered by timestamp ASC. May return an empty slice.
func (s *CandleStore) GetByTimeRange(_ context.Context, symbol string, start, end int64) ([]*domain.Candle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Candle
	for _, c := range s.data[symbol] {
		if c.Timestamp < start || c.Timestamp > end {
			continue
		}
		copy := *c
		out = append(out, &copy)
	}
	return out, nil
}
