package storage

import (
	"context"

	"trading-signal-lab/internal/domain"
)

// CandleStore provides access to candle history. Its GetByTimeRange is
// the boundary the engine fetches candles through; it may legitimately
// return an empty sequence.
type CandleStore interface {
	// InsertBulk adds candles for a symbol. Fails the entire batch on a
	// duplicate (symbol, timestamp).
	InsertBulk(ctx context.Context, symbol string, cs []*domain.Candle) error

	// GetBySymbol retrieves all candles for a symbol, ordered by timestamp ASC.
	GetBySymbol(ctx context.Context, symbol string) ([]*domain.Candle, error)

	// GetByTimeRange retrieves candles for a symbol within [start, end]
	// (inclusive), ordered by timestamp ASC.
	GetByTimeRange(ctx context.Context, symbol string, start, end int64) ([]*domain.Candle, error)
}

// SignalStore provides access to generated signals.
type SignalStore interface {
	// Insert adds a new signal. Returns ErrDuplicateKey if the id exists.
	Insert(ctx context.Context, s *domain.Signal) error

	// InsertBulk adds multiple signals atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, signals []*domain.Signal) error

	// GetByID retrieves a signal by its id. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.Signal, error)

	// GetBySymbol retrieves all signals for a symbol, ordered by created_at ASC.
	GetBySymbol(ctx context.Context, symbol string) ([]*domain.Signal, error)

	// GetBySource retrieves a symbol's signals from one generation tier,
	// ordered by created_at ASC. Lets consumers account for non-natural
	// signals separately.
	GetBySource(ctx context.Context, symbol string, source domain.Source) ([]*domain.Signal, error)
}

// ExecutionStore provides access to execution results, one per signal.
type ExecutionStore interface {
	// Insert adds a new result. Returns ErrDuplicateKey if the signal id
	// already has one.
	Insert(ctx context.Context, r *domain.ExecutionResult) error

	// InsertBulk adds multiple results atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, results []*domain.ExecutionResult) error

	// GetBySignalID retrieves the result for a signal. Returns
	// ErrNotFound if the signal was never resolved.
	GetBySignalID(ctx context.Context, signalID string) (*domain.ExecutionResult, error)
}
