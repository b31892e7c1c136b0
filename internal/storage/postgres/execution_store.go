package postgres

import (
	"context"
	"fmt"

	"trading-signal-lab/internal/domain"
	"trading-signal-lab/internal/storage"
)

// ExecutionStore implements storage.ExecutionStore using PostgreSQL.
type ExecutionStore struct {
	pool *Pool
}

// NewExecutionStore creates a new ExecutionStore.
func NewExecutionStore(pool *Pool) *ExecutionStore {
	return &ExecutionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ExecutionStore = (*ExecutionStore)(nil)

const insertExecutionQuery = `
	INSERT INTO execution_results (
		signal_id, status, execution_price, execution_time,
		profit_loss_pct, is_profitable
	) VALUES (
		$1, $2, $3, $4, $5, $6
	)
`

// Insert adds a new result. Returns ErrDuplicateKey if the signal id
// already has one.
func (s *ExecutionStore) Insert(ctx context.Context, r *domain.ExecutionResult) error {
	_, err := s.pool.Exec(ctx, insertExecutionQuery,
		r.SignalID, string(r.Status), r.ExecutionPrice, r.ExecutionTime,
		r.ProfitLossPct, r.IsProfitable,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert execution result: %w", err)
	}
	return nil
}

// InsertBulk adds multiple results atomically. Fails entire batch on
// any duplicate.
func (s *ExecutionStore) InsertBulk(ctx context.Context, results []*domain.ExecutionResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range results {
		_, err := tx.Exec(ctx, insertExecutionQuery,
			r.SignalID, string(r.Status), r.ExecutionPrice, r.ExecutionTime,
			r.ProfitLossPct, r.IsProfitable,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert execution result %s: %w", r.SignalID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetBySignalID retrieves the result for a signal. Returns ErrNotFound
// if the signal was never resolved.
func (s *ExecutionStore) GetBySignalID(ctx context.Context, signalID string) (*domain.ExecutionResult, error) {
	query := `
		SELECT signal_id, status, execution_price, execution_time,
			profit_loss_pct, is_profitable
		FROM execution_results WHERE signal_id = $1
	`

	var r domain.ExecutionResult
	var status string
	err := s.pool.QueryRow(ctx, query, signalID).Scan(
		&r.SignalID, &status, &r.ExecutionPrice, &r.ExecutionTime,
		&r.ProfitLossPct, &r.IsProfitable,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get execution result: %w", err)
	}
	r.Status = domain.ExecutionStatus(status)
	return &r, nil
}
