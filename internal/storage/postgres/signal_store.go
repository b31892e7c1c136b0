package postgres

import (
	"context"
	"fmt"

	"trading-signal-lab/internal/domain"
	"trading-signal-lab/internal/storage"
)

// SignalStore implements storage.SignalStore using PostgreSQL.
type SignalStore struct {
	pool *Pool
}

// NewSignalStore creates a new SignalStore.
func NewSignalStore(pool *Pool) *SignalStore {
	return &SignalStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SignalStore = (*SignalStore)(nil)

const insertSignalQuery = `
	INSERT INTO signals (
		signal_id, symbol, direction, created_at,
		entry_price, target_price, stop_loss, risk_reward,
		confidence, confirmations, strength, source
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7, $8,
		$9, $10, $11, $12
	)
`

const selectSignalColumns = `
	signal_id, symbol, direction, created_at,
	entry_price, target_price, stop_loss, risk_reward,
	confidence, confirmations, strength, source
`

// Insert adds a new signal. Returns ErrDuplicateKey if the id exists.
func (s *SignalStore) Insert(ctx context.Context, sig *domain.Signal) error {
	_, err := s.pool.Exec(ctx, insertSignalQuery,
		sig.ID, sig.Symbol, string(sig.Direction), sig.CreatedAt,
		sig.EntryPrice, sig.TargetPrice, sig.StopLoss, sig.RiskReward,
		sig.Confidence, sig.Confirmations, string(sig.Strength), string(sig.Source),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert signal: %w", err)
	}
	return nil
}

// InsertBulk adds multiple signals atomically. Fails entire batch on
// any duplicate.
func (s *SignalStore) InsertBulk(ctx context.Context, signals []*domain.Signal) error {
	if len(signals) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, sig := range signals {
		_, err := tx.Exec(ctx, insertSignalQuery,
			sig.ID, sig.Symbol, string(sig.Direction), sig.CreatedAt,
			sig.EntryPrice, sig.TargetPrice, sig.StopLoss, sig.RiskReward,
			sig.Confidence, sig.Confirmations, string(sig.Strength), string(sig.Source),
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert signal %s: %w", sig.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByID retrieves a signal by its id. Returns ErrNotFound if not exists.
func (s *SignalStore) GetByID(ctx context.Context, id string) (*domain.Signal, error) {
	query := `SELECT ` + selectSignalColumns + ` FROM signals WHERE signal_id = $1`

	row := s.pool.QueryRow(ctx, query, id)
	sig, err := scanSignal(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get signal by id: %w", err)
	}
	return sig, nil
}

// GetBySymbol retrieves all signals for a symbol, ordered by
// created_at ASC, id as tie-break.
func (s *SignalStore) GetBySymbol(ctx context.Context, symbol string) ([]*domain.Signal, error) {
	query := `SELECT ` + selectSignalColumns + `
		FROM signals WHERE symbol = $1
		ORDER BY created_at ASC, signal_id ASC`

	rows, err := s.pool.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("get signals by symbol: %w", err)
	}
	defer rows.Close()

	return scanSignals(rows)
}

// GetBySource retrieves a symbol's signals from one generation tier,
// ordered by created_at ASC.
func (s *SignalStore) GetBySource(ctx context.Context, symbol string, source domain.Source) ([]*domain.Signal, error) {
	query := `SELECT ` + selectSignalColumns + `
		FROM signals WHERE symbol = $1 AND source = $2
		ORDER BY created_at ASC, signal_id ASC`

	rows, err := s.pool.Query(ctx, query, symbol, string(source))
	if err != nil {
		return nil, fmt.Errorf("get signals by source: %w", err)
	}
	defer rows.Close()

	return scanSignals(rows)
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSignal(row rowScanner) (*domain.Signal, error) {
	var sig domain.Signal
	var direction, strength, source string
	err := row.Scan(
		&sig.ID, &sig.Symbol, &direction, &sig.CreatedAt,
		&sig.EntryPrice, &sig.TargetPrice, &sig.StopLoss, &sig.RiskReward,
		&sig.Confidence, &sig.Confirmations, &strength, &source,
	)
	if err != nil {
		return nil, err
	}
	sig.Direction = domain.Direction(direction)
	sig.Strength = domain.Strength(strength)
	sig.Source = domain.Source(source)
	return &sig, nil
}

func scanSignals(rows interface {
	rowScanner
	Next() bool
	Err() error
}) ([]*domain.Signal, error) {
	var out []*domain.Signal
	for rows.Next() {
		sig, err := scanSignal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		out = append(out, sig)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate signals: %w", err)
	}
	return out, nil
}
