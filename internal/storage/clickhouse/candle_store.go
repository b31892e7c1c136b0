package clickhouse

import (
	"context"
	"fmt"

	"trading-signal-lab/internal/domain"
	"trading-signal-lab/internal/storage"
)

// CandleStore implements storage.CandleStore using ClickHouse.
// MergeTree does not enforce uniqueness at insert time, so duplicate
// (symbol, timestamp) pairs are checked explicitly before the batch is
// sent.
type CandleStore struct {
	conn *Conn
}

// NewCandleStore creates a new CandleStore.
func NewCandleStore(conn *Conn) *CandleStore {
	return &CandleStore{conn: conn}
}

// Compile-time interface check.
var _ storage.CandleStore = (*CandleStore)(nil)

// InsertBulk adds candles for a symbol. Fails the entire batch on a
// duplicate (symbol, timestamp).
func (s *CandleStore) InsertBulk(ctx context.Context, symbol string, cs []*domain.Candle) error {
	if symbol == "" {
		return storage.ErrInvalidInput
	}
	if len(cs) == 0 {
		return nil
	}

	// Intra-batch duplicates
	seen := make(map[int64]struct{}, len(cs))
	for _, c := range cs {
		if _, dup := seen[c.Timestamp]; dup {
			return storage.ErrDuplicateKey
		}
		seen[c.Timestamp] = struct{}{}
	}

	// Duplicates against existing rows
	for _, c := range cs {
		exists, err := s.exists(ctx, symbol, c.Timestamp)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO candles (
			symbol, timestamp_ms, open, high, low, close, volume
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, c := range cs {
		err = batch.Append(
			symbol, uint64(c.Timestamp),
			c.Open, c.High, c.Low, c.Close, c.Volume,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetBySymbol retrieves all candles for a symbol, ordered by timestamp ASC.
func (s *CandleStore) GetBySymbol(ctx context.Context, symbol string) ([]*domain.Candle, error) {
	query := `
		SELECT timestamp_ms, open, high, low, close, volume
		FROM candles
		WHERE symbol = ?
		ORDER BY timestamp_ms ASC
	`
	return s.queryCandles(ctx, query, symbol)
}

// GetByTimeRange retrieves candles within [start, end] inclusive,
// ordered by timestamp ASC.
func (s *CandleStore) GetByTimeRange(ctx context.Context, symbol string, start, end int64) ([]*domain.Candle, error) {
	query := `
		SELECT timestamp_ms, open, high, low, close, volume
		FROM candles
		WHERE symbol = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`
	return s.queryCandles(ctx, query, symbol, uint64(start), uint64(end))
}

func (s *CandleStore) queryCandles(ctx context.Context, query string, args ...any) ([]*domain.Candle, error) {
	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query candles: %w", err)
	}
	defer rows.Close()

	var out []*domain.Candle
	for rows.Next() {
		var ts uint64
		var c domain.Candle
		if err := rows.Scan(&ts, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("scan candle: %w", err)
		}
		c.Timestamp = int64(ts)
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candles: %w", err)
	}
	return out, nil
}

// exists checks whether a (symbol, timestamp) row is already present.
func (s *CandleStore) exists(ctx context.Context, symbol string, ts int64) (bool, error) {
	query := `SELECT count() FROM candles WHERE symbol = ? AND timestamp_ms = ?`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, symbol, uint64(ts)).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
