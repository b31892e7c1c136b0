package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-signal-lab/internal/domain"
	"trading-signal-lab/internal/storage"
)

func testCandle(ts int64, close float64) *domain.Candle {
	return &domain.Candle{
		Timestamp: ts,
		Open:      close - 0.5,
		High:      close + 1,
		Low:       close - 1,
		Close:     close,
		Volume:    1000,
	}
}

func TestCandleStore_InsertBulkAndGetBySymbol(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewCandleStore(conn)

	candles := []*domain.Candle{
		testCandle(1700000000000, 100),
		testCandle(1700086400000, 102),
		testCandle(1700172800000, 101),
	}
	err := store.InsertBulk(ctx, "BTC", candles)
	require.NoError(t, err)

	got, err := store.GetBySymbol(ctx, "BTC")
	require.NoError(t, err)

	require.Len(t, got, 3)
	for i, c := range candles {
		assert.Equal(t, c.Timestamp, got[i].Timestamp)
		assert.InDelta(t, c.Open, got[i].Open, 0.0001)
		assert.InDelta(t, c.High, got[i].High, 0.0001)
		assert.InDelta(t, c.Low, got[i].Low, 0.0001)
		assert.InDelta(t, c.Close, got[i].Close, 0.0001)
		assert.InDelta(t, c.Volume, got[i].Volume, 0.0001)
	}
}

func TestCandleStore_GetByTimeRangeInclusive(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewCandleStore(conn)

	err := store.InsertBulk(ctx, "BTC", []*domain.Candle{
		testCandle(100, 100),
		testCandle(200, 101),
		testCandle(300, 102),
		testCandle(400, 103),
	})
	require.NoError(t, err)

	got, err := store.GetByTimeRange(ctx, "BTC", 200, 300)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, int64(200), got[0].Timestamp)
	assert.Equal(t, int64(300), got[1].Timestamp)
}

func TestCandleStore_InsertBulkDuplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewCandleStore(conn)

	err := store.InsertBulk(ctx, "BTC", []*domain.Candle{testCandle(100, 100)})
	require.NoError(t, err)

	// Existing (symbol, timestamp) fails the batch.
	err = store.InsertBulk(ctx, "BTC", []*domain.Candle{testCandle(100, 105)})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Intra-batch duplicate fails before anything is sent.
	err = store.InsertBulk(ctx, "BTC", []*domain.Candle{testCandle(200, 100), testCandle(200, 101)})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	got, err := store.GetBySymbol(ctx, "BTC")
	require.NoError(t, err)
	assert.Len(t, got, 1, "failed batches must not add rows")

	// The same timestamp under another symbol is allowed.
	err = store.InsertBulk(ctx, "ETH", []*domain.Candle{testCandle(100, 2500)})
	assert.NoError(t, err)
}

func TestCandleStore_EmptySymbolRejected(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewCandleStore(conn)

	err := store.InsertBulk(context.Background(), "", []*domain.Candle{testCandle(100, 100)})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
