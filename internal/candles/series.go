package candles

import (
	"errors"
	"fmt"

	"trading-signal-lab/internal/domain"
)

// Series construction errors.
var (
	ErrOutOfOrder = errors.New("candles are not strictly increasing by timestamp")
)

// Series is an ordered, gap-tolerant in-memory candle sequence for one
// symbol and timeframe. Gaps between timestamps are allowed; ordering
// is not negotiable.
type Series struct {
	symbol  string
	candles []*domain.Candle
}

// NewSeries validates ordering and per-candle invariants and wraps the
// candles. The slice is retained, not copied; callers hand over
// ownership.
func NewSeries(symbol string, cs []*domain.Candle) (*Series, error) {
	var prev int64
	for i, c := range cs {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("candle %d (ts=%d): %w", i, c.Timestamp, err)
		}
		if i > 0 && c.Timestamp <= prev {
			return nil, fmt.Errorf("candle %d (ts=%d after %d): %w", i, c.Timestamp, prev, ErrOutOfOrder)
		}
		prev = c.Timestamp
	}
	return &Series{symbol: symbol, candles: cs}, nil
}

// Symbol returns the instrument identifier the series belongs to.
func (s *Series) Symbol() string { return s.symbol }

// Len returns the number of candles.
func (s *Series) Len() int { return len(s.candles) }

// Empty reports whether the series holds no candles at all.
func (s *Series) Empty() bool { return len(s.candles) == 0 }

// At returns the candle at index i.
func (s *Series) At(i int) *domain.Candle { return s.candles[i] }

// UpTo returns a sub-series containing only candles with
// timestamp <= ts. This is the causality boundary: walk-forward code
// asks for UpTo(today) and can never observe a later bar.
func (s *Series) UpTo(ts int64) *Series {
	i := len(s.candles)
	for i > 0 && s.candles[i-1].Timestamp > ts {
		i--
	}
	return &Series{symbol: s.symbol, candles: s.candles[:i]}
}

// Between returns the candles with timestamp in [from, to), in order.
func (s *Series) Between(from, to int64) []*domain.Candle {
	var out []*domain.Candle
	for _, c := range s.candles {
		if c.Timestamp >= to {
			break
		}
		if c.Timestamp >= from {
			out = append(out, c)
		}
	}
	return out
}

// Start returns the first timestamp, or 0 on an empty series.
func (s *Series) Start() int64 {
	if len(s.candles) == 0 {
		return 0
	}
	return s.candles[0].Timestamp
}

// End returns the last timestamp, or 0 on an empty series.
func (s *Series) End() int64 {
	if len(s.candles) == 0 {
		return 0
	}
	return s.candles[len(s.candles)-1].Timestamp
}
