package domain

import "errors"

// Candle validation errors.
var (
	ErrInvalidCandleRange = errors.New("candle high/low does not bound open/close")
	ErrNegativeVolume     = errors.New("candle volume is negative")
	ErrNonPositivePrice   = errors.New("candle price is zero or negative")
)

// DayMs is one calendar day in milliseconds, the native bar interval.
const DayMs = int64(24 * 60 * 60 * 1000)

// Candle represents a single OHLCV bar.
type Candle struct {
	Timestamp int64   // Unix ms, unique and strictly increasing within a series
	Open      float64 // open price
	High      float64 // high price
	Low       float64 // low price
	Close     float64 // close price
	Volume    float64 // traded volume, >= 0
}

// Validate checks the OHLCV invariants:
// high >= max(open, close, low), low <= min(open, close, high), volume >= 0.
func (c *Candle) Validate() error {
	if c.Open <= 0 || c.High <= 0 || c.Low <= 0 || c.Close <= 0 {
		return ErrNonPositivePrice
	}
	if c.High < c.Open || c.High < c.Close || c.High < c.Low {
		return ErrInvalidCandleRange
	}
	if c.Low > c.Open || c.Low > c.Close {
		return ErrInvalidCandleRange
	}
	if c.Volume < 0 {
		return ErrNegativeVolume
	}
	return nil
}

// Bullish reports whether the candle closed above its open.
func (c *Candle) Bullish() bool { return c.Close > c.Open }

// Bearish reports whether the candle closed below its open.
func (c *Candle) Bearish() bool { return c.Close < c.Open }

// Body returns the absolute open-to-close distance.
func (c *Candle) Body() float64 {
	if c.Close >= c.Open {
		return c.Close - c.Open
	}
	return c.Open - c.Close
}

// Range returns the high-to-low distance.
func (c *Candle) Range() float64 { return c.High - c.Low }
