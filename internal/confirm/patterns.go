package confirm

import (
	"trading-signal-lab/internal/domain"
)

// Candlestick pattern checks over the last candles of the walk-forward
// window. Each works purely off open/high/low/close relationships.

// bullishEngulfing: a bearish candle followed by a bullish one whose
// body covers the previous body entirely.
func bullishEngulfing(prev, curr *domain.Candle) bool {
	return prev.Bearish() && curr.Bullish() &&
		curr.Open <= prev.Close && curr.Close >= prev.Open
}

// bearishEngulfing: a bullish candle followed by a bearish one whose
// body covers the previous body entirely.
func bearishEngulfing(prev, curr *domain.Candle) bool {
	return prev.Bullish() && curr.Bearish() &&
		curr.Open >= prev.Close && curr.Close <= prev.Open
}

// hammer: a small body near the top of the range with a lower shadow
// at least twice the body.
func hammer(c *domain.Candle) bool {
	body := c.Body()
	if body == 0 || c.Range() == 0 {
		return false
	}
	bodyLow := c.Open
	bodyHigh := c.Close
	if c.Close < c.Open {
		bodyLow, bodyHigh = c.Close, c.Open
	}
	lowerShadow := bodyLow - c.Low
	upperShadow := c.High - bodyHigh
	return lowerShadow >= 2*body && upperShadow <= body
}

// shootingStar: a small body near the bottom of the range with an
// upper shadow at least twice the body.
func shootingStar(c *domain.Candle) bool {
	body := c.Body()
	if body == 0 || c.Range() == 0 {
		return false
	}
	bodyLow := c.Open
	bodyHigh := c.Close
	if c.Close < c.Open {
		bodyLow, bodyHigh = c.Close, c.Open
	}
	lowerShadow := bodyLow - c.Low
	upperShadow := c.High - bodyHigh
	return upperShadow >= 2*body && lowerShadow <= body
}

// bullishPattern reports whether the most recent candles form a
// bullish reversal pattern. recent is chronological, up to 3 candles.
func bullishPattern(recent []*domain.Candle) bool {
	n := len(recent)
	if n == 0 {
		return false
	}
	if hammer(recent[n-1]) {
		return true
	}
	if n >= 2 && bullishEngulfing(recent[n-2], recent[n-1]) {
		return true
	}
	return false
}

// bearishPattern reports whether the most recent candles form a
// bearish reversal pattern.
func bearishPattern(recent []*domain.Candle) bool {
	n := len(recent)
	if n == 0 {
		return false
	}
	if shootingStar(recent[n-1]) {
		return true
	}
	if n >= 2 && bearishEngulfing(recent[n-2], recent[n-1]) {
		return true
	}
	return false
}
