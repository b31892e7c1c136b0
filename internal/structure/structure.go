package structure

import (
	"trading-signal-lab/internal/candles"
)

// Break labels the structural state of the market.
type Break string

// Break constants.
const (
	BreakBullishBOS Break = "BULLISH_BOS"
	BreakBearishBOS Break = "BEARISH_BOS"
	BreakNeutral    Break = "NEUTRAL"
)

// DefaultWindow is the trailing swing window in candles.
const DefaultWindow = 20

// Strength values per state. Structure is a coarse bias feed into
// confirmation scoring, not an independent signal source.
const (
	bosStrength     = 0.8
	neutralStrength = 0.5
)

// State is the structural read at one bar.
type State struct {
	Break    Break
	Strength float64
}

// Analyze detects a break of structure at index i. The current swing
// extremes are max(high)/min(low) over the trailing window ending at
// i; they are compared against the extremes of the window ending
// `window` candles earlier. A higher high is a bullish BOS, a lower
// low a bearish one. With fewer than 2*window candles of history the
// state is NEUTRAL.
func Analyze(series *candles.Series, i, window int) State {
	if window <= 0 {
		window = DefaultWindow
	}
	if i < 2*window-1 || i >= series.Len() {
		return State{Break: BreakNeutral, Strength: neutralStrength}
	}

	curHigh, curLow := swingExtremes(series, i-window+1, i)
	priorHigh, priorLow := swingExtremes(series, i-2*window+1, i-window)

	if curHigh > priorHigh {
		return State{Break: BreakBullishBOS, Strength: bosStrength}
	}
	if curLow < priorLow {
		return State{Break: BreakBearishBOS, Strength: bosStrength}
	}
	return State{Break: BreakNeutral, Strength: neutralStrength}
}

// swingExtremes returns max(high) and min(low) over candles[from..to]
// inclusive.
func swingExtremes(series *candles.Series, from, to int) (high, low float64) {
	high = series.At(from).High
	low = series.At(from).Low
	for j := from + 1; j <= to; j++ {
		c := series.At(j)
		if c.High > high {
			high = c.High
		}
		if c.Low < low {
			low = c.Low
		}
	}
	return high, low
}
