package trend

import (
	"trading-signal-lab/internal/indicators"
)

// Bias is the daily trend classification.
type Bias string

// Bias constants.
const (
	BiasBullish Bias = "BULLISH"
	BiasBearish Bias = "BEARISH"
	BiasNeutral Bias = "NEUTRAL"
)

// Classify derives the trend bias from the fast/slow SMA relationship
// on the current and immediately prior snapshot. The ordering must
// hold on both bars, so a momentary cross does not flip the bias.
// It is a pure function of the last two snapshots; no transition
// history exists.
func Classify(prev, curr *indicators.Snapshot) Bias {
	if prev == nil || curr == nil {
		return BiasNeutral
	}
	if curr.SMAFast > curr.SMASlow && prev.SMAFast > prev.SMASlow {
		return BiasBullish
	}
	if curr.SMAFast < curr.SMASlow && prev.SMAFast < prev.SMASlow {
		return BiasBearish
	}
	return BiasNeutral
}

// Matches reports whether a bias agrees with a trade direction:
// BULLISH with BUY, BEARISH with SELL.
func (b Bias) Matches(buy bool) bool {
	if buy {
		return b == BiasBullish
	}
	return b == BiasBearish
}
