package confirm

import (
	"trading-signal-lab/internal/domain"
	"trading-signal-lab/internal/indicators"
	"trading-signal-lab/internal/structure"
	"trading-signal-lab/internal/trend"
)

// Relaxed-tier thresholds. The relaxed engine is a deliberately
// distinct, lower-confidence path used only by the frequency enforcer;
// its signals are tagged RELAXED and never merged with natural ones.
const (
	relaxedRSIBuyLow       = 15
	relaxedRSIBuyHigh      = 60
	relaxedRSISellLow      = 40
	relaxedRSISellHigh     = 85
	relaxedVolumeThreshold = 1.1
)

// maxConfidence caps confirmation-derived confidence.
const maxConfidence = 0.9

// Profile holds the thresholds one engine variant scores against.
type Profile struct {
	RSIBuyLow   float64
	RSIBuyHigh  float64
	RSISellLow  float64
	RSISellHigh float64

	VolumeThreshold  float64
	MinConfirmations int

	// AcceptConvergence counts the MACD histogram moving toward a
	// cross as a confirmation, not only a completed cross.
	AcceptConvergence bool

	// AcceptNeutralBias lets a NEUTRAL trend evaluate both directions.
	AcceptNeutralBias bool
}

// NaturalProfile builds the strict profile from run parameters.
func NaturalProfile(p domain.Params) Profile {
	return Profile{
		RSIBuyLow:        p.RSIBuyLow,
		RSIBuyHigh:       p.RSIBuyHigh,
		RSISellLow:       p.RSISellLow,
		RSISellHigh:      p.RSISellHigh,
		VolumeThreshold:  p.VolumeThreshold,
		MinConfirmations: p.MinConfirmations,
	}
}

// RelaxedProfile builds the widened profile used by the frequency
// enforcer's second tier: wider RSI bands, lower volume bar, MACD
// convergence accepted, a single confirmation suffices, and NEUTRAL
// bias is compatible with either direction.
func RelaxedProfile(domain.Params) Profile {
	return Profile{
		RSIBuyLow:         relaxedRSIBuyLow,
		RSIBuyHigh:        relaxedRSIBuyHigh,
		RSISellLow:        relaxedRSISellLow,
		RSISellHigh:       relaxedRSISellHigh,
		VolumeThreshold:   relaxedVolumeThreshold,
		MinConfirmations:  1,
		AcceptConvergence: true,
		AcceptNeutralBias: true,
	}
}

// Input is everything the engine may look at for one day. All of it is
// past-or-present data relative to the evaluated bar.
type Input struct {
	Bias      trend.Bias
	Structure structure.State
	Prev      *indicators.Snapshot // bar before the evaluated one
	Curr      *indicators.Snapshot // evaluated bar
	Recent    []*domain.Candle     // last up-to-3 candles, chronological
}

// Result is the engine's verdict for one day.
type Result struct {
	Confirmed     bool             // false means hold
	Direction     domain.Direction // valid only when Confirmed
	Confirmations int
	Confidence    float64
}

// hold is the zero verdict: no direction, confidence 0.
func hold() Result { return Result{} }

// Evaluate scores both directions against the profile and returns the
// qualifying one. A direction qualifies only when the trend bias is
// compatible and the confirmation count reaches the profile minimum.
func Evaluate(profile Profile, in Input) Result {
	if in.Curr == nil || in.Prev == nil {
		return hold()
	}

	buyOK := in.Bias.Matches(true) || (profile.AcceptNeutralBias && in.Bias == trend.BiasNeutral)
	sellOK := in.Bias.Matches(false) || (profile.AcceptNeutralBias && in.Bias == trend.BiasNeutral)

	buyCount := 0
	if buyOK {
		buyCount = countConfirmations(profile, in, true)
	}
	sellCount := 0
	if sellOK {
		sellCount = countConfirmations(profile, in, false)
	}

	buyQualifies := buyOK && buyCount >= profile.MinConfirmations
	sellQualifies := sellOK && sellCount >= profile.MinConfirmations

	switch {
	case buyQualifies && (!sellQualifies || buyCount >= sellCount):
		return verdict(domain.DirectionBuy, buyCount)
	case sellQualifies:
		return verdict(domain.DirectionSell, sellCount)
	default:
		return hold()
	}
}

func verdict(dir domain.Direction, confirmations int) Result {
	confidence := 0.5 + 0.1*float64(confirmations)
	if confidence > maxConfidence {
		confidence = maxConfidence
	}
	return Result{
		Confirmed:     true,
		Direction:     dir,
		Confirmations: confirmations,
		Confidence:    confidence,
	}
}

// countConfirmations counts the independent confirmations for one
// direction: RSI zone, MACD cross (or convergence when accepted),
// volume spike, candlestick pattern, and structural break agreement.
func countConfirmations(profile Profile, in Input, buy bool) int {
	count := 0

	if rsiInZone(profile, in.Curr.RSI, buy) {
		count++
	}
	if macdConfirms(profile, in.Prev, in.Curr, buy) {
		count++
	}
	if in.Curr.VolumeRatio >= profile.VolumeThreshold {
		count++
	}
	if buy && bullishPattern(in.Recent) {
		count++
	}
	if !buy && bearishPattern(in.Recent) {
		count++
	}
	if structureConfirms(in.Structure, buy) {
		count++
	}
	return count
}

func rsiInZone(profile Profile, rsi float64, buy bool) bool {
	if buy {
		return rsi >= profile.RSIBuyLow && rsi <= profile.RSIBuyHigh
	}
	return rsi >= profile.RSISellLow && rsi <= profile.RSISellHigh
}

// macdConfirms checks for a completed cross between the previous and
// current bar. With AcceptConvergence, a histogram moving toward the
// cross also counts.
func macdConfirms(profile Profile, prev, curr *indicators.Snapshot, buy bool) bool {
	if buy {
		if prev.MACD <= prev.MACDSignal && curr.MACD > curr.MACDSignal {
			return true
		}
		return profile.AcceptConvergence && curr.MACDHist > prev.MACDHist
	}
	if prev.MACD >= prev.MACDSignal && curr.MACD < curr.MACDSignal {
		return true
	}
	return profile.AcceptConvergence && curr.MACDHist < prev.MACDHist
}

func structureConfirms(st structure.State, buy bool) bool {
	if buy {
		return st.Break == structure.BreakBullishBOS
	}
	return st.Break == structure.BreakBearishBOS
}
