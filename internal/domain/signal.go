package domain

// Direction of a trading signal.
type Direction string

// Direction constants.
const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// Source identifies which generation tier produced a signal.
// Downstream consumers filter and account for non-natural signals separately.
type Source string

// Source constants, in escalation order.
const (
	SourceNatural           Source = "NATURAL"
	SourceRelaxed           Source = "RELAXED"
	SourceTrendFollowing    Source = "TREND_FOLLOWING"
	SourceSyntheticFallback Source = "SYNTHETIC_FALLBACK"
)

// Strength buckets a signal by its confirmation count.
type Strength string

// Strength constants.
const (
	StrengthWeak     Strength = "WEAK"
	StrengthModerate Strength = "MODERATE"
	StrengthStrong   Strength = "STRONG"
)

// Signal represents a risk-managed trade signal. Immutable once created.
//
// Price invariants, enforced at creation:
//   - BUY:  stop_loss < entry_price < target_price
//   - SELL: target_price < entry_price < stop_loss
//   - RiskReward >= the configured minimum
type Signal struct {
	ID        string    // deterministic hash, see idhash.ComputeSignalID
	Symbol    string    // instrument identifier, e.g. "BTC"
	Direction Direction // BUY | SELL
	CreatedAt int64     // Unix ms of the bar the signal was generated on

	EntryPrice  float64
	TargetPrice float64
	StopLoss    float64
	RiskReward  float64 // reward / risk at creation time

	Confidence    float64 // [0, 1]
	Confirmations int     // independent confirmations counted at entry
	Strength      Strength
	Source        Source
}

// StrengthForConfirmations maps a confirmation count to a strength bucket.
func StrengthForConfirmations(n int) Strength {
	switch {
	case n >= 3:
		return StrengthStrong
	case n == 2:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}
