package signalgen

import (
	"errors"

	"trading-signal-lab/internal/domain"
	"trading-signal-lab/internal/idhash"
)

// Factory errors. A rejected signal is not an aborted run: callers
// skip the day and move on.
var (
	ErrNonPositiveEntry = errors.New("entry price must be positive")
	ErrNonPositiveRisk  = errors.New("risk distance must be positive")
	ErrRiskRewardTooLow = errors.New("risk/reward ratio below configured minimum")
)

// Exits bundles the exit distances and the acceptance gate for one
// generation tier. Fallback tiers trade with tighter exits and a lower
// gate than the natural tier.
type Exits struct {
	TakeProfitPct float64
	StopLossPct   float64
	MinRiskReward float64
}

// NaturalExits returns the exit set for naturally confirmed signals.
func NaturalExits(p domain.Params) Exits {
	return Exits{
		TakeProfitPct: p.TakeProfitPct,
		StopLossPct:   p.StopLossPct,
		MinRiskReward: p.MinRiskReward,
	}
}

// FallbackExits returns the reduced exit set used by the relaxed and
// trend-following tiers.
func FallbackExits(p domain.Params) Exits {
	return Exits{
		TakeProfitPct: p.FallbackTakeProfitPct,
		StopLossPct:   p.FallbackStopLossPct,
		MinRiskReward: p.FallbackMinRiskReward,
	}
}

// Build turns a confirmed direction into a concrete signal, or rejects
// it. The risk/reward gate is hard: no signal below the minimum is
// ever returned, which is what keeps the strategy selective.
//
// Price layout:
//
//	BUY:  stop = entry*(1-sl), target = entry*(1+tp)
//	SELL: stop = entry*(1+sl), target = entry*(1-tp)
func Build(
	symbol string,
	direction domain.Direction,
	entryPrice float64,
	createdAt int64,
	confidence float64,
	confirmations int,
	source domain.Source,
	exits Exits,
) (*domain.Signal, error) {
	if entryPrice <= 0 {
		return nil, ErrNonPositiveEntry
	}

	var target, stop, risk, reward float64
	if direction == domain.DirectionBuy {
		stop = entryPrice * (1 - exits.StopLossPct)
		target = entryPrice * (1 + exits.TakeProfitPct)
		risk = entryPrice - stop
		reward = target - entryPrice
	} else {
		stop = entryPrice * (1 + exits.StopLossPct)
		target = entryPrice * (1 - exits.TakeProfitPct)
		risk = stop - entryPrice
		reward = entryPrice - target
	}

	if risk <= 0 {
		return nil, ErrNonPositiveRisk
	}
	rr := reward / risk
	if rr < exits.MinRiskReward {
		return nil, ErrRiskRewardTooLow
	}

	return &domain.Signal{
		ID:        idhash.ComputeSignalID(symbol, string(direction), string(source), createdAt),
		Symbol:    symbol,
		Direction: direction,
		CreatedAt: createdAt,

		EntryPrice:  entryPrice,
		TargetPrice: target,
		StopLoss:    stop,
		RiskReward:  rr,

		Confidence:    confidence,
		Confirmations: confirmations,
		Strength:      domain.StrengthForConfirmations(confirmations),
		Source:        source,
	}, nil
}
