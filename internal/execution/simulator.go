package execution

import (
	"trading-signal-lab/internal/candles"
	"trading-signal-lab/internal/domain"
)

// Simulator replays signals against subsequent historical bars to
// decide whether the target or the stop would have been hit. It
// consumes signals, never mutates them, and produces exactly one
// ExecutionResult per signal.
type Simulator struct {
	params domain.Params
}

// NewSimulator creates a simulator with the run parameters.
func NewSimulator(params domain.Params) *Simulator {
	return &Simulator{params: params}
}

// ResolveAll resolves every signal independently. A degenerate signal
// resolves to an error status; it never prevents resolution of the
// remaining signals.
func (s *Simulator) ResolveAll(signals []*domain.Signal, series *candles.Series) []*domain.ExecutionResult {
	out := make([]*domain.ExecutionResult, len(signals))
	for i, sig := range signals {
		out[i] = s.Resolve(sig, series)
	}
	return out
}

// Resolve scans the candles inside the execution window, in
// chronological order, and resolves the signal to one of:
// INVALID_PRICES, NO_DATA, TARGET_HIT, STOP_LOSS_HIT or CLOSE_PRICE.
func (s *Simulator) Resolve(sig *domain.Signal, series *candles.Series) *domain.ExecutionResult {
	if sig.EntryPrice <= 0 || sig.TargetPrice <= 0 || sig.StopLoss <= 0 {
		return &domain.ExecutionResult{SignalID: sig.ID, Status: domain.StatusInvalidPrices}
	}

	windowEnd := sig.CreatedAt + int64(s.params.ExecutionWindowDays)*domain.DayMs
	window := series.Between(sig.CreatedAt, windowEnd)
	if len(window) == 0 {
		return &domain.ExecutionResult{SignalID: sig.ID, Status: domain.StatusNoData}
	}

	for _, bar := range window {
		targetHit, stopHit := touches(sig, bar)
		if !targetHit && !stopHit {
			continue
		}

		// Same-candle ties resolve by policy. Target-first is
		// optimistic and can overstate win rate; stop-first exists for
		// sensitivity runs.
		if targetHit && stopHit && s.params.TieBreak == domain.TieBreakStopFirst {
			targetHit = false
		}
		if targetHit {
			return resolved(sig, domain.StatusTargetHit, sig.TargetPrice, bar.Timestamp)
		}
		return resolved(sig, domain.StatusStopLossHit, sig.StopLoss, bar.Timestamp)
	}

	// Neither side touched inside the window: time exit at the close
	// of the last bar.
	last := window[len(window)-1]
	return resolved(sig, domain.StatusClosePrice, last.Close, last.Timestamp)
}

// touches reports whether a bar reaches the signal's target and/or
// stop. BUY profits upward: target at the high, stop at the low.
// SELL is symmetric.
func touches(sig *domain.Signal, bar *domain.Candle) (targetHit, stopHit bool) {
	if sig.Direction == domain.DirectionBuy {
		return bar.High >= sig.TargetPrice, bar.Low <= sig.StopLoss
	}
	return bar.Low <= sig.TargetPrice, bar.High >= sig.StopLoss
}

// resolved builds the result for an opened trade. P&L is directionally
// signed: BUY profits on price rise, SELL on price fall.
func resolved(sig *domain.Signal, status domain.ExecutionStatus, price float64, ts int64) *domain.ExecutionResult {
	var pnlPct float64
	if sig.Direction == domain.DirectionBuy {
		pnlPct = (price - sig.EntryPrice) / sig.EntryPrice * 100
	} else {
		pnlPct = (sig.EntryPrice - price) / sig.EntryPrice * 100
	}

	profitable := false
	switch status {
	case domain.StatusTargetHit:
		profitable = true
	case domain.StatusStopLossHit:
		profitable = false
	case domain.StatusClosePrice:
		profitable = pnlPct > 0
	}

	return &domain.ExecutionResult{
		SignalID:       sig.ID,
		Status:         status,
		ExecutionPrice: price,
		ExecutionTime:  ts,
		ProfitLossPct:  pnlPct,
		IsProfitable:   &profitable,
	}
}
