package frequency

import (
	"sort"

	"trading-signal-lab/internal/candles"
	"trading-signal-lab/internal/confirm"
	"trading-signal-lab/internal/domain"
	"trading-signal-lab/internal/indicators"
	"trading-signal-lab/internal/signalgen"
)

// Enforcer guarantees a minimum signal cadence over a backtest range.
// A strategy producing zero signals over a long window is a usability
// defect, not a valid outcome, so scarcity escalates through tiers:
// natural -> relaxed confirmation -> trend-following -> synthetic
// (the last only when no candle data exists at all).
type Enforcer struct {
	params domain.Params
	gen    *signalgen.Generator
}

// NewEnforcer creates a frequency enforcer sharing the walk-forward
// generator of the run.
func NewEnforcer(params domain.Params, gen *signalgen.Generator) *Enforcer {
	return &Enforcer{params: params, gen: gen}
}

// RequiredSignals returns the minimum signal count for a range of the
// given day length: ceil(days / interval).
func RequiredSignals(days, intervalDays int) int {
	if days <= 0 || intervalDays <= 0 {
		return 0
	}
	return (days + intervalDays - 1) / intervalDays
}

// Enforce tops up the natural signals until the range holds at least
// ceil(days/interval) of them. Each tier only fills interval slots
// that no earlier tier already covered, so natural signals are never
// displaced and dates with a signal are skipped. The returned slice
// is sorted by creation time, then id.
func (e *Enforcer) Enforce(
	series *candles.Series,
	snaps []*indicators.Snapshot,
	natural []*domain.Signal,
	rangeStart, rangeEnd int64,
) []*domain.Signal {
	days := daysInRange(rangeStart, rangeEnd)
	required := RequiredSignals(days, e.params.MinSignalIntervalDays)

	out := append([]*domain.Signal(nil), natural...)
	if required == 0 || len(out) >= required {
		sortSignals(out)
		return out
	}

	// Tier 4 stands alone: synthetic signals are generated only when
	// no real candles exist, never alongside real data.
	if series.Empty() {
		out = append(out, e.syntheticPass(series.Symbol(), rangeStart, rangeEnd, required)...)
		sortSignals(out)
		return out
	}

	slotMs := (rangeEnd - rangeStart + 1) / int64(required)
	if slotMs <= 0 {
		slotMs = domain.DayMs
	}
	occupied := occupiedSlots(out, rangeStart, slotMs, required)
	taken := takenDates(out)

	relaxedProfile := confirm.RelaxedProfile(e.params)
	exits := signalgen.FallbackExits(e.params)

	for slot := 0; slot < required && len(out) < required; slot++ {
		if occupied[slot] {
			continue
		}
		target := rangeStart + int64(slot)*slotMs + slotMs/2
		i, ok := indexAtOrBefore(series, target)
		if !ok {
			continue // range starts before the first candle
		}
		ts := series.At(i).Timestamp
		if taken[ts] {
			continue // a date carries at most one enforced signal
		}

		// Tier 2: relaxed confirmation at the target date.
		if sig, ok := e.gen.EvaluateDay(series, snaps, i, relaxedProfile, exits, domain.SourceRelaxed); ok {
			out = append(out, sig)
			occupied[slot] = true
			taken[ts] = true
			continue
		}

		// Tier 3: raw trend bias, no confirmation scoring.
		if sig, ok := e.gen.TrendFollowingDay(series, snaps, i, exits); ok {
			out = append(out, sig)
			occupied[slot] = true
			taken[ts] = true
		}
	}

	sortSignals(out)
	return out
}

// daysInRange counts calendar days covered by [start, end] inclusive.
func daysInRange(start, end int64) int {
	if end < start {
		return 0
	}
	return int((end-start)/domain.DayMs) + 1
}

// occupiedSlots marks which interval slots already hold a signal.
func occupiedSlots(signals []*domain.Signal, rangeStart, slotMs int64, slots int) []bool {
	occupied := make([]bool, slots)
	for _, s := range signals {
		slot := int((s.CreatedAt - rangeStart) / slotMs)
		if slot >= 0 && slot < slots {
			occupied[slot] = true
		}
	}
	return occupied
}

// takenDates collects the creation timestamps already holding a signal.
func takenDates(signals []*domain.Signal) map[int64]bool {
	taken := make(map[int64]bool, len(signals))
	for _, s := range signals {
		taken[s.CreatedAt] = true
	}
	return taken
}

// indexAtOrBefore finds the index of the latest candle at or before
// ts. Returns false when every candle is later than ts.
func indexAtOrBefore(series *candles.Series, ts int64) (int, bool) {
	idx := sort.Search(series.Len(), func(i int) bool {
		return series.At(i).Timestamp > ts
	})
	if idx == 0 {
		return 0, false
	}
	return idx - 1, true
}

// sortSignals orders by creation time ascending, id as tie-break, for
// deterministic output.
func sortSignals(signals []*domain.Signal) {
	sort.Slice(signals, func(i, j int) bool {
		if signals[i].CreatedAt != signals[j].CreatedAt {
			return signals[i].CreatedAt < signals[j].CreatedAt
		}
		return signals[i].ID < signals[j].ID
	})
}
