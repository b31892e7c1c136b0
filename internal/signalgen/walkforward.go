package signalgen

import (
	"errors"

	"trading-signal-lab/internal/candles"
	"trading-signal-lab/internal/confirm"
	"trading-signal-lab/internal/domain"
	"trading-signal-lab/internal/indicators"
	"trading-signal-lab/internal/structure"
	"trading-signal-lab/internal/trend"
)

// trendFollowingConfidence is the fixed confidence of signals that
// bypass confirmation scoring entirely.
const trendFollowingConfidence = 0.4

// Generator runs the walk-forward evaluation. Everything it reads at
// index i comes from candles[0..i]; it never observes a later bar.
type Generator struct {
	params          domain.Params
	periods         indicators.Periods
	structureWindow int
}

// NewGenerator creates a walk-forward generator with default indicator
// periods and structure window.
func NewGenerator(params domain.Params) *Generator {
	return &Generator{
		params:          params,
		periods:         indicators.DefaultPeriods(),
		structureWindow: structure.DefaultWindow,
	}
}

// Snapshots computes the per-candle indicator snapshots for a series.
func (g *Generator) Snapshots(series *candles.Series) []*indicators.Snapshot {
	return indicators.Compute(series, g.periods)
}

// NaturalPass evaluates every day of the series with the strict
// profile and the natural exit set. This is the main walk-forward
// loop; days that fail the confirmation or risk/reward gate simply
// produce nothing.
func (g *Generator) NaturalPass(series *candles.Series, snaps []*indicators.Snapshot) []*domain.Signal {
	profile := confirm.NaturalProfile(g.params)
	exits := NaturalExits(g.params)

	var out []*domain.Signal
	for i := 1; i < series.Len(); i++ {
		sig, ok := g.EvaluateDay(series, snaps, i, profile, exits, domain.SourceNatural)
		if ok {
			out = append(out, sig)
		}
	}
	return out
}

// EvaluateDay runs trend, structure and confirmation analysis for one
// bar and, when a direction qualifies, builds the signal through the
// factory gate. Returns false when the day yields nothing.
func (g *Generator) EvaluateDay(
	series *candles.Series,
	snaps []*indicators.Snapshot,
	i int,
	profile confirm.Profile,
	exits Exits,
	source domain.Source,
) (*domain.Signal, bool) {
	if i < 1 || i >= series.Len() {
		return nil, false
	}
	curr, prev := snaps[i], snaps[i-1]
	if curr == nil || prev == nil {
		return nil, false // warm-up not satisfied, cannot evaluate
	}

	res := confirm.Evaluate(profile, confirm.Input{
		Bias:      trend.Classify(prev, curr),
		Structure: structure.Analyze(series, i, g.structureWindow),
		Prev:      prev,
		Curr:      curr,
		Recent:    g.recentCandles(series, i),
	})
	if !res.Confirmed {
		return nil, false
	}

	bar := series.At(i)
	sig, err := Build(series.Symbol(), res.Direction, bar.Close, bar.Timestamp,
		res.Confidence, res.Confirmations, source, exits)
	if err != nil {
		// Gate rejections are expected; they are how the strategy
		// stays selective.
		if errors.Is(err, ErrRiskRewardTooLow) || errors.Is(err, ErrNonPositiveRisk) || errors.Is(err, ErrNonPositiveEntry) {
			return nil, false
		}
		return nil, false
	}
	return sig, true
}

// TrendFollowingDay accepts the raw trend bias at index i as the trade
// direction, bypassing confirmation scoring. When the bias is NEUTRAL
// the direction falls back to close-over-close momentum across the
// structure window so the tier always produces a direction.
func (g *Generator) TrendFollowingDay(
	series *candles.Series,
	snaps []*indicators.Snapshot,
	i int,
	exits Exits,
) (*domain.Signal, bool) {
	if i < 0 || i >= series.Len() {
		return nil, false
	}

	direction := domain.DirectionBuy
	bias := trend.BiasNeutral
	if i >= 1 && snaps[i] != nil && snaps[i-1] != nil {
		bias = trend.Classify(snaps[i-1], snaps[i])
	}
	switch bias {
	case trend.BiasBullish:
		direction = domain.DirectionBuy
	case trend.BiasBearish:
		direction = domain.DirectionSell
	default:
		lookback := i - g.structureWindow
		if lookback < 0 {
			lookback = 0
		}
		if series.At(i).Close < series.At(lookback).Close {
			direction = domain.DirectionSell
		}
	}

	bar := series.At(i)
	sig, err := Build(series.Symbol(), direction, bar.Close, bar.Timestamp,
		trendFollowingConfidence, 0, domain.SourceTrendFollowing, exits)
	if err != nil {
		return nil, false
	}
	return sig, true
}

// recentCandles returns the last up-to-3 candles ending at index i,
// chronological.
func (g *Generator) recentCandles(series *candles.Series, i int) []*domain.Candle {
	from := i - 2
	if from < 0 {
		from = 0
	}
	out := make([]*domain.Candle, 0, 3)
	for j := from; j <= i; j++ {
		out = append(out, series.At(j))
	}
	return out
}
