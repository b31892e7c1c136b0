package optimizer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"trading-signal-lab/internal/backtest"
	"trading-signal-lab/internal/candles"
	"trading-signal-lab/internal/domain"
)

// ErrNoRuns is returned when a search produced no successful run.
var ErrNoRuns = errors.New("no successful optimization runs")

// Run is one evaluated parameter set. A failed run carries its error
// and never aborts the sibling runs.
type Run struct {
	Params domain.Params
	Result *backtest.Result
	Err    error
}

// Optimizer evaluates parameter sets by repeatedly invoking the
// backtest pipeline over one candle series. Cancellation is
// cooperative: the context is consulted between iterations, since a
// search can reach thousands of nested backtests.
type Optimizer struct {
	base  domain.Params
	cache Cache // optional, may be nil
}

// New creates an optimizer around a base parameter set. The cache is
// optional; pass nil to always recompute.
func New(base domain.Params, cache Cache) *Optimizer {
	return &Optimizer{base: base, cache: cache}
}

// GridSearch evaluates every override in order. Per-run failures are
// recorded on the Run; only cancellation stops the sweep early.
func (o *Optimizer) GridSearch(
	ctx context.Context,
	series *candles.Series,
	from, to int64,
	grid []domain.Overrides,
) ([]Run, error) {
	runs := make([]Run, 0, len(grid))
	for _, ov := range grid {
		if err := ctx.Err(); err != nil {
			return runs, err
		}
		runs = append(runs, o.evaluate(ctx, series, from, to, ov.Apply(o.base)))
	}
	return runs, nil
}

// SampleSpace bounds the randomly sampled parameters.
type SampleSpace struct {
	TakeProfitPct [2]float64
	StopLossPct   [2]float64
	MinRiskReward [2]float64
}

// RandomSearch draws `samples` parameter sets from the space using a
// seeded generator, so a search is reproducible from its seed.
func (o *Optimizer) RandomSearch(
	ctx context.Context,
	series *candles.Series,
	from, to int64,
	space SampleSpace,
	samples int,
	seed int64,
) ([]Run, error) {
	rng := rand.New(rand.NewSource(seed))
	runs := make([]Run, 0, samples)
	for i := 0; i < samples; i++ {
		if err := ctx.Err(); err != nil {
			return runs, err
		}
		p := o.base
		p.TakeProfitPct = sample(rng, space.TakeProfitPct)
		p.StopLossPct = sample(rng, space.StopLossPct)
		p.MinRiskReward = sample(rng, space.MinRiskReward)
		runs = append(runs, o.evaluate(ctx, series, from, to, p))
	}
	return runs, nil
}

// Best returns the successful run with the highest quality score.
func Best(runs []Run) (Run, error) {
	best := Run{}
	found := false
	for _, r := range runs {
		if r.Err != nil || r.Result == nil {
			continue
		}
		if !found || r.Result.Report.QualityScore > best.Result.Report.QualityScore {
			best = r
			found = true
		}
	}
	if !found {
		return Run{}, ErrNoRuns
	}
	return best, nil
}

// evaluate runs one backtest, via the cache when available.
func (o *Optimizer) evaluate(ctx context.Context, series *candles.Series, from, to int64, params domain.Params) Run {
	key := runKey(series.Symbol(), from, to, params)
	if o.cache != nil {
		if cached, ok := o.cache.Get(key); ok {
			return Run{Params: params, Result: cached}
		}
	}

	result, err := backtest.RunSeries(ctx, series, from, to, params)
	if err != nil {
		return Run{Params: params, Err: err}
	}
	if o.cache != nil {
		o.cache.Set(key, result)
	}
	return Run{Params: params, Result: result}
}

// runKey fingerprints a run by symbol, range and the parameters that
// influence its output.
func runKey(symbol string, from, to int64, p domain.Params) string {
	return fmt.Sprintf("%s|%d|%d|tp=%.4f|sl=%.4f|rr=%.3f|conf=%d|vol=%.3f|int=%d|win=%d|tie=%s|ftp=%.4f|fsl=%.4f|frr=%.3f",
		symbol, from, to,
		p.TakeProfitPct, p.StopLossPct, p.MinRiskReward,
		p.MinConfirmations, p.VolumeThreshold,
		p.MinSignalIntervalDays, p.ExecutionWindowDays, p.TieBreak,
		p.FallbackTakeProfitPct, p.FallbackStopLossPct, p.FallbackMinRiskReward,
	)
}

func sample(rng *rand.Rand, bounds [2]float64) float64 {
	lo, hi := bounds[0], bounds[1]
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}
