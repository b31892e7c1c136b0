package backtest

import (
	"context"
	"errors"
	"fmt"

	"trading-signal-lab/internal/candles"
	"trading-signal-lab/internal/domain"
	"trading-signal-lab/internal/execution"
	"trading-signal-lab/internal/frequency"
	"trading-signal-lab/internal/metrics"
	"trading-signal-lab/internal/signalgen"
	"trading-signal-lab/internal/storage"
)

// Runner errors.
var (
	ErrInvalidRange = errors.New("range end must not precede range start")
)

// Result holds one full backtest output: the ordered signal list, one
// execution result per signal, and the aggregate report.
type Result struct {
	Symbol     string
	Params     domain.Params
	Signals    []*domain.Signal
	Executions []*domain.ExecutionResult
	Report     *domain.PerformanceReport
}

// Pairs joins signals with their executions, index-aligned.
func (r *Result) Pairs() []metrics.Pair {
	pairs := make([]metrics.Pair, len(r.Signals))
	for i := range r.Signals {
		pairs[i] = metrics.Pair{Signal: r.Signals[i], Result: r.Executions[i]}
	}
	return pairs
}

// Runner executes the walk-forward pipeline for one symbol at a time:
// candles -> indicators -> trend/structure/confirmation per day ->
// signal factory -> frequency enforcement -> execution replay ->
// aggregation. Runs for different symbols or parameter sets are
// independent; each owns its series, signal list and report.
type Runner struct {
	candleStore storage.CandleStore
}

// NewRunner creates a runner fetching candles through the given store.
func NewRunner(candleStore storage.CandleStore) *Runner {
	return &Runner{candleStore: candleStore}
}

// Run fetches the symbol's candles for [from, to] and backtests them.
// An empty candle sequence is not an error: the synthetic fallback
// tier covers it and the report is flagged accordingly.
func (r *Runner) Run(ctx context.Context, symbol string, from, to int64, params domain.Params) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if to < from {
		return nil, ErrInvalidRange
	}

	cs, err := r.candleStore.GetByTimeRange(ctx, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch candles for %s: %w", symbol, err)
	}
	series, err := candles.NewSeries(symbol, cs)
	if err != nil {
		return nil, fmt.Errorf("candle series for %s: %w", symbol, err)
	}

	return RunSeries(ctx, series, from, to, params)
}

// RunSeries backtests an already materialized candle series. The
// series must only contain candles inside [from, to].
func RunSeries(ctx context.Context, series *candles.Series, from, to int64, params domain.Params) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if to < from {
		return nil, ErrInvalidRange
	}

	gen := signalgen.NewGenerator(params)
	snaps := gen.Snapshots(series)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	natural := gen.NaturalPass(series, snaps)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	enforcer := frequency.NewEnforcer(params, gen)
	signals := enforcer.Enforce(series, snaps, natural, from, to)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sim := execution.NewSimulator(params)
	executions := sim.ResolveAll(signals, series)

	result := &Result{
		Symbol:     series.Symbol(),
		Params:     params,
		Signals:    signals,
		Executions: executions,
	}
	result.Report = metrics.Compute(result.Pairs())
	return result, nil
}
