package metrics

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"trading-signal-lab/internal/domain"
	"trading-signal-lab/internal/storage"
)

// ErrNoSignals is returned when no signals are available for aggregation.
var ErrNoSignals = errors.New("no signals available for aggregation")

// Aggregator computes performance reports from stored signals and
// execution results. Reports are recomputed fresh on every call;
// nothing is cached here.
type Aggregator struct {
	signalStore    storage.SignalStore
	executionStore storage.ExecutionStore

	// MissingExecutions tracks signal ids without a stored result (for
	// data quality reporting). Key: signal_id, value: occurrence count.
	MissingExecutions map[string]int
}

// NewAggregator creates a report aggregator over the given stores.
func NewAggregator(signalStore storage.SignalStore, executionStore storage.ExecutionStore) *Aggregator {
	return &Aggregator{
		signalStore:       signalStore,
		executionStore:    executionStore,
		MissingExecutions: make(map[string]int),
	}
}

// ComputeReport aggregates all of a symbol's signals. A signal whose
// execution result is missing counts as NOT_EXECUTED rather than
// being silently skipped; its id is tracked in MissingExecutions.
// Returns ErrNoSignals when the symbol has no signals at all.
func (a *Aggregator) ComputeReport(ctx context.Context, symbol string) (*domain.PerformanceReport, error) {
	signals, err := a.signalStore.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if len(signals) == 0 {
		return nil, ErrNoSignals
	}

	pairs, err := a.pair(ctx, signals)
	if err != nil {
		return nil, err
	}
	return Compute(pairs), nil
}

// ComputeReportBySource aggregates only the signals of one generation
// tier, so natural and fallback performance can be compared.
func (a *Aggregator) ComputeReportBySource(ctx context.Context, symbol string, source domain.Source) (*domain.PerformanceReport, error) {
	signals, err := a.signalStore.GetBySource(ctx, symbol, source)
	if err != nil {
		return nil, err
	}
	if len(signals) == 0 {
		return nil, ErrNoSignals
	}

	pairs, err := a.pair(ctx, signals)
	if err != nil {
		return nil, err
	}
	return Compute(pairs), nil
}

// pair joins each signal with its stored execution result.
func (a *Aggregator) pair(ctx context.Context, signals []*domain.Signal) ([]Pair, error) {
	pairs := make([]Pair, 0, len(signals))
	for _, sig := range signals {
		result, err := a.executionStore.GetBySignalID(ctx, sig.ID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				a.MissingExecutions[sig.ID]++
				result = &domain.ExecutionResult{SignalID: sig.ID, Status: domain.StatusNotExecuted}
			} else {
				return nil, err
			}
		}
		pairs = append(pairs, Pair{Signal: sig, Result: result})
	}
	return pairs, nil
}

// MissingExecutionErrors returns data quality messages for signals
// without results, sorted by signal id for deterministic output.
func (a *Aggregator) MissingExecutionErrors() []string {
	if len(a.MissingExecutions) == 0 {
		return nil
	}

	ids := make([]string, 0, len(a.MissingExecutions))
	for id := range a.MissingExecutions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	msgs := make([]string, len(ids))
	for i, id := range ids {
		msgs[i] = fmt.Sprintf("signal %s has no execution result (%d occurrence(s))", id, a.MissingExecutions[id])
	}
	return msgs
}
