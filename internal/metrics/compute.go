package metrics

import (
	"math"
	"sort"

	"trading-signal-lab/internal/domain"
)

// tradingDaysPerYear annualizes Sharpe/Sortino by sqrt(252).
const tradingDaysPerYear = 252

// Quality score weights: execution rate, win rate, clamped profit.
const (
	weightExecutionRate = 0.4
	weightProfitRate    = 0.3
	weightProfitPct     = 0.3
)

// Pair joins a signal with its execution result.
type Pair struct {
	Signal *domain.Signal
	Result *domain.ExecutionResult
}

// Compute aggregates execution results into a performance report. It
// is a pure function: calling it twice on the same input returns
// identical reports, and nothing is cached between calls.
func Compute(pairs []Pair) *domain.PerformanceReport {
	report := &domain.PerformanceReport{
		SourceCounts: make(map[domain.Source]int),
	}
	n := len(pairs)
	report.TotalSignals = n
	if n == 0 {
		report.Rating = domain.RatingForScore(0)
		return report
	}

	// Sort deterministically by creation time, then signal id, so
	// order-dependent metrics (drawdown) are stable.
	sorted := make([]Pair, n)
	copy(sorted, pairs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Signal.CreatedAt != sorted[j].Signal.CreatedAt {
			return sorted[i].Signal.CreatedAt < sorted[j].Signal.CreatedAt
		}
		return sorted[i].Signal.ID < sorted[j].Signal.ID
	})

	var returns []float64 // resolved per-signal P&L percentages, chronological
	var grossProfit, grossLoss float64

	for _, p := range sorted {
		report.SourceCounts[p.Signal.Source]++
		if p.Signal.Source == domain.SourceSyntheticFallback {
			report.IsSynthetic = true
		}

		if p.Result == nil || !p.Result.Resolved() {
			report.NotOpenedCount++
			continue
		}

		report.Executed++
		pnl := p.Result.ProfitLossPct
		returns = append(returns, pnl)
		report.TotalReturnPct += pnl

		if p.Result.IsProfitable != nil && *p.Result.IsProfitable {
			report.ProfitCount++
			grossProfit += pnl
		} else {
			report.LossCount++
			grossLoss += pnl
		}
	}

	if resolved := report.ProfitCount + report.LossCount; resolved > 0 {
		report.WinRate = float64(report.ProfitCount) / float64(resolved)
	}

	switch {
	case grossLoss < 0:
		report.ProfitFactor = grossProfit / math.Abs(grossLoss)
	case grossProfit > 0:
		report.InfiniteProfit = true
	}

	report.MaxDrawdown = maxDrawdown(returns)
	report.SharpeRatio = sharpe(returns)
	report.SortinoRatio = sortino(returns)

	report.QualityScore = qualityScore(report)
	report.Rating = domain.RatingForScore(report.QualityScore)
	return report
}

// qualityScore blends execution rate, win rate and clamped total
// return into a 0-100 score.
func qualityScore(r *domain.PerformanceReport) float64 {
	executionRate := float64(r.Executed) / float64(r.TotalSignals)
	profitPct := clamp(r.TotalReturnPct, 0, 100)
	return executionRate*100*weightExecutionRate +
		r.WinRate*100*weightProfitRate +
		profitPct*weightProfitPct
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// maxDrawdown computes the largest peak-to-trough decline of the
// synthesized equity curve (fixed capital per signal, cumulative P&L).
// Returns must be in chronological order.
func maxDrawdown(returns []float64) float64 {
	cumulative := 0.0
	peak := 0.0
	worst := 0.0
	for _, r := range returns {
		cumulative += r
		if cumulative > peak {
			peak = cumulative
		}
		if dd := peak - cumulative; dd > worst {
			worst = dd
		}
	}
	return worst
}

// sharpe is mean return over sample standard deviation, annualized.
func sharpe(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	m := mean(returns)
	sd := stddev(returns, m)
	if sd == 0 {
		return 0
	}
	return m / sd * math.Sqrt(tradingDaysPerYear)
}

// sortino replaces the denominator with downside-only deviation.
func sortino(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	m := mean(returns)
	sumSq := 0.0
	for _, r := range returns {
		if r < 0 {
			sumSq += r * r
		}
	}
	downside := math.Sqrt(sumSq / float64(len(returns)))
	if downside == 0 {
		return 0
	}
	return m / downside * math.Sqrt(tradingDaysPerYear)
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev is the sample standard deviation (n-1 denominator).
func stddev(values []float64, m float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n-1))
}
