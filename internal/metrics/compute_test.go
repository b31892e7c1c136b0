package metrics

import (
	"math"
	"testing"

	"trading-signal-lab/internal/domain"
)

func boolPtr(b bool) *bool { return &b }

// pair builds a resolved signal/result pair at the given day with the
// given P&L percentage.
func pair(id string, day int, pnl float64) Pair {
	return Pair{
		Signal: &domain.Signal{
			ID:        id,
			Symbol:    "TEST",
			CreatedAt: int64(day) * domain.DayMs,
			Source:    domain.SourceNatural,
		},
		Result: &domain.ExecutionResult{
			SignalID:      id,
			Status:        domain.StatusClosePrice,
			ProfitLossPct: pnl,
			IsProfitable:  boolPtr(pnl > 0),
		},
	}
}

func unopened(id string, day int) Pair {
	return Pair{
		Signal: &domain.Signal{ID: id, CreatedAt: int64(day) * domain.DayMs, Source: domain.SourceNatural},
		Result: &domain.ExecutionResult{SignalID: id, Status: domain.StatusNoData},
	}
}

func TestCompute_Empty(t *testing.T) {
	report := Compute(nil)
	if report.TotalSignals != 0 || report.Executed != 0 {
		t.Error("empty input must produce zero counts")
	}
	if report.Rating != domain.RatingVeryPoor {
		t.Errorf("Rating = %s, want Very Poor", report.Rating)
	}
}

func TestCompute_Counts(t *testing.T) {
	report := Compute([]Pair{
		pair("a", 1, 5),
		pair("b", 2, -3),
		pair("c", 3, 2),
		unopened("d", 4),
	})

	if report.TotalSignals != 4 {
		t.Errorf("TotalSignals = %d, want 4", report.TotalSignals)
	}
	if report.Executed != 3 {
		t.Errorf("Executed = %d, want 3", report.Executed)
	}
	if report.ProfitCount != 2 || report.LossCount != 1 {
		t.Errorf("profit/loss = %d/%d, want 2/1", report.ProfitCount, report.LossCount)
	}
	if report.NotOpenedCount != 1 {
		t.Errorf("NotOpenedCount = %d, want 1", report.NotOpenedCount)
	}
	if math.Abs(report.WinRate-2.0/3.0) > 1e-12 {
		t.Errorf("WinRate = %v, want 2/3", report.WinRate)
	}
	if math.Abs(report.TotalReturnPct-4) > 1e-12 {
		t.Errorf("TotalReturnPct = %v, want 4", report.TotalReturnPct)
	}
	if math.Abs(report.ProfitFactor-7.0/3.0) > 1e-12 {
		t.Errorf("ProfitFactor = %v, want 7/3", report.ProfitFactor)
	}
	if report.InfiniteProfit {
		t.Error("losses exist, profit factor must be finite")
	}
}

func TestCompute_InfiniteProfitFactor(t *testing.T) {
	report := Compute([]Pair{pair("a", 1, 5), pair("b", 2, 3)})
	if !report.InfiniteProfit {
		t.Error("profits without losses must flag InfiniteProfit")
	}
	if report.ProfitFactor != 0 {
		t.Errorf("ProfitFactor = %v, want 0 alongside the flag", report.ProfitFactor)
	}

	// No trades at all: neither infinite nor positive.
	report = Compute([]Pair{unopened("c", 1)})
	if report.InfiniteProfit || report.ProfitFactor != 0 {
		t.Error("no resolved trades must leave profit factor zero")
	}
}

func TestCompute_MaxDrawdown(t *testing.T) {
	// Equity: +10 -> +4 -> +9 -> +1. Peak 10, trough 1 => drawdown 9.
	report := Compute([]Pair{
		pair("a", 1, 10),
		pair("b", 2, -6),
		pair("c", 3, 5),
		pair("d", 4, -8),
	})
	if math.Abs(report.MaxDrawdown-9) > 1e-12 {
		t.Errorf("MaxDrawdown = %v, want 9", report.MaxDrawdown)
	}

	// Monotonic gains have no drawdown.
	report = Compute([]Pair{pair("a", 1, 2), pair("b", 2, 3)})
	if report.MaxDrawdown != 0 {
		t.Errorf("MaxDrawdown = %v, want 0", report.MaxDrawdown)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	input := []Pair{pair("a", 1, 5), pair("b", 2, -3), unopened("c", 3)}

	first := Compute(input)
	second := Compute(input)

	if !reportsEqual(first, second) {
		t.Error("repeated aggregation over the same input must be identical")
	}
}

// reportsEqual compares reports field by field; the SourceCounts map
// blocks direct struct comparison.
func reportsEqual(a, b *domain.PerformanceReport) bool {
	if a.TotalSignals != b.TotalSignals || a.Executed != b.Executed ||
		a.WinRate != b.WinRate || a.ProfitFactor != b.ProfitFactor ||
		a.TotalReturnPct != b.TotalReturnPct || a.SharpeRatio != b.SharpeRatio ||
		a.SortinoRatio != b.SortinoRatio || a.MaxDrawdown != b.MaxDrawdown ||
		a.QualityScore != b.QualityScore || a.Rating != b.Rating {
		return false
	}
	if len(a.SourceCounts) != len(b.SourceCounts) {
		return false
	}
	for k, v := range a.SourceCounts {
		if b.SourceCounts[k] != v {
			return false
		}
	}
	return true
}

func TestCompute_OrderIndependent(t *testing.T) {
	forward := []Pair{pair("a", 1, 10), pair("b", 2, -6), pair("c", 3, 5)}
	reversed := []Pair{forward[2], forward[0], forward[1]}

	if !reportsEqual(Compute(forward), Compute(reversed)) {
		t.Error("input order must not change the report")
	}
}

func TestCompute_SyntheticFlag(t *testing.T) {
	p := pair("a", 1, 5)
	p.Signal.Source = domain.SourceSyntheticFallback

	report := Compute([]Pair{p, pair("b", 2, 3)})
	if !report.IsSynthetic {
		t.Error("any synthetic signal must flag the report")
	}
	if report.SourceCounts[domain.SourceSyntheticFallback] != 1 {
		t.Errorf("synthetic count = %d, want 1", report.SourceCounts[domain.SourceSyntheticFallback])
	}
	if report.SourceCounts[domain.SourceNatural] != 1 {
		t.Errorf("natural count = %d, want 1", report.SourceCounts[domain.SourceNatural])
	}

	if Compute([]Pair{pair("c", 1, 2)}).IsSynthetic {
		t.Error("report without synthetic signals must not be flagged")
	}
}

func TestCompute_QualityScore(t *testing.T) {
	// Two signals, both executed, both profitable, total return 10:
	// 1.0*100*0.4 + 1.0*100*0.3 + 10*0.3 = 73.
	report := Compute([]Pair{pair("a", 1, 6), pair("b", 2, 4)})
	if math.Abs(report.QualityScore-73) > 1e-9 {
		t.Errorf("QualityScore = %v, want 73", report.QualityScore)
	}
	if report.Rating != domain.RatingGood {
		t.Errorf("Rating = %s, want Good", report.Rating)
	}
}

func TestCompute_QualityScoreClampsReturn(t *testing.T) {
	// Total return above 100 contributes exactly 100.
	a := Compute([]Pair{pair("a", 1, 150)})
	b := Compute([]Pair{pair("b", 1, 100)})
	if a.QualityScore != b.QualityScore {
		t.Errorf("returns above 100 must clamp: %v vs %v", a.QualityScore, b.QualityScore)
	}

	// Negative return contributes zero, not a penalty below zero.
	c := Compute([]Pair{pair("c", 1, -50)})
	want := 1.0*100*0.4 + 0 + 0 // executed, no wins, clamped return
	if math.Abs(c.QualityScore-want) > 1e-9 {
		t.Errorf("QualityScore = %v, want %v", c.QualityScore, want)
	}
}

func TestCompute_SharpeAndSortino(t *testing.T) {
	// Mixed returns: both ratios defined and finite.
	report := Compute([]Pair{
		pair("a", 1, 4), pair("b", 2, -2), pair("c", 3, 3), pair("d", 4, -1),
	})
	if report.SharpeRatio == 0 {
		t.Error("mixed returns must produce a non-zero Sharpe ratio")
	}
	if report.SortinoRatio == 0 {
		t.Error("negative returns present, Sortino must be non-zero")
	}
	if math.IsNaN(report.SharpeRatio) || math.IsInf(report.SharpeRatio, 0) {
		t.Error("Sharpe must be finite")
	}

	// All-positive returns: downside deviation is zero, Sortino stays 0.
	report = Compute([]Pair{pair("a", 1, 4), pair("b", 2, 2)})
	if report.SortinoRatio != 0 {
		t.Errorf("SortinoRatio = %v, want 0 without downside", report.SortinoRatio)
	}

	// A single resolved trade has no deviation to divide by.
	report = Compute([]Pair{pair("a", 1, 4)})
	if report.SharpeRatio != 0 {
		t.Errorf("SharpeRatio = %v, want 0 for a single return", report.SharpeRatio)
	}
}
