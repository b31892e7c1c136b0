package domain

// Rating buckets a quality score into a qualitative verdict.
type Rating string

// Rating constants.
const (
	RatingExcellent Rating = "Excellent"
	RatingGood      Rating = "Good"
	RatingFair      Rating = "Fair"
	RatingPoor      Rating = "Poor"
	RatingVeryPoor  Rating = "Very Poor"
)

// RatingForScore maps a quality score (0-100) to its rating.
func RatingForScore(score float64) Rating {
	switch {
	case score >= 80:
		return RatingExcellent
	case score >= 60:
		return RatingGood
	case score >= 40:
		return RatingFair
	case score >= 20:
		return RatingPoor
	default:
		return RatingVeryPoor
	}
}

// PerformanceReport aggregates a set of execution results.
// Recomputed fresh on every aggregation call; holds no mutable state.
type PerformanceReport struct {
	// Counts
	TotalSignals   int
	Executed       int // signals that resolved to an outcome
	ProfitCount    int
	LossCount      int
	NotOpenedCount int // NO_DATA / INVALID_PRICES / NOT_EXECUTED

	// Ratios
	WinRate        float64 // profits / (profits + losses), 0 when no resolved trades
	ProfitFactor   float64 // gross profit / |gross loss|; see InfiniteProfit
	InfiniteProfit bool    // true when there are profits and no losses
	TotalReturnPct float64 // sum of per-signal P&L percentages

	// Risk
	SharpeRatio  float64 // annualized by sqrt(252)
	SortinoRatio float64 // downside-deviation variant, annualized by sqrt(252)
	MaxDrawdown  float64 // largest peak-to-trough decline of the equity curve

	// Quality
	QualityScore float64 // 0-100 weighted blend
	Rating       Rating

	// Provenance
	IsSynthetic  bool           // any input signal came from the synthetic fallback
	SourceCounts map[Source]int // signal count per generation tier
}
