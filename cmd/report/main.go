package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"trading-signal-lab/internal/domain"
	"trading-signal-lab/internal/metrics"
	pgstore "trading-signal-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	symbol := flag.String("symbol", "", "Symbol to report on (required)")
	source := flag.String("source", "", "Restrict to one generation tier, e.g. NATURAL")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (required)")
	outputJSON := flag.Bool("json", false, "Output as JSON")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[report] ", log.LstdFlags)

	if *symbol == "" {
		logger.Fatal("--symbol is required")
	}
	if *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required")
	}

	ctx := context.Background()

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		logger.Fatalf("connect to postgres: %v", err)
	}
	defer pool.Close()

	agg := metrics.NewAggregator(pgstore.NewSignalStore(pool), pgstore.NewExecutionStore(pool))

	var report *domain.PerformanceReport
	if *source != "" {
		report, err = agg.ComputeReportBySource(ctx, *symbol, domain.Source(*source))
	} else {
		report, err = agg.ComputeReport(ctx, *symbol)
	}
	if err != nil {
		logger.Fatalf("compute report: %v", err)
	}

	for _, msg := range agg.MissingExecutionErrors() {
		logger.Printf("data quality: %s", msg)
	}

	if *outputJSON {
		output, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(output))
		return
	}

	printReport(*symbol, report)
}

// printReport outputs a human-readable performance report.
func printReport(symbol string, rep *domain.PerformanceReport) {
	fmt.Println()
	fmt.Println("=== Performance Report ===")
	fmt.Printf("Symbol:             %s\n", symbol)
	fmt.Printf("Signals:            %d\n", rep.TotalSignals)
	for _, src := range []domain.Source{
		domain.SourceNatural, domain.SourceRelaxed,
		domain.SourceTrendFollowing, domain.SourceSyntheticFallback,
	} {
		if n := rep.SourceCounts[src]; n > 0 {
			fmt.Printf("  %-17s %d\n", string(src)+":", n)
		}
	}
	fmt.Println()

	fmt.Println("Execution:")
	fmt.Printf("  Executed:         %d\n", rep.Executed)
	fmt.Printf("  Profitable:       %d\n", rep.ProfitCount)
	fmt.Printf("  Losing:           %d\n", rep.LossCount)
	fmt.Printf("  Not Opened:       %d\n", rep.NotOpenedCount)
	fmt.Println()

	fmt.Println("Performance:")
	fmt.Printf("  Win Rate:         %.2f%%\n", rep.WinRate*100)
	if rep.InfiniteProfit {
		fmt.Println("  Profit Factor:    inf (no losing trades)")
	} else {
		fmt.Printf("  Profit Factor:    %.2f\n", rep.ProfitFactor)
	}
	fmt.Printf("  Total Return:     %.2f%%\n", rep.TotalReturnPct)
	fmt.Printf("  Sharpe Ratio:     %.2f\n", rep.SharpeRatio)
	fmt.Printf("  Sortino Ratio:    %.2f\n", rep.SortinoRatio)
	fmt.Printf("  Max Drawdown:     %.2f%%\n", rep.MaxDrawdown)
	fmt.Println()

	fmt.Printf("Quality Score:      %.1f (%s)\n", rep.QualityScore, rep.Rating)
	if rep.IsSynthetic {
		fmt.Println("Note: includes synthetic fallback signals, treat metrics as placeholders")
	}
}
