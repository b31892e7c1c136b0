package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trading-signal-lab/internal/backtest"
	"trading-signal-lab/internal/candles"
	"trading-signal-lab/internal/config"
	"trading-signal-lab/internal/domain"
	"trading-signal-lab/internal/storage"
	chstore "trading-signal-lab/internal/storage/clickhouse"
	"trading-signal-lab/internal/storage/memory"
	"trading-signal-lab/internal/storage/migrations"
	pgstore "trading-signal-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	symbol := flag.String("symbol", "", "Symbol to backtest, e.g. BTCUSDT (required)")
	fromStr := flag.String("from", "", "Range start, YYYY-MM-DD (required)")
	toStr := flag.String("to", "", "Range end, YYYY-MM-DD inclusive (required)")
	configPath := flag.String("config", "", "YAML parameter file (defaults when omitted)")

	// Candle source and persistence
	candlesCSV := flag.String("candles", "", "Candle CSV file for in-memory runs")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (candles)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (required with --persist)")

	// Output
	outputJSON := flag.Bool("json", false, "Output as JSON")
	persist := flag.Bool("persist", false, "Persist signals and execution results to PostgreSQL")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[backtest] ", log.LstdFlags)

	// Validate required flags
	if *symbol == "" {
		logger.Fatal("--symbol is required")
	}
	from, to := parseRange(logger, *fromStr, *toStr)

	params := domain.DefaultParams()
	if *configPath != "" {
		var err error
		params, err = config.Load(*configPath)
		if err != nil {
			logger.Fatalf("load config: %v", err)
		}
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	// Candle source: CSV into memory, or ClickHouse
	var candleStore storage.CandleStore
	switch {
	case *candlesCSV != "":
		candleStore = loadCSVStore(ctx, logger, *symbol, *candlesCSV)
	case *clickhouseDSN != "":
		conn, err := chstore.NewConn(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("connect to clickhouse: %v", err)
		}
		defer conn.Close()
		candleStore = chstore.NewCandleStore(conn)
	default:
		// Still runs: the synthetic fallback tier covers an empty range.
		logger.Println("No --candles or --clickhouse-dsn given, running on an empty series")
		candleStore = memory.NewCandleStore()
	}

	logger.Printf("Running backtest: symbol=%s from=%s to=%s", *symbol, *fromStr, *toStr)

	runner := backtest.NewRunner(candleStore)
	result, err := runner.Run(ctx, *symbol, from, to, params)
	if err != nil {
		logger.Fatalf("backtest failed: %v", err)
	}

	if *persist {
		persistResult(ctx, logger, *postgresDSN, result)
	}

	// Output result
	if *outputJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
	} else {
		printResult(result)
	}
}

// parseRange converts YYYY-MM-DD bounds to Unix millisecond timestamps.
// The end bound covers the whole final day.
func parseRange(logger *log.Logger, fromStr, toStr string) (int64, int64) {
	if fromStr == "" || toStr == "" {
		logger.Fatal("--from and --to are required")
	}
	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		logger.Fatalf("parse --from: %v", err)
	}
	to, err := time.Parse("2006-01-02", toStr)
	if err != nil {
		logger.Fatalf("parse --to: %v", err)
	}
	return from.UnixMilli(), to.UnixMilli() + domain.DayMs - 1
}

// loadCSVStore reads a candle CSV into an in-memory store.
func loadCSVStore(ctx context.Context, logger *log.Logger, symbol, path string) storage.CandleStore {
	f, err := os.Open(path)
	if err != nil {
		logger.Fatalf("open candle csv: %v", err)
	}
	defer f.Close()

	cs, err := candles.ReadCSV(f)
	if err != nil {
		logger.Fatalf("parse candle csv: %v", err)
	}

	store := memory.NewCandleStore()
	if err := store.InsertBulk(ctx, symbol, cs); err != nil {
		logger.Fatalf("load candles: %v", err)
	}
	logger.Printf("Loaded %d candles from %s", len(cs), path)
	return store
}

// persistResult writes signals and execution results to PostgreSQL.
func persistResult(ctx context.Context, logger *log.Logger, dsn string, result *backtest.Result) {
	if dsn == "" {
		logger.Fatal("--postgres-dsn is required with --persist")
	}

	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		logger.Fatalf("connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		logger.Fatalf("run postgres migrations: %v", err)
	}

	if err := pgstore.NewSignalStore(pool).InsertBulk(ctx, result.Signals); err != nil {
		logger.Fatalf("persist signals: %v", err)
	}
	if err := pgstore.NewExecutionStore(pool).InsertBulk(ctx, result.Executions); err != nil {
		logger.Fatalf("persist execution results: %v", err)
	}
	logger.Printf("Persisted %d signals and %d execution results", len(result.Signals), len(result.Executions))
}

// printResult outputs a human-readable backtest summary.
func printResult(r *backtest.Result) {
	rep := r.Report

	fmt.Println()
	fmt.Println("=== Backtest Result ===")
	fmt.Printf("Symbol:             %s\n", r.Symbol)
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
