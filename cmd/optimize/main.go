package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"trading-signal-lab/internal/candles"
	"trading-signal-lab/internal/config"
	"trading-signal-lab/internal/domain"
	"trading-signal-lab/internal/optimizer"
	chstore "trading-signal-lab/internal/storage/clickhouse"
)

func main() {
	// Parse flags
	symbol := flag.String("symbol", "", "Symbol to optimize, e.g. BTCUSDT (required)")
	fromStr := flag.String("from", "", "Range start, YYYY-MM-DD (required)")
	toStr := flag.String("to", "", "Range end, YYYY-MM-DD inclusive (required)")
	configPath := flag.String("config", "", "YAML parameter file for the base parameters")

	// Candle source
	candlesCSV := flag.String("candles", "", "Candle CSV file")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (candles)")

	// Search
	mode := flag.String("mode", "grid", "Search mode: grid or random")
	tpList := flag.String("take-profit", "0.10,0.15,0.20", "Grid: comma-separated take-profit fractions")
	slList := flag.String("stop-loss", "0.06,0.08,0.10", "Grid: comma-separated stop-loss fractions")
	rrList := flag.String("min-risk-reward", "1.2,1.5", "Grid: comma-separated risk/reward gates")
	samples := flag.Int("samples", 50, "Random: number of sampled parameter sets")
	seed := flag.Int64("seed", 1, "Random: sampling seed")
	cacheTTL := flag.Duration("cache-ttl", 10*time.Minute, "Result cache TTL (0 disables expiry)")

	// Output
	outputJSON := flag.Bool("json", false, "Output the best run as JSON")
	showAll := flag.Bool("all", false, "Print every evaluated run, not just the best")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[optimize] ", log.LstdFlags)

	if *symbol == "" {
		logger.Fatal("--symbol is required")
	}
	from, to := parseRange(logger, *fromStr, *toStr)

	base := domain.DefaultParams()
	if *configPath != "" {
		var err error
		base, err = config.Load(*configPath)
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
		logger.Printf("Received signal %v, stopping search...", sig)
		cancel()
	}()

	series := loadSeries(ctx, logger, *symbol, *candlesCSV, *clickhouseDSN, from, to)

	opt := optimizer.New(base, optimizer.NewMemoryCache(*cacheTTL))

	var runs []optimizer.Run
	var err error
	switch *mode {
	case "grid":
		grid := buildGrid(logger, *tpList, *slList, *rrList)
		logger.Printf("Grid search: %d parameter sets over %s", len(grid), *symbol)
		runs, err = opt.GridSearch(ctx, series, from, to, grid)
	case "random":
		space := optimizer.SampleSpace{
			TakeProfitPct: [2]float64{0.05, 0.30},
			StopLossPct:   [2]float64{0.03, 0.15},
			MinRiskReward: [2]float64{1.0, 3.0},
		}
		logger.Printf("Random search: %d samples over %s (seed %d)", *samples, *symbol, *seed)
		runs, err = opt.RandomSearch(ctx, series, from, to, space, *samples, *seed)
	default:
		logger.Fatalf("Unknown mode: %s. Must be grid or random", *mode)
	}
	if err != nil {
		// Cancellation still reports the runs finished so far.
		logger.Printf("search stopped early: %v (%d runs completed)", err, len(runs))
	}

	best, err := optimizer.Best(runs)
	if err != nil {
		logger.Fatalf("no usable result: %v", err)
	}

	if *showAll {
		printRuns(runs)
	}
	if *outputJSON {
		output, _ := json.MarshalIndent(best, "", "  ")
		fmt.Println(string(output))
	} else {
		printBest(best)
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

// loadSeries materializes the candle series once; every evaluated
// parameter set replays the same series.
func loadSeries(ctx context.Context, logger *log.Logger, symbol, csvPath, dsn string, from, to int64) *candles.Series {
	var cs []*domain.Candle

	switch {
	case csvPath != "":
		f, err := os.Open(csvPath)
		if err != nil {
			logger.Fatalf("open candle csv: %v", err)
		}
		defer f.Close()
		cs, err = candles.ReadCSV(f)
		if err != nil {
			logger.Fatalf("parse candle csv: %v", err)
		}
	case dsn != "":
		conn, err := chstore.NewConn(ctx, dsn)
		if err != nil {
			logger.Fatalf("connect to clickhouse: %v", err)
		}
		defer conn.Close()
		cs, err = chstore.NewCandleStore(conn).GetByTimeRange(ctx, symbol, from, to)
		if err != nil {
			logger.Fatalf("fetch candles: %v", err)
		}
	default:
		logger.Fatal("--candles or --clickhouse-dsn is required")
	}

	series, err := candles.NewSeries(symbol, cs)
	if err != nil {
		logger.Fatalf("candle series: %v", err)
	}
	// CSV files may carry candles outside the requested range; the
	// pipeline expects only in-range ones.
	series, err = candles.NewSeries(symbol, series.Between(from, to+1))
	if err != nil {
		logger.Fatalf("candle series: %v", err)
	}
	logger.Printf("Loaded %d candles for %s covering [%d, %d]", series.Len(), symbol, series.Start(), series.End())
	return series
}

// buildGrid builds the cartesian product of the three override lists.
func buildGrid(logger *log.Logger, tpList, slList, rrList string) []domain.Overrides {
	tps := parseFloats(logger, "take-profit", tpList)
	sls := parseFloats(logger, "stop-loss", slList)
	rrs := parseFloats(logger, "min-risk-reward", rrList)

	grid := make([]domain.Overrides, 0, len(tps)*len(sls)*len(rrs))
	for i := range tps {
		for j := range sls {
			for k := range rrs {
				grid = append(grid, domain.Overrides{
					TakeProfitPct: &tps[i],
					StopLossPct:   &sls[j],
					MinRiskReward: &rrs[k],
				})
			}
		}
	}
	return grid
}

func parseFloats(logger *log.Logger, name, list string) []float64 {
	var out []float64
	for _, field := range strings.Split(list, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			logger.Fatalf("parse --%s value %q: %v", name, field, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		logger.Fatalf("--%s must list at least one value", name)
	}
	return out
}

// printRuns outputs a one-line summary per evaluated run.
func printRuns(runs []optimizer.Run) {
	fmt.Println()
	fmt.Println("=== Evaluated Runs ===")
	for _, r := range runs {
		if r.Err != nil {
			fmt.Printf("tp=%.3f sl=%.3f rr=%.2f  FAILED: %v\n",
				r.Params.TakeProfitPct, r.Params.StopLossPct, r.Params.MinRiskReward, r.Err)
			continue
		}
		rep := r.Result.Report
		fmt.Printf("tp=%.3f sl=%.3f rr=%.2f  score=%.1f win=%.1f%% return=%.2f%%\n",
			r.Params.TakeProfitPct, r.Params.StopLossPct, r.Params.MinRiskReward,
			rep.QualityScore, rep.WinRate*100, rep.TotalReturnPct)
	}
}

// printBest outputs the winning parameter set and its report.
func printBest(best optimizer.Run) {
	rep := best.Result.Report

	fmt.Println()
	fmt.Println("=== Best Parameters ===")
	fmt.Printf("Take Profit:        %.3f\n", best.Params.TakeProfitPct)
	fmt.Printf("Stop Loss:          %.3f\n", best.Params.StopLossPct)
	fmt.Printf("Min Risk/Reward:    %.2f\n", best.Params.MinRiskReward)
	fmt.Println()

	fmt.Println("Performance:")
	fmt.Printf("  Signals:          %d\n", rep.TotalSignals)
	fmt.Printf("  Win Rate:         %.2f%%\n", rep.WinRate*100)
	if rep.InfiniteProfit {
		fmt.Println("  Profit Factor:    inf (no losing trades)")
	} else {
		fmt.Printf("  Profit Factor:    %.2f\n", rep.ProfitFactor)
	}
	fmt.Printf("  Total Return:     %.2f%%\n", rep.TotalReturnPct)
	fmt.Printf("  Max Drawdown:     %.2f%%\n", rep.MaxDrawdown)
	fmt.Println()

	fmt.Printf("Quality Score:      %.1f (%s)\n", rep.QualityScore, rep.Rating)
	if rep.IsSynthetic {
		fmt.Println("Note: includes synthetic fallback signals, treat metrics as placeholders")
	}
}
