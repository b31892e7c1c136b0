package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"trading-signal-lab/internal/candles"
	"trading-signal-lab/internal/storage"
	chstore "trading-signal-lab/internal/storage/clickhouse"
	"trading-signal-lab/internal/storage/migrations"
)

func main() {
	// Parse flags
	symbol := flag.String("symbol", "", "Symbol the candles belong to (required unless --dir)")
	file := flag.String("file", "", "Candle CSV file to ingest")
	dir := flag.String("dir", "", "Directory of <SYMBOL>.csv files to ingest")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (required)")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[ingest] ", log.LstdFlags)

	if *clickhouseDSN == "" {
		logger.Fatal("--clickhouse-dsn is required")
	}
	if *file == "" && *dir == "" {
		logger.Fatal("--file or --dir is required")
	}
	if *file != "" && *symbol == "" {
		logger.Fatal("--symbol is required with --file")
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

	// Migrations create the database and candles table when missing.
	conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
	if err != nil {
		logger.Fatalf("run clickhouse migrations: %v", err)
	}
	defer conn.Close()

	store := chstore.NewCandleStore(conn)

	if *file != "" {
		ingestFile(ctx, logger, store, *symbol, *file)
		return
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		logger.Fatalf("read dir: %v", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		if err := ctx.Err(); err != nil {
			logger.Fatalf("aborted: %v", err)
		}
		// File name minus extension is the symbol, e.g. BTCUSDT.csv.
		sym := strings.TrimSuffix(entry.Name(), ".csv")
		ingestFile(ctx, logger, store, sym, filepath.Join(*dir, entry.Name()))
	}
}

// ingestFile loads one CSV into the store.
func ingestFile(ctx context.Context, logger *log.Logger, store storage.CandleStore, symbol, path string) {
	f, err := os.Open(path)
	if err != nil {
		logger.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	cs, err := candles.ReadCSV(f)
	if err != nil {
		logger.Fatalf("parse %s: %v", path, err)
	}

	if err := store.InsertBulk(ctx, symbol, cs); err != nil {
		logger.Fatalf("insert candles for %s: %v", symbol, err)
	}
	logger.Printf("Ingested %d candles for %s from %s", len(cs), symbol, path)
}
