package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cineradar/cinepoint-sync/internal/bootstrap"
	"github.com/cineradar/cinepoint-sync/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "Path to config file")
	lookback := flag.Int("lookback", 0, "Days to look back for date-keyed kinds (0 uses sync.daily_lookback_days)")
	flag.Parse()

	// SIGINT/SIGTERM abort the remaining phases; the sync row is still written
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, *configPath, "cinepoint-daily-sync")
	if err != nil {
		logger.Error("Failed to start daily sync: %v", err)
		return 1
	}
	defer app.Close()

	opts := app.DailyOptions()
	if *lookback > 0 {
		opts.LookbackDays = *lookback
	}

	report, err := app.Orchestrator.DailySync(ctx, opts)
	if err != nil {
		app.Logger.WithError(err).Error("Daily sync failed")
		return 1
	}

	fmt.Printf("Daily sync %s in %s (run %s)\n", report.Status, report.Duration.Round(time.Second), report.RunID)
	results := report.Results.Map()
	for _, key := range report.Results.Keys() {
		fmt.Printf("  %-10s %v\n", key, results[key])
	}

	if report.Failed() {
		return 1
	}
	return 0
}
