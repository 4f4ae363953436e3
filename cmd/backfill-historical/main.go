package main

import (
	"context"
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
	opts := parseArgs(os.Args[1:])

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, os.Getenv("CONFIG_PATH"), "cinepoint-backfill")
	if err != nil {
		logger.Error("Failed to start backfill: %v", err)
		return 1
	}
	defer app.Close()

	only := "all"
	if opts.Only != "" {
		only = string(opts.Only)
	}
	app.Logger.WithFields(logger.Fields{
		"days_back": opts.DaysBack,
		"only":      only,
	}).Info("Starting historical backfill")

	report, err := app.Orchestrator.Backfill(ctx, opts)
	if err != nil {
		app.Logger.WithError(err).Error("Backfill failed")
		return 1
	}

	// phase failures are reported but do not change the exit status
	fmt.Printf("Backfill %s: %d days, only=%s, %s (run %s)\n",
		report.Status, opts.DaysBack, only, report.Duration.Round(time.Second), report.RunID)
	results := report.Results.Map()
	for _, key := range report.Results.Keys() {
		fmt.Printf("  %-10s %v\n", key, results[key])
	}
	return 0
}
