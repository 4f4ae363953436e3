package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cineradar/cinepoint-sync/internal/bootstrap"
	"github.com/cineradar/cinepoint-sync/internal/domain"
	"github.com/cineradar/cinepoint-sync/internal/service"
	"github.com/spf13/cobra"
)

// cfgFile holds the path to the configuration file.
var cfgFile string

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "scrape",
		Short: "Run a single Cinepoint pipeline",
		Long: `Run one record-kind pipeline against the Cinepoint API and store the
result. Every run writes one sync log row, whether it succeeds or not.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", os.Getenv("CONFIG_PATH"), "config file (default is ./configs/config.yaml or ./config.yaml)")

	root.AddCommand(
		newMoviesCommand(),
		newShowtimesCommand(),
		newBoxOfficeCommand(),
		newInsightsCommand(),
		newProbeCommand(),
		newArchiveCommand(),
	)
	return root
}

// withApp builds the application for one command and tears it down after.
// SIGINT/SIGTERM cancel the run; the sync row is still written.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *bootstrap.App) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfgFile, "cinepoint-scrape")
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	defer app.Close()

	return fn(ctx, app)
}

// printSummary writes the sync log payload of a scrape to stdout and turns
// an error status into a command failure.
func printSummary(cmd *cobra.Command, sum *service.Summary, err error) error {
	if sum != nil {
		out, _ := json.MarshalIndent(sum.Payload, "", "  ")
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n%s\n", sum.SyncType, sum.Status, out)
	}
	if err != nil {
		return err
	}
	if sum != nil && sum.Status == domain.SyncStatusError {
		return fmt.Errorf("%s scrape failed", sum.SyncType)
	}
	return nil
}
