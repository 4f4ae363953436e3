package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cineradar/cinepoint-sync/internal/bootstrap"
	"github.com/cineradar/cinepoint-sync/internal/domain"
	"github.com/cineradar/cinepoint-sync/internal/service"
	"github.com/spf13/cobra"
)

const defaultDaysBack = 1

// rangeFlags are shared by the date-keyed kinds.
type rangeFlags struct {
	start  string
	end    string
	resume bool
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "first date to scrape (YYYY-MM-DD); overrides daysBack")
	cmd.Flags().StringVar(&f.end, "end", "", "last date to scrape (YYYY-MM-DD); defaults to today")
	cmd.Flags().BoolVar(&f.resume, "resume", false, "start from the latest date already stored")
}

// options turns the optional daysBack argument and the flags into range
// options. Dates are read in loc.
func (f *rangeFlags) options(args []string, loc *time.Location) (service.RangeOptions, error) {
	opts := service.RangeOptions{DaysBack: defaultDaysBack, Resume: f.resume}
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return opts, fmt.Errorf("daysBack must be a non-negative integer, got %q", args[0])
		}
		opts.DaysBack = n
	}

	var err error
	if f.start != "" {
		if opts.Start, err = time.ParseInLocation(domain.DateLayout, f.start, loc); err != nil {
			return opts, fmt.Errorf("invalid --start: %w", err)
		}
	}
	if f.end != "" {
		if opts.End, err = time.ParseInLocation(domain.DateLayout, f.end, loc); err != nil {
			return opts, fmt.Errorf("invalid --end: %w", err)
		}
	}
	return opts, nil
}

func newMoviesCommand() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "movies",
		Short: "Upsert the movie directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				sum, err := app.Scraper.ScrapeMovies(ctx, service.MovieOptions{Status: status})
				return printSummary(cmd, sum, err)
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only movies with this directory status (e.g. now_playing)")
	return cmd
}

func newShowtimesCommand() *cobra.Command {
	var flags rangeFlags
	cmd := &cobra.Command{
		Use:   "showtimes [daysBack]",
		Short: "Insert daily showtime rankings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				opts, err := flags.options(args, app.Config.Sync.Location())
				if err != nil {
					return err
				}
				sum, err := app.Scraper.ScrapeShowtimes(ctx, opts)
				return printSummary(cmd, sum, err)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newBoxOfficeCommand() *cobra.Command {
	var flags rangeFlags
	var period string
	cmd := &cobra.Command{
		Use:   "boxoffice [daysBack]",
		Short: "Insert box office rankings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := domain.ParsePeriod(period)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				opts, err := flags.options(args, app.Config.Sync.Location())
				if err != nil {
					return err
				}
				sum, err := app.Scraper.ScrapeBoxOffice(ctx, service.BoxOfficeOptions{RangeOptions: opts, Period: p})
				return printSummary(cmd, sum, err)
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&period, "period", "daily", "daily, weekly, monthly or yearly")
	return cmd
}

func newInsightsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Fetch insight articles not stored yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				sum, err := app.Scraper.ScrapeInsights(ctx)
				return printSummary(cmd, sum, err)
			})
		},
	}
}
