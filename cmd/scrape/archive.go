package main

import (
	"context"
	"fmt"
	"time"

	"github.com/cineradar/cinepoint-sync/internal/bootstrap"
	"github.com/cineradar/cinepoint-sync/internal/config"
	"github.com/cineradar/cinepoint-sync/internal/domain"
	"github.com/cineradar/cinepoint-sync/internal/source/cinepoint"
	"github.com/cineradar/cinepoint-sync/internal/storage"
	"github.com/spf13/cobra"
)

// The archive commands only need object storage, not the API token or the
// database, so they bypass bootstrap.New.
func newArchiveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Inspect raw pages in the archive bucket",
	}
	cmd.AddCommand(newArchiveListCommand(), newArchiveCatCommand())
	return cmd
}

func openArchive(ctx context.Context) (*storage.Archiver, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	return bootstrap.OpenArchive(ctx, cfg)
}

func newArchiveListCommand() *cobra.Command {
	var day string
	cmd := &cobra.Command{
		Use:       "ls <kind>",
		Short:     "List archived pages of a kind fetched on one day",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{cinepoint.KindMovies, cinepoint.KindShowtimes, cinepoint.KindBoxOffice, cinepoint.KindInsights},
		RunE: func(cmd *cobra.Command, args []string) error {
			when := time.Now()
			if day != "" {
				t, err := time.Parse(domain.DateLayout, day)
				if err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
				when = t
			}

			archive, err := openArchive(cmd.Context())
			if err != nil {
				return err
			}
			keys, err := archive.Pages(cmd.Context(), args[0], when)
			if err != nil {
				return err
			}
			for _, k := range keys {
				if url := archive.URL(k); url != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", k, url)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&day, "date", "", "fetch date (YYYY-MM-DD); defaults to today")
	return cmd
}

func newArchiveCatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <key>",
		Short: "Print one archived page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := openArchive(cmd.Context())
			if err != nil {
				return err
			}
			body, err := archive.Read(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(body)
			return err
		},
	}
}
