package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/cineradar/cinepoint-sync/internal/bootstrap"
	"github.com/spf13/cobra"
)

func newProbeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Check every Cinepoint endpoint without writing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				results := app.Client.Probe(ctx, app.Scraper.Today())

				failed := 0
				out := cmd.OutOrStdout()
				for _, r := range results {
					mark := "ok  "
					if !r.OK {
						mark = "FAIL"
						failed++
					}
					fmt.Fprintf(out, "%s %-28s total=%-6d %s%s\n", mark, r.Endpoint, r.Total, strings.Join(r.Keys, ","), r.Error)
				}
				if failed > 0 {
					return fmt.Errorf("%d of %d endpoints failed", failed, len(results))
				}
				return nil
			})
		},
	}
}
