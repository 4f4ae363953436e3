package main

import (
	"strconv"

	"github.com/cineradar/cinepoint-sync/internal/service"
)

const defaultBackfillDays = 365

// parseArgs reads the positional arguments: an integer number of days and
// or a phase token. Anything else is ignored.
func parseArgs(args []string) service.BackfillOptions {
	opts := service.BackfillOptions{DaysBack: defaultBackfillDays}
	for _, arg := range args {
		if n, err := strconv.Atoi(arg); err == nil {
			if n > 0 {
				opts.DaysBack = n
			}
			continue
		}
		if phase, ok := service.ParsePhase(arg); ok {
			opts.Only = phase
		}
	}
	return opts
}
