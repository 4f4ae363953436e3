package main

import (
	"testing"

	"github.com/cineradar/cinepoint-sync/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want service.BackfillOptions
	}{
		{"no args", nil, service.BackfillOptions{DaysBack: 365}},
		{"days", []string{"30"}, service.BackfillOptions{DaysBack: 30}},
		{"zero keeps default", []string{"0"}, service.BackfillOptions{DaysBack: 365}},
		{"phase only", []string{"insights"}, service.BackfillOptions{DaysBack: 365, Only: service.PhaseInsights}},
		{"days and phase", []string{"90", "boxoffice"}, service.BackfillOptions{DaysBack: 90, Only: service.PhaseBoxOffice}},
		{"phase then days", []string{"showtimes", "7"}, service.BackfillOptions{DaysBack: 7, Only: service.PhaseShowtimes}},
		{"unknown token ignored", []string{"--verbose", "box_office"}, service.BackfillOptions{DaysBack: 365}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseArgs(tt.args))
		})
	}
}
