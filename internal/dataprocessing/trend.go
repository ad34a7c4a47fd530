package dataprocessing

import (
	"log/slog"
	"sort"

	"focbcli/internal/config"
	"focbcli/pkg/domain"
)

// TrendStations returns the stations with enough sampling history to
// support a temporal trend estimate for the given nutrient field. A
// station qualifies when it has at least TrendMinYears distinct years
// with a non-null observation of the field, of which at least
// TrendMinRecent fall inside the most recent TrendRecentWindow years
// relative to currentYear. The rule is evaluated independently per
// field, so total nitrogen and DIN can yield different station sets.
func TrendStations(records []domain.SampleRecord, field domain.FieldAccessor, currentYear int, cfg config.PipelineConfig) []string {
	yearsByStation := make(map[string]map[int]bool)
	for i := range records {
		r := &records[i]
		if field(r) == nil {
			continue
		}
		years, ok := yearsByStation[r.Station]
		if !ok {
			years = make(map[int]bool)
			yearsByStation[r.Station] = years
		}
		years[r.Year] = true
	}

	recentFloor := currentYear - cfg.TrendRecentWindow

	var out []string
	for station, years := range yearsByStation {
		recent := 0
		for y := range years {
			if y > recentFloor {
				recent++
			}
		}
		if len(years) >= cfg.TrendMinYears && recent >= cfg.TrendMinRecent {
			out = append(out, station)
		}
	}
	sort.Strings(out)

	slog.Info("trend stations selected",
		slog.Int("current_year", currentYear),
		slog.Int("candidates", len(yearsByStation)),
		slog.Int("selected", len(out)))

	return out
}
