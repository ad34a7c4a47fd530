package dataprocessing

import (
	"context"
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"focbcli/pkg/domain"
)

// StationStats holds per-station descriptive statistics for one target
// nutrient field, in the shape the external mapping tools consume.
type StationStats struct {
	Station     string
	StationName string
	N           int
	Mean        float64
	SD          float64 // sample standard deviation; NaN when N < 2
	Median      float64
	IQR         float64
	P90         float64

	// GeoMean is exp(mean(log x)). It is nil when any qualifying value
	// is <= 0: the log is undefined there and silently coercing would
	// hide non-detects.
	GeoMean *float64
}

// Summarizer computes per-station descriptive statistics. It is the
// single implementation behind every "filter, summarize, order by
// median, attach display name" step, parameterized by target field so
// the logic is not duplicated per nutrient.
type Summarizer struct {
	logger *slog.Logger
	names  map[string]string
}

// NewSummarizer creates a summarizer that resolves display names
// through the station lookup. A nil name map is allowed; every station
// then surfaces with an empty display name.
func NewSummarizer(logger *slog.Logger, names map[string]string) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{logger: logger, names: names}
}

// Summarize computes statistics for the target field per station.
// Stations without a single non-null observation are omitted. Results
// are ordered by ascending median of the target field, a presentation
// convention for the comparison graphics.
func (s *Summarizer) Summarize(ctx context.Context, records []domain.SampleRecord, field domain.FieldAccessor) []StationStats {
	byStation := make(map[string][]float64)
	for i := range records {
		r := &records[i]
		if v := field(r); v != nil {
			byStation[r.Station] = append(byStation[r.Station], *v)
		}
	}

	out := make([]StationStats, 0, len(byStation))
	for station, values := range byStation {
		sort.Float64s(values)

		st := StationStats{
			Station:     station,
			StationName: s.names[station],
			N:           len(values),
			Mean:        stat.Mean(values, nil),
			SD:          stat.StdDev(values, nil),
			Median:      stat.Quantile(0.5, stat.Empirical, values, nil),
			IQR:         stat.Quantile(0.75, stat.Empirical, values, nil) - stat.Quantile(0.25, stat.Empirical, values, nil),
			P90:         stat.Quantile(0.9, stat.Empirical, values, nil),
		}

		if values[0] > 0 {
			gm := stat.GeometricMean(values, nil)
			st.GeoMean = &gm
		}

		out = append(out, st)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Median != out[j].Median {
			return out[i].Median < out[j].Median
		}
		return out[i].Station < out[j].Station
	})

	s.logger.InfoContext(ctx, "station statistics computed",
		slog.Int("stations", len(out)),
		slog.Int("records", len(records)))

	return out
}
