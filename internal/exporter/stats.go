package exporter

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"focbcli/internal/dataprocessing"
	"focbcli/internal/errors"
)

// StationStatsHeader returns the column set of a per-nutrient
// statistics export, in the layout the external mapping tools expect.
func StationStatsHeader(field string) []string {
	return []string{
		"station",
		field + "_mn",
		field + "_sd",
		field + "_n",
		field + "_md",
		field + "_iqr",
		field + "_p90",
		field + "_gm",
		"station_name",
	}
}

// WriteStationStats writes the descriptive statistics for one nutrient
// field. Undefined statistics (geometric mean over non-positive values,
// standard deviation of a single observation) are empty cells.
func WriteStationStats(path, field string, stats []dataprocessing.StationStats) error {
	records := make([][]string, 0, len(stats))
	for _, st := range stats {
		gm := ""
		if st.GeoMean != nil {
			gm = formatStat(*st.GeoMean)
		}
		records = append(records, []string{
			st.Station,
			formatStat(st.Mean),
			formatStat(st.SD),
			strconv.Itoa(st.N),
			formatStat(st.Median),
			formatStat(st.IQR),
			formatStat(st.P90),
			gm,
			st.StationName,
		})
	}

	w := NewCSVWriter()
	if err := w.WriteSimpleCSV(path, StationStatsHeader(field), records); err != nil {
		return errors.NewStorageError("failed to write station statistics", err).
			WithContext("path", path).
			WithContext("field", field)
	}

	slog.Info("station statistics written",
		slog.String("path", path),
		slog.String("field", field),
		slog.Int("stations", len(stats)))

	return nil
}

func formatStat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return fmt.Sprintf("%.4f", v)
}
