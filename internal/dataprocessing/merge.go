package dataprocessing

import (
	"log/slog"
	"sort"
	"time"

	"focbcli/pkg/domain"
)

// FilterSurface keeps species rows sampled at or above maxDepth meters.
// Rows with no recorded depth are excluded: depth unknown is unsafe to
// include in a surface-only analysis.
//
// The total-nitrogen table is intentionally NOT filtered by this rule.
// That program collects total nitrogen at the surface only, so its
// depth column is provenance rather than a filter key. The asymmetry
// is a documented policy choice inherited from the original analysis.
func FilterSurface(rows []SpeciesRow, maxDepth float64) []SpeciesRow {
	var out []SpeciesRow
	for _, r := range rows {
		if r.Depth != nil && *r.Depth <= maxDepth {
			out = append(out, r)
		}
	}
	slog.Info("surface filter applied",
		slog.Float64("max_depth_m", maxDepth),
		slog.Int("rows_in", len(rows)),
		slog.Int("rows_out", len(out)))
	return out
}

type mergeKey struct {
	station string
	date    time.Time
}

// Merge full-outer-joins the species and total-nitrogen tables on
// (station, date). A row survives if either source has one; fields
// from the absent side stay null. Rows carrying no nitrogen signal at
// all (TN, NOx and NH4 all null) are dropped. Calendar fields are
// derived from the date with the time package, so leap years come from
// the calendar rather than custom arithmetic.
func Merge(species []SpeciesRow, tn []TNRow) []domain.SampleRecord {
	merged := make(map[mergeKey]*domain.SampleRecord)

	recordFor := func(station string, date time.Time) *domain.SampleRecord {
		key := mergeKey{station: station, date: date}
		if r, ok := merged[key]; ok {
			return r
		}
		r := &domain.SampleRecord{
			Station:   station,
			Date:      date,
			Year:      date.Year(),
			Month:     date.Month(),
			DayOfYear: date.YearDay(),
		}
		merged[key] = r
		return r
	}

	for _, s := range species {
		r := recordFor(s.Station, s.Date)
		if r.NOx != nil || r.NH4 != nil || r.DIN != nil {
			slog.Warn("duplicate species row for station and date, keeping first",
				slog.String("station", s.Station),
				slog.String("date", s.Date.Format("2006-01-02")))
			continue
		}
		r.NOx = s.NOx
		r.NH4 = s.NH4
		r.DIN = s.DIN
		r.DINDepth = s.Depth
	}

	for _, t := range tn {
		r := recordFor(t.Station, t.Date)
		if r.TN != nil {
			slog.Warn("duplicate total-nitrogen row for station and date, keeping first",
				slog.String("station", t.Station),
				slog.String("date", t.Date.Format("2006-01-02")))
			continue
		}
		r.TN = t.TN
		r.TNDepth = t.Depth
	}

	out := make([]domain.SampleRecord, 0, len(merged))
	dropped := 0
	for _, r := range merged {
		if !r.HasSignal() {
			dropped++
			continue
		}
		out = append(out, *r)
	}

	// Deterministic order for downstream artifacts
	sort.Slice(out, func(i, j int) bool {
		if out[i].Station != out[j].Station {
			return out[i].Station < out[j].Station
		}
		return out[i].Date.Before(out[j].Date)
	})

	slog.Info("tables merged",
		slog.Int("species_rows", len(species)),
		slog.Int("tn_rows", len(tn)),
		slog.Int("merged_records", len(out)),
		slog.Int("dropped_no_signal", dropped))

	return out
}
