package dataprocessing

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"focbcli/internal/config"
	"focbcli/pkg/domain"
)

// StrictResult is the outcome of the strict outlier policy: the
// canonical cleaned dataset plus the computed threshold for the run
// log. The record slice is what gets materialized as
// focb_n_data_strict.csv; downstream consumers read that artifact and
// never recompute it, because rerunning the percentile over a
// different subset would silently move the threshold.
type StrictResult struct {
	Records      []domain.SampleRecord
	Threshold    float64
	HasThreshold bool
	Censored     int
	DroppedOld   int
}

// AmmoniumThreshold computes the percentile cutoff over every non-null
// molar ammonium value in the dataset. One global threshold, not
// per-station or per-year: station-level sample sizes are too small
// for stable percentile estimates, so the rule trades local precision
// for stability.
func AmmoniumThreshold(records []domain.SampleRecord, percentile float64) (float64, bool) {
	var values []float64
	for i := range records {
		if records[i].NH4 != nil {
			values = append(values, *records[i].NH4)
		}
	}
	if len(values) == 0 {
		return 0, false
	}
	sort.Float64s(values)
	return stat.Quantile(percentile, stat.Empirical, values, nil), true
}

// ApplyStrictPolicy derives the strict cleaned dataset. Records from
// years at or before the reliable-year floor are excluded entirely
// before the threshold is computed. A record is censored when its
// ammonium meets the threshold or its lab-error flag is set; censoring
// nulls NH4, NH4N, DIN, DINN and OrganicN while leaving TN and NOxN
// untouched. The error flag is cleared on censored records so a set
// flag always refers to values still present in the dataset.
//
// The threshold is computed here and carried in the result rather than
// held as shared state, keeping the policy a pure transformation.
func ApplyStrictPolicy(records []domain.SampleRecord, cfg config.PipelineConfig) StrictResult {
	kept := make([]domain.SampleRecord, 0, len(records))
	droppedOld := 0
	for _, r := range records {
		if r.Year < cfg.MinReliableYear {
			droppedOld++
			continue
		}
		kept = append(kept, r)
	}

	threshold, ok := AmmoniumThreshold(kept, cfg.AmmoniumPercentile)

	censored := 0
	for i := range kept {
		r := &kept[i]
		suspect := r.ErrorFlag || (ok && r.NH4 != nil && *r.NH4 >= threshold)
		if !suspect {
			continue
		}
		r.NH4 = nil
		r.NH4N = nil
		r.DIN = nil
		r.DINN = nil
		r.OrganicN = nil
		r.ErrorFlag = false
		censored++
	}

	slog.Info("strict outlier policy applied",
		slog.Float64("ammonium_threshold_um", threshold),
		slog.Float64("percentile", cfg.AmmoniumPercentile),
		slog.Int("dropped_pre_reliable_year", droppedOld),
		slog.Int("censored_records", censored),
		slog.Int("records_out", len(kept)))

	return StrictResult{
		Records:      kept,
		Threshold:    threshold,
		HasThreshold: ok,
		Censored:     censored,
		DroppedOld:   droppedOld,
	}
}
