// Package dataprocessing implements the nutrient cleaning pipeline:
// workbook loading, clock-time normalization, near-surface filtering,
// the station+date full outer merge, molar-to-mass conversion with
// derived organic nitrogen, the strict ammonium outlier policy, the
// trend-site coverage rule, and per-station descriptive statistics.
//
// Every stage is total: suspect or unparseable values become nulls and
// flow through as missing data rather than aborting the run. Only
// unreadable source files are fatal, since no downstream output is
// meaningful without its upstream stage.
package dataprocessing
