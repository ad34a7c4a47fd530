// Package exporter writes and reads the pipeline's CSV artifacts: the
// canonical strict cleaned dataset, the per-nutrient station-statistics
// files consumed by external mapping tools, and generic CSV output for
// the trend reports.
package exporter
