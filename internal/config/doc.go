// Package config loads application configuration from an optional YAML
// file with environment-variable overrides (FOCB_ prefix), and resolves
// the directory layout used by the pipeline commands.
//
// The Pipeline section carries the documented cleaning-policy
// parameters (surface-depth cutoff, ammonium outlier percentile,
// reliable-year floor, trend-site coverage rule). They default to the
// canonical values; the cleaned dataset is only reproducible when run
// with those defaults.
package config
