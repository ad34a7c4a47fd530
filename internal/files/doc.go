// Package files provides file system discovery and management for the
// nutrient pipeline commands.
//
// Discovery locates input workbooks and generated CSV exports under the
// data directory, for example to pick the most recent monitoring
// workbook when none is named on the command line.
//
// Manager provides basic file operations resolved against the
// configured path layout, so commands refer to files as "raw/..." or
// "stats/..." without caring where the data directory lives.
package files
