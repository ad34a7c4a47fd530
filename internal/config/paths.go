package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths is the single source of truth for file locations used by the
// pipeline commands.
type Paths struct {
	DataDir  string
	RawDir   string
	CleanDir string
	StatsDir string
	TrendDir string
	LogsDir  string

	// Well-known artifacts
	StrictCSV string
}

// StrictDatasetFile is the canonical cleaned-dataset artifact. It is
// written once by the cleaner and read by every downstream command;
// consumers never recompute it.
const StrictDatasetFile = "focb_n_data_strict.csv"

// NewPaths builds the path set rooted at the configured data directory.
func NewPaths(cfg PathsConfig) *Paths {
	p := &Paths{
		DataDir: cfg.DataDir,
		LogsDir: cfg.LogsDir,
	}
	p.RawDir = filepath.Join(p.DataDir, "raw")
	p.CleanDir = filepath.Join(p.DataDir, "clean")
	p.StatsDir = filepath.Join(p.DataDir, "stats")
	p.TrendDir = filepath.Join(p.DataDir, "trend")
	p.StrictCSV = filepath.Join(p.CleanDir, StrictDatasetFile)
	return p
}

// EnsureDirectories creates all required directories.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.DataDir, p.RawDir, p.CleanDir, p.StatsDir, p.TrendDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetRawPath returns the path of an input workbook in the raw directory.
func (p *Paths) GetRawPath(filename string) string {
	return filepath.Join(p.RawDir, filename)
}

// GetStatsPath returns the path of a station-statistics export.
func (p *Paths) GetStatsPath(filename string) string {
	return filepath.Join(p.StatsDir, filename)
}

// GetTrendPath returns the path of a trend-report export.
func (p *Paths) GetTrendPath(filename string) string {
	return filepath.Join(p.TrendDir, filename)
}

// GetLogPath returns the path of a log file.
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}
