package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	LogsDir string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// PipelineConfig contains the cleaning-policy parameters. These are the
// documented analyst rules from the original monitoring program; the
// defaults are the canonical values and changing them produces a
// different (non-canonical) strict dataset.
type PipelineConfig struct {
	// SurfaceDepthMax is the maximum sample depth (meters) kept by the
	// near-surface filter on the nitrogen-species table.
	SurfaceDepthMax float64 `yaml:"surface_depth_max" envconfig:"SURFACE_DEPTH_MAX" validate:"gt=0"`

	// AmmoniumPercentile is the quantile of all non-null ammonium
	// values used as the global outlier cutoff.
	AmmoniumPercentile float64 `yaml:"ammonium_percentile" envconfig:"AMMONIUM_PERCENTILE" validate:"gt=0,lt=1"`

	// MinReliableYear excludes older records entirely; collections in
	// earlier years are treated as unreliable historical artifacts.
	MinReliableYear int `yaml:"min_reliable_year" envconfig:"MIN_RELIABLE_YEAR" validate:"gte=1900"`

	// Trend-site coverage rule.
	TrendMinYears     int `yaml:"trend_min_years" envconfig:"TREND_MIN_YEARS" validate:"gte=1"`
	TrendRecentWindow int `yaml:"trend_recent_window" envconfig:"TREND_RECENT_WINDOW" validate:"gte=1"`
	TrendMinRecent    int `yaml:"trend_min_recent" envconfig:"TREND_MIN_RECENT" validate:"gte=1"`
}

// Default returns the canonical configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/focb.log",
		},
		Paths: PathsConfig{
			DataDir: "data",
			LogsDir: "logs",
		},
		Pipeline: PipelineConfig{
			SurfaceDepthMax:    1.0,
			AmmoniumPercentile: 0.95,
			MinReliableYear:    2001,
			TrendMinYears:      10,
			TrendRecentWindow:  5,
			TrendMinRecent:     2,
		},
	}
}

// Load loads configuration from the optional YAML file and environment
// variables. Precedence: defaults < file < environment.
func Load() (*Config, error) {
	return LoadFromFile(getConfigFilePath())
}

// LoadFromFile loads configuration starting from the given YAML file
// path. A missing file is not an error; the defaults are used.
func LoadFromFile(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			data, err := os.ReadFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Environment variables override file values
	if err := envconfig.Process("FOCB", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration against the struct constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Pipeline.TrendMinRecent > c.Pipeline.TrendMinYears {
		return fmt.Errorf("trend_min_recent (%d) cannot exceed trend_min_years (%d)",
			c.Pipeline.TrendMinRecent, c.Pipeline.TrendMinYears)
	}
	return nil
}

// getConfigFilePath returns the config file path, honoring the
// FOCB_CONFIG_FILE override.
func getConfigFilePath() string {
	if path := os.Getenv("FOCB_CONFIG_FILE"); path != "" {
		return path
	}
	return "focb.yaml"
}
