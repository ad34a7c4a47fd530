package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"focbcli/internal/config"
	"focbcli/internal/dataprocessing"
	"focbcli/internal/exporter"
	"focbcli/internal/files"
	"focbcli/internal/infrastructure"
	"focbcli/pkg/domain"
)

func main() {
	dataPath := flag.String("data", "", "strict dataset CSV (defaults to clean/"+config.StrictDatasetFile+")")
	stationsPath := flag.String("stations", "", "station lookup workbook (defaults to raw/focb_stations.xlsx)")
	outDir := flag.String("outdir", "", "output directory for statistics CSVs (defaults to the stats directory)")
	fieldList := flag.String("fields", "tn,din_n,nox_n,nh4_n,organic_n", "comma-separated nutrient fields to summarize")
	configFile := flag.String("config", "", "config file path (defaults to focb.yaml)")
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	paths := config.NewPaths(cfg.Paths)
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	if *dataPath == "" {
		*dataPath = paths.StrictCSV
	}
	if *stationsPath == "" {
		*stationsPath = paths.GetRawPath("focb_stations.xlsx")
	}
	if *outDir == "" {
		*outDir = paths.StatsDir
	}

	ctx := infrastructure.ContextWithRunID(context.Background())
	logger = infrastructure.LoggerWithContext(ctx)

	logger.Info("Starting station statistics export",
		slog.String("data", *dataPath),
		slog.String("output_dir", *outDir),
		slog.String("fields", *fieldList))

	discovery := files.NewDiscovery(paths.DataDir)
	if prior, err := discovery.FindStatsExports(*outDir); err == nil && len(prior) > 0 {
		for field, export := range prior {
			logger.Info("Replacing prior statistics export",
				slog.String("field", field),
				slog.String("name", export.Name))
		}
	}

	records, err := exporter.ReadStrictDataset(*dataPath)
	if err != nil {
		logger.Error("Failed to read strict dataset", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Printf("Loaded %d records\n", len(records))

	// Display names are cosmetic; a missing lookup degrades to empty
	// names rather than aborting the export.
	names, err := dataprocessing.ReadStationLookup(*stationsPath)
	if err != nil {
		logger.Warn("Station lookup unavailable, names will be empty",
			slog.String("path", *stationsPath),
			slog.String("error", err.Error()))
		names = nil
	}

	summarizer := dataprocessing.NewSummarizer(logger, names)

	written := 0
	for _, field := range strings.Split(*fieldList, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		accessor, ok := domain.FieldByName(field)
		if !ok {
			logger.Warn("Unknown nutrient field, skipping", slog.String("field", field))
			continue
		}

		stats := summarizer.Summarize(ctx, records, accessor)
		outPath := filepath.Join(*outDir, "focb_stats_"+field+".csv")

		if err := exporter.WriteStationStats(outPath, field, stats); err != nil {
			logger.Error("Failed to write statistics",
				slog.String("field", field),
				slog.String("error", err.Error()))
			os.Exit(1)
		}

		fmt.Printf("Wrote %s (%d stations)\n", outPath, len(stats))
		written++
	}

	logger.Info("Statistics export complete", slog.Int("files_written", written))
	fmt.Printf("Statistics export complete: %d files\n", written)
}

func loadConfig(configFile string) (*config.Config, error) {
	if configFile != "" {
		return config.LoadFromFile(configFile)
	}
	return config.Load()
}
