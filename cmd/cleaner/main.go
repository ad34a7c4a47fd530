package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"focbcli/internal/config"
	"focbcli/internal/dataprocessing"
	"focbcli/internal/exporter"
	"focbcli/internal/files"
	"focbcli/internal/infrastructure"
)

func main() {
	speciesPath := flag.String("species", "", "nitrogen-species workbook (defaults to raw/focb_surface_nutrients.xlsx)")
	tnPath := flag.String("tn", "", "total-nitrogen workbook (defaults to raw/focb_tn.xlsx)")
	outPath := flag.String("out", "", "output path for the strict dataset (defaults to clean/"+config.StrictDatasetFile+")")
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

	if *speciesPath == "" {
		*speciesPath = paths.GetRawPath("focb_surface_nutrients.xlsx")
	}
	if *tnPath == "" {
		*tnPath = paths.GetRawPath("focb_tn.xlsx")
	}
	if *outPath == "" {
		*outPath = paths.StrictCSV
	}

	ctx := infrastructure.ContextWithRunID(context.Background())
	logger = infrastructure.LoggerWithContext(ctx)

	logger.Info("Starting nutrient data cleaning",
		slog.String("species_workbook", *speciesPath),
		slog.String("tn_workbook", *tnPath),
		slog.String("output", *outPath))

	manager := files.NewManager(paths)
	for _, path := range []string{*speciesPath, *tnPath} {
		if !manager.FileExists(path) {
			logger.Error("Input workbook not found", slog.String("path", path))
			listAvailableWorkbooks(logger, paths)
			os.Exit(1)
		}
		if size, err := manager.GetFileSize(path); err == nil {
			logger.Info("Input workbook",
				slog.String("path", path),
				slog.Int64("size_bytes", size))
		}
	}

	species, err := dataprocessing.ReadSpeciesWorkbook(*speciesPath)
	if err != nil {
		logger.Error("Failed to read species workbook", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Printf("Loaded %d species rows\n", len(species))

	tn, err := dataprocessing.ReadTotalNitrogenWorkbook(*tnPath)
	if err != nil {
		logger.Error("Failed to read total-nitrogen workbook", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Printf("Loaded %d total-nitrogen rows\n", len(tn))

	surface := dataprocessing.FilterSurface(species, cfg.Pipeline.SurfaceDepthMax)
	merged := dataprocessing.Merge(surface, tn)
	derived := dataprocessing.DeriveAll(merged)
	result := dataprocessing.ApplyStrictPolicy(derived, cfg.Pipeline)

	if result.HasThreshold {
		logger.Info("Strict policy summary",
			slog.Float64("ammonium_threshold_um", result.Threshold),
			slog.Int("censored", result.Censored),
			slog.Int("dropped_pre_reliable_year", result.DroppedOld))
	} else {
		logger.Warn("No ammonium values present, outlier threshold not applied")
	}

	if err := exporter.WriteStrictDataset(*outPath, result.Records); err != nil {
		logger.Error("Failed to write strict dataset", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Cleaning complete",
		slog.Int("records", len(result.Records)),
		slog.String("output", *outPath))
	fmt.Printf("Cleaning complete: %d records\n", len(result.Records))
}

// listAvailableWorkbooks logs the Excel files present in the raw
// directory to make a misnamed input easy to spot.
func listAvailableWorkbooks(logger *slog.Logger, paths *config.Paths) {
	discovery := files.NewDiscovery(paths.DataDir)
	found, err := discovery.FindExcelFiles(paths.RawDir)
	if err != nil {
		return
	}
	for _, f := range found {
		logger.Info("Available workbook", slog.String("name", f.Name))
	}
	if latest, ok := files.GetLatestFile(found); ok {
		logger.Info("Most recent workbook", slog.String("name", latest.Name))
	}
}

func loadConfig(configFile string) (*config.Config, error) {
	if configFile != "" {
		return config.LoadFromFile(configFile)
	}
	return config.Load()
}
