package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"focbcli/internal/config"
	"focbcli/internal/dataprocessing"
	"focbcli/internal/exporter"
	"focbcli/internal/infrastructure"
	"focbcli/internal/regress"
	"focbcli/pkg/domain"
)

// trendEstimate is one fitted per-station year slope.
type trendEstimate struct {
	Station     string
	Nutrient    string
	NYears      int
	Slope       float64
	SE          float64
	CILo        float64
	CIHi        float64
	StationName string
}

// monthlyMean is one adjusted monthly mean from the pooled seasonal
// model.
type monthlyMean struct {
	Month    time.Month
	N        int
	Estimate float64
	CILo     float64
	CIHi     float64
}

func main() {
	dataPath := flag.String("data", "", "strict dataset CSV (defaults to clean/"+config.StrictDatasetFile+")")
	stationsPath := flag.String("stations", "", "station lookup workbook (defaults to raw/focb_stations.xlsx)")
	outDir := flag.String("outdir", "", "output directory for trend CSVs (defaults to the trend directory)")
	currentYear := flag.Int("year", time.Now().Year(), "reference year for the recent-coverage rule")
	nutrientList := flag.String("nutrients", "tn,din_n", "comma-separated nutrient fields to fit trends for")
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
		*outDir = paths.TrendDir
	}

	ctx := infrastructure.ContextWithRunID(context.Background())
	logger = infrastructure.LoggerWithContext(ctx)

	logger.Info("Starting trend report",
		slog.String("data", *dataPath),
		slog.String("output_dir", *outDir),
		slog.Int("current_year", *currentYear),
		slog.String("nutrients", *nutrientList))

	records, err := exporter.ReadStrictDataset(*dataPath)
	if err != nil {
		logger.Error("Failed to read strict dataset", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Printf("Loaded %d records\n", len(records))

	names, err := dataprocessing.ReadStationLookup(*stationsPath)
	if err != nil {
		logger.Warn("Station lookup unavailable, names will be empty",
			slog.String("path", *stationsPath),
			slog.String("error", err.Error()))
		names = nil
	}

	var estimates []trendEstimate
	for _, nutrient := range strings.Split(*nutrientList, ",") {
		nutrient = strings.TrimSpace(nutrient)
		if nutrient == "" {
			continue
		}

		accessor, ok := domain.FieldByName(nutrient)
		if !ok {
			logger.Warn("Unknown nutrient field, skipping", slog.String("nutrient", nutrient))
			continue
		}

		stations := dataprocessing.TrendStations(records, accessor, *currentYear, cfg.Pipeline)
		logger.Info("Fitting station trends",
			slog.String("nutrient", nutrient),
			slog.Int("stations", len(stations)))

		for _, station := range stations {
			est, err := fitStationTrend(records, station, nutrient, accessor)
			if err != nil {
				logger.Warn("Skipping station with unfittable trend",
					slog.String("station", station),
					slog.String("nutrient", nutrient),
					slog.String("error", err.Error()))
				continue
			}
			est.StationName = names[station]
			estimates = append(estimates, est)
		}

		trendStations := make(map[string]bool, len(stations))
		for _, s := range stations {
			trendStations[s] = true
		}
		means, err := fitMonthlyMeans(records, trendStations, accessor)
		if err != nil {
			logger.Warn("Seasonal model not fitted",
				slog.String("nutrient", nutrient),
				slog.String("error", err.Error()))
		} else {
			outPath := filepath.Join(*outDir, "focb_monthly_means_"+nutrient+".csv")
			if err := writeMonthlyMeans(outPath, means); err != nil {
				logger.Error("Failed to write monthly means", slog.String("error", err.Error()))
				os.Exit(1)
			}
			fmt.Printf("Wrote %s (%d months)\n", outPath, len(means))
		}
	}

	trendPath := filepath.Join(*outDir, "focb_trends.csv")
	if err := writeTrendEstimates(trendPath, estimates); err != nil {
		logger.Error("Failed to write trend estimates", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Trend report complete",
		slog.Int("estimates", len(estimates)),
		slog.String("output", trendPath))
	fmt.Printf("Trend report complete: %d station estimates\n", len(estimates))
}

// fitStationTrend regresses one station's nutrient values on year and
// returns the slope with its 95% confidence interval.
func fitStationTrend(records []domain.SampleRecord, station, nutrient string, field domain.FieldAccessor) (trendEstimate, error) {
	var years, values []float64
	distinct := make(map[int]bool)
	for i := range records {
		r := &records[i]
		if r.Station != station {
			continue
		}
		v := field(r)
		if v == nil {
			continue
		}
		years = append(years, float64(r.Year))
		values = append(values, *v)
		distinct[r.Year] = true
	}

	if len(values) < 3 {
		return trendEstimate{}, fmt.Errorf("only %d observations", len(values))
	}

	// Center the year so the intercept is the mean-year level and the
	// normal equations stay well conditioned.
	meanYear := stat.Mean(years, nil)
	x := mat.NewDense(len(values), 2, nil)
	for i, y := range years {
		x.Set(i, 0, 1)
		x.Set(i, 1, y-meanYear)
	}

	m, err := regress.Fit(x, values)
	if err != nil {
		return trendEstimate{}, err
	}

	slope, se, lo, hi := m.CoefCI(1, 0.95)
	return trendEstimate{
		Station:  station,
		Nutrient: nutrient,
		NYears:   len(distinct),
		Slope:    slope,
		SE:       se,
		CILo:     lo,
		CIHi:     hi,
	}, nil
}

// fitMonthlyMeans pools the trend stations into one seasonal model,
// nutrient on centered year plus month dummies, and returns the
// adjusted mean for each observed month with year held at its mean.
func fitMonthlyMeans(records []domain.SampleRecord, stations map[string]bool, field domain.FieldAccessor) ([]monthlyMean, error) {
	var years, values []float64
	var months []time.Month
	counts := make(map[time.Month]int)
	for i := range records {
		r := &records[i]
		if !stations[r.Station] {
			continue
		}
		v := field(r)
		if v == nil {
			continue
		}
		years = append(years, float64(r.Year))
		values = append(values, *v)
		months = append(months, r.Month)
		counts[r.Month]++
	}

	observed := make([]time.Month, 0, len(counts))
	for m := range counts {
		observed = append(observed, m)
	}
	sort.Slice(observed, func(i, j int) bool { return observed[i] < observed[j] })

	if len(observed) < 2 {
		return nil, fmt.Errorf("need at least two observed months, have %d", len(observed))
	}

	// Dummy-code months against the first observed month.
	dummyCol := make(map[time.Month]int)
	for i, m := range observed[1:] {
		dummyCol[m] = 2 + i
	}
	p := 2 + len(observed) - 1

	if len(values) <= p {
		return nil, fmt.Errorf("only %d observations for %d predictors", len(values), p)
	}

	meanYear := stat.Mean(years, nil)
	x := mat.NewDense(len(values), p, nil)
	for i := range values {
		x.Set(i, 0, 1)
		x.Set(i, 1, years[i]-meanYear)
		if col, ok := dummyCol[months[i]]; ok {
			x.Set(i, col, 1)
		}
	}

	model, err := regress.Fit(x, values)
	if err != nil {
		return nil, err
	}

	means := make([]monthlyMean, 0, len(observed))
	for _, m := range observed {
		row := make([]float64, p)
		row[0] = 1
		if col, ok := dummyCol[m]; ok {
			row[col] = 1
		}
		est, lo, hi := model.PredictCI(row, 0.95)
		means = append(means, monthlyMean{
			Month:    m,
			N:        counts[m],
			Estimate: est,
			CILo:     lo,
			CIHi:     hi,
		})
	}

	return means, nil
}

func writeTrendEstimates(path string, estimates []trendEstimate) error {
	header := []string{"station", "nutrient", "n_years", "slope", "se", "ci_lo", "ci_hi", "station_name"}
	rows := make([][]string, 0, len(estimates))
	for _, e := range estimates {
		rows = append(rows, []string{
			e.Station,
			e.Nutrient,
			strconv.Itoa(e.NYears),
			formatEstimate(e.Slope),
			formatEstimate(e.SE),
			formatEstimate(e.CILo),
			formatEstimate(e.CIHi),
			e.StationName,
		})
	}
	return exporter.NewCSVWriter().WriteSimpleCSV(path, header, rows)
}

func writeMonthlyMeans(path string, means []monthlyMean) error {
	header := []string{"month", "n", "estimate", "ci_lo", "ci_hi"}
	rows := make([][]string, 0, len(means))
	for _, m := range means {
		rows = append(rows, []string{
			m.Month.String()[:3],
			strconv.Itoa(m.N),
			formatEstimate(m.Estimate),
			formatEstimate(m.CILo),
			formatEstimate(m.CIHi),
		})
	}
	return exporter.NewCSVWriter().WriteSimpleCSV(path, header, rows)
}

func formatEstimate(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func loadConfig(configFile string) (*config.Config, error) {
	if configFile != "" {
		return config.LoadFromFile(configFile)
	}
	return config.Load()
}
