package dataprocessing

import (
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"focbcli/internal/errors"
)

// SpeciesRow is one raw row from the nitrogen-species workbook after
// column canonicalization and clock-time normalization.
type SpeciesRow struct {
	Station string
	Date    time.Time
	Clock   string // canonical "HH:MM", "" when unreported
	Depth   *float64
	NOx     *float64 // nitrate+nitrite, µM
	NH4     *float64 // ammonium, µM
	DIN     *float64 // dissolved inorganic nitrogen, µM
}

// TNRow is one raw row from the total-nitrogen workbook.
type TNRow struct {
	Station string
	Date    time.Time
	Depth   *float64
	TN      *float64 // total nitrogen, mg/L
}

// ReadSpeciesWorkbook loads the nitrogen-species measurements.
// Expected columns (matched by name, not position): Station, Date,
// Time, Sample Depth(m), NO3+NO2, NH4, DIN(uM). The silicate and
// phosphate columns present in the export are not used.
func ReadSpeciesWorkbook(path string) ([]SpeciesRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open species workbook", err).
			WithContext("path", path)
	}
	defer f.Close()

	rows, headerRow, cols, err := locateHeader(f, []string{"station", "date"})
	if err != nil {
		return nil, err
	}

	colStation := findColumn(cols, func(h string) bool { return strings.Contains(h, "station") })
	colDate := findColumn(cols, func(h string) bool { return strings.Contains(h, "date") && !strings.Contains(h, "update") })
	colClock := findColumn(cols, func(h string) bool { return strings.Contains(h, "time") && !strings.Contains(h, "date") })
	colDepth := findColumn(cols, func(h string) bool { return strings.Contains(h, "depth") })
	colNOx := findColumn(cols, func(h string) bool { return strings.Contains(h, "no3") })
	colNH4 := findColumn(cols, func(h string) bool { return strings.Contains(h, "nh4") })
	colDIN := findColumn(cols, func(h string) bool { return strings.Contains(h, "din") })

	if colStation < 0 || colDate < 0 {
		return nil, errors.NewParsingError("species workbook is missing station or date column", nil).
			WithContext("path", path)
	}

	var out []SpeciesRow
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]

		station := strings.TrimSpace(cellAt(row, colStation))
		if station == "" {
			continue
		}

		date, ok := parseDateCell(cellAt(row, colDate))
		if !ok {
			slog.Warn("skipping species row with unparseable date",
				slog.Int("row", i+1),
				slog.String("station", station),
				slog.String("date_cell", cellAt(row, colDate)))
			continue
		}

		out = append(out, SpeciesRow{
			Station: station,
			Date:    date,
			Clock:   NormalizeClockTime(cellAt(row, colClock)),
			Depth:   parseFloatCell(cellAt(row, colDepth)),
			NOx:     parseFloatCell(cellAt(row, colNOx)),
			NH4:     parseFloatCell(cellAt(row, colNH4)),
			DIN:     parseFloatCell(cellAt(row, colDIN)),
		})
	}

	slog.Info("species workbook loaded",
		slog.String("path", path),
		slog.Int("rows", len(out)))

	return out, nil
}

// ReadTotalNitrogenWorkbook loads the total-nitrogen measurements.
// Expected columns: SiteID, Date, Depth (m), TN(mg/l).
func ReadTotalNitrogenWorkbook(path string) ([]TNRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open total-nitrogen workbook", err).
			WithContext("path", path)
	}
	defer f.Close()

	rows, headerRow, cols, err := locateHeader(f, []string{"site", "date"})
	if err != nil {
		return nil, err
	}

	colStation := findColumn(cols, func(h string) bool { return strings.Contains(h, "site") || strings.Contains(h, "station") })
	colDate := findColumn(cols, func(h string) bool { return strings.Contains(h, "date") })
	colDepth := findColumn(cols, func(h string) bool { return strings.Contains(h, "depth") })
	colTN := findColumn(cols, func(h string) bool { return strings.Contains(h, "tn") })

	if colStation < 0 || colDate < 0 || colTN < 0 {
		return nil, errors.NewParsingError("total-nitrogen workbook is missing a required column", nil).
			WithContext("path", path)
	}

	var out []TNRow
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]

		station := strings.TrimSpace(cellAt(row, colStation))
		if station == "" {
			continue
		}

		date, ok := parseDateCell(cellAt(row, colDate))
		if !ok {
			slog.Warn("skipping total-nitrogen row with unparseable date",
				slog.Int("row", i+1),
				slog.String("station", station),
				slog.String("date_cell", cellAt(row, colDate)))
			continue
		}

		out = append(out, TNRow{
			Station: station,
			Date:    date,
			Depth:   parseFloatCell(cellAt(row, colDepth)),
			TN:      parseFloatCell(cellAt(row, colTN)),
		})
	}

	slog.Info("total-nitrogen workbook loaded",
		slog.String("path", path),
		slog.Int("rows", len(out)))

	return out, nil
}

// ReadStationLookup loads the Station_ID -> Alt_Name display-name
// mapping. The mapping is many-to-one; stations absent from the lookup
// simply surface with an empty display name downstream.
func ReadStationLookup(path string) (map[string]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open station lookup workbook", err).
			WithContext("path", path)
	}
	defer f.Close()

	rows, headerRow, cols, err := locateHeader(f, []string{"station_id"})
	if err != nil {
		return nil, err
	}

	colID := findColumn(cols, func(h string) bool { return strings.Contains(h, "station_id") })
	colName := findColumn(cols, func(h string) bool { return strings.Contains(h, "alt_name") || strings.Contains(h, "name") })

	if colID < 0 || colName < 0 {
		return nil, errors.NewParsingError("station lookup workbook is missing a required column", nil).
			WithContext("path", path)
	}

	names := make(map[string]string)
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		id := strings.TrimSpace(cellAt(row, colID))
		if id == "" {
			continue
		}
		names[id] = strings.TrimSpace(cellAt(row, colName))
	}

	slog.Info("station lookup loaded",
		slog.String("path", path),
		slog.Int("stations", len(names)))

	return names, nil
}

// locateHeader scans every sheet for the first row containing all of
// the required keywords and returns that sheet's rows, the header row
// index, and the lowercased header cells.
func locateHeader(f *excelize.File, required []string) ([][]string, int, []string, error) {
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		for i, row := range rows {
			rowText := strings.ToLower(strings.Join(row, " "))
			found := true
			for _, keyword := range required {
				if !strings.Contains(rowText, keyword) {
					found = false
					break
				}
			}
			if found {
				cols := make([]string, len(row))
				for j, h := range row {
					cols[j] = strings.ToLower(strings.TrimSpace(h))
				}
				return rows, i, cols, nil
			}
		}
	}
	return nil, 0, nil, errors.NewParsingError("could not find a header row in any sheet", nil).
		WithContext("required", strings.Join(required, ","))
}

// findColumn returns the index of the first header matching the
// predicate, or -1.
func findColumn(cols []string, match func(string) bool) int {
	for i, h := range cols {
		if h == "" {
			continue
		}
		if match(h) {
			return i
		}
	}
	return -1
}

// cellAt returns the cell at index i, tolerating ragged rows.
func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
