package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"focbcli/internal/errors"
	"focbcli/pkg/domain"
)

// strictHeader is the column order of the canonical cleaned dataset.
var strictHeader = []string{
	"station", "date", "year", "month", "day_of_year",
	"tn", "nox", "nh4", "din",
	"nox_n", "nh4_n", "din_n", "organic_n",
	"error_flag", "tn_depth", "din_depth",
}

var monthAbbrevs = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// WriteStrictDataset materializes the cleaned dataset. Null values are
// empty cells; numbers use the shortest representation that round-trips
// exactly, so reading the file back reproduces the dataset bit for bit.
// No BOM is written: this artifact is a data contract, not a
// spreadsheet import.
func WriteStrictDataset(path string, records []domain.SampleRecord) error {
	w := NewCSVWriter()
	stream, err := w.CreateStreamWriter(path, strictHeader)
	if err != nil {
		return errors.NewStorageError("failed to create strict dataset file", err).
			WithContext("path", path)
	}

	for i := range records {
		if err := stream.WriteRecord(strictRow(&records[i])); err != nil {
			stream.Close()
			return errors.NewStorageError("failed to write strict dataset row", err).
				WithContext("row", i)
		}
	}

	if err := stream.Close(); err != nil {
		return errors.NewStorageError("failed to finish strict dataset file", err).
			WithContext("path", path)
	}

	slog.Info("strict dataset written",
		slog.String("path", path),
		slog.Int("records", len(records)))

	return nil
}

// ReadStrictDataset loads the materialized cleaned dataset. Downstream
// commands use this instead of rerunning the cleaning pipeline, so the
// outlier threshold is never silently recomputed over a different
// subset.
func ReadStrictDataset(path string) ([]domain.SampleRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open strict dataset", err).
			WithContext("path", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewStorageError("failed to read strict dataset", err).
			WithContext("path", path)
	}
	if len(rows) == 0 {
		return nil, errors.NewParsingError("strict dataset is empty", nil).
			WithContext("path", path)
	}

	col, err := strictColumns(rows[0])
	if err != nil {
		return nil, err
	}

	var records []domain.SampleRecord
	for i := 1; i < len(rows); i++ {
		record, err := parseStrictRow(rows[i], col)
		if err != nil {
			slog.Warn("skipping malformed strict dataset row",
				slog.Int("row", i+1),
				slog.String("error", err.Error()))
			continue
		}
		records = append(records, record)
	}

	slog.Info("strict dataset loaded",
		slog.String("path", path),
		slog.Int("records", len(records)))

	return records, nil
}

func strictRow(r *domain.SampleRecord) []string {
	return []string{
		r.Station,
		r.Date.Format("2006-01-02"),
		strconv.Itoa(r.Year),
		r.Month.String()[:3],
		strconv.Itoa(r.DayOfYear),
		formatNullable(r.TN),
		formatNullable(r.NOx),
		formatNullable(r.NH4),
		formatNullable(r.DIN),
		formatNullable(r.NOxN),
		formatNullable(r.NH4N),
		formatNullable(r.DINN),
		formatNullable(r.OrganicN),
		strconv.FormatBool(r.ErrorFlag),
		formatNullable(r.TNDepth),
		formatNullable(r.DINDepth),
	}
}

func strictColumns(header []string) (map[string]int, error) {
	col := make(map[string]int, len(header))
	for i, name := range header {
		// Tolerate a BOM if the file passed through a spreadsheet tool
		col[strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")] = i
	}
	for _, name := range strictHeader {
		if _, ok := col[name]; !ok {
			return nil, errors.NewParsingError("strict dataset is missing a column", nil).
				WithContext("column", name)
		}
	}
	return col, nil
}

func parseStrictRow(row []string, col map[string]int) (domain.SampleRecord, error) {
	get := func(name string) string {
		i := col[name]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	date, err := time.Parse("2006-01-02", get("date"))
	if err != nil {
		return domain.SampleRecord{}, fmt.Errorf("parse date %q: %w", get("date"), err)
	}

	year, err := strconv.Atoi(get("year"))
	if err != nil {
		return domain.SampleRecord{}, fmt.Errorf("parse year %q: %w", get("year"), err)
	}

	month, ok := monthAbbrevs[get("month")]
	if !ok {
		return domain.SampleRecord{}, fmt.Errorf("unknown month %q", get("month"))
	}

	dayOfYear, err := strconv.Atoi(get("day_of_year"))
	if err != nil {
		return domain.SampleRecord{}, fmt.Errorf("parse day_of_year %q: %w", get("day_of_year"), err)
	}

	errorFlag, err := strconv.ParseBool(get("error_flag"))
	if err != nil {
		return domain.SampleRecord{}, fmt.Errorf("parse error_flag %q: %w", get("error_flag"), err)
	}

	return domain.SampleRecord{
		Station:   get("station"),
		Date:      date,
		Year:      year,
		Month:     month,
		DayOfYear: dayOfYear,
		TN:        parseNullable(get("tn")),
		NOx:       parseNullable(get("nox")),
		NH4:       parseNullable(get("nh4")),
		DIN:       parseNullable(get("din")),
		NOxN:      parseNullable(get("nox_n")),
		NH4N:      parseNullable(get("nh4_n")),
		DINN:      parseNullable(get("din_n")),
		OrganicN:  parseNullable(get("organic_n")),
		ErrorFlag: errorFlag,
		TNDepth:   parseNullable(get("tn_depth")),
		DINDepth:  parseNullable(get("din_depth")),
	}, nil
}

// formatNullable renders a nullable value: empty cell for null, the
// shortest exact decimal otherwise.
func formatNullable(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

func parseNullable(cell string) *float64 {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
