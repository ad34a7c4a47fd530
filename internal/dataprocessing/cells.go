package dataprocessing

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// parseFloatCell reads a numeric spreadsheet cell. Empty or
// non-numeric cells become nil, never zero: zero is a real value
// (a non-detect) in this dataset.
func parseFloatCell(cell string) *float64 {
	s := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// dateLayouts covers the date encodings seen across workbook exports.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"1/2/06",
	"2006/01/02",
	"02-Jan-06",
}

// parseDateCell reads a date cell, accepting both formatted strings and
// raw Excel serial numbers. The result is truncated to calendar-date
// precision in UTC.
func parseDateCell(cell string) (time.Time, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateToDate(t), true
		}
	}

	// Excel date serial (days since the 1900 epoch)
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return truncateToDate(t), true
		}
	}

	return time.Time{}, false
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
