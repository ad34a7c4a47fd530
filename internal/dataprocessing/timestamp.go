package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NormalizeClockTime repairs the inconsistent collection-time encodings
// in the nitrogen-species workbook. Field sheets recorded times either
// as spreadsheet fraction-of-day numbers (sometimes with a whole-number
// date serial attached) or as already-formatted "HH:MM" strings.
//
// A value containing a colon passes through unchanged, which makes the
// function idempotent. A numeric value is read as a fraction of a day;
// fractions above 0.9999 are datetime serials and have their integer
// part stripped first. The fraction is rounded half-up to whole
// minutes, so exact minute boundaries survive floating-point
// representation (0.5 -> "12:00", never "11:59").
//
// Empty input yields empty output, and so does anything unparseable:
// a missing collection time is missing data, not an error.
func NormalizeClockTime(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if strings.Contains(s, ":") {
		return s
	}

	frac, err := strconv.ParseFloat(s, 64)
	if err != nil || frac < 0 {
		return ""
	}
	if frac > 0.9999 {
		frac -= math.Floor(frac)
	}

	minutes := int(math.Round(frac*24*60)) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
