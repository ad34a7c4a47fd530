package domain

import "time"

// SampleRecord is one merged nutrient observation for a (station, date)
// pair. Nullable measurements are pointers: nil means the laboratory did
// not report a value, which is distinct from a reported zero (a
// non-detect is a valid, suspect-but-present measurement).
type SampleRecord struct {
	Station   string
	Date      time.Time
	Year      int
	Month     time.Month
	DayOfYear int

	// Reported concentrations. TN is mass (mg/L); NOx, NH4 and DIN are
	// molar (µM). DIN is independently reported by the lab, not derived
	// from NOx + NH4.
	TN  *float64
	NOx *float64
	NH4 *float64
	DIN *float64

	// Mass-equivalent conversions, mg/L as elemental nitrogen.
	NOxN *float64
	NH4N *float64
	DINN *float64

	// OrganicN = TN - DINN. May be negative; independent lab
	// measurements make small negative values an expected artifact and
	// they are never clamped.
	OrganicN *float64

	// ErrorFlag is true exactly when DINN and TN are both reported and
	// DINN > TN, which is physically impossible beyond measurement
	// noise and marks a likely lab error.
	ErrorFlag bool

	// Sample depths (meters) from each source table, kept for
	// provenance. They are not equal by construction.
	TNDepth  *float64
	DINDepth *float64
}

// HasSignal reports whether the record carries any usable nitrogen
// measurement. Records where TN, NOxN and NH4N are all missing are
// dropped from the merged dataset.
func (r *SampleRecord) HasSignal() bool {
	return r.TN != nil || r.NOx != nil || r.NH4 != nil
}

// FieldAccessor selects one nutrient field from a record. Selectors are
// passed to the trend-site rule and the summarizer so the same logic
// runs per nutrient.
type FieldAccessor func(*SampleRecord) *float64

// Accessors for the fields downstream analyses target.
var (
	FieldTN       FieldAccessor = func(r *SampleRecord) *float64 { return r.TN }
	FieldNOxN     FieldAccessor = func(r *SampleRecord) *float64 { return r.NOxN }
	FieldNH4N     FieldAccessor = func(r *SampleRecord) *float64 { return r.NH4N }
	FieldDINN     FieldAccessor = func(r *SampleRecord) *float64 { return r.DINN }
	FieldOrganicN FieldAccessor = func(r *SampleRecord) *float64 { return r.OrganicN }
)

// FieldByName maps the CSV column names used in exports to accessors.
func FieldByName(name string) (FieldAccessor, bool) {
	switch name {
	case "tn":
		return FieldTN, true
	case "nox_n":
		return FieldNOxN, true
	case "nh4_n":
		return FieldNH4N, true
	case "din_n":
		return FieldDINN, true
	case "organic_n":
		return FieldOrganicN, true
	}
	return nil, false
}

// Float returns a pointer to v. Convenience for building records.
func Float(v float64) *float64 {
	return &v
}
