package exporter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focbcli/internal/errors"
	"focbcli/pkg/domain"
)

func sampleRecords() []domain.SampleRecord {
	return []domain.SampleRecord{
		{
			Station:   "P5",
			Date:      time.Date(2019, time.June, 15, 0, 0, 0, 0, time.UTC),
			Year:      2019,
			Month:     time.June,
			DayOfYear: 166,
			TN:        domain.Float(0.4),
			NOx:       domain.Float(1.5),
			NH4:       domain.Float(0.8),
			DIN:       domain.Float(2.3),
			NOxN:      domain.Float(0.0210105),
			NH4N:      domain.Float(0.0112056),
			DINN:      domain.Float(0.0322161),
			OrganicN:  domain.Float(0.3677839),
			TNDepth:   domain.Float(0.1),
			DINDepth:  domain.Float(0.2),
		},
		{
			// TN-only record with a non-detect zero
			Station:   "P7",
			Date:      time.Date(2020, time.February, 29, 0, 0, 0, 0, time.UTC),
			Year:      2020,
			Month:     time.February,
			DayOfYear: 60,
			TN:        domain.Float(0),
		},
		{
			// Error-flagged record with negative organic nitrogen
			Station:   "P9",
			Date:      time.Date(2018, time.September, 3, 0, 0, 0, 0, time.UTC),
			Year:      2018,
			Month:     time.September,
			DayOfYear: 246,
			TN:        domain.Float(0.05),
			DIN:       domain.Float(50),
			DINN:      domain.Float(0.70035),
			OrganicN:  domain.Float(-0.65035),
			ErrorFlag: true,
		},
	}
}

// Writing the cleaned dataset and reading it back must reproduce
// station sets, null patterns and numeric values exactly.
func TestStrictDataset_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focb_n_data_strict.csv")
	want := sampleRecords()

	require.NoError(t, WriteStrictDataset(path, want))

	got, err := ReadStrictDataset(path)
	require.NoError(t, err)
	require.Len(t, got, len(want))

	for i := range want {
		w, g := want[i], got[i]
		assert.Equal(t, w.Station, g.Station, "record %d", i)
		assert.True(t, w.Date.Equal(g.Date), "record %d", i)
		assert.Equal(t, w.Year, g.Year, "record %d", i)
		assert.Equal(t, w.Month, g.Month, "record %d", i)
		assert.Equal(t, w.DayOfYear, g.DayOfYear, "record %d", i)
		assert.Equal(t, w.ErrorFlag, g.ErrorFlag, "record %d", i)

		assertNullableEqual(t, w.TN, g.TN, "tn", i)
		assertNullableEqual(t, w.NOx, g.NOx, "nox", i)
		assertNullableEqual(t, w.NH4, g.NH4, "nh4", i)
		assertNullableEqual(t, w.DIN, g.DIN, "din", i)
		assertNullableEqual(t, w.NOxN, g.NOxN, "nox_n", i)
		assertNullableEqual(t, w.NH4N, g.NH4N, "nh4_n", i)
		assertNullableEqual(t, w.DINN, g.DINN, "din_n", i)
		assertNullableEqual(t, w.OrganicN, g.OrganicN, "organic_n", i)
		assertNullableEqual(t, w.TNDepth, g.TNDepth, "tn_depth", i)
		assertNullableEqual(t, w.DINDepth, g.DINDepth, "din_depth", i)
	}
}

func assertNullableEqual(t *testing.T, want, got *float64, field string, i int) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got, "%s of record %d", field, i)
		return
	}
	require.NotNil(t, got, "%s of record %d", field, i)
	assert.InDelta(t, *want, *got, 1e-9, "%s of record %d", field, i)
}

func TestWriteStrictDataset_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	require.NoError(t, WriteStrictDataset(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "station,date,year,month,day_of_year")

	got, err := ReadStrictDataset(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadStrictDataset_MissingFile(t *testing.T) {
	_, err := ReadStrictDataset(filepath.Join(t.TempDir(), "nope.csv"))

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeStorage))
}

func TestReadStrictDataset_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("station,date\nP5,2019-06-15\n"), 0644))

	_, err := ReadStrictDataset(path)

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
}

func TestReadStrictDataset_ToleratesBOMHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strict.csv")
	require.NoError(t, WriteStrictDataset(path, sampleRecords()))

	// Simulate a spreadsheet tool resaving the file with a BOM
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, append([]byte{0xEF, 0xBB, 0xBF}, data...), 0644))

	got, err := ReadStrictDataset(path)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}
