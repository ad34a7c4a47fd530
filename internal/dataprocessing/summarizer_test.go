package dataprocessing

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focbcli/pkg/domain"
)

func statRecord(station string, tn float64) domain.SampleRecord {
	return domain.SampleRecord{
		Station: station,
		Date:    time.Date(2019, time.June, 1, 0, 0, 0, 0, time.UTC),
		Year:    2019,
		Month:   time.June,
		TN:      domain.Float(tn),
	}
}

func TestSummarize_Descriptives(t *testing.T) {
	records := []domain.SampleRecord{
		statRecord("P5", 1),
		statRecord("P5", 2),
		statRecord("P5", 3),
		statRecord("P5", 4),
		statRecord("P5", 5),
	}

	s := NewSummarizer(nil, map[string]string{"P5": "Fort Point"})
	got := s.Summarize(context.Background(), records, domain.FieldTN)

	require.Len(t, got, 1)
	st := got[0]
	assert.Equal(t, "P5", st.Station)
	assert.Equal(t, "Fort Point", st.StationName)
	assert.Equal(t, 5, st.N)
	assert.InDelta(t, 3.0, st.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(2.5), st.SD, 1e-12)
	assert.InDelta(t, 3.0, st.Median, 1e-12)
	assert.InDelta(t, 2.0, st.IQR, 1e-12)
	assert.InDelta(t, 5.0, st.P90, 1e-12)
}

// Powers of ten centered geometrically: the geometric mean is exactly 1.
func TestSummarize_GeometricMean(t *testing.T) {
	records := []domain.SampleRecord{
		statRecord("P5", 0.1),
		statRecord("P5", 1.0),
		statRecord("P5", 10.0),
	}

	s := NewSummarizer(nil, nil)
	got := s.Summarize(context.Background(), records, domain.FieldTN)

	require.Len(t, got, 1)
	require.NotNil(t, got[0].GeoMean)
	assert.InDelta(t, 1.0, *got[0].GeoMean, 1e-12)
}

// A non-detect zero makes the log undefined; the geometric mean must be
// null, never silently coerced.
func TestSummarize_GeometricMeanUndefinedForNonPositive(t *testing.T) {
	records := []domain.SampleRecord{
		statRecord("P5", 0),
		statRecord("P5", 1),
		statRecord("P5", 10),
	}

	s := NewSummarizer(nil, nil)
	got := s.Summarize(context.Background(), records, domain.FieldTN)

	require.Len(t, got, 1)
	assert.Nil(t, got[0].GeoMean)
	// The remaining statistics still include the zero
	assert.Equal(t, 3, got[0].N)
}

func TestSummarize_SortedByAscendingMedian(t *testing.T) {
	records := []domain.SampleRecord{
		statRecord("HIGH", 10), statRecord("HIGH", 11), statRecord("HIGH", 12),
		statRecord("LOW", 1), statRecord("LOW", 2), statRecord("LOW", 3),
		statRecord("MID", 5), statRecord("MID", 6), statRecord("MID", 7),
	}

	s := NewSummarizer(nil, nil)
	got := s.Summarize(context.Background(), records, domain.FieldTN)

	require.Len(t, got, 3)
	assert.Equal(t, "LOW", got[0].Station)
	assert.Equal(t, "MID", got[1].Station)
	assert.Equal(t, "HIGH", got[2].Station)
}

func TestSummarize_SkipsStationsWithoutObservations(t *testing.T) {
	records := []domain.SampleRecord{
		statRecord("P5", 1),
		{Station: "EMPTY", Year: 2019, NOx: domain.Float(2)}, // no TN
	}

	s := NewSummarizer(nil, nil)
	got := s.Summarize(context.Background(), records, domain.FieldTN)

	require.Len(t, got, 1)
	assert.Equal(t, "P5", got[0].Station)
}

// Stations missing from the lookup degrade to an empty display name
// rather than failing.
func TestSummarize_UnmappedStation(t *testing.T) {
	records := []domain.SampleRecord{statRecord("UNKNOWN", 1)}

	s := NewSummarizer(nil, map[string]string{"P5": "Fort Point"})
	got := s.Summarize(context.Background(), records, domain.FieldTN)

	require.Len(t, got, 1)
	assert.Equal(t, "", got[0].StationName)
}
