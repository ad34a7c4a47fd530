package regress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestFit_ExactLine(t *testing.T) {
	// y = 2 + 3x, no noise
	xs := []float64{0, 1, 2, 3, 4, 5}
	x := mat.NewDense(len(xs), 2, nil)
	y := make([]float64, len(xs))
	for i, v := range xs {
		x.Set(i, 0, 1)
		x.Set(i, 1, v)
		y[i] = 2 + 3*v
	}

	m, err := Fit(x, y)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, m.Coef[0], 1e-9)
	assert.InDelta(t, 3.0, m.Coef[1], 1e-9)
	assert.InDelta(t, 1.0, m.RSquared, 1e-12)
	assert.InDelta(t, 0.0, m.ResidualVar, 1e-12)
	assert.Equal(t, 4, m.DF)

	// Zero residual variance collapses the interval onto the estimate
	est, lo, hi := m.PredictCI([]float64{1, 10}, 0.95)
	assert.InDelta(t, 32.0, est, 1e-9)
	assert.InDelta(t, est, lo, 1e-6)
	assert.InDelta(t, est, hi, 1e-6)
}

func TestFit_NoisySlope(t *testing.T) {
	// y = 1 + 2x with symmetric residuals of +-1 on alternating points
	xs := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	x := mat.NewDense(len(xs), 2, nil)
	y := make([]float64, len(xs))
	for i, v := range xs {
		x.Set(i, 0, 1)
		x.Set(i, 1, v)
		noise := 1.0
		if i%2 == 1 {
			noise = -1.0
		}
		y[i] = 1 + 2*v + noise
	}

	m, err := Fit(x, y)
	require.NoError(t, err)

	est, se, lo, hi := m.CoefCI(1, 0.95)
	assert.Greater(t, se, 0.0)
	assert.Less(t, lo, est)
	assert.Greater(t, hi, est)
	// Slope should be near 2 despite the noise
	assert.InDelta(t, 2.0, est, 0.2)
	assert.Less(t, m.RSquared, 1.0)
	assert.Greater(t, m.RSquared, 0.9)
}

// With a balanced one-way design, the marginal mean of each group must
// equal its sample mean.
func TestPredictCI_BalancedGroupMeans(t *testing.T) {
	// Two groups dummy-coded with an intercept: columns {1, g2}
	values := map[int][]float64{
		0: {1, 2, 3},
		1: {7, 8, 9},
	}

	x := mat.NewDense(6, 2, nil)
	y := make([]float64, 6)
	i := 0
	for g := 0; g <= 1; g++ {
		for _, v := range values[g] {
			x.Set(i, 0, 1)
			x.Set(i, 1, float64(g))
			y[i] = v
			i++
		}
	}

	m, err := Fit(x, y)
	require.NoError(t, err)

	est0, lo0, hi0 := m.PredictCI([]float64{1, 0}, 0.95)
	est1, _, _ := m.PredictCI([]float64{1, 1}, 0.95)

	assert.InDelta(t, 2.0, est0, 1e-9)
	assert.InDelta(t, 8.0, est1, 1e-9)
	assert.Less(t, lo0, est0)
	assert.Greater(t, hi0, est0)
}

func TestFit_Errors(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{1, 0, 1, 1})

	_, err := Fit(x, []float64{1, 2, 3})
	assert.Error(t, err, "dimension mismatch")

	_, err = Fit(x, []float64{1, 2})
	assert.Error(t, err, "no residual degrees of freedom")
}
