// Package regress provides the ordinary-least-squares fitting used by
// the trend reports: coefficients with their covariance, fit quality,
// and point estimates with confidence intervals for arbitrary
// predictor combinations (the marginal-means contract).
package regress

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Model holds a fitted least-squares model.
type Model struct {
	// Coef are the fitted coefficients, one per design-matrix column.
	Coef []float64

	// Cov is the coefficient covariance matrix, sigma^2 (X'X)^-1.
	Cov *mat.Dense

	// ResidualVar is the residual variance sigma^2 = RSS / (n - p).
	ResidualVar float64

	// RSquared is the coefficient of determination.
	RSquared float64

	// DF is the residual degrees of freedom, n - p.
	DF int
}

// Fit performs ordinary least squares of y on the columns of x. The
// caller supplies the design matrix, including an intercept column if
// one is wanted. Requires more observations than predictors.
func Fit(x *mat.Dense, y []float64) (*Model, error) {
	n, p := x.Dims()
	if n != len(y) {
		return nil, fmt.Errorf("design matrix has %d rows but response has %d values", n, len(y))
	}
	if n <= p {
		return nil, fmt.Errorf("insufficient observations: %d rows for %d predictors", n, p)
	}

	yVec := mat.NewVecDense(n, y)

	var qr mat.QR
	qr.Factorize(x)

	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, yVec); err != nil {
		return nil, fmt.Errorf("solve least squares: %w", err)
	}

	var fitted mat.VecDense
	fitted.MulVec(x, &beta)

	meanY := stat.Mean(y, nil)
	var rss, tss float64
	for i := 0; i < n; i++ {
		resid := y[i] - fitted.AtVec(i)
		rss += resid * resid
		dev := y[i] - meanY
		tss += dev * dev
	}

	rsquared := 1.0
	if tss > 0 {
		rsquared = 1 - rss/tss
	}

	df := n - p
	sigma2 := rss / float64(df)

	var xtx mat.Dense
	xtx.Mul(x.T(), x)

	cov := mat.NewDense(p, p, nil)
	if err := cov.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("invert X'X: %w", err)
	}
	cov.Scale(sigma2, cov)

	coef := make([]float64, p)
	for j := 0; j < p; j++ {
		coef[j] = beta.AtVec(j)
	}

	return &Model{
		Coef:        coef,
		Cov:         cov,
		ResidualVar: sigma2,
		RSquared:    rsquared,
		DF:          df,
	}, nil
}

// Predict returns the point estimate for one predictor row.
func (m *Model) Predict(row []float64) float64 {
	var est float64
	for j, v := range row {
		est += m.Coef[j] * v
	}
	return est
}

// PredictCI returns the point estimate for one predictor row together
// with a confidence interval at the given level (e.g. 0.95). The
// interval uses the Student's t distribution on the residual degrees
// of freedom. This is the "predict at a grouping level, with the other
// covariates held fixed" operation that backs marginal means.
func (m *Model) PredictCI(row []float64, level float64) (est, lo, hi float64) {
	est = m.Predict(row)

	v := mat.NewVecDense(len(row), row)
	var tmp mat.VecDense
	tmp.MulVec(m.Cov, v)
	variance := mat.Dot(v, &tmp)
	se := math.Sqrt(math.Max(variance, 0))

	crit := m.critValue(level)
	return est, est - crit*se, est + crit*se
}

// CoefCI returns coefficient j with its standard error and confidence
// interval at the given level.
func (m *Model) CoefCI(j int, level float64) (est, se, lo, hi float64) {
	est = m.Coef[j]
	se = math.Sqrt(math.Max(m.Cov.At(j, j), 0))
	crit := m.critValue(level)
	return est, se, est - crit*se, est + crit*se
}

func (m *Model) critValue(level float64) float64 {
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(m.DF)}
	return t.Quantile(0.5 + level/2)
}
