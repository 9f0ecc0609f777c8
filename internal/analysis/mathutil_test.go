package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentile(t *testing.T) {
	values := []float64{40, 10, 20, 30}

	assert.Equal(t, 0.0, percentile(nil, 50))
	assert.Equal(t, 10.0, percentile(values, 0))
	assert.Equal(t, 40.0, percentile(values, 100))
	assert.InDelta(t, 25, percentile(values, 50), 1e-9)
	assert.InDelta(t, 17.5, percentile(values, 25), 1e-9)

	// The input must not be reordered.
	assert.Equal(t, []float64{40, 10, 20, 30}, values)
}

func TestMeanAndStd(t *testing.T) {
	assert.Equal(t, 0.0, mean(nil))
	assert.Equal(t, 0.0, populationStd(nil))

	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 5, mean(values), 1e-9)
	// Classic population-std example: divide by n, not n-1.
	assert.InDelta(t, 2, populationStd(values), 1e-9)
}

func TestIQRBounds(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 100}
	lo, hi := iqrBounds(values)
	assert.Less(t, lo, 1.0)
	assert.Less(t, hi, 100.0, "the fence must exclude the outlier")
}

func TestWeightedLinearRegressionExact(t *testing.T) {
	// Noiseless line: the fit must recover it exactly with R2 = 1.
	xs := []float64{0, 1, 2, 3, 4, 5}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = 3*x - 2
	}
	ws := recencyWeights(len(xs), 6)

	fit := weightedLinearRegression(xs, ys, ws)
	assert.InDelta(t, 3, fit.Slope, 1e-9)
	assert.InDelta(t, -2, fit.Intercept, 1e-9)
	assert.InDelta(t, 1, fit.R2, 1e-9)
}

func TestWeightedLinearRegressionDegenerate(t *testing.T) {
	// Zero x-variance: flat fit at the weighted mean, no NaN.
	fit := weightedLinearRegression([]float64{2, 2, 2}, []float64{1, 2, 3}, []float64{1, 1, 1})
	assert.Equal(t, 0.0, fit.Slope)
	assert.InDelta(t, 2, fit.Intercept, 1e-9)
	assert.Equal(t, 0.0, fit.R2)

	// Mismatched lengths and zero weights are inert.
	assert.Equal(t, regressionResult{}, weightedLinearRegression([]float64{1}, []float64{1, 2}, []float64{1}))
	assert.Equal(t, regressionResult{}, weightedLinearRegression([]float64{1, 2}, []float64{1, 2}, []float64{0, 0}))
}

func TestRecencyWeights(t *testing.T) {
	ws := recencyWeights(13, 6)
	assert.InDelta(t, 1, ws[12], 1e-9, "most recent sample has weight 1")
	assert.InDelta(t, 0.5, ws[6], 1e-9, "weight halves every half-life")
	assert.InDelta(t, 0.25, ws[0], 1e-9)
}
