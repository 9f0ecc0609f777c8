package analysis

import (
	"math"
	"sort"
)

// mean returns the arithmetic mean, or 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// populationStd returns the population standard deviation (divide by n),
// or 0 for an empty slice.
func populationStd(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// median returns the middle value of the slice, or 0 when empty. The input
// is not modified.
func median(values []float64) float64 {
	return percentile(values, 50)
}

// percentile returns the p-th percentile (0..100) using linear
// interpolation between closest ranks. Returns 0 for an empty slice. The
// input is not modified.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// iqrBounds returns the Tukey outlier fences [Q1 - 1.5*IQR, Q3 + 1.5*IQR].
func iqrBounds(values []float64) (lo, hi float64) {
	q1 := percentile(values, 25)
	q3 := percentile(values, 75)
	iqr := q3 - q1
	return q1 - 1.5*iqr, q3 + 1.5*iqr
}

// clamp limits v to the [lo, hi] range.
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// regressionResult holds a weighted least-squares line fit.
type regressionResult struct {
	Slope     float64
	Intercept float64
	// R2 is the coefficient of determination computed on the weighted
	// residual and total sums of squares.
	R2 float64
}

// weightedLinearRegression fits y = slope*x + intercept by weighted least
// squares using weighted Pearson-style normal equations. Degenerate inputs
// (mismatched lengths, zero total weight, zero x-variance) yield a flat fit
// with R2 = 0 rather than NaN.
func weightedLinearRegression(xs, ys, ws []float64) regressionResult {
	n := len(xs)
	if n == 0 || len(ys) != n || len(ws) != n {
		return regressionResult{}
	}

	wSum := 0.0
	for _, w := range ws {
		wSum += w
	}
	if wSum <= 0 {
		return regressionResult{}
	}

	mx, my := 0.0, 0.0
	for i := 0; i < n; i++ {
		mx += ws[i] * xs[i]
		my += ws[i] * ys[i]
	}
	mx /= wSum
	my /= wSum

	sxx, sxy, syy := 0.0, 0.0, 0.0
	for i := 0; i < n; i++ {
		dx := xs[i] - mx
		dy := ys[i] - my
		sxx += ws[i] * dx * dx
		sxy += ws[i] * dx * dy
		syy += ws[i] * dy * dy
	}
	if sxx <= 0 {
		return regressionResult{Intercept: my}
	}

	slope := sxy / sxx
	intercept := my - slope*mx

	r2 := 0.0
	if syy > 0 {
		ssRes := 0.0
		for i := 0; i < n; i++ {
			resid := ys[i] - (slope*xs[i] + intercept)
			ssRes += ws[i] * resid * resid
		}
		r2 = 1 - ssRes/syy
		r2 = clamp(r2, 0, 1)
	}

	return regressionResult{Slope: slope, Intercept: intercept, R2: r2}
}

// recencyWeights returns exponential recency-decay weights for n ordered
// samples: weight_i = 0.5^((n-1-i)/halfLife), so the most recent sample has
// weight 1 and weight halves every halfLife samples.
func recencyWeights(n int, halfLife float64) []float64 {
	ws := make([]float64, n)
	if halfLife <= 0 {
		halfLife = 1
	}
	for i := 0; i < n; i++ {
		ws[i] = math.Pow(0.5, float64(n-1-i)/halfLife)
	}
	return ws
}
