package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// Fixed small perturbations keep the fit away from a degenerate zero-RSS
// solution without pulling in a random source.
var wiggle = []float64{0.11, -0.07, 0.05, -0.12, 0.09, -0.03, 0.08, -0.10, 0.04, -0.06, 0.12, -0.05}

func linearFixture(n int) ([]float64, *mat.Dense) {
	y := make([]float64, n)
	x := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		xi := float64(i)
		x.Set(i, 0, 1)
		x.Set(i, 1, xi)
		y[i] = 2 + 3*xi + wiggle[i%len(wiggle)]
	}
	return y, x
}

func TestFitAR1RecoversLinearTrend(t *testing.T) {
	y, x := linearFixture(12)
	fit, err := FitAR1(y, x, []string{"(Intercept)", "x"})
	require.NoError(t, err)

	require.Equal(t, []string{"(Intercept)", "x"}, fit.Terms)
	assert.InDelta(t, 2, fit.Coef[0], 0.3)
	assert.InDelta(t, 3, fit.Coef[1], 0.05)
	assert.Equal(t, 12, fit.N)
	assert.False(t, math.IsNaN(fit.LogLik))
	assert.False(t, math.IsNaN(fit.AIC))
	assert.Greater(t, fit.StdErr[1], 0.0)
	assert.Less(t, math.Abs(fit.Rho), 1.0)
	// AIC = -2 logLik + 2(p + 2) with p = 2.
	assert.InDelta(t, -2*fit.LogLik+8, fit.AIC, 1e-9)
}

func TestFitAR1InterceptOnly(t *testing.T) {
	y := []float64{5.1, 4.9, 5.2, 4.8, 5.05, 4.95, 5.15, 4.85}
	x := mat.NewDense(len(y), 1, nil)
	for i := range y {
		x.Set(i, 0, 1)
	}
	fit, err := FitAR1(y, x, []string{"(Intercept)"})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, fit.Coef[0], 0.1)
}

func TestFitAR1TooFewRows(t *testing.T) {
	y := []float64{1, 2, 3}
	x := mat.NewDense(3, 2, []float64{1, 0, 1, 1, 1, 2})
	_, err := FitAR1(y, x, []string{"(Intercept)", "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient")
}

func TestFitAR1SingularDesign(t *testing.T) {
	n := 10
	y := make([]float64, n)
	x := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		xi := float64(i)
		x.Set(i, 0, 1)
		x.Set(i, 1, xi)
		x.Set(i, 2, 2*xi) // collinear with column 1
		y[i] = 1 + xi + wiggle[i]
	}
	_, err := FitAR1(y, x, []string{"(Intercept)", "a", "b"})
	require.Error(t, err)
}
