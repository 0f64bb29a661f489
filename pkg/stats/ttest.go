// Package stats holds the univariate statistics of the analysis: Welch
// two-sample t-tests with significance banding, the pairwise series
// comparisons, and the AR(1) generalized-least-squares regression sweep.
package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// TTestResult is one Welch two-sample t-test.
type TTestResult struct {
	N1        int     `json:"n1"`
	N2        int     `json:"n2"`
	Statistic float64 `json:"statistic"`
	DF        float64 `json:"df"`
	P         float64 `json:"p"`
	Band      string  `json:"band"`
}

// Welch runs an unequal-variance two-sample t-test. It needs at least two
// observations per group and a non-zero pooled standard error.
func Welch(x, y []float64) (TTestResult, error) {
	if len(x) < 2 || len(y) < 2 {
		return TTestResult{}, fmt.Errorf("t-test needs >=2 observations per group, got %d and %d", len(x), len(y))
	}
	mx := stat.Mean(x, nil)
	my := stat.Mean(y, nil)
	vx := stat.Variance(x, nil)
	vy := stat.Variance(y, nil)
	nx := float64(len(x))
	ny := float64(len(y))

	sx := vx / nx
	sy := vy / ny
	se := math.Sqrt(sx + sy)
	if se == 0 {
		return TTestResult{}, fmt.Errorf("t-test degenerate: zero variance in both groups")
	}

	t := (mx - my) / se
	// Welch-Satterthwaite degrees of freedom.
	df := (sx + sy) * (sx + sy) / (sx*sx/(nx-1) + sy*sy/(ny-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.CDF(-math.Abs(t))

	return TTestResult{
		N1:        len(x),
		N2:        len(y),
		Statistic: t,
		DF:        df,
		P:         p,
		Band:      Band(p),
	}, nil
}

// Band classifies a p-value into the four significance bands used on
// figures and in every result table.
func Band(p float64) string {
	switch {
	case math.IsNaN(p):
		return ""
	case p < 0.001:
		return "***"
	case p < 0.01:
		return "**"
	case p < 0.05:
		return "*"
	default:
		return "ns"
	}
}
