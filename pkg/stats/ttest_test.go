package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWelch(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 4, 6, 8, 10}

	res, err := Welch(x, y)
	require.NoError(t, err)
	assert.Equal(t, 5, res.N1)
	assert.Equal(t, 5, res.N2)
	assert.InDelta(t, -1.8974, res.Statistic, 1e-3)
	assert.InDelta(t, 5.8824, res.DF, 1e-3)
	assert.Greater(t, res.P, 0.05)
	assert.Less(t, res.P, 0.2)
	assert.Equal(t, "ns", res.Band)
}

func TestWelchStrongSeparation(t *testing.T) {
	x := []float64{1.0, 1.1, 0.9, 1.05, 0.95, 1.02}
	y := []float64{9.0, 9.1, 8.9, 9.05, 8.95, 9.02}

	res, err := Welch(x, y)
	require.NoError(t, err)
	assert.Less(t, res.P, 0.001)
	assert.Equal(t, "***", res.Band)
}

func TestWelchErrors(t *testing.T) {
	_, err := Welch([]float64{1}, []float64{1, 2, 3})
	assert.Error(t, err)

	_, err = Welch([]float64{2, 2, 2}, []float64{3, 3, 3})
	assert.Error(t, err, "zero variance in both groups is degenerate")
}

func TestBand(t *testing.T) {
	cases := []struct {
		p    float64
		want string
	}{
		{0.0001, "***"},
		{0.005, "**"},
		{0.03, "*"},
		{0.05, "ns"},
		{0.7, "ns"},
		{math.NaN(), ""},
	}
	for _, c := range cases {
		if got := Band(c.p); got != c.want {
			t.Errorf("Band(%v) = %q, want %q", c.p, got, c.want)
		}
	}
}
