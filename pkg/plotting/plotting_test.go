package plotting

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"

	"github.com/benjaminmoon/EOT-forams/pkg/dataset"
	"github.com/benjaminmoon/EOT-forams/pkg/morphospace"
	"github.com/benjaminmoon/EOT-forams/pkg/stats"
)

func plotFixture() *dataset.Table {
	rng := rand.New(rand.NewSource(3))
	t := &dataset.Table{
		Name:    "2d",
		Columns: []string{"P", "D", "WT1", "WT2", "R1"},
	}
	id := 0
	add := func(series dataset.Series, n int, offset float64) {
		for i := 0; i < n; i++ {
			id++
			t.Specimens = append(t.Specimens, dataset.Specimen{
				SampleID:       fmt.Sprintf("p%03d", id),
				Series:         series,
				Age:            34 - 0.02*float64(id),
				D13CPlanktonic: 1 + rng.NormFloat64()*0.2,
				D18OPlanktonic: -0.3 + rng.NormFloat64()*0.2,
				Measures: map[string]float64{
					"P":   200 + offset + rng.NormFloat64()*8,
					"D":   340 + offset + rng.NormFloat64()*10,
					"WT1": 12 + offset/20 + rng.NormFloat64(),
					"WT2": 14 + offset/20 + rng.NormFloat64(),
					"R1":  150 + offset/2 + rng.NormFloat64()*5,
				},
			})
		}
	}
	add(dataset.Eocene, 15, 0)
	add(dataset.EOT, 15, 40)
	add(dataset.Oligocene, 15, 10)
	return t
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestMeasurementBox(t *testing.T) {
	table := plotFixture()
	entry := dataset.Taxonomy2D[3] // wall thickness, two whorl columns
	pairwise := stats.NewPairwiseTester(zap.NewNop()).Compare(table, dataset.Taxonomy2D)

	p, err := MeasurementBox(entry, table, pairwise)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "box_WT.png")
	require.NoError(t, Save(p, path))
	assertPNG(t, path)
}

func TestMeasurementBoxNoColumns(t *testing.T) {
	_, err := MeasurementBox(dataset.TaxEntry{Prefix: "ZZ"}, plotFixture(), nil)
	require.Error(t, err)
}

func TestMeasurementTimeSeries(t *testing.T) {
	table := plotFixture()
	p, err := MeasurementTimeSeries(dataset.Taxonomy2D[0], table)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ts_P.png")
	require.NoError(t, Save(p, path))
	assertPNG(t, path)
}

func TestMorphospacePlot(t *testing.T) {
	table := plotFixture()
	d, err := morphospace.Decompose("2d", table, dataset.MorphospaceTraits2D(table))
	require.NoError(t, err)

	p, err := Morphospace(d)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(5))
	_, samples := morphospace.BootstrapDisparity(zap.NewNop(), d, 50, rng)
	box, err := DisparityBox("2d", samples)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "pca_2d.png")
	require.NoError(t, SavePanels([][]*plot.Plot{{p, box}}, path))
	assertPNG(t, path)
}

func TestRegressionCoefficients(t *testing.T) {
	table := plotFixture()
	rows := stats.NewSweep(zap.NewNop()).Run(table)

	p, err := RegressionCoefficients(rows)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "fig_regression.png")
	require.NoError(t, Save(p, path))
	assertPNG(t, path)
}

func TestRegressionCoefficientsSkipsIntercepts(t *testing.T) {
	rows := []stats.SweepRow{
		{Response: "proloculus", Model: "1", Series: dataset.Eocene,
			Term: stats.InterceptTerm, Estimate: 1.2, StdErr: 0.1},
		{Response: "proloculus", Model: "d13C", Series: dataset.EOT,
			Term: stats.InterceptTerm, Estimate: 0.8, StdErr: 0.2},
	}
	_, err := RegressionCoefficients(rows)
	require.Error(t, err, "intercept-only input leaves nothing to plot")
}

func TestConvexHull(t *testing.T) {
	pts := plotter.XYs{
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2},
		{X: 1, Y: 1}, // interior
	}
	hull := convexHull(pts)
	assert.Len(t, hull, 4, "interior point excluded")

	two := convexHull(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	assert.Len(t, two, 2)
}
