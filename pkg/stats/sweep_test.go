package stats

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/benjaminmoon/EOT-forams/pkg/dataset"
)

// sweepFixture builds a table where Eocene and EOT carry full isotope
// covariates while Oligocene has none, so every Oligocene cell must fall
// back to the sentinel row.
func sweepFixture() *dataset.Table {
	t := &dataset.Table{
		Name:    "2d",
		Columns: []string{"P", "WT1", "WT2", "R1", "R2"},
	}
	age := 35.0
	id := 0
	add := func(series dataset.Series, withIsotopes bool) {
		for i := 0; i < 14; i++ {
			id++
			sp := dataset.Specimen{
				SampleID: fmt.Sprintf("s%03d", id),
				Series:   series,
				Age:      age,
				Measures: map[string]float64{
					"P":   200 + 3*float64(i) + wiggle[i%len(wiggle)],
					"WT1": 10 + 0.4*float64(i) + wiggle[(i+3)%len(wiggle)],
					"WT2": 12 + 0.4*float64(i) + wiggle[(i+5)%len(wiggle)],
					"R1":  100 + 2*float64(i) + wiggle[(i+7)%len(wiggle)],
					"R2":  210 + 2*float64(i) + wiggle[(i+9)%len(wiggle)],
				},
			}
			if withIsotopes {
				sp.D13CPlanktonic = 1.0 + 0.1*float64(i) + 0.5*wiggle[i%len(wiggle)]
				sp.D18OPlanktonic = -0.5 + 0.07*float64(i) - 0.4*wiggle[(i+4)%len(wiggle)]
			} else {
				sp.D13CPlanktonic = math.NaN()
				sp.D18OPlanktonic = math.NaN()
			}
			t.Specimens = append(t.Specimens, sp)
			age -= 0.05
		}
	}
	add(dataset.Eocene, true)
	add(dataset.EOT, true)
	add(dataset.Oligocene, false)
	return t
}

func TestCandidateModels(t *testing.T) {
	models := CandidateModels(dataset.SweepPredictors)
	require.Len(t, models, 4)
	assert.Equal(t, "1", models[0].Name)
	assert.Equal(t, "d13C", models[1].Name)
	assert.Equal(t, "d18O", models[2].Name)
	assert.Equal(t, "d13C+d18O", models[3].Name)
}

func TestSweepShapeInvariant(t *testing.T) {
	table := sweepFixture()
	rows := NewSweep(zap.NewNop()).Run(table)

	models := CandidateModels(dataset.SweepPredictors)
	responses := dataset.SweepResponses(table)

	// Every grid cell produces at least one row, and exactly one row per
	// coefficient term within the cell.
	for _, resp := range responses {
		for _, model := range models {
			for _, series := range dataset.SeriesOrder {
				var cell []SweepRow
				for _, r := range rows {
					if r.Response == resp.Name && r.Model == model.Name && r.Series == series {
						cell = append(cell, r)
					}
				}
				require.NotEmpty(t, cell, "missing cell %s/%s/%s", resp.Name, model.Name, series)
				terms := map[string]int{}
				for _, r := range cell {
					terms[r.Term]++
				}
				for term, n := range terms {
					assert.Equal(t, 1, n, "duplicate term %s in cell %s/%s/%s", term, resp.Name, model.Name, series)
				}
			}
		}
	}
}

func TestSweepSentinelOnMissingCovariates(t *testing.T) {
	table := sweepFixture()
	rows := NewSweep(zap.NewNop()).Run(table)

	for _, r := range rows {
		if r.Series != dataset.Oligocene {
			continue
		}
		assert.Equal(t, InterceptTerm, r.Term)
		assert.True(t, math.IsNaN(r.Estimate), "sentinel estimate must be NaN")
		assert.True(t, math.IsNaN(r.AIC))
		assert.True(t, math.IsNaN(r.DeltaAIC))
		assert.Equal(t, 0, r.N, "no complete cases without isotopes")
	}
}

func TestSweepDeltaInvariants(t *testing.T) {
	table := sweepFixture()
	rows := NewSweep(zap.NewNop()).Run(table)

	type key struct {
		response string
		series   dataset.Series
	}
	minDelta := map[key]float64{}
	maxDeltaLL := map[key]float64{}
	for _, r := range rows {
		if math.IsNaN(r.AIC) {
			continue
		}
		k := key{r.Response, r.Series}
		assert.GreaterOrEqual(t, r.DeltaAIC, 0.0)
		assert.LessOrEqual(t, r.DeltaLogLik, 0.0)
		if cur, ok := minDelta[k]; !ok || r.DeltaAIC < cur {
			minDelta[k] = r.DeltaAIC
		}
		if cur, ok := maxDeltaLL[k]; !ok || r.DeltaLogLik > cur {
			maxDeltaLL[k] = r.DeltaLogLik
		}
	}
	require.NotEmpty(t, minDelta)
	for k, v := range minDelta {
		assert.InDelta(t, 0, v, 1e-9, "min deltaAIC for %v", k)
	}
	for k, v := range maxDeltaLL {
		assert.InDelta(t, 0, v, 1e-9, "max deltaLogLik for %v", k)
	}
}

func TestPairwiseCompare(t *testing.T) {
	table := sweepFixture()
	results := NewPairwiseTester(zap.NewNop()).Compare(table, dataset.Taxonomy2D)

	// 5 measurement columns x 3 pairs.
	require.Len(t, results, 15)
	for _, r := range results {
		assert.NotEqual(t, r.GroupA, r.GroupB)
		if !math.IsNaN(r.P) {
			assert.GreaterOrEqual(t, r.P, 0.0)
			assert.LessOrEqual(t, r.P, 1.0)
			assert.Equal(t, Band(r.P), r.Band)
		}
	}
	p := PairP(results, "P", dataset.Eocene, dataset.EOT)
	assert.False(t, math.IsNaN(p))
}
