// Package morphospace builds the principal-component trait spaces and the
// multivariate comparisons run inside them: pairwise permutation tests of
// group separation and bootstrap estimates of within-group disparity.
package morphospace

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/benjaminmoon/EOT-forams/pkg/dataset"
)

// Decomposition is a fitted morphospace: the complete-case specimens, their
// standardized trait matrix, and the principal-component scores and
// loadings.
type Decomposition struct {
	Name      string
	Traits    []string
	SampleIDs []string
	Series    []dataset.Series
	Ages      []float64

	Std      *mat.Dense // n x traits, zero mean and unit variance per trait
	Scores   *mat.Dense // n x components
	Loadings *mat.Dense // traits x components

	SDev       []float64 // component standard deviations (singular-value scale)
	PercentVar []float64 // 100 * sdev_i / sum(sdev)
}

// Decompose selects the complete-case rows for the trait vector,
// standardizes each trait, and runs an unweighted principal-component
// decomposition.
//
// Percent variance per component is the ratio of component standard
// deviations, not variances. That is a deliberate fidelity choice: the
// published percentages were computed from singular-value ratios, and this
// reimplementation reproduces them exactly.
func Decompose(name string, t *dataset.Table, traits []dataset.Trait) (*Decomposition, error) {
	d := &Decomposition{Name: name}
	for _, tr := range traits {
		d.Traits = append(d.Traits, tr.Name)
	}

	var raw []float64
	for i := range t.Specimens {
		sp := &t.Specimens[i]
		row := make([]float64, len(traits))
		ok := true
		for j, tr := range traits {
			row[j] = tr.Value(sp)
			if math.IsNaN(row[j]) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		raw = append(raw, row...)
		d.SampleIDs = append(d.SampleIDs, sp.SampleID)
		d.Series = append(d.Series, sp.Series)
		d.Ages = append(d.Ages, sp.Age)
	}

	n := len(d.SampleIDs)
	p := len(traits)
	if n <= p {
		return nil, fmt.Errorf("morphospace %s: %d complete cases for %d traits", name, n, p)
	}

	d.Std = mat.NewDense(n, p, raw)
	for j := 0; j < p; j++ {
		col := mat.Col(nil, j, d.Std)
		mean, sd := stat.MeanStdDev(col, nil)
		if sd == 0 {
			return nil, fmt.Errorf("morphospace %s: trait %s is constant", name, traits[j].Name)
		}
		for i := 0; i < n; i++ {
			d.Std.Set(i, j, (col[i]-mean)/sd)
		}
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(d.Std, nil); !ok {
		return nil, fmt.Errorf("morphospace %s: principal-component decomposition failed", name)
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)

	d.Loadings = &vecs
	d.Scores = &mat.Dense{}
	d.Scores.Mul(d.Std, &vecs)

	var sdevSum float64
	d.SDev = make([]float64, len(vars))
	for i, v := range vars {
		d.SDev[i] = math.Sqrt(v)
		sdevSum += d.SDev[i]
	}
	d.PercentVar = make([]float64, len(vars))
	for i := range d.SDev {
		d.PercentVar[i] = 100 * d.SDev[i] / sdevSum
	}
	return d, nil
}

// Components reports the number of principal components.
func (d *Decomposition) Components() int {
	_, k := d.Scores.Dims()
	return k
}

// SeriesRows returns the score-row indices belonging to a series.
func (d *Decomposition) SeriesRows(s dataset.Series) []int {
	var rows []int
	for i, sr := range d.Series {
		if sr == s {
			rows = append(rows, i)
		}
	}
	return rows
}
