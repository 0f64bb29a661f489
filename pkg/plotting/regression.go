package plotting

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/benjaminmoon/EOT-forams/pkg/dataset"
	"github.com/benjaminmoon/EOT-forams/pkg/stats"
)

// coefPoints carries the dot-plot positions plus the +-1 standard-error
// bars for plotter.NewXErrorBars.
type coefPoints struct {
	plotter.XYs
	errs []float64
}

func (c coefPoints) XError(i int) (float64, float64) {
	return c.errs[i], c.errs[i]
}

// RegressionCoefficients renders the sweep's isotope coefficients as a
// horizontal dot plot: one row per (response, model, term), grouped by
// series colour, with +-1 SE bars. Sentinel rows and intercepts are
// omitted; the figure is about the isotope effects.
func RegressionCoefficients(rows []stats.SweepRow) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "GLS coefficients"
	p.X.Label.Text = "Estimate ± SE"

	type rowKey struct {
		response, model, term string
	}
	order := []rowKey{}
	seen := map[rowKey]bool{}
	for _, r := range rows {
		if r.Term == stats.InterceptTerm || math.IsNaN(r.Estimate) {
			continue
		}
		k := rowKey{r.Response, r.Model, r.Term}
		if !seen[k] {
			seen[k] = true
			order = append(order, k)
		}
	}
	if len(order) == 0 {
		return nil, fmt.Errorf("regression figure: no fitted coefficients")
	}
	position := make(map[rowKey]float64, len(order))
	names := make([]string, len(order))
	for i, k := range order {
		position[k] = float64(len(order) - 1 - i)
		names[len(order)-1-i] = fmt.Sprintf("%s ~ %s [%s]", k.response, k.model, k.term)
	}

	for si, series := range dataset.SeriesOrder {
		pts := coefPoints{}
		for _, r := range rows {
			if r.Series != series || r.Term == stats.InterceptTerm || math.IsNaN(r.Estimate) {
				continue
			}
			y := position[rowKey{r.Response, r.Model, r.Term}] + 0.2*float64(si-1)
			pts.XYs = append(pts.XYs, plotter.XY{X: r.Estimate, Y: y})
			pts.errs = append(pts.errs, r.StdErr)
		}
		if len(pts.XYs) == 0 {
			continue
		}
		bars, err := plotter.NewXErrorBars(pts)
		if err != nil {
			return nil, fmt.Errorf("regression figure error bars: %w", err)
		}
		bars.LineStyle.Color = SeriesColor(series)
		sc, err := plotter.NewScatter(pts.XYs)
		if err != nil {
			return nil, fmt.Errorf("regression figure points: %w", err)
		}
		sc.GlyphStyle.Color = SeriesColor(series)
		sc.GlyphStyle.Radius = vg.Points(2.5)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(bars, sc)
		p.Legend.Add(series.String(), sc)
	}
	p.Legend.Top = true
	p.NominalY(names...)

	// Zero line for reading effect directions.
	zero, err := plotter.NewLine(plotter.XYs{
		{X: 0, Y: -0.5},
		{X: 0, Y: float64(len(order)) - 0.5},
	})
	if err != nil {
		return nil, fmt.Errorf("regression figure zero line: %w", err)
	}
	zero.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	zero.LineStyle.Width = vg.Points(0.5)
	p.Add(zero)
	return p, nil
}
