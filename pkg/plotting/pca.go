package plotting

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/benjaminmoon/EOT-forams/pkg/dataset"
	"github.com/benjaminmoon/EOT-forams/pkg/morphospace"
)

// Morphospace renders the PC1/PC2 score plot with per-series convex hulls
// and the trait loading vectors overlaid as arrows from the origin.
func Morphospace(d *morphospace.Decomposition) (*plot.Plot, error) {
	if d.Components() < 2 {
		return nil, fmt.Errorf("morphospace plot %s: need at least two components", d.Name)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Morphospace (%s)", d.Name)
	p.X.Label.Text = fmt.Sprintf("PC1 (%.1f%%)", d.PercentVar[0])
	p.Y.Label.Text = fmt.Sprintf("PC2 (%.1f%%)", d.PercentVar[1])

	var maxScore float64
	for _, series := range dataset.SeriesOrder {
		rows := d.SeriesRows(series)
		if len(rows) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(rows))
		for i, r := range rows {
			pts[i] = plotter.XY{X: d.Scores.At(r, 0), Y: d.Scores.At(r, 1)}
			maxScore = math.Max(maxScore, math.Max(math.Abs(pts[i].X), math.Abs(pts[i].Y)))
		}

		if hull := convexHull(pts); len(hull) >= 3 {
			poly, err := plotter.NewPolygon(hull)
			if err != nil {
				return nil, fmt.Errorf("morphospace hull %s/%s: %w", d.Name, series, err)
			}
			poly.Color = hullFill(series)
			poly.LineStyle.Color = SeriesColor(series)
			poly.LineStyle.Width = vg.Points(0.75)
			p.Add(poly)
		}

		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("morphospace scatter %s/%s: %w", d.Name, series, err)
		}
		sc.GlyphStyle.Color = SeriesColor(series)
		sc.GlyphStyle.Radius = vg.Points(2.5)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
		p.Legend.Add(series.String(), sc)
	}
	p.Legend.Top = true

	if err := addLoadingArrows(p, d, 0.8*maxScore); err != nil {
		return nil, err
	}
	return p, nil
}

// addLoadingArrows draws each trait's PC1/PC2 loading as a line from the
// origin, scaled to sit inside the score cloud, with the trait name at the
// tip.
func addLoadingArrows(p *plot.Plot, d *morphospace.Decomposition, scale float64) error {
	if scale == 0 {
		scale = 1
	}
	var maxLoad float64
	for i := range d.Traits {
		maxLoad = math.Max(maxLoad, math.Hypot(d.Loadings.At(i, 0), d.Loadings.At(i, 1)))
	}
	if maxLoad == 0 {
		return nil
	}

	var tips plotter.XYLabels
	for i, trait := range d.Traits {
		x := d.Loadings.At(i, 0) / maxLoad * scale
		y := d.Loadings.At(i, 1) / maxLoad * scale
		arrow, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: x, Y: y}})
		if err != nil {
			return fmt.Errorf("loading arrow %s: %w", trait, err)
		}
		arrow.LineStyle.Width = vg.Points(1)
		p.Add(arrow)
		tips.XYs = append(tips.XYs, plotter.XY{X: x, Y: y})
		tips.Labels = append(tips.Labels, trait)
	}
	labels, err := plotter.NewLabels(tips)
	if err != nil {
		return fmt.Errorf("loading labels: %w", err)
	}
	p.Add(labels)
	return nil
}

// DisparityBox renders the bootstrap disparity distributions, one box per
// series, the panel attached to each morphospace figure.
func DisparityBox(space string, samples []morphospace.DisparitySample) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Disparity"
	p.Y.Label.Text = "Sum of variances"

	bySeries := make(map[dataset.Series]plotter.Values)
	for _, s := range samples {
		if s.Space != space {
			continue
		}
		bySeries[s.Series] = append(bySeries[s.Series], s.Disparity)
	}

	var names []string
	added := 0
	for i, series := range dataset.SeriesOrder {
		names = append(names, series.String())
		vals := bySeries[series]
		if len(vals) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(20), float64(i), vals)
		if err != nil {
			return nil, fmt.Errorf("disparity box %s/%s: %w", space, series, err)
		}
		box.FillColor = SeriesColor(series)
		p.Add(box)
		added++
	}
	if added == 0 {
		return nil, fmt.Errorf("disparity box %s: no samples", space)
	}
	p.NominalX(names...)
	return p, nil
}
