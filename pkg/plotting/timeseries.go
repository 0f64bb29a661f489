package plotting

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/benjaminmoon/EOT-forams/pkg/dataset"
)

// MeasurementTimeSeries renders one taxonomy entry's values against age,
// one glyph colour per series. Age runs right-to-left (older on the left,
// as on every stratigraphic figure) by inverting the X axis range.
func MeasurementTimeSeries(entry dataset.TaxEntry, table *dataset.Table) (*plot.Plot, error) {
	rows := dataset.Complete(dataset.Reshape(table, entry))
	if len(rows) == 0 {
		return nil, fmt.Errorf("time series %s: no data", entry.Prefix)
	}

	p := plot.New()
	p.Title.Text = entry.Label
	p.X.Label.Text = "Age (Ma)"
	p.Y.Label.Text = axisLabel(entry)

	bySeries := make(map[dataset.Series]plotter.XYs)
	minAge, maxAge := math.Inf(1), math.Inf(-1)
	for _, r := range rows {
		if math.IsNaN(r.Age) {
			continue
		}
		bySeries[r.Series] = append(bySeries[r.Series], plotter.XY{X: r.Age, Y: r.Value})
		minAge = math.Min(minAge, r.Age)
		maxAge = math.Max(maxAge, r.Age)
	}

	for _, series := range dataset.SeriesOrder {
		pts := bySeries[series]
		if len(pts) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("time series %s/%s: %w", entry.Prefix, series, err)
		}
		sc.GlyphStyle.Color = SeriesColor(series)
		sc.GlyphStyle.Radius = vg.Points(2)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
		p.Legend.Add(series.String(), sc)
	}
	p.Legend.Top = true

	// Older ages on the left.
	p.X.Min = maxAge
	p.X.Max = minAge
	return p, nil
}

// IsotopeCurves renders the planktonic and benthic oxygen-isotope records
// against age, the companion panel of every time-series figure.
func IsotopeCurves(isotopes *dataset.Table) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Stable isotopes"
	p.X.Label.Text = "Age (Ma)"
	p.Y.Label.Text = "δ¹⁸O (‰)"

	curves := []struct {
		name  string
		value func(*dataset.Specimen) float64
		dash  []vg.Length
	}{
		{"δ¹⁸O planktonic", func(s *dataset.Specimen) float64 { return s.D18OPlanktonic }, nil},
		{"δ¹⁸O benthic", func(s *dataset.Specimen) float64 { return s.D18OBenthic }, []vg.Length{vg.Points(3), vg.Points(2)}},
	}

	minAge, maxAge := math.Inf(1), math.Inf(-1)
	added := 0
	for i, c := range curves {
		var pts plotter.XYs
		for j := range isotopes.Specimens {
			sp := &isotopes.Specimens[j]
			v := c.value(sp)
			if math.IsNaN(sp.Age) || math.IsNaN(v) {
				continue
			}
			pts = append(pts, plotter.XY{X: sp.Age, Y: v})
			minAge = math.Min(minAge, sp.Age)
			maxAge = math.Max(maxAge, sp.Age)
		}
		if len(pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("isotope curve %s: %w", c.name, err)
		}
		line.LineStyle.Width = vg.Points(1)
		line.LineStyle.Dashes = c.dash
		if i > 0 {
			line.LineStyle.Color = SeriesColor(dataset.Oligocene)
		}
		p.Add(line)
		p.Legend.Add(c.name, line)
		added++
	}
	if added == 0 {
		return nil, fmt.Errorf("isotope curves: no data")
	}
	p.Legend.Top = true
	p.X.Min = maxAge
	p.X.Max = minAge
	return p, nil
}
