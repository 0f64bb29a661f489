package plotting

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/benjaminmoon/EOT-forams/pkg/dataset"
	"github.com/benjaminmoon/EOT-forams/pkg/stats"
)

// MeasurementBox renders the grouped box plot for one taxonomy entry: one
// box per series per measurement column, sample sizes under each box, and
// pairwise significance brackets over each column group.
func MeasurementBox(entry dataset.TaxEntry, table *dataset.Table, pairwise []stats.PairwiseResult) (*plot.Plot, error) {
	columns := table.Matching(entry)
	if len(columns) == 0 {
		return nil, fmt.Errorf("boxplot %s: no matching columns", entry.Prefix)
	}

	p := plot.New()
	p.Title.Text = entry.Label
	p.Y.Label.Text = axisLabel(entry)

	groupWidth := float64(len(dataset.SeriesOrder) + 1)
	boxWidth := vg.Points(16)

	// Gather values per (column, series) and track the global range for
	// annotation placement.
	ymin, ymax := math.Inf(1), math.Inf(-1)
	values := make(map[string]map[dataset.Series]plotter.Values)
	for _, col := range columns {
		values[col] = make(map[dataset.Series]plotter.Values)
		for i := range table.Specimens {
			sp := &table.Specimens[i]
			v := sp.Value(col)
			if math.IsNaN(v) {
				continue
			}
			values[col][sp.Series] = append(values[col][sp.Series], v)
			ymin = math.Min(ymin, v)
			ymax = math.Max(ymax, v)
		}
	}
	if math.IsInf(ymin, 1) {
		return nil, fmt.Errorf("boxplot %s: no values", entry.Prefix)
	}
	span := ymax - ymin
	if span == 0 {
		span = 1
	}

	var nLabels plotter.XYLabels
	var brackets []plot.Plotter

	for ci, col := range columns {
		base := float64(ci) * groupWidth
		for si, series := range dataset.SeriesOrder {
			vals := values[col][series]
			x := base + float64(si)
			if len(vals) > 0 {
				box, err := plotter.NewBoxPlot(boxWidth, x, vals)
				if err != nil {
					return nil, fmt.Errorf("boxplot %s/%s: %w", col, series, err)
				}
				box.FillColor = SeriesColor(series)
				p.Add(box)
			}
			nLabels.XYs = append(nLabels.XYs, plotter.XY{X: x, Y: ymin - 0.06*span})
			nLabels.Labels = append(nLabels.Labels, fmt.Sprintf("n=%d", len(vals)))
		}

		// Significance brackets for the three series pairs, stacked above
		// the column group.
		for pi, pair := range dataset.SeriesPairs {
			pVal := stats.PairP(pairwise, col, pair[0], pair[1])
			y := ymax + (0.08+0.08*float64(pi))*span
			xa := base + float64(indexOfSeries(pair[0]))
			xb := base + float64(indexOfSeries(pair[1]))
			bracket, label, err := significanceBracket(xa, xb, y, 0.02*span, stats.Band(pVal))
			if err != nil {
				return nil, err
			}
			brackets = append(brackets, bracket, label)
		}
	}

	for _, b := range brackets {
		p.Add(b)
	}
	labels, err := plotter.NewLabels(nLabels)
	if err != nil {
		return nil, fmt.Errorf("boxplot %s: sample-size labels: %w", entry.Prefix, err)
	}
	p.Add(labels)

	p.NominalX(groupAxisNames(entry, columns, len(dataset.SeriesOrder))...)
	p.Y.Min = ymin - 0.12*span
	p.Y.Max = ymax + 0.36*span
	addSeriesLegend(p)
	return p, nil
}

// significanceBracket builds the |----| line and its band label.
func significanceBracket(xa, xb, y, tick float64, band string) (plot.Plotter, plot.Plotter, error) {
	if band == "" {
		band = "ns"
	}
	line, err := plotter.NewLine(plotter.XYs{
		{X: xa, Y: y - tick},
		{X: xa, Y: y},
		{X: xb, Y: y},
		{X: xb, Y: y - tick},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("significance bracket: %w", err)
	}
	line.LineStyle.Width = vg.Points(0.5)

	label, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: (xa + xb) / 2, Y: y}},
		Labels: []string{band},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("significance label: %w", err)
	}
	return line, label, nil
}

// groupAxisNames places the whorl label in the middle slot of each column
// group and pads the rest so NominalX lines up with the box positions.
func groupAxisNames(entry dataset.TaxEntry, columns []string, seriesCount int) []string {
	var names []string
	for _, col := range columns {
		for si := 0; si < seriesCount; si++ {
			if si == seriesCount/2 {
				names = append(names, dataset.WhorlLabel(entry, col))
			} else {
				names = append(names, "")
			}
		}
		names = append(names, "") // gap between groups
	}
	return names
}

func indexOfSeries(s dataset.Series) int {
	for i, other := range dataset.SeriesOrder {
		if other == s {
			return i
		}
	}
	return 0
}

func axisLabel(entry dataset.TaxEntry) string {
	if entry.Unit == "" {
		return entry.Label
	}
	return fmt.Sprintf("%s (%s)", entry.Label, entry.Unit)
}

// addSeriesLegend attaches the fixed series palette to the plot legend.
func addSeriesLegend(p *plot.Plot) {
	for _, series := range dataset.SeriesOrder {
		swatch := &plotter.Line{}
		swatch.LineStyle.Color = SeriesColor(series)
		swatch.LineStyle.Width = vg.Points(4)
		p.Legend.Add(series.String(), swatch)
	}
	p.Legend.Top = true
}
