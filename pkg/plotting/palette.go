// Package plotting renders every figure of the analysis with gonum/plot:
// grouped box plots with significance brackets, time-series panels, the
// PCA score/loading plots with convex hulls, and the composed multi-panel
// summary figures.
package plotting

import (
	"image/color"

	"github.com/benjaminmoon/EOT-forams/pkg/dataset"
)

// seriesColors is the fixed palette used across all figures so a series
// looks the same everywhere.
var seriesColors = map[dataset.Series]color.NRGBA{
	dataset.Eocene:    {R: 0x1b, G: 0x9e, B: 0x77, A: 0xff},
	dataset.EOT:       {R: 0xd9, G: 0x5f, B: 0x02, A: 0xff},
	dataset.Oligocene: {R: 0x75, G: 0x70, B: 0xb3, A: 0xff},
}

// SeriesColor returns the series' plot colour.
func SeriesColor(s dataset.Series) color.NRGBA {
	if c, ok := seriesColors[s]; ok {
		return c
	}
	return color.NRGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff}
}

// hullFill is the translucent variant used for convex-hull polygons.
func hullFill(s dataset.Series) color.NRGBA {
	c := SeriesColor(s)
	c.A = 0x30
	return c
}
