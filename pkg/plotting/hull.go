package plotting

import (
	"sort"

	"gonum.org/v1/plot/plotter"
)

// convexHull computes the 2-D convex hull of the points with Andrew's
// monotone chain, returned in counter-clockwise order. Fewer than three
// points come back unchanged.
func convexHull(pts plotter.XYs) plotter.XYs {
	if len(pts) < 3 {
		out := make(plotter.XYs, len(pts))
		copy(out, pts)
		return out
	}
	sorted := make(plotter.XYs, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	cross := func(o, a, b plotter.XY) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	var lower plotter.XYs
	for _, p := range sorted {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	var upper plotter.XYs
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}
