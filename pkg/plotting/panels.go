package plotting

import (
	"fmt"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Default single-panel figure size.
const (
	FigWidth  = 6 * vg.Inch
	FigHeight = 4 * vg.Inch
)

// Save writes a single plot to a PNG file.
func Save(p *plot.Plot, path string) error {
	if err := p.Save(FigWidth, FigHeight, path); err != nil {
		return fmt.Errorf("save figure %s: %w", path, err)
	}
	return nil
}

// SavePanels composes a grid of plots into one multi-panel PNG, the format
// of the paper's main-text figures. Nil entries leave an empty panel.
func SavePanels(plots [][]*plot.Plot, path string) error {
	rows := len(plots)
	if rows == 0 {
		return fmt.Errorf("save panels %s: no rows", path)
	}
	cols := 0
	for _, r := range plots {
		if len(r) > cols {
			cols = len(r)
		}
	}
	if cols == 0 {
		return fmt.Errorf("save panels %s: no columns", path)
	}

	// Ragged rows confuse plot.Align; pad with nils.
	grid := make([][]*plot.Plot, rows)
	for i := range plots {
		grid[i] = make([]*plot.Plot, cols)
		copy(grid[i], plots[i])
	}

	img := vgimg.New(FigWidth*vg.Length(cols), FigHeight*vg.Length(rows))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: rows, Cols: cols,
		PadX: vg.Millimeter * 2, PadY: vg.Millimeter * 2,
		PadTop: vg.Millimeter, PadBottom: vg.Millimeter,
		PadLeft: vg.Millimeter, PadRight: vg.Millimeter,
	}
	canvases := plot.Align(grid, tiles, dc)
	for i := range grid {
		for j := range grid[i] {
			if grid[i][j] != nil {
				grid[i][j].Draw(canvases[i][j])
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save panels %s: %w", path, err)
	}
	defer f.Close()
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("save panels %s: %w", path, err)
	}
	return nil
}
