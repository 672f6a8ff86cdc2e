package report

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// DefaultDensityBins is the number of bins per axis of a density heat map.
const DefaultDensityBins = 40

// densityGrid is a square histogram of XY samples. It implements
// plotter.GridXYZ with cell centers as coordinates.
type densityGrid struct {
	bins       int
	xMin, yMin float64
	xStep      float64
	yStep      float64
	counts     []float64 // row-major, row = y bin
}

func newDensityGrid(xs, ys []float64, bins int) (*densityGrid, error) {
	pts := finitePoints(xs, ys)
	if len(pts) == 0 {
		return nil, fmt.Errorf("no finite samples to bin")
	}
	xMin, xMax := pts[0].X, pts[0].X
	yMin, yMax := pts[0].Y, pts[0].Y
	for _, pt := range pts[1:] {
		xMin, xMax = math.Min(xMin, pt.X), math.Max(xMax, pt.X)
		yMin, yMax = math.Min(yMin, pt.Y), math.Max(yMax, pt.Y)
	}
	// A degenerate axis still gets a unit-wide bin range.
	if xMax == xMin {
		xMin, xMax = xMin-0.5, xMax+0.5
	}
	if yMax == yMin {
		yMin, yMax = yMin-0.5, yMax+0.5
	}

	g := &densityGrid{
		bins:   bins,
		xMin:   xMin,
		yMin:   yMin,
		xStep:  (xMax - xMin) / float64(bins),
		yStep:  (yMax - yMin) / float64(bins),
		counts: make([]float64, bins*bins),
	}
	for _, pt := range pts {
		c := min(int((pt.X-xMin)/g.xStep), bins-1)
		r := min(int((pt.Y-yMin)/g.yStep), bins-1)
		g.counts[r*bins+c]++
	}
	return g, nil
}

func (g *densityGrid) Dims() (c, r int)   { return g.bins, g.bins }
func (g *densityGrid) Z(c, r int) float64 { return g.counts[r*g.bins+c] }
func (g *densityGrid) X(c int) float64    { return g.xMin + (float64(c)+0.5)*g.xStep }
func (g *densityGrid) Y(r int) float64    { return g.yMin + (float64(r)+0.5)*g.yStep }

func (g *densityGrid) max() (maxCount float64) {
	for _, v := range g.counts {
		maxCount = math.Max(maxCount, v)
	}
	return maxCount
}

// CreateDensityHeatmap bins the XY samples of group and draws the counts as
// a heat map. Empty cells take the coolest palette color.
func CreateDensityHeatmap(group Group, bins int, opts Options) ([]byte, error) {
	if bins <= 0 {
		bins = DefaultDensityBins
	}
	grid, err := newDensityGrid(group.X, group.Y, bins)
	if err != nil {
		return nil, fmt.Errorf("failed to bin %s: %w", group.Label, err)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("XY density (%s)", group.Label)
	if opts.Title != "" {
		p.Title.Text = opts.Title
	}
	p.X.Label.Text = fmt.Sprintf("x [%s]", opts.unit())
	p.Y.Label.Text = fmt.Sprintf("y [%s]", opts.unit())

	hm := plotter.NewHeatMap(grid, palette.Heat(12, 1))
	hm.Min = 0
	hm.Max = math.Max(grid.max(), 1)
	hm.NaN = color.Gray{Y: 200}
	p.Add(hm)
	applyLimits(p, opts)

	return renderPlot(p, vg.Points(figureWidth), vg.Points(figureHeight), opts.format())
}
