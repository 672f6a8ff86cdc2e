package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// projection names one plane of the 3D sample cloud.
type projection struct {
	name         string
	xAxis, yAxis string
	pick         func(g Group) (xs, ys []float64)
}

var projections = []projection{
	{"XY", "x", "y", func(g Group) ([]float64, []float64) { return g.X, g.Y }},
	{"YZ", "y", "z", func(g Group) ([]float64, []float64) { return g.Y, g.Z }},
	{"XZ", "x", "z", func(g Group) ([]float64, []float64) { return g.X, g.Z }},
}

func pairs(xs, ys []float64) plotter.XYs {
	n := min(len(xs), len(ys))
	pts := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		pts[i] = plotter.XY{X: xs[i], Y: ys[i]}
	}
	return pts
}

func scatterPlot(groups []Group, proj projection, opts Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s projection", proj.name)
	if opts.Title != "" {
		p.Title.Text = fmt.Sprintf("%s (%s)", opts.Title, proj.name)
	}
	p.X.Label.Text = fmt.Sprintf("%s [%s]", proj.xAxis, opts.unit())
	p.Y.Label.Text = fmt.Sprintf("%s [%s]", proj.yAxis, opts.unit())
	p.Add(plotter.NewGrid())

	plotted := false
	for i, g := range groups {
		xs, ys := proj.pick(g)
		pts := pairs(xs, ys)
		if len(pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create scatter for %s: %w", g.Label, err)
		}
		s.GlyphStyle.Color = groupColor(i)
		s.GlyphStyle.Radius = vg.Points(1.5)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add(g.Label, s)
		plotted = true
	}
	if !plotted {
		return nil, fmt.Errorf("no %s samples to plot", proj.name)
	}
	applyLegend(p, opts)
	applyLimits(p, opts)
	return p, nil
}

// CreateXYProjection scatters x against y, one colored group per patch.
func CreateXYProjection(groups []Group, opts Options) ([]byte, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("no sample groups to plot")
	}
	p, err := scatterPlot(groups, projections[0], opts)
	if err != nil {
		return nil, err
	}
	return renderPlot(p, vg.Points(figureWidth), vg.Points(figureHeight), opts.format())
}

// CreateProjections draws the XY, YZ and XZ planes side by side. Groups
// without a z component only contribute to the XY tile.
func CreateProjections(groups []Group, opts Options) ([]byte, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("no sample groups to plot")
	}
	row := make([]*plot.Plot, 0, len(projections))
	for _, proj := range projections {
		p, err := scatterPlot(groups, proj, opts)
		if err != nil {
			if proj.name == "XY" {
				return nil, err
			}
			// Planar data has nothing on the z planes; leave an empty tile.
			p = plot.New()
			p.Title.Text = fmt.Sprintf("%s projection (no data)", proj.name)
		}
		row = append(row, p)
	}
	return renderTiles([][]*plot.Plot{row}, opts.format())
}
