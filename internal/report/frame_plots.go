package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/user/dd_analyzer_go/internal/analysis"
)

var (
	axisRed    = color.RGBA{R: 255, A: 255}
	axisBlue   = color.RGBA{B: 255, A: 255}
	axisYellow = color.RGBA{R: 230, G: 200, A: 255}
)

// segments draws one line from the origin to every tip. It implements
// plot.Plotter, plot.DataRanger and plot.Thumbnailer.
type segments struct {
	tips plotter.XYs
	draw.LineStyle
}

func newSegments(tips plotter.XYs, c color.Color) *segments {
	return &segments{
		tips:      tips,
		LineStyle: draw.LineStyle{Color: c, Width: vg.Points(0.5)},
	}
}

func (s *segments) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	x0, y0 := trX(0), trY(0)
	for _, tip := range s.tips {
		c.StrokeLine2(s.LineStyle, x0, y0, trX(tip.X), trY(tip.Y))
	}
}

func (s *segments) DataRange() (xmin, xmax, ymin, ymax float64) {
	return -1, 1, -1, 1
}

func (s *segments) Thumbnail(c *draw.Canvas) {
	y := (c.Min.Y + c.Max.Y) / 2
	c.StrokeLine2(s.LineStyle, c.Min.X, y, c.Max.X, y)
}

type plane struct {
	name         string
	xAxis, yAxis string
	project      func(v r3.Vec) plotter.XY
}

var planes = []plane{
	{"XY", "x", "y", func(v r3.Vec) plotter.XY { return plotter.XY{X: v.X, Y: v.Y} }},
	{"YZ", "y", "z", func(v r3.Vec) plotter.XY { return plotter.XY{X: v.Y, Y: v.Z} }},
	{"XZ", "x", "z", func(v r3.Vec) plotter.XY { return plotter.XY{X: v.X, Y: v.Z} }},
}

func projectAll(vs []r3.Vec, pl plane) plotter.XYs {
	pts := make(plotter.XYs, len(vs))
	for i, v := range vs {
		pts[i] = pl.project(v)
	}
	return pts
}

// CreateFramePlot draws the rotated x (red), y (blue) and z (yellow) axes
// of every sample from the origin, projected onto the XY, YZ and XZ planes.
// Limits are fixed at [-1, 1] since the axes are unit vectors.
func CreateFramePlot(frames *analysis.Frames, opts Options) ([]byte, error) {
	if frames == nil || frames.Len() == 0 {
		return nil, fmt.Errorf("no rotation frames to plot")
	}
	row := make([]*plot.Plot, 0, len(planes))
	for _, pl := range planes {
		p := plot.New()
		p.Title.Text = fmt.Sprintf("Rotated axes (%s)", pl.name)
		if opts.Title != "" {
			p.Title.Text = fmt.Sprintf("%s (%s)", opts.Title, pl.name)
		}
		p.X.Label.Text = pl.xAxis
		p.Y.Label.Text = pl.yAxis
		p.X.Min, p.X.Max = -1, 1
		p.Y.Min, p.Y.Max = -1, 1
		p.Add(plotter.NewGrid())

		for _, axis := range []struct {
			label string
			vs    []r3.Vec
			c     color.Color
		}{
			{"x axis", frames.X, axisRed},
			{"y axis", frames.Y, axisBlue},
			{"z axis", frames.Z, axisYellow},
		} {
			s := newSegments(projectAll(axis.vs, pl), axis.c)
			p.Add(s)
			p.Legend.Add(axis.label, s)
		}
		applyLegend(p, opts)
		row = append(row, p)
	}
	return renderTiles([][]*plot.Plot{row}, opts.format())
}
