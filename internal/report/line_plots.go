package report

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/user/dd_analyzer_go/internal/analysis"
)

// finitePoints drops samples where either coordinate is NaN or infinite,
// which plotter.NewLine rejects.
func finitePoints(xs, ys []float64) plotter.XYs {
	n := min(len(xs), len(ys))
	pts := make(plotter.XYs, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(ys[i]) || math.IsInf(ys[i], 0) || math.IsNaN(xs[i]) || math.IsInf(xs[i], 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
	}
	return pts
}

// CreateTaylorPlot draws the original function against its Taylor
// reconstruction over the curve's samples. original may be nil when the
// function could not be recognized; only the reconstruction is drawn then.
func CreateTaylorPlot(curve *analysis.Curve, original []float64, opts Options) ([]byte, error) {
	if curve == nil || len(curve.X) == 0 {
		return nil, fmt.Errorf("no Taylor samples to plot")
	}

	p := plot.New()
	p.Title.Text = curve.Name
	if opts.Title != "" {
		p.Title.Text = opts.Title
	}
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())

	// Zero line
	zeroLine, err := plotter.NewLine(plotter.XYs{{X: curve.X[0], Y: 0}, {X: curve.X[len(curve.X)-1], Y: 0}})
	if err != nil {
		return nil, fmt.Errorf("failed to create zero line: %w", err)
	}
	zeroLine.Color = color.Gray{Y: 128}
	zeroLine.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	p.Add(zeroLine)

	if original != nil {
		pts := finitePoints(curve.X, original)
		if len(pts) > 0 {
			line, err := plotter.NewLine(pts)
			if err != nil {
				return nil, fmt.Errorf("failed to create original line: %w", err)
			}
			line.Color = plotColors[1]
			line.LineStyle.Width = vg.Points(1.5)
			p.Add(line)
			p.Legend.Add(curve.Name, line)
		}
	}

	pts := finitePoints(curve.X, curve.Y)
	if len(pts) == 0 {
		return nil, fmt.Errorf("taylor reconstruction has no finite samples")
	}
	taylor, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to create taylor line: %w", err)
	}
	taylor.Color = plotColors[2]
	taylor.LineStyle.Width = vg.Points(1.5)
	taylor.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
	p.Add(taylor)
	p.Legend.Add(fmt.Sprintf("Taylor expansion (center %g)", curve.Center), taylor)

	applyLegend(p, opts)
	return renderPlot(p, vg.Points(figureWidth), vg.Points(figureHeight/1.5), opts.format())
}
