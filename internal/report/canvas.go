package report

import (
	"bytes"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	figureWidth  = 800
	figureHeight = 600
	tileSize     = 400
)

// renderPlot writes a single plot in the requested format.
func renderPlot(p *plot.Plot, width, height vg.Length, format string) ([]byte, error) {
	writer, err := p.WriterTo(width, height, format)
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %w", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %w", err)
	}
	return buf.Bytes(), nil
}

// renderTiles lays out a grid of plots on one canvas with aligned axes.
func renderTiles(rows [][]*plot.Plot, format string) ([]byte, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("no plots to tile")
	}
	cols := len(rows[0])
	width := vg.Points(float64(cols * tileSize))
	height := vg.Points(float64(len(rows) * tileSize))

	img, err := draw.NewFormattedCanvas(width, height, format)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s canvas: %w", format, err)
	}
	tiles := draw.Tiles{
		Rows:      len(rows),
		Cols:      cols,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(rows, tiles, draw.New(img))
	for j, row := range rows {
		for i, p := range row {
			if p != nil {
				p.Draw(canvases[j][i])
			}
		}
	}

	buf := new(bytes.Buffer)
	if _, err := img.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write tiles to buffer: %w", err)
	}
	return buf.Bytes(), nil
}

func applyLegend(p *plot.Plot, opts Options) {
	p.Legend.Top = true
	p.Legend.XOffs = vg.Points(-10)
	if opts.LegendFixed {
		p.Legend.Left = true
		p.Legend.XOffs = vg.Points(10)
	}
}

func applyLimits(p *plot.Plot, opts Options) {
	if !opts.AxisFixed {
		return
	}
	l := opts.limit()
	p.X.Min, p.X.Max = -l, l
	p.Y.Min, p.Y.Max = -l, l
}
