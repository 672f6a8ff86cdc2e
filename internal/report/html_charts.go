package report

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/user/dd_analyzer_go/internal/analysis"
)

func chartInit(title string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		PageTitle: title,
		Theme:     types.ThemeWesteros,
		Width:     "900px",
		Height:    "600px",
	})
}

func scatterChart(groups []Group, proj projection, o Options) *charts.Scatter {
	scatter := charts.NewScatter()
	title := fmt.Sprintf("%s projection", proj.name)
	if o.Title != "" {
		title = fmt.Sprintf("%s (%s)", o.Title, proj.name)
	}
	xAxis := opts.XAxis{Name: fmt.Sprintf("%s [%s]", proj.xAxis, o.unit()), Type: "value", Scale: opts.Bool(true)}
	yAxis := opts.YAxis{Name: fmt.Sprintf("%s [%s]", proj.yAxis, o.unit()), Type: "value", Scale: opts.Bool(true)}
	if o.AxisFixed {
		l := o.limit()
		xAxis.Min, xAxis.Max = -l, l
		yAxis.Min, yAxis.Max = -l, l
	}
	legend := opts.Legend{Show: opts.Bool(true), Top: "bottom"}
	if o.LegendFixed {
		legend.Top, legend.Left = "top", "left"
	}
	scatter.SetGlobalOptions(
		chartInit(title),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithLegendOpts(legend),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(xAxis),
		charts.WithYAxisOpts(yAxis),
	)
	for _, g := range groups {
		xs, ys := proj.pick(g)
		n := min(len(xs), len(ys))
		data := make([]opts.ScatterData, n)
		for i := 0; i < n; i++ {
			data[i] = opts.ScatterData{Value: []interface{}{xs[i], ys[i]}, SymbolSize: 4}
		}
		scatter.AddSeries(g.Label, data)
	}
	return scatter
}

func render(page *components.Page) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := page.Render(buf); err != nil {
		return nil, fmt.Errorf("failed to render html chart: %w", err)
	}
	return buf.Bytes(), nil
}

// CreateScatterHTML renders the XY projection as an interactive page.
func CreateScatterHTML(groups []Group, o Options) ([]byte, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("no sample groups to plot")
	}
	page := components.NewPage()
	page.AddCharts(scatterChart(groups, projections[0], o))
	return render(page)
}

// CreateScatter3DHTML renders the sample cloud in 3D, followed by its XY,
// YZ and XZ projections on the same page.
func CreateScatter3DHTML(groups []Group, o Options) ([]byte, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("no sample groups to plot")
	}
	title := "3D samples"
	if o.Title != "" {
		title = o.Title
	}
	scatter := charts.NewScatter3D()
	scatter.SetGlobalOptions(
		chartInit(title),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "x", Show: opts.Bool(true)}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "y", Show: opts.Bool(true)}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "z", Show: opts.Bool(true)}),
	)
	for _, g := range groups {
		n := g.Len()
		data := make([]opts.Chart3DData, n)
		for i := 0; i < n; i++ {
			z := 0.0
			if g.Z != nil {
				z = g.Z[i]
			}
			data[i] = opts.Chart3DData{Value: []interface{}{g.X[i], g.Y[i], z}}
		}
		scatter.AddSeries(g.Label, data)
	}

	page := components.NewPage()
	page.AddCharts(scatter)
	for _, proj := range projections {
		page.AddCharts(scatterChart(groups, proj, o))
	}
	return render(page)
}

// CreateTaylorHTML renders the original function against its Taylor
// reconstruction as an interactive line chart.
func CreateTaylorHTML(curve *analysis.Curve, original []float64, o Options) ([]byte, error) {
	if curve == nil || len(curve.X) == 0 {
		return nil, fmt.Errorf("no Taylor samples to plot")
	}
	title := curve.Name
	if o.Title != "" {
		title = o.Title
	}
	line := charts.NewLine()
	line.SetGlobalOptions(
		chartInit(title),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "x"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "y", Scale: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}),
	)

	labels := make([]string, len(curve.X))
	for i, x := range curve.X {
		labels[i] = strconv.FormatFloat(x, 'g', 6, 64)
	}
	line.SetXAxis(labels)
	if original != nil {
		line.AddSeries(curve.Name, lineData(original))
	}
	line.AddSeries("Taylor expansion", lineData(curve.Y))

	page := components.NewPage()
	page.AddCharts(line)
	return render(page)
}

func lineData(ys []float64) []opts.LineData {
	data := make([]opts.LineData, len(ys))
	for i, y := range ys {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			data[i] = opts.LineData{Value: "-"}
			continue
		}
		data[i] = opts.LineData{Value: y}
	}
	return data
}
