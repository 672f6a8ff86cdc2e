package report_test

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/user/dd_analyzer_go/internal/analysis"
	"github.com/user/dd_analyzer_go/internal/report"
)

var pngMagic = []byte("\x89PNG")

func sampleGroups() []report.Group {
	a := report.Group{Label: "patch 0"}
	b := report.Group{Label: "patch 1"}
	for i := 0; i < 50; i++ {
		t := float64(i) / 10
		a.X = append(a.X, math.Cos(t))
		a.Y = append(a.Y, math.Sin(t))
		a.Z = append(a.Z, t/5)
		b.X = append(b.X, 0.5*math.Cos(t))
		b.Y = append(b.Y, 0.5*math.Sin(t))
		b.Z = append(b.Z, -t/5)
	}
	return []report.Group{a, b}
}

func TestGroupsFromSets(t *testing.T) {
	sets := []*analysis.VectorSet{
		{Patch: "3", Components: [][]float64{{1, 2, 3}, {4, 5}}},
		{Components: [][]float64{{1}, {2}, {3}}},
	}
	groups := report.GroupsFromSets(sets)
	require.Len(t, groups, 2)
	require.Equal(t, "patch 3", groups[0].Label)
	require.Equal(t, []float64{1, 2}, groups[0].X)
	require.Nil(t, groups[0].Z)
	require.Equal(t, 2, groups[0].Len())
	require.Equal(t, "samples", groups[1].Label)
	require.Equal(t, []float64{3}, groups[1].Z)
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"png", "PDF", "svg", "eps", "jpg", "tif", "html"} {
		require.NoError(t, report.ValidateFormat(f), f)
	}
	require.Error(t, report.ValidateFormat("gif"))
	require.True(t, report.IsImageFormat("png"))
	require.False(t, report.IsImageFormat("html"))
}

func TestCreateXYProjection(t *testing.T) {
	img, err := report.CreateXYProjection(sampleGroups(), report.Options{Format: "png", Unit: "m"})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(img, pngMagic))

	img, err = report.CreateXYProjection(sampleGroups(), report.Options{Format: "svg", AxisFixed: true, LegendFixed: true})
	require.NoError(t, err)
	require.Contains(t, string(img), "<svg")

	_, err = report.CreateXYProjection(nil, report.Options{})
	require.Error(t, err)
}

func TestCreateProjections(t *testing.T) {
	img, err := report.CreateProjections(sampleGroups(), report.Options{Format: "pdf"})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(img, []byte("%PDF")))

	// Planar groups still render, with empty z tiles.
	planar := []report.Group{{Label: "flat", X: []float64{0, 1}, Y: []float64{1, 0}}}
	img, err = report.CreateProjections(planar, report.Options{})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(img, pngMagic))
}

func TestCreateFramePlot(t *testing.T) {
	frames, err := analysis.Rotate([]float64{0, 30, 60}, []float64{0, 10, 20}, []float64{0, -10, 5}, analysis.OrderZYX, analysis.Degrees)
	require.NoError(t, err)

	img, err := report.CreateFramePlot(frames, report.Options{Format: "png"})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(img, pngMagic))

	_, err = report.CreateFramePlot(&analysis.Frames{}, report.Options{})
	require.Error(t, err)
}

func TestCreateTaylorPlot(t *testing.T) {
	xs, err := analysis.DefaultSamples(3, true)
	require.NoError(t, err)
	curve := &analysis.Curve{
		Name: "y = exp(x)",
		X:    xs,
		Y:    analysis.Evaluate([]float64{1, 1, 0.5}, []int{0, 1, 2}, xs, 0),
	}
	original := analysis.SampleFunction(math.Exp, xs)

	img, err := report.CreateTaylorPlot(curve, original, report.Options{Format: "png"})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(img, pngMagic))

	img, err = report.CreateTaylorPlot(curve, nil, report.Options{Format: "png"})
	require.NoError(t, err)
	require.NotEmpty(t, img)

	_, err = report.CreateTaylorPlot(&analysis.Curve{}, nil, report.Options{})
	require.Error(t, err)
}

func TestCreateDensityHeatmap(t *testing.T) {
	g := sampleGroups()[0]
	img, err := report.CreateDensityHeatmap(g, 10, report.Options{Format: "png"})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(img, pngMagic))

	// A single point collapses both axes; it still gets a bin.
	img, err = report.CreateDensityHeatmap(report.Group{Label: "one", X: []float64{2}, Y: []float64{2}}, 0, report.Options{})
	require.NoError(t, err)
	require.NotEmpty(t, img)

	_, err = report.CreateDensityHeatmap(report.Group{Label: "nan", X: []float64{math.NaN()}, Y: []float64{1}}, 4, report.Options{})
	require.Error(t, err)
}

func TestCreateScatterHTML(t *testing.T) {
	page, err := report.CreateScatterHTML(sampleGroups(), report.Options{Title: "banana", AxisFixed: true})
	require.NoError(t, err)
	require.Contains(t, string(page), "echarts")
	require.Contains(t, string(page), "patch 1")

	page, err = report.CreateScatter3DHTML(sampleGroups(), report.Options{})
	require.NoError(t, err)
	require.Contains(t, string(page), "echarts-gl")

	_, err = report.CreateScatter3DHTML(nil, report.Options{})
	require.Error(t, err)
}

func TestBuildPDFReport(t *testing.T) {
	img, err := report.CreateXYProjection(sampleGroups(), report.Options{Format: "png"})
	require.NoError(t, err)

	set := &analysis.VectorSet{Patch: "0", Components: [][]float64{{1, 2, 3}, {2, 4}}}
	summary := &report.ReportSummary{
		Source:     "attitude.dd",
		Layout:     "dd",
		PlotType:   "attitude",
		Metrics:    "deg",
		NumPatches: 1,
		NumDeltas:  3,
		NumRecords: 5,
		Components: analysis.Summarize(set),
		Warnings:   []string{"Warning: components have unequal lengths, pairing will use the first 2 samples."},
	}

	path := filepath.Join(t.TempDir(), "run-report.pdf")
	err = report.BuildPDFReport(path, summary, []report.NamedImage{
		{Key: "xy", Caption: "XY projection", PNG: img},
		{Key: "missing"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	require.Error(t, report.BuildPDFReport(path, nil, nil))
}
