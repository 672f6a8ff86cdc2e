package report

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/user/dd_analyzer_go/internal/analysis"
)

// Group is one labeled cloud of samples, typically one patch.
type Group struct {
	Label   string
	X, Y, Z []float64
}

// Len returns the number of complete (x, y[, z]) samples.
func (g Group) Len() int {
	n := min(len(g.X), len(g.Y))
	if g.Z != nil {
		n = min(n, len(g.Z))
	}
	return n
}

// GroupsFromSets turns extracted vector sets into plot groups, pairing the
// first three components positionally. Ragged sets are truncated to their
// shortest component.
func GroupsFromSets(sets []*analysis.VectorSet) []Group {
	groups := make([]Group, 0, len(sets))
	for _, set := range sets {
		c := set.Aligned()
		g := Group{Label: "samples"}
		if set.Patch != "" {
			g.Label = fmt.Sprintf("patch %s", set.Patch)
		}
		if len(c) > 0 {
			g.X = c[0]
		}
		if len(c) > 1 {
			g.Y = c[1]
		}
		if len(c) > 2 {
			g.Z = c[2]
		}
		groups = append(groups, g)
	}
	return groups
}

// Options controls the presentation of a figure. Only the data passed in
// is part of the contract; these knobs are cosmetic.
type Options struct {
	Format string // png, pdf, svg, eps, jpg, tif or html
	Unit   string // axis unit label, "-" when empty
	Title  string
	// AxisFixed pins symmetric limits at AxisLimit (or 1 when unset).
	AxisFixed bool
	AxisLimit float64
	// LegendFixed pins the legend to the top-left corner.
	LegendFixed bool
}

func (o Options) unit() string {
	if o.Unit == "" {
		return "-"
	}
	return o.Unit
}

func (o Options) format() string {
	if o.Format == "" {
		return "png"
	}
	return strings.ToLower(o.Format)
}

func (o Options) limit() float64 {
	if o.AxisLimit <= 0 {
		return 1
	}
	return o.AxisLimit
}

var imageFormats = map[string]bool{
	"png": true, "pdf": true, "svg": true, "eps": true,
	"jpg": true, "jpeg": true, "tif": true, "tiff": true,
}

// IsImageFormat reports whether format is rendered through gonum/plot.
func IsImageFormat(format string) bool {
	return imageFormats[strings.ToLower(format)]
}

// ValidateFormat accepts every gonum/plot image format and html.
func ValidateFormat(format string) error {
	f := strings.ToLower(format)
	if IsImageFormat(f) || f == "html" {
		return nil
	}
	return fmt.Errorf("unsupported output format %q", format)
}

var plotColors = []color.Color{
	color.RGBA{R: 0, G: 128, B: 0, A: 255},   // Green
	color.RGBA{R: 255, G: 0, B: 0, A: 255},   // Red
	color.RGBA{B: 255, A: 255},               // Blue
	color.RGBA{R: 255, G: 165, B: 0, A: 255}, // Orange
	color.RGBA{R: 128, G: 0, B: 128, A: 255}, // Purple
	color.RGBA{G: 128, B: 128, A: 255},       // Teal
}

func groupColor(i int) color.Color {
	return plotColors[i%len(plotColors)]
}
