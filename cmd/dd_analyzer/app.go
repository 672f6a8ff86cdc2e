package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/user/dd_analyzer_go/internal/analysis"
	"github.com/user/dd_analyzer_go/internal/parser"
	"github.com/user/dd_analyzer_go/internal/report"
)

// App runs one tool invocation. It owns the run's logger and the stream
// that tabular output goes to.
type App struct {
	logger *slog.Logger
	stdout io.Writer
}

// NewApp creates a new App writing logs to stderr.
func NewApp(stdout, stderr io.Writer, silent bool) *App {
	level := slog.LevelInfo
	if silent {
		level = slog.LevelWarn
	}
	handler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})
	return &App{logger: slog.New(handler), stdout: stdout}
}

func (a *App) status(message string, args ...any) {
	a.logger.Info(message, args...)
}

func (a *App) warnAll(warnings []string) {
	for _, w := range warnings {
		a.logger.Warn(w)
	}
}

// artifact is one figure a tool writes next to its prefix.
type artifact struct {
	Name    string // file suffix, e.g. "-XY_projection"
	Caption string
	Render  func(format string) ([]byte, error)
	// ImageOnly figures fall back to png when html is requested.
	ImageOnly bool
}

func (a *App) writeArtifacts(prefix, format string, artifacts []artifact) ([]report.NamedImage, error) {
	if err := os.MkdirAll(filepath.Dir(prefix), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	images := make([]report.NamedImage, 0, len(artifacts))
	for _, art := range artifacts {
		f := format
		if art.ImageOnly && !report.IsImageFormat(f) {
			f = "png"
		}
		a.status("Plot", "name", art.Name, "format", f)
		data, err := art.Render(f)
		if err != nil {
			return nil, fmt.Errorf("error generating plot %s: %w", art.Name, err)
		}
		path := fmt.Sprintf("%s%s.%s", prefix, art.Name, f)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		a.status("Wrote artifact", "path", path)

		if f == "png" {
			images = append(images, report.NamedImage{Key: art.Name, Caption: art.Caption, PNG: data})
		}
	}
	return images, nil
}

// pngImages renders the artifacts as PNG for embedding in the PDF report,
// reusing already rendered images.
func pngImages(artifacts []artifact, rendered []report.NamedImage) ([]report.NamedImage, error) {
	have := make(map[string]report.NamedImage, len(rendered))
	for _, img := range rendered {
		have[img.Key] = img
	}
	images := make([]report.NamedImage, 0, len(artifacts))
	for _, art := range artifacts {
		if img, ok := have[art.Name]; ok {
			images = append(images, img)
			continue
		}
		data, err := art.Render("png")
		if err != nil {
			return nil, fmt.Errorf("error generating report image %s: %w", art.Name, err)
		}
		images = append(images, report.NamedImage{Key: art.Name, Caption: art.Caption, PNG: data})
	}
	return images, nil
}

func (a *App) loadDump(path string, layout parser.Layout) (*parser.Dump, error) {
	a.status("Parsing", "file", path, "layout", layout.String())
	dump, err := parser.ParseDump(path, layout)
	if err != nil {
		return nil, fmt.Errorf("error parsing dump: %w", err)
	}
	a.status("Parsed dump", "patches", dump.Patches.Len(), "deltas", dump.NumDeltas(), "records", dump.NumRecords())
	if dump.NumRecords() == 0 {
		a.logger.Warn("Warning: dump has no records", "file", path)
	}
	return dump, nil
}

func extractPatches(dump *parser.Dump, dimensionality int, term parser.TermIndex) ([]*analysis.VectorSet, []string, error) {
	sets, err := analysis.ExtractPatches(dump, dimensionality, term)
	if err != nil {
		return nil, nil, fmt.Errorf("error extracting vectors: %w", err)
	}
	var warnings []string
	for _, set := range sets {
		for _, w := range set.Warnings {
			if set.Patch != "" {
				w = fmt.Sprintf("patch %s: %s", set.Patch, w)
			}
			warnings = append(warnings, w)
		}
	}
	return sets, warnings, nil
}

// defaultPrefix strips ext from path, leaving the file beside its input.
func defaultPrefix(path, ext string) string {
	if strings.HasSuffix(path, ext) {
		return strings.TrimSuffix(path, ext)
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// mergeGroups concatenates all groups into one cloud.
func mergeGroups(label string, groups []report.Group) report.Group {
	merged := report.Group{Label: label}
	planar := false
	for _, g := range groups {
		n := g.Len()
		merged.X = append(merged.X, g.X[:n]...)
		merged.Y = append(merged.Y, g.Y[:n]...)
		if g.Z == nil {
			planar = true
			continue
		}
		merged.Z = append(merged.Z, g.Z[:n]...)
	}
	if planar {
		merged.Z = nil
	}
	return merged
}

func groupLimit(groups []report.Group) float64 {
	data := make([][]float64, 0, 3*len(groups))
	for _, g := range groups {
		data = append(data, g.X, g.Y, g.Z)
	}
	return analysis.SymmetricLimit(data...)
}
