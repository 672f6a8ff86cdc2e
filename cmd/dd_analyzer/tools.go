package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/user/dd_analyzer_go/internal/analysis"
	"github.com/user/dd_analyzer_go/internal/parser"
	"github.com/user/dd_analyzer_go/internal/report"
)

const (
	plotAttitude    = "attitude"
	plotTranslation = "translation"
)

type bananaOptions struct {
	File        string
	PlotType    string
	Metrics     string
	Layout      parser.Layout
	Format      string
	Prefix      string
	LegendFixed bool
	AxisFixed   bool
	// AxisLimit is shared across film frames; 0 derives it from the data.
	AxisLimit float64
	Report    bool
}

func normalizePlotType(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case plotAttitude:
		return plotAttitude, true
	case plotTranslation:
		return plotTranslation, true
	}
	return plotTranslation, false
}

// RunBanana plots the final-state cloud of a dump: the XY projection, the
// three plane projections, and either the rotated frames (attitude) or the
// XY density (translation).
func (a *App) RunBanana(opts bananaOptions) error {
	if err := report.ValidateFormat(opts.Format); err != nil {
		return err
	}
	dump, err := a.loadDump(opts.File, opts.Layout)
	if err != nil {
		return err
	}
	return a.renderBanana(dump, opts)
}

func (a *App) renderBanana(dump *parser.Dump, opts bananaOptions) error {
	sets, warnings, err := extractPatches(dump, 2, analysis.DefaultTerm)
	if err != nil {
		return err
	}
	a.warnAll(warnings)
	groups := report.GroupsFromSets(sets)

	limit := opts.AxisLimit
	if limit <= 0 {
		limit = groupLimit(groups)
	}
	ropts := report.Options{
		Unit:        opts.Metrics,
		AxisFixed:   opts.AxisFixed,
		AxisLimit:   limit,
		LegendFixed: opts.LegendFixed,
	}

	artifacts := []artifact{
		{
			Name:    "-XY_projection",
			Caption: "XY projection of the final states",
			Render: func(format string) ([]byte, error) {
				o := ropts
				o.Format = format
				if format == "html" {
					return report.CreateScatterHTML(groups, o)
				}
				return report.CreateXYProjection(groups, o)
			},
		},
		{
			Name:    "-3D_projections",
			Caption: "Final position distribution (XY, YZ and XZ projections)",
			Render: func(format string) ([]byte, error) {
				o := ropts
				o.Format = format
				if format == "html" {
					return report.CreateScatter3DHTML(groups, o)
				}
				return report.CreateProjections(groups, o)
			},
		},
	}

	merged := mergeGroups("all patches", groups)
	switch opts.PlotType {
	case plotAttitude:
		if merged.Z == nil {
			return fmt.Errorf("attitude plot needs three components, %s has fewer", dump.Path)
		}
		unit, err := analysis.ParseUnit(opts.Metrics)
		if err != nil {
			a.status("Angles are read as degrees", "metrics", opts.Metrics)
			unit = analysis.Degrees
		}
		frames, err := analysis.Rotate(merged.X, merged.Y, merged.Z, analysis.OrderZYX, unit)
		if err != nil {
			return fmt.Errorf("error rotating frames: %w", err)
		}
		artifacts = append(artifacts, artifact{
			Name:    "-3D_rotations",
			Caption: "Rotated body axes (x red, y blue, z yellow)",
			Render: func(format string) ([]byte, error) {
				o := report.Options{Format: format, LegendFixed: opts.LegendFixed}
				if format == "html" {
					return report.CreateScatter3DHTML(frameGroups(frames), o)
				}
				return report.CreateFramePlot(frames, o)
			},
		})
	case plotTranslation:
		artifacts = append(artifacts, artifact{
			Name:      "-XY_density",
			Caption:   "XY sample density",
			ImageOnly: true,
			Render: func(format string) ([]byte, error) {
				o := ropts
				o.Format = format
				return report.CreateDensityHeatmap(merged, report.DefaultDensityBins, o)
			},
		})
	}

	format := strings.ToLower(opts.Format)
	rendered, err := a.writeArtifacts(opts.Prefix, format, artifacts)
	if err != nil {
		return err
	}
	if !opts.Report {
		return nil
	}

	images, err := pngImages(artifacts, rendered)
	if err != nil {
		return err
	}
	summary := &report.ReportSummary{
		Title:      fmt.Sprintf("Differential Algebra %s Report", strings.ToUpper(opts.PlotType[:1])+opts.PlotType[1:]),
		Source:     dump.Path,
		Layout:     dump.Layout.String(),
		PlotType:   opts.PlotType,
		Metrics:    opts.Metrics,
		NumPatches: dump.Patches.Len(),
		NumDeltas:  dump.NumDeltas(),
		NumRecords: dump.NumRecords(),
		Warnings:   warnings,
	}
	for _, set := range sets {
		summary.Components = append(summary.Components, analysis.Summarize(set)...)
	}
	path := opts.Prefix + "-report.pdf"
	a.status("Generating PDF", "path", path)
	if err := report.BuildPDFReport(path, summary, images); err != nil {
		return fmt.Errorf("error generating PDF report: %w", err)
	}
	a.status("PDF report successfully generated", "path", path)
	return nil
}

// frameGroups turns the rotated axes into three point clouds of their tips.
func frameGroups(frames *analysis.Frames) []report.Group {
	axes := []struct {
		label string
		vs    []r3.Vec
	}{
		{"x axis", frames.X},
		{"y axis", frames.Y},
		{"z axis", frames.Z},
	}
	groups := make([]report.Group, 0, len(axes))
	for _, axis := range axes {
		g := report.Group{Label: axis.label}
		for _, v := range axis.vs {
			g.X = append(g.X, v.X)
			g.Y = append(g.Y, v.Y)
			g.Z = append(g.Z, v.Z)
		}
		groups = append(groups, g)
	}
	return groups
}

type taylorOptions struct {
	File     string
	Span     int
	Centered bool
	Format   string
	Prefix   string
}

// RunTaylor reconstructs the function of a DACE listing and plots it
// against the original. An unrecognized original is an error and nothing
// is written.
func (a *App) RunTaylor(opts taylorOptions) error {
	if err := report.ValidateFormat(opts.Format); err != nil {
		return err
	}
	a.status("Parsing listing", "file", opts.File)
	listing, err := parser.ParseListing(opts.File)
	if err != nil {
		return fmt.Errorf("error parsing listing: %w", err)
	}
	curve, err := analysis.ReconstructTaylor(listing, analysis.TaylorOptions{
		Span:        opts.Span,
		Centered:    opts.Centered,
		IncludeStop: true,
	})
	if err != nil {
		return fmt.Errorf("error reconstructing %q: %w", listing.Function.Name, err)
	}
	a.status("Reconstructed expansion", "function", curve.Name, "center", curve.Center, "samples", len(curve.X))

	fn, err := analysis.OriginalFunction(curve.Name)
	if err != nil {
		return err
	}
	original := analysis.SampleFunction(fn, curve.X)
	if n := countNaN(original); n > 0 {
		a.logger.Warn("Original function is undefined at some samples, they are not plotted", "function", curve.Name, "samples", n)
	}

	format := strings.ToLower(opts.Format)
	_, err = a.writeArtifacts(opts.Prefix, format, []artifact{{
		Render: func(format string) ([]byte, error) {
			o := report.Options{Format: format}
			if format == "html" {
				return report.CreateTaylorHTML(curve, original, o)
			}
			return report.CreateTaylorPlot(curve, original, o)
		},
	}})
	return err
}

func countNaN(ys []float64) int {
	n := 0
	for _, y := range ys {
		if math.IsNaN(y) {
			n++
		}
	}
	return n
}

type sphereOptions struct {
	File   string
	Layout parser.Layout
	Format string
	Prefix string
}

// RunSphere reads quaternion deviations (w, x, y, z as variables 0..3),
// restores the scalar part and plots the Euler angles in three planes.
func (a *App) RunSphere(opts sphereOptions) error {
	if err := report.ValidateFormat(opts.Format); err != nil {
		return err
	}
	dump, err := a.loadDump(opts.File, opts.Layout)
	if err != nil {
		return err
	}
	sets, warnings, err := extractPatches(dump, 3, analysis.DefaultTerm)
	if err != nil {
		return err
	}
	a.warnAll(warnings)

	groups := make([]report.Group, 0, len(sets))
	for _, set := range sets {
		c := set.Aligned()
		w := analysis.RestoreIdentity(c[0])
		roll, pitch, yaw, err := analysis.EulersFromQuaternions(c[1], c[2], c[3], w)
		if err != nil {
			return fmt.Errorf("error converting quaternions: %w", err)
		}
		label := "attitude"
		if set.Patch != "" {
			label = fmt.Sprintf("patch %s", set.Patch)
		}
		groups = append(groups, report.Group{Label: label, X: roll, Y: pitch, Z: yaw})
	}

	format := strings.ToLower(opts.Format)
	_, err = a.writeArtifacts(opts.Prefix, format, []artifact{{
		Name:    "-Sphere",
		Caption: "Euler angles recovered from the quaternion samples",
		Render: func(format string) ([]byte, error) {
			o := report.Options{Format: format, Unit: "rad", Title: "Roll, pitch and yaw"}
			if format == "html" {
				return report.CreateScatter3DHTML(groups, o)
			}
			return report.CreateProjections(groups, o)
		},
	}})
	return err
}

type filmOptions struct {
	bananaOptions
	Dir    string
	Output string
}

// RunFilm renders a banana set for every frame file of a directory, in
// file name order, under one output directory. With AxisFixed every frame
// shares the same limits.
func (a *App) RunFilm(opts filmOptions) error {
	if err := report.ValidateFormat(opts.Format); err != nil {
		return err
	}
	entries, err := os.ReadDir(opts.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", parser.ErrFileNotFound, opts.Dir)
		}
		return fmt.Errorf("failed to list frames: %w", err)
	}

	type frame struct {
		name string
		dump *parser.Dump
	}
	var frames []frame
	for _, entry := range entries {
		if entry.IsDir() || strings.Contains(entry.Name(), "output") {
			continue
		}
		dump, err := a.loadDump(filepath.Join(opts.Dir, entry.Name()), opts.Layout)
		if err != nil {
			return err
		}
		frames = append(frames, frame{name: entry.Name(), dump: dump})
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frame files found in %s", opts.Dir)
	}

	if opts.AxisFixed && opts.AxisLimit <= 0 {
		limit := 0.0
		for _, f := range frames {
			sets, _, err := extractPatches(f.dump, 2, analysis.DefaultTerm)
			if err != nil {
				return err
			}
			limit = max(limit, groupLimit(report.GroupsFromSets(sets)))
		}
		opts.AxisLimit = limit
		a.status("Shared axis limit", "limit", limit)
	}

	for i, f := range frames {
		a.status("Frame", "index", i+1, "total", len(frames), "file", f.name)
		frameOpts := opts.bananaOptions
		frameOpts.Prefix = filepath.Join(opts.Output, strings.Split(f.name, ".")[0])
		if err := a.renderBanana(f.dump, frameOpts); err != nil {
			return fmt.Errorf("frame %s: %w", f.name, err)
		}
	}
	return nil
}

type extractOptions struct {
	File           string
	Layout         parser.Layout
	Dimensionality int
	Term           parser.TermIndex
}

// RunExtract writes the extracted vectors as CSV rows of
// patch, sample and one column per component. Ragged components leave
// their missing cells empty.
func (a *App) RunExtract(opts extractOptions) error {
	dump, err := a.loadDump(opts.File, opts.Layout)
	if err != nil {
		return err
	}
	sets, warnings, err := extractPatches(dump, opts.Dimensionality, opts.Term)
	if err != nil {
		return err
	}
	a.warnAll(warnings)

	w := csv.NewWriter(a.stdout)
	header := []string{"patch", "sample"}
	for i := 0; i <= opts.Dimensionality; i++ {
		header = append(header, fmt.Sprintf("v%d", i))
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, set := range sets {
		n := 0
		for _, c := range set.Components {
			n = max(n, len(c))
		}
		for i := 0; i < n; i++ {
			row := []string{string(set.Patch), strconv.Itoa(i)}
			for _, c := range set.Components {
				cell := ""
				if i < len(c) {
					cell = strconv.FormatFloat(c[i], 'g', -1, 64)
				}
				row = append(row, cell)
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
		}
	}
	w.Flush()
	return w.Error()
}
