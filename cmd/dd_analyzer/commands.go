package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/user/dd_analyzer_go/internal/analysis"
	"github.com/user/dd_analyzer_go/internal/parser"
)

type tool struct {
	name     string
	short    string
	usage    string
	defaults map[string]string
	help     map[string]string
	run      func(app *App, cfg *config) error
}

func newToolCommand(t tool, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:     t.name,
		Short:   t.short,
		Example: t.usage,
		Args:    cobra.ArbitraryArgs,
		// Unknown flags and their values are skipped.
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := newConfig(cmd, t.usage)
			if err != nil {
				return err
			}
			silent, err := cfg.Bool("silent")
			if err != nil {
				return err
			}
			return t.run(NewApp(stdout, stderr, silent), cfg)
		},
	}
	addStringFlags(cmd.Flags(), t.defaults, t.help)
	return cmd
}

var commonHelp = map[string]string{
	"file":   "input file",
	"silent": "only log warnings and errors (bool)",
}

func withCommon(help map[string]string) map[string]string {
	out := make(map[string]string, len(help)+len(commonHelp))
	for k, v := range commonHelp {
		out[k] = v
	}
	for k, v := range help {
		out[k] = v
	}
	return out
}

func tools() []tool {
	return []tool{
		{
			name:  "banana",
			short: "Plot the XY and 3D projections of a dump's final states",
			usage: bananaUsage,
			defaults: map[string]string{
				"layout": "dd", "walls": "false", "output_format": "png",
				"legend_fixed": "false", "axis_fixed": "false", "report": "false",
			},
			help: withCommon(map[string]string{
				"plot_type":     "attitude or translation",
				"metrics":       "unit label; deg or rad selects the angle unit of attitude plots",
				"walls":         "read the walled (patch) layout (bool)",
				"layout":        "avd, dd, dd-flat or dd-walled",
				"output_format": "png, pdf, svg, eps, jpg, tif or html",
				"output_prefix": "prefix of the written artifacts (default <input dir>/<plot_type>)",
				"legend_fixed":  "pin the legend to the top-left corner (bool)",
				"axis_fixed":    "pin symmetric axis limits (bool)",
				"report":        "also write a PDF report (bool)",
			}),
			run: runBanana,
		},
		{
			name:     "taylor",
			short:    "Plot a DACE listing's Taylor expansion against its original function",
			usage:    taylorUsage,
			defaults: map[string]string{"span": "1", "centers": "false", "output_format": "png"},
			help: withCommon(map[string]string{
				"span":          "1, 2 or 3 for [-10,10], [-5,5] or [-1,1]; the half width with --centers",
				"centers":       "sample around the expansion point (bool)",
				"output_format": "png, pdf, svg, eps, jpg, tif or html",
				"output_prefix": "prefix of the written plot (default input without .txt)",
			}),
			run: runTaylor,
		},
		{
			name:     "sphere",
			short:    "Plot the Euler angles of a quaternion dump",
			usage:    sphereUsage,
			defaults: map[string]string{"layout": "dd", "output_format": "pdf"},
			help: withCommon(map[string]string{
				"layout":        "avd, dd, dd-flat or dd-walled",
				"output_format": "png, pdf, svg, eps, jpg, tif or html",
				"output_prefix": "prefix of the written plot (default input without .dd)",
			}),
			run: runSphere,
		},
		{
			name:  "film",
			short: "Plot every frame file of a directory",
			usage: filmUsage,
			defaults: map[string]string{
				"plot_type": "translation", "metrics": "-", "walls": "true", "layout": "dd",
				"output_format": "png", "legend_fixed": "false", "axis_fixed": "false",
			},
			help: withCommon(map[string]string{
				"plot_type":     "attitude or translation",
				"metrics":       "unit label",
				"walls":         "read the walled (patch) layout (bool)",
				"layout":        "layout when walls is false",
				"output_format": "png, pdf, svg, eps, jpg, tif or html",
				"output_prefix": "output directory (default <dir>/output_png)",
				"legend_fixed":  "pin the legend to the top-left corner (bool)",
				"axis_fixed":    "share symmetric axis limits across frames (bool)",
			}),
			run: runFilm,
		},
		{
			name:  "extract",
			short: "Write the extracted vectors of a dump as CSV",
			usage: extractUsage,
			defaults: map[string]string{
				"layout": "dd", "walls": "false", "dimensionality": "2", "term": "1",
			},
			help: withCommon(map[string]string{
				"layout":         "avd, dd, dd-flat or dd-walled",
				"walls":          "read the walled (patch) layout (bool)",
				"dimensionality": "highest variable index to extract",
				"term":           "term index whose coefficient is extracted",
			}),
			run: runExtract,
		},
	}
}

// resolveLayout lets walls select the walled layout over --layout.
func resolveLayout(cfg *config) (parser.Layout, error) {
	walls, err := cfg.Bool("walls")
	if err != nil {
		return 0, err
	}
	if walls {
		return parser.LayoutDDWalled, nil
	}
	return parser.ParseLayout(cfg.String("layout"))
}

func bananaFromConfig(app *App, cfg *config) (bananaOptions, error) {
	var opts bananaOptions
	rawType, err := cfg.Required("plot_type")
	if err != nil {
		return opts, err
	}
	if opts.Metrics, err = cfg.Required("metrics"); err != nil {
		return opts, err
	}
	var ok bool
	if opts.PlotType, ok = normalizePlotType(rawType); !ok {
		app.logger.Warn("Unknown plot type, plotting translation", "plot_type", rawType)
	}
	if opts.Layout, err = resolveLayout(cfg); err != nil {
		return opts, err
	}
	opts.Format = cfg.String("output_format")
	opts.Prefix = cfg.String("output_prefix")
	if opts.LegendFixed, err = cfg.Bool("legend_fixed"); err != nil {
		return opts, err
	}
	if opts.AxisFixed, err = cfg.Bool("axis_fixed"); err != nil {
		return opts, err
	}
	return opts, nil
}

func runBanana(app *App, cfg *config) error {
	file, err := cfg.Required("file")
	if err != nil {
		return err
	}
	opts, err := bananaFromConfig(app, cfg)
	if err != nil {
		return err
	}
	opts.File = file
	if opts.Report, err = cfg.Bool("report"); err != nil {
		return err
	}
	if opts.Prefix == "" {
		dir, err := filepath.Abs(filepath.Dir(file))
		if err != nil {
			return fmt.Errorf("failed to resolve output directory: %w", err)
		}
		opts.Prefix = filepath.Join(dir, opts.PlotType)
	}
	return app.RunBanana(opts)
}

func runTaylor(app *App, cfg *config) error {
	file, err := cfg.Required("file")
	if err != nil {
		return err
	}
	opts := taylorOptions{File: file, Format: cfg.String("output_format"), Prefix: cfg.String("output_prefix")}
	if opts.Span, err = cfg.Int("span"); err != nil {
		return err
	}
	if opts.Centered, err = cfg.Bool("centers"); err != nil {
		return err
	}
	if opts.Prefix == "" {
		opts.Prefix = defaultPrefix(file, ".txt")
	}
	return app.RunTaylor(opts)
}

func runSphere(app *App, cfg *config) error {
	file, err := cfg.Required("file")
	if err != nil {
		return err
	}
	layout, err := parser.ParseLayout(cfg.String("layout"))
	if err != nil {
		return err
	}
	opts := sphereOptions{File: file, Layout: layout, Format: cfg.String("output_format"), Prefix: cfg.String("output_prefix")}
	if opts.Prefix == "" {
		opts.Prefix = defaultPrefix(file, ".dd")
	}
	return app.RunSphere(opts)
}

func runFilm(app *App, cfg *config) error {
	dir, err := cfg.Required("file")
	if err != nil {
		return err
	}
	banana, err := bananaFromConfig(app, cfg)
	if err != nil {
		return err
	}
	opts := filmOptions{bananaOptions: banana, Dir: dir, Output: banana.Prefix}
	if opts.Output == "" {
		opts.Output = filepath.Join(dir, "output_png")
	}
	return app.RunFilm(opts)
}

func runExtract(app *App, cfg *config) error {
	file, err := cfg.Required("file")
	if err != nil {
		return err
	}
	layout, err := resolveLayout(cfg)
	if err != nil {
		return err
	}
	dim, err := cfg.Int("dimensionality")
	if err != nil {
		return err
	}
	term := parser.TermIndex(cfg.String("term"))
	if term == "" {
		term = analysis.DefaultTerm
	}
	return app.RunExtract(extractOptions{File: file, Layout: layout, Dimensionality: dim, Term: term})
}
