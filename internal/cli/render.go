package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/chart/sink"
	"github.com/matzehuels/barchart/pkg/chart/sorting"
	"github.com/matzehuels/barchart/pkg/errors"
	"github.com/matzehuels/barchart/pkg/records"
)

const (
	formatSVG  = "svg"
	formatPNG  = "png"
	formatJSON = "json"
	formatText = "txt"
)

var validFormats = []string{formatSVG, formatPNG, formatJSON, formatText}

// settleLimit bounds the number of steps a headless render takes.
const settleLimit = 10000

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string  // output file path; stdout when empty
	format      string  // svg, png, json or txt; inferred from output when empty
	measure     string  // measure column; the config or first measure when empty
	sort        string  // sort strategy name
	title       string  // SVG title
	scale       float64 // PNG pixel scale
	columns     int     // text bar width
	interactive bool    // embed the hover tooltip script in SVG output
}

// renderCommand creates the render command. It mounts the chart, applies
// the requested measure and sort, lets every animation settle on a manual
// clock and writes the final frame.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{scale: 1, columns: 40}

	cmd := &cobra.Command{
		Use:   "render [file.csv]",
		Short: "Render a CSV file as a bar chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format == "" {
				opts.format = inferFormat(opts.output)
			}
			if !slices.Contains(validFormats, opts.format) {
				return errors.New(errors.ErrCodeInvalidInput, "invalid format %q (must be one of %s)", opts.format, strings.Join(validFormats, ", "))
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg (default), png, json, txt")
	cmd.Flags().StringVarP(&opts.measure, "measure", "m", "", "measure column (default first numeric column)")
	cmd.Flags().StringVarP(&opts.sort, "sort", "s", "", "sort: "+strings.Join(sorting.Names(), ", "))
	cmd.Flags().StringVar(&opts.title, "title", "", "SVG title")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG pixel scale")
	cmd.Flags().IntVar(&opts.columns, "columns", opts.columns, "text bar width in columns")
	cmd.Flags().BoolVar(&opts.interactive, "interactive", false, "embed hover tooltips in SVG output")

	return cmd
}

// inferFormat picks the format from the output extension.
func inferFormat(output string) string {
	switch strings.ToLower(filepath.Ext(output)) {
	case ".png":
		return formatPNG
	case ".json":
		return formatJSON
	case ".txt":
		return formatText
	}
	return formatSVG
}

func (c *CLI) runRender(ctx context.Context, path string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	table, err := c.loadTable(ctx, cfg.Cache, path)
	if err != nil {
		return err
	}

	clock := chart.NewManualClock(time.Unix(0, 0).UTC())
	eng := chart.New(append(cfg.Chart.options(), chart.WithClock(clock), chart.WithLogger(logger))...)

	prog := newProgress(logger)
	base := table.Config(pickMeasure(table, cfg.Chart.Measure), cfg.Chart.sorter())
	if err := eng.Mount(table.Records, base); err != nil {
		return err
	}
	target, err := applyFlags(base, opts)
	if err != nil {
		return err
	}
	if _, err := settle(eng, clock); err != nil {
		return err
	}
	if err := eng.Update(table.Records, target); err != nil {
		return err
	}
	elapsed, err := settle(eng, clock)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Settled %d bars by %s", len(eng.BarKeys()), target.MeasureKey))
	logger.Debug("render", "states", len(eng.History()), "animated", elapsed)

	data, err := encodeFrame(eng, opts)
	if err != nil {
		return err
	}
	if err := writeOutput(opts.output, data); err != nil {
		return err
	}
	if opts.output != "" {
		printNextStep("Explore it live", appName+" view "+path)
	}
	return nil
}

// loadTable reads and aggregates a CSV file through the table cache.
func (c *CLI) loadTable(ctx context.Context, cc cacheConfig, path string) (records.Table, error) {
	loader, store, err := c.newLoader(ctx, cc)
	if err != nil {
		return records.Table{}, err
	}
	defer store.Close()
	return loader.Load(ctx, path)
}

// pickMeasure returns want when the table has it, else the first measure.
func pickMeasure(t records.Table, want string) string {
	if want != "" && t.HasMeasure(want) {
		return want
	}
	return t.DefaultMeasure()
}

// applyFlags layers --measure and --sort over base. An unknown measure is
// passed through so the engine reports it as a missing key.
func applyFlags(base chart.Config, opts renderOpts) (chart.Config, error) {
	cfg := base
	if opts.measure != "" {
		cfg.MeasureKey = opts.measure
	}
	if opts.sort != "" {
		s, err := sorting.ByName(opts.sort)
		if err != nil {
			return cfg, err
		}
		cfg.Sort = s
	}
	return cfg, nil
}

// settle steps the manual clock through every scheduled instant and
// returns the animated time that passed.
func settle(e *chart.Engine, clock *chart.ManualClock) (time.Duration, error) {
	start := clock.Now()
	for range settleLimit {
		next, busy := e.Next()
		if !busy {
			return clock.Now().Sub(start), nil
		}
		clock.Set(next)
		e.Tick()
	}
	return clock.Now().Sub(start), errors.New(errors.ErrCodeInternal, "chart did not settle after %d steps", settleLimit)
}

func encodeFrame(e *chart.Engine, opts renderOpts) ([]byte, error) {
	f := e.Frame()
	switch opts.format {
	case formatPNG:
		return sink.RenderPNG(f, sink.WithScale(opts.scale))
	case formatJSON:
		return sink.RenderJSON(f, sink.WithJSONState(e.State()), sink.WithJSONConfig(e.Config()))
	case formatText:
		return []byte(sink.RenderText(f, sink.WithColumns(opts.columns), sink.WithPlain())), nil
	}
	svgOpts := []sink.SVGOption{}
	if opts.title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.title))
	}
	if opts.interactive {
		svgOpts = append(svgOpts, sink.WithInteractive())
	}
	return sink.RenderSVG(f, svgOpts...), nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	printFile(path)
	return nil
}
