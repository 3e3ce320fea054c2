package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pathcanvas/internal/document"
	"github.com/matzehuels/pathcanvas/pkg/cache"
	"github.com/matzehuels/pathcanvas/pkg/canvas"
	"github.com/matzehuels/pathcanvas/pkg/errors"
	"github.com/matzehuels/pathcanvas/pkg/geom"
	"github.com/matzehuels/pathcanvas/pkg/graph"
	"github.com/matzehuels/pathcanvas/pkg/observability"
	"github.com/matzehuels/pathcanvas/pkg/render"
	"github.com/matzehuels/pathcanvas/pkg/render/nodelink"
	"github.com/matzehuels/pathcanvas/pkg/render/svg"
)

// Export format identifiers.
const (
	formatJSON   = "json"
	formatDOT    = "dot"
	formatSVG    = "svg"
	formatCanvas = "canvas"
	formatPNG    = "png"
	formatPDF    = "pdf"
)

// validFormats lists accepted --format values in help order.
var validFormats = []string{formatJSON, formatDOT, formatSVG, formatCanvas, formatPNG, formatPDF}

// artifactTTL bounds how long rendered artifacts stay in the cache.
const artifactTTL = 30 * 24 * time.Hour

// exportOpts holds the export command options.
type exportOpts struct {
	output   string
	format   string
	detailed bool
	free     bool
	scale    float64
	noCache  bool
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	opts := exportOpts{format: formatSVG, scale: 2}

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export a drawing",
		Long: `Export a drawing as JSON, DOT, SVG, PNG or PDF.

Formats:
  json    the graph snapshot with predictors and dependents per node
  dot     Graphviz source with nodes pinned at their canvas positions
  svg     Graphviz rendering of the DOT output
  canvas  SVG of the canvas itself, drawn with the canvas renderer
  png     Graphviz PNG (see --scale)
  pdf     Graphviz PDF

Graphviz outputs are cached by graph content; use --no-cache to re-render.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input with the format's extension, - for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: "+strings.Join(validFormats, ", "))
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include node metadata in DOT labels")
	cmd.Flags().BoolVar(&opts.free, "free", false, "let Graphviz place nodes instead of pinning canvas positions")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the export cache")

	return cmd
}

// runExport reads input, renders it and writes the result.
func (c *CLI) runExport(ctx context.Context, input string, opts exportOpts) error {
	logger := loggerFromContext(ctx)

	if err := validateFormat(opts.format); err != nil {
		return err
	}
	doc, err := document.ReadFile(input)
	if err != nil {
		return err
	}
	cfg, err := c.resolveConfig(doc)
	if err != nil {
		return err
	}

	ca := newCache(opts.noCache)
	defer ca.Close()

	prog := newProgress(logger)
	var spinner *Spinner
	if usesGraphviz(opts.format) && opts.output != "-" {
		spinner = newSpinner(ctx, fmt.Sprintf("Rendering %s...", opts.format))
		spinner.Start()
	}
	data, cached, err := exportGraph(ctx, ca, doc.Graph, cfg, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	prog.done("Exported " + opts.format)

	if opts.output == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}

	out := opts.output
	if out == "" {
		out = outputPath(input, opts.format)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", out)
	}

	printSuccess("Exported %s", opts.format)
	printFile(out)
	printStats(len(doc.Graph.Nodes), len(doc.Graph.Edges), cached)
	return nil
}

// exportGraph renders s in the requested format. The boolean result reports
// whether the bytes came from the cache.
func exportGraph(ctx context.Context, ca cache.Cache, s graph.Snapshot, cfg canvas.Config, opts exportOpts) (data []byte, cached bool, err error) {
	hooks := observability.Export()
	start := time.Now()
	hooks.OnExportStart(ctx, opts.format, len(s.Nodes))
	defer func() {
		hooks.OnExportComplete(ctx, opts.format, len(data), time.Since(start), err)
	}()

	switch opts.format {
	case formatJSON:
		var buf bytes.Buffer
		if err := graph.WriteSnapshot(&buf, s); err != nil {
			return nil, false, err
		}
		return buf.Bytes(), false, nil
	case formatDOT:
		return []byte(nodelink.ToDOT(s, nodelinkOpts(opts, cfg))), false, nil
	case formatCanvas:
		data, err := renderCanvas(s, cfg)
		return data, false, err
	case formatSVG, formatPNG, formatPDF:
		return renderGraphviz(ctx, ca, s, cfg, opts)
	default:
		return nil, false, validateFormat(opts.format)
	}
}

// renderGraphviz runs Graphviz on the DOT output, consulting the cache first.
func renderGraphviz(ctx context.Context, ca cache.Cache, s graph.Snapshot, cfg canvas.Config, opts exportOpts) ([]byte, bool, error) {
	logger := loggerFromContext(ctx)

	graphHash, err := cache.HashJSON(s)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "hash graph")
	}
	key := cache.ArtifactKey(graphHash, artifactOpts(opts, cfg))

	if data, ok, err := ca.Get(ctx, key); err != nil {
		logger.Warn("cache read failed", "err", err)
	} else if ok {
		logger.Debug("cache hit", "format", opts.format)
		return data, true, nil
	}

	dot := nodelink.ToDOT(s, nodelinkOpts(opts, cfg))
	var data []byte
	switch opts.format {
	case formatPNG:
		data, err = nodelink.RenderPNG(dot, opts.scale)
	case formatPDF:
		data, err = nodelink.RenderPDF(dot)
	default:
		data, err = nodelink.RenderSVG(dot)
	}
	if err != nil {
		return nil, false, err
	}

	if err := ca.Set(ctx, key, data, artifactTTL); err != nil {
		logger.Warn("cache write failed", "err", err)
	}
	return data, false, nil
}

// renderCanvas draws s with the canvas renderer onto an SVG surface sized to
// fit the drawing.
func renderCanvas(s graph.Snapshot, cfg canvas.Config) ([]byte, error) {
	m, err := graph.FromSnapshot(s)
	if err != nil {
		return nil, err
	}
	r := render.NewRenderer(render.WithPalette(cfg.Palette()), render.WithFontSize(cfg.FontSize))
	frame := render.Frame{
		Nodes:     m.Nodes(),
		Edges:     m.Edges(),
		Transform: geom.Identity(),
	}
	return svg.Render(r, frame), nil
}

func nodelinkOpts(opts exportOpts, cfg canvas.Config) nodelink.Options {
	return nodelink.Options{
		Detailed:  opts.detailed,
		Free:      opts.free,
		FillColor: cfg.NodeColor.Default,
		EdgeColor: cfg.ArrowColor,
	}
}

// artifactOpts are the cache key inputs of a Graphviz export.
func artifactOpts(opts exportOpts, cfg canvas.Config) cache.ArtifactOpts {
	nl := nodelinkOpts(opts, cfg)
	a := cache.ArtifactOpts{
		Format:    opts.format,
		Detailed:  nl.Detailed,
		Free:      nl.Free,
		FillColor: nl.FillColor,
		EdgeColor: nl.EdgeColor,
	}
	if opts.format == formatPNG {
		a.Scale = opts.scale
	}
	return a
}

func usesGraphviz(format string) bool {
	return format == formatSVG || format == formatPNG || format == formatPDF
}

func validateFormat(format string) error {
	for _, f := range validFormats {
		if f == format {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (use %s)", format, strings.Join(validFormats, ", "))
}

// outputPath derives the default output file from the input path.
// The canvas format gets a "-canvas.svg" suffix so it does not clash with svg.
func outputPath(input, format string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	switch format {
	case formatCanvas:
		return base + "-canvas.svg"
	case formatJSON:
		if filepath.Ext(input) == ".json" {
			return base + "-export.json"
		}
	}
	return base + "." + format
}
