package nodelink

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pathcanvas/pkg/errors"
	"github.com/matzehuels/pathcanvas/pkg/graph"
	"github.com/matzehuels/pathcanvas/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes metadata in node labels.
	// When false, only the node label is shown.
	Detailed bool
	// Free ignores stored positions and lets Graphviz lay the graph out.
	Free bool
	// FillColor fills node shapes. Defaults to DefaultFillColor.
	FillColor string
	// EdgeColor strokes edges and arrowheads. Defaults to DefaultEdgeColor.
	EdgeColor string
}

// Colours used when Options leaves them empty.
const (
	DefaultFillColor = "#faf9f6"
	DefaultEdgeColor = "#000000"
)

// ToDOT converts a snapshot to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Node shapes follow the canvas: ellipses, boxes and regular polygons. Edge
// labels, with any significance marker appended, become Graphviz edge labels.
func ToDOT(s graph.Snapshot, opts Options) string {
	fill := cmp.Or(opts.FillColor, DefaultFillColor)
	stroke := cmp.Or(opts.EdgeColor, DefaultEdgeColor)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.Free {
		buf.WriteString("  rankdir=TB;\n")
	} else {
		buf.WriteString("  layout=neato;\n")
		buf.WriteString("  inputscale=72;\n")
		buf.WriteString("  splines=true;\n")
		buf.WriteString("  overlap=true;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [style=filled, fillcolor=%q, color=%q, fontname=\"Arial\", fontsize=12];\n", fill, stroke)
	fmt.Fprintf(&buf, "  edge [color=%q, fontname=\"Arial\", fontsize=10];\n", stroke)
	buf.WriteString("\n")

	for _, n := range s.Nodes {
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed))
		if !opts.Free {
			attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(n.Position.X), fmtFloat(-n.Position.Y)))
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range s.Edges {
		if label := e.Label + e.Meta.Text(graph.MetaSignificance); label != "" {
			fmt.Fprintf(&buf, "  n%d -> n%d [label=%q];\n", e.Source, e.Target, label)
			continue
		}
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.NodeRecord, detailed bool) string {
	if !detailed || len(n.Meta) == 0 {
		return n.Label
	}

	parts := make([]string, 0, len(n.Meta))
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}

	return n.Label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n graph.NodeRecord, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch n.Shape.Kind {
	case graph.ShapeRectangle:
		attrs = append(attrs, "shape=box")
	case graph.ShapePolygon:
		attrs = append(attrs, "shape=polygon", fmt.Sprintf("sides=%d", max(n.Shape.Sides, 3)))
	default:
		attrs = append(attrs, "shape=ellipse")
	}
	return attrs
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
