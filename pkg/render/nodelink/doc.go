// Package nodelink renders saved graphs as Graphviz node-link diagrams.
//
// # Overview
//
// The canvas already knows where every node belongs, so unlike a layout
// tool this package pins each node at its stored position and lets Graphviz
// only route the arrows. The result is a static diagram matching what the
// user arranged on the canvas, useful for reports and papers.
//
// # Usage
//
// Convert a snapshot to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(snap, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels include their metadata (r2, etc.)
//   - Free: When true, positions are ignored and Graphviz lays the graph out
//     top to bottom
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// Pinned output uses the neato engine with inputscale=72, so positions are
// interpreted in points. Canvas y grows downwards and Graphviz y grows
// upwards, so y is negated.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
