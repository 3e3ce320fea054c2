// Package render turns the state of a canvas into draw commands.
//
// # Overview
//
// Rendering is a pure read: a [Frame] captures the nodes, edges, view
// transform and transient interaction state at one instant, and
// [Renderer.BuildCommands] turns it into an ordered list of [Command]s.
// [Renderer.Render] replays that list on a [Surface], the only capability a
// host has to provide:
//
//	type Surface interface {
//	    Clear(geom.Rect)
//	    DrawShape(Shape)
//	    DrawLine(Line)
//	    DrawText(Text)
//	}
//
// All coordinates handed to a surface are screen coordinates. Surfaces never
// see the graph model and renderers never mutate it.
//
// # Draw Order
//
// Each frame is drawn back to front:
//
//  1. Clear the viewport
//  2. Alignment guides (dashed, across the whole viewport)
//  3. Edges: a line from outline to outline, the arrowhead and the optional
//     estimate label at the midpoint
//  4. The pending connection from its source to the pointer
//  5. Nodes, filled by their [NodeClass], with their labels
//  6. Rejection feedback next to the offending node
//
// # Back-ends
//
// The [svg] subpackage writes frames as SVG documents. The [Recorder] surface
// stores commands for tests and custom back-ends. The terminal editor in
// internal/tui rasterises commands onto a cell grid.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	doc := svg.Render(renderer, frame)
//	pdf, err := render.ToPDF(doc)
//	png, err := render.ToPNG(doc, 2.0)  // 2x scale
//
// [svg]: github.com/matzehuels/pathcanvas/pkg/render/svg
package render
