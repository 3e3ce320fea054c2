// Package pkg provides the core libraries of pathcanvas, an interactive
// canvas for drawing directed graphs.
//
// # Overview
//
// The core packages hold no I/O of their own: hosts feed pointer, key and
// zoom events in, read the graph out and supply a drawing surface. The
// pkg directory is organized into three areas:
//
//  1. Model - [graph] (nodes, edges, labels, snapshots)
//  2. Interaction - [geom], [hittest], [snap] and [canvas] (the controller)
//  3. Output - [render] and its surfaces and exporters
//
// # Architecture
//
// Data flows in one direction:
//
//	raw input events
//	       ↓
//	[canvas] controller (state machine)
//	       ↓            ↘
//	[hittest], [snap]   [graph] mutation
//	                         ↓
//	                    [render] redraw onto a Surface
//
// The renderer never mutates the model; the controller is the only mutator.
//
// # Quick Start
//
// Create a canvas over a surface and drive it with events:
//
//	import (
//	    "github.com/matzehuels/pathcanvas/pkg/canvas"
//	    "github.com/matzehuels/pathcanvas/pkg/geom"
//	    "github.com/matzehuels/pathcanvas/pkg/render"
//	)
//
//	rec := &render.Recorder{}
//	c, _ := canvas.New(rec, canvas.DefaultConfig())
//
//	a := c.AddNode(geom.Point{X: 0, Y: 0}, "A")
//	b := c.AddNode(geom.Point{X: 100, Y: 0}, "B")
//
//	// Shift-drag from A to B draws an arrow.
//	c.HandleEvent(canvas.PointerDown{Position: geom.Point{X: 0, Y: 0}, Button: canvas.ButtonPrimary, Modifiers: canvas.ModShift})
//	c.HandleEvent(canvas.PointerMove{Position: geom.Point{X: 100, Y: 0}})
//	c.HandleEvent(canvas.PointerUp{Position: geom.Point{X: 100, Y: 0}, Button: canvas.ButtonPrimary})
//
//	for _, conn := range c.Connections() {
//	    fmt.Println(conn.Source == a, conn.Target == b)
//	}
//
// # Main Packages
//
// [graph] - Arena-backed directed graph with unique labels, cascading node
// removal and a JSON snapshot format carrying predictors and dependents.
//
// [geom] - Points, the view transform, zoom about a fixed point, segment
// distance and outline clipping.
//
// [hittest] - Pure node and edge lookups under a screen point.
//
// [snap] - Per-axis snapping of a dragged node with alignment guides.
//
// [canvas] - The interaction controller: events, states, connection rules,
// context menus and the query and mutation API.
//
// [render] - Frame to draw commands on a Surface. [render/svg] writes SVG
// documents; [render/nodelink] exports through Graphviz.
//
// ## Supporting Packages
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hook registry for transitions, mutations, rejections,
// renders and exports.
//
// [cache] - Artifact cache for rendered exports.
//
// [buildinfo] - Version information set at link time.
package pkg
