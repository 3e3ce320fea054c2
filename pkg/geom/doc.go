// Package geom provides the pure geometry used by the canvas: points,
// rectangles, the view transform and the outline math that makes arrows end
// on a node's border instead of its centre.
//
// # Coordinate Spaces
//
// Two spaces exist:
//
//   - Logical coordinates: where nodes live. Independent of zoom and pan.
//   - Screen coordinates: where pointer events arrive and shapes are drawn.
//
// A [Transform] maps between them by scaling then translating:
//
//	screen = logical*Scale + Offset
//	logical = (screen - Offset) / Scale
//
// [ScreenToLogical] and [LogicalToScreen] are the free-function forms used by
// hit-testing and rendering.
//
// # Zoom
//
// [Transform.ZoomAbout] multiplies the scale by a factor, clamps it to a
// range and adjusts the offset so that the logical point under the given
// screen position stays under it:
//
//	t = t.ZoomAbout(cursor, 1.1, 0.2, 5)
//	// ScreenToLogical(cursor, t) is unchanged
//
// # Outlines
//
// [ClipEllipse], [ClipRect] and [ClipPolygon] find where a segment that ends
// at a shape's centre crosses the shape's outline. [Arrowhead] builds the
// triangle drawn at that crossing.
//
// All functions are pure and safe for concurrent use.
package geom
