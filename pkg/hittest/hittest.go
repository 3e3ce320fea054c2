// Package hittest resolves pointer positions to nodes and edges.
//
// Both lookups are pure functions of the point, the model slices and the view
// transform. The point is in screen coordinates; radii and tolerances are in
// logical units, so a node's clickable area scales with zoom exactly like its
// drawing does.
//
// Ties are broken towards the element that comes last in the slice. The
// renderer paints in slice order, so that is the one drawn on top.
package hittest

import (
	"github.com/matzehuels/pathcanvas/pkg/geom"
	"github.com/matzehuels/pathcanvas/pkg/graph"
)

// Node returns the topmost node whose hit radius contains the screen point p.
func Node(p geom.Point, nodes []graph.Node, t geom.Transform, radius float64) (graph.NodeID, bool) {
	lp := geom.ScreenToLogical(p, t)
	var (
		hit   graph.NodeID
		found bool
	)
	for _, n := range nodes {
		if n.Position.Dist(lp) > radius {
			continue
		}
		hit, found = n.ID, true
	}
	return hit, found
}

// Edge returns the edge nearest to the screen point p whose segment between
// its endpoint centres lies within tolerance, measured in logical space.
// Edges with a missing endpoint are skipped.
func Edge(p geom.Point, edges []graph.Edge, nodes []graph.Node, t geom.Transform, tolerance float64) (graph.EdgeID, bool) {
	lp := geom.ScreenToLogical(p, t)
	pos := Positions(nodes)
	var (
		hit   graph.EdgeID
		best  float64
		found bool
	)
	for _, e := range edges {
		a, okA := pos[e.Source]
		b, okB := pos[e.Target]
		if !okA || !okB {
			continue
		}
		d := geom.DistanceToSegment(lp, a, b)
		if d > tolerance {
			continue
		}
		if !found || d <= best {
			hit, best, found = e.ID, d, true
		}
	}
	return hit, found
}

// Positions indexes node positions by id.
func Positions(nodes []graph.Node) map[graph.NodeID]geom.Point {
	out := make(map[graph.NodeID]geom.Point, len(nodes))
	for _, n := range nodes {
		out[n.ID] = n.Position
	}
	return out
}
