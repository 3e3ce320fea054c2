// Package snap aligns a dragged node with the other nodes on the canvas.
//
// Each axis is evaluated on its own. On the x axis the dragged node snaps to
// the x coordinate of the nearest other node whose |Δx| is within tolerance;
// the y axis works the same way. Equal distances go to the node with the
// lower id. An axis with no candidate passes the proposed coordinate through.
//
// Every snapped axis yields a [Guide]: the shared coordinate plus all nodes
// that sit exactly on it, which the renderer draws as a dashed line.
package snap

import (
	"math"
	"slices"

	"github.com/matzehuels/pathcanvas/pkg/geom"
	"github.com/matzehuels/pathcanvas/pkg/graph"
)

// Axis identifies the coordinate a guide aligns.
type Axis int

const (
	// AxisX guides align x coordinates and are drawn as vertical lines.
	AxisX Axis = iota
	// AxisY guides align y coordinates and are drawn as horizontal lines.
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// Guide is an alignment line produced by a snap.
type Guide struct {
	Axis       Axis
	Coordinate float64
	Nodes      []graph.NodeID // sorted, includes the dragged node
}

// Result is the outcome of Snap.
type Result struct {
	Position geom.Point
	SnappedX bool
	SnappedY bool
	AnchorX  graph.NodeID // zero unless SnappedX
	AnchorY  graph.NodeID // zero unless SnappedY
	Guides   []Guide
}

// Snap adjusts proposed, the candidate position of dragged, against others.
// Entries of others with the dragged id are ignored. A negative tolerance
// disables snapping.
func Snap(dragged graph.NodeID, proposed geom.Point, others []graph.Node, tolerance float64) Result {
	res := Result{Position: proposed}
	if tolerance < 0 {
		return res
	}
	if id, x, ok := nearest(dragged, proposed.X, others, tolerance, func(p geom.Point) float64 { return p.X }); ok {
		res.Position.X, res.SnappedX, res.AnchorX = x, true, id
	}
	if id, y, ok := nearest(dragged, proposed.Y, others, tolerance, func(p geom.Point) float64 { return p.Y }); ok {
		res.Position.Y, res.SnappedY, res.AnchorY = y, true, id
	}
	if res.SnappedX {
		res.Guides = append(res.Guides, guide(AxisX, res.Position.X, dragged, others, func(p geom.Point) float64 { return p.X }))
	}
	if res.SnappedY {
		res.Guides = append(res.Guides, guide(AxisY, res.Position.Y, dragged, others, func(p geom.Point) float64 { return p.Y }))
	}
	return res
}

func nearest(dragged graph.NodeID, v float64, others []graph.Node, tolerance float64, coord func(geom.Point) float64) (graph.NodeID, float64, bool) {
	var (
		bestID  graph.NodeID
		bestV   float64
		bestD   = math.Inf(1)
		matched bool
	)
	for _, n := range others {
		if n.ID == dragged {
			continue
		}
		c := coord(n.Position)
		d := math.Abs(c - v)
		if d > tolerance {
			continue
		}
		if d < bestD || (d == bestD && n.ID < bestID) {
			bestID, bestV, bestD, matched = n.ID, c, d, true
		}
	}
	return bestID, bestV, matched
}

func guide(axis Axis, at float64, dragged graph.NodeID, others []graph.Node, coord func(geom.Point) float64) Guide {
	g := Guide{Axis: axis, Coordinate: at, Nodes: []graph.NodeID{dragged}}
	for _, n := range others {
		if n.ID != dragged && coord(n.Position) == at {
			g.Nodes = append(g.Nodes, n.ID)
		}
	}
	slices.Sort(g.Nodes)
	return g
}
