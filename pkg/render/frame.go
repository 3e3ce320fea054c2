package render

import (
	"github.com/matzehuels/pathcanvas/pkg/errors"
	"github.com/matzehuels/pathcanvas/pkg/geom"
	"github.com/matzehuels/pathcanvas/pkg/graph"
	"github.com/matzehuels/pathcanvas/pkg/snap"
)

// NodeClass is the validity classification of a node during a connect
// gesture.
type NodeClass int

const (
	ClassDefault NodeClass = iota
	ClassAllowed
	ClassNotAllowed
)

func (c NodeClass) String() string {
	switch c {
	case ClassAllowed:
		return "allowed"
	case ClassNotAllowed:
		return "not-allowed"
	default:
		return "default"
	}
}

// Pending is an in-progress connection drawn from Source to the pointer.
type Pending struct {
	Source  graph.NodeID
	Pointer geom.Point // screen coordinates
}

// Feedback describes a rejected action for transient display.
type Feedback struct {
	Node   graph.NodeID // zero when the rejection is not tied to a node
	Code   errors.Code
	Reason string
}

// Frame is an immutable read of everything a redraw needs.
type Frame struct {
	Nodes          []graph.Node
	Edges          []graph.Edge
	Transform      geom.Transform
	Viewport       geom.Rect // screen coordinates
	Classification map[graph.NodeID]NodeClass
	Guides         []snap.Guide
	Pending        *Pending
	Hover          graph.NodeID
	Feedback       *Feedback
}

// Class returns the classification of a node, ClassDefault when unset.
func (f Frame) Class(id graph.NodeID) NodeClass {
	return f.Classification[id]
}
