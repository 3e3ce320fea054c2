package canvas

import (
	"github.com/matzehuels/pathcanvas/pkg/geom"
	"github.com/matzehuels/pathcanvas/pkg/graph"
)

// State is the interaction controller's current mode.
type State int

const (
	Idle State = iota
	DraggingNode
	ConnectingEdge
	PanningOrZooming
	ContextMenuOpen
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case DraggingNode:
		return "DraggingNode"
	case ConnectingEdge:
		return "ConnectingEdge"
	case PanningOrZooming:
		return "PanningOrZooming"
	case ContextMenuOpen:
		return "ContextMenuOpen"
	}
	return "Unknown"
}

// dragGesture is an active node drag.
type dragGesture struct {
	node   graph.NodeID
	origin geom.Point // logical position before the drag
	grab   geom.Point // logical offset from node centre to pointer
}

// connectGesture is an active drag-to-connect.
type connectGesture struct {
	source  graph.NodeID
	pointer geom.Point // screen
	target  graph.NodeID
}

// panGesture is an active pan drag or zoom.
type panGesture struct {
	last    geom.Point // screen
	zooming bool
}
