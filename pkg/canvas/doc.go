// Package canvas is the interaction controller of an editable directed
// graph.
//
// A Canvas owns a graph.Model and a view transform. Hosts feed it pointer,
// zoom, key and menu events through HandleEvent; the canvas turns them into
// gestures (drag a node, drag out a connection, pan, zoom, context menus),
// commits finished gestures to the model and redraws its render.Surface
// after every event.
//
// # States
//
// The controller is always in exactly one State:
//
//	Idle             no gesture
//	DraggingNode     primary press on a node; moves snap to aligned nodes
//	ConnectingEdge   shift/ctrl press on a node, or "Add path" from a menu
//	PanningOrZooming primary press on empty canvas, middle press, or Zoom
//	ContextMenuOpen  secondary press
//
// Escape cancels any gesture and restores the model to its state before the
// gesture began.
//
// # Connections
//
// While connecting, every other node is classified as allowed or
// not-allowed. A connection is allowed when it is not a self-loop or a
// duplicate, when the reverse edge does not exist (unless
// Config.AllowReciprocal is set) and when the host ConnectionRule, if any,
// accepts it. Releasing on a not-allowed node leaves the model unchanged and
// sets Feedback.
//
// # Change notification
//
// OnGraphChanged subscribers are called once per committed mutation with the
// new snapshot. Intermediate drag positions are not reported; the final
// position is reported once on release.
package canvas
