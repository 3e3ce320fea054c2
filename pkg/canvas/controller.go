package canvas

import (
	"strconv"
	"strings"

	"github.com/matzehuels/pathcanvas/pkg/errors"
	"github.com/matzehuels/pathcanvas/pkg/geom"
	"github.com/matzehuels/pathcanvas/pkg/graph"
	"github.com/matzehuels/pathcanvas/pkg/hittest"
	"github.com/matzehuels/pathcanvas/pkg/observability"
	"github.com/matzehuels/pathcanvas/pkg/render"
	"github.com/matzehuels/pathcanvas/pkg/snap"
)

// HandleEvent feeds one input event to the state machine and redraws.
// Events are processed strictly in call order. Rejected actions never
// return errors; they leave the model unchanged and set Feedback.
func (c *Canvas) HandleEvent(ev Event) {
	switch e := ev.(type) {
	case PointerDown:
		c.pointerDown(e)
	case PointerMove:
		c.pointerMove(e)
	case PointerUp:
		c.pointerUp(e)
	case Zoom:
		c.zoom(e)
	case ZoomEnd:
		if c.state == PanningOrZooming && c.pan != nil && c.pan.zooming {
			c.pan = nil
			c.setState(Idle, "ZoomEnd")
		}
	case KeyPress:
		c.keyPress(e)
	case MenuSelect:
		c.menuSelect(e)
	case MenuDismiss:
		if c.state == ContextMenuOpen {
			c.closeMenu()
			c.setState(Idle, "MenuDismiss")
		}
	case Resize:
		c.viewport = e.Viewport
	case nil:
		return
	default:
		c.logger.Warn("unhandled event", "event", ev.eventName())
		return
	}
	c.Redraw()
}

func (c *Canvas) pointerDown(e PointerDown) {
	c.feedback = nil
	switch c.state {
	case ContextMenuOpen:
		c.closeMenu()
		c.setState(Idle, "PointerDown")
		if e.Button == ButtonSecondary {
			c.openMenu(e.Position)
		}
		return
	case DraggingNode, ConnectingEdge:
		if c.connect != nil && e.Button == ButtonPrimary && c.connectFromMenu() {
			// a menu-started connection resolves on the release
			c.connect.pointer = e.Position
			return
		}
		// a second button while a gesture is active cancels it
		c.cancelGesture()
		c.setState(Idle, "PointerDown")
		return
	case PanningOrZooming:
		return
	}

	switch e.Button {
	case ButtonSecondary:
		c.openMenu(e.Position)
		return
	case ButtonMiddle:
		c.startPan(e.Position)
		return
	}

	id, onNode := c.hitNode(e.Position)
	switch {
	case onNode && e.Modifiers.connect():
		c.startConnect(id, e.Position, false, "PointerDown")
	case onNode:
		n, _ := c.model.Node(id)
		lp := geom.ScreenToLogical(e.Position, c.transform)
		c.drag = &dragGesture{node: id, origin: n.Position, grab: lp.Sub(n.Position)}
		c.setState(DraggingNode, "PointerDown")
	default:
		c.startPan(e.Position)
	}
}

func (c *Canvas) pointerMove(e PointerMove) {
	switch c.state {
	case DraggingNode:
		d := c.drag
		proposed := geom.ScreenToLogical(e.Position, c.transform).Sub(d.grab)
		res := snap.Snap(d.node, proposed, c.model.Nodes(), c.cfg.SnapTolerance)
		_ = c.model.MoveNode(d.node, res.Position)
		c.guides = res.Guides
	case ConnectingEdge:
		c.connect.pointer = e.Position
		c.connect.target = c.targetAt(e.Position)
		c.hover = c.connect.target
		c.classify()
	case PanningOrZooming:
		if c.pan != nil && !c.pan.zooming {
			c.transform = c.transform.Pan(e.Position.Sub(c.pan.last))
			c.pan.last = e.Position
		}
	case Idle:
		c.hover, _ = c.hitNode(e.Position)
	}
}

func (c *Canvas) pointerUp(e PointerUp) {
	switch c.state {
	case DraggingNode:
		d := c.drag
		c.drag = nil
		c.guides = nil
		c.setState(Idle, "PointerUp")
		if n, ok := c.model.Node(d.node); ok && n.Position != d.origin {
			c.committed("move_node")
		}
	case ConnectingEdge:
		if e.Button != ButtonPrimary {
			return
		}
		c.finishConnect(e.Position)
	case PanningOrZooming:
		if c.pan != nil && !c.pan.zooming {
			c.pan = nil
			c.setState(Idle, "PointerUp")
		}
	}
}

func (c *Canvas) zoom(e Zoom) {
	factor := e.Factor
	if factor <= 0 {
		switch {
		case e.Delta > 0:
			factor = c.cfg.ZoomStep
		case e.Delta < 0:
			factor = 1 / c.cfg.ZoomStep
		default:
			factor = 1
		}
	}
	c.cancelGesture()
	c.closeMenu()
	c.pan = &panGesture{last: e.Position, zooming: true}
	c.setState(PanningOrZooming, "Zoom")
	c.transform = c.transform.ZoomAbout(e.Position, factor, c.cfg.ZoomRange[0], c.cfg.ZoomRange[1])
	if !e.Ongoing {
		c.pan = nil
		c.setState(Idle, "Zoom")
	}
}

func (c *Canvas) keyPress(e KeyPress) {
	switch e.Key {
	case KeyEscape:
		c.feedback = nil
		switch c.state {
		case DraggingNode, ConnectingEdge:
			c.cancelGesture()
		case ContextMenuOpen:
			c.closeMenu()
		case PanningOrZooming:
			c.pan = nil
		default:
			return
		}
		c.setState(Idle, "Escape")
	case KeyDelete, KeyBackspace:
		if c.state != Idle || c.hover == 0 {
			return
		}
		if err := c.removeNode(c.hover); err == nil {
			c.committed("remove_node")
		}
	}
}

func (c *Canvas) menuSelect(e MenuSelect) {
	if c.state != ContextMenuOpen || c.menu == nil {
		return
	}
	m := *c.menu
	c.closeMenu()
	c.setState(Idle, "MenuSelect")
	if !m.Has(e.Action) {
		c.reject(string(e.Action), errors.New(errors.ErrCodeInvalidInput, "%s is not available here", e.Action), 0)
		return
	}

	switch e.Action {
	case ActionAddEllipse:
		c.model.AddShapedNode(m.Logical, "", graph.Ellipse)
		c.committed("add_node")
	case ActionAddRectangle:
		c.model.AddShapedNode(m.Logical, "", graph.Rectangle)
		c.committed("add_node")
	case ActionAddConnection:
		c.startConnect(m.Node, m.Position, true, "MenuSelect")
	case ActionRenameNode:
		if err := c.model.RenameNode(m.Node, e.Text); err != nil {
			c.reject("rename", err, m.Node)
			return
		}
		c.committed("rename_node")
	case ActionDeleteNode:
		if err := c.removeNode(m.Node); err != nil {
			c.reject("delete", err, 0)
			return
		}
		c.committed("remove_node")
	case ActionSetR2:
		v, err := parseR2(e.Text)
		if err != nil {
			c.reject("r2", err, m.Node)
			return
		}
		if err := c.model.SetNodeMeta(m.Node, graph.MetaR2, v); err != nil {
			c.reject("r2", err, 0)
			return
		}
		c.committed("set_node_meta")
	case ActionEditEdgeLabel:
		est, sig := splitSignificance(e.Text)
		if err := c.model.SetEdgeLabel(m.Edge, est); err != nil {
			c.reject("label", err, 0)
			return
		}
		var sigValue any
		if sig != "" {
			sigValue = sig
		}
		if err := c.model.SetEdgeMeta(m.Edge, graph.MetaSignificance, sigValue); err != nil {
			c.reject("label", err, 0)
			return
		}
		c.committed("set_edge_label")
	case ActionDeleteEdge:
		if err := c.model.RemoveEdge(m.Edge); err != nil {
			c.reject("delete", err, 0)
			return
		}
		c.committed("remove_edge")
	}
}

// =============================================================================
// Gestures
// =============================================================================

func (c *Canvas) openMenu(p geom.Point) {
	m := &Menu{Position: p, Logical: geom.ScreenToLogical(p, c.transform)}
	if id, ok := c.hitNode(p); ok {
		m.Node, m.Items = id, nodeMenu()
	} else if id, ok := hittest.Edge(p, c.model.Edges(), c.model.Nodes(), c.transform, c.cfg.EdgeTolerance); ok {
		m.Edge, m.Items = id, edgeMenu()
	} else {
		m.Items = canvasMenu(c.cfg)
	}
	c.menu = m
	c.setState(ContextMenuOpen, "PointerDown")
}

func (c *Canvas) closeMenu() { c.menu = nil }

func (c *Canvas) startPan(p geom.Point) {
	c.pan = &panGesture{last: p}
	c.setState(PanningOrZooming, "PointerDown")
}

func (c *Canvas) startConnect(source graph.NodeID, p geom.Point, fromMenu bool, event string) {
	c.connect = &connectGesture{source: source, pointer: p}
	c.connectMenu = fromMenu
	c.classify()
	c.setState(ConnectingEdge, event)
}

func (c *Canvas) connectFromMenu() bool { return c.connectMenu }

func (c *Canvas) finishConnect(p geom.Point) {
	g := c.connect
	target := c.targetAt(p)
	c.connect, c.connectMenu = nil, false
	c.class = nil
	c.setState(Idle, "PointerUp")
	if target == 0 {
		return
	}
	if err := c.checkConnection(g.source, target); err != nil {
		c.reject("connect", err, target)
		return
	}
	if _, err := c.model.AddEdge(g.source, target); err != nil {
		c.reject("connect", err, target)
		return
	}
	c.committed("add_edge")
}

// cancelGesture reverts an active drag or connect gesture. The model is left
// exactly as it was before the gesture began.
func (c *Canvas) cancelGesture() {
	if d := c.drag; d != nil {
		_ = c.model.MoveNode(d.node, d.origin)
		c.logger.Debug("drag cancelled", "node", d.node)
	}
	if c.connect != nil {
		c.logger.Debug("connection cancelled", "source", c.connect.source)
	}
	c.drag, c.connect, c.connectMenu = nil, nil, false
	c.guides, c.class = nil, nil
}

// =============================================================================
// Connection validity
// =============================================================================

// checkConnection applies the structural rules, the reciprocal policy and the
// host rule to source→target.
func (c *Canvas) checkConnection(source, target graph.NodeID) error {
	if err := c.model.CheckEdge(source, target); err != nil {
		return err
	}
	if !c.cfg.AllowReciprocal && c.model.HasEdge(target, source) {
		return errors.New(errors.ErrCodeInvalidEdge, "reverse edge %d→%d already exists", target, source)
	}
	if c.rule != nil {
		s, _ := c.model.Node(source)
		t, _ := c.model.Node(target)
		if err := c.rule(s, t, c.model.Nodes()); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidEdge, err, "%s", errors.UserMessage(err))
		}
	}
	return nil
}

// classify recomputes the validity class of every node except the source.
func (c *Canvas) classify() {
	c.class = make(map[graph.NodeID]render.NodeClass, c.model.NodeCount())
	for _, n := range c.model.Nodes() {
		if n.ID == c.connect.source {
			continue
		}
		if c.checkConnection(c.connect.source, n.ID) == nil {
			c.class[n.ID] = render.ClassAllowed
		} else {
			c.class[n.ID] = render.ClassNotAllowed
		}
	}
}

// targetAt returns the node under p that is not the connection source.
func (c *Canvas) targetAt(p geom.Point) graph.NodeID {
	id, ok := c.hitNode(p)
	if !ok || id == c.connect.source {
		return 0
	}
	return id
}

func (c *Canvas) hitNode(p geom.Point) (graph.NodeID, bool) {
	return hittest.Node(p, c.model.Nodes(), c.transform, c.cfg.HitRadius)
}

// =============================================================================
// Bookkeeping
// =============================================================================

func (c *Canvas) setState(to State, event string) {
	if c.state == to {
		return
	}
	from := c.state
	c.state = to
	if to != ConnectingEdge && to != DraggingNode {
		c.hover = 0
	}
	c.logger.Debug("transition", "from", from, "to", to, "event", event)
	observability.Canvas().OnTransition(from.String(), to.String(), event)
}

func (c *Canvas) reject(action string, err error, node graph.NodeID) {
	code := errors.GetCode(err)
	reason := errors.UserMessage(err)
	c.feedback = &Feedback{Node: node, Code: code, Reason: reason}
	c.logger.Debug("rejected", "action", action, "code", code, "reason", reason)
	observability.Canvas().OnRejection(action, string(code), reason)
}

// parseR2 reads an R² entry. Blank text clears the value (nil).
func parseR2(text string) (any, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || !(v >= 0 && v <= 1) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "R² must be a number between 0 and 1, got %q", text)
	}
	return v, nil
}

// splitSignificance separates trailing significance stars from an estimate,
// so "0.42**" becomes "0.42" and "**".
func splitSignificance(text string) (est, sig string) {
	text = strings.TrimSpace(text)
	est = strings.TrimRight(text, "*")
	return strings.TrimSpace(est), text[len(est):]
}
