package canvas

import (
	"io"
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pathcanvas/pkg/errors"
	"github.com/matzehuels/pathcanvas/pkg/geom"
	"github.com/matzehuels/pathcanvas/pkg/graph"
	"github.com/matzehuels/pathcanvas/pkg/observability"
	"github.com/matzehuels/pathcanvas/pkg/render"
	"github.com/matzehuels/pathcanvas/pkg/snap"
)

// Feedback describes the most recent rejected action. It is shown by the
// renderer until the next pointer press or key press.
type Feedback = render.Feedback

// ConnectionRule lets a host veto connections. It is consulted after the
// structural and reciprocal rules; a non-nil error marks target as
// not-allowed and its message becomes the rejection reason.
type ConnectionRule func(source, target graph.Node, nodes []graph.Node) error

// Option configures a Canvas.
type Option func(*Canvas)

// WithLogger sets the logger for state transitions and rejections. The
// default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(c *Canvas) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithConnectionRule installs a host connection rule.
func WithConnectionRule(rule ConnectionRule) Option {
	return func(c *Canvas) { c.rule = rule }
}

// WithViewport sets the initial screen viewport.
func WithViewport(r geom.Rect) Option {
	return func(c *Canvas) { c.viewport = r }
}

// WithRenderer replaces the renderer built from the configuration. A custom
// renderer keeps its own palette across UpdateConfiguration.
func WithRenderer(r *render.Renderer) Option {
	return func(c *Canvas) {
		if r != nil {
			c.renderer, c.customRenderer = r, true
		}
	}
}

// WithModel starts the canvas on an existing model instead of an empty one.
// The canvas takes ownership of m.
func WithModel(m *graph.Model) Option {
	return func(c *Canvas) {
		if m != nil {
			c.model = m
		}
	}
}

// Canvas is the interaction controller. It owns the graph model and the view
// transform, turns input events into mutations and redraws its surface after
// every handled event.
//
// A Canvas is not safe for concurrent use. Drive it from one goroutine.
type Canvas struct {
	cfg            Config
	model          *graph.Model
	surface        render.Surface
	renderer       *render.Renderer
	customRenderer bool
	logger         *log.Logger
	rule           ConnectionRule

	viewport  geom.Rect
	transform geom.Transform
	state     State

	drag        *dragGesture
	connect     *connectGesture
	connectMenu bool
	pan         *panGesture
	menu        *Menu

	guides   []snap.Guide
	class    map[graph.NodeID]render.NodeClass
	hover    graph.NodeID
	feedback *Feedback

	subs    []subscription
	nextSub int
}

type subscription struct {
	id int
	fn func(graph.Snapshot)
}

// New creates a canvas drawing on surface.
//
// cfg is completed with WithDefaults and validated; an invalid configuration
// or a nil surface is a CONFIGURATION_ERROR. The new canvas is drawn once
// before New returns.
func New(surface render.Surface, cfg Config, opts ...Option) (*Canvas, error) {
	if surface == nil {
		return nil, errors.New(errors.ErrCodeConfiguration, "surface is required")
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Canvas{
		cfg:       cfg,
		surface:   surface,
		logger:    log.New(io.Discard),
		transform: geom.Identity(),
		viewport:  geom.Rect{W: 800, H: 600},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.model == nil {
		c.model = graph.New(graph.WithLabelPrefix(cfg.LabelPrefix))
	} else {
		c.model.SetLabelPrefix(cfg.LabelPrefix)
	}
	if c.renderer == nil {
		c.renderer = newRenderer(cfg)
	}
	c.Redraw()
	return c, nil
}

func newRenderer(cfg Config) *render.Renderer {
	return render.NewRenderer(render.WithPalette(cfg.Palette()), render.WithFontSize(cfg.FontSize))
}

// =============================================================================
// Queries
// =============================================================================

// Nodes returns copies of all nodes in insertion order.
func (c *Canvas) Nodes() []graph.Node { return c.model.Nodes() }

// Edges returns copies of all edges in insertion order.
func (c *Canvas) Edges() []graph.Edge { return c.model.Edges() }

// Connections returns every edge as a (source, target) pair.
func (c *Canvas) Connections() []graph.Connection { return c.model.Connections() }

// NodeConnections maps every node to its incoming and outgoing neighbours.
func (c *Canvas) NodeConnections() map[graph.NodeID]graph.Adjacency {
	return c.model.NodeConnections()
}

// Node returns a copy of a node.
func (c *Canvas) Node(id graph.NodeID) (graph.Node, bool) { return c.model.Node(id) }

// Edge returns a copy of an edge.
func (c *Canvas) Edge(id graph.EdgeID) (graph.Edge, bool) { return c.model.Edge(id) }

// NodeByLabel looks a node up by label.
func (c *Canvas) NodeByLabel(label string) (graph.NodeID, bool) { return c.model.NodeByLabel(label) }

// Snapshot returns the serialized graph.
func (c *Canvas) Snapshot() graph.Snapshot { return c.model.Snapshot() }

// State returns the controller state.
func (c *Canvas) State() State { return c.state }

// Transform returns the view transform.
func (c *Canvas) Transform() geom.Transform { return c.transform }

// Viewport returns the screen rectangle the canvas draws into.
func (c *Canvas) Viewport() geom.Rect { return c.viewport }

// Guides returns the alignment guides of the active drag.
func (c *Canvas) Guides() []snap.Guide { return slices.Clone(c.guides) }

// Classification returns the validity classes of the active connect gesture.
// It is empty outside ConnectingEdge.
func (c *Canvas) Classification() map[graph.NodeID]render.NodeClass {
	return maps.Clone(c.class)
}

// Menu returns the open context menu.
func (c *Canvas) Menu() (Menu, bool) {
	if c.menu == nil {
		return Menu{}, false
	}
	m := *c.menu
	m.Items = slices.Clone(m.Items)
	return m, true
}

// Feedback returns the most recent rejection still on display.
func (c *Canvas) Feedback() (Feedback, bool) {
	if c.feedback == nil {
		return Feedback{}, false
	}
	return *c.feedback, true
}

// Hover returns the node under the pointer, or zero.
func (c *Canvas) Hover() graph.NodeID { return c.hover }

// Config returns the active configuration.
func (c *Canvas) Config() Config { return c.cfg }

// Frame returns what the next redraw will draw.
func (c *Canvas) Frame() render.Frame {
	f := render.Frame{
		Nodes:          c.model.Nodes(),
		Edges:          c.model.Edges(),
		Transform:      c.transform,
		Viewport:       c.viewport,
		Classification: maps.Clone(c.class),
		Guides:         slices.Clone(c.guides),
		Hover:          c.hover,
	}
	if c.connect != nil {
		f.Pending = &render.Pending{Source: c.connect.source, Pointer: c.connect.pointer}
	}
	if c.feedback != nil {
		fb := *c.feedback
		f.Feedback = &fb
	}
	return f
}

// =============================================================================
// Mutations
// =============================================================================

// AddNode adds a node of the configured default shape. An active gesture is
// cancelled first.
func (c *Canvas) AddNode(pos geom.Point, label string) graph.NodeID {
	return c.AddShapedNode(pos, label, c.cfg.Shape())
}

// AddShapedNode adds a node with an explicit shape.
func (c *Canvas) AddShapedNode(pos geom.Point, label string, shape graph.Shape) graph.NodeID {
	c.interrupt("AddNode")
	id := c.model.AddShapedNode(pos, label, shape)
	c.committed("add_node")
	return id
}

// RemoveNode removes a node and its incident edges.
func (c *Canvas) RemoveNode(id graph.NodeID) error {
	c.interrupt("RemoveNode")
	if err := c.removeNode(id); err != nil {
		return err
	}
	c.committed("remove_node")
	return nil
}

// removeNode deletes id and its incident edges without committing.
func (c *Canvas) removeNode(id graph.NodeID) error {
	edges := c.model.IncidentEdges(id)
	if err := c.model.RemoveNode(id); err != nil {
		return err
	}
	if c.hover == id {
		c.hover = 0
	}
	c.logger.Debug("node removed", "node", id, "edges", len(edges))
	return nil
}

// AddEdge connects source to target under the same rules as a connect
// gesture: the structural rules, the reciprocal policy and the host rule.
func (c *Canvas) AddEdge(source, target graph.NodeID) (graph.EdgeID, error) {
	c.interrupt("AddEdge")
	if err := c.checkConnection(source, target); err != nil {
		return 0, err
	}
	id, err := c.model.AddEdge(source, target)
	if err != nil {
		return 0, err
	}
	c.committed("add_edge")
	return id, nil
}

// RemoveEdge removes an edge.
func (c *Canvas) RemoveEdge(id graph.EdgeID) error {
	c.interrupt("RemoveEdge")
	if err := c.model.RemoveEdge(id); err != nil {
		return err
	}
	c.committed("remove_edge")
	return nil
}

// RenameNode changes a node's label. Labels must be unique.
func (c *Canvas) RenameNode(id graph.NodeID, label string) error {
	c.interrupt("RenameNode")
	if err := c.model.RenameNode(id, label); err != nil {
		return err
	}
	c.committed("rename_node")
	return nil
}

// MoveNode places a node at a logical position without snapping.
func (c *Canvas) MoveNode(id graph.NodeID, pos geom.Point) error {
	c.interrupt("MoveNode")
	if err := c.model.MoveNode(id, pos); err != nil {
		return err
	}
	c.committed("move_node")
	return nil
}

// SetEdgeLabel sets the estimate text drawn on an edge.
func (c *Canvas) SetEdgeLabel(id graph.EdgeID, label string) error {
	c.interrupt("SetEdgeLabel")
	if err := c.model.SetEdgeLabel(id, label); err != nil {
		return err
	}
	c.committed("set_edge_label")
	return nil
}

// SetNodeMeta sets a metadata key on a node. A nil value deletes the key.
func (c *Canvas) SetNodeMeta(id graph.NodeID, key string, value any) error {
	c.interrupt("SetNodeMeta")
	if err := c.model.SetNodeMeta(id, key, value); err != nil {
		return err
	}
	c.committed("set_node_meta")
	return nil
}

// SetEdgeMeta sets a metadata key on an edge. A nil value deletes the key.
func (c *Canvas) SetEdgeMeta(id graph.EdgeID, key string, value any) error {
	c.interrupt("SetEdgeMeta")
	if err := c.model.SetEdgeMeta(id, key, value); err != nil {
		return err
	}
	c.committed("set_edge_meta")
	return nil
}

// LabelAvailable reports whether RenameNode(except, label) would accept
// label. Pass 0 to check against every node.
func (c *Canvas) LabelAvailable(label string, except graph.NodeID) bool {
	return c.model.LabelAvailable(label, except)
}

// Load replaces the graph with a snapshot. On error the current graph is
// kept.
func (c *Canvas) Load(s graph.Snapshot) error {
	m, err := graph.FromSnapshot(s, graph.WithLabelPrefix(c.cfg.LabelPrefix))
	if err != nil {
		return err
	}
	c.interrupt("Load")
	c.model = m
	c.hover = 0
	c.committed("load")
	return nil
}

// Reset removes every node and edge. Ids start again from 1.
func (c *Canvas) Reset() {
	c.interrupt("Reset")
	c.model = graph.New(graph.WithLabelPrefix(c.cfg.LabelPrefix))
	c.hover = 0
	c.feedback = nil
	c.committed("reset")
}

// ResetView restores the identity transform.
func (c *Canvas) ResetView() {
	c.transform = geom.Identity()
	c.Redraw()
}

// UpdateConfiguration replaces the configuration and redraws everything.
// An invalid configuration is rejected and the old one kept.
func (c *Canvas) UpdateConfiguration(cfg Config) error {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.interrupt("UpdateConfiguration")
	c.cfg = cfg
	c.model.SetLabelPrefix(cfg.LabelPrefix)
	if !c.customRenderer {
		c.renderer = newRenderer(cfg)
	}
	c.transform.Scale = geom.Clamp(c.transform.Scale, cfg.ZoomRange[0], cfg.ZoomRange[1])
	c.logger.Debug("configuration updated")
	c.Redraw()
	return nil
}

// OnGraphChanged subscribes fn to committed mutations. fn receives the
// snapshot after the mutation; it is never called for intermediate drag
// positions. The returned function cancels the subscription.
func (c *Canvas) OnGraphChanged(fn func(graph.Snapshot)) (cancel func()) {
	c.nextSub++
	id := c.nextSub
	c.subs = append(c.subs, subscription{id: id, fn: fn})
	return func() {
		c.subs = slices.DeleteFunc(c.subs, func(s subscription) bool { return s.id == id })
	}
}

// Redraw renders the current frame on the surface.
func (c *Canvas) Redraw() {
	start := time.Now()
	n := c.renderer.Render(c.surface, c.Frame())
	observability.Canvas().OnRender(n, time.Since(start))
}

// committed finishes a mutation: notify hooks and subscribers, then redraw.
func (c *Canvas) committed(kind string) {
	nodes, edges := c.model.NodeCount(), c.model.EdgeCount()
	c.logger.Debug("graph changed", "kind", kind, "nodes", nodes, "edges", edges)
	observability.Canvas().OnMutation(kind, nodes, edges)
	if len(c.subs) > 0 {
		current := c.model.Snapshot()
		for _, s := range slices.Clone(c.subs) {
			s.fn(current)
		}
	}
	c.Redraw()
}

// interrupt cancels whatever gesture is active before a programmatic call.
func (c *Canvas) interrupt(reason string) {
	if c.state == Idle {
		return
	}
	c.cancelGesture()
	c.closeMenu()
	c.pan = nil
	c.setState(Idle, reason)
}
