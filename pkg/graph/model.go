package graph

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/matzehuels/pathcanvas/pkg/errors"
	"github.com/matzehuels/pathcanvas/pkg/geom"
)

// NodeID identifies a node within one model. Ids start at 1.
type NodeID int

// EdgeID identifies an edge within one model. Ids start at 1.
type EdgeID int

// Metadata stores host key-value annotations on nodes and edges, for example
// an R² value on a dependent variable.
type Metadata map[string]any

// Metadata keys the renderer draws.
const (
	MetaR2           = "r2"  // node: explained variance, drawn as "R² = 0.42"
	MetaSignificance = "sig" // edge: marker appended to the estimate, e.g. "**"
)

// Float returns the value of key as a number. Values decoded from JSON are
// float64; ints and json.Number are accepted too.
func (m Metadata) Float(key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// Text returns the value of key if it is a string.
func (m Metadata) Text(key string) string {
	s, _ := m[key].(string)
	return s
}

// ShapeKind selects the outline drawn for a node.
type ShapeKind string

const (
	ShapeEllipse   ShapeKind = "ellipse"
	ShapeRectangle ShapeKind = "rectangle"
	ShapePolygon   ShapeKind = "polygon"
)

// Shape is a node outline. Sides is only meaningful for polygons and is at
// least 3 after normalisation.
type Shape struct {
	Kind  ShapeKind `json:"kind"`
	Sides int       `json:"sides,omitempty"`
}

// Ellipse is the default node shape.
var Ellipse = Shape{Kind: ShapeEllipse}

// Rectangle is the shape used for observed variables.
var Rectangle = Shape{Kind: ShapeRectangle}

// Polygon returns a regular polygon shape with the given number of sides.
func Polygon(sides int) Shape { return Shape{Kind: ShapePolygon, Sides: sides} }

// Normalize returns s with unknown kinds mapped to ellipse and polygon sides
// raised to at least 3.
func (s Shape) Normalize() Shape {
	switch s.Kind {
	case ShapeRectangle:
		return Rectangle
	case ShapePolygon:
		if s.Sides < 3 {
			s.Sides = 3
		}
		return s
	default:
		return Ellipse
	}
}

// ParseShape parses "ellipse", "rectangle" or "polygon:N".
func ParseShape(s string) (Shape, error) {
	switch s {
	case string(ShapeEllipse):
		return Ellipse, nil
	case string(ShapeRectangle):
		return Rectangle, nil
	}
	var n int
	if _, err := fmt.Sscanf(s, "polygon:%d", &n); err == nil && n >= 3 {
		return Polygon(n), nil
	}
	return Shape{}, errors.New(errors.ErrCodeInvalidInput, "unknown shape %q", s)
}

// String returns the form accepted by ParseShape.
func (s Shape) String() string {
	if s.Kind == ShapePolygon {
		return "polygon:" + strconv.Itoa(s.Sides)
	}
	return string(s.Kind)
}

// Node is a vertex placed at a logical position.
type Node struct {
	ID       NodeID
	Position geom.Point
	Label    string
	Shape    Shape
	Meta     Metadata // never nil in values returned by a Model
}

// Edge is a directed connection from Source to Target.
type Edge struct {
	ID     EdgeID
	Source NodeID
	Target NodeID
	Label  string   // estimate text shown at the midpoint; may be empty
	Meta   Metadata // never nil in values returned by a Model
}

// Connection is a (source, target) pair as reported to hosts.
type Connection struct {
	Source NodeID `json:"source"`
	Target NodeID `json:"target"`
}

// Adjacency lists a node's neighbours, each slice sorted ascending.
type Adjacency struct {
	Incoming []NodeID `json:"incoming"`
	Outgoing []NodeID `json:"outgoing"`
}

// DefaultLabelPrefix is the prefix of generated labels.
const DefaultLabelPrefix = "node_"

// Option configures a Model.
type Option func(*Model)

// WithLabelPrefix sets the prefix of generated labels. An empty prefix keeps
// the default.
func WithLabelPrefix(prefix string) Option {
	return func(m *Model) {
		if prefix != "" {
			m.prefix = prefix
		}
	}
}

type pair struct{ s, t NodeID }

// Model is the node and edge store.
//
// The zero value is not usable; create models with New.
type Model struct {
	nodes     map[NodeID]*Node
	nodeOrder []NodeID
	edges     map[EdgeID]*Edge
	edgeOrder []EdgeID
	pairs     map[pair]EdgeID
	outgoing  map[NodeID][]EdgeID
	incoming  map[NodeID][]EdgeID
	labels    map[string]NodeID

	nextNode NodeID
	nextEdge EdgeID
	prefix   string
}

// New creates an empty model.
func New(opts ...Option) *Model {
	m := &Model{
		nodes:    make(map[NodeID]*Node),
		edges:    make(map[EdgeID]*Edge),
		pairs:    make(map[pair]EdgeID),
		outgoing: make(map[NodeID][]EdgeID),
		incoming: make(map[NodeID][]EdgeID),
		labels:   make(map[string]NodeID),
		prefix:   DefaultLabelPrefix,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LabelPrefix returns the prefix used for generated labels.
func (m *Model) LabelPrefix() string { return m.prefix }

// SetLabelPrefix changes the prefix of labels generated from now on.
// Existing labels are kept. An empty prefix is ignored.
func (m *Model) SetLabelPrefix(prefix string) {
	if prefix != "" {
		m.prefix = prefix
	}
}

// AddNode creates an ellipse node and returns its fresh id. It never fails;
// see the package documentation for how labels are chosen.
func (m *Model) AddNode(pos geom.Point, label string) NodeID {
	return m.AddShapedNode(pos, label, Ellipse)
}

// AddShapedNode is AddNode with an explicit shape.
func (m *Model) AddShapedNode(pos geom.Point, label string, shape Shape) NodeID {
	m.nextNode++
	id := m.nextNode
	n := &Node{
		ID:       id,
		Position: pos,
		Label:    m.uniqueLabel(label),
		Shape:    shape.Normalize(),
		Meta:     Metadata{},
	}
	m.nodes[id] = n
	m.nodeOrder = append(m.nodeOrder, id)
	m.labels[n.Label] = id
	return id
}

// RemoveNode deletes a node and all its incident edges.
// Returns a NOT_FOUND error if the node does not exist.
func (m *Model) RemoveNode(id NodeID) error {
	n, ok := m.nodes[id]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "node %d not found", id)
	}
	incident := make(map[EdgeID]bool)
	for _, e := range m.outgoing[id] {
		incident[e] = true
	}
	for _, e := range m.incoming[id] {
		incident[e] = true
	}
	for e := range incident {
		m.dropEdge(e)
	}
	delete(m.nodes, id)
	delete(m.outgoing, id)
	delete(m.incoming, id)
	delete(m.labels, n.Label)
	m.nodeOrder = slices.DeleteFunc(m.nodeOrder, func(x NodeID) bool { return x == id })
	return nil
}

// AddEdge creates the edge source→target.
//
// Returns an INVALID_EDGE error when source equals target, when either
// endpoint does not exist, or when the ordered pair is already connected.
// Policy rules such as rejecting reciprocal edges live in the controller.
func (m *Model) AddEdge(source, target NodeID) (EdgeID, error) {
	if err := m.CheckEdge(source, target); err != nil {
		return 0, err
	}
	m.nextEdge++
	id := m.nextEdge
	m.edges[id] = &Edge{ID: id, Source: source, Target: target, Meta: Metadata{}}
	m.edgeOrder = append(m.edgeOrder, id)
	m.pairs[pair{source, target}] = id
	m.outgoing[source] = append(m.outgoing[source], id)
	m.incoming[target] = append(m.incoming[target], id)
	return id, nil
}

// CheckEdge reports the error AddEdge would return for source→target without
// changing the model.
func (m *Model) CheckEdge(source, target NodeID) error {
	if source == target {
		return errors.New(errors.ErrCodeInvalidEdge, "self-loop on node %d", source)
	}
	if _, ok := m.nodes[source]; !ok {
		return errors.New(errors.ErrCodeInvalidEdge, "source node %d does not exist", source)
	}
	if _, ok := m.nodes[target]; !ok {
		return errors.New(errors.ErrCodeInvalidEdge, "target node %d does not exist", target)
	}
	if _, dup := m.pairs[pair{source, target}]; dup {
		return errors.New(errors.ErrCodeInvalidEdge, "edge %d→%d already exists", source, target)
	}
	return nil
}

// RemoveEdge deletes an edge. Returns a NOT_FOUND error if it does not exist.
func (m *Model) RemoveEdge(id EdgeID) error {
	if _, ok := m.edges[id]; !ok {
		return errors.New(errors.ErrCodeNotFound, "edge %d not found", id)
	}
	m.dropEdge(id)
	return nil
}

func (m *Model) dropEdge(id EdgeID) {
	e := m.edges[id]
	delete(m.edges, id)
	delete(m.pairs, pair{e.Source, e.Target})
	drop := func(x EdgeID) bool { return x == id }
	m.outgoing[e.Source] = slices.DeleteFunc(m.outgoing[e.Source], drop)
	m.incoming[e.Target] = slices.DeleteFunc(m.incoming[e.Target], drop)
	m.edgeOrder = slices.DeleteFunc(m.edgeOrder, drop)
}

// MoveNode sets a node's logical position.
func (m *Model) MoveNode(id NodeID, pos geom.Point) error {
	n, ok := m.nodes[id]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "node %d not found", id)
	}
	n.Position = pos
	return nil
}

// RenameNode changes a node's label.
//
// Returns NOT_FOUND for a missing node and INVALID_LABEL when the label is
// malformed (see errors.ValidateLabel) or used by another node. Renaming a
// node to its current label is a no-op.
func (m *Model) RenameNode(id NodeID, label string) error {
	n, ok := m.nodes[id]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "node %d not found", id)
	}
	if err := errors.ValidateLabel(label); err != nil {
		return err
	}
	if owner, taken := m.labels[label]; taken && owner != id {
		return errors.New(errors.ErrCodeInvalidLabel, "label %q is already used by node %d", label, owner)
	}
	delete(m.labels, n.Label)
	n.Label = label
	m.labels[label] = id
	return nil
}

// SetShape changes a node's outline.
func (m *Model) SetShape(id NodeID, shape Shape) error {
	n, ok := m.nodes[id]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "node %d not found", id)
	}
	n.Shape = shape.Normalize()
	return nil
}

// SetEdgeLabel sets the text drawn at an edge's midpoint. An empty label
// hides it.
func (m *Model) SetEdgeLabel(id EdgeID, label string) error {
	e, ok := m.edges[id]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "edge %d not found", id)
	}
	e.Label = label
	return nil
}

// SetNodeMeta sets one metadata key on a node. A nil value deletes the key.
func (m *Model) SetNodeMeta(id NodeID, key string, value any) error {
	n, ok := m.nodes[id]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "node %d not found", id)
	}
	if value == nil {
		delete(n.Meta, key)
		return nil
	}
	n.Meta[key] = value
	return nil
}

// SetEdgeMeta sets one metadata key on an edge. A nil value deletes the key.
func (m *Model) SetEdgeMeta(id EdgeID, key string, value any) error {
	e, ok := m.edges[id]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "edge %d not found", id)
	}
	if value == nil {
		delete(e.Meta, key)
		return nil
	}
	e.Meta[key] = value
	return nil
}

// Node returns a copy of the node with the given id.
func (m *Model) Node(id NodeID) (Node, bool) {
	n, ok := m.nodes[id]
	if !ok {
		return Node{}, false
	}
	return n.clone(), true
}

// Edge returns a copy of the edge with the given id.
func (m *Model) Edge(id EdgeID) (Edge, bool) {
	e, ok := m.edges[id]
	if !ok {
		return Edge{}, false
	}
	return e.clone(), true
}

// NodeByLabel looks a node up by its label.
func (m *Model) NodeByLabel(label string) (NodeID, bool) {
	id, ok := m.labels[label]
	return id, ok
}

// HasNode reports whether the node exists.
func (m *Model) HasNode(id NodeID) bool {
	_, ok := m.nodes[id]
	return ok
}

// HasEdge reports whether the edge source→target exists.
func (m *Model) HasEdge(source, target NodeID) bool {
	_, ok := m.pairs[pair{source, target}]
	return ok
}

// EdgeBetween returns the id of the edge source→target.
func (m *Model) EdgeBetween(source, target NodeID) (EdgeID, bool) {
	id, ok := m.pairs[pair{source, target}]
	return id, ok
}

// Nodes returns copies of all nodes in insertion order.
func (m *Model) Nodes() []Node {
	out := make([]Node, 0, len(m.nodeOrder))
	for _, id := range m.nodeOrder {
		out = append(out, m.nodes[id].clone())
	}
	return out
}

// Edges returns copies of all edges in insertion order.
func (m *Model) Edges() []Edge {
	out := make([]Edge, 0, len(m.edgeOrder))
	for _, id := range m.edgeOrder {
		out = append(out, m.edges[id].clone())
	}
	return out
}

// Connections returns every edge as a (source, target) pair in edge insertion
// order.
func (m *Model) Connections() []Connection {
	out := make([]Connection, 0, len(m.edgeOrder))
	for _, id := range m.edgeOrder {
		e := m.edges[id]
		out = append(out, Connection{Source: e.Source, Target: e.Target})
	}
	return out
}

// NodeConnections maps every node, including isolated ones, to its incoming
// and outgoing neighbours. Slices are sorted and never nil.
func (m *Model) NodeConnections() map[NodeID]Adjacency {
	out := make(map[NodeID]Adjacency, len(m.nodes))
	for _, id := range m.nodeOrder {
		out[id] = Adjacency{Incoming: m.Predecessors(id), Outgoing: m.Successors(id)}
	}
	return out
}

// Predecessors returns the sorted ids of nodes with an edge into id.
func (m *Model) Predecessors(id NodeID) []NodeID {
	out := make([]NodeID, 0, len(m.incoming[id]))
	for _, e := range m.incoming[id] {
		out = append(out, m.edges[e].Source)
	}
	slices.Sort(out)
	return out
}

// Successors returns the sorted ids of nodes id has an edge to.
func (m *Model) Successors(id NodeID) []NodeID {
	out := make([]NodeID, 0, len(m.outgoing[id]))
	for _, e := range m.outgoing[id] {
		out = append(out, m.edges[e].Target)
	}
	slices.Sort(out)
	return out
}

// IncidentEdges returns the ids of edges touching id, in insertion order.
func (m *Model) IncidentEdges(id NodeID) []EdgeID {
	var out []EdgeID
	for _, e := range m.edgeOrder {
		edge := m.edges[e]
		if edge.Source == id || edge.Target == id {
			out = append(out, e)
		}
	}
	return out
}

// NodeCount returns the number of nodes.
func (m *Model) NodeCount() int { return len(m.nodes) }

// EdgeCount returns the number of edges.
func (m *Model) EdgeCount() int { return len(m.edges) }

// Validate checks the structural invariants listed in the package
// documentation. A model built only through its methods always validates.
func (m *Model) Validate() error {
	seen := make(map[pair]bool, len(m.edges))
	for _, id := range m.edgeOrder {
		e := m.edges[id]
		if _, ok := m.nodes[e.Source]; !ok {
			return errors.New(errors.ErrCodeInvalidEdge, "edge %d references missing source %d", id, e.Source)
		}
		if _, ok := m.nodes[e.Target]; !ok {
			return errors.New(errors.ErrCodeInvalidEdge, "edge %d references missing target %d", id, e.Target)
		}
		if e.Source == e.Target {
			return errors.New(errors.ErrCodeInvalidEdge, "edge %d is a self-loop", id)
		}
		p := pair{e.Source, e.Target}
		if seen[p] {
			return errors.New(errors.ErrCodeInvalidEdge, "duplicate edge %d→%d", e.Source, e.Target)
		}
		seen[p] = true
	}
	labels := make(map[string]bool, len(m.nodes))
	for _, id := range m.nodeOrder {
		l := m.nodes[id].Label
		if labels[l] {
			return errors.New(errors.ErrCodeInvalidLabel, "duplicate label %q", l)
		}
		labels[l] = true
	}
	return nil
}

// Clone returns a deep copy of the model, including its id counters.
func (m *Model) Clone() *Model {
	c := New(WithLabelPrefix(m.prefix))
	c.nextNode, c.nextEdge = m.nextNode, m.nextEdge
	c.nodeOrder = slices.Clone(m.nodeOrder)
	c.edgeOrder = slices.Clone(m.edgeOrder)
	for id, n := range m.nodes {
		cn := n.clone()
		c.nodes[id] = &cn
	}
	for id, e := range m.edges {
		ce := e.clone()
		c.edges[id] = &ce
	}
	maps.Copy(c.pairs, m.pairs)
	maps.Copy(c.labels, m.labels)
	for id, es := range m.outgoing {
		c.outgoing[id] = slices.Clone(es)
	}
	for id, es := range m.incoming {
		c.incoming[id] = slices.Clone(es)
	}
	return c
}

func (n *Node) clone() Node {
	c := *n
	c.Meta = cloneMeta(n.Meta)
	return c
}

func (e *Edge) clone() Edge {
	c := *e
	c.Meta = cloneMeta(e.Meta)
	return c
}

func cloneMeta(m Metadata) Metadata {
	if m == nil {
		return Metadata{}
	}
	return maps.Clone(m)
}
