package graph

import (
	"encoding/json"
	"io"
	"slices"

	"github.com/matzehuels/pathcanvas/pkg/errors"
	"github.com/matzehuels/pathcanvas/pkg/geom"
)

// Snapshot is the canonical serialization of a model.
//
// The format is designed for round-trip fidelity: FromSnapshot(m.Snapshot())
// reproduces ids, labels, positions, shapes, edge labels and metadata. The
// Predictors and Dependents lists are derived data for hosts and are ignored
// when loading.
type Snapshot struct {
	Nodes []NodeRecord `json:"nodes"`
	Edges []EdgeRecord `json:"edges"`
}

// NodeRecord is the serialized form of a node.
type NodeRecord struct {
	ID         NodeID     `json:"id"`
	Label      string     `json:"label"`
	Position   geom.Point `json:"position"`
	Shape      Shape      `json:"shape"`
	Predictors []string   `json:"predictors"`
	Dependents []string   `json:"dependents"`
	Meta       Metadata   `json:"meta,omitempty"`
}

// EdgeRecord is the serialized form of an edge. Source and target labels are
// included for readability.
type EdgeRecord struct {
	ID          EdgeID   `json:"id"`
	Source      NodeID   `json:"source"`
	Target      NodeID   `json:"target"`
	SourceLabel string   `json:"source_label,omitempty"`
	TargetLabel string   `json:"target_label,omitempty"`
	Label       string   `json:"label,omitempty"`
	Meta        Metadata `json:"meta,omitempty"`
}

// Snapshot returns the serialized form of m. Nodes and edges appear in
// insertion order; predictor and dependent labels are sorted.
func (m *Model) Snapshot() Snapshot {
	s := Snapshot{
		Nodes: make([]NodeRecord, 0, len(m.nodeOrder)),
		Edges: make([]EdgeRecord, 0, len(m.edgeOrder)),
	}
	labelsOf := func(ids []NodeID) []string {
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			out = append(out, m.nodes[id].Label)
		}
		slices.Sort(out)
		return out
	}
	for _, id := range m.nodeOrder {
		n := m.nodes[id]
		s.Nodes = append(s.Nodes, NodeRecord{
			ID:         n.ID,
			Label:      n.Label,
			Position:   n.Position,
			Shape:      n.Shape,
			Predictors: labelsOf(m.Predecessors(id)),
			Dependents: labelsOf(m.Successors(id)),
			Meta:       metaOrNil(n.Meta),
		})
	}
	for _, id := range m.edgeOrder {
		e := m.edges[id]
		s.Edges = append(s.Edges, EdgeRecord{
			ID:          e.ID,
			Source:      e.Source,
			Target:      e.Target,
			SourceLabel: m.nodes[e.Source].Label,
			TargetLabel: m.nodes[e.Target].Label,
			Label:       e.Label,
			Meta:        metaOrNil(e.Meta),
		})
	}
	return s
}

// FromSnapshot rebuilds a model from its serialized form.
//
// Ids are preserved and the id counters continue after the largest id seen.
// Returns an INVALID_INPUT error for non-positive or duplicate ids, an
// INVALID_LABEL error for malformed or duplicate labels, and an INVALID_EDGE
// error for edges that break the model's invariants.
func FromSnapshot(s Snapshot, opts ...Option) (*Model, error) {
	m := New(opts...)
	for _, r := range s.Nodes {
		if r.ID <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "node id %d must be positive", r.ID)
		}
		if _, dup := m.nodes[r.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate node id %d", r.ID)
		}
		if err := errors.ValidateLabel(r.Label); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLabel, err, "node %d", r.ID)
		}
		if _, dup := m.labels[r.Label]; dup {
			return nil, errors.New(errors.ErrCodeInvalidLabel, "duplicate label %q", r.Label)
		}
		n := &Node{
			ID:       r.ID,
			Position: r.Position,
			Label:    r.Label,
			Shape:    r.Shape.Normalize(),
			Meta:     cloneMeta(r.Meta),
		}
		m.nodes[n.ID] = n
		m.nodeOrder = append(m.nodeOrder, n.ID)
		m.labels[n.Label] = n.ID
		m.nextNode = max(m.nextNode, n.ID)
	}
	for _, r := range s.Edges {
		if r.ID <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "edge id %d must be positive", r.ID)
		}
		if _, dup := m.edges[r.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate edge id %d", r.ID)
		}
		if err := m.CheckEdge(r.Source, r.Target); err != nil {
			return nil, err
		}
		e := &Edge{ID: r.ID, Source: r.Source, Target: r.Target, Label: r.Label, Meta: cloneMeta(r.Meta)}
		m.edges[e.ID] = e
		m.edgeOrder = append(m.edgeOrder, e.ID)
		m.pairs[pair{e.Source, e.Target}] = e.ID
		m.outgoing[e.Source] = append(m.outgoing[e.Source], e.ID)
		m.incoming[e.Target] = append(m.incoming[e.Target], e.ID)
		m.nextEdge = max(m.nextEdge, e.ID)
	}
	return m, nil
}

// ReadSnapshot decodes a JSON snapshot.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph")
	}
	return s, nil
}

// WriteSnapshot encodes s as indented JSON.
func WriteSnapshot(w io.Writer, s Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// NodeByLabel returns the record for the node with the given label.
func (s Snapshot) NodeByLabel(label string) (NodeRecord, bool) {
	for _, n := range s.Nodes {
		if n.Label == label {
			return n, true
		}
	}
	return NodeRecord{}, false
}

func metaOrNil(m Metadata) Metadata {
	if len(m) == 0 {
		return nil
	}
	return cloneMeta(m)
}
