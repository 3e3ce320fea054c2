package graph

import (
	"bytes"
	"slices"
	"testing"

	"github.com/matzehuels/pathcanvas/pkg/errors"
	"github.com/matzehuels/pathcanvas/pkg/geom"
)

func TestSnapshotRoundTrip(t *testing.T) {
	m := New()
	x := m.AddNode(geom.Pt(10, 20), "x")
	y := m.AddShapedNode(geom.Pt(30, 40), "y", Rectangle)
	z := m.AddShapedNode(geom.Pt(50, 60), "z", Polygon(5))
	e := mustEdge(t, m, x, y)
	mustEdge(t, m, z, y)
	_ = m.SetEdgeLabel(e, "0.42*")
	_ = m.SetNodeMeta(y, "r2", 0.3)
	_ = m.RemoveNode(z)
	m.AddNode(geom.Pt(0, 0), "w")

	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, m.Snapshot()); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	s, err := ReadSnapshot(&buf)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	got, err := FromSnapshot(s)
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}

	if !slices.EqualFunc(got.Nodes(), m.Nodes(), func(a, b Node) bool {
		return a.ID == b.ID && a.Label == b.Label && a.Position == b.Position && a.Shape == b.Shape
	}) {
		t.Errorf("nodes = %+v, want %+v", got.Nodes(), m.Nodes())
	}
	if !slices.Equal(got.Connections(), m.Connections()) {
		t.Errorf("connections = %v, want %v", got.Connections(), m.Connections())
	}
	if edge, _ := got.Edge(e); edge.Label != "0.42*" {
		t.Errorf("edge label = %q", edge.Label)
	}
	if n, _ := got.Node(y); n.Meta["r2"] != 0.3 {
		t.Errorf("meta r2 = %v", n.Meta["r2"])
	}
	if next := got.AddNode(geom.Pt(0, 0), ""); next <= z+1 {
		t.Errorf("restored model reused id %d", next)
	}
}

func TestSnapshotPredictorsAndDependents(t *testing.T) {
	m := New()
	a := m.AddNode(geom.Pt(0, 0), "a")
	b := m.AddNode(geom.Pt(0, 0), "b")
	c := m.AddNode(geom.Pt(0, 0), "c")
	mustEdge(t, m, b, a)
	mustEdge(t, m, c, a)
	mustEdge(t, m, a, c)

	s := m.Snapshot()
	rec, ok := s.NodeByLabel("a")
	if !ok {
		t.Fatal("node a missing from snapshot")
	}
	if !slices.Equal(rec.Predictors, []string{"b", "c"}) {
		t.Errorf("predictors = %v, want [b c]", rec.Predictors)
	}
	if !slices.Equal(rec.Dependents, []string{"c"}) {
		t.Errorf("dependents = %v, want [c]", rec.Dependents)
	}
	if s.Edges[0].SourceLabel != "b" || s.Edges[0].TargetLabel != "a" {
		t.Errorf("edge labels = %q→%q", s.Edges[0].SourceLabel, s.Edges[0].TargetLabel)
	}
}

func TestFromSnapshotRejects(t *testing.T) {
	node := func(id NodeID, label string) NodeRecord { return NodeRecord{ID: id, Label: label} }
	tests := []struct {
		name string
		snap Snapshot
		code errors.Code
	}{
		{"zero id", Snapshot{Nodes: []NodeRecord{node(0, "a")}}, errors.ErrCodeInvalidInput},
		{"duplicate id", Snapshot{Nodes: []NodeRecord{node(1, "a"), node(1, "b")}}, errors.ErrCodeInvalidInput},
		{"duplicate label", Snapshot{Nodes: []NodeRecord{node(1, "a"), node(2, "a")}}, errors.ErrCodeInvalidLabel},
		{"empty label", Snapshot{Nodes: []NodeRecord{node(1, "")}}, errors.ErrCodeInvalidLabel},
		{"dangling edge", Snapshot{
			Nodes: []NodeRecord{node(1, "a")},
			Edges: []EdgeRecord{{ID: 1, Source: 1, Target: 2}},
		}, errors.ErrCodeInvalidEdge},
		{"duplicate edge", Snapshot{
			Nodes: []NodeRecord{node(1, "a"), node(2, "b")},
			Edges: []EdgeRecord{{ID: 1, Source: 1, Target: 2}, {ID: 2, Source: 1, Target: 2}},
		}, errors.ErrCodeInvalidEdge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromSnapshot(tt.snap)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("FromSnapshot code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestReadSnapshotMalformed(t *testing.T) {
	_, err := ReadSnapshot(bytes.NewBufferString("{nodes"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ReadSnapshot error = %v, want INVALID_FORMAT", err)
	}
}
