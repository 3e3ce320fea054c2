package graph_test

import (
	"fmt"

	"github.com/matzehuels/pathcanvas/pkg/geom"
	"github.com/matzehuels/pathcanvas/pkg/graph"
)

func ExampleModel_basic() {
	// A small path model: two predictors of one outcome
	m := graph.New()
	x1 := m.AddNode(geom.Pt(0, 0), "x1")
	x2 := m.AddNode(geom.Pt(0, 100), "x2")
	y := m.AddShapedNode(geom.Pt(200, 50), "y", graph.Rectangle)
	_, _ = m.AddEdge(x1, y)
	_, _ = m.AddEdge(x2, y)

	fmt.Println("Nodes:", m.NodeCount())
	fmt.Println("Edges:", m.EdgeCount())
	fmt.Println("Connections:", m.Connections())
	fmt.Println("Incoming of y:", m.NodeConnections()[y].Incoming)
	// Output:
	// Nodes: 3
	// Edges: 2
	// Connections: [{1 3} {2 3}]
	// Incoming of y: [1 2]
}

func ExampleModel_AddNode() {
	// Labels are generated when omitted and disambiguated when taken
	m := graph.New()
	a := m.AddNode(geom.Pt(0, 0), "")
	b := m.AddNode(geom.Pt(0, 0), "")
	c := m.AddNode(geom.Pt(0, 0), "node_1")

	for _, id := range []graph.NodeID{a, b, c} {
		n, _ := m.Node(id)
		fmt.Println(n.Label)
	}
	// Output:
	// node_1
	// node_2
	// node_1_2
}

func ExampleModel_RemoveNode() {
	// Removing a node removes its incident edges
	m := graph.New()
	a := m.AddNode(geom.Pt(0, 0), "a")
	b := m.AddNode(geom.Pt(0, 0), "b")
	c := m.AddNode(geom.Pt(0, 0), "c")
	_, _ = m.AddEdge(a, b)
	_, _ = m.AddEdge(b, c)
	_, _ = m.AddEdge(a, c)

	_ = m.RemoveNode(b)
	fmt.Println("Edges left:", m.Connections())
	// Output:
	// Edges left: [{1 3}]
}
