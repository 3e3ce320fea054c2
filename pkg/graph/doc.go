// Package graph provides the authoritative node and edge store behind a
// pathcanvas.
//
// # Overview
//
// A [Model] holds nodes placed at logical positions and directed edges
// between them. It knows nothing about rendering, pointer input or the view
// transform; the interaction controller in pkg/canvas is its only mutator in
// an interactive session.
//
// # Identity
//
// Node and edge ids are allocated from per-model counters that only grow.
// An id is never reused for the life of a model, so a host may keep ids
// around after deletions without risking them silently pointing at a
// different node.
//
// # Invariants
//
// Every mutation is atomic: a call that returns an error leaves the model
// untouched. After any sequence of calls:
//
//   - every edge's Source and Target refer to existing nodes
//   - no edge connects a node to itself
//   - at most one edge exists per ordered (Source, Target) pair
//   - labels are unique
//
// [Model.RemoveNode] removes the node's incident edges in the same call.
// [Model.Validate] checks all of the above and is used by tests and by
// [FromSnapshot].
//
// # Labels
//
// [Model.AddNode] never fails. An empty label is replaced by the first free
// "node_N" (the prefix is configurable with [WithLabelPrefix]); an explicit
// label that is already taken gets a "_2", "_3", ... suffix.
// [Model.RenameNode] is strict and rejects duplicates instead.
//
// # Queries
//
// [Model.Nodes] and [Model.Edges] return copies in insertion order.
// [Model.Connections] lists (source, target) pairs in edge insertion order and
// [Model.NodeConnections] maps every node to its sorted incoming and outgoing
// neighbours.
//
// # Serialization
//
// [Snapshot] is the canonical JSON form of a model. Besides nodes and edges
// it lists, per node, the labels of its predictors and dependents so that a
// host building a path model can consume it without resolving ids.
//
//	snap := m.Snapshot()
//	restored, err := graph.FromSnapshot(snap)
//
// A Model is not safe for concurrent use.
package graph
