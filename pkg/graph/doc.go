// Package graph provides a generic directed graph used as the foundation of
// the tile graph and the room graph.
//
// # Overview
//
// [Graph] is parameterized by a node payload type N and an edge payload
// type E. Nodes have a stable string identity and a dense integer index;
// edges are directed and unique per ordered (src, dst) pair. Outgoing and
// incoming adjacency are both indexed, so forward and backward traversals
// cost the same.
//
//	g := graph.New[string, int](nil)
//	g.AddNode("a", "first")
//	g.AddNode("b", "second")
//	g.Connect("a", "b", 7)
//
// # Failure Semantics
//
// Topology misuse (connecting or removing unregistered ids) is logged at
// warn level and reported through the return value, never by panicking.
// Builders that mutate the graph mid-construction check the returned error
// or boolean and decide whether the problem is fatal.
//
// # Traversal
//
// [Graph.ReachableNodes] and [Graph.CoReachableNodes] compute forward and
// backward closures. [Graph.ReachableUpto] bounds a search with a stop
// predicate. [Graph.Stratify] peels the graph into layers from the sinks
// upward and reports how many nodes were stuck on cycles; it backs the
// strata in [Graph.Describe] and is meant for debug visualization.
//
// # Search
//
// [Graph.Search] is A* over the dense neighbor-index lists returned by
// [Graph.Neighbors]. Costs and heuristics are callbacks over node indices,
// and all bookkeeping lives in a per-search scratch arena, so callers can
// anchor a search at arbitrary points by passing position-aware callbacks
// instead of overwriting node fields.
//
// # Serialization
//
// [Marshal], [Write], [Read] and [Unmarshal] round-trip a graph through
// JSON. Nodes serialize as {id, data}; edges as {src, dst, data}. Import
// registers every node before connecting any edge.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. Neighbor lists are
// rebuilt lazily after mutation, so even read-only searches write to the
// graph on the first call after a change; call [Graph.BuildNeighbors] after
// construction if searches may run from several goroutines.
package graph
