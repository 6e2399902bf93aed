package graph

import (
	"errors"
	"slices"

	"github.com/charmbracelet/log"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID is already registered.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.Connect] when the source
	// node is not registered.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.Connect] when the target
	// node is not registered.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Node is a vertex with a stable string identity and a payload.
//
// Index is the node's position in registration order. It is the key into
// neighbor lists and search scratch arrays, and is re-packed when a node
// is removed.
type Node[N any] struct {
	ID    string
	Index int
	Data  N
}

// Edge is a directed connection carrying a payload.
type Edge[E any] struct {
	Src  string
	Dst  string
	Data E
}

type edgeKey struct{ src, dst string }

// Graph is a directed graph parameterized by node and edge payload types.
// At most one edge exists per ordered (src, dst) pair.
//
// The zero value is not usable - use [New] to create a Graph.
// Graph is not safe for concurrent use without external synchronization.
type Graph[N, E any] struct {
	nodes    []*Node[N]
	byID     map[string]*Node[N]
	edges    []*Edge[E]
	byKey    map[edgeKey]*Edge[E]
	outgoing map[string][]*Edge[E] // nodeID -> edges leaving it
	incoming map[string][]*Edge[E] // nodeID -> edges entering it

	neighbors [][]int
	stale     bool

	logger *log.Logger
}

// New creates an empty graph. Topology misuse (unknown ids, missing edges)
// is reported on logger; a nil logger uses log.Default().
func New[N, E any](logger *log.Logger) *Graph[N, E] {
	if logger == nil {
		logger = log.Default()
	}
	return &Graph[N, E]{
		byID:     make(map[string]*Node[N]),
		byKey:    make(map[edgeKey]*Edge[E]),
		outgoing: make(map[string][]*Edge[E]),
		incoming: make(map[string][]*Edge[E]),
		logger:   logger,
	}
}

// Logger returns the logger misuse is reported on.
func (g *Graph[N, E]) Logger() *log.Logger { return g.logger }

// AddNode registers a node. Returns ErrInvalidNodeID for an empty id and
// ErrDuplicateNodeID if the id is taken.
func (g *Graph[N, E]) AddNode(id string, data N) (*Node[N], error) {
	if id == "" {
		return nil, ErrInvalidNodeID
	}
	if _, exists := g.byID[id]; exists {
		return nil, ErrDuplicateNodeID
	}
	n := &Node[N]{ID: id, Index: len(g.nodes), Data: data}
	g.nodes = append(g.nodes, n)
	g.byID[id] = n
	g.stale = true
	return n, nil
}

// Connect adds the edge src→dst, or returns the existing one unchanged.
// If either endpoint is unregistered the failure is logged and a nil edge
// is returned with ErrUnknownSourceNode or ErrUnknownTargetNode.
func (g *Graph[N, E]) Connect(src, dst string, data E) (*Edge[E], error) {
	if _, ok := g.byID[src]; !ok {
		g.logger.Warn("connect: unknown source node", "src", src, "dst", dst)
		return nil, ErrUnknownSourceNode
	}
	if _, ok := g.byID[dst]; !ok {
		g.logger.Warn("connect: unknown target node", "src", src, "dst", dst)
		return nil, ErrUnknownTargetNode
	}
	if e, ok := g.byKey[edgeKey{src, dst}]; ok {
		return e, nil
	}
	e := &Edge[E]{Src: src, Dst: dst, Data: data}
	g.edges = append(g.edges, e)
	g.byKey[edgeKey{src, dst}] = e
	g.outgoing[src] = append(g.outgoing[src], e)
	g.incoming[dst] = append(g.incoming[dst], e)
	g.stale = true
	return e, nil
}

// Disconnect removes the edge src→dst. It reports false, with a log line,
// if no such edge exists.
func (g *Graph[N, E]) Disconnect(src, dst string) bool {
	e, ok := g.byKey[edgeKey{src, dst}]
	if !ok {
		g.logger.Warn("disconnect: no such edge", "src", src, "dst", dst)
		return false
	}
	g.dropEdge(e)
	return true
}

func (g *Graph[N, E]) dropEdge(e *Edge[E]) {
	isE := func(x *Edge[E]) bool { return x == e }
	delete(g.byKey, edgeKey{e.Src, e.Dst})
	g.edges = slices.DeleteFunc(g.edges, isE)
	g.outgoing[e.Src] = slices.DeleteFunc(g.outgoing[e.Src], isE)
	g.incoming[e.Dst] = slices.DeleteFunc(g.incoming[e.Dst], isE)
	g.stale = true
}

// RemoveNode removes n and every edge incident to it.
// It reports false if n is not registered in this graph.
func (g *Graph[N, E]) RemoveNode(n *Node[N]) bool {
	if n == nil || g.byID[n.ID] != n {
		g.logger.Warn("remove: node not in graph")
		return false
	}
	return g.RemoveNodeByID(n.ID)
}

// RemoveNodeByID removes the node with the given id and every incident edge.
// It reports false, with a log line, if the id is unregistered.
func (g *Graph[N, E]) RemoveNodeByID(id string) bool {
	n, ok := g.byID[id]
	if !ok {
		g.logger.Warn("remove: unknown node", "id", id)
		return false
	}
	for _, e := range slices.Clone(g.outgoing[id]) {
		g.dropEdge(e)
	}
	for _, e := range slices.Clone(g.incoming[id]) {
		g.dropEdge(e)
	}
	delete(g.outgoing, id)
	delete(g.incoming, id)
	delete(g.byID, id)

	g.nodes = slices.Delete(g.nodes, n.Index, n.Index+1)
	for i := n.Index; i < len(g.nodes); i++ {
		g.nodes[i].Index = i
	}
	g.stale = true
	return true
}

// Clear removes every node, edge and derived index.
func (g *Graph[N, E]) Clear() {
	g.nodes = nil
	g.edges = nil
	g.neighbors = nil
	clear(g.byID)
	clear(g.byKey)
	clear(g.outgoing)
	clear(g.incoming)
	g.stale = false
}

// Node returns the node with the given id.
func (g *Graph[N, E]) Node(id string) (*Node[N], bool) {
	n, ok := g.byID[id]
	return n, ok
}

// NodeAt returns the node at index i, or nil if i is out of range.
func (g *Graph[N, E]) NodeAt(i int) *Node[N] {
	if i < 0 || i >= len(g.nodes) {
		return nil
	}
	return g.nodes[i]
}

// Nodes returns all nodes in registration order. The slice is a copy but
// the node pointers are shared with the graph.
func (g *Graph[N, E]) Nodes() []*Node[N] { return slices.Clone(g.nodes) }

// Edges returns all edges in insertion order. The slice is a copy but the
// edge pointers are shared with the graph.
func (g *Graph[N, E]) Edges() []*Edge[E] { return slices.Clone(g.edges) }

// Edge returns the edge src→dst.
func (g *Graph[N, E]) Edge(src, dst string) (*Edge[E], bool) {
	e, ok := g.byKey[edgeKey{src, dst}]
	return e, ok
}

// HasEdge reports whether src→dst exists.
func (g *Graph[N, E]) HasEdge(src, dst string) bool {
	_, ok := g.byKey[edgeKey{src, dst}]
	return ok
}

// NodeCount returns the number of nodes.
func (g *Graph[N, E]) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph[N, E]) EdgeCount() int { return len(g.edges) }

// Successors returns the edges leaving id. The returned slice should not be modified.
func (g *Graph[N, E]) Successors(id string) []*Edge[E] { return g.outgoing[id] }

// Predecessors returns the edges entering id. The returned slice should not be modified.
func (g *Graph[N, E]) Predecessors(id string) []*Edge[E] { return g.incoming[id] }

// OutDegree returns the number of edges leaving id.
func (g *Graph[N, E]) OutDegree(id string) int { return len(g.outgoing[id]) }

// InDegree returns the number of edges entering id.
func (g *Graph[N, E]) InDegree(id string) int { return len(g.incoming[id]) }

// Neighbors returns the indices of the successors of the node at index i.
// The lists are rebuilt from the current edge set after any mutation, so
// they only ever reference registered edges.
func (g *Graph[N, E]) Neighbors(i int) []int {
	if g.stale || g.neighbors == nil {
		g.BuildNeighbors()
	}
	if i < 0 || i >= len(g.neighbors) {
		return nil
	}
	return g.neighbors[i]
}

// BuildNeighbors populates the neighbor-index lists from the current edge
// set. [Graph.Neighbors] calls it on demand; builders call it once after
// construction so queries never pay for it.
func (g *Graph[N, E]) BuildNeighbors() {
	g.neighbors = make([][]int, len(g.nodes))
	for i, n := range g.nodes {
		out := g.outgoing[n.ID]
		idx := make([]int, 0, len(out))
		for _, e := range out {
			idx = append(idx, g.byID[e.Dst].Index)
		}
		g.neighbors[i] = idx
	}
	g.stale = false
}

// IDs extracts the ID from each node.
func IDs[N any](nodes []*Node[N]) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
