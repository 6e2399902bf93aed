package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// =============================================================================
// Wire Types
// =============================================================================

// Serialized is the JSON node-link form of a graph:
//
//	{
//	  "nodes": [{"id": "a", "data": {...}}, {"id": "b", "data": {...}}],
//	  "edges": [{"src": "a", "dst": "b", "data": {...}}]
//	}
//
// Nodes are listed in registration order and edges in insertion order, so
// import → export reproduces the same document.
type Serialized[N, E any] struct {
	Nodes []SerializedNode[N] `json:"nodes"`
	Edges []SerializedEdge[E] `json:"edges"`
}

// SerializedNode is a node as-is: its id and payload.
type SerializedNode[N any] struct {
	ID   string `json:"id"`
	Data N      `json:"data"`
}

// SerializedEdge is an edge as its endpoint ids plus payload.
type SerializedEdge[E any] struct {
	Src  string `json:"src"`
	Dst  string `json:"dst"`
	Data E      `json:"data"`
}

// =============================================================================
// Conversion
// =============================================================================

// Export converts the graph to its serialized form. Payloads are copied by
// value; pointer fields inside payloads stay shared.
func (g *Graph[N, E]) Export() Serialized[N, E] {
	out := Serialized[N, E]{
		Nodes: make([]SerializedNode[N], len(g.nodes)),
		Edges: make([]SerializedEdge[E], len(g.edges)),
	}
	for i, n := range g.nodes {
		out.Nodes[i] = SerializedNode[N]{ID: n.ID, Data: n.Data}
	}
	for i, e := range g.edges {
		out.Edges[i] = SerializedEdge[E]{Src: e.Src, Dst: e.Dst, Data: e.Data}
	}
	return out
}

// Import builds a graph from its serialized form. Every node is registered
// before any edge is connected, so edge order does not matter. Errors name
// the offending node or edge.
func Import[N, E any](s Serialized[N, E], logger *log.Logger) (*Graph[N, E], error) {
	g := New[N, E](logger)
	for _, n := range s.Nodes {
		if _, err := g.AddNode(n.ID, n.Data); err != nil {
			return nil, fmt.Errorf("add node %s: %w", n.ID, err)
		}
	}
	for _, e := range s.Edges {
		if _, err := g.Connect(e.Src, e.Dst, e.Data); err != nil {
			return nil, fmt.Errorf("add edge %s→%s: %w", e.Src, e.Dst, err)
		}
	}
	return g, nil
}

// =============================================================================
// JSON API
// =============================================================================

// Marshal converts a graph to indented JSON bytes.
func Marshal[N, E any](g *Graph[N, E]) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes a graph as indented JSON to w.
func Write[N, E any](g *Graph[N, E], w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g.Export()); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a JSON graph from r.
func Read[N, E any](r io.Reader, logger *log.Logger) (*Graph[N, E], error) {
	var data Serialized[N, E]
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return Import(data, logger)
}

// Unmarshal decodes JSON bytes into a graph.
func Unmarshal[N, E any](data []byte, logger *log.Logger) (*Graph[N, E], error) {
	return Read[N, E](bytes.NewReader(data), logger)
}
