package graph

import (
	"fmt"
	"io"
	"strings"
)

// Description is a payload-free view of a graph for external tooling:
// labeled nodes and labeled edges. See pkg/render/nodelink for DOT output.
type Description struct {
	Nodes []DescribedNode `json:"nodes"`
	Edges []DescribedEdge `json:"edges"`
}

// DescribedNode is one node of a [Description].
type DescribedNode struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Group   string `json:"group,omitempty"` // node variant, e.g. "door"
	Stratum int    `json:"stratum"`         // -1 when on a cycle
}

// DescribedEdge is one edge of a [Description].
type DescribedEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

// Labeler turns payloads into display strings. Nil funcs fall back to the
// node id, no group and no edge label.
type Labeler[N, E any] struct {
	Node  func(n *Node[N]) string
	Group func(n *Node[N]) string
	Edge  func(e *Edge[E]) string
}

// Describe builds a [Description] of g. Strata come from [Graph.Stratify]
// without its cycle warning: tile and room graphs link both ways, so
// every node of a connected graph reports stratum -1.
func (g *Graph[N, E]) Describe(l Labeler[N, E]) Description {
	stratum := make(map[string]int, len(g.nodes))
	layers, _ := g.stratify()
	for i, layer := range layers {
		for _, n := range layer {
			stratum[n.ID] = i
		}
	}

	d := Description{
		Nodes: make([]DescribedNode, len(g.nodes)),
		Edges: make([]DescribedEdge, len(g.edges)),
	}
	for i, n := range g.nodes {
		dn := DescribedNode{ID: n.ID, Label: n.ID, Stratum: -1}
		if s, ok := stratum[n.ID]; ok {
			dn.Stratum = s
		}
		if l.Node != nil {
			dn.Label = l.Node(n)
		}
		if l.Group != nil {
			dn.Group = l.Group(n)
		}
		d.Nodes[i] = dn
	}
	for i, e := range g.edges {
		de := DescribedEdge{From: e.Src, To: e.Dst}
		if l.Edge != nil {
			de.Label = l.Edge(e)
		}
		d.Edges[i] = de
	}
	return d
}

// WriteText writes one line per node and per edge:
//
//	node region-301-[1,0,0,1,0,0]-0 "301 nav 0"
//	edge region-301-[1,0,0,1,0,0]-0 -> door-301-[1,0,0,1,0,0]-0 "d3"
func (d Description) WriteText(w io.Writer) error {
	var b strings.Builder
	for _, n := range d.Nodes {
		fmt.Fprintf(&b, "node %s %q\n", n.ID, n.Label)
	}
	for _, e := range d.Edges {
		if e.Label == "" {
			fmt.Fprintf(&b, "edge %s -> %s\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&b, "edge %s -> %s %q\n", e.From, e.To, e.Label)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
