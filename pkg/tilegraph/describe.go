package tilegraph

import (
	"io"

	"github.com/matzehuels/tilenav/pkg/graph"
)

// Describe returns a payload-free description of the graph for external
// visualization: regions and doors grouped by kind, stitched edges labeled.
func (tg *Graph) Describe() graph.Description {
	return tg.g.Describe(graph.Labeler[*Node, Edge]{
		Node:  func(n *graph.Node[*Node]) string { return n.Data.Label() },
		Group: func(n *graph.Node[*Node]) string { return n.Data.Kind.String() },
		Edge: func(e *graph.Edge[Edge]) string {
			if e.Data.Stitched {
				return "stitch"
			}
			return ""
		},
	})
}

// Write encodes the graph's nodes and edges as JSON to w.
func (tg *Graph) Write(w io.Writer) error { return graph.Write(tg.g, w) }

// Marshal encodes the graph's nodes and edges as JSON.
func (tg *Graph) Marshal() ([]byte, error) { return graph.Marshal(tg.g) }
