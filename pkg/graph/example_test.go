package graph_test

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tilenav/pkg/graph"
)

func ExampleGraph_Connect() {
	g := graph.New[string, string](nil)
	_, _ = g.AddNode("hall", "")
	_, _ = g.AddNode("vault", "")

	e1, _ := g.Connect("hall", "vault", "door 3")
	e2, _ := g.Connect("hall", "vault", "ignored")

	fmt.Println("Same edge:", e1 == e2)
	fmt.Println("Payload:", e2.Data)
	fmt.Println("Edges:", g.EdgeCount())
	// Output:
	// Same edge: true
	// Payload: door 3
	// Edges: 1
}

func ExampleGraph_Stratify() {
	g := graph.New[struct{}, struct{}](log.New(io.Discard))
	for _, id := range []string{"app", "lib", "core"} {
		_, _ = g.AddNode(id, struct{}{})
	}
	_, _ = g.Connect("app", "lib", struct{}{})
	_, _ = g.Connect("lib", "core", struct{}{})

	layers, unresolved := g.Stratify()
	for i, layer := range layers {
		fmt.Println(i, graph.IDs(layer))
	}
	fmt.Println("Unresolved:", unresolved)
	// Output:
	// 0 [core]
	// 1 [lib]
	// 2 [app]
	// Unresolved: 0
}

func ExampleGraph_Search() {
	g := graph.New[float64, struct{}](nil)
	for _, id := range []string{"a", "b", "c"} {
		_, _ = g.AddNode(id, 0)
	}
	_, _ = g.Connect("a", "b", struct{}{})
	_, _ = g.Connect("b", "c", struct{}{})

	path, cost, ok := g.Search(0, 2, func(from, to int) float64 { return 1 }, nil)
	fmt.Println(path, cost, ok)
	// Output:
	// [0 1 2] 2 true
}
