package graph

// ReachableNodes returns every node reachable from the given ids by
// following edges forward, including the start nodes themselves, in
// breadth-first order. Unknown ids are ignored.
func (g *Graph[N, E]) ReachableNodes(ids ...string) []*Node[N] {
	return g.closure(ids, func(id string) []string { return dsts(g.outgoing[id]) })
}

// CoReachableNodes returns every node that can reach one of the given ids,
// including the ids themselves, in breadth-first order over reversed edges.
func (g *Graph[N, E]) CoReachableNodes(ids ...string) []*Node[N] {
	return g.closure(ids, func(id string) []string { return srcs(g.incoming[id]) })
}

func (g *Graph[N, E]) closure(ids []string, next func(string) []string) []*Node[N] {
	seen := make(map[string]bool, len(ids))
	var queue []*Node[N]
	for _, id := range ids {
		if n, ok := g.byID[id]; ok && !seen[id] {
			seen[id] = true
			queue = append(queue, n)
		}
	}
	for i := 0; i < len(queue); i++ {
		for _, id := range next(queue[i].ID) {
			if !seen[id] {
				seen[id] = true
				queue = append(queue, g.byID[id])
			}
		}
	}
	return queue
}

// ReachableUpto runs a breadth-first search from id. A visited node n at
// distance depth is included in the result, but its successors are not
// explored once stop(n, depth) holds. A nil stop explores everything.
func (g *Graph[N, E]) ReachableUpto(id string, stop func(n *Node[N], depth int) bool) []*Node[N] {
	start, ok := g.byID[id]
	if !ok {
		g.logger.Warn("reachable: unknown node", "id", id)
		return nil
	}
	type item struct {
		node  *Node[N]
		depth int
	}
	seen := map[string]bool{id: true}
	queue := []item{{start, 0}}
	out := []*Node[N]{start}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		if stop != nil && stop(curr.node, curr.depth) {
			continue
		}
		for _, e := range g.outgoing[curr.node.ID] {
			if seen[e.Dst] {
				continue
			}
			seen[e.Dst] = true
			n := g.byID[e.Dst]
			out = append(out, n)
			queue = append(queue, item{n, curr.depth + 1})
		}
	}
	return out
}

// Stratify peels the graph into layers from the leaves upward: layer 0
// holds the sinks, layer k the nodes whose successors all lie in layers
// below k. Nodes on a cycle, or upstream of one, can never be peeled; they
// are left out of the layers and their count is returned as unresolved.
//
// Stratify uses Kahn's algorithm on out-degrees, so it runs in O(V + E).
func (g *Graph[N, E]) Stratify() (layers [][]*Node[N], unresolved int) {
	layers, unresolved = g.stratify()
	if unresolved > 0 {
		g.logger.Warn("stratify: nodes left on cycles", "unresolved", unresolved)
	}
	return layers, unresolved
}

func (g *Graph[N, E]) stratify() (layers [][]*Node[N], unresolved int) {
	outDegree := make(map[string]int, len(g.nodes))
	var layer []*Node[N]
	for _, n := range g.nodes {
		d := len(g.outgoing[n.ID])
		outDegree[n.ID] = d
		if d == 0 {
			layer = append(layer, n)
		}
	}

	peeled := 0
	for len(layer) > 0 {
		layers = append(layers, layer)
		peeled += len(layer)
		var next []*Node[N]
		for _, n := range layer {
			for _, e := range g.incoming[n.ID] {
				outDegree[e.Src]--
				if outDegree[e.Src] == 0 {
					next = append(next, g.byID[e.Src])
				}
			}
		}
		layer = next
	}

	return layers, len(g.nodes) - peeled
}

func dsts[E any](edges []*Edge[E]) []string {
	out := make([]string, len(edges))
	for i, e := range edges {
		out[i] = e.Dst
	}
	return out
}

func srcs[E any](edges []*Edge[E]) []string {
	out := make([]string, len(edges))
	for i, e := range edges {
		out[i] = e.Src
	}
	return out
}
