package graph

import (
	"container/heap"
	"math"
	"slices"
)

// StepCost returns the cost of moving from the node at index from to its
// successor at index to. It must be non-negative.
type StepCost func(from, to int) float64

// Heuristic estimates the remaining cost from the node at index i to the
// search target. It must never overestimate for the result to be optimal.
type Heuristic func(i int) float64

// Search runs A* from index src to index dst over the neighbor lists of
// [Graph.Neighbors]. It returns the node indices along the cheapest path,
// its total cost, and whether dst was reached. A nil heuristic degrades to
// Dijkstra.
//
// All per-search bookkeeping lives in a scratch arena indexed by node
// index; nodes themselves are never written, so repeated searches over the
// same graph do not interfere.
func (g *Graph[N, E]) Search(src, dst int, step StepCost, h Heuristic) ([]int, float64, bool) {
	n := len(g.nodes)
	if src < 0 || src >= n || dst < 0 || dst >= n {
		return nil, 0, false
	}
	if g.stale || g.neighbors == nil {
		g.BuildNeighbors()
	}
	if h == nil {
		h = func(int) float64 { return 0 }
	}

	s := newScratch(n)
	s.cost[src] = 0
	heap.Push(&s.open, openItem{node: src, g: 0, f: h(src)})

	for s.open.Len() > 0 {
		curr := heap.Pop(&s.open).(openItem)
		if s.closed[curr.node] || curr.g > s.cost[curr.node] {
			continue
		}
		if curr.node == dst {
			return s.trace(dst), s.cost[dst], true
		}
		s.closed[curr.node] = true

		for _, next := range g.neighbors[curr.node] {
			if s.closed[next] {
				continue
			}
			tentative := s.cost[curr.node] + step(curr.node, next)
			if tentative < s.cost[next] {
				s.cost[next] = tentative
				s.parent[next] = curr.node
				heap.Push(&s.open, openItem{node: next, g: tentative, f: tentative + h(next)})
			}
		}
	}
	return nil, 0, false
}

type scratch struct {
	cost   []float64
	parent []int
	closed []bool
	open   openSet
}

func newScratch(n int) *scratch {
	s := &scratch{
		cost:   make([]float64, n),
		parent: make([]int, n),
		closed: make([]bool, n),
	}
	for i := range s.cost {
		s.cost[i] = math.Inf(1)
		s.parent[i] = -1
	}
	return s
}

func (s *scratch) trace(dst int) []int {
	var path []int
	for i := dst; i != -1; i = s.parent[i] {
		path = append(path, i)
	}
	slices.Reverse(path)
	return path
}

type openItem struct {
	node int
	g, f float64
}

// openSet is a min-heap on f. Stale duplicates are skipped on pop rather
// than decreased in place.
type openSet []openItem

func (o openSet) Len() int { return len(o) }
func (o openSet) Less(i, j int) bool {
	if o[i].f == o[j].f {
		return o[i].g > o[j].g
	}
	return o[i].f < o[j].f
}
func (o openSet) Swap(i, j int) { o[i], o[j] = o[j], o[i] }
func (o *openSet) Push(x any)   { *o = append(*o, x.(openItem)) }
func (o *openSet) Pop() any {
	old := *o
	item := old[len(old)-1]
	*o = old[:len(old)-1]
	return item
}
