// Package roomgraph derives a room-level graph from a tile graph: one node
// per room of every placed tile, one edge per direct adjacency.
//
// Same-tile edges come from each tile's precomputed room adjacency. Edges
// through hull doors resolve the far room with the tile graph's adjacency
// context. Each edge lists the doors and windows that justify it; double
// doors give one edge citing two doors.
//
// The graph is geometric. Door state never changes it, so
// [Graph.SameOrAdjacent] is a cheap perception primitive that ignores
// whether a door is open.
package roomgraph

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tilenav/pkg/errors"
	"github.com/matzehuels/tilenav/pkg/graph"
	"github.com/matzehuels/tilenav/pkg/observability"
	"github.com/matzehuels/tilenav/pkg/tile"
	"github.com/matzehuels/tilenav/pkg/tilegraph"
)

// Node is the payload of a room node.
type Node struct {
	Ref tilegraph.RoomRef `json:"ref"`
	Key int               `json:"key"` // tile record key
}

// Edge is the payload of a room edge: the openings joining the rooms.
// Windows reuse DoorKey with Door holding the window id.
type Edge struct {
	Doors   []tilegraph.DoorKey `json:"doors,omitempty"`
	Windows []tilegraph.DoorKey `json:"windows,omitempty"`
}

// Options configures [Build].
type Options struct {
	Logger *log.Logger
}

// Graph is the room graph of one map activation.
type Graph struct {
	g      *graph.Graph[Node, *Edge]
	logger *log.Logger
}

// RoomID is the node id of a room: room-{tile}-{room}.
func RoomID(r tilegraph.RoomRef) string { return fmt.Sprintf("room-%d-%d", r.Tile, r.Room) }

// Build derives the room graph from tg.
func Build(ctx context.Context, tg *tilegraph.Graph, opts Options) (*Graph, error) {
	if opts.Logger == nil {
		opts.Logger = tg.Logger()
	}
	hooks := observability.Graph()
	hooks.OnBuildStart(ctx, "room", len(tg.Instances()))
	start := time.Now()

	rg, err := build(ctx, tg, opts.Logger)

	var nodes, edges int
	if rg != nil {
		nodes, edges = rg.g.NodeCount(), rg.g.EdgeCount()
	}
	hooks.OnBuildComplete(ctx, "room", nodes, edges, time.Since(start), err)
	return rg, err
}

func build(ctx context.Context, tg *tilegraph.Graph, logger *log.Logger) (*Graph, error) {
	rg := &Graph{g: graph.New[Node, *Edge](logger), logger: logger}

	for _, in := range tg.Instances() {
		for _, r := range in.Tile.Rooms {
			ref := tilegraph.RoomRef{Tile: in.ID, Room: r.ID}
			if _, err := rg.g.AddNode(RoomID(ref), Node{Ref: ref, Key: in.Tile.Key}); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "add room %s", ref)
			}
		}
	}

	for _, in := range tg.Instances() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, r := range in.Tile.Rooms {
			adj, _ := in.Tile.Adjacency(r.ID)
			src := tilegraph.RoomRef{Tile: in.ID, Room: r.ID}
			for _, id := range adj.Doors {
				door := in.Tile.Doors[id]
				key := tilegraph.DoorKey{Tile: in.ID, Door: id}
				if o := door.Other(r.ID); o != tile.NoRoom {
					rg.connect(src, tilegraph.RoomRef{Tile: in.ID, Room: o}, key, false)
					continue
				}
				if !door.Hull {
					continue
				}
				h, _ := in.Tile.HullIndex(id)
				if far := tg.AdjacentRoomContext(in.ID, h); far != nil {
					rg.connect(src, tilegraph.RoomRef{Tile: far.Tile, Room: far.Room}, key, false)
				}
			}
			for _, id := range adj.Windows {
				if o := in.Tile.Windows[id].Other(r.ID); o != tile.NoRoom {
					rg.connect(src, tilegraph.RoomRef{Tile: in.ID, Room: o}, tilegraph.DoorKey{Tile: in.ID, Door: id}, true)
				}
			}
		}
	}
	rg.g.BuildNeighbors()

	logger.Debug("room graph built", "rooms", rg.g.NodeCount(), "edges", rg.g.EdgeCount())
	return rg, nil
}

func (rg *Graph) connect(src, dst tilegraph.RoomRef, key tilegraph.DoorKey, window bool) {
	if src == dst || src.Room == tile.NoRoom || dst.Room == tile.NoRoom {
		return
	}
	e, err := rg.g.Connect(RoomID(src), RoomID(dst), &Edge{})
	if err != nil {
		return
	}
	if window {
		if !slices.Contains(e.Data.Windows, key) {
			e.Data.Windows = append(e.Data.Windows, key)
		}
		return
	}
	if !slices.Contains(e.Data.Doors, key) {
		e.Data.Doors = append(e.Data.Doors, key)
	}
}

// SameOrAdjacent reports whether a and b are the same room or joined by a
// direct edge. Door state plays no part.
func (rg *Graph) SameOrAdjacent(a, b tilegraph.RoomRef) bool {
	return a == b || rg.g.HasEdge(RoomID(a), RoomID(b))
}

// Edge returns the openings joining a to b.
func (rg *Graph) Edge(a, b tilegraph.RoomRef) (*Edge, bool) {
	e, ok := rg.g.Edge(RoomID(a), RoomID(b))
	if !ok {
		return nil, false
	}
	return e.Data, true
}

// Neighbors returns the rooms directly adjacent to r, sorted.
func (rg *Graph) Neighbors(r tilegraph.RoomRef) []tilegraph.RoomRef {
	var out []tilegraph.RoomRef
	for _, e := range rg.g.Successors(RoomID(r)) {
		n, _ := rg.g.Node(e.Dst)
		out = append(out, n.Data.Ref)
	}
	sortRefs(out)
	return out
}

// Within returns the rooms at most hops edges away from r, r included,
// sorted. An unknown room yields nil.
func (rg *Graph) Within(r tilegraph.RoomRef, hops int) []tilegraph.RoomRef {
	if _, ok := rg.g.Node(RoomID(r)); !ok {
		return nil
	}
	nodes := rg.g.ReachableUpto(RoomID(r), func(_ *graph.Node[Node], depth int) bool {
		return depth >= hops
	})
	return refs(nodes)
}

// Reachable returns every room connected to r, r included, sorted.
func (rg *Graph) Reachable(r tilegraph.RoomRef) []tilegraph.RoomRef {
	if _, ok := rg.g.Node(RoomID(r)); !ok {
		return nil
	}
	return refs(rg.g.ReachableNodes(RoomID(r)))
}

func refs(nodes []*graph.Node[Node]) []tilegraph.RoomRef {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]tilegraph.RoomRef, len(nodes))
	for i, n := range nodes {
		out[i] = n.Data.Ref
	}
	sortRefs(out)
	return out
}

func sortRefs(rs []tilegraph.RoomRef) {
	slices.SortFunc(rs, func(a, b tilegraph.RoomRef) int {
		if a.Tile != b.Tile {
			return a.Tile - b.Tile
		}
		return a.Room - b.Room
	})
}

// RoomCount returns the number of rooms.
func (rg *Graph) RoomCount() int { return rg.g.NodeCount() }

// Topology returns the underlying generic graph. Callers must not mutate it.
func (rg *Graph) Topology() *graph.Graph[Node, *Edge] { return rg.g }

// Describe returns a payload-free description for external visualization.
// Edge labels list door and window keys, e.g. "d 0:d1 | w 0:d0".
func (rg *Graph) Describe() graph.Description {
	return rg.g.Describe(graph.Labeler[Node, *Edge]{
		Node: func(n *graph.Node[Node]) string {
			return fmt.Sprintf("%d room %d", n.Data.Key, n.Data.Ref.Room)
		},
		Group: func(*graph.Node[Node]) string { return "room" },
		Edge:  func(e *graph.Edge[*Edge]) string { return e.Data.label() },
	})
}

func (e *Edge) label() string {
	s := ""
	if len(e.Doors) > 0 {
		s = "d " + joinKeys(e.Doors)
	}
	if len(e.Windows) > 0 {
		if s != "" {
			s += " | "
		}
		s += "w " + joinKeys(e.Windows)
	}
	return s
}

func joinKeys(ks []tilegraph.DoorKey) string {
	s := ""
	for i, k := range ks {
		if i > 0 {
			s += ","
		}
		s += k.String()
	}
	return s
}

// Marshal encodes the graph's nodes and edges as JSON.
func (rg *Graph) Marshal() ([]byte, error) { return graph.Marshal(rg.g) }

// Dispose clears every node, edge and index.
func (rg *Graph) Dispose() { rg.g.Clear() }
