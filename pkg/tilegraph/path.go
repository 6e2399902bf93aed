package tilegraph

import (
	"github.com/matzehuels/tilenav/pkg/geom"
	"github.com/matzehuels/tilenav/pkg/graph"
	"github.com/matzehuels/tilenav/pkg/tile"
)

// Transition is one crossing from a placed tile into another through a
// pair of stitched hull doors.
type Transition struct {
	Src         RoomRef   `json:"src"`
	Dst         RoomRef   `json:"dst"`
	SrcDoor     DoorKey   `json:"srcDoor"`
	DstDoor     DoorKey   `json:"dstDoor"`
	SrcHullDoor int       `json:"srcHullDoor"`
	DstHullDoor int       `json:"dstHullDoor"`
	Exit        *geom.Vec `json:"exit,omitempty"`  // entry waypoint of the source door
	Entry       *geom.Vec `json:"entry,omitempty"` // entry waypoint of the destination door
	DoorCost    float64   `json:"doorCost"`        // cost of entering both doors
}

// Path is the result of [Graph.FindPath].
type Path struct {
	Src         RoomRef      `json:"src"` // Room is tile.NoRoom when unclassified
	Dst         RoomRef      `json:"dst"`
	Transitions []Transition `json:"transitions"`
	Cost        float64      `json:"cost"`
	Nodes       []string     `json:"nodes"`
}

// FindPath returns the cheapest route from src to dst.
//
// A step costs the distance between node anchors plus the cost of the node
// entered: OpenDoorCost or ClosedDoorCost for doors, per doors, and zero for
// regions. Closed doors are expensive, not impassable. The query points
// themselves anchor the source and destination regions. A nil doors treats
// every door as open.
//
// It reports false when either point lies outside every region or no route
// exists. Points in the same region yield a path with no transitions.
func (tg *Graph) FindPath(src, dst geom.Vec, doors DoorState) (*Path, bool) {
	sn, ok := tg.FindRegionContaining(src)
	if !ok {
		tg.logger.Debug("find path: source outside navigable regions", "src", src)
		return nil, false
	}
	dn, ok := tg.FindRegionContaining(dst)
	if !ok {
		tg.logger.Debug("find path: destination outside navigable regions", "dst", dst)
		return nil, false
	}

	path := &Path{Src: tg.roomOrNone(src, sn.Data.Tile), Dst: tg.roomOrNone(dst, dn.Data.Tile)}
	if sn == dn {
		path.Cost = src.Distance(dst)
		path.Nodes = []string{sn.ID}
		return path, true
	}

	cost := tg.nodeCosts(doors)
	anchor := func(i int) geom.Vec {
		switch i {
		case sn.Index:
			return src
		case dn.Index:
			return dst
		}
		return tg.g.NodeAt(i).Data.Anchor()
	}
	step := func(from, to int) float64 { return anchor(from).Distance(anchor(to)) + cost[to] }
	h := func(i int) float64 { return anchor(i).Distance(dst) }

	idx, total, found := tg.g.Search(sn.Index, dn.Index, step, h)
	if !found {
		tg.logger.Debug("find path: no route", "src", sn.ID, "dst", dn.ID)
		return nil, false
	}

	path.Cost = total
	path.Nodes = make([]string, len(idx))
	for i, ni := range idx {
		path.Nodes[i] = tg.g.NodeAt(ni).ID
	}
	for i := 0; i+1 < len(idx); i++ {
		a, b := tg.g.NodeAt(idx[i]), tg.g.NodeAt(idx[i+1])
		if a.Data.Kind != KindDoor || b.Data.Kind != KindDoor || a.Data.Tile == b.Data.Tile {
			continue
		}
		path.Transitions = append(path.Transitions, tg.transition(a, b, cost[a.Index]+cost[b.Index]))
	}
	return path, true
}

// nodeCosts evaluates door state for every door node. It touches all doors
// on each query, which keeps door state out of the graph entirely.
func (tg *Graph) nodeCosts(doors DoorState) []float64 {
	if doors == nil {
		doors = AllOpen
	}
	cost := make([]float64, tg.g.NodeCount())
	for i := range cost {
		n := tg.g.NodeAt(i).Data
		if n.Kind != KindDoor {
			continue
		}
		if doors.IsOpen(DoorKey{Tile: n.Tile, Door: n.Door}) {
			cost[i] = tg.opts.OpenDoorCost
		} else {
			cost[i] = tg.opts.ClosedDoorCost
		}
	}
	return cost
}

func (tg *Graph) transition(a, b *graph.Node[*Node], doorCost float64) Transition {
	return Transition{
		Src:         RoomRef{Tile: a.Data.Tile, Room: tg.doorRoom(a.Data)},
		Dst:         RoomRef{Tile: b.Data.Tile, Room: tg.doorRoom(b.Data)},
		SrcDoor:     DoorKey{Tile: a.Data.Tile, Door: a.Data.Door},
		DstDoor:     DoorKey{Tile: b.Data.Tile, Door: b.Data.Door},
		SrcHullDoor: a.Data.HullDoor,
		DstHullDoor: b.Data.HullDoor,
		Exit:        doorEntry(a.Data),
		Entry:       doorEntry(b.Data),
		DoorCost:    doorCost,
	}
}

func (tg *Graph) doorRoom(n *Node) int {
	in, ok := tg.Instance(n.Tile)
	if !ok || n.Door < 0 || n.Door >= len(in.Tile.Doors) {
		return tile.NoRoom
	}
	return in.Tile.Doors[n.Door].LocalRoom()
}

func (tg *Graph) roomOrNone(p geom.Vec, tileID int) RoomRef {
	if r, ok := tg.FindRoomContaining(p, true); ok {
		return r
	}
	return RoomRef{Tile: tileID, Room: tile.NoRoom}
}
