package tilegraph

import (
	"slices"

	"github.com/matzehuels/tilenav/pkg/geom"
	"github.com/matzehuels/tilenav/pkg/tile"
)

// AdjacentContext is what lies on the far side of a stitched hull door.
type AdjacentContext struct {
	Tile     int `json:"tile"`
	Room     int `json:"room"`
	Door     int `json:"door"`
	HullDoor int `json:"hullDoor"`
}

// AdjacentRooms collects, for one placed tile, the rooms next to a room set.
type AdjacentRooms struct {
	Rooms       []int `json:"rooms"`       // reachable through a door
	Windows     []int `json:"windows"`     // visible through a window
	ClosedDoors []int `json:"closedDoors"` // door ids found closed
}

// FindRoomContaining returns the room containing the world point p, using
// the configured [RoomLocator] in the containing tile's local space.
func (tg *Graph) FindRoomContaining(p geom.Vec, includeDoors bool) (RoomRef, bool) {
	in, ok := tg.FindTileContaining(p)
	if !ok {
		return RoomRef{Room: tile.NoRoom}, false
	}
	room, ok := tg.opts.Locator.RoomAt(in.Tile, in.ToLocal(p), includeDoors)
	if !ok {
		return RoomRef{Tile: in.ID, Room: tile.NoRoom}, false
	}
	return RoomRef{Tile: in.ID, Room: room}, true
}

// AdjacentRoomContext resolves the far side of hull door hullIdx of a
// placed tile through its stitched partner. Results are cached until
// [Graph.Dispose], including nil for sealed doors; door state plays no part.
func (tg *Graph) AdjacentRoomContext(tileID, hullIdx int) *AdjacentContext {
	key := HullKey{Tile: tileID, HullDoor: hullIdx}
	tg.mu.Lock()
	defer tg.mu.Unlock()
	if ctx, ok := tg.adjacency[key]; ok {
		return ctx
	}

	dn, ok := tg.DoorNode(tileID, hullIdx)
	if !ok {
		tg.logger.Debug("adjacent room context: unknown hull door", "tile", tileID, "hullDoor", hullIdx)
		return nil
	}
	var ctx *AdjacentContext
	for _, e := range tg.g.Successors(dn.ID) {
		if !e.Data.Stitched {
			continue
		}
		partner, _ := tg.g.Node(e.Dst)
		ctx = &AdjacentContext{
			Tile:     partner.Data.Tile,
			Room:     tg.doorRoom(partner.Data),
			Door:     partner.Data.Door,
			HullDoor: partner.Data.HullDoor,
		}
		break
	}
	tg.adjacency[key] = ctx
	return ctx
}

// AdjacentRoomsOf returns, per placed tile id, the rooms adjacent to the
// given rooms through doors (crossing into other tiles through stitched
// hull doors), the rooms seen through windows, and the doors found closed.
// With mustBeOpen, closed doors contribute no rooms. Input rooms are never
// reported as their own neighbors. Lists are sorted and free of duplicates.
func (tg *Graph) AdjacentRoomsOf(rooms []RoomRef, mustBeOpen bool, doors DoorState) map[int]*AdjacentRooms {
	if doors == nil {
		doors = AllOpen
	}
	input := make(map[RoomRef]bool, len(rooms))
	for _, r := range rooms {
		input[r] = true
	}

	out := make(map[int]*AdjacentRooms)
	at := func(tileID int) *AdjacentRooms {
		a, ok := out[tileID]
		if !ok {
			a = &AdjacentRooms{}
			out[tileID] = a
		}
		return a
	}
	addRoom := func(r RoomRef) {
		if !input[r] {
			at(r.Tile).Rooms = append(at(r.Tile).Rooms, r.Room)
		}
	}

	for _, r := range rooms {
		in, ok := tg.Instance(r.Tile)
		if !ok {
			continue
		}
		adj, ok := in.Tile.Adjacency(r.Room)
		if !ok {
			continue
		}
		for _, id := range adj.Doors {
			door := in.Tile.Doors[id]
			open := doors.IsOpen(DoorKey{Tile: r.Tile, Door: id})
			if !open {
				at(r.Tile).ClosedDoors = append(at(r.Tile).ClosedDoors, id)
				if mustBeOpen {
					continue
				}
			}
			if o := door.Other(r.Room); o != tile.NoRoom {
				addRoom(RoomRef{Tile: r.Tile, Room: o})
				continue
			}
			if !door.Hull {
				continue
			}
			h, _ := in.Tile.HullIndex(id)
			ctx := tg.AdjacentRoomContext(r.Tile, h)
			if ctx == nil {
				continue
			}
			if mustBeOpen && !doors.IsOpen(DoorKey{Tile: ctx.Tile, Door: ctx.Door}) {
				at(ctx.Tile).ClosedDoors = append(at(ctx.Tile).ClosedDoors, ctx.Door)
				continue
			}
			addRoom(RoomRef{Tile: ctx.Tile, Room: ctx.Room})
		}
		for _, id := range adj.Windows {
			o := in.Tile.Windows[id].Other(r.Room)
			if o != tile.NoRoom && !input[RoomRef{Tile: r.Tile, Room: o}] {
				at(r.Tile).Windows = append(at(r.Tile).Windows, o)
			}
		}
	}

	for _, a := range out {
		a.Rooms = sortedUnique(a.Rooms)
		a.Windows = sortedUnique(a.Windows)
		a.ClosedDoors = sortedUnique(a.ClosedDoors)
	}
	return out
}

func sortedUnique(s []int) []int {
	slices.Sort(s)
	return slices.Compact(s)
}

// IsSealed reports whether hull door hullIdx of a placed tile has no
// stitched partner. Unknown doors count as sealed.
func (tg *Graph) IsSealed(tileID, hullIdx int) bool {
	dn, ok := tg.DoorNode(tileID, hullIdx)
	return !ok || dn.Data.Sealed
}

// ConnectedDoorsOnSide returns the hull indices of the unsealed hull doors
// of a placed tile that face side in world space.
func (tg *Graph) ConnectedDoorsOnSide(tileID int, side geom.Direction) []int {
	in, ok := tg.Instance(tileID)
	if !ok {
		return nil
	}
	var out []int
	for h, di := range in.doors {
		n := tg.g.NodeAt(di).Data
		if !n.Sealed && n.Dir == side {
			out = append(out, h)
		}
	}
	return out
}

// SameRoom reports whether the world points p and q lie in the same room.
func (tg *Graph) SameRoom(p, q geom.Vec) bool {
	rp, ok := tg.FindRoomContaining(p, false)
	if !ok {
		return false
	}
	rq, ok := tg.FindRoomContaining(q, false)
	return ok && rp == rq
}

// OnOtherSideOf reports whether the world points p and q lie strictly on
// opposite sides of the line through door doorID of a placed tile. The line
// runs along the doorway's longer side.
func (tg *Graph) OnOtherSideOf(tileID, doorID int, p, q geom.Vec) bool {
	in, ok := tg.Instance(tileID)
	if !ok || doorID < 0 || doorID >= len(in.Tile.Doors) {
		return false
	}
	door := in.Tile.Doors[doorID]
	normal := geom.Vec{X: 1}
	if door.Horizontal() {
		normal = geom.Vec{Y: 1}
	}
	c := door.Rect.Center()
	sp := in.ToLocal(p).Sub(c).Dot(normal)
	sq := in.ToLocal(q).Sub(c).Dot(normal)
	return (sp > geom.Epsilon && sq < -geom.Epsilon) || (sp < -geom.Epsilon && sq > geom.Epsilon)
}
