package tile

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/tilenav/pkg/errors"
	"github.com/matzehuels/tilenav/pkg/geom"
)

// NoRoom marks the outside of a tile in a door's or window's room pair.
const NoRoom = -1

// Metadata keys read from door records.
const (
	MetaDirection = "dir"
	MetaSealed    = "sealed"
)

// Room is one room of a tile. ID equals the room's index in [Tile.Rooms].
type Room struct {
	ID      int
	Outline geom.Poly
}

// Door is a doorway joining two rooms, or a room and the outside.
// ID equals the door's index in [Tile.Doors].
type Door struct {
	ID    int
	Rect  geom.Rect
	Rooms [2]int // NoRoom for the outside
	Hull  bool
	Meta  map[string]any
}

// LocalRoom returns the first room of the pair that lies inside the tile.
func (d Door) LocalRoom() int {
	if d.Rooms[0] != NoRoom {
		return d.Rooms[0]
	}
	return d.Rooms[1]
}

// Other returns the room on the far side of the door from room, or NoRoom.
func (d Door) Other(room int) int { return other(d.Rooms, room) }

// Joins reports whether the door touches room.
func (d Door) Joins(room int) bool { return d.Rooms[0] == room || d.Rooms[1] == room }

// Sealed reports whether the door is explicitly marked as a world boundary.
func (d Door) Sealed() bool {
	v, ok := d.Meta[MetaSealed].(bool)
	return ok && v
}

// Direction parses the door's outward compass direction from its metadata.
func (d Door) Direction() (geom.Direction, error) {
	raw, ok := d.Meta[MetaDirection]
	if !ok {
		return geom.DirUnknown, fmt.Errorf("door %d: missing %q metadata", d.ID, MetaDirection)
	}
	s, ok := raw.(string)
	if !ok {
		return geom.DirUnknown, fmt.Errorf("door %d: %q metadata is %T, want string", d.ID, MetaDirection, raw)
	}
	dir, err := geom.ParseDirection(s)
	if err != nil {
		return geom.DirUnknown, fmt.Errorf("door %d: %w", d.ID, err)
	}
	return dir, nil
}

// Horizontal reports whether the doorway is wider than it is tall, i.e.
// it is crossed by moving north or south.
func (d Door) Horizontal() bool { return d.Rect.Width >= d.Rect.Height }

// Window joins two rooms (or a room and the outside) for sight only.
type Window struct {
	ID    int
	Rect  geom.Rect
	Rooms [2]int
}

// Other returns the room on the far side of the window from room, or NoRoom.
func (w Window) Other(room int) int { return other(w.Rooms, room) }

func other(pair [2]int, room int) int {
	switch room {
	case pair[0]:
		return pair[1]
	case pair[1]:
		return pair[0]
	}
	return NoRoom
}

// RoomAdjacency lists the doors and windows touching one room.
type RoomAdjacency struct {
	Room    int
	Doors   []int
	Windows []int
}

// Tile is an immutable tile record. Build one with [New].
type Tile struct {
	Key       int
	Name      string
	Bounds    geom.Rect
	Rooms     []Room
	Doors     []Door
	Windows   []Window
	Navigable []geom.Poly

	hullDoors []int
	hullIndex map[int]int
	adjacency []RoomAdjacency
}

// New validates t and returns a copy with its derived indices computed:
// the hull door list in door id order and the adjacency of every room.
func New(t Tile) (*Tile, error) {
	if err := validate(&t); err != nil {
		return nil, err
	}
	out := t
	out.Rooms = slices.Clone(t.Rooms)
	out.Doors = slices.Clone(t.Doors)
	out.Windows = slices.Clone(t.Windows)
	out.Navigable = slices.Clone(t.Navigable)

	out.hullIndex = make(map[int]int)
	for _, d := range out.Doors {
		if d.Hull {
			out.hullIndex[d.ID] = len(out.hullDoors)
			out.hullDoors = append(out.hullDoors, d.ID)
		}
	}

	out.adjacency = make([]RoomAdjacency, len(out.Rooms))
	for i := range out.Rooms {
		out.adjacency[i].Room = i
	}
	for _, d := range out.Doors {
		for _, r := range uniqueRooms(d.Rooms) {
			out.adjacency[r].Doors = append(out.adjacency[r].Doors, d.ID)
		}
	}
	for _, w := range out.Windows {
		for _, r := range uniqueRooms(w.Rooms) {
			out.adjacency[r].Windows = append(out.adjacency[r].Windows, w.ID)
		}
	}
	return &out, nil
}

func uniqueRooms(pair [2]int) []int {
	var rs []int
	if pair[0] != NoRoom {
		rs = append(rs, pair[0])
	}
	if pair[1] != NoRoom && pair[1] != pair[0] {
		rs = append(rs, pair[1])
	}
	return rs
}

func validate(t *Tile) error {
	if t.Bounds.Width <= 0 || t.Bounds.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidTile, "tile %d: bounds %v have no area", t.Key, t.Bounds)
	}
	for i, r := range t.Rooms {
		if r.ID != i {
			return errors.New(errors.ErrCodeInvalidTile, "tile %d: room at index %d has id %d", t.Key, i, r.ID)
		}
		if !r.Outline.Valid() {
			return errors.New(errors.ErrCodeInvalidTile, "tile %d: room %d outline has fewer than 3 points", t.Key, i)
		}
	}
	checkRoom := func(r int) bool { return r == NoRoom || (r >= 0 && r < len(t.Rooms)) }
	for i, d := range t.Doors {
		if d.ID != i {
			return errors.New(errors.ErrCodeInvalidDoor, "tile %d: door at index %d has id %d", t.Key, i, d.ID)
		}
		if !checkRoom(d.Rooms[0]) || !checkRoom(d.Rooms[1]) {
			return errors.New(errors.ErrCodeInvalidDoor, "tile %d: door %d references unknown room in %v", t.Key, i, d.Rooms)
		}
		if d.Hull && d.LocalRoom() == NoRoom {
			return errors.New(errors.ErrCodeInvalidDoor, "tile %d: hull door %d touches no room", t.Key, i)
		}
	}
	for i, w := range t.Windows {
		if w.ID != i {
			return errors.New(errors.ErrCodeInvalidTile, "tile %d: window at index %d has id %d", t.Key, i, w.ID)
		}
		if !checkRoom(w.Rooms[0]) || !checkRoom(w.Rooms[1]) {
			return errors.New(errors.ErrCodeInvalidTile, "tile %d: window %d references unknown room in %v", t.Key, i, w.Rooms)
		}
	}
	for i, p := range t.Navigable {
		if !p.Valid() {
			return errors.New(errors.ErrCodeInvalidTile, "tile %d: navigable polygon %d has fewer than 3 points", t.Key, i)
		}
	}
	return nil
}

// HullDoors returns the ids of the hull doors, in id order. The position of
// a door in this list is its hull index.
func (t *Tile) HullDoors() []int { return t.hullDoors }

// HullDoor returns the hull door with the given hull index.
func (t *Tile) HullDoor(hullIdx int) (Door, bool) {
	if hullIdx < 0 || hullIdx >= len(t.hullDoors) {
		return Door{}, false
	}
	return t.Doors[t.hullDoors[hullIdx]], true
}

// HullIndex returns the hull index of door id, if it is a hull door.
func (t *Tile) HullIndex(doorID int) (int, bool) {
	i, ok := t.hullIndex[doorID]
	return i, ok
}

// Adjacency returns the doors and windows touching room.
func (t *Tile) Adjacency(room int) (RoomAdjacency, bool) {
	if room < 0 || room >= len(t.adjacency) {
		return RoomAdjacency{}, false
	}
	return t.adjacency[room], true
}

// Label returns the tile name if set, else its key.
func (t *Tile) Label() string {
	if strings.TrimSpace(t.Name) != "" {
		return t.Name
	}
	return fmt.Sprint(t.Key)
}
