package tilegraph

import (
	"fmt"

	"github.com/matzehuels/tilenav/pkg/geom"
)

// Kind tags the variant of a [Node].
type Kind int

const (
	// KindRegion is one maximal navigable polygon of a placed tile.
	KindRegion Kind = iota
	// KindDoor is one hull door of a placed tile.
	KindDoor
)

func (k Kind) String() string {
	if k == KindDoor {
		return "door"
	}
	return "region"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "region":
		*k = KindRegion
	case "door":
		*k = KindDoor
	default:
		return fmt.Errorf("unknown node kind %q", b)
	}
	return nil
}

// Node is the payload of a tile graph node. Which fields are meaningful
// depends on Kind; build nodes with the region and door factories only.
type Node struct {
	Kind Kind      `json:"kind"`
	Tile int       `json:"tile"` // placement index
	Key  int       `json:"key"`  // tile record key
	Rect geom.Rect `json:"rect"` // world bounds

	// Region fields.
	Nav  int        `json:"nav"`
	Poly *geom.Poly `json:"poly,omitempty"`

	// Door fields.
	Door     int            `json:"door"`
	HullDoor int            `json:"hullDoor"`
	Dir      geom.Direction `json:"dir"`
	Sealed   bool           `json:"sealed"`
	Boundary bool           `json:"boundary,omitempty"` // marked sealed by metadata, never stitched
	Entry    *geom.Vec      `json:"entry,omitempty"`
}

func newRegionNode(in *Instance, nav int) *Node {
	poly := in.Tile.Navigable[nav].Transform(in.Transform)
	return &Node{
		Kind: KindRegion,
		Tile: in.ID,
		Key:  in.Tile.Key,
		Rect: poly.Bounds(),
		Nav:  nav,
		Poly: &poly,
		Door: -1, HullDoor: -1, Dir: geom.DirUnknown,
	}
}

func newDoorNode(in *Instance, hullIdx int) *Node {
	d, _ := in.Tile.HullDoor(hullIdx)
	return &Node{
		Kind:     KindDoor,
		Tile:     in.ID,
		Key:      in.Tile.Key,
		Rect:     in.Transform.ApplyRect(d.Rect),
		Nav:      -1,
		Door:     d.ID,
		HullDoor: hullIdx,
		Dir:      geom.DirUnknown,
		Sealed:   true,
		Boundary: d.Sealed(),
	}
}

// Anchor is the point a search measures distances from: the center of
// the node's world rectangle.
func (n *Node) Anchor() geom.Vec { return n.Rect.Center() }

// Contains reports whether the world point p lies in the node's area.
// Regions test their polygon; doors their rectangle.
func (n *Node) Contains(p geom.Vec) bool {
	if !n.Rect.Contains(p) {
		return false
	}
	if n.Kind == KindRegion && n.Poly != nil {
		return n.Poly.Contains(p)
	}
	return true
}

// Label is a short human-readable name, e.g. "301 nav 0" or "301 door 3 e".
func (n *Node) Label() string {
	if n.Kind == KindRegion {
		return fmt.Sprintf("%d nav %d", n.Key, n.Nav)
	}
	s := fmt.Sprintf("%d door %d %s", n.Key, n.Door, n.Dir)
	if n.Sealed {
		s += " sealed"
	}
	return s
}

// Edge is the payload of a tile graph edge.
type Edge struct {
	Stitched bool `json:"stitched,omitempty"` // joins doors of two placements
}

// RegionID is the node id of navigable polygon nav of a tile with key
// placed with transform m.
func RegionID(key int, m geom.Mat, nav int) string {
	return fmt.Sprintf("region-%d-%s-%d", key, m.Key(), nav)
}

// DoorID is the node id of hull door hullIdx of a tile with key placed
// with transform m.
func DoorID(key int, m geom.Mat, hullIdx int) string {
	return fmt.Sprintf("door-%d-%s-%d", key, m.Key(), hullIdx)
}

// DoorKey addresses any door of a placed tile by tile-local door id.
type DoorKey struct {
	Tile int `json:"tile"`
	Door int `json:"door"`
}

func (k DoorKey) String() string { return fmt.Sprintf("%d:d%d", k.Tile, k.Door) }

// HullKey addresses a hull door of a placed tile by hull index.
type HullKey struct {
	Tile     int
	HullDoor int
}

// RoomRef addresses a room of a placed tile.
type RoomRef struct {
	Tile int `json:"tile"`
	Room int `json:"room"`
}

func (r RoomRef) String() string { return fmt.Sprintf("%d:r%d", r.Tile, r.Room) }
