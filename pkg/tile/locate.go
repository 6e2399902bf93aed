package tile

import "github.com/matzehuels/tilenav/pkg/geom"

// PolygonLocator classifies tile-local points by room outline.
//
// With includeDoors set, a point that lies in no room but inside a doorway
// resolves to the doorway's first adjacent room inside the tile.
type PolygonLocator struct{}

// RoomAt returns the room containing local, if any.
func (PolygonLocator) RoomAt(t *Tile, local geom.Vec, includeDoors bool) (int, bool) {
	if t == nil {
		return NoRoom, false
	}
	for _, r := range t.Rooms {
		if r.Outline.Bounds().Contains(local) && r.Outline.Contains(local) {
			return r.ID, true
		}
	}
	if !includeDoors {
		return NoRoom, false
	}
	for _, d := range t.Doors {
		if d.Rect.Contains(local) {
			if r := d.LocalRoom(); r != NoRoom {
				return r, true
			}
		}
	}
	return NoRoom, false
}
