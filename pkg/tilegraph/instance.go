package tilegraph

import (
	"github.com/matzehuels/tilenav/pkg/errors"
	"github.com/matzehuels/tilenav/pkg/geom"
	"github.com/matzehuels/tilenav/pkg/tile"
)

// Placement puts a tile record into the world.
type Placement struct {
	Tile      *tile.Tile
	Transform geom.Mat
}

// Instance is a placed tile: a record, its world transform and the data
// derived from them. ID is the placement's index in build order.
type Instance struct {
	ID        int
	Tile      *tile.Tile
	Transform geom.Mat
	Inverse   geom.Mat
	Rect      geom.Rect // world bounds

	regions []int // node indices, smallest region first
	doors   []int // node indices, by hull index
}

func newInstance(id int, p Placement) (*Instance, error) {
	if p.Tile == nil {
		return nil, errors.New(errors.ErrCodeInvalidMap, "placement %d: nil tile", id)
	}
	inv, err := p.Transform.Inverse()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTransform, err, "placement %d (tile %d)", id, p.Tile.Key)
	}
	return &Instance{
		ID:        id,
		Tile:      p.Tile,
		Transform: p.Transform,
		Inverse:   inv,
		Rect:      p.Transform.ApplyRect(p.Tile.Bounds),
	}, nil
}

// ToLocal maps a world point into the tile's own coordinates.
func (in *Instance) ToLocal(p geom.Vec) geom.Vec { return in.Inverse.Apply(p) }

// ToWorld maps a tile-local point into world coordinates.
func (in *Instance) ToWorld(p geom.Vec) geom.Vec { return in.Transform.Apply(p) }
