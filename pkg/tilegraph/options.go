package tilegraph

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/tilenav/pkg/geom"
	"github.com/matzehuels/tilenav/pkg/tile"
)

// Default tuning values applied by [Options.SetDefaults].
const (
	DefaultGridCellSize   = 600
	DefaultEntryOffset    = 12
	DefaultOpenDoorCost   = 1
	DefaultClosedDoorCost = 10000
)

// DoorState reports whether a door is currently open. It is read during
// queries only and never changes graph topology.
type DoorState interface {
	IsOpen(k DoorKey) bool
}

// DoorStateFunc adapts a function to [DoorState].
type DoorStateFunc func(k DoorKey) bool

// IsOpen calls f.
func (f DoorStateFunc) IsOpen(k DoorKey) bool { return f(k) }

// AllOpen treats every door as open.
var AllOpen DoorState = DoorStateFunc(func(DoorKey) bool { return true })

// RoomLocator classifies a tile-local point by room.
type RoomLocator interface {
	RoomAt(t *tile.Tile, local geom.Vec, includeDoors bool) (int, bool)
}

// Options configures [Build].
type Options struct {
	// Strict turns malformed hull door data into build errors. When false
	// the problem is logged and the door is kept in degraded form.
	Strict bool

	// GridCellSize is the side of a spatial grid cell in world units.
	GridCellSize float64

	// EntryOffset is how far inside the tile a door's entry waypoint sits.
	EntryOffset float64

	// OpenDoorCost and ClosedDoorCost are added when a path enters a door.
	OpenDoorCost   float64
	ClosedDoorCost float64

	// Locator classifies points by room. Defaults to tile.PolygonLocator.
	Locator RoomLocator

	// Logger receives build diagnostics. Defaults to log.Default().
	Logger *log.Logger
}

// SetDefaults fills in zero fields with defaults.
func (o *Options) SetDefaults() {
	if o.GridCellSize <= 0 {
		o.GridCellSize = DefaultGridCellSize
	}
	if o.EntryOffset <= 0 {
		o.EntryOffset = DefaultEntryOffset
	}
	if o.OpenDoorCost <= 0 {
		o.OpenDoorCost = DefaultOpenDoorCost
	}
	if o.ClosedDoorCost <= 0 {
		o.ClosedDoorCost = DefaultClosedDoorCost
	}
	if o.Locator == nil {
		o.Locator = tile.PolygonLocator{}
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}
