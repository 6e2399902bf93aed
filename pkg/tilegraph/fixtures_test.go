package tilegraph

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/tilenav/pkg/geom"
	"github.com/matzehuels/tilenav/pkg/tile"
)

type doorDef struct {
	dir    string
	at     float64 // offset along the side
	sealed bool
}

func east(at float64) doorDef  { return doorDef{dir: "e", at: at} }
func west(at float64) doorDef  { return doorDef{dir: "w", at: at} }
func south(at float64) doorDef { return doorDef{dir: "s", at: at} }
func north(at float64) doorDef { return doorDef{dir: "n", at: at} }

// box is a single-room tile of size w x h whose whole area is navigable.
// Hull doors are 40 long and 8 deep, straddling the tile edge.
func box(t *testing.T, key int, w, h float64, doors ...doorDef) *tile.Tile {
	t.Helper()
	rect := geom.Rect{Width: w, Height: h}
	tl := tile.Tile{
		Key:       key,
		Bounds:    rect,
		Rooms:     []tile.Room{{ID: 0, Outline: geom.PolyFromRect(rect)}},
		Navigable: []geom.Poly{geom.PolyFromRect(rect)},
	}
	for i, d := range doors {
		tl.Doors = append(tl.Doors, tile.Door{
			ID:    i,
			Rect:  doorRect(d, w, h),
			Rooms: [2]int{0, tile.NoRoom},
			Hull:  true,
			Meta:  map[string]any{"dir": d.dir, "sealed": d.sealed},
		})
	}
	out, err := tile.New(tl)
	require.NoError(t, err)
	return out
}

func doorRect(d doorDef, w, h float64) geom.Rect {
	switch d.dir {
	case "n":
		return geom.Rect{X: d.at - 20, Y: -4, Width: 40, Height: 8}
	case "s":
		return geom.Rect{X: d.at - 20, Y: h - 4, Width: 40, Height: 8}
	case "w":
		return geom.Rect{X: -4, Y: d.at - 20, Width: 8, Height: 40}
	default:
		return geom.Rect{X: w - 4, Y: d.at - 20, Width: 8, Height: 40}
	}
}

// twoRooms is a 600x300 tile with a west room (0) and an east room (1)
// joined by internal door 0 and window 0; hull door 1 leaves room 1 east.
func twoRooms(t *testing.T, key int) *tile.Tile {
	t.Helper()
	tl, err := tile.New(tile.Tile{
		Key:    key,
		Bounds: geom.Rect{Width: 600, Height: 300},
		Rooms: []tile.Room{
			{ID: 0, Outline: geom.PolyFromRect(geom.Rect{Width: 300, Height: 300})},
			{ID: 1, Outline: geom.PolyFromRect(geom.Rect{X: 300, Width: 300, Height: 300})},
		},
		Doors: []tile.Door{
			{ID: 0, Rect: geom.Rect{X: 296, Y: 130, Width: 8, Height: 40}, Rooms: [2]int{0, 1}},
			{ID: 1, Rect: geom.Rect{X: 596, Y: 130, Width: 8, Height: 40}, Rooms: [2]int{1, tile.NoRoom}, Hull: true, Meta: map[string]any{"dir": "e"}},
		},
		Windows: []tile.Window{
			{ID: 0, Rect: geom.Rect{X: 296, Y: 20, Width: 8, Height: 30}, Rooms: [2]int{0, 1}},
		},
		Navigable: []geom.Poly{geom.PolyFromRect(geom.Rect{Width: 600, Height: 300})},
	})
	require.NoError(t, err)
	return tl
}

func at(x, y float64) geom.Mat { return geom.Mat{A: 1, D: 1, E: x, F: y} }

func quietLogger() *log.Logger { return log.New(io.Discard) }

func mustBuild(t *testing.T, placements ...Placement) *Graph {
	t.Helper()
	tg, err := Build(context.Background(), placements, Options{Logger: quietLogger()})
	require.NoError(t, err)
	return tg
}

func closed(keys ...DoorKey) DoorState {
	shut := make(map[DoorKey]bool, len(keys))
	for _, k := range keys {
		shut[k] = true
	}
	return DoorStateFunc(func(k DoorKey) bool { return !shut[k] })
}
