package tilegraph

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/tilenav/pkg/errors"
	"github.com/matzehuels/tilenav/pkg/geom"
	"github.com/matzehuels/tilenav/pkg/graph"
	"github.com/matzehuels/tilenav/pkg/tile"
)

func TestNodeIDs(t *testing.T) {
	assert.Equal(t, "region-301-[1,0,0,1,0,0]-0", RegionID(301, geom.Identity, 0))
	assert.Equal(t, "door-301-[0,1,-1,0,1200,0]-2", DoorID(301, geom.Mat{B: 1, C: -1, E: 1200}, 2))
}

func TestBuildNodes(t *testing.T) {
	a := box(t, 1, 600, 600, east(300), south(300))
	tg := mustBuild(t, Placement{Tile: a, Transform: geom.Identity})

	g := tg.Topology()
	assert.Equal(t, 3, g.NodeCount())

	region, ok := g.Node(RegionID(1, geom.Identity, 0))
	require.True(t, ok)
	assert.Equal(t, KindRegion, region.Data.Kind)

	for h, dir := range []geom.Direction{geom.East, geom.South} {
		dn, ok := tg.DoorNode(0, h)
		require.True(t, ok)
		assert.Equal(t, DoorID(1, geom.Identity, h), dn.ID)
		assert.Equal(t, dir, dn.Data.Dir)
		assert.True(t, dn.Data.Sealed, "unstitched door is sealed")
		assert.True(t, g.HasEdge(dn.ID, region.ID))
		assert.True(t, g.HasEdge(region.ID, dn.ID))
	}
	_, ok = tg.DoorNode(0, 2)
	assert.False(t, ok)
}

func TestBuildEntryWaypoints(t *testing.T) {
	a := box(t, 1, 600, 600, east(300))

	tg := mustBuild(t, Placement{Tile: a, Transform: geom.Identity})
	dn, _ := tg.DoorNode(0, 0)
	require.NotNil(t, dn.Data.Entry)
	assert.InDelta(t, 588, dn.Data.Entry.X, 1e-9)
	assert.InDelta(t, 300, dn.Data.Entry.Y, 1e-9)

	// Mirrored about x and moved: the door faces west, the entry follows.
	flip := geom.Mat{A: -1, D: 1, E: 1200}
	tg = mustBuild(t, Placement{Tile: a, Transform: flip})
	dn, _ = tg.DoorNode(0, 0)
	assert.Equal(t, geom.West, dn.Data.Dir)
	require.NotNil(t, dn.Data.Entry)
	assert.InDelta(t, 612, dn.Data.Entry.X, 1e-9)
}

func TestStitchingCoincidentDoors(t *testing.T) {
	a := box(t, 1, 600, 600, east(300))
	b := box(t, 2, 600, 600, west(300))
	tg := mustBuild(t,
		Placement{Tile: a, Transform: geom.Identity},
		Placement{Tile: b, Transform: at(600, 0)},
	)

	da, _ := tg.DoorNode(0, 0)
	db, _ := tg.DoorNode(1, 0)
	g := tg.Topology()

	stitched := 0
	for _, e := range g.Edges() {
		if e.Data.Stitched {
			stitched++
		}
	}
	assert.Equal(t, 2, stitched, "exactly one stitched edge pair")
	assert.True(t, g.HasEdge(da.ID, db.ID))
	assert.True(t, g.HasEdge(db.ID, da.ID))
	assert.False(t, tg.IsSealed(0, 0))
	assert.False(t, tg.IsSealed(1, 0))

	path, ok := tg.FindPath(geom.Vec{X: 300, Y: 300}, geom.Vec{X: 900, Y: 300}, nil)
	require.True(t, ok)
	require.Len(t, path.Transitions, 1)
	tr := path.Transitions[0]
	assert.Equal(t, RoomRef{Tile: 0, Room: 0}, tr.Src)
	assert.Equal(t, RoomRef{Tile: 1, Room: 0}, tr.Dst)
	assert.Equal(t, DoorKey{Tile: 0, Door: 0}, tr.SrcDoor)
	assert.Equal(t, DoorKey{Tile: 1, Door: 0}, tr.DstDoor)
	require.NotNil(t, tr.Exit)
	require.NotNil(t, tr.Entry)
	assert.InDelta(t, 588, tr.Exit.X, 1e-9)
	assert.InDelta(t, 612, tr.Entry.X, 1e-9)
	assert.InDelta(t, 602, path.Cost, 1e-9)
	assert.Len(t, path.Nodes, 4)
}

func TestStitchingSymmetry(t *testing.T) {
	// A 2x2 block plus a boundary door and a door facing a wall.
	nw := box(t, 1, 600, 600, east(300), south(300))
	ne := box(t, 2, 600, 600, west(300), south(200))
	sw := box(t, 3, 600, 600, north(300), doorDef{dir: "e", at: 300, sealed: true})
	se := box(t, 4, 600, 600, west(300), north(400))
	tg := mustBuild(t,
		Placement{Tile: nw, Transform: geom.Identity},
		Placement{Tile: ne, Transform: at(600, 0)},
		Placement{Tile: sw, Transform: at(0, 600)},
		Placement{Tile: se, Transform: at(600, 600)},
	)
	g := tg.Topology()

	var doors []*graph.Node[*Node]
	for _, n := range g.Nodes() {
		if n.Data.Kind == KindDoor {
			doors = append(doors, n)
		}
	}
	for i, a := range doors {
		for _, b := range doors[i+1:] {
			if a.Data.Tile == b.Data.Tile {
				continue
			}
			match := !a.Data.Boundary && !b.Data.Boundary && a.Data.Rect.Overlaps(b.Data.Rect)
			assert.Equal(t, match, g.HasEdge(a.ID, b.ID), "%s -> %s", a.ID, b.ID)
			assert.Equal(t, match, g.HasEdge(b.ID, a.ID), "%s -> %s", b.ID, a.ID)
		}
	}
	for _, d := range doors {
		partnered := false
		for _, e := range g.Successors(d.ID) {
			partnered = partnered || e.Data.Stitched
		}
		assert.Equal(t, !partnered, d.Data.Sealed, "sealed iff no partner: %s", d.ID)
	}

	assert.False(t, tg.IsSealed(0, 1), "nw south meets sw north")
	assert.True(t, tg.IsSealed(1, 1), "ne south at 200 meets se north at 400")
	assert.True(t, tg.IsSealed(2, 1), "boundary door never stitches")
	assert.True(t, tg.IsSealed(3, 0), "se west faces a boundary door")
}

func TestBuildStrictMode(t *testing.T) {
	broken, err := tile.New(tile.Tile{
		Key:       9,
		Bounds:    geom.Rect{Width: 600, Height: 600},
		Rooms:     []tile.Room{{ID: 0, Outline: geom.PolyFromRect(geom.Rect{Width: 600, Height: 600})}},
		Doors:     []tile.Door{{ID: 0, Rect: geom.Rect{X: 596, Y: 280, Width: 8, Height: 40}, Rooms: [2]int{0, tile.NoRoom}, Hull: true, Meta: map[string]any{"dir": "up"}}},
		Navigable: []geom.Poly{geom.PolyFromRect(geom.Rect{Width: 600, Height: 600})},
	})
	require.NoError(t, err)
	placements := []Placement{{Tile: broken, Transform: geom.Identity}}

	_, err = Build(context.Background(), placements, Options{Strict: true, Logger: quietLogger()})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidDoor), "got %v", err)

	var buf bytes.Buffer
	tg, err := Build(context.Background(), placements, Options{Logger: log.New(&buf)})
	require.NoError(t, err)
	dn, _ := tg.DoorNode(0, 0)
	assert.Equal(t, geom.DirUnknown, dn.Data.Dir)
	assert.Nil(t, dn.Data.Entry)
	assert.Contains(t, buf.String(), "hull door direction unknown")
}

func TestBuildStrictEntryOutsideTile(t *testing.T) {
	// A door labeled east that sits on the west wall: its entry falls outside.
	odd, err := tile.New(tile.Tile{
		Key:       8,
		Bounds:    geom.Rect{Width: 600, Height: 600},
		Rooms:     []tile.Room{{ID: 0, Outline: geom.PolyFromRect(geom.Rect{Width: 600, Height: 600})}},
		Doors:     []tile.Door{{ID: 0, Rect: geom.Rect{X: -4, Y: 280, Width: 8, Height: 40}, Rooms: [2]int{0, tile.NoRoom}, Hull: true, Meta: map[string]any{"dir": "e"}}},
		Navigable: []geom.Poly{geom.PolyFromRect(geom.Rect{Width: 600, Height: 600})},
	})
	require.NoError(t, err)
	placements := []Placement{{Tile: odd, Transform: geom.Identity}}

	_, err = Build(context.Background(), placements, Options{Strict: true, Logger: quietLogger()})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidDoor), "got %v", err)

	tg, err := Build(context.Background(), placements, Options{Logger: quietLogger()})
	require.NoError(t, err)
	dn, _ := tg.DoorNode(0, 0)
	assert.Nil(t, dn.Data.Entry)
}

func TestBuildErrors(t *testing.T) {
	a := box(t, 1, 600, 600)

	_, err := Build(context.Background(), []Placement{{Transform: geom.Identity}}, Options{Logger: quietLogger()})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidMap), "nil tile: %v", err)

	_, err = Build(context.Background(), []Placement{{Tile: a}}, Options{Logger: quietLogger()})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidTransform), "zero transform: %v", err)

	dup := []Placement{{Tile: a, Transform: geom.Identity}, {Tile: a, Transform: geom.Identity}}
	_, err = Build(context.Background(), dup, Options{Logger: quietLogger()})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidMap), "duplicate placement: %v", err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Build(ctx, []Placement{{Tile: a, Transform: geom.Identity}}, Options{Logger: quietLogger()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDoorTouchingNoRegionLinksAll(t *testing.T) {
	tl, err := tile.New(tile.Tile{
		Key:    5,
		Bounds: geom.Rect{Width: 600, Height: 600},
		Rooms:  []tile.Room{{ID: 0, Outline: geom.PolyFromRect(geom.Rect{Width: 600, Height: 600})}},
		Doors: []tile.Door{
			{ID: 0, Rect: geom.Rect{X: 596, Y: 280, Width: 8, Height: 40}, Rooms: [2]int{0, tile.NoRoom}, Hull: true, Meta: map[string]any{"dir": "e"}},
		},
		Navigable: []geom.Poly{
			geom.PolyFromRect(geom.Rect{X: 20, Y: 20, Width: 200, Height: 200}),
			geom.PolyFromRect(geom.Rect{X: 20, Y: 300, Width: 200, Height: 200}),
		},
	})
	require.NoError(t, err)
	tg := mustBuild(t, Placement{Tile: tl, Transform: geom.Identity})

	dn, _ := tg.DoorNode(0, 0)
	assert.Equal(t, 2, tg.Topology().OutDegree(dn.ID))
}

func TestRoundTrip(t *testing.T) {
	tg := mustBuild(t,
		Placement{Tile: box(t, 1, 600, 600, east(300)), Transform: geom.Identity},
		Placement{Tile: box(t, 2, 600, 600, west(300), south(300)), Transform: at(600, 0)},
	)

	data, err := tg.Marshal()
	require.NoError(t, err)
	back, err := graph.Unmarshal[*Node, Edge](data, quietLogger())
	require.NoError(t, err)

	orig := tg.Topology()
	assert.Equal(t, graph.IDs(orig.Nodes()), graph.IDs(back.Nodes()))
	require.Equal(t, orig.EdgeCount(), back.EdgeCount())
	for i, e := range orig.Edges() {
		got := back.Edges()[i]
		assert.Equal(t, [2]string{e.Src, e.Dst}, [2]string{got.Src, got.Dst})
		assert.Equal(t, e.Data, got.Data)
	}

	dn, _ := back.Node(DoorID(2, at(600, 0), 1))
	assert.Equal(t, KindDoor, dn.Data.Kind)
	assert.Equal(t, geom.South, dn.Data.Dir)
	assert.True(t, dn.Data.Sealed)
}

func TestDescribe(t *testing.T) {
	tg := mustBuild(t,
		Placement{Tile: box(t, 1, 600, 600, east(300)), Transform: geom.Identity},
		Placement{Tile: box(t, 2, 600, 600, west(300)), Transform: at(600, 0)},
	)
	d := tg.Describe()
	require.Len(t, d.Nodes, 4)
	assert.Equal(t, "1 nav 0", d.Nodes[0].Label)
	assert.Equal(t, "region", d.Nodes[0].Group)
	assert.Equal(t, "1 door 0 e", d.Nodes[1].Label)
	assert.Equal(t, "door", d.Nodes[1].Group)

	labels := map[string]int{}
	for _, e := range d.Edges {
		labels[e.Label]++
	}
	assert.Equal(t, 2, labels["stitch"])
	assert.Equal(t, 4, labels[""])
}

func TestDispose(t *testing.T) {
	tg := mustBuild(t,
		Placement{Tile: box(t, 1, 600, 600, east(300)), Transform: geom.Identity},
		Placement{Tile: box(t, 2, 600, 600, west(300)), Transform: at(600, 0)},
	)
	require.NotNil(t, tg.AdjacentRoomContext(0, 0))

	tg.Dispose()
	assert.Zero(t, tg.Topology().NodeCount())
	assert.Empty(t, tg.Instances())
	_, ok := tg.FindTileContaining(geom.Vec{X: 10, Y: 10})
	assert.False(t, ok)
	assert.Nil(t, tg.AdjacentRoomContext(0, 0))
	_, ok = tg.FindPath(geom.Vec{X: 10, Y: 10}, geom.Vec{X: 700, Y: 10}, nil)
	assert.False(t, ok)
}
