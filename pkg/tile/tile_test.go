package tile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/tilenav/pkg/errors"
	"github.com/matzehuels/tilenav/pkg/geom"
)

func square(x, y, size float64) geom.Poly {
	return geom.PolyFromRect(geom.Rect{X: x, Y: y, Width: size, Height: size})
}

// twoRooms is a 600x300 tile split into a west and an east room by an
// internal door, with a hull door on each end and a window between rooms.
func twoRooms(t *testing.T) *Tile {
	t.Helper()
	tl, err := New(Tile{
		Key:    102,
		Bounds: geom.Rect{Width: 600, Height: 300},
		Rooms: []Room{
			{ID: 0, Outline: geom.PolyFromRect(geom.Rect{Width: 300, Height: 300})},
			{ID: 1, Outline: geom.PolyFromRect(geom.Rect{X: 300, Width: 300, Height: 300})},
		},
		Doors: []Door{
			{ID: 0, Rect: geom.Rect{X: 0, Y: 130, Width: 4, Height: 40}, Rooms: [2]int{0, NoRoom}, Hull: true, Meta: map[string]any{"dir": "w"}},
			{ID: 1, Rect: geom.Rect{X: 296, Y: 130, Width: 8, Height: 40}, Rooms: [2]int{0, 1}},
			{ID: 2, Rect: geom.Rect{X: 596, Y: 130, Width: 4, Height: 40}, Rooms: [2]int{NoRoom, 1}, Hull: true, Meta: map[string]any{"dir": "east"}},
		},
		Windows: []Window{
			{ID: 0, Rect: geom.Rect{X: 296, Y: 20, Width: 8, Height: 30}, Rooms: [2]int{0, 1}},
		},
		Navigable: []geom.Poly{geom.PolyFromRect(geom.Rect{Width: 600, Height: 300})},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tl
}

func TestNewDerivedIndices(t *testing.T) {
	tl := twoRooms(t)

	if got := tl.HullDoors(); len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Fatalf("HullDoors() = %v, want [0 2]", got)
	}
	if h, ok := tl.HullIndex(2); !ok || h != 1 {
		t.Errorf("HullIndex(2) = %d, %v", h, ok)
	}
	if _, ok := tl.HullIndex(1); ok {
		t.Error("internal door should have no hull index")
	}
	d, ok := tl.HullDoor(1)
	if !ok || d.ID != 2 {
		t.Errorf("HullDoor(1) = %v, %v", d.ID, ok)
	}

	adj, ok := tl.Adjacency(0)
	if !ok {
		t.Fatal("Adjacency(0) missing")
	}
	if len(adj.Doors) != 2 || adj.Doors[0] != 0 || adj.Doors[1] != 1 {
		t.Errorf("room 0 doors = %v, want [0 1]", adj.Doors)
	}
	if len(adj.Windows) != 1 {
		t.Errorf("room 0 windows = %v", adj.Windows)
	}
	if _, ok := tl.Adjacency(5); ok {
		t.Error("Adjacency(5) should not exist")
	}
}

func TestDoorHelpers(t *testing.T) {
	tl := twoRooms(t)

	if r := tl.Doors[2].LocalRoom(); r != 1 {
		t.Errorf("LocalRoom() = %d, want 1", r)
	}
	if r := tl.Doors[1].Other(0); r != 1 {
		t.Errorf("Other(0) = %d, want 1", r)
	}
	if r := tl.Doors[1].Other(7); r != NoRoom {
		t.Errorf("Other(7) = %d, want NoRoom", r)
	}
	if r := tl.Windows[0].Other(1); r != 0 {
		t.Errorf("window Other(1) = %d, want 0", r)
	}
	if tl.Doors[1].Horizontal() {
		t.Error("a tall doorway is not horizontal")
	}

	dir, err := tl.Doors[2].Direction()
	if err != nil || dir != geom.East {
		t.Errorf("Direction() = %v, %v", dir, err)
	}
	if _, err := tl.Doors[1].Direction(); err == nil {
		t.Error("door without metadata should fail to parse")
	}
	bad := Door{ID: 9, Meta: map[string]any{"dir": 3}}
	if _, err := bad.Direction(); err == nil {
		t.Error("non-string direction should fail")
	}

	sealed := Door{Meta: map[string]any{"sealed": true}}
	if !sealed.Sealed() || tl.Doors[0].Sealed() {
		t.Error("Sealed() mismatch")
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		tile Tile
		code errors.Code
	}{
		{"no area", Tile{Key: 1}, errors.ErrCodeInvalidTile},
		{
			"room id mismatch",
			Tile{Key: 1, Bounds: geom.Rect{Width: 10, Height: 10}, Rooms: []Room{{ID: 3, Outline: square(0, 0, 10)}}},
			errors.ErrCodeInvalidTile,
		},
		{
			"door to unknown room",
			Tile{Key: 1, Bounds: geom.Rect{Width: 10, Height: 10}, Doors: []Door{{ID: 0, Rooms: [2]int{4, NoRoom}}}},
			errors.ErrCodeInvalidDoor,
		},
		{
			"hull door outside",
			Tile{Key: 1, Bounds: geom.Rect{Width: 10, Height: 10}, Doors: []Door{{ID: 0, Rooms: [2]int{NoRoom, NoRoom}, Hull: true}}},
			errors.ErrCodeInvalidDoor,
		},
		{
			"degenerate navigable",
			Tile{Key: 1, Bounds: geom.Rect{Width: 10, Height: 10}, Navigable: []geom.Poly{{}}},
			errors.ErrCodeInvalidTile,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.tile)
			if !errors.Is(err, tt.code) {
				t.Errorf("New() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestPolygonLocator(t *testing.T) {
	tl := twoRooms(t)
	var loc PolygonLocator

	tests := []struct {
		name         string
		p            geom.Vec
		includeDoors bool
		want         int
		ok           bool
	}{
		{"west room", geom.Vec{X: 100, Y: 100}, false, 0, true},
		{"east room", geom.Vec{X: 450, Y: 100}, false, 1, true},
		{"outside", geom.Vec{X: 700, Y: 100}, false, NoRoom, false},
		{"inside east doorway", geom.Vec{X: 599, Y: 150}, false, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := loc.RoomAt(tl, tt.p, tt.includeDoors)
			if got != tt.want || ok != tt.ok {
				t.Errorf("RoomAt(%v) = %d, %v, want %d, %v", tt.p, got, ok, tt.want, tt.ok)
			}
		})
	}

	// A doorway poking out of the room outlines resolves only with doors.
	poke, err := New(Tile{
		Key:    7,
		Bounds: geom.Rect{Width: 100, Height: 120},
		Rooms:  []Room{{ID: 0, Outline: square(0, 0, 100)}},
		Doors:  []Door{{ID: 0, Rect: geom.Rect{X: 40, Y: 100, Width: 20, Height: 20}, Rooms: [2]int{0, NoRoom}, Hull: true}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := loc.RoomAt(poke, geom.Vec{X: 50, Y: 110}, false); ok {
		t.Error("doorway point should not be in a room without includeDoors")
	}
	if r, ok := loc.RoomAt(poke, geom.Vec{X: 50, Y: 110}, true); !ok || r != 0 {
		t.Errorf("doorway point with includeDoors = %d, %v", r, ok)
	}
}

const demoDoc = `
[[tiles]]
key = 101
name = "cell"
bounds = [0, 0, 600, 600]

[[tiles.rooms]]
outline = [[0, 0], [600, 0], [600, 600], [0, 600]]

[[tiles.doors]]
rect = [596, 280, 4, 40]
rooms = [0]
hull = true
meta = { dir = "e" }

[[tiles.windows]]
rect = [0, 100, 4, 40]
rooms = [0, -1]

[[tiles.navigable]]
outline = [[10, 10], [590, 10], [590, 590], [10, 590]]

[[maps]]
name = "pair"
placements = [
  { tile = 101 },
  { tile = 101, transform = [-1, 0, 0, 1, 1200, 0] },
]
`

func TestDecode(t *testing.T) {
	f, err := Decode(strings.NewReader(demoDoc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	tl, ok := f.Tiles[101]
	if !ok {
		t.Fatal("tile 101 missing")
	}
	if tl.Label() != "cell" || len(tl.Rooms) != 1 || len(tl.Doors) != 1 || len(tl.Navigable) != 1 {
		t.Errorf("unexpected tile %+v", tl)
	}
	if tl.Doors[0].Rooms != [2]int{0, NoRoom} {
		t.Errorf("door rooms = %v", tl.Doors[0].Rooms)
	}
	if dir, err := tl.Doors[0].Direction(); err != nil || dir != geom.East {
		t.Errorf("door direction = %v, %v", dir, err)
	}
	if got := f.Tiles.Keys(); len(got) != 1 || got[0] != 101 {
		t.Errorf("Keys() = %v", got)
	}

	m, ok := f.Map("pair")
	if !ok || len(m.Placements) != 2 {
		t.Fatalf("map pair = %+v, %v", m, ok)
	}
	if m.Placements[0].Transform != geom.Identity {
		t.Errorf("default transform = %v", m.Placements[0].Transform)
	}
	if m.Placements[1].Transform.E != 1200 || m.Placements[1].Transform.A != -1 {
		t.Errorf("transform = %v", m.Placements[1].Transform)
	}
	if _, ok := f.Map("missing"); ok {
		t.Error("Map(missing) should not exist")
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errors.Code
	}{
		{"bad toml", "[[tiles]\n", errors.ErrCodeInvalidFormat},
		{"short bounds", "[[tiles]]\nkey = 1\nbounds = [0, 0, 5]\n", errors.ErrCodeInvalidTile},
		{"unknown tile", "[[maps]]\nname = \"m\"\nplacements = [{ tile = 9 }]\n", errors.ErrCodeUnknownTile},
		{
			"singular transform",
			"[[tiles]]\nkey = 1\nbounds = [0, 0, 5, 5]\n[[maps]]\nname = \"m\"\nplacements = [{ tile = 1, transform = [0, 0, 0, 0, 0, 0] }]\n",
			errors.ErrCodeInvalidTransform,
		},
		{
			"duplicate key",
			"[[tiles]]\nkey = 1\nbounds = [0, 0, 5, 5]\n[[tiles]]\nkey = 1\nbounds = [0, 0, 5, 5]\n",
			errors.ErrCodeInvalidTile,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			if !errors.Is(err, tt.code) {
				t.Errorf("Decode() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.toml")
	if err := os.WriteFile(path, []byte(demoDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(f.Maps) != 1 {
		t.Errorf("maps = %d, want 1", len(f.Maps))
	}

	_, err = LoadFile(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
}
