package tile

import (
	"bytes"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tilenav/pkg/errors"
	"github.com/matzehuels/tilenav/pkg/geom"
)

// Catalog maps tile keys to tile records.
type Catalog map[int]*Tile

// Keys returns the tile keys in ascending order.
func (c Catalog) Keys() []int {
	keys := make([]int, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Placement puts the tile with key Tile into the world with Transform.
type Placement struct {
	Tile      int
	Transform geom.Mat
}

// Map is a named, ordered list of placements.
type Map struct {
	Name       string
	Placements []Placement
}

// File is the decoded content of a tile document.
type File struct {
	Tiles Catalog
	Maps  []Map
}

// Map returns the map with the given name.
func (f *File) Map(name string) (Map, bool) {
	for _, m := range f.Maps {
		if m.Name == name {
			return m, true
		}
	}
	return Map{}, false
}

// =============================================================================
// TOML Wire Types
// =============================================================================

type fileDoc struct {
	Tiles []tileDoc `toml:"tiles"`
	Maps  []mapDoc  `toml:"maps"`
}

type tileDoc struct {
	Key       int         `toml:"key"`
	Name      string      `toml:"name"`
	Bounds    []float64   `toml:"bounds"`
	Rooms     []polyDoc   `toml:"rooms"`
	Doors     []doorDoc   `toml:"doors"`
	Windows   []windowDoc `toml:"windows"`
	Navigable []polyDoc   `toml:"navigable"`
}

type polyDoc struct {
	Outline [][]float64 `toml:"outline"`
}

type doorDoc struct {
	Rect  []float64      `toml:"rect"`
	Rooms []int          `toml:"rooms"`
	Hull  bool           `toml:"hull"`
	Meta  map[string]any `toml:"meta"`
}

type windowDoc struct {
	Rect  []float64 `toml:"rect"`
	Rooms []int     `toml:"rooms"`
}

type mapDoc struct {
	Name       string         `toml:"name"`
	Placements []placementDoc `toml:"placements"`
}

type placementDoc struct {
	Tile      int       `toml:"tile"`
	Transform []float64 `toml:"transform"`
}

// =============================================================================
// Loading
// =============================================================================

// LoadFile reads and decodes a tile document from path.
func LoadFile(path string) (*File, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	f, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "load %s", path)
	}
	return f, nil
}

// Decode decodes a tile document. Every tile is validated with [New] and
// every placement must reference a tile of the catalog.
func Decode(r io.Reader) (*File, error) {
	var doc fileDoc
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
	}

	f := &File{Tiles: make(Catalog, len(doc.Tiles))}
	for i, td := range doc.Tiles {
		t, err := td.build()
		if err != nil {
			return nil, err
		}
		if _, dup := f.Tiles[t.Key]; dup {
			return nil, errors.New(errors.ErrCodeInvalidTile, "tiles[%d]: duplicate key %d", i, t.Key)
		}
		f.Tiles[t.Key] = t
	}

	for i, md := range doc.Maps {
		if err := errors.ValidateName(md.Name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidMap, err, "maps[%d]", i)
		}
		if _, dup := f.Map(md.Name); dup {
			return nil, errors.New(errors.ErrCodeInvalidMap, "maps[%d]: duplicate name %q", i, md.Name)
		}
		m := Map{Name: md.Name, Placements: make([]Placement, len(md.Placements))}
		for j, pd := range md.Placements {
			if _, ok := f.Tiles[pd.Tile]; !ok {
				return nil, errors.New(errors.ErrCodeUnknownTile, "map %q placement %d: unknown tile %d", md.Name, j, pd.Tile)
			}
			tr := geom.Identity
			if len(pd.Transform) > 0 {
				if len(pd.Transform) != 6 {
					return nil, errors.New(errors.ErrCodeInvalidTransform, "map %q placement %d: transform needs 6 values, got %d", md.Name, j, len(pd.Transform))
				}
				arr := [6]float64(pd.Transform)
				if err := errors.ValidateTransform(arr); err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidTransform, err, "map %q placement %d", md.Name, j)
				}
				tr = geom.MatFromArray(arr)
			}
			m.Placements[j] = Placement{Tile: pd.Tile, Transform: tr}
		}
		f.Maps = append(f.Maps, m)
	}
	return f, nil
}

func (td tileDoc) build() (*Tile, error) {
	bounds, err := rectOf(td.Bounds)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTile, err, "tile %d bounds", td.Key)
	}
	t := Tile{Key: td.Key, Name: td.Name, Bounds: bounds}

	for i, rd := range td.Rooms {
		p, err := rd.poly()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTile, err, "tile %d room %d", td.Key, i)
		}
		t.Rooms = append(t.Rooms, Room{ID: i, Outline: p})
	}
	for i, dd := range td.Doors {
		r, err := rectOf(dd.Rect)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDoor, err, "tile %d door %d", td.Key, i)
		}
		rooms, err := pairOf(dd.Rooms)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDoor, err, "tile %d door %d", td.Key, i)
		}
		t.Doors = append(t.Doors, Door{ID: i, Rect: r, Rooms: rooms, Hull: dd.Hull, Meta: dd.Meta})
	}
	for i, wd := range td.Windows {
		r, err := rectOf(wd.Rect)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTile, err, "tile %d window %d", td.Key, i)
		}
		rooms, err := pairOf(wd.Rooms)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTile, err, "tile %d window %d", td.Key, i)
		}
		t.Windows = append(t.Windows, Window{ID: i, Rect: r, Rooms: rooms})
	}
	for i, nd := range td.Navigable {
		p, err := nd.poly()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTile, err, "tile %d navigable %d", td.Key, i)
		}
		t.Navigable = append(t.Navigable, p)
	}
	return New(t)
}

func (pd polyDoc) poly() (geom.Poly, error) {
	out := make([]geom.Vec, len(pd.Outline))
	for i, pt := range pd.Outline {
		if len(pt) != 2 {
			return geom.Poly{}, errors.New(errors.ErrCodeInvalidFormat, "point %d has %d coordinates, want 2", i, len(pt))
		}
		out[i] = geom.Vec{X: pt[0], Y: pt[1]}
	}
	return geom.NewPoly(out...), nil
}

func rectOf(v []float64) (geom.Rect, error) {
	if len(v) != 4 {
		return geom.Rect{}, errors.New(errors.ErrCodeInvalidFormat, "rect needs [x, y, width, height], got %d values", len(v))
	}
	if v[2] < 0 || v[3] < 0 {
		return geom.Rect{}, errors.New(errors.ErrCodeInvalidFormat, "rect %v has negative size", v)
	}
	return geom.Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

func pairOf(v []int) ([2]int, error) {
	switch len(v) {
	case 1:
		return [2]int{v[0], NoRoom}, nil
	case 2:
		return [2]int{v[0], v[1]}, nil
	}
	return [2]int{NoRoom, NoRoom}, errors.New(errors.ErrCodeInvalidFormat, "rooms needs 1 or 2 ids, got %d", len(v))
}
