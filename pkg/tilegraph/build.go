package tilegraph

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tilenav/pkg/errors"
	"github.com/matzehuels/tilenav/pkg/geom"
	"github.com/matzehuels/tilenav/pkg/graph"
	"github.com/matzehuels/tilenav/pkg/observability"
)

// Graph is the tile graph of one map activation: region and door nodes of
// every placed tile, stitched across tiles, plus the indices that serve
// point-location and adjacency queries.
type Graph struct {
	g         *graph.Graph[*Node, Edge]
	instances []*Instance
	bySize    []int // instance ids, smallest area first
	grid      map[cell]int
	opts      Options
	logger    *log.Logger

	mu        sync.Mutex
	adjacency map[HullKey]*AdjacentContext
}

// Build composes the placements into one tile graph.
//
// Construction runs in order: region and door nodes per placement, local
// region/door edges, stitching of coinciding hull doors across placements,
// door entry waypoints, the spatial grid, and finally the neighbor lists
// used by [Graph.FindPath].
func Build(ctx context.Context, placements []Placement, opts Options) (*Graph, error) {
	opts.SetDefaults()
	hooks := observability.Graph()
	hooks.OnBuildStart(ctx, "tile", len(placements))
	start := time.Now()

	tg, err := build(ctx, placements, opts)

	var nodes, edges int
	if tg != nil {
		nodes, edges = tg.g.NodeCount(), tg.g.EdgeCount()
	}
	hooks.OnBuildComplete(ctx, "tile", nodes, edges, time.Since(start), err)
	return tg, err
}

func build(ctx context.Context, placements []Placement, opts Options) (*Graph, error) {
	tg := &Graph{
		g:         graph.New[*Node, Edge](opts.Logger),
		grid:      make(map[cell]int),
		opts:      opts,
		logger:    opts.Logger,
		adjacency: make(map[HullKey]*AdjacentContext),
	}

	for i, p := range placements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		in, err := newInstance(i, p)
		if err != nil {
			return nil, err
		}
		tg.instances = append(tg.instances, in)
		if err := tg.addNodes(in); err != nil {
			return nil, err
		}
		tg.connectLocal(in)
	}

	pairs := tg.stitch()
	if err := tg.computeEntries(); err != nil {
		return nil, err
	}
	tg.buildGrid()
	tg.g.BuildNeighbors()

	tg.logger.Debug("tile graph built",
		"tiles", len(tg.instances),
		"nodes", tg.g.NodeCount(),
		"edges", tg.g.EdgeCount(),
		"stitched", pairs,
		"cells", len(tg.grid))
	return tg, nil
}

func (tg *Graph) addNodes(in *Instance) error {
	for nav := range in.Tile.Navigable {
		n, err := tg.g.AddNode(RegionID(in.Tile.Key, in.Transform, nav), newRegionNode(in, nav))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidMap, err, "placement %d region %d", in.ID, nav)
		}
		in.regions = append(in.regions, n.Index)
	}
	slices.SortStableFunc(in.regions, func(a, b int) int {
		return cmp.Compare(tg.g.NodeAt(a).Data.Rect.Area(), tg.g.NodeAt(b).Data.Rect.Area())
	})

	for h := range in.Tile.HullDoors() {
		dn := newDoorNode(in, h)
		door, _ := in.Tile.HullDoor(h)
		dir, err := door.Direction()
		switch {
		case err == nil:
			dn.Dir = dir.Transform(in.Transform)
		case dn.Boundary:
			// Boundary doors never stitch, so they need no direction.
		case tg.opts.Strict:
			return errors.Wrap(errors.ErrCodeInvalidDoor, err, "tile %d hull door %d", in.Tile.Key, h)
		default:
			tg.logger.Warn("hull door direction unknown", "tile", in.Tile.Key, "door", door.ID, "err", err)
		}
		n, err := tg.g.AddNode(DoorID(in.Tile.Key, in.Transform, h), dn)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidMap, err, "placement %d hull door %d", in.ID, h)
		}
		in.doors = append(in.doors, n.Index)
	}
	return nil
}

// connectLocal links every door of a placement to the regions its world
// rectangle touches. A door touching no region is linked to all of them.
func (tg *Graph) connectLocal(in *Instance) {
	for _, di := range in.doors {
		door := tg.g.NodeAt(di)
		touched := 0
		for _, ri := range in.regions {
			region := tg.g.NodeAt(ri)
			if door.Data.Rect.Intersects(region.Data.Rect) {
				tg.link(door, region, Edge{})
				touched++
			}
		}
		if touched > 0 {
			continue
		}
		tg.logger.Debug("door touches no region, linking all", "door", door.ID, "regions", len(in.regions))
		for _, ri := range in.regions {
			tg.link(door, tg.g.NodeAt(ri), Edge{})
		}
	}
}

func (tg *Graph) link(a, b *graph.Node[*Node], e Edge) {
	_, _ = tg.g.Connect(a.ID, b.ID, e)
	_, _ = tg.g.Connect(b.ID, a.ID, e)
}

// stitch links hull doors of different placements whose world rectangles
// share more than a point. It returns the number of stitched pairs.
func (tg *Graph) stitch() int {
	pairs := 0
	for i, a := range tg.instances {
		for _, b := range tg.instances[i+1:] {
			if !a.Rect.Intersects(b.Rect) {
				continue
			}
			for _, di := range a.doors {
				da := tg.g.NodeAt(di)
				if da.Data.Boundary {
					continue
				}
				for _, dj := range b.doors {
					db := tg.g.NodeAt(dj)
					if db.Data.Boundary || !da.Data.Rect.Overlaps(db.Data.Rect) {
						continue
					}
					tg.link(da, db, Edge{Stitched: true})
					da.Data.Sealed = false
					db.Data.Sealed = false
					pairs++
					if da.Data.Dir.Valid() && db.Data.Dir.Valid() && da.Data.Dir != db.Data.Dir.Opposite() {
						tg.logger.Debug("stitched doors do not face each other", "a", da.ID, "b", db.ID)
					}
				}
			}
		}
	}
	return pairs
}

// computeEntries places each door's entry waypoint EntryOffset inside the
// tile from the door's center, against its outward direction.
func (tg *Graph) computeEntries() error {
	for _, in := range tg.instances {
		for h, di := range in.doors {
			dn := tg.g.NodeAt(di).Data
			door, _ := in.Tile.HullDoor(h)
			dir, err := door.Direction()
			if err != nil {
				continue
			}
			local := door.Rect.Center().Sub(dir.Vec().Scale(tg.opts.EntryOffset))
			if !in.Tile.Bounds.Contains(local) {
				if tg.opts.Strict {
					return errors.New(errors.ErrCodeInvalidDoor,
						"tile %d hull door %d: entry %v lies outside tile bounds", in.Tile.Key, h, local)
				}
				tg.logger.Warn("door entry outside tile", "tile", in.Tile.Key, "door", door.ID, "entry", local)
				continue
			}
			world := in.ToWorld(local)
			dn.Entry = &world
		}
	}
	return nil
}

// Logger returns the logger the graph reports on.
func (tg *Graph) Logger() *log.Logger { return tg.logger }

// Options returns the effective build options.
func (tg *Graph) Options() Options { return tg.opts }

// Topology returns the underlying generic graph. Callers must not mutate it.
func (tg *Graph) Topology() *graph.Graph[*Node, Edge] { return tg.g }

// Instances returns the placed tiles in build order.
func (tg *Graph) Instances() []*Instance { return tg.instances }

// Instance returns the placed tile with the given id.
func (tg *Graph) Instance(id int) (*Instance, bool) {
	if id < 0 || id >= len(tg.instances) {
		return nil, false
	}
	return tg.instances[id], true
}

// Regions returns the region nodes of a placed tile, smallest area first.
func (tg *Graph) Regions(tileID int) []*graph.Node[*Node] {
	in, ok := tg.Instance(tileID)
	if !ok {
		return nil
	}
	out := make([]*graph.Node[*Node], len(in.regions))
	for i, ri := range in.regions {
		out[i] = tg.g.NodeAt(ri)
	}
	return out
}

// DoorNode returns the node of hull door hullIdx of a placed tile.
func (tg *Graph) DoorNode(tileID, hullIdx int) (*graph.Node[*Node], bool) {
	in, ok := tg.Instance(tileID)
	if !ok || hullIdx < 0 || hullIdx >= len(in.doors) {
		return nil, false
	}
	return tg.g.NodeAt(in.doors[hullIdx]), true
}

// Dispose clears every node, edge, index and cache. The graph is empty
// afterwards and answers every query with absence.
func (tg *Graph) Dispose() {
	tg.mu.Lock()
	defer tg.mu.Unlock()
	tg.g.Clear()
	clear(tg.grid)
	clear(tg.adjacency)
	tg.instances = nil
	tg.bySize = nil
}

func doorEntry(n *Node) *geom.Vec {
	if n == nil || n.Entry == nil {
		return nil
	}
	e := *n.Entry
	return &e
}
