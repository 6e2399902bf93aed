package tilegraph

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/tilenav/pkg/geom"
	"github.com/matzehuels/tilenav/pkg/graph"
)

type cell struct{ x, y int }

func (tg *Graph) cellOf(p geom.Vec) cell {
	s := tg.opts.GridCellSize
	return cell{int(math.Floor(p.X / s)), int(math.Floor(p.Y / s))}
}

// buildGrid maps every cell a placed tile covers to that tile. Tiles are
// written largest first, so smaller tiles own the cells they share.
func (tg *Graph) buildGrid() {
	order := make([]int, len(tg.instances))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(tg.instances[b].Rect.Area(), tg.instances[a].Rect.Area())
	})

	s := tg.opts.GridCellSize
	for _, id := range order {
		r := tg.instances[id].Rect
		x0, y0 := int(math.Floor(r.X/s)), int(math.Floor(r.Y/s))
		x1 := max(x0, int(math.Ceil(r.Right()/s))-1)
		y1 := max(y0, int(math.Ceil(r.Bottom()/s))-1)
		for x := x0; x <= x1; x++ {
			for y := y0; y <= y1; y++ {
				tg.grid[cell{x, y}] = id
			}
		}
	}

	slices.Reverse(order)
	tg.bySize = order
}

// candidates returns the placed tiles containing p: the grid owner first,
// then any other containing tile, smallest first.
func (tg *Graph) candidates(p geom.Vec) []*Instance {
	var out []*Instance
	owner, ok := tg.grid[tg.cellOf(p)]
	if ok && tg.instances[owner].Rect.Contains(p) {
		out = append(out, tg.instances[owner])
	}
	for _, id := range tg.bySize {
		if ok && id == owner {
			continue
		}
		if tg.instances[id].Rect.Contains(p) {
			out = append(out, tg.instances[id])
		}
	}
	return out
}

// FindTileContaining returns the placed tile containing the world point p.
// The grid answers in constant time; a linear scan covers cells whose owner
// does not contain p.
func (tg *Graph) FindTileContaining(p geom.Vec) (*Instance, bool) {
	if owner, ok := tg.grid[tg.cellOf(p)]; ok && tg.instances[owner].Rect.Contains(p) {
		return tg.instances[owner], true
	}
	for _, id := range tg.bySize {
		if tg.instances[id].Rect.Contains(p) {
			tg.logger.Debug("grid miss, found by scan", "point", p, "tile", id)
			return tg.instances[id], true
		}
	}
	return nil, false
}

// FindRegionContaining returns the region node whose navigable polygon
// contains the world point p. Regions of a tile are tried smallest first.
func (tg *Graph) FindRegionContaining(p geom.Vec) (*graph.Node[*Node], bool) {
	for _, in := range tg.candidates(p) {
		for _, ri := range in.regions {
			n := tg.g.NodeAt(ri)
			if n.Data.Contains(p) {
				return n, true
			}
		}
	}
	return nil, false
}
