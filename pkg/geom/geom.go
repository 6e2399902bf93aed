package geom

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Epsilon is the tolerance used by intersection and containment tests.
const Epsilon = 1e-6

// Vec is a point or direction in 2D space. Y grows downward (screen space).
type Vec struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// Add returns v+o.
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Scale returns v scaled by k.
func (v Vec) Scale(k float64) Vec { return Vec{v.X * k, v.Y * k} }

// Dot returns the dot product of v and o.
func (v Vec) Dot(o Vec) float64 { return v.X*o.X + v.Y*o.Y }

// Distance returns the Euclidean distance between v and o.
func (v Vec) Distance(o Vec) float64 { return planar.Distance(v.Point(), o.Point()) }

// Point returns v as an orb point.
func (v Vec) Point() orb.Point { return orb.Point{v.X, v.Y} }

// VecOf converts an orb point.
func VecOf(p orb.Point) Vec { return Vec{p.X(), p.Y()} }

func (v Vec) String() string { return fmt.Sprintf("(%g, %g)", v.X, v.Y) }

// Rect is an axis-aligned rectangle with top-left corner (X, Y).
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromPoints returns the bounding rectangle of pts.
// The zero Rect is returned for an empty slice.
func RectFromPoints(pts ...Vec) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	mp := make(orb.MultiPoint, len(pts))
	for i, p := range pts {
		mp[i] = p.Point()
	}
	return RectOf(mp.Bound())
}

// RectOf converts an orb bound. An empty bound yields the zero Rect.
func RectOf(b orb.Bound) Rect {
	if b.IsEmpty() {
		return Rect{}
	}
	return Rect{X: b.Min.X(), Y: b.Min.Y(), Width: b.Max.X() - b.Min.X(), Height: b.Max.Y() - b.Min.Y()}
}

// Bound returns r as a closed orb bound.
func (r Rect) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{r.X, r.Y}, Max: orb.Point{r.Right(), r.Bottom()}}
}

// Right returns the maximum x coordinate.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the maximum y coordinate.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Area returns Width*Height.
func (r Rect) Area() float64 { return r.Width * r.Height }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec { return VecOf(r.Bound().Center()) }

// Corners returns the four corners in clockwise order starting top-left.
func (r Rect) Corners() [4]Vec {
	return [4]Vec{
		{r.X, r.Y},
		{r.Right(), r.Y},
		{r.Right(), r.Bottom()},
		{r.X, r.Bottom()},
	}
}

// Contains reports whether p lies inside r or on its boundary.
func (r Rect) Contains(p Vec) bool {
	return r.Bound().Pad(Epsilon).Contains(p.Point())
}

// Intersects reports whether the closed rectangles r and o share a point.
// Rectangles that only touch along an edge intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.Bound().Pad(Epsilon).Intersects(o.Bound())
}

// Overlaps reports whether r and o share more than a single point:
// either a segment of positive length or a region of positive area.
func (r Rect) Overlaps(o Rect) bool {
	if !r.Intersects(o) {
		return false
	}
	dx := math.Min(r.Right(), o.Right()) - math.Max(r.X, o.X)
	dy := math.Min(r.Bottom(), o.Bottom()) - math.Max(r.Y, o.Y)
	return dx > Epsilon || dy > Epsilon
}

// Outset returns r grown by d on every side.
func (r Rect) Outset(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%g,%g %gx%g]", r.X, r.Y, r.Width, r.Height)
}

// Poly is a simple polygon stored as a closed orb ring.
type Poly struct {
	Ring orb.Ring `json:"ring"`
}

// NewPoly builds a polygon from its outline, closing the ring if needed.
func NewPoly(outline ...Vec) Poly {
	ring := make(orb.Ring, 0, len(outline)+1)
	for _, v := range outline {
		ring = append(ring, v.Point())
	}
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return Poly{Ring: ring}
}

// Outline returns the vertices without the closing point.
func (p Poly) Outline() []Vec {
	if len(p.Ring) == 0 {
		return nil
	}
	out := make([]Vec, len(p.Ring)-1)
	for i := range out {
		out[i] = VecOf(p.Ring[i])
	}
	return out
}

// Bounds returns the bounding rectangle of the outline.
func (p Poly) Bounds() Rect { return RectOf(p.Ring.Bound()) }

// Valid reports whether the polygon is a closed ring of at least three vertices.
func (p Poly) Valid() bool { return p.Ring.Closed() }

// Area returns the enclosed area.
func (p Poly) Area() float64 { return math.Abs(planar.Area(p.Ring)) }

// Contains reports whether pt lies inside the polygon. Points on the
// boundary are inside.
func (p Poly) Contains(pt Vec) bool {
	if len(p.Ring) == 0 {
		return false
	}
	return planar.RingContains(p.Ring, pt.Point())
}

// Transform returns the polygon with every vertex mapped by m.
func (p Poly) Transform(m Mat) Poly {
	ring := make(orb.Ring, len(p.Ring))
	for i, v := range p.Ring {
		ring[i] = m.Apply(VecOf(v)).Point()
	}
	return Poly{Ring: ring}
}

// PolyFromRect returns the rectangle as a closed four-vertex ring.
func PolyFromRect(r Rect) Poly { return Poly{Ring: r.Bound().ToRing()} }
