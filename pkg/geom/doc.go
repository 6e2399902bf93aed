// Package geom provides the small amount of planar geometry the navigation
// graphs need: points, axis-aligned rectangles, simple polygons, affine
// transforms in the canvas convention, and compass directions.
//
// Coordinates are in screen space, so y grows downward and [North] points
// toward negative y. Transforms are written as [a, b, c, d, e, f]:
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
//
// which matches the placement transforms tile authors use when laying out
// a map.
//
// Polygons are stored as closed [orb.Ring] values, and distance and
// point-in-polygon tests come from the orb planar package. [Vec.Point],
// [VecOf], [Rect.Bound] and [RectOf] convert between the two.
package geom
