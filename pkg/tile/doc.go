// Package tile holds the immutable records that describe one prefabricated
// map tile ("geomorph") in its own local coordinate space.
//
// A [Tile] lists its rooms as outline polygons, its doors and windows as
// rectangles classified by the two rooms they join, and a decomposition of
// its walkable area into disjoint navigable polygons. Doors on the tile's
// outer wall are hull doors: candidates for joining a neighboring tile.
//
// Tiles are built with [New], which validates ids and precomputes the hull
// door list and per-room adjacency. After that a tile is never mutated and
// may be shared by any number of placements.
//
// # Loading
//
// [LoadFile] and [Decode] read a TOML document holding a catalog of tiles
// and any number of named maps, each map being an ordered list of
// placements (tile key plus affine transform):
//
//	[[tiles]]
//	key = 101
//	bounds = [0, 0, 600, 600]
//
//	[[tiles.rooms]]
//	outline = [[0, 0], [600, 0], [600, 600], [0, 600]]
//
//	[[tiles.doors]]
//	rect = [596, 280, 4, 40]
//	rooms = [0, -1]
//	hull = true
//	meta = { dir = "e" }
//
//	[[maps]]
//	name = "demo"
//	placements = [{ tile = 101, transform = [1, 0, 0, 1, 0, 0] }]
//
// # Room Location
//
// [PolygonLocator] is the default point-in-room classifier: it tests room
// outlines and, when asked, door rectangles.
package tile
