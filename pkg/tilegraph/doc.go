// Package tilegraph composes placed tiles into one navigable graph and
// answers point-location, adjacency and shortest-path queries over it.
//
// # Nodes
//
// Every placed tile contributes one region node per navigable polygon and
// one door node per hull door. Node ids are derived from the tile key, the
// placement transform and the polygon or hull index:
//
//	region-301-[1,0,0,1,0,0]-0
//	door-301-[1,0,0,1,0,0]-2
//
// so the same map always yields the same ids.
//
// # Stitching
//
// Two placements whose world rectangles intersect have their hull doors
// compared pairwise; doors whose world rectangles share more than a point
// are linked in both directions and marked unsealed. A door without a
// partner stays sealed: it is the edge of the world. Doors carrying
// sealed = true metadata never stitch.
//
// # Queries
//
// [Graph.FindTileContaining] and [Graph.FindRegionContaining] consult a
// grid of fixed-size cells before scanning. [Graph.FindPath] runs A* with
// door costs taken from a [DoorState] passed per call, so opening or
// closing a door never touches the graph. [Graph.AdjacentRoomContext],
// [Graph.AdjacentRoomsOf] and the predicates [Graph.IsSealed],
// [Graph.ConnectedDoorsOnSide], [Graph.SameRoom] and [Graph.OnOtherSideOf]
// serve perception and room-level logic.
//
// Absence is never an error: a point outside the map or an unreachable
// destination yields false or nil.
//
// # Lifecycle
//
// A Graph is built once per map activation and discarded with
// [Graph.Dispose]. Queries may run concurrently once [Build] returns; the
// adjacency cache is guarded, and each search keeps its state in its own
// scratch arena.
package tilegraph
