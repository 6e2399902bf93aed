// Package navmap owns the navigation graphs of the active map.
//
// A [Session] builds the tile graph and the room graph when a map is
// activated and disposes both when the next map replaces it, so memory is
// bounded by the current map. Each activation gets a fresh id for log
// correlation.
//
// [DoorStore] is a simple door-state store. It satisfies
// tilegraph.DoorState, so it can be handed straight to FindPath and
// AdjacentRoomsOf; flipping a door never touches graph topology.
package navmap
