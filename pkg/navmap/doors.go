package navmap

import (
	"slices"
	"sync"

	"github.com/matzehuels/tilenav/pkg/tilegraph"
)

// DoorStore records which doors are closed. Doors are open by default.
// It is safe for concurrent use.
type DoorStore struct {
	mu     sync.RWMutex
	closed map[tilegraph.DoorKey]bool
}

// NewDoorStore returns a store with every door open.
func NewDoorStore() *DoorStore {
	return &DoorStore{closed: make(map[tilegraph.DoorKey]bool)}
}

// IsOpen implements tilegraph.DoorState.
func (s *DoorStore) IsOpen(k tilegraph.DoorKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.closed[k]
}

// Open opens the given doors.
func (s *DoorStore) Open(keys ...tilegraph.DoorKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.closed, k)
	}
}

// Close closes the given doors.
func (s *DoorStore) Close(keys ...tilegraph.DoorKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		s.closed[k] = true
	}
}

// Toggle flips the first door and sets the rest to match. It returns the
// new state: true if open.
func (s *DoorStore) Toggle(keys ...tilegraph.DoorKey) bool {
	if len(keys) == 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	open := s.closed[keys[0]]
	for _, k := range keys {
		if open {
			delete(s.closed, k)
		} else {
			s.closed[k] = true
		}
	}
	return open
}

// Closed returns the closed doors, ordered by tile then door.
func (s *DoorStore) Closed() []tilegraph.DoorKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]tilegraph.DoorKey, 0, len(s.closed))
	for k := range s.closed {
		out = append(out, k)
	}
	slices.SortFunc(out, func(a, b tilegraph.DoorKey) int {
		if a.Tile != b.Tile {
			return a.Tile - b.Tile
		}
		return a.Door - b.Door
	})
	return out
}

// Reset opens every door.
func (s *DoorStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.closed)
}
