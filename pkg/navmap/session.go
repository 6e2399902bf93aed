package navmap

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/tilenav/pkg/errors"
	"github.com/matzehuels/tilenav/pkg/roomgraph"
	"github.com/matzehuels/tilenav/pkg/tile"
	"github.com/matzehuels/tilenav/pkg/tilegraph"
)

// Options configures a [Session].
type Options struct {
	// Graph tunes tile graph construction. Its Logger defaults to Logger.
	Graph tilegraph.Options

	// Logger receives activation logs. Defaults to log.Default().
	Logger *log.Logger
}

// Activation is the navigation state of one activated map.
type Activation struct {
	ID        uuid.UUID
	Map       string
	Tiles     *tilegraph.Graph
	Rooms     *roomgraph.Graph
	Activated time.Time
}

// Linked returns k together with the door stitched to it, if k is a
// stitched hull door. Opening or closing a passage should flip both.
func (a *Activation) Linked(k tilegraph.DoorKey) []tilegraph.DoorKey {
	out := []tilegraph.DoorKey{k}
	in, ok := a.Tiles.Instance(k.Tile)
	if !ok {
		return out
	}
	h, ok := in.Tile.HullIndex(k.Door)
	if !ok {
		return out
	}
	if far := a.Tiles.AdjacentRoomContext(k.Tile, h); far != nil {
		out = append(out, tilegraph.DoorKey{Tile: far.Tile, Door: far.Door})
	}
	return out
}

func (a *Activation) dispose() {
	a.Rooms.Dispose()
	a.Tiles.Dispose()
}

// Session holds at most one activation at a time.
// It is safe for concurrent use.
type Session struct {
	mu     sync.RWMutex
	opts   Options
	logger *log.Logger
	active *Activation
}

// NewSession creates a session with no active map.
func NewSession(opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Graph.Logger == nil {
		opts.Graph.Logger = opts.Logger
	}
	return &Session{opts: opts, logger: opts.Logger}
}

// Activate replaces the active map with m, resolving its placements in
// catalog. The previous activation is disposed first, even if building
// the new one fails.
func (s *Session) Activate(ctx context.Context, m tile.Map, catalog tile.Catalog) (*Activation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		s.logger.Debug("disposing map", "map", s.active.Map, "activation", s.active.ID)
		s.active.dispose()
		s.active = nil
	}

	placements, err := Resolve(m, catalog)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	tg, err := tilegraph.Build(ctx, placements, s.opts.Graph)
	if err != nil {
		return nil, wrapBuild(err, "tile", m.Name)
	}
	rg, err := roomgraph.Build(ctx, tg, roomgraph.Options{Logger: s.logger})
	if err != nil {
		tg.Dispose()
		return nil, wrapBuild(err, "room", m.Name)
	}

	a := &Activation{
		ID:        uuid.New(),
		Map:       m.Name,
		Tiles:     tg,
		Rooms:     rg,
		Activated: time.Now(),
	}
	s.active = a
	s.logger.Info("map activated",
		"map", m.Name,
		"activation", a.ID,
		"tiles", len(placements),
		"nodes", tg.Topology().NodeCount(),
		"rooms", rg.RoomCount(),
		"took", time.Since(start).Round(time.Millisecond))
	return a, nil
}

// Active returns the current activation.
func (s *Session) Active() (*Activation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active, s.active != nil
}

// Dispose drops the current activation and clears its graphs.
func (s *Session) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		s.active.dispose()
		s.active = nil
	}
}

// Resolve turns a map's placements into tile graph placements.
func Resolve(m tile.Map, catalog tile.Catalog) ([]tilegraph.Placement, error) {
	if len(m.Placements) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidMap, "map %q has no placements", m.Name)
	}
	out := make([]tilegraph.Placement, len(m.Placements))
	for i, p := range m.Placements {
		t, ok := catalog[p.Tile]
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownTile, "map %q placement %d: unknown tile %d", m.Name, i, p.Tile)
		}
		out[i] = tilegraph.Placement{Tile: t, Transform: p.Transform}
	}
	return out, nil
}

// wrapBuild keeps the code of a coded build error and marks anything else
// (cancellation included) as internal.
func wrapBuild(err error, kind, name string) error {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return errors.Wrap(code, err, "build %s graph for %q", kind, name)
}
