package cli

import (
	"bytes"
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tilenav/pkg/cache"
	"github.com/matzehuels/tilenav/pkg/errors"
	"github.com/matzehuels/tilenav/pkg/geom"
	"github.com/matzehuels/tilenav/pkg/navmap"
	"github.com/matzehuels/tilenav/pkg/tile"
	"github.com/matzehuels/tilenav/pkg/tilegraph"
)

// =============================================================================
// Graph Flags
// =============================================================================

// graphFlags are the flags shared by every command that builds a map.
type graphFlags struct {
	mapName    string
	strict     bool
	cellSize   float64
	offset     float64
	openCost   float64
	closedCost float64
	closed     []string
}

func (f *graphFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.mapName, "map", "m", "", "map to activate (default: the only map in the file)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "fail on door data problems instead of warning")
	cmd.Flags().Float64Var(&f.cellSize, "grid-cell", tilegraph.DefaultGridCellSize, "spatial grid cell size")
	cmd.Flags().Float64Var(&f.offset, "entry-offset", tilegraph.DefaultEntryOffset, "distance of door entry waypoints inside the tile")
	cmd.Flags().Float64Var(&f.openCost, "open-cost", tilegraph.DefaultOpenDoorCost, "cost of entering an open door")
	cmd.Flags().Float64Var(&f.closedCost, "closed-cost", tilegraph.DefaultClosedDoorCost, "cost of entering a closed door")
	cmd.Flags().StringSliceVar(&f.closed, "closed", nil, "closed doors as tile:door, e.g. 0:d1 (repeatable)")
}

// keyOpts lists the flags that change the topology of a kind of graph.
// Door costs and --closed only affect queries.
func (f *graphFlags) keyOpts(kind string) cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		Map:          f.mapName,
		Kind:         kind,
		Strict:       f.strict,
		GridCellSize: f.cellSize,
		EntryOffset:  f.offset,
	}
}

func (f *graphFlags) options(logger *log.Logger) tilegraph.Options {
	return tilegraph.Options{
		Strict:         f.strict,
		GridCellSize:   f.cellSize,
		EntryOffset:    f.offset,
		OpenDoorCost:   f.openCost,
		ClosedDoorCost: f.closedCost,
		Logger:         logger,
	}
}

// =============================================================================
// Loading
// =============================================================================

// loaded is an activated map together with the document it came from.
type loaded struct {
	raw        []byte
	file       *tile.File
	mapDef     tile.Map
	session    *navmap.Session
	activation *navmap.Activation
	doors      *navmap.DoorStore
}

func (l *loaded) Close() { l.session.Dispose() }

// readDoc reads a map document from path.
func readDoc(path string) ([]byte, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	return raw, nil
}

// loadMap reads path, activates the selected map and applies --closed.
// Closing a stitched hull door closes its partner too.
func (c *CLI) loadMap(ctx context.Context, path string, f *graphFlags) (*loaded, error) {
	raw, err := readDoc(path)
	if err != nil {
		return nil, err
	}
	file, err := tile.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "load %s", path)
	}
	m, err := selectMap(file, f.mapName)
	if err != nil {
		return nil, err
	}

	logger := loggerFromContext(ctx, c.Logger)
	st := startStage(logger)
	session := navmap.NewSession(navmap.Options{Graph: f.options(logger), Logger: logger})
	a, err := session.Activate(ctx, m, file.Tiles)
	if err != nil {
		st.failed("Activating map "+m.Name, err)
		return nil, err
	}
	st.done("Activated map "+m.Name,
		"tiles", len(a.Tiles.Instances()),
		"rooms", a.Rooms.RoomCount(),
		"closed", len(f.closed),
	)

	doors := navmap.NewDoorStore()
	for _, s := range f.closed {
		k, err := parseDoorKey(s)
		if err != nil {
			session.Dispose()
			return nil, err
		}
		doors.Close(a.Linked(k)...)
	}
	return &loaded{raw: raw, file: file, mapDef: m, session: session, activation: a, doors: doors}, nil
}

// selectMap returns the named map, or the only map when name is empty.
func selectMap(f *tile.File, name string) (tile.Map, error) {
	if name == "" {
		if len(f.Maps) != 1 {
			return tile.Map{}, errors.New(errors.ErrCodeInvalidInput, "file has %d maps; pick one with --map", len(f.Maps))
		}
		return f.Maps[0], nil
	}
	m, ok := f.Map(name)
	if !ok {
		return tile.Map{}, errors.New(errors.ErrCodeUnknownMap, "no map named %q", name)
	}
	return m, nil
}

// =============================================================================
// Argument Parsing
// =============================================================================

// parseVec parses "x,y".
func parseVec(s string) (geom.Vec, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return geom.Vec{}, errors.New(errors.ErrCodeInvalidInput, "point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return geom.Vec{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "point %q", s)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return geom.Vec{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "point %q", s)
	}
	return geom.Vec{X: x, Y: y}, nil
}

// parseDoorKey parses "tile:dN" or "tile:N".
func parseDoorKey(s string) (tilegraph.DoorKey, error) {
	ts, ds, ok := strings.Cut(s, ":")
	if !ok {
		return tilegraph.DoorKey{}, errors.New(errors.ErrCodeInvalidInput, "door %q: want tile:door", s)
	}
	t, err := strconv.Atoi(ts)
	if err != nil {
		return tilegraph.DoorKey{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "door %q", s)
	}
	d, err := strconv.Atoi(strings.TrimPrefix(ds, "d"))
	if err != nil {
		return tilegraph.DoorKey{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "door %q", s)
	}
	return tilegraph.DoorKey{Tile: t, Door: d}, nil
}
