package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tilenav/pkg/cache"
	"github.com/matzehuels/tilenav/pkg/errors"
	"github.com/matzehuels/tilenav/pkg/graph"
	"github.com/matzehuels/tilenav/pkg/render/nodelink"
)

// viewFlags select which graph to export and how to draw it.
type viewFlags struct {
	rooms    bool
	detailed bool
	strata   bool
}

func (v *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&v.rooms, "rooms", false, "export the room graph instead of the tile graph")
	cmd.Flags().BoolVar(&v.detailed, "detailed", false, "add node ids and strata to labels")
	cmd.Flags().BoolVar(&v.strata, "strata", false, "rank nodes of the same stratum together; acyclic graphs only")
}

func (v *viewFlags) kind() string {
	if v.rooms {
		return "room"
	}
	return "tile"
}

func (v *viewFlags) describe(l *loaded) graph.Description {
	if v.rooms {
		return l.activation.Rooms.Describe()
	}
	return l.activation.Tiles.Describe()
}

func (v *viewFlags) options() nodelink.Options {
	return nodelink.Options{Detailed: v.detailed, Strata: v.strata}
}

// dotCommand creates the dot command.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		f      graphFlags
		v      viewFlags
		output  string
		format  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "dot [file.toml]",
		Short: "Export a map's navigation graph",
		Long: `Export a map's tile graph (or room graph with --rooms).

Formats:
  dot   Graphviz source (default)
  text  one line per node and edge
  json  the full graph, node payloads included, for re-import

JSON exports are cached by document content and topology flags.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := openOutput(output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer out.Close()
			if format == "json" {
				return c.runDotJSON(cmd.Context(), out, args[0], &f, &v, noCache)
			}
			return c.runDot(cmd.Context(), out, args[0], &f, &v, format)
		},
	}
	f.register(cmd)
	v.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot, text, json")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching of json exports")
	return cmd
}

func (c *CLI) runDot(ctx context.Context, w io.Writer, path string, f *graphFlags, v *viewFlags, format string) error {
	l, err := c.loadMap(ctx, path, f)
	if err != nil {
		return err
	}
	defer l.Close()

	switch format {
	case "dot":
		_, err = io.WriteString(w, nodelink.ToDOT(v.describe(l), v.options()))
	case "text":
		err = v.describe(l).WriteText(w)
	default:
		return errors.New(errors.ErrCodeUnsupported, "unknown format %q (want dot, text or json)", format)
	}
	return err
}

// runDotJSON writes the serialized graph, reading it from the graph cache
// when the same document was exported with the same topology flags.
func (c *CLI) runDotJSON(ctx context.Context, w io.Writer, path string, f *graphFlags, v *viewFlags, noCache bool) error {
	raw, err := readDoc(path)
	if err != nil {
		return err
	}
	store := c.newCache(ctx, noCache)
	defer store.Close()

	key := newKeyer().GraphKey(cache.Hash(raw), f.keyOpts(v.kind()))
	data, hit, err := cache.Fetch(ctx, store, key, cache.KeyTypeGraph, cache.DefaultTTL, func() ([]byte, error) {
		l, err := c.loadMap(ctx, path, f)
		if err != nil {
			return nil, err
		}
		defer l.Close()
		if v.rooms {
			return l.activation.Rooms.Marshal()
		}
		return l.activation.Tiles.Marshal()
	})
	if err != nil {
		return err
	}
	loggerFromContext(ctx, c.Logger).Debug("graph export", "kind", v.kind(), "cached", hit)
	_, err = w.Write(append(data, '\n'))
	return err
}

// openOutput returns a WriteCloser for path, or fallback when path is empty.
func openOutput(path string, fallback io.Writer) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{fallback}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
