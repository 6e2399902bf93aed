package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tilenav/pkg/cache"
	"github.com/matzehuels/tilenav/pkg/errors"
	"github.com/matzehuels/tilenav/pkg/render"
	"github.com/matzehuels/tilenav/pkg/render/nodelink"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		f          graphFlags
		v          viewFlags
		output     string
		formatsStr string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "render [file.toml]",
		Short: "Render a map's navigation graph as a diagram",
		Long: `Render a map's tile graph (or room graph with --rooms) through Graphviz.

Results are cached by the content hash of the tile document and every
option that affects the diagram. Set TILENAV_REDIS_URL to share the cache
through Redis; otherwise it lives under ~/.cache/tilenav.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := parseFormats(formatsStr)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &f, &v, formats, output, noCache)
		},
	}
	f.register(cmd)
	v.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

// parseFormats parses a comma-separated format list; empty means svg.
func parseFormats(s string) ([]render.Format, error) {
	if strings.TrimSpace(s) == "" {
		return []render.Format{render.FormatSVG}, nil
	}
	var out []render.Format
	for _, part := range strings.Split(s, ",") {
		f, err := render.ParseFormat(part)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// outputPath derives the file for one format. A single format writes to
// output as given; several formats share output (or the input) as a base.
func outputPath(output, input string, format render.Format, single bool) string {
	if single && output != "" {
		return output
	}
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	} else if _, err := render.ParseFormat(strings.TrimPrefix(filepath.Ext(base), ".")); err == nil {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return base + format.Ext()
}

func (c *CLI) runRender(ctx context.Context, input string, f *graphFlags, v *viewFlags, formats []render.Format, output string, noCache bool) error {
	l, err := c.loadMap(ctx, input, f)
	if err != nil {
		return err
	}
	defer l.Close()

	store := c.newCache(ctx, noCache)
	defer store.Close()

	keyer := newKeyer()
	docHash := cache.Hash(l.raw)
	graphOpts := f.keyOpts(v.kind())
	dot := nodelink.ToDOT(v.describe(l), v.options())
	topo := l.activation.Tiles.Topology()
	nodes, edges := topo.NodeCount(), topo.EdgeCount()
	if v.rooms {
		nodes, edges = l.activation.Rooms.RoomCount(), l.activation.Rooms.Topology().EdgeCount()
	}

	for _, format := range formats {
		key := keyer.ArtifactKey(docHash, cache.ArtifactKeyOpts{
			Graph:    graphOpts,
			Format:   string(format),
			Detailed: v.detailed,
			Strata:   v.strata,
		})

		spinner := newSpinner(ctx, "Rendering "+string(format)+"...")
		spinner.Start()
		data, hit, err := cache.Fetch(ctx, store, key, cache.KeyTypeArtifact, cache.DefaultTTL, func() ([]byte, error) {
			return nodelink.Render(ctx, dot, format)
		})
		if err != nil {
			spinner.StopWithError("Rendering " + string(format) + " failed")
			return err
		}
		spinner.Stop()

		path := outputPath(output, input, format, len(formats) == 1)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
		}
		printSuccess("Rendered %s", format)
		printStats(nodes, edges, hit)
		printFile(path)
	}
	return nil
}
