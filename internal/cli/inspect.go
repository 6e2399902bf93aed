package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var f graphFlags

	cmd := &cobra.Command{
		Use:   "inspect [file.toml]",
		Short: "Build a map and summarize its navigation graphs",
		Long: `Build a map and summarize its navigation graphs.

For every placed tile, inspect lists its navigable regions and hull doors,
and how many of those doors found no partner to stitch to. Use --strict to
turn door data problems into errors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), cmd.OutOrStdout(), args[0], &f)
		},
	}
	f.register(cmd)
	return cmd
}

func (c *CLI) runInspect(ctx context.Context, w io.Writer, path string, f *graphFlags) error {
	l, err := c.loadMap(ctx, path, f)
	if err != nil {
		return err
	}
	defer l.Close()

	tg, rg := l.activation.Tiles, l.activation.Rooms
	t := newTable("Tile", "Key", "Name", "Regions", "Hull doors", "Sealed", "Rect")
	sealedTotal := 0
	for _, in := range tg.Instances() {
		hull := len(in.Tile.HullDoors())
		sealed := 0
		for h := range hull {
			if tg.IsSealed(in.ID, h) {
				sealed++
			}
		}
		sealedTotal += sealed
		t.Row(
			strconv.Itoa(in.ID),
			strconv.Itoa(in.Tile.Key),
			in.Tile.Label(),
			strconv.Itoa(len(tg.Regions(in.ID))),
			strconv.Itoa(hull),
			strconv.Itoa(sealed),
			fmt.Sprintf("%.0f,%.0f %.0fx%.0f", in.Rect.X, in.Rect.Y, in.Rect.Width, in.Rect.Height),
		)
	}

	fmt.Fprintln(w, StyleTitle.Render(l.mapDef.Name))
	fmt.Fprintln(w, t.Render())
	printKeyValue(w, "activation", l.activation.ID.String())
	printKeyValue(w, "nodes", strconv.Itoa(tg.Topology().NodeCount()))
	printKeyValue(w, "edges", strconv.Itoa(tg.Topology().EdgeCount()))
	printKeyValue(w, "sealed", strconv.Itoa(sealedTotal))
	printKeyValue(w, "rooms", strconv.Itoa(rg.RoomCount()))
	printKeyValue(w, "room links", strconv.Itoa(rg.Topology().EdgeCount()))
	return nil
}
