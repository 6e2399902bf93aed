package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tilenav/pkg/tilegraph"
)

// roomsCommand creates the rooms command.
func (c *CLI) roomsCommand() *cobra.Command {
	var (
		f        graphFlags
		at       string
		hops     int
		openOnly bool
	)

	cmd := &cobra.Command{
		Use:   "rooms [file.toml]",
		Short: "Show the room at a point and its neighbors",
		Long: `Show the room at a world point and the rooms around it.

Neighbors come from the room graph and ignore door state. The adjacency
table follows doors per tile; with --open-only, closed doors contribute no
rooms and are listed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRooms(cmd.Context(), cmd.OutOrStdout(), args[0], &f, at, hops, openOnly)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&at, "at", "", "world point x,y")
	cmd.Flags().IntVar(&hops, "hops", 1, "list rooms within this many room links")
	cmd.Flags().BoolVar(&openOnly, "open-only", false, "only follow open doors in the adjacency table")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func (c *CLI) runRooms(ctx context.Context, w io.Writer, path string, f *graphFlags, at string, hops int, openOnly bool) error {
	p, err := parseVec(at)
	if err != nil {
		return err
	}
	l, err := c.loadMap(ctx, path, f)
	if err != nil {
		return err
	}
	defer l.Close()

	tg, rg := l.activation.Tiles, l.activation.Rooms
	r, ok := tg.FindRoomContaining(p, true)
	if !ok {
		printWarning("No room at %s", at)
		return nil
	}

	fmt.Fprintln(w, StyleTitle.Render("room "+r.String()))
	printKeyValue(w, "neighbors", refsString(rg.Neighbors(r)))
	printKeyValue(w, fmt.Sprintf("within %d", hops), refsString(rg.Within(r, hops)))

	adj := tg.AdjacentRoomsOf([]tilegraph.RoomRef{r}, openOnly, l.doors)
	tiles := make([]int, 0, len(adj))
	for id := range adj {
		tiles = append(tiles, id)
	}
	slices.Sort(tiles)

	t := newTable("Tile", "Rooms", "Windows", "Closed doors")
	for _, id := range tiles {
		a := adj[id]
		t.Row(strconv.Itoa(id), joinInts(a.Rooms), joinInts(a.Windows), joinInts(a.ClosedDoors))
	}
	fmt.Fprintln(w, t.Render())
	return nil
}

func refsString(rs []tilegraph.RoomRef) string {
	if len(rs) == 0 {
		return "-"
	}
	s := make([]string, len(rs))
	for i, r := range rs {
		s[i] = r.String()
	}
	return strings.Join(s, " ")
}
