package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tilenav/pkg/errors"
)

// pathCommand creates the path command.
func (c *CLI) pathCommand() *cobra.Command {
	var (
		f        graphFlags
		from, to string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "path [file.toml]",
		Short: "Find the cheapest route between two world points",
		Long: `Find the cheapest route between two world points.

The route is reported as the list of tile crossings it makes. Closed doors
(--closed) make a route expensive but never impassable; closing one side of
a stitched hull door closes its partner as well.`,
		Example: `  tilenav path maps.toml --map hall --from 100,150 --to 750,150
  tilenav path maps.toml --from 100,150 --to 750,150 --closed 0:d1 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPath(cmd.Context(), cmd.OutOrStdout(), args[0], &f, from, to, asJSON)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&from, "from", "", "source point x,y")
	cmd.Flags().StringVar(&to, "to", "", "destination point x,y")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the path as JSON")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func (c *CLI) runPath(ctx context.Context, w io.Writer, path string, f *graphFlags, from, to string, asJSON bool) error {
	src, err := parseVec(from)
	if err != nil {
		return err
	}
	dst, err := parseVec(to)
	if err != nil {
		return err
	}
	l, err := c.loadMap(ctx, path, f)
	if err != nil {
		return err
	}
	defer l.Close()

	p, ok := l.activation.Tiles.FindPath(src, dst, l.doors)
	if !ok {
		printWarning("No route from %s to %s", from, to)
		return nil
	}

	if asJSON {
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode path")
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("%s %s %s", roomString(p.Src), iconArrow, roomString(p.Dst))))
	printKeyValue(w, "cost", formatCost(p.Cost))
	printKeyValue(w, "nodes", fmt.Sprint(len(p.Nodes)))
	if len(p.Transitions) == 0 {
		printKeyValue(w, "crossings", "none")
		return nil
	}
	fmt.Fprintln(w, transitionsTable(p, l.doors))
	return nil
}
