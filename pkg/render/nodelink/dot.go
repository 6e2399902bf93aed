package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/tilenav/pkg/errors"
	"github.com/matzehuels/tilenav/pkg/graph"
	"github.com/matzehuels/tilenav/pkg/observability"
	"github.com/matzehuels/tilenav/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the node id and stratum under each label.
	// When false, only the label is shown.
	Detailed bool

	// Strata places nodes of the same stratum on the same rank.
	Strata bool
}

// ToDOT converts a graph description to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [Render].
func ToDOT(d graph.Description, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range d.Nodes {
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	if opts.Strata {
		buf.WriteString("\n")
		for _, ids := range strata(d) {
			quoted := make([]string, len(ids))
			for i, id := range ids {
				quoted[i] = strconv.Quote(id)
			}
			fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(quoted, "; "))
		}
	}

	buf.WriteString("\n")
	for _, e := range d.Edges {
		if e.Label == "" {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, e.Label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.DescribedNode, detailed bool) string {
	if !detailed {
		return n.Label
	}
	stratum := "cycle"
	if n.Stratum >= 0 {
		stratum = strconv.Itoa(n.Stratum)
	}
	return n.Label + "\n" + n.ID + "\nstratum: " + stratum
}

func fmtAttrs(n graph.DescribedNode, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch n.Group {
	case "region":
		attrs = append(attrs, "style=filled", "fillcolor=\"#e8f0fe\"")
	case "door":
		attrs = append(attrs, "shape=diamond", "style=filled", "fillcolor=\"#fde68a\"")
		if strings.HasSuffix(n.Label, " sealed") {
			attrs = append(attrs, "style=\"filled,dashed\"", "fillcolor=lightgrey")
		}
	}
	return attrs
}

// strata groups node ids by stratum, skipping nodes on cycles.
func strata(d graph.Description) [][]string {
	byStratum := make(map[int][]string)
	for _, n := range d.Nodes {
		if n.Stratum >= 0 {
			byStratum[n.Stratum] = append(byStratum[n.Stratum], n.ID)
		}
	}
	keys := make([]int, 0, len(byStratum))
	for k := range byStratum {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([][]string, len(keys))
	for i, k := range keys {
		out[i] = byStratum[k]
	}
	return out
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// Render renders a DOT graph in the given format. DOT passes through
// unchanged; PDF and PNG are converted from SVG and need librsvg.
func Render(ctx context.Context, dot string, format render.Format) ([]byte, error) {
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, string(format))
	start := time.Now()

	out, err := renderAs(ctx, dot, format)
	hooks.OnRenderComplete(ctx, string(format), len(out), time.Since(start), err)
	return out, err
}

func renderAs(ctx context.Context, dot string, format render.Format) ([]byte, error) {
	if format == render.FormatDOT {
		return []byte(dot), nil
	}
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	switch format {
	case render.FormatSVG:
		return svg, nil
	case render.FormatPDF:
		return render.ToPDF(svg)
	case render.FormatPNG:
		return render.ToPNG(svg, 2.0)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unknown format %q", format)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root svg tag so the diagram scales from a
// zero origin with explicit width and height.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
