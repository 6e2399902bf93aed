// Package nodelink renders navigation graph descriptions as node-link
// diagrams.
//
// # Usage
//
// Convert a description to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(tg.Describe(), nodelink.Options{Strata: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use [Render] with the wanted format; conversion
// goes through SVG and requires librsvg (rsvg-convert).
//
// # Node Styles
//
// Nodes are styled by their description group: regions are boxes, doors
// are diamonds (dashed when sealed), rooms are rounded boxes. With Strata
// set, nodes of the same stratum share a rank.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
