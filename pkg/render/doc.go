// Package render converts rendered navigation graph diagrams between output
// formats.
//
// The [nodelink] subpackage turns graph descriptions into Graphviz DOT and
// SVG. The [ToPDF] and [ToPNG] functions convert any SVG to other formats
// using the external rsvg-convert tool (from librsvg).
//
//	dot := nodelink.ToDOT(tg.Describe(), nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(svg)
//
// [nodelink]: github.com/matzehuels/tilenav/pkg/render/nodelink
package render
