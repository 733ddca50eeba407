// Package render provides the shared pieces of gitlanes' renderers.
//
// # Overview
//
// The layout engine works in lane and row units. Renderers turn those units
// into pixels with [Metrics], pick track colors from a [Palette], and convert
// SVG into other formats with [ToPNG] and [ToPDF].
//
// The renderers themselves live in subpackages:
//
//   - [sink]: the lane graph as SVG, JSON, terminal text, PNG and PDF
//   - [nodelink]: the raw commit DAG as Graphviz DOT and its renderings
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg := sink.RenderSVG(layout, sink.WithMessages(true))
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [sink]: github.com/matzehuels/gitlanes/pkg/render/sink
// [nodelink]: github.com/matzehuels/gitlanes/pkg/render/nodelink
package render
