// Package nodelink renders a commit feed as a plain directed graph.
//
// Where the lane layout packs history into columns, this package hands the
// parent edges to Graphviz and lets it place the nodes. It is useful for
// checking a feed by eye and for small histories where rank layout reads
// better than lanes.
//
//	dot := nodelink.ToDOT(commits, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// First-parent edges are solid, merge edges dashed. Passing the Layout's row
// colors in [Options].Colors tints nodes with the lane palette.
//
// SVG output uses [github.com/goccy/go-graphviz] in-process. PDF and PNG
// conversion requires librsvg (rsvg-convert).
package nodelink
