// Package sink turns a [graph.Layout] into output bytes.
//
// [RenderSVG] and [RenderText] draw the layout; [RenderJSON] serializes it;
// [RenderPNG] and [RenderPDF] convert the SVG with rsvg-convert. Every sink
// accepts a row window so large histories can be paged.
//
// All drawing goes through lanes.Segments, so a lane change bends the same
// way in every format: outward moves turn on the starting row, inward moves
// turn on the target row.
package sink
