// Package lanes computes the lane layout of a commit graph: the railway of
// dots, lines and merge curves drawn beside a commit list in history viewers.
//
// # Overview
//
// [Build] consumes commits in feed order (children before parents, as emitted
// by a topological or date-ordered history walk) and produces a [Graph]:
//
//   - [Dot]: one per commit, placed on the lane of the commit's major track
//   - [Line]: a finished track, a polyline from a descendant toward the
//     ancestor it was waiting for
//   - [ShortLink]: a single quadratic curve from a merge commit to a track
//     that already targets one of its extra parents
//   - [Row]: the derived per-commit record (dot lane, message column offset,
//     merged flag), indexed like the input
//
// Rows are commit indexes: commit i is drawn at row i. Lanes are horizontal
// slots. Both are unit-less; converting them to pixels is the renderer's job.
//
// # Algorithm
//
// The engine keeps an ordered list of open tracks, each waiting for a target
// SHA. For every commit it scans the list in order: the first track targeting
// the commit becomes its major track, any further matches end there and merge
// into its dot, and every other track is carried down one row. Lanes are
// reassigned by list position on every row, so two open tracks never share a
// lane. A track whose lane changes gets an elbow (see [Elbow]) so renderers can
// draw a curve instead of a diagonal jump.
//
// Branch tips open a new track; root commits end theirs. Extra merge parents
// either produce a [ShortLink] (when another open track already waits for that
// parent) or open a new track starting at the merge commit's dot. Tracks still
// open after the last commit end at the bottom edge of the window.
//
// Lanes are packed by list position, not by reusing the lowest free lane. Deep
// histories therefore draw wider than strictly necessary, which keeps the pass
// simple and the output stable.
//
// # Colors
//
// Tracks are colored round-robin from a palette of [DefaultPaletteSize] entries
// (see [WithPaletteSize]) in creation order. Colors are never reclaimed, so two
// unrelated branches may share a color once the palette wraps.
//
// # Rendering
//
// Lines are sorted by the row of their first point, and dots and links are in
// row order, so [Graph.Visible] can cut the view to a scroll window with binary
// searches. [Segments] turns a line's points into straight and quadratic
// segments.
//
//	g := lanes.Build(commits)
//	view := g.Visible(top, top+rows)
//	for _, l := range view.Lines {
//	    for _, s := range lanes.Segments(l.Points) {
//	        // draw s
//	    }
//	}
package lanes
