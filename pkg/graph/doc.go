// Package graph provides the serialized form of a commit graph layout.
//
// This package defines the wire format used for layout JSON files, API
// responses, cache entries and stored snapshots. It sits at the
// serialization boundary:
//
//   - [Layout]: the document (this package)
//   - lanes.Graph: the engine's in-memory result
//
// Use [FromLanes] and [Layout.Graph] to convert between them.
//
// # Layout Document
//
//	{
//	  "rows": 3,
//	  "lanes": 2,
//	  "palette_size": 8,
//	  "commits": [{"sha": "9fceb02", "subject": "Merge", "lane": 0, "lane_offset": 2, "merged": true, "color": 0}],
//	  "dots":    [{"lane": 0, "row": 0, "color": 0, "kind": "merge"}],
//	  "lines":   [{"points": [{"lane": 0, "row": 0}, {"lane": 1, "row": 0.5}], "color": 1}],
//	  "links":   []
//	}
//
// Coordinates are in lane and row units. Row r is the centre of commits[r];
// renderers turn units into pixels with render.Metrics.
//
// # Windows
//
// [Layout.Window] cuts a document down to the rows a viewer can see. The
// result keeps absolute row coordinates and records the first row in
// "first_row", so a client can place it without re-deriving offsets.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
