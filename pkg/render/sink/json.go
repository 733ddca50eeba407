package sink

import "github.com/matzehuels/gitlanes/pkg/graph"

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	window
	windowed bool
}

// WithJSONWindow emits only the part of the layout touching rows top through
// top+rows-1. rows <= 0 means through the last row.
func WithJSONWindow(top, rows int) JSONOption {
	return func(r *jsonRenderer) {
		r.window = window{top: top, rows: rows}
		r.windowed = true
	}
}

// RenderJSON serializes the layout, or a window of it, as a layout document.
// The output can be read back with graph.UnmarshalLayout.
func RenderJSON(l graph.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	if r.windowed {
		top, bottom := r.bounds(l.Rows)
		l = l.Window(float64(top), float64(bottom))
	}
	return graph.MarshalLayout(l)
}
