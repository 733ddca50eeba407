package render

// Metrics maps lane and row units to pixels.
type Metrics struct {
	RowHeight float64 `json:"row_height"`
	LaneWidth float64 `json:"lane_width"`
	Padding   float64 `json:"padding"`
}

// DefaultMetrics matches the row height of a typical history list.
var DefaultMetrics = Metrics{RowHeight: 28, LaneWidth: 14, Padding: 8}

// WithDefaults returns m with zero or negative fields replaced by the
// corresponding [DefaultMetrics] value.
func (m Metrics) WithDefaults() Metrics {
	if m.RowHeight <= 0 {
		m.RowHeight = DefaultMetrics.RowHeight
	}
	if m.LaneWidth <= 0 {
		m.LaneWidth = DefaultMetrics.LaneWidth
	}
	if m.Padding < 0 {
		m.Padding = DefaultMetrics.Padding
	}
	return m
}

// X returns the horizontal pixel center of a lane.
func (m Metrics) X(lane float64) float64 {
	return m.Padding + (lane+0.5)*m.LaneWidth
}

// Y returns the vertical pixel center of a row.
func (m Metrics) Y(row float64) float64 {
	return m.Padding + (row+0.5)*m.RowHeight
}

// Width returns the pixel width of a graph with the given number of lanes.
func (m Metrics) Width(lanes int) float64 {
	return 2*m.Padding + float64(lanes)*m.LaneWidth
}

// Height returns the pixel height of the given number of rows.
func (m Metrics) Height(rows int) float64 {
	return 2*m.Padding + float64(rows)*m.RowHeight
}
