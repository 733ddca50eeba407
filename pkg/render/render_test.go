package render

import "testing"

func TestMetrics(t *testing.T) {
	m := DefaultMetrics

	if got := m.X(0); got != 15 {
		t.Errorf("X(0) = %v, want 15", got)
	}
	if got := m.X(2); got != 43 {
		t.Errorf("X(2) = %v, want 43", got)
	}
	if got := m.Y(0.5); got != 36 {
		t.Errorf("Y(0.5) = %v, want 36", got)
	}
	if got := m.Width(3); got != 58 {
		t.Errorf("Width(3) = %v, want 58", got)
	}
	if got := m.Height(2); got != 72 {
		t.Errorf("Height(2) = %v, want 72", got)
	}
}

func TestMetricsWithDefaults(t *testing.T) {
	got := Metrics{RowHeight: 20, Padding: -1}.WithDefaults()
	want := Metrics{RowHeight: 20, LaneWidth: 14, Padding: 8}
	if got != want {
		t.Errorf("WithDefaults() = %+v, want %+v", got, want)
	}
}

func TestPaletteColor(t *testing.T) {
	p := Palette{"red", "green", "blue"}
	tests := []struct {
		i    int
		want string
	}{
		{0, "red"},
		{2, "blue"},
		{3, "red"},
		{7, "green"},
		{-1, "blue"},
	}
	for _, tt := range tests {
		if got := p.Color(tt.i); got != tt.want {
			t.Errorf("Color(%d) = %v, want %v", tt.i, got, tt.want)
		}
	}
	if got := Palette(nil).Color(1); got != DefaultPalette[1] {
		t.Errorf("nil palette Color(1) = %v, want %v", got, DefaultPalette[1])
	}
}
