package render

// Palette is an ordered list of CSS colors indexed by track color.
type Palette []string

// DefaultPalette has lanes.DefaultPaletteSize entries.
var DefaultPalette = Palette{
	"#1f77b4", // blue
	"#ff7f0e", // orange
	"#2ca02c", // green
	"#d62728", // red
	"#9467bd", // purple
	"#8c564b", // brown
	"#e377c2", // pink
	"#17becf", // cyan
}

// Color returns the color for index i, wrapping around the palette.
func (p Palette) Color(i int) string {
	if len(p) == 0 {
		return DefaultPalette.Color(i)
	}
	i %= len(p)
	if i < 0 {
		i += len(p)
	}
	return p[i]
}

// ANSI is DefaultPalette approximated in the 256-color terminal palette.
var ANSI = Palette{"33", "208", "34", "160", "98", "94", "205", "44"}
