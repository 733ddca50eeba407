package sink

// window selects a row range; rows <= 0 means through the last row.
type window struct {
	top, rows int
}

// bounds clamps the window to n rows and returns the first and last row,
// inclusive. An empty result has last < first.
func (w window) bounds(n int) (int, int) {
	top := min(max(w.top, 0), n)
	bottom := n - 1
	if w.rows > 0 {
		bottom = min(top+w.rows-1, n-1)
	}
	return top, bottom
}
