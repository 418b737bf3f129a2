package list

// Window computes the materialised row range [start, end) for a
// virtualised list of n rows. scrollOffset and viewportHeight are in
// lines, rowHeight is lines per row, and overscan extra rows are
// materialised on each side so small scrolls reuse rendered rows. The
// range is clamped to [0, n) at both ends.
func Window(scrollOffset, rowHeight, viewportHeight, n, overscan int) (start, end int) {
	if n <= 0 || rowHeight <= 0 || viewportHeight <= 0 {
		return 0, 0
	}
	if scrollOffset < 0 {
		scrollOffset = 0
	}
	if overscan < 0 {
		overscan = 0
	}

	first := scrollOffset / rowHeight
	visible := (viewportHeight + rowHeight - 1) / rowHeight

	start = first - overscan
	if start < 0 {
		start = 0
	}
	end = first + visible + overscan
	if end > n {
		end = n
	}
	if start > end {
		start = end
	}
	return start, end
}
