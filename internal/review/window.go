package review

// Window is the index range of the view materialized as rendered rows at a
// given scroll position. Rows outside [Start, End) are represented by
// height-accurate spacers so total scrollable height stays correct.
type Window struct {
	Start int
	End   int
}

// ComputeWindow derives the visible index range from scroll geometry. The
// result depends only on its inputs and is recomputed, never persisted.
func ComputeWindow(scrollOffset, viewportHeight, rowHeight, bufferRows, totalRows int) Window {
	if rowHeight <= 0 {
		rowHeight = 1
	}
	if totalRows < 0 {
		totalRows = 0
	}

	start := scrollOffset/rowHeight - bufferRows
	if start < 0 {
		start = 0
	}

	visible := (viewportHeight+rowHeight-1)/rowHeight + 2*bufferRows

	end := start + visible
	if end > totalRows {
		end = totalRows
	}
	if start > end {
		start = end
	}

	return Window{Start: start, End: end}
}

// Equal reports whether two windows cover the same range. Render paths use
// this to skip redundant work on sub-row scroll deltas.
func (w Window) Equal(other Window) bool {
	return w.Start == other.Start && w.End == other.End
}

// Len returns the number of materialized rows.
func (w Window) Len() int {
	return w.End - w.Start
}

// TopSpacer returns the height of the placeholder above the window.
func (w Window) TopSpacer(rowHeight int) int {
	return w.Start * rowHeight
}

// BottomSpacer returns the height of the placeholder below the window.
func (w Window) BottomSpacer(rowHeight, totalRows int) int {
	if totalRows < w.End {
		return 0
	}
	return (totalRows - w.End) * rowHeight
}
