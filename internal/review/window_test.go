package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeWindow(t *testing.T) {
	tests := []struct {
		name     string
		offset   int
		viewport int
		rowH     int
		buffer   int
		total    int
		want     Window
	}{
		{
			name:   "top of list",
			offset: 0, viewport: 100, rowH: 10, buffer: 2, total: 500,
			want: Window{Start: 0, End: 14},
		},
		{
			name:   "mid scroll subtracts buffer",
			offset: 300, viewport: 100, rowH: 10, buffer: 2, total: 500,
			want: Window{Start: 28, End: 42},
		},
		{
			name:   "end clamps to total",
			offset: 4950, viewport: 100, rowH: 10, buffer: 2, total: 500,
			want: Window{Start: 493, End: 500},
		},
		{
			name:   "viewport not a row multiple rounds up",
			offset: 0, viewport: 95, rowH: 10, buffer: 0, total: 500,
			want: Window{Start: 0, End: 10},
		},
		{
			name:   "short list fully visible",
			offset: 0, viewport: 100, rowH: 10, buffer: 2, total: 3,
			want: Window{Start: 0, End: 3},
		},
		{
			name:   "empty list",
			offset: 0, viewport: 100, rowH: 10, buffer: 2, total: 0,
			want: Window{Start: 0, End: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeWindow(tt.offset, tt.viewport, tt.rowH, tt.buffer, tt.total)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeWindow_Bounds(t *testing.T) {
	const (
		viewport = 120
		rowH     = 8
		buffer   = 3
		total    = 400
	)
	visible := (viewport+rowH-1)/rowH + 2*buffer

	for offset := 0; offset <= total*rowH; offset += 7 {
		w := ComputeWindow(offset, viewport, rowH, buffer, total)

		assert.LessOrEqual(t, w.Start, w.End, "offset %d", offset)
		assert.LessOrEqual(t, w.End, total, "offset %d", offset)
		if w.End < total {
			assert.GreaterOrEqual(t, w.Len(), visible-buffer, "offset %d", offset)
		}
	}
}

func TestWindow_Spacers(t *testing.T) {
	w := ComputeWindow(300, 100, 10, 2, 500)

	// Spacer heights plus materialized rows must equal total scrollable height.
	totalHeight := w.TopSpacer(10) + w.Len()*10 + w.BottomSpacer(10, 500)
	assert.Equal(t, 500*10, totalHeight)
}

func TestWindow_Equal(t *testing.T) {
	a := ComputeWindow(300, 100, 10, 2, 500)
	b := ComputeWindow(301, 100, 10, 2, 500) // sub-row delta, same rows
	c := ComputeWindow(310, 100, 10, 2, 500)

	assert.True(t, a.Equal(b), "sub-row scroll must not change the window")
	assert.False(t, a.Equal(c))
}
