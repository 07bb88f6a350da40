package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tallyups/tally/internal/model"
)

func TestSelection_Navigate(t *testing.T) {
	tests := []struct {
		name   string
		start  int
		delta  int
		length int
		want   int
	}{
		{name: "down one", start: 0, delta: 1, length: 5, want: 1},
		{name: "clamped at top", start: 0, delta: -1, length: 5, want: 0},
		{name: "clamped at bottom", start: 4, delta: 3, length: 5, want: 4},
		{name: "page jump", start: 1, delta: 10, length: 5, want: 4},
		{name: "empty view pins to zero", start: 2, delta: 1, length: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSelection()
			s.NavigateTo(tt.start, 5)
			s.Navigate(tt.delta, tt.length)
			assert.Equal(t, tt.want, s.Cursor())
		})
	}
}

func TestSelection_NavigateToLastRow(t *testing.T) {
	s := NewSelection()
	s.NavigateTo(LastRow, 42)
	assert.Equal(t, 41, s.Cursor())
}

func TestSelection_BulkToggle(t *testing.T) {
	s := NewSelection()

	s.Toggle(7)
	assert.True(t, s.Selected(7))
	assert.Equal(t, 1, s.BulkCount())

	s.Toggle(7)
	assert.False(t, s.Selected(7))
	assert.Equal(t, 0, s.BulkCount())
}

func TestSelection_SelectAll(t *testing.T) {
	s := NewSelection()
	s.Toggle(99)

	s.SelectAll([]int{1, 2, 3})

	assert.Equal(t, 3, s.BulkCount())
	assert.False(t, s.Selected(99), "SelectAll replaces the set")
	assert.ElementsMatch(t, []int{1, 2, 3}, s.BulkIDs())

	s.ClearBulk()
	assert.Equal(t, 0, s.BulkCount())
}

func TestSelection_ExtendNavigate(t *testing.T) {
	view := []model.Transaction{{ID: 10}, {ID: 11}, {ID: 12}, {ID: 13}}

	t.Run("empty bulk set behaves like plain navigate", func(t *testing.T) {
		s := NewSelection()
		s.ExtendNavigate(1, view)
		assert.Equal(t, 1, s.Cursor())
		assert.Equal(t, 0, s.BulkCount())
	})

	t.Run("repeated keystrokes grow a range", func(t *testing.T) {
		s := NewSelection()
		s.Toggle(13) // non-empty set enables extension

		s.ExtendNavigate(1, view) // toggles id 10 on, cursor 0 -> 1
		s.ExtendNavigate(1, view) // toggles id 11 on, cursor 1 -> 2

		assert.True(t, s.Selected(10))
		assert.True(t, s.Selected(11))
		assert.True(t, s.Selected(13))
		assert.Equal(t, 2, s.Cursor())
	})

	t.Run("passing over a selected row toggles it off", func(t *testing.T) {
		s := NewSelection()
		s.Toggle(10)

		s.ExtendNavigate(1, view)

		assert.False(t, s.Selected(10))
		assert.Equal(t, 1, s.Cursor())
	})
}
