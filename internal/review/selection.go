package review

import "github.com/tallyups/tally/internal/model"

// LastRow is the sentinel index for "navigate to the final row".
const LastRow = -1

// Selection tracks the keyboard cursor (a position within the filtered and
// sorted view) and the bulk selection set (stable transaction ids, independent
// of view order). Bulk members that fall out of the current filter stay
// selected but invisible.
type Selection struct {
	bulk   map[int]struct{}
	cursor int
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{bulk: make(map[int]struct{})}
}

// Cursor returns the current cursor position.
func (s *Selection) Cursor() int {
	return s.cursor
}

// Navigate moves the cursor by delta, clamped to [0, length-1]. With an empty
// view the cursor pins to 0.
func (s *Selection) Navigate(delta, length int) {
	s.NavigateTo(s.cursor+delta, length)
}

// NavigateTo moves the cursor to an absolute position, clamped. LastRow jumps
// to the final row.
func (s *Selection) NavigateTo(index, length int) {
	if index == LastRow {
		index = length - 1
	}
	if index >= length {
		index = length - 1
	}
	if index < 0 {
		index = 0
	}
	s.cursor = index
}

// Toggle flips bulk membership for one id.
func (s *Selection) Toggle(id int) {
	if _, ok := s.bulk[id]; ok {
		delete(s.bulk, id)
		return
	}
	s.bulk[id] = struct{}{}
}

// SelectAll replaces the bulk set with the given ids.
func (s *Selection) SelectAll(ids []int) {
	s.bulk = make(map[int]struct{}, len(ids))
	for _, id := range ids {
		s.bulk[id] = struct{}{}
	}
}

// ClearBulk empties the bulk set.
func (s *Selection) ClearBulk() {
	s.bulk = make(map[int]struct{})
}

// Selected reports bulk membership for an id.
func (s *Selection) Selected(id int) bool {
	_, ok := s.bulk[id]
	return ok
}

// BulkCount returns the bulk set size, including members hidden by the
// current filter.
func (s *Selection) BulkCount() int {
	return len(s.bulk)
}

// BulkIDs returns the bulk set as a slice, in no particular order.
func (s *Selection) BulkIDs() []int {
	ids := make([]int, 0, len(s.bulk))
	for id := range s.bulk {
		ids = append(ids, id)
	}
	return ids
}

// ExtendNavigate implements shift+direction range selection: toggle the row
// about to be passed over, then move. Repeated keystrokes grow the range; no
// anchor is kept. With an empty bulk set it behaves like plain Navigate.
func (s *Selection) ExtendNavigate(delta int, view []model.Transaction) {
	if len(s.bulk) == 0 {
		s.Navigate(delta, len(view))
		return
	}
	if s.cursor >= 0 && s.cursor < len(view) {
		s.Toggle(view[s.cursor].ID)
	}
	s.Navigate(delta, len(view))
}
