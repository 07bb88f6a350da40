package review

import (
	"fmt"

	"github.com/tallyups/tally/internal/model"
)

// Session owns the canonical transaction list and everything derived from it:
// the filtered+sorted view, the cursor and bulk selection, the undo stack, and
// per-field edit sequence numbers. All methods are synchronous; the view is
// always recomputed before control returns, so a render triggered by an
// unrelated event never observes a half-applied mutation.
type Session struct {
	seq       map[string]uint64
	selection *Selection
	canonical []model.Transaction
	view      []model.Transaction
	criteria  Criteria
	sort      SortState
	undo      UndoStack
}

// NewSession creates an empty session sorted by date, newest first.
func NewSession() *Session {
	return &Session{
		seq:       make(map[string]uint64),
		selection: NewSelection(),
		sort:      SortState{Column: ColumnDate, Direction: Descending},
	}
}

// Load replaces the canonical list. Transactions keep the ids the server
// assigned; the session never re-keys a record.
func (s *Session) Load(transactions []model.Transaction) {
	s.canonical = transactions
	s.recompute()
}

// View returns the current filtered+sorted view.
func (s *Session) View() []model.Transaction {
	return s.view
}

// TotalCount returns the size of the canonical list.
func (s *Session) TotalCount() int {
	return len(s.canonical)
}

// Criteria returns the active filter criteria.
func (s *Session) Criteria() Criteria {
	return s.criteria
}

// SetCriteria replaces the filter criteria and recomputes the view. The
// cursor follows the previously selected transaction when it survives the
// filter; otherwise the selection clamps to the nearest row.
func (s *Session) SetCriteria(c Criteria) {
	s.criteria = c
	s.recompute()
}

// Sort returns the active sort state.
func (s *Session) Sort() SortState {
	return s.sort
}

// SelectColumn activates a sort column, flipping direction when the column is
// already active, then recomputes the view.
func (s *Session) SelectColumn(col Column) {
	s.sort.Select(col)
	s.recompute()
}

// Selection exposes the cursor and bulk selection model.
func (s *Session) Selection() *Selection {
	return s.selection
}

// Current returns the transaction under the cursor.
func (s *Session) Current() (model.Transaction, bool) {
	cursor := s.selection.Cursor()
	if cursor < 0 || cursor >= len(s.view) {
		return model.Transaction{}, false
	}
	return s.view[cursor], true
}

// IndexOf returns the view position of a transaction id, or -1.
func (s *Session) IndexOf(id int) int {
	for i, txn := range s.view {
		if txn.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the canonical record for an id.
func (s *Session) Find(id int) (model.Transaction, bool) {
	for i := range s.canonical {
		if s.canonical[i].ID == id {
			return s.canonical[i], true
		}
	}
	return model.Transaction{}, false
}

// ApplyUpdate performs an optimistic field edit: pushes the old value onto
// the undo stack, mutates the record in place, refreshes the affected view
// row, and returns the sequence number the resulting server patch should
// carry. ok is false when the id is unknown.
func (s *Session) ApplyUpdate(id int, field, value string) (uint64, bool) {
	idx := s.canonicalIndex(id)
	if idx < 0 {
		return 0, false
	}

	s.undo.Push(field, id, s.canonical[idx].Get(field))
	s.canonical[idx].Set(field, value)
	s.refreshViewRow(id)

	return s.bumpSeq(id, field), true
}

// Undo rolls back the most recent edit in memory and returns the entry so the
// caller can issue a best-effort resync patch. The entry is not re-pushed
// even if that patch later fails: undo is single-level, with no redo.
func (s *Session) Undo() (UndoEntry, bool) {
	entry, ok := s.undo.Pop()
	if !ok {
		return UndoEntry{}, false
	}

	idx := s.canonicalIndex(entry.TransactionID)
	if idx >= 0 {
		s.canonical[idx].Set(entry.Field, entry.PreviousValue)
		s.refreshViewRow(entry.TransactionID)
	}

	// Any in-flight patch for this field is now stale.
	s.bumpSeq(entry.TransactionID, entry.Field)

	return entry, true
}

// UndoDepth returns the number of undoable edits.
func (s *Session) UndoDepth() int {
	return s.undo.Len()
}

// CurrentSeq returns the latest edit sequence of (id, field). Patches issued
// outside ApplyUpdate, such as the undo resync, carry this value.
func (s *Session) CurrentSeq(id int, field string) uint64 {
	return s.seq[seqKey(id, field)]
}

// IsCurrent reports whether seq is still the latest edit of (id, field).
// Controllers use this to discard server responses that resolved out of
// issue order.
func (s *Session) IsCurrent(id int, field string, seq uint64) bool {
	return s.seq[seqKey(id, field)] == seq
}

// MarkNewlyMatched flags a transaction after a successful receipt match and
// records the receipt reference without touching the undo stack.
func (s *Session) MarkNewlyMatched(id int, receipt string) {
	idx := s.canonicalIndex(id)
	if idx < 0 {
		return
	}
	s.canonical[idx].NewlyMatched = true
	if receipt != "" {
		s.canonical[idx].Receipt = receipt
	}
	s.refreshViewRow(id)
}

func (s *Session) bumpSeq(id int, field string) uint64 {
	key := seqKey(id, field)
	s.seq[key]++
	return s.seq[key]
}

func seqKey(id int, field string) string {
	return fmt.Sprintf("%d\x00%s", id, field)
}

func (s *Session) canonicalIndex(id int) int {
	for i := range s.canonical {
		if s.canonical[i].ID == id {
			return i
		}
	}
	return -1
}

// refreshViewRow copies the canonical record into its view slot, if visible.
// Single-row edits never trigger a full recompute.
func (s *Session) refreshViewRow(id int) {
	for i := range s.view {
		if s.view[i].ID == id {
			idx := s.canonicalIndex(id)
			if idx >= 0 {
				s.view[i] = s.canonical[idx]
			}
			return
		}
	}
}

// recompute rebuilds the view and re-resolves the cursor. The transaction
// previously under the cursor is looked up by id in the new view; when it no
// longer matches, the cursor clamps to the nearest valid row rather than
// clearing. A keyboard-driven list always has a current row while any rows
// exist; only an empty view leaves nothing selected.
func (s *Session) recompute() {
	var selectedID int
	hadSelection := false
	if current, ok := s.Current(); ok {
		selectedID = current.ID
		hadSelection = true
	}

	s.view = Sort(s.criteria.Apply(s.canonical), s.sort.Column, s.sort.Direction)

	if hadSelection {
		if idx := s.IndexOf(selectedID); idx >= 0 {
			s.selection.NavigateTo(idx, len(s.view))
			return
		}
	}
	s.selection.NavigateTo(s.selection.Cursor(), len(s.view))
}
