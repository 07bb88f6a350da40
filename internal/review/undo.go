package review

import "time"

// UndoCapacity bounds the undo stack. When a push would exceed it, the oldest
// entry is evicted: FIFO at capacity, LIFO pop order for undo.
const UndoCapacity = 50

// UndoEntry records one field edit so it can be rolled back.
type UndoEntry struct {
	Timestamp     time.Time
	Field         string
	PreviousValue string
	TransactionID int
}

// UndoStack is a bounded LIFO log of field edits. Single-level undo only;
// there is no redo.
type UndoStack struct {
	entries []UndoEntry
}

// Push appends an entry, evicting the oldest when the stack is full.
func (s *UndoStack) Push(field string, transactionID int, previousValue string) {
	s.entries = append(s.entries, UndoEntry{
		Timestamp:     time.Now(),
		Field:         field,
		TransactionID: transactionID,
		PreviousValue: previousValue,
	})
	if len(s.entries) > UndoCapacity {
		s.entries = s.entries[1:]
	}
}

// Pop removes and returns the most recent entry. ok is false when the stack
// is empty, signaling "nothing to undo".
func (s *UndoStack) Pop() (UndoEntry, bool) {
	if len(s.entries) == 0 {
		return UndoEntry{}, false
	}
	entry := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return entry, true
}

// Len returns the number of stored entries.
func (s *UndoStack) Len() int {
	return len(s.entries)
}
