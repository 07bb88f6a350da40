package review

import (
	"sort"
	"strings"

	"github.com/tallyups/tally/internal/model"
)

// Column identifies a sortable column of the review table.
type Column string

// Sortable columns.
const (
	ColumnDate         Column = "date"
	ColumnMerchant     Column = "merchant"
	ColumnAmount       Column = "amount"
	ColumnBusinessType Column = "businessType"
	ColumnStatus       Column = "status"
	ColumnConfidence   Column = "confidence"
)

// Direction is a sort direction.
type Direction int

// Sort directions.
const (
	Ascending Direction = iota
	Descending
)

// SortState tracks the single active sort. Exactly one column is active at a
// time.
type SortState struct {
	Column    Column
	Direction Direction
}

// DefaultDirection returns the direction used when a column is first
// selected: newest/largest first for date, amount, and confidence, A-Z for
// textual columns.
func DefaultDirection(col Column) Direction {
	switch col {
	case ColumnDate, ColumnAmount, ColumnConfidence:
		return Descending
	default:
		return Ascending
	}
}

// Select activates a column. Re-selecting the active column flips the
// direction; a new column starts at its default direction.
func (s *SortState) Select(col Column) {
	if s.Column == col {
		if s.Direction == Ascending {
			s.Direction = Descending
		} else {
			s.Direction = Ascending
		}
		return
	}
	s.Column = col
	s.Direction = DefaultDirection(col)
}

// Sort returns a new slice ordered by the given column and direction. The
// sort is stable: rows comparing equal keep their relative input order, so
// sorting an already-sorted list is a no-op.
func Sort(transactions []model.Transaction, col Column, dir Direction) []model.Transaction {
	out := make([]model.Transaction, len(transactions))
	copy(out, transactions)

	less := lessFunc(col)
	sort.SliceStable(out, func(i, j int) bool {
		if dir == Descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})

	return out
}

// lessFunc picks the comparator for a column, coercing missing or
// heterogeneous data: zero time for unparseable dates, 0 for missing amounts,
// lower-cased text with "" for missing strings.
func lessFunc(col Column) func(a, b model.Transaction) bool {
	switch col {
	case ColumnDate:
		return func(a, b model.Transaction) bool { return a.Date.Before(b.Date) }
	case ColumnAmount:
		return func(a, b model.Transaction) bool { return a.Amount < b.Amount }
	case ColumnConfidence:
		return func(a, b model.Transaction) bool { return a.AIConfidence < b.AIConfidence }
	case ColumnBusinessType:
		return textLess(func(t model.Transaction) string { return t.BusinessType })
	case ColumnStatus:
		return textLess(func(t model.Transaction) string { return t.Status })
	default:
		return textLess(func(t model.Transaction) string { return t.Merchant })
	}
}

func textLess(key func(model.Transaction) string) func(a, b model.Transaction) bool {
	return func(a, b model.Transaction) bool {
		return strings.ToLower(key(a)) < strings.ToLower(key(b))
	}
}
