package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallyups/tally/internal/model"
)

func day(d int) time.Time {
	return time.Date(2025, 5, d, 0, 0, 0, 0, time.UTC)
}

func sessionWith(transactions []model.Transaction) *Session {
	s := NewSession()
	s.Load(transactions)
	return s
}

func TestSession_LoadSortsByDateDescending(t *testing.T) {
	s := sessionWith([]model.Transaction{
		{ID: 1, Date: day(1)},
		{ID: 2, Date: day(3)},
		{ID: 3, Date: day(2)},
	})

	assert.Equal(t, []int{2, 3, 1}, ids(s.View()))
	assert.Equal(t, 3, s.TotalCount())
}

func TestSession_ApplyUpdateScenario(t *testing.T) {
	s := sessionWith([]model.Transaction{
		{ID: 7, Date: day(1), BusinessType: "Business"},
	})

	seq, ok := s.ApplyUpdate(7, model.FieldBusinessType, "Personal")
	require.True(t, ok)
	assert.Equal(t, uint64(1), seq)

	txn, ok := s.Find(7)
	require.True(t, ok)
	assert.Equal(t, "Personal", txn.BusinessType)
	assert.Equal(t, "Personal", s.View()[0].BusinessType, "view row refreshed in place")

	// Undo restores the previous value and invalidates the in-flight patch.
	entry, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, model.FieldBusinessType, entry.Field)
	assert.Equal(t, 7, entry.TransactionID)
	assert.Equal(t, "Business", entry.PreviousValue)

	txn, _ = s.Find(7)
	assert.Equal(t, "Business", txn.BusinessType)
	assert.False(t, s.IsCurrent(7, model.FieldBusinessType, seq))
}

func TestSession_ApplyUpdateUnknownID(t *testing.T) {
	s := sessionWith(nil)

	_, ok := s.ApplyUpdate(42, model.FieldStatus, model.StatusApproved)
	assert.False(t, ok)
	assert.Equal(t, 0, s.UndoDepth())
}

func TestSession_UndoEmptyStack(t *testing.T) {
	s := sessionWith(nil)

	_, ok := s.Undo()
	assert.False(t, ok)
}

func TestSession_StaleResponseDetection(t *testing.T) {
	s := sessionWith([]model.Transaction{{ID: 1, Date: day(1)}})

	first, _ := s.ApplyUpdate(1, model.FieldStatus, model.StatusApproved)
	second, _ := s.ApplyUpdate(1, model.FieldStatus, model.StatusPersonal)

	assert.False(t, s.IsCurrent(1, model.FieldStatus, first),
		"response for the first patch must be discarded")
	assert.True(t, s.IsCurrent(1, model.FieldStatus, second))
}

func TestSession_CursorFollowsSelectionAcrossViewChanges(t *testing.T) {
	s := sessionWith([]model.Transaction{
		{ID: 1, Date: day(1), Merchant: "Alpha", Status: model.StatusApproved},
		{ID: 2, Date: day(2), Merchant: "Beta", Status: model.StatusNeedsReview},
		{ID: 3, Date: day(3), Merchant: "Gamma", Status: model.StatusNeedsReview},
	})

	// Cursor onto id 2 (view order is 3, 2, 1).
	s.Selection().NavigateTo(1, len(s.View()))
	current, _ := s.Current()
	require.Equal(t, 2, current.ID)

	// Re-sorting keeps the same transaction under the cursor.
	s.SelectColumn(ColumnMerchant)
	current, _ = s.Current()
	assert.Equal(t, 2, current.ID)

	// Filtering it out clamps the cursor to a valid row.
	s.SetCriteria(Criteria{Status: model.StatusApproved})
	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, 1, current.ID)
}

func TestSession_BulkSelectionSurvivesFiltering(t *testing.T) {
	s := sessionWith([]model.Transaction{
		{ID: 1, Date: day(1), Status: model.StatusApproved},
		{ID: 2, Date: day(2), Status: model.StatusNeedsReview},
	})

	s.Selection().Toggle(1)
	s.Selection().Toggle(2)

	s.SetCriteria(Criteria{Status: model.StatusNeedsReview})

	assert.Equal(t, 1, len(s.View()))
	assert.Equal(t, 2, s.Selection().BulkCount(),
		"hidden members stay in the bulk set")
	assert.True(t, s.Selection().Selected(1))
}

func TestSession_MarkNewlyMatched(t *testing.T) {
	s := sessionWith([]model.Transaction{{ID: 5, Date: day(1)}})

	s.MarkNewlyMatched(5, "receipts/0005.jpg")

	txn, _ := s.Find(5)
	assert.True(t, txn.NewlyMatched)
	assert.Equal(t, "receipts/0005.jpg", txn.Receipt)
	assert.Equal(t, 0, s.UndoDepth(), "matching is not an undoable edit")
}
