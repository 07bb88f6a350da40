package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tallyups/tally/internal/model"
)

func ids(transactions []model.Transaction) []int {
	out := make([]int, 0, len(transactions))
	for _, txn := range transactions {
		out = append(out, txn.ID)
	}
	return out
}

func TestSort_AmountScenario(t *testing.T) {
	list := []model.Transaction{
		{ID: 1, Amount: -50},
		{ID: 2, Amount: 20},
		{ID: 3, Amount: 100},
	}

	assert.Equal(t, []int{3, 2, 1}, ids(Sort(list, ColumnAmount, Descending)))
	assert.Equal(t, []int{1, 2, 3}, ids(Sort(list, ColumnAmount, Ascending)))
}

func TestSort_Stable(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	list := []model.Transaction{
		{ID: 1, Date: day, Amount: 10},
		{ID: 2, Date: day, Amount: 20},
		{ID: 3, Date: day, Amount: 30},
	}

	// Every element ties on date, so a date sort must be a no-op.
	assert.Equal(t, []int{1, 2, 3}, ids(Sort(list, ColumnDate, Descending)))

	// Sorting an already-sorted list produces the identical ordering.
	once := Sort(list, ColumnAmount, Ascending)
	twice := Sort(once, ColumnAmount, Ascending)
	assert.Equal(t, once, twice)
}

func TestSort_Coercion(t *testing.T) {
	list := []model.Transaction{
		{ID: 1, Merchant: "zeta", Date: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Merchant: "ALPHA"}, // zero date sorts first ascending
		{ID: 3, Merchant: ""},
	}

	assert.Equal(t, []int{2, 1, 3}, ids(Sort(list, ColumnDate, Ascending)),
		"missing date coerces to zero time")
	assert.Equal(t, []int{3, 2, 1}, ids(Sort(list, ColumnMerchant, Ascending)),
		"text compares lower-cased with missing as empty string")
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	list := []model.Transaction{
		{ID: 1, Amount: 5},
		{ID: 2, Amount: 1},
	}

	Sort(list, ColumnAmount, Ascending)
	assert.Equal(t, []int{1, 2}, ids(list))
}

func TestDefaultDirection(t *testing.T) {
	tests := []struct {
		name string
		col  Column
		want Direction
	}{
		{name: "date defaults descending", col: ColumnDate, want: Descending},
		{name: "amount defaults descending", col: ColumnAmount, want: Descending},
		{name: "confidence defaults descending", col: ColumnConfidence, want: Descending},
		{name: "merchant defaults ascending", col: ColumnMerchant, want: Ascending},
		{name: "business type defaults ascending", col: ColumnBusinessType, want: Ascending},
		{name: "status defaults ascending", col: ColumnStatus, want: Ascending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultDirection(tt.col))
		})
	}
}

func TestSortState_Select(t *testing.T) {
	state := SortState{Column: ColumnDate, Direction: Descending}

	state.Select(ColumnMerchant)
	assert.Equal(t, SortState{Column: ColumnMerchant, Direction: Ascending}, state)

	// Re-selecting flips direction.
	state.Select(ColumnMerchant)
	assert.Equal(t, SortState{Column: ColumnMerchant, Direction: Descending}, state)

	state.Select(ColumnMerchant)
	assert.Equal(t, SortState{Column: ColumnMerchant, Direction: Ascending}, state)
}
