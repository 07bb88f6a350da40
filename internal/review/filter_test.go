package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tallyups/tally/internal/model"
)

func boolPtr(b bool) *bool { return &b }

func testTransactions() []model.Transaction {
	return []model.Transaction{
		{ID: 1, Merchant: "Whole Foods Market", BusinessType: "Business", Status: model.StatusApproved, Receipt: "r1.jpg"},
		{ID: 2, Merchant: "Shell Oil", Description: "fuel stop", BusinessType: "Personal", Status: model.StatusNeedsReview},
		{ID: 3, Merchant: "Amazon.com", BusinessType: "", Status: model.StatusNeedsReview},
		{ID: 4, Merchant: "Starbucks", BusinessType: model.BusinessTypeUnassigned, Status: model.StatusPersonal, Receipt: "r4.jpg"},
	}
}

func TestCriteria_Apply(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		wantIDs  []int
	}{
		{
			name:     "empty criteria matches all in original order",
			criteria: Criteria{},
			wantIDs:  []int{1, 2, 3, 4},
		},
		{
			name:     "query is case-insensitive substring over merchant",
			criteria: Criteria{Query: "WHOLE"},
			wantIDs:  []int{1},
		},
		{
			name:     "query also matches description",
			criteria: Criteria{Query: "fuel"},
			wantIDs:  []int{2},
		},
		{
			name:     "business type set membership",
			criteria: Criteria{BusinessTypes: []string{"Business", "Personal"}},
			wantIDs:  []int{1, 2},
		},
		{
			name:     "unassigned sentinel matches empty and literal",
			criteria: Criteria{BusinessTypes: []string{model.BusinessTypeUnassigned, ""}},
			wantIDs:  []int{3, 4},
		},
		{
			name:     "has receipt",
			criteria: Criteria{HasReceipt: boolPtr(true)},
			wantIDs:  []int{1, 4},
		},
		{
			name:     "no receipt",
			criteria: Criteria{HasReceipt: boolPtr(false)},
			wantIDs:  []int{2, 3},
		},
		{
			name:     "status exact match",
			criteria: Criteria{Status: model.StatusNeedsReview},
			wantIDs:  []int{2, 3},
		},
		{
			name: "dimensions are ANDed",
			criteria: Criteria{
				Status:     model.StatusNeedsReview,
				HasReceipt: boolPtr(false),
				Query:      "shell",
			},
			wantIDs: []int{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.criteria.Apply(testTransactions())

			gotIDs := make([]int, 0, len(got))
			for _, txn := range got {
				gotIDs = append(gotIDs, txn.ID)
			}
			assert.Equal(t, tt.wantIDs, gotIDs)
		})
	}
}

func TestCriteria_Apply_Idempotent(t *testing.T) {
	criteria := Criteria{
		Query:         "s",
		BusinessTypes: []string{"Personal", model.BusinessTypeUnassigned},
	}

	once := criteria.Apply(testTransactions())
	twice := criteria.Apply(once)

	assert.Equal(t, once, twice)
}

func TestCriteria_Apply_DoesNotMutateInput(t *testing.T) {
	input := testTransactions()
	Criteria{Query: "amazon"}.Apply(input)

	assert.Equal(t, testTransactions(), input)
}

func TestCriteria_ActiveCount(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     int
	}{
		{name: "empty", criteria: Criteria{}, want: 0},
		{name: "whitespace query does not count", criteria: Criteria{Query: "  "}, want: 0},
		{name: "single dimension", criteria: Criteria{Status: model.StatusApproved}, want: 1},
		{
			name: "all dimensions",
			criteria: Criteria{
				Query:         "x",
				Status:        model.StatusApproved,
				BusinessTypes: []string{"Business"},
				HasReceipt:    boolPtr(true),
			},
			want: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.criteria.ActiveCount())
		})
	}
}
