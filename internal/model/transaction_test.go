package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  map[string]any
		want Transaction
		name string
	}{
		{
			name: "modern field names",
			raw: map[string]any{
				"_index":        float64(7),
				"date":          "2025-03-14",
				"merchant":      "Whole Foods Market",
				"amount":        42.17,
				"Business Type": "Business",
				"Status":        StatusApproved,
				"Receipt":       "receipts/0042.jpg",
			},
			want: Transaction{
				ID:           7,
				Date:         time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
				Merchant:     "Whole Foods Market",
				Amount:       42.17,
				BusinessType: "Business",
				Status:       StatusApproved,
				Receipt:      "receipts/0042.jpg",
			},
		},
		{
			name: "legacy aliases resolve once",
			raw: map[string]any{
				"_index":           "12",
				"Transaction Date": "03/01/2025",
				"Description":      "SHELL OIL 574",
				"Amount":           "$1,250.50",
				"business_type":    "Personal",
				"review_status":    StatusNeedsReview,
				"matched_receipt":  "r.png",
			},
			want: Transaction{
				ID:           12,
				Date:         time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
				Merchant:     "SHELL OIL 574",
				Amount:       1250.50,
				BusinessType: "Personal",
				Status:       StatusNeedsReview,
				Receipt:      "r.png",
			},
		},
		{
			name: "unassigned literal becomes empty",
			raw: map[string]any{
				"_index":        float64(3),
				"Business Type": BusinessTypeUnassigned,
			},
			want: Transaction{ID: 3},
		},
		{
			name: "missing and malformed values degrade to zero",
			raw: map[string]any{
				"_index": "not-a-number",
				"date":   "tomorrow",
				"amount": "free",
			},
			want: Transaction{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransaction_HasReceipt(t *testing.T) {
	assert.False(t, Transaction{}.HasReceipt())
	assert.True(t, Transaction{Receipt: "a.jpg"}.HasReceipt())
	assert.True(t, Transaction{ReceiptURL: "https://example.com/a.jpg"}.HasReceipt())
}

func TestTransaction_GetSet(t *testing.T) {
	txn := Transaction{BusinessType: "Business"}

	assert.Equal(t, "Business", txn.Get(FieldBusinessType))

	txn.Set(FieldBusinessType, "Personal")
	assert.Equal(t, "Personal", txn.BusinessType)

	// Unknown fields are ignored
	txn.Set("No Such Field", "x")
	assert.Equal(t, "", txn.Get("No Such Field"))
}
