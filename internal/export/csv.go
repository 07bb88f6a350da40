// Package export writes transaction lists to interchange formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/tallyups/tally/internal/model"
)

var csvHeader = []string{
	"Date", "Merchant", "Description", "Amount",
	"Business Type", "Status", "Receipt", "AI Note",
}

// WriteCSV writes transactions as CSV in the column order reviewers see on
// screen. Dates use ISO 8601; an unassigned business type is written as the
// explicit sentinel so spreadsheets can group on it.
func WriteCSV(w io.Writer, transactions []model.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, t := range transactions {
		date := ""
		if !t.Date.IsZero() {
			date = t.Date.Format("2006-01-02")
		}

		businessType := t.BusinessType
		if t.Unassigned() {
			businessType = model.BusinessTypeUnassigned
		}

		row := []string{
			date,
			t.Merchant,
			t.Description,
			fmt.Sprintf("%.2f", t.Amount),
			businessType,
			t.Status,
			t.Receipt,
			t.AINote,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
