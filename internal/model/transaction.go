// Package model defines the canonical record types shared across the client.
package model

import (
	"strconv"
	"strings"
	"time"
)

// Review statuses recognized by the server.
const (
	StatusNeedsReview = "needs_review"
	StatusApproved    = "approved"
	StatusPersonal    = "personal"
)

// BusinessTypeUnassigned is the sentinel for a transaction with no
// classification. The empty string and this literal are treated as the same
// bucket when filtering.
const BusinessTypeUnassigned = "Unassigned"

// Patchable field names as the server knows them.
const (
	FieldBusinessType = "Business Type"
	FieldStatus       = "Status"
	FieldAINote       = "AI Note"
	FieldReceipt      = "Receipt"
)

// Transaction is the canonical in-memory representation of one bank
// transaction. ID is assigned once by the server and is the sole key for
// selection, undo, and row identity across re-sorts and re-filters.
type Transaction struct {
	Date         time.Time
	Merchant     string
	Description  string
	BusinessType string
	Status       string
	Receipt      string
	ReceiptURL   string
	AINote       string
	ID           int
	Amount       float64
	AIConfidence float64
	NewlyMatched bool
}

// HasReceipt reports whether any receipt reference field is populated.
func (t Transaction) HasReceipt() bool {
	return t.Receipt != "" || t.ReceiptURL != ""
}

// Unassigned reports whether the transaction has no business type.
func (t Transaction) Unassigned() bool {
	return t.BusinessType == "" || t.BusinessType == BusinessTypeUnassigned
}

// Get returns the current value of a patchable field by server field name.
func (t Transaction) Get(field string) string {
	switch field {
	case FieldBusinessType:
		return t.BusinessType
	case FieldStatus:
		return t.Status
	case FieldAINote:
		return t.AINote
	case FieldReceipt:
		return t.Receipt
	default:
		return ""
	}
}

// Set assigns a patchable field by server field name. Unknown fields are
// ignored rather than rejected; the server is the validation authority.
func (t *Transaction) Set(field, value string) {
	switch field {
	case FieldBusinessType:
		t.BusinessType = value
	case FieldStatus:
		t.Status = value
	case FieldAINote:
		t.AINote = value
	case FieldReceipt:
		t.Receipt = value
	}
}

// Field aliases left behind by earlier versions of the server. Alias
// resolution happens exactly once, at ingestion.
var (
	dateAliases     = []string{"date", "Date", "transaction_date", "Transaction Date"}
	merchantAliases = []string{"merchant", "Merchant", "Description", "name", "Name"}
	descAliases     = []string{"description", "Details", "original_description"}
	receiptAliases  = []string{"Receipt", "receipt", "receipt_file", "matched_receipt"}
	amountAliases   = []string{"amount", "Amount"}
	typeAliases     = []string{"Business Type", "business_type", "Type"}
	statusAliases   = []string{"Status", "status", "review_status"}
	noteAliases     = []string{"AI Note", "ai_note"}
)

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// Normalize resolves a loose server-side transaction object into a canonical
// Transaction. Missing or malformed values degrade to zero values; they are
// never an error, since the list must load even when individual rows carry
// legacy shapes.
func Normalize(raw map[string]any) Transaction {
	t := Transaction{
		ID:           intField(raw, "_index"),
		Date:         dateField(raw, dateAliases),
		Merchant:     stringField(raw, merchantAliases),
		Description:  stringField(raw, descAliases),
		Amount:       floatField(raw, amountAliases),
		BusinessType: stringField(raw, typeAliases),
		Status:       stringField(raw, statusAliases),
		Receipt:      stringField(raw, receiptAliases),
		AINote:       stringField(raw, noteAliases),
		AIConfidence: floatField(raw, []string{"ai_confidence", "AI Confidence"}),
	}

	if url, ok := raw["receipt_url"].(string); ok {
		t.ReceiptURL = url
	}
	if t.BusinessType == BusinessTypeUnassigned {
		t.BusinessType = ""
	}

	return t
}

func stringField(raw map[string]any, aliases []string) string {
	for _, key := range aliases {
		if v, ok := raw[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func intField(raw map[string]any, key string) int {
	switch v := raw[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func floatField(raw map[string]any, aliases []string) float64 {
	for _, key := range aliases {
		switch v := raw[key].(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case string:
			cleaned := strings.TrimSpace(strings.ReplaceAll(strings.TrimPrefix(v, "$"), ",", ""))
			f, err := strconv.ParseFloat(cleaned, 64)
			if err == nil {
				return f
			}
		}
	}
	return 0
}

func dateField(raw map[string]any, aliases []string) time.Time {
	for _, key := range aliases {
		s, ok := raw[key].(string)
		if !ok || s == "" {
			continue
		}
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, s); err == nil {
				return d
			}
		}
	}
	return time.Time{}
}
