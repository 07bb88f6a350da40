// Package review implements the pure state machinery behind the transaction
// review interface: filtering, sorting, virtual windowing, selection, and the
// undo stack. Nothing in this package performs I/O.
package review

import (
	"strings"

	"github.com/tallyups/tally/internal/model"
)

// Criteria describes the active filter set. A zero-value dimension means "no
// constraint"; populated dimensions are ANDed together.
type Criteria struct {
	Query         string
	Status        string
	BusinessTypes []string
	HasReceipt    *bool
}

// Apply returns the subset of transactions matching every active dimension,
// preserving relative input order. Empty criteria returns a copy of the input.
func (c Criteria) Apply(transactions []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, 0, len(transactions))
	query := strings.ToLower(strings.TrimSpace(c.Query))

	for _, txn := range transactions {
		if query != "" && !matchesQuery(txn, query) {
			continue
		}
		if len(c.BusinessTypes) > 0 && !c.matchesBusinessType(txn) {
			continue
		}
		if c.HasReceipt != nil && txn.HasReceipt() != *c.HasReceipt {
			continue
		}
		if c.Status != "" && txn.Status != c.Status {
			continue
		}
		out = append(out, txn)
	}

	return out
}

// ActiveCount returns the number of constraining dimensions, for the filter
// badge in the status bar.
func (c Criteria) ActiveCount() int {
	count := 0
	if strings.TrimSpace(c.Query) != "" {
		count++
	}
	if len(c.BusinessTypes) > 0 {
		count++
	}
	if c.HasReceipt != nil {
		count++
	}
	if c.Status != "" {
		count++
	}
	return count
}

func matchesQuery(txn model.Transaction, query string) bool {
	return strings.Contains(strings.ToLower(txn.Merchant), query) ||
		strings.Contains(strings.ToLower(txn.Description), query)
}

// matchesBusinessType checks set membership. The Unassigned sentinel accepts
// both the literal value and an empty field.
func (c Criteria) matchesBusinessType(txn model.Transaction) bool {
	for _, accepted := range c.BusinessTypes {
		if accepted == model.BusinessTypeUnassigned || accepted == "" {
			if txn.Unassigned() {
				return true
			}
			continue
		}
		if txn.BusinessType == accepted {
			return true
		}
	}
	return false
}
