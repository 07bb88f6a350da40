package tui

import (
	"github.com/tallyups/tally/internal/api"
	"github.com/tallyups/tally/internal/model"
)

// Data loading messages.
type transactionsLoadedMsg struct {
	err          error
	transactions []model.Transaction
}

type businessTypesLoadedMsg struct {
	err   error
	types []model.BusinessType
}

// patchResultMsg reports the outcome of one optimistic field patch. seq is
// the edit sequence the patch was issued under; stale results are dropped.
type patchResultMsg struct {
	err   error
	field string
	id    int
	seq   uint64
}

// AI operation results. Each clears the single-flight busy flag.
type aiMatchResultMsg struct {
	err    error
	result api.MatchResult
	id     int
}

type aiNoteResultMsg struct {
	err  error
	note string
	id   int
}

type aiCategorizeResultMsg struct {
	err          error
	businessType string
	id           int
}

// Debounce ticks carry the generation they were scheduled for; only the
// latest generation acts.
type searchDebounceMsg struct {
	generation int
}

type resizeDebounceMsg struct {
	generation int
}

type toastExpiredMsg struct {
	generation int
}

// exportDoneMsg reports a CSV export.
type exportDoneMsg struct {
	err  error
	path string
	rows int
}
