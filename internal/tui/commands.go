package tui

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tallyups/tally/internal/export"
	"github.com/tallyups/tally/internal/model"
)

const requestTimeout = 30 * time.Second

// loadTransactions fetches the canonical list from the server.
func (m Model) loadTransactions() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		transactions, err := m.svc.GetTransactions(ctx)
		return transactionsLoadedMsg{transactions: transactions, err: err}
	}
}

// loadBusinessTypes fetches the classification taxonomy.
func (m Model) loadBusinessTypes() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		types, err := m.svc.GetBusinessTypes(ctx)
		return businessTypesLoadedMsg{types: types, err: err}
	}
}

// patchField issues the server patch behind an optimistic edit. The local
// mutation already happened; this is fire-and-forget beyond one level of
// error surfacing.
func (m Model) patchField(id int, field, value string, seq uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		err := m.svc.UpdateRow(ctx, id, map[string]string{field: value})
		return patchResultMsg{id: id, field: field, seq: seq, err: err}
	}
}

// aiMatch requests a receipt match. Single-flight is enforced by the caller.
func (m Model) aiMatch(id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		result, err := m.svc.AIMatch(ctx, id)
		return aiMatchResultMsg{id: id, result: result, err: err}
	}
}

// aiNote requests a generated note.
func (m Model) aiNote(id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		note, err := m.svc.GenerateNote(ctx, id)
		return aiNoteResultMsg{id: id, note: note, err: err}
	}
}

// aiCategorize requests a business-type suggestion.
func (m Model) aiCategorize(id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		businessType, err := m.svc.Categorize(ctx, id)
		return aiCategorizeResultMsg{id: id, businessType: businessType, err: err}
	}
}

// debounceSearch schedules a filter recompute; only the tick carrying the
// latest generation acts, so rapid keystrokes coalesce.
func debounceSearch(generation int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return searchDebounceMsg{generation: generation}
	})
}

// debounceResize coalesces window-size recalculation the same way.
func debounceResize(generation int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return resizeDebounceMsg{generation: generation}
	})
}

// expireToast schedules the auto-dismiss tick for a toast generation.
func expireToast(generation int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return toastExpiredMsg{generation: generation}
	})
}

// exportSelection writes the given transactions to a timestamped CSV file in
// the working directory.
func exportSelection(transactions []model.Transaction) tea.Cmd {
	return func() tea.Msg {
		path := time.Now().Format("tally-export-20060102-150405.csv")

		f, err := os.Create(path)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		defer func() { _ = f.Close() }()

		if err := export.WriteCSV(f, transactions); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: path, rows: len(transactions)}
	}
}
