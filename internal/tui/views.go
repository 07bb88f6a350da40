package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tallyups/tally/internal/model"
	"github.com/tallyups/tally/internal/review"
)

// View renders the interface.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return m.viewLoading()
	}

	switch m.state {
	case StateHelp:
		return m.viewHelp()
	case StateErrors:
		return m.viewErrorLog()
	default:
		return m.viewList()
	}
}

func (m Model) viewLoading() string {
	msg := fmt.Sprintf("%s Loading transactions...", m.spinner.View())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		m.theme.Subtitle.Render(msg))
}

func (m Model) viewList() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n")
	b.WriteString(m.viewSearchBar())
	b.WriteString("\n")
	b.WriteString(m.viewTable())
	b.WriteString("\n")
	b.WriteString(m.viewFooter())

	return b.String()
}

// viewHeader is the status line: counts, sort indicator, active filters, and
// the bulk selection tally.
func (m Model) viewHeader() string {
	view := m.session.View()

	title := m.theme.Title.Render("TallyUps Review")

	counts := fmt.Sprintf("%d of %d", len(view), m.session.TotalCount())
	if len(view) == m.session.TotalCount() {
		counts = fmt.Sprintf("%d transactions", m.session.TotalCount())
	}

	parts := []string{title, m.theme.Subtitle.Render(counts), m.viewSortIndicator()}

	if active := m.session.Criteria().ActiveCount(); active > 0 {
		parts = append(parts, m.theme.StatusWarning.Render(fmt.Sprintf("[%d filters]", active)))
	}
	if n := m.session.Selection().BulkCount(); n > 0 {
		parts = append(parts, m.theme.StatusInfo.Render(fmt.Sprintf("%d selected", n)))
	}
	if m.aiBusy {
		parts = append(parts, m.theme.StatusPending.Render("AI working..."))
	}

	return strings.Join(parts, "  ")
}

func (m Model) viewSortIndicator() string {
	sortState := m.session.Sort()
	arrow := "↑"
	if sortState.Direction == review.Descending {
		arrow = "↓"
	}
	return m.theme.Subtitle.Render(fmt.Sprintf("sort: %s %s", sortState.Column, arrow))
}

func (m Model) viewSearchBar() string {
	if m.state == StateSearch {
		return m.theme.Normal.Render("Search: ") + m.searchInput.View()
	}
	if q := m.session.Criteria().Query; q != "" {
		return m.theme.Subtitle.Render(fmt.Sprintf("Search: %q  (/ to edit, Esc to keep)", q))
	}
	return m.theme.Subtitle.Render("Press / to search")
}

// Column layout. Merchant absorbs leftover width.
const (
	colWidthStatus     = 2
	colWidthDate       = 10
	colWidthAmount     = 10
	colWidthType       = 16
	colWidthReceipt    = 3
	colWidthConfidence = 5
)

func (m Model) merchantWidth() int {
	fixed := colWidthStatus + colWidthDate + colWidthAmount + colWidthType +
		colWidthReceipt + colWidthConfidence + 7 // column gaps
	w := m.width - fixed
	if w < 12 {
		w = 12
	}
	return w
}

// viewTable renders the visible slice of the window plus spacer lines that
// report how many rows sit outside the materialized range.
func (m Model) viewTable() string {
	view := m.session.View()
	if len(view) == 0 {
		return m.viewEmpty()
	}

	var b strings.Builder
	b.WriteString(m.viewTableHeader())
	b.WriteString("\n")

	// Only rows inside the materialized window are drawn; everything outside
	// collapses into the spacer lines.
	viewport := m.tableHeight()
	start := m.scrollRow
	if start < m.window.Start {
		start = m.window.Start
	}
	end := start + viewport
	if end > m.window.End {
		end = m.window.End
	}

	if start > 0 {
		b.WriteString(m.theme.Spacer.Render(fmt.Sprintf("  ↑ %d more", start)))
		b.WriteString("\n")
	}

	cursor := m.session.Selection().Cursor()
	for i := start; i < end; i++ {
		b.WriteString(m.viewRow(view[i], i == cursor))
		b.WriteString("\n")
	}

	if hidden := len(view) - end; hidden > 0 {
		b.WriteString(m.theme.Spacer.Render(fmt.Sprintf("  ↓ %d more", hidden)))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewEmpty() string {
	if m.session.TotalCount() == 0 {
		if m.lastError != nil {
			return m.theme.StatusError.Render("Could not load transactions. Press e for details.")
		}
		return m.theme.Subtitle.Render("No transactions to review.")
	}
	return m.theme.Subtitle.Render("No transactions match the current filters. Press F to clear.")
}

func (m Model) viewTableHeader() string {
	header := fmt.Sprintf("%-*s %-*s %-*s %*s %-*s %-*s %*s",
		colWidthStatus, "",
		colWidthDate, "Date",
		m.merchantWidth(), "Merchant",
		colWidthAmount, "Amount",
		colWidthType, "Type",
		colWidthReceipt, "Rcp",
		colWidthConfidence, "Conf")
	return m.theme.TableHeader.Render(header)
}

func (m Model) viewRow(txn model.Transaction, underCursor bool) string {
	marker := " "
	if m.session.Selection().Selected(txn.ID) {
		marker = "✓"
	}

	receipt := " "
	if txn.HasReceipt() {
		receipt = "◆"
		if txn.NewlyMatched {
			receipt = "◈"
		}
	}

	businessType := txn.BusinessType
	if txn.Unassigned() {
		businessType = model.BusinessTypeUnassigned
	}

	confidence := ""
	if txn.AIConfidence > 0 {
		confidence = fmt.Sprintf("%3.0f%%", txn.AIConfidence*100)
	}

	date := ""
	if !txn.Date.IsZero() {
		date = txn.Date.Format("2006-01-02")
	}

	row := fmt.Sprintf("%-*s %-*s %-*s %*s %-*s %-*s %*s",
		colWidthStatus, statusIcon(txn.Status)+marker,
		colWidthDate, date,
		m.merchantWidth(), truncate(txn.Merchant, m.merchantWidth()),
		colWidthAmount, fmt.Sprintf("%.2f", txn.Amount),
		colWidthType, truncate(businessType, colWidthType),
		colWidthReceipt, receipt,
		colWidthConfidence, confidence)

	switch {
	case underCursor:
		return m.theme.Selected.Render(row)
	case m.session.Selection().Selected(txn.ID):
		return m.theme.Highlighted.Render(row)
	default:
		return m.theme.Normal.Render(row)
	}
}

func statusIcon(status string) string {
	switch status {
	case model.StatusApproved:
		return "✓"
	case model.StatusPersonal:
		return "○"
	default:
		return "●"
	}
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 1 {
		return s[:width]
	}
	return s[:width-1] + "…"
}

func (m Model) viewFooter() string {
	var b strings.Builder

	if toast := m.toast.View(m.theme); toast != "" {
		b.WriteString(toast)
	}
	b.WriteString("\n")

	var hints []string
	for _, binding := range m.keymap.ShortHelp() {
		h := binding.Help()
		hints = append(hints, fmt.Sprintf("%s %s", m.theme.Bold.Render(h.Key), m.theme.Subtitle.Render(h.Desc)))
	}
	b.WriteString(strings.Join(hints, "  "))

	return b.String()
}

// viewHelp renders the shortcut reference, generated from the dispatch table
// so it can never drift from actual behavior.
func (m Model) viewHelp() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, group := range m.keymap.HelpGroups() {
		b.WriteString(m.theme.Bold.Render(group.Title))
		b.WriteString("\n")
		for _, s := range group.Shortcuts {
			h := s.Binding.Help()
			b.WriteString(fmt.Sprintf("  %s  %s\n",
				m.theme.StatusInfo.Render(fmt.Sprintf("%-14s", h.Key)),
				m.theme.Normal.Render(h.Desc)))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.theme.Subtitle.Render("Press ? or Esc to close"))
	return m.theme.BorderedBox.Render(b.String())
}

func (m Model) viewErrorLog() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Recent Errors"))
	b.WriteString("\n\n")

	entries := m.errLog.Recent(20)
	if len(entries) == 0 {
		b.WriteString(m.theme.Subtitle.Render("No errors recorded."))
	}
	for _, entry := range entries {
		b.WriteString(fmt.Sprintf("%s  %s  %s\n",
			m.theme.Subtitle.Render(entry.Time.Format("15:04:05")),
			m.theme.Bold.Render(entry.Context),
			m.theme.StatusError.Render(entry.Err.Error())))
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Subtitle.Render("Press e or Esc to close"))
	return m.theme.BorderedBox.Render(b.String())
}
