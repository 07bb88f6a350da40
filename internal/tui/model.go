// Package tui implements the keyboard-driven transaction review interface.
package tui

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tallyups/tally/internal/api"
	"github.com/tallyups/tally/internal/common"
	"github.com/tallyups/tally/internal/config"
	"github.com/tallyups/tally/internal/model"
	"github.com/tallyups/tally/internal/review"
	"github.com/tallyups/tally/internal/tui/components"
	"github.com/tallyups/tally/internal/tui/themes"
)

// State is the coarse input state of the interface.
type State int

// Interface states.
const (
	StateList State = iota
	StateSearch
	StateHelp
	StateErrors
)

// statusFilterCycle is the order the f key walks the status filter through.
var statusFilterCycle = []string{"", model.StatusNeedsReview, model.StatusApproved, model.StatusPersonal}

// sortCycle is the order the o key walks the sort column through.
var sortCycle = []review.Column{
	review.ColumnDate,
	review.ColumnMerchant,
	review.ColumnAmount,
	review.ColumnBusinessType,
	review.ColumnStatus,
	review.ColumnConfidence,
}

// Config holds the review interface dependencies.
type Config struct {
	Service         api.Service
	ErrorLog        *common.ErrorLog
	Theme           themes.Theme
	UI              config.UI
	InitialCriteria review.Criteria
}

// Model is the review interface controller. It owns the session (canonical
// list, view, selection, undo), wires dispatcher actions to mutations, and
// performs all server calls through tea commands.
type Model struct {
	svc         api.Service
	errLog      *common.ErrorLog
	logger      *slog.Logger
	session     *review.Session
	types       []model.BusinessType
	searchInput textinput.Model
	spinner     spinner.Model
	toast       components.Toast
	keymap      KeyMap
	theme       themes.Theme
	ui          config.UI
	window      review.Window
	lastError   error
	width       int
	height      int
	scrollRow   int
	sortIndex   int
	statusIndex int
	searchGen   int
	resizeGen   int
	state       State
	aiBusy      bool
	ready       bool
	quitting    bool
}

// New creates the review interface model.
func New(cfg Config) Model {
	if cfg.ErrorLog == nil {
		cfg.ErrorLog = common.NewErrorLog(common.DefaultErrorLogCapacity)
	}

	searchInput := textinput.New()
	searchInput.Placeholder = "Search merchant or description..."
	searchInput.CharLimit = 80

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	session := review.NewSession()
	session.SetCriteria(cfg.InitialCriteria)

	return Model{
		svc:         cfg.Service,
		errLog:      cfg.ErrorLog,
		logger:      common.ComponentLogger("tui"),
		session:     session,
		searchInput: searchInput,
		spinner:     sp,
		toast:       components.NewToast(cfg.UI.ToastDuration),
		keymap:      DefaultKeyMap(),
		theme:       cfg.Theme,
		ui:          cfg.UI,
		width:       80,
		height:      24,
	}
}

// Init starts data loading.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		m.spinner.Tick,
		m.loadTransactions(),
		m.loadBusinessTypes(),
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeGen++
		return m, debounceResize(m.resizeGen, m.ui.ResizeDebounce)

	case resizeDebounceMsg:
		if msg.generation == m.resizeGen {
			m.recomputeWindow()
		}
		return m, nil

	case transactionsLoadedMsg:
		if msg.err != nil {
			m.lastError = msg.err
			m.ready = true
			var userErr *common.UserError
			if errors.As(msg.err, &userErr) {
				return m.showToast(userErr.Error(), components.ToastError)
			}
			return m.showToast(fmt.Sprintf("Failed to load transactions: %v", msg.err), components.ToastError)
		}
		m.session.Load(msg.transactions)
		m.ready = true
		m.recomputeWindow()
		return m, nil

	case businessTypesLoadedMsg:
		if msg.err != nil {
			// The list still works without the taxonomy; digits just report it.
			m.errLog.Record("load business types", msg.err)
			return m, nil
		}
		m.types = msg.types
		return m, nil

	case patchResultMsg:
		return m.handlePatchResult(msg)

	case aiMatchResultMsg:
		return m.handleAIMatch(msg)

	case aiNoteResultMsg:
		return m.handleAINote(msg)

	case aiCategorizeResultMsg:
		return m.handleAICategorize(msg)

	case searchDebounceMsg:
		if msg.generation == m.searchGen {
			m.applyQuery(m.searchInput.Value())
		}
		return m, nil

	case toastExpiredMsg:
		m.toast.Expire(msg.generation)
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			return m.showToast(fmt.Sprintf("Export failed: %v", msg.err), components.ToastError)
		}
		return m.showToast(fmt.Sprintf("Exported %d rows to %s", msg.rows, msg.path), components.ToastSuccess)

	case spinner.TickMsg:
		if !m.ready {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

// handleKey routes key events by input state: global overrides first, then
// the state-specific handlers, then the dispatch table.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global overrides regardless of state.
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.closeAll()
		return m, nil
	case "/":
		// Focus search from any state, including over an open overlay.
		// When the field is already focused, "/" is ordinary input.
		if m.state != StateSearch {
			m.state = StateSearch
			m.searchInput.Focus()
			return m, textinput.Blink
		}
	}

	switch m.state {
	case StateSearch:
		return m.handleSearchKey(msg)
	case StateHelp, StateErrors:
		return m.handleOverlayKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

// handleSearchKey suppresses all single-key shortcuts while the search field
// is focused. Enter blurs the field without hitting the dispatch table;
// everything else feeds the input and re-arms the debounce.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		m.searchInput.Blur()
		m.state = StateList
		m.applyQuery(m.searchInput.Value())
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.searchGen++
	return m, tea.Batch(cmd, debounceSearch(m.searchGen, m.ui.SearchDebounce))
}

// handleOverlayKey keeps the help and error overlays modal: only the toggle
// keys act, everything else is swallowed.
func (m Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "?":
		if m.state == StateHelp {
			m.state = StateList
		} else {
			m.state = StateHelp
		}
	case "e":
		if m.state == StateErrors {
			m.state = StateList
		} else {
			m.state = StateErrors
		}
	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd, ok := m.keymap.Resolve(msg)
	if !ok {
		return m, nil
	}
	return m.dispatch(cmd)
}

// closeAll is the Escape action: blur the search field and dismiss any
// overlay or toast.
func (m *Model) closeAll() {
	m.searchInput.Blur()
	m.state = StateList
	m.toast.Dismiss()
}

// dispatch performs one named action. This is the single funnel between the
// keyboard dispatcher and the controller.
func (m Model) dispatch(cmd Command) (tea.Model, tea.Cmd) {
	view := m.session.View()

	switch cmd.Action {
	// Navigation
	case ActionCursorUp:
		m.session.Selection().Navigate(-1, len(view))
		m.ensureCursorVisible()
	case ActionCursorDown:
		m.session.Selection().Navigate(1, len(view))
		m.ensureCursorVisible()
	case ActionPageUp:
		m.session.Selection().Navigate(-m.tableHeight(), len(view))
		m.ensureCursorVisible()
	case ActionPageDown:
		m.session.Selection().Navigate(m.tableHeight(), len(view))
		m.ensureCursorVisible()
	case ActionHome:
		m.session.Selection().NavigateTo(0, len(view))
		m.ensureCursorVisible()
	case ActionEnd:
		m.session.Selection().NavigateTo(review.LastRow, len(view))
		m.ensureCursorVisible()

	// Quick actions
	case ActionApprove:
		return m.updateCurrentField(model.FieldStatus, model.StatusApproved)
	case ActionMarkNeedsReview:
		return m.updateCurrentField(model.FieldStatus, model.StatusNeedsReview)
	case ActionMarkPersonal:
		return m.updateCurrentField(model.FieldStatus, model.StatusPersonal)

	// Business type
	case ActionAssignType:
		if cmd.TypeIndex >= len(m.types) {
			return m.showToast("No business type on that key", components.ToastWarning)
		}
		return m.updateCurrentField(model.FieldBusinessType, m.types[cmd.TypeIndex].Name)
	case ActionUnassign:
		return m.updateCurrentField(model.FieldBusinessType, "")

	// AI
	case ActionAIMatch, ActionAINote, ActionAICategorize:
		return m.dispatchAI(cmd.Action)

	// Bulk
	case ActionToggleSelect:
		if current, ok := m.session.Current(); ok {
			m.session.Selection().Toggle(current.ID)
		}
	case ActionSelectAll:
		ids := make([]int, 0, len(view))
		for _, txn := range view {
			ids = append(ids, txn.ID)
		}
		m.session.Selection().SelectAll(ids)
	case ActionDeselectAll:
		m.session.Selection().ClearBulk()
	case ActionExtendUp:
		m.session.Selection().ExtendNavigate(-1, view)
		m.ensureCursorVisible()
	case ActionExtendDown:
		m.session.Selection().ExtendNavigate(1, view)
		m.ensureCursorVisible()
	case ActionExtendToTop:
		for m.session.Selection().Cursor() > 0 {
			m.session.Selection().ExtendNavigate(-1, view)
		}
		m.ensureCursorVisible()
	case ActionExtendToBottom:
		for m.session.Selection().Cursor() < len(view)-1 {
			m.session.Selection().ExtendNavigate(1, view)
		}
		m.ensureCursorVisible()
	case ActionBulkApprove:
		return m.bulkApprove()

	// Search / filter / sort
	case ActionFocusSearch:
		m.state = StateSearch
		m.searchInput.Focus()
		return m, textinput.Blink
	case ActionCycleStatusFilter:
		m.statusIndex = (m.statusIndex + 1) % len(statusFilterCycle)
		criteria := m.session.Criteria()
		criteria.Status = statusFilterCycle[m.statusIndex]
		m.session.SetCriteria(criteria)
		m.ensureCursorVisible()
	case ActionToggleReceiptFilter:
		criteria := m.session.Criteria()
		criteria.HasReceipt = nextReceiptFilter(criteria.HasReceipt)
		m.session.SetCriteria(criteria)
		m.ensureCursorVisible()
	case ActionClearFilters:
		m.statusIndex = 0
		m.searchInput.SetValue("")
		m.session.SetCriteria(review.Criteria{})
		m.ensureCursorVisible()
	case ActionNextSortColumn:
		m.sortIndex = (m.sortIndex + 1) % len(sortCycle)
		m.session.SelectColumn(sortCycle[m.sortIndex])
		m.ensureCursorVisible()
	case ActionReverseSort:
		m.session.SelectColumn(m.session.Sort().Column)
		m.ensureCursorVisible()

	// Receipt
	case ActionOpenReceipt:
		current, ok := m.session.Current()
		if !ok || !current.HasReceipt() {
			return m.showToast("No receipt on this transaction", components.ToastWarning)
		}
		ref := current.Receipt
		if ref == "" {
			ref = current.ReceiptURL
		}
		return m.showToast("Receipt: "+ref, components.ToastInfo)

	// System
	case ActionUndo:
		return m.undo()
	case ActionExport:
		return m.export()
	case ActionToggleHelp:
		m.state = StateHelp
	case ActionToggleErrorLog:
		m.state = StateErrors
	case ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case ActionForceQuit:
		m.quitting = true
		return m, tea.Quit
	case ActionClearScreen:
		return m, tea.ClearScreen
	}

	return m, nil
}

// updateCurrentField performs an optimistic edit of the transaction under
// the cursor: undo push, in-place mutation, row refresh, then the server
// patch. Remote failure surfaces a toast but never rolls the edit back.
func (m Model) updateCurrentField(field, value string) (tea.Model, tea.Cmd) {
	current, ok := m.session.Current()
	if !ok {
		return m, nil
	}

	seq, ok := m.session.ApplyUpdate(current.ID, field, value)
	if !ok {
		return m, nil
	}

	return m, m.patchField(current.ID, field, value, seq)
}

// dispatchAI starts a single-flight AI operation. A second AI action while
// one is in flight is rejected with a notice, never queued.
func (m Model) dispatchAI(action Action) (tea.Model, tea.Cmd) {
	current, ok := m.session.Current()
	if !ok {
		return m, nil
	}

	if m.aiBusy {
		m.errLog.Record("ai request", common.ErrBusy)
		return m.showToast("AI operation already in progress", components.ToastWarning)
	}
	m.aiBusy = true

	switch action {
	case ActionAIMatch:
		return m.withToast(m.aiMatch(current.ID), "Matching receipt...", components.ToastInfo)
	case ActionAINote:
		return m.withToast(m.aiNote(current.ID), "Generating note...", components.ToastInfo)
	default:
		return m.withToast(m.aiCategorize(current.ID), "Categorizing...", components.ToastInfo)
	}
}

func (m Model) bulkApprove() (tea.Model, tea.Cmd) {
	ids := m.session.Selection().BulkIDs()
	if len(ids) == 0 {
		return m.showToast("Nothing selected", components.ToastWarning)
	}

	cmds := make([]tea.Cmd, 0, len(ids))
	for _, id := range ids {
		if seq, ok := m.session.ApplyUpdate(id, model.FieldStatus, model.StatusApproved); ok {
			cmds = append(cmds, m.patchField(id, model.FieldStatus, model.StatusApproved, seq))
		}
	}

	toastModel, cmd := m.showToast(fmt.Sprintf("Approved %d transactions", len(ids)), components.ToastSuccess)
	return toastModel, tea.Batch(append(cmds, cmd)...)
}

// undo rolls back the most recent edit and issues a best-effort resync
// patch. An empty stack is a no-op with a notice; a failed resync patch does
// not re-push the entry.
func (m Model) undo() (tea.Model, tea.Cmd) {
	entry, ok := m.session.Undo()
	if !ok {
		m.errLog.Record("undo", common.ErrNothingToUndo)
		return m.showToast("Nothing to undo", components.ToastWarning)
	}

	seq := m.session.CurrentSeq(entry.TransactionID, entry.Field)
	toastModel, cmd := m.showToast(fmt.Sprintf("Undid %s", entry.Field), components.ToastInfo)
	return toastModel, tea.Batch(cmd,
		m.patchField(entry.TransactionID, entry.Field, entry.PreviousValue, seq))
}

// export writes the bulk selection, or the whole filtered view when nothing
// is selected, to a CSV file.
func (m Model) export() (tea.Model, tea.Cmd) {
	view := m.session.View()

	var rows []model.Transaction
	if m.session.Selection().BulkCount() > 0 {
		for _, txn := range view {
			if m.session.Selection().Selected(txn.ID) {
				rows = append(rows, txn)
			}
		}
		// Bulk members hidden by the current filter are exported too.
		for _, id := range m.session.Selection().BulkIDs() {
			if m.session.IndexOf(id) == -1 {
				if txn, ok := m.session.Find(id); ok {
					rows = append(rows, txn)
				}
			}
		}
	} else {
		rows = view
	}

	return m, exportSelection(rows)
}

func (m *Model) applyQuery(query string) {
	criteria := m.session.Criteria()
	criteria.Query = query
	m.session.SetCriteria(criteria)
	m.ensureCursorVisible()
}

func (m Model) handlePatchResult(msg patchResultMsg) (tea.Model, tea.Cmd) {
	// A response for a superseded edit carries no information about the
	// field's current value; drop it.
	if !m.session.IsCurrent(msg.id, msg.field, msg.seq) {
		return m, nil
	}

	if msg.err != nil {
		m.logger.Warn("Patch failed", "id", msg.id, "field", msg.field, "error", msg.err)
		return m.showToast(fmt.Sprintf("Save failed for %s (undo to revert)", msg.field), components.ToastError)
	}
	return m, nil
}

func (m Model) handleAIMatch(msg aiMatchResultMsg) (tea.Model, tea.Cmd) {
	m.aiBusy = false

	if msg.err != nil {
		return m.showToast(fmt.Sprintf("Receipt match failed: %v", msg.err), components.ToastError)
	}
	if !msg.result.Matched {
		return m.showToast("No matching receipt found", components.ToastInfo)
	}

	m.session.MarkNewlyMatched(msg.id, msg.result.Receipt)
	return m.showToast(
		fmt.Sprintf("Matched receipt %s (%.0f%%)", msg.result.Receipt, msg.result.Confidence*100),
		components.ToastSuccess)
}

func (m Model) handleAINote(msg aiNoteResultMsg) (tea.Model, tea.Cmd) {
	m.aiBusy = false

	if msg.err != nil {
		return m.showToast(fmt.Sprintf("Note generation failed: %v", msg.err), components.ToastError)
	}

	seq, ok := m.session.ApplyUpdate(msg.id, model.FieldAINote, msg.note)
	if !ok {
		return m, nil
	}
	toastModel, cmd := m.showToast("Note generated", components.ToastSuccess)
	return toastModel, tea.Batch(cmd, m.patchField(msg.id, model.FieldAINote, msg.note, seq))
}

func (m Model) handleAICategorize(msg aiCategorizeResultMsg) (tea.Model, tea.Cmd) {
	m.aiBusy = false

	if msg.err != nil {
		return m.showToast(fmt.Sprintf("Categorization failed: %v", msg.err), components.ToastError)
	}
	if msg.businessType == "" {
		return m.showToast("No category suggestion", components.ToastInfo)
	}

	seq, ok := m.session.ApplyUpdate(msg.id, model.FieldBusinessType, msg.businessType)
	if !ok {
		return m, nil
	}
	toastModel, cmd := m.showToast("Categorized as "+msg.businessType, components.ToastSuccess)
	return toastModel, tea.Batch(cmd, m.patchField(msg.id, model.FieldBusinessType, msg.businessType, seq))
}

func (m Model) showToast(message string, level components.ToastLevel) (tea.Model, tea.Cmd) {
	gen := m.toast.Show(message, level)
	return m, expireToast(gen, m.toast.Duration())
}

// withToast pairs an async command with a toast.
func (m Model) withToast(cmd tea.Cmd, message string, level components.ToastLevel) (tea.Model, tea.Cmd) {
	toastModel, toastCmd := m.showToast(message, level)
	return toastModel, tea.Batch(cmd, toastCmd)
}

// tableHeight is the number of transaction rows the viewport can show.
func (m Model) tableHeight() int {
	// Header (2), column header (1), footer hints (1), toast line (1).
	h := m.height - 5
	if h < 1 {
		h = 1
	}
	return h
}

// ensureCursorVisible scrolls just enough to keep the cursor inside the
// viewport, then recomputes the window.
func (m *Model) ensureCursorVisible() {
	cursor := m.session.Selection().Cursor()
	viewport := m.tableHeight()

	if cursor < m.scrollRow {
		m.scrollRow = cursor
	}
	if cursor >= m.scrollRow+viewport {
		m.scrollRow = cursor - viewport + 1
	}
	m.recomputeWindow()
}

// recomputeWindow derives the materialized row range. Bounds are compared so
// unchanged windows skip spacer recalculation.
func (m *Model) recomputeWindow() {
	total := len(m.session.View())
	if m.scrollRow >= total {
		m.scrollRow = 0
	}
	w := review.ComputeWindow(m.scrollRow, m.tableHeight(), 1, m.ui.BufferRows, total)
	if !w.Equal(m.window) {
		m.window = w
	}
}

func nextReceiptFilter(current *bool) *bool {
	switch {
	case current == nil:
		v := true
		return &v
	case *current:
		v := false
		return &v
	default:
		return nil
	}
}
