package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Action is a named operation the controller knows how to perform. Every
// matched shortcut dispatches exactly one action.
type Action int

// Controller actions.
const (
	ActionNone Action = iota

	// Navigation
	ActionCursorUp
	ActionCursorDown
	ActionPageUp
	ActionPageDown
	ActionHome
	ActionEnd

	// Quick actions
	ActionApprove
	ActionMarkNeedsReview
	ActionMarkPersonal

	// Business type
	ActionAssignType
	ActionUnassign

	// AI
	ActionAIMatch
	ActionAINote
	ActionAICategorize

	// Bulk
	ActionToggleSelect
	ActionSelectAll
	ActionDeselectAll
	ActionExtendUp
	ActionExtendDown
	ActionExtendToTop
	ActionExtendToBottom
	ActionBulkApprove

	// Search / filter / sort
	ActionFocusSearch
	ActionCycleStatusFilter
	ActionToggleReceiptFilter
	ActionClearFilters
	ActionNextSortColumn
	ActionReverseSort

	// Receipt
	ActionOpenReceipt

	// System
	ActionUndo
	ActionExport
	ActionToggleHelp
	ActionToggleErrorLog
	ActionQuit
	ActionForceQuit
	ActionClearScreen
)

// Category groups shortcuts for the help overlay.
type Category int

// Shortcut categories, in help display order.
const (
	CategoryNavigation Category = iota
	CategoryQuickActions
	CategoryBusinessType
	CategoryAI
	CategoryBulk
	CategorySearchFilter
	CategoryReceipt
	CategorySystem
)

func (c Category) String() string {
	switch c {
	case CategoryNavigation:
		return "Navigation"
	case CategoryQuickActions:
		return "Quick Actions"
	case CategoryBusinessType:
		return "Business Type"
	case CategoryAI:
		return "AI"
	case CategoryBulk:
		return "Bulk Selection"
	case CategorySearchFilter:
		return "Search & Filter"
	case CategoryReceipt:
		return "Receipt"
	case CategorySystem:
		return "System"
	default:
		return "Other"
	}
}

// Command is a resolved shortcut: the action plus its argument for the
// business-type digits.
type Command struct {
	Action    Action
	TypeIndex int
}

// Shortcut is one entry of the declarative dispatch table.
type Shortcut struct {
	Binding   key.Binding
	Action    Action
	Category  Category
	TypeIndex int
}

// KeyMap is the single source of truth for keyboard dispatch and the help
// overlay. Entries are ordered by modifier priority: ctrl+shift combinations
// first, then ctrl, then the shift+arrow selection extension, then plain
// keys. Shift state matches exactly because bubbletea reports "A", "shift+up"
// and "a" as distinct keys.
type KeyMap struct {
	shortcuts []Shortcut
}

// DefaultKeyMap returns the default dispatch table.
func DefaultKeyMap() KeyMap {
	shortcuts := []Shortcut{
		// ctrl+shift
		{Binding: key.NewBinding(key.WithKeys("ctrl+shift+up"), key.WithHelp("Ctrl+Shift+↑", "extend selection to top")), Action: ActionExtendToTop, Category: CategoryBulk},
		{Binding: key.NewBinding(key.WithKeys("ctrl+shift+down"), key.WithHelp("Ctrl+Shift+↓", "extend selection to bottom")), Action: ActionExtendToBottom, Category: CategoryBulk},

		// ctrl
		{Binding: key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("Ctrl+A", "select all visible")), Action: ActionSelectAll, Category: CategoryBulk},
		{Binding: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("Ctrl+D", "deselect all")), Action: ActionDeselectAll, Category: CategoryBulk},
		{Binding: key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("Ctrl+E", "export selection to CSV")), Action: ActionExport, Category: CategorySystem},
		{Binding: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("Ctrl+L", "redraw screen")), Action: ActionClearScreen, Category: CategorySystem},
		{Binding: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("Ctrl+C", "force quit")), Action: ActionForceQuit, Category: CategorySystem},

		// shift+arrow selection extension
		{Binding: key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("Shift+↑", "extend selection up")), Action: ActionExtendUp, Category: CategoryBulk},
		{Binding: key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("Shift+↓", "extend selection down")), Action: ActionExtendDown, Category: CategoryBulk},

		// Navigation
		{Binding: key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")), Action: ActionCursorUp, Category: CategoryNavigation},
		{Binding: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")), Action: ActionCursorDown, Category: CategoryNavigation},
		{Binding: key.NewBinding(key.WithKeys("pgup"), key.WithHelp("PgUp", "page up")), Action: ActionPageUp, Category: CategoryNavigation},
		{Binding: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("PgDn", "page down")), Action: ActionPageDown, Category: CategoryNavigation},
		{Binding: key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("Home/g", "first row")), Action: ActionHome, Category: CategoryNavigation},
		{Binding: key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("End/G", "last row")), Action: ActionEnd, Category: CategoryNavigation},

		// Quick actions
		{Binding: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "approve")), Action: ActionApprove, Category: CategoryQuickActions},
		{Binding: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "mark needs review")), Action: ActionMarkNeedsReview, Category: CategoryQuickActions},
		{Binding: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "mark personal")), Action: ActionMarkPersonal, Category: CategoryQuickActions},

		// AI
		{Binding: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "match receipt")), Action: ActionAIMatch, Category: CategoryAI},
		{Binding: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "generate note")), Action: ActionAINote, Category: CategoryAI},
		{Binding: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "categorize")), Action: ActionAICategorize, Category: CategoryAI},

		// Bulk
		{Binding: key.NewBinding(key.WithKeys("x", " "), key.WithHelp("x/Space", "toggle selection")), Action: ActionToggleSelect, Category: CategoryBulk},
		{Binding: key.NewBinding(key.WithKeys("A"), key.WithHelp("Shift+A", "approve selected")), Action: ActionBulkApprove, Category: CategoryBulk},

		// Search / filter / sort
		{Binding: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")), Action: ActionFocusSearch, Category: CategorySearchFilter},
		{Binding: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cycle status filter")), Action: ActionCycleStatusFilter, Category: CategorySearchFilter},
		{Binding: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle receipt filter")), Action: ActionToggleReceiptFilter, Category: CategorySearchFilter},
		{Binding: key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "clear all filters")), Action: ActionClearFilters, Category: CategorySearchFilter},
		{Binding: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "next sort column")), Action: ActionNextSortColumn, Category: CategorySearchFilter},
		{Binding: key.NewBinding(key.WithKeys("O"), key.WithHelp("O", "reverse sort")), Action: ActionReverseSort, Category: CategorySearchFilter},

		// Receipt
		{Binding: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "view receipt reference")), Action: ActionOpenReceipt, Category: CategoryReceipt},

		// System
		{Binding: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo last edit")), Action: ActionUndo, Category: CategorySystem},
		{Binding: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "error log")), Action: ActionToggleErrorLog, Category: CategorySystem},
		{Binding: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")), Action: ActionToggleHelp, Category: CategorySystem},
		{Binding: key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")), Action: ActionQuit, Category: CategorySystem},
	}

	// Business-type digits: 1-9 assign the nth taxonomy entry, 0 unassigns.
	for i := 1; i <= 9; i++ {
		digit := string(rune('0' + i))
		shortcuts = append(shortcuts, Shortcut{
			Binding:   key.NewBinding(key.WithKeys(digit), key.WithHelp(digit, "assign business type")),
			Action:    ActionAssignType,
			Category:  CategoryBusinessType,
			TypeIndex: i - 1,
		})
	}
	shortcuts = append(shortcuts, Shortcut{
		Binding:  key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "clear business type")),
		Action:   ActionUnassign,
		Category: CategoryBusinessType,
	})

	return KeyMap{shortcuts: shortcuts}
}

// Resolve maps a key event to a command. The table is scanned in declaration
// order, which encodes the modifier priority; unmatched events pass through.
func (k KeyMap) Resolve(msg tea.KeyMsg) (Command, bool) {
	for _, s := range k.shortcuts {
		if key.Matches(msg, s.Binding) {
			return Command{Action: s.Action, TypeIndex: s.TypeIndex}, true
		}
	}
	return Command{}, false
}

// HelpGroup is one category of shortcuts for the help overlay.
type HelpGroup struct {
	Title     string
	Shortcuts []Shortcut
}

// HelpGroups returns every registered shortcut grouped by category,
// generated from the same table used for dispatch. The digit assignments
// collapse to a single row.
func (k KeyMap) HelpGroups() []HelpGroup {
	order := []Category{
		CategoryNavigation,
		CategoryQuickActions,
		CategoryBusinessType,
		CategoryAI,
		CategoryBulk,
		CategorySearchFilter,
		CategoryReceipt,
		CategorySystem,
	}

	groups := make([]HelpGroup, 0, len(order))
	for _, cat := range order {
		group := HelpGroup{Title: cat.String()}
		seenDigits := false
		for _, s := range k.shortcuts {
			if s.Category != cat {
				continue
			}
			if s.Action == ActionAssignType {
				if seenDigits {
					continue
				}
				seenDigits = true
				s.Binding.SetHelp("1-9", "assign business type")
			}
			group.Shortcuts = append(group.Shortcuts, s)
		}
		if len(group.Shortcuts) > 0 {
			groups = append(groups, group)
		}
	}
	return groups
}

// ShortHelp returns the bindings shown in the footer hint line.
func (k KeyMap) ShortHelp() []key.Binding {
	var out []key.Binding
	for _, s := range k.shortcuts {
		switch s.Action {
		case ActionCursorDown, ActionApprove, ActionFocusSearch, ActionUndo, ActionToggleHelp, ActionQuit:
			out = append(out, s.Binding)
		}
	}
	return out
}
