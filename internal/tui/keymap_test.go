package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyMapResolve(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name      string
		msg       tea.KeyMsg
		action    Action
		typeIndex int
	}{
		{name: "plain a approves", msg: runeKey("a"), action: ActionApprove},
		{name: "shift+a bulk approves, not approve", msg: runeKey("A"), action: ActionBulkApprove},
		{name: "ctrl+a selects all, not approve", msg: tea.KeyMsg{Type: tea.KeyCtrlA}, action: ActionSelectAll},
		{name: "plain up moves cursor", msg: tea.KeyMsg{Type: tea.KeyUp}, action: ActionCursorUp},
		{name: "shift+up extends selection", msg: tea.KeyMsg{Type: tea.KeyShiftUp}, action: ActionExtendUp},
		{name: "ctrl+shift+up extends to top", msg: tea.KeyMsg{Type: tea.KeyCtrlShiftUp}, action: ActionExtendToTop},
		{name: "vim shift+k extends up", msg: runeKey("K"), action: ActionExtendUp},
		{name: "vim k moves up", msg: runeKey("k"), action: ActionCursorUp},
		{name: "space toggles selection", msg: tea.KeyMsg{Type: tea.KeySpace}, action: ActionToggleSelect},
		{name: "digit assigns type by position", msg: runeKey("3"), action: ActionAssignType, typeIndex: 2},
		{name: "zero clears type", msg: runeKey("0"), action: ActionUnassign},
		{name: "slash focuses search", msg: runeKey("/"), action: ActionFocusSearch},
		{name: "o cycles sort column", msg: runeKey("o"), action: ActionNextSortColumn},
		{name: "shift+o reverses sort", msg: runeKey("O"), action: ActionReverseSort},
		{name: "u undoes", msg: runeKey("u"), action: ActionUndo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := km.Resolve(tt.msg)
			require.True(t, ok)
			assert.Equal(t, tt.action, cmd.Action)
			assert.Equal(t, tt.typeIndex, cmd.TypeIndex)
		})
	}
}

func TestKeyMapResolveUnmatched(t *testing.T) {
	km := DefaultKeyMap()

	_, ok := km.Resolve(runeKey("z"))
	assert.False(t, ok)
}

// The help overlay is generated from the dispatch table, so every category
// must show up and the digit assignments must collapse to one row.
func TestKeyMapHelpGroups(t *testing.T) {
	km := DefaultKeyMap()
	groups := km.HelpGroups()

	titles := make([]string, 0, len(groups))
	for _, g := range groups {
		titles = append(titles, g.Title)
		assert.NotEmpty(t, g.Shortcuts, "group %s", g.Title)
	}
	assert.Equal(t, []string{
		"Navigation", "Quick Actions", "Business Type", "AI",
		"Bulk Selection", "Search & Filter", "Receipt", "System",
	}, titles)

	var businessType HelpGroup
	for _, g := range groups {
		if g.Title == "Business Type" {
			businessType = g
		}
	}

	assignRows := 0
	for _, s := range businessType.Shortcuts {
		if s.Action == ActionAssignType {
			assignRows++
			assert.Equal(t, "1-9", s.Binding.Help().Key)
		}
	}
	assert.Equal(t, 1, assignRows)
}

// The footer hints come exclusively from the dispatch table.
func TestKeyMapShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	keys := make([]string, 0)
	for _, b := range km.ShortHelp() {
		keys = append(keys, b.Help().Key)
	}
	assert.Equal(t, []string{"↓/j", "a", "/", "u", "?", "q"}, keys)
}
