// Package components holds the small reusable pieces of the review TUI.
package components

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tallyups/tally/internal/tui/themes"
)

// ToastLevel selects the toast style.
type ToastLevel int

// Toast levels.
const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastWarning
	ToastError
)

// Toast is a transient, auto-dismissing notification. Each Show bumps the
// generation so an expiry tick scheduled for an older toast cannot clear a
// newer one.
type Toast struct {
	message    string
	level      ToastLevel
	generation int
	duration   time.Duration
}

// NewToast creates a toast holder with the given display duration.
func NewToast(duration time.Duration) Toast {
	if duration <= 0 {
		duration = 3 * time.Second
	}
	return Toast{duration: duration}
}

// Show replaces the current toast and returns the generation to schedule
// expiry against.
func (t *Toast) Show(message string, level ToastLevel) int {
	t.message = message
	t.level = level
	t.generation++
	return t.generation
}

// Expire clears the toast if generation is still current.
func (t *Toast) Expire(generation int) {
	if generation == t.generation {
		t.message = ""
	}
}

// Dismiss clears the toast immediately.
func (t *Toast) Dismiss() {
	t.message = ""
}

// Duration returns the configured display duration.
func (t Toast) Duration() time.Duration {
	return t.duration
}

// Visible reports whether a toast is showing.
func (t Toast) Visible() bool {
	return t.message != ""
}

// View renders the toast, or an empty string when nothing is showing.
func (t Toast) View(theme themes.Theme) string {
	if t.message == "" {
		return ""
	}

	var style lipgloss.Style
	switch t.level {
	case ToastSuccess:
		style = theme.StatusSuccess
	case ToastWarning:
		style = theme.StatusWarning
	case ToastError:
		style = theme.StatusError
	default:
		style = theme.StatusInfo
	}

	return style.Render(t.message)
}
