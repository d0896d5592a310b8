package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ClearActiveCmdMsg clears the active command highlight in the footer.
type ClearActiveCmdMsg struct{}

// ShortcutEntry pairs a trigger key with the display label for footer highlighting.
type ShortcutEntry struct {
	Key   string // trigger key to match against activeCmd (empty = no highlight)
	Label string // display text
}

// HighlightCmd returns a 500ms tick command to clear the active command highlight.
// Callers must set activeCmd on the model directly before returning:
//
//	m.activeCmd = "key"
//	return m, tui.HighlightCmd()
func HighlightCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg {
		return ClearActiveCmdMsg{}
	})
}

// RenderFooterBar renders a footer bar with shortcut labels.
// The shortcut matching activeCmd is rendered with StyleHighlight; others are dim.
func RenderFooterBar(shortcuts []ShortcutEntry, activeCmd string) string {
	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	parts := make([]string, len(shortcuts))
	for i, sc := range shortcuts {
		if activeCmd != "" && sc.Key == activeCmd {
			parts[i] = StyleHighlight.Render("[ " + sc.Label + " ]")
		} else {
			parts[i] = dimStyle.Render(sc.Label)
		}
	}

	return lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(parts, dimStyle.Render(" • ")))
}

// RenderWithFooter wraps a screen body inside a border and appends the
// footer bar below it.
func RenderWithFooter(body string, shortcuts []ShortcutEntry, activeCmd string) string {
	footer := RenderFooterBar(shortcuts, activeCmd)
	return StyleBorder.Render(body + "\n\n" + footer)
}

// RenderMessage renders a bordered message box with a help line, used for
// "working..." and result screens.
func RenderMessage(title, help string) string {
	outer := lipgloss.NewStyle().Padding(2, 4)
	inner := lipgloss.NewStyle().Padding(0, 2, 0, 1)
	content := StyleHeader.Render(title) + "\n\n" + StyleHelp.Render(help)
	return outer.Render(StyleBorder.Render(inner.Render(content)))
}
