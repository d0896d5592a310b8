package unified

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/shelfshop/internal/tui"
)

// NotificationsModel is a static placeholder for a feature not built yet.
type NotificationsModel struct {
	t labels
}

// NewNotificationsModel builds the notifications screen.
func NewNotificationsModel(t labels) NotificationsModel {
	return NotificationsModel{t: t}
}

// View renders the "in development" card.
func (m NotificationsModel) View() string {
	bullet := lipgloss.NewStyle().Foreground(tui.ColorCyan).Render("•")

	var b strings.Builder
	b.WriteString(tui.StyleHeader.Render(m.t.Notifications))
	b.WriteString("\n\n")
	b.WriteString(tui.StyleWarning.Render("🚧 " + m.t.InDevelopment))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(60).Render(m.t.NotificationsBody))
	b.WriteString("\n\n")
	b.WriteString(tui.StyleHeader.Render(m.t.ComingSoon))
	b.WriteString("\n")
	for _, f := range m.t.Features {
		b.WriteString(bullet + " " + f + "\n")
	}

	footer := []tui.ShortcutEntry{{Key: "esc", Label: "esc " + m.t.Back}}
	return tui.RenderWithFooter(b.String(), footer, "")
}
