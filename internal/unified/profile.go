package unified

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/shelfshop/internal/access"
	"github.com/blackwell-systems/shelfshop/internal/shop"
	"github.com/blackwell-systems/shelfshop/internal/tui"
)

type profileEntry struct {
	label  string
	target access.Screen
}

// ProfileModel shows the principal and the profile sub-menu.
type ProfileModel struct {
	ctx        context.Context
	state      *shop.State
	t          labels
	keys       tui.ShopKeys
	entries    []profileEntry
	cursor     int
	processing bool
	activeCmd  string
}

// NewProfileModel builds the profile screen.
func NewProfileModel(ctx context.Context, state *shop.State, t labels) ProfileModel {
	return ProfileModel{
		ctx:   ctx,
		state: state,
		t:     t,
		keys:  tui.NewShopKeys(),
		entries: []profileEntry{
			{label: t.EditProfile, target: access.ScreenEditProfile},
			{label: t.Settings, target: access.ScreenSettings},
			{label: t.Notifications, target: access.ScreenNotifications},
		},
	}
}

// Update moves through the menu and starts logout.
func (m ProfileModel) Update(msg tea.Msg) (ProfileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tui.ClearActiveCmdMsg:
		m.activeCmd = ""
		return m, nil

	case logoutCompleteMsg:
		m.processing = false
		return m, nil

	case tea.KeyMsg:
		if m.processing {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case msg.String() == "enter":
			target := m.entries[m.cursor].target
			return m, func() tea.Msg { return NavigateMsg{Target: target} }
		case key.Matches(msg, m.keys.Logout):
			m.processing = true
			m.activeCmd = "L"
			return m, tea.Batch(m.logoutAsync(), tui.HighlightCmd())
		}
	}
	return m, nil
}

func (m ProfileModel) logoutAsync() tea.Cmd {
	ctx, state := m.ctx, m.state
	return func() tea.Msg {
		return logoutCompleteMsg{err: state.Logout(ctx)}
	}
}

// View renders the principal card and menu.
func (m ProfileModel) View() string {
	if m.processing {
		return tui.RenderMessage(m.t.Working, "")
	}
	p, ok := m.state.Session.Principal()
	if !ok {
		return tui.RenderMessage(m.t.Working, "")
	}

	var b strings.Builder
	b.WriteString(tui.StyleHeader.Render(m.t.Profile))
	b.WriteString("\n\n")
	card := lipgloss.NewStyle().
		Border(lipgloss.Border{Left: "▌"}, false, false, false, true).
		BorderForeground(tui.ColorOrange).
		PaddingLeft(1).
		Render(tui.StyleHeader.Render(p.Name) + "\n" +
			tui.StyleHelp.Render(p.Email) + "\n" +
			tui.StyleTag.Render(m.t.RoleLabel+": "+m.t.Role(p.Role)))
	b.WriteString(card)
	b.WriteString("\n\n")

	for i, e := range m.entries {
		if i == m.cursor {
			b.WriteString(lipgloss.NewStyle().Foreground(tui.ColorOrange).Render("›") + " " + tui.StyleHighlight.Render(e.label))
		} else {
			b.WriteString("  " + tui.StyleNormal.Render(e.label))
		}
		b.WriteString("\n")
	}

	footer := []tui.ShortcutEntry{
		{Key: "enter", Label: "enter open"},
		{Key: "L", Label: "L " + m.t.Logout},
	}
	return tui.RenderWithFooter(b.String(), footer, m.activeCmd)
}
