package unified

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/shelfshop/internal/config"
	"github.com/blackwell-systems/shelfshop/internal/shop"
	"github.com/blackwell-systems/shelfshop/internal/tui"
)

const (
	settingTheme = iota
	settingLanguage
	settingCount
)

// SettingsModel edits a draft of the display preferences; enter saves it,
// esc discards it.
type SettingsModel struct {
	state     *shop.State
	t         labels
	keys      tui.StandardKeys
	shopKeys  tui.ShopKeys
	draft     shop.Settings
	cursor    int
	activeCmd string
}

// NewSettingsModel starts the draft from the current settings.
func NewSettingsModel(state *shop.State, t labels) SettingsModel {
	return SettingsModel{
		state:    state,
		t:        t,
		keys:     tui.NewStandardKeys(),
		shopKeys: tui.NewShopKeys(),
		draft:    state.Settings(),
	}
}

// Update toggles the row under the cursor and saves on enter.
func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tui.ClearActiveCmdMsg:
		m.activeCmd = ""
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.shopKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.shopKeys.Down):
			if m.cursor < settingCount-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Toggle), msg.String() == "left", msg.String() == "right":
			m.toggle()
			m.activeCmd = " "
			return m, tui.HighlightCmd()
		case key.Matches(msg, m.keys.Select):
			state, draft := m.state, m.draft
			m.activeCmd = "enter"
			return m, tea.Batch(tui.HighlightCmd(), func() tea.Msg {
				if err := state.UpdateSettings(draft); err != nil {
					return nil
				}
				state.Toasts.Success("Settings saved")
				return settingsChangedMsg{}
			})
		}
	}
	return m, nil
}

func (m *SettingsModel) toggle() {
	switch m.cursor {
	case settingTheme:
		if m.draft.Theme == config.ThemeDark {
			m.draft.Theme = config.ThemeLight
		} else {
			m.draft.Theme = config.ThemeDark
		}
	case settingLanguage:
		if m.draft.Language == config.LanguageEN {
			m.draft.Language = config.LanguageRU
		} else {
			m.draft.Language = config.LanguageEN
		}
	}
}

// View renders the two preference rows.
func (m SettingsModel) View() string {
	theme := m.t.ThemeLight
	if m.draft.Theme == config.ThemeDark {
		theme = m.t.ThemeDark
	}
	language := "Русский"
	if m.draft.Language == config.LanguageEN {
		language = "English"
	}
	label := lipgloss.NewStyle().Width(22)
	rows := []string{
		label.Render(m.t.Theme) + tui.StyleTag.Render("‹ "+theme+" ›"),
		label.Render(m.t.Language) + tui.StyleTag.Render("‹ "+language+" ›"),
	}

	var b strings.Builder
	b.WriteString(tui.StyleHeader.Render(m.t.Settings))
	b.WriteString("\n\n")
	b.WriteString(tui.StyleHelp.Render(m.t.Appearance))
	b.WriteString("\n")
	for i, r := range rows {
		if i == m.cursor {
			b.WriteString(lipgloss.NewStyle().Foreground(tui.ColorOrange).Render("›") + " " + r)
		} else {
			b.WriteString("  " + r)
		}
		b.WriteString("\n")
	}

	footer := []tui.ShortcutEntry{
		{Key: " ", Label: "space change"},
		{Key: "enter", Label: "enter save"},
		{Key: "esc", Label: "esc " + m.t.Back},
	}
	return tui.RenderWithFooter(b.String(), footer, m.activeCmd)
}
