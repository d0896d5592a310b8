package unified

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/blackwell-systems/shelfshop/internal/session"
	"github.com/blackwell-systems/shelfshop/internal/shop"
	"github.com/blackwell-systems/shelfshop/internal/tui"
)

const (
	profileFieldName = iota
	profileFieldEmail
)

// EditProfileModel edits the principal's name and email.
type EditProfileModel struct {
	ctx        context.Context
	state      *shop.State
	t          labels
	form       form
	processing bool
	activeCmd  string
}

// NewEditProfileModel pre-fills the form from the principal.
func NewEditProfileModel(ctx context.Context, state *shop.State, t labels) EditProfileModel {
	m := EditProfileModel{ctx: ctx, state: state, t: t}
	p, _ := state.Session.Principal()
	m.form.add(t.Name, p.Name, "Jane Reader", 100, false)
	m.form.add(t.Email, p.Email, "you@example.com", 200, false)
	return m
}

// Update handles typing, submission and its result.
func (m EditProfileModel) Update(msg tea.Msg) (EditProfileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tui.ClearActiveCmdMsg:
		m.activeCmd = ""
		return m, nil

	case profileSavedMsg:
		m.processing = false
		if msg.err != nil {
			m.form.err = shop.UserMessage(msg.err)
			return m, nil
		}
		return m, func() tea.Msg { return BackMsg{} }

	case tea.KeyMsg:
		if m.processing {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return BackMsg{} }
		case "enter":
			if !m.form.lastFocused() {
				return m, m.form.move(1)
			}
			m.processing = true
			m.form.err = ""
			m.activeCmd = "enter"
			return m, tea.Batch(m.saveAsync(), tui.HighlightCmd())
		}
		return m, m.form.handleKey(msg)
	}
	return m, m.form.update(msg)
}

func (m EditProfileModel) saveAsync() tea.Cmd {
	ctx, state := m.ctx, m.state
	name := m.form.value(profileFieldName)
	email := m.form.value(profileFieldEmail)
	return func() tea.Msg {
		_, err := state.UpdateProfile(ctx, session.ProfilePatch{Name: &name, Email: &email})
		return profileSavedMsg{err: err}
	}
}

// View renders the form.
func (m EditProfileModel) View() string {
	if m.processing {
		return tui.RenderMessage(m.t.Working, "")
	}
	body := tui.StyleHeader.Render(m.t.EditProfile) + "\n\n" + m.form.render()
	footer := []tui.ShortcutEntry{
		{Key: "tab", Label: "tab next field"},
		{Key: "enter", Label: "enter save"},
		{Key: "esc", Label: "esc " + m.t.Back},
	}
	return tui.RenderWithFooter(body, footer, m.activeCmd)
}
