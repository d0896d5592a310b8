package unified

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/shelfshop/internal/shop"
	"github.com/blackwell-systems/shelfshop/internal/tui"
)

type authMode int

const (
	authLogin authMode = iota
	authRegister
)

type authPhase int

const (
	authEditing    authPhase = iota // user is typing
	authProcessing                  // request in flight
)

// Login form field order.
const (
	loginEmail = iota
	loginPassword
)

// Register form field order.
const (
	registerName = iota
	registerEmail
	registerPassword
)

// AuthModel is the sign-in / sign-up screen shown while signed out.
type AuthModel struct {
	ctx   context.Context
	state *shop.State
	t     labels

	mode      authMode
	phase     authPhase
	form      form
	activeCmd string
}

// NewAuthModel starts on the login tab.
func NewAuthModel(ctx context.Context, state *shop.State, t labels) AuthModel {
	m := AuthModel{ctx: ctx, state: state, t: t}
	m.setMode(authLogin)
	return m
}

func (m *AuthModel) setMode(mode authMode) {
	m.mode = mode
	m.form = form{}
	if mode == authRegister {
		m.form.add(m.t.Name, "", "Jane Reader", 100, false)
	}
	m.form.add(m.t.Email, "", "you@example.com", 200, false)
	m.form.add(m.t.Password, "", "", 100, true)
}

// Update handles keys and the completion of a submission.
func (m AuthModel) Update(msg tea.Msg) (AuthModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tui.ClearActiveCmdMsg:
		m.activeCmd = ""
		return m, nil

	case authCompleteMsg:
		m.phase = authEditing
		if msg.err != nil {
			m.form.err = shop.UserMessage(msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		if m.phase == authProcessing {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return QuitAppMsg{} }
		case "ctrl+r":
			if m.mode == authLogin {
				m.setMode(authRegister)
			} else {
				m.setMode(authLogin)
			}
			m.activeCmd = "ctrl+r"
			return m, tui.HighlightCmd()
		case "enter":
			if !m.form.lastFocused() {
				return m, m.form.move(1)
			}
			m.activeCmd = "enter"
			m.phase = authProcessing
			m.form.err = ""
			return m, tea.Batch(m.submit(), tui.HighlightCmd())
		}
		return m, m.form.handleKey(msg)
	}
	return m, m.form.update(msg)
}

func (m AuthModel) submit() tea.Cmd {
	ctx, state := m.ctx, m.state
	if m.mode == authLogin {
		email, password := m.form.value(loginEmail), m.form.inputs[loginPassword].Value()
		return func() tea.Msg {
			_, err := state.Login(ctx, email, password)
			return authCompleteMsg{err: err}
		}
	}
	name := m.form.value(registerName)
	email := m.form.value(registerEmail)
	password := m.form.inputs[registerPassword].Value()
	return func() tea.Msg {
		_, err := state.Register(ctx, email, password, name)
		return authCompleteMsg{err: err, registered: err == nil}
	}
}

// View renders the tabs, the form and the footer.
func (m AuthModel) View() string {
	if m.phase == authProcessing {
		return tui.RenderMessage(m.t.Working, "")
	}

	loginTab, registerTab := tui.StyleTabInactive, tui.StyleTabInactive
	switch m.mode {
	case authLogin:
		loginTab = tui.StyleTabActive
	case authRegister:
		registerTab = tui.StyleTabActive
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		loginTab.Render(m.t.Login), "   ", registerTab.Render(m.t.Register))

	switchLabel := m.t.SwitchToRegister
	if m.mode == authRegister {
		switchLabel = m.t.SwitchToLogin
	}
	footer := []tui.ShortcutEntry{
		{Key: "tab", Label: "tab next field"},
		{Key: "enter", Label: "enter submit"},
		{Key: "ctrl+r", Label: "ctrl+r " + switchLabel},
		{Key: "esc", Label: "esc " + m.t.Quit},
	}

	body := tui.StyleHeader.Render("shelfshop") + "\n\n" + header + "\n\n" + m.form.render()
	return lipgloss.NewStyle().Padding(1, 2).Render(tui.RenderWithFooter(body, footer, m.activeCmd))
}
