package unified

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/blackwell-systems/shelfshop/internal/access"
	"github.com/blackwell-systems/shelfshop/internal/config"
	"github.com/blackwell-systems/shelfshop/internal/notify"
	"github.com/blackwell-systems/shelfshop/internal/session"
	"github.com/blackwell-systems/shelfshop/internal/shop"
	"github.com/blackwell-systems/shelfshop/internal/tui"
)

// appPhase is the top-level state of the application.
type appPhase int

const (
	phaseLoading appPhase = iota // resuming an earlier session
	phaseAuth                    // signed out
	phaseMain                    // signed in, screens routed by the navigator
)

// toastInterval is how often expired toasts are swept.
const toastInterval = 500 * time.Millisecond

// Model is the TUI orchestrator. It owns one sub-model per screen and
// routes every transition through the shop navigator, so access rules are
// applied in one place.
type Model struct {
	ctx   context.Context
	state *shop.State
	log   zerolog.Logger

	phase      appPhase
	refreshing bool
	width      int
	height     int
	t          labels
	keys       tui.StandardKeys
	shopKeys   tui.ShopKeys
	spinner    spinner.Model

	auth          AuthModel
	home          HomeModel
	details       DetailsModel
	cart          CartModel
	profile       ProfileModel
	editProfile   EditProfileModel
	settings      SettingsModel
	notifications NotificationsModel
	admin         AdminModel
	manager       ManagerModel
}

// New creates the orchestrator in the loading phase.
func New(ctx context.Context, state *shop.State, log zerolog.Logger) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(tui.ColorOrange)

	settings := state.Settings()
	tui.ApplyTheme(settings.Theme == config.ThemeDark)

	m := Model{
		ctx:      ctx,
		state:    state,
		log:      log,
		phase:    phaseLoading,
		t:        labelsFor(settings.Language),
		keys:     tui.NewStandardKeys(),
		shopKeys: tui.NewShopKeys(),
		spinner:  s,
	}
	m.rebuild()
	return m
}

// rebuild recreates every screen, e.g. after sign-in or a language change.
func (m *Model) rebuild() {
	m.auth = NewAuthModel(m.ctx, m.state, m.t)
	m.home = NewHomeModel(m.state, m.t)
	m.home.width = m.width
	m.details = NewDetailsModel(m.state, m.t)
	m.cart = NewCartModel(m.state, m.t)
	m.profile = NewProfileModel(m.ctx, m.state, m.t)
	m.editProfile = NewEditProfileModel(m.ctx, m.state, m.t)
	m.settings = NewSettingsModel(m.state, m.t)
	m.notifications = NewNotificationsModel(m.t)
	m.admin = NewAdminModel(m.ctx, m.state, m.t, m.width, m.height)
	m.manager = NewManagerModel(m.ctx, m.state, m.t, m.width, m.height)
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startAsync(), toastTick())
}

func toastTick() tea.Cmd {
	return tea.Tick(toastInterval, func(t time.Time) tea.Msg { return toastTickMsg(t) })
}

func (m Model) startAsync() tea.Cmd {
	ctx, state := m.ctx, m.state
	return func() tea.Msg {
		return startedMsg{err: state.Start(ctx)}
	}
}

func (m Model) refreshAsync() tea.Cmd {
	ctx, state := m.ctx, m.state
	return func() tea.Msg {
		return refreshCompleteMsg{err: state.Refresh(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.home, _ = m.home.Update(msg)
		m.admin, _ = m.admin.Update(msg)
		m.manager, _ = m.manager.Update(msg)
		return m, nil

	case spinner.TickMsg:
		if m.phase != phaseLoading && !m.refreshing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case toastTickMsg:
		m.state.Toasts.Expire(time.Time(msg), notify.DefaultTTL)
		return m, toastTick()

	case startedMsg:
		if msg.err != nil {
			m.state.Toasts.Error(shop.UserMessage(msg.err))
		}
		return m.afterSessionChange()

	case authCompleteMsg:
		if msg.err != nil {
			m.log.Info().Err(msg.err).Msg("sign-in failed")
			var cmd tea.Cmd
			m.auth, cmd = m.auth.Update(msg)
			return m, cmd
		}
		return m.afterSessionChange()

	case logoutCompleteMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("logout")
		}
		return m.afterSessionChange()

	case refreshCompleteMsg:
		m.refreshing = false
		if m.state.Session.Status() != session.StatusSignedIn {
			return m.afterSessionChange()
		}
		return m.enter()

	case settingsChangedMsg:
		settings := m.state.Settings()
		tui.ApplyTheme(settings.Theme == config.ThemeDark)
		m.t = labelsFor(settings.Language)
		m.rebuild()
		return m.enter()

	case NavigateMsg:
		m.state.Navigate(msg.Target, msg.Product)
		return m.enter()

	case BackMsg:
		m.state.Back()
		return m.enter()

	case QuitAppMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateCurrentView(msg)
}

// afterSessionChange switches between the auth and main phases to match
// the session status.
func (m Model) afterSessionChange() (tea.Model, tea.Cmd) {
	m.refreshing = false
	if m.state.Session.Status() != session.StatusSignedIn {
		m.phase = phaseAuth
		m.auth = NewAuthModel(m.ctx, m.state, m.t)
		return m, textinput.Blink
	}
	m.phase = phaseMain
	m.rebuild()
	return m.enter()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if msg.String() == "ctrl+x" {
		if t, ok := m.state.Toasts.Latest(); ok {
			m.state.Toasts.Dismiss(t.ID)
		}
		return m, nil
	}

	switch m.phase {
	case phaseLoading:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	case phaseAuth:
		var cmd tea.Cmd
		m.auth, cmd = m.auth.Update(msg)
		return m, cmd
	}

	if m.refreshing {
		return m, nil
	}
	if !m.capturing() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			if m.state.Nav.Current() == access.ScreenHome {
				return m, nil
			}
			return m, func() tea.Msg { return BackMsg{} }
		case key.Matches(msg, m.shopKeys.Refresh):
			m.refreshing = true
			return m, tea.Batch(m.refreshAsync(), m.spinner.Tick)
		}
		if i := m.shopKeys.TabIndex(msg.String()); i >= 0 {
			tabs := visibleTabs(m.state.Session.Role())
			if i < len(tabs) {
				target := tabs[i]
				return m, func() tea.Msg { return NavigateMsg{Target: target} }
			}
			return m, nil
		}
	}
	return m.updateCurrentView(msg)
}

// capturing reports whether the current screen wants every key, such as
// a focused text input or a confirmation prompt.
func (m Model) capturing() bool {
	switch m.state.Nav.Current() {
	case access.ScreenHome:
		return m.home.capturing()
	case access.ScreenEditProfile:
		return true
	case access.ScreenProfile:
		return m.profile.processing
	case access.ScreenManager:
		return m.manager.capturing()
	case access.ScreenAdmin:
		return m.admin.capturing()
	}
	return false
}

// enter prepares the screen the navigator now points at.
func (m Model) enter() (tea.Model, tea.Cmd) {
	switch m.state.Nav.Current() {
	case access.ScreenHome:
		m.home = m.home.refresh()
	case access.ScreenBookDetails:
		m.details = NewDetailsModel(m.state, m.t)
	case access.ScreenCart:
		m.cart = NewCartModel(m.state, m.t)
	case access.ScreenProfile:
		m.profile = NewProfileModel(m.ctx, m.state, m.t)
	case access.ScreenEditProfile:
		m.editProfile = NewEditProfileModel(m.ctx, m.state, m.t)
		return m, textinput.Blink
	case access.ScreenSettings:
		m.settings = NewSettingsModel(m.state, m.t)
	case access.ScreenAdmin:
		m.admin = NewAdminModel(m.ctx, m.state, m.t, m.width, m.height)
	case access.ScreenManager:
		m.manager = NewManagerModel(m.ctx, m.state, m.t, m.width, m.height)
	}
	return m, nil
}

func (m Model) updateCurrentView(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.phase == phaseAuth {
		var cmd tea.Cmd
		m.auth, cmd = m.auth.Update(msg)
		return m, cmd
	}
	if m.phase != phaseMain {
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state.Nav.Current() {
	case access.ScreenHome:
		m.home, cmd = m.home.Update(msg)
	case access.ScreenBookDetails:
		m.details, cmd = m.details.Update(msg)
	case access.ScreenCart:
		m.cart, cmd = m.cart.Update(msg)
	case access.ScreenProfile:
		m.profile, cmd = m.profile.Update(msg)
	case access.ScreenEditProfile:
		m.editProfile, cmd = m.editProfile.Update(msg)
	case access.ScreenSettings:
		m.settings, cmd = m.settings.Update(msg)
	case access.ScreenAdmin:
		m.admin, cmd = m.admin.Update(msg)
	case access.ScreenManager:
		m.manager, cmd = m.manager.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	toasts := renderToasts(m.state.Toasts.Active())

	switch m.phase {
	case phaseLoading:
		return tui.RenderMessage(m.spinner.View()+" Loading...", "q "+m.t.Quit)
	case phaseAuth:
		return lipgloss.JoinVertical(lipgloss.Left, m.auth.View(), toasts)
	}

	current := m.state.Nav.Current()
	var body string
	switch current {
	case access.ScreenHome:
		body = m.home.View()
	case access.ScreenBookDetails:
		body = m.details.View()
	case access.ScreenCart:
		body = m.cart.View()
	case access.ScreenProfile:
		body = m.profile.View()
	case access.ScreenEditProfile:
		body = m.editProfile.View()
	case access.ScreenSettings:
		body = m.settings.View()
	case access.ScreenNotifications:
		body = m.notifications.View()
	case access.ScreenAdmin:
		body = m.admin.View()
	case access.ScreenManager:
		body = m.manager.View()
	}

	bar := renderNavBar(m.t, visibleTabs(m.state.Session.Role()), current, m.state.Cart.ItemCount())
	parts := []string{m.renderHeader(), body}
	if toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, bar)
	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) renderHeader() string {
	title := tui.StyleHighlight.Render("shelfshop")
	if p, ok := m.state.Session.Principal(); ok {
		title += tui.StyleHelp.Render("  " + p.Name + " · " + m.t.Role(p.Role))
	}
	if m.state.Offline() {
		title += "  " + tui.StyleWarning.Render("["+m.t.Offline+"]")
	}
	if m.refreshing {
		title += "  " + m.spinner.View()
	}
	return title
}
