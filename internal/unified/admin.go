package unified

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/shelfshop/internal/access"
	"github.com/blackwell-systems/shelfshop/internal/session"
	"github.com/blackwell-systems/shelfshop/internal/shop"
	"github.com/blackwell-systems/shelfshop/internal/tui"
	"github.com/blackwell-systems/shelfshop/internal/tui/delegate"
)

type adminPhase int

const (
	adminBrowsing   adminPhase = iota // user list
	adminConfirming                   // delete confirmation
	adminProcessing                   // remote call in flight
)

// userItem adapts a principal to list.Item.
type userItem struct {
	session.Principal
	self bool
	t    labels
}

func (u userItem) FilterValue() string { return u.Email + " " + u.Name }

// AdminModel lists users with role statistics and lets the admin change
// roles or delete profiles.
type AdminModel struct {
	ctx   context.Context
	state *shop.State
	t     labels
	keys  tui.ShopKeys

	phase     adminPhase
	list      list.Model
	target    session.Principal
	activeCmd string
}

// NewAdminModel builds the panel from the state's cached user list.
func NewAdminModel(ctx context.Context, state *shop.State, t labels, width, height int) AdminModel {
	l := list.New(nil, delegate.NewSized(renderUserItem, 2, 0), width, listHeight(height))
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	m := AdminModel{ctx: ctx, state: state, t: t, keys: tui.NewShopKeys(), list: l}
	m.reload()
	return m
}

func (m *AdminModel) reload() {
	self, _ := m.state.Session.Principal()
	users := m.state.Users()
	items := make([]list.Item, len(users))
	for i, u := range users {
		items[i] = userItem{Principal: u, self: u.ID == self.ID, t: m.t}
	}
	m.list.SetItems(items)
}

// capturing reports whether the screen owns every key.
func (m AdminModel) capturing() bool { return m.phase != adminBrowsing }

func (m AdminModel) selected() (userItem, bool) {
	it, ok := m.list.SelectedItem().(userItem)
	return it, ok
}

// nextRole steps down the privilege order, wrapping from user to admin.
func nextRole(r access.Role) access.Role {
	roles := access.Roles()
	for i, x := range roles {
		if x == r {
			return roles[(i+1)%len(roles)]
		}
	}
	return access.RoleUser
}

// Update routes by phase; keys are ignored while a request is in flight.
func (m AdminModel) Update(msg tea.Msg) (AdminModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tui.ClearActiveCmdMsg:
		m.activeCmd = ""
		return m, nil

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-6, listHeight(msg.Height))
		return m, nil

	case userChangedMsg:
		m.phase = adminBrowsing
		m.reload()
		return m, nil

	case tea.KeyMsg:
		switch m.phase {
		case adminProcessing:
			return m, nil
		case adminConfirming:
			return m.updateConfirming(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m AdminModel) updateBrowsing(msg tea.KeyMsg) (AdminModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Role):
		u, ok := m.selected()
		if !ok {
			return m, nil
		}
		if u.self {
			m.state.Toasts.Warn(shop.UserMessage(session.ErrRoleRestricted))
			return m, nil
		}
		m.phase = adminProcessing
		m.activeCmd = "c"
		ctx, state, id, role := m.ctx, m.state, u.ID, nextRole(u.Role)
		return m, tea.Batch(tui.HighlightCmd(), func() tea.Msg {
			return userChangedMsg{id: id, err: state.SetUserRole(ctx, id, role)}
		})
	case key.Matches(msg, m.keys.Remove):
		u, ok := m.selected()
		if !ok {
			return m, nil
		}
		if u.self {
			m.state.Toasts.Warn(shop.UserMessage(session.ErrSelfDelete))
			return m, nil
		}
		m.target = u.Principal
		m.phase = adminConfirming
		m.activeCmd = "d"
		return m, tui.HighlightCmd()
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m AdminModel) updateConfirming(msg tea.KeyMsg) (AdminModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.phase = adminProcessing
		m.activeCmd = "y"
		ctx, state, id := m.ctx, m.state, m.target.ID
		return m, tea.Batch(tui.HighlightCmd(), func() tea.Msg {
			return userChangedMsg{id: id, deleted: true, err: state.DeleteUser(ctx, id)}
		})
	case "n", "N", "esc":
		m.phase = adminBrowsing
		return m, nil
	}
	return m, nil
}

// View renders the current phase.
func (m AdminModel) View() string {
	switch m.phase {
	case adminProcessing:
		return tui.RenderMessage(m.t.Working, "")
	case adminConfirming:
		return m.renderConfirmation()
	}

	var b strings.Builder
	b.WriteString(tui.StyleHeader.Render(m.t.Admin))
	b.WriteString("\n\n")
	b.WriteString(m.renderRoleCounts())
	b.WriteString("\n\n")
	b.WriteString(m.list.View())

	footer := []tui.ShortcutEntry{
		{Key: "c", Label: "c change role"},
		{Key: "d", Label: "d delete"},
		{Key: "r", Label: "r refresh"},
	}
	return tui.RenderWithFooter(b.String(), footer, m.activeCmd)
}

func (m AdminModel) renderRoleCounts() string {
	counts := m.state.RoleCounts()
	cell := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tui.ColorGray).
		Padding(0, 1).
		Width(18)
	cells := make([]string, 0, len(access.Roles()))
	for _, r := range access.Roles() {
		cells = append(cells, cell.Render(
			tui.StyleHelp.Render(m.t.Role(r))+"\n"+tui.StyleHeader.Render(fmt.Sprintf("%d", counts[r]))))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (m AdminModel) renderConfirmation() string {
	var b strings.Builder
	b.WriteString(tui.StyleDanger.Render("Delete user?"))
	b.WriteString("\n\n")
	b.WriteString(tui.StyleHeader.Render(m.target.Name))
	b.WriteString("\n")
	b.WriteString(tui.StyleHelp.Render(m.target.Email))
	b.WriteString("\n\n")
	b.WriteString(tui.StyleHelp.Render("The profile is removed; the sign-in account stays with the provider."))
	footer := []tui.ShortcutEntry{
		{Key: "y", Label: "y delete"},
		{Key: "n", Label: "n cancel"},
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(tui.RenderWithFooter(b.String(), footer, m.activeCmd))
}

func renderUserItem(w io.Writer, m list.Model, index int, item list.Item) {
	u, ok := item.(userItem)
	if !ok {
		return
	}
	prefix := "  "
	name := tui.StyleNormal.Render(u.Name)
	if index == m.Index() {
		prefix = lipgloss.NewStyle().Foreground(tui.ColorOrange).Render("›") + " "
		name = tui.StyleHighlight.Render(u.Name)
	}
	role := tui.StyleTag.Render(u.t.Role(u.Role))
	if u.self {
		role += tui.StyleHelp.Render(" (you)")
	}
	_, _ = fmt.Fprintf(w, "%s%s  %s\n  %s", prefix, name, role, tui.StyleHelp.Render(u.Email))
}
