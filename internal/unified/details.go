package unified

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/shelfshop/internal/catalog"
	"github.com/blackwell-systems/shelfshop/internal/shop"
	"github.com/blackwell-systems/shelfshop/internal/tui"
)

// DetailsModel shows one product and lets the user pick a quantity.
type DetailsModel struct {
	state     *shop.State
	t         labels
	keys      tui.ShopKeys
	product   catalog.Product
	ok        bool
	qty       int
	activeCmd string
}

// NewDetailsModel shows the navigator's selected product, preferring the
// cached copy so edits made since selection are visible.
func NewDetailsModel(state *shop.State, t labels) DetailsModel {
	m := DetailsModel{state: state, t: t, keys: tui.NewShopKeys(), qty: 1}
	if p, ok := state.Nav.Selected(); ok {
		m.product, m.ok = p, true
		if fresh, found := state.Catalog.ByID(p.ID); found {
			m.product = fresh
		}
	}
	return m
}

// Update handles quantity changes and add-to-cart.
func (m DetailsModel) Update(msg tea.Msg) (DetailsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tui.ClearActiveCmdMsg:
		m.activeCmd = ""
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Increase):
			m.qty++
			m.activeCmd = "+"
		case key.Matches(msg, m.keys.Decrease):
			if m.qty > 1 {
				m.qty--
			}
			m.activeCmd = "+"
		case key.Matches(msg, m.keys.AddCart), msg.String() == "enter":
			if m.ok {
				_ = m.state.AddToCart(m.product.ID, m.qty)
				m.qty = 1
			}
			m.activeCmd = "a"
		default:
			return m, nil
		}
		return m, tui.HighlightCmd()
	}
	return m, nil
}

// View renders the product card.
func (m DetailsModel) View() string {
	if !m.ok {
		return tui.RenderMessage(m.t.NoResults, "esc "+m.t.Back)
	}
	p := m.product
	label := lipgloss.NewStyle().Foreground(tui.ColorGray).Width(12)

	var b strings.Builder
	b.WriteString(tui.StyleHeader.Render(p.Title))
	b.WriteString("\n")
	b.WriteString(tui.StyleHelp.Render(p.Author))
	b.WriteString("\n\n")
	b.WriteString(label.Render(m.t.Genre) + tui.StyleTag.Render(p.Genre) + "\n")
	b.WriteString(label.Render("Price") + tui.StyleHighlight.Render(tui.FormatPrice(p.Price)) + "\n")
	b.WriteString(label.Render("Stock") + stockLabel(p, m.t) + "\n")
	if p.Image != "" {
		b.WriteString(label.Render("Cover") + tui.StyleHelp.Render(tui.Truncate(p.Image, 60)) + "\n")
	}
	if p.Description != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(60).Render(p.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Qty: %s", tui.StyleHighlight.Render(fmt.Sprintf("‹ %d ›", m.qty))))
	if n := m.state.Cart.Quantity(p.ID); n > 0 {
		b.WriteString("   " + tui.StyleHelp.Render(fmt.Sprintf("%s: %d", m.t.Cart, n)))
	}
	b.WriteString("\n")

	footer := []tui.ShortcutEntry{
		{Key: "+", Label: "-/+ qty"},
		{Key: "a", Label: "a add to cart"},
		{Key: "esc", Label: "esc " + m.t.Back},
	}
	return tui.RenderWithFooter(b.String(), footer, m.activeCmd)
}
