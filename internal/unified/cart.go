package unified

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/shelfshop/internal/shop"
	"github.com/blackwell-systems/shelfshop/internal/tui"
)

// CartModel lists cart lines with quantity controls and the total.
type CartModel struct {
	state     *shop.State
	t         labels
	keys      tui.ShopKeys
	cursor    int
	activeCmd string
}

// NewCartModel builds the cart screen.
func NewCartModel(state *shop.State, t labels) CartModel {
	return CartModel{state: state, t: t, keys: tui.NewShopKeys()}
}

// Update adjusts quantities of the line under the cursor.
func (m CartModel) Update(msg tea.Msg) (CartModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tui.ClearActiveCmdMsg:
		m.activeCmd = ""
		return m, nil

	case tea.KeyMsg:
		lines := m.state.CartLines()
		if len(lines) == 0 {
			return m, nil
		}
		if m.cursor >= len(lines) {
			m.cursor = len(lines) - 1
		}
		line := lines[m.cursor]
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(lines)-1 {
				m.cursor++
			}
			return m, nil
		case key.Matches(msg, m.keys.Increase):
			m.state.SetCartQuantity(line.ProductID, line.Quantity+1)
			m.activeCmd = "+"
		case key.Matches(msg, m.keys.Decrease):
			m.state.SetCartQuantity(line.ProductID, line.Quantity-1)
			m.activeCmd = "+"
		case key.Matches(msg, m.keys.Remove):
			m.state.RemoveFromCart(line.ProductID)
			m.activeCmd = "d"
		default:
			return m, nil
		}
		if n := len(m.state.CartLines()); m.cursor >= n && n > 0 {
			m.cursor = n - 1
		}
		return m, tui.HighlightCmd()
	}
	return m, nil
}

// View renders the lines, stock warnings and the total.
func (m CartModel) View() string {
	lines := m.state.CartLines()
	var b strings.Builder
	b.WriteString(tui.StyleHeader.Render(m.t.Cart))
	b.WriteString("\n\n")

	if len(lines) == 0 {
		b.WriteString(tui.StyleHelp.Render(m.t.CartEmpty))
		b.WriteString("\n")
		return tui.RenderWithFooter(b.String(), nil, "")
	}

	for i, l := range lines {
		prefix := "  "
		titleStyle := tui.StyleNormal
		if i == m.cursor {
			prefix = lipgloss.NewStyle().Foreground(tui.ColorOrange).Render("›") + " "
			titleStyle = tui.StyleHighlight
		}
		title := l.ProductID
		if l.Found {
			title = l.Product.Title
		}
		row := prefix +
			titleStyle.Render(tui.PadOrTruncate(title, 30)) + " " +
			tui.StyleHelp.Render(fmt.Sprintf("× %-3d", l.Quantity)) + " " +
			tui.FormatPrice(l.Subtotal)
		if !l.Found {
			row += " " + tui.StyleError.Render("(unavailable)")
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	if warnings := m.state.StockWarnings(); len(warnings) > 0 {
		b.WriteString("\n")
		for _, w := range warnings {
			b.WriteString(tui.StyleWarning.Render(
				fmt.Sprintf("! %s: %d requested, %d in stock", w.Title, w.Requested, w.Available)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s (%d %s): %s",
		tui.StyleHeader.Render(m.t.Total),
		m.state.Cart.ItemCount(), m.t.Items,
		tui.StyleHighlight.Render(tui.FormatPrice(m.state.CartTotal()))))
	b.WriteString("\n")

	footer := []tui.ShortcutEntry{
		{Key: "+", Label: "-/+ qty"},
		{Key: "d", Label: "d remove"},
	}
	return tui.RenderWithFooter(b.String(), footer, m.activeCmd)
}
