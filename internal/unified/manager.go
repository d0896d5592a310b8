package unified

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/shelfshop/internal/catalog"
	"github.com/blackwell-systems/shelfshop/internal/shop"
	"github.com/blackwell-systems/shelfshop/internal/tui"
	"github.com/blackwell-systems/shelfshop/internal/tui/delegate"
)

type managerPhase int

const (
	managerBrowsing   managerPhase = iota // product list
	managerEditing                        // add/edit form
	managerConfirming                     // delete confirmation
	managerProcessing                     // remote call in flight
)

// Product form field order.
const (
	bookFieldTitle = iota
	bookFieldAuthor
	bookFieldPrice
	bookFieldStock
	bookFieldGenre
	bookFieldDescription
	bookFieldImage
)

// productItem adapts a product to list.Item.
type productItem struct {
	catalog.Product
	pending bool
}

func (p productItem) FilterValue() string { return p.Title + " " + p.Author }

// ManagerModel is the inventory dashboard: stats, product list and the
// add/edit/delete workflows.
type ManagerModel struct {
	ctx   context.Context
	state *shop.State
	t     labels
	keys  tui.ShopKeys

	phase     managerPhase
	list      list.Model
	form      form
	editing   *catalog.Product // nil while adding
	target    catalog.Product  // delete candidate
	activeCmd string
}

// NewManagerModel builds the dashboard from the cached catalog.
func NewManagerModel(ctx context.Context, state *shop.State, t labels, width, height int) ManagerModel {
	l := list.New(nil, delegate.New(renderProductItem), width, listHeight(height))
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	m := ManagerModel{ctx: ctx, state: state, t: t, keys: tui.NewShopKeys(), list: l}
	m.reload()
	return m
}

// listHeight leaves room for the header, stats and footer.
func listHeight(height int) int {
	if h := height - 16; h > 5 {
		return h
	}
	return 10
}

func (m *ManagerModel) reload() {
	products := catalog.SortBy(m.state.Catalog.Products(), catalog.SortTitle)
	items := make([]list.Item, len(products))
	for i, p := range products {
		items[i] = productItem{Product: p, pending: m.state.Catalog.Pending(p.ID)}
	}
	m.list.SetItems(items)
}

// capturing reports whether the screen owns every key, including esc and
// the tab shortcuts.
func (m ManagerModel) capturing() bool { return m.phase != managerBrowsing }

func (m ManagerModel) selected() (catalog.Product, bool) {
	it, ok := m.list.SelectedItem().(productItem)
	return it.Product, ok
}

// Update routes by phase; keys are ignored while a request is in flight.
func (m ManagerModel) Update(msg tea.Msg) (ManagerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tui.ClearActiveCmdMsg:
		m.activeCmd = ""
		return m, nil

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-6, listHeight(msg.Height))
		return m, nil

	case productSavedMsg:
		m.reload()
		if msg.err != nil {
			m.phase = managerEditing
			m.form.err = shop.UserMessage(msg.err)
			return m, nil
		}
		m.phase = managerBrowsing
		m.editing = nil
		return m, nil

	case productDeletedMsg:
		m.phase = managerBrowsing
		m.reload()
		return m, nil

	case tea.KeyMsg:
		switch m.phase {
		case managerProcessing:
			return m, nil
		case managerEditing:
			return m.updateEditing(msg)
		case managerConfirming:
			return m.updateConfirming(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m ManagerModel) updateBrowsing(msg tea.KeyMsg) (ManagerModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.New):
		m.editing = nil
		m.form = productForm(m.t, catalog.Product{})
		m.phase = managerEditing
		m.activeCmd = "n"
		return m, tui.HighlightCmd()
	case key.Matches(msg, m.keys.Edit), msg.String() == "enter":
		p, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.editing = &p
		m.form = productForm(m.t, p)
		m.phase = managerEditing
		m.activeCmd = "e"
		return m, tui.HighlightCmd()
	case key.Matches(msg, m.keys.Remove):
		p, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.target = p
		m.phase = managerConfirming
		m.activeCmd = "d"
		return m, tui.HighlightCmd()
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m ManagerModel) updateEditing(msg tea.KeyMsg) (ManagerModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.phase = managerBrowsing
		m.editing = nil
		return m, nil
	case "ctrl+s":
		return m.submit()
	case "enter":
		if !m.form.lastFocused() {
			return m, m.form.move(1)
		}
		return m.submit()
	}
	return m, m.form.handleKey(msg)
}

func (m ManagerModel) submit() (ManagerModel, tea.Cmd) {
	p, err := m.formProduct()
	if err != nil {
		m.form.err = err.Error()
		return m, nil
	}
	m.form.err = ""
	m.phase = managerProcessing
	m.activeCmd = "enter"
	ctx, state := m.ctx, m.state

	if m.editing == nil {
		return m, tea.Batch(tui.HighlightCmd(), func() tea.Msg {
			stored, err := state.CreateProduct(ctx, p)
			return productSavedMsg{product: stored, created: true, err: err}
		})
	}
	id := m.editing.ID
	patch := catalog.Diff(*m.editing, p)
	return m, tea.Batch(tui.HighlightCmd(), func() tea.Msg {
		stored, err := state.UpdateProduct(ctx, id, patch)
		return productSavedMsg{product: stored, err: err}
	})
}

// formProduct reads the form. Numeric fields are parsed here; the rest of
// validation happens in the catalog.
func (m ManagerModel) formProduct() (catalog.Product, error) {
	var p catalog.Product
	if m.editing != nil {
		p = *m.editing
	}
	p.Title = m.form.value(bookFieldTitle)
	p.Author = m.form.value(bookFieldAuthor)
	p.Genre = m.form.value(bookFieldGenre)
	p.Description = m.form.value(bookFieldDescription)
	p.Image = m.form.value(bookFieldImage)

	price, err := catalog.ParsePrice(m.form.value(bookFieldPrice))
	if err != nil {
		return p, err
	}
	p.Price = price
	stock, err := strconv.Atoi(m.form.value(bookFieldStock))
	if err != nil {
		return p, fmt.Errorf("invalid stock %q", m.form.value(bookFieldStock))
	}
	p.InStock = stock
	return p, nil
}

func (m ManagerModel) updateConfirming(msg tea.KeyMsg) (ManagerModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.phase = managerProcessing
		m.activeCmd = "y"
		ctx, state, id := m.ctx, m.state, m.target.ID
		return m, tea.Batch(tui.HighlightCmd(), func() tea.Msg {
			return productDeletedMsg{id: id, err: state.DeleteProduct(ctx, id)}
		})
	case "n", "N", "esc":
		m.phase = managerBrowsing
		return m, nil
	}
	return m, nil
}

func productForm(t labels, p catalog.Product) form {
	var f form
	price, stock := "", ""
	if p.ID != "" {
		price = p.Price.StringFixed(2)
		stock = strconv.Itoa(p.InStock)
	}
	f.add("Title", p.Title, "Book title", 200, false)
	f.add("Author", p.Author, "Author name", 100, false)
	f.add("Price", price, "12.99", 12, false)
	f.add("In stock", stock, "10", 6, false)
	f.add(t.Genre, p.Genre, "Fiction", 50, false)
	f.add("Description", p.Description, "", 500, false)
	f.add("Cover URL", p.Image, "blank for the default cover", 300, false)
	return f
}

// View renders the current phase.
func (m ManagerModel) View() string {
	switch m.phase {
	case managerProcessing:
		return tui.RenderMessage(m.t.Working, "")
	case managerEditing:
		return m.renderForm()
	case managerConfirming:
		return m.renderConfirmation()
	}

	var b strings.Builder
	b.WriteString(tui.StyleHeader.Render(m.t.Manager))
	b.WriteString("\n\n")
	b.WriteString(renderStats(m.state.Catalog.Stats()))
	b.WriteString("\n\n")
	if len(m.list.Items()) == 0 {
		b.WriteString(tui.StyleHelp.Render(m.t.NoResults))
	} else {
		b.WriteString(m.list.View())
	}

	footer := []tui.ShortcutEntry{
		{Key: "n", Label: "n new"},
		{Key: "e", Label: "e edit"},
		{Key: "d", Label: "d delete"},
	}
	return tui.RenderWithFooter(b.String(), footer, m.activeCmd)
}

func (m ManagerModel) renderForm() string {
	title := "New book"
	if m.editing != nil {
		title = "Edit: " + m.editing.Title
	}
	body := tui.StyleHeader.Render(title) + "\n\n" + m.form.render()
	footer := []tui.ShortcutEntry{
		{Key: "tab", Label: "tab next field"},
		{Key: "enter", Label: "enter/ctrl+s save"},
		{Key: "esc", Label: "esc cancel"},
	}
	return tui.RenderWithFooter(body, footer, m.activeCmd)
}

func (m ManagerModel) renderConfirmation() string {
	var b strings.Builder
	b.WriteString(tui.StyleDanger.Render("Delete book?"))
	b.WriteString("\n\n")
	b.WriteString(tui.StyleHeader.Render(m.target.Title))
	b.WriteString("\n")
	b.WriteString(tui.StyleHelp.Render(m.target.Author))
	b.WriteString("\n\n")
	b.WriteString(tui.StyleHelp.Render("This removes the book for every user."))
	footer := []tui.ShortcutEntry{
		{Key: "y", Label: "y delete"},
		{Key: "n", Label: "n cancel"},
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(tui.RenderWithFooter(b.String(), footer, m.activeCmd))
}

func renderStats(s catalog.Stats) string {
	cell := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tui.ColorGray).
		Padding(0, 1).
		Width(16)
	stat := func(label, value string, style lipgloss.Style) string {
		return cell.Render(tui.StyleHelp.Render(label) + "\n" + style.Render(value))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		stat("Titles", strconv.Itoa(s.Titles), tui.StyleHeader),
		stat("Low stock", strconv.Itoa(s.LowStock), tui.StyleWarning),
		stat("Out of stock", strconv.Itoa(s.OutOfStock), tui.StyleError),
		stat("Stock value", tui.FormatPrice(s.StockValue), tui.StyleSuccess),
	)
}

func renderProductItem(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(productItem)
	if !ok {
		return
	}
	prefix := "  "
	title := tui.StyleNormal.Render(tui.PadOrTruncate(it.Title, 30))
	if index == m.Index() {
		prefix = lipgloss.NewStyle().Foreground(tui.ColorOrange).Render("›") + " "
		title = tui.StyleHighlight.Render(tui.PadOrTruncate(it.Title, 30))
	}
	stock := fmt.Sprintf("%4d", it.InStock)
	switch {
	case it.InStock == 0:
		stock = tui.StyleError.Render(stock)
	case catalog.IsLowStock(it.Product):
		stock = tui.StyleWarning.Render(stock)
	default:
		stock = tui.StyleSuccess.Render(stock)
	}
	line := prefix + title + " " +
		tui.StyleHelp.Render(tui.PadOrTruncate(it.Author, 20)) + " " +
		tui.PadOrTruncate(tui.FormatPrice(it.Price), 9) + " " + stock
	if it.pending {
		line += " " + tui.StyleHelp.Render("saving…")
	}
	_, _ = fmt.Fprint(w, line)
}
