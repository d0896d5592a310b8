package unified

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/blackwell-systems/shelfshop/internal/access"
	"github.com/blackwell-systems/shelfshop/internal/catalog"
	"github.com/blackwell-systems/shelfshop/internal/shop"
	"github.com/blackwell-systems/shelfshop/internal/tui"
)

// sortCycle is the order the sort key steps through; "" keeps catalog order.
var sortCycle = []catalog.SortField{"", catalog.SortTitle, catalog.SortAuthor, catalog.SortPrice, catalog.SortStock}

// HomeModel is the paged catalog with search and genre filter.
type HomeModel struct {
	state *shop.State
	t     labels
	keys  tui.ShopKeys
	width int

	search    textinput.Model
	searching bool
	genre     int
	sort      int
	page      int
	cursor    int
	activeCmd string
}

// NewHomeModel starts on page 1 with no filter.
func NewHomeModel(state *shop.State, t labels) HomeModel {
	in := textinput.New()
	in.Prompt = "/ "
	in.Placeholder = t.Search
	in.CharLimit = 100
	in.Width = 30
	return HomeModel{state: state, t: t, keys: tui.NewShopKeys(), search: in, page: 1}
}

// capturing reports whether keystrokes go to the search box.
func (m HomeModel) capturing() bool { return m.searching }

func (m HomeModel) genres() []string {
	return m.state.Catalog.Genres()
}

func (m HomeModel) filter() catalog.Filter {
	genres := m.genres()
	g := catalog.AllGenres
	if m.genre < len(genres) {
		g = genres[m.genre]
	}
	return catalog.Filter{Search: m.search.Value(), Genre: g}
}

func (m HomeModel) current() catalog.Page {
	return m.state.Products(m.filter(), sortCycle[m.sort], m.page)
}

// refresh clamps the page and cursor after the catalog changed.
func (m HomeModel) refresh() HomeModel {
	if m.genre >= len(m.genres()) {
		m.genre = 0
	}
	p := m.current()
	if p.PageCount == 0 {
		m.page, m.cursor = 1, 0
		return m
	}
	if m.page > p.PageCount {
		m.page = p.PageCount
		p = m.current()
	}
	if m.cursor >= len(p.Items) {
		m.cursor = len(p.Items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m
}

func (m HomeModel) resetPaging() HomeModel {
	m.page, m.cursor = 1, 0
	return m
}

// Update handles keys for the home screen.
func (m HomeModel) Update(msg tea.Msg) (HomeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tui.ClearActiveCmdMsg:
		m.activeCmd = ""
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m HomeModel) updateSearch(msg tea.KeyMsg) (HomeModel, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m = m.resetPaging()
	}
	return m, cmd
}

func (m HomeModel) updateBrowsing(msg tea.KeyMsg) (HomeModel, tea.Cmd) {
	page := m.current()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(page.Items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.PrevPage):
		if m.page > 1 {
			m.page--
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.NextPage):
		if m.page < page.PageCount {
			m.page++
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.activeCmd = "/"
		return m, tea.Batch(m.search.Focus(), tui.HighlightCmd())
	case key.Matches(msg, m.keys.Genre):
		m.genre = (m.genre + 1) % len(m.genres())
		m = m.resetPaging()
		m.activeCmd = "g"
		return m, tui.HighlightCmd()
	case key.Matches(msg, m.keys.Sort):
		m.sort = (m.sort + 1) % len(sortCycle)
		m = m.resetPaging()
		m.activeCmd = "o"
		return m, tui.HighlightCmd()
	case key.Matches(msg, m.keys.AddCart):
		if m.cursor < len(page.Items) {
			_ = m.state.AddToCart(page.Items[m.cursor].ID, 1)
			m.activeCmd = "a"
			return m, tui.HighlightCmd()
		}
	case msg.String() == "enter":
		if m.cursor < len(page.Items) {
			p := page.Items[m.cursor]
			return m, func() tea.Msg { return NavigateMsg{Target: access.ScreenBookDetails, Product: &p} }
		}
	}
	return m, nil
}

// View renders the filter line, the current page and the footer.
func (m HomeModel) View() string {
	page := m.current()
	width := m.width - 6
	if width < 40 {
		width = 74
	}

	var b strings.Builder
	b.WriteString(tui.StyleHeader.Render(m.t.Home))
	b.WriteString("\n\n")

	genre := m.filter().Genre
	if genre == catalog.AllGenres {
		genre = m.t.AllGenres
	}
	filterLine := m.search.View() + "   " +
		tui.StyleHelp.Render(m.t.Genre+": ") + tui.StyleTag.Render(genre)
	if s := sortCycle[m.sort]; s != "" {
		filterLine += tui.StyleHelp.Render("   ↕ " + string(s))
	}
	b.WriteString(filterLine)
	b.WriteString("\n\n")

	if len(page.Items) == 0 {
		b.WriteString(tui.StyleHelp.Render(m.t.NoResults))
		b.WriteString("\n")
	}
	for i, p := range page.Items {
		b.WriteString(xansi.Truncate(m.renderRow(p, i == m.cursor), width, "…"))
		b.WriteString("\n")
	}

	if page.PageCount > 1 {
		b.WriteString("\n")
		b.WriteString(tui.StyleHelp.Render(fmt.Sprintf("%s %d/%d", m.t.Page, page.Page, page.PageCount)))
		b.WriteString("\n")
	}

	footer := []tui.ShortcutEntry{
		{Key: "enter", Label: "enter details"},
		{Key: "a", Label: "a add to cart"},
		{Key: "/", Label: "/ " + strings.ToLower(m.t.Search)},
		{Key: "g", Label: "g " + strings.ToLower(m.t.Genre)},
		{Key: "o", Label: "o sort"},
		{Key: "", Label: "←/→ " + strings.ToLower(m.t.Page)},
	}
	return tui.RenderWithFooter(b.String(), footer, m.activeCmd)
}

func (m HomeModel) renderRow(p catalog.Product, selected bool) string {
	prefix := "  "
	title := tui.StyleNormal.Render(tui.PadOrTruncate(p.Title, 30))
	if selected {
		prefix = lipgloss.NewStyle().Foreground(tui.ColorOrange).Render("›") + " "
		title = tui.StyleHighlight.Render(tui.PadOrTruncate(p.Title, 30))
	}
	author := tui.StyleHelp.Render(tui.PadOrTruncate(p.Author, 20))
	price := tui.PadOrTruncate(tui.FormatPrice(p.Price), 9)
	stock := stockLabel(p, m.t)
	if n := m.state.Cart.Quantity(p.ID); n > 0 {
		stock += " " + tui.StyleBadge.Render(fmt.Sprintf("%d", n))
	}
	return prefix + title + " " + author + " " + price + " " + stock
}

// stockLabel colors the stock count by level.
func stockLabel(p catalog.Product, t labels) string {
	switch {
	case p.InStock == 0:
		return tui.StyleError.Render(t.OutOfStock)
	case catalog.IsLowStock(p):
		return tui.StyleWarning.Render(fmt.Sprintf("%d %s", p.InStock, t.InStock))
	default:
		return tui.StyleSuccess.Render(fmt.Sprintf("%d %s", p.InStock, t.InStock))
	}
}
