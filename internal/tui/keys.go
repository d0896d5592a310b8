package tui

import "github.com/charmbracelet/bubbles/key"

// StandardKeys defines common key bindings used across screens.
type StandardKeys struct {
	Quit   key.Binding
	Select key.Binding
	Back   key.Binding
	Toggle key.Binding
	Help   key.Binding
}

// NewStandardKeys creates a standard set of key bindings.
func NewStandardKeys() StandardKeys {
	return StandardKeys{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// ShopKeys are the storefront actions. Screens only honor the ones they
// list in their footer.
type ShopKeys struct {
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Search   key.Binding
	Genre    key.Binding
	Sort     key.Binding
	AddCart  key.Binding
	Increase key.Binding
	Decrease key.Binding
	Remove   key.Binding
	Edit     key.Binding
	New      key.Binding
	Role     key.Binding
	Refresh  key.Binding
	Logout   key.Binding
	Tabs     []key.Binding
}

// NewShopKeys creates the storefront key bindings. Tabs[i] jumps to the
// i-th visible tab of the navigation bar.
func NewShopKeys() ShopKeys {
	tabs := make([]key.Binding, 0, 5)
	for _, k := range []string{"1", "2", "3", "4", "5"} {
		tabs = append(tabs, key.NewBinding(key.WithKeys(k), key.WithHelp(k, "tab "+k)))
	}
	return ShopKeys{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PrevPage: key.NewBinding(key.WithKeys("left", "["), key.WithHelp("←", "prev page")),
		NextPage: key.NewBinding(key.WithKeys("right", "]"), key.WithHelp("→", "next page")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Genre:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "genre")),
		Sort:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sort")),
		AddCart:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to cart")),
		Increase: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more")),
		Decrease: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "less")),
		Remove:   key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "remove")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Role:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "change role")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Logout:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "log out")),
		Tabs:     tabs,
	}
}

// TabIndex returns which tab key msg matches, or -1.
func (k ShopKeys) TabIndex(msg string) int {
	for i, b := range k.Tabs {
		for _, name := range b.Keys() {
			if name == msg {
				return i
			}
		}
	}
	return -1
}
