package unified

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/shelfshop/internal/access"
	"github.com/blackwell-systems/shelfshop/internal/nav"
	"github.com/blackwell-systems/shelfshop/internal/notify"
	"github.com/blackwell-systems/shelfshop/internal/tui"
)

// tabOrder is the bottom bar, left to right, before access filtering.
var tabOrder = []access.Screen{
	access.ScreenHome,
	access.ScreenCart,
	access.ScreenProfile,
	access.ScreenManager,
	access.ScreenAdmin,
}

// visibleTabs returns the tabs role may open.
func visibleTabs(role *access.Role) []access.Screen {
	out := make([]access.Screen, 0, len(tabOrder))
	for _, s := range tabOrder {
		if access.IsAuthorized(role, s) {
			out = append(out, s)
		}
	}
	return out
}

// tabFor maps nested screens onto the tab that owns them.
func tabFor(s access.Screen) access.Screen {
	for _, t := range tabOrder {
		if t == s {
			return s
		}
	}
	return nav.BackTarget(s)
}

// renderNavBar draws the numbered tabs with the cart badge.
func renderNavBar(t labels, tabs []access.Screen, current access.Screen, cartCount int) string {
	active := tabFor(current)
	parts := make([]string, len(tabs))
	for i, s := range tabs {
		label := fmt.Sprintf("%d %s", i+1, t.Screen(s))
		style := tui.StyleTabInactive
		if s == active {
			style = tui.StyleTabActive
		}
		parts[i] = style.Render(label)
		if s == access.ScreenCart && cartCount > 0 {
			parts[i] += " " + tui.StyleBadge.Render(fmt.Sprintf("%d", cartCount))
		}
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(parts, "   "))
}

// renderToasts draws the visible toasts, oldest first.
func renderToasts(toasts []notify.Toast) string {
	if len(toasts) == 0 {
		return ""
	}
	lines := make([]string, len(toasts))
	for i, t := range toasts {
		switch t.Kind {
		case notify.KindError:
			lines[i] = tui.StyleError.Render("✗ " + t.Message)
		case notify.KindWarning:
			lines[i] = tui.StyleWarning.Render("! " + t.Message)
		default:
			lines[i] = tui.StyleSuccess.Render("✓ " + t.Message)
		}
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(lines, "\n"))
}
