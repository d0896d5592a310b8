package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Color palette matching the CLI's fatih/color output
var (
	// ColorGreen for success toasts and in-stock counts
	ColorGreen = lipgloss.AdaptiveColor{Light: "#00AF00", Dark: "#00D700"}

	// ColorCyan for genres and metadata
	ColorCyan = lipgloss.AdaptiveColor{Light: "#00AFAF", Dark: "#00D7D7"}

	// ColorWhite for primary text
	ColorWhite = lipgloss.AdaptiveColor{Light: "#262626", Dark: "#FFFFFF"}

	// ColorGray for secondary text and help
	ColorGray = lipgloss.AdaptiveColor{Light: "#767676", Dark: "#808080"}

	// ColorYellow for warnings and highlights
	ColorYellow = lipgloss.AdaptiveColor{Light: "#D7AF00", Dark: "#FFD700"}

	// ColorOrange for the cursor and the cart badge
	ColorOrange = lipgloss.AdaptiveColor{Light: "#D75F00", Dark: "#FF8700"}

	// ColorRed for errors and destructive confirmations
	ColorRed = lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"}
)

// Reusable styles
var (
	// StyleNormal is the base style for regular text
	StyleNormal = lipgloss.NewStyle().Foreground(ColorWhite)

	// StyleHighlight is for selected items
	StyleHighlight = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	// StyleSuccess is for confirmations and healthy stock
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorGreen)

	// StyleTag is for genres
	StyleTag = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleHelp is for help text and hints
	StyleHelp = lipgloss.NewStyle().Foreground(ColorGray)

	// StyleError is for form errors and error toasts
	StyleError = lipgloss.NewStyle().Foreground(ColorRed)

	// StyleWarning is for warnings and low stock
	StyleWarning = lipgloss.NewStyle().Foreground(ColorYellow)

	// StyleDanger is for destructive confirmations
	StyleDanger = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	// StyleHeader is for section headers
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	// StyleBorder is for borders and separators
	StyleBorder = lipgloss.NewStyle().
			Foreground(ColorGray).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray)

	// StyleBadge is the cart count bubble
	StyleBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(ColorOrange).
			Bold(true).
			Padding(0, 1)

	// StyleTabActive and StyleTabInactive render the bottom navigation bar
	StyleTabActive = lipgloss.NewStyle().
			Foreground(ColorOrange).
			Bold(true).
			Underline(true)
	StyleTabInactive = lipgloss.NewStyle().Foreground(ColorGray)
)

// ApplyTheme picks the light or dark side of every adaptive color instead
// of relying on terminal background detection.
func ApplyTheme(dark bool) {
	lipgloss.SetHasDarkBackground(dark)
}

// FormatPrice renders a price the way the storefront shows it.
func FormatPrice(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// Truncate shortens s to maxWidth visible runes with an ellipsis.
func Truncate(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) <= maxWidth {
		return s
	}
	if maxWidth <= 1 {
		return "…"
	}
	return string(runes[:maxWidth-1]) + "…"
}

// PadOrTruncate pads s to exactly width visible runes, truncating with "…"
// if necessary.
func PadOrTruncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	n := len([]rune(s))
	if n > width {
		return Truncate(s, width)
	}
	return s + strings.Repeat(" ", width-n)
}
