// Package delegate adapts plain render functions to list.ItemDelegate.
package delegate

import (
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// RenderFunc renders one list row. It receives the writer, list model,
// item index and the item itself.
type RenderFunc func(w io.Writer, m list.Model, index int, item list.Item)

// Base is a list.ItemDelegate with fixed height and spacing around a
// RenderFunc.
type Base struct {
	height   int
	spacing  int
	renderFn RenderFunc
}

// New creates a single-line delegate with no spacing.
func New(renderFn RenderFunc) Base {
	return Base{height: 1, renderFn: renderFn}
}

// NewSized creates a delegate whose rows span height lines, separated by
// spacing blank lines.
func NewSized(renderFn RenderFunc, height, spacing int) Base {
	if height < 1 {
		height = 1
	}
	if spacing < 0 {
		spacing = 0
	}
	return Base{height: height, spacing: spacing, renderFn: renderFn}
}

// Height implements list.ItemDelegate
func (d Base) Height() int {
	return d.height
}

// Spacing implements list.ItemDelegate
func (d Base) Spacing() int {
	return d.spacing
}

// Update implements list.ItemDelegate
func (d Base) Update(tea.Msg, *list.Model) tea.Cmd {
	return nil
}

// Render implements list.ItemDelegate
func (d Base) Render(w io.Writer, m list.Model, index int, item list.Item) {
	if d.renderFn != nil {
		d.renderFn(w, m, index, item)
	}
}
