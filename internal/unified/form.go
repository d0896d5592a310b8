package unified

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/shelfshop/internal/tui"
)

// form is a vertical stack of labelled text inputs with one focused field.
type form struct {
	labels  []string
	inputs  []textinput.Model
	focused int
	err     string
}

// add appends a field. The first field added gets focus.
func (f *form) add(label, value, placeholder string, limit int, password bool) {
	in := textinput.New()
	in.Placeholder = placeholder
	in.SetValue(value)
	in.CharLimit = limit
	in.Width = 40
	if password {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	if len(f.inputs) == 0 {
		in.Focus()
	}
	f.labels = append(f.labels, label)
	f.inputs = append(f.inputs, in)
}

// value returns the trimmed content of field i.
func (f form) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

// move shifts focus by delta, wrapping around.
func (f *form) move(delta int) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	f.focused = (f.focused + delta + len(f.inputs)) % len(f.inputs)
	cmds := make([]tea.Cmd, len(f.inputs))
	for i := range f.inputs {
		if i == f.focused {
			cmds[i] = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return tea.Batch(cmds...)
}

// handleKey moves focus on tab/shift+tab/up/down and otherwise feeds the
// key to the focused input.
func (f *form) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		return f.move(1)
	case "shift+tab", "up":
		return f.move(-1)
	}
	return f.update(msg)
}

// update forwards msg to the focused input.
func (f *form) update(msg tea.Msg) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return cmd
}

// lastFocused reports whether focus is on the final field.
func (f form) lastFocused() bool {
	return f.focused == len(f.inputs)-1
}

func (f form) render() string {
	accentBar := lipgloss.NewStyle().
		Border(lipgloss.Border{Left: "▌"}, false, false, false, true).
		BorderForeground(tui.ColorOrange).
		PaddingLeft(1)
	plain := lipgloss.NewStyle().PaddingLeft(2)
	focusedLabel := lipgloss.NewStyle().Foreground(tui.ColorOrange).Bold(true)
	dimLabel := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	var b strings.Builder
	if f.err != "" {
		b.WriteString(tui.StyleError.Render(fmt.Sprintf("✗  %s", f.err)))
		b.WriteString("\n\n")
	}
	for i, name := range f.labels {
		var block string
		if i == f.focused {
			block = accentBar.Render(focusedLabel.Render(name) + "\n" + f.inputs[i].View())
		} else {
			block = plain.Render(dimLabel.Render(name) + "\n" + f.inputs[i].View())
		}
		b.WriteString(block)
		b.WriteString("\n")
	}
	return b.String()
}
