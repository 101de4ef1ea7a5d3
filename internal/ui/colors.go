package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/sangeet/internal/tasks"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF5F87", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	tab    lipgloss.Style
	active lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	muted  lipgloss.Style
}

func NewPalette(primary, success, failure, warning, muted string) *Palette {
	return &Palette{
		title:  NewBold(primary).MarginBottom(1),
		tab:    NewStyle(muted).Padding(0, 1),
		active: NewBold(primary).Padding(0, 1).Underline(true),
		ok:     NewBold(success),
		err:    NewBold(failure),
		warn:   NewStyle(warning),
		muted:  NewEm(muted),
	}
}

// Toast renders a notification in the style matching its level.
func (p *Palette) Toast(n tasks.Notification) string {
	switch n.Level {
	case tasks.LevelError:
		return p.err.Render("✗ " + n.Message)
	case tasks.LevelWarn:
		return p.warn.Render("! " + n.Message)
	default:
		return p.ok.Render("✓ " + n.Message)
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
