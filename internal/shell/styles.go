package shell

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Catppuccin Mocha
const (
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorOverlay1 lipgloss.Color = "#7f849c"
)

// styles are bound to the shell's writer, so output that is not a terminal
// gets plain text.
type styles struct {
	title   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	danger  lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Foreground(colorBlue).Bold(true),
		success: r.NewStyle().Foreground(colorGreen),
		warning: r.NewStyle().Foreground(colorPeach),
		danger:  r.NewStyle().Foreground(colorRed).Bold(true),
		muted:   r.NewStyle().Foreground(colorOverlay1),
	}
}
