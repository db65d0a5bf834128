package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	colorKeyword = lipgloss.Color("#06b6d4") // cyan-500
	colorName    = lipgloss.Color("#f8fafc") // slate-50
	colorDim     = lipgloss.Color("#6b7280") // gray-500
	colorAdded   = lipgloss.Color("#10b981") // green-500
	colorRemoved = lipgloss.Color("#ef4444") // red-500
	colorWarn    = lipgloss.Color("#eab308") // yellow-500
)

// styles holds the lipgloss styles for CLI output.
type styles struct {
	Keyword lipgloss.Style
	Name    lipgloss.Style
	Dim     lipgloss.Style
	Added   lipgloss.Style
	Removed lipgloss.Style
	Warn    lipgloss.Style

	color bool
}

// render applies style to text on a terminal and returns text untouched otherwise.
func (s *styles) render(style lipgloss.Style, text string) string {
	if !s.color {
		return text
	}

	return style.Render(text)
}

// newStyles returns the output styles for w. Color is only used when w is a
// terminal, so piped output carries no escape codes.
func newStyles(w io.Writer) *styles {
	f, ok := w.(*os.File)

	return &styles{
		color:   ok && isatty.IsTerminal(f.Fd()),
		Keyword: lipgloss.NewStyle().Foreground(colorKeyword).Bold(true),
		Name:    lipgloss.NewStyle().Foreground(colorName),
		Dim:     lipgloss.NewStyle().Foreground(colorDim),
		Added:   lipgloss.NewStyle().Foreground(colorAdded),
		Removed: lipgloss.NewStyle().Foreground(colorRemoved),
		Warn:    lipgloss.NewStyle().Foreground(colorWarn).Bold(true),
	}
}
