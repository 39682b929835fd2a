package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Layout constants
const (
	DefaultWidth  = 120
	DefaultHeight = 40
	MinWidth      = 60
	MaxWidth      = 160
)

// Layout holds layout calculations for the current terminal size.
type Layout struct {
	Width  int
	Height int

	// ContentWidth is the inner width of the table box.
	ContentWidth int
}

// NewLayout creates a new layout for the given terminal size.
func NewLayout(width, height int) Layout {
	if width < MinWidth {
		width = MinWidth
	}
	if width > MaxWidth {
		width = MaxWidth
	}
	return Layout{
		Width:        width,
		Height:       height,
		ContentWidth: width - 4, // border + padding
	}
}

// Columns splits the content width between the record columns.
// Order: checkbox, title, place, artist, inscriptions, start, end.
func (l Layout) Columns() []int {
	const check, year, gaps = 3, 6, 12
	flex := l.ContentWidth - check - 2*year - gaps
	if flex < 40 {
		flex = 40
	}
	title := flex * 30 / 100
	place := flex * 15 / 100
	artist := flex * 30 / 100
	inscr := flex - title - place - artist
	return []int{check, title, place, artist, inscr, year, year}
}

// JoinVertical joins non-empty strings with gap blank lines between them.
func JoinVertical(gap int, parts ...string) string {
	spacer := strings.Repeat("\n", gap+1)
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, spacer)
}

// Truncate truncates text to fit within width, adding ellipsis if needed.
func Truncate(text string, width int) string {
	if width < 4 {
		if lipgloss.Width(text) <= width {
			return text
		}
		runes := []rune(text)
		return string(runes[:min(max(width, 0), len(runes))])
	}
	if lipgloss.Width(text) <= width {
		return text
	}
	runes := []rune(text)
	for i := len(runes) - 1; i >= 0; i-- {
		truncated := string(runes[:i]) + "..."
		if lipgloss.Width(truncated) <= width {
			return truncated
		}
	}
	return "..."
}

// SingleLine collapses newlines and runs of whitespace.
func SingleLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func padRight(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return text + strings.Repeat(" ", width-w)
}

func padLeft(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", width-w) + text
}
