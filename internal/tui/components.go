package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tturner/artsel/internal/catalog"
	"github.com/tturner/artsel/internal/selection"
)

// SectionBox renders a titled box with content.
//
//	╭─ TITLE ──────────────────────────╮
//	│  content line 1                  │
//	╰──────────────────────────────────╯
func SectionBox(title, content string, width int, s Styles) string {
	if width < 20 {
		width = 60
	}

	titleText := " " + title + " "
	remaining := width - 3 - lipgloss.Width(titleText)
	if remaining < 0 {
		remaining = 0
	}
	titleBar := "─" + s.Header.Render(titleText) + strings.Repeat("─", remaining)

	box := lipgloss.NewStyle().
		Border(lipgloss.Border{
			Top:         "",
			Bottom:      "─",
			Left:        "│",
			Right:       "│",
			TopLeft:     "╭",
			TopRight:    "╮",
			BottomLeft:  "╰",
			BottomRight: "╯",
		}).
		BorderForeground(DefaultTheme.Border).
		Width(width-2).
		Padding(0, 1)

	lines := strings.Split(box.Render(content), "\n")

	// The top border is empty; swap it for the title bar.
	var b strings.Builder
	b.WriteString("╭" + titleBar + "╮\n")
	for i := 1; i < len(lines); i++ {
		b.WriteString(lines[i])
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

var columnHeaders = []string{"", "Title", "Place of Origin", "Artist", "Inscriptions", "Start", "End"}

// RecordTable renders a page of records with a checkbox column.
type RecordTable struct {
	Records   []catalog.Record
	Selection *selection.Set
	Widths    []int
	// Cursor is the highlighted row, -1 for none.
	Cursor int
	// Header replaces the empty header cell of the checkbox column.
	Header string
	Empty  string
}

// Render renders the table.
func (t RecordTable) Render(s Styles) string {
	widths := t.Widths
	if len(widths) != len(columnHeaders) {
		widths = NewLayout(DefaultWidth, DefaultHeight).Columns()
	}

	var b strings.Builder
	for i, h := range columnHeaders {
		cell := h
		if i == 0 && t.Header != "" {
			cell = t.Header
		}
		cell = fitCell(cell, widths[i], i >= 5)
		if i == 0 {
			b.WriteString(cell)
		} else {
			b.WriteString(s.ColumnName.Render(cell))
		}
		if i < len(columnHeaders)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")

	total := 0
	for _, w := range widths {
		total += w
	}
	total += 2 * (len(widths) - 1)
	b.WriteString(s.Muted.Render(strings.Repeat("─", total)))

	if len(t.Records) == 0 {
		empty := t.Empty
		if empty == "" {
			empty = "No artworks found."
		}
		b.WriteString("\n" + s.Dim.Render(empty))
		return b.String()
	}

	for row, rec := range t.Records {
		checked := t.Selection != nil && t.Selection.IsSelected(rec.ID)
		cells := RecordCells(rec)
		var line strings.Builder
		line.WriteString(CheckboxIcon(checked, s))
		for i := 1; i < len(widths); i++ {
			line.WriteString("  ")
			cell := fitCell(cells[i-1], widths[i], i >= 5)
			if checked {
				cell = s.RowSelected.Render(cell)
			}
			line.WriteString(cell)
		}
		text := line.String()
		if row == t.Cursor {
			text = s.RowCursor.Render(text)
		}
		b.WriteString("\n" + text)
	}
	return b.String()
}

// RecordCells is the display text of a record's data columns.
func RecordCells(r catalog.Record) []string {
	inscriptions := ""
	if r.Inscriptions != nil {
		inscriptions = *r.Inscriptions
	}
	return []string{
		SingleLine(r.Title),
		SingleLine(r.PlaceOfOrigin),
		SingleLine(r.ArtistDisplay),
		SingleLine(inscriptions),
		formatYear(r.DateStart),
		formatYear(r.DateEnd),
	}
}

func formatYear(y *int) string {
	if y == nil {
		return ""
	}
	return strconv.Itoa(*y)
}

func fitCell(text string, width int, alignRight bool) string {
	text = Truncate(text, width)
	if alignRight {
		return padLeft(text, width)
	}
	return padRight(text, width)
}

// PaginatorLine renders "Showing a to b of n" plus the page controls.
//
//	Showing 13 to 24 of 500   « ‹  Page 2 / 42  › »
func PaginatorLine(first, rows, total, page, totalPages int, enabled bool, s Styles) string {
	showing := "Showing 0 to 0 of 0"
	if total > 0 && rows > 0 {
		showing = fmt.Sprintf("Showing %d to %d of %d", first+1, first+rows, total)
	}

	ctl := func(label string, active bool) string {
		if enabled && active {
			return s.KeyBinding.Render(label)
		}
		return s.Muted.Render(label)
	}
	hasPrev := page > 1
	hasNext := totalPages > 0 && page < totalPages
	pageText := fmt.Sprintf("Page %d / %d", max(page, 0), totalPages)

	return s.Dim.Render(showing) + "   " +
		ctl("«", hasPrev) + " " + ctl("‹", hasPrev) + "  " +
		s.Base.Render(pageText) + "  " +
		ctl("›", hasNext) + " " + ctl("»", hasNext)
}

// SelectionBadge renders the running selection count.
func SelectionBadge(count int, s Styles) string {
	return s.Badge.Render(fmt.Sprintf("Running Selection: %d", count))
}
