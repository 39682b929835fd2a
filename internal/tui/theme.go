package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for the TUI.
// Tokyo Night tones.
type Theme struct {
	BgDark   lipgloss.Color
	BgAccent lipgloss.Color

	TextPrimary lipgloss.Color
	TextDim     lipgloss.Color
	TextMuted   lipgloss.Color

	Border        lipgloss.Color
	BorderFocused lipgloss.Color

	Accent  lipgloss.Color // blue
	Success lipgloss.Color // green
	Warning lipgloss.Color // amber
	Error   lipgloss.Color // red/pink
	Info    lipgloss.Color // cyan
	Purple  lipgloss.Color
}

// DefaultTheme is the dark theme used everywhere.
var DefaultTheme = Theme{
	BgDark:   lipgloss.Color("#1a1b26"),
	BgAccent: lipgloss.Color("#414868"),

	TextPrimary: lipgloss.Color("#c0caf5"),
	TextDim:     lipgloss.Color("#565f89"),
	TextMuted:   lipgloss.Color("#414868"),

	Border:        lipgloss.Color("#414868"),
	BorderFocused: lipgloss.Color("#7aa2f7"),

	Accent:  lipgloss.Color("#7aa2f7"),
	Success: lipgloss.Color("#9ece6a"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),
	Info:    lipgloss.Color("#7dcfff"),
	Purple:  lipgloss.Color("#bb9af7"),
}

// Styles provides pre-configured lipgloss styles using the theme.
type Styles struct {
	Base  lipgloss.Style
	Dim   lipgloss.Style
	Muted lipgloss.Style
	Bold  lipgloss.Style

	Title       lipgloss.Style
	Header      lipgloss.Style
	ColumnName  lipgloss.Style
	Badge       lipgloss.Style
	RowCursor   lipgloss.Style
	RowSelected lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Running lipgloss.Style

	KeyBinding lipgloss.Style
	KeyHint    lipgloss.Style

	Popover lipgloss.Style
	Alert   lipgloss.Style
	Footer  lipgloss.Style
}

// NewStyles creates a new Styles instance from a Theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Base:  lipgloss.NewStyle().Foreground(t.TextPrimary),
		Dim:   lipgloss.NewStyle().Foreground(t.TextDim),
		Muted: lipgloss.NewStyle().Foreground(t.TextMuted),
		Bold:  lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true),

		Title: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true).
			Padding(0, 1),
		Header: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true),
		ColumnName: lipgloss.NewStyle().
			Foreground(t.TextDim).
			Bold(true),
		Badge: lipgloss.NewStyle().
			Foreground(t.BgDark).
			Background(t.Info).
			Bold(true).
			Padding(0, 1),
		RowCursor: lipgloss.NewStyle().
			Background(t.BgAccent),
		RowSelected: lipgloss.NewStyle().
			Foreground(t.Accent),

		Success: lipgloss.NewStyle().Foreground(t.Success),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
		Error:   lipgloss.NewStyle().Foreground(t.Error),
		Info:    lipgloss.NewStyle().Foreground(t.Info),
		Running: lipgloss.NewStyle().Foreground(t.Warning).Bold(true),

		KeyBinding: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true),
		KeyHint: lipgloss.NewStyle().
			Foreground(t.TextDim),

		Popover: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocused).
			Padding(0, 1),
		Alert: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Error).
			Foreground(t.Error).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().
			Foreground(t.TextDim),
	}
}

// DefaultStyles returns styles using the default theme.
var DefaultStyles = NewStyles(DefaultTheme)

// CheckboxIcon returns a styled checkbox.
func CheckboxIcon(checked bool, s Styles) string {
	if checked {
		return s.Success.Render("[✓]")
	}
	return s.Dim.Render("[ ]")
}

// PartialCheckboxIcon is the header checkbox: all, some or none of the page.
func PartialCheckboxIcon(all, some bool, s Styles) string {
	switch {
	case all:
		return s.Success.Render("[✓]")
	case some:
		return s.Warning.Render("[-]")
	default:
		return s.Dim.Render("[ ]")
	}
}
