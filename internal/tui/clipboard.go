package tui

import (
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// clipboardCopyMsg is sent after a clipboard copy operation.
type clipboardCopyMsg struct {
	count int
	err   error
}

// IDsText joins ids one per line.
func IDsText(ids []int64) string {
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.FormatInt(id, 10))
	}
	return b.String()
}

// copyToClipboard copies the selected ids to the system clipboard.
func copyToClipboard(write func(string) error, ids []int64) tea.Cmd {
	text := IDsText(ids)
	return func() tea.Msg {
		if write == nil {
			write = clipboard.WriteAll
		}
		if err := write(text); err != nil {
			return clipboardCopyMsg{count: len(ids), err: err}
		}
		return clipboardCopyMsg{count: len(ids)}
	}
}
