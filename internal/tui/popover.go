package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// bulkResultMsg carries the ids fetched for a "select first N" submit.
type bulkResultMsg struct {
	count int
	ids   []int64
	err   error
}

// newBulkForm builds the single-field form shown inside the popover.
func (m *Model) newBulkForm() *huh.Form {
	m.bulkValue = m.popover.Input()
	input := huh.NewInput().
		Key("count").
		Title("Select first N artworks").
		Description(fmt.Sprintf("Between 1 and %d, counted from the start of the catalog.", m.popover.Max())).
		Placeholder("e.g. 25").
		CharLimit(4).
		Value(&m.bulkValue).
		Validate(m.popover.Validate)

	return huh.NewForm(huh.NewGroup(input)).
		WithShowHelp(false).
		WithTheme(huh.ThemeCharm()).
		WithWidth(48)
}

// openBulk shows the popover with a fresh form.
func (m *Model) openBulk() tea.Cmd {
	if m.popover.InFlight() {
		return nil
	}
	m.popover.Open()
	m.bulkForm = m.newBulkForm()
	return m.bulkForm.Init()
}

// closeBulk hides the popover. The typed text is kept for the next open.
func (m *Model) closeBulk() {
	m.popover.SetInput(m.bulkValue)
	m.popover.Close()
	m.bulkForm = nil
}

// updateBulkForm forwards msg to the embedded form and reacts to completion.
func (m *Model) updateBulkForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.closeBulk()
		return m, nil
	}

	formModel, cmd := m.bulkForm.Update(msg)
	if f, ok := formModel.(*huh.Form); ok {
		m.bulkForm = f
	}
	m.popover.SetInput(m.bulkValue)

	switch m.bulkForm.State {
	case huh.StateCompleted:
		m.bulkForm = nil
		return m, m.submitBulk(m.bulkValue)
	case huh.StateAborted:
		m.closeBulk()
		return m, nil
	}
	return m, cmd
}

// submitBulk validates text and starts the leading-id fetch. Invalid input
// leaves the popover open with an error status and issues nothing.
func (m *Model) submitBulk(text string) tea.Cmd {
	m.popover.SetInput(text)
	n, err := m.popover.Submit()
	if err != nil {
		m.setStatus(err.Error(), true)
		if m.popover.IsOpen() && m.bulkForm == nil && !m.popover.InFlight() {
			m.bulkForm = m.newBulkForm()
			return m.bulkForm.Init()
		}
		return nil
	}

	m.logger.Verbose("Selecting first %d artworks", n)
	ctx, cat := m.ctx, m.catalog
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ids, err := cat.FetchLeadingIdentifiers(ctx, n)
		return bulkResultMsg{count: n, ids: ids, err: err}
	})
}

func (m *Model) handleBulkResult(msg bulkResultMsg) {
	if msg.err != nil {
		m.logger.Error("Select first %d failed: %v", msg.count, msg.err)
		m.popover.Fail(msg.err)
		m.setStatus("", false)
		return
	}
	m.popover.Complete(msg.ids, m.selection)
	m.bulkValue = ""
	added := m.popover.LastAdded()
	m.logger.Info("Added %d artworks to selection (total %d)", added, m.selection.SelectedCount())
	if added < msg.count {
		m.setStatus(fmt.Sprintf("Added %d of %d requested artworks to selection", added, msg.count), false)
		return
	}
	m.setStatus(fmt.Sprintf("Added %d artworks to selection", added), false)
}

func (m *Model) renderPopover() string {
	if !m.popover.IsOpen() {
		return ""
	}
	if m.popover.InFlight() {
		return m.styles.Popover.Render(m.spinner.View() + " " + m.styles.Running.Render("Fetching artworks..."))
	}
	if m.bulkForm == nil {
		return ""
	}
	hint := m.styles.KeyHint.Render("enter submit · esc close")
	return m.styles.Popover.Render(m.bulkForm.View() + "\n" + hint)
}
