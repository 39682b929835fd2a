package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/tturner/artsel/internal/bulk"
	"github.com/tturner/artsel/internal/catalog"
	apperrors "github.com/tturner/artsel/internal/errors"
	"github.com/tturner/artsel/internal/logging"
	"github.com/tturner/artsel/internal/metrics"
	"github.com/tturner/artsel/internal/selection"
	"github.com/tturner/artsel/internal/table"
)

// Catalog is the data source behind the table.
type Catalog interface {
	FetchPage(ctx context.Context, page int) (*catalog.PageResponse, error)
	FetchLeadingIdentifiers(ctx context.Context, limit int) ([]int64, error)
}

// statsSource is implemented by catalogs that keep request metrics.
type statsSource interface {
	Stats() *metrics.Summary
}

// Options configures a Model.
type Options struct {
	PageSize int
	MaxCount int
	Logger   *logging.Logger
	// Clipboard overrides the system clipboard writer.
	Clipboard func(string) error
}

// pageResultMsg carries the outcome of a page request.
type pageResultMsg struct {
	req  table.Request
	resp *catalog.PageResponse
	err  error
}

// Model is the main TUI model.
type Model struct {
	ctx     context.Context
	catalog Catalog
	logger  *logging.Logger

	styles  Styles
	layout  Layout
	keys    keyMap
	help    help.Model
	spinner spinner.Model

	view      *table.View
	selection *selection.Set
	popover   *bulk.Popover

	bulkForm  *huh.Form
	bulkValue string

	clipboard func(string) error
	status    string
	statusErr bool
	showHelp  bool
	quitting  bool
}

// NewModel creates a new TUI model.
func NewModel(ctx context.Context, cat Catalog, opts Options) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	pageSize := opts.PageSize
	if pageSize < 1 {
		pageSize = 12
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = DefaultStyles.Running

	return &Model{
		ctx:       ctx,
		catalog:   cat,
		logger:    logger,
		styles:    DefaultStyles,
		layout:    NewLayout(DefaultWidth, DefaultHeight),
		keys:      defaultKeyMap(),
		help:      help.New(),
		spinner:   s,
		view:      table.New(pageSize),
		selection: selection.New(),
		popover:   bulk.New(opts.MaxCount),
		clipboard: opts.Clipboard,
	}
}

// Selection is the cross-page selection.
func (m *Model) Selection() *selection.Set { return m.selection }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchPage(1), m.spinner.Tick)
}

// fetchPage marks page loading and returns the command that fetches it.
func (m *Model) fetchPage(page int) tea.Cmd {
	req := m.view.Begin(page)
	m.logger.Debug("Loading page %d (seq %d)", req.Page, req.Seq)
	ctx, cat := m.ctx, m.catalog
	return func() tea.Msg {
		resp, err := cat.FetchPage(ctx, req.Page)
		return pageResultMsg{req: req, resp: resp, err: err}
	}
}

func (m *Model) gotoPage(page int, ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	return tea.Batch(m.fetchPage(page), m.spinner.Tick)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = NewLayout(msg.Width, msg.Height)
		m.help.Width = m.layout.ContentWidth
		return m, nil

	case spinner.TickMsg:
		if !m.view.Loading() && !m.popover.InFlight() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pageResultMsg:
		m.handlePageResult(msg)
		return m, nil

	case bulkResultMsg:
		m.handleBulkResult(msg)
		return m, nil

	case clipboardCopyMsg:
		if msg.err != nil {
			m.logger.Error("Clipboard copy failed: %v", msg.err)
			m.setStatus(fmt.Sprintf("Copy failed: %v", msg.err), true)
		} else {
			m.setStatus(fmt.Sprintf("Copied %d ids to clipboard", msg.count), false)
		}
		return m, nil
	}

	if m.bulkForm != nil {
		return m.updateBulkForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handlePageResult(msg pageResultMsg) {
	if msg.err != nil {
		if !m.view.Fail(msg.req, msg.err) {
			m.logger.Debug("Discarded stale failure for page %d", msg.req.Page)
			return
		}
		m.logger.Error("Load page %d failed: %v", msg.req.Page, msg.err)
		m.setStatus("", false)
		return
	}
	if !m.view.Complete(msg.req, msg.resp) {
		m.logger.Debug("Discarded stale response for page %d", msg.req.Page)
		return
	}
	m.logger.Verbose("Loaded page %d/%d (%d rows)", m.view.Page(), m.view.TotalPages(), len(m.view.Records()))
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	// The failure alert is modal: any key dismisses it.
	if m.popover.Alert() != "" {
		m.popover.DismissAlert()
		return m, nil
	}

	switch {
	case msg.String() == "esc":
		if m.popover.IsOpen() && !m.popover.InFlight() {
			m.closeBulk()
		}
		m.showHelp = false
		m.help.ShowAll = false
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.view.MoveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.view.MoveCursor(1)

	case key.Matches(msg, m.keys.Toggle):
		if selected, ok := m.view.ToggleCurrent(m.selection); ok {
			rec, _ := m.view.CurrentRecord()
			m.logger.Debug("Toggled %d selected=%t", rec.ID, selected)
		}
	case key.Matches(msg, m.keys.ToggleAll):
		m.view.ToggleAll(m.selection)
	case key.Matches(msg, m.keys.Invert):
		m.invertPage()

	case key.Matches(msg, m.keys.Next):
		return m, m.gotoPage(m.view.NextPage())
	case key.Matches(msg, m.keys.Prev):
		return m, m.gotoPage(m.view.PrevPage())
	case key.Matches(msg, m.keys.First):
		return m, m.gotoPage(m.view.FirstPage())
	case key.Matches(msg, m.keys.Last):
		return m, m.gotoPage(m.view.LastPage())
	case key.Matches(msg, m.keys.Reload):
		return m, m.gotoPage(m.view.Reload())

	case key.Matches(msg, m.keys.Bulk):
		return m, m.openBulk()

	case key.Matches(msg, m.keys.Clear):
		m.selection.Clear()
		m.setStatus("Selection cleared", false)

	case key.Matches(msg, m.keys.Copy):
		ids := m.selection.IDs()
		if len(ids) == 0 {
			m.setStatus("Nothing selected", true)
			return m, nil
		}
		return m, copyToClipboard(m.clipboard, ids)
	}
	return m, nil
}

// invertPage selects the unselected rows on display and deselects the rest.
func (m *Model) invertPage() {
	var checked []int64
	for _, id := range m.view.VisibleIDs() {
		if !m.selection.IsSelected(id) {
			checked = append(checked, id)
		}
	}
	m.view.SetChecked(m.selection, checked)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	s := m.styles

	title := s.Title.Render("Artworks") + " " + SelectionBadge(m.selection.SelectedCount(), s)

	records := m.view.Records()
	all := m.selection.AllSelected(records)
	some := len(m.view.Checked(m.selection)) > 0
	tbl := RecordTable{
		Records:   records,
		Selection: m.selection,
		Widths:    m.layout.Columns(),
		Cursor:    m.view.Cursor(),
		Header:    PartialCheckboxIcon(all, some, s),
	}
	if m.view.State() == table.Idle || (m.view.Loading() && m.view.Page() < 1) {
		tbl.Empty = "Loading artworks..."
	}
	boxTitle := "CATALOG"
	if m.view.Page() > 0 {
		boxTitle = fmt.Sprintf("CATALOG · PAGE %d", m.view.Page())
	}
	box := SectionBox(boxTitle, tbl.Render(s), m.layout.Width, s)

	pager := PaginatorLine(m.view.First(), len(records), m.view.Total(), m.view.Page(), m.view.TotalPages(), m.view.CanRequest(), s)
	if m.view.Loading() {
		pager += "  " + m.spinner.View() + s.Running.Render(fmt.Sprintf(" Loading page %d...", m.view.PendingPage()))
	}

	var notice string
	if err := m.view.Err(); err != nil && !m.view.Loading() {
		notice = s.Error.Render("✗ " + describeError(err, "load artworks"))
	}
	if alert := m.popover.Alert(); alert != "" {
		notice = s.Alert.Render(alert + "\n" + s.KeyHint.Render("press any key to dismiss"))
	}

	var status string
	if m.status != "" {
		if m.statusErr {
			status = s.Warning.Render(m.status)
		} else {
			status = s.Success.Render(m.status)
		}
	}

	var stats string
	if src, ok := m.catalog.(statsSource); ok && m.showHelp {
		stats = s.Dim.Render("Requests: " + src.Stats().String())
	}

	return JoinVertical(0,
		title,
		box,
		pager,
		m.renderPopover(),
		notice,
		status,
		s.Footer.Render(m.help.View(m.keys)),
		stats,
	)
}

// describeError renders err on a single status line.
func describeError(err error, operation string) string {
	var ufe apperrors.UserFriendlyError
	if apperrors.As(err, &ufe) {
		return ufe.Summary()
	}
	if apperrors.As(apperrors.WrapNetworkError(err, operation), &ufe) {
		return ufe.Summary()
	}
	return strings.TrimSpace(err.Error())
}
