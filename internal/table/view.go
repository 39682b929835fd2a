// Package table holds the paginated table state independent of rendering.
package table

import (
	"fmt"

	"github.com/tturner/artsel/internal/catalog"
	"github.com/tturner/artsel/internal/selection"
)

// State is the page-loading state of the view.
type State int

const (
	Idle State = iota
	Loading
	Loaded
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Error:
		return "error"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Request tags one page fetch. Only the most recently issued request may
// change what the view displays.
type Request struct {
	Page int
	Seq  uint64
}

// View is the paginated table: the page on display, its records, the
// paginator totals and a row cursor.
type View struct {
	pageSize int

	state   State
	seq     uint64
	pending int

	page       int
	records    []catalog.Record
	total      int
	totalPages int
	err        error

	cursor int
}

// New returns an Idle view.
func New(pageSize int) *View {
	if pageSize < 1 {
		pageSize = 1
	}
	return &View{pageSize: pageSize, state: Idle}
}

// Begin moves the view to Loading for page and returns the request tag.
// A newer Begin supersedes any request still in flight.
func (v *View) Begin(page int) Request {
	if page < 1 {
		page = 1
	}
	v.seq++
	v.pending = page
	v.state = Loading
	return Request{Page: page, Seq: v.seq}
}

// Current reports whether req is the most recently issued request.
func (v *View) Current(req Request) bool {
	return req.Seq == v.seq && req.Page == v.pending
}

// Complete applies a successful response. Stale responses are dropped and
// reported false.
func (v *View) Complete(req Request, resp *catalog.PageResponse) bool {
	if !v.Current(req) || v.state != Loading {
		return false
	}
	if resp == nil {
		return v.Fail(req, fmt.Errorf("page %d: empty response", req.Page))
	}

	v.state = Loaded
	v.err = nil
	v.page = req.Page
	v.records = resp.Data
	v.total = resp.Pagination.Total
	v.totalPages = resp.Pagination.TotalPages
	if v.totalPages == 0 && v.total > 0 {
		v.totalPages = (v.total + v.pageSize - 1) / v.pageSize
	}
	if resp.Pagination.CurrentPage > 0 {
		v.page = resp.Pagination.CurrentPage
	}
	v.clampCursor()
	return true
}

// Fail records a failed fetch. The previously displayed page, its records
// and the paginator totals are kept. Stale failures are dropped.
func (v *View) Fail(req Request, err error) bool {
	if !v.Current(req) || v.state != Loading {
		return false
	}
	v.state = Error
	v.err = err
	return true
}

// State returns the current load state.
func (v *View) State() State { return v.state }

// Loading reports whether a page fetch is outstanding.
func (v *View) Loading() bool { return v.state == Loading }

// CanRequest is false while a fetch is outstanding; the paginator is
// disabled until it resolves.
func (v *View) CanRequest() bool { return v.state != Loading }

// Err is the error of the last failed fetch, if the view is in Error.
func (v *View) Err() error { return v.err }

// Records are the rows on display.
func (v *View) Records() []catalog.Record { return v.records }

// Page is the 1-based page on display, 0 before the first success.
func (v *View) Page() int { return v.page }

// PendingPage is the page of the outstanding or last issued request.
func (v *View) PendingPage() int { return v.pending }

// Total is the catalog's record count from the last successful response.
func (v *View) Total() int { return v.total }

// TotalPages is the page count from the last successful response.
func (v *View) TotalPages() int { return v.totalPages }

// PageSize is the number of rows per page.
func (v *View) PageSize() int { return v.pageSize }

// First is the zero-based offset of the first row on display.
func (v *View) First() int {
	if v.page < 1 {
		return 0
	}
	return (v.page - 1) * v.pageSize
}

// Goto clamps page into the known range and reports whether a fetch should
// be issued for it.
func (v *View) Goto(page int) (int, bool) {
	if !v.CanRequest() {
		return 0, false
	}
	if v.totalPages > 0 && page > v.totalPages {
		page = v.totalPages
	}
	if page < 1 {
		page = 1
	}
	if page == v.page && v.state == Loaded {
		return page, false
	}
	return page, true
}

// NextPage is the page after the one on display.
func (v *View) NextPage() (int, bool) {
	if v.totalPages > 0 && v.page >= v.totalPages {
		return 0, false
	}
	return v.Goto(v.page + 1)
}

// PrevPage is the page before the one on display.
func (v *View) PrevPage() (int, bool) {
	if v.page <= 1 {
		return 0, false
	}
	return v.Goto(v.page - 1)
}

// FirstPage jumps to page 1.
func (v *View) FirstPage() (int, bool) { return v.Goto(1) }

// LastPage jumps to the last known page.
func (v *View) LastPage() (int, bool) {
	if v.totalPages == 0 {
		return 0, false
	}
	return v.Goto(v.totalPages)
}

// Reload re-requests the page on display, or page 1 before any success.
func (v *View) Reload() (int, bool) {
	if !v.CanRequest() {
		return 0, false
	}
	if v.page < 1 {
		return 1, true
	}
	return v.page, true
}

// Cursor is the highlighted row index.
func (v *View) Cursor() int { return v.cursor }

// MoveCursor moves the highlighted row by delta, clamped to the page.
func (v *View) MoveCursor(delta int) {
	v.cursor += delta
	v.clampCursor()
}

// CurrentRecord is the highlighted record.
func (v *View) CurrentRecord() (catalog.Record, bool) {
	if v.cursor < 0 || v.cursor >= len(v.records) {
		return catalog.Record{}, false
	}
	return v.records[v.cursor], true
}

// VisibleIDs are the ids of the rows on display, in order.
func (v *View) VisibleIDs() []int64 {
	ids := make([]int64, len(v.records))
	for i, r := range v.records {
		ids[i] = r.ID
	}
	return ids
}

// ToggleCurrent flips the highlighted row in sel.
func (v *View) ToggleCurrent(sel *selection.Set) (bool, bool) {
	rec, ok := v.CurrentRecord()
	if !ok {
		return false, false
	}
	return sel.Toggle(rec.ID), true
}

// ToggleAll selects every row on display, or deselects them all when they
// already are. Rows of other pages are not touched.
func (v *View) ToggleAll(sel *selection.Set) bool {
	if len(v.records) == 0 {
		return false
	}
	selected := !sel.AllSelected(v.records)
	sel.ToggleRange(v.VisibleIDs(), selected)
	return selected
}

// SetChecked replaces the selection of the visible rows with checked.
func (v *View) SetChecked(sel *selection.Set, checked []int64) {
	sel.ReplaceVisible(v.VisibleIDs(), checked)
}

// Checked is the selected subset of the rows on display.
func (v *View) Checked(sel *selection.Set) []catalog.Record {
	return sel.VisibleSelection(v.records)
}

func (v *View) clampCursor() {
	if v.cursor >= len(v.records) {
		v.cursor = len(v.records) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}
