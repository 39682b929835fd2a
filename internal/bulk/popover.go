// Package bulk implements the "select the first N records" popover state.
package bulk

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tturner/artsel/internal/selection"
)

const (
	MinCount        = 1
	DefaultMaxCount = 100
)

var (
	ErrEmpty   = errors.New("enter a number of rows")
	ErrBusy    = errors.New("a bulk selection is already running")
	ErrInvalid = errors.New("not a whole number")
)

// RangeError reports a count outside [MinCount, Max].
type RangeError struct {
	Value int
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("rows must be between %d and %d, got %d", MinCount, e.Max, e.Value)
}

// Popover is the bulk-select form: a bounded count, one request at a time.
type Popover struct {
	max      int
	open     bool
	input    string
	inflight bool
	alert    string
	added    int
}

// New returns a closed popover accepting counts up to max.
func New(max int) *Popover {
	if max < MinCount || max > DefaultMaxCount {
		max = DefaultMaxCount
	}
	return &Popover{max: max}
}

// Max is the largest accepted count.
func (p *Popover) Max() int { return p.max }

// IsOpen reports whether the popover is shown.
func (p *Popover) IsOpen() bool { return p.open }

// Open shows the popover.
func (p *Popover) Open() { p.open = true }

// Close hides the popover. The input is kept until a submit completes.
func (p *Popover) Close() { p.open = false }

// Input is the raw text entered so far.
func (p *Popover) Input() string { return p.input }

// SetInput replaces the entered text. Ignored while a request is in flight.
func (p *Popover) SetInput(s string) {
	if p.inflight {
		return
	}
	p.input = s
}

// ParseCount validates text as a row count.
func (p *Popover) ParseCount(text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, ErrEmpty
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, ErrInvalid
	}
	if n < MinCount || n > p.max {
		return 0, &RangeError{Value: n, Max: p.max}
	}
	return n, nil
}

// Validate is ParseCount without the value, for form field validators.
func (p *Popover) Validate(text string) error {
	_, err := p.ParseCount(text)
	return err
}

// CanSubmit is false for empty or invalid input and while a request is in
// flight; the submit control is disabled in those cases.
func (p *Popover) CanSubmit() bool {
	if p.inflight {
		return false
	}
	_, err := p.ParseCount(p.input)
	return err == nil
}

// InFlight reports whether a bulk request is outstanding.
func (p *Popover) InFlight() bool { return p.inflight }

// Submit validates the input and marks a request in flight. The caller
// issues the fetch only when err is nil.
func (p *Popover) Submit() (int, error) {
	if p.inflight {
		return 0, ErrBusy
	}
	n, err := p.ParseCount(p.input)
	if err != nil {
		return 0, err
	}
	p.inflight = true
	p.alert = ""
	return n, nil
}

// Complete merges ids into sel, closes the popover and clears the input.
func (p *Popover) Complete(ids []int64, sel *selection.Set) {
	sel.AddAll(ids)
	p.added = len(ids)
	p.finish()
}

// Fail records an alert. The selection is not touched.
func (p *Popover) Fail(err error) {
	p.alert = fmt.Sprintf("Failed to fetch artworks for selection: %v", err)
	p.added = 0
	p.finish()
}

// Alert is the pending failure message, empty if none.
func (p *Popover) Alert() string { return p.alert }

// DismissAlert clears the failure message.
func (p *Popover) DismissAlert() { p.alert = "" }

// LastAdded is the number of ids returned by the last successful submit.
func (p *Popover) LastAdded() int { return p.added }

func (p *Popover) finish() {
	p.inflight = false
	p.open = false
	p.input = ""
}
