package bulk

import (
	"errors"
	"strings"
	"testing"

	"github.com/tturner/artsel/internal/selection"
)

func TestParseCount(t *testing.T) {
	p := New(100)
	tests := []struct {
		in      string
		want    int
		wantErr error
	}{
		{"", 0, ErrEmpty},
		{"   ", 0, ErrEmpty},
		{"abc", 0, ErrInvalid},
		{"2.5", 0, ErrInvalid},
		{"1", 1, nil},
		{" 50 ", 50, nil},
		{"100", 100, nil},
	}
	for _, tt := range tests {
		got, err := p.ParseCount(tt.in)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ParseCount(%q) error = %v, want %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}

	for _, in := range []string{"0", "-3", "101"} {
		_, err := p.ParseCount(in)
		var rangeErr *RangeError
		if !errors.As(err, &rangeErr) {
			t.Errorf("ParseCount(%q) error = %v, want RangeError", in, err)
		}
	}
}

func TestNewClampsMax(t *testing.T) {
	if New(0).Max() != DefaultMaxCount {
		t.Error("max 0 should fall back to default")
	}
	if New(500).Max() != DefaultMaxCount {
		t.Error("max above catalog limit should fall back to default")
	}
	p := New(10)
	if _, err := p.ParseCount("11"); err == nil {
		t.Error("11 should exceed max 10")
	}
}

func TestEmptySubmitRejected(t *testing.T) {
	p := New(100)
	p.Open()
	if p.CanSubmit() {
		t.Error("submit should be disabled with no value")
	}
	if _, err := p.Submit(); !errors.Is(err, ErrEmpty) {
		t.Errorf("Submit() error = %v, want ErrEmpty", err)
	}
	if p.InFlight() {
		t.Error("rejected submit must not start a request")
	}
}

func TestSubmitCompleteFlow(t *testing.T) {
	p := New(100)
	sel := selection.New()
	p.Open()
	p.SetInput("50")

	if !p.CanSubmit() {
		t.Fatal("valid input should enable submit")
	}
	n, err := p.Submit()
	if err != nil || n != 50 {
		t.Fatalf("Submit() = %d, %v", n, err)
	}
	if !p.InFlight() || p.CanSubmit() {
		t.Error("submit should be disabled while in flight")
	}
	if _, err := p.Submit(); !errors.Is(err, ErrBusy) {
		t.Errorf("second Submit() error = %v, want ErrBusy", err)
	}
	p.SetInput("7")
	if p.Input() != "50" {
		t.Error("input is frozen while in flight")
	}

	ids := make([]int64, 50)
	for i := range ids {
		ids[i] = int64(1000 + i)
	}
	p.Complete(ids, sel)

	if sel.SelectedCount() != 50 {
		t.Errorf("count = %d, want 50", sel.SelectedCount())
	}
	got := sel.IDs()
	for i := range ids {
		if got[i] != ids[i] {
			t.Fatalf("id %d = %d, want %d", i, got[i], ids[i])
		}
	}
	if p.IsOpen() || p.Input() != "" || p.InFlight() {
		t.Error("popover should close and reset after success")
	}
	if p.LastAdded() != 50 {
		t.Errorf("LastAdded() = %d", p.LastAdded())
	}
}

func TestFailLeavesSelection(t *testing.T) {
	p := New(100)
	sel := selection.New()
	sel.AddAll([]int64{1, 2})
	p.Open()
	p.SetInput("5")
	if _, err := p.Submit(); err != nil {
		t.Fatal(err)
	}

	p.Fail(errors.New("HTTP 500"))

	if sel.SelectedCount() != 2 {
		t.Error("selection must be unchanged on failure")
	}
	if !strings.Contains(p.Alert(), "HTTP 500") {
		t.Errorf("Alert() = %q", p.Alert())
	}
	if p.InFlight() {
		t.Error("submit should re-enable after failure")
	}
	p.DismissAlert()
	if p.Alert() != "" {
		t.Error("alert should clear")
	}
}

func TestCloseKeepsInput(t *testing.T) {
	p := New(100)
	p.Open()
	if !p.IsOpen() {
		t.Error("Open should show the popover")
	}
	p.SetInput("3")
	p.Close()
	if p.IsOpen() || p.Input() != "3" {
		t.Error("Close keeps the input")
	}
}
