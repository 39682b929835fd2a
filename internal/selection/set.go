// Package selection tracks which catalog records are selected, across pages.
//
// Membership is keyed by record identifier only. A selected id may belong to
// a page that is not loaded; it stays selected until an explicit toggle
// removes it.
package selection

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/tturner/artsel/internal/catalog"
)

// Set is the cross-page selection. The zero value is not usable; call New.
type Set struct {
	mu   sync.RWMutex
	bits *roaring64.Bitmap
}

// New returns an empty selection.
func New() *Set {
	return &Set{bits: roaring64.NewBitmap()}
}

// IsSelected reports whether id is selected.
func (s *Set) IsSelected(id int64) bool {
	if id < 0 {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bits.Contains(uint64(id))
}

// ToggleRange sets the membership of exactly ids to selected.
func (s *Set) ToggleRange(ids []int64, selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if id < 0 {
			continue
		}
		if selected {
			s.bits.Add(uint64(id))
		} else {
			s.bits.Remove(uint64(id))
		}
	}
}

// ReplaceVisible applies a page-level selection change: every visible id is
// deselected, then the checked ones are selected. Ids outside visible are
// left alone, even if they appear in checked.
func (s *Set) ReplaceVisible(visible, checked []int64) {
	onPage := make(map[int64]struct{}, len(visible))
	for _, id := range visible {
		onPage[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range visible {
		if id >= 0 {
			s.bits.Remove(uint64(id))
		}
	}
	for _, id := range checked {
		if _, ok := onPage[id]; ok && id >= 0 {
			s.bits.Add(uint64(id))
		}
	}
}

// Toggle flips one id and returns its new state.
func (s *Set) Toggle(id int64) bool {
	if id < 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bits.Contains(uint64(id)) {
		s.bits.Remove(uint64(id))
		return false
	}
	s.bits.Add(uint64(id))
	return true
}

// AddAll merges ids into the selection. It never deselects.
func (s *Set) AddAll(ids []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if id >= 0 {
			s.bits.Add(uint64(id))
		}
	}
}

// SelectedCount is the number of selected ids across all pages.
func (s *Set) SelectedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int(s.bits.GetCardinality())
}

// VisibleSelection returns the selected records of a page in page order.
func (s *Set) VisibleSelection(records []catalog.Record) []catalog.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.Record, 0, len(records))
	for _, r := range records {
		if r.ID >= 0 && s.bits.Contains(uint64(r.ID)) {
			out = append(out, r)
		}
	}
	return out
}

// AllSelected reports whether every record of a non-empty page is selected.
func (s *Set) AllSelected(records []catalog.Record) bool {
	if len(records) == 0 {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range records {
		if r.ID < 0 || !s.bits.Contains(uint64(r.ID)) {
			return false
		}
	}
	return true
}

// IDs returns the selected ids in ascending order.
func (s *Set) IDs() []int64 {
	s.mu.RLock()
	raw := s.bits.ToArray()
	s.mu.RUnlock()

	ids := make([]int64, len(raw))
	for i, v := range raw {
		ids[i] = int64(v)
	}
	return ids
}

// Clear deselects everything.
func (s *Set) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bits.Clear()
}
