package ir

import (
	"slices"
	"strconv"
)

// Handle identifies an object within a session's object store.
// Handles are dense and increase monotonically from 1.
type Handle int32

// InvalidHandle is the sentinel meaning "no object".
const InvalidHandle Handle = 0

// Valid reports whether h refers to an object slot.
func (h Handle) Valid() bool { return h > InvalidHandle }

func (h Handle) String() string {
	if !h.Valid() {
		return "<invalid>"
	}
	return "#" + strconv.Itoa(int(h))
}

// HandleSet is an ordered set of handles, kept sorted ascending.
type HandleSet struct {
	items []Handle
}

// Insert adds h if absent. Returns true if the set changed.
func (s *HandleSet) Insert(h Handle) bool {
	i, found := slices.BinarySearch(s.items, h)
	if found {
		return false
	}
	s.items = slices.Insert(s.items, i, h)
	return true
}

// Remove deletes h if present.
func (s *HandleSet) Remove(h Handle) bool {
	i, found := slices.BinarySearch(s.items, h)
	if !found {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true
}

// Contains reports whether h is in the set.
func (s *HandleSet) Contains(h Handle) bool {
	_, found := slices.BinarySearch(s.items, h)
	return found
}

// Len returns the number of handles in the set.
func (s *HandleSet) Len() int { return len(s.items) }

// At returns the i-th handle in ascending order (0-based).
func (s *HandleSet) At(i int) Handle { return s.items[i] }

// Slice returns a copy of the members in ascending order.
func (s *HandleSet) Slice() []Handle { return slices.Clone(s.items) }
